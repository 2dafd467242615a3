package raytracer

import (
	"fmt"
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// World bundles a scene builder with its preferred camera pose, the way a
// host binary consumes it: look up a world by name, build the scene, aim
// the camera, render, save.
type World struct {
	Name           string
	LookingFrom    prim.Point
	LookingAt      prim.Point
	OutputFilename string
	Background     Background
	AddTo          func(*Scene) error
	Anchors        []Anchor // optional camera animation
}

// Worlds returns the built-in example worlds, keyed by name.
func Worlds() map[string]*World {
	worlds := []*World{
		ExampleArtWorld(),
		ExampleBoxWorld(),
		ExampleGlassWorld(),
		ExampleOverlapWorld(),
	}
	byName := make(map[string]*World, len(worlds))
	for _, w := range worlds {
		byName[w.Name] = w
	}
	return byName
}

// skyGradient fades from a horizon tint to sky blue with ray altitude.
func skyGradient(ray prim.Ray) Color {
	t := 0.5 * (ray.Direction.Z + 1.0)
	return White.Lerp(SkyBlue, t)
}

// ExampleArtWorld scatters reflective and textured solids over a
// checkered floor.
func ExampleArtWorld() *World {
	return &World{
		Name:           "art",
		LookingFrom:    prim.Point{X: -14, Y: 0, Z: 6},
		LookingAt:      prim.Point{X: 0, Y: 0, Z: 1},
		OutputFilename: "art.tga",
		Background:     skyGradient,
		AddTo: func(s *Scene) error {
			floor, err := NewPlane(prim.Origin, prim.BasisZ)
			if err != nil {
				return err
			}
			checkers := NewCheckerboard(0.5, White, DarkGray, 0.1, 20)
			floor.SetMaterial(checkers)

			mirror, err := NewSphere(prim.Point{X: 2, Y: -3, Z: 2}, 2)
			if err != nil {
				return err
			}
			mirror.SetMaterial(Silver)

			glass, err := NewSphere(prim.Point{X: -2, Y: 2.5, Z: 1.5}, 1.5)
			if err != nil {
				return err
			}
			glass.SetMaterial(Glass)

			donut, err := NewTorus(prim.Point{X: 1, Y: 3.5, Z: 0.8}, 1.6, 0.5)
			if err != nil {
				return err
			}
			donut.SetMaterial(Copper)

			marble, err := NewCuboid(prim.Point{X: 4, Y: 2, Z: 1}, 1, 1, 1)
			if err != nil {
				return err
			}
			veins := NewTurbSin(1.5, 4, White, DarkGray, 0.05, 30)
			marble.SetMaterial(veins)

			spike, err := NewCone(prim.Point{X: -1, Y: -2, Z: 3}, 3, math.Pi/8)
			if err != nil {
				return err
			}
			spike.RotateBy(math.Pi, 0, 0) // apex up
			spike.SetMaterial(Gold)

			for _, o := range []Object{floor, mirror, glass, donut, marble, spike} {
				s.AddObject(o)
			}

			bulb, err := NewBulbLight(prim.Point{X: -6, Y: -6, Z: 12}, 1.5, White, 300, 16)
			if err != nil {
				return err
			}
			s.AddLight(bulb)
			s.AddLight(NewPointLight(prim.Point{X: 8, Y: 6, Z: 10}, RGB(0.9, 0.9, 1), 150))
			s.SetMedia(EarthAtmosphere)
			return nil
		},
	}
}

// ExampleBoxWorld is an enclosed room with colored side walls, a matte
// block and a mirrored ball, lit from a ceiling bulb.
func ExampleBoxWorld() *World {
	const half = 5.0
	return &World{
		Name:           "box",
		LookingFrom:    prim.Point{X: -14, Y: 0, Z: half},
		LookingAt:      prim.Point{X: 0, Y: 0, Z: half},
		OutputFilename: "box.tga",
		Background:     func(prim.Ray) Color { return Black },
		AddTo: func(s *Scene) error {
			type wallSpec struct {
				center prim.Point
				normal prim.Vec3
				color  Color
			}
			specs := []wallSpec{
				{center: prim.Point{Z: 0}, normal: prim.BasisZ, color: LightGray},
				{center: prim.Point{Z: 2 * half}, normal: prim.BasisZ.Neg(), color: LightGray},
				{center: prim.Point{X: half}, normal: prim.BasisX.Neg(), color: LightGray},
				{center: prim.Point{Y: -half}, normal: prim.BasisY, color: Red},
				{center: prim.Point{Y: half}, normal: prim.BasisY.Neg(), color: Green},
			}
			for _, spec := range specs {
				wall, err := NewSquare(spec.center, spec.normal, half, half)
				if err != nil {
					return err
				}
				wall.SetMaterial(NewPlain(spec.color.Scale(0.1), 0.3, spec.color, 0, 5))
				s.AddObject(wall)
			}

			block, err := NewCuboid(prim.Point{X: 1.5, Y: -1.5, Z: 1.6}, 1, 1, 1.6)
			if err != nil {
				return err
			}
			block.RotateBy(0, 0, math.Pi/9)
			block.SetMaterial(NewPlain(Gray.Scale(0.1), 0.3, LightGray, 0, 5))

			ball, err := NewSphere(prim.Point{X: 0.5, Y: 1.8, Z: 1.2}, 1.2)
			if err != nil {
				return err
			}
			ball.SetMaterial(Stainless)

			s.AddObject(block)
			s.AddObject(ball)

			bulb, err := NewBulbLight(prim.Point{X: 0, Y: 0, Z: 2*half - 0.8}, 0.6, White, 220, 25)
			if err != nil {
				return err
			}
			s.AddLight(bulb)
			return nil
		},
	}
}

// ExampleGlassWorld focuses light through nested refractive spheres.
func ExampleGlassWorld() *World {
	return &World{
		Name:           "glass",
		LookingFrom:    prim.Point{X: -10, Y: -4, Z: 3},
		LookingAt:      prim.Point{X: 0, Y: 0, Z: 1.5},
		OutputFilename: "glass.tga",
		Background:     skyGradient,
		AddTo: func(s *Scene) error {
			floor, err := NewPlane(prim.Origin, prim.BasisZ)
			if err != nil {
				return err
			}
			floor.SetMaterial(NewGrid(0.25, DarkGray, White, 0.05, 10))

			outer, err := NewSphere(prim.Point{X: 0, Y: 0, Z: 2}, 1.8)
			if err != nil {
				return err
			}
			outer.SetMaterial(Glass)

			inner, err := NewSphere(prim.Point{X: 0, Y: 0, Z: 2}, 0.9)
			if err != nil {
				return err
			}
			inner.SetMaterial(Water)

			halo, err := NewRing(prim.Point{X: 0, Y: 0, Z: 0.02}, prim.BasisZ, 2.2, 3.2)
			if err != nil {
				return err
			}
			halo.SetMaterial(Copper)

			gem, err := NewEllipsoid(prim.Point{X: 2.5, Y: 2, Z: 0.7}, 1.1, 0.7, 0.7)
			if err != nil {
				return err
			}
			gem.SetMaterial(NewTransparent(IndexDiamond, 0.05, RGB(0.9, 0.95, 1)))

			for _, o := range []Object{floor, outer, inner, halo, gem} {
				s.AddObject(o)
			}

			beam, err := NewBeamLight(prim.Vec3{X: 0.3, Y: 0.2, Z: -1}, White, 0.9)
			if err != nil {
				return err
			}
			s.AddLight(beam)
			s.AddLight(NewPointLight(prim.Point{X: -6, Y: -8, Z: 9}, White, 200))
			return nil
		},
	}
}

// ExampleOverlapWorld shows the subtractive, inclusive and additive CSG
// operations: a hollowed shell, a lens, and a fused pair.
func ExampleOverlapWorld() *World {
	return &World{
		Name:           "overlap",
		LookingFrom:    prim.Point{X: -12, Y: 0, Z: 5},
		LookingAt:      prim.Point{X: 0, Y: 0, Z: 1.5},
		OutputFilename: "overlap.tga",
		Background:     skyGradient,
		AddTo: func(s *Scene) error {
			floor, err := NewPlane(prim.Origin, prim.BasisZ)
			if err != nil {
				return err
			}
			floor.SetMaterial(NewCheckerboard(0.5, LightGray, Gray, 0, 10))

			shell, err := csgShell()
			if err != nil {
				return err
			}
			shell.MoveTo(prim.Point{X: 0, Y: -3.5, Z: 1.6})
			shell.SetMaterial(NewPlain(Red.Scale(0.1), 0.3, Red, 0.2, 30))

			lens, err := csgLens()
			if err != nil {
				return err
			}
			lens.MoveTo(prim.Point{X: 0, Y: 0, Z: 1.6})
			lens.SetMaterial(Glass)

			fused, err := csgFused()
			if err != nil {
				return err
			}
			fused.MoveTo(prim.Point{X: 0, Y: 3.5, Z: 1.6})
			fused.SetMaterial(Stainless)

			for _, o := range []Object{floor, shell, lens, fused} {
				s.AddObject(o)
			}

			spot, err := NewSpotLight(prim.Point{X: -8, Y: 0, Z: 12}, prim.Vec3{X: 0.5, Y: 0, Z: -1}, math.Pi/4, White, 400)
			if err != nil {
				return err
			}
			s.AddLight(spot)
			s.AddLight(NewPointLight(prim.Point{X: 6, Y: -6, Z: 8}, White, 120))
			return nil
		},
	}
}

func csgShell() (*Overlap, error) {
	outer, err := NewSphere(prim.Origin, 1.6)
	if err != nil {
		return nil, err
	}
	inner, err := NewSphere(prim.Origin, 1.2)
	if err != nil {
		return nil, err
	}
	return NewOverlap(outer, inner, Subtractive)
}

func csgLens() (*Overlap, error) {
	a, err := NewSphere(prim.Point{X: -0.9}, 1.4)
	if err != nil {
		return nil, err
	}
	b, err := NewSphere(prim.Point{X: 0.9}, 1.4)
	if err != nil {
		return nil, err
	}
	return NewOverlap(a, b, Inclusive)
}

func csgFused() (*Overlap, error) {
	a, err := NewSphere(prim.Point{Y: -0.8}, 1.2)
	if err != nil {
		return nil, err
	}
	b, err := NewSphere(prim.Point{Y: 0.8}, 1.2)
	if err != nil {
		return nil, err
	}
	return NewOverlap(a, b, Additive)
}

// Build constructs the world's scene and an aimed camera.
func (w *World) Build(imageHeight, imageWidth int, fieldOfView float64) (*Scene, *Camera, error) {
	scene := NewScene()
	if w.AddTo != nil {
		if err := w.AddTo(scene); err != nil {
			return nil, nil, fmt.Errorf("build world %q: %w", w.Name, err)
		}
	}
	if w.Background != nil {
		scene.SetBackground(w.Background)
	}
	view, err := NewCamera(imageHeight, imageWidth, fieldOfView)
	if err != nil {
		return nil, nil, err
	}
	if err := view.MoveTo(w.LookingFrom, w.LookingAt); err != nil {
		return nil, nil, err
	}
	return scene, view, nil
}

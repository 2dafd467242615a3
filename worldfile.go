package raytracer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// A world file is a YAML description of a scene: camera pose, mediums,
// objects and lights. It is the data-driven counterpart to the built-in
// example worlds.

type worldFile struct {
	Name   string `yaml:"name"`
	Output string `yaml:"output"`
	Camera struct {
		From []float64 `yaml:"from"`
		At   []float64 `yaml:"at"`
	} `yaml:"camera"`
	Background struct {
		Top    []float64 `yaml:"top"`
		Bottom []float64 `yaml:"bottom"`
	} `yaml:"background"`
	Media   string       `yaml:"media"`
	Mediums []mediumSpec `yaml:"mediums"`
	Objects []objectSpec `yaml:"objects"`
	Lights  []lightSpec  `yaml:"lights"`
	Anchors []anchorSpec `yaml:"anchors"`
}

type mediumSpec struct {
	Name       string    `yaml:"name"`
	Kind       string    `yaml:"kind"`
	Diffuse    []float64 `yaml:"diffuse"`
	Other      []float64 `yaml:"other"`
	Smoothness float64   `yaml:"smoothness"`
	Tightness  float64   `yaml:"tightness"`
	Eta        float64   `yaml:"eta"`
	Fade       float64   `yaml:"fade"`
	Repeats    float64   `yaml:"repeats"`
}

type objectSpec struct {
	Kind       string      `yaml:"kind"`
	Center     []float64   `yaml:"center"`
	Normal     []float64   `yaml:"normal"`
	Radius     float64     `yaml:"radius"`
	Inner      float64     `yaml:"inner"`
	Outer      float64     `yaml:"outer"`
	Ring       float64     `yaml:"ring"`
	Tube       float64     `yaml:"tube"`
	HalfWidth  []float64   `yaml:"half_widths"`
	HalfHeight float64     `yaml:"half_height"`
	Height     float64     `yaml:"height"`
	Angle      float64     `yaml:"angle"`
	Thickness  float64     `yaml:"thickness"`
	Points     [][]float64 `yaml:"points"`
	Medium     string      `yaml:"medium"`
}

type lightSpec struct {
	Kind      string    `yaml:"kind"`
	Position  []float64 `yaml:"position"`
	Direction []float64 `yaml:"direction"`
	Color     []float64 `yaml:"color"`
	Intensity float64   `yaml:"intensity"`
	Radius    float64   `yaml:"radius"`
	Samples   int       `yaml:"samples"`
	Cone      float64   `yaml:"cone"`
}

type anchorSpec struct {
	From     []float64 `yaml:"from"`
	At       []float64 `yaml:"at"`
	Fov      float64   `yaml:"fov"`
	ToFrom   []float64 `yaml:"to_from"`
	ToAt     []float64 `yaml:"to_at"`
	ToFov    float64   `yaml:"to_fov"`
	Duration float64   `yaml:"duration"`
}

func specPoint(v []float64) (prim.Point, error) {
	if len(v) != 3 {
		return prim.Point{}, fmt.Errorf("expected 3 components, got %d", len(v))
	}
	return prim.Point{X: v[0], Y: v[1], Z: v[2]}, nil
}

func specVec(v []float64) (prim.Vec3, error) {
	if len(v) != 3 {
		return prim.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(v))
	}
	return prim.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func specColor(v []float64, fallback Color) (Color, error) {
	if v == nil {
		return fallback, nil
	}
	if len(v) != 3 {
		return Color{}, fmt.Errorf("expected 3 color components, got %d", len(v))
	}
	return RGB(v[0], v[1], v[2]), nil
}

// LoadWorldFile parses a YAML world description into a World.
func LoadWorldFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWorld(data)
}

// ParseWorld builds a World from YAML bytes.
func ParseWorld(data []byte) (*World, error) {
	var wf worldFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse world: %w", err)
	}
	from, err := specPoint(wf.Camera.From)
	if err != nil {
		return nil, fmt.Errorf("camera.from: %w", err)
	}
	at, err := specPoint(wf.Camera.At)
	if err != nil {
		return nil, fmt.Errorf("camera.at: %w", err)
	}
	top, err := specColor(wf.Background.Top, SkyBlue)
	if err != nil {
		return nil, fmt.Errorf("background.top: %w", err)
	}
	bottom, err := specColor(wf.Background.Bottom, White)
	if err != nil {
		return nil, fmt.Errorf("background.bottom: %w", err)
	}

	world := &World{
		Name:           wf.Name,
		LookingFrom:    from,
		LookingAt:      at,
		OutputFilename: wf.Output,
		Background: func(ray prim.Ray) Color {
			t := 0.5 * (ray.Direction.Z + 1.0)
			return bottom.Lerp(top, t)
		},
	}
	for _, a := range wf.Anchors {
		anchor, err := buildAnchor(a)
		if err != nil {
			return nil, err
		}
		world.Anchors = append(world.Anchors, anchor)
	}
	world.AddTo = func(s *Scene) error {
		mediums := map[string]Medium{}
		for _, spec := range wf.Mediums {
			m, err := buildMedium(spec)
			if err != nil {
				return fmt.Errorf("medium %q: %w", spec.Name, err)
			}
			mediums[spec.Name] = m
		}
		for i, spec := range wf.Objects {
			o, err := buildObject(spec, mediums)
			if err != nil {
				return fmt.Errorf("object %d (%s): %w", i, spec.Kind, err)
			}
			s.AddObject(o)
		}
		for i, spec := range wf.Lights {
			l, err := buildLight(spec)
			if err != nil {
				return fmt.Errorf("light %d (%s): %w", i, spec.Kind, err)
			}
			s.AddLight(l)
		}
		switch wf.Media {
		case "", "vacuum":
			s.SetMedia(Vacuum)
		case "atmosphere":
			s.SetMedia(EarthAtmosphere)
		default:
			if m, ok := mediums[wf.Media]; ok {
				s.SetMedia(m)
			} else {
				return fmt.Errorf("unknown scene media %q", wf.Media)
			}
		}
		return nil
	}
	return world, nil
}

func buildAnchor(a anchorSpec) (Anchor, error) {
	from, err := specPoint(a.From)
	if err != nil {
		return Anchor{}, fmt.Errorf("anchor.from: %w", err)
	}
	at, err := specPoint(a.At)
	if err != nil {
		return Anchor{}, fmt.Errorf("anchor.at: %w", err)
	}
	toFrom, err := specPoint(a.ToFrom)
	if err != nil {
		return Anchor{}, fmt.Errorf("anchor.to_from: %w", err)
	}
	toAt, err := specPoint(a.ToAt)
	if err != nil {
		return Anchor{}, fmt.Errorf("anchor.to_at: %w", err)
	}
	return Anchor{
		Start:    CameraAttributes{From: from, At: at, Fov: a.Fov},
		Limit:    CameraAttributes{From: toFrom, At: toAt, Fov: a.ToFov},
		Duration: a.Duration,
	}, nil
}

func buildMedium(spec mediumSpec) (Medium, error) {
	diffuse, err := specColor(spec.Diffuse, Gray)
	if err != nil {
		return nil, err
	}
	other, err := specColor(spec.Other, DarkGray)
	if err != nil {
		return nil, err
	}
	tightness := spec.Tightness
	if tightness == 0 {
		tightness = 10
	}
	repeats := spec.Repeats
	if repeats == 0 {
		repeats = 1
	}
	switch spec.Kind {
	case "", "plain":
		return NewPlain(diffuse.Scale(0.1), 0.2, diffuse, spec.Smoothness, tightness), nil
	case "transparent":
		return NewTransparent(spec.Eta, spec.Fade, diffuse), nil
	case "checkerboard":
		return NewCheckerboard(repeats, diffuse, other, spec.Smoothness, tightness), nil
	case "stripes":
		return NewStripes(repeats, diffuse, other, spec.Smoothness, tightness), nil
	case "dots":
		return NewDots(repeats, diffuse, other, spec.Smoothness, tightness), nil
	case "grid":
		return NewGrid(repeats, diffuse, other, spec.Smoothness, tightness), nil
	case "perlin":
		return NewPerlin(repeats, diffuse, other, spec.Smoothness, tightness), nil
	case "marble":
		return NewTurbSin(repeats, 4, diffuse, other, spec.Smoothness, tightness), nil
	case "copper":
		return Copper, nil
	case "gold":
		return Gold, nil
	case "silver":
		return Silver, nil
	case "stainless":
		return Stainless, nil
	case "glass":
		return Glass, nil
	case "water":
		return Water, nil
	default:
		return nil, fmt.Errorf("unknown medium kind %q", spec.Kind)
	}
}

func buildObject(spec objectSpec, mediums map[string]Medium) (Object, error) {
	center, err := specPoint(spec.Center)
	if err != nil && spec.Kind != "polygon" {
		return nil, fmt.Errorf("center: %w", err)
	}
	normal := prim.BasisZ
	if spec.Normal != nil {
		normal, err = specVec(spec.Normal)
		if err != nil {
			return nil, fmt.Errorf("normal: %w", err)
		}
	}
	var obj Object
	switch spec.Kind {
	case "sphere":
		obj, err = NewSphere(center, spec.Radius)
	case "ellipsoid":
		if len(spec.HalfWidth) != 3 {
			return nil, fmt.Errorf("ellipsoid needs 3 half_widths")
		}
		obj, err = NewEllipsoid(center, spec.HalfWidth[0], spec.HalfWidth[1], spec.HalfWidth[2])
	case "cuboid":
		if len(spec.HalfWidth) != 3 {
			return nil, fmt.Errorf("cuboid needs 3 half_widths")
		}
		obj, err = NewCuboid(center, spec.HalfWidth[0], spec.HalfWidth[1], spec.HalfWidth[2])
	case "cylinder":
		obj, err = NewCylinder(center, spec.HalfHeight, spec.Radius)
	case "cone":
		obj, err = NewCone(center, spec.Height, spec.Angle)
	case "plane":
		obj, err = NewPlane(center, normal)
	case "square":
		hw := spec.Radius
		obj, err = NewSquare(center, normal, hw, hw)
	case "ring":
		obj, err = NewRing(center, normal, spec.Inner, spec.Outer)
	case "torus":
		obj, err = NewTorus(center, spec.Ring, spec.Tube)
	case "pyramid":
		obj, err = NewPyramid(center, spec.Height, spec.Radius)
	case "wall":
		obj, err = NewWall(center, normal, spec.Thickness)
	case "polygon":
		points := make([]prim.Point, 0, len(spec.Points))
		for _, pv := range spec.Points {
			p, perr := specPoint(pv)
			if perr != nil {
				return nil, fmt.Errorf("polygon point: %w", perr)
			}
			points = append(points, p)
		}
		obj, err = NewPolygon(points)
	default:
		return nil, fmt.Errorf("unknown object kind %q", spec.Kind)
	}
	if err != nil {
		return nil, err
	}
	if spec.Medium != "" {
		m, ok := mediums[spec.Medium]
		if !ok {
			return nil, fmt.Errorf("unknown medium %q", spec.Medium)
		}
		obj.SetMaterial(m)
	}
	return obj, nil
}

func buildLight(spec lightSpec) (Light, error) {
	hue, err := specColor(spec.Color, White)
	if err != nil {
		return nil, err
	}
	switch spec.Kind {
	case "", "point":
		position, err := specPoint(spec.Position)
		if err != nil {
			return nil, err
		}
		return NewPointLight(position, hue, spec.Intensity), nil
	case "beam":
		direction, err := specVec(spec.Direction)
		if err != nil {
			return nil, err
		}
		return NewBeamLight(direction, hue, spec.Intensity)
	case "bulb":
		position, err := specPoint(spec.Position)
		if err != nil {
			return nil, err
		}
		return NewBulbLight(position, spec.Radius, hue, spec.Intensity, spec.Samples)
	case "spot":
		position, err := specPoint(spec.Position)
		if err != nil {
			return nil, err
		}
		axis, err := specVec(spec.Direction)
		if err != nil {
			return nil, err
		}
		return NewSpotLight(position, axis, spec.Cone, hue, spec.Intensity)
	default:
		return nil, fmt.Errorf("unknown light kind %q", spec.Kind)
	}
}

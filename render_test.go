package raytracer

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// ballScene is one diffuse sphere in front of a solid background.
func ballScene(t *testing.T) (*Scene, *Camera) {
	t.Helper()
	s := NewScene()
	ball := mustSphere(t, prim.Point{X: 5}, 1)
	ball.SetMaterial(NewPlain(Red.Scale(0.1), 0.5, Red, 0, 10))
	s.AddObject(ball)
	s.AddLight(NewPointLight(prim.Point{X: 2, Y: -3, Z: 4}, White, 50))
	s.SetBackground(func(prim.Ray) Color { return Blue })
	view, err := NewCamera(32, 32, 60)
	if err != nil {
		t.Fatal(err)
	}
	if err := view.MoveTo(prim.Origin, prim.Point{X: 5}); err != nil {
		t.Fatal(err)
	}
	return s, view
}

func TestRenderSmoke(t *testing.T) {
	s, view := ballScene(t)
	stats, err := s.Render(context.Background(), view, RenderOptions{Samples: 1, ReflectionDepth: 2})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// the corner pixel sees the background, the center sees the ball
	corner := view.Capture.At(0, 0)
	if diff := cmp.Diff(corner, Blue, approxOpts); diff != "" {
		t.Errorf("corner pixel mismatch (-got +want):\n%s", diff)
	}
	center := view.Capture.At(16, 16)
	if center == Blue {
		t.Error("center pixel should show the sphere, not the background")
	}
	if center.R <= center.G {
		t.Errorf("red sphere rendered as %v", center)
	}
	if stats.CastRaysFromCamera != 32*32 {
		t.Errorf("camera rays %d, want %d", stats.CastRaysFromCamera, 32*32)
	}
	if stats.RowsRendered != 32 {
		t.Errorf("rows rendered %d, want 32", stats.RowsRendered)
	}
	if stats.ShadowRays == 0 {
		t.Error("no shadow rays counted")
	}
}

func TestRenderRowCallback(t *testing.T) {
	s, view := ballScene(t)
	var mu sync.Mutex
	rows := map[int]bool{}
	_, err := s.Render(context.Background(), view, RenderOptions{
		Samples: 1,
		RowComplete: func(row int) {
			mu.Lock()
			rows[row] = true
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 32 {
		t.Errorf("callback fired for %d rows, want 32", len(rows))
	}
}

func TestRenderCancellation(t *testing.T) {
	s, view := ballScene(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Render(ctx, view, RenderOptions{Samples: 1})
	if err == nil {
		t.Error("cancelled render should report the context error")
	}
}

func TestRenderDeterministic(t *testing.T) {
	s, view1 := ballScene(t)
	if _, err := s.Render(context.Background(), view1, RenderOptions{Samples: 2}); err != nil {
		t.Fatal(err)
	}
	view2, err := NewCamera(32, 32, 60)
	if err != nil {
		t.Fatal(err)
	}
	if err := view2.MoveTo(prim.Origin, prim.Point{X: 5}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Render(context.Background(), view2, RenderOptions{Samples: 2}); err != nil {
		t.Fatal(err)
	}
	for i := range view1.Capture.Pix {
		if view1.Capture.Pix[i] != view2.Capture.Pix[i] {
			t.Fatalf("pixel %d differs between identical renders", i)
		}
	}
}

func TestRenderShadow(t *testing.T) {
	s := NewScene()
	floor, err := NewPlane(prim.Origin, prim.BasisZ)
	if err != nil {
		t.Fatal(err)
	}
	floor.SetMaterial(NewPlain(White.Scale(0.02), 0.5, White, 0, 10))
	blocker := mustSphere(t, prim.Point{X: 6, Z: 2}, 1)
	blocker.SetMaterial(NewPlain(Gray, 0.2, Gray, 0, 10))
	s.AddObject(floor)
	s.AddObject(blocker)
	// light directly above the blocker
	s.AddLight(NewPointLight(prim.Point{X: 6, Z: 8}, White, 100))
	s.SetBackground(func(prim.Ray) Color { return Black })

	view, err := NewCamera(48, 48, 70)
	if err != nil {
		t.Fatal(err)
	}
	if err := view.MoveTo(prim.Point{X: 0, Y: 0, Z: 4}, prim.Point{X: 6, Y: 0, Z: 0}); err != nil {
		t.Fatal(err)
	}
	stats, err := s.Render(context.Background(), view, RenderOptions{Samples: 1})
	if err != nil {
		t.Fatal(err)
	}
	if stats.OccludedRays == 0 {
		t.Error("the sphere should shadow part of the floor")
	}
}

func TestRenderAdaptivePass(t *testing.T) {
	s, view := ballScene(t)
	stats, err := s.Render(context.Background(), view, RenderOptions{
		Samples:       2,
		MaskThreshold: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	// threshold 1 re-renders every pixel whose neighborhood varies; the
	// sphere silhouette guarantees some
	if stats.AdaptivePixels == 0 {
		t.Error("adaptive pass touched no pixels")
	}
}

func TestRenderReflectionAddsRays(t *testing.T) {
	s := NewScene()
	mirror := mustSphere(t, prim.Point{X: 5}, 1)
	mirror.SetMaterial(Silver)
	s.AddObject(mirror)
	s.AddLight(NewPointLight(prim.Point{Z: 5}, White, 50))
	s.SetBackground(func(prim.Ray) Color { return Blue })
	view, err := NewCamera(16, 16, 60)
	if err != nil {
		t.Fatal(err)
	}
	if err := view.MoveTo(prim.Origin, prim.Point{X: 5}); err != nil {
		t.Fatal(err)
	}
	shallow, err := s.Render(context.Background(), view, RenderOptions{Samples: 1, ReflectionDepth: 1})
	if err != nil {
		t.Fatal(err)
	}
	if shallow.ReflectedRays != 0 {
		t.Errorf("depth 1 should not bounce, got %d", shallow.ReflectedRays)
	}
	deep, err := s.Render(context.Background(), view, RenderOptions{Samples: 1, ReflectionDepth: 4})
	if err != nil {
		t.Fatal(err)
	}
	if deep.ReflectedRays == 0 {
		t.Error("depth 4 on a mirror should bounce")
	}
}

func TestRenderRefractionThroughGlass(t *testing.T) {
	s := NewScene()
	lens := mustSphere(t, prim.Point{X: 5}, 1)
	lens.SetMaterial(Glass)
	s.AddObject(lens)
	s.SetBackground(func(prim.Ray) Color { return Green })
	view, err := NewCamera(16, 16, 40)
	if err != nil {
		t.Fatal(err)
	}
	if err := view.MoveTo(prim.Origin, prim.Point{X: 5}); err != nil {
		t.Fatal(err)
	}
	stats, err := s.Render(context.Background(), view, RenderOptions{Samples: 1, ReflectionDepth: 6})
	if err != nil {
		t.Fatal(err)
	}
	if stats.TransmittedRays == 0 {
		t.Error("glass should transmit rays")
	}
	// light through the ball is the background seen through glass
	center := view.Capture.At(8, 8)
	if center.G <= center.R {
		t.Errorf("center pixel lost the transmitted background: %v", center)
	}
}

func TestExampleWorldsRender(t *testing.T) {
	for name, world := range Worlds() {
		t.Run(name, func(t *testing.T) {
			scene, view, err := world.Build(24, 32, 55)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if scene.NumberOfObjects() == 0 {
				t.Fatal("world has no objects")
			}
			if scene.NumberOfLights() == 0 {
				t.Fatal("world has no lights")
			}
			stats, err := scene.Render(context.Background(), view, RenderOptions{Samples: 1, ReflectionDepth: 3})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if stats.TracedRays == 0 {
				t.Error("render traced no rays")
			}
		})
	}
}

func TestToneMapCompresses(t *testing.T) {
	c := NewCapture(1, 2)
	c.Set(0, 0, RGB(10, 10, 10))
	c.Set(0, 1, RGB(0.2, 0.2, 0.2))
	toneMapCapture(c)
	bright := c.At(0, 0)
	if bright.R >= 1 {
		t.Errorf("HDR value not compressed: %v", bright)
	}
	dim := c.At(0, 1)
	if dim.R <= 0 || dim.R >= 0.2 {
		t.Errorf("tone map should slightly darken dim values, got %v", dim)
	}
}

func TestFilterCaptureSmooths(t *testing.T) {
	c := NewCapture(3, 3)
	c.Set(1, 1, White)
	filterCapture(c)
	if c.At(1, 1).R >= 1 {
		t.Error("filter should spread the bright pixel")
	}
	if c.At(0, 0).R <= 0 {
		t.Error("filter should bleed into neighbors")
	}
}

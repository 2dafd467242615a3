package raytracer

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

const sampleWorldYAML = `
name: testbed
output: testbed.tga
camera:
  from: [-10, 0, 3]
  at: [0, 0, 1]
background:
  top: [0.5, 0.7, 1.0]
  bottom: [1, 1, 1]
media: atmosphere
mediums:
  - name: floor
    kind: checkerboard
    diffuse: [1, 1, 1]
    other: [0.2, 0.2, 0.2]
    repeats: 2
  - name: shiny
    kind: plain
    diffuse: [0.8, 0.1, 0.1]
    smoothness: 0.6
    tightness: 40
  - name: lens
    kind: transparent
    eta: 1.52
    fade: 0.01
    diffuse: [1, 1, 1]
objects:
  - kind: plane
    center: [0, 0, 0]
    normal: [0, 0, 1]
    medium: floor
  - kind: sphere
    center: [0, -2, 1]
    radius: 1
    medium: shiny
  - kind: sphere
    center: [0, 2, 1]
    radius: 1
    medium: lens
  - kind: torus
    center: [3, 0, 1]
    ring: 1.5
    tube: 0.4
    medium: shiny
lights:
  - kind: point
    position: [-5, -5, 8]
    color: [1, 1, 1]
    intensity: 120
  - kind: bulb
    position: [4, 4, 6]
    radius: 0.5
    samples: 8
    intensity: 90
anchors:
  - from: [-10, 0, 3]
    at: [0, 0, 1]
    fov: 55
    to_from: [-10, 5, 3]
    to_at: [0, 0, 1]
    to_fov: 45
    duration: 2
`

func TestParseWorld(t *testing.T) {
	world, err := ParseWorld([]byte(sampleWorldYAML))
	if err != nil {
		t.Fatalf("ParseWorld: %v", err)
	}
	if world.Name != "testbed" {
		t.Errorf("name = %q, want testbed", world.Name)
	}
	if diff := cmp.Diff(world.LookingFrom, prim.Point{X: -10, Z: 3}, approxOpts); diff != "" {
		t.Errorf("looking-from mismatch (-got +want):\n%s", diff)
	}
	if len(world.Anchors) != 1 {
		t.Fatalf("got %d anchors, want 1", len(world.Anchors))
	}
	if diff := cmp.Diff(world.Anchors[0].Limit.Fov, 45.0, approxOpts); diff != "" {
		t.Errorf("anchor fov mismatch (-got +want):\n%s", diff)
	}

	scene := NewScene()
	if err := world.AddTo(scene); err != nil {
		t.Fatalf("AddTo: %v", err)
	}
	if scene.NumberOfObjects() != 4 {
		t.Errorf("objects = %d, want 4", scene.NumberOfObjects())
	}
	if scene.NumberOfLights() != 2 {
		t.Errorf("lights = %d, want 2", scene.NumberOfLights())
	}
}

func TestParsedWorldRenders(t *testing.T) {
	world, err := ParseWorld([]byte(sampleWorldYAML))
	if err != nil {
		t.Fatal(err)
	}
	scene, view, err := world.Build(16, 16, 55)
	if err != nil {
		t.Fatal(err)
	}
	stats, err := scene.Render(context.Background(), view, RenderOptions{Samples: 1, ReflectionDepth: 2})
	if err != nil {
		t.Fatal(err)
	}
	if stats.TracedRays == 0 {
		t.Error("no rays traced through the parsed world")
	}
}

func TestParseWorldErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "not yaml", yaml: "{{{"},
		{name: "bad camera", yaml: "camera: {from: [1, 2], at: [0, 0, 0]}"},
		{name: "bad object", yaml: `
camera: {from: [-5, 0, 1], at: [0, 0, 0]}
objects:
  - kind: warp-core
    center: [0, 0, 0]
`},
		{name: "bad medium reference", yaml: `
camera: {from: [-5, 0, 1], at: [0, 0, 0]}
objects:
  - kind: sphere
    center: [0, 0, 0]
    radius: 1
    medium: nonexistent
`},
		{name: "bad light", yaml: `
camera: {from: [-5, 0, 1], at: [0, 0, 0]}
lights:
  - kind: blackhole
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world, err := ParseWorld([]byte(tt.yaml))
			if err != nil {
				return // rejected at parse time
			}
			if world.AddTo == nil {
				t.Fatal("parsed world has no builder")
			}
			if err := world.AddTo(NewScene()); err == nil {
				t.Error("expected an error from a malformed world")
			}
		})
	}
}

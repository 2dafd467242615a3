package raytracer

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

func dollyAnchor() Anchor {
	return Anchor{
		Start:    CameraAttributes{From: prim.Point{X: -10}, At: prim.Origin, Fov: 55},
		Limit:    CameraAttributes{From: prim.Point{X: -10, Z: 10}, At: prim.Origin, Fov: 35},
		Duration: 1,
	}
}

func TestAnimatorFrameCount(t *testing.T) {
	a, err := NewAnimator(24, []Anchor{dollyAnchor()})
	if err != nil {
		t.Fatal(err)
	}
	frames := 0
	for a.More() {
		a.Next()
		frames++
	}
	if frames != 24 {
		t.Errorf("got %d frames for a 1s anchor at 24fps, want 24", frames)
	}
}

func TestAnimatorLinearInterpolation(t *testing.T) {
	a, err := NewAnimator(2, []Anchor{dollyAnchor()})
	if err != nil {
		t.Fatal(err)
	}
	first := a.Next()
	if diff := cmp.Diff(first.From, prim.Point{X: -10}, approxOpts); diff != "" {
		t.Errorf("first frame should sit at the start (-got +want):\n%s", diff)
	}
	mid := a.Next()
	if diff := cmp.Diff(mid.From, prim.Point{X: -10, Z: 5}, approxOpts); diff != "" {
		t.Errorf("midpoint mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(mid.Fov, 45.0, approxOpts); diff != "" {
		t.Errorf("midpoint fov mismatch (-got +want):\n%s", diff)
	}
	if a.More() {
		t.Error("two frames should exhaust a 1s anchor at 2fps")
	}
}

func TestAnimatorSequencesAnchors(t *testing.T) {
	second := Anchor{
		Start:    CameraAttributes{From: prim.Point{X: -10, Z: 10}, At: prim.Origin, Fov: 35},
		Limit:    CameraAttributes{From: prim.Point{X: 10, Z: 10}, At: prim.Origin, Fov: 35},
		Duration: 0.5,
	}
	a, err := NewAnimator(4, []Anchor{dollyAnchor(), second})
	if err != nil {
		t.Fatal(err)
	}
	frames := 0
	for a.More() {
		a.Next()
		frames++
	}
	if frames != 6 {
		t.Errorf("got %d frames, want 4 + 2", frames)
	}
}

func TestAnimatorMappers(t *testing.T) {
	anchor := dollyAnchor()
	anchor.Mappers = Mappers{From: SmoothStep}
	a, err := NewAnimator(2, []Anchor{anchor})
	if err != nil {
		t.Fatal(err)
	}
	a.Next()
	mid := a.Next()
	// smoothstep(0.5) is still 0.5; the shape differs away from center
	if diff := cmp.Diff(mid.From.Z, 5.0, approxOpts); diff != "" {
		t.Errorf("smoothstep midpoint mismatch (-got +want):\n%s", diff)
	}
	if got := SmoothStep(0.25); math.Abs(got-0.15625) > 1e-9 {
		t.Errorf("SmoothStep(0.25) = %v, want 0.15625", got)
	}
}

func TestAnimatorRejectsBadInput(t *testing.T) {
	if _, err := NewAnimator(0, nil); err == nil {
		t.Error("zero frame rate should fail")
	}
	if _, err := NewAnimator(24, []Anchor{{Duration: 0}}); err == nil {
		t.Error("zero duration anchor should fail")
	}
}

func TestSpringAnimatorConverges(t *testing.T) {
	anchor := dollyAnchor()
	anchor.Duration = 4
	sa, err := NewSpringAnimator(30, []Anchor{anchor}, 4.0, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	var last CameraAttributes
	frames := 0
	for sa.More() {
		last = sa.Next()
		frames++
	}
	if frames != 120 {
		t.Errorf("got %d frames, want 120", frames)
	}
	// critically damped springs settle on the target within seconds
	if math.Abs(last.From.Z-10) > 0.1 {
		t.Errorf("spring did not converge: %v", last.From)
	}
	if math.Abs(last.Fov-35) > 0.5 {
		t.Errorf("fov spring did not converge: %v", last.Fov)
	}
}

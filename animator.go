package raytracer

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// CameraAttributes anchor a camera pose to a moment in time.
type CameraAttributes struct {
	From prim.Point
	At   prim.Point
	Fov  float64 // horizontal field of view, degrees
}

// Mapper reshapes normalized time before interpolation.
type Mapper func(t float64) float64

// The stock time mappers.
var (
	Linear Mapper = func(t float64) float64 { return t }
	EaseIn Mapper = func(t float64) float64 { return t * t }
	EaseOut Mapper = func(t float64) float64 {
		u := 1 - t
		return 1 - u*u
	}
	SmoothStep Mapper = func(t float64) float64 { return t * t * (3 - 2*t) }
)

// Mappers select a time mapper per camera attribute.
type Mappers struct {
	From Mapper
	At   Mapper
	Fov  Mapper
}

func (m Mappers) withDefaults() Mappers {
	if m.From == nil {
		m.From = Linear
	}
	if m.At == nil {
		m.At = Linear
	}
	if m.Fov == nil {
		m.Fov = Linear
	}
	return m
}

// Anchor is one keyframed transition between two camera poses.
type Anchor struct {
	Start    CameraAttributes
	Limit    CameraAttributes
	Mappers  Mappers
	Duration float64 // seconds
}

// Animator steps through keyframed camera attributes, producing one
// attribute set per frame until its anchors run out.
type Animator struct {
	delta   float64
	anchors []Anchor
	index   int
	now     float64
	start   float64
}

// NewAnimator creates an animator producing frameRate attribute sets per
// second of anchor duration.
func NewAnimator(frameRate float64, anchors []Anchor) (*Animator, error) {
	if frameRate <= 0 {
		return nil, fmt.Errorf("animator frame rate must be positive, got %v", frameRate)
	}
	for i, a := range anchors {
		if a.Duration <= 0 {
			return nil, fmt.Errorf("anchor %d duration must be positive, got %v", i, a.Duration)
		}
	}
	return &Animator{
		delta:   1 / frameRate,
		anchors: anchors,
	}, nil
}

// More reports whether another frame remains.
func (a *Animator) More() bool {
	return a.index < len(a.anchors)
}

// Next interpolates the current anchor at the current time and advances
// one frame.
func (a *Animator) Next() CameraAttributes {
	if !a.More() {
		return CameraAttributes{}
	}
	anchor := a.anchors[a.index]
	mappers := anchor.Mappers.withDefaults()
	dt := (a.now - a.start) / anchor.Duration
	attrs := CameraAttributes{
		From: anchor.Start.From.Lerp(anchor.Limit.From, mappers.From(dt)),
		At:   anchor.Start.At.Lerp(anchor.Limit.At, mappers.At(dt)),
		Fov:  anchor.Start.Fov + (anchor.Limit.Fov-anchor.Start.Fov)*mappers.Fov(dt),
	}
	a.now += a.delta
	// the tolerance absorbs drift from summing delta (24 x 1/24 < 1)
	if a.now+1e-9 >= a.start+anchor.Duration {
		a.start += anchor.Duration
		a.index++
	}
	return attrs
}

// SpringAnimator smooths camera motion through the anchors with
// critically damped springs instead of shaped lerps, so direction changes
// at anchor boundaries never jerk.
type SpringAnimator struct {
	spring  harmonica.Spring
	frames  int // frames left in the current anchor
	anchors []Anchor
	index   int

	pos [7]float64 // from xyz, at xyz, fov
	vel [7]float64
	fps int
}

// NewSpringAnimator creates a spring-driven animator. Frequency controls
// how eagerly the camera chases each anchor target; damping 1.0 is
// critically damped.
func NewSpringAnimator(fps int, anchors []Anchor, frequency, damping float64) (*SpringAnimator, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("animator fps must be positive, got %d", fps)
	}
	for i, a := range anchors {
		if a.Duration <= 0 {
			return nil, fmt.Errorf("anchor %d duration must be positive, got %v", i, a.Duration)
		}
	}
	sa := &SpringAnimator{
		spring:  harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		anchors: anchors,
		fps:     fps,
	}
	if len(anchors) > 0 {
		sa.pos = attributeVector(anchors[0].Start)
		sa.frames = int(math.Ceil(anchors[0].Duration * float64(fps)))
	}
	return sa, nil
}

func attributeVector(a CameraAttributes) [7]float64 {
	return [7]float64{a.From.X, a.From.Y, a.From.Z, a.At.X, a.At.Y, a.At.Z, a.Fov}
}

// More reports whether another frame remains.
func (sa *SpringAnimator) More() bool {
	return sa.index < len(sa.anchors)
}

// Next advances the springs one frame toward the current anchor target.
func (sa *SpringAnimator) Next() CameraAttributes {
	if !sa.More() {
		return CameraAttributes{}
	}
	target := attributeVector(sa.anchors[sa.index].Limit)
	for i := range sa.pos {
		sa.pos[i], sa.vel[i] = sa.spring.Update(sa.pos[i], sa.vel[i], target[i])
	}
	sa.frames--
	if sa.frames <= 0 {
		sa.index++
		if sa.More() {
			sa.frames = int(math.Ceil(sa.anchors[sa.index].Duration * float64(sa.fps)))
		}
	}
	return CameraAttributes{
		From: prim.Point{X: sa.pos[0], Y: sa.pos[1], Z: sa.pos[2]},
		At:   prim.Point{X: sa.pos[3], Y: sa.pos[4], Z: sa.pos[5]},
		Fov:  sa.pos[6],
	}
}

package raytracer

import (
	"fmt"
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// LightSample is one illumination sample taken at a surface point.
type LightSample struct {
	Direction prim.Vec3 // unit vector from the surface toward the light
	Color     Color
	Distance  float64 // +Inf for directional sources
	Intensity float64 // already includes falloff at the sample distance
}

// Light is a scene light source. Point and directional lights answer a
// single sample; area lights spread their samples over their surface for
// soft shadows.
type Light interface {
	SampleCount() int
	Sample(i int, surfacePoint prim.Point) LightSample
	IntensityAt(distance float64) float64
}

// PointLight radiates uniformly from a single point with inverse-square
// falloff.
type PointLight struct {
	Position  prim.Point
	Hue       Color
	Intensity float64
}

func NewPointLight(position prim.Point, hue Color, intensity float64) *PointLight {
	return &PointLight{Position: position, Hue: hue, Intensity: intensity}
}

func (l *PointLight) SampleCount() int { return 1 }

func (l *PointLight) Sample(_ int, surfacePoint prim.Point) LightSample {
	toLight := l.Position.Sub(surfacePoint)
	d := toLight.Length()
	return LightSample{
		Direction: toLight.Normalize(),
		Color:     l.Hue,
		Distance:  d,
		Intensity: l.IntensityAt(d),
	}
}

func (l *PointLight) IntensityAt(distance float64) float64 {
	if distance <= 1 {
		return l.Intensity
	}
	return l.Intensity / (distance * distance)
}

// BeamLight is a directional source infinitely far away: parallel rays
// and no falloff.
type BeamLight struct {
	Direction prim.Vec3 // direction the light travels
	Hue       Color
	Intensity float64
}

func NewBeamLight(direction prim.Vec3, hue Color, intensity float64) (*BeamLight, error) {
	if direction.IsZero() {
		return nil, fmt.Errorf("beam light direction cannot be zero")
	}
	return &BeamLight{Direction: direction.Normalize(), Hue: hue, Intensity: intensity}, nil
}

func (l *BeamLight) SampleCount() int { return 1 }

func (l *BeamLight) Sample(_ int, _ prim.Point) LightSample {
	return LightSample{
		Direction: l.Direction.Neg(),
		Color:     l.Hue,
		Distance:  math.Inf(1),
		Intensity: l.Intensity,
	}
}

func (l *BeamLight) IntensityAt(float64) float64 {
	return l.Intensity
}

// BulbLight is a spherical area source. Each sample comes from a
// Fibonacci-distributed point on the bulb surface, producing soft shadow
// penumbras.
type BulbLight struct {
	Position  prim.Point
	Radius    float64
	Hue       Color
	Intensity float64
	Samples   int
}

func NewBulbLight(position prim.Point, radius float64, hue Color, intensity float64, samples int) (*BulbLight, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("bulb radius must be positive, got %v", radius)
	}
	if samples < 1 {
		samples = 1
	}
	return &BulbLight{
		Position:  position,
		Radius:    radius,
		Hue:       hue,
		Intensity: intensity,
		Samples:   samples,
	}, nil
}

func (l *BulbLight) SampleCount() int { return l.Samples }

// goldenAngle spaces successive Fibonacci-sphere samples.
const goldenAngle = 2.399963229728653

func (l *BulbLight) Sample(i int, surfacePoint prim.Point) LightSample {
	n := float64(l.Samples)
	// Fibonacci sphere point i of n
	z := 1 - 2*(float64(i)+0.5)/n
	r := math.Sqrt(math.Max(0, 1-z*z))
	theta := goldenAngle * float64(i)
	offset := prim.Vec3{
		X: r * math.Cos(theta),
		Y: r * math.Sin(theta),
		Z: z,
	}.Scale(l.Radius)
	samplePoint := l.Position.Add(offset)
	toLight := samplePoint.Sub(surfacePoint)
	d := toLight.Length()
	return LightSample{
		Direction: toLight.Normalize(),
		Color:     l.Hue,
		Distance:  d,
		Intensity: l.IntensityAt(d) / n,
	}
}

func (l *BulbLight) IntensityAt(distance float64) float64 {
	if distance <= 1 {
		return l.Intensity
	}
	return l.Intensity / (distance * distance)
}

// SpotLight is a point source restricted to a cosine lobe about its axis.
type SpotLight struct {
	Position  prim.Point
	Axis      prim.Vec3 // direction the spot shines
	Cone      float64   // half-angle of the lobe in radians
	Hue       Color
	Intensity float64
}

func NewSpotLight(position prim.Point, axis prim.Vec3, cone float64, hue Color, intensity float64) (*SpotLight, error) {
	if axis.IsZero() {
		return nil, fmt.Errorf("spot light axis cannot be zero")
	}
	if cone <= 0 || cone >= math.Pi {
		return nil, fmt.Errorf("spot cone angle must be in (0, pi), got %v", cone)
	}
	return &SpotLight{
		Position:  position,
		Axis:      axis.Normalize(),
		Cone:      cone,
		Hue:       hue,
		Intensity: intensity,
	}, nil
}

func (l *SpotLight) SampleCount() int { return 1 }

func (l *SpotLight) Sample(_ int, surfacePoint prim.Point) LightSample {
	toLight := l.Position.Sub(surfacePoint)
	d := toLight.Length()
	dir := toLight.Normalize()
	// how far off-axis the surface point sits
	cos := l.Axis.Dot(dir.Neg())
	cutoff := math.Cos(l.Cone)
	intensity := 0.0
	if cos > cutoff {
		// cosine lobe inside the cone
		falloff := (cos - cutoff) / (1 - cutoff)
		intensity = l.IntensityAt(d) * falloff
	}
	return LightSample{
		Direction: dir,
		Color:     l.Hue,
		Distance:  d,
		Intensity: intensity,
	}
}

func (l *SpotLight) IntensityAt(distance float64) float64 {
	if distance <= 1 {
		return l.Intensity
	}
	return l.Intensity / (distance * distance)
}

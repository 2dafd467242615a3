package raytracer

import (
	"fmt"
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// Cylinder is the open tube x^2 + y^2 = r^2 clipped to |z| <= half-height.
// A zero half-height means an infinite cylinder.
type Cylinder struct {
	object
	HalfHeight float64
	Radius     float64
}

// NewCylinder creates a finite open cylinder.
func NewCylinder(center prim.Point, halfHeight, radius float64) (*Cylinder, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("cylinder radius must be positive, got %v", radius)
	}
	if halfHeight <= 0 {
		return nil, fmt.Errorf("cylinder half-height must be positive, got %v", halfHeight)
	}
	return &Cylinder{
		object:     newObject(center, 2, false),
		HalfHeight: halfHeight,
		Radius:     radius,
	}, nil
}

// NewInfiniteCylinder creates a cylinder with no z clipping.
func NewInfiniteCylinder(center prim.Point, radius float64) (*Cylinder, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("cylinder radius must be positive, got %v", radius)
	}
	return &Cylinder{
		object: newObject(center, 2, false),
		Radius: radius,
	}, nil
}

func (c *Cylinder) objectNormal(p prim.Point) prim.Vec3 {
	return prim.Vec3{X: p.X, Y: p.Y}.Normalize()
}

func (c *Cylinder) inHeight(z float64) bool {
	return c.HalfHeight == 0 || (-c.HalfHeight <= z && z <= c.HalfHeight)
}

func (c *Cylinder) CollisionsAlong(objectRay prim.Ray) []Hit {
	o := objectRay.Origin
	d := objectRay.Direction
	a := d.X*d.X + d.Y*d.Y
	b := 2 * (d.X*o.X + d.Y*o.Y)
	cc := o.X*o.X + o.Y*o.Y - c.Radius*c.Radius
	t0, t1 := prim.QuadraticRoots(a, b, cc)
	var hits []Hit
	for _, t := range []float64{t0, t1} {
		if math.IsNaN(t) {
			continue
		}
		p := objectRay.DistanceAlong(t)
		if c.inHeight(p.Z) {
			hits = append(hits, Hit{Point: p, Distance: t, Normal: c.objectNormal(p), Object: c})
		}
	}
	return hits
}

func (c *Cylinder) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(c, worldRay)
}

func (c *Cylinder) Normal(worldSurfacePoint prim.Point) prim.Vec3 {
	return c.ForwardVec(c.objectNormal(c.ReversePoint(worldSurfacePoint)))
}

func (c *Cylinder) Map(p prim.Point) (u, v float64) {
	h := c.HalfHeight
	if h == 0 {
		h = 1
	}
	u = math.Atan2(p.Y, p.X) / (2 * math.Pi)
	if u < 0 {
		u += 1
	}
	v = (p.Z + h) / (2 * h)
	return u, v
}

func (c *Cylinder) IsSurfacePoint(worldPoint prim.Point) bool {
	p := c.ReversePoint(worldPoint)
	onTube := prim.NearlyEqual(p.X*p.X+p.Y*p.Y, c.Radius*c.Radius, 1e-6)
	return onTube && c.inHeight(p.Z)
}

func (c *Cylinder) IsOutside(worldPoint prim.Point) bool {
	p := c.ReversePoint(worldPoint)
	return p.X*p.X+p.Y*p.Y > c.Radius*c.Radius
}

func (c *Cylinder) Extent() float64 {
	if c.HalfHeight == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(c.HalfHeight*c.HalfHeight + c.Radius*c.Radius)
}

// Cone is the open surface x^2 + y^2 = (z tan(alpha))^2 for 0 <= z <=
// height, apex at the origin.
type Cone struct {
	object
	Height float64
	Angle  float64 // half-angle alpha in radians
}

// NewCone creates a cone from its apex with the given height and half
// angle.
func NewCone(apex prim.Point, height, angle float64) (*Cone, error) {
	if height <= 0 {
		return nil, fmt.Errorf("cone height must be positive, got %v", height)
	}
	if angle <= 0 || angle >= math.Pi/2 {
		return nil, fmt.Errorf("cone half-angle must be in (0, pi/2), got %v", angle)
	}
	return &Cone{
		object: newObject(apex, 2, false),
		Height: height,
		Angle:  angle,
	}, nil
}

func (c *Cone) objectNormal(p prim.Point) prim.Vec3 {
	// gradient of x^2 + y^2 - (z tan a)^2
	k := math.Tan(c.Angle)
	return prim.Vec3{X: p.X, Y: p.Y, Z: -k * k * p.Z}.Normalize()
}

func (c *Cone) CollisionsAlong(objectRay prim.Ray) []Hit {
	o := objectRay.Origin
	d := objectRay.Direction
	k2 := math.Tan(c.Angle)
	k2 *= k2
	a := d.X*d.X + d.Y*d.Y - k2*d.Z*d.Z
	b := 2 * (d.X*o.X + d.Y*o.Y - k2*d.Z*o.Z)
	cc := o.X*o.X + o.Y*o.Y - k2*o.Z*o.Z
	t0, t1 := prim.QuadraticRoots(a, b, cc)
	var hits []Hit
	for _, t := range []float64{t0, t1} {
		if math.IsNaN(t) {
			continue
		}
		p := objectRay.DistanceAlong(t)
		if 0 <= p.Z && p.Z <= c.Height {
			hits = append(hits, Hit{Point: p, Distance: t, Normal: c.objectNormal(p), Object: c})
		}
	}
	return hits
}

func (c *Cone) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(c, worldRay)
}

func (c *Cone) Normal(worldSurfacePoint prim.Point) prim.Vec3 {
	return c.ForwardVec(c.objectNormal(c.ReversePoint(worldSurfacePoint)))
}

func (c *Cone) Map(p prim.Point) (u, v float64) {
	u = math.Atan2(p.Y, p.X) / (2 * math.Pi)
	if u < 0 {
		u += 1
	}
	v = p.Z / c.Height
	return u, v
}

func (c *Cone) IsSurfacePoint(worldPoint prim.Point) bool {
	p := c.ReversePoint(worldPoint)
	if p.Z < 0 || p.Z > c.Height {
		return false
	}
	k := math.Tan(c.Angle) * p.Z
	return prim.NearlyEqual(p.X*p.X+p.Y*p.Y, k*k, 1e-6)
}

func (c *Cone) IsOutside(worldPoint prim.Point) bool {
	p := c.ReversePoint(worldPoint)
	k := math.Tan(c.Angle) * p.Z
	return p.Z < 0 || p.Z > c.Height || p.X*p.X+p.Y*p.Y > k*k
}

func (c *Cone) Extent() float64 {
	base := c.Height * math.Tan(c.Angle)
	return math.Sqrt(c.Height*c.Height + base*base)
}

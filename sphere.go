package raytracer

import (
	"fmt"
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// Sphere is the analytic surface |p| = r centered on its position.
type Sphere struct {
	object
	Radius float64
}

// NewSphere creates a sphere. The radius must be positive.
func NewSphere(center prim.Point, radius float64) (*Sphere, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("sphere radius must be positive, got %v", radius)
	}
	return &Sphere{
		object: newObject(center, 2, true),
		Radius: radius,
	}, nil
}

func (s *Sphere) objectNormal(p prim.Point) prim.Vec3 {
	return p.Vec().Scale(1 / s.Radius).Normalize()
}

func (s *Sphere) CollisionsAlong(objectRay prim.Ray) []Hit {
	o := objectRay.Origin.Vec()
	d := objectRay.Direction
	a := d.Quadrance()
	b := 2 * o.Dot(d)
	c := o.Quadrance() - s.Radius*s.Radius
	t0, t1 := prim.QuadraticRoots(a, b, c)
	var hits []Hit
	for _, t := range []float64{t0, t1} {
		if math.IsNaN(t) {
			continue
		}
		p := objectRay.DistanceAlong(t)
		hits = append(hits, Hit{Point: p, Distance: t, Normal: s.objectNormal(p), Object: s})
	}
	return hits
}

func (s *Sphere) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(s, worldRay)
}

func (s *Sphere) Normal(worldSurfacePoint prim.Point) prim.Vec3 {
	return s.ForwardVec(s.objectNormal(s.ReversePoint(worldSurfacePoint)))
}

// Map uses spherical coordinates: u wraps the equator, v runs pole to
// pole.
func (s *Sphere) Map(p prim.Point) (u, v float64) {
	u = 0.5 + math.Atan2(p.Y, p.X)/(2*math.Pi)
	v = 0.5 + math.Asin(clamp(-1, 1, p.Z/s.Radius))/math.Pi
	return u, v
}

func (s *Sphere) IsSurfacePoint(worldPoint prim.Point) bool {
	p := s.ReversePoint(worldPoint)
	return prim.NearlyEqual(p.Vec().Quadrance(), s.Radius*s.Radius, 1e-6)
}

func (s *Sphere) IsOutside(worldPoint prim.Point) bool {
	p := s.ReversePoint(worldPoint)
	return p.Vec().Quadrance() > s.Radius*s.Radius
}

func (s *Sphere) Extent() float64 {
	return s.Radius
}

// Ellipsoid is the quadric (x/a)^2 + (y/b)^2 + (z/c)^2 = 1.
type Ellipsoid struct {
	object
	A, B, C float64
}

// NewEllipsoid creates an ellipsoid with the given semi-axes, all of which
// must be positive.
func NewEllipsoid(center prim.Point, a, b, c float64) (*Ellipsoid, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, fmt.Errorf("ellipsoid semi-axes must be positive, got (%v, %v, %v)", a, b, c)
	}
	return &Ellipsoid{
		object: newObject(center, 2, true),
		A:      a, B: b, C: c,
	}, nil
}

func (e *Ellipsoid) objectNormal(p prim.Point) prim.Vec3 {
	// gradient of the implicit surface
	return prim.Vec3{
		X: 2 * p.X / (e.A * e.A),
		Y: 2 * p.Y / (e.B * e.B),
		Z: 2 * p.Z / (e.C * e.C),
	}.Normalize()
}

func (e *Ellipsoid) CollisionsAlong(objectRay prim.Ray) []Hit {
	o := objectRay.Origin
	d := objectRay.Direction
	a2 := e.A * e.A
	b2 := e.B * e.B
	c2 := e.C * e.C
	qa := d.X*d.X/a2 + d.Y*d.Y/b2 + d.Z*d.Z/c2
	qb := 2 * (o.X*d.X/a2 + o.Y*d.Y/b2 + o.Z*d.Z/c2)
	qc := o.X*o.X/a2 + o.Y*o.Y/b2 + o.Z*o.Z/c2 - 1
	t0, t1 := prim.QuadraticRoots(qa, qb, qc)
	var hits []Hit
	for _, t := range []float64{t0, t1} {
		if math.IsNaN(t) {
			continue
		}
		p := objectRay.DistanceAlong(t)
		hits = append(hits, Hit{Point: p, Distance: t, Normal: e.objectNormal(p), Object: e})
	}
	return hits
}

func (e *Ellipsoid) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(e, worldRay)
}

func (e *Ellipsoid) Normal(worldSurfacePoint prim.Point) prim.Vec3 {
	return e.ForwardVec(e.objectNormal(e.ReversePoint(worldSurfacePoint)))
}

func (e *Ellipsoid) Map(p prim.Point) (u, v float64) {
	u = 0.5 + math.Atan2(p.Y/e.B, p.X/e.A)/(2*math.Pi)
	v = 0.5 + math.Asin(clamp(-1, 1, p.Z/e.C))/math.Pi
	return u, v
}

func (e *Ellipsoid) IsSurfacePoint(worldPoint prim.Point) bool {
	p := e.ReversePoint(worldPoint)
	f := p.X*p.X/(e.A*e.A) + p.Y*p.Y/(e.B*e.B) + p.Z*p.Z/(e.C*e.C)
	return prim.NearlyEqual(f, 1, 1e-6)
}

func (e *Ellipsoid) IsOutside(worldPoint prim.Point) bool {
	p := e.ReversePoint(worldPoint)
	return p.X*p.X/(e.A*e.A)+p.Y*p.Y/(e.B*e.B)+p.Z*p.Z/(e.C*e.C) > 1
}

func (e *Ellipsoid) Extent() float64 {
	return math.Max(e.A, math.Max(e.B, e.C))
}

package raytracer

import (
	"fmt"
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// rotationFromZ builds the rotation carrying object +Z onto the given
// world direction.
func rotationFromZ(normal prim.Vec3) (prim.Mat3, error) {
	n := normal.Normalize()
	if n.IsZero() {
		return prim.Mat3{}, fmt.Errorf("degenerate normal %v", normal)
	}
	axis := prim.BasisZ.Cross(n)
	if axis.IsZero() {
		if n.Z > 0 {
			return prim.Identity3(), nil
		}
		return prim.RotateX(math.Pi), nil
	}
	angle := math.Acos(clamp(-1, 1, prim.BasisZ.Dot(n)))
	return prim.AxisRotation(axis, angle), nil
}

// Plane is the infinite surface z = 0 in object space, oriented by its
// world normal.
type Plane struct {
	object
}

// NewPlane creates an infinite plane through center facing normal.
func NewPlane(center prim.Point, normal prim.Vec3) (*Plane, error) {
	rot, err := rotationFromZ(normal)
	if err != nil {
		return nil, fmt.Errorf("plane: %w", err)
	}
	p := &Plane{object: newObject(center, 1, false)}
	p.SetRotation(rot)
	return p, nil
}

// planeCollision intersects an object-space ray with z = 0; the returned
// distance is NaN for parallel rays.
func planeCollision(objectRay prim.Ray) (prim.Point, float64) {
	if objectRay.Direction.Z == 0 {
		return prim.Point{}, math.NaN()
	}
	t := -objectRay.Origin.Z / objectRay.Direction.Z
	return objectRay.DistanceAlong(t), t
}

func (p *Plane) objectNormal(prim.Point) prim.Vec3 {
	return prim.BasisZ
}

func (p *Plane) CollisionsAlong(objectRay prim.Ray) []Hit {
	pt, t := planeCollision(objectRay)
	if math.IsNaN(t) {
		return nil
	}
	return []Hit{{Point: pt, Distance: t, Normal: prim.BasisZ, Object: p}}
}

func (p *Plane) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(p, worldRay)
}

func (p *Plane) Normal(worldSurfacePoint prim.Point) prim.Vec3 {
	return p.ForwardVec(prim.BasisZ)
}

func (p *Plane) Map(pt prim.Point) (u, v float64) {
	return pt.X, pt.Y
}

func (p *Plane) IsSurfacePoint(worldPoint prim.Point) bool {
	return prim.NearlyEqual(p.ReversePoint(worldPoint).Z, 0, 1e-6)
}

func (p *Plane) IsOutside(worldPoint prim.Point) bool {
	return p.ReversePoint(worldPoint).Z > 0
}

func (p *Plane) Extent() float64 {
	return math.Inf(1)
}

// Square is a bounded plane patch: |x| <= half-width, |y| <= half-height.
type Square struct {
	Plane
	HalfWidth  float64
	HalfHeight float64
}

// NewSquare creates a rectangular patch facing normal.
func NewSquare(center prim.Point, normal prim.Vec3, halfWidth, halfHeight float64) (*Square, error) {
	if halfWidth <= 0 || halfHeight <= 0 {
		return nil, fmt.Errorf("square half-sizes must be positive, got (%v, %v)", halfWidth, halfHeight)
	}
	p, err := NewPlane(center, normal)
	if err != nil {
		return nil, err
	}
	s := &Square{Plane: *p, HalfWidth: halfWidth, HalfHeight: halfHeight}
	return s, nil
}

func (s *Square) contains(pt prim.Point) bool {
	return math.Abs(pt.X) <= s.HalfWidth && math.Abs(pt.Y) <= s.HalfHeight
}

func (s *Square) CollisionsAlong(objectRay prim.Ray) []Hit {
	pt, t := planeCollision(objectRay)
	if math.IsNaN(t) || !s.contains(pt) {
		return nil
	}
	return []Hit{{Point: pt, Distance: t, Normal: prim.BasisZ, Object: s}}
}

func (s *Square) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(s, worldRay)
}

func (s *Square) Map(pt prim.Point) (u, v float64) {
	return pt.X/(2*s.HalfWidth) + 0.5, pt.Y/(2*s.HalfHeight) + 0.5
}

func (s *Square) IsSurfacePoint(worldPoint prim.Point) bool {
	pt := s.ReversePoint(worldPoint)
	return prim.NearlyEqual(pt.Z, 0, 1e-6) && s.contains(pt)
}

func (s *Square) Extent() float64 {
	return math.Sqrt(s.HalfWidth*s.HalfWidth + s.HalfHeight*s.HalfHeight)
}

// Ring is a flat annulus: inner^2 <= x^2 + y^2 <= outer^2 on z = 0.
type Ring struct {
	Plane
	Inner float64
	Outer float64
}

// NewRing creates an annulus facing normal. A zero inner radius makes a
// disc.
func NewRing(center prim.Point, normal prim.Vec3, inner, outer float64) (*Ring, error) {
	if outer <= 0 || inner < 0 || inner >= outer {
		return nil, fmt.Errorf("ring radii must satisfy 0 <= inner < outer, got (%v, %v)", inner, outer)
	}
	p, err := NewPlane(center, normal)
	if err != nil {
		return nil, err
	}
	return &Ring{Plane: *p, Inner: inner, Outer: outer}, nil
}

func (r *Ring) contains(pt prim.Point) bool {
	q := pt.X*pt.X + pt.Y*pt.Y
	return r.Inner*r.Inner <= q && q <= r.Outer*r.Outer
}

func (r *Ring) CollisionsAlong(objectRay prim.Ray) []Hit {
	pt, t := planeCollision(objectRay)
	if math.IsNaN(t) || !r.contains(pt) {
		return nil
	}
	return []Hit{{Point: pt, Distance: t, Normal: prim.BasisZ, Object: r}}
}

func (r *Ring) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(r, worldRay)
}

func (r *Ring) Map(pt prim.Point) (u, v float64) {
	u = math.Atan2(pt.Y, pt.X) / (2 * math.Pi)
	if u < 0 {
		u += 1
	}
	radius := math.Sqrt(pt.X*pt.X + pt.Y*pt.Y)
	v = (radius - r.Inner) / (r.Outer - r.Inner)
	return u, v
}

func (r *Ring) IsSurfacePoint(worldPoint prim.Point) bool {
	pt := r.ReversePoint(worldPoint)
	return prim.NearlyEqual(pt.Z, 0, 1e-6) && r.contains(pt)
}

func (r *Ring) Extent() float64 {
	return r.Outer
}

package raytracer

import (
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// Hit is a single surface intersection record. During collision
// enumeration the point and normal are in object space; Intersect converts
// the winning hit to world space before returning it.
type Hit struct {
	Point    prim.Point
	Distance float64
	Normal   prim.Vec3
	Object   Object
}

// Object is a transformable analytic surface. The concrete types are the
// closed set of primitives in this package plus Overlap for composites.
type Object interface {
	// Entity transforms. Objects intersect in their own space; the scene
	// deals only in world rays.
	Position() prim.Point
	ForwardPoint(prim.Point) prim.Point
	ReversePoint(prim.Point) prim.Point
	ForwardVec(prim.Vec3) prim.Vec3
	ReverseVec(prim.Vec3) prim.Vec3
	ForwardRay(prim.Ray) prim.Ray
	ReverseRay(prim.Ray) prim.Ray

	// CollisionsAlong enumerates every intersection with the infinite
	// extension of the object-space ray, including negative distances.
	CollisionsAlong(objectRay prim.Ray) []Hit

	// Intersect returns the nearest acceptable intersection along the
	// world ray, with point and normal in world space.
	Intersect(worldRay prim.Ray) (Hit, bool)

	// Normal returns the outward unit surface normal at a world-space
	// surface point.
	Normal(worldSurfacePoint prim.Point) prim.Vec3

	// Map parameterizes an object-space surface point into (u, v).
	Map(objectSurfacePoint prim.Point) (u, v float64)

	// IsSurfacePoint reports whether the world point lies on the surface
	// within tolerance.
	IsSurfacePoint(worldPoint prim.Point) bool

	// IsOutside reports whether the world point is outside the surface.
	IsOutside(worldPoint prim.Point) bool

	// Extent is the farthest distance from the object origin to any
	// surface point; +Inf for unbounded surfaces.
	Extent() float64

	// MaxCollisions is the most hits any single ray can produce.
	MaxCollisions() int

	// HasDefiniteVolume distinguishes closed surfaces from open ones.
	HasDefiniteVolume() bool

	Material() Medium
	SetMaterial(Medium)
}

// object carries the state common to every primitive.
type object struct {
	Entity
	maxCollisions int
	closed        bool
	medium        Medium
}

func newObject(center prim.Point, maxCollisions int, closed bool) object {
	return object{
		Entity:        NewEntity(center),
		maxCollisions: maxCollisions,
		closed:        closed && maxCollisions > 1,
	}
}

func (o *object) MaxCollisions() int {
	return o.maxCollisions
}

func (o *object) HasDefiniteVolume() bool {
	return o.closed
}

func (o *object) Material() Medium {
	if o.medium == nil {
		return Dull
	}
	return o.medium
}

func (o *object) SetMaterial(m Medium) {
	if m == nil {
		panic("raytracer: cannot assign a nil medium")
	}
	o.medium = m
}

// worldBounds computes the world-space AABB for an object from its radial
// extent. Rotation is deliberately ignored; the radial extent already
// covers any orientation.
func worldBounds(o Object) prim.Bounds {
	r := o.Extent()
	if math.IsInf(r, 1) || math.IsNaN(r) {
		return prim.InfiniteBounds()
	}
	p := o.Position()
	return prim.NewBounds(
		prim.Point{X: p.X - r, Y: p.Y - r, Z: p.Z - r},
		prim.Point{X: p.X + r, Y: p.Y + r, Z: p.Z + r},
	)
}

// firstHit is the shared Intersect template: reverse-transform the ray,
// enumerate collisions, filter NaN and non-positive distances, and
// forward-transform the nearest survivor.
//
// A collision at distance zero means the ray starts on the surface. If the
// ray points into the object it counts as a re-entry collision, unless the
// medium refracts (nonzero refractive index), in which case the ray is
// passing through. If it points outward there is nothing to hit.
func firstHit(o Object, worldRay prim.Ray) (Hit, bool) {
	objectRay := o.ReverseRay(worldRay)
	collisions := o.CollisionsAlong(objectRay)
	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, c := range collisions {
		if math.IsNaN(c.Distance) {
			continue
		}
		if math.Abs(c.Distance) < zeroDistance {
			d := c.Normal.Dot(objectRay.Direction)
			if d < 0 {
				if m := o.Material(); m.RefractiveIndex(objectRay.Origin) > 0 {
					continue
				}
				return toWorldHit(o, c), true
			}
			continue
		}
		if c.Distance > prim.Epsilon && c.Distance < best.Distance {
			best = c
			found = true
		}
	}
	if !found {
		return Hit{}, false
	}
	return toWorldHit(o, best), true
}

// zeroDistance is the window in which a collision counts as starting on
// the surface.
const zeroDistance = 1e-9

func toWorldHit(o Object, h Hit) Hit {
	h.Point = o.ForwardPoint(h.Point)
	h.Normal = o.ForwardVec(h.Normal)
	return h
}

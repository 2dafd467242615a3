package raytracer

import (
	"fmt"
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// Torus is the quartic surface swept by a tube of radius r around a circle
// of radius R in the z = 0 plane.
type Torus struct {
	object
	Ring float64 // R, center of tube to center of torus
	Tube float64 // r, tube radius
}

// NewTorus creates a torus. Both radii must be positive with the tube
// smaller than the ring.
func NewTorus(center prim.Point, ring, tube float64) (*Torus, error) {
	if ring <= 0 || tube <= 0 || tube >= ring {
		return nil, fmt.Errorf("torus radii must satisfy 0 < tube < ring, got (%v, %v)", ring, tube)
	}
	return &Torus{
		object: newObject(center, 4, true),
		Ring:   ring,
		Tube:   tube,
	}, nil
}

// objectNormal points away from the nearest tube-center circle point.
func (t *Torus) objectNormal(p prim.Point) prim.Vec3 {
	q := math.Sqrt(p.X*p.X + p.Y*p.Y)
	if q == 0 {
		// degenerate: on the axis; any radial direction works
		return prim.BasisZ
	}
	center := prim.Point{X: t.Ring * p.X / q, Y: t.Ring * p.Y / q}
	return p.Sub(center).Normalize()
}

func (t *Torus) CollisionsAlong(objectRay prim.Ray) []Hit {
	o := objectRay.Origin.Vec()
	d := objectRay.Direction
	r2 := t.Tube * t.Tube
	R2 := t.Ring * t.Ring

	dd := d.Quadrance()
	od := o.Dot(d)
	oo := o.Quadrance()
	e := oo - r2 - R2

	c4 := dd * dd
	c3 := 4 * dd * od
	c2 := 2*dd*e + 4*od*od + 4*R2*d.Z*d.Z
	c1 := 4*e*od + 8*R2*o.Z*d.Z
	c0 := e*e - 4*R2*(r2-o.Z*o.Z)

	roots := prim.QuarticRoots(c4, c3, c2, c1, c0)
	var hits []Hit
	for _, tt := range roots {
		if math.IsNaN(tt) {
			continue
		}
		p := objectRay.DistanceAlong(tt)
		hits = append(hits, Hit{Point: p, Distance: tt, Normal: t.objectNormal(p), Object: t})
	}
	return hits
}

func (t *Torus) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(t, worldRay)
}

func (t *Torus) Normal(worldSurfacePoint prim.Point) prim.Vec3 {
	return t.ForwardVec(t.objectNormal(t.ReversePoint(worldSurfacePoint)))
}

// Map wraps u around the ring and v around the tube.
func (t *Torus) Map(p prim.Point) (u, v float64) {
	u = math.Atan2(p.Y, p.X) / (2 * math.Pi)
	if u < 0 {
		u += 1
	}
	q := math.Sqrt(p.X*p.X + p.Y*p.Y)
	v = math.Atan2(p.Z, q-t.Ring) / (2 * math.Pi)
	if v < 0 {
		v += 1
	}
	return u, v
}

// tubeQuadrance is the squared distance from the tube-center circle.
func (t *Torus) tubeQuadrance(p prim.Point) float64 {
	q := math.Sqrt(p.X*p.X + p.Y*p.Y)
	dq := q - t.Ring
	return dq*dq + p.Z*p.Z
}

func (t *Torus) IsSurfacePoint(worldPoint prim.Point) bool {
	p := t.ReversePoint(worldPoint)
	return prim.NearlyEqual(t.tubeQuadrance(p), t.Tube*t.Tube, 1e-6)
}

// IsOutside measures against the tube instead of the centroid; the
// centroid of a torus is not inside its volume.
func (t *Torus) IsOutside(worldPoint prim.Point) bool {
	p := t.ReversePoint(worldPoint)
	return t.tubeQuadrance(p) > t.Tube*t.Tube
}

func (t *Torus) Extent() float64 {
	return t.Ring + t.Tube
}

// Quadric is the axis-aligned quadric surface
// A x^2 + B y^2 + C z^2 + G z + J = 0, covering paraboloids, hyperboloids
// and their cylinders without a dedicated type each.
type Quadric struct {
	object
	A, B, C, G, J float64
}

// NewQuadric creates a general quadric. At least one second-order
// coefficient must be nonzero.
func NewQuadric(center prim.Point, a, b, c, g, j float64) (*Quadric, error) {
	if a == 0 && b == 0 && c == 0 {
		return nil, fmt.Errorf("quadric needs a nonzero second-order coefficient")
	}
	return &Quadric{
		object: newObject(center, 2, false),
		A:      a, B: b, C: c, G: g, J: j,
	}, nil
}

func (q *Quadric) objectNormal(p prim.Point) prim.Vec3 {
	return prim.Vec3{
		X: 2 * q.A * p.X,
		Y: 2 * q.B * p.Y,
		Z: 2*q.C*p.Z + q.G,
	}.Normalize()
}

func (q *Quadric) CollisionsAlong(objectRay prim.Ray) []Hit {
	o := objectRay.Origin
	d := objectRay.Direction
	qa := q.A*d.X*d.X + q.B*d.Y*d.Y + q.C*d.Z*d.Z
	qb := 2*(q.A*o.X*d.X+q.B*o.Y*d.Y+q.C*o.Z*d.Z) + q.G*d.Z
	qc := q.A*o.X*o.X + q.B*o.Y*o.Y + q.C*o.Z*o.Z + q.G*o.Z + q.J
	t0, t1 := prim.QuadraticRoots(qa, qb, qc)
	var hits []Hit
	for _, t := range []float64{t0, t1} {
		if math.IsNaN(t) {
			continue
		}
		p := objectRay.DistanceAlong(t)
		hits = append(hits, Hit{Point: p, Distance: t, Normal: q.objectNormal(p), Object: q})
	}
	return hits
}

func (q *Quadric) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(q, worldRay)
}

func (q *Quadric) Normal(worldSurfacePoint prim.Point) prim.Vec3 {
	return q.ForwardVec(q.objectNormal(q.ReversePoint(worldSurfacePoint)))
}

func (q *Quadric) Map(p prim.Point) (u, v float64) {
	return p.X, p.Y
}

func (q *Quadric) IsSurfacePoint(worldPoint prim.Point) bool {
	p := q.ReversePoint(worldPoint)
	f := q.A*p.X*p.X + q.B*p.Y*p.Y + q.C*p.Z*p.Z + q.G*p.Z + q.J
	return prim.NearlyEqual(f, 0, 1e-6)
}

func (q *Quadric) IsOutside(worldPoint prim.Point) bool {
	p := q.ReversePoint(worldPoint)
	f := q.A*p.X*p.X + q.B*p.Y*p.Y + q.C*p.Z*p.Z + q.G*p.Z + q.J
	return f > 0
}

func (q *Quadric) Extent() float64 {
	return math.Inf(1)
}

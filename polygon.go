package raytracer

import (
	"fmt"
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// Polygon is a convex planar N-gon. The vertices are given in world space
// with consistent winding; the surface faces the side from which the
// winding appears clockwise.
type Polygon struct {
	object
	points  []prim.Point // object-space vertices on z = 0
	radius2 float64      // squared distance to the farthest vertex
}

// NewPolygon creates a convex polygon from at least three world-space
// vertices.
func NewPolygon(worldPoints []prim.Point) (*Polygon, error) {
	if len(worldPoints) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 points, got %d", len(worldPoints))
	}
	normal := worldPoints[0].Sub(worldPoints[1]).Cross(worldPoints[2].Sub(worldPoints[1])).Normalize()
	if normal.IsZero() {
		return nil, fmt.Errorf("polygon points are colinear")
	}
	rot, err := rotationFromZ(normal)
	if err != nil {
		return nil, fmt.Errorf("polygon: %w", err)
	}
	center := prim.Centroid(worldPoints...)
	p := &Polygon{object: newObject(center, 1, false)}
	p.SetRotation(rot)
	// move the vertices into object space; they land on z = 0
	p.points = make([]prim.Point, len(worldPoints))
	for i, wp := range worldPoints {
		p.points[i] = p.ReversePoint(wp)
		p.radius2 = math.Max(p.radius2, p.points[i].Vec().Quadrance())
	}
	return p, nil
}

// contains runs the signed scalar-triple test against every edge; a convex
// polygon contains the point when no test is negative.
func (p *Polygon) contains(pt prim.Point) bool {
	if pt.Vec().Quadrance() > p.radius2 {
		return false
	}
	n := len(p.points)
	for i := range n {
		edge := p.points[(i+1)%n].Sub(p.points[i])
		test := pt.Sub(p.points[i])
		if prim.Triple(prim.BasisZ, test, edge) < 0 {
			return false
		}
	}
	return true
}

func (p *Polygon) objectNormal(prim.Point) prim.Vec3 {
	return prim.BasisZ
}

func (p *Polygon) CollisionsAlong(objectRay prim.Ray) []Hit {
	pt, t := planeCollision(objectRay)
	if math.IsNaN(t) || !p.contains(pt) {
		return nil
	}
	// only the facing side collides
	if prim.BasisZ.Dot(objectRay.Direction) >= 0 {
		return nil
	}
	return []Hit{{Point: pt, Distance: t, Normal: prim.BasisZ, Object: p}}
}

func (p *Polygon) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(p, worldRay)
}

func (p *Polygon) Normal(worldSurfacePoint prim.Point) prim.Vec3 {
	return p.ForwardVec(prim.BasisZ)
}

func (p *Polygon) Map(pt prim.Point) (u, v float64) {
	r := math.Sqrt(p.radius2)
	return pt.X/(2*r) + 0.5, pt.Y/(2*r) + 0.5
}

func (p *Polygon) IsSurfacePoint(worldPoint prim.Point) bool {
	pt := p.ReversePoint(worldPoint)
	return prim.NearlyEqual(pt.Z, 0, 1e-6) && p.contains(pt)
}

func (p *Polygon) IsOutside(worldPoint prim.Point) bool {
	return p.ReversePoint(worldPoint).Z > 0
}

func (p *Polygon) Extent() float64 {
	return math.Sqrt(p.radius2)
}

// Wall is a slab bounded by two parallel planes at z = +-thickness/2.
// The front face looks along +Z, the back along -Z.
type Wall struct {
	object
	Thickness float64
}

// NewWall creates a wall through center facing normal.
func NewWall(center prim.Point, normal prim.Vec3, thickness float64) (*Wall, error) {
	if thickness <= 0 {
		return nil, fmt.Errorf("wall thickness must be positive, got %v", thickness)
	}
	rot, err := rotationFromZ(normal)
	if err != nil {
		return nil, fmt.Errorf("wall: %w", err)
	}
	w := &Wall{object: newObject(center, 2, false), Thickness: thickness}
	w.SetRotation(rot)
	return w, nil
}

func (w *Wall) objectNormal(pt prim.Point) prim.Vec3 {
	if pt.Z >= 0 {
		return prim.BasisZ
	}
	return prim.BasisZ.Neg()
}

func (w *Wall) CollisionsAlong(objectRay prim.Ray) []Hit {
	if objectRay.Direction.Z == 0 {
		return nil
	}
	half := w.Thickness / 2
	var hits []Hit
	for _, face := range []struct {
		z float64
		n prim.Vec3
	}{
		{z: half, n: prim.BasisZ},
		{z: -half, n: prim.BasisZ.Neg()},
	} {
		t := (face.z - objectRay.Origin.Z) / objectRay.Direction.Z
		pt := objectRay.DistanceAlong(t)
		hits = append(hits, Hit{Point: pt, Distance: t, Normal: face.n, Object: w})
	}
	return hits
}

func (w *Wall) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(w, worldRay)
}

func (w *Wall) Normal(worldSurfacePoint prim.Point) prim.Vec3 {
	return w.ForwardVec(w.objectNormal(w.ReversePoint(worldSurfacePoint)))
}

func (w *Wall) Map(pt prim.Point) (u, v float64) {
	return pt.X, pt.Y
}

func (w *Wall) IsSurfacePoint(worldPoint prim.Point) bool {
	pt := w.ReversePoint(worldPoint)
	half := w.Thickness / 2
	return prim.NearlyEqual(math.Abs(pt.Z), half, 1e-6)
}

func (w *Wall) IsOutside(worldPoint prim.Point) bool {
	pt := w.ReversePoint(worldPoint)
	return math.Abs(pt.Z) > w.Thickness/2
}

func (w *Wall) Extent() float64 {
	return math.Inf(1)
}

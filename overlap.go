package raytracer

import (
	"fmt"
	"math"
	"sort"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// OverlapKind selects the set operation an Overlap applies to its two
// children.
type OverlapKind int

const (
	// Additive is the union of both volumes.
	Additive OverlapKind = iota
	// Subtractive removes B from A.
	Subtractive
	// Inclusive keeps only the intersection.
	Inclusive
	// Exclusive keeps the symmetric difference.
	Exclusive
)

func (k OverlapKind) String() string {
	switch k {
	case Additive:
		return "additive"
	case Subtractive:
		return "subtractive"
	case Inclusive:
		return "inclusive"
	case Exclusive:
		return "exclusive"
	}
	return "unknown"
}

// Overlap composes two child objects by set-theoretic hit-list surgery.
// The children are positioned in the overlap's own frame; overlaps nest
// freely since composition happens purely on hit lists.
type Overlap struct {
	object
	A, B Object
	Kind OverlapKind
}

// NewOverlap builds a composite of two children. Children are limited to
// surfaces with at most two collisions per ray, except other overlaps,
// which nest freely.
func NewOverlap(a, b Object, kind OverlapKind) (*Overlap, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("overlap requires two children")
	}
	for _, child := range []Object{a, b} {
		if _, nested := child.(*Overlap); nested {
			continue
		}
		if child.MaxCollisions() > 2 {
			return nil, fmt.Errorf("overlap children may have at most 2 collisions, got %d",
				child.MaxCollisions())
		}
	}
	center := prim.Centroid(a.Position(), b.Position())
	if kind == Subtractive {
		center = a.Position()
	}
	max := a.MaxCollisions() + b.MaxCollisions()
	if kind == Inclusive {
		max /= 2
	}
	return &Overlap{
		object: newObject(center, max, a.HasDefiniteVolume() && b.HasDefiniteVolume()),
		A:      a,
		B:      b,
		Kind:   kind,
	}, nil
}

// childHits collects a child's collisions along the overlap-space ray,
// expressed back in overlap space and sorted by distance.
func childHits(child Object, overlapRay prim.Ray) []Hit {
	hits := child.CollisionsAlong(child.ReverseRay(overlapRay))
	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if math.IsNaN(h.Distance) {
			continue
		}
		h.Point = child.ForwardPoint(h.Point)
		h.Normal = child.ForwardVec(h.Normal)
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

// contains reports whether the composite's volume includes the point.
func (o *Overlap) contains(kind OverlapKind, p prim.Point) bool {
	inA := !o.A.IsOutside(p)
	inB := !o.B.IsOutside(p)
	switch kind {
	case Additive:
		return inA || inB
	case Subtractive:
		return inA && !inB
	case Inclusive:
		return inA && inB
	case Exclusive:
		return inA != inB
	}
	return false
}

// boundaryStep probes the composite just on either side of a candidate
// surface point.
const boundaryStep = 1e-7

func (o *Overlap) CollisionsAlong(overlapRay prim.Ray) []Hit {
	hitsA := childHits(o.A, overlapRay)
	hitsB := childHits(o.B, overlapRay)
	if len(hitsA) == 0 && len(hitsB) == 0 {
		return nil
	}

	// a side that missed entirely short-circuits the set algebra
	switch o.Kind {
	case Additive, Exclusive:
		if len(hitsA) == 0 {
			return o.claim(hitsB)
		}
		if len(hitsB) == 0 {
			return o.claim(hitsA)
		}
	case Subtractive:
		if len(hitsA) == 0 {
			return nil
		}
		if len(hitsB) == 0 {
			return o.claim(hitsA)
		}
	case Inclusive:
		// open-surface children: a hit survives when it lies inside the
		// other child
		if len(hitsA) == 0 && !o.B.HasDefiniteVolume() {
			return o.claim(o.insideOther(hitsB, o.A))
		}
		if len(hitsB) == 0 && !o.A.HasDefiniteVolume() {
			return o.claim(o.insideOther(hitsA, o.B))
		}
		if len(hitsA) == 0 || len(hitsB) == 0 {
			return nil
		}
	}

	type labeled struct {
		hit   Hit
		fromB bool
	}
	merged := make([]labeled, 0, len(hitsA)+len(hitsB))
	for _, h := range hitsA {
		merged = append(merged, labeled{hit: h})
	}
	for _, h := range hitsB {
		merged = append(merged, labeled{hit: h, fromB: true})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].hit.Distance < merged[j].hit.Distance })

	// keep exactly the child surface points where the composite's
	// inside-ness flips; that classification works for any interleaving
	// and lets overlaps nest
	var hits []Hit
	for _, entry := range merged {
		t := entry.hit.Distance
		before := o.contains(o.Kind, overlapRay.DistanceAlong(t-boundaryStep))
		after := o.contains(o.Kind, overlapRay.DistanceAlong(t+boundaryStep))
		if before == after {
			continue
		}
		h := entry.hit
		if o.Kind == Subtractive && entry.fromB {
			h.Normal = h.Normal.Neg()
		}
		h.Object = o
		hits = append(hits, h)
	}
	return hits
}

// claim restamps child hits so the composite owns them: its medium and
// transforms apply from here up.
func (o *Overlap) claim(hits []Hit) []Hit {
	for i := range hits {
		hits[i].Object = o
	}
	return hits
}

func (o *Overlap) insideOther(hits []Hit, other Object) []Hit {
	var kept []Hit
	for _, h := range hits {
		if !other.IsOutside(h.Point) {
			kept = append(kept, h)
		}
	}
	return kept
}

func (o *Overlap) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(o, worldRay)
}

// Normal delegates to whichever child owns the surface point, flipping B's
// normal for subtractive cavities.
func (o *Overlap) Normal(worldSurfacePoint prim.Point) prim.Vec3 {
	op := o.ReversePoint(worldSurfacePoint)
	if o.A.IsSurfacePoint(op) {
		return o.ForwardVec(o.A.Normal(op))
	}
	if o.B.IsSurfacePoint(op) {
		n := o.B.Normal(op)
		if o.Kind == Subtractive {
			n = n.Neg()
		}
		return o.ForwardVec(n)
	}
	return prim.Vec3{}
}

func (o *Overlap) Map(pt prim.Point) (u, v float64) {
	if o.A.IsSurfacePoint(pt) {
		return o.A.Map(o.A.ReversePoint(pt))
	}
	if o.B.IsSurfacePoint(pt) {
		return o.B.Map(o.B.ReversePoint(pt))
	}
	return 0, 0
}

func (o *Overlap) IsSurfacePoint(worldPoint prim.Point) bool {
	op := o.ReversePoint(worldPoint)
	return o.A.IsSurfacePoint(op) || o.B.IsSurfacePoint(op)
}

func (o *Overlap) IsOutside(worldPoint prim.Point) bool {
	return !o.contains(o.Kind, o.ReversePoint(worldPoint))
}

// Extent accounts for children sitting away from the composite frame's
// origin.
func (o *Overlap) Extent() float64 {
	ra := o.A.Extent()
	rb := o.B.Extent()
	if math.IsInf(ra, 1) || math.IsInf(rb, 1) {
		return math.Inf(1)
	}
	da := o.A.Position().Sub(prim.Origin).Length() + ra
	db := o.B.Position().Sub(prim.Origin).Length() + rb
	return math.Max(da, db)
}

package raytracer

import (
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

func shellOverlap(t *testing.T) *Overlap {
	t.Helper()
	outer := mustSphere(t, prim.Origin, 2)
	inner := mustSphere(t, prim.Origin, 1)
	o, err := NewOverlap(outer, inner, Subtractive)
	if err != nil {
		t.Fatalf("NewOverlap: %v", err)
	}
	return o
}

func TestSubtractiveShell(t *testing.T) {
	shell := shellOverlap(t)
	ray := prim.NewRay(prim.Point{Z: -5}, prim.Vec3{Z: 1})
	hits := shell.CollisionsAlong(shell.ReverseRay(ray))
	if len(hits) < 2 {
		t.Fatalf("got %d collisions, want at least 2", len(hits))
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if diff := cmp.Diff(hits[0].Distance, 3.0, approxOpts); diff != "" {
		t.Errorf("first distance mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(hits[0].Normal, prim.Vec3{Z: -1}, approxOpts); diff != "" {
		t.Errorf("outer surface normal mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(hits[1].Distance, 4.0, approxOpts); diff != "" {
		t.Errorf("second distance mismatch (-got +want):\n%s", diff)
	}
	// the cavity surface is the inner sphere with its normal inverted
	if diff := cmp.Diff(hits[1].Normal, prim.Vec3{Z: 1}, approxOpts); diff != "" {
		t.Errorf("cavity normal mismatch (-got +want):\n%s", diff)
	}
}

func TestSubtractiveSwallowedIsEmpty(t *testing.T) {
	small := mustSphere(t, prim.Origin, 1)
	big := mustSphere(t, prim.Origin, 2)
	o, err := NewOverlap(small, big, Subtractive)
	if err != nil {
		t.Fatal(err)
	}
	ray := prim.NewRay(prim.Point{Z: -5}, prim.Vec3{Z: 1})
	if hits := o.CollisionsAlong(o.ReverseRay(ray)); len(hits) != 0 {
		t.Errorf("A inside B should vanish, got %d hits", len(hits))
	}
}

func TestInclusiveLens(t *testing.T) {
	a := mustSphere(t, prim.Point{Z: -0.5}, 1)
	b := mustSphere(t, prim.Point{Z: 0.5}, 1)
	lens, err := NewOverlap(a, b, Inclusive)
	if err != nil {
		t.Fatal(err)
	}
	ray := prim.NewRay(prim.Point{Z: -5}, prim.Vec3{Z: 1})
	hits := lens.CollisionsAlong(lens.ReverseRay(ray))
	if len(hits) != 2 {
		t.Fatalf("got %d collisions, want 2", len(hits))
	}
	// the lens spans z in [-0.5, 0.5]: B's entry then A's exit
	if diff := cmp.Diff(hits[0].Distance, 4.5, approxOpts); diff != "" {
		t.Errorf("lens entry mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(hits[1].Distance, 5.5, approxOpts); diff != "" {
		t.Errorf("lens exit mismatch (-got +want):\n%s", diff)
	}
}

func TestInclusiveDisjointIsEmpty(t *testing.T) {
	a := mustSphere(t, prim.Point{Z: -3}, 1)
	b := mustSphere(t, prim.Point{Z: 3}, 1)
	o, err := NewOverlap(a, b, Inclusive)
	if err != nil {
		t.Fatal(err)
	}
	ray := prim.NewRay(prim.Point{Z: -10}, prim.Vec3{Z: 1})
	if hits := o.CollisionsAlong(o.ReverseRay(ray)); len(hits) != 0 {
		t.Errorf("disjoint intersection should be empty, got %d hits", len(hits))
	}
}

func TestAdditiveFusedKeepsOuterShell(t *testing.T) {
	a := mustSphere(t, prim.Point{Z: -0.5}, 1)
	b := mustSphere(t, prim.Point{Z: 0.5}, 1)
	o, err := NewOverlap(a, b, Additive)
	if err != nil {
		t.Fatal(err)
	}
	ray := prim.NewRay(prim.Point{Z: -5}, prim.Vec3{Z: 1})
	hits := o.CollisionsAlong(o.ReverseRay(ray))
	if len(hits) != 2 {
		t.Fatalf("got %d collisions, want the 2 outer surfaces", len(hits))
	}
	if diff := cmp.Diff(hits[0].Distance, 3.5, approxOpts); diff != "" {
		t.Errorf("union entry mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(hits[1].Distance, 6.5, approxOpts); diff != "" {
		t.Errorf("union exit mismatch (-got +want):\n%s", diff)
	}
}

func TestAdditiveDisjointKeepsAll(t *testing.T) {
	a := mustSphere(t, prim.Point{Z: -3}, 1)
	b := mustSphere(t, prim.Point{Z: 3}, 1)
	o, err := NewOverlap(a, b, Additive)
	if err != nil {
		t.Fatal(err)
	}
	ray := prim.NewRay(prim.Point{Z: -10}, prim.Vec3{Z: 1})
	if hits := o.CollisionsAlong(o.ReverseRay(ray)); len(hits) != 4 {
		t.Errorf("disjoint union should keep all 4 surfaces, got %d", len(hits))
	}
}

func TestExclusiveDegeneratesToHitSide(t *testing.T) {
	a := mustSphere(t, prim.Point{X: -3}, 1)
	b := mustSphere(t, prim.Point{X: 3}, 1)
	o, err := NewOverlap(a, b, Exclusive)
	if err != nil {
		t.Fatal(err)
	}
	// this ray only crosses child A
	ray := prim.NewRay(prim.Point{X: -3, Z: -5}, prim.Vec3{Z: 1})
	hits := o.CollisionsAlong(o.ReverseRay(ray))
	if len(hits) != 2 {
		t.Fatalf("got %d collisions, want child A's 2", len(hits))
	}
	for _, h := range hits {
		if h.Object != Object(o) {
			t.Errorf("hit attributed to %T, want the composite", h.Object)
		}
	}
}

func TestOverlapHitBudget(t *testing.T) {
	shell := shellOverlap(t)
	rays := []prim.Ray{
		prim.NewRay(prim.Point{Z: -5}, prim.Vec3{Z: 1}),
		prim.NewRay(prim.Point{X: -5, Z: 1.5}, prim.Vec3{X: 1}),
		prim.NewRay(prim.Point{X: -5, Y: -5, Z: -5}, prim.Vec3{X: 1, Y: 1, Z: 1}),
	}
	limit := shell.A.MaxCollisions() + shell.B.MaxCollisions()
	for _, ray := range rays {
		if n := len(shell.CollisionsAlong(shell.ReverseRay(ray))); n > limit {
			t.Errorf("%d collisions exceed limit %d for %v", n, limit, ray)
		}
	}
}

func TestOverlapIntersectUsesFirstSurface(t *testing.T) {
	shell := shellOverlap(t)
	hit, ok := shell.Intersect(prim.NewRay(prim.Point{Z: -5}, prim.Vec3{Z: 1}))
	if !ok {
		t.Fatal("expected a hit")
	}
	if diff := cmp.Diff(hit.Distance, 3.0, approxOpts); diff != "" {
		t.Errorf("distance mismatch (-got +want):\n%s", diff)
	}
}

func TestOverlapIsOutside(t *testing.T) {
	shell := shellOverlap(t)
	tests := []struct {
		p    prim.Point
		want bool
	}{
		{p: prim.Point{Z: -3}, want: true},   // beyond the outer surface
		{p: prim.Point{Z: -1.5}, want: false}, // in the shell material
		{p: prim.Point{}, want: true},         // in the cavity
	}
	for _, tt := range tests {
		if got := shell.IsOutside(tt.p); got != tt.want {
			t.Errorf("IsOutside(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestOverlapRejectsQuarticChildren(t *testing.T) {
	torus, err := NewTorus(prim.Origin, 2, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewOverlap(torus, mustSphere(t, prim.Origin, 1), Additive); err == nil {
		t.Error("overlap should reject children with more than 2 collisions")
	}
}

func TestNestedOverlap(t *testing.T) {
	shell := shellOverlap(t)
	bite := mustSphere(t, prim.Point{Z: -2}, 0.8)
	nested, err := NewOverlap(shell, bite, Subtractive)
	if err != nil {
		t.Fatal(err)
	}
	ray := prim.NewRay(prim.Point{Z: -5}, prim.Vec3{Z: 1})
	hits := nested.CollisionsAlong(nested.ReverseRay(ray))
	if len(hits) == 0 {
		t.Fatal("nested overlap should still collide")
	}
	for _, h := range hits {
		if math.IsNaN(h.Distance) {
			t.Error("NaN distance escaped composition")
		}
	}
}

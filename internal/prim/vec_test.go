package prim

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approxOpts = cmpopts.EquateApprox(1e-7, 0.0)

func TestNormalizeSimple(t *testing.T) {
	tests := []struct {
		v    Vec3
		want Vec3
	}{
		{v: Vec3{X: 2, Y: 0, Z: 0}, want: Vec3{X: 1, Y: 0, Z: 0}},
		{v: Vec3{X: 0, Y: -12, Z: 5}, want: Vec3{X: 0, Y: -12.0 / 13, Z: 5.0 / 13}},
		{v: Vec3{X: 3, Y: 4, Z: 0}, want: Vec3{X: 3.0 / 5.0, Y: 4.0 / 5.0, Z: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			got := tt.v.Normalize()
			if diff := cmp.Diff(got, tt.want, approxOpts); diff != "" {
				t.Errorf("Vec3.Normalize() mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

func TestNormalizeIsUnitLength(t *testing.T) {
	tests := []struct {
		v Vec3
	}{
		{v: Vec3{X: 2, Y: 0, Z: 0}},
		{v: Vec3{X: 12, Y: 14, Z: 23}},
		{v: Vec3{X: 0, Y: 83, Z: 0.32}},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			normed := tt.v.Normalize()
			want := 1.0
			got := normed.Length()
			if diff := cmp.Diff(got, want, approxOpts); diff != "" {
				t.Errorf("Vec3.Length() mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

func TestCrossIsOrthogonal(t *testing.T) {
	tests := []struct {
		a, b Vec3
	}{
		{a: BasisX, b: BasisY},
		{a: Vec3{X: 1, Y: 2, Z: 3}, b: Vec3{X: -4, Y: 0, Z: 2}},
		{a: Vec3{X: 0.3, Y: -0.7, Z: 11}, b: Vec3{X: 5, Y: 5, Z: 5}},
	}
	for _, tt := range tests {
		c := tt.a.Cross(tt.b)
		if diff := cmp.Diff(c.Dot(tt.a), 0.0, approxOpts); diff != "" {
			t.Errorf("cross not orthogonal to a:\n%s", diff)
		}
		if diff := cmp.Diff(c.Dot(tt.b), 0.0, approxOpts); diff != "" {
			t.Errorf("cross not orthogonal to b:\n%s", diff)
		}
	}
}

func TestCrossBasis(t *testing.T) {
	got := BasisX.Cross(BasisY)
	if diff := cmp.Diff(got, BasisZ, approxOpts); diff != "" {
		t.Errorf("X cross Y mismatch (-got +want):\n%s", diff)
	}
}

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 1, Y: 2, Z: 3}
	q := Point{X: 4, Y: 6, Z: 8}
	v := q.Sub(p)
	if diff := cmp.Diff(v, Vec3{X: 3, Y: 4, Z: 5}, approxOpts); diff != "" {
		t.Errorf("Point.Sub mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(p.Add(v), q, approxOpts); diff != "" {
		t.Errorf("Point.Add mismatch (-got +want):\n%s", diff)
	}
}

func TestReflect(t *testing.T) {
	// incident at 45 degrees onto the XY plane reflects upward
	incident := Vec3{X: 1, Y: 0, Z: -1}.Normalize()
	got := incident.Reflect(BasisZ)
	want := Vec3{X: 1, Y: 0, Z: 1}.Normalize()
	if diff := cmp.Diff(got, want, approxOpts); diff != "" {
		t.Errorf("Reflect mismatch (-got +want):\n%s", diff)
	}
}

func TestRayDistanceAlong(t *testing.T) {
	r := NewRay(Point{X: 0, Y: 0, Z: -5}, Vec3{Z: 1})
	got := r.DistanceAlong(4)
	if diff := cmp.Diff(got, Point{X: 0, Y: 0, Z: -1}, approxOpts); diff != "" {
		t.Errorf("DistanceAlong mismatch (-got +want):\n%s", diff)
	}
}

func TestCentroid(t *testing.T) {
	got := Centroid(Point{X: 0}, Point{X: 2}, Point{X: 4, Y: 3})
	if diff := cmp.Diff(got, Point{X: 2, Y: 1}, approxOpts); diff != "" {
		t.Errorf("Centroid mismatch (-got +want):\n%s", diff)
	}
}

package prim

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRotateZQuarterTurn(t *testing.T) {
	r := RotateZ(math.Pi / 2)
	got := r.MulVec(BasisX)
	if diff := cmp.Diff(got, BasisY, approxOpts); diff != "" {
		t.Errorf("RotateZ(pi/2) * X mismatch (-got +want):\n%s", diff)
	}
}

func TestRotationDeterminantIsOne(t *testing.T) {
	tests := []struct {
		name string
		m    Mat3
	}{
		{name: "euler", m: EulerRotation(0.3, -1.1, 2.2)},
		{name: "axis", m: AxisRotation(Vec3{X: 1, Y: 2, Z: -1}, 0.77)},
		{name: "composed", m: RotateY(math.Pi / 2).Mul(RotateZ(-math.Pi / 2))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.m.Det(), 1.0, approxOpts); diff != "" {
				t.Errorf("determinant mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

func TestTransposeInvertsRotation(t *testing.T) {
	m := EulerRotation(0.1, 0.2, 0.3)
	v := Vec3{X: 4, Y: -5, Z: 6}
	got := m.Transpose().MulVec(m.MulVec(v))
	if diff := cmp.Diff(got, v, approxOpts); diff != "" {
		t.Errorf("transpose round-trip mismatch (-got +want):\n%s", diff)
	}
}

func TestAxisRotationMatchesSingleAxis(t *testing.T) {
	want := RotateX(0.9)
	got := AxisRotation(BasisX, 0.9)
	if diff := cmp.Diff(got, want, approxOpts); diff != "" {
		t.Errorf("AxisRotation(X) mismatch (-got +want):\n%s", diff)
	}
}

func TestCartesianToSpherical(t *testing.T) {
	r, theta, phi := CartesianToSpherical(Point{X: 0, Y: 2, Z: 0})
	if diff := cmp.Diff([]float64{r, theta, phi}, []float64{2, math.Pi / 2, math.Pi / 2}, approxOpts); diff != "" {
		t.Errorf("CartesianToSpherical mismatch (-got +want):\n%s", diff)
	}
}

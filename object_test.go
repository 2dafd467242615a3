package raytracer

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

var approxOpts = cmpopts.EquateApprox(1e-6, 0.0)

func mustSphere(t *testing.T, center prim.Point, radius float64) *Sphere {
	t.Helper()
	s, err := NewSphere(center, radius)
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	return s
}

func TestSphereIntersectHeadOn(t *testing.T) {
	s := mustSphere(t, prim.Origin, 1)
	ray := prim.NewRay(prim.Point{Z: -5}, prim.Vec3{Z: 1})
	hit, ok := s.Intersect(ray)
	if !ok {
		t.Fatal("expected a hit")
	}
	if diff := cmp.Diff(hit.Distance, 4.0, approxOpts); diff != "" {
		t.Errorf("distance mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(hit.Point, prim.Point{Z: -1}, approxOpts); diff != "" {
		t.Errorf("point mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(hit.Normal, prim.Vec3{Z: -1}, approxOpts); diff != "" {
		t.Errorf("normal mismatch (-got +want):\n%s", diff)
	}
}

func TestCuboidIntersectFace(t *testing.T) {
	c, err := NewCuboid(prim.Origin, 1, 1, 1)
	if err != nil {
		t.Fatalf("NewCuboid: %v", err)
	}
	ray := prim.NewRay(prim.Point{X: 2}, prim.Vec3{X: -1})
	hit, ok := c.Intersect(ray)
	if !ok {
		t.Fatal("expected a hit")
	}
	if diff := cmp.Diff(hit.Distance, 1.0, approxOpts); diff != "" {
		t.Errorf("distance mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(hit.Point, prim.Point{X: 1}, approxOpts); diff != "" {
		t.Errorf("point mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(hit.Normal, prim.Vec3{X: 1}, approxOpts); diff != "" {
		t.Errorf("normal mismatch (-got +want):\n%s", diff)
	}
	u, v := c.Map(c.ReversePoint(hit.Point))
	if diff := cmp.Diff([]float64{u, v}, []float64{0.5, 0.5}, approxOpts); diff != "" {
		t.Errorf("uv mismatch (-got +want):\n%s", diff)
	}
}

// every primitive must return unit normals from Intersect.
func TestIntersectNormalsAreUnit(t *testing.T) {
	cylinder, err := NewCylinder(prim.Origin, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	cone, err := NewCone(prim.Point{Z: -1}, 2, math.Pi/6)
	if err != nil {
		t.Fatal(err)
	}
	torus, err := NewTorus(prim.Origin, 2, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	ellipsoid, err := NewEllipsoid(prim.Origin, 2, 1, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	plane, err := NewPlane(prim.Origin, prim.Vec3{X: 1, Y: 1, Z: 1})
	if err != nil {
		t.Fatal(err)
	}
	pyramid, err := NewPyramid(prim.Point{Z: -1}, 2, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	wall, err := NewWall(prim.Origin, prim.Vec3{X: 1}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	quadric, err := NewQuadric(prim.Origin, 1, 1, 0, -1, 0) // paraboloid
	if err != nil {
		t.Fatal(err)
	}

	objects := []Object{
		mustSphere(t, prim.Origin, 1.3),
		cylinder, cone, torus, ellipsoid, plane, pyramid, wall, quadric,
	}
	rays := []prim.Ray{
		prim.NewRay(prim.Point{X: -5, Y: 0.1, Z: 0.2}, prim.Vec3{X: 1}),
		prim.NewRay(prim.Point{X: 4, Y: 3, Z: 2}, prim.Vec3{X: -1, Y: -0.8, Z: -0.5}),
		prim.NewRay(prim.Point{Y: -6, Z: 0.4}, prim.Vec3{Y: 1, Z: 0.05}),
	}
	for _, o := range objects {
		for _, ray := range rays {
			hit, ok := o.Intersect(ray)
			if !ok {
				continue
			}
			if diff := cmp.Diff(hit.Normal.Length(), 1.0, approxOpts); diff != "" {
				t.Errorf("%T normal not unit for %v (-got +want):\n%s", o, ray, diff)
			}
		}
	}
}

// rays starting inside a closed surface must escape through it.
func TestClosedSurfaceInsideRayCollides(t *testing.T) {
	cuboid, err := NewCuboid(prim.Origin, 1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	torus, err := NewTorus(prim.Origin, 2, 0.6)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		object Object
		origin prim.Point
	}{
		{name: "sphere", object: mustSphere(t, prim.Origin, 1), origin: prim.Origin},
		{name: "cuboid", object: cuboid, origin: prim.Point{X: 0.2}},
		{name: "torus tube", object: torus, origin: prim.Point{X: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := prim.NewRay(tt.origin, prim.Vec3{X: 0.3, Y: 0.4, Z: 0.5})
			found := false
			for _, h := range tt.object.CollisionsAlong(ray) {
				if !math.IsNaN(h.Distance) && h.Distance > prim.Epsilon {
					found = true
				}
			}
			if !found {
				t.Error("no positive-distance collision from inside")
			}
		})
	}
}

func TestSphereTangentRay(t *testing.T) {
	s := mustSphere(t, prim.Origin, 1)
	ray := prim.NewRay(prim.Point{Y: 1, Z: -5}, prim.Vec3{Z: 1})
	hits := s.CollisionsAlong(ray)
	distances := map[float64]bool{}
	for _, h := range hits {
		if !math.IsNaN(h.Distance) {
			distances[math.Round(h.Distance*1e9)/1e9] = true
		}
	}
	if len(distances) > 1 {
		t.Errorf("tangent ray produced %d distinct distances, want at most 1", len(distances))
	}
	if hit, ok := s.Intersect(ray); ok {
		if diff := cmp.Diff(hit.Distance, 5.0, approxOpts); diff != "" {
			t.Errorf("tangent distance mismatch (-got +want):\n%s", diff)
		}
	}
}

func TestSurfaceOriginEdgeRules(t *testing.T) {
	t.Run("outward no hit", func(t *testing.T) {
		s := mustSphere(t, prim.Origin, 1)
		ray := prim.NewRay(prim.Point{Z: -1}, prim.Vec3{Z: -1})
		if hit, ok := s.Intersect(ray); ok {
			t.Errorf("outward ray from surface hit at %v", hit.Distance)
		}
	})
	t.Run("inward opaque re-enters", func(t *testing.T) {
		s := mustSphere(t, prim.Origin, 1)
		s.SetMaterial(Dull) // opaque, zero refractive index
		ray := prim.NewRay(prim.Point{Z: -1}, prim.Vec3{Z: 1})
		hit, ok := s.Intersect(ray)
		if !ok {
			t.Fatal("inward ray on opaque surface should collide")
		}
		if diff := cmp.Diff(hit.Distance, 0.0, approxOpts); diff != "" {
			t.Errorf("re-entry distance mismatch (-got +want):\n%s", diff)
		}
	})
	t.Run("inward refractive passes through", func(t *testing.T) {
		s := mustSphere(t, prim.Origin, 1)
		s.SetMaterial(Glass)
		ray := prim.NewRay(prim.Point{Z: -1}, prim.Vec3{Z: 1})
		hit, ok := s.Intersect(ray)
		if !ok {
			t.Fatal("expected the far-side hit")
		}
		if diff := cmp.Diff(hit.Distance, 2.0, approxOpts); diff != "" {
			t.Errorf("far-side distance mismatch (-got +want):\n%s", diff)
		}
	})
}

func TestCylinderHeightClip(t *testing.T) {
	c, err := NewCylinder(prim.Origin, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	miss := prim.NewRay(prim.Point{X: -5, Z: 2}, prim.Vec3{X: 1})
	if _, ok := c.Intersect(miss); ok {
		t.Error("ray above the clipped cylinder should miss")
	}
	hit := prim.NewRay(prim.Point{X: -5, Z: 0.5}, prim.Vec3{X: 1})
	h, ok := c.Intersect(hit)
	if !ok {
		t.Fatal("ray through the tube should hit")
	}
	if diff := cmp.Diff(h.Point, prim.Point{X: -1, Z: 0.5}, approxOpts); diff != "" {
		t.Errorf("hit point mismatch (-got +want):\n%s", diff)
	}
}

func TestTorusFourCollisions(t *testing.T) {
	torus, err := NewTorus(prim.Origin, 2, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	// straight through the middle of the ring plane: both tube walls on
	// both sides
	ray := prim.NewRay(prim.Point{X: -5}, prim.Vec3{X: 1})
	hits := 0
	for _, h := range torus.CollisionsAlong(ray) {
		if !math.IsNaN(h.Distance) {
			hits++
		}
	}
	if hits != 4 {
		t.Errorf("got %d collisions through the ring, want 4", hits)
	}
	if hits > torus.MaxCollisions() {
		t.Errorf("collisions %d exceed MaxCollisions %d", hits, torus.MaxCollisions())
	}
}

func TestPolygonContainment(t *testing.T) {
	tri, err := NewPolygon([]prim.Point{
		{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 0, Y: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	// the winding above faces -Z, so approach from below
	inside := prim.NewRay(prim.Point{X: 0, Y: 0, Z: -5}, prim.Vec3{Z: 1})
	if _, ok := tri.Intersect(inside); !ok {
		t.Error("ray through the triangle interior should hit")
	}
	outside := prim.NewRay(prim.Point{X: 2, Y: 2, Z: -5}, prim.Vec3{Z: 1})
	if _, ok := tri.Intersect(outside); ok {
		t.Error("ray outside the triangle should miss")
	}
	behind := prim.NewRay(prim.Point{X: 0, Y: 0, Z: 5}, prim.Vec3{Z: -1})
	if _, ok := tri.Intersect(behind); ok {
		t.Error("the back side of a polygon does not collide")
	}
}

func TestWallTwoFaces(t *testing.T) {
	w, err := NewWall(prim.Origin, prim.BasisZ, 1)
	if err != nil {
		t.Fatal(err)
	}
	ray := prim.NewRay(prim.Point{Z: 5}, prim.Vec3{Z: -1})
	hits := w.CollisionsAlong(w.ReverseRay(ray))
	if len(hits) != 2 {
		t.Fatalf("got %d collisions, want 2", len(hits))
	}
	h, ok := w.Intersect(ray)
	if !ok {
		t.Fatal("expected the front face hit")
	}
	if diff := cmp.Diff(h.Distance, 4.5, approxOpts); diff != "" {
		t.Errorf("front face distance mismatch (-got +want):\n%s", diff)
	}
}

func TestWorldBoundsFiniteAndInfinite(t *testing.T) {
	s := mustSphere(t, prim.Point{X: 1, Y: 2, Z: 3}, 2)
	b := worldBounds(s)
	if b.IsInfinite() {
		t.Error("sphere bounds should be finite")
	}
	if diff := cmp.Diff(b.Min, prim.Point{X: -1, Y: 0, Z: 1}, approxOpts); diff != "" {
		t.Errorf("bounds min mismatch (-got +want):\n%s", diff)
	}
	plane, err := NewPlane(prim.Origin, prim.BasisZ)
	if err != nil {
		t.Fatal(err)
	}
	if !worldBounds(plane).IsInfinite() {
		t.Error("plane bounds should be infinite")
	}
}

func TestEntityTransformRoundTrip(t *testing.T) {
	e := NewEntity(prim.Point{X: 3, Y: -2, Z: 7})
	e.SetRotation(prim.EulerRotation(0.4, -0.9, 2.1))
	roundTripOpts := cmpopts.EquateApprox(1e-9, 0.0)

	p := prim.Point{X: 1.5, Y: 2.5, Z: -0.5}
	if diff := cmp.Diff(e.ForwardPoint(e.ReversePoint(p)), p, roundTripOpts); diff != "" {
		t.Errorf("point round trip mismatch (-got +want):\n%s", diff)
	}
	v := prim.Vec3{X: -4, Y: 1, Z: 9}
	if diff := cmp.Diff(e.ReverseVec(e.ForwardVec(v)), v, roundTripOpts); diff != "" {
		t.Errorf("vector round trip mismatch (-got +want):\n%s", diff)
	}
	ray := prim.NewRay(p, v)
	back := e.ForwardRay(e.ReverseRay(ray))
	if diff := cmp.Diff(back.Origin, ray.Origin, roundTripOpts); diff != "" {
		t.Errorf("ray origin round trip mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(back.Direction, ray.Direction, roundTripOpts); diff != "" {
		t.Errorf("ray direction round trip mismatch (-got +want):\n%s", diff)
	}
}

func TestConstructionErrors(t *testing.T) {
	if _, err := NewSphere(prim.Origin, 0); err == nil {
		t.Error("zero-radius sphere should fail")
	}
	if _, err := NewCuboid(prim.Origin, 1, 0, 1); err == nil {
		t.Error("zero half-width cuboid should fail")
	}
	if _, err := NewCylinder(prim.Origin, 0, 1); err == nil {
		t.Error("zero-height cylinder should fail")
	}
	if _, err := NewTorus(prim.Origin, 1, 2); err == nil {
		t.Error("tube larger than ring should fail")
	}
	if _, err := NewPolygon([]prim.Point{{X: 0}, {X: 1}}); err == nil {
		t.Error("two-point polygon should fail")
	}
	if _, err := NewPolygon([]prim.Point{{X: 0}, {X: 1}, {X: 2}}); err == nil {
		t.Error("colinear polygon should fail")
	}
}

func TestSetMaterialNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("assigning a nil medium should panic")
		}
	}()
	mustSphere(t, prim.Origin, 1).SetMaterial(nil)
}

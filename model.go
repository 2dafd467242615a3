package raytracer

import (
	"fmt"
	"math"

	"github.com/mwrenna/go-raytracer/internal/meshio"
	"github.com/mwrenna/go-raytracer/internal/prim"
)

// AddModel loads a glTF/GLB file and adds its triangles to the scene as
// polygon objects sharing one medium. The mesh is uniformly scaled so its
// largest dimension spans size, then translated to center.
func AddModel(s *Scene, path string, center prim.Point, size float64, medium Medium) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("model size must be positive, got %v", size)
	}
	tris, err := meshio.LoadTriangles(path)
	if err != nil {
		return 0, err
	}

	min := tris[0][0]
	max := tris[0][0]
	for _, tri := range tris {
		for _, p := range tri {
			min = prim.Point{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
			max = prim.Point{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
		}
	}
	extent := max.Sub(min)
	largest := math.Max(extent.X, math.Max(extent.Y, extent.Z))
	if largest == 0 {
		return 0, fmt.Errorf("model %s has zero extent", path)
	}
	scale := size / largest
	mid := prim.Centroid(min, max)

	added := 0
	for _, tri := range tris {
		var points [3]prim.Point
		for i, p := range tri {
			points[i] = center.Add(p.Sub(mid).Scale(scale))
		}
		poly, err := NewPolygon(points[:])
		if err != nil {
			// skip degenerate faces rather than rejecting the model
			continue
		}
		if medium != nil {
			poly.SetMaterial(medium)
		}
		s.AddObject(poly)
		added++
	}
	if added == 0 {
		return 0, fmt.Errorf("model %s has no usable faces", path)
	}
	return added, nil
}

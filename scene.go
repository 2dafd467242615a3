package raytracer

import (
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// Background maps a world ray that escaped the scene to a color.
type Background func(prim.Ray) Color

// Scene holds everything a render needs: objects, lights, the background
// and the ambient medium. The scene borrows objects, mediums and lights;
// their lifetimes belong to whoever built them and must outlast the
// render.
type Scene struct {
	// AdaptiveReflectionThreshold prunes recursion once a branch's
	// contribution falls below it.
	AdaptiveReflectionThreshold float64

	objects    []Object
	lights     []Light
	background Background
	media      Medium

	// derived by prepare()
	bounds   prim.Bounds
	infinite []Object
	root     *treeNode
	prepared bool
}

// NewScene creates an empty scene with the default recursion threshold.
func NewScene() *Scene {
	return &Scene{
		AdaptiveReflectionThreshold: 1.0 / 32.0,
	}
}

// AddObject registers an object. The scene does not take ownership.
func (s *Scene) AddObject(o Object) {
	s.objects = append(s.objects, o)
	s.prepared = false
}

// AddLight registers a light.
func (s *Scene) AddLight(l Light) {
	s.lights = append(s.lights, l)
}

// SetBackground installs the escape-ray color functor.
func (s *Scene) SetBackground(bg Background) {
	s.background = bg
}

// SetMedia installs the scene-wide ambient medium, e.g. an atmosphere.
func (s *Scene) SetMedia(m Medium) {
	s.media = m
}

// Clear removes every object and light.
func (s *Scene) Clear() {
	s.objects = nil
	s.lights = nil
	s.infinite = nil
	s.root = nil
	s.prepared = false
}

// NumberOfObjects reports the registered object count.
func (s *Scene) NumberOfObjects() int {
	return len(s.objects)
}

// NumberOfLights reports the registered light count.
func (s *Scene) NumberOfLights() int {
	return len(s.lights)
}

// Media returns the ambient medium, defaulting to vacuum.
func (s *Scene) Media() Medium {
	if s.media == nil {
		return Vacuum
	}
	return s.media
}

// backgroundColor resolves the background, defaulting to black.
func (s *Scene) backgroundColor(ray prim.Ray) Color {
	if s.background == nil {
		return Black
	}
	return s.background(ray)
}

// prepare partitions objects into the octree and the infinite list. It
// runs once per render unless the object set changed.
func (s *Scene) prepare() {
	if s.prepared {
		return
	}
	s.infinite = nil
	var finite []Object
	bounds := prim.Bounds{}
	first := true
	for _, o := range s.objects {
		wb := worldBounds(o)
		if wb.IsInfinite() {
			s.infinite = append(s.infinite, o)
			continue
		}
		finite = append(finite, o)
		if first {
			bounds = wb
			first = false
		} else {
			bounds.Grow(wb)
		}
	}
	if first {
		// no finite objects; an empty unit box keeps the tree valid
		bounds = prim.NewBounds(prim.Point{X: -1, Y: -1, Z: -1}, prim.Point{X: 1, Y: 1, Z: 1})
	}
	s.bounds = bounds
	s.root = newTreeNode(bounds)
	for _, o := range finite {
		s.root.addObject(o)
	}
	s.prepared = true
}

// findNearest returns the closest intersection along the world ray across
// the octree and the infinite objects.
func (s *Scene) findNearest(ray prim.Ray, stats *Stats) (Hit, bool) {
	hits := s.root.intersects(ray, stats)
	for _, o := range s.infinite {
		stats.IntersectionTests++
		if h, ok := o.Intersect(ray); ok {
			hits = append(hits, h)
		}
	}
	nearest := Hit{Distance: math.Inf(1)}
	found := false
	for _, h := range hits {
		if h.Distance < nearest.Distance {
			nearest = h
			found = true
		}
	}
	return nearest, found
}

package raytracer

import (
	"github.com/mwrenna/go-raytracer/internal/prim"
)

const (
	// octreeFanout is both the child count and the per-node object limit
	// that triggers a split.
	octreeFanout = 8

	// minCellDiameter stops subdivision; smaller cells keep overflow
	// lists flat.
	minCellDiameter = 1.0
)

// treeNode is one octree cell. Objects whose world bounds straddle all
// eight children stay at the node that split; everything else is added to
// every child its bounds intersect, recursively.
type treeNode struct {
	bounds  prim.Bounds
	objects []Object
	nodes   []treeNode // empty until the node splits, then exactly eight
}

func newTreeNode(bounds prim.Bounds) *treeNode {
	return &treeNode{bounds: bounds}
}

func (n *treeNode) intersectsObject(o Object) bool {
	return n.bounds.Intersects(worldBounds(o))
}

// insert places an object below a split node: held here when it straddles
// every child, pushed down otherwise.
func (n *treeNode) insert(o Object) bool {
	straddles := 0
	for i := range n.nodes {
		if n.nodes[i].intersectsObject(o) {
			straddles++
		}
	}
	if straddles == octreeFanout {
		n.objects = append(n.objects, o)
		return true
	}
	added := false
	for i := range n.nodes {
		if n.nodes[i].addObject(o) {
			added = true
		}
	}
	return added
}

// addObject files an object into the subtree. The ninth object splits a
// leaf and re-homes its contents, except when the cell is already at the
// minimum diameter.
func (n *treeNode) addObject(o Object) bool {
	if !n.intersectsObject(o) {
		return false
	}
	if len(n.nodes) == 0 {
		n.objects = append(n.objects, o)
		if len(n.objects) > octreeFanout && n.bounds.Diameter() > minCellDiameter {
			for _, sub := range n.bounds.Split() {
				n.nodes = append(n.nodes, treeNode{bounds: sub})
			}
			resettle := n.objects
			n.objects = nil
			for _, obj := range resettle {
				n.insert(obj)
			}
		}
		return true
	}
	return n.insert(o)
}

// intersects gathers hits from this cell and every child cell the ray
// touches. Cells the ray misses contribute nothing.
func (n *treeNode) intersects(ray prim.Ray, stats *Stats) []Hit {
	if !n.bounds.IntersectsRay(ray) {
		return nil
	}
	var hits []Hit
	for _, o := range n.objects {
		stats.IntersectionTests++
		if h, ok := o.Intersect(ray); ok {
			hits = append(hits, h)
		}
	}
	for i := range n.nodes {
		if n.nodes[i].bounds.IntersectsRay(ray) {
			hits = append(hits, n.nodes[i].intersects(ray, stats)...)
		} else {
			stats.SavedByBounds++
		}
	}
	return hits
}

// objectCount reports how many objects live in the subtree.
func (n *treeNode) objectCount() int {
	count := len(n.objects)
	for i := range n.nodes {
		count += n.nodes[i].objectCount()
	}
	return count
}

// depth reports the deepest level of the subtree.
func (n *treeNode) depth() int {
	deepest := 0
	for i := range n.nodes {
		if d := n.nodes[i].depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

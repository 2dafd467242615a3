package prim

import "math"

// Bounds is an axis-aligned bounding box with inclusive min and exclusive
// max corners. InfiniteBounds yields bounds covering all of R3.
type Bounds struct {
	Min, Max Point
}

// InfiniteBounds returns bounds covering all of R3.
func InfiniteBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Min: Point{-inf, -inf, -inf},
		Max: Point{inf, inf, inf},
	}
}

// NewBounds constructs bounds from two corner points.
func NewBounds(min, max Point) Bounds {
	return Bounds{Min: min, Max: max}
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Point {
	return Point{
		(b.Min.X + b.Max.X) / 2,
		(b.Min.Y + b.Max.Y) / 2,
		(b.Min.Z + b.Max.Z) / 2,
	}
}

// Contains reports whether min <= p < max componentwise.
func (b Bounds) Contains(p Point) bool {
	return b.Min.X <= p.X && p.X < b.Max.X &&
		b.Min.Y <= p.Y && p.Y < b.Max.Y &&
		b.Min.Z <= p.Z && p.Z < b.Max.Z
}

// IsInfinite reports whether any dimension extends to infinity.
func (b Bounds) IsInfinite() bool {
	return math.IsInf(b.Min.X, -1) || math.IsInf(b.Min.Y, -1) || math.IsInf(b.Min.Z, -1) ||
		math.IsInf(b.Max.X, 1) || math.IsInf(b.Max.Y, 1) || math.IsInf(b.Max.Z, 1)
}

// IntersectsRay performs a slab test per axis, accumulating the near and
// far parameters. It only answers whether the ray touches the box.
func (b Bounds) IntersectsRay(r Ray) bool {
	tNear := math.Inf(-1)
	tFar := math.Inf(1)
	origins := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dirs := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	mins := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	maxs := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	for axis := range 3 {
		if dirs[axis] == 0 {
			if origins[axis] < mins[axis] || origins[axis] >= maxs[axis] {
				return false
			}
			continue
		}
		t0 := (mins[axis] - origins[axis]) / dirs[axis]
		t1 := (maxs[axis] - origins[axis]) / dirs[axis]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tNear = math.Max(tNear, t0)
		tFar = math.Min(tFar, t1)
		if tNear > tFar || tFar < 0 {
			return false
		}
	}
	return true
}

// Intersects reports whether two bounds overlap.
func (b Bounds) Intersects(other Bounds) bool {
	return b.Min.X < other.Max.X && other.Min.X < b.Max.X &&
		b.Min.Y < other.Max.Y && other.Min.Y < b.Max.Y &&
		b.Min.Z < other.Max.Z && other.Min.Z < b.Max.Z
}

// Grow expands the bounds to also cover other.
func (b *Bounds) Grow(other Bounds) {
	b.Min.X = math.Min(b.Min.X, other.Min.X)
	b.Min.Y = math.Min(b.Min.Y, other.Min.Y)
	b.Min.Z = math.Min(b.Min.Z, other.Min.Z)
	b.Max.X = math.Max(b.Max.X, other.Max.X)
	b.Max.Y = math.Max(b.Max.Y, other.Max.Y)
	b.Max.Z = math.Max(b.Max.Z, other.Max.Z)
}

// Split divides the bounds into its eight octants around the center.
func (b Bounds) Split() [8]Bounds {
	mid := b.Center()
	min := b.Min
	max := b.Max
	return [8]Bounds{
		{Min: Point{min.X, min.Y, min.Z}, Max: Point{mid.X, mid.Y, mid.Z}},
		{Min: Point{min.X, min.Y, mid.Z}, Max: Point{mid.X, mid.Y, max.Z}},
		{Min: Point{min.X, mid.Y, min.Z}, Max: Point{mid.X, max.Y, mid.Z}},
		{Min: Point{min.X, mid.Y, mid.Z}, Max: Point{mid.X, max.Y, max.Z}},
		{Min: Point{mid.X, min.Y, min.Z}, Max: Point{max.X, mid.Y, mid.Z}},
		{Min: Point{mid.X, min.Y, mid.Z}, Max: Point{max.X, mid.Y, max.Z}},
		{Min: Point{mid.X, mid.Y, min.Z}, Max: Point{max.X, max.Y, mid.Z}},
		{Min: Point{mid.X, mid.Y, mid.Z}, Max: Point{max.X, max.Y, max.Z}},
	}
}

// Diameter returns the length of the diagonal, or +Inf for infinite bounds.
func (b Bounds) Diameter() float64 {
	return b.Max.Sub(b.Min).Length()
}

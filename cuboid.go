package raytracer

import (
	"fmt"
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// Cuboid is an axis-aligned box in object space with half-widths along
// each axis.
type Cuboid struct {
	object
	HalfWidths [3]float64
}

// NewCuboid creates a box from its center and the three half-widths, none
// of which may be zero.
func NewCuboid(center prim.Point, xhw, yhw, zhw float64) (*Cuboid, error) {
	for _, hw := range []float64{xhw, yhw, zhw} {
		if hw <= 0 {
			return nil, fmt.Errorf("cuboid half-widths must be positive, got (%v, %v, %v)", xhw, yhw, zhw)
		}
	}
	return &Cuboid{
		object:     newObject(center, 2, true),
		HalfWidths: [3]float64{xhw, yhw, zhw},
	}, nil
}

// surfaceTolerance absorbs the rounding from the slab divisions.
const surfaceTolerance = 1e-6

func (c *Cuboid) objectNormal(p prim.Point) prim.Vec3 {
	// the face is whichever half-width the point saturates
	switch {
	case prim.NearlyEqual(p.X, c.HalfWidths[0], surfaceTolerance):
		return prim.BasisX
	case prim.NearlyEqual(p.X, -c.HalfWidths[0], surfaceTolerance):
		return prim.BasisX.Neg()
	case prim.NearlyEqual(p.Y, c.HalfWidths[1], surfaceTolerance):
		return prim.BasisY
	case prim.NearlyEqual(p.Y, -c.HalfWidths[1], surfaceTolerance):
		return prim.BasisY.Neg()
	case prim.NearlyEqual(p.Z, c.HalfWidths[2], surfaceTolerance):
		return prim.BasisZ
	default:
		return prim.BasisZ.Neg()
	}
}

func (c *Cuboid) contained(p prim.Point) bool {
	return p.X >= -c.HalfWidths[0]-surfaceTolerance && p.X <= c.HalfWidths[0]+surfaceTolerance &&
		p.Y >= -c.HalfWidths[1]-surfaceTolerance && p.Y <= c.HalfWidths[1]+surfaceTolerance &&
		p.Z >= -c.HalfWidths[2]-surfaceTolerance && p.Z <= c.HalfWidths[2]+surfaceTolerance
}

func (c *Cuboid) CollisionsAlong(objectRay prim.Ray) []Hit {
	var hits []Hit
	origin := [3]float64{objectRay.Origin.X, objectRay.Origin.Y, objectRay.Origin.Z}
	dir := [3]float64{objectRay.Direction.X, objectRay.Direction.Y, objectRay.Direction.Z}
	for axis := range 3 {
		if dir[axis] == 0 {
			continue
		}
		for _, side := range []float64{-c.HalfWidths[axis], c.HalfWidths[axis]} {
			t := (side - origin[axis]) / dir[axis]
			p := objectRay.DistanceAlong(t)
			if c.contained(p) {
				hits = append(hits, Hit{Point: p, Distance: t, Normal: c.objectNormal(p), Object: c})
			}
		}
	}
	return hits
}

func (c *Cuboid) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(c, worldRay)
}

func (c *Cuboid) Normal(worldSurfacePoint prim.Point) prim.Vec3 {
	return c.ForwardVec(c.objectNormal(c.ReversePoint(worldSurfacePoint)))
}

// Map picks (u, v) per face so each face carries the full texture.
func (c *Cuboid) Map(p prim.Point) (u, v float64) {
	xw, yw, zw := c.HalfWidths[0], c.HalfWidths[1], c.HalfWidths[2]
	switch {
	case prim.NearlyEqual(p.X, xw, surfaceTolerance):
		return p.Y/(2*yw) + 0.5, 0.5 - p.Z/(2*zw)
	case prim.NearlyEqual(p.X, -xw, surfaceTolerance):
		return 0.5 - p.Y/(2*yw), 0.5 - p.Z/(2*zw)
	case prim.NearlyEqual(p.Y, yw, surfaceTolerance):
		return 0.5 - p.X/(2*xw), 0.5 - p.Z/(2*zw)
	case prim.NearlyEqual(p.Y, -yw, surfaceTolerance):
		return p.X/(2*xw) + 0.5, 0.5 - p.Z/(2*zw)
	case prim.NearlyEqual(p.Z, zw, surfaceTolerance):
		return 0.5 - p.X/(2*xw), 0.5 - p.Y/(2*yw)
	case prim.NearlyEqual(p.Z, -zw, surfaceTolerance):
		return p.X/(2*xw) + 0.5, 0.5 - p.Y/(2*yw)
	}
	return 0, 0
}

func (c *Cuboid) IsSurfacePoint(worldPoint prim.Point) bool {
	p := c.ReversePoint(worldPoint)
	if !c.contained(p) {
		return false
	}
	return prim.NearlyEqual(math.Abs(p.X), c.HalfWidths[0], surfaceTolerance) ||
		prim.NearlyEqual(math.Abs(p.Y), c.HalfWidths[1], surfaceTolerance) ||
		prim.NearlyEqual(math.Abs(p.Z), c.HalfWidths[2], surfaceTolerance)
}

func (c *Cuboid) IsOutside(worldPoint prim.Point) bool {
	p := c.ReversePoint(worldPoint)
	return !c.contained(p)
}

func (c *Cuboid) Extent() float64 {
	return prim.Vec3{X: c.HalfWidths[0], Y: c.HalfWidths[1], Z: c.HalfWidths[2]}.Length()
}

// Pyramid is a square-based pyramid: apex on +Z at the height, base on
// z = 0 with the given half-base.
type Pyramid struct {
	object
	Height   float64
	HalfBase float64
}

// NewPyramid creates a pyramid from the center of its base.
func NewPyramid(base prim.Point, height, halfBase float64) (*Pyramid, error) {
	if height <= 0 || halfBase <= 0 {
		return nil, fmt.Errorf("pyramid height and half-base must be positive, got (%v, %v)", height, halfBase)
	}
	return &Pyramid{
		object:   newObject(base, 2, true),
		Height:   height,
		HalfBase: halfBase,
	}, nil
}

// slope is the base half-width per unit height below the apex.
func (p *Pyramid) slope() float64 {
	return p.HalfBase / p.Height
}

func (p *Pyramid) objectNormal(pt prim.Point) prim.Vec3 {
	if prim.NearlyEqual(pt.Z, 0, surfaceTolerance) {
		return prim.BasisZ.Neg()
	}
	k := p.slope()
	// faces tilt outward by atan(k) from vertical
	ax := math.Abs(pt.X)
	ay := math.Abs(pt.Y)
	if ax > ay {
		return prim.Vec3{X: math.Copysign(1, pt.X), Z: k}.Normalize()
	}
	return prim.Vec3{Y: math.Copysign(1, pt.Y), Z: k}.Normalize()
}

func (p *Pyramid) onSurface(pt prim.Point) bool {
	if pt.Z < -surfaceTolerance || pt.Z > p.Height+surfaceTolerance {
		return false
	}
	limit := p.slope() * (p.Height - pt.Z)
	return math.Abs(pt.X) <= limit+surfaceTolerance && math.Abs(pt.Y) <= limit+surfaceTolerance
}

func (p *Pyramid) CollisionsAlong(objectRay prim.Ray) []Hit {
	var hits []Hit
	o := objectRay.Origin
	d := objectRay.Direction
	k := p.slope()
	// the four slanted faces are planes |x| = k (h - z) and |y| = k (h - z)
	for _, sign := range []float64{1, -1} {
		// x face: sign*x + k z = k h
		den := sign*d.X + k*d.Z
		if den != 0 {
			t := (k*p.Height - (sign*o.X + k*o.Z)) / den
			pt := objectRay.DistanceAlong(t)
			if p.onSurface(pt) && prim.NearlyEqual(sign*pt.X, k*(p.Height-pt.Z), 1e-6) {
				n := prim.Vec3{X: sign, Z: k}.Normalize()
				hits = append(hits, Hit{Point: pt, Distance: t, Normal: n, Object: p})
			}
		}
		// y face: sign*y + k z = k h
		den = sign*d.Y + k*d.Z
		if den != 0 {
			t := (k*p.Height - (sign*o.Y + k*o.Z)) / den
			pt := objectRay.DistanceAlong(t)
			if p.onSurface(pt) && prim.NearlyEqual(sign*pt.Y, k*(p.Height-pt.Z), 1e-6) {
				n := prim.Vec3{Y: sign, Z: k}.Normalize()
				hits = append(hits, Hit{Point: pt, Distance: t, Normal: n, Object: p})
			}
		}
	}
	// base plane z = 0
	if d.Z != 0 {
		t := -o.Z / d.Z
		pt := objectRay.DistanceAlong(t)
		if math.Abs(pt.X) <= p.HalfBase+surfaceTolerance && math.Abs(pt.Y) <= p.HalfBase+surfaceTolerance {
			hits = append(hits, Hit{Point: pt, Distance: t, Normal: prim.BasisZ.Neg(), Object: p})
		}
	}
	return hits
}

func (p *Pyramid) Intersect(worldRay prim.Ray) (Hit, bool) {
	return firstHit(p, worldRay)
}

func (p *Pyramid) Normal(worldSurfacePoint prim.Point) prim.Vec3 {
	return p.ForwardVec(p.objectNormal(p.ReversePoint(worldSurfacePoint)))
}

func (p *Pyramid) Map(pt prim.Point) (u, v float64) {
	u = pt.X/(2*p.HalfBase) + 0.5
	v = pt.Y/(2*p.HalfBase) + 0.5
	return u, v
}

func (p *Pyramid) IsSurfacePoint(worldPoint prim.Point) bool {
	pt := p.ReversePoint(worldPoint)
	if !p.onSurface(pt) {
		return false
	}
	limit := p.slope() * (p.Height - pt.Z)
	onFace := prim.NearlyEqual(math.Abs(pt.X), limit, 1e-6) || prim.NearlyEqual(math.Abs(pt.Y), limit, 1e-6)
	return onFace || prim.NearlyEqual(pt.Z, 0, 1e-6)
}

func (p *Pyramid) IsOutside(worldPoint prim.Point) bool {
	pt := p.ReversePoint(worldPoint)
	if pt.Z < 0 || pt.Z > p.Height {
		return true
	}
	limit := p.slope() * (p.Height - pt.Z)
	return math.Abs(pt.X) > limit || math.Abs(pt.Y) > limit
}

func (p *Pyramid) Extent() float64 {
	return math.Max(p.Height, p.HalfBase*math.Sqrt2)
}

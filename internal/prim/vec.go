// Package prim implements primitives for 3D graphics.
package prim

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used when accepting intersection distances and
// when comparing surface coordinates.
const Epsilon = 1e-9

// Vec3 is a direction or displacement in R3. Rotations apply to vectors,
// translations do not; see Point for positions.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) String() string {
	return fmt.Sprintf("Vec3(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Mul multiplies two vectors pointwise.
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Quadrance is the squared length (no sqrt).
func (v Vec3) Quadrance() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Normalize() Vec3 {
	magnitude := v.Length()
	if magnitude == 0 {
		return Vec3{}
	}
	return Vec3{v.X / magnitude, v.Y / magnitude, v.Z / magnitude}
}

func (v Vec3) IsZero() bool {
	return v.X == 0.0 && v.Y == 0.0 && v.Z == 0.0
}

func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return Vec3{
		v.X + (other.X-v.X)*t,
		v.Y + (other.Y-v.Y)*t,
		v.Z + (other.Z-v.Z)*t,
	}
}

// Reflect reflects the incident vector v around the unit normal n.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Triple is the scalar triple product a . (b x c).
func Triple(a, b, c Vec3) float64 {
	return a.Dot(b.Cross(c))
}

// Point is a position in R3. point - point = vector, point + vector = point.
type Point struct {
	X, Y, Z float64
}

func (p Point) String() string {
	return fmt.Sprintf("Point(%.4f, %.4f, %.4f)", p.X, p.Y, p.Z)
}

// Sub returns the vector from other to p.
func (p Point) Sub(other Point) Vec3 {
	return Vec3{p.X - other.X, p.Y - other.Y, p.Z - other.Z}
}

func (p Point) Add(v Vec3) Point {
	return Point{p.X + v.X, p.Y + v.Y, p.Z + v.Z}
}

// Vec is the displacement of p from the origin.
func (p Point) Vec() Vec3 {
	return Vec3{p.X, p.Y, p.Z}
}

// Lerp interpolates between two points by t.
func (p Point) Lerp(other Point, t float64) Point {
	return Point{
		p.X + (other.X-p.X)*t,
		p.Y + (other.Y-p.Y)*t,
		p.Z + (other.Z-p.Z)*t,
	}
}

// Origin is the R3 origin.
var Origin = Point{}

// Basis vectors.
var (
	BasisX = Vec3{X: 1}
	BasisY = Vec3{Y: 1}
	BasisZ = Vec3{Z: 1}
)

// Centroid returns the average position of the given points.
func Centroid(points ...Point) Point {
	var x, y, z float64
	for _, p := range points {
		x += p.X
		y += p.Y
		z += p.Z
	}
	n := float64(len(points))
	return Point{x / n, y / n, z / n}
}

// NearlyZero reports whether x is within Epsilon of zero.
func NearlyZero(x float64) bool {
	return math.Abs(x) < Epsilon
}

// NearlyEqual reports whether a and b agree within tol.
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// Clamp limits x between min and max.
func Clamp(min, max, x float64) float64 {
	return math.Min(math.Max(x, min), max)
}

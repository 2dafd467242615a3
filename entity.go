package raytracer

import (
	"github.com/mwrenna/go-raytracer/internal/prim"
)

// Entity is the transform base shared by objects and cameras. It stores a
// world position and an orthonormal rotation and keeps the derived forward
// and reverse transforms current. Mutating either recomputes both.
//
// All intersection math happens in object space; the scene only ever deals
// in world-space rays and points. Forward transforms rotate then translate
// points, and rotate-only vectors.
type Entity struct {
	position prim.Point
	rotation prim.Mat3
	inverse  prim.Mat3
}

// NewEntity creates an entity at the given position with no rotation.
func NewEntity(position prim.Point) Entity {
	return Entity{
		position: position,
		rotation: prim.Identity3(),
		inverse:  prim.Identity3(),
	}
}

// Position returns the entity's world position.
func (e *Entity) Position() prim.Point {
	return e.position
}

// MoveTo changes the entity's world position.
func (e *Entity) MoveTo(p prim.Point) {
	e.position = p
}

// Rotation returns the entity's rotation matrix.
func (e *Entity) Rotation() prim.Mat3 {
	return e.rotation
}

// SetRotation installs an orthonormal rotation; the inverse is its
// transpose.
func (e *Entity) SetRotation(r prim.Mat3) {
	e.rotation = r
	e.inverse = r.Transpose()
}

// RotateBy applies Euler roll/pitch/yaw on top of the identity.
func (e *Entity) RotateBy(roll, pitch, yaw float64) {
	e.SetRotation(prim.EulerRotation(roll, pitch, yaw))
}

// ForwardPoint maps an object-space point into world space.
func (e *Entity) ForwardPoint(p prim.Point) prim.Point {
	r := e.rotation.MulPoint(p)
	return r.Add(e.position.Vec())
}

// ReversePoint maps a world-space point into object space.
func (e *Entity) ReversePoint(p prim.Point) prim.Point {
	shifted := prim.Point{X: p.X - e.position.X, Y: p.Y - e.position.Y, Z: p.Z - e.position.Z}
	return e.inverse.MulPoint(shifted)
}

// ForwardVec rotates an object-space vector into world space.
func (e *Entity) ForwardVec(v prim.Vec3) prim.Vec3 {
	return e.rotation.MulVec(v)
}

// ReverseVec rotates a world-space vector into object space.
func (e *Entity) ReverseVec(v prim.Vec3) prim.Vec3 {
	return e.inverse.MulVec(v)
}

// ForwardRay transforms the origin as a point and the direction as a
// vector.
func (e *Entity) ForwardRay(r prim.Ray) prim.Ray {
	return prim.Ray{
		Origin:    e.ForwardPoint(r.Origin),
		Direction: e.ForwardVec(r.Direction),
	}
}

// ReverseRay transforms a world ray into object space.
func (e *Entity) ReverseRay(r prim.Ray) prim.Ray {
	return prim.Ray{
		Origin:    e.ReversePoint(r.Origin),
		Direction: e.ReverseVec(r.Direction),
	}
}

package prim

import "fmt"

// Ray is an origin point and a unit-length direction.
type Ray struct {
	Origin    Point
	Direction Vec3
}

// NewRay constructs a ray, normalizing the direction.
func NewRay(origin Point, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

func (r Ray) String() string {
	return fmt.Sprintf("Ray(Origin: %v, Direction: %v)", r.Origin, r.Direction)
}

// DistanceAlong returns origin + t * direction. Negative t is permitted at
// the line level; intersection acceptance filters on t later.
func (r Ray) DistanceAlong(t float64) Point {
	return r.Origin.Add(r.Direction.Scale(t))
}

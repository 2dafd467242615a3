package prim

import "math"

// Mat3 is a 3x3 matrix stored in row-major order.
//
// | 0 1 2 |
// | 3 4 5 |
// | 6 7 8 |
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mul returns the matrix product m * other.
func (m Mat3) Mul(other Mat3) Mat3 {
	var r Mat3
	for i := range 3 {
		for j := range 3 {
			r[i*3+j] = m[i*3+0]*other[0*3+j] + m[i*3+1]*other[1*3+j] + m[i*3+2]*other[2*3+j]
		}
	}
	return r
}

// MulVec rotates a vector by m.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// MulPoint applies m to a point (rotation only; combine with a translation
// to build a full rigid transform).
func (m Mat3) MulPoint(p Point) Point {
	return Point{
		m[0]*p.X + m[1]*p.Y + m[2]*p.Z,
		m[3]*p.X + m[4]*p.Y + m[5]*p.Z,
		m[6]*p.X + m[7]*p.Y + m[8]*p.Z,
	}
}

// Transpose returns the transposed matrix. For an orthonormal rotation this
// is also the inverse.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// RotateX returns the rotation matrix about the X axis by theta radians.
func RotateX(theta float64) Mat3 {
	s, c := math.Sincos(theta)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotateY returns the rotation matrix about the Y axis by theta radians.
func RotateY(theta float64) Mat3 {
	s, c := math.Sincos(theta)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotateZ returns the rotation matrix about the Z axis by theta radians.
func RotateZ(theta float64) Mat3 {
	s, c := math.Sincos(theta)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// EulerRotation composes roll (about X), pitch (about Y) and yaw (about Z)
// into a single rotation Rz * Ry * Rx.
func EulerRotation(roll, pitch, yaw float64) Mat3 {
	return RotateZ(yaw).Mul(RotateY(pitch)).Mul(RotateX(roll))
}

// AxisRotation returns the rotation of theta radians about an arbitrary
// unit axis (Rodrigues form).
func AxisRotation(axis Vec3, theta float64) Mat3 {
	a := axis.Normalize()
	s, c := math.Sincos(theta)
	t := 1 - c
	return Mat3{
		t*a.X*a.X + c, t*a.X*a.Y - s*a.Z, t*a.X*a.Z + s*a.Y,
		t*a.X*a.Y + s*a.Z, t*a.Y*a.Y + c, t*a.Y*a.Z - s*a.X,
		t*a.X*a.Z - s*a.Y, t*a.Y*a.Z + s*a.X, t*a.Z*a.Z + c,
	}
}

// CartesianToSpherical converts a point to (r, theta, phi) where theta is
// the azimuth in the XY plane and phi is the inclination from +Z.
func CartesianToSpherical(p Point) (r, theta, phi float64) {
	r = p.Vec().Length()
	if r == 0 {
		return 0, 0, 0
	}
	theta = math.Atan2(p.Y, p.X)
	phi = math.Acos(p.Z / r)
	return r, theta, phi
}

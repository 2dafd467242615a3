package raytracer

import (
	"fmt"
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// MaskDisabled is the mask value that opts a pixel out of adaptive
// anti-aliasing.
const MaskDisabled uint8 = 255

// Camera is a pinhole camera. Image rays originate on the image plane one
// look-distance in front of the position; the intrinsics matrix converts
// raster coordinates into camera space.
//
// The world convention is +Z up with the camera forward along its look
// vector; looking straight up or down +Z is rejected.
type Camera struct {
	Entity
	Capture *Capture
	Mask    []uint8 // adaptive anti-aliasing mask, one byte per pixel

	FieldOfView float64 // horizontal, degrees

	intrinsics prim.Mat3
	pixelScale float64
	lookAt     prim.Point
	look       prim.Vec3
	up         prim.Vec3
	left       prim.Vec3
	camToObj   prim.Mat3
}

// NewCamera creates a camera for an image of the given size and
// horizontal field of view in degrees. It starts at the origin looking
// down +X.
func NewCamera(imageHeight, imageWidth int, fieldOfView float64) (*Camera, error) {
	if imageHeight <= 0 || imageWidth <= 0 {
		return nil, fmt.Errorf("camera image size must be positive, got %dx%d", imageHeight, imageWidth)
	}
	if fieldOfView <= 0 || fieldOfView >= 180 {
		return nil, fmt.Errorf("camera field of view must be in (0, 180), got %v", fieldOfView)
	}
	c := &Camera{
		Entity:      NewEntity(prim.Origin),
		Capture:     NewCapture(imageHeight, imageWidth),
		Mask:        make([]uint8, imageHeight*imageWidth),
		FieldOfView: fieldOfView,
		intrinsics:  prim.Identity3(),
	}
	for i := range c.Mask {
		c.Mask[i] = MaskDisabled
	}
	// camera frame (+Z forward, -Y up) to world frame (+X forward, +Z up)
	c.camToObj = prim.RotateY(math.Pi / 2).Mul(prim.RotateZ(-math.Pi / 2))

	// an initial look-at that keeps the pixel scale at 1
	rfov := fieldOfView * math.Pi / 180
	f := float64(imageWidth/2) / math.Tan(rfov/2)
	if err := c.MoveTo(prim.Origin, prim.Point{X: f}); err != nil {
		return nil, err
	}
	return c, nil
}

// MoveTo repositions the camera and re-aims it, recomputing the camera
// basis and intrinsics.
func (c *Camera) MoveTo(lookFrom, lookAt prim.Point) error {
	look := lookAt.Sub(lookFrom)
	if look.Length() == 0 {
		return fmt.Errorf("camera look-from and look-at are the same point")
	}
	worldUp := prim.BasisZ
	if n := look.Normalize(); n == worldUp || n == worldUp.Neg() {
		return fmt.Errorf("camera cannot look straight up or down the +Z axis")
	}
	left := worldUp.Cross(look)
	if left.Length() == 0 {
		return fmt.Errorf("camera look vector is colinear with up")
	}

	c.Entity.MoveTo(lookFrom)
	c.lookAt = lookAt
	c.look = look
	c.left = left
	c.up = look.Cross(left)

	// aim the entity rotation with pan and tilt from the look direction
	_, theta, phi := prim.CartesianToSpherical(prim.Origin.Add(look))
	tilt := phi - math.Pi/2
	if tilt <= -math.Pi/2 || tilt >= math.Pi {
		return fmt.Errorf("camera tilt out of range: %v", tilt)
	}
	c.SetRotation(prim.RotateZ(theta).Mul(prim.RotateY(tilt)))

	// intrinsics scale pixels by the look distance and field of view
	d := look.Length()
	rfov := c.FieldOfView * math.Pi / 180
	w := float64(c.Capture.Width)
	h := float64(c.Capture.Height)
	c.pixelScale = 2 * d * math.Tan(rfov/2) / w
	c.intrinsics = prim.Mat3{
		c.pixelScale, 0, -(w / 2) * c.pixelScale,
		0, c.pixelScale, -(h / 2) * c.pixelScale,
		0, 0, d,
	}
	return nil
}

// Cast builds the world ray through the image point (x across, y down).
// Sub-pixel offsets are welcome; whole numbers address pixel corners.
func (c *Camera) Cast(x, y float64) prim.Ray {
	// homogenize the raster point and lift it onto the image plane
	cameraPoint := c.intrinsics.MulPoint(prim.Point{X: x, Y: y, Z: 1})
	objectPoint := c.camToObj.MulPoint(cameraPoint)
	worldPoint := c.ForwardPoint(objectPoint)
	direction := worldPoint.Sub(c.Position())
	return prim.Ray{Origin: worldPoint, Direction: direction.Normalize()}
}

// At returns the look-at point.
func (c *Camera) At() prim.Point {
	return c.lookAt
}

// Forward is the ray from the camera along its look vector.
func (c *Camera) Forward() prim.Ray {
	return prim.Ray{Origin: c.Position(), Direction: c.look.Normalize()}
}

// Up is the ray along the camera's up vector.
func (c *Camera) Up() prim.Ray {
	return prim.Ray{Origin: c.Position(), Direction: c.up.Normalize()}
}

// Left is the ray along the camera's left vector.
func (c *Camera) Left() prim.Ray {
	return prim.Ray{Origin: c.Position(), Direction: c.left.Normalize()}
}

// Intrinsics exposes the raster-to-camera matrix.
func (c *Camera) Intrinsics() prim.Mat3 {
	return c.intrinsics
}

// maskAt addresses the anti-aliasing mask by pixel.
func (c *Camera) maskAt(row, col int) uint8 {
	return c.Mask[row*c.Capture.Width+col]
}

func (c *Camera) setMask(row, col int, v uint8) {
	c.Mask[row*c.Capture.Width+col] = v
}

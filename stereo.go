package raytracer

import (
	"fmt"
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// StereoLayout selects how a stereo pair is merged into one image.
type StereoLayout int

const (
	// LeftRight places the two captures side by side.
	LeftRight StereoLayout = iota
	// TopBottom stacks them vertically.
	TopBottom
)

// StereoCamera is two cameras separated along the right vector and toed
// in to share one look-at point.
type StereoCamera struct {
	Entity
	Separation float64
	Layout     StereoLayout
	First      *Camera // left eye
	Second     *Camera // right eye

	lookAt prim.Point
	toeIn  float64 // radians
}

// NewStereoCamera creates a stereo pair. Separation is the world-space
// half-distance between the eyes.
func NewStereoCamera(imageHeight, imageWidth int, fieldOfView, separation float64, layout StereoLayout) (*StereoCamera, error) {
	if separation <= 0 {
		return nil, fmt.Errorf("stereo separation must be positive, got %v", separation)
	}
	first, err := NewCamera(imageHeight, imageWidth, fieldOfView)
	if err != nil {
		return nil, err
	}
	second, err := NewCamera(imageHeight, imageWidth, fieldOfView)
	if err != nil {
		return nil, err
	}
	return &StereoCamera{
		Entity:     NewEntity(prim.Origin),
		Separation: separation,
		Layout:     layout,
		First:      first,
		Second:     second,
	}, nil
}

// MoveTo aims both cameras at the same look-at point from eye positions
// offset along the right vector.
func (s *StereoCamera) MoveTo(lookFrom, lookAt prim.Point) error {
	look := lookAt.Sub(lookFrom)
	right := look.Cross(prim.BasisZ).Normalize()
	if right.IsZero() {
		return fmt.Errorf("stereo camera cannot look along the Z axis")
	}
	leftPosition := lookFrom.Add(right.Scale(-s.Separation))
	rightPosition := lookFrom.Add(right.Scale(s.Separation))
	if err := s.First.MoveTo(leftPosition, lookAt); err != nil {
		return err
	}
	if err := s.Second.MoveTo(rightPosition, lookAt); err != nil {
		return err
	}
	s.Entity.MoveTo(lookFrom)
	s.lookAt = lookAt
	// both eyes pivot inward by the same angle
	leftLook := lookAt.Sub(leftPosition)
	cos := clamp(-1, 1, look.Dot(leftLook)/(look.Length()*leftLook.Length()))
	s.toeIn = math.Acos(cos)
	return nil
}

// At returns the shared look-at point.
func (s *StereoCamera) At() prim.Point {
	return s.lookAt
}

// ToeIn is the inward pivot angle of each eye in radians.
func (s *StereoCamera) ToeIn() float64 {
	return s.toeIn
}

// MergeImages joins the two captures per the configured layout.
func (s *StereoCamera) MergeImages() *Capture {
	a := s.First.Capture
	b := s.Second.Capture
	if s.Layout == TopBottom {
		merged := NewCapture(a.Height+b.Height, a.Width)
		merged.ForEach(func(row, col int, _ Color) {
			if row < a.Height {
				merged.Set(row, col, a.At(row, col))
			} else {
				merged.Set(row, col, b.At(row-a.Height, col))
			}
		})
		return merged
	}
	merged := NewCapture(a.Height, a.Width+b.Width)
	merged.ForEach(func(row, col int, _ Color) {
		if col < a.Width {
			merged.Set(row, col, a.At(row, col))
		} else {
			merged.Set(row, col, b.At(row, col-a.Width))
		}
	})
	return merged
}

package raytracer

import (
	"fmt"
	"math"
)

// Color is a linear-RGB color. Components are nominally in [0, 1] but are
// allowed to exceed 1 during accumulation; Clamp before encoding.
type Color struct {
	R, G, B float64
}

// RGB constructs a color from normalized linear components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

func (c Color) String() string {
	return fmt.Sprintf("Color(%.4f, %.4f, %.4f)", c.R, c.G, c.B)
}

func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Mul multiplies two colors componentwise.
func (c Color) Mul(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Clamp limits each component to [0, 1].
func (c Color) Clamp() Color {
	return Color{
		clamp(0, 1, c.R),
		clamp(0, 1, c.G),
		clamp(0, 1, c.B),
	}
}

func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		c.R + (other.R-c.R)*t,
		c.G + (other.G-c.G)*t,
		c.B + (other.B-c.B)*t,
	}
}

func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// Luminance is the perceptual brightness of the color.
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// RGBA implements the color.Color interface, converting from linear to
// gamma-encoded sRGB on the way out.
func (c Color) RGBA() (r, g, b, a uint32) {
	const max = 0xffff
	cc := c.Clamp()
	return uint32(LinearToGamma(cc.R) * max),
		uint32(LinearToGamma(cc.G) * max),
		uint32(LinearToGamma(cc.B) * max),
		max
}

// LinearToGamma encodes a linear component into sRGB gamma space.
func LinearToGamma(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

// GammaToLinear decodes an sRGB gamma component back to linear.
func GammaToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// The palette used by the example worlds.
var (
	Black     = RGB(0, 0, 0)
	White     = RGB(1, 1, 1)
	Red       = RGB(1, 0, 0)
	Green     = RGB(0, 1, 0)
	Blue      = RGB(0, 0, 1)
	Yellow    = RGB(1, 1, 0)
	Cyan      = RGB(0, 1, 1)
	Magenta   = RGB(1, 0, 1)
	Gray      = RGB(0.5, 0.5, 0.5)
	DarkGray  = RGB(0.2, 0.2, 0.2)
	LightGray = RGB(0.8, 0.8, 0.8)
	Orange    = RGB(1, 0.5, 0)
	Brown     = RGB(0.55, 0.27, 0.07)
	LightBlue = RGB(0.68, 0.85, 0.9)
	SkyBlue   = RGB(0.53, 0.81, 0.92)
)

func clamp(min, max, x float64) float64 {
	return math.Min(math.Max(x, min), max)
}

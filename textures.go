package raytracer

import (
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// Procedural mediums. Each one is an opaque medium whose diffuse color is
// computed from the reduced (u, v) surface coordinates or from the raw
// volumetric point.

// Checkerboard alternates two colors on a unit grid.
type Checkerboard struct {
	Plain
	Other   Color
	Repeats float64
}

// NewCheckerboard builds the classic two-tone checker. Repeats scales how
// many squares fit in one unit of (u, v).
func NewCheckerboard(repeats float64, light, dark Color, smoothness, tightness float64) *Checkerboard {
	c := &Checkerboard{
		Plain:   *NewPlain(light.Scale(0.1), 0.2, light, smoothness, tightness),
		Other:   dark,
		Repeats: repeats,
	}
	return c
}

func (c *Checkerboard) Diffuse(point prim.Point) Color {
	u, v := c.uv(point)
	iu := int(math.Floor(u * c.Repeats))
	iv := int(math.Floor(v * c.Repeats))
	if (iu+iv)%2 == 0 {
		return c.DiffuseColor
	}
	return c.Other
}

// Stripes alternates two colors along v.
type Stripes struct {
	Plain
	Other   Color
	Repeats float64
}

func NewStripes(repeats float64, a, b Color, smoothness, tightness float64) *Stripes {
	return &Stripes{
		Plain:   *NewPlain(a.Scale(0.1), 0.2, a, smoothness, tightness),
		Other:   b,
		Repeats: repeats,
	}
}

func (s *Stripes) Diffuse(point prim.Point) Color {
	_, v := s.uv(point)
	if int(math.Floor(v*s.Repeats))%2 == 0 {
		return s.DiffuseColor
	}
	return s.Other
}

// Dots places circular spots of one color on a field of another.
type Dots struct {
	Plain
	Background Color
	Repeats    float64
	Radius     float64 // dot radius within a unit cell, in (0, 0.5)
}

func NewDots(repeats float64, dot, background Color, smoothness, tightness float64) *Dots {
	return &Dots{
		Plain:      *NewPlain(background.Scale(0.1), 0.2, dot, smoothness, tightness),
		Background: background,
		Repeats:    repeats,
		Radius:     0.3,
	}
}

func (d *Dots) Diffuse(point prim.Point) Color {
	u, v := d.uv(point)
	fu := u*d.Repeats - math.Floor(u*d.Repeats) - 0.5
	fv := v*d.Repeats - math.Floor(v*d.Repeats) - 0.5
	if fu*fu+fv*fv < d.Radius*d.Radius {
		return d.DiffuseColor
	}
	return d.Background
}

// Grid draws thin lines of one color over a field of another.
type Grid struct {
	Plain
	Line    Color
	Repeats float64
	Width   float64 // line half-width within a unit cell
}

func NewGrid(repeats float64, line, field Color, smoothness, tightness float64) *Grid {
	return &Grid{
		Plain:   *NewPlain(field.Scale(0.1), 0.2, field, smoothness, tightness),
		Line:    line,
		Repeats: repeats,
		Width:   0.05,
	}
}

func (g *Grid) Diffuse(point prim.Point) Color {
	u, v := g.uv(point)
	fu := u*g.Repeats - math.Floor(u*g.Repeats)
	fv := v*g.Repeats - math.Floor(v*g.Repeats)
	if fu < g.Width || fu > 1-g.Width || fv < g.Width || fv > 1-g.Width {
		return g.Line
	}
	return g.DiffuseColor
}

// RandomNoise hashes the volumetric point into a grayscale value. It is
// deliberately unsmoothed; see Perlin for coherent noise.
type RandomNoise struct {
	Plain
}

func NewRandomNoise() *RandomNoise {
	return &RandomNoise{Plain: *NewPlain(Gray, 0.1, Gray, 0, 10)}
}

func (r *RandomNoise) Diffuse(point prim.Point) Color {
	h := hash3(point.X, point.Y, point.Z)
	return RGB(h, h, h)
}

// hash3 is a cheap deterministic point hash in [0, 1).
func hash3(x, y, z float64) float64 {
	s := math.Sin(x*127.1+y*311.7+z*74.7) * 43758.5453123
	return s - math.Floor(s)
}

// Perlin shades by coherent gradient noise blended between two colors.
type Perlin struct {
	Plain
	Other Color
	Scale float64
}

func NewPerlin(scale float64, a, b Color, smoothness, tightness float64) *Perlin {
	return &Perlin{
		Plain: *NewPlain(a.Scale(0.1), 0.2, a, smoothness, tightness),
		Other: b,
		Scale: scale,
	}
}

func (p *Perlin) Diffuse(point prim.Point) Color {
	n := perlin3(point.X*p.Scale, point.Y*p.Scale, point.Z*p.Scale)
	return p.DiffuseColor.Lerp(p.Other, (n+1)/2)
}

// TurbSin layers turbulence into a sine to produce marble veins.
type TurbSin struct {
	Plain
	Vein    Color
	Scale   float64
	Power   float64
	Octaves int
}

func NewTurbSin(scale, power float64, base, vein Color, smoothness, tightness float64) *TurbSin {
	return &TurbSin{
		Plain:   *NewPlain(base.Scale(0.1), 0.2, base, smoothness, tightness),
		Vein:    vein,
		Scale:   scale,
		Power:   power,
		Octaves: 5,
	}
}

func (t *TurbSin) Diffuse(point prim.Point) Color {
	turb := 0.0
	amp := 1.0
	freq := 1.0
	for range t.Octaves {
		turb += math.Abs(perlin3(point.X*t.Scale*freq, point.Y*t.Scale*freq, point.Z*t.Scale*freq)) * amp
		amp *= 0.5
		freq *= 2
	}
	s := math.Sin(t.Scale*point.X + t.Power*turb)
	return t.DiffuseColor.Lerp(t.Vein, (s+1)/2)
}

// Classic Perlin gradient noise over a repeating 256 lattice.

var perlinPerm = buildPerlinPerm()

func buildPerlinPerm() [512]int {
	// Knuth-style LCG shuffle with a fixed seed so renders reproduce.
	var p [512]int
	seed := uint64(0x9e3779b97f4a7c15)
	src := make([]int, 256)
	for i := range src {
		src[i] = i
	}
	for i := 255; i > 0; i-- {
		seed = seed*6364136223846793005 + 1442695040888963407
		j := int(seed % uint64(i+1))
		src[i], src[j] = src[j], src[i]
	}
	for i := range p {
		p[i] = src[i&255]
	}
	return p
}

func perlinFade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func perlinGrad(hash int, x, y, z float64) float64 {
	switch hash & 15 {
	case 0, 12:
		return x + y
	case 1, 13:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x + z
	case 5:
		return -x + z
	case 6:
		return x - z
	case 7:
		return -x - z
	case 8:
		return y + z
	case 9, 14:
		return -y + z
	case 10:
		return y - z
	default:
		return -y - z
	}
}

// perlin3 returns coherent noise in [-1, 1].
func perlin3(x, y, z float64) float64 {
	xi := int(math.Floor(x)) & 255
	yi := int(math.Floor(y)) & 255
	zi := int(math.Floor(z)) & 255
	xf := x - math.Floor(x)
	yf := y - math.Floor(y)
	zf := z - math.Floor(z)

	u := perlinFade(xf)
	v := perlinFade(yf)
	w := perlinFade(zf)

	p := &perlinPerm
	aaa := p[p[p[xi]+yi]+zi]
	aba := p[p[p[xi]+yi+1]+zi]
	aab := p[p[p[xi]+yi]+zi+1]
	abb := p[p[p[xi]+yi+1]+zi+1]
	baa := p[p[p[xi+1]+yi]+zi]
	bba := p[p[p[xi+1]+yi+1]+zi]
	bab := p[p[p[xi+1]+yi]+zi+1]
	bbb := p[p[p[xi+1]+yi+1]+zi+1]

	lerp := func(a, b, t float64) float64 { return a + t*(b-a) }

	x1 := lerp(perlinGrad(aaa, xf, yf, zf), perlinGrad(baa, xf-1, yf, zf), u)
	x2 := lerp(perlinGrad(aba, xf, yf-1, zf), perlinGrad(bba, xf-1, yf-1, zf), u)
	y1 := lerp(x1, x2, v)

	x3 := lerp(perlinGrad(aab, xf, yf, zf-1), perlinGrad(bab, xf-1, yf, zf-1), u)
	x4 := lerp(perlinGrad(abb, xf, yf-1, zf-1), perlinGrad(bbb, xf-1, yf-1, zf-1), u)
	y2 := lerp(x3, x4, v)

	return lerp(y1, y2, w)
}

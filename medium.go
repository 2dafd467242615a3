package raytracer

import (
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// ReducingMap converts an R3 volumetric point into (u, v) parameter space
// for procedural textures. Objects install their surface parameterization
// on their medium when a texture should follow the surface.
type ReducingMap func(prim.Point) (u, v float64)

// Medium is a shading material: the color/BRDF terms plus the optional
// refraction and fade behavior. Mediums are constant after construction
// and are shared between objects; objects borrow them and never own them.
type Medium interface {
	// Ambient is the color contribution present without any light.
	Ambient(objectPoint prim.Point) Color

	// Diffuse is the scattering color at a volumetric point. Procedural
	// mediums vary it over space.
	Diffuse(volumetricPoint prim.Point) Color

	// Specular is the highlight contribution for a Blinn-Phong halfway
	// cosine already raised to no power; the medium applies its own
	// tightness exponent.
	Specular(volumetricPoint prim.Point, halfwayCos float64, lightColor Color) Color

	// Emissive is the light given off by the surface itself.
	Emissive(objectPoint prim.Point) Color

	// Smoothness is the mirror fraction in [0, 1].
	Smoothness(volumetricPoint prim.Point) float64

	// RefractiveIndex is the index eta >= 1 for refractive mediums and 0
	// for opaque ones.
	RefractiveIndex(volumetricPoint prim.Point) float64

	// Absorbance applies Beer's-law attenuation over the given distance.
	Absorbance(distance float64, incoming Color) Color

	// Radiosity partitions incoming energy into emitted, reflected and
	// transmitted fractions with e + r + t <= 1. A NaN transmitted angle
	// signals total internal reflection.
	Radiosity(volumetricPoint prim.Point, incomingIndex, incidentAngle, transmittedAngle float64) (emitted, reflected, transmitted float64)

	// Perturbation is the bump-map normal offset; zero by default.
	Perturbation(volumetricPoint prim.Point) prim.Vec3

	// SetReducingMap installs the surface parameterization used by
	// procedural mediums.
	SetReducingMap(m ReducingMap)
}

// Plain is an opaque Blinn-Phong medium with constant colors.
type Plain struct {
	AmbientColor  Color
	AmbientScale  float64
	DiffuseColor  Color
	SpecularColor Color
	Gloss         float64 // mirror fraction in [0, 1]
	Tightness     float64 // Phong exponent, >= 1
	Emissivity    float64 // 0 for non-emissive surfaces

	reduce ReducingMap
}

// NewPlain creates an opaque medium. Smoothness is the mirror fraction and
// tightness the specular exponent.
func NewPlain(ambient Color, ambientScale float64, diffuse Color, smoothness, tightness float64) *Plain {
	return &Plain{
		AmbientColor:  ambient,
		AmbientScale:  ambientScale,
		DiffuseColor:  diffuse,
		SpecularColor: White,
		Gloss:         clamp(0, 1, smoothness),
		Tightness:     math.Max(1, tightness),
	}
}

func (p *Plain) Ambient(prim.Point) Color {
	return p.AmbientColor.Scale(p.AmbientScale)
}

func (p *Plain) Diffuse(prim.Point) Color {
	return p.DiffuseColor
}

func (p *Plain) Specular(_ prim.Point, halfwayCos float64, lightColor Color) Color {
	if halfwayCos <= 0 {
		return Black
	}
	return p.SpecularColor.Mul(lightColor).Scale(math.Pow(halfwayCos, p.Tightness))
}

func (p *Plain) Emissive(point prim.Point) Color {
	if p.Emissivity <= 0 {
		return Black
	}
	return p.Diffuse(point).Scale(p.Emissivity)
}

func (p *Plain) Smoothness(prim.Point) float64 {
	return p.Gloss
}

func (p *Plain) RefractiveIndex(prim.Point) float64 {
	return 0 // opaque
}

func (p *Plain) Absorbance(_ float64, incoming Color) Color {
	return incoming
}

func (p *Plain) Radiosity(point prim.Point, _, _, _ float64) (emitted, reflected, transmitted float64) {
	reflected = p.Gloss
	emitted = p.Emissivity
	if emitted+reflected > 1 {
		reflected = 1 - emitted
	}
	return emitted, reflected, 0
}

func (p *Plain) Perturbation(prim.Point) prim.Vec3 {
	return prim.Vec3{}
}

func (p *Plain) SetReducingMap(m ReducingMap) {
	p.reduce = m
}

// uv reduces a volumetric point through the installed map, falling back to
// the raw XY coordinates.
func (p *Plain) uv(point prim.Point) (float64, float64) {
	if p.reduce != nil {
		return p.reduce(point)
	}
	return point.X, point.Y
}

// Transparent is a refractive medium: glass, water, air. Energy splits by
// the Fresnel reflectance with Beer's-law fade along transmitted paths.
type Transparent struct {
	Plain
	Eta  float64 // refractive index, >= 1
	Fade float64 // absorption per unit distance, >= 0
}

// NewTransparent creates a refractive medium with the given index, fade
// coefficient, and filter color.
func NewTransparent(eta, fade float64, diffuse Color) *Transparent {
	t := &Transparent{
		Plain: *NewPlain(Black, 0, diffuse, 0.0, 100),
		Eta:   math.Max(1, eta),
		Fade:  math.Max(0, fade),
	}
	return t
}

func (t *Transparent) RefractiveIndex(prim.Point) float64 {
	return t.Eta
}

func (t *Transparent) Absorbance(distance float64, incoming Color) Color {
	return beer(incoming, t.DiffuseColor, t.Fade, distance)
}

func (t *Transparent) Radiosity(_ prim.Point, incomingIndex, incidentAngle, transmittedAngle float64) (emitted, reflected, transmitted float64) {
	if math.IsNaN(transmittedAngle) {
		// total internal reflection
		return 0, 1, 0
	}
	n1 := incomingIndex
	if n1 <= 0 {
		n1 = 1
	}
	r := schlick(math.Cos(incidentAngle), n1, t.Eta)
	return 0, r, 1 - r
}

// Metal is a conductor: fully opaque with a material-specific
// normal-incidence reflectance and a tinted specular lobe.
type Metal struct {
	Plain
	Reflectance float64 // normal-incidence Fresnel reflectance
}

// NewMetal creates a conductor with a tint, its measured normal-incidence
// reflectance, and the usual smoothness/tightness pair.
func NewMetal(tint Color, reflectance, smoothness, tightness float64) *Metal {
	m := &Metal{
		Plain:       *NewPlain(Black, 0, tint, smoothness, tightness),
		Reflectance: clamp(0, 1, reflectance),
	}
	m.SpecularColor = tint
	return m
}

func (m *Metal) Radiosity(_ prim.Point, _, incidentAngle, _ float64) (emitted, reflected, transmitted float64) {
	r := schlickR0(math.Cos(incidentAngle), m.Reflectance) * m.Gloss
	return 0, clamp(0, 1, r), 0
}

// Refractive indices at 589nm.
const (
	IndexVacuum     = 1.0
	IndexAir        = 1.000293
	IndexIce        = 1.31
	IndexWater      = 1.333
	IndexQuartz     = 1.46
	IndexOil        = 1.47
	IndexGlass      = 1.52
	IndexLexan      = 1.58
	IndexSapphire   = 1.77
	IndexZirconia   = 2.15
	IndexDiamond    = 2.42
	IndexMoissanite = 2.65
)

// Shared stock mediums for the example worlds. They are constant; do not
// mutate them.
var (
	// Dull is the default medium on objects that were never assigned one.
	Dull = NewPlain(Gray, 0.1, Gray, 0.0, 10)

	// Vacuum is a perfectly clear scene medium with no fade.
	Vacuum = NewTransparent(IndexVacuum, 0.0, White)

	// EarthAtmosphere fades distant surfaces slightly toward blue.
	EarthAtmosphere = NewTransparent(IndexAir, 0.004, LightBlue)

	Water = NewTransparent(IndexWater, 0.02, LightBlue)
	Glass = NewTransparent(IndexGlass, 0.01, White)

	Copper    = NewMetal(RGB(0.95, 0.64, 0.54), 0.95, 0.85, 60)
	Gold      = NewMetal(RGB(1.0, 0.77, 0.34), 0.98, 0.90, 80)
	Silver    = NewMetal(RGB(0.97, 0.96, 0.91), 0.97, 0.92, 90)
	Stainless = NewMetal(RGB(0.62, 0.62, 0.67), 0.80, 0.75, 40)
)

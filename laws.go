package raytracer

import (
	"math"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// The optical laws used by the shading integrator. Incident directions
// point into the surface; normals point out of it.

// reflect mirrors the incident direction around the unit normal.
func reflect(incident, normal prim.Vec3) prim.Vec3 {
	return incident.Reflect(normal)
}

// refract bends the incident direction through a boundary from refractive
// index n1 into n2 (Snell). The second return is false under total
// internal reflection.
func refract(incident, normal prim.Vec3, n1, n2 float64) (prim.Vec3, bool) {
	ratio := n1 / n2
	cosI := -normal.Dot(incident)
	sinT2 := ratio * ratio * (1.0 - cosI*cosI)
	if sinT2 > 1.0 {
		return prim.Vec3{}, false
	}
	cosT := math.Sqrt(1.0 - sinT2)
	return incident.Scale(ratio).Add(normal.Scale(ratio*cosI - cosT)), true
}

// snellAngle solves n1 sin(thetaI) = n2 sin(thetaT) for the transmitted
// angle. The second return is false under total internal reflection.
func snellAngle(n1, n2, thetaI float64) (float64, bool) {
	sinT := n1 / n2 * math.Sin(thetaI)
	if sinT > 1.0 {
		return 0, false
	}
	return math.Asin(sinT), true
}

// schlick approximates Fresnel reflectance for a dielectric boundary:
// R(theta) = R0 + (1 - R0)(1 - cos theta)^5.
func schlick(cosTheta, n1, n2 float64) float64 {
	r0 := (n1 - n2) / (n1 + n2)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-math.Abs(cosTheta), 5)
}

// schlickR0 is the Schlick curve with a material-supplied normal-incidence
// reflectance, used for conductors.
func schlickR0(cosTheta, r0 float64) float64 {
	return r0 + (1-r0)*math.Pow(1-math.Abs(cosTheta), 5)
}

// beer attenuates by exp(-fade * distance) per component against the
// complement of the filter color.
func beer(c Color, filter Color, fade, distance float64) Color {
	if fade <= 0 || distance <= 0 {
		return c
	}
	return Color{
		R: c.R * math.Exp(-fade*distance*(1-filter.R)),
		G: c.G * math.Exp(-fade*distance*(1-filter.G)),
		B: c.B * math.Exp(-fade*distance*(1-filter.B)),
	}
}

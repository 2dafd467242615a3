package prim

import "math"

// Polynomial root finders for the intersection math. All return real roots
// only, packing math.NaN() into the slots of absent roots. Callers discard
// NaN and non-positive distances.

// QuadraticRoots solves a*x^2 + b*x + c = 0 using the numerically stable
// form q = -1/2 (b + sign(b) sqrt(d)), r0 = q/a, r1 = c/q.
func QuadraticRoots(a, b, c float64) (r0, r1 float64) {
	nan := math.NaN()
	if a == 0 {
		if b == 0 {
			return nan, nan
		}
		return -c / b, nan
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nan, nan
	}
	sd := math.Sqrt(d)
	var q float64
	if b >= 0 {
		q = -0.5 * (b + sd)
	} else {
		q = -0.5 * (b - sd)
	}
	if q == 0 {
		// b and d are both zero, the double root is at the vertex
		return 0, 0
	}
	return q / a, c / q
}

// CubicRoots solves a*x^3 + b*x^2 + c*x + d = 0 by depressing the cubic and
// applying Cardano's method.
func CubicRoots(a, b, c, d float64) [3]float64 {
	nan := math.NaN()
	roots := [3]float64{nan, nan, nan}
	if a == 0 {
		r0, r1 := QuadraticRoots(b, c, d)
		roots[0], roots[1] = r0, r1
		return roots
	}
	// normalize to x^3 + p x^2 + q x + r
	p := b / a
	q := c / a
	r := d / a
	// depress with x = t - p/3: t^3 + A t + B
	A := q - p*p/3
	B := 2*p*p*p/27 - p*q/3 + r
	shift := -p / 3
	disc := B*B/4 + A*A*A/27
	switch {
	case disc > 0:
		// one real root
		sd := math.Sqrt(disc)
		roots[0] = math.Cbrt(-B/2+sd) + math.Cbrt(-B/2-sd) + shift
	case disc == 0:
		// repeated roots
		u := math.Cbrt(-B / 2)
		roots[0] = 2*u + shift
		roots[1] = -u + shift
	default:
		// three distinct real roots (trigonometric form)
		m := 2 * math.Sqrt(-A/3)
		theta := math.Acos(Clamp(-1, 1, 3*B/(A*m))) / 3
		for k := range 3 {
			roots[k] = m*math.Cos(theta-2*math.Pi*float64(k)/3) + shift
		}
	}
	return roots
}

// QuarticRoots solves a*x^4 + b*x^3 + c*x^2 + d*x + e = 0 by Ferrari's
// reduction to a resolvent cubic.
func QuarticRoots(a, b, c, d, e float64) [4]float64 {
	nan := math.NaN()
	roots := [4]float64{nan, nan, nan, nan}
	if a == 0 {
		cr := CubicRoots(b, c, d, e)
		copy(roots[:3], cr[:])
		return roots
	}
	// normalize to x^4 + b x^3 + c x^2 + d x + e
	b /= a
	c /= a
	d /= a
	e /= a
	// depress with x = y - b/4: y^4 + p y^2 + q y + r
	p := c - 3*b*b/8
	q := d - b*c/2 + b*b*b/8
	r := e - b*d/4 + b*b*c/16 - 3*b*b*b*b/256
	shift := -b / 4
	n := 0
	put := func(y float64) {
		if !math.IsNaN(y) && n < 4 {
			roots[n] = y + shift
			n++
		}
	}
	if NearlyZero(q) {
		// biquadratic: y^2 = z with z^2 + p z + r = 0
		z0, z1 := QuadraticRoots(1, p, r)
		for _, z := range []float64{z0, z1} {
			if math.IsNaN(z) || z < 0 {
				continue
			}
			sz := math.Sqrt(z)
			put(sz)
			put(-sz)
		}
		return roots
	}
	// resolvent cubic 8 m^3 + 8 p m^2 + (2 p^2 - 8 r) m - q^2 = 0;
	// any real root with m > 0 completes the square
	rc := CubicRoots(8, 8*p, 2*p*p-8*r, -q*q)
	m := math.NaN()
	for _, candidate := range rc {
		if !math.IsNaN(candidate) && candidate > 0 && (math.IsNaN(m) || candidate > m) {
			m = candidate
		}
	}
	if math.IsNaN(m) {
		// no positive resolvent root means no real quartic roots
		return roots
	}
	s := math.Sqrt(2 * m)
	// the quartic splits into two quadratics in y
	y0, y1 := QuadraticRoots(1, -s, p/2+m+q/(2*s))
	y2, y3 := QuadraticRoots(1, s, p/2+m-q/(2*s))
	put(y0)
	put(y1)
	put(y2)
	put(y3)
	return roots
}

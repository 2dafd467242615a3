// Package raytracer renders scenes of analytic primitives and CSG
// composites with a recursive Whitted-style integrator: direct Blinn-Phong
// lighting with soft shadows, plus reflection and refraction rays split by
// each medium's energy partition.
package raytracer

import (
	"context"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// surfaceBias offsets secondary-ray origins off the surface they spawned
// from so they cannot immediately re-hit it.
const surfaceBias = 1e-4

// RenderOptions tune a single render call.
type RenderOptions struct {
	// Samples is the sub-sample count per pixel; minimum 1.
	Samples int
	// ReflectionDepth bounds trace recursion; 1 means no bounces.
	ReflectionDepth int
	// MaskThreshold drives adaptive anti-aliasing: pixels whose variance
	// mask meets the threshold re-render with 4x samples. MaskDisabled
	// (255) turns the pass off.
	MaskThreshold uint8
	// Workers is the parallel row count; 0 means NumCPU.
	Workers int
	// RowComplete, when set, is called on the rendering worker as each
	// row finishes. It must not block.
	RowComplete func(row int)
	// FilterCapture runs a 3x3 smoothing convolution over the finished
	// capture.
	FilterCapture bool
	// ToneMap compresses HDR values into displayable range before the
	// capture is encoded.
	ToneMap bool
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Samples < 1 {
		o.Samples = 1
	}
	if o.ReflectionDepth < 1 {
		o.ReflectionDepth = 1
	}
	if o.MaskThreshold == 0 {
		o.MaskThreshold = MaskDisabled
	}
	if o.Workers < 1 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// Render traces the scene into the camera's capture, one worker per row.
// Cancel the context to stop between rows; the capture keeps whatever rows
// finished. The returned stats reconcile every worker's counters.
func (s *Scene) Render(ctx context.Context, view *Camera, opts RenderOptions) (Stats, error) {
	opts = opts.withDefaults()
	s.prepare()

	var mu sync.Mutex
	var total Stats

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	height := view.Capture.Height
	for row := 0; row < height; row++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			var stats Stats
			s.renderRow(view, row, opts.Samples, opts, &stats)
			stats.RowsRendered++
			mu.Lock()
			total.Add(stats)
			mu.Unlock()
			if opts.RowComplete != nil {
				opts.RowComplete(row)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return total, err
	}
	if ctx.Err() == nil && opts.MaskThreshold != MaskDisabled {
		var stats Stats
		s.adaptivePass(view, opts, &stats)
		total.Add(stats)
	}
	if opts.FilterCapture {
		filterCapture(view.Capture)
	}
	if opts.ToneMap {
		toneMapCapture(view.Capture)
	}
	return total, ctx.Err()
}

// renderRow traces every pixel of one row with the given sample count and
// refreshes the variance mask.
func (s *Scene) renderRow(view *Camera, row, samples int, opts RenderOptions, stats *Stats) {
	for col := 0; col < view.Capture.Width; col++ {
		color, variance := s.renderPixel(view, row, col, samples, opts, stats)
		view.Capture.Set(row, col, color)
		if opts.MaskThreshold != MaskDisabled {
			view.setMask(row, col, varianceMask(variance))
		}
	}
}

// renderPixel averages stratified sub-samples around the pixel center and
// reports the sample luminance variance.
func (s *Scene) renderPixel(view *Camera, row, col, samples int, opts RenderOptions, stats *Stats) (Color, float64) {
	grid := 1
	for grid*grid < samples {
		grid++
	}
	sum := Black
	var lumSum, lumSqSum float64
	n := 0
	for i := 0; i < grid && n < samples; i++ {
		for j := 0; j < grid && n < samples; j++ {
			dx := (float64(i) + 0.5) / float64(grid)
			dy := (float64(j) + 0.5) / float64(grid)
			ray := view.Cast(float64(col)+dx, float64(row)+dy)
			stats.CastRaysFromCamera++
			c := s.trace(ray, s.Media(), 1, 1.0, opts, stats)
			sum = sum.Add(c)
			lum := c.Luminance()
			lumSum += lum
			lumSqSum += lum * lum
			n++
		}
	}
	mean := sum.Scale(1 / float64(n))
	variance := lumSqSum/float64(n) - (lumSum/float64(n))*(lumSum/float64(n))
	return mean, math.Max(0, variance)
}

// varianceMask squashes a luminance variance into the 8-bit mask.
func varianceMask(variance float64) uint8 {
	v := math.Round(255 * math.Sqrt(variance))
	if v > 254 {
		v = 254 // 255 is the disabled sentinel
	}
	return uint8(v)
}

// adaptivePass re-renders high-variance pixels with four times the
// samples.
func (s *Scene) adaptivePass(view *Camera, opts RenderOptions, stats *Stats) {
	for row := 0; row < view.Capture.Height; row++ {
		for col := 0; col < view.Capture.Width; col++ {
			if view.maskAt(row, col) < opts.MaskThreshold {
				continue
			}
			stats.AdaptivePixels++
			color, _ := s.renderPixel(view, row, col, opts.Samples*4, opts, stats)
			view.Capture.Set(row, col, color)
		}
	}
}

// trace follows one ray through the scene and returns the light arriving
// along it. media is the medium the ray currently travels through; depth
// counts bounces and contribution tracks how much this branch can still
// affect the top-level pixel.
func (s *Scene) trace(ray prim.Ray, media Medium, depth int, contribution float64, opts RenderOptions, stats *Stats) Color {
	if contribution < s.AdaptiveReflectionThreshold {
		return Black
	}
	stats.TracedRays++

	nearest, ok := s.findNearest(ray, stats)
	if !ok {
		stats.BackgroundHits++
		return s.backgroundColor(ray)
	}

	surface := nearest.Point
	normal := nearest.Normal
	material := nearest.Object.Material()
	objectPoint := nearest.Object.ReversePoint(surface)

	cosI := -ray.Direction.Dot(normal)
	rayInside := false
	if cosI < 0 {
		normal = normal.Neg()
		cosI = -cosI
		rayInside = true
	}

	eta1 := media.RefractiveIndex(objectPoint)
	if eta1 <= 0 {
		eta1 = 1
	}
	eta2 := material.RefractiveIndex(objectPoint)
	if rayInside {
		eta1, eta2 = eta2, eta1
		if eta1 <= 0 {
			eta1 = 1
		}
		if eta2 <= 0 {
			eta2 = 1
		}
	}

	thetaI := math.Acos(clamp(-1, 1, cosI))
	thetaT := math.NaN()
	if eta2 > 0 {
		if t, ok := snellAngle(eta1, eta2, thetaI); ok {
			thetaT = t
		}
	}

	emitted, reflected, transmitted := material.Radiosity(objectPoint, eta1, thetaI, thetaT)

	color := material.Ambient(objectPoint)
	if emitted > 0 {
		color = color.Add(material.Emissive(objectPoint).Scale(emitted))
	}

	// direct lighting with soft shadows
	for _, light := range s.lights {
		for i := 0; i < light.SampleCount(); i++ {
			sample := light.Sample(i, surface)
			if sample.Intensity <= 0 {
				continue
			}
			stats.ShadowRays++
			shadowRay := prim.Ray{
				Origin:    surface.Add(normal.Scale(surfaceBias)),
				Direction: sample.Direction,
			}
			atten := s.shadowAttenuation(shadowRay, sample.Distance, stats)
			if atten <= 0 {
				stats.OccludedRays++
				continue
			}
			color = color.Add(s.directLight(material, objectPoint, normal, sample, ray).Scale(atten))
		}
	}

	if depth < opts.ReflectionDepth {
		if reflected > 0 {
			stats.ReflectedRays++
			dir := reflect(ray.Direction, normal).Add(material.Perturbation(objectPoint)).Normalize()
			bounce := prim.Ray{Origin: surface.Add(normal.Scale(surfaceBias)), Direction: dir}
			color = color.Add(s.trace(bounce, media, depth+1, contribution*reflected, opts, stats).Scale(reflected))
		}
		if transmitted > 0 && eta2 > 0 {
			if dir, ok := refract(ray.Direction, normal, eta1, eta2); ok {
				stats.TransmittedRays++
				// entering the object continues in its medium; leaving
				// returns to the scene medium
				outgoing := material
				if rayInside {
					outgoing = s.Media()
				}
				bounce := prim.Ray{Origin: surface.Add(normal.Scale(-surfaceBias)), Direction: dir}
				color = color.Add(s.trace(bounce, outgoing, depth+1, contribution*transmitted, opts, stats).Scale(transmitted))
			}
		}
	}

	return media.Absorbance(nearest.Distance, color)
}

// directLight is the Blinn-Phong local model for one light sample.
func (s *Scene) directLight(material Medium, objectPoint prim.Point, normal prim.Vec3, sample LightSample, ray prim.Ray) Color {
	nl := normal.Dot(sample.Direction)
	if nl <= 0 {
		return Black
	}
	diffuse := material.Diffuse(objectPoint).Mul(sample.Color).Scale(nl)
	halfway := sample.Direction.Sub(ray.Direction).Normalize()
	specular := material.Specular(objectPoint, math.Max(0, normal.Dot(halfway)), sample.Color)
	return diffuse.Add(specular).Scale(sample.Intensity)
}

// shadowAttenuation walks the occluders between a surface point and a
// light. Opaque hits kill the sample; transparent ones pass a fraction of
// it, fading with the distance travelled.
func (s *Scene) shadowAttenuation(shadowRay prim.Ray, lightDistance float64, stats *Stats) float64 {
	hits := s.root.intersects(shadowRay, stats)
	for _, o := range s.infinite {
		stats.IntersectionTests++
		if h, ok := o.Intersect(shadowRay); ok {
			hits = append(hits, h)
		}
	}
	atten := 1.0
	for _, h := range hits {
		if h.Distance >= lightDistance {
			continue
		}
		m := h.Object.Material()
		hp := h.Object.ReversePoint(h.Point)
		if m.RefractiveIndex(hp) <= 0 {
			return 0
		}
		if t, isTransparent := m.(*Transparent); isTransparent {
			atten *= math.Max(0, 1-t.Fade*h.Distance)
		}
		if atten <= 0 {
			return 0
		}
	}
	return atten
}

// filterCapture smooths the capture with a 3x3 binomial kernel.
func filterCapture(c *Capture) {
	src := make([]Color, len(c.Pix))
	copy(src, c.Pix)
	at := func(row, col int) Color {
		if row < 0 {
			row = 0
		}
		if row >= c.Height {
			row = c.Height - 1
		}
		if col < 0 {
			col = 0
		}
		if col >= c.Width {
			col = c.Width - 1
		}
		return src[row*c.Width+col]
	}
	weights := [3][3]float64{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			sum := Black
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					sum = sum.Add(at(row+dr, col+dc).Scale(weights[dr+1][dc+1] / 16))
				}
			}
			c.Set(row, col, sum)
		}
	}
}

// toneMapCapture applies Reinhard compression so HDR highlights survive
// the 8-bit encoders.
func toneMapCapture(c *Capture) {
	for i, p := range c.Pix {
		lum := p.Luminance()
		if lum > 0 {
			scale := (lum / (1 + lum)) / lum
			c.Pix[i] = p.Scale(scale)
		}
	}
}

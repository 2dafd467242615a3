package raytracer

// Stats aggregates render-time counters. Each worker accumulates its own
// copy and the renderer reconciles them when rows complete, so no counter
// needs a lock.
type Stats struct {
	CastRaysFromCamera int64
	TracedRays         int64
	IntersectionTests  int64
	SavedByBounds      int64
	ShadowRays         int64
	OccludedRays       int64
	ReflectedRays      int64
	TransmittedRays    int64
	BackgroundHits     int64
	AdaptivePixels     int64
	RowsRendered       int64
}

// Add folds another worker's counters into s.
func (s *Stats) Add(other Stats) {
	s.CastRaysFromCamera += other.CastRaysFromCamera
	s.TracedRays += other.TracedRays
	s.IntersectionTests += other.IntersectionTests
	s.SavedByBounds += other.SavedByBounds
	s.ShadowRays += other.ShadowRays
	s.OccludedRays += other.OccludedRays
	s.ReflectedRays += other.ReflectedRays
	s.TransmittedRays += other.TransmittedRays
	s.BackgroundHits += other.BackgroundHits
	s.AdaptivePixels += other.AdaptivePixels
	s.RowsRendered += other.RowsRendered
}

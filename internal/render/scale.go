package render

import "math"

// MaxRadius is the radius drawn for the most visited node.
const MaxRadius = 10.0

// RadiusScale maps visit counts in [0, max] onto radii in [0, MaxRadius]
// with a square-root curve, so circle area grows linearly with visits.
type RadiusScale struct {
	max int
}

// NewRadiusScale returns a scale whose domain ends at maxVisits.
func NewRadiusScale(maxVisits int) RadiusScale {
	return RadiusScale{max: maxVisits}
}

// Radius returns the circle radius for v visits. A degenerate domain
// (maxVisits <= 0) yields zero for every input. Inputs outside the domain are
// clamped.
func (s RadiusScale) Radius(v int) float64 {
	if s.max <= 0 || v <= 0 {
		return 0
	}
	if v >= s.max {
		return MaxRadius
	}

	return MaxRadius * math.Sqrt(float64(v)/float64(s.max))
}

package timeline

import (
	"errors"
	"math"
)

// ErrInvalidRange is returned by NewTimeRange when start is after end.
var ErrInvalidRange = errors.New("timeline: range start after end")

// TimeRange is a half-open interval [Start, End) in timeline milliseconds.
type TimeRange struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// NewTimeRange builds a range and rejects inverted bounds. A zero-length
// range (start == end) is valid but contains nothing.
func NewTimeRange(start, end float64) (TimeRange, error) {
	if start > end {
		return TimeRange{}, ErrInvalidRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Duration returns the length of the range in milliseconds.
func (r TimeRange) Duration() float64 {
	return r.End - r.Start
}

// Contains reports whether t falls inside the half-open interval.
func (r TimeRange) Contains(t float64) bool {
	return t >= r.Start && t < r.End
}

// Overlaps reports whether two half-open ranges share any time.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && r.End > o.Start
}

// Intersection returns the overlapping part of two ranges. The second
// return value is false when the ranges do not overlap.
func (r TimeRange) Intersection(o TimeRange) (TimeRange, bool) {
	if !r.Overlaps(o) {
		return TimeRange{}, false
	}
	return TimeRange{
		Start: math.Max(r.Start, o.Start),
		End:   math.Min(r.End, o.End),
	}, true
}

// Clamp pulls t into [Start, End). Because End is exclusive, values at or
// past the end land on the largest representable time before End. An empty
// range clamps everything to Start.
func (r TimeRange) Clamp(t float64) float64 {
	if t < r.Start {
		return r.Start
	}
	if t >= r.End {
		if r.End <= r.Start {
			return r.Start
		}
		return math.Nextafter(r.End, r.Start)
	}
	return t
}

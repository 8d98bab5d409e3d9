package timeline

import (
	"math"
	"testing"
)

func TestNewTimeRangeRejectsInvertedBounds(t *testing.T) {
	if _, err := NewTimeRange(100, 50); err != ErrInvalidRange {
		t.Errorf("Expected ErrInvalidRange, got %v", err)
	}
	if _, err := NewTimeRange(50, 50); err != nil {
		t.Errorf("Zero-length range should be valid, got %v", err)
	}
}

func TestContainsHalfOpen(t *testing.T) {
	r := TimeRange{Start: 1000, End: 2500}

	tests := []struct {
		time float64
		want bool
	}{
		{999.9, false},
		{1000, true}, // start inclusive
		{1750, true},
		{2499.99, true},
		{2500, false}, // end exclusive
		{3000, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.time); got != tt.want {
			t.Errorf("Contains(%.2f) = %v, want %v", tt.time, got, tt.want)
		}
	}
}

func TestOverlapsAndIntersection(t *testing.T) {
	a := TimeRange{Start: 0, End: 1000}
	b := TimeRange{Start: 500, End: 1500}
	c := TimeRange{Start: 1000, End: 2000}

	if !a.Overlaps(b) {
		t.Error("a and b should overlap")
	}
	// Touching half-open ranges share no time
	if a.Overlaps(c) {
		t.Error("a and c touch at 1000 but must not overlap")
	}

	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("Expected intersection of a and b")
	}
	if got.Start != 500 || got.End != 1000 {
		t.Errorf("Intersection = [%.0f, %.0f), want [500, 1000)", got.Start, got.End)
	}

	if _, ok := a.Intersection(c); ok {
		t.Error("Touching ranges must not intersect")
	}
}

func TestClampStaysInRange(t *testing.T) {
	r := TimeRange{Start: 100, End: 200}

	tests := []float64{-50, 100, 150, 199.5, 200, 1000}
	for _, tt := range tests {
		got := r.Clamp(tt)
		if !r.Contains(got) {
			t.Errorf("Clamp(%.1f) = %v, not inside [%.0f, %.0f)", tt, got, r.Start, r.End)
		}
	}

	empty := TimeRange{Start: 5, End: 5}
	if got := empty.Clamp(10); got != 5 {
		t.Errorf("Empty range clamp = %v, want start", got)
	}
}

func TestDuration(t *testing.T) {
	r := TimeRange{Start: 250, End: 1250}
	if math.Abs(r.Duration()-1000) > 1e-9 {
		t.Errorf("Duration = %v, want 1000", r.Duration())
	}
}

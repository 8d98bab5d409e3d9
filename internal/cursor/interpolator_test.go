package cursor

import (
	"math"
	"reflect"
	"testing"

	"github.com/ivlev/screencut/internal/timeline"
)

func sampleMoves() []timeline.InputSample {
	return []timeline.InputSample{
		{TimeMs: 0, X: 0.1, Y: 0.1},
		{TimeMs: 100, X: 0.2, Y: 0.1},
		{TimeMs: 200, X: 0.4, Y: 0.3},
		{TimeMs: 400, X: 0.4, Y: 0.3},
	}
}

func TestNoSamplesMeansInvisible(t *testing.T) {
	frame := Interpolate(DefaultConfig, nil, nil, 1000, 30, false)
	if frame.Opacity != 0 {
		t.Errorf("Opacity without samples = %.2f, want 0", frame.Opacity)
	}
	if frame.Blur != nil || len(frame.Clicks) != 0 {
		t.Error("Invisible cursor must carry no blur or clicks")
	}
}

func TestBeforeFirstSampleInvisible(t *testing.T) {
	frame := Interpolate(DefaultConfig, sampleMoves(), nil, -50, 30, true)
	if frame.Opacity != 0 {
		t.Errorf("Opacity before first sample = %.2f, want 0", frame.Opacity)
	}
}

func TestLinearInterpolationBetweenSamples(t *testing.T) {
	cfg := DefaultConfig
	cfg.SmoothingMs = 0 // raw positions for exact midpoints

	frame := Interpolate(cfg, sampleMoves(), nil, 150, 30, false)
	if frame.Opacity != 1 {
		t.Fatalf("Opacity = %.2f, want 1", frame.Opacity)
	}
	if math.Abs(frame.X-0.3) > 1e-9 || math.Abs(frame.Y-0.2) > 1e-9 {
		t.Errorf("Midpoint = (%.3f, %.3f), want (0.3, 0.2)", frame.X, frame.Y)
	}

	// Past the last sample the cursor holds its final position
	last := Interpolate(cfg, sampleMoves(), nil, 600, 30, false)
	if math.Abs(last.X-0.4) > 1e-9 || math.Abs(last.Y-0.3) > 1e-9 {
		t.Errorf("Hold position = (%.3f, %.3f), want (0.4, 0.3)", last.X, last.Y)
	}
}

func TestSyntheticSequencesSkipSmoothing(t *testing.T) {
	cfg := DefaultConfig
	cfg.SmoothingMs = 120

	smoothed := Interpolate(cfg, sampleMoves(), nil, 200, 30, false)
	raw := Interpolate(cfg, sampleMoves(), nil, 200, 30, true)

	if math.Abs(raw.X-0.4) > 1e-9 {
		t.Errorf("Synthetic position = %.3f, want the raw 0.4", raw.X)
	}
	// Smoothing averages in earlier positions, dragging X below the raw value
	if smoothed.X >= raw.X {
		t.Errorf("Smoothed X %.3f should trail raw X %.3f", smoothed.X, raw.X)
	}
}

func TestClickPunchCurve(t *testing.T) {
	tests := []struct {
		progress float64
		want     float64
	}{
		{0, 1.0},
		{0.2, 0.9},
		{0.4, 0.8}, // full shrink at 40%
		{0.7, 0.9},
		{1.0, 1.0},
	}
	for _, tt := range tests {
		if got := clickPunchScale(tt.progress); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("clickPunchScale(%.1f) = %.3f, want %.3f", tt.progress, got, tt.want)
		}
	}
}

func TestClickRipples(t *testing.T) {
	cfg := DefaultConfig
	cfg.ClickDurationMs = 400
	clicks := []timeline.ClickSample{
		{TimeMs: 100, X: 0.5, Y: 0.5, Label: "Click"},
		{TimeMs: 2000, X: 0.6, Y: 0.6},
	}

	frame := Interpolate(cfg, sampleMoves(), clicks, 300, 30, true)
	if len(frame.Clicks) != 1 {
		t.Fatalf("Active ripples = %d, want 1", len(frame.Clicks))
	}
	r := frame.Clicks[0]
	if math.Abs(r.Progress-0.5) > 1e-9 {
		t.Errorf("Progress = %.3f, want 0.5", r.Progress)
	}
	if math.Abs(r.Opacity-0.5) > 1e-9 {
		t.Errorf("Opacity = %.3f, want 1-progress", r.Opacity)
	}
	if r.Label != "Click" {
		t.Errorf("Label = %q", r.Label)
	}

	// The ripple window is half-open: exactly at the end it is gone
	done := Interpolate(cfg, sampleMoves(), clicks, 500, 30, true)
	if len(done.Clicks) != 0 {
		t.Errorf("Ripple past its window still active: %d", len(done.Clicks))
	}
}

func TestMotionBlurThreshold(t *testing.T) {
	still := []timeline.InputSample{
		{TimeMs: 0, X: 0.5, Y: 0.5},
		{TimeMs: 1000, X: 0.5, Y: 0.5},
	}
	frame := Interpolate(DefaultConfig, still, nil, 500, 30, true)
	if frame.Blur != nil {
		t.Error("Stationary cursor must not blur")
	}

	fast := []timeline.InputSample{
		{TimeMs: 0, X: 0.0, Y: 0.5},
		{TimeMs: 500, X: 1.0, Y: 0.5},
	}
	frame = Interpolate(DefaultConfig, fast, nil, 400, 30, true)
	if frame.Blur == nil {
		t.Fatal("Fast movement should produce a blur sample")
	}
	if frame.Blur.VelX <= 0 {
		t.Errorf("Blur velocity = %.3f, want positive", frame.Blur.VelX)
	}
	if frame.Blur.PrevX >= frame.X {
		t.Errorf("Blur previous position %.3f should trail current %.3f", frame.Blur.PrevX, frame.X)
	}
}

func TestHoverTiltFollowsVelocity(t *testing.T) {
	fast := []timeline.InputSample{
		{TimeMs: 0, X: 0.0, Y: 0.5},
		{TimeMs: 500, X: 1.0, Y: 0.5},
	}
	frame := Interpolate(DefaultConfig, fast, nil, 400, 30, true)
	if frame.Rotation <= 0 {
		t.Errorf("Rightward motion should lean right, rotation = %.2f", frame.Rotation)
	}
	if math.Abs(frame.Rotation) > 12+1e-9 {
		t.Errorf("Rotation %.2f exceeds the clamp", frame.Rotation)
	}

	cfg := DefaultConfig
	cfg.HoverTilt = false
	flat := Interpolate(cfg, fast, nil, 400, 30, true)
	if flat.Rotation != 0 || flat.TiltX != 0 {
		t.Error("HoverTilt off must zero the orientation")
	}
}

func TestInterpolateIsDeterministic(t *testing.T) {
	clicks := []timeline.ClickSample{{TimeMs: 120, X: 0.3, Y: 0.3}}
	for _, ms := range []float64{0, 90, 151.7, 260, 399} {
		a := Interpolate(DefaultConfig, sampleMoves(), clicks, ms, 60, false)
		b := Interpolate(DefaultConfig, sampleMoves(), clicks, ms, 60, false)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Frames differ at %.1fms", ms)
		}
	}
}

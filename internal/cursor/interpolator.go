// Package cursor turns sparse recorded pointer samples into a smooth
// per-frame cursor pose: position, orientation, click ripples and a
// motion-blur sample. The interpolation is a pure function of its
// arguments, so preview and export reproduce the exact same cursor
// frame-for-frame.
package cursor

import (
	"math"
	"sort"

	"github.com/ivlev/screencut/internal/timeline"
)

// Config is the cursor-effect configuration active for the frame.
type Config struct {
	Theme           string
	Size            float64
	SmoothingMs     float64
	ClickDurationMs float64
	HoverTilt       bool
	MinBlurVelocity float64 // normalized units per second
}

// DefaultConfig mirrors the standard cursor theme.
var DefaultConfig = Config{
	Theme:           "default",
	Size:            1.0,
	SmoothingMs:     80,
	ClickDurationMs: 450,
	HoverTilt:       true,
	MinBlurVelocity: 0.05,
}

// ClickRipple is one in-flight click animation. Progress runs 0..1 and
// drives radius, opacity and label fade.
type ClickRipple struct {
	X        float64
	Y        float64
	Progress float64
	Radius   float64
	Opacity  float64
	Scale    float64
	Label    string
}

// BlurSample carries the previous position and velocity the renderer
// needs for cursor motion blur. Velocity is in normalized units/second.
type BlurSample struct {
	PrevX float64
	PrevY float64
	VelX  float64
	VelY  float64
}

// Frame is the resolved cursor state for one timestamp. Opacity 0 means
// no samples bracket the time and the cursor must not be rendered.
type Frame struct {
	Theme    string
	Size     float64
	X        float64
	Y        float64
	Opacity  float64
	Rotation float64 // degrees, motion lean
	TiltX    float64
	TiltY    float64
	Clicks   []ClickRipple
	Blur     *BlurSample
}

// maxRippleRadius is the ripple extent in normalized frame units.
const maxRippleRadius = 0.04

// positionAt interpolates the pointer position at t from the sample
// sequence. ok is false when no samples bracket t.
func positionAt(moves []timeline.InputSample, t float64) (x, y float64, ok bool) {
	if len(moves) == 0 {
		return 0, 0, false
	}
	// Samples are recorded in order; find the first sample at or after t.
	i := sort.Search(len(moves), func(i int) bool { return moves[i].TimeMs >= t })
	if i == 0 {
		s := moves[0]
		if t < s.TimeMs {
			return 0, 0, false
		}
		return s.X, s.Y, true
	}
	if i == len(moves) {
		last := moves[len(moves)-1]
		return last.X, last.Y, true
	}
	prev, next := moves[i-1], moves[i]
	span := next.TimeMs - prev.TimeMs
	if span <= 0 {
		return next.X, next.Y, true
	}
	f := (t - prev.TimeMs) / span
	return prev.X + (next.X-prev.X)*f, prev.Y + (next.Y-prev.Y)*f, true
}

// smoothedPositionAt averages interpolated positions across the
// smoothing window. Synthetic sequences are already smooth and skip it.
func smoothedPositionAt(cfg Config, moves []timeline.InputSample, t float64, synthetic bool) (float64, float64, bool) {
	x, y, ok := positionAt(moves, t)
	if !ok {
		return 0, 0, false
	}
	if synthetic || cfg.SmoothingMs <= 0 {
		return x, y, true
	}
	// Fixed five-tap average over the window keeps the result
	// independent of frame rate.
	const taps = 5
	sumX, sumY := 0.0, 0.0
	count := 0
	for i := 0; i < taps; i++ {
		ti := t - cfg.SmoothingMs*float64(i)/float64(taps-1)
		xi, yi, okTap := positionAt(moves, ti)
		if !okTap {
			continue
		}
		sumX += xi
		sumY += yi
		count++
	}
	if count == 0 {
		return x, y, true
	}
	return sumX / float64(count), sumY / float64(count), true
}

// clickPunchScale maps click progress through the two-phase punch curve:
// shrink to 0.8 over the first 40% of the animation, then grow back to
// 1.0. The feel stays constant regardless of input sampling density.
func clickPunchScale(progress float64) float64 {
	switch {
	case progress <= 0:
		return 1.0
	case progress < 0.4:
		return 1.0 - 0.2*(progress/0.4)
	case progress < 1:
		return 0.8 + 0.2*((progress-0.4)/0.6)
	default:
		return 1.0
	}
}

// Interpolate resolves the cursor frame at sourceMs. The same argument
// tuple always produces the same frame; zero samples produce an
// invisible cursor, never an error.
func Interpolate(cfg Config, moves []timeline.InputSample, clicks []timeline.ClickSample, sourceMs, fps float64, synthetic bool) Frame {
	frame := Frame{Theme: cfg.Theme, Size: cfg.Size}
	if cfg.Size <= 0 {
		frame.Size = 1.0
	}
	if frame.Theme == "" {
		frame.Theme = DefaultConfig.Theme
	}

	x, y, ok := smoothedPositionAt(cfg, moves, sourceMs, synthetic)
	if !ok {
		return frame
	}
	frame.X, frame.Y, frame.Opacity = x, y, 1.0

	// Orientation and motion blur come from the previous frame's
	// position, so they depend on fps but not on event density.
	if fps > 0 {
		dt := 1000.0 / fps
		px, py, okPrev := smoothedPositionAt(cfg, moves, sourceMs-dt, synthetic)
		if okPrev {
			velX := (x - px) / dt * 1000
			velY := (y - py) / dt * 1000
			if cfg.HoverTilt {
				frame.Rotation = clampAbs(velX*18, 12)
				frame.TiltX = clampAbs(velY*10, 8)
				frame.TiltY = clampAbs(-velX*10, 8)
			}
			if math.Hypot(velX, velY) >= cfg.MinBlurVelocity {
				frame.Blur = &BlurSample{PrevX: px, PrevY: py, VelX: velX, VelY: velY}
			}
		}
	}

	dur := cfg.ClickDurationMs
	if dur <= 0 {
		dur = DefaultConfig.ClickDurationMs
	}
	for _, click := range clicks {
		if sourceMs < click.TimeMs || sourceMs >= click.TimeMs+dur {
			continue
		}
		p := (sourceMs - click.TimeMs) / dur
		frame.Clicks = append(frame.Clicks, ClickRipple{
			X:        click.X,
			Y:        click.Y,
			Progress: p,
			Radius:   p * maxRippleRadius,
			Opacity:  1 - p,
			Scale:    clickPunchScale(p),
			Label:    click.Label,
		})
	}

	return frame
}

func clampAbs(v, max float64) float64 {
	if v > max {
		return max
	}
	if v < -max {
		return -max
	}
	return v
}

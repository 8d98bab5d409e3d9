// Package camera turns an active zoom block and an elapsed time into a
// deterministic camera state: scale, pan and refocus blur. Everything here
// is pure math over the inputs; no clocks, no shared state.
package camera

import "math"

// DefaultEaseMs is the intro/outro length used when a block does not set
// its own.
const DefaultEaseMs = 800.0

// State is the camera output for one timestamp. Pan values are normalized
// offsets of the frame (fractions of width/height); the layout engine
// turns them into pixels.
type State struct {
	Scale       float64
	PanX        float64
	PanY        float64
	RefocusBlur float64
}

// Identity is the camera at rest.
var Identity = State{Scale: 1.0}

// Block is one zoom effect window resolved for the calculator. Times are
// timeline ms; Center is the camera target in normalized frame space.
type Block struct {
	StartMs float64
	EndMs   float64
	Scale   float64
	CenterX float64
	CenterY float64
	IntroMs float64
	OutroMs float64
}

// Duration returns the block length in ms.
func (b Block) Duration() float64 {
	return b.EndMs - b.StartMs
}

// Calculator computes camera states. The zero value disables refocus
// blur; NewCalculator returns the standard configuration.
type Calculator struct {
	RefocusEnabled bool
	MaxRefocusBlur float64
}

// NewCalculator returns a calculator with refocus blur enabled at the
// default strength.
func NewCalculator() Calculator {
	return Calculator{RefocusEnabled: true, MaxRefocusBlur: 2.5}
}

// easeDurations normalizes intro/outro so they never overlap inside a
// short block: when intro+outro exceeds the block, both shrink
// proportionally. This is what prevents a visible jump on tiny blocks.
func easeDurations(b Block) (intro, outro float64) {
	intro, outro = b.IntroMs, b.OutroMs
	if intro <= 0 {
		intro = DefaultEaseMs
	}
	if outro <= 0 {
		outro = DefaultEaseMs
	}
	dur := b.Duration()
	if sum := intro + outro; sum > dur && sum > 0 {
		f := dur / sum
		intro *= f
		outro *= f
	}
	return intro, outro
}

// StateAt returns the camera state for a timestamp inside (or outside)
// the block. A nil block is the identity camera.
func (c Calculator) StateAt(b *Block, timeMs float64) State {
	if b == nil {
		return Identity
	}
	elapsed := timeMs - b.StartMs
	dur := b.Duration()
	if elapsed < 0 || elapsed > dur || dur <= 0 {
		return Identity
	}

	target := b.Scale
	if target < 1 {
		target = 1
	}

	intro, outro := easeDurations(*b)
	outroStart := dur - outro

	var scale, blurProgress float64
	centerX, centerY := b.CenterX, b.CenterY

	switch {
	case elapsed < intro:
		p := elapsed / intro
		scale = lerp(1, target, easeIntro(p))
		blurProgress = p
	case elapsed <= outroStart:
		scale = target
		blurProgress = 0
	default:
		p := clamp01((elapsed - outroStart) / outro)
		scale = lerp(target, 1, easeInOutCubic(p))
		blurProgress = p
		// The camera center drifts back to frame center so the zoom
		// lands centered instead of snapping.
		back := 1 - easeInOutCubic(p)
		centerX = lerp(0.5, b.CenterX, back)
		centerY = lerp(0.5, b.CenterY, back)
	}

	// Pan only once zooming has visibly begun; panning ahead of the
	// zoom reads as a wrong "pan-then-zoom". A block with target scale
	// <= 1 is the explicit pan-without-zoom request (the timed form of
	// PanOnly) and pans fully for its whole window.
	scaleProgress := 1.0
	if target > 1 {
		scaleProgress = clamp01((scale - 1) / (target - 1))
	}
	panX := (0.5 - centerX) * scaleProgress
	panY := (0.5 - centerY) * scaleProgress

	blur := 0.0
	if c.RefocusEnabled && blurProgress > 0 {
		blur = math.Sin(math.Pi*blurProgress) * c.MaxRefocusBlur
	}

	return State{Scale: scale, PanX: panX, PanY: panY, RefocusBlur: blur}
}

// PanOnly returns a scale-1 camera following the raw center offset. The
// layout engine uses it to center content inside a device mockup without
// zooming.
func (c Calculator) PanOnly(centerX, centerY float64) State {
	return State{
		Scale: 1.0,
		PanX:  0.5 - centerX,
		PanY:  0.5 - centerY,
	}
}

package camera

import "math"

// MotionBlur describes a directional blur derived from frame-to-frame
// camera movement. Zoom-only scale changes produce no motion blur; only
// positional deltas do.
type MotionBlur struct {
	Radius   float64
	AngleRad float64
	Active   bool
}

// BlurConfig bounds the motion blur. The velocity threshold suppresses
// blur on sub-pixel jitter that would otherwise flicker.
type BlurConfig struct {
	MaxRadius   float64
	MinVelocity float64 // px per frame
}

// DefaultBlurConfig matches the interactive preview defaults.
var DefaultBlurConfig = BlurConfig{MaxRadius: 12, MinVelocity: 1.5}

// BlurBetween computes the blur for the movement from the previous frame
// position to the current one, both in pixels.
func BlurBetween(prevX, prevY, curX, curY float64, cfg BlurConfig) MotionBlur {
	dx := curX - prevX
	dy := curY - prevY
	dist := math.Hypot(dx, dy)
	if dist < cfg.MinVelocity {
		return MotionBlur{}
	}
	radius := dist / 2
	if radius > cfg.MaxRadius {
		radius = cfg.MaxRadius
	}
	return MotionBlur{
		Radius:   radius,
		AngleRad: math.Atan2(dy, dx),
		Active:   true,
	}
}

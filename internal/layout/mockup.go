package layout

import (
	"math"

	"github.com/ivlev/screencut/internal/timeline"
)

// mockupRects computes the device frame rectangle inside the available
// box and the screen sub-rectangle within it. The screen rect is rounded
// on its absolute edges, not independently on x/y/width/height, so the
// video and the bezel never disagree by a seam pixel.
func mockupRects(m *timeline.MockupData, box Rect) (frame, screen Rect) {
	fw, fh := m.FrameWidth, m.FrameHeight
	if fw <= 0 || fh <= 0 {
		fw, fh = box.W, box.H
	}
	s := math.Min(box.W/fw, box.H/fh)
	frame = Rect{
		W: fw * s,
		H: fh * s,
	}
	frame.X = box.X + (box.W-frame.W)/2
	frame.Y = box.Y + (box.H-frame.H)/2

	x0 := math.Round(frame.X + m.ScreenX*frame.W)
	y0 := math.Round(frame.Y + m.ScreenY*frame.H)
	x1 := math.Round(frame.X + (m.ScreenX+m.ScreenWidth)*frame.W)
	y1 := math.Round(frame.Y + (m.ScreenY+m.ScreenHeight)*frame.H)
	screen = Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
	return frame, screen
}

// fillRect fits src into box with a crop-to-fill policy: the content
// covers the whole box and overflows on one axis. Letterboxing inside a
// device bezel would show empty borders, so mockup screens always fill.
func fillRect(srcW, srcH float64, box Rect) Rect {
	if srcW <= 0 || srcH <= 0 {
		return box
	}
	s := math.Max(box.W/srcW, box.H/srcH)
	w, h := srcW*s, srcH*s
	return Rect{
		X: box.X + (box.W-w)/2,
		Y: box.Y + (box.H-h)/2,
		W: w,
		H: h,
	}
}

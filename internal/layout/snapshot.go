// Package layout computes the per-frame geometric state: draw rectangle,
// crop, device-mockup placement and the combined transform for one
// timestamp. ComputeFrameSnapshot is a pure function of its input; the
// Engine wrapper only resolves that input from the project catalog, so
// interactive preview and batch export produce bit-identical snapshots.
package layout

import (
	"math"

	"golang.org/x/image/math/f64"

	"github.com/ivlev/screencut/internal/camera"
	"github.com/ivlev/screencut/internal/timeline"
)

// Reference canvas. Padding, corner radius and shadow values are
// specified in reference units and multiplied by the scale factor so they
// stay proportional at any export resolution.
const (
	RefWidth  = 1920.0
	RefHeight = 1080.0
)

// Rect is an axis-aligned rectangle in composition pixels.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// SnapshotInput is everything ComputeFrameSnapshot needs for one frame.
// No field may come from mutable shared state.
type SnapshotInput struct {
	TimeMs      float64
	CompWidth   float64
	CompHeight  float64
	SourceWidth float64
	SourceHeight float64

	Crop        *timeline.CropData
	Mockup      *timeline.MockupData
	Camera      camera.State
	TiltDeg     float64
	EditingCrop bool

	// PaddingRef and CornerRadiusRef are in reference-canvas units.
	PaddingRef      float64
	CornerRadiusRef float64
}

// FrameSnapshot is the fully resolved geometry for one timestamp. It is
// ephemeral: recomputed on demand and never persisted.
type FrameSnapshot struct {
	TimeMs      float64
	HasContent  bool
	ScaleFactor float64

	ContentRect Rect
	DrawRect    Rect
	FrameRect   *Rect // device mockup body, nil without a mockup
	ScreenRect  *Rect // screen region inside the mockup

	Transform f64.Aff3
	Ops       []Op
	Camera    camera.State

	CropScale  float64
	ClipRadius float64 // corner radius in pre-crop-scale units

	// FitScaleX/Y let the rendering surface scale the source to an
	// explicit target size instead of uniformly from its natural size,
	// which would anchor zooms to the top-left corner.
	FitScaleX float64
	FitScaleY float64
}

// containRect fits src into box preserving aspect ratio, centered
// (letterbox/pillarbox).
func containRect(srcW, srcH float64, box Rect) Rect {
	if srcW <= 0 || srcH <= 0 {
		return box
	}
	s := math.Min(box.W/srcW, box.H/srcH)
	w, h := srcW*s, srcH*s
	return Rect{
		X: box.X + (box.W-w)/2,
		Y: box.Y + (box.H-h)/2,
		W: w,
		H: h,
	}
}

// ComputeFrameSnapshot resolves the frame geometry in a single pass.
// Each step depends only on the previous step's output.
func ComputeFrameSnapshot(in SnapshotInput) FrameSnapshot {
	snap := FrameSnapshot{
		TimeMs:    in.TimeMs,
		Camera:    in.Camera,
		CropScale: 1.0,
	}
	if in.CompWidth <= 0 || in.CompHeight <= 0 {
		return snap
	}

	// Scale factor against the reference canvas keeps padding and
	// radius proportional across export resolutions.
	snap.ScaleFactor = math.Min(in.CompWidth/RefWidth, in.CompHeight/RefHeight)

	padding := in.PaddingRef * snap.ScaleFactor
	box := Rect{
		X: padding,
		Y: padding,
		W: in.CompWidth - 2*padding,
		H: in.CompHeight - 2*padding,
	}
	if box.W <= 0 || box.H <= 0 {
		return snap
	}

	snap.ContentRect = containRect(in.SourceWidth, in.SourceHeight, box)
	snap.DrawRect = snap.ContentRect
	snap.HasContent = in.SourceWidth > 0 && in.SourceHeight > 0

	if in.Mockup != nil {
		frame, screen := mockupRects(in.Mockup, box)
		snap.FrameRect = &frame
		snap.ScreenRect = &screen
		snap.DrawRect = fillRect(in.SourceWidth, in.SourceHeight, screen)
	}

	// Crop transform. Suppressed while the user is editing the crop so
	// the unclipped source stays visible.
	transform := aff3Identity()
	var ops []Op
	if in.Crop != nil && !in.EditingCrop && in.Crop.Width > 0 && in.Crop.Height > 0 {
		snap.CropScale = 1 / math.Max(in.Crop.Width, in.Crop.Height)
		cx := snap.DrawRect.CenterX()
		cy := snap.DrawRect.CenterY()
		tx := (0.5 - (in.Crop.X + in.Crop.Width/2)) * snap.DrawRect.W * snap.CropScale
		ty := (0.5 - (in.Crop.Y + in.Crop.Height/2)) * snap.DrawRect.H * snap.CropScale
		transform = aff3Mul(aff3Translate(tx, ty), aff3ScaleAbout(snap.CropScale, cx, cy))
		ops = append(ops,
			Op{Kind: OpScale, S: snap.CropScale},
			Op{Kind: OpTranslate, X: tx, Y: ty},
		)
	}

	// Camera transform applies after the crop.
	if in.Camera.Scale != 1 || in.Camera.PanX != 0 || in.Camera.PanY != 0 {
		cx := snap.DrawRect.CenterX()
		cy := snap.DrawRect.CenterY()
		tx := in.Camera.PanX * snap.DrawRect.W * in.Camera.Scale
		ty := in.Camera.PanY * snap.DrawRect.H * in.Camera.Scale
		cam := aff3Mul(aff3Translate(tx, ty), aff3ScaleAbout(in.Camera.Scale, cx, cy))
		transform = aff3Mul(cam, transform)
		ops = append(ops,
			Op{Kind: OpScale, S: in.Camera.Scale},
			Op{Kind: OpTranslate, X: tx, Y: ty},
		)
	}

	// Screen tilt is a 3D perspective step; it cannot collapse into the
	// affine and is carried as an ordered op for the renderer.
	if in.TiltDeg != 0 {
		ops = append(ops, Op{Kind: OpTilt, Deg: in.TiltDeg})
	}

	snap.Transform = transform
	snap.Ops = ops

	// Clip paths are defined in the coordinate space before the crop
	// scale is applied, so the radius divides by it.
	if in.CornerRadiusRef > 0 {
		snap.ClipRadius = in.CornerRadiusRef * snap.ScaleFactor / snap.CropScale
	}

	if in.SourceWidth > 0 && in.SourceHeight > 0 {
		snap.FitScaleX = snap.DrawRect.W / in.SourceWidth
		snap.FitScaleY = snap.DrawRect.H / in.SourceHeight
	}

	return snap
}

// Engine resolves snapshot inputs from the project catalog. It holds no
// mutable state of its own; callers on different goroutines may share it
// as long as mutations are serialized elsewhere.
type Engine struct {
	Cat  *timeline.Catalog
	Calc camera.Calculator

	PaddingRef      float64
	CornerRadiusRef float64
}

// NewEngine builds a layout engine with the standard reference padding.
func NewEngine(cat *timeline.Catalog) *Engine {
	return &Engine{
		Cat:             cat,
		Calc:            camera.NewCalculator(),
		PaddingRef:      80,
		CornerRadiusRef: 12,
	}
}

// blockFromEffect adapts a zoom effect into a camera block.
func blockFromEffect(e *timeline.Effect) *camera.Block {
	if e == nil || e.Zoom == nil {
		return nil
	}
	return &camera.Block{
		StartMs: e.StartTime,
		EndMs:   e.EndTime,
		Scale:   e.Zoom.Scale,
		CenterX: e.Zoom.CenterX,
		CenterY: e.Zoom.CenterY,
		IntroMs: e.Zoom.IntroMs,
		OutroMs: e.Zoom.OutroMs,
	}
}

// SnapshotAt computes the frame snapshot for a timestamp. EditingCrop
// suppresses the crop transform during interactive crop adjustment.
func (e *Engine) SnapshotAt(timeMs float64, editingCrop bool) FrameSnapshot {
	p := e.Cat.Project()
	in := SnapshotInput{
		TimeMs:          timeMs,
		CompWidth:       float64(p.Settings.Width),
		CompHeight:      float64(p.Settings.Height),
		EditingCrop:     editingCrop,
		PaddingRef:      e.PaddingRef,
		CornerRadiusRef: e.CornerRadiusRef,
	}

	clip := e.Cat.ClipAtTimeOnTrack(timeline.TrackVideo, timeMs)
	if clip != nil {
		if rec := e.Cat.Recording(clip.RecordingID); rec != nil {
			in.SourceWidth = float64(rec.Width)
			in.SourceHeight = float64(rec.Height)
		}
	}

	if eff := e.Cat.EffectOfKindAt(timeline.EffectMockup, timeMs); eff != nil {
		in.Mockup = eff.Mockup
		if in.Mockup != nil {
			in.TiltDeg = in.Mockup.TiltDeg
		}
	}
	if eff := e.Cat.EffectOfKindAt(timeline.EffectScreenTilt, timeMs); eff != nil {
		in.TiltDeg = eff.TiltDeg
	}
	if clip != nil {
		for _, eff := range e.Cat.EffectsForClip(clip.ID) {
			if eff.Kind == timeline.EffectCrop && eff.ActiveAt(timeMs) {
				in.Crop = eff.Crop
				break
			}
		}
	}

	zoom := blockFromEffect(e.Cat.EffectOfKindAt(timeline.EffectZoom, timeMs))
	switch {
	case zoom != nil:
		in.Camera = e.Calc.StateAt(zoom, timeMs)
	case in.Mockup != nil:
		// Pan without zoom pulls the mockup's screen center toward the
		// frame center, compensating for off-center bezel cutouts.
		in.Camera = e.Calc.PanOnly(
			in.Mockup.ScreenX+in.Mockup.ScreenWidth/2,
			in.Mockup.ScreenY+in.Mockup.ScreenHeight/2,
		)
	default:
		in.Camera = camera.Identity
	}

	return ComputeFrameSnapshot(in)
}

// SourceTimeFor maps the timestamp into the active clip's source time,
// which the cursor interpolator needs to sample recorded input events.
// The second return is false when no clip is under the timestamp.
func (e *Engine) SourceTimeFor(timeMs float64) (sourceMs float64, clip *timeline.Clip, ok bool) {
	clip = e.Cat.ClipAtTimeOnTrack(timeline.TrackVideo, timeMs)
	if clip == nil {
		return 0, nil, false
	}
	return timeline.SourceTimeAt(clip, timeMs-clip.StartTime), clip, true
}

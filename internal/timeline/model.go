package timeline

import (
	"time"

	"github.com/google/uuid"
)

// TrackKind identifies what a track carries.
type TrackKind string

const (
	TrackVideo   TrackKind = "video"
	TrackAudio   TrackKind = "audio"
	TrackWebcam  TrackKind = "webcam"
	TrackEffects TrackKind = "effects"
)

// AllowsOverlap reports whether clips on this track kind may overlap.
// Webcam clips float above the main video and are exempt from the
// non-overlap invariant.
func (k TrackKind) AllowsOverlap() bool {
	return k == TrackWebcam
}

// SourceKind identifies what a recording is backed by.
type SourceKind string

const (
	SourceVideo     SourceKind = "video"
	SourceImage     SourceKind = "image"
	SourceGenerated SourceKind = "generated"
)

// EffectKind is the closed set of effect types the engine understands.
type EffectKind string

const (
	EffectCrop       EffectKind = "crop"
	EffectZoom       EffectKind = "zoom"
	EffectMockup     EffectKind = "mockup"
	EffectCursor     EffectKind = "cursor"
	EffectKeystrokes EffectKind = "keystrokes"
	EffectScreenTilt EffectKind = "screen-tilt"
)

// EffectBehavior describes how an effect kind participates in composition.
type EffectBehavior struct {
	// Overlay effects draw above the content instead of transforming it.
	Overlay bool
	// PerClip effects are bound to a single clip's window and are
	// duplicated (never shared) when that clip is split.
	PerClip bool
	// Exclusive effects allow at most one active instance per timestamp.
	Exclusive bool
}

var effectBehaviors = map[EffectKind]EffectBehavior{
	EffectCrop:       {PerClip: true, Exclusive: true},
	EffectZoom:       {Exclusive: true},
	EffectMockup:     {Exclusive: true},
	EffectCursor:     {Overlay: true, Exclusive: true},
	EffectKeystrokes: {Overlay: true, PerClip: true},
	EffectScreenTilt: {Exclusive: true},
}

// BehaviorOf resolves the behavior for a kind. Unknown kinds report false,
// which callers treat as "ignore the effect" rather than an error.
func BehaviorOf(kind EffectKind) (EffectBehavior, bool) {
	b, ok := effectBehaviors[kind]
	return b, ok
}

// InputSample is one recorded pointer position. X and Y are normalized to
// the recording's pixel space (0..1). TimeMs is in source time.
type InputSample struct {
	TimeMs float64 `yaml:"time"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
}

// ClickSample is one recorded mouse click in source time and normalized
// recording space.
type ClickSample struct {
	TimeMs float64 `yaml:"time"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Button string  `yaml:"button,omitempty"`
	Label  string  `yaml:"label,omitempty"`
}

// RecordingMetadata carries the raw input-event streams captured alongside
// a screen recording. Either stream may be empty.
type RecordingMetadata struct {
	MouseMoves []InputSample `yaml:"mouseMoves,omitempty"`
	Clicks     []ClickSample `yaml:"clicks,omitempty"`
}

// Recording describes one media source. Immutable once created; clips
// reference it by ID without owning it.
type Recording struct {
	ID       string             `yaml:"id"`
	Name     string             `yaml:"name,omitempty"`
	Kind     SourceKind         `yaml:"kind"`
	Path     string             `yaml:"path,omitempty"` // media location, opaque to the engine
	Duration float64            `yaml:"duration"`       // source ms
	Width    int                `yaml:"width"`
	Height   int                `yaml:"height"`
	Metadata *RecordingMetadata `yaml:"metadata,omitempty"`
}

// RemapPeriod is a sub-window of a clip's source span played back at its
// own rate instead of the clip's base rate. Bounds are in source ms.
type RemapPeriod struct {
	SourceStart float64 `yaml:"sourceStart"`
	SourceEnd   float64 `yaml:"sourceEnd"`
	Rate        float64 `yaml:"rate"`
}

// Clip places a window of a recording on the timeline.
// StartTime/Duration are timeline ms; SourceIn/SourceOut are source ms.
type Clip struct {
	ID               string        `yaml:"id"`
	RecordingID      string        `yaml:"recordingId"`
	StartTime        float64       `yaml:"startTime"`
	Duration         float64       `yaml:"duration"`
	SourceIn         float64       `yaml:"sourceIn"`
	SourceOut        float64       `yaml:"sourceOut"`
	PlaybackRate     float64       `yaml:"playbackRate,omitempty"`
	TimeRemapPeriods []RemapPeriod `yaml:"timeRemapPeriods,omitempty"`
	FadeInMs         float64       `yaml:"fadeIn,omitempty"`
	FadeOutMs        float64       `yaml:"fadeOut,omitempty"`
	SpeedApplied     bool          `yaml:"speedApplied,omitempty"`
}

// Rate returns the effective base playback rate (zero means 1x).
func (c *Clip) Rate() float64 {
	if c.PlaybackRate <= 0 {
		return 1.0
	}
	return c.PlaybackRate
}

// EndTime returns the exclusive end of the clip on the timeline.
func (c *Clip) EndTime() float64 {
	return c.StartTime + c.Duration
}

// Range returns the clip's half-open timeline window.
func (c *Clip) Range() TimeRange {
	return TimeRange{Start: c.StartTime, End: c.EndTime()}
}

// Clone returns a deep copy of the clip keeping the same ID. Callers that
// need an independent clip (duplicate, split) assign a fresh ID.
func (c *Clip) Clone() *Clip {
	dup := *c
	if len(c.TimeRemapPeriods) > 0 {
		dup.TimeRemapPeriods = make([]RemapPeriod, len(c.TimeRemapPeriods))
		copy(dup.TimeRemapPeriods, c.TimeRemapPeriods)
	}
	return &dup
}

// Track holds an ordered list of clips of one kind.
type Track struct {
	ID    string    `yaml:"id"`
	Kind  TrackKind `yaml:"kind"`
	Clips []*Clip   `yaml:"clips"`
}

// CropData is the payload of a crop effect. The rectangle is normalized to
// the source frame (0..1). ClipID binds the crop to a single clip.
type CropData struct {
	ClipID       string  `yaml:"clipId,omitempty"`
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	CornerRadius float64 `yaml:"cornerRadius,omitempty"`
}

// ZoomData is the payload of a zoom (camera block) effect. Center is the
// camera target in normalized frame space.
type ZoomData struct {
	Scale   float64 `yaml:"scale"`
	CenterX float64 `yaml:"centerX"`
	CenterY float64 `yaml:"centerY"`
	IntroMs float64 `yaml:"introMs,omitempty"`
	OutroMs float64 `yaml:"outroMs,omitempty"`
}

// MockupData places the video inside a device frame. Screen coordinates
// are normalized to the mockup frame image.
type MockupData struct {
	Style        string  `yaml:"style"`
	FrameWidth   float64 `yaml:"frameWidth"`
	FrameHeight  float64 `yaml:"frameHeight"`
	ScreenX      float64 `yaml:"screenX"`
	ScreenY      float64 `yaml:"screenY"`
	ScreenWidth  float64 `yaml:"screenWidth"`
	ScreenHeight float64 `yaml:"screenHeight"`
	TiltDeg      float64 `yaml:"tiltDeg,omitempty"`
}

// CursorData configures the rendered cursor while the effect is active.
type CursorData struct {
	Theme           string  `yaml:"theme,omitempty"`
	Size            float64 `yaml:"size,omitempty"`
	SmoothingMs     float64 `yaml:"smoothingMs,omitempty"`
	ClickDurationMs float64 `yaml:"clickDurationMs,omitempty"`
	HoverTilt       bool    `yaml:"hoverTilt,omitempty"`
}

// KeystrokeData binds a keystroke overlay to a clip; its timing is derived
// from the clip's boundaries and re-synced when the clip changes.
type KeystrokeData struct {
	ClipID string `yaml:"clipId"`
	Keys   string `yaml:"keys,omitempty"`
}

// Effect is a time-bound modifier queried by window and kind across the
// whole project. Exactly one payload matching Kind is set.
type Effect struct {
	ID        string     `yaml:"id"`
	Kind      EffectKind `yaml:"kind"`
	StartTime float64    `yaml:"startTime"`
	EndTime   float64    `yaml:"endTime"`
	Enabled   bool       `yaml:"enabled"`

	Crop       *CropData      `yaml:"crop,omitempty"`
	Zoom       *ZoomData      `yaml:"zoom,omitempty"`
	Mockup     *MockupData    `yaml:"mockup,omitempty"`
	Cursor     *CursorData    `yaml:"cursor,omitempty"`
	Keystrokes *KeystrokeData `yaml:"keystrokes,omitempty"`
	TiltDeg    float64        `yaml:"tiltDeg,omitempty"`
}

// Range returns the effect's half-open timeline window.
func (e *Effect) Range() TimeRange {
	return TimeRange{Start: e.StartTime, End: e.EndTime}
}

// ActiveAt reports whether the effect applies at t.
func (e *Effect) ActiveAt(t float64) bool {
	return e.Enabled && e.Range().Contains(t)
}

// Clone returns a shallow struct copy with deep-copied payloads.
func (e *Effect) Clone() *Effect {
	dup := *e
	if e.Crop != nil {
		c := *e.Crop
		dup.Crop = &c
	}
	if e.Zoom != nil {
		z := *e.Zoom
		dup.Zoom = &z
	}
	if e.Mockup != nil {
		m := *e.Mockup
		dup.Mockup = &m
	}
	if e.Cursor != nil {
		c := *e.Cursor
		dup.Cursor = &c
	}
	if e.Keystrokes != nil {
		k := *e.Keystrokes
		dup.Keystrokes = &k
	}
	return &dup
}

// Settings holds project-wide render parameters.
type Settings struct {
	FrameRate float64 `yaml:"frameRate"`
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
}

// Timeline owns the ordered tracks and the derived total duration.
type Timeline struct {
	Tracks   []*Track `yaml:"tracks"`
	Duration float64  `yaml:"duration"`
}

// Project is the single in-memory owner of all edit state. Structural
// changes go through Editor so derived caches stay consistent.
type Project struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name,omitempty"`
	Recordings []*Recording `yaml:"recordings"`
	Timeline   Timeline     `yaml:"timeline"`
	Effects    []*Effect    `yaml:"effects,omitempty"`
	Settings   Settings     `yaml:"settings"`
	ModifiedAt time.Time    `yaml:"modifiedAt,omitempty"`
}

// NewID mints an identifier for clips, effects and recordings.
func NewID() string {
	return uuid.NewString()
}

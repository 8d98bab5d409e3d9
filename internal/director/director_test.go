package director

import (
	"testing"

	"github.com/ivlev/screencut/internal/timeline"
)

func recordingWithClicks() *timeline.Recording {
	return &timeline.Recording{
		ID:       "rec",
		Kind:     timeline.SourceVideo,
		Duration: 20000,
		Width:    1920,
		Height:   1080,
		Metadata: &timeline.RecordingMetadata{
			Clicks: []timeline.ClickSample{
				// Tight cluster around (0.3, 0.3)
				{TimeMs: 2000, X: 0.30, Y: 0.30},
				{TimeMs: 2400, X: 0.31, Y: 0.29},
				{TimeMs: 2900, X: 0.29, Y: 0.31},
				// Lone click far later
				{TimeMs: 12000, X: 0.8, Y: 0.7},
			},
		},
	}
}

func fullClip() *timeline.Clip {
	return &timeline.Clip{
		ID: "clip", RecordingID: "rec",
		StartTime: 0, Duration: 20000,
		SourceIn: 0, SourceOut: 20000,
	}
}

func TestGenerateZoomBlocksClustersClicks(t *testing.T) {
	d := NewDirector()
	blocks := d.GenerateZoomBlocks(recordingWithClicks(), fullClip())

	if len(blocks) != 2 {
		t.Fatalf("Generated %d blocks, want 2 clusters", len(blocks))
	}

	first := blocks[0]
	if first.Kind != timeline.EffectZoom || !first.Enabled || first.Zoom == nil {
		t.Fatalf("Block is not a valid zoom effect: %+v", first)
	}
	// Centered on the cluster mean
	if first.Zoom.CenterX < 0.28 || first.Zoom.CenterX > 0.32 {
		t.Errorf("Cluster center X = %.3f, want ~0.30", first.Zoom.CenterX)
	}
	// Lead-in starts before the first click
	if first.StartTime >= 2000 {
		t.Errorf("Block start %.0f should lead the first click at 2000", first.StartTime)
	}
	// Tight cluster zooms harder than the floor
	if first.Zoom.Scale <= d.MinScale {
		t.Errorf("Tight cluster scale = %.2f, want above MinScale %.2f", first.Zoom.Scale, d.MinScale)
	}

	// Blocks stay inside the clip and do not overlap
	prevEnd := -1.0
	for _, b := range blocks {
		if b.StartTime < 0 || b.EndTime > 20000 {
			t.Errorf("Block [%.0f, %.0f) escapes the clip", b.StartTime, b.EndTime)
		}
		if b.StartTime < prevEnd {
			t.Errorf("Blocks overlap at %.0f", b.StartTime)
		}
		prevEnd = b.EndTime
	}
}

func TestGenerateZoomBlocksRespectsDwellBounds(t *testing.T) {
	d := NewDirector()
	blocks := d.GenerateZoomBlocks(recordingWithClicks(), fullClip())

	for _, b := range blocks {
		dur := b.EndTime - b.StartTime
		if dur < d.MinDwellMs-1e-9 || dur > d.MaxDwellMs+1e-9 {
			t.Errorf("Block duration %.0f outside [%.0f, %.0f]", dur, d.MinDwellMs, d.MaxDwellMs)
		}
	}
}

func TestGenerateZoomBlocksWithoutMetadata(t *testing.T) {
	d := NewDirector()

	if got := d.GenerateZoomBlocks(nil, fullClip()); got != nil {
		t.Errorf("Nil recording should yield nothing, got %d", len(got))
	}
	rec := &timeline.Recording{ID: "rec", Kind: timeline.SourceVideo, Duration: 1000}
	if got := d.GenerateZoomBlocks(rec, fullClip()); got != nil {
		t.Errorf("Recording without metadata should yield nothing, got %d", len(got))
	}
}

func TestGenerateZoomBlocksClampsToClipWindow(t *testing.T) {
	d := NewDirector()
	// The clip shows only source [10000, 15000): the early cluster is invisible
	clip := &timeline.Clip{
		ID: "clip", RecordingID: "rec",
		StartTime: 500, Duration: 5000,
		SourceIn: 10000, SourceOut: 15000,
	}

	blocks := d.GenerateZoomBlocks(recordingWithClicks(), clip)
	if len(blocks) != 1 {
		t.Fatalf("Generated %d blocks, want only the in-window cluster", len(blocks))
	}
	b := blocks[0]
	if b.StartTime < 500 || b.EndTime > 5500 {
		t.Errorf("Block [%.0f, %.0f) must stay inside the clip [500, 5500)", b.StartTime, b.EndTime)
	}
}

func TestApplyRegistersEffects(t *testing.T) {
	p := &timeline.Project{
		Recordings: []*timeline.Recording{recordingWithClicks()},
		Timeline: timeline.Timeline{
			Tracks: []*timeline.Track{
				{ID: "v", Kind: timeline.TrackVideo, Clips: []*timeline.Clip{fullClip()}},
			},
			Duration: 20000,
		},
		Settings: timeline.Settings{FrameRate: 30, Width: 1920, Height: 1080},
	}
	cat := timeline.NewCatalog(p)
	ed := timeline.NewEditor(p, cat)

	added := NewDirector().Apply(cat, ed)
	if added != 2 {
		t.Errorf("Apply added %d effects, want 2", added)
	}
	if got := len(p.Effects); got != 2 {
		t.Errorf("Project carries %d effects, want 2", got)
	}
	if eff := cat.EffectOfKindAt(timeline.EffectZoom, 2500); eff == nil {
		t.Error("Zoom effect should be active during the first cluster")
	}
}

package timeline

import (
	"testing"
	"time"
)

func newTestEditor(t *testing.T) (*Project, *Catalog, *Editor) {
	t.Helper()
	p := testProject()
	cat := NewCatalog(p)
	ed := NewEditor(p, cat)
	ed.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return p, cat, ed
}

// assertNonOverlap checks the core invariant: clips sorted by start are
// back-to-back or gapped, never overlapping. Webcam tracks are exempt.
func assertNonOverlap(t *testing.T, cat *Catalog, track *Track) {
	t.Helper()
	if track.Kind.AllowsOverlap() {
		return
	}
	sorted := cat.SortedClips(track)
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.EndTime() > cur.StartTime+1e-9 {
			t.Errorf("Clips %s and %s overlap: [%.0f,%.0f) vs [%.0f,%.0f)",
				prev.ID, cur.ID, prev.StartTime, prev.EndTime(), cur.StartTime, cur.EndTime())
		}
	}
}

func TestAddClipToTrackKeepsOrder(t *testing.T) {
	p, cat, ed := newTestEditor(t)

	clip := &Clip{ID: "mid", RecordingID: "rec1", StartTime: 400, Duration: 200, SourceIn: 0, SourceOut: 200}
	if got := ed.AddClipToTrack(TrackVideo, clip); got == nil {
		t.Fatal("AddClipToTrack returned nil")
	}

	track := cat.TrackByKind(TrackVideo)
	sorted := cat.SortedClips(track)
	if sorted[0].ID != "a" || sorted[1].ID != "mid" {
		t.Errorf("Order after insert: %s, %s", sorted[0].ID, sorted[1].ID)
	}
	assertNonOverlap(t, cat, track)

	if p.ModifiedAt.IsZero() {
		t.Error("Mutation must bump ModifiedAt")
	}
}

func TestAddClipDefaultsToProjectEnd(t *testing.T) {
	p, cat, ed := newTestEditor(t)

	clip := &Clip{RecordingID: "rec1", StartTime: -1, Duration: 500, SourceIn: 0, SourceOut: 500}
	ed.AddClipToTrack(TrackVideo, clip)

	if clip.StartTime != 2500 {
		t.Errorf("Unspecified start should default to project duration 2500, got %.0f", clip.StartTime)
	}
	if clip.ID == "" {
		t.Error("Insert must mint an id")
	}
	if p.Timeline.Duration != 3000 {
		t.Errorf("Duration after append = %.0f, want 3000", p.Timeline.Duration)
	}
	assertNonOverlap(t, cat, cat.TrackByKind(TrackVideo))
}

func TestAddRecordingClip(t *testing.T) {
	_, cat, ed := newTestEditor(t)

	clip := ed.AddRecordingClip(TrackVideo, "rec1")
	if clip == nil {
		t.Fatal("AddRecordingClip returned nil")
	}
	if clip.SourceIn != 0 || clip.SourceOut != 10000 || clip.Duration != 10000 {
		t.Errorf("Clip should span the whole recording: %+v", clip)
	}
	if got := ed.AddRecordingClip(TrackVideo, "missing"); got != nil {
		t.Errorf("Unknown recording should be a nil no-op, got %+v", got)
	}
	assertNonOverlap(t, cat, cat.TrackByKind(TrackVideo))
}

func TestRemoveClipReassignsSlice(t *testing.T) {
	p, _, ed := newTestEditor(t)

	track := p.Timeline.Tracks[1]
	before := track.Clips

	if !ed.RemoveClip("a") {
		t.Fatal("RemoveClip(a) failed")
	}
	if len(track.Clips) != 1 || track.Clips[0].ID != "b" {
		t.Errorf("Track after removal: %d clips", len(track.Clips))
	}
	if &before[0] == &track.Clips[0] {
		t.Error("Removal must produce a fresh slice identity")
	}
	if ed.RemoveClip("missing") {
		t.Error("Removing a missing clip should report false")
	}
}

func TestDuplicateClipPlacedAfterOriginal(t *testing.T) {
	_, cat, ed := newTestEditor(t)

	dup := ed.DuplicateClip("a")
	if dup == nil {
		t.Fatal("DuplicateClip returned nil")
	}
	if dup.ID == "a" || dup.ID == "" {
		t.Errorf("Duplicate must get a fresh id, got %q", dup.ID)
	}
	if dup.StartTime != 1000 {
		t.Errorf("Duplicate start = %.0f, want original end 1000", dup.StartTime)
	}

	track := cat.TrackByKind(TrackVideo)
	if track.Clips[1].ID != dup.ID {
		t.Errorf("Duplicate should sit at index 1, track order: %v", clipIDs(track.Clips))
	}
	// Former neighbor must have been pushed right
	assertNonOverlap(t, cat, track)
	if b := cat.ClipByID("b"); b.StartTime != 2000 {
		t.Errorf("Clip b should have reflowed to 2000, got %.0f", b.StartTime)
	}
}

func TestRestoreClipIsIdempotent(t *testing.T) {
	_, cat, ed := newTestEditor(t)

	clip := cat.MustClipByID("a")
	ed.RemoveClip("a")

	if !ed.RestoreClipToTrack("t-video", clip, 0) {
		t.Fatal("Restore failed")
	}
	track := cat.TrackByKind(TrackVideo)
	if len(track.Clips) != 2 {
		t.Fatalf("Track has %d clips after restore", len(track.Clips))
	}

	// Redundant redo replay: same call must be a successful no-op
	if !ed.RestoreClipToTrack("t-video", clip, 0) {
		t.Error("Second restore should still report success")
	}
	if len(track.Clips) != 2 {
		t.Errorf("Second restore changed the track: %d clips", len(track.Clips))
	}
}

func TestRestoreClipsToTrackAtomicReplace(t *testing.T) {
	_, cat, ed := newTestEditor(t)

	first := &Clip{ID: "b1", RecordingID: "rec1", StartTime: 1000, Duration: 600, SourceIn: 1000, SourceOut: 1600}
	second := &Clip{ID: "b2", RecordingID: "rec1", StartTime: 1600, Duration: 900, SourceIn: 1600, SourceOut: 2500}

	if !ed.RestoreClipsToTrack("t-video", []string{"b"}, []*Clip{second, first}) {
		t.Fatal("RestoreClipsToTrack failed")
	}

	track := cat.TrackByKind(TrackVideo)
	if got := clipIDs(track.Clips); len(got) != 3 || got[0] != "a" || got[1] != "b1" || got[2] != "b2" {
		t.Errorf("Track after replace = %v", got)
	}
	assertNonOverlap(t, cat, track)
}

func TestUpdateClipMaintainContiguous(t *testing.T) {
	_, cat, ed := newTestEditor(t)

	newDur := 1400.0
	if !ed.UpdateClip("a", ClipPatch{Duration: &newDur}, UpdateOptions{MaintainContiguous: true}) {
		t.Fatal("UpdateClip failed")
	}

	b := cat.MustClipByID("b")
	if b.StartTime != 1400 {
		t.Errorf("Clip b should follow a back-to-back at 1400, got %.0f", b.StartTime)
	}
	assertNonOverlap(t, cat, cat.TrackByKind(TrackVideo))
}

func TestUpdateClipExactKeepsIndex(t *testing.T) {
	_, cat, ed := newTestEditor(t)

	// Move clip a past b; Exact keeps it at index 0 regardless
	newStart := 5000.0
	ed.UpdateClip("a", ClipPatch{StartTime: &newStart}, UpdateOptions{Exact: true})

	track := cat.TrackByKind(TrackVideo)
	if track.Clips[0].ID != "a" {
		t.Errorf("Exact update must not re-sort, order: %v", clipIDs(track.Clips))
	}

	// Without Exact the track re-sorts by start time
	ed.UpdateClip("a", ClipPatch{StartTime: &newStart}, UpdateOptions{})
	if track.Clips[len(track.Clips)-1].ID != "a" {
		t.Errorf("Default update should re-sort, order: %v", clipIDs(track.Clips))
	}
}

func TestMutationSequencePreservesInvariant(t *testing.T) {
	_, cat, ed := newTestEditor(t)

	ed.AddClipToTrack(TrackVideo, &Clip{RecordingID: "rec1", StartTime: 300, Duration: 400, SourceIn: 0, SourceOut: 400})
	ed.DuplicateClip("b")
	ed.RemoveClip("a")
	ed.SplitClipAtTime("b", 700)
	ed.AddClipToTrack(TrackVideo, &Clip{RecordingID: "rec1", StartTime: -1, Duration: 250, SourceIn: 0, SourceOut: 250})

	assertNonOverlap(t, cat, cat.TrackByKind(TrackVideo))
}

func TestAddEffectRejectsUnknownKind(t *testing.T) {
	p, _, ed := newTestEditor(t)

	if eff := ed.AddEffect(&Effect{Kind: EffectKind("glitter"), Enabled: true}); eff != nil {
		t.Errorf("Unknown kind must be rejected, got %+v", eff)
	}
	count := len(p.Effects)
	if eff := ed.AddEffect(&Effect{Kind: EffectZoom, StartTime: 0, EndTime: 100, Enabled: true, Zoom: &ZoomData{Scale: 1.5}}); eff == nil {
		t.Error("Valid effect rejected")
	}
	if len(p.Effects) != count+1 {
		t.Errorf("Effects count = %d, want %d", len(p.Effects), count+1)
	}
}

func clipIDs(clips []*Clip) []string {
	ids := make([]string, len(clips))
	for i, c := range clips {
		ids[i] = c.ID
	}
	return ids
}

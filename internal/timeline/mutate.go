package timeline

import (
	"sort"
	"time"
)

// Editor performs all structural edits on a project. Every mutation ends
// with finish(): duration recompute, ModifiedAt bump and catalog
// invalidation, so derived caches never observe a half-applied edit.
// Editors are not safe for concurrent use against the same project;
// callers serialize edits through a single command executor.
type Editor struct {
	p   *Project
	cat *Catalog
	now func() time.Time
}

// NewEditor builds the mutation engine for a project and its catalog.
func NewEditor(p *Project, cat *Catalog) *Editor {
	return &Editor{p: p, cat: cat, now: time.Now}
}

// ClipPatch is a partial clip update; nil fields are left untouched.
type ClipPatch struct {
	StartTime        *float64
	Duration         *float64
	SourceIn         *float64
	SourceOut        *float64
	PlaybackRate     *float64
	TimeRemapPeriods *[]RemapPeriod
	FadeInMs         *float64
	FadeOutMs        *float64
}

// UpdateOptions control how UpdateClip settles the track afterwards.
type UpdateOptions struct {
	// MaintainContiguous reflows subsequent clips so they stay
	// back-to-back after the update.
	MaintainContiguous bool
	// Exact keeps the clip at its current index even if the new start
	// time would sort it elsewhere.
	Exact bool
}

func (e *Editor) finish() {
	e.p.Timeline.Duration = e.computeDuration()
	e.p.ModifiedAt = e.now()
	e.cat.Invalidate()
}

func (e *Editor) computeDuration() float64 {
	max := 0.0
	for _, track := range e.p.Timeline.Tracks {
		for _, clip := range track.Clips {
			if end := clip.EndTime(); end > max {
				max = end
			}
		}
	}
	return max
}

// reorderTargetIndex finds the insertion position that keeps the track
// ordered by start time. Equal starts insert after existing clips.
func reorderTargetIndex(track *Track, start float64) int {
	for i, clip := range track.Clips {
		if clip.StartTime > start {
			return i
		}
	}
	return len(track.Clips)
}

// reflowTrack pushes overlapping clips right so the non-overlap invariant
// holds again. Webcam tracks permit overlap and are left alone.
func reflowTrack(track *Track) {
	if track.Kind.AllowsOverlap() {
		return
	}
	sort.SliceStable(track.Clips, func(i, j int) bool {
		return track.Clips[i].StartTime < track.Clips[j].StartTime
	})
	for i := 1; i < len(track.Clips); i++ {
		prevEnd := track.Clips[i-1].EndTime()
		if track.Clips[i].StartTime < prevEnd {
			track.Clips[i].StartTime = prevEnd
		}
	}
}

// packTrack makes the clips from a given index back-to-back, preserving
// order. Used by MaintainContiguous updates and removals.
func packTrack(track *Track, from int) {
	if track.Kind.AllowsOverlap() {
		return
	}
	for i := from; i < len(track.Clips); i++ {
		if i == 0 {
			continue
		}
		track.Clips[i].StartTime = track.Clips[i-1].EndTime()
	}
}

// ensureTrack returns the first track of the kind, creating one when the
// project has none yet.
func (e *Editor) ensureTrack(kind TrackKind) *Track {
	if track := e.cat.TrackByKind(kind); track != nil {
		return track
	}
	track := &Track{ID: NewID(), Kind: kind}
	e.p.Timeline.Tracks = append(e.p.Timeline.Tracks, track)
	return track
}

// AddClipToTrack inserts the clip into the first track of the kind,
// creating the track on demand. A negative StartTime means "unspecified"
// and defaults to the project's current duration (append at the end).
// Returns the inserted clip.
func (e *Editor) AddClipToTrack(kind TrackKind, clip *Clip) *Clip {
	if clip.ID == "" {
		clip.ID = NewID()
	}
	if clip.StartTime < 0 {
		clip.StartTime = e.p.Timeline.Duration
	}
	track := e.ensureTrack(kind)
	idx := reorderTargetIndex(track, clip.StartTime)

	next := make([]*Clip, 0, len(track.Clips)+1)
	next = append(next, track.Clips[:idx]...)
	next = append(next, clip)
	next = append(next, track.Clips[idx:]...)
	track.Clips = next

	reflowTrack(track)
	e.finish()
	return clip
}

// AddRecordingClip builds a clip covering the whole recording and appends
// it to the track. Returns nil when the recording id is unknown.
func (e *Editor) AddRecordingClip(kind TrackKind, recordingID string) *Clip {
	rec := e.cat.Recording(recordingID)
	if rec == nil {
		return nil
	}
	clip := &Clip{
		ID:          NewID(),
		RecordingID: rec.ID,
		StartTime:   -1,
		Duration:    rec.Duration,
		SourceIn:    0,
		SourceOut:   rec.Duration,
	}
	return e.AddClipToTrack(kind, clip)
}

// RemoveClip deletes a clip by id. The track's clip slice is reassigned
// (fresh identity) so dependents can detect the structural change by
// reference inequality. Returns false when the clip is absent.
func (e *Editor) RemoveClip(id string) bool {
	clip, track := e.cat.FindClip(id)
	if clip == nil {
		return false
	}
	next := make([]*Clip, 0, len(track.Clips)-1)
	for _, c := range track.Clips {
		if c.ID != id {
			next = append(next, c)
		}
	}
	track.Clips = next
	e.finish()
	return true
}

// DuplicateClip clones a clip with a fresh id directly after the original
// (startTime = original end, index+1). Subsequent clips are pushed right
// to keep the track non-overlapping. Returns the new clip, nil when the
// original is absent.
func (e *Editor) DuplicateClip(id string) *Clip {
	clip, track := e.cat.FindClip(id)
	if clip == nil {
		return nil
	}
	idx := e.cat.ClipIndex(track, id)

	dup := clip.Clone()
	dup.ID = NewID()
	dup.StartTime = clip.EndTime()

	next := make([]*Clip, 0, len(track.Clips)+1)
	next = append(next, track.Clips[:idx+1]...)
	next = append(next, dup)
	next = append(next, track.Clips[idx+1:]...)
	track.Clips = next

	reflowTrack(track)
	e.finish()
	return dup
}

// RestoreClipToTrack re-inserts a previously removed clip at the given
// index. Idempotent: restoring a clip whose id is already present is a
// successful no-op, so redundant undo/redo replays are safe.
func (e *Editor) RestoreClipToTrack(trackID string, clip *Clip, index int) bool {
	track := e.cat.TrackByID(trackID)
	if track == nil {
		return false
	}
	for _, c := range track.Clips {
		if c.ID == clip.ID {
			return true
		}
	}
	if index < 0 {
		index = 0
	}
	if index > len(track.Clips) {
		index = len(track.Clips)
	}
	next := make([]*Clip, 0, len(track.Clips)+1)
	next = append(next, track.Clips[:index]...)
	next = append(next, clip)
	next = append(next, track.Clips[index:]...)
	track.Clips = next
	e.finish()
	return true
}

// RestoreClipsToTrack atomically removes one set of clips and adds
// another, then re-sorts by start time. Compound undo/redo (split and its
// inverse) uses this so no intermediate invalid state is observable.
func (e *Editor) RestoreClipsToTrack(trackID string, removeIDs []string, add []*Clip) bool {
	track := e.cat.TrackByID(trackID)
	if track == nil {
		return false
	}
	drop := make(map[string]bool, len(removeIDs))
	for _, id := range removeIDs {
		drop[id] = true
	}
	next := make([]*Clip, 0, len(track.Clips)+len(add))
	present := make(map[string]bool, len(track.Clips))
	for _, c := range track.Clips {
		if drop[c.ID] {
			continue
		}
		next = append(next, c)
		present[c.ID] = true
	}
	for _, c := range add {
		if present[c.ID] {
			continue
		}
		next = append(next, c)
		present[c.ID] = true
	}
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].StartTime < next[j].StartTime
	})
	track.Clips = next
	e.finish()
	return true
}

// UpdateClip applies a partial field update. Unless Exact is set the
// track is re-sorted by start time afterwards; with MaintainContiguous the
// clips after the updated one are packed back-to-back. Returns false when
// the clip is absent.
func (e *Editor) UpdateClip(id string, patch ClipPatch, opts UpdateOptions) bool {
	clip, track := e.cat.FindClip(id)
	if clip == nil {
		return false
	}

	if patch.StartTime != nil {
		clip.StartTime = *patch.StartTime
	}
	if patch.Duration != nil {
		clip.Duration = *patch.Duration
	}
	if patch.SourceIn != nil {
		clip.SourceIn = *patch.SourceIn
	}
	if patch.SourceOut != nil {
		clip.SourceOut = *patch.SourceOut
	}
	if patch.PlaybackRate != nil {
		clip.PlaybackRate = *patch.PlaybackRate
	}
	if patch.TimeRemapPeriods != nil {
		clip.TimeRemapPeriods = append([]RemapPeriod(nil), (*patch.TimeRemapPeriods)...)
	}
	if patch.FadeInMs != nil {
		clip.FadeInMs = *patch.FadeInMs
	}
	if patch.FadeOutMs != nil {
		clip.FadeOutMs = *patch.FadeOutMs
	}

	if !opts.Exact {
		sort.SliceStable(track.Clips, func(i, j int) bool {
			return track.Clips[i].StartTime < track.Clips[j].StartTime
		})
	}
	if opts.MaintainContiguous {
		idx := e.cat.ClipIndex(track, id)
		packTrack(track, idx+1)
	}
	e.finish()
	return true
}

// AddRecording registers a media source with the project.
func (e *Editor) AddRecording(rec *Recording) *Recording {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	e.p.Recordings = append(e.p.Recordings, rec)
	e.finish()
	return rec
}

// AddEffect registers an effect. Unknown kinds are rejected (nil) so the
// closed-kind invariant holds everywhere downstream.
func (e *Editor) AddEffect(eff *Effect) *Effect {
	if _, ok := BehaviorOf(eff.Kind); !ok {
		return nil
	}
	if eff.ID == "" {
		eff.ID = NewID()
	}
	e.p.Effects = append(e.p.Effects, eff)
	e.finish()
	return eff
}

// RemoveEffect deletes an effect by id, false when absent.
func (e *Editor) RemoveEffect(id string) bool {
	for i, eff := range e.p.Effects {
		if eff.ID == id {
			e.p.Effects = append(e.p.Effects[:i], e.p.Effects[i+1:]...)
			e.finish()
			return true
		}
	}
	return false
}

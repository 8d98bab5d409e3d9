package timeline

// SplitClipAtTime cuts a clip in two at a timeline offset relative to the
// clip's start. The offset must fall strictly inside (0, Duration): a
// split has to produce two non-empty clips, so out-of-range offsets
// return nil, nil with no mutation rather than silently clamping.
//
// On success the original clip is replaced in place by the two halves
// (same index run, both with fresh ids):
//   - the exact source split point comes from the time converter, so
//     variable-rate clips cut at the correct media frame;
//   - remap periods are partitioned at the split source time, the
//     straddling window clamped into each half;
//   - a crop effect bound to the original is duplicated onto both halves
//     with narrowed windows (a shared crop across two independently
//     trimmable clips would break the one-effect-per-clip-window rule);
//   - keystroke overlays re-sync to whichever half now owns their start.
func (e *Editor) SplitClipAtTime(clipID string, relative float64) (*Clip, *Clip) {
	clip, track := e.cat.FindClip(clipID)
	if clip == nil {
		return nil, nil
	}
	if relative <= 0 || relative >= clip.Duration {
		return nil, nil
	}

	splitSource := SourceTimeAt(clip, relative)

	first := clip.Clone()
	first.ID = NewID()
	first.Duration = relative
	first.SourceOut = splitSource
	first.FadeOutMs = 0

	second := clip.Clone()
	second.ID = NewID()
	second.StartTime = clip.StartTime + relative
	second.Duration = clip.Duration - relative
	second.SourceIn = splitSource
	second.FadeInMs = 0

	first.TimeRemapPeriods, second.TimeRemapPeriods = partitionRemapPeriods(clip.TimeRemapPeriods, splitSource)

	idx := e.cat.ClipIndex(track, clip.ID)
	next := make([]*Clip, 0, len(track.Clips)+1)
	next = append(next, track.Clips[:idx]...)
	next = append(next, first, second)
	next = append(next, track.Clips[idx+1:]...)
	track.Clips = next

	e.splitCropEffects(clip.ID, first, second)
	e.resyncKeystrokeEffects(clip.ID, first, second)

	e.finish()
	return first, second
}

// partitionRemapPeriods assigns each remap window to the half that owns
// it in source time, clamping the window that straddles the split point.
func partitionRemapPeriods(periods []RemapPeriod, splitSource float64) (before, after []RemapPeriod) {
	for _, p := range periods {
		switch {
		case p.SourceEnd <= splitSource:
			before = append(before, p)
		case p.SourceStart >= splitSource:
			after = append(after, p)
		default:
			before = append(before, RemapPeriod{
				SourceStart: p.SourceStart,
				SourceEnd:   splitSource,
				Rate:        p.Rate,
			})
			after = append(after, RemapPeriod{
				SourceStart: splitSource,
				SourceEnd:   p.SourceEnd,
				Rate:        p.Rate,
			})
		}
	}
	return before, after
}

// splitCropEffects duplicates the crop bound to the original clip onto
// both halves and removes the original effect. A crop with no payload has
// nothing to copy; the split still succeeds without propagating it.
func (e *Editor) splitCropEffects(originalID string, first, second *Clip) {
	var kept []*Effect
	var added []*Effect
	for _, eff := range e.p.Effects {
		if eff.Kind != EffectCrop || eff.Crop == nil || eff.Crop.ClipID != originalID {
			kept = append(kept, eff)
			continue
		}
		for _, half := range []*Clip{first, second} {
			window, ok := eff.Range().Intersection(half.Range())
			if !ok {
				continue
			}
			dup := eff.Clone()
			dup.ID = NewID()
			dup.StartTime = window.Start
			dup.EndTime = window.End
			dup.Crop.ClipID = half.ID
			added = append(added, dup)
		}
	}
	e.p.Effects = append(kept, added...)
}

// resyncKeystrokeEffects rebinds keystroke overlays derived from the
// original clip's boundaries to whichever half contains their start, and
// clamps their window into that half.
func (e *Editor) resyncKeystrokeEffects(originalID string, first, second *Clip) {
	for _, eff := range e.p.Effects {
		if eff.Kind != EffectKeystrokes || eff.Keystrokes == nil || eff.Keystrokes.ClipID != originalID {
			continue
		}
		owner := first
		if !first.Range().Contains(eff.StartTime) {
			owner = second
		}
		eff.Keystrokes.ClipID = owner.ID
		if window, ok := eff.Range().Intersection(owner.Range()); ok {
			eff.StartTime = window.Start
			eff.EndTime = window.End
		} else {
			eff.StartTime = owner.StartTime
			eff.EndTime = owner.EndTime()
		}
	}
}

package timeline

import (
	"fmt"
	"math"
	"sort"
)

// Catalog is the read-only query layer over a project. It owns the derived
// caches (recordings-by-id, active-effects memo) and must be invalidated
// whenever a mutation completes. Queries are linear scans; project sizes
// are tens to low hundreds of clips.
type Catalog struct {
	p          *Project
	recordings map[string]*Recording
	effects    *effectsCache
}

// NewCatalog builds the query layer for a project.
func NewCatalog(p *Project) *Catalog {
	c := &Catalog{
		p:       p,
		effects: newEffectsCache(512),
	}
	c.Invalidate()
	return c
}

// Project returns the underlying project.
func (c *Catalog) Project() *Project {
	return c.p
}

// Invalidate rebuilds the derived caches. Editor calls this after every
// completed mutation.
func (c *Catalog) Invalidate() {
	c.recordings = make(map[string]*Recording, len(c.p.Recordings))
	for _, r := range c.p.Recordings {
		c.recordings[r.ID] = r
	}
	c.effects.reset()
}

// Recording resolves a recording by id, nil when absent.
func (c *Catalog) Recording(id string) *Recording {
	return c.recordings[id]
}

// FindClip returns the clip and its track, or nil/nil when absent.
func (c *Catalog) FindClip(id string) (*Clip, *Track) {
	for _, track := range c.p.Timeline.Tracks {
		for _, clip := range track.Clips {
			if clip.ID == id {
				return clip, track
			}
		}
	}
	return nil, nil
}

// ClipByID resolves a clip by id, nil when absent.
func (c *Catalog) ClipByID(id string) *Clip {
	clip, _ := c.FindClip(id)
	return clip
}

// MustClipByID resolves a clip the caller asserts exists. Absence is a
// programming error, not a user-facing condition, so it panics with the
// offending id.
func (c *Catalog) MustClipByID(id string) *Clip {
	clip := c.ClipByID(id)
	if clip == nil {
		panic(fmt.Sprintf("timeline: clip %q not found", id))
	}
	return clip
}

// ClipIndex returns the clip's position within its track, -1 when absent.
func (c *Catalog) ClipIndex(track *Track, id string) int {
	for i, clip := range track.Clips {
		if clip.ID == id {
			return i
		}
	}
	return -1
}

// ClipAtTime returns the topmost clip covering t, scanning tracks in
// z-order (first track wins). Nil when nothing is under the playhead.
func (c *Catalog) ClipAtTime(t float64) *Clip {
	for _, track := range c.p.Timeline.Tracks {
		for _, clip := range track.Clips {
			if clip.Range().Contains(t) {
				return clip
			}
		}
	}
	return nil
}

// ClipAtTimeOnTrack restricts ClipAtTime to one track kind.
func (c *Catalog) ClipAtTimeOnTrack(kind TrackKind, t float64) *Clip {
	track := c.TrackByKind(kind)
	if track == nil {
		return nil
	}
	for _, clip := range track.Clips {
		if clip.Range().Contains(t) {
			return clip
		}
	}
	return nil
}

// ClipsInRange returns every clip overlapping the window, across all
// tracks, in track z-order. Used for visible-range culling.
func (c *Catalog) ClipsInRange(r TimeRange) []*Clip {
	var out []*Clip
	for _, track := range c.p.Timeline.Tracks {
		for _, clip := range track.Clips {
			if clip.Range().Overlaps(r) {
				out = append(out, clip)
			}
		}
	}
	return out
}

// TrackByKind returns the first track of the given kind, nil when absent.
func (c *Catalog) TrackByKind(kind TrackKind) *Track {
	for _, track := range c.p.Timeline.Tracks {
		if track.Kind == kind {
			return track
		}
	}
	return nil
}

// TrackByID returns the track with the given id, nil when absent.
func (c *Catalog) TrackByID(id string) *Track {
	for _, track := range c.p.Timeline.Tracks {
		if track.ID == id {
			return track
		}
	}
	return nil
}

// SortedClips returns a copy of the track's clips ordered by start time.
func (c *Catalog) SortedClips(track *Track) []*Clip {
	out := make([]*Clip, len(track.Clips))
	copy(out, track.Clips)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// EffectsAt returns every enabled effect whose window contains t. Results
// are memoized by the exact timestamp; the memo is invisible to
// correctness and reset on every mutation.
func (c *Catalog) EffectsAt(t float64) []*Effect {
	key := math.Float64bits(t)
	if v, ok := c.effects.get(key); ok {
		return v
	}
	var out []*Effect
	for _, e := range c.p.Effects {
		if e.ActiveAt(t) {
			out = append(out, e)
		}
	}
	c.effects.put(key, out)
	return out
}

// EffectOfKindAt returns the first active effect of the kind at t. For
// exclusive kinds that is the only one that matters.
func (c *Catalog) EffectOfKindAt(kind EffectKind, t float64) *Effect {
	for _, e := range c.EffectsAt(t) {
		if e.Kind == kind {
			return e
		}
	}
	return nil
}

// EffectsOfKind returns every effect of the kind regardless of time.
func (c *Catalog) EffectsOfKind(kind EffectKind) []*Effect {
	var out []*Effect
	for _, e := range c.p.Effects {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// EffectsForClip returns the per-clip effects bound to the given clip id.
func (c *Catalog) EffectsForClip(clipID string) []*Effect {
	var out []*Effect
	for _, e := range c.p.Effects {
		switch {
		case e.Crop != nil && e.Crop.ClipID == clipID:
			out = append(out, e)
		case e.Keystrokes != nil && e.Keystrokes.ClipID == clipID:
			out = append(out, e)
		}
	}
	return out
}

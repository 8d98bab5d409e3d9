// Package director generates camera paths automatically: it clusters the
// click activity captured with a recording and proposes zoom-block
// effects focused on where the user was working. The output is ordinary
// effects, so the editor can trim or delete them like hand-made ones.
package director

import (
	"math"
	"sort"

	"github.com/ivlev/screencut/internal/timeline"
)

// Director holds the auto-zoom tuning.
type Director struct {
	MinDwellMs   float64 // minimum generated block length
	MaxDwellMs   float64 // maximum generated block length
	ClusterGapMs float64 // clicks further apart start a new cluster
	MinScale     float64
	MaxScale     float64
	LeadInMs     float64 // start the block before the first click
}

// NewDirector creates a Director with default settings.
func NewDirector() *Director {
	return &Director{
		MinDwellMs:   1500,
		MaxDwellMs:   6000,
		ClusterGapMs: 2500,
		MinScale:     1.4,
		MaxScale:     2.5,
		LeadInMs:     400,
	}
}

// cluster is a run of clicks close together in source time.
type cluster struct {
	startMs float64
	endMs   float64
	clicks  []timeline.ClickSample
}

// clusterClicks groups the recorded clicks by temporal proximity.
func (d *Director) clusterClicks(clicks []timeline.ClickSample) []cluster {
	if len(clicks) == 0 {
		return nil
	}
	ordered := make([]timeline.ClickSample, len(clicks))
	copy(ordered, clicks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TimeMs < ordered[j].TimeMs
	})

	var out []cluster
	cur := cluster{startMs: ordered[0].TimeMs, endMs: ordered[0].TimeMs}
	for _, c := range ordered {
		if c.TimeMs-cur.endMs > d.ClusterGapMs {
			out = append(out, cur)
			cur = cluster{startMs: c.TimeMs, endMs: c.TimeMs}
		}
		cur.endMs = c.TimeMs
		cur.clicks = append(cur.clicks, c)
	}
	return append(out, cur)
}

// focus returns the cluster's camera target and a zoom level derived
// from the click spread: tight clusters zoom in hard, scattered ones
// stay wide so every click remains in view.
func (d *Director) focus(cl cluster) (cx, cy, scale float64) {
	for _, c := range cl.clicks {
		cx += c.X
		cy += c.Y
	}
	n := float64(len(cl.clicks))
	cx /= n
	cy /= n

	spread := 0.0
	for _, c := range cl.clicks {
		if dist := math.Hypot(c.X-cx, c.Y-cy); dist > spread {
			spread = dist
		}
	}
	// Spread 0 maps to MaxScale, spread 0.4 and beyond to MinScale.
	t := spread / 0.4
	if t > 1 {
		t = 1
	}
	scale = d.MaxScale + (d.MinScale-d.MaxScale)*t
	return cx, cy, scale
}

// GenerateZoomBlocks proposes zoom effects for one clip, mapped from the
// recording's click metadata into timeline time. Recordings without
// metadata yield nothing.
func (d *Director) GenerateZoomBlocks(rec *timeline.Recording, clip *timeline.Clip) []*timeline.Effect {
	if rec == nil || rec.Metadata == nil || len(rec.Metadata.Clicks) == 0 {
		return nil
	}

	var out []*timeline.Effect
	prevEnd := math.Inf(-1)
	for _, cl := range d.clusterClicks(rec.Metadata.Clicks) {
		// Only clusters inside the clip's source window matter.
		if cl.endMs < clip.SourceIn || cl.startMs >= clip.SourceOut {
			continue
		}

		start := clip.StartTime + timeline.TimelineOffsetAt(clip, cl.startMs) - d.LeadInMs
		end := clip.StartTime + timeline.TimelineOffsetAt(clip, cl.endMs)
		if end-start < d.MinDwellMs {
			end = start + d.MinDwellMs
		}
		if end-start > d.MaxDwellMs {
			end = start + d.MaxDwellMs
		}
		if start < clip.StartTime {
			start = clip.StartTime
		}
		if end > clip.EndTime() {
			end = clip.EndTime()
		}
		if end-start <= 0 {
			continue
		}
		// Merge into the previous block instead of overlapping it.
		if start < prevEnd {
			last := out[len(out)-1]
			if end > last.EndTime {
				last.EndTime = end
				prevEnd = end
			}
			continue
		}

		cx, cy, scale := d.focus(cl)
		out = append(out, &timeline.Effect{
			ID:        timeline.NewID(),
			Kind:      timeline.EffectZoom,
			StartTime: start,
			EndTime:   end,
			Enabled:   true,
			Zoom: &timeline.ZoomData{
				Scale:   scale,
				CenterX: cx,
				CenterY: cy,
			},
		})
		prevEnd = end
	}
	return out
}

// Apply generates and registers zoom blocks for every clip on the video
// track. Returns how many effects were added.
func (d *Director) Apply(cat *timeline.Catalog, ed *timeline.Editor) int {
	track := cat.TrackByKind(timeline.TrackVideo)
	if track == nil {
		return 0
	}
	added := 0
	for _, clip := range cat.SortedClips(track) {
		rec := cat.Recording(clip.RecordingID)
		for _, eff := range d.GenerateZoomBlocks(rec, clip) {
			if ed.AddEffect(eff) != nil {
				added++
			}
		}
	}
	return added
}

package timeline

import "math"

// Time conversion between a clip's timeline span and its recording's
// source span. With no remap periods the mapping is linear from SourceIn
// at the clip's base rate (source advances rate ms per timeline ms). Remap
// periods carve the source span into sub-windows with their own rates;
// gaps between them play at the base rate. The mapping is monotonic and
// invertible inside the clip.

// remapSegment is one resolved stretch of source time with a single rate.
type remapSegment struct {
	sourceStart float64
	sourceEnd   float64
	rate        float64
}

// remapSegments flattens the clip's remap periods into a contiguous,
// ordered cover of [SourceIn, SourceOut]. Periods outside the clip's
// source span are clamped away; zero or negative rates fall back to 1x.
func remapSegments(c *Clip) []remapSegment {
	base := c.Rate()
	if len(c.TimeRemapPeriods) == 0 {
		return []remapSegment{{c.SourceIn, c.SourceOut, base}}
	}

	var segs []remapSegment
	pos := c.SourceIn
	for _, p := range c.TimeRemapPeriods {
		start := math.Max(p.SourceStart, c.SourceIn)
		end := math.Min(p.SourceEnd, c.SourceOut)
		if end <= start || end <= pos {
			continue
		}
		if start > pos {
			segs = append(segs, remapSegment{pos, start, base})
		} else {
			start = pos
		}
		rate := p.Rate
		if rate <= 0 {
			rate = 1.0
		}
		segs = append(segs, remapSegment{start, end, rate})
		pos = end
	}
	if pos < c.SourceOut {
		segs = append(segs, remapSegment{pos, c.SourceOut, base})
	}
	if len(segs) == 0 {
		segs = []remapSegment{{c.SourceIn, c.SourceOut, base}}
	}
	return segs
}

// SourceTimeAt maps a timeline-relative offset inside the clip to source
// time. Offsets outside [0, Duration] clamp to the clip's source bounds.
func SourceTimeAt(c *Clip, offset float64) float64 {
	if offset <= 0 {
		return c.SourceIn
	}
	remaining := offset
	for _, seg := range remapSegments(c) {
		srcLen := seg.sourceEnd - seg.sourceStart
		tlLen := srcLen / seg.rate
		if remaining < tlLen {
			return seg.sourceStart + remaining*seg.rate
		}
		remaining -= tlLen
	}
	return c.SourceOut
}

// TimelineOffsetAt is the inverse of SourceTimeAt: it maps a source time
// back to the timeline-relative offset within the clip. Source times
// outside the clip's span clamp to the clip's edges.
func TimelineOffsetAt(c *Clip, sourceTime float64) float64 {
	if sourceTime <= c.SourceIn {
		return 0
	}
	offset := 0.0
	for _, seg := range remapSegments(c) {
		if sourceTime < seg.sourceEnd {
			return offset + (sourceTime-seg.sourceStart)/seg.rate
		}
		offset += (seg.sourceEnd - seg.sourceStart) / seg.rate
	}
	return offset
}

// SourceDuration returns how much source time the clip consumes.
func SourceDuration(c *Clip) float64 {
	return c.SourceOut - c.SourceIn
}

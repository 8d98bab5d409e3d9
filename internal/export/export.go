// Package export walks the timeline frame by frame and feeds fully
// resolved frame states to a consumer in presentation order. Frame
// computation is pure, so frames are rendered on a worker pool and
// reordered before delivery; two runs over the same project produce the
// same sequence.
package export

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/screencut/internal/camera"
	"github.com/ivlev/screencut/internal/cursor"
	"github.com/ivlev/screencut/internal/layout"
	"github.com/ivlev/screencut/internal/logging"
	"github.com/ivlev/screencut/internal/timeline"
)

// RenderedFrame is the complete deterministic state for one output frame.
type RenderedFrame struct {
	Index    int
	TimeMs   float64
	Snapshot layout.FrameSnapshot
	Cursor   cursor.Frame
	Blur     camera.MotionBlur
}

// FrameConsumer receives frames strictly in index order. Consume runs on
// a single goroutine; an error aborts the export.
type FrameConsumer interface {
	Consume(RenderedFrame) error
	Close() error
}

// Stats summarizes a finished export run.
type Stats struct {
	Frames     int
	Workers    int
	Elapsed    time.Duration
	RenderFPS  float64
	DurationMs float64
}

// Observer decouples progress reporting from the export loop. Events may
// arrive from multiple goroutines; implementations must be safe for
// concurrent use.
type Observer interface {
	OnStart(totalFrames int, settings timeline.Settings)
	OnFrame(done, total int)
	OnDone(stats Stats)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) OnStart(int, timeline.Settings) {}
func (NopObserver) OnFrame(int, int)               {}
func (NopObserver) OnDone(Stats)                   {}

// Driver renders a project's timeline into a frame consumer.
type Driver struct {
	Workers  int // 0 = auto-size from the machine
	Observer Observer
	BlurCfg  camera.BlurConfig

	cat *timeline.Catalog
	eng *layout.Engine
	log zerolog.Logger
}

// NewDriver builds a driver over a catalog.
func NewDriver(cat *timeline.Catalog) *Driver {
	return &Driver{
		Observer: NopObserver{},
		BlurCfg:  camera.DefaultBlurConfig,
		cat:      cat,
		eng:      layout.NewEngine(cat),
		log:      logging.WithComponent("export"),
	}
}

// FrameCount returns how many output frames the project produces.
func (d *Driver) FrameCount() int {
	p := d.cat.Project()
	if p.Settings.FrameRate <= 0 || p.Timeline.Duration <= 0 {
		return 0
	}
	return int(math.Ceil(p.Timeline.Duration * p.Settings.FrameRate / 1000.0))
}

// renderFrame resolves everything for one frame index. Pure: safe to
// call from any worker for any index.
func (d *Driver) renderFrame(index int) RenderedFrame {
	p := d.cat.Project()
	fps := p.Settings.FrameRate
	timeMs := float64(index) * 1000.0 / fps

	frame := RenderedFrame{
		Index:    index,
		TimeMs:   timeMs,
		Snapshot: d.eng.SnapshotAt(timeMs, false),
	}

	// Camera motion blur compares this frame's camera position with the
	// previous frame's, both recomputed here so frames stay independent.
	if index > 0 {
		prev := d.eng.SnapshotAt(float64(index-1)*1000.0/fps, false)
		px, py := cameraPixelPos(prev)
		cx, cy := cameraPixelPos(frame.Snapshot)
		frame.Blur = camera.BlurBetween(px, py, cx, cy, d.BlurCfg)
	}

	if srcMs, clip, ok := d.eng.SourceTimeFor(timeMs); ok {
		if rec := d.cat.Recording(clip.RecordingID); rec != nil && rec.Metadata != nil {
			cfg := cursor.DefaultConfig
			if eff := d.cat.EffectOfKindAt(timeline.EffectCursor, timeMs); eff != nil && eff.Cursor != nil {
				cfg = cursorConfig(eff.Cursor)
			}
			synthetic := rec.Kind == timeline.SourceGenerated
			frame.Cursor = cursor.Interpolate(cfg, rec.Metadata.MouseMoves, rec.Metadata.Clicks, srcMs, fps, synthetic)
		}
	}

	return frame
}

// cameraPixelPos is the camera's pan translation in composition pixels,
// the positional signal motion blur is derived from.
func cameraPixelPos(s layout.FrameSnapshot) (float64, float64) {
	return s.Camera.PanX * s.DrawRect.W * s.Camera.Scale,
		s.Camera.PanY * s.DrawRect.H * s.Camera.Scale
}

func cursorConfig(data *timeline.CursorData) cursor.Config {
	cfg := cursor.DefaultConfig
	if data.Theme != "" {
		cfg.Theme = data.Theme
	}
	if data.Size > 0 {
		cfg.Size = data.Size
	}
	if data.SmoothingMs > 0 {
		cfg.SmoothingMs = data.SmoothingMs
	}
	if data.ClickDurationMs > 0 {
		cfg.ClickDurationMs = data.ClickDurationMs
	}
	cfg.HoverTilt = data.HoverTilt
	return cfg
}

// Run renders every frame and delivers them to the consumer in order.
func (d *Driver) Run(ctx context.Context, consumer FrameConsumer) (Stats, error) {
	start := time.Now()
	p := d.cat.Project()
	total := d.FrameCount()

	workers := d.Workers
	if workers <= 0 {
		workers = AutoWorkers()
	}
	if workers > total && total > 0 {
		workers = total
	}

	d.Observer.OnStart(total, p.Settings)
	d.log.Info().Int("frames", total).Int("workers", workers).
		Float64("fps", p.Settings.FrameRate).Msg("export started")

	stats := Stats{Frames: total, Workers: workers, DurationMs: p.Timeline.Duration}
	if total == 0 {
		stats.Elapsed = time.Since(start)
		d.Observer.OnDone(stats)
		return stats, consumer.Close()
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int, workers)
	results := make(chan RenderedFrame, workers*2)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for index := range jobs {
				select {
				case results <- d.renderFrame(index):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < total; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// Collector: reorder out-of-order worker results and deliver
	// strictly by index.
	var collectErr error
	var collectWg sync.WaitGroup
	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		pending := make(map[int]RenderedFrame)
		next := 0
		for frame := range results {
			pending[frame.Index] = frame
			for {
				f, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				if err := consumer.Consume(f); err != nil {
					collectErr = fmt.Errorf("frame %d: %w", f.Index, err)
					// Drain so blocked workers can finish.
					for range results {
					}
					return
				}
				next++
				d.Observer.OnFrame(next, total)
			}
		}
	}()

	err := g.Wait()
	close(results)
	collectWg.Wait()

	if err == nil {
		err = collectErr
	}
	if closeErr := consumer.Close(); err == nil {
		err = closeErr
	}

	stats.Elapsed = time.Since(start)
	if stats.Elapsed > 0 {
		stats.RenderFPS = float64(total) / stats.Elapsed.Seconds()
	}

	if err != nil {
		d.log.Error().Err(err).Msg("export failed")
		return stats, err
	}

	d.Observer.OnDone(stats)
	d.log.Info().Int("frames", total).Dur("elapsed", stats.Elapsed).
		Float64("render_fps", stats.RenderFPS).Msg("export finished")
	return stats, nil
}

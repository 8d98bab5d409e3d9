package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ivlev/screencut/internal/assets"
	"github.com/ivlev/screencut/internal/config"
	"github.com/ivlev/screencut/internal/director"
	"github.com/ivlev/screencut/internal/document"
	"github.com/ivlev/screencut/internal/export"
	"github.com/ivlev/screencut/internal/logging"
	"github.com/ivlev/screencut/internal/timeline"
)

func main() {
	projectPtr := flag.String("project", "", "Path to a project YAML file (empty: start a new project)")
	configPtr := flag.String("config", "", "Optional config YAML overriding the defaults")
	outputPtr := flag.String("output", "", "Frame stream output path (.jsonl); empty skips the export")
	widthPtr := flag.Int("width", 0, "Output width (0: project/config value)")
	heightPtr := flag.Int("height", 0, "Output height (0: project/config value)")
	fpsPtr := flag.Float64("fps", 0, "Output frame rate (0: project/config value)")
	workersPtr := flag.Int("workers", 0, "Render workers (0: auto-size from the machine)")
	importPDFPtr := flag.String("import-pdf", "", "Import a PDF as back-to-back image clips")
	importImagesPtr := flag.String("import-images", "", "Import an image file or directory")
	assetDirPtr := flag.String("asset-dir", "assets", "Directory for rendered asset files")
	qrPtr := flag.String("qr", "", "Add a QR overlay encoding this URL")
	autoZoomPtr := flag.Bool("auto-zoom", false, "Generate zoom blocks from recorded clicks")
	savePtr := flag.String("save", "", "Write the resulting project to this path")
	statsPtr := flag.Bool("stats", false, "Print a performance report after the export")
	verbosePtr := flag.Bool("verbose", false, "Debug logging")
	quietPtr := flag.Bool("quiet", false, "Warnings and errors only")
	flag.Parse()

	logging.Init(*verbosePtr, *quietPtr)

	cfg := config.Default()
	if *configPtr != "" {
		var err error
		cfg, err = config.Load(*configPtr)
		if err != nil {
			log.Fatal().Err(err).Msg("config")
		}
	}
	if *widthPtr > 0 {
		cfg.Width = *widthPtr
	}
	if *heightPtr > 0 {
		cfg.Height = *heightPtr
	}
	if *fpsPtr > 0 {
		cfg.FPS = *fpsPtr
	}
	if *workersPtr > 0 {
		cfg.Workers = *workersPtr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	p := newProject(cfg)
	if *projectPtr != "" {
		doc, err := document.Read(*projectPtr)
		if err != nil {
			log.Fatal().Err(err).Msg("project")
		}
		p = doc.Project
		if *widthPtr > 0 {
			p.Settings.Width = *widthPtr
		}
		if *heightPtr > 0 {
			p.Settings.Height = *heightPtr
		}
		if *fpsPtr > 0 {
			p.Settings.FrameRate = *fpsPtr
		}
	}

	cat := timeline.NewCatalog(p)
	ed := timeline.NewEditor(p, cat)

	if *importPDFPtr != "" || *importImagesPtr != "" || *qrPtr != "" {
		im := assets.NewImporter(ed, *assetDirPtr)
		if *importPDFPtr != "" {
			clips, err := im.ImportPDF(*importPDFPtr)
			if err != nil {
				log.Fatal().Err(err).Msg("import pdf")
			}
			fmt.Printf("[*] Imported %d pages from %s\n", len(clips), *importPDFPtr)
		}
		if *importImagesPtr != "" {
			clips, err := im.ImportImages(*importImagesPtr)
			if err != nil {
				log.Fatal().Err(err).Msg("import images")
			}
			fmt.Printf("[*] Imported %d images from %s\n", len(clips), *importImagesPtr)
		}
		if *qrPtr != "" {
			if _, err := im.AddQROverlay(*qrPtr, 256, 0); err != nil {
				log.Fatal().Err(err).Msg("qr overlay")
			}
			fmt.Printf("[*] Added QR overlay for %s\n", *qrPtr)
		}
	}

	if *autoZoomPtr {
		added := director.NewDirector().Apply(cat, ed)
		fmt.Printf("[*] Auto-zoom generated %d blocks\n", added)
	}

	if *savePtr != "" {
		if err := document.Write(&document.Document{Project: p}, *savePtr); err != nil {
			log.Fatal().Err(err).Msg("save project")
		}
		fmt.Printf("[*] Project saved: %s\n", *savePtr)
	}

	if *outputPtr == "" {
		if *projectPtr == "" && *importPDFPtr == "" && *importImagesPtr == "" {
			flag.Usage()
			os.Exit(2)
		}
		return
	}

	out, err := os.Create(*outputPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("output")
	}
	defer out.Close()

	drv := export.NewDriver(cat)
	drv.Workers = cfg.Workers
	if !*quietPtr {
		drv.Observer = &consoleObserver{}
	}

	stats, err := drv.Run(context.Background(), export.NewJSONLConsumer(out))
	if err != nil {
		log.Fatal().Err(err).Msg("export")
	}

	fmt.Printf("[+++] Done: %s (%d frames)\n", *outputPtr, stats.Frames)

	if *statsPtr || cfg.ShowStats {
		fmt.Printf(
			"--- [PERFORMANCE REPORT] ---\n"+
				"Timeline: %.2fs\n"+
				"Frames: %d\n"+
				"Workers: %d\n"+
				"Total Time: %.2fs\n"+
				"Render FPS: %.2f\n"+
				"----------------------------\n",
			stats.DurationMs/1000, stats.Frames, stats.Workers,
			stats.Elapsed.Seconds(), stats.RenderFPS,
		)
	}
}

func newProject(cfg config.Config) *timeline.Project {
	return &timeline.Project{
		ID:   timeline.NewID(),
		Name: "untitled",
		Settings: timeline.Settings{
			FrameRate: cfg.FPS,
			Width:     cfg.Width,
			Height:    cfg.Height,
		},
	}
}

// consoleObserver prints coarse progress, roughly every 10%.
type consoleObserver struct {
	total int
	last  time.Time
	step  int
}

func (o *consoleObserver) OnStart(total int, s timeline.Settings) {
	o.total = total
	o.last = time.Now()
	fmt.Printf("[*] Rendering %d frames at %dx%d @ %.0f FPS\n", total, s.Width, s.Height, s.FrameRate)
}

func (o *consoleObserver) OnFrame(done, total int) {
	if total == 0 {
		return
	}
	pct := done * 100 / total
	if pct/10 > o.step || done == total {
		o.step = pct / 10
		fmt.Printf("[>] %3d%% (%d/%d)\n", pct, done, total)
	}
}

func (o *consoleObserver) OnDone(stats export.Stats) {
	fmt.Printf("[*] Rendered in %.2fs (%.1f fps)\n", stats.Elapsed.Seconds(), stats.RenderFPS)
}

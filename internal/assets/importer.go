// Package assets brings external media into a project: PDF pages and
// still images become image recordings with back-to-back clips, and
// generated assets (QR overlays) become synthetic recordings. Rendered
// pixels land in an asset directory; the project only stores paths.
package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"

	"github.com/ivlev/screencut/internal/logging"
	"github.com/ivlev/screencut/internal/timeline"
)

// DefaultPageDurationMs is how long an imported still stays on screen.
const DefaultPageDurationMs = 5000

// Importer writes rendered assets into Dir and registers recordings and
// clips through the editor.
type Importer struct {
	Dir            string
	DPI            int
	PageDurationMs float64

	ed  *timeline.Editor
	log zerolog.Logger
}

// NewImporter creates an importer storing rendered assets under dir.
func NewImporter(ed *timeline.Editor, dir string) *Importer {
	return &Importer{
		Dir:            dir,
		DPI:            150,
		PageDurationMs: DefaultPageDurationMs,
		ed:             ed,
		log:            logging.WithComponent("assets"),
	}
}

// ImportPDF renders every page of a PDF to PNG and appends one clip per
// page to the video track, back to back after the current content.
func (im *Importer) ImportPDF(path string) ([]*timeline.Clip, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer doc.Close()

	if err := os.MkdirAll(im.Dir, 0755); err != nil {
		return nil, err
	}

	base := filepath.Base(path)
	var clips []*timeline.Clip
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.ImageDPI(i, float64(im.DPI))
		if err != nil {
			return clips, fmt.Errorf("render page %d of %s: %w", i+1, base, err)
		}

		out := filepath.Join(im.Dir, fmt.Sprintf("%s_page_%03d.png", base, i+1))
		if err := writePNG(out, img); err != nil {
			return clips, err
		}

		clip, err := im.addStill(fmt.Sprintf("%s p.%d", base, i+1), out, img.Bounds())
		if err != nil {
			return clips, err
		}
		clips = append(clips, clip)
	}

	im.log.Info().Str("pdf", base).Int("pages", len(clips)).Msg("imported pdf")
	return clips, nil
}

// ImportImages appends clips for a single image file or every image in
// a directory, in name order.
func (im *Importer) ImportImages(path string) ([]*timeline.Clip, error) {
	paths, err := collectImagePaths(path)
	if err != nil {
		return nil, err
	}

	var clips []*timeline.Clip
	for _, p := range paths {
		bounds, err := imageBounds(p)
		if err != nil {
			return clips, err
		}
		clip, err := im.addStill(filepath.Base(p), p, bounds)
		if err != nil {
			return clips, err
		}
		clips = append(clips, clip)
	}

	im.log.Info().Str("path", path).Int("images", len(clips)).Msg("imported images")
	return clips, nil
}

// addStill registers an image recording and a full-length clip for it.
func (im *Importer) addStill(name, path string, bounds image.Rectangle) (*timeline.Clip, error) {
	rec := im.ed.AddRecording(&timeline.Recording{
		ID:       timeline.NewID(),
		Name:     name,
		Kind:     timeline.SourceImage,
		Path:     path,
		Duration: im.PageDurationMs,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	})
	clip := im.ed.AddRecordingClip(timeline.TrackVideo, rec.ID)
	if clip == nil {
		return nil, fmt.Errorf("place clip for %s", name)
	}
	return clip, nil
}

func collectImagePaths(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images in %s", path)
	}
	return paths, nil
}

func imageBounds(path string) (image.Rectangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Rectangle{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return image.Rect(0, 0, cfg.Width, cfg.Height), nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

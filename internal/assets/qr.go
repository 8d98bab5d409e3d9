package assets

import (
	"fmt"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/screencut/internal/timeline"
)

// AddQROverlay renders a QR code for content, registers it as a
// generated recording and places a clip for it on the webcam track so
// it overlays the main video without reflowing it.
func (im *Importer) AddQROverlay(content string, sizePx int, durationMs float64) (*timeline.Clip, error) {
	if sizePx <= 0 {
		sizePx = 256
	}
	if durationMs <= 0 {
		durationMs = DefaultPageDurationMs
	}

	id := timeline.NewID()
	path := filepath.Join(im.Dir, fmt.Sprintf("qr_%s.png", id[:8]))
	if err := qrcode.WriteFile(content, qrcode.Medium, sizePx, path); err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}

	rec := im.ed.AddRecording(&timeline.Recording{
		ID:       id,
		Name:     "qr overlay",
		Kind:     timeline.SourceGenerated,
		Path:     path,
		Duration: durationMs,
		Width:    sizePx,
		Height:   sizePx,
	})
	clip := im.ed.AddRecordingClip(timeline.TrackWebcam, rec.ID)
	if clip == nil {
		return nil, fmt.Errorf("place qr clip")
	}

	im.log.Debug().Str("path", path).Msg("added qr overlay")
	return clip, nil
}

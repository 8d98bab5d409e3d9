// Package document reads and writes project files. A document is the
// YAML form of a timeline.Project plus a format version; the composition
// engine itself never touches disk, so this package is the only place
// project files are parsed or produced.
package document

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/screencut/internal/timeline"
)

// Version is the current project file format version.
const Version = "1.0"

// Document wraps a project with its file format version.
type Document struct {
	Version string            `yaml:"version"`
	Project *timeline.Project `yaml:"project"`
}

// Read loads a project document from a YAML file.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", path, err)
	}
	if doc.Project == nil {
		return nil, fmt.Errorf("project %s has no project body", path)
	}
	if err := Validate(doc.Project); err != nil {
		return nil, fmt.Errorf("project %s: %w", path, err)
	}
	return &doc, nil
}

// Write saves a project document as YAML.
func Write(doc *Document, path string) error {
	if doc.Version == "" {
		doc.Version = Version
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the referential integrity a loaded project must have
// before the engine can operate on it: every clip points at a known
// recording and every clip-bound effect at a known clip.
func Validate(p *timeline.Project) error {
	recs := make(map[string]bool, len(p.Recordings))
	for _, r := range p.Recordings {
		if r.ID == "" {
			return fmt.Errorf("recording with empty id")
		}
		if recs[r.ID] {
			return fmt.Errorf("duplicate recording id %q", r.ID)
		}
		recs[r.ID] = true
	}

	clips := make(map[string]bool)
	for _, track := range p.Timeline.Tracks {
		for _, clip := range track.Clips {
			if clips[clip.ID] {
				return fmt.Errorf("duplicate clip id %q", clip.ID)
			}
			clips[clip.ID] = true
			if !recs[clip.RecordingID] {
				return fmt.Errorf("clip %q references unknown recording %q", clip.ID, clip.RecordingID)
			}
			if clip.Duration < 0 {
				return fmt.Errorf("clip %q has negative duration", clip.ID)
			}
		}
	}

	for _, eff := range p.Effects {
		if eff.EndTime < eff.StartTime {
			return fmt.Errorf("effect %q ends before it starts", eff.ID)
		}
		if eff.Crop != nil && eff.Crop.ClipID != "" && !clips[eff.Crop.ClipID] {
			return fmt.Errorf("crop effect %q references unknown clip %q", eff.ID, eff.Crop.ClipID)
		}
		if eff.Keystrokes != nil && eff.Keystrokes.ClipID != "" && !clips[eff.Keystrokes.ClipID] {
			return fmt.Errorf("keystroke effect %q references unknown clip %q", eff.ID, eff.Keystrokes.ClipID)
		}
	}
	return nil
}

package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/pipeline"
)

// WriteManifest encodes the scene's manifest as indented JSON and writes it
// to w.
func WriteManifest(w io.Writer, scene *pipeline.Scene) error {
	if scene == nil {
		return errors.New(errors.ErrCodeInternal, "no scene to export")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scene.Manifest()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportManifest writes the scene's manifest to a JSON file at path.
// This is a convenience wrapper around [WriteManifest] for file-based output.
func ExportManifest(scene *pipeline.Scene, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteManifest(f, scene)
}

// WritePNG writes encoded image data to path, creating parent directories.
// The file is written to a temporary name first so a failed write never
// leaves a truncated image behind.
func WritePNG(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no image data to write")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

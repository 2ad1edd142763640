package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/pipeline"
)

// ReadManifest decodes a manifest from r.
//
// ReadManifest returns an error if the JSON is malformed or if either seed
// is missing, since a manifest without seeds cannot be replayed.
func ReadManifest(r io.Reader) (pipeline.Manifest, error) {
	var m pipeline.Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return m, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode manifest")
	}
	if m.Seeds.Shape == 0 || m.Seeds.Color == 0 {
		return m, errors.New(errors.ErrCodeInvalidSeed, "manifest has no concrete seeds")
	}
	return m, nil
}

// ImportManifest reads a manifest from a JSON file at path.
func ImportManifest(path string) (pipeline.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pipeline.Manifest{}, errors.New(errors.ErrCodeFileNotFound, "manifest not found: %s", path)
		}
		return pipeline.Manifest{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadManifest(f)
}

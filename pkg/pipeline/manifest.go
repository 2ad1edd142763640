package pipeline

import (
	"github.com/matzehuels/serpentine/pkg/geom"
	"github.com/matzehuels/serpentine/pkg/palette"
	"github.com/matzehuels/serpentine/pkg/render"
	"github.com/matzehuels/serpentine/pkg/seed"
)

// Manifest describes a rendered scene well enough to reproduce it.
type Manifest struct {
	RunID      string              `json:"run_id"`
	File       string              `json:"file"`
	Preset     string              `json:"preset,omitempty"`
	Seeds      seed.Pair           `json:"seeds"`
	Dimensions [2]int              `json:"dimensions"`
	Streams    string              `json:"chain_streams"`
	Colors     []palette.ColorSpec `json:"colors"`
	Chains     []ChainManifest     `json:"chains"`
	Grain      string              `json:"grain,omitempty"`
	Footer     bool                `json:"footer"`
}

// ChainManifest is the per-chain part of a Manifest.
type ChainManifest struct {
	Name        string           `json:"name"`
	Color       string           `json:"color"`
	Blend       render.BlendMode `json:"blend"`
	StrokeWidth float64          `json:"stroke_width"`
	Stats       geom.Stats       `json:"stats"`
}

// Manifest returns the scene's manifest.
func (s *Scene) Manifest() Manifest {
	cfg := s.Config
	m := Manifest{
		RunID:      s.RunID,
		File:       s.FileName(),
		Preset:     cfg.Preset,
		Seeds:      s.Seeds,
		Dimensions: cfg.Dimensions,
		Streams:    string(cfg.ChainStreams),
		Colors:     append([]palette.ColorSpec(nil), s.Colors...),
		Chains:     make([]ChainManifest, len(s.Chains)),
		Footer:     cfg.PrintFooter,
	}
	if cfg.ShowGrain {
		m.Grain = cfg.GrainStyle.String()
	}
	layers := s.Display.Layers()
	for i := range s.Chains {
		m.Chains[i] = ChainManifest{
			Name:        layers[i].Name,
			Color:       layers[i].Color.Hex,
			Blend:       layers[i].Blend,
			StrokeWidth: layers[i].Thickness,
			Stats:       s.Stats[i],
		}
	}
	return m
}

package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/footer"
	"github.com/matzehuels/serpentine/pkg/grain"
	"github.com/matzehuels/serpentine/pkg/render"
	"github.com/matzehuels/serpentine/pkg/render/raster"
	"github.com/matzehuels/serpentine/pkg/rng"
)

// grainStream is the sub-stream index of the shape seed used for grain.
const grainStream = 0xFFFF

// PaintOptions supplies the optional collaborators of the paint phase.
type PaintOptions struct {
	// Footer draws the footer when the configuration enables it. A nil
	// stamp with the footer enabled is a setup error.
	Footer *footer.Stamp
	// Label is printed in front of the seeds in the footer.
	Label string
}

// Paint runs the paint phase: it replays the display list onto surface,
// then applies grain and the footer if the scene's configuration enables
// them. Disabled collaborators are never touched. A cancelled ctx aborts the
// chain replay.
func Paint(ctx context.Context, scene *Scene, surface *raster.Surface, opts PaintOptions) error {
	if scene == nil || surface == nil {
		return errors.New(errors.ErrCodeInternal, "paint: nil scene or surface")
	}
	cfg := scene.Config

	if err := render.Paint(ctx, scene.Display, surface); err != nil {
		return fmt.Errorf("paint chains: %w", err)
	}

	if cfg.ShowGrain {
		r := rand.New(rng.New(scene.Seeds.Shape).Derive(grainStream))
		if err := grain.Apply(surface.Pixmap(), r, cfg.GrainOptions()); err != nil {
			return fmt.Errorf("grain: %w", err)
		}
	}

	if cfg.PrintFooter {
		if opts.Footer == nil {
			return errors.New(errors.ErrCodeSetup, "footer enabled but no font loaded")
		}
		if err := opts.Footer.Draw(surface.Context(), footerInfo(scene, opts.Label)); err != nil {
			return fmt.Errorf("footer: %w", err)
		}
	}
	return nil
}

// footerInfo collects the seeds and the resolved settings the footer prints.
func footerInfo(scene *Scene, label string) footer.Info {
	cfg := scene.Config
	info := footer.Info{
		Seeds:  scene.Seeds,
		Width:  cfg.Width(),
		Height: cfg.Height(),
		Label:  label,
		Colors: scene.Colors,
		Chains: make([]footer.ChainInfo, len(scene.Chains)),
	}
	for i, ch := range scene.Chains {
		info.Chains[i] = footer.ChainInfo{Segments: len(ch), Blend: cfg.Chains[i].Blend.String()}
	}
	if cfg.ShowGrain {
		info.Grain = cfg.GrainStyle.String()
	}
	return info
}

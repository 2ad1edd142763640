package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/serpentine/pkg/pipeline"
)

// seedCommand creates the command that resolves seeds and previews the
// generated scene without painting it.
func (c *CLI) seedCommand() *cobra.Command {
	var (
		opts   renderOpts
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Resolve seeds and preview palette and chain statistics",
		Long: `Resolve seeds and preview palette and chain statistics.

Runs the generate phase only: nothing is painted and nothing is cached. Use
it to explore seeds quickly before rendering.`,
		Example: `  serpentine seed
  serpentine seed -s blue-moon -c 7 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.build(cmd.Flags())
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			runner := pipeline.NewRunner(nil, nil, logger)
			scene, err := runner.Generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(scene.Manifest())
			}
			printScene(scene)
			return nil
		},
	}

	addSourceFlags(cmd.Flags(), &opts.sourceOpts)
	addOverrideFlags(cmd.Flags(), &opts)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the manifest as JSON")
	return cmd
}

func printScene(scene *pipeline.Scene) {
	printKeyValue("shape seed", StyleNumber.Render(scene.Seeds.Shape.String()))
	printKeyValue("color seed", StyleNumber.Render(scene.Seeds.Color.String()))
	printKeyValue("file", scene.FileName())
	printNewline()

	printInfo("Palette")
	printSwatches(scene.Config.Roles(), scene.Colors)
	printNewline()

	printInfo("Chains")
	for i, st := range scene.Stats {
		name := scene.Config.Roles()[i+1].Name
		printKeyValue(name, fmt.Sprintf("%d arcs, radius %.1f ± %.1f (median %.0f), length %.0f px",
			st.Segments, st.MeanRadius, st.StdDevRadius, st.MedianRadius, st.PathLength))
		b := st.Bounds
		if b.Min.X < 0 || b.Min.Y < 0 || b.Max.X > float64(scene.Config.Width()) || b.Max.Y > float64(scene.Config.Height()) {
			printDetail("extends past the canvas edge")
		}
	}
}

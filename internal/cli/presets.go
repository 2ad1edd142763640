package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/serpentine/pkg/config"
)

// presetsCommand creates the command listing the built-in presets.
func (c *CLI) presetsCommand() *cobra.Command {
	var showTOML bool

	cmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "List built-in presets",
		Long: `List built-in presets, or print one as TOML.

The TOML output is a complete config file that can be edited and passed to
render --config.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return config.PresetNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg, err := config.Preset(args[0])
				if err != nil {
					return err
				}
				if showTOML {
					data, err := config.Encode(cfg)
					if err != nil {
						return err
					}
					fmt.Print(string(data))
					return nil
				}
				printPreset(args[0], cfg)
				return nil
			}

			for _, name := range config.PresetNames() {
				cfg, _ := config.Preset(name)
				printPreset(name, cfg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTOML, "toml", false, "print the preset as a TOML config file")
	return cmd
}

func printPreset(name string, cfg config.RenderConfig) {
	def := ""
	if name == config.DefaultPreset {
		def = StyleDim.Render(" (default)")
	}
	fmt.Println(StyleTitle.Render(name) + def)
	printDetail("%s", config.Describe(name))
	printDetail("%dx%d, %d chains, grain %v, footer %v",
		cfg.Width(), cfg.Height(), len(cfg.Chains), cfg.ShowGrain, cfg.PrintFooter)
	names := make([]string, len(cfg.Chains))
	for i, ch := range cfg.Chains {
		names[i] = fmt.Sprintf("%s: base %g, ×%g, %s", ch.Name, ch.BaseRadius, ch.Thickness, ch.Blend)
	}
	printList(names)
}

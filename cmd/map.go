package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/campus-nav/internal/mapexport"
	"github.com/xkilldash9x/campus-nav/internal/observability"
)

// newMapCmd creates the `map` command exporting the campus as SVG.
func newMapCmd() *cobra.Command {
	var (
		output string
		from   string
		to     string
	)

	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "Exports the campus map as an SVG file, optionally highlighting a route",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			services, err := buildNavServices(cfg, logger)
			if err != nil {
				return err
			}

			var highlight []string
			if from != "" && to != "" {
				result := services.calculator.FindRoute(from, to)
				if result == nil {
					return fmt.Errorf("unknown location: check %q and %q", from, to)
				}
				if !result.Success {
					return fmt.Errorf("no route exists between %s and %s", from, to)
				}
				highlight = result.Path
			}

			renderer := mapexport.NewRenderer(services.graph, logger)
			if err := renderer.WriteFile(output, highlight); err != nil {
				return err
			}
			fmt.Printf("Map written to %s\n", output)
			return nil
		},
	}

	mapCmd.Flags().StringVarP(&output, "output", "o", "campus-map.svg", "output SVG file")
	mapCmd.Flags().StringVar(&from, "from", "", "highlight the route from this location")
	mapCmd.Flags().StringVar(&to, "to", "", "highlight the route to this location")
	return mapCmd
}

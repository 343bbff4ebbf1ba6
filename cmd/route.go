package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/campus-nav/internal/observability"
)

// newRouteCmd creates the `route` command for building-level shortest paths.
func newRouteCmd() *cobra.Command {
	routeCmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Finds the shortest building-level route between two campus locations",
		Args:  cobra.ExactArgs(2),
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

			from, to := args[0], args[1]
			result := services.calculator.FindRoute(from, to)
			if result == nil {
				return fmt.Errorf("unknown location: check %q and %q against `campus-nav rooms --buildings`", from, to)
			}
			if !result.Success {
				fmt.Printf("No route exists between %s and %s.\n", from, to)
				return nil
			}

			fmt.Printf("Route: %s\n", strings.Join(result.Path, " → "))
			fmt.Printf("Distance: %d hop(s)\n", result.Distance)
			return nil
		},
	}
	return routeCmd
}

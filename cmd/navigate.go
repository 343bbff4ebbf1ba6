package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/campus-nav/internal/observability"
)

// newNavigateCmd creates the `navigate` command for room-to-room directions.
func newNavigateCmd() *cobra.Command {
	navigateCmd := &cobra.Command{
		Use:   "navigate <from-room> <to-room>",
		Short: "Prints step-by-step directions between two rooms or locations",
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

			route := services.navigator.CalculateRoomRoute(args[0], args[1])
			if route == nil {
				return fmt.Errorf("could not resolve %q or %q to a room or location", args[0], args[1])
			}

			fmt.Printf("From %s (%s) to %s (%s):\n\n",
				route.Start.RoomNumber, route.Start.Building,
				route.End.RoomNumber, route.End.Building)
			for i, step := range route.Steps {
				fmt.Printf("  %2d. %s\n", i+1, step.Description)
			}
			fmt.Printf("\n%d steps, estimated time %s\n", route.TotalSteps, route.EstimatedTime)
			return nil
		},
	}
	return navigateCmd
}

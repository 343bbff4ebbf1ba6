package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/campus-nav/api/schemas"
	"github.com/xkilldash9x/campus-nav/internal/labels"
	"github.com/xkilldash9x/campus-nav/internal/observability"
	"github.com/xkilldash9x/campus-nav/internal/search"
)

// newSearchCmd creates the `search` command over buildings, rooms and labels.
func newSearchCmd() *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Searches buildings, rooms and room labels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			logger := observability.GetLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			services, err := buildNavServices(cfg, logger)
			if err != nil {
				return err
			}

			labelStore := labels.NewFileStore(cfg.Storage.LabelsPath(), logger)
			labelManager, err := labels.NewManager(ctx, labelStore, logger)
			if err != nil {
				return err
			}

			svc := search.NewService(services.graph, services.directory, labelManager, logger)
			results := svc.Search(strings.Join(args, " "))
			if len(results) == 0 {
				fmt.Println("No matches.")
				return nil
			}

			for _, result := range results {
				switch result.Type {
				case schemas.ResultBuilding:
					fmt.Printf("building  %s\n", result.Name)
				default:
					line := fmt.Sprintf("room      %s (floor %d, %s)", result.RoomNumber, result.Floor, result.Building)
					if result.MatchedLabel != "" {
						line += fmt.Sprintf("  [label: %s]", result.MatchedLabel)
					}
					fmt.Println(line)
				}
			}
			fmt.Printf("\n%d result(s)\n", len(results))
			return nil
		},
	}
	return searchCmd
}

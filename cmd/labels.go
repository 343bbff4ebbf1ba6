package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
	"github.com/xkilldash9x/campus-nav/internal/config"
	"github.com/xkilldash9x/campus-nav/internal/labels"
	"github.com/xkilldash9x/campus-nav/internal/observability"
)

func buildLabelManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*labels.Manager, error) {
	store := labels.NewFileStore(cfg.Storage.LabelsPath(), logger)
	return labels.NewManager(ctx, store, logger)
}

// newLabelsCmd creates the `labels` command group.
func newLabelsCmd() *cobra.Command {
	labelsCmd := &cobra.Command{
		Use:   "labels",
		Short: "Manages free-text room labels",
	}

	labelsCmd.AddCommand(
		newLabelsListCmd(),
		newLabelsAddCmd(),
		newLabelsRemoveCmd(),
	)
	return labelsCmd
}

// parseRoomRef parses "Building/Floor/Room" (e.g. "Block A/1/A-101").
func parseRoomRef(arg string) (schemas.RoomRef, error) {
	parts := strings.Split(arg, "/")
	if len(parts) != 3 {
		return schemas.RoomRef{}, fmt.Errorf("room must be given as Building/Floor/Room (e.g. \"Block A/1/A-101\")")
	}
	floor, err := strconv.Atoi(parts[1])
	if err != nil {
		return schemas.RoomRef{}, fmt.Errorf("invalid floor %q", parts[1])
	}
	return schemas.RoomRef{Building: parts[0], Floor: floor, Room: parts[2]}, nil
}

func newLabelsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists every labeled room",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildLabelManager(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			records := manager.AllLabeledRooms()
			if len(records) == 0 {
				fmt.Println("No labeled rooms.")
				return nil
			}
			for _, record := range records {
				fmt.Printf("%-30s %s\n", record.Room, strings.Join(record.Labels, ", "))
			}
			return nil
		},
	}
}

func newLabelsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <Building/Floor/Room> <label>",
		Short: "Adds a label to a room",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildLabelManager(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			room, err := parseRoomRef(args[0])
			if err != nil {
				return err
			}
			if err := manager.AddLabel(cmd.Context(), room, args[1]); err != nil {
				return err
			}
			fmt.Printf("Labeled %s: %s\n", room, strings.Join(manager.Labels(room), ", "))
			return nil
		},
	}
}

func newLabelsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <Building/Floor/Room> <label>",
		Short: "Removes a label from a room",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildLabelManager(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			room, err := parseRoomRef(args[0])
			if err != nil {
				return err
			}
			if err := manager.RemoveLabel(cmd.Context(), room, args[1]); err != nil {
				return err
			}
			remaining := manager.Labels(room)
			if len(remaining) == 0 {
				fmt.Printf("Removed; %s has no labels left.\n", room)
			} else {
				fmt.Printf("Removed; %s: %s\n", room, strings.Join(remaining, ", "))
			}
			return nil
		},
	}
}

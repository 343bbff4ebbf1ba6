package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/campus-nav/internal/campus"
	"github.com/xkilldash9x/campus-nav/internal/observability"
)

// newRoomsCmd creates the `rooms` command listing the directory.
func newRoomsCmd() *cobra.Command {
	var (
		block         string
		floor         int
		listBuildings bool
	)

	roomsCmd := &cobra.Command{
		Use:   "rooms",
		Short: "Lists rooms, optionally filtered by block and floor",
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

			if listBuildings {
				for _, name := range services.graph.Buildings() {
					info := services.graph.BuildingInfo(name)
					fmt.Printf("%-22s %s\n", name, info.Type)
				}
				return nil
			}

			rooms := services.directory.AllRooms()
			switch {
			case block != "" && cmd.Flags().Changed("floor"):
				rooms = services.directory.RoomsByFloor(block, floor)
			case block != "":
				rooms = services.directory.RoomsByBlock(block)
			}

			if len(rooms) == 0 {
				fmt.Println("No rooms found.")
				return nil
			}
			for _, room := range rooms {
				fmt.Printf("%-20s %-14s %s\n", room.RoomNumber, room.Block, campus.FloorName(room.Floor))
			}
			fmt.Printf("\n%d room(s)\n", len(rooms))
			return nil
		},
	}

	roomsCmd.Flags().StringVar(&block, "block", "", "filter by block name (e.g. \"Block A\")")
	roomsCmd.Flags().IntVar(&floor, "floor", 0, "filter by floor (requires --block)")
	roomsCmd.Flags().BoolVar(&listBuildings, "buildings", false, "list campus buildings instead of rooms")
	return roomsCmd
}

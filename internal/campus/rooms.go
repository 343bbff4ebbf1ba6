package campus

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

// BlockSpec declares how many floors and rooms per floor a block has. Floors
// counts the levels above ground; rooms exist on floors 0..Floors.
type BlockSpec struct {
	Name          string
	Floors        int
	RoomsPerFloor int
}

// DefaultBlockSpecs matches the built-in campus dataset.
func DefaultBlockSpecs() []BlockSpec {
	return []BlockSpec{
		{Name: "Block P", Floors: 4, RoomsPerFloor: 10},
		{Name: "Block D", Floors: 5, RoomsPerFloor: 10},
		{Name: "Block E", Floors: 5, RoomsPerFloor: 40},
		{Name: "Block A", Floors: 4, RoomsPerFloor: 10},
		{Name: "Block B", Floors: 4, RoomsPerFloor: 10},
		{Name: "Block C", Floors: 3, RoomsPerFloor: 10},
		{Name: "PEB Block", Floors: 0, RoomsPerFloor: 10},
	}
}

// DefaultSpecialLocations are the outdoor/standalone locations modeled as
// single pseudo-rooms.
func DefaultSpecialLocations() []schemas.Room {
	return []schemas.Room{
		{RoomNumber: "Annapurna Canteen", Floor: 0, Block: schemas.BlockCanteen, Description: "Annapurna Canteen"},
		{RoomNumber: "Coca-Cola Canteen", Floor: 0, Block: schemas.BlockCanteen, Description: "Coca-Cola Canteen"},
		{RoomNumber: "JSK Greens", Floor: 0, Block: schemas.BlockRecreational, Description: "JSK Greens - Central green space"},
		{RoomNumber: "Ground", Floor: 0, Block: schemas.BlockRecreational, Description: "Ground"},
		{RoomNumber: "SAC Stage", Floor: 0, Block: schemas.BlockRecreational, Description: "SAC Stage"},
		{RoomNumber: "Scinti Stage", Floor: 0, Block: schemas.BlockRecreational, Description: "Scinti Stage"},
	}
}

// Directory is the static room enumeration: all generated block rooms plus
// special locations, in a fixed directory order. Built once, never mutated.
type Directory struct {
	rooms    []schemas.Room
	byBlock  map[string][]schemas.Room
	specials map[string]bool
	log      *zap.Logger
}

// NewDirectory generates rooms for the given block specs and appends the
// special locations.
func NewDirectory(specs []BlockSpec, specials []schemas.Room, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Directory{
		byBlock:  make(map[string][]schemas.Room, len(specs)),
		specials: make(map[string]bool, len(specials)),
		log:      logger.Named("room_directory"),
	}

	for _, spec := range specs {
		rooms := generateRooms(spec)
		d.byBlock[spec.Name] = rooms
		d.rooms = append(d.rooms, rooms...)
	}
	for _, room := range specials {
		d.rooms = append(d.rooms, room)
		d.specials[room.RoomNumber] = true
	}

	d.log.Debug("Room directory generated", zap.Int("rooms", len(d.rooms)))
	return d
}

// NewDefaultDirectory builds the directory for the built-in campus.
func NewDefaultDirectory(logger *zap.Logger) *Directory {
	return NewDirectory(DefaultBlockSpecs(), DefaultSpecialLocations(), logger)
}

// generateRooms produces every room of one block deterministically. Room
// numbers follow "<BlockLetter>-<Floor><NN>", e.g. floor 2 room 3 of Block E
// is E-203.
func generateRooms(spec BlockSpec) []schemas.Room {
	letter := blockLetter(spec.Name)

	rooms := make([]schemas.Room, 0, (spec.Floors+1)*spec.RoomsPerFloor)
	for floor := 0; floor <= spec.Floors; floor++ {
		for seq := 1; seq <= spec.RoomsPerFloor; seq++ {
			number := fmt.Sprintf("%s-%d%02d", letter, floor, seq)
			rooms = append(rooms, schemas.Room{
				RoomNumber:  number,
				Floor:       floor,
				Block:       spec.Name,
				Description: fmt.Sprintf("Room %s - %s %s", number, spec.Name, FloorName(floor)),
			})
		}
	}
	return rooms
}

// blockLetter extracts the room-number prefix from a block name: "Block P"
// yields "P", "PEB Block" yields "PEB".
func blockLetter(name string) string {
	parts := strings.Fields(name)
	for _, part := range parts {
		if !strings.EqualFold(part, "Block") {
			return part
		}
	}
	return parts[len(parts)-1]
}

// FloorName renders a floor for human-readable descriptions.
func FloorName(floor int) string {
	if floor == 0 {
		return "Ground Floor"
	}
	return fmt.Sprintf("Floor %d", floor)
}

// AllRooms returns every room in directory order: generated block rooms
// first, then special locations.
func (d *Directory) AllRooms() []schemas.Room {
	return d.rooms
}

// IsSpecialLocation reports whether the given name is a special
// pseudo-room (canteen, ground, stage).
func (d *Directory) IsSpecialLocation(name string) bool {
	return d.specials[name]
}

// SearchRooms matches the query case-insensitively against room numbers and
// descriptions. An empty query returns an empty result, not all rooms.
func (d *Directory) SearchRooms(query string) []schemas.Room {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	lower := strings.ToLower(query)
	var matches []schemas.Room
	for _, room := range d.rooms {
		if strings.Contains(strings.ToLower(room.RoomNumber), lower) ||
			strings.Contains(strings.ToLower(room.Description), lower) {
			matches = append(matches, room)
		}
	}
	return matches
}

// RoomsByBlock returns all rooms of one block; unknown blocks yield nil.
func (d *Directory) RoomsByBlock(blockName string) []schemas.Room {
	return d.byBlock[blockName]
}

// RoomsByFloor filters one block's rooms down to a single floor.
func (d *Directory) RoomsByFloor(blockName string, floor int) []schemas.Room {
	var rooms []schemas.Room
	for _, room := range d.byBlock[blockName] {
		if room.Floor == floor {
			rooms = append(rooms, room)
		}
	}
	return rooms
}

// AllRoomNumbers lists every room number sorted by block letter, then by
// numeric room number. Special locations sort by their full name.
func (d *Directory) AllRoomNumbers() []string {
	numbers := make([]string, len(d.rooms))
	for i, room := range d.rooms {
		numbers[i] = room.RoomNumber
	}

	sort.Slice(numbers, func(i, j int) bool {
		blockI, numI, okI := splitRoomNumber(numbers[i])
		blockJ, numJ, okJ := splitRoomNumber(numbers[j])
		if !okI || !okJ {
			return numbers[i] < numbers[j]
		}
		if blockI != blockJ {
			return blockI < blockJ
		}
		return numI < numJ
	})
	return numbers
}

// splitRoomNumber parses "<Block>-<Num>"; ok is false for special locations.
func splitRoomNumber(number string) (string, int, bool) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(number[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return number[:idx], n, true
}

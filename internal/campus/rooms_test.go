package campus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	return NewDefaultDirectory(zap.NewNop())
}

func TestDirectoryGeneration(t *testing.T) {
	dir := newTestDirectory(t)

	t.Run("room counts per block", func(t *testing.T) {
		assert.Len(t, dir.RoomsByBlock("Block P"), 50)
		assert.Len(t, dir.RoomsByBlock("Block D"), 60)
		assert.Len(t, dir.RoomsByBlock("Block E"), 240)
		assert.Len(t, dir.RoomsByBlock("Block A"), 50)
		assert.Len(t, dir.RoomsByBlock("Block B"), 50)
		assert.Len(t, dir.RoomsByBlock("Block C"), 40)
		assert.Len(t, dir.RoomsByBlock("PEB Block"), 10)

		// 500 generated rooms plus 6 special locations.
		assert.Len(t, dir.AllRooms(), 506)
	})

	t.Run("room numbers encode floor and sequence", func(t *testing.T) {
		rooms := dir.RoomsByFloor("Block E", 2)
		require.Len(t, rooms, 40)
		assert.Equal(t, "E-201", rooms[0].RoomNumber)
		assert.Equal(t, "E-240", rooms[39].RoomNumber)
		assert.Equal(t, 2, rooms[0].Floor)
		assert.Equal(t, "Block E", rooms[0].Block)
	})

	t.Run("PEB rooms use the PEB prefix", func(t *testing.T) {
		rooms := dir.RoomsByBlock("PEB Block")
		require.NotEmpty(t, rooms)
		assert.Equal(t, "PEB-001", rooms[0].RoomNumber)
		assert.Equal(t, "PEB Block", rooms[0].Block)
	})

	t.Run("unknown block yields nil", func(t *testing.T) {
		assert.Nil(t, dir.RoomsByBlock("Block Z"))
	})
}

func TestSpecialLocations(t *testing.T) {
	dir := newTestDirectory(t)

	assert.True(t, dir.IsSpecialLocation("JSK Greens"))
	assert.True(t, dir.IsSpecialLocation("Coca-Cola Canteen"))
	assert.False(t, dir.IsSpecialLocation("E-203"))
	assert.False(t, dir.IsSpecialLocation("Block E"))

	for _, room := range DefaultSpecialLocations() {
		assert.Equal(t, 0, room.Floor)
		assert.Contains(t, []string{schemas.BlockCanteen, schemas.BlockRecreational}, room.Block)
	}
}

func TestSearchRooms(t *testing.T) {
	dir := newTestDirectory(t)

	t.Run("empty query returns nothing", func(t *testing.T) {
		assert.Nil(t, dir.SearchRooms("   "))
	})

	t.Run("matches room numbers case-insensitively", func(t *testing.T) {
		results := dir.SearchRooms("e-203")
		require.Len(t, results, 1)
		assert.Equal(t, "E-203", results[0].RoomNumber)
	})

	t.Run("matches descriptions", func(t *testing.T) {
		results := dir.SearchRooms("Central green")
		require.Len(t, results, 1)
		assert.Equal(t, "JSK Greens", results[0].RoomNumber)
	})
}

func TestFloorName(t *testing.T) {
	assert.Equal(t, "Ground Floor", FloorName(0))
	assert.Equal(t, "Floor 1", FloorName(1))
	assert.Equal(t, "Floor 4", FloorName(4))
}

func TestAllRoomNumbersOrdering(t *testing.T) {
	dir := newTestDirectory(t)

	numbers := dir.AllRoomNumbers()
	require.Len(t, numbers, 506)

	// Numeric ordering within a block: A-101 precedes A-102 precedes A-201.
	idx := make(map[string]int, len(numbers))
	for i, n := range numbers {
		idx[n] = i
	}
	assert.Less(t, idx["A-101"], idx["A-102"])
	assert.Less(t, idx["A-102"], idx["A-201"])
	assert.Less(t, idx["A-401"], idx["B-001"])
}

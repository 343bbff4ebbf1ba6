package tags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSearch(t *testing.T) (*Manager, *SearchService) {
	t.Helper()
	manager := newTestManager(t)
	return manager, NewSearchService(manager, zap.NewNop())
}

func TestSearchByTag(t *testing.T) {
	ctx := context.Background()
	manager, svc := newTestSearch(t)

	wifiRoom := testRoom("A-201")
	labRoom := testRoom("A-202")
	require.NoError(t, manager.ApplyTagToRoom(ctx, wifiRoom, "tag-wifi"))
	require.NoError(t, manager.ApplyTagToRoom(ctx, labRoom, "tag-lab"))

	t.Run("empty query matches nothing", func(t *testing.T) {
		assert.Empty(t, svc.SearchByTag("  "))
	})

	t.Run("exact match outranks substring match", func(t *testing.T) {
		custom, err := manager.CreateTag(ctx, "Lab", "cat-amenities", "")
		require.NoError(t, err)
		exactRoom := testRoom("A-203")
		require.NoError(t, manager.ApplyTagToRoom(ctx, exactRoom, custom.ID))

		results := svc.SearchByTag("lab")
		require.Len(t, results, 2)
		// "Lab" matches exactly (100), "Laboratory" only as a prefix (50+5 system).
		assert.Equal(t, exactRoom.Room, results[0].RoomNumber)
		assert.Equal(t, labRoom.Room, results[1].RoomNumber)
		assert.Greater(t, results[0].Relevance, results[1].Relevance)
	})

	t.Run("matched tags are reported", func(t *testing.T) {
		results := svc.SearchByTag("wifi")
		require.Len(t, results, 1)
		assert.Equal(t, wifiRoom.Room, results[0].RoomNumber)
		require.Len(t, results[0].MatchedTags, 1)
		assert.Equal(t, "tag-wifi", results[0].MatchedTags[0].ID)
	})

	t.Run("unmatched query yields nothing", func(t *testing.T) {
		assert.Empty(t, svc.SearchByTag("zzzz"))
	})
}

func TestSearchByMultipleTags(t *testing.T) {
	ctx := context.Background()
	manager, svc := newTestSearch(t)

	both := testRoom("A-210")
	onlyWifi := testRoom("A-211")
	require.NoError(t, manager.ApplyTagToRoom(ctx, both, "tag-wifi"))
	require.NoError(t, manager.ApplyTagToRoom(ctx, both, "tag-ac"))
	require.NoError(t, manager.ApplyTagToRoom(ctx, onlyWifi, "tag-wifi"))

	results := svc.SearchByMultipleTags([]string{"tag-wifi", "tag-ac"})
	require.Len(t, results, 1, "conjunctive search requires every tag")
	assert.Equal(t, both.Room, results[0].RoomNumber)
	assert.Len(t, results[0].MatchedTags, 2)

	assert.Empty(t, svc.SearchByMultipleTags(nil))
}

func TestRoomsByTagFilter(t *testing.T) {
	ctx := context.Background()
	manager, svc := newTestSearch(t)

	wifi := testRoom("A-220")
	ac := testRoom("A-221")
	require.NoError(t, manager.ApplyTagToRoom(ctx, wifi, "tag-wifi"))
	require.NoError(t, manager.ApplyTagToRoom(ctx, ac, "tag-ac"))

	t.Run("empty filter returns every tagged room", func(t *testing.T) {
		assert.Len(t, svc.RoomsByTagFilter(nil, false), 2)
		assert.Len(t, svc.AllTaggedRooms(), 2)
	})

	t.Run("OR filter matches any tag", func(t *testing.T) {
		rooms := svc.RoomsByTagFilter([]string{"tag-wifi", "tag-ac"}, false)
		assert.Len(t, rooms, 2)
	})

	t.Run("AND filter requires all tags", func(t *testing.T) {
		rooms := svc.RoomsByTagFilter([]string{"tag-wifi", "tag-ac"}, true)
		assert.Empty(t, rooms)

		rooms = svc.RoomsByTagFilter([]string{"tag-wifi"}, true)
		require.Len(t, rooms, 1)
		assert.Equal(t, wifi, rooms[0])
	})
}

func TestSearchTagsByName(t *testing.T) {
	_, svc := newTestSearch(t)

	results := svc.SearchTags("club")
	assert.Len(t, results, 5, "every seeded activity tag is a club")
	assert.Empty(t, svc.SearchTags(""))
}

package labels

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "labels.json"), zap.NewNop())
	m, err := NewManager(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	return m
}

func labelRoom(number string) schemas.RoomRef {
	return schemas.RoomRef{Building: "Block A", Floor: 1, Room: number}
}

func TestAddLabel(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	room := labelRoom("A-101")

	t.Run("adds and trims", func(t *testing.T) {
		require.NoError(t, m.AddLabel(ctx, room, "  my locker  "))
		assert.Equal(t, []string{"my locker"}, m.Labels(room))
	})

	t.Run("rejects empty", func(t *testing.T) {
		err := m.AddLabel(ctx, room, "   ")
		var verr *schemas.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("rejects over-length", func(t *testing.T) {
		err := m.AddLabel(ctx, room, strings.Repeat("x", schemas.MaxLabelLength+1))
		var verr *schemas.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("repeated add is a silent no-op", func(t *testing.T) {
		require.NoError(t, m.AddLabel(ctx, room, "MY LOCKER"))
		assert.Equal(t, []string{"my locker"}, m.Labels(room),
			"a duplicate keeps the original casing and adds nothing")
	})

	t.Run("multiple labels accumulate", func(t *testing.T) {
		require.NoError(t, m.AddLabel(ctx, room, "study spot"))
		assert.Len(t, m.Labels(room), 2)
	})
}

func TestRemoveLabel(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	room := labelRoom("A-102")

	require.NoError(t, m.AddLabel(ctx, room, "locker"))
	require.NoError(t, m.AddLabel(ctx, room, "quiet"))

	t.Run("removal is case-insensitive", func(t *testing.T) {
		require.NoError(t, m.RemoveLabel(ctx, room, "LOCKER"))
		assert.Equal(t, []string{"quiet"}, m.Labels(room))
	})

	t.Run("record disappears with its last label", func(t *testing.T) {
		require.NoError(t, m.RemoveLabel(ctx, room, "quiet"))
		assert.Nil(t, m.Labels(room))
		assert.Empty(t, m.AllLabeledRooms())
	})

	t.Run("removing from an unlabeled room is a no-op", func(t *testing.T) {
		require.NoError(t, m.RemoveLabel(ctx, labelRoom("A-999"), "ghost"))
	})
}

func TestSearchByLabel(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	require.NoError(t, m.AddLabel(ctx, labelRoom("A-101"), "chemistry locker"))
	require.NoError(t, m.AddLabel(ctx, labelRoom("A-103"), "Locker Room"))
	require.NoError(t, m.AddLabel(ctx, labelRoom("A-102"), "study"))

	t.Run("substring match sorted by room", func(t *testing.T) {
		results := m.SearchByLabel("locker")
		require.Len(t, results, 2)
		assert.Equal(t, "A-101", results[0].Room.Room)
		assert.Equal(t, "A-103", results[1].Room.Room)
	})

	t.Run("empty query matches nothing", func(t *testing.T) {
		assert.Nil(t, m.SearchByLabel("  "))
	})
}

func TestLabelPersistenceAcrossRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "labels.json")
	store := NewFileStore(path, zap.NewNop())

	first, err := NewManager(ctx, store, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.AddLabel(ctx, labelRoom("A-101"), "locker"))

	second, err := NewManager(ctx, NewFileStore(path, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"locker"}, second.Labels(labelRoom("A-101")))
}

func TestImportLabels(t *testing.T) {
	ctx := context.Background()

	t.Run("import replaces the whole store", func(t *testing.T) {
		m := newTestManager(t)
		require.NoError(t, m.AddLabel(ctx, labelRoom("A-105"), "projector cart"))

		exported, err := m.ExportLabels()
		require.NoError(t, err)

		other := newTestManager(t)
		require.NoError(t, other.AddLabel(ctx, labelRoom("A-101"), "locker"))
		require.NoError(t, other.ImportLabels(ctx, exported))

		assert.Equal(t, []string{"projector cart"}, other.Labels(labelRoom("A-105")))
		assert.Nil(t, other.Labels(labelRoom("A-101")),
			"records absent from the payload do not survive an import")
		assert.Len(t, other.AllLabeledRooms(), 1)
	})

	t.Run("round trip restores an empty store", func(t *testing.T) {
		m := newTestManager(t)
		exported, err := m.ExportLabels()
		require.NoError(t, err)

		other := newTestManager(t)
		require.NoError(t, other.AddLabel(ctx, labelRoom("A-101"), "locker"))
		require.NoError(t, other.ImportLabels(ctx, exported))
		assert.Empty(t, other.AllLabeledRooms())
	})

	t.Run("malformed payload is rejected without changes", func(t *testing.T) {
		m := newTestManager(t)
		require.NoError(t, m.AddLabel(ctx, labelRoom("A-101"), "locker"))

		var verr *schemas.ValidationError
		require.ErrorAs(t, m.ImportLabels(ctx, []byte("{not json")), &verr)
		require.ErrorAs(t, m.ImportLabels(ctx, []byte(`{"rooms":[{"room":{"building":"","floor":0,"room":""},"labels":["x"]}],"version":1}`)), &verr)
		assert.Equal(t, []string{"locker"}, m.Labels(labelRoom("A-101")))
	})
}

func TestClearAllLabels(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	require.NoError(t, m.AddLabel(ctx, labelRoom("A-101"), "locker"))
	require.NoError(t, m.ClearAll(ctx))
	assert.Empty(t, m.AllLabeledRooms())
	assert.Nil(t, m.Labels(labelRoom("A-101")))
}

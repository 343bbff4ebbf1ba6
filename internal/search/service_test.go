package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
	"github.com/xkilldash9x/campus-nav/internal/campus"
	"github.com/xkilldash9x/campus-nav/internal/labels"
)

func newTestService(t *testing.T) (*Service, *labels.Manager) {
	t.Helper()

	graph := campus.NewGraph(campus.DefaultGraphData(), zap.NewNop())
	directory := campus.NewDefaultDirectory(zap.NewNop())
	store := labels.NewFileStore(filepath.Join(t.TempDir(), "labels.json"), zap.NewNop())
	manager, err := labels.NewManager(context.Background(), store, zap.NewNop())
	require.NoError(t, err)

	return NewService(graph, directory, manager, zap.NewNop()), manager
}

func TestSearchEmptyQuery(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Nil(t, svc.Search("   "))
}

func TestSearchBuildingsFirst(t *testing.T) {
	svc, _ := newTestService(t)

	results := svc.Search("Block E")
	require.NotEmpty(t, results)
	assert.Equal(t, schemas.ResultBuilding, results[0].Type)
	assert.Equal(t, "Block E", results[0].Name)

	// The 240 Block E rooms follow the building hit.
	roomCount := 0
	for _, r := range results[1:] {
		if r.Type == schemas.ResultRoom {
			roomCount++
		}
	}
	assert.Equal(t, 240, roomCount)
}

func TestSearchRoomCarriesLabels(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	ref := schemas.RoomRef{Building: "Block E", Floor: 2, Room: "E-203"}
	require.NoError(t, manager.AddLabel(ctx, ref, "robotics lab"))

	results := svc.Search("E-203")
	require.Len(t, results, 1)
	assert.Equal(t, schemas.ResultRoom, results[0].Type)
	assert.Equal(t, "Block E", results[0].Building)
	assert.Equal(t, []string{"robotics lab"}, results[0].Labels)
	assert.Empty(t, results[0].MatchedLabel)
}

func TestSearchByLabelOnly(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	ref := schemas.RoomRef{Building: "Block A", Floor: 1, Room: "A-101"}
	require.NoError(t, manager.AddLabel(ctx, ref, "chess club storage"))

	results := svc.Search("chess")
	require.Len(t, results, 1)
	assert.Equal(t, schemas.ResultRoom, results[0].Type)
	assert.Equal(t, "A-101", results[0].RoomNumber)
	assert.Equal(t, "chess club storage", results[0].MatchedLabel)
}

func TestSearchDeduplicatesLabelHits(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	// A label containing the room's own number would double-surface the
	// room without deduplication.
	ref := schemas.RoomRef{Building: "Block A", Floor: 1, Room: "A-101"}
	require.NoError(t, manager.AddLabel(ctx, ref, "spare key for A-101"))

	results := svc.Search("A-101")
	count := 0
	for _, r := range results {
		if r.RoomNumber == "A-101" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSearchNilLabelManager(t *testing.T) {
	graph := campus.NewGraph(campus.DefaultGraphData(), zap.NewNop())
	directory := campus.NewDefaultDirectory(zap.NewNop())
	svc := NewService(graph, directory, nil, zap.NewNop())

	results := svc.Search("E-203")
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Labels)
}

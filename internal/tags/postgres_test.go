package tags

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

func TestNewPostgresStore(t *testing.T) {
	t.Run("should return error if ping fails", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		pingErr := errors.New("database unavailable")
		mockPool.ExpectPing().WillReturnError(pingErr)

		_, err = NewPostgresStore(context.Background(), mockPool, zap.NewNop())
		require.Error(t, err)
		assert.ErrorIs(t, err, pingErr, "Error from ping should be propagated")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	mockPool.ExpectPing().WillReturnError(nil)
	store, err := NewPostgresStore(context.Background(), mockPool, zap.NewNop())
	require.NoError(t, err)
	return store, mockPool
}

func TestPostgresLoad(t *testing.T) {
	ctx := context.Background()

	categoryColumns := []string{"id", "name", "color", "icon", "is_system", "created_at"}
	tagColumns := []string{"id", "name", "category_id", "parent_tag_id", "color", "is_system", "created_at", "updated_at"}
	assocColumns := []string{"building", "floor", "room", "tag_ids", "updated_at"}

	t.Run("empty database yields nil snapshot so defaults seed", func(t *testing.T) {
		store, mockPool := newMockStore(t)

		mockPool.ExpectQuery("SELECT id, name, color, icon, is_system, created_at").
			WillReturnRows(pgxmock.NewRows(categoryColumns))
		mockPool.ExpectQuery("SELECT id, name, category_id").
			WillReturnRows(pgxmock.NewRows(tagColumns))
		mockPool.ExpectQuery("SELECT building, floor, room, tag_ids, updated_at").
			WillReturnRows(pgxmock.NewRows(assocColumns))

		snapshot, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, snapshot)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("populated tables load into the snapshot", func(t *testing.T) {
		store, mockPool := newMockStore(t)
		now := time.Now().UTC()

		mockPool.ExpectQuery("SELECT id, name, color, icon, is_system, created_at").
			WillReturnRows(pgxmock.NewRows(categoryColumns).
				AddRow("cat-facilities", "Facilities", "#10B981", "🏢", true, now))
		mockPool.ExpectQuery("SELECT id, name, category_id").
			WillReturnRows(pgxmock.NewRows(tagColumns).
				AddRow("tag-lab", "Laboratory", "cat-facilities", "", "#10B981", true, now, now))
		mockPool.ExpectQuery("SELECT building, floor, room, tag_ids, updated_at").
			WillReturnRows(pgxmock.NewRows(assocColumns).
				AddRow("Block A", 1, "A-101", []string{"tag-lab"}, now))

		snapshot, err := store.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Len(t, snapshot.Categories, 1)
		require.Contains(t, snapshot.Tags, "tag-lab")
		assert.Empty(t, snapshot.Tags["tag-lab"].ParentTagID)
		require.Len(t, snapshot.RoomAssociations, 1)
		assert.Equal(t, schemas.RoomRef{Building: "Block A", Floor: 1, Room: "A-101"}, snapshot.RoomAssociations[0].Room)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("query failures wrap as storage errors", func(t *testing.T) {
		store, mockPool := newMockStore(t)

		queryErr := errors.New("connection reset")
		mockPool.ExpectQuery("SELECT id, name, color, icon, is_system, created_at").
			WillReturnError(queryErr)

		_, err := store.Load(ctx)
		require.Error(t, err)

		var storageErr *schemas.StorageError
		assert.ErrorAs(t, err, &storageErr)
		assert.ErrorIs(t, err, queryErr)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresSave(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	snapshot := &schemas.TagSnapshot{
		Categories: map[string]schemas.TagCategory{
			"cat-facilities": {ID: "cat-facilities", Name: "Facilities", Color: "#10B981", Icon: "🏢", IsSystem: true, CreatedAt: now},
		},
		Tags: map[string]schemas.Tag{
			"tag-lab": {ID: "tag-lab", Name: "Laboratory", CategoryID: "cat-facilities", Color: "#10B981", IsSystem: true, CreatedAt: now, UpdatedAt: now},
		},
		RoomAssociations: []schemas.RoomTagAssociation{
			{Room: schemas.RoomRef{Building: "Block A", Floor: 1, Room: "A-101"}, TagIDs: []string{"tag-lab"}, UpdatedAt: now},
		},
		Version: CurrentVersion,
	}

	t.Run("replaces the snapshot in one transaction", func(t *testing.T) {
		store, mockPool := newMockStore(t)

		mockPool.ExpectBegin()
		mockPool.ExpectExec("DELETE FROM room_tag_associations").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mockPool.ExpectExec("DELETE FROM tags").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mockPool.ExpectExec("DELETE FROM tag_categories").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		mockPool.ExpectCopyFrom(pgx.Identifier{"tag_categories"},
			[]string{"id", "name", "color", "icon", "is_system", "created_at"}).
			WillReturnResult(1)
		mockPool.ExpectCopyFrom(pgx.Identifier{"tags"},
			[]string{"id", "name", "category_id", "parent_tag_id", "color", "is_system", "created_at", "updated_at"}).
			WillReturnResult(1)

		batchExp := mockPool.ExpectBatch()
		batchExp.ExpectExec("INSERT INTO room_tag_associations").
			WithArgs("Block A", 1, "A-101", []string{"tag-lab"}, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		mockPool.ExpectCommit()
		mockPool.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

		require.NoError(t, store.Save(ctx, snapshot))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("rolls back when the copy fails", func(t *testing.T) {
		store, mockPool := newMockStore(t)

		copyErr := errors.New("copy from failed")
		mockPool.ExpectBegin()
		mockPool.ExpectExec("DELETE FROM room_tag_associations").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mockPool.ExpectExec("DELETE FROM tags").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mockPool.ExpectExec("DELETE FROM tag_categories").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mockPool.ExpectCopyFrom(pgx.Identifier{"tag_categories"},
			[]string{"id", "name", "color", "icon", "is_system", "created_at"}).
			WillReturnError(copyErr)
		mockPool.ExpectRollback()

		err := store.Save(ctx, snapshot)
		require.Error(t, err)

		var storageErr *schemas.StorageError
		assert.ErrorAs(t, err, &storageErr)
		assert.ErrorIs(t, err, copyErr)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("propagates begin failure", func(t *testing.T) {
		store, mockPool := newMockStore(t)

		beginErr := errors.New("cannot begin tx")
		mockPool.ExpectBegin().WillReturnError(beginErr)

		err := store.Save(ctx, snapshot)
		require.Error(t, err)
		assert.ErrorIs(t, err, beginErr)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

package tags

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

// DBPool abstracts pgxpool.Pool so the store can be exercised against a mock.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresStore persists tag snapshots in three relational tables
// (tag_categories, tags, room_tag_associations). Save replaces the whole
// snapshot in one transaction, matching the all-or-nothing semantics of the
// file store.
type PostgresStore struct {
	pool DBPool
	log  *zap.Logger
}

// NewPostgresStore creates the store and verifies the connection.
func NewPostgresStore(ctx context.Context, pool DBPool, logger *zap.Logger) (*PostgresStore, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{
		pool: pool,
		log:  logger.Named("tag_store"),
	}, nil
}

// Load reads the full snapshot. An empty database yields (nil, nil) so the
// caller seeds defaults, mirroring a missing snapshot file.
func (s *PostgresStore) Load(ctx context.Context) (*schemas.TagSnapshot, error) {
	snapshot := &schemas.TagSnapshot{
		Categories: make(map[string]schemas.TagCategory),
		Tags:       make(map[string]schemas.Tag),
		Version:    CurrentVersion,
	}

	if err := s.loadCategories(ctx, snapshot); err != nil {
		return nil, &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}
	if err := s.loadTags(ctx, snapshot); err != nil {
		return nil, &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}
	if err := s.loadAssociations(ctx, snapshot); err != nil {
		return nil, &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}

	if len(snapshot.Categories) == 0 && len(snapshot.Tags) == 0 {
		return nil, nil
	}
	return snapshot, nil
}

func (s *PostgresStore) loadCategories(ctx context.Context, snapshot *schemas.TagSnapshot) error {
	query := `
        SELECT id, name, color, icon, is_system, created_at
        FROM tag_categories;
    `
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query tag categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c schemas.TagCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.IsSystem, &c.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan category row: %w", err)
		}
		snapshot.Categories[c.ID] = c
	}
	return rows.Err()
}

func (s *PostgresStore) loadTags(ctx context.Context, snapshot *schemas.TagSnapshot) error {
	query := `
        SELECT id, name, category_id, COALESCE(parent_tag_id, ''), color, is_system, created_at, updated_at
        FROM tags;
    `
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t schemas.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CategoryID, &t.ParentTagID, &t.Color, &t.IsSystem, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan tag row: %w", err)
		}
		snapshot.Tags[t.ID] = t
	}
	return rows.Err()
}

func (s *PostgresStore) loadAssociations(ctx context.Context, snapshot *schemas.TagSnapshot) error {
	query := `
        SELECT building, floor, room, tag_ids, updated_at
        FROM room_tag_associations
        ORDER BY building, floor, room;
    `
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query room tag associations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a schemas.RoomTagAssociation
		if err := rows.Scan(&a.Room.Building, &a.Room.Floor, &a.Room.Room, &a.TagIDs, &a.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan association row: %w", err)
		}
		snapshot.RoomAssociations = append(snapshot.RoomAssociations, a)
	}
	return rows.Err()
}

// Save replaces the persisted snapshot inside a single transaction.
func (s *PostgresStore) Save(ctx context.Context, snapshot *schemas.TagSnapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	for _, table := range []string{"room_tag_associations", "tags", "tag_categories"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s;", table)); err != nil {
			return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: fmt.Errorf("failed to clear %s: %w", table, err)}
		}
	}

	if err := s.insertCategories(ctx, tx, snapshot); err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}
	if err := s.insertTags(ctx, tx, snapshot); err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}
	if err := s.insertAssociations(ctx, tx, snapshot); err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}
	return nil
}

func (s *PostgresStore) insertCategories(ctx context.Context, tx pgx.Tx, snapshot *schemas.TagSnapshot) error {
	if len(snapshot.Categories) == 0 {
		return nil
	}
	rows := make([][]interface{}, 0, len(snapshot.Categories))
	for _, c := range snapshot.Categories {
		rows = append(rows, []interface{}{c.ID, c.Name, c.Color, c.Icon, c.IsSystem, c.CreatedAt.UTC()})
	}
	count, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"tag_categories"},
		[]string{"id", "name", "color", "icon", "is_system", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy tag categories: %w", err)
	}
	if int(count) != len(rows) {
		return fmt.Errorf("mismatch in copied category count: expected %d, got %d", len(rows), count)
	}
	return nil
}

func (s *PostgresStore) insertTags(ctx context.Context, tx pgx.Tx, snapshot *schemas.TagSnapshot) error {
	if len(snapshot.Tags) == 0 {
		return nil
	}
	rows := make([][]interface{}, 0, len(snapshot.Tags))
	for _, t := range snapshot.Tags {
		var parent interface{}
		if t.ParentTagID != "" {
			parent = t.ParentTagID
		}
		rows = append(rows, []interface{}{
			t.ID, t.Name, t.CategoryID, parent, t.Color, t.IsSystem,
			t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
		})
	}
	count, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"tags"},
		[]string{"id", "name", "category_id", "parent_tag_id", "color", "is_system", "created_at", "updated_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy tags: %w", err)
	}
	if int(count) != len(rows) {
		return fmt.Errorf("mismatch in copied tag count: expected %d, got %d", len(rows), count)
	}
	return nil
}

func (s *PostgresStore) insertAssociations(ctx context.Context, tx pgx.Tx, snapshot *schemas.TagSnapshot) error {
	if len(snapshot.RoomAssociations) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	sql := `
        INSERT INTO room_tag_associations (building, floor, room, tag_ids, updated_at)
        VALUES ($1, $2, $3, $4, $5);
    `
	for _, a := range snapshot.RoomAssociations {
		batch.Queue(sql, a.Room.Building, a.Room.Floor, a.Room.Room, a.TagIDs, a.UpdatedAt.UTC())
	}

	br := tx.SendBatch(ctx, batch)
	if br == nil {
		return fmt.Errorf("failed to send batch: batch results is nil")
	}
	defer func() {
		_ = br.Close()
	}()

	for i := range snapshot.RoomAssociations {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert association for %s: %w", snapshot.RoomAssociations[i].Room, err)
		}
	}
	return nil
}

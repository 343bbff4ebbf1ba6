package tags

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

// CurrentVersion is the persisted tag schema version.
const CurrentVersion = 1

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store abstracts tag snapshot persistence so the manager can run against a
// local JSON file or a database. Load returns (nil, nil) when no snapshot
// has ever been written, which triggers default seeding.
type Store interface {
	Load(ctx context.Context) (*schemas.TagSnapshot, error)
	Save(ctx context.Context, snapshot *schemas.TagSnapshot) error
}

// FileStore persists the whole snapshot as one JSON file, the direct analog
// of a single local-storage entry. Writes go through a temp file and rename
// so a failed write never corrupts the previous snapshot.
type FileStore struct {
	path string
	log  *zap.Logger
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		path: path,
		log:  logger.Named("tag_file_store"),
	}
}

// Load reads and decodes the snapshot file.
func (s *FileStore) Load(_ context.Context) (*schemas.TagSnapshot, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &schemas.StorageError{Message: "failed to read tag store", Err: err}
	}

	var snapshot schemas.TagSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		// A corrupt snapshot is treated the same as a missing one; the
		// manager reseeds defaults rather than failing startup.
		s.log.Warn("Tag snapshot is corrupt, discarding", zap.Error(err))
		return nil, nil
	}
	return &snapshot, nil
}

// Save atomically replaces the snapshot file.
func (s *FileStore) Save(_ context.Context, snapshot *schemas.TagSnapshot) error {
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return &schemas.StorageError{Message: "failed to encode tag store", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}

	tmp := fmt.Sprintf("%s.tmp", s.path)
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}
	return nil
}

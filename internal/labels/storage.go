package labels

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CurrentVersion is the label snapshot format version.
const CurrentVersion = 1

// Store persists label snapshots. Load returns (nil, nil) when no snapshot
// exists yet.
type Store interface {
	Load(ctx context.Context) (*schemas.LabelSnapshot, error)
	Save(ctx context.Context, snapshot *schemas.LabelSnapshot) error
}

// FileStore keeps the snapshot in a single JSON file, written atomically via
// a temp file and rename.
type FileStore struct {
	path string
	log  *zap.Logger
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, log: logger.Named("label_store")}
}

// Load reads the snapshot file. A missing or corrupt file yields (nil, nil);
// corruption is logged, not fatal, so a bad file never bricks startup.
func (s *FileStore) Load(ctx context.Context) (*schemas.LabelSnapshot, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}

	var snapshot schemas.LabelSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		s.log.Warn("Discarding corrupt label snapshot",
			zap.String("path", s.path),
			zap.Error(err))
		return nil, nil
	}
	return &snapshot, nil
}

// Save writes the snapshot atomically.
func (s *FileStore) Save(ctx context.Context, snapshot *schemas.LabelSnapshot) error {
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &schemas.StorageError{Message: schemas.MsgStorageFull, Err: fmt.Errorf("failed to replace snapshot: %w", err)}
	}
	return nil
}

package labels

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

// Manager owns the room label records. Every mutating call persists the
// snapshot before returning.
type Manager struct {
	mu      sync.RWMutex
	rooms   map[schemas.RoomRef]*schemas.RoomLabel
	version int

	store Store
	log   *zap.Logger
}

// NewManager loads the label snapshot, starting empty when none exists.
func NewManager(ctx context.Context, store Store, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		rooms:   make(map[schemas.RoomRef]*schemas.RoomLabel),
		version: CurrentVersion,
		store:   store,
		log:     logger.Named("label_manager"),
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		m.adopt(snapshot)
	}
	return m, nil
}

func (m *Manager) adopt(snapshot *schemas.LabelSnapshot) {
	m.rooms = make(map[schemas.RoomRef]*schemas.RoomLabel, len(snapshot.Rooms))
	for i := range snapshot.Rooms {
		r := snapshot.Rooms[i]
		m.rooms[r.Room] = &r
	}
	if snapshot.Version != 0 {
		m.version = snapshot.Version
	}
}

// snapshot materializes the state with deterministic room order. Caller must
// hold at least the read lock.
func (m *Manager) snapshot() *schemas.LabelSnapshot {
	s := &schemas.LabelSnapshot{
		Rooms:   make([]schemas.RoomLabel, 0, len(m.rooms)),
		Version: m.version,
	}
	for _, r := range m.rooms {
		copied := *r
		copied.Labels = append([]string{}, r.Labels...)
		s.Rooms = append(s.Rooms, copied)
	}
	sort.Slice(s.Rooms, func(i, j int) bool {
		return s.Rooms[i].Room.String() < s.Rooms[j].Room.String()
	})
	return s
}

func (m *Manager) persist(ctx context.Context) error {
	if err := m.store.Save(ctx, m.snapshot()); err != nil {
		m.log.Error("Failed to persist label store", zap.Error(err))
		return err
	}
	return nil
}

// AddLabel attaches a label to a room. The label must be 1-50 characters
// after trimming; re-adding one already present (case-insensitively) is a
// no-op. The record is created on first label.
func (m *Manager) AddLabel(ctx context.Context, room schemas.RoomRef, label string) error {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return schemas.NewValidationError("label cannot be empty")
	}
	if len([]rune(trimmed)) > schemas.MaxLabelLength {
		return schemas.NewValidationError("label must be %d characters or less", schemas.MaxLabelLength)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	record, ok := m.rooms[room]
	if !ok {
		m.rooms[room] = &schemas.RoomLabel{
			Room:      room,
			Labels:    []string{trimmed},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return m.persist(ctx)
	}

	for _, existing := range record.Labels {
		if strings.EqualFold(existing, trimmed) {
			return nil
		}
	}
	record.Labels = append(record.Labels, trimmed)
	record.UpdatedAt = now
	return m.persist(ctx)
}

// RemoveLabel detaches a label from a room, deleting the record once its
// last label goes. Removing an absent label is a no-op.
func (m *Manager) RemoveLabel(ctx context.Context, room schemas.RoomRef, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.rooms[room]
	if !ok {
		return nil
	}

	filtered := record.Labels[:0]
	for _, existing := range record.Labels {
		if !strings.EqualFold(existing, label) {
			filtered = append(filtered, existing)
		}
	}
	record.Labels = filtered
	record.UpdatedAt = time.Now().UTC()
	if len(record.Labels) == 0 {
		delete(m.rooms, room)
	}
	return m.persist(ctx)
}

// Labels returns a room's labels, nil when the room has none.
func (m *Manager) Labels(room schemas.RoomRef) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.rooms[room]
	if !ok {
		return nil
	}
	return append([]string{}, record.Labels...)
}

// SearchByLabel finds rooms with a label containing the query,
// case-insensitively. Empty queries match nothing.
func (m *Manager) SearchByLabel(query string) []schemas.RoomLabel {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []schemas.RoomLabel
	for _, record := range m.rooms {
		for _, label := range record.Labels {
			if strings.Contains(strings.ToLower(label), query) {
				copied := *record
				copied.Labels = append([]string{}, record.Labels...)
				out = append(out, copied)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Room.String() < out[j].Room.String()
	})
	return out
}

// AllLabeledRooms lists every room holding at least one label.
func (m *Manager) AllLabeledRooms() []schemas.RoomLabel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot().Rooms
}

// ClearAll deletes every label record.
func (m *Manager) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.rooms
	m.rooms = make(map[schemas.RoomRef]*schemas.RoomLabel)
	if err := m.persist(ctx); err != nil {
		m.rooms = prev
		return err
	}
	return nil
}

// ExportLabels serializes every record as indented JSON.
func (m *Manager) ExportLabels() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, err := json.MarshalIndent(m.snapshot(), "", "  ")
	if err != nil {
		return nil, &schemas.StorageError{Message: "failed to encode label export", Err: err}
	}
	return raw, nil
}

// ImportLabels replaces the whole label store with an exported payload. The
// payload is validated in full first; on any bad record nothing changes.
func (m *Manager) ImportLabels(ctx context.Context, payload []byte) error {
	var snapshot schemas.LabelSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return schemas.NewValidationError(schemas.MsgImportInvalid)
	}
	for _, record := range snapshot.Rooms {
		if record.Room.Building == "" || record.Room.Room == "" || record.Labels == nil {
			return schemas.NewValidationError(schemas.MsgImportInvalid)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.snapshot()
	m.adopt(&snapshot)
	if err := m.persist(ctx); err != nil {
		m.adopt(prev)
		return err
	}
	return nil
}

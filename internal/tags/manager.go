package tags

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

// Manager owns the persisted tag structure: categories, tags and room
// associations. It is the sole writer to its backing store; every mutating
// call persists the whole snapshot before returning.
type Manager struct {
	mu           sync.RWMutex
	categories   map[string]schemas.TagCategory
	tags         map[string]schemas.Tag
	associations map[schemas.RoomRef]*schemas.RoomTagAssociation
	version      int
	colorIndex   int

	store Store
	log   *zap.Logger
}

// NewManager loads the snapshot from the store, seeding system defaults when
// no valid snapshot exists yet.
func NewManager(ctx context.Context, store Store, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		store: store,
		log:   logger.Named("tag_manager"),
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag store: %w", err)
	}
	if snapshot == nil || snapshot.Categories == nil || snapshot.Tags == nil {
		m.log.Info("No valid tag snapshot found, seeding system defaults")
		snapshot = defaultSnapshot(time.Now().UTC())
		if err := store.Save(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("failed to persist seeded tag store: %w", err)
		}
	}

	m.adopt(snapshot)
	return m, nil
}

// adopt replaces the in-memory state with the given snapshot.
// Caller must hold the write lock (or be the constructor).
func (m *Manager) adopt(snapshot *schemas.TagSnapshot) {
	m.categories = make(map[string]schemas.TagCategory, len(snapshot.Categories))
	for id, c := range snapshot.Categories {
		m.categories[id] = c
	}
	m.tags = make(map[string]schemas.Tag, len(snapshot.Tags))
	for id, t := range snapshot.Tags {
		m.tags[id] = t
	}
	m.associations = make(map[schemas.RoomRef]*schemas.RoomTagAssociation, len(snapshot.RoomAssociations))
	for i := range snapshot.RoomAssociations {
		a := snapshot.RoomAssociations[i]
		m.associations[a.Room] = &a
	}
	m.version = snapshot.Version
	if m.version == 0 {
		m.version = CurrentVersion
	}
}

// snapshot materializes the in-memory state. Caller must hold at least the
// read lock. Associations are ordered deterministically.
func (m *Manager) snapshot() *schemas.TagSnapshot {
	s := &schemas.TagSnapshot{
		Categories:       make(map[string]schemas.TagCategory, len(m.categories)),
		Tags:             make(map[string]schemas.Tag, len(m.tags)),
		RoomAssociations: make([]schemas.RoomTagAssociation, 0, len(m.associations)),
		Version:          m.version,
	}
	for id, c := range m.categories {
		s.Categories[id] = c
	}
	for id, t := range m.tags {
		s.Tags[id] = t
	}
	for _, a := range m.associations {
		copied := *a
		copied.TagIDs = append([]string{}, a.TagIDs...)
		s.RoomAssociations = append(s.RoomAssociations, copied)
	}
	sort.Slice(s.RoomAssociations, func(i, j int) bool {
		return s.RoomAssociations[i].Room.String() < s.RoomAssociations[j].Room.String()
	})
	return s
}

// persist writes the current state through the store.
// Caller must hold the write lock.
func (m *Manager) persist(ctx context.Context) error {
	if err := m.store.Save(ctx, m.snapshot()); err != nil {
		m.log.Error("Failed to persist tag store", zap.Error(err))
		return err
	}
	return nil
}

// -- Category operations --

// CreateCategory adds a user category. The name must be 1-30 characters
// after trimming; a missing color falls back to the deterministic HSL
// rotation and a missing icon to a folder glyph.
func (m *Manager) CreateCategory(ctx context.Context, name, color, icon string) (*schemas.TagCategory, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) == 0 || len([]rune(trimmed)) > 30 {
		return nil, schemas.NewValidationError("category name must be 1-30 characters")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if color == "" {
		color = m.nextColor()
	}
	if icon == "" {
		icon = "📁"
	}

	now := time.Now().UTC()
	category := schemas.TagCategory{
		ID:        uuid.NewString(),
		Name:      trimmed,
		Color:     color,
		Icon:      icon,
		IsSystem:  false,
		CreatedAt: now,
	}
	m.categories[category.ID] = category

	if err := m.persist(ctx); err != nil {
		delete(m.categories, category.ID)
		return nil, err
	}

	m.log.Debug("Category created", zap.String("id", category.ID), zap.String("name", category.Name))
	return &category, nil
}

// Category returns a category by id, or nil when absent.
func (m *Manager) Category(id string) *schemas.TagCategory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return nil
	}
	return &c
}

// AllCategories lists every category sorted by name.
func (m *Manager) AllCategories() []schemas.TagCategory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]schemas.TagCategory, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DeleteCategory removes a user category. System categories and categories
// still referenced by tags cannot be deleted; deleting an unknown id is a
// no-op.
func (m *Manager) DeleteCategory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	category, ok := m.categories[id]
	if !ok {
		return nil
	}
	if category.IsSystem {
		return schemas.NewValidationError("system categories cannot be deleted")
	}
	for _, tag := range m.tags {
		if tag.CategoryID == id {
			return schemas.NewValidationError("cannot delete category with existing tags")
		}
	}

	delete(m.categories, id)
	if err := m.persist(ctx); err != nil {
		m.categories[id] = category
		return err
	}
	return nil
}

// -- Tag operations --

// CreateTag adds a tag to a category, inheriting the category color at
// creation time. The name must be 1-50 characters after trimming and unique
// (case-insensitively) within the category. A parent, when given, must pass
// the hierarchy rules.
func (m *Manager) CreateTag(ctx context.Context, name, categoryID, parentTagID string) (*schemas.Tag, error) {
	trimmed, err := validateTagName(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	category, ok := m.categories[categoryID]
	if !ok {
		return nil, schemas.NewValidationError(schemas.MsgCategoryNotFound)
	}
	for _, tag := range m.tags {
		if tag.CategoryID == categoryID && strings.EqualFold(tag.Name, trimmed) {
			return nil, schemas.NewValidationError(schemas.MsgTagDuplicate)
		}
	}
	if parentTagID != "" {
		if err := m.validateParentLocked(categoryID, parentTagID, "", 1); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	tag := schemas.Tag{
		ID:          uuid.NewString(),
		Name:        trimmed,
		CategoryID:  categoryID,
		ParentTagID: parentTagID,
		Color:       category.Color,
		IsSystem:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.tags[tag.ID] = tag

	if err := m.persist(ctx); err != nil {
		delete(m.tags, tag.ID)
		return nil, err
	}

	m.log.Debug("Tag created",
		zap.String("id", tag.ID),
		zap.String("name", tag.Name),
		zap.String("category", categoryID))
	return &tag, nil
}

// Tag returns a tag by id, or nil when absent.
func (m *Manager) Tag(id string) *schemas.Tag {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tags[id]
	if !ok {
		return nil
	}
	return &t
}

// AllTags lists every tag sorted by name.
func (m *Manager) AllTags() []schemas.Tag {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.allTagsLocked()
}

func (m *Manager) allTagsLocked() []schemas.Tag {
	out := make([]schemas.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TagsByCategory lists a category's tags sorted by name.
func (m *Manager) TagsByCategory(categoryID string) []schemas.Tag {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []schemas.Tag
	for _, t := range m.tags {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TagUpdate carries the mutable fields of a tag. Nil fields are untouched;
// ID and IsSystem can never change.
type TagUpdate struct {
	Name        *string
	Color       *string
	ParentTagID *string
}

// UpdateTag mutates a non-system tag. Name changes are re-validated for
// length and in-category uniqueness; parent changes are re-validated for
// category, cycles and depth.
func (m *Manager) UpdateTag(ctx context.Context, id string, updates TagUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tag, ok := m.tags[id]
	if !ok {
		return schemas.NewValidationError("tag not found")
	}
	if tag.IsSystem {
		return schemas.NewValidationError(schemas.MsgSystemTagModify)
	}

	updated := tag
	if updates.Name != nil {
		trimmed, err := validateTagName(*updates.Name)
		if err != nil {
			return err
		}
		for _, other := range m.tags {
			if other.ID != id && other.CategoryID == tag.CategoryID && strings.EqualFold(other.Name, trimmed) {
				return schemas.NewValidationError(schemas.MsgTagDuplicate)
			}
		}
		updated.Name = trimmed
	}
	if updates.Color != nil {
		updated.Color = *updates.Color
	}
	if updates.ParentTagID != nil {
		parent := *updates.ParentTagID
		if parent != "" {
			height := m.subtreeHeightLocked(id)
			if err := m.validateParentLocked(tag.CategoryID, parent, id, height); err != nil {
				return err
			}
		}
		updated.ParentTagID = parent
	}
	updated.UpdatedAt = time.Now().UTC()

	m.tags[id] = updated
	if err := m.persist(ctx); err != nil {
		m.tags[id] = tag
		return err
	}
	return nil
}

// DeleteTag removes a non-system tag. The tag is stripped from every room
// association (empty associations are deleted, not kept) and its direct
// children become roots; deleting an unknown id is a no-op.
func (m *Manager) DeleteTag(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tag, ok := m.tags[id]
	if !ok {
		return nil
	}
	if tag.IsSystem {
		return schemas.NewValidationError(schemas.MsgSystemTagDelete)
	}

	prev := m.snapshot()
	now := time.Now().UTC()
	for ref, assoc := range m.associations {
		filtered := assoc.TagIDs[:0]
		for _, tid := range assoc.TagIDs {
			if tid != id {
				filtered = append(filtered, tid)
			}
		}
		if len(filtered) != len(assoc.TagIDs) {
			assoc.TagIDs = filtered
			assoc.UpdatedAt = now
		}
		if len(assoc.TagIDs) == 0 {
			delete(m.associations, ref)
		}
	}

	m.promoteChildrenLocked(id, now)

	delete(m.tags, id)
	if err := m.persist(ctx); err != nil {
		m.adopt(prev)
		return err
	}
	return nil
}

// promoteChildrenLocked detaches every direct child of a tag, turning each
// one into a root of its category. Caller must hold the write lock.
func (m *Manager) promoteChildrenLocked(parentID string, now time.Time) bool {
	promoted := false
	for childID, child := range m.tags {
		if child.ParentTagID == parentID {
			child.ParentTagID = ""
			child.UpdatedAt = now
			m.tags[childID] = child
			promoted = true
		}
	}
	return promoted
}

// -- Room associations --

// ApplyTagToRoom attaches a tag to a room. Idempotent: applying the same tag
// twice leaves a single entry. The association record is created on first
// tag.
func (m *Manager) ApplyTagToRoom(ctx context.Context, room schemas.RoomRef, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tags[tagID]; !ok {
		return schemas.NewValidationError("tag not found")
	}

	now := time.Now().UTC()
	assoc, ok := m.associations[room]
	if !ok {
		m.associations[room] = &schemas.RoomTagAssociation{
			Room:      room,
			TagIDs:    []string{tagID},
			UpdatedAt: now,
		}
		return m.persist(ctx)
	}

	for _, tid := range assoc.TagIDs {
		if tid == tagID {
			return m.persist(ctx)
		}
	}
	assoc.TagIDs = append(assoc.TagIDs, tagID)
	assoc.UpdatedAt = now
	return m.persist(ctx)
}

// RemoveTagFromRoom detaches a tag from a room; the association record is
// deleted once its tag list empties. Removing from an untagged room is a
// no-op.
func (m *Manager) RemoveTagFromRoom(ctx context.Context, room schemas.RoomRef, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	assoc, ok := m.associations[room]
	if !ok {
		return nil
	}

	filtered := assoc.TagIDs[:0]
	for _, tid := range assoc.TagIDs {
		if tid != tagID {
			filtered = append(filtered, tid)
		}
	}
	assoc.TagIDs = filtered
	assoc.UpdatedAt = time.Now().UTC()
	if len(assoc.TagIDs) == 0 {
		delete(m.associations, room)
	}
	return m.persist(ctx)
}

// RoomTags returns the resolved tags applied to a room; ids that no longer
// resolve are skipped.
func (m *Manager) RoomTags(room schemas.RoomRef) []schemas.Tag {
	m.mu.RLock()
	defer m.mu.RUnlock()

	assoc, ok := m.associations[room]
	if !ok {
		return nil
	}
	out := make([]schemas.Tag, 0, len(assoc.TagIDs))
	for _, tid := range assoc.TagIDs {
		if t, ok := m.tags[tid]; ok {
			out = append(out, t)
		}
	}
	return out
}

// RoomsByTag lists every association containing the given tag.
func (m *Manager) RoomsByTag(tagID string) []schemas.RoomTagAssociation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roomsByTagLocked(tagID)
}

func (m *Manager) roomsByTagLocked(tagID string) []schemas.RoomTagAssociation {
	var out []schemas.RoomTagAssociation
	for _, assoc := range m.associations {
		for _, tid := range assoc.TagIDs {
			if tid == tagID {
				copied := *assoc
				copied.TagIDs = append([]string{}, assoc.TagIDs...)
				out = append(out, copied)
				break
			}
		}
	}
	return out
}

// AllRoomAssociations returns a copy of every association.
func (m *Manager) AllRoomAssociations() []schemas.RoomTagAssociation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]schemas.RoomTagAssociation, 0, len(m.associations))
	for _, assoc := range m.associations {
		copied := *assoc
		copied.TagIDs = append([]string{}, assoc.TagIDs...)
		out = append(out, copied)
	}
	return out
}

// TagUsageCount reports how many rooms reference a tag.
func (m *Manager) TagUsageCount(tagID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.roomsByTagLocked(tagID))
}

// TagStatistics reports per-tag usage, sorted by usage descending. Tags in a
// category that no longer resolves report "Unknown".
func (m *Manager) TagStatistics() []schemas.TagStatistic {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make([]schemas.TagStatistic, 0, len(m.tags))
	for _, tag := range m.tags {
		categoryName := "Unknown"
		if c, ok := m.categories[tag.CategoryID]; ok {
			categoryName = c.Name
		}
		stats = append(stats, schemas.TagStatistic{
			Tag:          tag,
			CategoryName: categoryName,
			UsageCount:   len(m.roomsByTagLocked(tag.ID)),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].UsageCount != stats[j].UsageCount {
			return stats[i].UsageCount > stats[j].UsageCount
		}
		return stats[i].Tag.Name < stats[j].Tag.Name
	})
	return stats
}

// -- Export / import --

// ExportTags serializes the whole store as indented JSON.
func (m *Manager) ExportTags() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, err := json.MarshalIndent(m.snapshot(), "", "  ")
	if err != nil {
		return nil, &schemas.StorageError{Message: "failed to encode tag export", Err: err}
	}
	return raw, nil
}

// ImportTags merges an exported payload into the store. Existing categories
// and tags win on id collision (imported duplicates are dropped); room
// associations union their tag lists. The import is atomic: the payload is
// validated and merged into a copy first, and the live store is swapped and
// persisted only after every record passed.
func (m *Manager) ImportTags(ctx context.Context, payload []byte) error {
	imported, err := decodeImport(payload)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.snapshot()
	merged := m.snapshot()

	for id, cat := range imported.Categories {
		if _, exists := merged.Categories[id]; !exists {
			merged.Categories[id] = cat
		}
	}
	for id, tag := range imported.Tags {
		if _, exists := merged.Tags[id]; !exists {
			merged.Tags[id] = tag
		}
	}

	byRoom := make(map[schemas.RoomRef]int, len(merged.RoomAssociations))
	for i := range merged.RoomAssociations {
		byRoom[merged.RoomAssociations[i].Room] = i
	}
	now := time.Now().UTC()
	for _, assoc := range imported.RoomAssociations {
		idx, exists := byRoom[assoc.Room]
		if !exists {
			merged.RoomAssociations = append(merged.RoomAssociations, assoc)
			byRoom[assoc.Room] = len(merged.RoomAssociations) - 1
			continue
		}
		existing := &merged.RoomAssociations[idx]
		seen := make(map[string]bool, len(existing.TagIDs))
		for _, tid := range existing.TagIDs {
			seen[tid] = true
		}
		grew := false
		for _, tid := range assoc.TagIDs {
			if !seen[tid] {
				existing.TagIDs = append(existing.TagIDs, tid)
				seen[tid] = true
				grew = true
			}
		}
		if grew {
			existing.UpdatedAt = now
		}
	}

	m.adopt(merged)
	if err := m.persist(ctx); err != nil {
		m.adopt(prev)
		return err
	}

	m.log.Info("Tag import merged",
		zap.Int("categories", len(imported.Categories)),
		zap.Int("tags", len(imported.Tags)),
		zap.Int("associations", len(imported.RoomAssociations)))
	return nil
}

// decodeImport parses and validates an import payload: the three top-level
// collections must be present and every record must carry its required
// fields.
func decodeImport(payload []byte) (*schemas.TagSnapshot, error) {
	var shape struct {
		Categories       jsoniter.RawMessage `json:"categories"`
		Tags             jsoniter.RawMessage `json:"tags"`
		RoomAssociations jsoniter.RawMessage `json:"roomAssociations"`
	}
	if err := json.Unmarshal(payload, &shape); err != nil {
		return nil, schemas.NewValidationError(schemas.MsgImportInvalid)
	}
	if shape.Categories == nil || shape.Tags == nil || shape.RoomAssociations == nil {
		return nil, schemas.NewValidationError(schemas.MsgImportInvalid)
	}

	var snapshot schemas.TagSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, schemas.NewValidationError(schemas.MsgImportInvalid)
	}

	for id, cat := range snapshot.Categories {
		if cat.ID == "" || cat.Name == "" || cat.Color == "" || cat.ID != id {
			return nil, schemas.NewValidationError(schemas.MsgImportInvalid)
		}
	}
	for id, tag := range snapshot.Tags {
		if tag.ID == "" || tag.Name == "" || tag.CategoryID == "" || tag.ID != id {
			return nil, schemas.NewValidationError(schemas.MsgImportInvalid)
		}
	}
	for _, assoc := range snapshot.RoomAssociations {
		if assoc.Room.Building == "" || assoc.Room.Room == "" || assoc.TagIDs == nil {
			return nil, schemas.NewValidationError(schemas.MsgImportInvalid)
		}
	}
	return &snapshot, nil
}

// ClearAll discards everything and reseeds the system defaults.
func (m *Manager) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.snapshot()
	m.adopt(defaultSnapshot(time.Now().UTC()))
	if err := m.persist(ctx); err != nil {
		m.adopt(prev)
		return err
	}
	return nil
}

// -- Hierarchy validation helpers --

// validateParentLocked checks that attaching a subtree of the given height
// under parentID keeps the hierarchy legal: the parent exists in the same
// category, no cycle forms through selfID, and no node ends up deeper than
// MaxTagDepth. Caller must hold the lock.
func (m *Manager) validateParentLocked(categoryID, parentID, selfID string, height int) error {
	parent, ok := m.tags[parentID]
	if !ok {
		return schemas.NewValidationError("tag or parent tag not found")
	}
	if parent.CategoryID != categoryID {
		return schemas.NewValidationError(schemas.MsgParentCategoryMismatch)
	}
	if selfID != "" && m.wouldCycleLocked(selfID, parentID) {
		return schemas.NewValidationError(schemas.MsgCircularReference)
	}
	if m.tagLevelLocked(parentID)+height > schemas.MaxTagDepth {
		return schemas.NewValidationError(schemas.MsgHierarchyTooDeep)
	}
	return nil
}

// wouldCycleLocked walks the ancestor chain of parentID looking for selfID.
// A visited set guards against pre-existing corruption in stored data.
func (m *Manager) wouldCycleLocked(selfID, parentID string) bool {
	if selfID == parentID {
		return true
	}
	visited := make(map[string]bool)
	current := parentID
	for current != "" {
		if visited[current] {
			return true
		}
		visited[current] = true
		if current == selfID {
			return true
		}
		tag, ok := m.tags[current]
		if !ok {
			return false
		}
		current = tag.ParentTagID
	}
	return false
}

// tagLevelLocked is the 1-based depth of a tag from its root.
func (m *Manager) tagLevelLocked(id string) int {
	level := 0
	visited := make(map[string]bool)
	current := id
	for current != "" && !visited[current] {
		visited[current] = true
		tag, ok := m.tags[current]
		if !ok {
			break
		}
		level++
		current = tag.ParentTagID
	}
	return level
}

// subtreeHeightLocked is the height of the subtree rooted at id (a leaf has
// height 1).
func (m *Manager) subtreeHeightLocked(id string) int {
	height := 1
	for childID, child := range m.tags {
		if child.ParentTagID == id {
			if h := m.subtreeHeightLocked(childID) + 1; h > height {
				height = h
			}
		}
	}
	return height
}

// validateTagName trims and bounds a tag name.
func validateTagName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) == 0 {
		return "", schemas.NewValidationError(schemas.MsgTagNameEmpty)
	}
	if len([]rune(trimmed)) > 50 {
		return "", schemas.NewValidationError(schemas.MsgTagNameTooLong)
	}
	return trimmed, nil
}

// nextColor yields a hex color from a golden-angle HSL rotation so generated
// categories stay visually distinct. Caller must hold the lock.
func (m *Manager) nextColor() string {
	hue := math.Mod(float64(m.colorIndex)*137.508, 360)
	saturation := 65 + float64(m.colorIndex%3)*10
	lightness := 50 + float64(m.colorIndex%2)*10
	m.colorIndex++
	return hslToHex(hue, saturation, lightness)
}

// hslToHex converts HSL (degrees, percent, percent) to a #RRGGBB string.
func hslToHex(h, s, l float64) string {
	l /= 100
	a := s * math.Min(l, 1-l) / 100
	f := func(n float64) int {
		k := math.Mod(n+h/30, 12)
		color := l - a*math.Max(math.Min(math.Min(k-3, 9-k), 1), -1)
		return int(math.Round(255 * color))
	}
	return fmt.Sprintf("#%02x%02x%02x", f(0), f(8), f(4))
}

package schemas

import (
	"fmt"
	"time"
)

// RoomRef identifies a room by its structural position. It is used directly
// as a map key, so building names containing hyphens never need to be parsed
// back out of a concatenated string.
type RoomRef struct {
	Building string `json:"building"`
	Floor    int    `json:"floor"`
	Room     string `json:"room"`
}

// String renders the ref for logs and messages. Display only - never parsed.
func (r RoomRef) String() string {
	return fmt.Sprintf("%s-%d-%s", r.Building, r.Floor, r.Room)
}

// Tag is a user- or system-defined label attached to rooms. A tag belongs to
// exactly one category and may have one parent tag in the same category; the
// parent chain is cycle-free with depth at most MaxTagDepth.
type Tag struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
	// ParentTagID is empty for root tags.
	ParentTagID string    `json:"parentTagId,omitempty"`
	Color       string    `json:"color"`
	IsSystem    bool      `json:"isSystem"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TagCategory groups tags and supplies the color they inherit at creation.
type TagCategory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	IsSystem  bool      `json:"isSystem"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoomTagAssociation links one room to the set of tags applied to it. A room
// with zero tags has no association record at all.
type RoomTagAssociation struct {
	Room      RoomRef   `json:"room"`
	TagIDs    []string  `json:"tagIds"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TagSnapshot is the complete persisted tag store, and also the exact shape
// produced by export and consumed by import.
type TagSnapshot struct {
	Categories       map[string]TagCategory `json:"categories"`
	Tags             map[string]Tag         `json:"tags"`
	RoomAssociations []RoomTagAssociation   `json:"roomAssociations"`
	Version          int                    `json:"version"`
}

// TagStatistic reports usage of a single tag.
type TagStatistic struct {
	Tag          Tag    `json:"tag"`
	CategoryName string `json:"categoryName"`
	UsageCount   int    `json:"usageCount"`
}

// TagSearchResult is one room matched by a tag search, with the tags that
// matched and a relevance score (higher is better).
type TagSearchResult struct {
	Type        SearchResultType `json:"type"`
	Name        string           `json:"name"`
	Building    string           `json:"building"`
	Floor       int              `json:"floor"`
	RoomNumber  string           `json:"roomNumber"`
	Tags        []Tag            `json:"tags"`
	MatchedTags []Tag            `json:"matchedTags"`
	Relevance   int              `json:"relevance"`
}

// MaxTagDepth is the maximum hierarchy depth; a root tag has depth 1.
const MaxTagDepth = 3

// -- Error taxonomy --

// ValidationError signals bad input or an invariant violation (empty name,
// duplicate tag, cross-category parent, cycle, over-deep hierarchy, mutation
// of a system entity). Callers present these inline.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StorageError signals a persistence failure, kept distinct from validation
// errors so the caller can suggest freeing space instead of fixing input.
type StorageError struct {
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error { return e.Err }

// Canonical validation messages, matching the user-facing strings the UI
// layer shows inline.
const (
	MsgTagNameEmpty           = "tag name cannot be empty"
	MsgTagNameTooLong         = "tag name must be 50 characters or less"
	MsgTagDuplicate           = "a tag with this name already exists in this category"
	MsgCategoryNotFound       = "the selected category does not exist"
	MsgHierarchyTooDeep       = "tag hierarchy cannot exceed 3 levels"
	MsgCircularReference      = "cannot create circular tag reference"
	MsgStorageFull            = "storage limit reached, delete some tags or rooms"
	MsgImportInvalid          = "invalid tag data format"
	MsgSystemTagDelete        = "system tags cannot be deleted"
	MsgSystemTagModify        = "system tags cannot be modified"
	MsgParentCategoryMismatch = "parent tag must be in the same category"
)

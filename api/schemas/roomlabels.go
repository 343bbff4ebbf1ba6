package schemas

import "time"

// RoomLabel is the free-text annotation record for one room. Labels are
// unique per room; a room whose label list empties loses its record
// entirely.
type RoomLabel struct {
	Room      RoomRef   `json:"room"`
	Labels    []string  `json:"labels"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LabelSnapshot is the complete persisted label store and the export/import
// payload shape.
type LabelSnapshot struct {
	Rooms   []RoomLabel `json:"rooms"`
	Version int         `json:"version"`
}

// MaxLabelLength bounds a single label's length in characters.
const MaxLabelLength = 50

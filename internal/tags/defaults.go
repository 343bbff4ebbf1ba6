package tags

import (
	"time"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

// System categories and tags seeded on first use. Their ids are stable so
// exports remain portable between installations.

type seedCategory struct {
	ID    string
	Name  string
	Color string
	Icon  string
}

type seedTag struct {
	ID         string
	Name       string
	CategoryID string
}

var defaultCategories = []seedCategory{
	{ID: "cat-activities", Name: "Activities", Color: "#3B82F6", Icon: "🎯"},
	{ID: "cat-facilities", Name: "Facilities", Color: "#10B981", Icon: "🏢"},
	{ID: "cat-accessibility", Name: "Accessibility", Color: "#8B5CF6", Icon: "♿"},
	{ID: "cat-amenities", Name: "Amenities", Color: "#F59E0B", Icon: "⭐"},
}

var defaultTags = []seedTag{
	// Activities
	{ID: "tag-dance", Name: "Dance Club", CategoryID: "cat-activities"},
	{ID: "tag-music", Name: "Music Club", CategoryID: "cat-activities"},
	{ID: "tag-art", Name: "Art Club", CategoryID: "cat-activities"},
	{ID: "tag-robotics", Name: "Robotics Club", CategoryID: "cat-activities"},
	{ID: "tag-drama", Name: "Drama Club", CategoryID: "cat-activities"},

	// Facilities
	{ID: "tag-lab", Name: "Laboratory", CategoryID: "cat-facilities"},
	{ID: "tag-workshop", Name: "Workshop", CategoryID: "cat-facilities"},
	{ID: "tag-study", Name: "Study Room", CategoryID: "cat-facilities"},
	{ID: "tag-meeting", Name: "Meeting Room", CategoryID: "cat-facilities"},
	{ID: "tag-lounge", Name: "Lounge", CategoryID: "cat-facilities"},

	// Accessibility
	{ID: "tag-wheelchair", Name: "Wheelchair Accessible", CategoryID: "cat-accessibility"},
	{ID: "tag-elevator", Name: "Elevator Access", CategoryID: "cat-accessibility"},
	{ID: "tag-ramp", Name: "Ramp Available", CategoryID: "cat-accessibility"},

	// Amenities
	{ID: "tag-wifi", Name: "WiFi Available", CategoryID: "cat-amenities"},
	{ID: "tag-projector", Name: "Projector", CategoryID: "cat-amenities"},
	{ID: "tag-whiteboard", Name: "Whiteboard", CategoryID: "cat-amenities"},
	{ID: "tag-ac", Name: "Air Conditioning", CategoryID: "cat-amenities"},
}

// defaultSnapshot builds a freshly seeded store. Every system tag inherits
// its category's color.
func defaultSnapshot(now time.Time) *schemas.TagSnapshot {
	snapshot := &schemas.TagSnapshot{
		Categories: make(map[string]schemas.TagCategory, len(defaultCategories)),
		Tags:       make(map[string]schemas.Tag, len(defaultTags)),
		Version:    CurrentVersion,
	}

	for _, c := range defaultCategories {
		snapshot.Categories[c.ID] = schemas.TagCategory{
			ID:        c.ID,
			Name:      c.Name,
			Color:     c.Color,
			Icon:      c.Icon,
			IsSystem:  true,
			CreatedAt: now,
		}
	}
	for _, t := range defaultTags {
		snapshot.Tags[t.ID] = schemas.Tag{
			ID:         t.ID,
			Name:       t.Name,
			CategoryID: t.CategoryID,
			Color:      snapshot.Categories[t.CategoryID].Color,
			IsSystem:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	return snapshot
}

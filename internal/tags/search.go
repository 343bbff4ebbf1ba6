package tags

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

// SearchService answers tag-based room queries against a Manager.
type SearchService struct {
	manager *Manager
	log     *zap.Logger
}

// NewSearchService creates a search service over the given manager.
func NewSearchService(manager *Manager, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{manager: manager, log: logger.Named("tag_search")}
}

// SearchByTag finds rooms whose tags match the query by name. An exact name
// match scores 100, a prefix match 50 and a substring match 25, all
// case-insensitive; matched system tags add 5 each and every matched tag
// adds a further 10. Results come back sorted by relevance, best first.
func (s *SearchService) SearchByTag(query string) []schemas.TagSearchResult {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}

	var results []schemas.TagSearchResult
	for _, assoc := range s.manager.AllRoomAssociations() {
		tags := s.manager.RoomTags(assoc.Room)

		var matched []schemas.Tag
		relevance := 0
		for _, tag := range tags {
			name := strings.ToLower(tag.Name)
			score := 0
			switch {
			case name == query:
				score = 100
			case strings.HasPrefix(name, query):
				score = 50
			case strings.Contains(name, query):
				score = 25
			}
			if score == 0 {
				continue
			}
			if tag.IsSystem {
				score += 5
			}
			relevance += score
			matched = append(matched, tag)
		}
		if len(matched) == 0 {
			continue
		}
		relevance += 10 * len(matched)

		results = append(results, schemas.TagSearchResult{
			Type:        schemas.ResultRoom,
			Name:        assoc.Room.Room,
			Building:    assoc.Room.Building,
			Floor:       assoc.Room.Floor,
			RoomNumber:  assoc.Room.Room,
			Tags:        tags,
			MatchedTags: matched,
			Relevance:   relevance,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Relevance != results[j].Relevance {
			return results[i].Relevance > results[j].Relevance
		}
		return results[i].RoomNumber < results[j].RoomNumber
	})
	return results
}

// SearchByMultipleTags finds rooms carrying every one of the given tag ids.
// Relevance is the number of required tags, so results with more shared tags
// do not outrank exact conjunctive matches.
func (s *SearchService) SearchByMultipleTags(tagIDs []string) []schemas.TagSearchResult {
	if len(tagIDs) == 0 {
		return nil
	}

	var results []schemas.TagSearchResult
	for _, assoc := range s.manager.AllRoomAssociations() {
		if !containsAll(assoc.TagIDs, tagIDs) {
			continue
		}
		tags := s.manager.RoomTags(assoc.Room)
		matched := make([]schemas.Tag, 0, len(tagIDs))
		for _, tag := range tags {
			for _, want := range tagIDs {
				if tag.ID == want {
					matched = append(matched, tag)
					break
				}
			}
		}
		results = append(results, schemas.TagSearchResult{
			Type:        schemas.ResultRoom,
			Name:        assoc.Room.Room,
			Building:    assoc.Room.Building,
			Floor:       assoc.Room.Floor,
			RoomNumber:  assoc.Room.Room,
			Tags:        tags,
			MatchedTags: matched,
			Relevance:   len(tagIDs),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RoomNumber < results[j].RoomNumber
	})
	return results
}

// RoomsByTagFilter lists rooms matching the tag id filter. With matchAll set
// a room needs every listed tag, otherwise any one suffices. An empty filter
// returns every tagged room.
func (s *SearchService) RoomsByTagFilter(tagIDs []string, matchAll bool) []schemas.RoomRef {
	var rooms []schemas.RoomRef
	for _, assoc := range s.manager.AllRoomAssociations() {
		switch {
		case len(tagIDs) == 0:
			rooms = append(rooms, assoc.Room)
		case matchAll && containsAll(assoc.TagIDs, tagIDs):
			rooms = append(rooms, assoc.Room)
		case !matchAll && containsAny(assoc.TagIDs, tagIDs):
			rooms = append(rooms, assoc.Room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].String() < rooms[j].String() })
	return rooms
}

// AllTaggedRooms lists every room with at least one tag.
func (s *SearchService) AllTaggedRooms() []schemas.RoomRef {
	return s.RoomsByTagFilter(nil, false)
}

// SearchTags finds tags by case-insensitive name substring.
func (s *SearchService) SearchTags(query string) []schemas.Tag {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}
	var out []schemas.Tag
	for _, tag := range s.manager.AllTags() {
		if strings.Contains(strings.ToLower(tag.Name), query) {
			out = append(out, tag)
		}
	}
	return out
}

func containsAll(haystack, needles []string) bool {
	for _, want := range needles {
		found := false
		for _, have := range haystack {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsAny(haystack, needles []string) bool {
	for _, want := range needles {
		for _, have := range haystack {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Package search combines the campus graph, the room directory and the room
// labels into one query surface.
package search

import (
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
	"github.com/xkilldash9x/campus-nav/internal/campus"
	"github.com/xkilldash9x/campus-nav/internal/labels"
)

// Service answers unified text searches. Buildings come first, then rooms,
// then label hits; an empty query matches nothing.
type Service struct {
	graph     *campus.Graph
	directory *campus.Directory
	labels    *labels.Manager
	log       *zap.Logger
}

// NewService wires the three sources together. The label manager may be nil
// when labels are disabled.
func NewService(graph *campus.Graph, directory *campus.Directory, labelManager *labels.Manager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		graph:     graph,
		directory: directory,
		labels:    labelManager,
		log:       logger.Named("search"),
	}
}

// Search runs the combined query. Each labeled room appears at most once,
// with the first label that matched.
func (s *Service) Search(query string) []schemas.SearchResult {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}

	var results []schemas.SearchResult

	for _, name := range s.graph.SearchBuildings(trimmed) {
		results = append(results, schemas.SearchResult{
			Type: schemas.ResultBuilding,
			Name: name,
		})
	}

	for _, room := range s.directory.SearchRooms(trimmed) {
		result := schemas.SearchResult{
			Type:       schemas.ResultRoom,
			Name:       room.RoomNumber,
			Building:   room.Block,
			Floor:      room.Floor,
			RoomNumber: room.RoomNumber,
		}
		if s.labels != nil {
			result.Labels = s.labels.Labels(roomRef(room))
		}
		results = append(results, result)
	}

	if s.labels != nil {
		results = append(results, s.labelMatches(trimmed, results)...)
	}

	s.log.Debug("Search completed",
		zap.String("query", trimmed),
		zap.Int("results", len(results)))
	return results
}

// labelMatches finds rooms whose labels contain the query, skipping rooms
// the direct room search already surfaced.
func (s *Service) labelMatches(query string, existing []schemas.SearchResult) []schemas.SearchResult {
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		if r.Type == schemas.ResultRoom {
			seen[r.RoomNumber] = true
		}
	}

	lower := strings.ToLower(query)
	var out []schemas.SearchResult
	for _, record := range s.labels.AllLabeledRooms() {
		if seen[record.Room.Room] {
			continue
		}
		for _, label := range record.Labels {
			if !strings.Contains(strings.ToLower(label), lower) {
				continue
			}
			out = append(out, schemas.SearchResult{
				Type:         schemas.ResultRoom,
				Name:         record.Room.Room,
				Building:     record.Room.Building,
				Floor:        record.Room.Floor,
				RoomNumber:   record.Room.Room,
				Labels:       record.Labels,
				MatchedLabel: label,
			})
			break
		}
	}
	return out
}

func roomRef(room schemas.Room) schemas.RoomRef {
	return schemas.RoomRef{
		Building: room.Block,
		Floor:    room.Floor,
		Room:     room.RoomNumber,
	}
}

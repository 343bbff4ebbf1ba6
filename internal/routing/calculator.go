package routing

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
	"github.com/xkilldash9x/campus-nav/internal/campus"
)

// Calculator finds shortest building-to-building paths over the campus
// graph. Every edge has unit cost, so breadth-first search is exact; the
// first path to touch the destination wins, and ties between equal-length
// paths fall to adjacency insertion order.
type Calculator struct {
	graph *campus.Graph
	log   *zap.Logger
}

// NewCalculator creates a route calculator over the given graph.
func NewCalculator(graph *campus.Graph, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{
		graph: graph,
		log:   logger.Named("route_calculator"),
	}
}

// frontierEntry carries a node together with the path that reached it.
type frontierEntry struct {
	node string
	path []string
}

// FindRoute returns the shortest path between two buildings by hop count.
// It returns nil when either endpoint is not a known node - the caller must
// treat that as "route unavailable", distinct from "no path exists", which
// is reported as an unsuccessful RouteResult.
func (c *Calculator) FindRoute(start, end string) *schemas.RouteResult {
	if start == end {
		return &schemas.RouteResult{Path: []string{start}, Distance: 0, Success: true}
	}

	if c.graph.BuildingInfo(start) == nil || c.graph.BuildingInfo(end) == nil {
		c.log.Debug("Route requested for unknown node",
			zap.String("start", start), zap.String("end", end))
		return nil
	}

	queue := []frontierEntry{{node: start, path: []string{start}}}
	visited := map[string]bool{start: true}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighbor := range c.graph.Neighbors(current.node) {
			if neighbor == end {
				path := append(append([]string{}, current.path...), neighbor)
				return &schemas.RouteResult{
					Path:     path,
					Distance: len(path) - 1,
					Success:  true,
				}
			}
			if !visited[neighbor] {
				visited[neighbor] = true
				next := append(append([]string{}, current.path...), neighbor)
				queue = append(queue, frontierEntry{node: neighbor, path: next})
			}
		}
	}

	// Frontier exhausted without touching end: the nodes are disconnected.
	return &schemas.RouteResult{Path: []string{}, Distance: 0, Success: false}
}

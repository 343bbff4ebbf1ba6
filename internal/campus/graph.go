package campus

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

// Graph holds the static campus node set plus a bidirectional adjacency
// index. It is built once at startup and read-only afterwards; neighbor
// order follows edge declaration order, which keeps route tie-breaking
// deterministic.
type Graph struct {
	data      schemas.GraphData
	adjacency map[string][]string
	log       *zap.Logger
}

// NewGraph builds the adjacency index for the given dataset.
func NewGraph(data schemas.GraphData, logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Graph{
		data:      data,
		adjacency: make(map[string][]string, len(data.Nodes)),
		log:       logger.Named("campus_graph"),
	}

	for name := range data.Nodes {
		g.adjacency[name] = nil
	}
	for _, edge := range data.Edges {
		a, b := edge[0], edge[1]
		if _, ok := g.adjacency[a]; !ok {
			g.log.Warn("Edge references unknown node, skipping", zap.String("node", a))
			continue
		}
		if _, ok := g.adjacency[b]; !ok {
			g.log.Warn("Edge references unknown node, skipping", zap.String("node", b))
			continue
		}
		g.adjacency[a] = append(g.adjacency[a], b)
		g.adjacency[b] = append(g.adjacency[b], a)
	}

	g.log.Debug("Campus graph built",
		zap.Int("nodes", len(data.Nodes)),
		zap.Int("edges", len(data.Edges)))
	return g
}

// Buildings returns all node names in sorted order.
func (g *Graph) Buildings() []string {
	names := make([]string, 0, len(g.data.Nodes))
	for name := range g.data.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Neighbors returns the nodes directly connected to the given building, in
// adjacency insertion order. Unknown buildings yield an empty list.
func (g *Graph) Neighbors(name string) []string {
	return g.adjacency[name]
}

// BuildingInfo returns the node for a building, or nil if it is unknown.
func (g *Graph) BuildingInfo(name string) *schemas.BuildingNode {
	node, ok := g.data.Nodes[name]
	if !ok {
		return nil
	}
	return &node
}

// SearchBuildings performs a case-insensitive substring match over building
// names. An empty query returns every building - intentionally asymmetric
// with the room directory, where an empty query returns nothing.
func (g *Graph) SearchBuildings(query string) []string {
	buildings := g.Buildings()
	if strings.TrimSpace(query) == "" {
		return buildings
	}

	lower := strings.ToLower(query)
	matches := make([]string, 0, len(buildings))
	for _, name := range buildings {
		if strings.Contains(strings.ToLower(name), lower) {
			matches = append(matches, name)
		}
	}
	return matches
}

// AllNodes exposes the raw node map for read-only consumers (map export).
func (g *Graph) AllNodes() map[string]schemas.BuildingNode {
	return g.data.Nodes
}

// AllEdges exposes the raw edge list for read-only consumers.
func (g *Graph) AllEdges() [][2]string {
	return g.data.Edges
}

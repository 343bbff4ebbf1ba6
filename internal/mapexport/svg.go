// Package mapexport renders the campus graph as a standalone SVG map.
package mapexport

import (
	"fmt"
	"os"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
	"github.com/xkilldash9x/campus-nav/internal/campus"
)

// Colors per building type, matching the interactive map palette.
var typeColors = map[schemas.BuildingType]string{
	schemas.BuildingAcademic:       "#3B82F6",
	schemas.BuildingCanteen:        "#F59E0B",
	schemas.BuildingRecreational:   "#10B981",
	schemas.BuildingFacility:       "#6B7280",
	schemas.BuildingHostels:        "#8B5CF6",
	schemas.BuildingAdministrative: "#EF4444",
}

// Renderer draws the graph; an optional highlighted path is stroked on top.
type Renderer struct {
	graph *campus.Graph
	log   *zap.Logger
}

// NewRenderer creates a renderer over the given graph.
func NewRenderer(graph *campus.Graph, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{graph: graph, log: logger.Named("mapexport")}
}

// Render builds the SVG document. Edges on the highlighted path are drawn
// thicker and in a distinct color; pass nil for a plain map.
func (r *Renderer) Render(highlightPath []string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("viewBox", fmt.Sprintf("0 0 %d %d", campus.MapViewBox.Width, campus.MapViewBox.Height))

	background := svg.CreateElement("rect")
	background.CreateAttr("width", "100%")
	background.CreateAttr("height", "100%")
	background.CreateAttr("fill", "#F8FAFC")

	onPath := pathEdgeSet(highlightPath)

	edges := svg.CreateElement("g")
	edges.CreateAttr("id", "edges")
	for _, edge := range r.graph.AllEdges() {
		from := r.graph.BuildingInfo(edge[0])
		to := r.graph.BuildingInfo(edge[1])
		if from == nil || to == nil {
			continue
		}

		line := edges.CreateElement("line")
		line.CreateAttr("x1", fmt.Sprintf("%d", from.X))
		line.CreateAttr("y1", fmt.Sprintf("%d", from.Y))
		line.CreateAttr("x2", fmt.Sprintf("%d", to.X))
		line.CreateAttr("y2", fmt.Sprintf("%d", to.Y))
		if onPath[edgeKey(edge[0], edge[1])] {
			line.CreateAttr("stroke", "#DC2626")
			line.CreateAttr("stroke-width", "5")
		} else {
			line.CreateAttr("stroke", "#CBD5E1")
			line.CreateAttr("stroke-width", "2")
		}
	}

	nodes := svg.CreateElement("g")
	nodes.CreateAttr("id", "nodes")
	for name, node := range r.graph.AllNodes() {
		color, ok := typeColors[node.Type]
		if !ok {
			color = "#6B7280"
		}

		circle := nodes.CreateElement("circle")
		circle.CreateAttr("cx", fmt.Sprintf("%d", node.X))
		circle.CreateAttr("cy", fmt.Sprintf("%d", node.Y))
		circle.CreateAttr("r", "14")
		circle.CreateAttr("fill", color)
		circle.CreateAttr("stroke", "#FFFFFF")
		circle.CreateAttr("stroke-width", "2")

		label := nodes.CreateElement("text")
		label.CreateAttr("x", fmt.Sprintf("%d", node.X))
		label.CreateAttr("y", fmt.Sprintf("%d", node.Y+30))
		label.CreateAttr("text-anchor", "middle")
		label.CreateAttr("font-family", "sans-serif")
		label.CreateAttr("font-size", "13")
		label.CreateAttr("fill", "#1E293B")
		if node.Emoji != "" {
			label.SetText(fmt.Sprintf("%s %s", node.Emoji, name))
		} else {
			label.SetText(name)
		}
	}

	return doc
}

// WriteFile renders and writes the map to the given path.
func (r *Renderer) WriteFile(path string, highlightPath []string) error {
	doc := r.Render(highlightPath)
	doc.Indent(2)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create map file: %w", err)
	}
	defer f.Close()

	if _, err := doc.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}
	r.log.Info("Campus map exported", zap.String("path", path))
	return nil
}

// pathEdgeSet marks both directions of every consecutive pair on the path.
func pathEdgeSet(path []string) map[string]bool {
	set := make(map[string]bool)
	for i := 0; i+1 < len(path); i++ {
		set[edgeKey(path[i], path[i+1])] = true
		set[edgeKey(path[i+1], path[i])] = true
	}
	return set
}

func edgeKey(a, b string) string {
	return a + "\x00" + b
}

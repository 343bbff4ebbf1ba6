package mapexport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/internal/campus"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	graph := campus.NewGraph(campus.DefaultGraphData(), zap.NewNop())
	return NewRenderer(graph, zap.NewNop())
}

func selectGroup(t *testing.T, svg *etree.Element, id string) *etree.Element {
	t.Helper()
	for _, g := range svg.SelectElements("g") {
		if g.SelectAttrValue("id", "") == id {
			return g
		}
	}
	t.Fatalf("no <g id=%q> in document", id)
	return nil
}

func TestRenderDocumentStructure(t *testing.T) {
	r := newTestRenderer(t)

	doc := r.Render(nil)
	svg := doc.SelectElement("svg")
	require.NotNil(t, svg)
	assert.Equal(t, "0 0 600 1100", svg.SelectAttrValue("viewBox", ""))

	edges := selectGroup(t, svg, "edges")
	assert.Len(t, edges.SelectElements("line"), 17)

	nodes := selectGroup(t, svg, "nodes")
	assert.Len(t, nodes.SelectElements("circle"), 13)
	assert.Len(t, nodes.SelectElements("text"), 13)
}

func TestRenderHighlightsPath(t *testing.T) {
	r := newTestRenderer(t)

	doc := r.Render([]string{"Block A", "Block B", "Block C"})
	svg := doc.SelectElement("svg")
	require.NotNil(t, svg)

	highlighted := 0
	for _, line := range selectGroup(t, svg, "edges").SelectElements("line") {
		if line.SelectAttrValue("stroke", "") == "#DC2626" {
			highlighted++
			assert.Equal(t, "5", line.SelectAttrValue("stroke-width", ""))
		}
	}
	assert.Equal(t, 2, highlighted)
}

func TestWriteFile(t *testing.T) {
	r := newTestRenderer(t)
	path := filepath.Join(t.TempDir(), "campus.svg")

	require.NoError(t, r.WriteFile(path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.True(t, strings.HasPrefix(content, "<?xml"))
	assert.Contains(t, content, "<svg")
	assert.Contains(t, content, "JSK Greens")
}

package campus

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

// DefaultGraphData returns the built-in campus dataset. Edge order matters:
// it fixes the adjacency insertion order used for BFS tie-breaking.
func DefaultGraphData() schemas.GraphData {
	return schemas.GraphData{
		Nodes: map[string]schemas.BuildingNode{
			"Block P": {
				Name: "Block P", Type: schemas.BuildingAcademic, Emoji: "🏢",
				X: 300, Y: 80, Description: "Block P", Floors: 4,
			},
			"Block D": {
				Name: "Block D", Type: schemas.BuildingAcademic, Emoji: "🏢",
				X: 150, Y: 80, Description: "Block D", Floors: 5,
			},
			"JSK Greens": {
				Name: "JSK Greens", Type: schemas.BuildingRecreational, Emoji: "🌳",
				X: 300, Y: 200, Description: "JSK Greens - Central green space", Floors: 0,
			},
			"Block E": {
				Name: "Block E", Type: schemas.BuildingAcademic, Emoji: "🏢",
				X: 200, Y: 320, Description: "Block E (moved to left side)", Floors: 5,
			},
			"Block A": {
				Name: "Block A", Type: schemas.BuildingAcademic, Emoji: "🏢",
				X: 450, Y: 320, Description: "Block A (right side)", Floors: 4,
			},
			"Block B": {
				Name: "Block B", Type: schemas.BuildingAcademic, Emoji: "🏢",
				X: 450, Y: 420, Description: "Block B (right side)", Floors: 4,
			},
			"Block C": {
				Name: "Block C", Type: schemas.BuildingAcademic, Emoji: "🏢",
				X: 450, Y: 520, Description: "Block C (right side)", Floors: 3,
			},
			"Annapurna Canteen": {
				Name: "Annapurna Canteen", Type: schemas.BuildingCanteen, Emoji: "🍽️",
				X: 450, Y: 620, Description: "Annapurna Canteen (right side)", Floors: 0,
			},
			"SAC Stage": {
				Name: "SAC Stage", Type: schemas.BuildingRecreational, Emoji: "🎪",
				X: 450, Y: 720, Description: "SAC Stage (right side)", Floors: 0,
			},
			"Scinti Stage": {
				Name: "Scinti Stage", Type: schemas.BuildingRecreational, Emoji: "🎤",
				X: 450, Y: 820, Description: "Scinti Stage (right side)", Floors: 0,
			},
			"Coca-Cola Canteen": {
				Name: "Coca-Cola Canteen", Type: schemas.BuildingCanteen, Emoji: "🥤",
				X: 350, Y: 820, Description: "Coca-Cola Canteen (left of Scinti Stage)", Floors: 0,
			},
			"Ground": {
				Name: "Ground", Type: schemas.BuildingRecreational, Emoji: "🏟️",
				X: 450, Y: 1000, Description: "Ground (right side)", Floors: 0,
			},
			"PEB Block": {
				Name: "PEB Block", Type: schemas.BuildingFacility, Emoji: "🏗️",
				X: 450, Y: 1080, Description: "PEB Block (right side)", Floors: 0,
			},
		},
		Edges: [][2]string{
			{"Block A", "Block B"},
			{"Block B", "Block C"},
			{"Block D", "JSK Greens"},
			{"Block D", "Block E"},
			{"Block P", "JSK Greens"},
			{"JSK Greens", "Block A"},
			{"Block C", "Annapurna Canteen"},
			{"Annapurna Canteen", "SAC Stage"},
			{"SAC Stage", "Scinti Stage"},
			{"Scinti Stage", "Ground"},
			{"Scinti Stage", "Coca-Cola Canteen"},
			{"Ground", "PEB Block"},
			{"Block E", "Block A"},
			{"Block E", "Block B"},
			{"Block E", "Block C"},
			{"Block E", "Annapurna Canteen"},
			{"Block E", "Coca-Cola Canteen"},
		},
	}
}

// MapViewBox is the coordinate space the node positions live in.
var MapViewBox = struct {
	Width  int
	Height int
}{Width: 600, Height: 1100}

// LoadGraphData reads a campus dataset from a JSON file. Used when the
// deployment overrides the built-in campus.
func LoadGraphData(path string) (schemas.GraphData, error) {
	var data schemas.GraphData

	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("failed to read campus dataset: %w", err)
	}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("failed to parse campus dataset: %w", err)
	}
	if len(data.Nodes) == 0 {
		return data, fmt.Errorf("campus dataset %s contains no nodes", path)
	}
	for _, edge := range data.Edges {
		for _, name := range edge {
			if _, ok := data.Nodes[name]; !ok {
				return data, fmt.Errorf("edge references unknown node %q", name)
			}
		}
	}
	return data, nil
}

package schemas

// -- Campus Graph Data Model --

// BuildingType categorizes a campus location node.
type BuildingType string

const (
	BuildingAcademic       BuildingType = "academic"
	BuildingCanteen        BuildingType = "canteen"
	BuildingRecreational   BuildingType = "recreational"
	BuildingFacility       BuildingType = "facility"
	BuildingHostels        BuildingType = "hostels"
	BuildingAdministrative BuildingType = "administrative"
)

// BuildingNode is one named campus location. Nodes are loaded once from the
// static dataset and never mutated at runtime.
type BuildingNode struct {
	Name        string       `json:"name"`
	Type        BuildingType `json:"type"`
	Emoji       string       `json:"emoji,omitempty"`
	X           int          `json:"x"`
	Y           int          `json:"y"`
	Description string       `json:"description,omitempty"`
	// Floors is the number of floors above ground. Zero means a ground-only
	// structure or an open location.
	Floors int `json:"floors"`
}

// GraphData is the full static campus dataset: the node set plus the
// undirected, unweighted edge list. Edge order is significant - it drives the
// adjacency insertion order and therefore BFS tie-breaking.
type GraphData struct {
	Nodes map[string]BuildingNode `json:"nodes"`
	Edges [][2]string             `json:"edges"`
}

// RouteResult is the outcome of a building-level shortest path search.
// An empty Path with Success=false means the two nodes are not connected.
type RouteResult struct {
	Path     []string `json:"path"`
	Distance int      `json:"distance"`
	Success  bool     `json:"success"`
}

// Room is a single room inside a block, or a special location modeled as a
// pseudo-room. Rooms are derived deterministically from the dataset and are
// never persisted.
type Room struct {
	// RoomNumber is "<BlockLetter>-<Floor><SeqNo>" (e.g. "E-203") for
	// ordinary rooms, or the location's own name for special locations.
	RoomNumber  string `json:"roomNumber"`
	Floor       int    `json:"floor"`
	Block       string `json:"block"`
	Description string `json:"description,omitempty"`
}

// Sentinel block categories used by special locations (canteens, grounds,
// stages) that are modeled as single pseudo-rooms.
const (
	BlockCanteen      = "Canteen"
	BlockRecreational = "Recreational"
)

// SearchResultType discriminates entries in a combined search result set.
type SearchResultType string

const (
	ResultBuilding SearchResultType = "building"
	ResultRoom     SearchResultType = "room"
)

// SearchResult is one entry of a unified building/room/label search.
type SearchResult struct {
	Type         SearchResultType `json:"type"`
	Name         string           `json:"name"`
	Building     string           `json:"building,omitempty"`
	Floor        int              `json:"floor,omitempty"`
	RoomNumber   string           `json:"roomNumber,omitempty"`
	Labels       []string         `json:"labels,omitempty"`
	MatchedLabel string           `json:"matchedLabel,omitempty"`
}

package schemas

// StepType identifies the kind of movement a single navigation step describes.
type StepType string

const (
	StepRoom       StepType = "room"
	StepCorridor   StepType = "corridor"
	StepStairs     StepType = "stairs"
	StepElevator   StepType = "elevator"
	StepBuilding   StepType = "building"
	StepCampusPath StepType = "campus_path"
)

// RoomLocation is a resolved navigational target. Building holds "Block <X>"
// for ordinary rooms and the location's own name for special locations; the
// navigator relies on that distinction to decide whether an exit/entry
// sequence is needed.
type RoomLocation struct {
	Building   string `json:"building"`
	Floor      int    `json:"floor"`
	RoomNumber string `json:"roomNumber"`
}

// NavigationStep is one human-readable instruction unit. Steps are produced
// fresh per route request and never mutated afterwards. Floor is nil for
// steps where a floor is not meaningful (stairs/elevator transitions and
// outdoor paths).
type NavigationStep struct {
	Type        StepType `json:"type"`
	Description string   `json:"description"`
	Building    string   `json:"building,omitempty"`
	Floor       *int     `json:"floor,omitempty"`
	Location    string   `json:"location,omitempty"`
}

// RoomToRoomRoute is the full result of one room-to-room navigation request.
type RoomToRoomRoute struct {
	Start         RoomLocation     `json:"start"`
	End           RoomLocation     `json:"end"`
	Steps         []NavigationStep `json:"steps"`
	TotalSteps    int              `json:"totalSteps"`
	EstimatedTime string           `json:"estimatedTime"`
}

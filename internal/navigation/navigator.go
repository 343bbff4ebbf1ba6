package navigation

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
	"github.com/xkilldash9x/campus-nav/internal/campus"
	"github.com/xkilldash9x/campus-nav/internal/routing"
)

// elevatorThreshold is the floor delta above which directions prefer the
// elevator over the stairs. Fixed policy, not configurable.
const elevatorThreshold = 2

// Navigator resolves room queries to structural positions and synthesizes
// step-by-step directions between two positions, delegating inter-building
// hops to the route calculator.
type Navigator struct {
	graph      *campus.Graph
	directory  *campus.Directory
	calculator *routing.Calculator
	log        *zap.Logger
}

// NewNavigator wires a navigator over the campus graph and room directory.
func NewNavigator(graph *campus.Graph, directory *campus.Directory, logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		graph:      graph,
		directory:  directory,
		calculator: routing.NewCalculator(graph, logger),
		log:        logger.Named("navigator"),
	}
}

// FindRoom resolves a room query to a location. Resolution order: exact
// room-number match, then case-insensitive exact match, then suffix match on
// "-<query>" so a bare "203" resolves to the first "X-203" in directory
// order. That last fallback is ambiguous across blocks; first match wins.
// Returns nil when nothing matches.
func (n *Navigator) FindRoom(query string) *schemas.RoomLocation {
	rooms := n.directory.AllRooms()

	match := func(pred func(schemas.Room) bool) *schemas.Room {
		for i := range rooms {
			if pred(rooms[i]) {
				return &rooms[i]
			}
		}
		return nil
	}

	room := match(func(r schemas.Room) bool { return r.RoomNumber == query })
	if room == nil {
		room = match(func(r schemas.Room) bool {
			return strings.EqualFold(r.RoomNumber, query)
		})
	}
	if room == nil {
		suffix := "-" + query
		room = match(func(r schemas.Room) bool {
			return strings.HasSuffix(r.RoomNumber, suffix)
		})
	}
	if room == nil {
		return nil
	}

	building := room.Block
	if room.Block == schemas.BlockCanteen || room.Block == schemas.BlockRecreational {
		// Special locations stand alone; the location name doubles as the
		// building name.
		building = room.RoomNumber
	}

	return &schemas.RoomLocation{
		Building:   building,
		Floor:      room.Floor,
		RoomNumber: room.RoomNumber,
	}
}

// isSpecial reports whether a resolved location is a standalone outdoor
// location rather than a room inside a block.
func (n *Navigator) isSpecial(loc *schemas.RoomLocation) bool {
	return n.directory.IsSpecialLocation(loc.Building)
}

// CalculateRoomRoute produces full directions between two room queries.
// It returns nil only when either endpoint fails to resolve; callers surface
// that as "location not found", never as an error.
func (n *Navigator) CalculateRoomRoute(fromQuery, toQuery string) *schemas.RoomToRoomRoute {
	start := n.FindRoom(fromQuery)
	end := n.FindRoom(toQuery)
	if start == nil || end == nil {
		n.log.Debug("Room route endpoint unresolved",
			zap.String("from", fromQuery), zap.String("to", toQuery))
		return nil
	}

	startSpecial := n.isSpecial(start)
	endSpecial := n.isSpecial(end)

	steps := []schemas.NavigationStep{startStep(start, startSpecial)}

	switch {
	case start.Building == end.Building && start.Floor == end.Floor:
		steps = append(steps, schemas.NavigationStep{
			Type:        schemas.StepCorridor,
			Description: fmt.Sprintf("Walk to %s", end.RoomNumber),
			Floor:       intPtr(start.Floor),
			Building:    start.Building,
		})
	case start.Building == end.Building:
		steps = n.appendFloorChange(steps, start, end)
	default:
		steps = n.appendLocationChange(steps, start, end, startSpecial, endSpecial)
	}

	steps = append(steps, arriveStep(end, endSpecial))

	minutes := n.estimateMinutes(start, end, len(steps))

	return &schemas.RoomToRoomRoute{
		Start:         *start,
		End:           *end,
		Steps:         steps,
		TotalSteps:    len(steps),
		EstimatedTime: fmt.Sprintf("%d min", minutes),
	}
}

func startStep(loc *schemas.RoomLocation, special bool) schemas.NavigationStep {
	desc := fmt.Sprintf("Start at Room %s", loc.RoomNumber)
	stepType := schemas.StepRoom
	if special {
		desc = fmt.Sprintf("Start at %s", loc.RoomNumber)
		stepType = schemas.StepCampusPath
	}
	return schemas.NavigationStep{
		Type:        stepType,
		Description: desc,
		Location:    loc.Building,
		Floor:       intPtr(loc.Floor),
		Building:    loc.Building,
	}
}

func arriveStep(loc *schemas.RoomLocation, special bool) schemas.NavigationStep {
	desc := fmt.Sprintf("Arrive at Room %s", loc.RoomNumber)
	stepType := schemas.StepRoom
	if special {
		desc = fmt.Sprintf("Arrive at %s", loc.RoomNumber)
		stepType = schemas.StepCampusPath
	}
	return schemas.NavigationStep{
		Type:        stepType,
		Description: desc,
		Location:    loc.Building,
		Floor:       intPtr(loc.Floor),
		Building:    loc.Building,
	}
}

// appendFloorChange emits the steps for a floor change inside one building:
// exit to the corridor, take stairs or the elevator, enter the destination
// corridor.
func (n *Navigator) appendFloorChange(steps []schemas.NavigationStep, start, end *schemas.RoomLocation) []schemas.NavigationStep {
	steps = append(steps, schemas.NavigationStep{
		Type:        schemas.StepCorridor,
		Description: fmt.Sprintf("Exit to corridor on %s", campus.FloorName(start.Floor)),
		Floor:       intPtr(start.Floor),
		Building:    start.Building,
	})

	delta := end.Floor - start.Floor
	if abs(delta) > elevatorThreshold {
		steps = append(steps, schemas.NavigationStep{
			Type: schemas.StepElevator,
			Description: fmt.Sprintf("Take elevator from %s to %s",
				campus.FloorName(start.Floor), campus.FloorName(end.Floor)),
			Building: start.Building,
		})
	} else {
		direction := "up"
		if delta < 0 {
			direction = "down"
		}
		steps = append(steps, schemas.NavigationStep{
			Type: schemas.StepStairs,
			Description: fmt.Sprintf("Take stairs %s from %s to %s",
				direction, campus.FloorName(start.Floor), campus.FloorName(end.Floor)),
			Building: start.Building,
		})
	}

	return append(steps, schemas.NavigationStep{
		Type:        schemas.StepCorridor,
		Description: fmt.Sprintf("Enter corridor on %s", campus.FloorName(end.Floor)),
		Floor:       intPtr(end.Floor),
		Building:    end.Building,
	})
}

// appendLocationChange emits the steps for crossing between two buildings or
// locations: exit sequence (ordinary rooms only), the campus path, then the
// entry sequence.
func (n *Navigator) appendLocationChange(steps []schemas.NavigationStep, start, end *schemas.RoomLocation, startSpecial, endSpecial bool) []schemas.NavigationStep {
	if !startSpecial {
		steps = append(steps, schemas.NavigationStep{
			Type:        schemas.StepCorridor,
			Description: fmt.Sprintf("Exit to corridor on %s", campus.FloorName(start.Floor)),
			Floor:       intPtr(start.Floor),
			Building:    start.Building,
		})
		if start.Floor != 0 {
			steps = append(steps, schemas.NavigationStep{
				Type:        schemas.StepStairs,
				Description: "Take stairs down to Ground Floor",
				Building:    start.Building,
			})
		}
		steps = append(steps, schemas.NavigationStep{
			Type:        schemas.StepBuilding,
			Description: fmt.Sprintf("Exit %s", start.Building),
			Building:    start.Building,
		})
	}

	route := n.calculator.FindRoute(start.Building, end.Building)
	if route != nil && route.Success && len(route.Path) > 2 {
		for _, via := range route.Path[1 : len(route.Path)-1] {
			steps = append(steps, schemas.NavigationStep{
				Type:        schemas.StepCampusPath,
				Description: fmt.Sprintf("Walk past %s", via),
				Location:    via,
			})
		}
	} else {
		steps = append(steps, schemas.NavigationStep{
			Type:        schemas.StepCampusPath,
			Description: fmt.Sprintf("Walk to %s", end.Building),
			Location:    end.Building,
		})
	}

	if !endSpecial {
		steps = append(steps, schemas.NavigationStep{
			Type:        schemas.StepBuilding,
			Description: fmt.Sprintf("Enter %s", end.Building),
			Building:    end.Building,
		})
		if end.Floor != 0 {
			if end.Floor > elevatorThreshold {
				steps = append(steps, schemas.NavigationStep{
					Type:        schemas.StepElevator,
					Description: fmt.Sprintf("Take elevator to Floor %d", end.Floor),
					Building:    end.Building,
				})
			} else {
				steps = append(steps, schemas.NavigationStep{
					Type:        schemas.StepStairs,
					Description: fmt.Sprintf("Take stairs up to Floor %d", end.Floor),
					Building:    end.Building,
				})
			}
		}
		steps = append(steps, schemas.NavigationStep{
			Type:        schemas.StepCorridor,
			Description: fmt.Sprintf("Enter corridor on %s", campus.FloorName(end.Floor)),
			Floor:       intPtr(end.Floor),
			Building:    end.Building,
		})
	}

	return steps
}

// estimateMinutes is a coarse walking-time heuristic: half a minute per
// step, a minute per floor crossed, two minutes per inter-building hop.
// Never authoritative.
func (n *Navigator) estimateMinutes(start, end *schemas.RoomLocation, stepCount int) int {
	minutes := float64(stepCount) * 0.5
	minutes += float64(abs(end.Floor - start.Floor))

	if start.Building != end.Building {
		if route := n.calculator.FindRoute(start.Building, end.Building); route != nil && route.Success {
			minutes += float64(route.Distance) * 2
		}
	}

	estimate := int(math.Ceil(minutes))
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

// AllRoomNumbers lists every navigable room number for pickers.
func (n *Navigator) AllRoomNumbers() []string {
	return n.directory.AllRoomNumbers()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func intPtr(v int) *int { return &v }

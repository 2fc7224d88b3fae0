package engine

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Validation constants
	MinMapSize       = 3
	MaxMapSize       = 10
	MaxDoorwayRadius = 4

	DefaultMapWidth      = 7
	DefaultMapHeight     = 7
	DefaultBookChance    = 11
	DefaultDoorwayRadius = 1
	DefaultTitle         = "Map"
	DefaultPlayerGlyph   = "<:bean:1080551938678083674>"

	// KnowledgeCounter is the scratch counter Book tiles increment.
	KnowledgeCounter = "knowledge"
)

var (
	ErrUnknownDirection = errors.New("unknown direction")
	ErrMissingTile      = errors.New("no tile registered at position")
	ErrInvalidSettings  = errors.New("invalid settings")
)

// Coordinate is an (x, y) pair. It is used both for a tile position inside
// a map and for a map's position in the grid of maps.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the coordinate one step away in the given direction.
func (c Coordinate) Add(d Direction) Coordinate {
	v := d.Vector()
	return Coordinate{X: c.X + v.X, Y: c.Y + v.Y}
}

// Offset returns c shifted by (dx, dy).
func (c Coordinate) Offset(dx, dy int) Coordinate {
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is one of the four unit steps a player can take.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in declaration order.
var Directions = []Direction{Up, Down, Left, Right}

// Vector returns the unit step for d. Screen coordinates: y grows downwards.
func (d Direction) Vector() Coordinate {
	switch d {
	case Up:
		return Coordinate{X: 0, Y: -1}
	case Down:
		return Coordinate{X: 0, Y: 1}
	case Left:
		return Coordinate{X: -1, Y: 0}
	case Right:
		return Coordinate{X: 1, Y: 0}
	default:
		return Coordinate{}
	}
}

// String returns the lowercase name used on the wire.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection maps a wire symbol to a Direction. Anything other than
// up, down, left or right (any case) is rejected.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

// Item and Entity are placeholders; maps keep empty collections of them.
type Item struct {
	Name string `json:"name"`
}

type Entity struct {
	Name string `json:"name"`
}

// Stats is a read-only snapshot of a game. MapsVisited counts maps the player
// has stood on; MapsGenerated also counts maps only bumped into across an edge.
type Stats struct {
	Map           Coordinate     `json:"map"`
	Position      Coordinate     `json:"position"`
	Counters      map[string]int `json:"counters"`
	MapsVisited   int            `json:"maps_visited"`
	MapsGenerated int            `json:"maps_generated"`
	Message       string         `json:"message,omitempty"`
}

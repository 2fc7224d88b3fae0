package engine

import (
	"math/rand"
)

// Map is one fixed-size grid of tiles. Every cell is populated when the map
// is generated; only tile contents change afterwards.
type Map struct {
	Coord    Coordinate            `json:"coord"`
	Width    int                   `json:"width"`
	Height   int                   `json:"height"`
	Items    map[Coordinate]Item   `json:"items"`
	Entities map[Coordinate]Entity `json:"entities"`

	tiles [][]Tile
}

func newMap(coord Coordinate, width, height int) *Map {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
	}
	return &Map{
		Coord:    coord,
		Width:    width,
		Height:   height,
		Items:    make(map[Coordinate]Item),
		Entities: make(map[Coordinate]Entity),
		tiles:    tiles,
	}
}

// Contains reports whether pos lies inside the map.
func (m *Map) Contains(pos Coordinate) bool {
	return pos.X >= 0 && pos.X < m.Width && pos.Y >= 0 && pos.Y < m.Height
}

// Tile returns the tile at pos, or false when pos is outside the map.
func (m *Map) Tile(pos Coordinate) (Tile, bool) {
	if !m.Contains(pos) {
		return 0, false
	}
	return m.tiles[pos.Y][pos.X], true
}

// SetTile replaces the tile at pos. Positions outside the map are ignored.
func (m *Map) SetTile(pos Coordinate, t Tile) {
	if !m.Contains(pos) {
		return
	}
	m.tiles[pos.Y][pos.X] = t
}

// Center returns the middle cell (rounded down for even sizes).
func (m *Map) Center() Coordinate {
	return Coordinate{X: m.Width / 2, Y: m.Height / 2}
}

// Generator builds maps of a fixed size. Walls line the border except for a
// doorway window around the centre of each edge; the remaining cells are
// books with probability 1/BookChance and stone otherwise.
type Generator struct {
	Width         int
	Height        int
	BookChance    int // one in N; 0 disables books
	DoorwayRadius int

	rng *rand.Rand
}

// NewGenerator creates a generator drawing from rng. The caller owns the
// seed, which makes layouts reproducible.
func NewGenerator(settings *Settings, rng *rand.Rand) *Generator {
	return &Generator{
		Width:         settings.Width,
		Height:        settings.Height,
		BookChance:    settings.BookChance,
		DoorwayRadius: settings.DoorwayRadius,
		rng:           rng,
	}
}

// Generate produces the map for coord. Cells are filled row-major.
func (g *Generator) Generate(coord Coordinate) *Map {
	m := newMap(coord, g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			pos := Coordinate{X: x, Y: y}
			switch {
			case g.isWall(pos):
				m.tiles[y][x] = Wall
			case g.BookChance > 0 && g.rng.Intn(g.BookChance) == 0:
				m.tiles[y][x] = Book
			default:
				m.tiles[y][x] = Stone
			}
		}
	}
	return m
}

// isWall reports whether pos is a border cell outside the doorway window.
func (g *Generator) isWall(pos Coordinate) bool {
	cx, cy := g.Width/2, g.Height/2
	onVertical := pos.X == 0 || pos.X == g.Width-1
	onHorizontal := pos.Y == 0 || pos.Y == g.Height-1

	if onHorizontal && abs(pos.X-cx) > g.DoorwayRadius {
		return true
	}
	if onVertical && abs(pos.Y-cy) > g.DoorwayRadius {
		return true
	}
	return false
}

package engine

import "fmt"

// Tile is a closed set of tile kinds. Attributes and effects live in the
// catalog below; tiles themselves carry no state, so a map replaces a tile
// rather than mutating it.
type Tile uint8

const (
	Stone Tile = iota
	Wall
	Book
)

// Tiles lists the whole catalog.
var Tiles = []Tile{Stone, Wall, Book}

type tileKind struct {
	name     string
	display  string
	solid    bool
	interact func(g *Game, m *Map, pos Coordinate)
}

var catalog = [...]tileKind{
	Stone: {
		name:    "Stone",
		display: "<:stone:1089362910200987688>",
	},
	Wall: {
		name:    "Wall",
		display: ":black_large_square:",
		solid:   true,
	},
	Book: {
		name:     "Book",
		display:  ":book:",
		solid:    true,
		interact: readBook,
	},
}

func (t Tile) kind() tileKind {
	if int(t) >= len(catalog) {
		panic(fmt.Sprintf("engine: tile %d is not in the catalog", t))
	}
	return catalog[t]
}

// Name returns the display name of the tile kind.
func (t Tile) Name() string { return t.kind().name }

// Display returns the default glyph.
func (t Tile) Display() string { return t.kind().display }

// Solid reports whether the tile blocks entry.
func (t Tile) Solid() bool { return t.kind().solid }

func (t Tile) String() string { return t.Name() }

// Interact runs the tile's effect. It may touch the game's counters and
// message and replace the tile at pos in m. It never moves the player.
func (t Tile) Interact(g *Game, m *Map, pos Coordinate) {
	if fn := t.kind().interact; fn != nil {
		fn(g, m, pos)
	}
}

// TileByName looks a tile kind up by its name.
func TileByName(name string) (Tile, bool) {
	for _, t := range Tiles {
		if t.Name() == name {
			return t, true
		}
	}
	return 0, false
}

// readBook is single use: the book turns into stone once read.
func readBook(g *Game, m *Map, pos Coordinate) {
	knowledge := g.increment(KnowledgeCounter)
	g.setMessage(fmt.Sprintf("You have acquired %d knowledge.", knowledge))
	m.SetTile(pos, Stone)
}

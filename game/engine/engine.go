package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// Engine is the contract transports use to drive one game.
type Engine interface {
	Move(d Direction) (Outcome, error)
	MoveAndRender(d Direction) (Outcome, string, error)
	Render() string
	Preview() string
	Title() string
	Stats() Stats
}

// Game is one player's complete session state: the player, the world it
// walks through, scratch counters for tile effects and the pending message.
// All methods are safe for concurrent use; each call runs to completion
// before the next starts.
type Game struct {
	settings *Settings
	world    *World
	player   *Player
	glyphs   map[Tile]string
	player0  string

	counters map[string]int
	message  string

	// visited holds the maps the player has stood on; the world also holds
	// maps only bumped into across an edge.
	visited map[Coordinate]struct{}

	mu sync.Mutex
}

// NewGame creates a game from settings, drawing map contents from rng.
// The player starts at the centre of map (0,0), on stone.
func NewGame(settings *Settings, rng *rand.Rand) (*Game, error) {
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	g := &Game{
		settings: settings,
		world:    NewWorld(NewGenerator(settings, rng)),
		counters: make(map[string]int),
		visited:  make(map[Coordinate]struct{}),
	}
	g.glyphs, g.player0 = settings.GlyphSet()

	origin := g.world.GetOrCreate(Coordinate{})
	spawn := origin.Center()
	origin.SetTile(spawn, Stone)
	g.player = &Player{Map: origin.Coord, Position: spawn}
	g.visited[origin.Coord] = struct{}{}

	return g, nil
}

// NewGameWithDefaults creates a game with DefaultSettings and the given seed.
func NewGameWithDefaults(seed int64) *Game {
	g, err := NewGame(DefaultSettings(), rand.New(rand.NewSource(seed)))
	if err != nil {
		panic(fmt.Sprintf("engine: default settings rejected: %v", err))
	}
	return g
}

// Move resolves one step in direction d. A blocked move is not an error; the
// only error is an internal inconsistency such as a missing tile.
func (g *Game) Move(d Direction) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.move(d)
}

// MoveAndRender moves and renders under one lock, so no other move can slip
// in between.
func (g *Game) MoveAndRender(d Direction) (Outcome, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	outcome, err := g.move(d)
	if err != nil {
		return outcome, "", err
	}
	return outcome, g.render(true), nil
}

func (g *Game) move(d Direction) (Outcome, error) {
	g.message = ""
	outcome, err := g.player.move(g, d)
	outcome.Message = g.message
	return outcome, err
}

// Render returns the current map as text and consumes the pending message.
func (g *Game) Render() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.render(true)
}

// Preview renders like Render but leaves the pending message in place.
func (g *Game) Preview() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.render(false)
}

func (g *Game) render(consume bool) string {
	var b strings.Builder
	if g.message != "" {
		b.WriteString(g.message)
		b.WriteString("\n\n")
		if consume {
			g.message = ""
		}
	}

	current := g.world.GetOrCreate(g.player.Map)
	for y := 0; y < current.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < current.Width; x++ {
			pos := Coordinate{X: x, Y: y}
			if pos == g.player.Position {
				b.WriteString(g.player0)
				continue
			}
			tile, _ := current.Tile(pos)
			b.WriteString(g.glyphs[tile])
		}
	}
	return b.String()
}

// Title is the heading transports show above the rendered map.
func (g *Game) Title() string {
	return g.settings.Title
}

// Settings returns the settings the game was created with.
func (g *Game) Settings() *Settings {
	return g.settings
}

// Player returns a copy of the player's location.
func (g *Game) Player() Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return *g.player
}

// World exposes the arena of visited maps.
func (g *Game) World() *World {
	return g.world
}

// Counter returns the value of a scratch counter.
func (g *Game) Counter(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counters[name]
}

// Stats returns a snapshot of the game without touching the message.
func (g *Game) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	counters := make(map[string]int, len(g.counters))
	for k, v := range g.counters {
		counters[k] = v
	}
	return Stats{
		Map:           g.player.Map,
		Position:      g.player.Position,
		Counters:      counters,
		MapsVisited:   len(g.visited),
		MapsGenerated: g.world.Len(),
		Message:       g.message,
	}
}

// increment and setMessage are used by tile effects and enter by movement,
// all of which already run under g.mu.
func (g *Game) increment(name string) int {
	g.counters[name]++
	return g.counters[name]
}

func (g *Game) setMessage(msg string) {
	g.message = msg
}

func (g *Game) enter(coord Coordinate) {
	g.visited[coord] = struct{}{}
}

package engine

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func moveN(t *testing.T, g *Game, d Direction, n int) Outcome {
	t.Helper()
	var out Outcome
	for i := 0; i < n; i++ {
		var err error
		out, err = g.Move(d)
		if err != nil {
			t.Fatalf("Move %s failed: %v", d, err)
		}
	}
	return out
}

func TestMoveInsideMap(t *testing.T) {
	g := noBooksGame(t)

	out := moveN(t, g, Right, 1)
	if !out.Moved || out.Crossed {
		t.Errorf("Expected a plain move, got %+v", out)
	}
	if out.From != (Coordinate{X: 3, Y: 3}) || out.To != (Coordinate{X: 4, Y: 3}) {
		t.Errorf("Expected (3,3) -> (4,3), got %s -> %s", out.From, out.To)
	}
	if out.Tile != "Stone" {
		t.Errorf("Expected Stone, got %s", out.Tile)
	}
	if p := g.Player(); p.Position != out.To {
		t.Errorf("Expected player at %s, got %s", out.To, p.Position)
	}
}

func TestBoundaryCrossing(t *testing.T) {
	tests := []struct {
		direction   Direction
		steps       int
		expectedMap Coordinate
		expectedPos Coordinate
	}{
		{Up, 4, Coordinate{X: 0, Y: -1}, Coordinate{X: 3, Y: 6}},
		{Down, 4, Coordinate{X: 0, Y: 1}, Coordinate{X: 3, Y: 0}},
		{Left, 4, Coordinate{X: -1, Y: 0}, Coordinate{X: 6, Y: 3}},
		{Right, 4, Coordinate{X: 1, Y: 0}, Coordinate{X: 0, Y: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.direction.String(), func(t *testing.T) {
			g := noBooksGame(t)

			// three steps reach the edge, the fourth crosses
			edge := moveN(t, g, tt.direction, 3)
			if edge.Crossed {
				t.Fatalf("Expected to still be on map (0,0) at the edge, got %+v", edge)
			}

			out := moveN(t, g, tt.direction, 1)
			if !out.Moved || !out.Crossed {
				t.Errorf("Expected a crossing move, got %+v", out)
			}
			if out.FromMap != (Coordinate{}) || out.ToMap != tt.expectedMap {
				t.Errorf("Expected map (0,0) -> %s, got %s -> %s", tt.expectedMap, out.FromMap, out.ToMap)
			}

			p := g.Player()
			if p.Map != tt.expectedMap {
				t.Errorf("Expected map %s, got %s", tt.expectedMap, p.Map)
			}
			if p.Position != tt.expectedPos {
				t.Errorf("Expected position %s, got %s", tt.expectedPos, p.Position)
			}
			if g.World().Len() != 2 {
				t.Errorf("Expected 2 maps, got %d", g.World().Len())
			}
		})
	}
}

func TestCrossingBackReturnsToSameMap(t *testing.T) {
	g := noBooksGame(t)
	origin := g.World().GetOrCreate(Coordinate{})
	origin.SetTile(Coordinate{X: 1, Y: 1}, Book)

	moveN(t, g, Up, 4)
	out := moveN(t, g, Down, 1)

	if out.ToMap != (Coordinate{}) || out.To != (Coordinate{X: 3, Y: 0}) {
		t.Errorf("Expected to land on (0,0) at (3,0), got %s at %s", out.ToMap, out.To)
	}
	if g.World().Len() != 2 {
		t.Errorf("Expected no new map, got %d maps", g.World().Len())
	}
	if tile, _ := g.World().GetOrCreate(Coordinate{}).Tile(Coordinate{X: 1, Y: 1}); tile != Book {
		t.Errorf("Expected original map contents to survive, got %s", tile)
	}
}

func TestBlockedMovePreservesPosition(t *testing.T) {
	t.Run("wall in the room", func(t *testing.T) {
		g := noBooksGame(t)
		g.World().GetOrCreate(Coordinate{}).SetTile(Coordinate{X: 3, Y: 2}, Wall)

		out := moveN(t, g, Up, 1)
		if out.Moved {
			t.Errorf("Expected move to be blocked, got %+v", out)
		}
		if out.Tile != "Wall" {
			t.Errorf("Expected Wall, got %s", out.Tile)
		}
		p := g.Player()
		if p.Position != (Coordinate{X: 3, Y: 3}) || p.Map != (Coordinate{}) {
			t.Errorf("Expected player to stay at (3,3) on (0,0), got %s on %s", p.Position, p.Map)
		}
	})

	t.Run("border wall", func(t *testing.T) {
		g := noBooksGame(t)
		moveN(t, g, Up, 3)
		moveN(t, g, Left, 1)

		out := moveN(t, g, Left, 1)
		if out.Moved {
			t.Errorf("Expected border wall to block, got %+v", out)
		}
		if p := g.Player(); p.Position != (Coordinate{X: 2, Y: 0}) {
			t.Errorf("Expected player to stay at (2,0), got %s", p.Position)
		}
	})

	t.Run("wall across the edge", func(t *testing.T) {
		g := noBooksGame(t)
		moveN(t, g, Up, 3)
		above := g.World().GetOrCreate(Coordinate{X: 0, Y: -1})
		above.SetTile(Coordinate{X: 3, Y: 6}, Wall)

		out := moveN(t, g, Up, 1)
		if out.Moved || out.Crossed {
			t.Errorf("Expected crossing to be blocked, got %+v", out)
		}
		p := g.Player()
		if p.Map != (Coordinate{}) || p.Position != (Coordinate{X: 3, Y: 0}) {
			t.Errorf("Expected player to stay at (3,0) on (0,0), got %s on %s", p.Position, p.Map)
		}
	})
}

func TestInteractBeforeBlock(t *testing.T) {
	g := allBooksGame(t)
	m := g.World().GetOrCreate(Coordinate{})

	out := moveN(t, g, Up, 1)
	if out.Moved {
		t.Errorf("Expected Book to block, got %+v", out)
	}
	if out.Tile != "Book" {
		t.Errorf("Expected Book, got %s", out.Tile)
	}
	if out.Message != "You have acquired 1 knowledge." {
		t.Errorf("Expected the outcome to carry the message, got %q", out.Message)
	}
	if p := g.Player(); p.Position != (Coordinate{X: 3, Y: 3}) {
		t.Errorf("Expected player to stay at (3,3), got %s", p.Position)
	}
	if g.Counter(KnowledgeCounter) != 1 {
		t.Errorf("Expected 1 knowledge, got %d", g.Counter(KnowledgeCounter))
	}
	if tile, _ := m.Tile(Coordinate{X: 3, Y: 2}); tile != Stone {
		t.Errorf("Expected the bumped Book to become Stone, got %s", tile)
	}

	out = moveN(t, g, Up, 1)
	if !out.Moved || out.To != (Coordinate{X: 3, Y: 2}) {
		t.Errorf("Expected to walk onto the read Book, got %+v", out)
	}
	if g.Counter(KnowledgeCounter) != 1 {
		t.Errorf("Expected knowledge to stay 1, got %d", g.Counter(KnowledgeCounter))
	}
}

func TestBookAcrossTheEdgeIsReadWithoutCrossing(t *testing.T) {
	g := noBooksGame(t)
	moveN(t, g, Up, 3)
	above := g.World().GetOrCreate(Coordinate{X: 0, Y: -1})
	above.SetTile(Coordinate{X: 3, Y: 6}, Book)

	out := moveN(t, g, Up, 1)
	if out.Moved || out.Crossed {
		t.Errorf("Expected the Book to block the crossing, got %+v", out)
	}
	if g.Counter(KnowledgeCounter) != 1 {
		t.Errorf("Expected 1 knowledge, got %d", g.Counter(KnowledgeCounter))
	}
	if tile, _ := above.Tile(Coordinate{X: 3, Y: 6}); tile != Stone {
		t.Errorf("Expected Book on the neighbouring map to become Stone, got %s", tile)
	}

	out = moveN(t, g, Up, 1)
	if !out.Crossed || out.ToMap != (Coordinate{X: 0, Y: -1}) {
		t.Errorf("Expected to cross on the second try, got %+v", out)
	}
}

func TestKnowledgeAccumulates(t *testing.T) {
	g := allBooksGame(t)

	for i, d := range []Direction{Up, Down, Left, Right} {
		moveN(t, g, d, 1)
		want := i + 1
		if got := g.Counter(KnowledgeCounter); got != want {
			t.Errorf("After %s expected %d knowledge, got %d", d, want, got)
		}
		expected := "You have acquired " + string(rune('0'+want)) + " knowledge."
		if msg := g.Stats().Message; msg != expected {
			t.Errorf("Expected %q, got %q", expected, msg)
		}
	}
}

func TestMissingTileIsAnError(t *testing.T) {
	g := noBooksGame(t)
	moveN(t, g, Up, 3)

	// a neighbour too short to hold the landing row
	broken := newMap(Coordinate{X: 0, Y: -1}, 7, 2)
	g.world.maps[broken.Coord] = broken

	_, err := g.Move(Up)
	if !errors.Is(err, ErrMissingTile) {
		t.Fatalf("Expected ErrMissingTile, got %v", err)
	}
	if p := g.Player(); p.Map != (Coordinate{}) || p.Position != (Coordinate{X: 3, Y: 0}) {
		t.Errorf("Expected player to be untouched, got %s on %s", p.Position, p.Map)
	}

	if _, _, err := g.MoveAndRender(Up); !errors.Is(err, ErrMissingTile) {
		t.Errorf("Expected MoveAndRender to surface ErrMissingTile, got %v", err)
	}
}

func TestScenarioWalkUpIntoNextMap(t *testing.T) {
	settings := ASCIISettings()
	g := newTestGame(t, settings, rand.New(rand.NewSource(2024)))
	start := g.Player()

	var view string
	crossed := false
	for i := 0; i < 20 && !crossed; i++ {
		out, v, err := g.MoveAndRender(Up)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		view = v
		crossed = out.Crossed
	}
	if !crossed {
		t.Fatal("Expected to cross into the map above within 20 moves")
	}

	p := g.Player()
	if p.Map != (Coordinate{X: 0, Y: -1}) {
		t.Errorf("Expected map (0,-1), got %s", p.Map)
	}
	if p.Position.Y != settings.Height-1 {
		t.Errorf("Expected y = %d, got %d", settings.Height-1, p.Position.Y)
	}
	if p.Position.X != start.Position.X {
		t.Errorf("Expected x to stay %d, got %d", start.Position.X, p.Position.X)
	}

	grid := view
	if i := strings.Index(view, "\n\n"); i >= 0 {
		grid = view[i+2:]
	}
	lines := strings.Split(grid, "\n")
	if len(lines) != settings.Height {
		t.Fatalf("Expected %d lines, got %d", settings.Height, len(lines))
	}
	for i, line := range lines {
		if len(line) != settings.Width {
			t.Errorf("Line %d: expected %d glyphs, got %d (%q)", i, settings.Width, len(line), line)
		}
	}
	if !strings.HasSuffix(lines[settings.Height-1][:start.Position.X+1], "@") {
		t.Errorf("Expected player glyph on the bottom row at x=%d, got %q", start.Position.X, lines[settings.Height-1])
	}
}

func TestBlockedCrossingIsNotAVisit(t *testing.T) {
	g := noBooksGame(t)
	moveN(t, g, Up, 3)
	above := g.World().GetOrCreate(Coordinate{X: 0, Y: -1})
	above.SetTile(Coordinate{X: 3, Y: 6}, Wall)

	moveN(t, g, Up, 1)
	stats := g.Stats()
	if stats.MapsVisited != 1 {
		t.Errorf("Expected a blocked crossing to leave 1 map visited, got %d", stats.MapsVisited)
	}
	if stats.MapsGenerated != 2 {
		t.Errorf("Expected the bumped map to be generated, got %d", stats.MapsGenerated)
	}

	above.SetTile(Coordinate{X: 3, Y: 6}, Stone)
	moveN(t, g, Up, 1)
	moveN(t, g, Down, 1) // back to (0,0)
	if got := g.Stats().MapsVisited; got != 2 {
		t.Errorf("Expected revisiting (0,0) to keep 2 maps visited, got %d", got)
	}
}

package engine

import (
	"math/rand"
	"sync"
	"testing"
)

func TestWorldConcurrentFirstVisit(t *testing.T) {
	w := NewWorld(NewGenerator(createTestSettings(DefaultBookChance), rand.New(rand.NewSource(11))))
	coord := Coordinate{X: 2, Y: -3}

	const workers = 32
	results := make([]*Map, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = w.GetOrCreate(coord)
		}(i)
	}
	close(start)
	wg.Wait()

	for i, m := range results {
		if m != results[0] {
			t.Fatalf("Worker %d got a different *Map", i)
		}
	}
	if w.Len() != 1 {
		t.Errorf("Expected exactly one map, got %d", w.Len())
	}
}

func TestConcurrentMovesAreSerialized(t *testing.T) {
	g := allBooksGame(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		for _, d := range []Direction{Up, Down} {
			wg.Add(1)
			go func(d Direction) {
				defer wg.Done()
				if _, _, err := g.MoveAndRender(d); err != nil {
					t.Errorf("Move failed: %v", err)
				}
			}(d)
		}
	}
	wg.Wait()

	p := g.Player()
	m, ok := g.World().Lookup(p.Map)
	if !ok {
		t.Fatalf("Player is on map %s which was never generated", p.Map)
	}
	if !m.Contains(p.Position) {
		t.Errorf("Expected position %s to lie inside the map", p.Position)
	}
	if tile, _ := m.Tile(p.Position); tile != Stone {
		t.Errorf("Expected player to stand on Stone, got %s", tile)
	}
	if k := g.Counter(KnowledgeCounter); k < 1 {
		t.Errorf("Expected some knowledge, got %d", k)
	}
}

func TestPositionStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(77))
	g := newTestGame(t, createTestSettings(4), rand.New(rand.NewSource(78)))

	for i := 0; i < 500; i++ {
		d := Directions[rng.Intn(len(Directions))]
		out, err := g.Move(d)
		if err != nil {
			t.Fatalf("Move %d failed: %v", i, err)
		}
		if !out.Moved && (out.From != out.To || out.FromMap != out.ToMap) {
			t.Fatalf("Blocked move %d changed location: %+v", i, out)
		}

		p := g.Player()
		m, ok := g.World().Lookup(p.Map)
		if !ok {
			t.Fatalf("Player is on map %s which was never generated", p.Map)
		}
		if !m.Contains(p.Position) {
			t.Fatalf("Position %s outside map %s", p.Position, p.Map)
		}
		if tile, _ := m.Tile(p.Position); tile.Solid() {
			t.Fatalf("Player stands on solid %s at %s", tile, p.Position)
		}
	}
}

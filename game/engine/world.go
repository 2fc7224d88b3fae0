package engine

import "sync"

// World is the arena of every map generated in a session, keyed by map
// coordinate. It only grows: maps are never evicted while the session lives.
type World struct {
	generator *Generator
	maps      map[Coordinate]*Map
	mu        sync.RWMutex
}

// NewWorld creates an empty world backed by generator.
func NewWorld(generator *Generator) *World {
	return &World{
		generator: generator,
		maps:      make(map[Coordinate]*Map),
	}
}

// GetOrCreate returns the map at coord, generating it on first visit.
// Repeated calls return the same *Map.
func (w *World) GetOrCreate(coord Coordinate) *Map {
	w.mu.RLock()
	m, exists := w.maps[coord]
	w.mu.RUnlock()
	if exists {
		return m
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Check again in case a concurrent first visit won the race
	if m, exists := w.maps[coord]; exists {
		return m
	}

	m = w.generator.Generate(coord)
	w.maps[coord] = m
	return m
}

// Lookup returns the map at coord without creating it.
func (w *World) Lookup(coord Coordinate) (*Map, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, exists := w.maps[coord]
	return m, exists
}

// Len returns the number of maps generated so far.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.maps)
}

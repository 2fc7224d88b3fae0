package engine

import "fmt"

// Player tracks which map the player is on and where inside it.
type Player struct {
	Map      Coordinate `json:"map"`
	Position Coordinate `json:"position"`
}

// Outcome describes what a single move did.
type Outcome struct {
	Direction Direction  `json:"direction"`
	From      Coordinate `json:"from"`
	To        Coordinate `json:"to"`
	FromMap   Coordinate `json:"from_map"`
	ToMap     Coordinate `json:"to_map"`
	Tile      string     `json:"tile"`
	Moved     bool       `json:"moved"`
	Crossed   bool       `json:"crossed"`
	Message   string     `json:"message,omitempty"`
}

// move resolves one step. The destination tile is interacted with before
// solidity is checked, so a blocked move still keeps the tile's effects.
func (p *Player) move(g *Game, d Direction) (Outcome, error) {
	current := g.world.GetOrCreate(p.Map)

	candidate := p.Position.Add(d)
	targetMap := p.Map

	// Edge crossing, each axis on its own
	switch {
	case candidate.X < 0:
		targetMap = targetMap.Offset(-1, 0)
		candidate.X = current.Width - 1
	case candidate.X >= current.Width:
		targetMap = targetMap.Offset(1, 0)
		candidate.X = 0
	}
	switch {
	case candidate.Y < 0:
		targetMap = targetMap.Offset(0, -1)
		candidate.Y = current.Height - 1
	case candidate.Y >= current.Height:
		targetMap = targetMap.Offset(0, 1)
		candidate.Y = 0
	}

	crossed := targetMap != p.Map
	destination := current
	if crossed {
		destination = g.world.GetOrCreate(targetMap)
	}

	tile, ok := destination.Tile(candidate)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: map %s position %s", ErrMissingTile, targetMap, candidate)
	}

	tile.Interact(g, destination, candidate)

	outcome := Outcome{
		Direction: d,
		From:      p.Position,
		To:        p.Position,
		FromMap:   p.Map,
		ToMap:     p.Map,
		Tile:      tile.Name(),
	}
	if tile.Solid() {
		return outcome, nil
	}

	p.Position = candidate
	p.Map = targetMap
	if crossed {
		g.enter(targetMap)
	}

	outcome.To = candidate
	outcome.ToMap = targetMap
	outcome.Moved = true
	outcome.Crossed = crossed
	return outcome, nil
}

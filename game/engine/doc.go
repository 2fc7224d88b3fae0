// Package engine provides the world and movement state machine of the
// roguelike.
//
// A Game binds one Player to one World. The World is an arena of Maps keyed
// by their coordinate in the inter-map grid; a Map is generated the first time
// the player walks into it and kept for the rest of the session. Walking off
// an edge lands the player on the opposite edge of the neighbouring map.
//
// Core Types:
//
// Tile is a closed set of tile kinds (Stone, Wall, Book) whose attributes and
// effects live in a catalog table. Generator fills maps from an injected
// *rand.Rand, so a fixed seed always produces the same layouts. Settings
// holds the generator parameters and glyphs of a preset.
//
// Usage:
//
//	game, err := engine.NewGame(engine.DefaultSettings(), rand.New(rand.NewSource(42)))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, view, err := game.MoveAndRender(engine.Up)
//
// Movement Rules:
//
// The destination tile is interacted with before its solidity is checked.
// A Book is solid: bumping into it reads it, which adds one knowledge and
// turns it into Stone, but the player stays put until the next step.
package engine

// Package config loads map presets.
//
// A preset is an engine.Settings stored as <name>.json, <name>.yaml or
// <name>.yml in the config directory:
//
//	name: library
//	description: Cramped reading rooms
//	title: Library
//	width: 5
//	height: 5
//	book_chance: 3
//	doorway_radius: 0
//	glyphs:
//	  Book: ":books:"
//
// The built-in presets "classic" and "ascii" are always available; a file
// with the same name replaces them. Loaded presets are validated with
// engine.ValidateSettings and cached until RefreshCache.
package config

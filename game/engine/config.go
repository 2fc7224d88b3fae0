package engine

import (
	"fmt"
	"strings"
)

// PlayerGlyphKey is the Glyphs key overriding the player glyph.
const PlayerGlyphKey = "player"

// Settings describes one map preset: the generator parameters and how the
// session is presented.
type Settings struct {
	Name          string            `json:"name" yaml:"name"`
	Description   string            `json:"description" yaml:"description"`
	Title         string            `json:"title" yaml:"title"`
	Width         int               `json:"width" yaml:"width"`
	Height        int               `json:"height" yaml:"height"`
	BookChance    int               `json:"book_chance" yaml:"book_chance"`
	DoorwayRadius int               `json:"doorway_radius" yaml:"doorway_radius"`
	Seed          int64             `json:"seed,omitempty" yaml:"seed,omitempty"`
	Glyphs        map[string]string `json:"glyphs,omitempty" yaml:"glyphs,omitempty"`
}

// DefaultSettings returns the classic 7x7 preset.
func DefaultSettings() *Settings {
	return &Settings{
		Name:          "classic",
		Description:   "7x7 rooms lined with walls, a doorway in every edge and the odd book to read",
		Title:         DefaultTitle,
		Width:         DefaultMapWidth,
		Height:        DefaultMapHeight,
		BookChance:    DefaultBookChance,
		DoorwayRadius: DefaultDoorwayRadius,
	}
}

// ASCIISettings returns the classic preset with plain-text glyphs, for
// surfaces that cannot show chat emoji.
func ASCIISettings() *Settings {
	s := DefaultSettings()
	s.Name = "ascii"
	s.Description = "The classic preset drawn with plain characters"
	s.Glyphs = map[string]string{
		Stone.Name():   ".",
		Wall.Name():    "#",
		Book.Name():    "B",
		PlayerGlyphKey: "@",
	}
	return s
}

// Copy returns a deep copy of the settings.
func (s *Settings) Copy() *Settings {
	c := *s
	if s.Glyphs != nil {
		c.Glyphs = make(map[string]string, len(s.Glyphs))
		for k, v := range s.Glyphs {
			c.Glyphs[k] = v
		}
	}
	return &c
}

// ApplyDefaults fills zero fields that have a sensible default. BookChance
// is left alone since zero is meaningful.
func (s *Settings) ApplyDefaults() {
	if s.Title == "" {
		s.Title = DefaultTitle
	}
	if s.Width == 0 {
		s.Width = DefaultMapWidth
	}
	if s.Height == 0 {
		s.Height = DefaultMapHeight
	}
}

// ValidateSettings checks that settings describe a playable map.
func ValidateSettings(s *Settings) error {
	if s == nil {
		return fmt.Errorf("%w: settings are nil", ErrInvalidSettings)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSettings)
	}
	if s.Width < MinMapSize || s.Width > MaxMapSize {
		return fmt.Errorf("%w: width must be between %d and %d, got %d", ErrInvalidSettings, MinMapSize, MaxMapSize, s.Width)
	}
	if s.Height < MinMapSize || s.Height > MaxMapSize {
		return fmt.Errorf("%w: height must be between %d and %d, got %d", ErrInvalidSettings, MinMapSize, MaxMapSize, s.Height)
	}
	if s.BookChance < 0 {
		return fmt.Errorf("%w: book_chance must not be negative, got %d", ErrInvalidSettings, s.BookChance)
	}
	if s.DoorwayRadius < 0 || s.DoorwayRadius > MaxDoorwayRadius {
		return fmt.Errorf("%w: doorway_radius must be between 0 and %d, got %d", ErrInvalidSettings, MaxDoorwayRadius, s.DoorwayRadius)
	}

	for key, glyph := range s.Glyphs {
		if key != PlayerGlyphKey {
			if _, ok := TileByName(key); !ok {
				return fmt.Errorf("%w: glyph for unknown tile %q", ErrInvalidSettings, key)
			}
		}
		if strings.TrimSpace(glyph) == "" || strings.ContainsAny(glyph, "\n\r") {
			return fmt.Errorf("%w: glyph for %q must be a non-blank single line", ErrInvalidSettings, key)
		}
	}
	return nil
}

// GlyphSet resolves the glyph for every tile kind and the player, falling
// back to the catalog defaults.
func (s *Settings) GlyphSet() (map[Tile]string, string) {
	glyphs := make(map[Tile]string, len(Tiles))
	for _, t := range Tiles {
		glyphs[t] = t.Display()
		if g, ok := s.Glyphs[t.Name()]; ok {
			glyphs[t] = g
		}
	}
	player := DefaultPlayerGlyph
	if g, ok := s.Glyphs[PlayerGlyphKey]; ok {
		player = g
	}
	return glyphs, player
}

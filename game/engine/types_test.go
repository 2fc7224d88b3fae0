package engine

import (
	"errors"
	"testing"
)

func TestCoordinateAdd(t *testing.T) {
	origin := Coordinate{X: 3, Y: 3}

	tests := []struct {
		direction Direction
		expected  Coordinate
	}{
		{Up, Coordinate{X: 3, Y: 2}},
		{Down, Coordinate{X: 3, Y: 4}},
		{Left, Coordinate{X: 2, Y: 3}},
		{Right, Coordinate{X: 4, Y: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.direction.String(), func(t *testing.T) {
			got := origin.Add(tt.direction)
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCoordinateOffsetAndString(t *testing.T) {
	c := Coordinate{X: 0, Y: 0}.Offset(-1, 2)
	if c != (Coordinate{X: -1, Y: 2}) {
		t.Errorf("Expected (-1,2), got %s", c)
	}
	if c.String() != "(-1,2)" {
		t.Errorf("Expected string (-1,2), got %s", c.String())
	}
}

func TestCoordinateAsMapKey(t *testing.T) {
	seen := map[Coordinate]int{}
	seen[Coordinate{X: 1, Y: 2}]++
	seen[Coordinate{X: 0, Y: 2}.Add(Right)]++

	if len(seen) != 1 {
		t.Errorf("Expected equal coordinates to share a key, got %d keys", len(seen))
	}
}

func TestDirectionVectorsAreUnitSteps(t *testing.T) {
	for _, d := range Directions {
		v := d.Vector()
		if abs(v.X)+abs(v.Y) != 1 {
			t.Errorf("Expected %s to be a unit step, got %s", d, v)
		}
	}

	if v := Direction(99).Vector(); v != (Coordinate{}) {
		t.Errorf("Expected zero vector for unknown direction, got %s", v)
	}
	if s := Direction(99).String(); s != "unknown" {
		t.Errorf("Expected unknown, got %s", s)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
		wantErr  bool
	}{
		{"up", Up, false},
		{"DOWN", Down, false},
		{" Left ", Left, false},
		{"right", Right, false},
		{"north", 0, true},
		{"", 0, true},
		{"upp", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownDirection) {
					t.Errorf("Expected ErrUnknownDirection, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestParseDirectionRoundTrip(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(d.String())
		if err != nil {
			t.Fatalf("Unexpected error for %s: %v", d, err)
		}
		if got != d {
			t.Errorf("Expected %s, got %s", d, got)
		}
	}
}

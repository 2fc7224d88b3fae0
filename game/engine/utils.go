package engine

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// CountTiles counts the cells of kind t in m.
func CountTiles(m *Map, t Tile) int {
	count := 0
	for _, row := range m.tiles {
		for _, tile := range row {
			if tile == t {
				count++
			}
		}
	}
	return count
}

// Doorways returns the open border cells of m in row-major order.
func Doorways(m *Map) []Coordinate {
	var open []Coordinate
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			onBorder := x == 0 || y == 0 || x == m.Width-1 || y == m.Height-1
			if onBorder && m.tiles[y][x] != Wall {
				open = append(open, Coordinate{X: x, Y: y})
			}
		}
	}
	return open
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Coordinate) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// FindNearestTile finds the closest cell of kind t to pos and its distance.
func FindNearestTile(m *Map, pos Coordinate, t Tile) (Coordinate, int, bool) {
	minDistance := -1
	var nearest Coordinate
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.tiles[y][x] != t {
				continue
			}
			c := Coordinate{X: x, Y: y}
			if d := ManhattanDistance(pos, c); minDistance == -1 || d < minDistance {
				minDistance = d
				nearest = c
			}
		}
	}
	return nearest, minDistance, minDistance != -1
}

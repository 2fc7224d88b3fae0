// Command analyze prints quick, human-readable statistics about the presets
// in the project's configs directory plus the built-in ones. For each preset
// it draws a sample map in plain characters, summarizes books and doorways
// over many generated maps, and plays a seeded random walk to show how
// quickly a player crosses maps and gathers knowledge.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/roguebot/game/config"
	"github.com/wricardo/roguebot/game/engine"
)

// Analysis summarizes one preset.
type Analysis struct {
	Name       string
	Width      int
	Height     int
	BookChance int
	Sample     string
	Maps       int
	AvgBooks   float64
	MaxBooks   int
	Doorways   int
	Walk       WalkResult

	// NearestBook is the distance from spawn to the closest book, -1 if none.
	NearestBook int
}

// WalkResult is what a random walk of Steps moves produced.
type WalkResult struct {
	Steps     int
	Moved     int
	Blocked   int
	Crossings int
	Knowledge int
	Visited   int
}

// plainGlyphs draws any preset the way the ascii preset does.
func plainGlyphs(s *engine.Settings) *engine.Settings {
	plain := s.Copy()
	plain.Glyphs = engine.ASCIISettings().Glyphs
	return plain
}

func analyzePreset(s *engine.Settings, maps, steps int, seed int64) (*Analysis, error) {
	a := &Analysis{
		Name:       s.Name,
		Width:      s.Width,
		Height:     s.Height,
		Maps:       maps,
		BookChance: s.BookChance,
	}

	generator := engine.NewGenerator(s, rand.New(rand.NewSource(seed)))
	total := 0
	for i := 0; i < maps; i++ {
		m := generator.Generate(engine.Coordinate{X: i})
		books := engine.CountTiles(m, engine.Book)
		total += books
		if books > a.MaxBooks {
			a.MaxBooks = books
		}
		if i == 0 {
			a.Doorways = len(engine.Doorways(m))
		}
	}
	if maps > 0 {
		a.AvgBooks = float64(total) / float64(maps)
	}

	game, err := engine.NewGame(plainGlyphs(s), rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	a.Sample = game.Preview()

	a.NearestBook = -1
	if origin, ok := game.World().Lookup(engine.Coordinate{}); ok {
		if _, d, found := engine.FindNearestTile(origin, game.Player().Position, engine.Book); found {
			a.NearestBook = d
		}
	}

	a.Walk, err = randomWalk(game, steps, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	return a, nil
}

func randomWalk(game *engine.Game, steps int, rng *rand.Rand) (WalkResult, error) {
	w := WalkResult{Steps: steps}
	for i := 0; i < steps; i++ {
		outcome, err := game.Move(engine.Directions[rng.Intn(len(engine.Directions))])
		if err != nil {
			return w, err
		}
		if outcome.Moved {
			w.Moved++
		} else {
			w.Blocked++
		}
		if outcome.Crossed {
			w.Crossings++
		}
	}
	stats := game.Stats()
	w.Knowledge = stats.Counters[engine.KnowledgeCounter]
	w.Visited = stats.MapsVisited
	return w, nil
}

func printAnalysis(out io.Writer, a *Analysis) {
	fmt.Fprintf(out, "Name: %s\n", a.Name)
	fmt.Fprintf(out, "Map Size: %d x %d\n", a.Width, a.Height)
	if a.BookChance > 0 {
		fmt.Fprintf(out, "Book Chance: 1 in %d\n", a.BookChance)
	} else {
		fmt.Fprintln(out, "Book Chance: none")
	}
	fmt.Fprintf(out, "Doorways: %d\n", a.Doorways)
	fmt.Fprintf(out, "Books per map: %.2f avg, %d max over %d maps\n", a.AvgBooks, a.MaxBooks, a.Maps)

	if a.NearestBook >= 0 {
		fmt.Fprintf(out, "Nearest book from spawn: %d steps\n", a.NearestBook)
	}
	fmt.Fprintln(out, "Sample:")
	for _, line := range strings.Split(a.Sample, "\n") {
		fmt.Fprintf(out, "   %s\n", line)
	}

	w := a.Walk
	fmt.Fprintf(out, "Random walk: %d steps, %d moved, %d blocked\n", w.Steps, w.Moved, w.Blocked)
	fmt.Fprintf(out, "   %d map crossings, %d maps visited, %d knowledge\n", w.Crossings, w.Visited, w.Knowledge)

	if a.BookChance > 0 && w.Knowledge == 0 {
		fmt.Fprintln(out, "⚠️  WARNING: the walk never read a book")
	} else if a.BookChance > 0 {
		fmt.Fprintf(out, "✅ One book every %.1f steps\n", float64(w.Steps)/float64(w.Knowledge))
	}
}

// presets returns every preset the config directory can serve, files first.
func presets(dir string) ([]*engine.Settings, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		manager = config.NewBuiltinManager()
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		return nil, err
	}
	var out []*engine.Settings
	for _, info := range infos {
		s, err := manager.LoadConfig(info.PresetID)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	list, err := presets(cmd.String("configs"))
	if err != nil {
		return fmt.Errorf("loading presets: %w", err)
	}

	for _, s := range list {
		fmt.Fprintf(cmd.Root().Writer, "\n=== Analyzing %s ===\n", s.Name)
		a, err := analyzePreset(s, int(cmd.Int("maps")), int(cmd.Int("steps")), int64(cmd.Int("seed")))
		if err != nil {
			fmt.Fprintf(cmd.Root().Writer, "Error analyzing preset: %v\n", err)
			continue
		}
		printAnalysis(cmd.Root().Writer, a)
	}
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "print sample maps and statistics for every preset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "configs", Value: "configs", Usage: "preset directory"},
			&cli.IntFlag{Name: "maps", Value: 500, Usage: "maps generated per preset"},
			&cli.IntFlag{Name: "steps", Value: 1000, Usage: "random walk length"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "random seed"},
		},
		Action: run,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

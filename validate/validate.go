// Command validate checks the map presets in a directory (configs by
// default). For every .json, .yaml and .yml file it checks:
//   - the file parses and the settings pass engine validation
//   - the preset name matches the file name it is loaded by
//   - the largest possible render still fits in a Discord embed
//   - every sampled map has a doorway on each edge
//
// With --normalize, valid JSON presets are rewritten in canonical form.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/roguebot/game/config"
	"github.com/wricardo/roguebot/game/engine"
	"github.com/wricardo/roguebot/transport/discord"
)

// sampleMaps is how many generated maps the doorway check looks at.
const sampleMaps = 25

// longestMessage is the book message with a knowledge count no session
// realistically reaches.
var longestMessage = fmt.Sprintf("You have acquired %d knowledge.", 999999)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// worstCaseRender is the length in characters of the longest view the
// settings can produce: every cell drawn with the widest glyph, plus the
// pending message.
func worstCaseRender(s *engine.Settings) int {
	glyphs, player := s.GlyphSet()
	widest := utf8.RuneCountInString(player)
	for _, g := range glyphs {
		if n := utf8.RuneCountInString(g); n > widest {
			widest = n
		}
	}
	grid := widest*s.Width*s.Height + s.Height - 1
	return utf8.RuneCountInString(longestMessage) + 2 + grid
}

// edgesOpen reports whether m has at least one doorway on each edge.
func edgesOpen(m *engine.Map) bool {
	var top, bottom, left, right bool
	for _, d := range engine.Doorways(m) {
		top = top || d.Y == 0
		bottom = bottom || d.Y == m.Height-1
		left = left || d.X == 0
		right = right || d.X == m.Width-1
	}
	return top && bottom && left && right
}

// validateConfig loads and validates a single preset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	settings, err := config.LoadFile(filePath)
	if err != nil {
		result.fail("Failed to load preset: %v", err)
		return result
	}

	stem := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	if settings.Name != stem {
		result.fail("name %q does not match file name %q", settings.Name, stem)
	}

	if n := worstCaseRender(settings); n > discord.EmbedDescriptionLimit {
		result.fail("worst case render is %d characters, embeds allow %d", n, discord.EmbedDescriptionLimit)
	} else {
		result.note("Worst case render: %d/%d characters", n, discord.EmbedDescriptionLimit)
	}

	generator := engine.NewGenerator(settings, rand.New(rand.NewSource(1)))
	books := 0
	for i := 0; i < sampleMaps; i++ {
		m := generator.Generate(engine.Coordinate{X: i})
		if !edgesOpen(m) {
			result.fail("map %d has an edge without a doorway", i)
			break
		}
		books += engine.CountTiles(m, engine.Book)
	}

	if settings.BookChance == 0 {
		result.note("Books disabled")
	} else {
		result.note("Books: %.1f per map over %d samples", float64(books)/sampleMaps, sampleMaps)
	}

	return result
}

// presetFiles lists the preset files in dir in name order.
func presetFiles(dir string) ([]string, error) {
	var files []string
	for _, ext := range config.Extensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// errInvalidPresets makes the command exit non-zero
var errInvalidPresets = errors.New("some presets have errors")

func printResult(out io.Writer, result ValidationResult) {
	fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Fprintln(out, "✅ VALID")
		for _, info := range result.Errors {
			fmt.Fprintln(out, "  "+info)
		}
		return
	}

	fmt.Fprintln(out, "❌ INVALID")
	for _, err := range result.Errors {
		if !strings.HasPrefix(err, "✓") {
			fmt.Fprintln(out, "  ❌ "+err)
		}
	}
}

// normalize rewrites a valid JSON preset through the config manager so every
// field is spelled out in one indented layout.
func normalize(manager *config.Manager, file string) error {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	settings, err := manager.LoadConfig(name)
	if err != nil {
		return err
	}
	return manager.SaveConfig(name, settings)
}

// run validates every preset in --configs, printing a concise report.
func run(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	configDir := cmd.String("configs")

	files, err := presetFiles(configDir)
	if err != nil {
		return fmt.Errorf("finding preset files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no presets found in %s", configDir)
	}

	var manager *config.Manager
	if cmd.Bool("normalize") {
		if manager, err = config.NewManager(configDir); err != nil {
			return err
		}
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)
		printResult(out, result)
		if !result.Valid {
			allValid = false
			continue
		}

		if manager != nil && filepath.Ext(file) == ".json" {
			if err := normalize(manager, file); err != nil {
				return fmt.Errorf("normalizing %s: %w", result.File, err)
			}
			fmt.Fprintln(out, "  ✓ Normalized")
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		fmt.Fprintln(out, "❌ Some presets have errors")
		return errInvalidPresets
	}
	fmt.Fprintln(out, "✅ All presets are valid!")
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check every map preset in a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "configs", Value: "configs", Usage: "preset directory"},
			&cli.BoolFlag{Name: "normalize", Usage: "rewrite valid JSON presets in canonical form"},
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

package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/roguebot/game/engine"
	"github.com/wricardo/roguebot/game/service"
)

func createValidConfig(name string) *engine.Settings {
	return &engine.Settings{
		Name:          name,
		Description:   "Test preset",
		Title:         "Test",
		Width:         5,
		Height:        5,
		BookChance:    4,
		DoorwayRadius: 1,
	}
}

func writeJSON(t *testing.T, dir, name string, config *engine.Settings) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func writeFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", filename, err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "nope"))
		if err == nil {
			t.Error("Expected error for missing directory")
		}
	})

	t.Run("empty directory falls back to classic", func(t *testing.T) {
		m, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		def := m.GetDefault()
		if def == nil || def.Name != "classic" {
			t.Fatalf("Expected built-in classic default, got %+v", def)
		}
		if def.Width != 7 || def.BookChance != 11 {
			t.Errorf("Expected classic dimensions, got %dx%d 1/%d", def.Width, def.Height, def.BookChance)
		}
	})

	t.Run("classic file overrides built-in", func(t *testing.T) {
		dir := t.TempDir()
		writeJSON(t, dir, "classic", createValidConfig("classic"))

		m, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if m.GetDefault().Width != 5 {
			t.Errorf("Expected classic from disk, got width %d", m.GetDefault().Width)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "json-preset", createValidConfig("json-preset"))
	writeFile(t, dir, "yaml-preset.yaml", `
name: yaml-preset
description: From YAML
width: 6
height: 4
book_chance: 0
doorway_radius: 1
glyphs:
  Book: ":books:"
`)
	writeFile(t, dir, "short.yml", "width: 3\nheight: 3\n")
	writeFile(t, dir, "broken.json", "{not json")
	writeFile(t, dir, "huge.yaml", "name: huge\nwidth: 50\nheight: 50\n")

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("json", func(t *testing.T) {
		config, err := m.LoadConfig("json-preset")
		if err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		if config.Width != 5 || config.BookChance != 4 {
			t.Errorf("Unexpected config %+v", config)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		config, err := m.LoadConfig("yaml-preset")
		if err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		if config.Width != 6 || config.Height != 4 {
			t.Errorf("Expected 6x4, got %dx%d", config.Width, config.Height)
		}
		if config.Title != engine.DefaultTitle {
			t.Errorf("Expected default title, got %q", config.Title)
		}
		if config.Glyphs["Book"] != ":books:" {
			t.Errorf("Expected book glyph override, got %q", config.Glyphs["Book"])
		}
	})

	t.Run("yml name from filename", func(t *testing.T) {
		config, err := m.LoadConfig("short.yml")
		if err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		if config.Name != "short" {
			t.Errorf("Expected name from filename, got %q", config.Name)
		}
	})

	t.Run("cached", func(t *testing.T) {
		a, _ := m.LoadConfig("json-preset")
		b, _ := m.LoadConfig("json-preset")
		if a != b {
			t.Error("Expected cached preset to be returned")
		}
	})

	t.Run("built-in ascii", func(t *testing.T) {
		config, err := m.LoadConfig("ascii")
		if err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		if config.Glyphs[engine.PlayerGlyphKey] != "@" {
			t.Errorf("Expected ascii preset, got %+v", config)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := m.LoadConfig("missing")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
		if !errors.Is(err, service.ErrPresetNotFound) {
			t.Errorf("Expected service.ErrPresetNotFound, got %v", err)
		}
	})

	t.Run("unparseable", func(t *testing.T) {
		if _, err := m.LoadConfig("broken"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("fails validation", func(t *testing.T) {
		if _, err := m.LoadConfig("huge"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "beta", createValidConfig("beta"))
	writeFile(t, dir, "alpha.yaml", "name: alpha\ndescription: A\n")
	writeFile(t, dir, "broken.json", "{")
	writeFile(t, dir, "notes.txt", "ignored")
	os.Mkdir(filepath.Join(dir, "sub.json"), 0755)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	presets, err := m.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}

	var ids []string
	for _, p := range presets {
		ids = append(ids, p.PresetID)
	}
	expected := []string{"alpha", "beta", "classic", "ascii"}
	if len(ids) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, ids)
	}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, ids)
			break
		}
	}

	if presets[0].Filename != "alpha.yaml" || presets[0].Width != engine.DefaultMapWidth {
		t.Errorf("Unexpected alpha info %+v", presets[0])
	}
	if presets[2].Filename != "" {
		t.Errorf("Expected built-in preset without filename, got %q", presets[2].Filename)
	}
}

func TestBuiltinManager(t *testing.T) {
	m := NewBuiltinManager()

	if m.GetDefault().Name != "classic" {
		t.Errorf("Expected classic default, got %s", m.GetDefault().Name)
	}
	presets, err := m.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(presets) != 2 {
		t.Errorf("Expected 2 built-in presets, got %d", len(presets))
	}
	if err := m.SaveConfig("x", createValidConfig("x")); err == nil {
		t.Error("Expected SaveConfig to fail without a directory")
	}
}

func TestSetDefaultAndRefresh(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "small", createValidConfig("small"))

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := m.SetDefault("small"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}
	if m.GetDefault().Name != "small" {
		t.Errorf("Expected small default, got %s", m.GetDefault().Name)
	}
	if err := m.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}

	updated := createValidConfig("small")
	updated.Width = 9
	writeJSON(t, dir, "small", updated)

	if c, _ := m.LoadConfig("small"); c.Width != 5 {
		t.Errorf("Expected cached width 5 before refresh, got %d", c.Width)
	}
	if err := m.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh: %v", err)
	}
	if c, _ := m.LoadConfig("small"); c.Width != 9 {
		t.Errorf("Expected width 9 after refresh, got %d", c.Width)
	}
	if d := m.GetDefault(); d.Name != "small" || d.Width != 9 {
		t.Errorf("Expected the reloaded small preset to stay default, got %s width %d", d.Name, d.Width)
	}

	if err := os.Remove(filepath.Join(dir, "small.json")); err != nil {
		t.Fatal(err)
	}
	if err := m.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh: %v", err)
	}
	if m.GetDefault().Name != "classic" {
		t.Errorf("Expected classic once small is gone, got %s", m.GetDefault().Name)
	}
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := m.SaveConfig("saved", createValidConfig("saved")); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Errorf("Expected saved.json on disk: %v", err)
	}

	invalid := createValidConfig("bad")
	invalid.Height = 0
	if err := m.SaveConfig("bad", invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse([]byte("name: x"), ".toml"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for unknown format, got %v", err)
	}
	config, err := Parse([]byte(`{"name":"x","book_chance":0}`), ".JSON")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if config.Width != engine.DefaultMapWidth || config.BookChance != 0 {
		t.Errorf("Expected defaults with zero book chance, got %+v", config)
	}
}

func TestConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "shared", createValidConfig("shared"))
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]*engine.Settings, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = m.LoadConfig("shared")
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r != results[0] || r == nil {
			t.Fatalf("Result %d differs from the first load", i)
		}
	}
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/roguebot/game/engine"
	"github.com/wricardo/roguebot/game/service"
)

var (
	// ErrConfigNotFound is the service's not-found sentinel so callers on
	// either side can match it with errors.Is.
	ErrConfigNotFound = service.ErrPresetNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Extensions are tried in this order when resolving a preset name.
var Extensions = []string{".json", ".yaml", ".yml"}

// Manager handles preset loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.Settings
	defaultName   string // set by SetDefault, survives RefreshCache
	configs       map[string]*engine.Settings
	mu            sync.RWMutex
}

// NewManager creates a new preset manager. A missing directory is an error.
// The built-in classic and ascii presets are always available unless a file
// of the same name replaces them.
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.Settings),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// NewBuiltinManager serves only the built-in presets, for runs without a
// config directory.
func NewBuiltinManager() *Manager {
	m := &Manager{configs: make(map[string]*engine.Settings)}
	m.loadDefaultConfig()
	return m
}

func builtinPresets() []*engine.Settings {
	return []*engine.Settings{engine.DefaultSettings(), engine.ASCIISettings()}
}

// LoadConfig loads a preset by name
func (m *Manager) LoadConfig(name string) (*engine.Settings, error) {
	name = strings.TrimSuffix(name, filepath.Ext(name))

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	for _, ext := range Extensions {
		if m.configDir == "" {
			break
		}
		path := filepath.Join(m.configDir, name+ext)
		config, err := LoadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		m.configs[name] = config
		return config, nil
	}

	// Files shadow the built-in presets of the same name
	for _, config := range builtinPresets() {
		if config.Name == name {
			m.configs[name] = config
			return config, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
}

// LoadFile reads and validates one preset file. The format follows the
// extension: JSON for .json, YAML for .yaml and .yml.
func LoadFile(path string) (*engine.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if config.Name == "" {
		config.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := engine.ValidateSettings(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return config, nil
}

// Parse decodes a preset in the format named by ext and applies defaults.
func Parse(data []byte, ext string) (*engine.Settings, error) {
	var config engine.Settings
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}
	config.ApplyDefaults()
	return &config, nil
}

// ListConfigs returns information about all available presets
func (m *Manager) ListConfigs() ([]*service.PresetInfo, error) {
	var entries []os.DirEntry
	if m.configDir != "" {
		var err error
		entries, err = os.ReadDir(m.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}
	}

	var presets []*service.PresetInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || !isPresetExt(ext) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ext)
		if seen[name] {
			continue
		}

		config, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid presets
			continue
		}
		seen[name] = true
		presets = append(presets, presetInfo(entry.Name(), name, config))
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].PresetID < presets[j].PresetID })

	for _, config := range builtinPresets() {
		if !seen[config.Name] {
			presets = append(presets, presetInfo("", config.Name, config))
		}
	}
	return presets, nil
}

func presetInfo(filename, id string, s *engine.Settings) *service.PresetInfo {
	return &service.PresetInfo{
		Filename:    filename,
		PresetID:    id,
		Name:        s.Name,
		Description: s.Description,
		Width:       s.Width,
		Height:      s.Height,
		BookChance:  s.BookChance,
	}
}

func isPresetExt(ext string) bool {
	for _, e := range Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default preset by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	m.defaultName = name
	return nil
}

// RefreshCache drops cached presets so the next load rereads the files. A
// default chosen with SetDefault is reloaded under the same name.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.Settings)
	name := m.defaultName
	m.mu.Unlock()

	if name != "" {
		if err := m.SetDefault(name); err == nil {
			return nil
		}
	}
	return m.loadDefaultConfig()
}

// loadDefaultConfig tries classic, then the first listed preset, then the
// engine defaults.
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig("classic")
	if err != nil {
		presets, listErr := m.ListConfigs()
		if listErr != nil || len(presets) == 0 {
			m.setDefault(engine.DefaultSettings())
			return nil
		}

		config, err = m.LoadConfig(presets[0].PresetID)
		if err != nil {
			m.setDefault(engine.DefaultSettings())
			return nil
		}
	}

	m.setDefault(config)
	return nil
}

func (m *Manager) setDefault(config *engine.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
}

// SaveConfig validates a preset and writes it as JSON
func (m *Manager) SaveConfig(name string, config *engine.Settings) error {
	if err := engine.ValidateSettings(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if m.configDir == "" {
		return errors.New("no config directory configured")
	}

	name = strings.TrimSuffix(name, filepath.Ext(name))
	configPath := filepath.Join(m.configDir, name+".json")

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}

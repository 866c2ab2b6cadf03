package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "assetbuilder.yaml"

// Config is the project configuration. It is built once by Load and treated
// as read-only afterwards.
type Config struct {
	Tools   ToolsConfig   `yaml:"tools,omitempty"`
	Layout  Layout        `yaml:"layout"`
	LipSync LipSyncConfig `yaml:"lipsync"`
	Watch   WatchConfig   `yaml:"watch"`
	Journal JournalConfig `yaml:"journal"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`

	// Workers sizes the export pool. Zero means one per CPU.
	Workers int `yaml:"workers,omitempty"`

	platform Platform
}

// LipSyncConfig controls how dialogue nodes map to character documents.
type LipSyncConfig struct {
	// PrimarySpeaker is used for nodes without a character field.
	PrimarySpeaker string `yaml:"primary_speaker"`
	// Speakers maps dialogue character ids to runtime character names.
	Speakers map[string]string `yaml:"speakers"`
	// Skip lists character ids whose lines are not exported yet.
	Skip []string `yaml:"skip,omitempty"`
}

// WatchConfig controls the change dispatcher.
type WatchConfig struct {
	Patterns       []string `yaml:"patterns"`
	SettleDelay    string   `yaml:"settle_delay"`
	ResyncInterval string   `yaml:"resync_interval,omitempty"`
}

// JournalConfig controls the SQLite build journal. An empty path disables it.
type JournalConfig struct {
	Path string `yaml:"path,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint exposed in watch mode.
type MetricsConfig struct {
	Address string `yaml:"address,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{
		Layout: DefaultLayout(),
		LipSync: LipSyncConfig{
			PrimarySpeaker: "joy",
			Speakers: map[string]string{
				"char_player": "joy",
				"char_dog":    "dog",
			},
			Skip: []string{"marc"},
		},
		Watch: WatchConfig{
			Patterns:    []string{"*.spine", "*.lua", "*.json", "*.schnack"},
			SettleDelay: "500ms",
		},
		Journal: JournalConfig{Path: ".assetbuilder/journal.db"},
	}
	cfg.platform = DefaultPlatform(runtime.GOOS)
	return cfg
}

// Load reads configuration from path. A missing file is only an error when
// required is true; otherwise defaults are returned.
func Load(path string, required bool) (*Config, error) {
	loadEnvFiles()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !required:
		return cfg, cfg.Validate()
	case errors.Is(err, os.ErrNotExist):
		return nil, ferrors.ConfigError("configuration file not found").WithContext("path", path).Build()
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").Fatal().Build()
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").
			Fatal().WithContext("path", path).Build()
	}
	cfg.applyDefaults()
	cfg.platform = cfg.Tools.apply(DefaultPlatform(runtime.GOOS))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Layout.SourceRoot == "" {
		c.Layout.SourceRoot = def.Layout.SourceRoot
	}
	if c.Layout.OutputRoot == "" {
		c.Layout.OutputRoot = def.Layout.OutputRoot
	}
	if c.Layout.ExportTemplate == "" {
		c.Layout.ExportTemplate = def.Layout.ExportTemplate
	}
	if len(c.Layout.StaticCategories) == 0 {
		c.Layout.StaticCategories = def.Layout.StaticCategories
	}
	if c.LipSync.PrimarySpeaker == "" {
		c.LipSync.PrimarySpeaker = def.LipSync.PrimarySpeaker
	}
	if c.LipSync.Speakers == nil {
		c.LipSync.Speakers = def.LipSync.Speakers
	}
	if len(c.Watch.Patterns) == 0 {
		c.Watch.Patterns = def.Watch.Patterns
	}
	if c.Watch.SettleDelay == "" {
		c.Watch.SettleDelay = def.Watch.SettleDelay
	}
}

// Platform returns the host tool configuration with file overrides applied.
func (c *Config) Platform() Platform {
	return c.platform
}

// WithPlatform returns a copy of c using p. Tests use it to point the
// pipeline at fake tools.
func (c *Config) WithPlatform(p Platform) *Config {
	cp := *c
	cp.platform = p
	return &cp
}

// SettleDelay parses Watch.SettleDelay. Validate guarantees it parses.
func (c *Config) SettleDelay() time.Duration {
	d, _ := time.ParseDuration(c.Watch.SettleDelay)
	return d
}

// ResyncInterval parses Watch.ResyncInterval; zero disables periodic resync.
func (c *Config) ResyncInterval() time.Duration {
	if c.Watch.ResyncInterval == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Watch.ResyncInterval)
	return d
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).Build()
	}

	example := Default()
	spine := example.platform.SpineTool
	example.Tools = ToolsConfig{Spine: &spine}
	example.Watch.ResyncInterval = "30m"

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").Build()
	}
	return nil
}

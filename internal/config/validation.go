package config

import (
	"fmt"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
)

// Validate checks layout, watch and worker settings.
func (c *Config) Validate() error {
	if err := c.validateLayout(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return ferrors.ValidationError("workers must be >= 0").WithContext("workers", c.Workers).Build()
	}
	if c.LipSync.PrimarySpeaker == "" {
		return ferrors.ValidationError("lipsync.primary_speaker cannot be empty").Build()
	}
	return nil
}

func (c *Config) validateLayout() error {
	l := c.Layout
	if l.SourceRoot == "" || l.OutputRoot == "" {
		return ferrors.ValidationError("layout source_root and output_root are required").Build()
	}
	if filepath.Clean(l.SourceRoot) == filepath.Clean(l.OutputRoot) {
		return ferrors.ValidationError("layout source_root and output_root must differ").
			WithContext("root", l.SourceRoot).Build()
	}
	seen := make(map[string]bool, len(l.StaticCategories))
	for _, cat := range l.StaticCategories {
		if cat == "" {
			return ferrors.ValidationError("static category cannot be empty").Build()
		}
		if seen[cat] {
			return ferrors.ValidationError(fmt.Sprintf("duplicate static category: %s", cat)).Build()
		}
		seen[cat] = true
	}
	return nil
}

func (c *Config) validateWatch() error {
	d, err := time.ParseDuration(c.Watch.SettleDelay)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid watch.settle_delay").Fatal().Build()
	}
	if d < 0 {
		return ferrors.ValidationError("watch.settle_delay must not be negative").Build()
	}
	for _, p := range c.Watch.Patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid watch pattern").
				Fatal().WithContext("pattern", p).Build()
		}
	}
	if c.Watch.ResyncInterval != "" {
		r, err := time.ParseDuration(c.Watch.ResyncInterval)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid watch.resync_interval").Fatal().Build()
		}
		if r < time.Second {
			return ferrors.ValidationError("watch.resync_interval must be at least 1s").Build()
		}
	}
	return nil
}

package config

import (
	"fmt"

	"github.com/pagefit/pagefit/internal/binning"
)

// Config is the top-level configuration for pagefit.
type Config struct {
	Binning BinningConfig `yaml:"binning" mapstructure:"binning"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

type BinningConfig struct {
	BinCapacity int64  `yaml:"bin_capacity" mapstructure:"bin_capacity"`
	MinItemSize int64  `yaml:"min_item_size" mapstructure:"min_item_size"`
	Strategy    string `yaml:"strategy" mapstructure:"strategy"`
}

type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
	SortBy string `yaml:"sort_by" mapstructure:"sort_by"`
}

type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path" mapstructure:"textfile_path"` // empty = no export
	Namespace    string `yaml:"namespace" mapstructure:"namespace"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Binning: BinningConfig{
			BinCapacity: binning.DefaultBinCapacity,
			MinItemSize: binning.DefaultMinItemSize,
			Strategy:    "callgraph",
		},
		Output: OutputConfig{
			Format: "table",
			SortBy: "bin",
		},
		Metrics: MetricsConfig{
			Namespace: "pagefit",
		},
	}
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	if c.Binning.BinCapacity <= 0 {
		return fmt.Errorf("bin_capacity must be positive, got %d", c.Binning.BinCapacity)
	}
	if c.Binning.MinItemSize <= 0 {
		return fmt.Errorf("min_item_size must be positive, got %d", c.Binning.MinItemSize)
	}
	if c.Binning.MinItemSize >= c.Binning.BinCapacity {
		return fmt.Errorf("min_item_size %d must be smaller than bin_capacity %d",
			c.Binning.MinItemSize, c.Binning.BinCapacity)
	}
	validStrats := map[string]bool{"callgraph": true, "simple": true}
	if !validStrats[c.Binning.Strategy] {
		return fmt.Errorf("strategy must be callgraph or simple, got %q", c.Binning.Strategy)
	}
	validFormats := map[string]bool{"table": true, "json": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output format must be table or json, got %q", c.Output.Format)
	}
	if c.Output.SortBy == "" {
		c.Output.SortBy = "bin"
	}
	validSorts := map[string]bool{"bin": true, "name": true, "size": true}
	if !validSorts[c.Output.SortBy] {
		return fmt.Errorf("sort_by must be bin, name, or size, got %q", c.Output.SortBy)
	}
	return nil
}

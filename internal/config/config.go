// Package config loads program settings from an INI file. Every key is
// optional; missing keys keep their built-in defaults.
package config

import (
	"github.com/go-ini/ini"

	"github.com/owatch/dupescan/internal/dupe"
	"github.com/owatch/dupescan/internal/errors"
	"github.com/owatch/dupescan/internal/fs"
)

// Config bundles all configurable settings.
type Config struct {
	Index   IndexConfig   `ini:"index"`
	Scanner ScannerConfig `ini:"scanner"`
	Log     LogConfig     `ini:"log"`
}

// IndexConfig configures the duplicate index.
type IndexConfig struct {
	// TableSize is the number of hash table buckets.
	TableSize int `ini:"table_size"`
}

// ScannerConfig configures the directory walk.
type ScannerConfig struct {
	// Concurrency is the number of targets scanned in parallel.
	Concurrency uint `ini:"concurrency"`
	// MaxPathLength bounds the paths the scanner descends into.
	MaxPathLength int `ini:"max_path_length"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a logrus level name: panic, fatal, error, warn, info,
	// debug or trace.
	Level string `ini:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Index: IndexConfig{
			TableSize: dupe.DefaultTableSize,
		},
		Scanner: ScannerConfig{
			Concurrency:   1,
			MaxPathLength: fs.PathMax,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the INI file at path and overlays it on the defaults.
func Load(path string) (*Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load config %v", path)
	}

	cfg := Default()
	if err := f.MapTo(cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %v", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %v", path)
	}
	return cfg, nil
}

// Validate checks the settings for values no component can work with.
func (c *Config) Validate() error {
	if c.Index.TableSize < 1 {
		return errors.Errorf("table_size must be positive, got %d", c.Index.TableSize)
	}
	if c.Scanner.MaxPathLength < 1 {
		return errors.Errorf("max_path_length must be positive, got %d", c.Scanner.MaxPathLength)
	}
	return nil
}

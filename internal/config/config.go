// Package config loads the externally supplied configuration surface:
// cache TTLs, network bounds, rate limits, tolerance bands, and source
// enablement. Malformed configuration is fatal at startup; nothing
// downstream revalidates.
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"forecastwatch/internal/record"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Source enables or disables a cataloged source.
type Source struct {
	ID      string `yaml:"id"`
	Enabled bool   `yaml:"enabled"`
}

// Bands holds the tolerance-band deviation thresholds.
type Bands struct {
	Strict   float64 `yaml:"strict"`
	Moderate float64 `yaml:"moderate"`
	Loose    float64 `yaml:"loose"`
}

type Config struct {
	LiveTTL           string   `yaml:"live_ttl"`
	HistoricalTTL     string   `yaml:"historical_ttl"`
	RequestTimeout    string   `yaml:"request_timeout"`
	MaxRetries        int      `yaml:"max_retries"`
	InterRequestDelay string   `yaml:"inter_request_delay"`
	Concurrency       int      `yaml:"concurrency"`
	Bands             Bands    `yaml:"tolerance_bands"`
	DefaultBand       string   `yaml:"default_band"`
	MinSampleSize     int      `yaml:"min_sample_size"`
	Sources           []Source `yaml:"sources"`
}

// Duration accessors fall back to the documented defaults when a field
// is empty; non-empty values were already validated by Load.

func (c *Config) LiveTTLDuration() time.Duration {
	return durationOr(c.LiveTTL, time.Hour)
}

func (c *Config) HistoricalTTLDuration() time.Duration {
	return durationOr(c.HistoricalTTL, 720*time.Hour)
}

func (c *Config) RequestTimeoutDuration() time.Duration {
	return durationOr(c.RequestTimeout, 30*time.Second)
}

func (c *Config) InterRequestDelayDuration() time.Duration {
	return durationOr(c.InterRequestDelay, time.Second)
}

func durationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// EnabledSources returns the IDs of enabled sources.
func (c *Config) EnabledSources() []record.SourceID {
	var out []record.SourceID
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, record.SourceID(s.ID))
		}
	}
	return out
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "forecastwatch", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path, falling back to embedded defaults when
// the file does not exist. On first run the defaults are written to the
// config path so users have something to edit.
func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects malformed configuration. Callers treat a failure as
// fatal.
func Validate(cfg *Config) error {
	for name, val := range map[string]string{
		"live_ttl":            cfg.LiveTTL,
		"historical_ttl":      cfg.HistoricalTTL,
		"request_timeout":     cfg.RequestTimeout,
		"inter_request_delay": cfg.InterRequestDelay,
	} {
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%s: invalid duration %q: %w", name, val, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s: duration must be positive, got %s", name, d)
		}
	}

	if cfg.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got %d", cfg.MaxRetries)
	}
	if cfg.Concurrency < 0 {
		return fmt.Errorf("concurrency must be non-negative, got %d", cfg.Concurrency)
	}

	b := cfg.Bands
	if b != (Bands{}) {
		if b.Strict <= 0 || b.Moderate <= 0 || b.Loose <= 0 {
			return fmt.Errorf("tolerance_bands: thresholds must be positive, got %+v", b)
		}
		if !(b.Strict < b.Moderate && b.Moderate < b.Loose) {
			return fmt.Errorf("tolerance_bands: thresholds must increase strict < moderate < loose, got %+v", b)
		}
	}

	if cfg.DefaultBand != "" {
		switch cfg.DefaultBand {
		case "strict", "moderate", "loose":
		default:
			return fmt.Errorf("default_band: unknown band %q (valid: strict, moderate, loose)", cfg.DefaultBand)
		}
	}

	for i, s := range cfg.Sources {
		if s.ID == "" {
			return fmt.Errorf("source %d: id is required", i)
		}
	}
	return nil
}

// Package config handles configuration loading and validation for behaviord.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"behaviord/internal/capture"
	"behaviord/internal/foreground"
	"behaviord/internal/ring"
	"behaviord/internal/sink"
)

// DefaultOutputPath is where event records land when not overridden.
const DefaultOutputPath = "user_behavior_data.csv"

// Config holds the complete collector configuration.
type Config struct {
	Capture CaptureConfig `toml:"capture"`
	Sink    SinkConfig    `toml:"sink"`
	Sampler SamplerConfig `toml:"sampler"`
	Ring    RingConfig    `toml:"ring"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

// CaptureConfig tunes the hot-path event builder.
type CaptureConfig struct {
	// OutputPath is the CSV file, opened in append mode.
	OutputPath string `toml:"output_path"`

	// MoveSampleEvery keeps one of every N raw pointer moves. 1 keeps all.
	MoveSampleEvery int `toml:"move_sample_every"`
}

// SinkConfig tunes the buffered writer.
type SinkConfig struct {
	// FlushLines is the buffered-line count that triggers a flush.
	FlushLines int `toml:"flush_lines"`
}

// SamplerConfig tunes the context sampler.
type SamplerConfig struct {
	// IntervalMs is the period between foreground/process probes.
	IntervalMs int `toml:"interval_ms"`
}

// RingConfig tunes the in-memory tail.
type RingConfig struct {
	// Capacity is the high-water mark before the oldest half is dropped.
	Capacity int `toml:"capacity"`
}

// StorageConfig tunes the session-metadata store.
type StorageConfig struct {
	// Enabled turns session persistence on.
	Enabled bool `toml:"enabled"`

	// Path is the SQLite database file.
	Path string `toml:"path"`
}

// LoggingConfig tunes diagnostics output.
type LoggingConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"`
	Output   string `toml:"output"`
	FilePath string `toml:"file_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Capture: CaptureConfig{
			OutputPath:      DefaultOutputPath,
			MoveSampleEvery: capture.DefaultMoveSampleEvery,
		},
		Sink: SinkConfig{
			FlushLines: sink.DefaultFlushLines,
		},
		Sampler: SamplerConfig{
			IntervalMs: int(foreground.DefaultInterval.Milliseconds()),
		},
		Ring: RingConfig{
			Capacity: ring.DefaultCapacity,
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    "behaviord_sessions.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads a TOML file over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks tunables for usable ranges.
func (c *Config) Validate() error {
	if c.Capture.OutputPath == "" {
		return fmt.Errorf("capture.output_path must not be empty")
	}
	if c.Capture.MoveSampleEvery < 1 {
		return fmt.Errorf("capture.move_sample_every must be >= 1, got %d", c.Capture.MoveSampleEvery)
	}
	if c.Sink.FlushLines < 1 {
		return fmt.Errorf("sink.flush_lines must be >= 1, got %d", c.Sink.FlushLines)
	}
	if c.Sampler.IntervalMs < 1 {
		return fmt.Errorf("sampler.interval_ms must be >= 1, got %d", c.Sampler.IntervalMs)
	}
	if c.Ring.Capacity < 2 {
		return fmt.Errorf("ring.capacity must be >= 2, got %d", c.Ring.Capacity)
	}
	if c.Storage.Enabled && c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty when storage is enabled")
	}
	return nil
}

// TOML renders the configuration for `behaviord config`.
func (c *Config) TOML() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}

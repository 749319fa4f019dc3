// Package config provides the configuration structure for the tts-api service.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Environment variables that override the loaded configuration.
const (
	envOutputDir       = "OUTPUT_DIR"
	envMaxTextLength   = "TTS_MAX_TEXT_LENGTH"
	envCleanupInterval = "TTS_CLEANUP_INTERVAL"
)

// Defaults applied to unset configuration values.
const (
	defaultHTTPHost               = "0.0.0.0"
	defaultHTTPPort               = 8021
	defaultEngineURL              = "http://127.0.0.1:8001"
	defaultEngineTimeoutSeconds   = 120
	defaultMaxTextLength          = 5000
	defaultCleanupIntervalSeconds = 3600
	defaultBatchWorkers           = 4
	defaultOutputDir              = "./output"
	defaultSweepSubject           = "tts.artifacts.sweep"
)

// HTTPConfig holds the listen address of the HTTP boundary.
type HTTPConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// EngineConfig holds the connection settings for the external synthesis engine.
type EngineConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// TTSConfig holds the request and artifact lifecycle limits.
type TTSConfig struct {
	MaxTextLength          int `toml:"max_text_length"`
	CleanupIntervalSeconds int `toml:"cleanup_interval_seconds"`
	BatchWorkers           int `toml:"batch_workers"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	OutputDir   string `toml:"output_dir"`
	BaseLogsDir string `toml:"base_logs_dir"`
}

// NATSConfig holds the configuration for the eviction sweep queue. An empty
// URL selects an embedded in-process server.
type NATSConfig struct {
	URL          string `toml:"url"`
	SweepSubject string `toml:"sweep_subject"`
}

// Config is the root configuration structure.
type Config struct {
	HTTP   HTTPConfig   `toml:"http"`
	Engine EngineConfig `toml:"engine"`
	TTS    TTSConfig    `toml:"tts"`
	Paths  PathsConfig  `toml:"paths"`
	NATS   NATSConfig   `toml:"nats"`
}

// Load loads the configuration for the tts-api service, applies environment
// overrides, and fills remaining zero values with defaults.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.ApplyEnvOverrides()
	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyEnvOverrides replaces configuration values with their environment
// counterparts where set.
func (c *Config) ApplyEnvOverrides() {
	if outputDir := os.Getenv(envOutputDir); outputDir != "" {
		c.Paths.OutputDir = outputDir
	}

	c.TTS.MaxTextLength = getEnvIntDefault(envMaxTextLength, c.TTS.MaxTextLength)
	c.TTS.CleanupIntervalSeconds = getEnvIntDefault(
		envCleanupInterval,
		c.TTS.CleanupIntervalSeconds,
	)
}

// ApplyDefaults fills every zero-valued field with its documented default.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Host == "" {
		c.HTTP.Host = defaultHTTPHost
	}

	if c.HTTP.Port == 0 {
		c.HTTP.Port = defaultHTTPPort
	}

	if c.Engine.URL == "" {
		c.Engine.URL = defaultEngineURL
	}

	if c.Engine.TimeoutSeconds == 0 {
		c.Engine.TimeoutSeconds = defaultEngineTimeoutSeconds
	}

	if c.TTS.MaxTextLength == 0 {
		c.TTS.MaxTextLength = defaultMaxTextLength
	}

	if c.TTS.CleanupIntervalSeconds == 0 {
		c.TTS.CleanupIntervalSeconds = defaultCleanupIntervalSeconds
	}

	if c.TTS.BatchWorkers == 0 {
		c.TTS.BatchWorkers = defaultBatchWorkers
	}

	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = defaultOutputDir
	}

	if c.Paths.BaseLogsDir == "" {
		c.Paths.BaseLogsDir = os.TempDir()
	}

	if c.NATS.SweepSubject == "" {
		c.NATS.SweepSubject = defaultSweepSubject
	}
}

// ListenAddr returns the host:port pair the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func getEnvIntDefault(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}

// Package config loads dfsmon settings from an optional YAML file.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInterval          = 5 * time.Second
	DefaultRequestTimeout    = 10 * time.Second
	DefaultReplicationFactor = 3
	DefaultLogLevel          = "info"
)

// Config is the full set of dfsmon settings. Durations accept Go syntax
// ("5s", "1m30s").
type Config struct {
	Coordinator       string        `yaml:"coordinator"`
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password"`
	Interval          time.Duration `yaml:"interval"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	Insecure          bool          `yaml:"insecure"`
	ReplicationFactor int           `yaml:"replication_factor"`
	MaxInFlight       int           `yaml:"max_in_flight"`
	LogFile           string        `yaml:"log_file"`
	LogLevel          string        `yaml:"log_level"`
	Listen            string        `yaml:"listen"`
}

var (
	ErrConfigFileMissing        = errors.New("config file is missing")
	ErrConfigFileUnreadable     = errors.New("config file is unreadable")
	ErrConfigFileUnmarshallable = errors.New("config file is unmarshallable")
	ErrCoordinatorMissing       = errors.New("coordinator URL is missing")
	ErrIntervalInvalid          = errors.New("interval must be positive")
	ErrRequestTimeoutInvalid    = errors.New("request_timeout must be positive")
	ErrReplicationFactorInvalid = errors.New("replication_factor must be at least 1")
	ErrMaxInFlightInvalid       = errors.New("max_in_flight must not be negative")
	ErrLogLevelInvalid          = errors.New("log_level must be one of debug, info, warn, error")
)

// Defaults returns the settings used when nothing else is configured.
func Defaults() Config {
	return Config{
		Interval:          DefaultInterval,
		RequestTimeout:    DefaultRequestTimeout,
		ReplicationFactor: DefaultReplicationFactor,
		LogLevel:          DefaultLogLevel,
	}
}

// Load returns Defaults overlaid with the YAML file at path. An empty path
// returns Defaults unchanged. Unknown keys are rejected. The result is not
// validated; flags may still override it.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, errors.Wrap(ErrConfigFileMissing, path)
	}
	if err != nil {
		return cfg, errors.Wrapf(ErrConfigFileUnreadable, "%s: %v", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Defaults(), errors.Wrapf(ErrConfigFileUnmarshallable, "%s: %v", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting. Coordinator is only required
// once everything has been merged.
func (c Config) Validate() error {
	if c.Coordinator == "" {
		return ErrCoordinatorMissing
	}
	if c.Interval <= 0 {
		return ErrIntervalInvalid
	}
	if c.RequestTimeout <= 0 {
		return ErrRequestTimeoutInvalid
	}
	if c.ReplicationFactor < 1 {
		return ErrReplicationFactorInvalid
	}
	if c.MaxInFlight < 0 {
		return ErrMaxInFlightInvalid
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrLogLevelInvalid
	}
	return nil
}

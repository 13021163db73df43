// Package config provides configuration management for embedloader using
// Viper for loading from files, environment variables, and command-line
// flags.
//
// The configuration names the root container templates are resolved
// against, the encoding of bundled templates, the bundle archive to serve
// containers from, and logging options. Environment variables use the
// EMBEDLOADER_ prefix (EMBEDLOADER_LOADER_ROOT, EMBEDLOADER_LOG_LEVEL, ...).
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/conneroisu/embedloader/internal/bundle"
	"github.com/conneroisu/embedloader/internal/logging"
	"github.com/spf13/viper"
)

// Default values applied by Load.
const (
	DefaultEncoding  = "utf-8"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

type Config struct {
	Loader LoaderConfig `yaml:"loader" json:"loader" mapstructure:"loader"`
	Bundle BundleConfig `yaml:"bundle" json:"bundle" mapstructure:"bundle"`
	Log    LogConfig    `yaml:"log" json:"log" mapstructure:"log"`
}

type LoaderConfig struct {
	Root     string `yaml:"root" json:"root" mapstructure:"root"`
	Encoding string `yaml:"encoding" json:"encoding" mapstructure:"encoding"`
}

type BundleConfig struct {
	Archive string `yaml:"archive" json:"archive" mapstructure:"archive"`
	Marker  string `yaml:"marker" json:"marker" mapstructure:"marker"`
	Isolate bool   `yaml:"isolate" json:"isolate" mapstructure:"isolate"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level" mapstructure:"level"`
	Format string `yaml:"format" json:"format" mapstructure:"format"`
}

// Load reads the configuration from viper, applies defaults and validates
// the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Loader.Encoding == "" {
		config.Loader.Encoding = DefaultEncoding
	}
	if config.Bundle.Marker == "" {
		config.Bundle.Marker = bundle.DefaultMarker
	}
	// Viper cannot tell an unset bool from false
	if !viper.IsSet("bundle.isolate") {
		config.Bundle.Isolate = true
	}
	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Manifest returns the fallback manifest used for archives that carry none.
func (c *Config) Manifest() *bundle.Manifest {
	isolate := c.Bundle.Isolate
	return &bundle.Manifest{
		Marker:  c.Bundle.Marker,
		Isolate: &isolate,
	}
}

// Logger builds the logger described by the log section.
func (c *Config) Logger() (*logging.SlogLogger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	config := logging.DefaultConfig()
	config.Level = level
	config.Format = c.Log.Format

	return logging.NewLogger(config), nil
}

// validateConfig validates configuration values
func validateConfig(config *Config) error {
	if config.Loader.Root != "" {
		if err := bundle.ValidateIdentifier(config.Loader.Root); err != nil {
			return fmt.Errorf("loader config: %w", err)
		}
	}

	if err := validateBundleConfig(&config.Bundle); err != nil {
		return fmt.Errorf("bundle config: %w", err)
	}

	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("log config: format must be text or json, got %q", config.Log.Format)
	}

	return nil
}

// validateBundleConfig validates bundle configuration values
func validateBundleConfig(config *BundleConfig) error {
	if strings.ContainsAny(config.Marker, `/\`) || config.Marker == "." || config.Marker == ".." {
		return fmt.Errorf("marker must be a plain file name: %s", config.Marker)
	}

	if config.Archive != "" {
		if strings.ContainsRune(config.Archive, 0) {
			return fmt.Errorf("archive path contains a NUL byte")
		}
		if ext := strings.ToLower(filepath.Ext(config.Archive)); ext != ".zip" {
			return fmt.Errorf("archive must be a .zip file: %s", config.Archive)
		}
	}

	return nil
}

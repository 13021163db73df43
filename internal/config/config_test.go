package config

import (
	"testing"

	"github.com/conneroisu/embedloader/internal/bundle"
	"github.com/conneroisu/embedloader/internal/logging"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func()
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			setup: func() {
				viper.Reset()
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultEncoding, cfg.Loader.Encoding)
				assert.Equal(t, bundle.DefaultMarker, cfg.Bundle.Marker)
				assert.True(t, cfg.Bundle.Isolate)
				assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
				assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
			},
		},
		{
			name: "explicit values",
			setup: func() {
				viper.Reset()
				viper.Set("loader.root", "app.templates")
				viper.Set("loader.encoding", "latin1")
				viper.Set("bundle.archive", "dist/bundle.zip")
				viper.Set("bundle.marker", ".container")
				viper.Set("bundle.isolate", false)
				viper.Set("log.level", "debug")
				viper.Set("log.format", "json")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "app.templates", cfg.Loader.Root)
				assert.Equal(t, "latin1", cfg.Loader.Encoding)
				assert.Equal(t, "dist/bundle.zip", cfg.Bundle.Archive)
				assert.Equal(t, ".container", cfg.Bundle.Marker)
				assert.False(t, cfg.Bundle.Isolate)
				assert.Equal(t, "json", cfg.Log.Format)
			},
		},
		{
			name: "invalid root identifier",
			setup: func() {
				viper.Reset()
				viper.Set("loader.root", "app..templates")
			},
			expectError: true,
		},
		{
			name: "marker with path separator",
			setup: func() {
				viper.Reset()
				viper.Set("bundle.marker", "a/__init__.py")
			},
			expectError: true,
		},
		{
			name: "archive that is not a zip",
			setup: func() {
				viper.Reset()
				viper.Set("bundle.archive", "bundle.tar")
			},
			expectError: true,
		},
		{
			name: "unknown log level",
			setup: func() {
				viper.Reset()
				viper.Set("log.level", "chatty")
			},
			expectError: true,
		},
		{
			name: "unknown log format",
			setup: func() {
				viper.Reset()
				viper.Set("log.format", "xml")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer viper.Reset()

			cfg, err := Load()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.check(t, cfg)
		})
	}
}

func TestManifestFromConfig(t *testing.T) {
	cfg := &Config{Bundle: BundleConfig{Marker: ".pkg", Isolate: false}}

	m := cfg.Manifest()
	assert.Equal(t, ".pkg", m.Marker)
	assert.False(t, m.IsolateEnabled())
}

func TestLoggerFromConfig(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.Log.Level = "nope"
	_, err = cfg.Logger()
	assert.Error(t, err)

	var _ logging.Logger = logger
}

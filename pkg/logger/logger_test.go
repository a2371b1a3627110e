package logger

import (
	"testing"

	"ems-portal/config"

	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		level  string
		format string
	}{
		{"development_console", "development", "debug", "console"},
		{"production_json", "production", "info", "json"},
		{"unknown_level_defaults", "development", "bogus", "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Server: config.ServerConfig{Env: tt.env},
				Log:    config.LogConfig{Level: tt.level, Format: tt.format},
			}

			err := Init(cfg)
			require.NoError(t, err)
			require.NotNil(t, Logger)

			// Package-level helpers must not panic
			Info("info message")
			Error("error message")

			Close()
		})
	}
}

func TestHelpersWithoutInit(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	// Must not panic when the logger was never initialized
	Info("info")
	Error("error")
}

// Package config defines the application configuration and its loading from
// files, environment variables, and CLI flags.
package config

import (
	"time"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

// Config is the root application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Council   CouncilConfig   `mapstructure:"council"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	State     StateConfig     `mapstructure:"state"`
}

// LogConfig controls logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// GeneratorConfig selects and configures the generation backend.
type GeneratorConfig struct {
	Kind    string        `mapstructure:"kind"` // exec or static
	Command string        `mapstructure:"command"`
	Args    []string      `mapstructure:"args"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CouncilConfig mirrors the runtime investigation settings.
type CouncilConfig struct {
	Mode                string  `mapstructure:"mode"` // empty means auto-classify
	MaxDebateRounds     int     `mapstructure:"max_debate_rounds"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	TimeoutSeconds      int     `mapstructure:"timeout_seconds"`
	PanelTimeoutSeconds int     `mapstructure:"panel_timeout_seconds"`
}

// TelemetryConfig points panels at their data source.
type TelemetryConfig struct {
	Kind string `mapstructure:"kind"` // static or dir
	Dir  string `mapstructure:"dir"`
}

// StateConfig controls run persistence.
type StateConfig struct {
	Dir     string `mapstructure:"dir"`
	Enabled bool   `mapstructure:"enabled"`
}

// ToCouncilConfig converts the file-level council section into the runtime
// config, applying defaults for unset values. An explicit mode string pins
// the pipeline and disables classification.
func (c CouncilConfig) ToCouncilConfig() (core.CouncilConfig, error) {
	cfg := core.DefaultCouncilConfig()
	if c.MaxDebateRounds > 0 {
		cfg.MaxDebateRounds = c.MaxDebateRounds
	}
	if c.ConfidenceThreshold > 0 {
		cfg.ConfidenceThreshold = c.ConfidenceThreshold
	}
	if c.TimeoutSeconds > 0 {
		cfg.TimeoutSeconds = c.TimeoutSeconds
	}
	if c.PanelTimeoutSeconds > 0 {
		cfg.PanelTimeoutSeconds = c.PanelTimeoutSeconds
	}
	if c.Mode != "" {
		mode, err := core.ParseMode(c.Mode)
		if err != nil {
			return cfg, core.ErrValidation(core.CodeInvalidConfig, err.Error())
		}
		cfg.Mode = mode
		cfg.ModeExplicit = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

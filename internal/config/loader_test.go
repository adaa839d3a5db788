package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

func TestLoader_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "council.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	cfg, err := NewLoader().WithConfigFile(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.Log.Format)
	assert.Equal(t, 8470, cfg.Server.Port)
	assert.Equal(t, "exec", cfg.Generator.Kind)
	assert.Equal(t, 3, cfg.Council.MaxDebateRounds)
	assert.InDelta(t, 0.85, cfg.Council.ConfidenceThreshold, 1e-9)
	assert.Equal(t, 120, cfg.Council.TimeoutSeconds)
	assert.True(t, cfg.State.Enabled)
}

func TestLoader_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "council.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
council:
  mode: debate
  max_debate_rounds: 5
  confidence_threshold: 0.9
server:
  port: 9000
`), 0o644))

	cfg, err := NewLoader().WithConfigFile(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "debate", cfg.Council.Mode)
	assert.Equal(t, 5, cfg.Council.MaxDebateRounds)
	assert.Equal(t, 9000, cfg.Server.Port)
	// Untouched sections keep their defaults.
	assert.Equal(t, "exec", cfg.Generator.Kind)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "council.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	t.Setenv("COUNCIL_LOG_LEVEL", "error")

	cfg, err := NewLoader().WithConfigFile(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestCouncilConfig_ToCouncilConfig(t *testing.T) {
	section := CouncilConfig{Mode: "debate", MaxDebateRounds: 4, ConfidenceThreshold: 0.9, TimeoutSeconds: 60}
	cfg, err := section.ToCouncilConfig()
	require.NoError(t, err)

	assert.Equal(t, core.ModeDebate, cfg.Mode)
	assert.True(t, cfg.ModeExplicit)
	assert.Equal(t, 4, cfg.MaxDebateRounds)
	assert.Equal(t, 60, cfg.TimeoutSeconds)

	// Empty mode keeps classification enabled.
	cfg, err = CouncilConfig{}.ToCouncilConfig()
	require.NoError(t, err)
	assert.False(t, cfg.ModeExplicit)
	assert.Equal(t, 3, cfg.MaxDebateRounds)

	_, err = CouncilConfig{Mode: "turbo"}.ToCouncilConfig()
	assert.Error(t, err)

	_, err = CouncilConfig{MaxDebateRounds: 99}.ToCouncilConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := NewLoader().Load()
		require.NoError(t, err)
		return cfg
	}

	require.NoError(t, Validate(valid()))

	cfg := valid()
	cfg.Log.Level = "verbose"
	assert.ErrorContains(t, Validate(cfg), "log.level")

	cfg = valid()
	cfg.Server.Port = 0
	assert.ErrorContains(t, Validate(cfg), "server.port")

	cfg = valid()
	cfg.Generator.Kind = "exec"
	cfg.Generator.Command = ""
	assert.ErrorContains(t, Validate(cfg), "generator.command")

	cfg = valid()
	cfg.Council.ConfidenceThreshold = 1.5
	assert.ErrorContains(t, Validate(cfg), "council")

	cfg = valid()
	cfg.Telemetry.Kind = "prometheus"
	assert.ErrorContains(t, Validate(cfg), "telemetry.kind")
}

package config

import (
	"fmt"
	"strings"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates all problems found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks the whole configuration and returns every problem found.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{"log.level",
			fmt.Sprintf("unknown level %q", cfg.Log.Level)})
	}
	switch cfg.Log.Format {
	case "auto", "text", "json":
	default:
		errs = append(errs, ValidationError{"log.format",
			fmt.Sprintf("unknown format %q", cfg.Log.Format)})
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, ValidationError{"server.port",
			fmt.Sprintf("port %d outside [1,65535]", cfg.Server.Port)})
	}

	switch cfg.Generator.Kind {
	case "exec":
		if cfg.Generator.Command == "" {
			errs = append(errs, ValidationError{"generator.command",
				"required when generator.kind is exec"})
		}
	case "static":
	default:
		errs = append(errs, ValidationError{"generator.kind",
			fmt.Sprintf("unknown kind %q", cfg.Generator.Kind)})
	}

	switch cfg.Telemetry.Kind {
	case "static", "dir":
	default:
		errs = append(errs, ValidationError{"telemetry.kind",
			fmt.Sprintf("unknown kind %q", cfg.Telemetry.Kind)})
	}

	if _, err := cfg.Council.ToCouncilConfig(); err != nil {
		errs = append(errs, ValidationError{"council", err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

package core

import (
	"fmt"
	"time"
)

// CouncilConfig holds the run parameters for one investigation.
// It is immutable per run; Validate is the only place a malformed
// configuration surfaces as a synchronous error.
type CouncilConfig struct {
	// Mode requests a pipeline. Classification decides the effective mode
	// unless ModeExplicit is set, in which case Mode wins.
	Mode         Mode `json:"mode"`
	ModeExplicit bool `json:"mode_explicit,omitempty"`

	// MaxDebateRounds bounds the total number of rounds in debate mode,
	// including the seed round. Range [1,10].
	MaxDebateRounds int `json:"max_debate_rounds"`

	// ConfidenceThreshold is the debate convergence gate. Range [0,1].
	ConfidenceThreshold float64 `json:"confidence_threshold"`

	// TimeoutSeconds is the global run deadline. Range [10,600].
	TimeoutSeconds int `json:"timeout_seconds"`

	// PanelTimeoutSeconds is the per-panel soft timeout. Zero means derived:
	// half the global deadline, capped at 60s.
	PanelTimeoutSeconds int `json:"panel_timeout_seconds,omitempty"`
}

// Config defaults and bounds.
const (
	DefaultMaxDebateRounds     = 3
	DefaultConfidenceThreshold = 0.85
	DefaultTimeoutSeconds      = 120

	MinDebateRounds   = 1
	MaxDebateRounds   = 10
	MinTimeoutSeconds = 10
	MaxTimeoutSeconds = 600
	MaxPanelTimeout   = 60 * time.Second
)

// DefaultCouncilConfig returns the standard run parameters.
func DefaultCouncilConfig() CouncilConfig {
	return CouncilConfig{
		Mode:                ModeStandard,
		MaxDebateRounds:     DefaultMaxDebateRounds,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		TimeoutSeconds:      DefaultTimeoutSeconds,
	}
}

// Validate checks configuration invariants.
func (c CouncilConfig) Validate() error {
	if !ValidMode(c.Mode) {
		return ErrValidation(CodeInvalidConfig, fmt.Sprintf("invalid mode: %s", c.Mode))
	}
	if c.MaxDebateRounds < MinDebateRounds || c.MaxDebateRounds > MaxDebateRounds {
		return ErrValidation(CodeInvalidConfig,
			fmt.Sprintf("max_debate_rounds %d outside [%d,%d]", c.MaxDebateRounds, MinDebateRounds, MaxDebateRounds))
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return ErrValidation(CodeInvalidConfig,
			fmt.Sprintf("confidence_threshold %.2f outside [0,1]", c.ConfidenceThreshold))
	}
	if c.TimeoutSeconds < MinTimeoutSeconds || c.TimeoutSeconds > MaxTimeoutSeconds {
		return ErrValidation(CodeInvalidConfig,
			fmt.Sprintf("timeout_seconds %d outside [%d,%d]", c.TimeoutSeconds, MinTimeoutSeconds, MaxTimeoutSeconds))
	}
	if c.PanelTimeoutSeconds < 0 || c.PanelTimeoutSeconds > c.TimeoutSeconds {
		return ErrValidation(CodeInvalidConfig,
			fmt.Sprintf("panel_timeout_seconds %d outside [0,%d]", c.PanelTimeoutSeconds, c.TimeoutSeconds))
	}
	return nil
}

// Timeout returns the global run deadline as a duration.
func (c CouncilConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PanelTimeout returns the per-panel soft timeout.
func (c CouncilConfig) PanelTimeout() time.Duration {
	if c.PanelTimeoutSeconds > 0 {
		return time.Duration(c.PanelTimeoutSeconds) * time.Second
	}
	derived := c.Timeout() / 2
	if derived > MaxPanelTimeout {
		return MaxPanelTimeout
	}
	return derived
}

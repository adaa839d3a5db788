package core

import "fmt"

// PanelFinding is one specialist panel's structured output for a round.
// A finding is immutable once produced; each panel contributes exactly one
// finding (or none, on hard failure) per round.
type PanelFinding struct {
	PanelName          string   `json:"panel_name"`
	Summary            string   `json:"summary"`
	Severity           Severity `json:"severity"`
	Confidence         float64  `json:"confidence"`
	Evidence           []string `json:"evidence,omitempty"`
	RecommendedActions []string `json:"recommended_actions,omitempty"`
}

// Validate checks finding invariants.
func (f *PanelFinding) Validate() error {
	if f.PanelName == "" {
		return ErrValidation("FINDING_PANEL_REQUIRED", "finding panel name cannot be empty")
	}
	if !ValidSeverity(f.Severity) {
		return ErrValidation("FINDING_SEVERITY_INVALID", fmt.Sprintf("invalid severity: %s", f.Severity))
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return ErrValidation("FINDING_CONFIDENCE_RANGE", fmt.Sprintf("confidence %.2f outside [0,1]", f.Confidence))
	}
	return nil
}

// ClampConfidence forces the confidence into [0,1].
func (f *PanelFinding) ClampConfidence() {
	if f.Confidence < 0 {
		f.Confidence = 0
	}
	if f.Confidence > 1 {
		f.Confidence = 1
	}
}

// HasEvidence reports whether the panel backed its summary with evidence.
func (f *PanelFinding) HasEvidence() bool {
	return len(f.Evidence) > 0
}

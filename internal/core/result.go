package core

import "time"

// CriticReport is the cross-examination of a round's findings.
// Produced only in debate mode, one per round.
type CriticReport struct {
	Agreements        []string `json:"agreements,omitempty"`
	Contradictions    []string `json:"contradictions,omitempty"`
	Gaps              []string `json:"gaps,omitempty"`
	RevisedConfidence float64  `json:"revised_confidence"`
}

// ConvergenceRecord is the per-round debate telemetry snapshot.
// Records are appended, never mutated.
type ConvergenceRecord struct {
	Round                int     `json:"round"`
	Confidence           float64 `json:"confidence"`
	ConfidenceDelta      float64 `json:"confidence_delta"`
	CriticGaps           int     `json:"critic_gaps"`
	CriticContradictions int     `json:"critic_contradictions"`
	RoundDurationMS      int64   `json:"round_duration_ms"`
	Threshold            float64 `json:"threshold"`
	Converged            bool    `json:"converged"`
}

// CouncilResult is the final merged output of one investigation run.
// It is a stable JSON-serializable contract consumed by downstream
// presentation and telemetry layers.
type CouncilResult struct {
	RunID             string              `json:"run_id"`
	Query             string              `json:"query"`
	Mode              Mode                `json:"mode"`
	Routing           *RoutingResult      `json:"routing,omitempty"`
	Panels            []PanelFinding      `json:"panels"`
	CriticReport      *CriticReport       `json:"critic_report,omitempty"`
	Synthesis         string              `json:"synthesis"`
	OverallSeverity   Severity            `json:"overall_severity"`
	OverallConfidence float64             `json:"overall_confidence"`
	Rounds            int                 `json:"rounds"`
	Convergence       []ConvergenceRecord `json:"convergence,omitempty"`
	Partial           bool                `json:"partial,omitempty"`
	StartedAt         time.Time           `json:"started_at"`
	CompletedAt       time.Time           `json:"completed_at"`
}

// Duration returns the wall-clock time of the run.
func (r *CouncilResult) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// FindingFor returns the finding contributed by the named panel, if any.
func (r *CouncilResult) FindingFor(panel string) (PanelFinding, bool) {
	for _, f := range r.Panels {
		if f.PanelName == panel {
			return f, true
		}
	}
	return PanelFinding{}, false
}

// RunSummary is a compact view of a stored run, used by history listings.
type RunSummary struct {
	RunID             string    `json:"run_id"`
	Query             string    `json:"query"`
	Mode              Mode      `json:"mode"`
	OverallSeverity   Severity  `json:"overall_severity"`
	OverallConfidence float64   `json:"overall_confidence"`
	Rounds            int       `json:"rounds"`
	Partial           bool      `json:"partial"`
	CreatedAt         time.Time `json:"created_at"`
}

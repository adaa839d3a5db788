package events

import "github.com/hugo-lorenzo-mato/council-ai/internal/core"

// Event type constants for investigation runs.
const (
	TypeRunStarted     = "run.started"
	TypeRunCompleted   = "run.completed"
	TypeRoutingDecided = "routing.decided"
	TypePanelStarted   = "panel.started"
	TypePanelCompleted = "panel.completed"
	TypePanelSkipped   = "panel.skipped"
	TypeRoundCompleted = "round.completed"
)

// RunStartedEvent is published when an investigation begins.
type RunStartedEvent struct {
	BaseEvent
	Query string    `json:"query"`
	Mode  core.Mode `json:"mode"`
}

// NewRunStarted creates a run started event.
func NewRunStarted(runID, query string, mode core.Mode) RunStartedEvent {
	return RunStartedEvent{
		BaseEvent: NewBaseEvent(TypeRunStarted, runID),
		Query:     query,
		Mode:      mode,
	}
}

// RunCompletedEvent is published when an investigation finishes,
// including partial and timed-out outcomes.
type RunCompletedEvent struct {
	BaseEvent
	Mode              core.Mode     `json:"mode"`
	OverallSeverity   core.Severity `json:"overall_severity"`
	OverallConfidence float64       `json:"overall_confidence"`
	Rounds            int           `json:"rounds"`
	Partial           bool          `json:"partial"`
	DurationMS        int64         `json:"duration_ms"`
}

// NewRunCompleted creates a run completed event from a result.
func NewRunCompleted(result *core.CouncilResult) RunCompletedEvent {
	return RunCompletedEvent{
		BaseEvent:         NewBaseEvent(TypeRunCompleted, result.RunID),
		Mode:              result.Mode,
		OverallSeverity:   result.OverallSeverity,
		OverallConfidence: result.OverallConfidence,
		Rounds:            result.Rounds,
		Partial:           result.Partial,
		DurationMS:        result.Duration().Milliseconds(),
	}
}

// RoutingDecidedEvent is published after intent classification.
type RoutingDecidedEvent struct {
	BaseEvent
	Routing core.RoutingResult `json:"routing"`
}

// NewRoutingDecided creates a routing decided event.
func NewRoutingDecided(runID string, routing core.RoutingResult) RoutingDecidedEvent {
	return RoutingDecidedEvent{
		BaseEvent: NewBaseEvent(TypeRoutingDecided, runID),
		Routing:   routing,
	}
}

// PanelEvent is published for panel lifecycle transitions.
type PanelEvent struct {
	BaseEvent
	Panel      string        `json:"panel"`
	Round      int           `json:"round"`
	Severity   core.Severity `json:"severity,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// NewPanelStarted creates a panel started event.
func NewPanelStarted(runID, panel string, round int) PanelEvent {
	return PanelEvent{
		BaseEvent: NewBaseEvent(TypePanelStarted, runID),
		Panel:     panel,
		Round:     round,
	}
}

// NewPanelCompleted creates a panel completed event.
func NewPanelCompleted(runID string, round int, finding core.PanelFinding) PanelEvent {
	return PanelEvent{
		BaseEvent:  NewBaseEvent(TypePanelCompleted, runID),
		Panel:      finding.PanelName,
		Round:      round,
		Severity:   finding.Severity,
		Confidence: finding.Confidence,
	}
}

// NewPanelSkipped creates a panel skipped event for failures and timeouts.
func NewPanelSkipped(runID, panel string, round int, err error) PanelEvent {
	e := PanelEvent{
		BaseEvent: NewBaseEvent(TypePanelSkipped, runID),
		Panel:     panel,
		Round:     round,
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// RoundCompletedEvent is published after each debate round.
type RoundCompletedEvent struct {
	BaseEvent
	Record core.ConvergenceRecord `json:"record"`
}

// NewRoundCompleted creates a round completed event.
func NewRoundCompleted(runID string, record core.ConvergenceRecord) RoundCompletedEvent {
	return RoundCompletedEvent{
		BaseEvent: NewBaseEvent(TypeRoundCompleted, runID),
		Record:    record,
	}
}

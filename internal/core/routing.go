package core

// ClassifierSource identifies which classification tier produced a RoutingResult.
type ClassifierSource string

const (
	// ClassifierRuleBased means the deterministic keyword classifier decided.
	ClassifierRuleBased ClassifierSource = "rule-based"

	// ClassifierLLM means the generation-backed classifier accepted and
	// possibly revised the rule-based decision.
	ClassifierLLM ClassifierSource = "llm-augmented"

	// ClassifierFallback means the generation-backed path failed and the
	// rule-based result was returned unchanged.
	ClassifierFallback ClassifierSource = "fallback"
)

// RoutingResult is the outcome of intent classification for one query.
type RoutingResult struct {
	Mode           Mode             `json:"mode"`
	SignalType     SignalType       `json:"signal_type"`
	Confidence     float64          `json:"confidence"`
	ClassifierUsed ClassifierSource `json:"classifier_used"`
	Reasoning      string           `json:"reasoning,omitempty"`
}

// SessionContext carries per-session hints into classification.
// All fields are optional; the zero value is a context-free query.
type SessionContext struct {
	SessionID     string   `json:"session_id,omitempty"`
	RecentQueries []string `json:"recent_queries,omitempty"`
	PriorModes    []Mode   `json:"prior_modes,omitempty"`
	AlertSeverity Severity `json:"alert_severity,omitempty"`
	TokenBudget   int      `json:"token_budget,omitempty"`
}

// LastQueries returns up to n most recent queries, newest last.
func (s SessionContext) LastQueries(n int) []string {
	if len(s.RecentQueries) <= n {
		return s.RecentQueries
	}
	return s.RecentQueries[len(s.RecentQueries)-n:]
}

package core

import "fmt"

// Mode represents the amount of investigative effort spent on a query.
type Mode string

const (
	// ModeNone means the query is conversational and the council is not convened.
	ModeNone Mode = "none"

	// ModeFast runs a single panel for the dominant signal type.
	ModeFast Mode = "fast"

	// ModeStandard runs all registered panels once, in parallel.
	ModeStandard Mode = "standard"

	// ModeDebate runs standard dispatch followed by bounded rounds of
	// critique and re-investigation until confidence converges.
	ModeDebate Mode = "debate"
)

// AllModes returns the pipeline modes in increasing order of effort.
func AllModes() []Mode {
	return []Mode{ModeNone, ModeFast, ModeStandard, ModeDebate}
}

// ValidMode checks if a mode string is valid.
func ValidMode(m Mode) bool {
	switch m {
	case ModeNone, ModeFast, ModeStandard, ModeDebate:
		return true
	default:
		return false
	}
}

// ParseMode converts a string to a Mode with validation.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !ValidMode(m) {
		return "", fmt.Errorf("invalid mode: %s", s)
	}
	return m, nil
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m Mode) Description() string {
	switch m {
	case ModeNone:
		return "Conversational query, council not convened"
	case ModeFast:
		return "Single panel for the dominant signal type"
	case ModeStandard:
		return "All panels in parallel with one synthesis pass"
	case ModeDebate:
		return "Iterative critique rounds until confidence converges"
	default:
		return "Unknown mode"
	}
}

// SignalType is the telemetry domain a query is primarily about.
type SignalType string

const (
	SignalTrace    SignalType = "trace"
	SignalMetrics  SignalType = "metrics"
	SignalLogs     SignalType = "logs"
	SignalAlerts   SignalType = "alerts"
	SignalDatasets SignalType = "datasets"
	SignalNone     SignalType = "none"
)

// AllSignals returns the telemetry signal types panels can bind to.
func AllSignals() []SignalType {
	return []SignalType{SignalTrace, SignalMetrics, SignalLogs, SignalAlerts, SignalDatasets}
}

// ValidSignal checks if a signal type string is valid.
func ValidSignal(s SignalType) bool {
	switch s {
	case SignalTrace, SignalMetrics, SignalLogs, SignalAlerts, SignalDatasets, SignalNone:
		return true
	default:
		return false
	}
}

// String returns the string representation of the signal type.
func (s SignalType) String() string {
	return string(s)
}

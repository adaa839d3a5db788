package council

import (
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

// MinAcceptConfidence is the floor below which a finding still appears in the
// result but no longer influences the overall severity.
const MinAcceptConfidence = 0.3

// Synthesizer merges a set of panel findings into one coherent assessment.
// It is deterministic over the set of findings: the same findings produce the
// same synthesis regardless of panel completion order.
type Synthesizer struct{}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Synthesis is the merged assessment of one round.
type Synthesis struct {
	Narrative         string
	OverallSeverity   core.Severity
	OverallConfidence float64
}

// Merge combines findings into a single assessment. Findings must already be
// in stable order (Context.Findings sorts by panel name).
//
// Overall confidence is the confidence-weighted mean of the findings, which
// pulls the aggregate toward the panels that are most certain. Overall
// severity is the worst severity reported with at least MinAcceptConfidence.
func (s *Synthesizer) Merge(findings []core.PanelFinding) Synthesis {
	if len(findings) == 0 {
		return Synthesis{
			Narrative:         "Insufficient data: no panel produced a finding for this query.",
			OverallSeverity:   core.SeverityInfo,
			OverallConfidence: 0.1,
		}
	}

	var sum, weighted float64
	severity := core.SeverityHealthy
	for _, f := range findings {
		sum += f.Confidence
		weighted += f.Confidence * f.Confidence
		if f.Confidence >= MinAcceptConfidence {
			severity = core.MaxSeverity(severity, f.Severity)
		}
	}

	confidence := 0.0
	if sum > 0 {
		confidence = weighted / sum
	}

	return Synthesis{
		Narrative:         s.narrative(findings, severity),
		OverallSeverity:   severity,
		OverallConfidence: confidence,
	}
}

// narrative builds the merged prose. Contradicting findings are both kept,
// with the lower-confidence side explicitly marked as the weaker signal.
func (s *Synthesizer) narrative(findings []core.PanelFinding, overall core.Severity) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Overall assessment: %s across %d panel(s).\n\n", overall, len(findings))

	for _, f := range findings {
		fmt.Fprintf(&sb, "[%s] %s (severity %s, confidence %.2f)",
			f.PanelName, f.Summary, f.Severity, f.Confidence)
		if f.Confidence < MinAcceptConfidence {
			sb.WriteString(" [low confidence, excluded from severity]")
		}
		sb.WriteString("\n")
		for _, ev := range f.Evidence {
			fmt.Fprintf(&sb, "  evidence: %s\n", ev)
		}
	}

	if conflicts := conflictNotes(findings); len(conflicts) > 0 {
		sb.WriteString("\nConflicting signals:\n")
		for _, c := range conflicts {
			sb.WriteString("- ")
			sb.WriteString(c)
			sb.WriteString("\n")
		}
	}

	if actions := mergedActions(findings); len(actions) > 0 {
		sb.WriteString("\nRecommended actions:\n")
		for _, a := range actions {
			sb.WriteString("- ")
			sb.WriteString(a)
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// conflictNotes describes panel pairs whose severities are far apart,
// leaning toward the higher-confidence side.
func conflictNotes(findings []core.PanelFinding) []string {
	var notes []string
	for i := 0; i < len(findings); i++ {
		for j := i + 1; j < len(findings); j++ {
			a, b := findings[i], findings[j]
			if core.SeverityDistance(a.Severity, b.Severity) < 2 {
				continue
			}
			stronger, weaker := a, b
			if b.Confidence > a.Confidence {
				stronger, weaker = b, a
			}
			notes = append(notes, fmt.Sprintf(
				"%s (%s, %.2f) disagrees with %s (%s, %.2f); weighting toward %s",
				stronger.PanelName, stronger.Severity, stronger.Confidence,
				weaker.PanelName, weaker.Severity, weaker.Confidence,
				stronger.PanelName))
		}
	}
	return notes
}

// mergedActions deduplicates recommended actions, keeping first occurrence
// order across the name-sorted findings.
func mergedActions(findings []core.PanelFinding) []string {
	seen := make(map[string]bool)
	var actions []string
	for _, f := range findings {
		for _, a := range f.RecommendedActions {
			key := strings.ToLower(strings.TrimSpace(a))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			actions = append(actions, a)
		}
	}
	return actions
}

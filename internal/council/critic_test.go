package council

import (
	"context"
	"errors"
	"testing"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

func TestCritic_HeuristicContradictions(t *testing.T) {
	findings := []core.PanelFinding{
		{PanelName: "logs", Summary: "all clear", Severity: core.SeverityHealthy, Confidence: 0.8,
			Evidence: []string{"no errors in window"}},
		{PanelName: "metrics", Summary: "saturation", Severity: core.SeverityCritical, Confidence: 0.9,
			Evidence: []string{"cpu pegged"}},
	}

	report := NewCritic(nil, nil).Critique(context.Background(), "q", findings, 0.8)
	if len(report.Contradictions) != 1 {
		t.Fatalf("got %d contradictions, want 1", len(report.Contradictions))
	}
	if report.RevisedConfidence >= 0.8 {
		t.Fatalf("contradictions should lower confidence: %.2f", report.RevisedConfidence)
	}
}

func TestCritic_HeuristicAgreements(t *testing.T) {
	findings := []core.PanelFinding{
		{PanelName: "logs", Summary: "warning signs", Severity: core.SeverityWarning, Confidence: 0.7,
			Evidence: []string{"retry storm"}},
		{PanelName: "trace", Summary: "degradation", Severity: core.SeverityWarning, Confidence: 0.8,
			Evidence: []string{"p99 doubled"}},
	}

	report := NewCritic(nil, nil).Critique(context.Background(), "q", findings, 0.7)
	if len(report.Agreements) != 1 {
		t.Fatalf("got %d agreements, want 1", len(report.Agreements))
	}
	if len(report.Contradictions) != 0 {
		t.Fatalf("got %d contradictions, want 0", len(report.Contradictions))
	}
}

func TestCritic_HeuristicFlagsMissingEvidence(t *testing.T) {
	findings := []core.PanelFinding{
		{PanelName: "alerts", Summary: "something feels off", Severity: core.SeverityWarning, Confidence: 0.6},
	}

	report := NewCritic(nil, nil).Critique(context.Background(), "q", findings, 0.6)
	found := false
	for _, g := range report.Gaps {
		if g == "panel alerts reported without supporting evidence" {
			found = true
		}
	}
	if !found {
		t.Fatalf("evidence gap not flagged: %v", report.Gaps)
	}
}

func TestCritic_HeuristicDeterministic(t *testing.T) {
	findings := []core.PanelFinding{
		{PanelName: "logs", Summary: "errors up", Severity: core.SeverityWarning, Confidence: 0.7,
			Evidence: []string{"5xx spike"}},
		{PanelName: "metrics", Summary: "memory climbing", Severity: core.SeverityCritical, Confidence: 0.8,
			Evidence: []string{"rss trend"}},
	}

	critic := NewCritic(nil, nil)
	first := critic.Critique(context.Background(), "q", findings, 0.75)
	for i := 0; i < 5; i++ {
		got := critic.Critique(context.Background(), "q", findings, 0.75)
		if !closeTo(got.RevisedConfidence, first.RevisedConfidence) {
			t.Fatalf("heuristic critique not deterministic on call %d", i)
		}
	}
}

func TestCritic_GeneratorFailureFallsBackToHeuristic(t *testing.T) {
	gen := &stubGenerator{err: errors.New("backend unreachable")}
	findings := []core.PanelFinding{
		{PanelName: "logs", Summary: "fine", Severity: core.SeverityHealthy, Confidence: 0.9,
			Evidence: []string{"clean window"}},
	}

	report := NewCritic(gen, nil).Critique(context.Background(), "q", findings, 0.9)
	if report == nil {
		t.Fatalf("critique must never be nil")
	}
	if gen.callCount() != 1 {
		t.Fatalf("generator called %d times, want 1", gen.callCount())
	}
}

func TestParseCriticOutput(t *testing.T) {
	output := `---
revised_confidence: 0.78
---

## Agreements
- both panels see elevated latency

## Contradictions
- logs say healthy, metrics say critical

## Gaps
- no alert history was consulted
- dataset cardinality unexplored
`
	report, err := parseCriticOutput(output, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !closeTo(report.RevisedConfidence, 0.78) {
		t.Errorf("revised confidence = %.2f, want 0.78", report.RevisedConfidence)
	}
	if len(report.Agreements) != 1 || len(report.Contradictions) != 1 || len(report.Gaps) != 2 {
		t.Errorf("section counts wrong: %d/%d/%d", len(report.Agreements), len(report.Contradictions), len(report.Gaps))
	}
}

func TestParseCriticOutput_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"no frontmatter", "## Agreements\n- something"},
		{"unterminated frontmatter", "---\nrevised_confidence: 0.5\n## Gaps"},
		{"confidence out of range", "---\nrevised_confidence: 1.4\n---\n## Gaps\n- g"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseCriticOutput(tt.output, 0.5); err == nil {
				t.Fatalf("expected parse error")
			}
		})
	}
}

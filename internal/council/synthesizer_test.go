package council

import (
	"strings"
	"testing"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

func TestSynthesizer_EmptyFindings(t *testing.T) {
	syn := NewSynthesizer().Merge(nil)

	if syn.OverallSeverity != core.SeverityInfo {
		t.Errorf("severity = %s, want %s", syn.OverallSeverity, core.SeverityInfo)
	}
	if !closeTo(syn.OverallConfidence, 0.1) {
		t.Errorf("confidence = %.2f, want 0.1", syn.OverallConfidence)
	}
	if !strings.Contains(syn.Narrative, "Insufficient data") {
		t.Errorf("narrative should flag insufficient data: %q", syn.Narrative)
	}
}

func TestSynthesizer_SeverityIsWorstConfidentFinding(t *testing.T) {
	findings := []core.PanelFinding{
		{PanelName: "logs", Summary: "error rate elevated", Severity: core.SeverityWarning, Confidence: 0.8},
		{PanelName: "metrics", Summary: "cpu nominal", Severity: core.SeverityHealthy, Confidence: 0.9},
		{PanelName: "trace", Summary: "possible cascading failure", Severity: core.SeverityCritical, Confidence: 0.2},
	}

	syn := NewSynthesizer().Merge(findings)
	if syn.OverallSeverity != core.SeverityWarning {
		t.Fatalf("severity = %s, want %s (low-confidence critical must not dominate)",
			syn.OverallSeverity, core.SeverityWarning)
	}
	if !strings.Contains(syn.Narrative, "low confidence") {
		t.Errorf("narrative should mark the excluded finding: %q", syn.Narrative)
	}
}

func TestSynthesizer_ConfidenceWeightedMean(t *testing.T) {
	findings := []core.PanelFinding{
		{PanelName: "logs", Summary: "a", Severity: core.SeverityInfo, Confidence: 0.9},
		{PanelName: "metrics", Summary: "b", Severity: core.SeverityInfo, Confidence: 0.3},
	}

	syn := NewSynthesizer().Merge(findings)
	want := (0.9*0.9 + 0.3*0.3) / (0.9 + 0.3)
	if !closeTo(syn.OverallConfidence, want) {
		t.Fatalf("confidence = %.4f, want %.4f", syn.OverallConfidence, want)
	}
	// The weighted mean must sit above the plain mean: certainty pulls up.
	if syn.OverallConfidence <= 0.6 {
		t.Fatalf("weighted mean %.4f should exceed plain mean 0.6", syn.OverallConfidence)
	}
}

func TestSynthesizer_OrderIndependence(t *testing.T) {
	a := core.PanelFinding{PanelName: "alerts", Summary: "pager quiet", Severity: core.SeverityHealthy, Confidence: 0.7}
	b := core.PanelFinding{PanelName: "trace", Summary: "latency spike", Severity: core.SeverityWarning, Confidence: 0.8}
	c := core.PanelFinding{PanelName: "logs", Summary: "oom kills observed", Severity: core.SeverityCritical, Confidence: 0.9}

	first := NewContext("r1", "q", core.SessionContext{}, core.DefaultCouncilConfig())
	for _, f := range []core.PanelFinding{a, b, c} {
		first.SetFinding(f)
	}
	second := NewContext("r2", "q", core.SessionContext{}, core.DefaultCouncilConfig())
	for _, f := range []core.PanelFinding{c, a, b} {
		second.SetFinding(f)
	}

	s := NewSynthesizer()
	one := s.Merge(first.Findings())
	two := s.Merge(second.Findings())

	if one.Narrative != two.Narrative {
		t.Fatalf("narrative depends on completion order:\n%q\nvs\n%q", one.Narrative, two.Narrative)
	}
	if one.OverallSeverity != two.OverallSeverity || !closeTo(one.OverallConfidence, two.OverallConfidence) {
		t.Fatalf("assessment depends on completion order")
	}
}

func TestSynthesizer_ConflictsWeightTowardConfidence(t *testing.T) {
	findings := []core.PanelFinding{
		{PanelName: "logs", Summary: "everything clean", Severity: core.SeverityHealthy, Confidence: 0.4},
		{PanelName: "metrics", Summary: "saturation imminent", Severity: core.SeverityCritical, Confidence: 0.9},
	}

	syn := NewSynthesizer().Merge(findings)
	if !strings.Contains(syn.Narrative, "weighting toward metrics") {
		t.Fatalf("conflict note should lean toward the confident panel: %q", syn.Narrative)
	}
	if syn.OverallSeverity != core.SeverityCritical {
		t.Fatalf("severity = %s, want %s", syn.OverallSeverity, core.SeverityCritical)
	}
}

func TestSynthesizer_DeduplicatesActions(t *testing.T) {
	findings := []core.PanelFinding{
		{PanelName: "logs", Summary: "a", Severity: core.SeverityWarning, Confidence: 0.7,
			RecommendedActions: []string{"Roll back the deploy", "check connection pool"}},
		{PanelName: "trace", Summary: "b", Severity: core.SeverityWarning, Confidence: 0.7,
			RecommendedActions: []string{"roll back the deploy"}},
	}

	syn := NewSynthesizer().Merge(findings)
	if n := strings.Count(strings.ToLower(syn.Narrative), "roll back the deploy"); n != 1 {
		t.Fatalf("duplicate action appears %d times, want 1", n)
	}
}

package council

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

func TestDispatcher_RunsPanelsInParallel(t *testing.T) {
	delay := 80 * time.Millisecond
	panels := []core.Panel{
		&stubPanel{name: "trace", signal: core.SignalTrace, delay: delay},
		&stubPanel{name: "metrics", signal: core.SignalMetrics, delay: delay},
		&stubPanel{name: "logs", signal: core.SignalLogs, delay: delay},
	}

	d := NewDispatcher(nil, nil, 0)
	start := time.Now()
	findings := d.RunPanels(context.Background(), "r1", panels, core.PanelInput{Query: "q", Round: 1})
	elapsed := time.Since(start)

	if len(findings) != 3 {
		t.Fatalf("got %d findings, want 3", len(findings))
	}
	// Serial execution would take 3x the delay.
	if elapsed > 2*delay {
		t.Fatalf("panels appear to have run serially: took %v", elapsed)
	}
}

func TestDispatcher_SkipsFailingPanel(t *testing.T) {
	panels := []core.Panel{
		healthyPanel("trace", core.SignalTrace),
		&stubPanel{name: "metrics", signal: core.SignalMetrics, err: errors.New("collector down")},
		healthyPanel("logs", core.SignalLogs),
	}

	d := NewDispatcher(nil, nil, 0)
	findings := d.RunPanels(context.Background(), "r1", panels, core.PanelInput{Query: "q", Round: 1})

	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}
	if _, ok := findings["metrics"]; ok {
		t.Fatalf("failing panel should not contribute a finding")
	}
	if _, ok := findings["trace"]; !ok {
		t.Fatalf("healthy panel missing from results")
	}
}

func TestDispatcher_EnforcesPanelTimeout(t *testing.T) {
	panels := []core.Panel{
		&stubPanel{name: "slow", signal: core.SignalTrace, delay: time.Second},
		healthyPanel("logs", core.SignalLogs),
	}

	d := NewDispatcher(nil, nil, 50*time.Millisecond)
	findings := d.RunPanels(context.Background(), "r1", panels, core.PanelInput{Query: "q", Round: 1})

	if _, ok := findings["slow"]; ok {
		t.Fatalf("timed-out panel should have been skipped")
	}
	if _, ok := findings["logs"]; !ok {
		t.Fatalf("fast panel should have completed despite sibling timeout")
	}
}

func TestDispatcher_DropsInvalidFinding(t *testing.T) {
	panels := []core.Panel{
		&stubPanel{
			name:   "bad",
			signal: core.SignalTrace,
			finding: core.PanelFinding{
				Summary:    "made-up severity level",
				Severity:   core.Severity("catastrophic"),
				Confidence: 0.5,
			},
		},
	}

	d := NewDispatcher(nil, nil, 0)
	findings := d.RunPanels(context.Background(), "r1", panels, core.PanelInput{Query: "q", Round: 1})
	if len(findings) != 0 {
		t.Fatalf("invalid finding should have been dropped, got %d", len(findings))
	}
}

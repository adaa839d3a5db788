package council

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
	"github.com/hugo-lorenzo-mato/council-ai/internal/events"
	"github.com/hugo-lorenzo-mato/council-ai/internal/logging"
)

// debateState tracks where a debate run is in its lifecycle. Terminal states
// are converged, round budget exhausted, and timed out.
type debateState string

const (
	stateInitializing         debateState = "initializing"
	stateRoundRunning         debateState = "round_running"
	stateConfidenceCheck      debateState = "confidence_check"
	stateConverged            debateState = "converged"
	stateRoundBudgetExhausted debateState = "round_budget_exhausted"
	stateTimedOut             debateState = "timed_out"
)

func (s debateState) terminal() bool {
	switch s {
	case stateConverged, stateRoundBudgetExhausted, stateTimedOut:
		return true
	}
	return false
}

// PanelRunner dispatches one round's input to a set of panels.
type PanelRunner interface {
	RunPanels(ctx context.Context, runID string, panels []core.Panel, in core.PanelInput) map[string]core.PanelFinding
}

// Synthesizing merges findings into one assessment.
type Synthesizing interface {
	Merge(findings []core.PanelFinding) Synthesis
}

// Critiquing cross-examines a round's findings.
type Critiquing interface {
	Critique(ctx context.Context, query string, findings []core.PanelFinding, confidence float64) *core.CriticReport
}

// DebateController drives the iterative refinement loop: run panels,
// synthesize, critique, check convergence, repeat. The first round is the
// seed pass and counts against the round budget; a budget of N yields at
// most N rounds total.
type DebateController struct {
	runner PanelRunner
	synth  Synthesizing
	critic Critiquing
	log    *logging.Logger
	bus    *events.Bus
}

// NewDebateController creates a debate controller.
func NewDebateController(runner PanelRunner, synth Synthesizing, critic Critiquing, log *logging.Logger, bus *events.Bus) *DebateController {
	if log == nil {
		log = logging.NewNop()
	}
	return &DebateController{
		runner: runner,
		synth:  synth,
		critic: critic,
		log:    log,
		bus:    bus,
	}
}

// Run executes debate rounds until convergence, round budget exhaustion, or
// deadline. Round results accumulate in ictx; the returned synthesis reflects
// the final round. Convergence checks in order: confidence threshold met,
// round budget spent, deadline passed. The deadline check comes after the
// budget check so a run that converges on its last allowed round still
// reports convergence.
func (dc *DebateController) Run(ctx context.Context, ictx *Context, panels []core.Panel) (Synthesis, debateState) {
	state := stateInitializing
	sessionSummary := renderSession(ictx.Session)

	var syn Synthesis
	prevConfidence := 0.0

	for round := 1; !state.terminal(); round++ {
		state = stateRoundRunning
		roundStart := time.Now()

		in := core.PanelInput{
			Query:          ictx.Query,
			SessionContext: sessionSummary,
			Round:          round,
		}
		if report := ictx.CriticReport(); report != nil {
			in.CriticContext = RenderCriticContext(report)
		}

		findings := dc.runner.RunPanels(ctx, ictx.RunID, panels, in)
		for _, f := range findings {
			ictx.SetFinding(f)
		}

		syn = dc.synth.Merge(ictx.Findings())

		state = stateConfidenceCheck
		report := dc.critic.Critique(ctx, ictx.Query, ictx.Findings(), syn.OverallConfidence)
		ictx.SetCriticReport(report)

		confidence := report.RevisedConfidence
		rec := core.ConvergenceRecord{
			Round:                round,
			Confidence:           confidence,
			ConfidenceDelta:      confidence - prevConfidence,
			CriticGaps:           len(report.Gaps),
			CriticContradictions: len(report.Contradictions),
			RoundDurationMS:      time.Since(roundStart).Milliseconds(),
			Threshold:            ictx.Config.ConfidenceThreshold,
			Converged:            confidence >= ictx.Config.ConfidenceThreshold,
		}
		prevConfidence = confidence
		ictx.AppendRound(rec)
		if dc.bus != nil {
			dc.bus.Publish(events.NewRoundCompleted(ictx.RunID, rec))
		}
		dc.log.Info("debate round completed",
			"round", round,
			"confidence", confidence,
			"delta", rec.ConfidenceDelta,
			"gaps", rec.CriticGaps,
			"contradictions", rec.CriticContradictions)

		switch {
		case rec.Converged:
			state = stateConverged
		case round >= ictx.Config.MaxDebateRounds:
			state = stateRoundBudgetExhausted
		case ctx.Err() != nil:
			state = stateTimedOut
		}
	}

	syn.OverallConfidence = prevConfidence
	return syn, state
}

// RenderCriticContext formats a critic report as the instruction block
// prepended to panel prompts on follow-up rounds.
func RenderCriticContext(report *core.CriticReport) string {
	var sb strings.Builder
	sb.WriteString("Critique of the previous round:\n")
	if len(report.Contradictions) > 0 {
		sb.WriteString("Contradictions to resolve:\n")
		for _, c := range report.Contradictions {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
	}
	if len(report.Gaps) > 0 {
		sb.WriteString("Gaps to address:\n")
		for _, g := range report.Gaps {
			fmt.Fprintf(&sb, "- %s\n", g)
		}
	}
	if len(report.Agreements) > 0 {
		sb.WriteString("Established agreements:\n")
		for _, a := range report.Agreements {
			fmt.Fprintf(&sb, "- %s\n", a)
		}
	}
	return sb.String()
}

// renderSession summarizes the session for panel prompts.
func renderSession(session core.SessionContext) string {
	var parts []string
	if session.AlertSeverity != "" {
		parts = append(parts, fmt.Sprintf("triggering alert severity: %s", session.AlertSeverity))
	}
	if last := session.LastQueries(3); len(last) > 0 {
		parts = append(parts, "recent queries: "+strings.Join(last, "; "))
	}
	return strings.Join(parts, "\n")
}

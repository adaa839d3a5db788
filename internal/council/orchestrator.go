package council

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
	"github.com/hugo-lorenzo-mato/council-ai/internal/events"
	"github.com/hugo-lorenzo-mato/council-ai/internal/logging"
)

// saveTimeout bounds the best-effort persistence of a finished run.
const saveTimeout = 2 * time.Second

// Orchestrator coordinates one investigation end to end: classify the query,
// select the pipeline for the resulting mode, dispatch panels, and merge the
// findings into a single result. It is safe for concurrent use; all per-run
// state lives in the investigation Context.
type Orchestrator struct {
	registry   core.PanelRegistry
	gen        core.Generator
	store      core.RunStore
	bus        *events.Bus
	log        *logging.Logger
	classifier *AdaptiveClassifier
	synth      *Synthesizer
	critic     *Critic
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithGenerator wires the generation backend used by the adaptive classifier
// and the critic. Without it both fall back to their rule-based paths.
func WithGenerator(gen core.Generator) Option {
	return func(o *Orchestrator) { o.gen = gen }
}

// WithStore wires best-effort run persistence.
func WithStore(store core.RunStore) Option {
	return func(o *Orchestrator) { o.store = store }
}

// WithBus wires lifecycle event publication.
func WithBus(bus *events.Bus) Option {
	return func(o *Orchestrator) { o.bus = bus }
}

// WithLogger overrides the no-op default logger.
func WithLogger(log *logging.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// NewOrchestrator creates an orchestrator over the given panel registry.
func NewOrchestrator(registry core.PanelRegistry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		log:      logging.NewNop(),
		synth:    NewSynthesizer(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.classifier = NewAdaptiveClassifier(o.gen, o.log)
	o.critic = NewCritic(o.gen, o.log)
	return o
}

// Investigate runs one investigation. The run is bounded by the configured
// timeout, or by the caller's deadline when that is sooner. A run that hits
// its deadline returns what it has with Partial set rather than an error.
func (o *Orchestrator) Investigate(ctx context.Context, query string, session core.SessionContext, cfg core.CouncilConfig) (*core.CouncilResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, core.ErrValidation(core.CodeEmptyQuery, "query is empty")
	}
	if len(query) > core.MaxQueryLength {
		return nil, core.ErrValidation(core.CodeQueryTooLong,
			fmt.Sprintf("query length %d exceeds maximum %d", len(query), core.MaxQueryLength))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := o.log.WithRun(runID)

	// WithTimeout never extends a parent deadline, so the effective bound is
	// the sooner of the configured timeout and the caller's own deadline.
	rctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	routing := o.route(rctx, query, session, cfg)
	log.Info("investigation started",
		"mode", routing.Mode,
		"signal", routing.SignalType,
		"classifier", routing.ClassifierUsed,
		"confidence", routing.Confidence)
	o.publish(events.NewRunStarted(runID, query, routing.Mode))
	o.publish(events.NewRoutingDecided(runID, routing))

	ictx := NewContext(runID, query, session, cfg)
	result := o.runPipeline(rctx, ictx, routing, log)

	result.Routing = &routing
	result.CompletedAt = time.Now()
	if rctx.Err() != nil {
		result.Partial = true
	}

	o.saveResult(result, log)
	o.publish(events.NewRunCompleted(result))
	log.Info("investigation completed",
		"severity", result.OverallSeverity,
		"confidence", result.OverallConfidence,
		"rounds", result.Rounds,
		"partial", result.Partial,
		"duration", result.Duration())
	return result, nil
}

// route classifies the query. An explicit mode from config overrides the
// classifier's mode while keeping its signal detection.
func (o *Orchestrator) route(ctx context.Context, query string, session core.SessionContext, cfg core.CouncilConfig) core.RoutingResult {
	routing := o.classifier.Classify(ctx, query, session)
	if cfg.ModeExplicit {
		routing.Mode = cfg.Mode
		routing.Confidence = 1.0
		routing.Reasoning = "mode set explicitly by caller"
	}
	return routing
}

func (o *Orchestrator) runPipeline(ctx context.Context, ictx *Context, routing core.RoutingResult, log *logging.Logger) *core.CouncilResult {
	switch routing.Mode {
	case core.ModeNone:
		return o.conversational(ictx, routing)
	case core.ModeFast:
		return o.fast(ctx, ictx, routing, log)
	case core.ModeDebate:
		return o.debate(ctx, ictx, log)
	default:
		return o.standard(ctx, ictx, log)
	}
}

// conversational handles greetings without convening any panel.
func (o *Orchestrator) conversational(ictx *Context, routing core.RoutingResult) *core.CouncilResult {
	return &core.CouncilResult{
		RunID:             ictx.RunID,
		Query:             ictx.Query,
		Mode:              core.ModeNone,
		Panels:            []core.PanelFinding{},
		Synthesis:         "No investigation needed. Ask about traces, metrics, logs, alerts, or datasets to convene the council.",
		OverallSeverity:   core.SeverityHealthy,
		OverallConfidence: routing.Confidence,
		Rounds:            1,
		StartedAt:         ictx.StartedAt,
	}
}

// fast runs the single panel matching the detected signal. When no panel
// matches the pipeline widens to standard rather than failing the run.
func (o *Orchestrator) fast(ctx context.Context, ictx *Context, routing core.RoutingResult, log *logging.Logger) *core.CouncilResult {
	panel, err := o.registry.ForSignal(routing.SignalType)
	if err != nil {
		log.Debug("no panel for detected signal, widening to standard",
			"signal", routing.SignalType)
		return o.standard(ctx, ictx, log)
	}
	return o.singleRound(ctx, ictx, core.ModeFast, []core.Panel{panel})
}

// standard fans out to every registered panel once.
func (o *Orchestrator) standard(ctx context.Context, ictx *Context, log *logging.Logger) *core.CouncilResult {
	return o.singleRound(ctx, ictx, core.ModeStandard, o.registry.Panels())
}

func (o *Orchestrator) singleRound(ctx context.Context, ictx *Context, mode core.Mode, panels []core.Panel) *core.CouncilResult {
	dispatcher := NewDispatcher(o.log, o.bus, ictx.Config.PanelTimeout())
	in := core.PanelInput{
		Query:          ictx.Query,
		SessionContext: renderSession(ictx.Session),
		Round:          1,
	}
	findings := dispatcher.RunPanels(ctx, ictx.RunID, panels, in)
	for _, f := range findings {
		ictx.SetFinding(f)
	}

	syn := o.synth.Merge(ictx.Findings())
	return &core.CouncilResult{
		RunID:             ictx.RunID,
		Query:             ictx.Query,
		Mode:              mode,
		Panels:            ictx.Findings(),
		Synthesis:         syn.Narrative,
		OverallSeverity:   syn.OverallSeverity,
		OverallConfidence: syn.OverallConfidence,
		Rounds:            1,
		Partial:           len(findings) < len(panels),
		StartedAt:         ictx.StartedAt,
	}
}

func (o *Orchestrator) debate(ctx context.Context, ictx *Context, log *logging.Logger) *core.CouncilResult {
	dispatcher := NewDispatcher(o.log, o.bus, ictx.Config.PanelTimeout())
	controller := NewDebateController(dispatcher, o.synth, o.critic, log, o.bus)

	syn, state := controller.Run(ctx, ictx, o.registry.Panels())
	history := ictx.History()

	return &core.CouncilResult{
		RunID:             ictx.RunID,
		Query:             ictx.Query,
		Mode:              core.ModeDebate,
		Panels:            ictx.Findings(),
		CriticReport:      ictx.CriticReport(),
		Synthesis:         syn.Narrative,
		OverallSeverity:   syn.OverallSeverity,
		OverallConfidence: syn.OverallConfidence,
		Rounds:            len(history),
		Convergence:       history,
		Partial:           state == stateTimedOut,
		StartedAt:         ictx.StartedAt,
	}
}

// saveResult persists the run on a fresh context so persistence survives the
// run deadline. Store failures are logged and swallowed.
func (o *Orchestrator) saveResult(result *core.CouncilResult, log *logging.Logger) {
	if o.store == nil {
		return
	}
	sctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := o.store.SaveRun(sctx, result); err != nil {
		log.Warn("failed to persist run", "error", err)
	}
}

func (o *Orchestrator) publish(e events.Event) {
	if o.bus != nil {
		o.bus.Publish(e)
	}
}

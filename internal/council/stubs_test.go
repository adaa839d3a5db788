package council

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

// stubPanel is a configurable panel for pipeline tests.
type stubPanel struct {
	name    string
	signal  core.SignalType
	delay   time.Duration
	err     error
	finding core.PanelFinding

	mu     sync.Mutex
	runs   int
	inputs []core.PanelInput
}

func (p *stubPanel) Name() string            { return p.name }
func (p *stubPanel) Signal() core.SignalType { return p.signal }

func (p *stubPanel) Run(ctx context.Context, in core.PanelInput) (*core.PanelFinding, error) {
	p.mu.Lock()
	p.runs++
	p.inputs = append(p.inputs, in)
	p.mu.Unlock()

	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	f := p.finding
	if f.Summary == "" {
		f.Summary = p.name + " finding"
	}
	if f.Severity == "" {
		f.Severity = core.SeverityInfo
	}
	if f.Confidence == 0 {
		f.Confidence = 0.7
	}
	return &f, nil
}

func (p *stubPanel) runCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runs
}

func (p *stubPanel) inputAt(i int) core.PanelInput {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inputs[i]
}

func healthyPanel(name string, signal core.SignalType) *stubPanel {
	return &stubPanel{
		name:   name,
		signal: signal,
		finding: core.PanelFinding{
			Summary:    name + " looks nominal",
			Severity:   core.SeverityHealthy,
			Confidence: 0.8,
			Evidence:   []string{name + " sample window clean"},
		},
	}
}

// stubRegistry is an in-memory PanelRegistry.
type stubRegistry struct {
	panels map[string]core.Panel
}

func newStubRegistry(panels ...core.Panel) *stubRegistry {
	r := &stubRegistry{panels: make(map[string]core.Panel)}
	for _, p := range panels {
		r.panels[p.Name()] = p
	}
	return r
}

func (r *stubRegistry) Register(name string, panel core.Panel) error {
	r.panels[name] = panel
	return nil
}

func (r *stubRegistry) Get(name string) (core.Panel, error) {
	p, ok := r.panels[name]
	if !ok {
		return nil, core.ErrValidation(core.CodePanelNotFound, "panel not found: "+name)
	}
	return p, nil
}

func (r *stubRegistry) List() []string {
	names := make([]string, 0, len(r.panels))
	for name := range r.panels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *stubRegistry) Panels() []core.Panel {
	out := make([]core.Panel, 0, len(r.panels))
	for _, name := range r.List() {
		out = append(out, r.panels[name])
	}
	return out
}

func (r *stubRegistry) ForSignal(signal core.SignalType) (core.Panel, error) {
	for _, name := range r.List() {
		if r.panels[name].Signal() == signal {
			return r.panels[name], nil
		}
	}
	return nil, core.ErrValidation(core.CodePanelNotFound,
		fmt.Sprintf("no panel for signal %s", signal))
}

// stubGenerator returns canned output, or an error, and counts calls.
type stubGenerator struct {
	output string
	err    error

	mu    sync.Mutex
	calls int
}

func (g *stubGenerator) Name() string               { return "stub" }
func (g *stubGenerator) Ping(context.Context) error { return g.err }

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *stubGenerator) Generate(ctx context.Context, opts core.GenerateOptions) (*core.GenerateResult, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return &core.GenerateResult{Output: g.output}, nil
}

// stubStore records saved runs.
type stubStore struct {
	mu    sync.Mutex
	saved []*core.CouncilResult
}

func (s *stubStore) SaveRun(ctx context.Context, result *core.CouncilResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, result)
	return nil
}

func (s *stubStore) ListRuns(ctx context.Context, limit int) ([]core.RunSummary, error) {
	return nil, nil
}

func (s *stubStore) LoadRun(ctx context.Context, runID string) (*core.CouncilResult, error) {
	return nil, core.ErrNotFound("run", runID)
}

func (s *stubStore) Close() error { return nil }

func (s *stubStore) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

// scriptedCritic replays a fixed confidence sequence, one value per round.
type scriptedCritic struct {
	confidences []float64
	round       int
}

func (c *scriptedCritic) Critique(ctx context.Context, query string, findings []core.PanelFinding, confidence float64) *core.CriticReport {
	conf := c.confidences[len(c.confidences)-1]
	if c.round < len(c.confidences) {
		conf = c.confidences[c.round]
	}
	c.round++
	return &core.CriticReport{
		Gaps:              []string{"coverage thin"},
		RevisedConfidence: conf,
	}
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// Package panels provides the specialist analysis panels convened by the
// council. Each panel is bound to one telemetry domain, gathers raw data
// through its toolset operations, and turns a generation pass over that data
// into a structured finding.
package panels

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
	"github.com/hugo-lorenzo-mato/council-ai/internal/logging"
)

// Config assembles one panel.
type Config struct {
	Name       string
	Signal     core.SignalType
	Focus      string
	Operations []string
	Generator  core.Generator
	Toolset    core.Toolset
	Model      string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// basePanel implements the shared gather-generate-parse cycle. The concrete
// panels differ only in their domain focus and toolset operations.
type basePanel struct {
	name   string
	signal core.SignalType
	focus  string
	ops    []string
	gen    core.Generator
	tools  core.Toolset
	model  string
	log    *logging.Logger
}

func newBasePanel(cfg Config) *basePanel {
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &basePanel{
		name:   cfg.Name,
		signal: cfg.Signal,
		focus:  cfg.Focus,
		ops:    cfg.Operations,
		gen:    cfg.Generator,
		tools:  cfg.Toolset,
		model:  cfg.Model,
		log:    log.WithPanel(cfg.Name),
	}
}

func (p *basePanel) Name() string            { return p.name }
func (p *basePanel) Signal() core.SignalType { return p.signal }

// Run executes one investigation pass: gather telemetry, generate the
// analysis, parse the structured finding.
func (p *basePanel) Run(ctx context.Context, in core.PanelInput) (*core.PanelFinding, error) {
	if p.gen == nil {
		return nil, core.ErrGeneration(core.CodeGeneratorMissing,
			fmt.Sprintf("panel %s has no generator", p.name))
	}

	telemetry := p.gather(ctx)
	result, err := p.gen.Generate(ctx, core.GenerateOptions{
		Prompt: p.buildPrompt(in, telemetry),
		Model:  p.model,
		Format: core.OutputFormatJSON,
	})
	if err != nil {
		return nil, core.ErrGeneration(core.CodeGenerationFailed,
			fmt.Sprintf("panel %s generation failed", p.name)).WithCause(err)
	}

	finding, err := parseFinding(result.Output)
	if err != nil {
		return nil, core.ErrGeneration(core.CodeInvalidSchema,
			fmt.Sprintf("panel %s returned an unparseable finding", p.name)).WithCause(err)
	}
	finding.PanelName = p.name
	finding.ClampConfidence()
	return finding, nil
}

// gather invokes every configured toolset operation. Failed operations are
// reported inline so the analysis knows which data is missing; a panel with
// no toolset analyzes from the query alone.
func (p *basePanel) gather(ctx context.Context) string {
	if p.tools == nil || len(p.ops) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, op := range p.ops {
		out, err := p.tools.Invoke(ctx, op, nil)
		if err != nil {
			p.log.Debug("toolset operation failed", "op", op, "error", err)
			fmt.Fprintf(&sb, "### %s\n(unavailable: %v)\n\n", op, err)
			continue
		}
		fmt.Fprintf(&sb, "### %s\n%s\n\n", op, strings.TrimSpace(out))
	}
	return sb.String()
}

func (p *basePanel) buildPrompt(in core.PanelInput, telemetry string) string {
	var sb strings.Builder
	if in.CriticContext != "" {
		sb.WriteString(in.CriticContext)
		sb.WriteString("\nRevise your previous analysis in light of the critique above.\n\n")
	}

	fmt.Fprintf(&sb, "You are the %s panel of an observability investigation council.\n", p.name)
	sb.WriteString(p.focus)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Query: %s\n", in.Query)
	if in.SessionContext != "" {
		fmt.Fprintf(&sb, "Session context:\n%s\n", in.SessionContext)
	}
	if telemetry != "" {
		sb.WriteString("\nTelemetry:\n")
		sb.WriteString(telemetry)
	}

	sb.WriteString(`
Respond with a single JSON object:
{
  "summary": "<one-paragraph assessment>",
  "severity": "healthy|info|warning|critical",
  "confidence": <0.0-1.0>,
  "evidence": ["<specific observation from the telemetry>"],
  "recommended_actions": ["<concrete next step>"]
}
`)
	return sb.String()
}

// findingSchema is the JSON contract panels respond with.
type findingSchema struct {
	Summary            string   `json:"summary"`
	Severity           string   `json:"severity"`
	Confidence         float64  `json:"confidence"`
	Evidence           []string `json:"evidence"`
	RecommendedActions []string `json:"recommended_actions"`
}

// parseFinding extracts the JSON finding from the generation output,
// tolerating markdown fences and surrounding prose.
func parseFinding(output string) (*core.PanelFinding, error) {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in output")
	}

	var schema findingSchema
	if err := json.Unmarshal([]byte(output[start:end+1]), &schema); err != nil {
		return nil, fmt.Errorf("unmarshaling finding: %w", err)
	}
	if strings.TrimSpace(schema.Summary) == "" {
		return nil, fmt.Errorf("finding has no summary")
	}
	severity := core.Severity(schema.Severity)
	if !core.ValidSeverity(severity) {
		return nil, fmt.Errorf("invalid severity: %q", schema.Severity)
	}

	return &core.PanelFinding{
		Summary:            strings.TrimSpace(schema.Summary),
		Severity:           severity,
		Confidence:         schema.Confidence,
		Evidence:           schema.Evidence,
		RecommendedActions: schema.RecommendedActions,
	}, nil
}

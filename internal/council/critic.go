package council

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
	"github.com/hugo-lorenzo-mato/council-ai/internal/logging"
)

const defaultCriticTimeout = 30 * time.Second

// Critic cross-examines a round's findings and produces the report that
// seeds the next debate round. The generation path yields the richest
// critique; when it is unavailable or misbehaves the critic falls back to a
// deterministic heuristic so debate always advances.
type Critic struct {
	gen     core.Generator
	log     *logging.Logger
	timeout time.Duration
}

// NewCritic creates a critic. A nil generator selects the heuristic path.
func NewCritic(gen core.Generator, log *logging.Logger) *Critic {
	if log == nil {
		log = logging.NewNop()
	}
	return &Critic{
		gen:     gen,
		log:     log,
		timeout: defaultCriticTimeout,
	}
}

// Critique reviews the round's findings against the current merged
// confidence and returns the critic report. It never fails.
func (c *Critic) Critique(ctx context.Context, query string, findings []core.PanelFinding, confidence float64) *core.CriticReport {
	if c.gen != nil {
		if report, err := c.generate(ctx, query, findings, confidence); err == nil {
			return report
		} else {
			c.log.Debug("critic generation failed, using heuristic critique", "error", err)
		}
	}
	return c.heuristic(findings, confidence)
}

func (c *Critic) generate(ctx context.Context, query string, findings []core.PanelFinding, confidence float64) (*core.CriticReport, error) {
	gctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.gen.Generate(gctx, core.GenerateOptions{
		Prompt:  c.buildPrompt(query, findings, confidence),
		Timeout: c.timeout,
	})
	if err != nil {
		return nil, err
	}
	return parseCriticOutput(result.Output, confidence)
}

func (c *Critic) buildPrompt(query string, findings []core.PanelFinding, confidence float64) string {
	var sb strings.Builder
	sb.WriteString("You are the critic of an observability investigation council.\n")
	sb.WriteString("Cross-examine the panel findings below for agreements, contradictions, and coverage gaps.\n\n")
	fmt.Fprintf(&sb, "Query: %s\n", query)
	fmt.Fprintf(&sb, "Current merged confidence: %.2f\n\n", confidence)

	for _, f := range findings {
		fmt.Fprintf(&sb, "Panel %s (severity %s, confidence %.2f): %s\n",
			f.PanelName, f.Severity, f.Confidence, f.Summary)
		for _, ev := range f.Evidence {
			fmt.Fprintf(&sb, "  evidence: %s\n", ev)
		}
	}

	sb.WriteString(`
Respond with YAML frontmatter followed by markdown sections:

---
revised_confidence: <0.0-1.0>
---

## Agreements
- <point panels agree on>

## Contradictions
- <point panels disagree on>

## Gaps
- <signal domain or evidence missing from the investigation>
`)
	return sb.String()
}

type criticFrontmatter struct {
	RevisedConfidence float64 `yaml:"revised_confidence"`
}

// parseCriticOutput splits the YAML frontmatter from the markdown body and
// extracts the bullet lists under each expected heading.
func parseCriticOutput(output string, priorConfidence float64) (*core.CriticReport, error) {
	front, body, err := splitFrontmatter(output)
	if err != nil {
		return nil, err
	}

	var fm criticFrontmatter
	if err := yaml.Unmarshal([]byte(front), &fm); err != nil {
		return nil, fmt.Errorf("parsing critic frontmatter: %w", err)
	}
	if fm.RevisedConfidence < 0 || fm.RevisedConfidence > 1 {
		return nil, fmt.Errorf("revised_confidence %.2f outside [0,1]", fm.RevisedConfidence)
	}
	if fm.RevisedConfidence == 0 {
		fm.RevisedConfidence = priorConfidence
	}

	return &core.CriticReport{
		Agreements:        extractSection(body, "Agreements"),
		Contradictions:    extractSection(body, "Contradictions"),
		Gaps:              extractSection(body, "Gaps"),
		RevisedConfidence: fm.RevisedConfidence,
	}, nil
}

func splitFrontmatter(output string) (front, body string, err error) {
	s := strings.TrimSpace(output)
	if !strings.HasPrefix(s, "---") {
		return "", "", fmt.Errorf("missing frontmatter delimiter")
	}
	rest := strings.TrimPrefix(s, "---")
	end := strings.Index(rest, "---")
	if end == -1 {
		return "", "", fmt.Errorf("unterminated frontmatter")
	}
	return rest[:end], rest[end+3:], nil
}

// extractSection returns the bullet items under the "## <name>" heading.
func extractSection(body, name string) []string {
	var items []string
	inSection := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			inSection = strings.EqualFold(heading, name)
			continue
		}
		if !inSection {
			continue
		}
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
			item := strings.TrimSpace(trimmed[1:])
			if item != "" && !strings.HasPrefix(item, "<") {
				items = append(items, item)
			}
		}
	}
	return items
}

// heuristic derives a critique purely from the findings' structure. The
// adjustment weights are fixed so identical rounds critique identically.
func (c *Critic) heuristic(findings []core.PanelFinding, confidence float64) *core.CriticReport {
	report := &core.CriticReport{}

	covered := make(map[core.SignalType]bool)
	for _, f := range findings {
		if len(f.Evidence) == 0 {
			report.Gaps = append(report.Gaps,
				fmt.Sprintf("panel %s reported without supporting evidence", f.PanelName))
		}
	}
	for i := 0; i < len(findings); i++ {
		for j := i + 1; j < len(findings); j++ {
			a, b := findings[i], findings[j]
			dist := core.SeverityDistance(a.Severity, b.Severity)
			switch {
			case dist == 0 && a.Confidence >= 0.5 && b.Confidence >= 0.5:
				report.Agreements = append(report.Agreements,
					fmt.Sprintf("%s and %s independently assess %s", a.PanelName, b.PanelName, a.Severity))
			case dist >= 2:
				report.Contradictions = append(report.Contradictions,
					fmt.Sprintf("%s reports %s while %s reports %s", a.PanelName, a.Severity, b.PanelName, b.Severity))
			}
		}
	}
	for _, f := range findings {
		for _, sig := range core.AllSignals() {
			if strings.Contains(strings.ToLower(f.Summary), sig.String()) {
				covered[sig] = true
			}
		}
	}
	for _, sig := range core.AllSignals() {
		if covered[sig] || panelCovers(findings, sig) {
			continue
		}
		report.Gaps = append(report.Gaps,
			fmt.Sprintf("no finding covers the %s domain", sig))
	}

	revised := confidence * (1 - 0.12*float64(len(report.Contradictions)) - 0.06*float64(len(report.Gaps)))
	revised += 0.04 * float64(len(report.Agreements))
	if revised < 0 {
		revised = 0
	}
	if revised > 1 {
		revised = 1
	}
	report.RevisedConfidence = revised
	return report
}

func panelCovers(findings []core.PanelFinding, sig core.SignalType) bool {
	for _, f := range findings {
		if f.PanelName == sig.String() {
			return true
		}
	}
	return false
}

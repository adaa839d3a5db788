package council

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
	"github.com/hugo-lorenzo-mato/council-ai/internal/logging"
)

// defaultClassifyTimeout bounds the generation call so classification can
// never block a run; the rule-based result is always available as fallback.
const defaultClassifyTimeout = 10 * time.Second

// AdaptiveClassifier augments the rule-based classifier with a
// generation-backed re-classification that considers session history, alert
// severity, and token budget. Any failure on the generation path returns the
// rule-based result tagged as fallback; nothing on this path retries.
type AdaptiveClassifier struct {
	gen     core.Generator
	log     *logging.Logger
	timeout time.Duration
}

// NewAdaptiveClassifier creates an adaptive classifier. A nil generator is
// allowed and disables augmentation entirely.
func NewAdaptiveClassifier(gen core.Generator, log *logging.Logger) *AdaptiveClassifier {
	if log == nil {
		log = logging.NewNop()
	}
	return &AdaptiveClassifier{
		gen:     gen,
		log:     log,
		timeout: defaultClassifyTimeout,
	}
}

// WithTimeout overrides the generation call timeout.
func (a *AdaptiveClassifier) WithTimeout(d time.Duration) *AdaptiveClassifier {
	if d > 0 {
		a.timeout = d
	}
	return a
}

// adaptiveResponse is the structured response expected from the generator.
type adaptiveResponse struct {
	Mode       string  `json:"mode"`
	SignalType string  `json:"signal_type"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classify returns a routing decision. The rule-based result is computed
// first and is what the caller gets whenever the generation path is
// unavailable, errors, times out, or returns an invalid schema.
func (a *AdaptiveClassifier) Classify(ctx context.Context, query string, session core.SessionContext) core.RoutingResult {
	ruleResult := Classify(query, session)

	if a.gen == nil {
		return ruleResult
	}

	gctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	result, err := a.gen.Generate(gctx, core.GenerateOptions{
		Prompt:  a.buildPrompt(query, session, ruleResult),
		Format:  core.OutputFormatJSON,
		Timeout: a.timeout,
	})
	if err != nil {
		a.log.Debug("adaptive classification failed, using rule-based result", "error", err)
		return fallback(ruleResult)
	}

	parsed, err := parseAdaptiveResponse(result.Output)
	if err != nil {
		a.log.Debug("adaptive classification returned invalid schema", "error", err)
		return fallback(ruleResult)
	}

	return core.RoutingResult{
		Mode:           core.Mode(parsed.Mode),
		SignalType:     core.SignalType(parsed.SignalType),
		Confidence:     parsed.Confidence,
		ClassifierUsed: core.ClassifierLLM,
		Reasoning:      parsed.Reasoning,
	}
}

func fallback(rule core.RoutingResult) core.RoutingResult {
	rule.ClassifierUsed = core.ClassifierFallback
	return rule
}

func parseAdaptiveResponse(output string) (*adaptiveResponse, error) {
	raw := extractJSONObject(output)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var parsed adaptiveResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	mode := core.Mode(parsed.Mode)
	if !core.ValidMode(mode) {
		return nil, fmt.Errorf("invalid mode: %q", parsed.Mode)
	}
	if parsed.SignalType == "" {
		parsed.SignalType = core.SignalNone.String()
	}
	if !core.ValidSignal(core.SignalType(parsed.SignalType)) {
		return nil, fmt.Errorf("invalid signal type: %q", parsed.SignalType)
	}
	if parsed.Confidence < 0 || parsed.Confidence > 1 {
		return nil, fmt.Errorf("confidence %.2f outside [0,1]", parsed.Confidence)
	}
	return &parsed, nil
}

func (a *AdaptiveClassifier) buildPrompt(query string, session core.SessionContext, rule core.RoutingResult) string {
	var sb strings.Builder
	sb.WriteString("Classify the investigation effort for an observability query.\n\n")
	sb.WriteString("Query: ")
	sb.WriteString(query)
	sb.WriteString("\n")

	if last := session.LastQueries(5); len(last) > 0 {
		sb.WriteString("Recent queries:\n")
		for _, q := range last {
			sb.WriteString("- ")
			sb.WriteString(q)
			sb.WriteString("\n")
		}
	}
	if session.AlertSeverity != "" {
		fmt.Fprintf(&sb, "Triggering alert severity: %s\n", session.AlertSeverity)
	}
	if session.TokenBudget > 0 {
		fmt.Fprintf(&sb, "Remaining token budget: %d\n", session.TokenBudget)
	}
	if len(session.PriorModes) > 0 {
		modes := make([]string, len(session.PriorModes))
		for i, m := range session.PriorModes {
			modes[i] = m.String()
		}
		fmt.Fprintf(&sb, "Prior modes this session: %s\n", strings.Join(modes, ", "))
	}

	fmt.Fprintf(&sb, "\nRule-based suggestion: mode=%s signal_type=%s\n", rule.Mode, rule.SignalType)
	sb.WriteString("\nRespond with a single JSON object:\n")
	sb.WriteString(`{"mode": "none|fast|standard|debate", "signal_type": "trace|metrics|logs|alerts|datasets|none", "confidence": 0.0, "reasoning": "..."}`)
	sb.WriteString("\n")
	return sb.String()
}

// extractJSONObject returns the first top-level JSON object embedded in s,
// tolerating markdown fences and surrounding prose.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

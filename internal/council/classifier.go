package council

import (
	"regexp"
	"strings"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

// The rule-based classifier is deterministic, side-effect-free, and never
// fails. Rules are priority-ordered; the first match wins.

// fastQueryMaxLen is the length bound for rule 3 (fast-mode shortcuts).
const fastQueryMaxLen = 100

var greetingPhrases = []string{
	"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
	"thanks", "thank you", "how are you", "what can you do", "help",
}

var debatePattern = regexp.MustCompile(`(?i)\b(root\s+cause|incident|postmortem|debate)\b`)

var fastPattern = regexp.MustCompile(`(?i)\b(show|list|get|status|check)\b`)

// signalPatterns map each telemetry domain to its keyword scan. Signal-type
// detection is independent of the mode decision.
var signalPatterns = []struct {
	signal  core.SignalType
	pattern *regexp.Regexp
}{
	{core.SignalTrace, regexp.MustCompile(`(?i)\b(traces?|tracing|spans?|latency|slow\s+requests?)\b`)},
	{core.SignalMetrics, regexp.MustCompile(`(?i)\b(metrics?|cpu|memory|throughput|saturation|utili[sz]ation)\b`)},
	{core.SignalLogs, regexp.MustCompile(`(?i)\b(logs?|logging|errors?|exceptions?|stack\s+traces?)\b`)},
	{core.SignalAlerts, regexp.MustCompile(`(?i)\b(alerts?|alarms?|paging|pages?|notifications?)\b`)},
	{core.SignalDatasets, regexp.MustCompile(`(?i)\b(datasets?|analytics|aggregates?|cardinality|rollups?)\b`)},
}

// Classify produces a routing decision for a query. It is pure: repeated
// invocation with the same inputs always yields the same result.
func Classify(query string, session core.SessionContext) core.RoutingResult {
	signal, distinct := DetectSignal(query)

	// Rule 1: greetings and conversational phrases bypass the council.
	if isGreeting(query) {
		return core.RoutingResult{
			Mode:           core.ModeNone,
			SignalType:     core.SignalNone,
			Confidence:     0.95,
			ClassifierUsed: core.ClassifierRuleBased,
			Reasoning:      "conversational query",
		}
	}

	// Rule 2: high-severity keywords or a critical triggering alert.
	if debatePattern.MatchString(query) || session.AlertSeverity == core.SeverityCritical {
		return core.RoutingResult{
			Mode:           core.ModeDebate,
			SignalType:     signal,
			Confidence:     0.9,
			ClassifierUsed: core.ClassifierRuleBased,
			Reasoning:      "high-severity indicators present",
		}
	}

	// Rule 3: short lookup-style queries, or queries that map unambiguously
	// to a single signal domain.
	if len(query) < fastQueryMaxLen && (fastPattern.MatchString(query) || distinct == 1) {
		return core.RoutingResult{
			Mode:           core.ModeFast,
			SignalType:     signal,
			Confidence:     0.75,
			ClassifierUsed: core.ClassifierRuleBased,
			Reasoning:      "short single-domain lookup",
		}
	}

	// Rule 4: default.
	return core.RoutingResult{
		Mode:           core.ModeStandard,
		SignalType:     signal,
		Confidence:     0.5,
		ClassifierUsed: core.ClassifierRuleBased,
		Reasoning:      "no routing rule matched, using standard pipeline",
	}
}

// DetectSignal scans the query for telemetry-domain keywords and returns the
// dominant signal type plus the number of distinct domains matched.
// Ties resolve in fixed domain order so detection stays deterministic.
func DetectSignal(query string) (core.SignalType, int) {
	best := core.SignalNone
	bestCount := 0
	distinct := 0

	for _, sp := range signalPatterns {
		n := len(sp.pattern.FindAllStringIndex(query, -1))
		if n == 0 {
			continue
		}
		distinct++
		if n > bestCount {
			best = sp.signal
			bestCount = n
		}
	}
	return best, distinct
}

func isGreeting(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	q = strings.Trim(q, "!.,?")
	if q == "" {
		return false
	}
	// A greeting that also names a telemetry domain is a real query.
	if _, distinct := DetectSignal(q); distinct > 0 {
		return false
	}
	for _, phrase := range greetingPhrases {
		if q == phrase || strings.HasPrefix(q, phrase+" ") || strings.HasPrefix(q, phrase+",") {
			return true
		}
	}
	return false
}

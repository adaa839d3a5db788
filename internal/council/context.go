package council

import (
	"sort"
	"time"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

// Context keys. Each key has exactly one writer role: panels write their own
// finding slot (via the dispatcher's fan-in), the critic writes the critic
// report slot, the synthesizer's caller writes the synthesis slot, and the
// debate controller appends to the round history. Readers never write.
const (
	KeySynthesis    = "synthesis"
	KeyCriticReport = "critic_report"
	KeyRoundHistory = "round_history"

	findingKeyPrefix = "finding:"
)

// FindingKey returns the context key for a panel's finding slot.
func FindingKey(panel string) string {
	return findingKeyPrefix + panel
}

// Context is the shared store for one investigation run. It lives exactly as
// long as one orchestrator invocation and is discarded at run completion.
//
// Writes are sequenced by the run's control flow: the dispatcher collects
// concurrent panel results internally and stores them after its fan-in, and
// debate rounds are strictly sequential, so the context itself needs no lock.
type Context struct {
	RunID     string
	Query     string
	Session   core.SessionContext
	Config    core.CouncilConfig
	StartedAt time.Time

	slots   map[string]core.PanelFinding
	critic  *core.CriticReport
	result  *core.CouncilResult
	history []core.ConvergenceRecord
}

// NewContext creates the per-run investigation context.
func NewContext(runID, query string, session core.SessionContext, cfg core.CouncilConfig) *Context {
	return &Context{
		RunID:     runID,
		Query:     query,
		Session:   session,
		Config:    cfg,
		StartedAt: time.Now(),
		slots:     make(map[string]core.PanelFinding),
	}
}

// SetFinding stores a panel's finding under its fixed slot.
// Last write wins: a panel that fails a later round keeps its prior finding.
func (c *Context) SetFinding(f core.PanelFinding) {
	c.slots[FindingKey(f.PanelName)] = f
}

// Finding returns the finding stored for a panel, if any.
func (c *Context) Finding(panel string) (core.PanelFinding, bool) {
	f, ok := c.slots[FindingKey(panel)]
	return f, ok
}

// Findings returns all stored findings ordered by panel name. Synthesis and
// critique are commutative over the set of findings; the ordering exists only
// to keep narratives and tests stable.
func (c *Context) Findings() []core.PanelFinding {
	out := make([]core.PanelFinding, 0, len(c.slots))
	for _, f := range c.slots {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PanelName < out[j].PanelName })
	return out
}

// SetCriticReport stores the round's critic report. Writer: the critic.
func (c *Context) SetCriticReport(r *core.CriticReport) {
	c.critic = r
}

// CriticReport returns the most recent critic report, if any.
func (c *Context) CriticReport() *core.CriticReport {
	return c.critic
}

// SetSynthesis stores the current merged result. Writer: the pipeline that
// just ran the synthesizer.
func (c *Context) SetSynthesis(r *core.CouncilResult) {
	c.result = r
}

// Synthesis returns the current merged result, if any.
func (c *Context) Synthesis() *core.CouncilResult {
	return c.result
}

// AppendRound records one convergence record. Records are append-only.
func (c *Context) AppendRound(rec core.ConvergenceRecord) {
	c.history = append(c.history, rec)
}

// History returns the convergence records in round order.
func (c *Context) History() []core.ConvergenceRecord {
	return c.history
}

// Elapsed returns the wall-clock time since the run started.
func (c *Context) Elapsed() time.Duration {
	return time.Since(c.StartedAt)
}

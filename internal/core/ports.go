package core

import (
	"context"
	"time"
)

// =============================================================================
// Generator Port
// =============================================================================

// Generator defines the contract for the text-generation capability consumed
// by the adaptive classifier, the panels, and the critic. Callers impose
// timeouts via context or GenerateOptions; failures are always recoverable
// at the call site (fallback or skipped finding), never fatal to a run.
type Generator interface {
	// Name returns the adapter identifier (e.g., "exec", "static").
	Name() string

	// Ping checks if the generation backend is reachable.
	Ping(ctx context.Context) error

	// Generate runs a prompt through the backend and returns the result.
	Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error)
}

// OutputFormat specifies the expected output format.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// GenerateOptions configures a generation call.
type GenerateOptions struct {
	Prompt       string
	SystemPrompt string
	Model        string
	MaxTokens    int
	Format       OutputFormat
	Timeout      time.Duration
}

// GenerateResult contains the output of a generation call.
type GenerateResult struct {
	Output    string
	TokensIn  int
	TokensOut int
	Duration  time.Duration
	Model     string
}

// TotalTokens returns the sum of input and output tokens.
func (r *GenerateResult) TotalTokens() int {
	return r.TokensIn + r.TokensOut
}

// =============================================================================
// Toolset Port
// =============================================================================

// Toolset is the domain capability a panel queries for raw telemetry.
// Each panel is configured with a fixed set of named operations; the
// panel's logic turns the returned text into a PanelFinding.
type Toolset interface {
	// Operations returns the named operations this toolset serves.
	Operations() []string

	// Invoke runs one named operation and returns raw telemetry text.
	Invoke(ctx context.Context, op string, args map[string]string) (string, error)
}

// =============================================================================
// Panel Port
// =============================================================================

// PanelInput is the read-mostly slice of investigation context handed to
// every panel in a round.
type PanelInput struct {
	Query          string
	SessionContext string
	// CriticContext is the gaps-and-contradictions block prepended to the
	// panel's instructions on debate rounds after the first. Empty on the
	// seed round and outside debate mode.
	CriticContext string
	Round         int
}

// Panel is a specialist concurrent analysis unit bound to one telemetry
// domain. Implementations must be safe for concurrent use with other panels;
// they never write shared state, only return a finding.
type Panel interface {
	// Name returns the panel identifier (e.g., "trace", "metrics").
	Name() string

	// Signal returns the telemetry domain the panel covers.
	Signal() SignalType

	// Run executes one investigation pass and returns a finding.
	Run(ctx context.Context, in PanelInput) (*PanelFinding, error)
}

// PanelRegistry manages the fixed set of registered panels.
type PanelRegistry interface {
	// Register adds a panel to the registry.
	Register(name string, panel Panel) error

	// Get retrieves a panel by name.
	Get(name string) (Panel, error)

	// List returns all registered panel names, sorted.
	List() []string

	// Panels returns all registered panels in name order.
	Panels() []Panel

	// ForSignal returns the panel bound to the given signal type.
	ForSignal(signal SignalType) (Panel, error)
}

// =============================================================================
// RunStore Port
// =============================================================================

// RunStore persists completed investigation runs for history listings.
// Persistence is best-effort observability; a failing store never fails a run.
type RunStore interface {
	// SaveRun persists a completed result. Last write wins per run ID.
	SaveRun(ctx context.Context, result *CouncilResult) error

	// ListRuns returns summaries of stored runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)

	// LoadRun retrieves a full result by run ID.
	LoadRun(ctx context.Context, runID string) (*CouncilResult, error)

	// Close releases the underlying storage.
	Close() error
}

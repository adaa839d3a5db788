package llm

import (
	"context"
	"strings"
	"sync"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

// StaticGenerator serves canned responses matched by prompt substring, in
// registration order, with an optional default. It backs dry runs and tests;
// no external process is involved.
type StaticGenerator struct {
	mu       sync.Mutex
	rules    []staticRule
	fallback string
	calls    int
}

type staticRule struct {
	contains string
	output   string
}

// NewStatic creates a static generator with a default response.
func NewStatic(fallback string) *StaticGenerator {
	return &StaticGenerator{fallback: fallback}
}

// Respond registers a canned response for prompts containing the substring.
// Earlier registrations win.
func (g *StaticGenerator) Respond(contains, output string) *StaticGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rules = append(g.rules, staticRule{contains: contains, output: output})
	return g
}

// Name implements core.Generator.
func (g *StaticGenerator) Name() string { return "static" }

// Ping implements core.Generator. The static backend is always reachable.
func (g *StaticGenerator) Ping(ctx context.Context) error { return nil }

// Generate implements core.Generator.
func (g *StaticGenerator) Generate(ctx context.Context, opts core.GenerateOptions) (*core.GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.ErrTimeout("static generation canceled").WithCause(err)
	}

	g.mu.Lock()
	g.calls++
	output := g.fallback
	for _, rule := range g.rules {
		if strings.Contains(opts.Prompt, rule.contains) {
			output = rule.output
			break
		}
	}
	g.mu.Unlock()

	if output == "" {
		return nil, core.ErrGeneration(core.CodeGenerationFailed, "no static response matches the prompt")
	}
	return &core.GenerateResult{
		Output:    output,
		TokensIn:  estimateTokens(opts.Prompt),
		TokensOut: estimateTokens(output),
	}, nil
}

// Calls returns how many generations have been served.
func (g *StaticGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

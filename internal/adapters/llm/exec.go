// Package llm provides generation adapters behind the core.Generator port.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
	"github.com/hugo-lorenzo-mato/council-ai/internal/logging"
)

// defaultExecTimeout bounds a single generation call when neither the caller
// nor the options set one.
const defaultExecTimeout = 120 * time.Second

// ExecGenerator shells out to an installed LLM CLI, feeding the prompt on
// stdin and reading the completion from stdout. It assumes the binary is
// authenticated out of band.
type ExecGenerator struct {
	command string
	args    []string
	model   string
	timeout time.Duration
	log     *logging.Logger
}

// ExecConfig configures an ExecGenerator.
type ExecConfig struct {
	Command string
	Args    []string
	Model   string
	Timeout time.Duration
	Logger  *logging.Logger
}

// NewExec creates a CLI-backed generator.
func NewExec(cfg ExecConfig) (*ExecGenerator, error) {
	if cfg.Command == "" {
		return nil, core.ErrValidation(core.CodeInvalidConfig, "exec generator requires a command")
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultExecTimeout
	}
	return &ExecGenerator{
		command: cfg.Command,
		args:    cfg.Args,
		model:   cfg.Model,
		timeout: timeout,
		log:     log,
	}, nil
}

// Name implements core.Generator.
func (g *ExecGenerator) Name() string { return "exec:" + g.command }

// Ping checks that the backing binary is on PATH.
func (g *ExecGenerator) Ping(ctx context.Context) error {
	if _, err := exec.LookPath(g.command); err != nil {
		return core.ErrGeneration(core.CodeGenerationFailed,
			fmt.Sprintf("command not found: %s", g.command)).WithCause(err)
	}
	return nil
}

// Generate implements core.Generator.
func (g *ExecGenerator) Generate(ctx context.Context, opts core.GenerateOptions) (*core.GenerateResult, error) {
	timeout := g.timeout
	if opts.Timeout > 0 && opts.Timeout < timeout {
		timeout = opts.Timeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append([]string{}, g.args...)
	model := opts.Model
	if model == "" {
		model = g.model
	}
	if model != "" {
		args = append(args, "--model", model)
	}
	if opts.Format == core.OutputFormatJSON {
		args = append(args, "--output-format", "json")
	}

	prompt := opts.Prompt
	if opts.SystemPrompt != "" {
		prompt = opts.SystemPrompt + "\n\n" + prompt
	}

	cmd := exec.CommandContext(cctx, g.command, args...)
	cmd.Stdin = strings.NewReader(prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if cctx.Err() == context.DeadlineExceeded {
		return nil, core.ErrTimeout(fmt.Sprintf("generation exceeded %s", timeout))
	}
	if err != nil {
		g.log.Debug("generation command failed",
			"command", g.command,
			"duration", elapsed,
			"stderr", truncate(stderr.String(), 500))
		return nil, core.ErrGeneration(core.CodeGenerationFailed,
			fmt.Sprintf("command %s failed", g.command)).WithCause(err)
	}

	output := strings.TrimSpace(stdout.String())
	if output == "" {
		return nil, core.ErrGeneration(core.CodeGenerationFailed,
			fmt.Sprintf("command %s produced no output", g.command))
	}

	return &core.GenerateResult{
		Output:    output,
		TokensIn:  estimateTokens(prompt),
		TokensOut: estimateTokens(output),
		Duration:  elapsed,
		Model:     model,
	}, nil
}

// estimateTokens approximates token counts at four characters per token,
// close enough for budgeting and logging.
func estimateTokens(s string) int {
	return len(s) / 4
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

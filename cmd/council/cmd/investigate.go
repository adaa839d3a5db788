package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/council-ai/internal/adapters/state"
	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

var (
	investigateMode    string
	investigateJSON    bool
	investigateAlert   string
	investigateTimeout int
)

var investigateCmd = &cobra.Command{
	Use:   "investigate [query]",
	Short: "Run one investigation over the configured telemetry",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInvestigate,
}

func init() {
	investigateCmd.Flags().StringVarP(&investigateMode, "mode", "m", "",
		"pin the pipeline mode (none, fast, standard, debate); default is auto-classify")
	investigateCmd.Flags().BoolVar(&investigateJSON, "json", false,
		"print the full result as JSON")
	investigateCmd.Flags().StringVar(&investigateAlert, "alert-severity", "",
		"severity of a triggering alert (info, warning, critical)")
	investigateCmd.Flags().IntVar(&investigateTimeout, "timeout", 0,
		"investigation timeout in seconds")
	rootCmd.AddCommand(investigateCmd)
}

func runInvestigate(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg, err := appConfig.Council.ToCouncilConfig()
	if err != nil {
		return err
	}
	if investigateTimeout > 0 {
		cfg.TimeoutSeconds = investigateTimeout
	}
	if investigateMode != "" {
		mode, err := core.ParseMode(investigateMode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
		cfg.ModeExplicit = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	orch, _, cleanup, err := buildOrchestrator(appConfig, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	session := core.SessionContext{AlertSeverity: core.Severity(investigateAlert)}
	result, err := orch.Investigate(cmd.Context(), query, session, cfg)
	if err != nil {
		return err
	}

	if appConfig.State.Enabled {
		if err := state.ExportResult(appConfig.State.Dir, result); err != nil {
			logger.Warn("failed to export result", "error", err)
		}
	}

	if investigateJSON {
		return json.NewEncoder(os.Stdout).Encode(result)
	}
	printResult(cmd.Context(), result)
	return nil
}

func printResult(_ context.Context, result *core.CouncilResult) {
	fmt.Printf("Run %s  mode=%s  severity=%s  confidence=%.2f",
		result.RunID, result.Mode, result.OverallSeverity, result.OverallConfidence)
	if result.Partial {
		fmt.Print("  [partial]")
	}
	fmt.Printf("  (%s)\n\n", result.Duration().Round(time.Millisecond))

	fmt.Println(result.Synthesis)

	if len(result.Convergence) > 0 {
		fmt.Println("\nDebate rounds:")
		for _, rec := range result.Convergence {
			marker := " "
			if rec.Converged {
				marker = "*"
			}
			fmt.Printf("  %s round %d: confidence %.2f (delta %+.2f, gaps %d, contradictions %d)\n",
				marker, rec.Round, rec.Confidence, rec.ConfidenceDelta,
				rec.CriticGaps, rec.CriticContradictions)
		}
	}
}

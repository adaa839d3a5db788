package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/council-ai/internal/adapters/state"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List stored investigation runs, or show one in full",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum runs to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if !appConfig.State.Enabled {
		return fmt.Errorf("run history is disabled (state.enabled: false)")
	}

	store, err := state.NewSQLiteStore(filepath.Join(appConfig.State.Dir, "council.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		result, err := store.LoadRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if historyJSON {
			return json.NewEncoder(os.Stdout).Encode(result)
		}
		printResult(cmd.Context(), result)
		return nil
	}

	summaries, err := store.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if historyJSON {
		return json.NewEncoder(os.Stdout).Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No stored runs.")
		return nil
	}
	for _, s := range summaries {
		partial := ""
		if s.Partial {
			partial = " [partial]"
		}
		fmt.Printf("%s  %s  %-8s  %-8s  conf %.2f  rounds %d%s\n  %s\n",
			s.CreatedAt.Local().Format("2006-01-02 15:04"), s.RunID[:8],
			s.Mode, s.OverallSeverity, s.OverallConfidence, s.Rounds, partial, s.Query)
	}
	return nil
}

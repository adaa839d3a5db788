package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/council-ai/internal/diagnostics"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check host resources and the configured generation backend",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	snap := diagnostics.Collect(cmd.Context(), appConfig.State.Dir)
	fmt.Printf("Host:\n")
	fmt.Printf("  cpu:     %.1f%% of %d cores (load1 %.2f)\n", snap.CPUPercent, snap.CPUCount, snap.Load1)
	fmt.Printf("  memory:  %d/%d MB (%.1f%%)\n", snap.MemUsedMB, snap.MemTotalMB, snap.MemUsedPercent)
	fmt.Printf("  disk:    %d MB free (%.1f%% used)\n", snap.DiskFreeMB, snap.DiskPercent)

	gen, err := buildGenerator(appConfig)
	if err != nil {
		return err
	}
	fmt.Printf("\nGenerator %s: ", gen.Name())
	if err := gen.Ping(cmd.Context()); err != nil {
		fmt.Printf("unavailable (%v)\n", err)
		return nil
	}
	fmt.Println("ok")
	return nil
}

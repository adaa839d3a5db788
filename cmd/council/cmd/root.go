package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/council-ai/internal/adapters/llm"
	"github.com/hugo-lorenzo-mato/council-ai/internal/adapters/state"
	"github.com/hugo-lorenzo-mato/council-ai/internal/adapters/telemetry"
	"github.com/hugo-lorenzo-mato/council-ai/internal/config"
	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
	"github.com/hugo-lorenzo-mato/council-ai/internal/council"
	"github.com/hugo-lorenzo-mato/council-ai/internal/events"
	"github.com/hugo-lorenzo-mato/council-ai/internal/logging"
	"github.com/hugo-lorenzo-mato/council-ai/internal/panels"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	appVersion string
	appCommit  string
	appDate    string

	appConfig *config.Config
	logger    *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "council",
	Short: "Observability investigation orchestrator with specialist panels",
	Long: `council routes observability queries to specialist analysis panels
(traces, metrics, logs, alerts, datasets), runs them in parallel, and merges
their findings into one assessment. High-stakes queries trigger debate mode,
where a critic cross-examines the panels over bounded refinement rounds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initApp()
	},
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: .council.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto",
		"log format (auto, text, json)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initApp() error {
	loader := config.NewLoaderWithViper(viper.GetViper())
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	appConfig = cfg

	logger = logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	return nil
}

// buildGenerator constructs the configured generation backend.
func buildGenerator(cfg *config.Config) (core.Generator, error) {
	switch cfg.Generator.Kind {
	case "static":
		return llm.NewStatic(""), nil
	default:
		return llm.NewExec(llm.ExecConfig{
			Command: cfg.Generator.Command,
			Args:    cfg.Generator.Args,
			Model:   cfg.Generator.Model,
			Timeout: cfg.Generator.Timeout,
			Logger:  logger,
		})
	}
}

// buildToolset constructs the telemetry source panels query.
func buildToolset(cfg *config.Config) (core.Toolset, error) {
	if cfg.Telemetry.Kind == "dir" {
		return telemetry.NewStaticFromDir(cfg.Telemetry.Dir)
	}
	return telemetry.NewStatic(nil), nil
}

// buildOrchestrator wires the full investigation stack from configuration.
// The returned cleanup closes the store; callers must invoke it.
func buildOrchestrator(cfg *config.Config, bus *events.Bus) (*council.Orchestrator, core.RunStore, func(), error) {
	gen, err := buildGenerator(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	toolset, err := buildToolset(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	registry := panels.NewBuiltinRegistry(panels.Config{
		Generator: gen,
		Toolset:   toolset,
		Model:     cfg.Generator.Model,
		Logger:    logger,
	})

	opts := []council.Option{
		council.WithGenerator(gen),
		council.WithLogger(logger),
	}
	if bus != nil {
		opts = append(opts, council.WithBus(bus))
	}

	var store core.RunStore
	cleanup := func() {}
	if cfg.State.Enabled {
		s, err := state.NewSQLiteStore(filepath.Join(cfg.State.Dir, "council.db"))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening run store: %w", err)
		}
		store = s
		cleanup = func() { _ = s.Close() }
		opts = append(opts, council.WithStore(store))
	}

	return council.NewOrchestrator(registry, opts...), store, cleanup, nil
}

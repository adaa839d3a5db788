package panels

import "github.com/hugo-lorenzo-mato/council-ai/internal/core"

// The five builtin panels. Each binds a telemetry domain to its toolset
// operations and analysis focus; the shared engine does the rest.

// NewTrace creates the distributed-tracing panel.
func NewTrace(cfg Config) core.Panel {
	cfg.Name = "trace"
	cfg.Signal = core.SignalTrace
	cfg.Focus = "Analyze distributed traces: latency distributions, slow spans, " +
		"fan-out patterns, and error propagation across service boundaries."
	if len(cfg.Operations) == 0 {
		cfg.Operations = []string{"trace.slowest", "trace.error_spans", "trace.service_map"}
	}
	return newBasePanel(cfg)
}

// NewMetrics creates the metrics panel.
func NewMetrics(cfg Config) core.Panel {
	cfg.Name = "metrics"
	cfg.Signal = core.SignalMetrics
	cfg.Focus = "Analyze service metrics: saturation, throughput, resource " +
		"utilization trends, and anomalies against recent baselines."
	if len(cfg.Operations) == 0 {
		cfg.Operations = []string{"metrics.cpu", "metrics.memory", "metrics.throughput"}
	}
	return newBasePanel(cfg)
}

// NewLogs creates the log-analysis panel.
func NewLogs(cfg Config) core.Panel {
	cfg.Name = "logs"
	cfg.Signal = core.SignalLogs
	cfg.Focus = "Analyze application logs: error rates, new error signatures, " +
		"stack traces, and correlation between log volume and incidents."
	if len(cfg.Operations) == 0 {
		cfg.Operations = []string{"logs.errors", "logs.signatures", "logs.volume"}
	}
	return newBasePanel(cfg)
}

// NewAlerts creates the alert-history panel.
func NewAlerts(cfg Config) core.Panel {
	cfg.Name = "alerts"
	cfg.Signal = core.SignalAlerts
	cfg.Focus = "Analyze alert history: firing and resolved alerts, flapping " +
		"patterns, and whether current alerts correlate with the query."
	if len(cfg.Operations) == 0 {
		cfg.Operations = []string{"alerts.firing", "alerts.history"}
	}
	return newBasePanel(cfg)
}

// NewDatasets creates the dataset-analytics panel.
func NewDatasets(cfg Config) core.Panel {
	cfg.Name = "datasets"
	cfg.Signal = core.SignalDatasets
	cfg.Focus = "Analyze stored telemetry datasets: cardinality growth, rollup " +
		"health, and aggregate trends that individual signals miss."
	if len(cfg.Operations) == 0 {
		cfg.Operations = []string{"datasets.cardinality", "datasets.rollups"}
	}
	return newBasePanel(cfg)
}

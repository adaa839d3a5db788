package core

import "testing"

func TestCouncilConfig_Defaults(t *testing.T) {
	cfg := DefaultCouncilConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error validating default config: %v", err)
	}
	if cfg.Mode != ModeStandard {
		t.Fatalf("expected default mode standard, got %s", cfg.Mode)
	}
	if cfg.MaxDebateRounds != 3 {
		t.Fatalf("expected default max rounds 3, got %d", cfg.MaxDebateRounds)
	}
	if cfg.ConfidenceThreshold != 0.85 {
		t.Fatalf("expected default threshold 0.85, got %.2f", cfg.ConfidenceThreshold)
	}
	if cfg.TimeoutSeconds != 120 {
		t.Fatalf("expected default timeout 120s, got %d", cfg.TimeoutSeconds)
	}
}

func TestCouncilConfig_ValidateBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CouncilConfig)
	}{
		{"invalid mode", func(c *CouncilConfig) { c.Mode = "frenzied" }},
		{"rounds too low", func(c *CouncilConfig) { c.MaxDebateRounds = 0 }},
		{"rounds too high", func(c *CouncilConfig) { c.MaxDebateRounds = 11 }},
		{"threshold negative", func(c *CouncilConfig) { c.ConfidenceThreshold = -0.1 }},
		{"threshold above one", func(c *CouncilConfig) { c.ConfidenceThreshold = 1.5 }},
		{"timeout too short", func(c *CouncilConfig) { c.TimeoutSeconds = 5 }},
		{"timeout too long", func(c *CouncilConfig) { c.TimeoutSeconds = 601 }},
		{"panel timeout above global", func(c *CouncilConfig) { c.PanelTimeoutSeconds = 500; c.TimeoutSeconds = 120 }},
	}

	for _, tc := range cases {
		cfg := DefaultCouncilConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !IsCategory(err, ErrCatValidation) {
			t.Fatalf("%s: expected validation category, got %s", tc.name, GetCategory(err))
		}
	}
}

func TestCouncilConfig_PanelTimeout(t *testing.T) {
	cfg := DefaultCouncilConfig()
	// 120s global -> derived 60s cap
	if got := cfg.PanelTimeout().Seconds(); got != 60 {
		t.Fatalf("expected derived panel timeout 60s, got %.0fs", got)
	}

	cfg.TimeoutSeconds = 30
	if got := cfg.PanelTimeout().Seconds(); got != 15 {
		t.Fatalf("expected derived panel timeout 15s, got %.0fs", got)
	}

	cfg.PanelTimeoutSeconds = 10
	if got := cfg.PanelTimeout().Seconds(); got != 10 {
		t.Fatalf("expected explicit panel timeout 10s, got %.0fs", got)
	}
}

func TestSeverity_Ordering(t *testing.T) {
	if SeverityRank(SeverityCritical) <= SeverityRank(SeverityWarning) {
		t.Fatalf("expected critical to outrank warning")
	}
	if MaxSeverity(SeverityHealthy, SeverityInfo) != SeverityInfo {
		t.Fatalf("expected info to win over healthy")
	}
	if MaxSeverity(SeverityCritical, SeverityInfo) != SeverityCritical {
		t.Fatalf("expected critical to win over info")
	}
	if SeverityDistance(SeverityCritical, SeverityHealthy) != 3 {
		t.Fatalf("expected distance 3 between critical and healthy")
	}
	if ValidSeverity("catastrophic") {
		t.Fatalf("expected unknown severity to be invalid")
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range AllModes() {
		parsed, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("unexpected error parsing %s: %v", m, err)
		}
		if parsed != m {
			t.Fatalf("expected %s, got %s", m, parsed)
		}
	}
	if _, err := ParseMode("hyperdrive"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestPanelFinding_Validate(t *testing.T) {
	f := PanelFinding{PanelName: "trace", Severity: SeverityWarning, Confidence: 0.8}
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := PanelFinding{PanelName: "", Severity: SeverityWarning, Confidence: 0.8}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for empty panel name")
	}

	bad = PanelFinding{PanelName: "trace", Severity: "odd", Confidence: 0.8}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for invalid severity")
	}

	bad = PanelFinding{PanelName: "trace", Severity: SeverityInfo, Confidence: 1.2}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for out-of-range confidence")
	}
	bad.ClampConfidence()
	if bad.Confidence != 1 {
		t.Fatalf("expected clamped confidence 1, got %.2f", bad.Confidence)
	}
}

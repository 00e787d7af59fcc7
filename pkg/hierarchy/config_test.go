package hierarchy

import "testing"

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if got := cfg.MaxDepth(); got != 25 {
		t.Errorf("MaxDepth() = %d, want 25", got)
	}
	if got := cfg.GrainSize(); got != 512 {
		t.Errorf("GrainSize() = %d, want 512", got)
	}
	if got := cfg.RCPOverflow(); got != 1e-8 {
		t.Errorf("RCPOverflow() = %v, want 1e-8", got)
	}
	if got := cfg.ConstraintWeightPolicy(); got != ClampToOne {
		t.Errorf("ConstraintWeightPolicy() = %v, want ClampToOne", got)
	}
	if got := cfg.LogLevel(); got != "info" {
		t.Errorf("LogLevel() = %q, want %q", got, "info")
	}
}

func TestConfigSetOverridesDefaults(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("hierarchy.max_depth", 3)
	cfg.Set("hierarchy.constraint_weight_policy", int(HalfEachStep))

	if got := cfg.MaxDepth(); got != 3 {
		t.Errorf("MaxDepth() = %d, want 3", got)
	}
	if got := cfg.ConstraintWeightPolicy(); got != HalfEachStep {
		t.Errorf("ConstraintWeightPolicy() = %v, want HalfEachStep", got)
	}
}

func TestCreateLoggerFallsBackOnBadLevel(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("logging.level", "not-a-real-level")
	// Must not panic; ParseLevel failure falls back to InfoLevel.
	_ = cfg.CreateLogger()
}

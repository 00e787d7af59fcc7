package hierarchy

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// ConstraintWeightPolicy selects how PropagateConstraints combines weights
// from two parents. The original shipped ClampToOne but left a disabled
// HalfEachStep branch (an "#if 0" block) that the author evidently
// considered; both are available here as a real runtime knob instead of a
// dead code path.
type ConstraintWeightPolicy int

const (
	// ClampToOne treats any positive combined weight as a hard constraint
	// (the original's shipped behavior).
	ClampToOne ConstraintWeightPolicy = iota
	// HalfEachStep halves the combined weight at every level instead of
	// clamping, so constraint influence decays going up the hierarchy.
	HalfEachStep
)

// Config manages hierarchy-building configuration using Viper, the same
// wrapper-with-typed-getters shape the teacher's louvain.Config uses.
type Config struct {
	v *viper.Viper
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	v := viper.New()

	v.SetDefault("hierarchy.max_depth", 25)
	v.SetDefault("hierarchy.grain_size", 512)
	v.SetDefault("hierarchy.rcp_overflow", 1e-8)
	v.SetDefault("hierarchy.random_seed", time.Now().UnixNano())
	v.SetDefault("hierarchy.constraint_weight_policy", int(ClampToOne))

	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

// LoadFromFile loads configuration overrides from a file Viper understands
// (yaml/json/toml/...).
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// MaxDepth is the maximum number of coarsening steps the Hierarchy will
// attempt before giving up even if it hasn't reached a single vertex.
func (c *Config) MaxDepth() int { return c.v.GetInt("hierarchy.max_depth") }

// GrainSize is the parallel-for chunk size.
func (c *Config) GrainSize() int { return c.v.GetInt("hierarchy.grain_size") }

// RCPOverflow is the tiny positive float guard used to avoid dividing by a
// near-zero sum when normalizing or re-weighting.
func (c *Config) RCPOverflow() float64 { return c.v.GetFloat64("hierarchy.rcp_overflow") }

// RandomSeed seeds the parallel colorer's permutation shuffle and the random
// tangent/position initialization in ResetSolution. The deterministic
// colorer does not use it; it shuffles with a fixed seed of its own.
func (c *Config) RandomSeed() int64 { return c.v.GetInt64("hierarchy.random_seed") }

// ConstraintWeightPolicy selects how PropagateConstraints combines weights.
func (c *Config) ConstraintWeightPolicy() ConstraintWeightPolicy {
	return ConstraintWeightPolicy(c.v.GetInt("hierarchy.constraint_weight_policy"))
}

// LogLevel is the zerolog level name used by CreateLogger.
func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// Set allows dynamic configuration changes, mirroring louvain.Config.Set.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger builds a zerolog.Logger from the configured level, in the
// same console-writer style as the teacher's louvain.Config.CreateLogger.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("component", "hierarchy").Logger()
}

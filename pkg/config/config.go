// Package config loads search settings from a YAML file and merges them
// with command line flags.
package config

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/chazu/minbounds/pkg/engine"
	"github.com/chazu/minbounds/pkg/kernel/sdfx"
	"github.com/chazu/minbounds/pkg/search"
	"gopkg.in/yaml.v3"
)

// Strategy names.
const (
	StrategyGrid  = "grid"
	StrategyNudge = "nudge"
)

// DefaultSeed seeds the nudge search when neither file nor flags set one.
const DefaultSeed = 1

// GridConfig mirrors search.Grid.
type GridConfig struct {
	Spread  int `yaml:"spread"`
	Depth   int `yaml:"depth"`
	SpinRes int `yaml:"spin_res"`
	Workers int `yaml:"workers"` // 0 = all CPUs
}

// NudgeConfig mirrors search.Nudge.
type NudgeConfig struct {
	Iterations int    `yaml:"iterations"`
	Capacity   int    `yaml:"capacity"`
	Seed       uint64 `yaml:"seed"`
}

// Config holds everything a run needs besides its input file.
type Config struct {
	Strategy string      `yaml:"strategy"`
	Grid     GridConfig  `yaml:"grid"`
	Nudge    NudgeConfig `yaml:"nudge"`

	// Timeout bounds the search. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`

	// ScriptTimeout bounds script evaluation.
	ScriptTimeout time.Duration `yaml:"script_timeout"`

	// MeshCells is the marching cubes resolution for script solids.
	MeshCells int `yaml:"mesh_cells"`

	LogLevel string `yaml:"log_level"`
}

// Flags holds CLI flag values that override config file settings. Zero
// values mean "not set".
type Flags struct {
	Strategy   string
	Spread     int
	Depth      int
	SpinRes    int
	Workers    int
	Iterations int
	Seed       uint64
	Timeout    time.Duration
	LogLevel   string
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.Resolve(Flags{})
	return c
}

// Load reads a YAML config file. Fields not set in the file keep their
// zero values until Resolve.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies flags over the file values, then fills anything still
// unset with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Strategy != "" {
		c.Strategy = flags.Strategy
	}
	if flags.Spread > 0 {
		c.Grid.Spread = flags.Spread
	}
	if flags.Depth > 0 {
		c.Grid.Depth = flags.Depth
	}
	if flags.SpinRes > 0 {
		c.Grid.SpinRes = flags.SpinRes
	}
	if flags.Workers > 0 {
		c.Grid.Workers = flags.Workers
	}
	if flags.Iterations > 0 {
		c.Nudge.Iterations = flags.Iterations
	}
	if flags.Seed > 0 {
		c.Nudge.Seed = flags.Seed
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if c.Strategy == "" {
		c.Strategy = StrategyGrid
	}
	if c.Grid.Spread == 0 {
		c.Grid.Spread = search.DefaultSpread
	}
	if c.Grid.Depth == 0 {
		c.Grid.Depth = search.DefaultDepth
	}
	if c.Grid.SpinRes == 0 {
		c.Grid.SpinRes = search.DefaultSpinRes
	}
	if c.Nudge.Iterations == 0 {
		c.Nudge.Iterations = search.DefaultIterations
	}
	if c.Nudge.Capacity == 0 {
		c.Nudge.Capacity = search.DefaultCapacity
	}
	if c.Nudge.Seed == 0 {
		c.Nudge.Seed = DefaultSeed
	}
	if c.ScriptTimeout == 0 {
		c.ScriptTimeout = engine.DefaultTimeout
	}
	if c.MeshCells == 0 {
		c.MeshCells = sdfx.DefaultMeshCells
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports the first invalid setting, wrapping
// search.ErrInvalidParameter.
func (c Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("config: %w: %s", search.ErrInvalidParameter, fmt.Sprintf(format, args...))
	}
	switch c.Strategy {
	case StrategyGrid, StrategyNudge:
	default:
		return bad("unknown strategy %q", c.Strategy)
	}
	switch {
	case c.Grid.Spread <= 0:
		return bad("grid.spread %d", c.Grid.Spread)
	case c.Grid.Depth <= 0:
		return bad("grid.depth %d", c.Grid.Depth)
	case c.Grid.SpinRes <= 0:
		return bad("grid.spin_res %d", c.Grid.SpinRes)
	case c.Grid.Workers < 0:
		return bad("grid.workers %d", c.Grid.Workers)
	case c.Nudge.Iterations <= 0:
		return bad("nudge.iterations %d", c.Nudge.Iterations)
	case c.Nudge.Capacity <= 0:
		return bad("nudge.capacity %d", c.Nudge.Capacity)
	case c.Timeout < 0:
		return bad("timeout %s", c.Timeout)
	case c.ScriptTimeout <= 0:
		return bad("script_timeout %s", c.ScriptTimeout)
	case c.MeshCells <= 0:
		return bad("mesh_cells %d", c.MeshCells)
	}
	if _, err := c.Level(); err != nil {
		return bad("log_level %q", c.LogLevel)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, err
	}
	return l, nil
}

// NewStrategy builds the configured search strategy.
func (c Config) NewStrategy(logger *slog.Logger) (search.Strategy, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Strategy == StrategyNudge {
		return search.Nudge{
			Iterations: c.Nudge.Iterations,
			Capacity:   c.Nudge.Capacity,
			Rand:       rand.New(rand.NewPCG(c.Nudge.Seed, c.Nudge.Seed)),
			Logger:     logger,
		}, nil
	}
	return search.Grid{
		Spread:  c.Grid.Spread,
		Depth:   c.Grid.Depth,
		SpinRes: c.Grid.SpinRes,
		Workers: c.Grid.Workers,
		Logger:  logger,
	}, nil
}

// NewEngine builds a script engine with the configured timeout.
func (c Config) NewEngine() *engine.Engine {
	return &engine.Engine{Timeout: c.ScriptTimeout}
}

// NewKernel builds the solid backend used for scripts.
func (c Config) NewKernel() *sdfx.SdfxKernel {
	return &sdfx.SdfxKernel{MeshCells: c.MeshCells}
}

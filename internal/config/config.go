package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"jobShop/internal/bnb"
	"jobShop/internal/materialize"
)

// Config holds the application configuration
type Config struct {
	// Server
	Addr string

	// Solver
	TimeBudget time.Duration
	WarmStart  bnb.WarmStart
	Workers    int

	// Per-request limits of the HTTP service
	MaxTimeBudget time.Duration
	MaxWorkers    int
	MaxOps        int

	// Calendar
	Unit time.Duration
}

// DefaultMaxTimeBudget caps client budgets unless max_time_budget is set.
const DefaultMaxTimeBudget = time.Minute

// file is the YAML layout; durations and units are strings.
type file struct {
	Addr       string `yaml:"addr"`
	TimeBudget string `yaml:"time_budget"`
	WarmStart  string `yaml:"warm_start"`
	Workers    string `yaml:"workers"`
	Unit       string `yaml:"unit"`

	MaxTimeBudget string `yaml:"max_time_budget"`
	MaxWorkers    string `yaml:"max_workers"`
	MaxOps        string `yaml:"max_ops"`
}

func defaults() file {
	return file{
		Addr:       ":8080",
		TimeBudget: "5s",
		WarmStart:  string(bnb.WarmStartTS),
		Workers:    "1",
		Unit:       "hours",
		MaxOps:     "2500",
	}
}

// Load reads the optional YAML file at path and applies environment
// overrides on top of it.
func Load(path string) (*Config, error) {
	f := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty file is allowed
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	f = file{
		Addr:       getEnv("JOBSHOP_ADDR", f.Addr),
		TimeBudget: getEnv("JOBSHOP_TIME_BUDGET", f.TimeBudget),
		WarmStart:  getEnv("JOBSHOP_WARM_START", f.WarmStart),
		Workers:    getEnv("JOBSHOP_WORKERS", f.Workers),
		Unit:       getEnv("JOBSHOP_UNIT", f.Unit),

		MaxTimeBudget: getEnv("JOBSHOP_MAX_TIME_BUDGET", f.MaxTimeBudget),
		MaxWorkers:    getEnv("JOBSHOP_MAX_WORKERS", f.MaxWorkers),
		MaxOps:        getEnv("JOBSHOP_MAX_OPS", f.MaxOps),
	}
	return f.parse()
}

func (f file) parse() (*Config, error) {
	budget, err := time.ParseDuration(f.TimeBudget)
	if err != nil {
		return nil, fmt.Errorf("time_budget: %w", err)
	}
	workers, err := strconv.Atoi(f.Workers)
	if err != nil {
		return nil, fmt.Errorf("workers: %w", err)
	}
	unit, err := materialize.ParseUnit(f.Unit)
	if err != nil {
		return nil, fmt.Errorf("unit: %w", err)
	}

	maxOps, err := strconv.Atoi(f.MaxOps)
	if err != nil {
		return nil, fmt.Errorf("max_ops: %w", err)
	}

	// Unset limits never reject the configured defaults
	maxBudget := max(DefaultMaxTimeBudget, budget)
	if f.MaxTimeBudget != "" {
		if maxBudget, err = time.ParseDuration(f.MaxTimeBudget); err != nil {
			return nil, fmt.Errorf("max_time_budget: %w", err)
		}
	}
	maxWorkers := max(runtime.NumCPU(), workers)
	if f.MaxWorkers != "" {
		if maxWorkers, err = strconv.Atoi(f.MaxWorkers); err != nil {
			return nil, fmt.Errorf("max_workers: %w", err)
		}
	}

	c := &Config{
		Addr:          f.Addr,
		TimeBudget:    budget,
		WarmStart:     bnb.WarmStart(f.WarmStart),
		Workers:       workers,
		MaxTimeBudget: maxBudget,
		MaxWorkers:    maxWorkers,
		MaxOps:        maxOps,
		Unit:          unit,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Solver returns the branch-and-bound configuration for these settings.
func (c *Config) Solver() bnb.Config {
	cfg := bnb.DefaultConfig()
	cfg.TimeBudget = c.TimeBudget
	cfg.WarmStart = c.WarmStart
	cfg.Workers = c.Workers
	return cfg
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is empty")
	}
	if err := c.Solver().Validate(); err != nil {
		return err
	}
	switch {
	case c.MaxTimeBudget < c.TimeBudget:
		return fmt.Errorf("max_time_budget %s is below time_budget %s", c.MaxTimeBudget, c.TimeBudget)
	case c.MaxWorkers < c.Workers:
		return fmt.Errorf("max_workers %d is below workers %d", c.MaxWorkers, c.Workers)
	case c.MaxOps <= 0:
		return fmt.Errorf("max_ops must be > 0 (got %d)", c.MaxOps)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

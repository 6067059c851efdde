package sa

import (
	"context"
	"math/rand"
	"testing"

	"jobShop/internal/bound"
	"jobShop/internal/dispatch"
	"jobShop/internal/jobshop"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no iterations", func(c *Config) { c.Iterations, c.IterationsPerOp = 0, 0 }},
		{"initial temp", func(c *Config) { c.InitialTemp = 0 }},
		{"final temp", func(c *Config) { c.FinalTemp = 0 }},
		{"final above initial", func(c *Config) { c.FinalTemp = c.InitialTemp + 1 }},
		{"alpha", func(c *Config) { c.Alpha = 1 }},
		{"neighborhood", func(c *Config) { c.Neighborhood = "n7" }},
		{"initial rule", func(c *Config) { c.Initial = "edd" }},
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNew_NilRng(t *testing.T) {
	if _, err := New(DefaultConfig(), nil); err == nil {
		t.Error("expected error for nil rng")
	}
}

func TestSolve_NotWorseThanDispatch(t *testing.T) {
	inst := jobshop.Random(6, 4, 1, 15, rand.New(rand.NewSource(7)))
	lb := bound.Root(inst)
	initial := dispatch.Build(inst, dispatch.RuleMWKR).Makespan()

	for _, nb := range []Neighborhood{NeighborhoodN1, NeighborhoodN5} {
		t.Run(string(nb), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Iterations = 2000
			cfg.Neighborhood = nb
			s, err := New(cfg, rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			res, err := s.Solve(context.Background(), inst)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := res.Schedule.Verify(); err != nil {
				t.Fatalf("infeasible schedule: %v", err)
			}
			if res.Makespan != res.Schedule.Makespan() {
				t.Errorf("makespan %d does not match schedule %d", res.Makespan, res.Schedule.Makespan())
			}
			if res.Makespan > initial || res.Makespan < lb {
				t.Errorf("makespan %d outside [%d, %d]", res.Makespan, lb, initial)
			}
		})
	}
}

func TestSolve_Deterministic(t *testing.T) {
	inst := jobshop.Random(5, 5, 1, 9, rand.New(rand.NewSource(11)))
	cfg := DefaultConfig()
	cfg.Iterations = 500

	run := func() int {
		s, err := New(cfg, rand.New(rand.NewSource(99)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		res, err := s.Solve(context.Background(), inst)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return res.Makespan
	}
	if a, b := run(), run(); a != b {
		t.Errorf("expected same makespan for same seed, got %d and %d", a, b)
	}
}

func TestSolve_CancelledContext(t *testing.T) {
	inst := jobshop.Random(4, 3, 1, 9, rand.New(rand.NewSource(2)))
	s, err := New(DefaultConfig(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Solve(ctx, inst)
	if err == nil {
		t.Fatal("expected context error")
	}
	if res.Schedule == nil || res.Schedule.Verify() != nil {
		t.Error("expected feasible initial schedule on cancellation")
	}
}

package ts

import (
	"context"
	"math/rand"
	"testing"

	"jobShop/internal/bound"
	"jobShop/internal/dispatch"
	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no iterations", func(c *Config) { c.Iterations, c.IterationsPerOp = 0, 0 }},
		{"tenure", func(c *Config) { c.TabuTenure = 0 }},
		{"tenure rand", func(c *Config) { c.TabuTenureRand = -1 }},
		{"neighbors", func(c *Config) { c.NeighborsPerIter = 0 }},
		{"neighborhood", func(c *Config) { c.Neighborhood = "" }},
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

func TestTabuList(t *testing.T) {
	tl := newTabuList(8)
	k := moveKey(3, 5)
	if tl.IsTabu(k, 0) {
		t.Fatal("empty list reports tabu")
	}
	tl.Add(k, 4)
	if !tl.IsTabu(k, 3) {
		t.Error("expected move to be tabu before expiry")
	}
	if tl.IsTabu(k, 4) {
		t.Error("expected move to expire")
	}
	if tl.IsTabu(moveKey(5, 3), 0) {
		t.Error("reverse key must differ")
	}

	// Вытеснение старых элементов кольцом
	for i := 0; i < 8; i++ {
		tl.Add(moveKey(10+i, 20+i), 100)
	}
	if tl.IsTabu(k, 0) {
		t.Error("expected evicted key to be free")
	}
}

func TestSolve(t *testing.T) {
	inst := jobshop.Random(6, 4, 1, 15, rand.New(rand.NewSource(7)))
	lb := bound.Root(inst)
	initial := dispatch.Build(inst, dispatch.RuleMWKR).Makespan()

	for _, nb := range []Neighborhood{NeighborhoodN1, NeighborhoodN5} {
		t.Run(string(nb), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Iterations = 300
			cfg.Neighborhood = nb
			s, err := New(cfg, rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			res, err := s.Solve(context.Background(), inst)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != opt.StatusFeasible {
				t.Errorf("expected status %s, got %s", opt.StatusFeasible, res.Status)
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
	cfg.Iterations = 200

	run := func() []int {
		s, err := New(cfg, rand.New(rand.NewSource(5)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		res, err := s.Solve(context.Background(), inst)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return res.Schedule.Starts()
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical schedules for same seed, differ at op %d", i)
		}
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
	if res.Status != opt.StatusFeasibleTimeout {
		t.Errorf("expected status %s, got %s", opt.StatusFeasibleTimeout, res.Status)
	}
}

// Package bnb реализует точный метод ветвей и границ на дизъюнктивном графе
// с ограничением по времени.
package bnb

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"jobShop/internal/bound"
	"jobShop/internal/dispatch"
	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
	"jobShop/internal/sa"
	"jobShop/internal/ts"
)

const maxInt = int(^uint(0) >> 1)

// Solver - точный поиск с отсечениями по нижней оценке.
type Solver struct {
	Cfg Config
}

func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg}, nil
}

// Solve ищет расписание минимальной длины. Исчерпание бюджета или отмена ctx
// не являются ошибкой: возвращается рекорд со статусом FEASIBLE_TIMEOUT.
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()

	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if inst == nil {
		return opt.Result{}, errors.New("задача не задана (nil)")
	}
	deadline := start.Add(s.Cfg.TimeBudget)

	best := newIncumbent()
	seq := jobshop.Sequential(inst)
	best.offer(seq.Starts(), seq.Makespan(), "sequential")

	warm, err := s.warmStart(ctx, inst, deadline)
	if err != nil {
		return opt.Result{}, err
	}
	if warm.Schedule != nil {
		best.offer(warm.Schedule.Starts(), warm.Schedule.Makespan(), string(s.Cfg.WarmStart))
	}

	t := newTree(inst)
	var (
		nodes, props int
		stopped      bool
	)
	if s.Cfg.Workers > 1 {
		nodes, props, stopped, err = s.parallel(ctx, t, best, deadline)
		if err != nil {
			return opt.Result{}, err
		}
	} else {
		root := newSearch(ctx, t, best, deadline)
		if root.replay(nil) {
			root.node(0)
		}
		nodes, props, stopped = root.nodes, root.propagations, root.stopped
	}

	starts, makespan, source := best.snapshot()
	res := opt.Result{
		Evaluations: props,
		Iterations:  nodes,
		Duration:    time.Since(start),
		Meta: map[string]any{
			"nodes":       nodes,
			"lower_bound": bound.Root(inst),
			"warm_start":  string(s.Cfg.WarmStart),
			"workers":     s.Cfg.Workers,
			"source":      source,
		},
	}
	if warm.Schedule != nil {
		res.Meta["warm_start_makespan"] = warm.Makespan
	}

	if starts == nil {
		res.Status = opt.StatusInfeasible
		return res, nil
	}
	sched, err := jobshop.NewSchedule(inst, starts)
	if err != nil {
		return opt.Result{}, fmt.Errorf("расписание рекорда: %w", err)
	}
	if err := sched.Verify(); err != nil {
		return opt.Result{}, fmt.Errorf("расписание рекорда: %w", err)
	}
	if sched.Makespan() != makespan {
		return opt.Result{}, fmt.Errorf("makespan рекорда %d не совпадает с расписанием %d", makespan, sched.Makespan())
	}

	res.Schedule = sched
	res.Makespan = makespan
	res.Status = opt.StatusOptimal
	if stopped {
		res.Status = opt.StatusFeasibleTimeout
	}
	return res, nil
}

// warmStart запускает эвристику на долю бюджета. Отмена по времени не
// считается ошибкой, результат эвристики тогда всё равно используется.
func (s *Solver) warmStart(ctx context.Context, inst *jobshop.Instance, deadline time.Time) (opt.Result, error) {
	var solver opt.Optimizer
	rng := rand.New(rand.NewSource(s.Cfg.Seed))

	switch s.Cfg.WarmStart {
	case WarmStartNone:
		return opt.Result{}, nil
	case WarmStartDispatch:
		solver = &dispatch.Solver{Cfg: dispatch.DefaultConfig()}
	case WarmStartSA:
		solver = &sa.Solver{Cfg: sa.DefaultConfig(), Rng: rng}
	case WarmStartTS:
		solver = &ts.Solver{Cfg: ts.DefaultConfig(), Rng: rng}
	}

	share := time.Duration(float64(s.Cfg.TimeBudget) * s.Cfg.WarmStartShare)
	wctx, cancel := context.WithDeadline(ctx, time.Now().Add(share))
	defer cancel()

	res, err := solver.Solve(wctx, inst)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return opt.Result{}, fmt.Errorf("начальное решение %s: %w", s.Cfg.WarmStart, err)
	}
	if res.Schedule == nil || res.Schedule.Verify() != nil {
		return opt.Result{}, nil
	}
	return res, nil
}

// parallel делит дерево на глубине SplitDepth и обходит поддеревья
// в пуле воркеров. Рекорд общий, поэтому узлы могут отсекаться раньше,
// чем при последовательном обходе, и порядок находок не воспроизводим.
func (s *Solver) parallel(ctx context.Context, t *tree, best *incumbent, deadline time.Time) (int, int, bool, error) {
	root := newSearch(ctx, t, best, deadline)
	root.split = s.Cfg.SplitDepth
	if root.replay(nil) {
		root.node(0)
	}
	if root.stopped || len(root.frontier) == 0 {
		return root.nodes, root.propagations, root.stopped, nil
	}

	type stats struct {
		nodes, props int
		stopped      bool
	}
	out := make([]stats, len(root.frontier))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Cfg.Workers)
	for i, path := range root.frontier {
		i, path := i, path
		g.Go(func() error {
			w := newSearch(gctx, t, best, deadline)
			if w.replay(path) {
				w.node(len(path))
			}
			out[i] = stats{nodes: w.nodes, props: w.propagations, stopped: w.stopped}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, false, err
	}

	nodes, props, stopped := root.nodes, root.propagations, false
	for _, st := range out {
		nodes += st.nodes
		props += st.props
		stopped = stopped || st.stopped
	}
	return nodes, props, stopped, nil
}

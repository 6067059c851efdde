// Package engine - единая точка входа: матрицы на входе,
// решённое и привязанное к календарю расписание на выходе.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobShop/internal/bnb"
	"jobShop/internal/jobshop"
	"jobShop/internal/materialize"
	"jobShop/internal/opt"
)

// DefaultTimeBudget применяется при нулевом Request.TimeBudget.
const DefaultTimeBudget = 5 * time.Second

// Request - запрос на решение: матрицы J×K по стадиям, календарное
// начало и длина единицы времени.
type Request struct {
	ProcessingTimes [][]int
	Routing         [][]int

	Origin time.Time
	// Unit по умолчанию - час
	Unit time.Duration

	TimeBudget time.Duration
	// Пустые значения заменяются настройками bnb.DefaultConfig
	WarmStart bnb.WarmStart
	Workers   int
}

type Result struct {
	RunID     string
	Status    opt.Status
	Objective int
	Elapsed   time.Duration

	Entries  []materialize.Entry
	Schedule *jobshop.Schedule

	LowerBound        int
	Nodes             int
	WarmStartMakespan int
}

// Solve проверяет задачу, запускает метод ветвей и границ и привязывает
// рекорд к календарю. Ошибкой считаются только некорректный ввод
// и внутренние сбои, исчерпание бюджета отражается в Result.Status.
func Solve(ctx context.Context, req Request) (Result, error) {
	inst, err := jobshop.Build(req.ProcessingTimes, req.Routing)
	if err != nil {
		return Result{}, err
	}
	return SolveInstance(ctx, inst, req)
}

// SolveInstance - Solve для уже построенной задачи, матрицы req игнорируются.
func SolveInstance(ctx context.Context, inst *jobshop.Instance, req Request) (Result, error) {
	cfg, err := config(req)
	if err != nil {
		return Result{}, err
	}
	unit := req.Unit
	if unit == 0 {
		unit = time.Hour
	}
	if unit < 0 {
		return Result{}, fmt.Errorf("единица времени должна быть > 0 (получено %s)", unit)
	}

	solver, err := bnb.New(cfg)
	if err != nil {
		return Result{}, err
	}
	res, err := solver.Solve(ctx, inst)
	if err != nil {
		return Result{}, fmt.Errorf("решение: %w", err)
	}

	out := Result{
		RunID:     uuid.NewString(),
		Status:    res.Status,
		Objective: res.Makespan,
		Elapsed:   res.Duration,
		Schedule:  res.Schedule,
		Nodes:     res.Iterations,
	}
	if lb, ok := res.Meta["lower_bound"].(int); ok {
		out.LowerBound = lb
	}
	if ws, ok := res.Meta["warm_start_makespan"].(int); ok {
		out.WarmStartMakespan = ws
	}
	if res.Schedule != nil {
		out.Entries = materialize.Materialize(res.Schedule, req.Origin, unit)
	}
	return out, nil
}

func config(req Request) (bnb.Config, error) {
	cfg := bnb.DefaultConfig()
	switch {
	case req.TimeBudget < 0:
		return cfg, fmt.Errorf("бюджет времени должен быть > 0 (получено %s)", req.TimeBudget)
	case req.TimeBudget > 0:
		cfg.TimeBudget = req.TimeBudget
	default:
		cfg.TimeBudget = DefaultTimeBudget
	}
	if req.WarmStart != "" {
		cfg.WarmStart = req.WarmStart
	}
	if req.Workers > 0 {
		cfg.Workers = req.Workers
	}
	return cfg, cfg.Validate()
}

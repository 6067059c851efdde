package dispatch

import (
	"context"
	"time"

	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

// Solver строит активное расписание алгоритмом Гиффлера–Томпсона.
type Solver struct {
	Cfg Config
}

func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg}, nil
}

// Solve - однопроходная эвристика, контекст проверяется перед запуском.
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()

	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return opt.Result{}, err
	}

	sched := Build(inst, s.Cfg.Rule)
	return opt.Result{
		Status:      opt.StatusFeasible,
		Schedule:    sched,
		Makespan:    sched.Makespan(),
		Evaluations: 1,
		Iterations:  inst.NumOps(),
		Duration:    time.Since(start),
		Meta: map[string]any{
			"rule": string(s.Cfg.Rule),
		},
	}, nil
}

// Build генерирует активное расписание: на каждом шаге находится операция с
// наименьшим возможным окончанием, её станок становится конфликтным, и из
// операций, которые могут начаться на нём раньше этого окончания, правило
// выбирает одну. Равенства разрешаются по наименьшему ID операции.
func Build(inst *jobshop.Instance, rule Rule) *jobshop.Schedule {
	jobs, stages := inst.Jobs(), inst.Stages()

	next := make([]int, jobs)     // следующая стадия задания
	jobReady := make([]int, jobs) // окончание предыдущей стадии
	remWork := make([]int, jobs)  // остаток работы по заданию
	machReady := make([]int, inst.Machines())
	starts := make([]int, inst.NumOps())

	for j := 0; j < jobs; j++ {
		for k := 0; k < stages; k++ {
			remWork[j] += inst.Time(j, k)
		}
	}

	est := func(j int) int {
		op := inst.Op(inst.OpID(j, next[j]))
		return max(jobReady[j], machReady[op.Machine])
	}

	for step := 0; step < inst.NumOps(); step++ {
		// Операция с минимальным окончанием
		bestJob, bestEnd := -1, 0
		for j := 0; j < jobs; j++ {
			if next[j] == stages {
				continue
			}
			end := est(j) + inst.Time(j, next[j])
			if bestJob < 0 || end < bestEnd {
				bestJob, bestEnd = j, end
			}
		}
		m := inst.MachineOf(bestJob, next[bestJob])

		// Конфликтное множество на станке m
		chosen := -1
		for j := 0; j < jobs; j++ {
			if next[j] == stages || inst.MachineOf(j, next[j]) != m || est(j) >= bestEnd {
				continue
			}
			if chosen < 0 || better(inst, rule, j, chosen, next, remWork, est) {
				chosen = j
			}
		}

		id := inst.OpID(chosen, next[chosen])
		st := est(chosen)
		d := inst.Time(chosen, next[chosen])
		starts[id] = st
		jobReady[chosen] = st + d
		machReady[m] = st + d
		remWork[chosen] -= d
		next[chosen]++
	}

	sched, err := jobshop.NewSchedule(inst, starts)
	if err != nil {
		panic(err)
	}
	return sched
}

// better сообщает, предпочтительнее ли задание a текущему выбору b.
// При равенстве остаётся b, у которого меньший ID.
func better(inst *jobshop.Instance, rule Rule, a, b int, next, remWork []int, est func(int) int) bool {
	pa, pb := inst.Time(a, next[a]), inst.Time(b, next[b])
	switch rule {
	case RuleSPT:
		return pa < pb
	case RuleLPT:
		return pa > pb
	case RuleMWKR:
		return remWork[a] > remWork[b]
	case RuleMOR:
		return inst.Stages()-next[a] > inst.Stages()-next[b]
	case RuleFIFO:
		return est(a) < est(b)
	}
	return false
}

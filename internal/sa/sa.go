package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"jobShop/internal/disjunctive"
	"jobShop/internal/dispatch"
	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve - отжиг над последовательностями станков. Соседнее решение получается
// обменом двух соседних операций критического блока, такой обмен никогда не
// создаёт цикл.
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()

	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	eval, err := disjunctive.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerOp * inst.NumOps()
	}

	// Начальное решение - активное расписание по правилу диспетчеризации
	curr := dispatch.Build(inst, s.Cfg.Initial).MachineSequences()
	cand := disjunctive.CloneSequences(curr)

	currCost, err := eval.Evaluate(curr)
	if err != nil {
		return opt.Result{}, err
	}
	evals := 1

	best := disjunctive.CloneSequences(curr)
	bestCost := currCost

	// fresh - состояние оценщика соответствует curr
	fresh := true
	T := s.Cfg.InitialTemp

	result := func(status opt.Status, iters int, meta map[string]any) (opt.Result, error) {
		sched, err := eval.Schedule(best)
		if err != nil {
			return opt.Result{}, err
		}
		return opt.Result{
			Status:      status,
			Schedule:    sched,
			Makespan:    bestCost,
			Evaluations: evals,
			Iterations:  iters,
			Duration:    time.Since(start),
			Meta:        meta,
		}, nil
	}

	iter := 0
	for ; iter < maxIter && T > s.Cfg.FinalTemp; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			res, rerr := result(opt.StatusFeasibleTimeout, iter, map[string]any{
				"stopped": "context",
				"T":       T,
			})
			if rerr != nil {
				return res, rerr
			}
			return res, err
		}

		if !fresh {
			if _, err := eval.Evaluate(curr); err != nil {
				return opt.Result{}, err
			}
			fresh = true
		}

		var moves []disjunctive.Move
		switch s.Cfg.Neighborhood {
		case NeighborhoodN5:
			moves = eval.NeighborhoodN5()
		default:
			moves = eval.NeighborhoodN1()
		}
		// Нет критических блоков: makespan равен длине одного задания,
		// улучшение невозможно
		if len(moves) == 0 {
			break
		}

		mv := moves[s.Rng.Intn(len(moves))]
		disjunctive.CopySequences(cand, curr)
		mv.Apply(cand)

		candCost, err := eval.Evaluate(cand)
		evals++
		fresh = false
		if err != nil {
			T *= s.Cfg.Alpha
			continue
		}

		delta := candCost - currCost
		accept := false
		if delta <= 0 {
			// Улучшающее решение принимаем всегда
			accept = true
		} else {
			// Критерий Метрополиса:
			// допускает принятие ухудшающих решений
			p := math.Exp(-float64(delta) / T)
			if s.Rng.Float64() < p {
				accept = true
			}
		}

		if accept {
			// Обмен ролей текущего и кандидатного решений
			curr, cand = cand, curr
			currCost = candCost
			fresh = true

			// Обновление глобально лучшего решения
			if currCost < bestCost {
				bestCost = currCost
				disjunctive.CopySequences(best, curr)
			}
		}

		// Охлаждение температуры
		T *= s.Cfg.Alpha
	}

	return result(opt.StatusFeasible, iter, map[string]any{
		"initial_temp": s.Cfg.InitialTemp,
		"final_temp":   s.Cfg.FinalTemp,
		"alpha":        s.Cfg.Alpha,
		"neighborhood": string(s.Cfg.Neighborhood),
		"initial":      string(s.Cfg.Initial),
	})
}

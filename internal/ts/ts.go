package ts

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"jobShop/internal/disjunctive"
	"jobShop/internal/dispatch"
	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

// maxInt используется как бесконечность для стоимостей.
const maxInt = int(^uint(0) >> 1)

// Solver - структура реализации табу-поиска.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый TS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve - основной цикл алгоритма
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()

	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	// Оценка целевой функции
	eval, err := disjunctive.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerOp * inst.NumOps()
	}

	// Текущее и кандидатное решения
	curr := dispatch.Build(inst, s.Cfg.Initial).MachineSequences()
	cand := disjunctive.CloneSequences(curr)

	currCost, err := eval.Evaluate(curr)
	if err != nil {
		return opt.Result{}, err
	}
	evals := 1
	fresh := true

	// Глобально лучшее решение
	best := disjunctive.CloneSequences(curr)
	bestCost := currCost

	// Табу-список - кольцевой буфер с мапой
	tabu := newTabuList(max(32, (s.Cfg.TabuTenure+s.Cfg.TabuTenureRand)*4))

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
	for ; iter < maxIter; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			res, rerr := result(opt.StatusFeasibleTimeout, iter, map[string]any{
				"stopped": "context",
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
		case NeighborhoodN1:
			moves = eval.NeighborhoodN1()
		default:
			moves = eval.NeighborhoodN5()
		}
		if len(moves) == 0 {
			break
		}
		if len(moves) > s.Cfg.NeighborsPerIter {
			s.Rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
			moves = moves[:s.Cfg.NeighborsPerIter]
		}

		// Лучший допустимый ход
		bestMove := -1
		bestMoveCost := maxInt

		// Запасной ход (лучший без учёта табу),
		// используется если все допустимые ходы табуированы
		fallback := -1
		fallbackCost := maxInt

		for i, mv := range moves {
			a, b := mv.Ops(curr)
			key := moveKey(a, b)

			// Формирование соседнего решения
			disjunctive.CopySequences(cand, curr)
			mv.Apply(cand)

			cost, err := eval.Evaluate(cand)
			evals++
			fresh = false
			if err != nil {
				continue
			}

			if cost < fallbackCost {
				fallbackCost = cost
				fallback = i
			}

			isTabu := tabu.IsTabu(key, iter)
			aspiration := cost < bestCost // критерий аспирации

			// Табуированный ход пропускается,
			// если не выполняется критерий аспирации
			if isTabu && !aspiration {
				continue
			}

			if cost < bestMoveCost {
				bestMoveCost = cost
				bestMove = i
			}
		}

		// Выбор хода: сначала допустимый лучший, иначе запасной
		chosen, chosenCost := bestMove, bestMoveCost
		if chosen < 0 {
			chosen, chosenCost = fallback, fallbackCost
		}

		// Нет допустимых ходов - завершаем поиск
		if chosen < 0 {
			break
		}

		// Применение выбранного хода
		mv := moves[chosen]
		a, b := mv.Ops(curr)
		mv.Apply(curr)
		currCost = chosenCost

		// Добавление обратного хода в табу-список
		tenure := s.Cfg.TabuTenure
		if s.Cfg.TabuTenureRand > 0 {
			tenure += s.Rng.Intn(s.Cfg.TabuTenureRand + 1)
		}
		tabu.Add(moveKey(b, a), iter+tenure)

		// Обновление глобально лучшего решения
		if currCost < bestCost {
			bestCost = currCost
			disjunctive.CopySequences(best, curr)
		}
	}

	return result(opt.StatusFeasible, iter, map[string]any{
		"tabu_tenure":        s.Cfg.TabuTenure,
		"tabu_tenure_rand":   s.Cfg.TabuTenureRand,
		"neighbors_per_iter": s.Cfg.NeighborsPerIter,
		"neighborhood":       string(s.Cfg.Neighborhood),
		"initial":            string(s.Cfg.Initial),
	})
}

// tabuList - структура табу-списка.
// Реализована как кольцевой буфер фиксированного размера
// с map для быстрой проверки табуированности.
type tabuList struct {
	m   map[uint64]int // ключ → итерация истечения табу
	key []uint64       // кольцевой буфер ключей
	exp []int          // соответствующие сроки истечения
	i   int            // текущая позиция в кольце
}

// newTabuList создаёт табу-список заданной ёмкости.
func newTabuList(capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	return &tabuList{
		m:   make(map[uint64]int, capacity*2),
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
	}
}

// IsTabu проверяет, является ли ход табуированным на текущей итерации.
func (t *tabuList) IsTabu(k uint64, iter int) bool {
	if exp, ok := t.m[k]; ok && exp > iter {
		return true
	}
	return false
}

// Add добавляет новый табу-ход с указанием итерации истечения.
func (t *tabuList) Add(k uint64, expiry int) {
	// Удаление старого элемента из кольцевого буфера
	oldK := t.key[t.i]
	oldExp := t.exp[t.i]
	if oldK != 0 {
		if curExp, ok := t.m[oldK]; ok && curExp == oldExp {
			delete(t.m, oldK)
		}
	}

	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry

	t.i++
	if t.i >= len(t.key) {
		t.i = 0
	}
}

// moveKey кодирует обмен «first перед second» → «second перед first».
// Ключ не бывает нулевым, так как first != second.
func moveKey(first, second int) uint64 {
	return uint64(uint32(first))<<32 | uint64(uint32(second))
}

package opt

import (
	"context"
	"time"

	"jobShop/internal/jobshop"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *jobshop.Instance) (Result, error)
}

// Status - степень доверия к Result.
type Status string

const (
	// StatusOptimal: дерево поиска исчерпано.
	StatusOptimal Status = "OPTIMAL"
	// StatusFeasibleTimeout: бюджет исчерпан, Schedule - лучшее найденное.
	StatusFeasibleTimeout Status = "FEASIBLE_TIMEOUT"
	// StatusInfeasible: допустимое расписание не найдено.
	StatusInfeasible Status = "INFEASIBLE"
	// StatusFeasible: эвристика завершилась без доказательства оптимальности.
	StatusFeasible Status = "FEASIBLE"
)

type Result struct {
	Status      Status
	Schedule    *jobshop.Schedule
	Makespan    int
	Evaluations int
	Iterations  int
	Duration    time.Duration
	Meta        map[string]any
}

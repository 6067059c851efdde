package bench

import (
	"context"
	"fmt"
	"time"

	"jobShop/internal/bound"
	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

type Case struct {
	Jobs         int
	Machines     int
	InstanceSeed int64
}

type Record struct {
	Algo     string
	Jobs     int
	Machines int
	Runs     int

	LowerBound int
	Optimal    int // число запусков со статусом OPTIMAL

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	MakespanBest int
	MakespanMean float64
	MakespanStd  float64

	// Отклонение от нижней оценки, %
	GapMean float64
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
}

// Instance генерирует экземпляр задачи для конфигурации.
func (c Case) Instance() *jobshop.Instance {
	return jobshop.Random(c.Jobs, c.Machines, 1, 99, randForSeed(c.InstanceSeed))
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	inst := c.Instance()
	lb := bound.Root(inst)

	makespans := make([]int, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)
	gaps := make([]float64, 0, r.Runs)
	optimal := 0

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		op := algo.Factory(runSeed)

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		start := time.Now()
		res, err := op.Solve(runCtx, inst)
		dur := time.Since(start)
		cancel()

		// Эвристики по таймауту возвращают лучшее найденное вместе с ошибкой
		if err != nil && (ctx.Err() != nil || res.Schedule == nil) {
			return Record{}, fmt.Errorf("запуск %d: ошибка решения: %w", i, err)
		}
		if res.Schedule == nil {
			return Record{}, fmt.Errorf("запуск %d: нет расписания (статус %s)", i, res.Status)
		}
		if err := res.Schedule.Verify(); err != nil {
			return Record{}, fmt.Errorf("запуск %d: недопустимое расписание: %w", i, err)
		}
		if res.Status == opt.StatusOptimal {
			optimal++
		}

		makespans = append(makespans, res.Makespan)
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
		gaps = append(gaps, 100*float64(res.Makespan-lb)/float64(lb))
	}

	msStats := Calc(makespans)
	tStats := Calc(timesMs)
	gStats := Calc(gaps)

	return Record{
		Algo:     algo.Name,
		Jobs:     c.Jobs,
		Machines: c.Machines,
		Runs:     r.Runs,

		LowerBound: lb,
		Optimal:    optimal,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		MakespanBest: msStats.Best,
		MakespanMean: msStats.Mean,
		MakespanStd:  msStats.Std,

		GapMean: gStats.Mean,
	}, nil
}

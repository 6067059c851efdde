package main

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jobShop/internal/bench"
	"jobShop/internal/bnb"
	"jobShop/internal/dispatch"
	"jobShop/internal/opt"
	"jobShop/internal/sa"
	"jobShop/internal/ts"
)

// Фабрики

func newDispatchFactory(cfg dispatch.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := dispatch.New(cfg)
		return solver
	}
}

func newSAFactory(cfg sa.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := sa.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newTSFactory(cfg ts.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ts.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newBNBFactory(cfg bnb.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		c := cfg
		c.Seed = seed
		solver, _ := bnb.New(c)
		return solver
	}
}

func benchCmd() *cobra.Command {
	var (
		out          string
		pairs        string
		algos        string
		runs         int
		baseSeed     int64
		instanceSeed int64
		perRunTO     time.Duration

		// --- Диспетчеризация ---
		dRule string

		// --- Алгоритм имитации отжига ---
		saIterPerOp int
		saIter      int
		saT0        float64
		saTmin      float64
		saAlpha     float64
		saNeigh     string

		// --- Табу-поиск ---
		tsIterPerOp  int
		tsIter       int
		tsTenure     int
		tsTenureRand int
		tsNeighbors  int
		tsNeigh      string

		// --- Метод ветвей и границ ---
		bBudget  time.Duration
		bWarm    string
		bWorkers int
		bSplit   int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Сравнить алгоритмы на случайных экземплярах",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			cases, err := parsePairs(pairs, instanceSeed)
			if err != nil {
				return fmt.Errorf("конфликт: %w", err)
			}

			dCfg := dispatch.Config{Rule: dispatch.Rule(dRule)}
			if err := dCfg.Validate(); err != nil {
				return fmt.Errorf("конфликт в конфигурации диспетчеризации: %w", err)
			}

			saCfg := sa.Config{
				Iterations:      saIter,
				IterationsPerOp: saIterPerOp,
				InitialTemp:     saT0,
				FinalTemp:       saTmin,
				Alpha:           saAlpha,
				Neighborhood:    sa.Neighborhood(saNeigh),
				Initial:         dCfg.Rule,
			}
			if err := saCfg.Validate(); err != nil {
				return fmt.Errorf("конфликт в конфигурации алгоритма имитации отжига: %w", err)
			}

			tsCfg := ts.Config{
				Iterations:       tsIter,
				IterationsPerOp:  tsIterPerOp,
				TabuTenure:       tsTenure,
				TabuTenureRand:   tsTenureRand,
				NeighborsPerIter: tsNeighbors,
				Neighborhood:     ts.Neighborhood(tsNeigh),
				Initial:          dCfg.Rule,
			}
			if err := tsCfg.Validate(); err != nil {
				return fmt.Errorf("конфликт в конфигурации табу-поиска: %w", err)
			}

			bCfg := bnb.DefaultConfig()
			bCfg.TimeBudget = bBudget
			bCfg.WarmStart = bnb.WarmStart(bWarm)
			bCfg.Workers = bWorkers
			bCfg.SplitDepth = bSplit
			if err := bCfg.Validate(); err != nil {
				return fmt.Errorf("конфликт в конфигурации метода ветвей и границ: %w", err)
			}

			available := map[string]bench.Algorithm{
				"DISPATCH": {Name: "DISPATCH", Factory: newDispatchFactory(dCfg)},
				"SA":       {Name: "SA", Factory: newSAFactory(saCfg)},
				"TS":       {Name: "TS", Factory: newTSFactory(tsCfg)},
				"BNB":      {Name: "BNB", Factory: newBNBFactory(bCfg)},
			}

			var selected []bench.Algorithm
			for _, a := range splitCSV(algos) {
				al, ok := available[strings.ToUpper(a)]
				if !ok {
					return fmt.Errorf("алгоритм не предоставлен в программе %q; доступные: %v", a, keys(available))
				}
				selected = append(selected, al)
			}

			runner := bench.Runner{
				Runs:          runs,
				BaseSeed:      baseSeed,
				PerRunTimeout: perRunTO,
			}

			var records []bench.Record
			for _, c := range cases {
				for _, a := range selected {
					fmt.Printf("Запущен алгоритм %s; %d работ %d машин (общее кол-во запусков=%d)...\n", Bold(a.Name), c.Jobs, c.Machines, runner.Runs)

					rec, err := runner.RunCase(ctx, c, a)
					if err != nil {
						return err
					}
					records = append(records, rec)

					fmt.Printf("  Значение целевой функции: лучшее=%d среднее=%.2f стандартное отклонение=%.2f | нижняя оценка=%d отклонение=%.2f%% оптимумов=%d | Время: среднее=%.2fms среднее отклонение=%.2fms\n",
						rec.MakespanBest, rec.MakespanMean, rec.MakespanStd,
						rec.LowerBound, rec.GapMean, rec.Optimal,
						rec.TimeMeanMs, rec.TimeStdMs,
					)
				}
			}

			if err := bench.WriteCSV(out, records); err != nil {
				return fmt.Errorf("ошибка при записи в CSV: %w", err)
			}
			fmt.Println("Saved:", out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&out, "out", "artifacts/results.csv", "путь к выходному CSV-файлу")
	f.StringVar(&pairs, "pairs", "6x6,10x5,10x10", "конфигурации: количество работ Х количество станков (через запятую)")
	f.StringVar(&algos, "algos", "DISPATCH,SA,TS,BNB", "список алгоритмов: DISPATCH, SA, TS, BNB (через запятую)")
	f.IntVar(&runs, "runs", 10, "количество запусков каждого алгоритма (с разными сидами)")
	f.Int64Var(&baseSeed, "seed", 1000, "базовый сид для запусков алгоритмов")
	f.Int64Var(&instanceSeed, "instance_seed", 777, "базовый сид для генерации экземпляров задачи (фиксирован для конфигурации)")
	f.DurationVar(&perRunTO, "per_run_timeout", 0, "таймаут одного запуска; 0 - без ограничения")

	f.StringVar(&dRule, "rule", string(dispatch.RuleMWKR), "правило диспетчеризации: spt | lpt | mwkr | mor | fifo")

	f.IntVar(&saIterPerOp, "sa_iter_per_op", 100, "количество итераций на одну операцию (используется, если sa_iter == 0)")
	f.IntVar(&saIter, "sa_iter", 0, "общее количество итераций (0 => sa_iter_per_op × число операций)")
	f.Float64Var(&saT0, "sa_t0", 50.0, "начальная температура")
	f.Float64Var(&saTmin, "sa_tmin", 0.5, "конечная температура")
	f.Float64Var(&saAlpha, "sa_alpha", 0.999, "коэффициент охлаждения (alpha)")
	f.StringVar(&saNeigh, "sa_neigh", string(sa.NeighborhoodN1), "тип окрестности: n1 | n5")

	f.IntVar(&tsIterPerOp, "ts_iter_per_op", 20, "количество итераций на одну операцию (используется, если ts_iter == 0)")
	f.IntVar(&tsIter, "ts_iter", 0, "общее количество итераций (0 => ts_iter_per_op × число операций)")
	f.IntVar(&tsTenure, "ts_tenure", 8, "длина табу-списка (в итерациях)")
	f.IntVar(&tsTenureRand, "ts_tenure_rand", 4, "случайное добавление к сроку табу [0..rand]")
	f.IntVar(&tsNeighbors, "ts_neighbors", 64, "количество рассматриваемых соседей на итерацию")
	f.StringVar(&tsNeigh, "ts_neigh", string(ts.NeighborhoodN5), "тип окрестности: n1 | n5")

	f.DurationVar(&bBudget, "bnb_budget", 5*time.Second, "бюджет времени метода ветвей и границ")
	f.StringVar(&bWarm, "bnb_warm", string(bnb.WarmStartTS), "начальное решение: none | dispatch | sa | ts")
	f.IntVar(&bWorkers, "bnb_workers", 1, "число параллельных воркеров")
	f.IntVar(&bSplit, "bnb_split", 6, "глубина деления дерева между воркерами")

	return cmd
}

// Вспомогательные функции

func parsePairs(s string, baseInstanceSeed int64) ([]bench.Case, error) {
	parts := splitCSV(s)
	cases := make([]bench.Case, 0, len(parts))

	for i, p := range parts {
		jm := strings.Split(p, "x")
		if len(jm) != 2 {
			return nil, fmt.Errorf("пара %q невалидной схемы, пример: 10x5", p)
		}
		jobs, err := atoiStrict(jm[0])
		if err != nil {
			return nil, fmt.Errorf("пара %q: ошибка парсинга количества работ: %w", p, err)
		}
		machines, err := atoiStrict(jm[1])
		if err != nil {
			return nil, fmt.Errorf("пара %q: ошибка парсинга количества машин: %w", p, err)
		}
		if jobs <= 0 || machines <= 0 {
			return nil, fmt.Errorf("пара %q: количество работ и машин должно быть > 0", p)
		}

		seed := baseInstanceSeed + int64(i)*10_000 + int64(jobs)*100 + int64(machines)

		cases = append(cases, bench.Case{
			Jobs:         jobs,
			Machines:     machines,
			InstanceSeed: seed,
		})
	}

	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

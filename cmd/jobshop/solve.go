package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"jobShop/internal/bnb"
	"jobShop/internal/engine"
	"jobShop/internal/loader"
	"jobShop/internal/materialize"
	"jobShop/internal/opt"
)

func solveCmd() *cobra.Command {
	var (
		input     string
		routes    string
		format    string
		sample    string
		unit      string
		origin    string
		budget    time.Duration
		warmStart string
		workers   int
		out       string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Решить экземпляр задачи из файла или встроенного примера",
		Example: `  jobshop solve -i instance.yaml --budget 10s
  jobshop solve -i times.csv --routes routes.csv --unit minutes -o schedule.csv
  jobshop solve --sample ft06 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(slog.LevelWarn)

			var f loader.File
			switch {
			case sample != "":
				f, err = loader.Sample(sample)
			case input != "":
				f, err = loader.Load(input, routes, loader.Format(format))
			default:
				return fmt.Errorf("нужен --input или --sample")
			}
			if err != nil {
				return err
			}
			inst, err := f.Instance()
			if err != nil {
				return err
			}

			req := engine.Request{
				Unit:       cfg.Unit,
				TimeBudget: cfg.TimeBudget,
				WarmStart:  cfg.WarmStart,
				Workers:    cfg.Workers,
				Origin:     time.Now().Truncate(time.Hour),
			}
			if cmd.Flags().Changed("unit") {
				if req.Unit, err = materialize.ParseUnit(unit); err != nil {
					return err
				}
			}
			if origin != "" {
				if req.Origin, err = time.Parse(time.RFC3339, origin); err != nil {
					return fmt.Errorf("origin: %w", err)
				}
			}
			if cmd.Flags().Changed("budget") {
				req.TimeBudget = budget
			}
			if cmd.Flags().Changed("warm-start") {
				req.WarmStart = bnb.WarmStart(warmStart)
			}
			if cmd.Flags().Changed("workers") {
				req.Workers = workers
			}

			log.Debug("solving",
				"jobs", inst.Jobs(),
				"stages", inst.Stages(),
				"machines", inst.Machines(),
				"budget", req.TimeBudget,
				"warm_start", req.WarmStart,
				"workers", req.Workers,
			)

			ctx, cancel := signalContext()
			defer cancel()

			res, err := engine.SolveInstance(ctx, inst, req)
			if err != nil {
				return err
			}
			log.Info("solved",
				"run_id", res.RunID,
				"status", res.Status,
				"makespan", res.Objective,
				"nodes", res.Nodes,
			)

			if out != "" {
				if err := writeSchedule(out, res.Entries); err != nil {
					return fmt.Errorf("запись CSV: %w", err)
				}
			}
			if flagJSON {
				return printJSON(os.Stdout, res)
			}
			printSummary(os.Stdout, res)
			if out != "" {
				fmt.Println("Saved:", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "файл экземпляра (yaml, json или csv с временами)")
	cmd.Flags().StringVar(&routes, "routes", "", "CSV-файл маршрутов (для --format csv)")
	cmd.Flags().StringVar(&format, "format", "", "формат файла: yaml | json | csv (по умолчанию по расширению)")
	cmd.Flags().StringVar(&sample, "sample", "", "встроенный пример: template | ft06")
	cmd.Flags().StringVar(&unit, "unit", "hours", "единица времени: seconds | minutes | hours | days")
	cmd.Flags().StringVar(&origin, "origin", "", "начало расписания, RFC 3339 (по умолчанию текущий час)")
	cmd.Flags().DurationVar(&budget, "budget", engine.DefaultTimeBudget, "бюджет времени поиска")
	cmd.Flags().StringVar(&warmStart, "warm-start", string(bnb.WarmStartTS), "начальное решение: none | dispatch | sa | ts")
	cmd.Flags().IntVar(&workers, "workers", 1, "число параллельных воркеров поиска")
	cmd.Flags().StringVarP(&out, "out", "o", "", "путь к выходному CSV-файлу расписания")

	return cmd
}

func writeSchedule(path string, entries []materialize.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := materialize.WriteCSV(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type jsonResult struct {
	RunID             string              `json:"run_id"`
	Status            string              `json:"status"`
	Optimal           bool                `json:"optimal"`
	Objective         int                 `json:"objective"`
	SolverTimeMs      float64             `json:"solver_time_ms"`
	LowerBound        int                 `json:"lower_bound"`
	Nodes             int                 `json:"nodes"`
	WarmStartMakespan int                 `json:"warm_start_makespan,omitempty"`
	Entries           []materialize.Entry `json:"entries"`
}

func printJSON(w io.Writer, res engine.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResult{
		RunID:             res.RunID,
		Status:            string(res.Status),
		Optimal:           res.Status == opt.StatusOptimal,
		Objective:         res.Objective,
		SolverTimeMs:      float64(res.Elapsed.Microseconds()) / 1000.0,
		LowerBound:        res.LowerBound,
		Nodes:             res.Nodes,
		WarmStartMakespan: res.WarmStartMakespan,
		Entries:           res.Entries,
	})
}

// printSummary - лог решателя и таблица операций.
func printSummary(w io.Writer, res engine.Result) {
	fmt.Fprintf(w, "%s %s\n", Bold("Статус:"), statusText(res.Status))
	fmt.Fprintf(w, "%s %d %s\n", Bold("Длительность расписания:"), res.Objective, Dim(fmt.Sprintf("(нижняя оценка %d)", res.LowerBound)))
	fmt.Fprintf(w, "%s %s, узлов %d\n", Bold("Время решателя:"), res.Elapsed.Round(time.Millisecond), res.Nodes)
	if res.WarmStartMakespan > 0 {
		fmt.Fprintf(w, "%s %d\n", Bold("Начальное решение:"), res.WarmStartMakespan)
	}
	fmt.Fprintf(w, "%s %s\n\n", Dim("run"), Dim(res.RunID))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tSTAGE\tMACHINE\tSTART\tEND")
	for _, e := range res.Entries {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n",
			e.Job, e.Stage, Cyan(fmt.Sprint(e.Machine)),
			e.Start.Format(time.DateTime), e.End.Format(time.DateTime),
		)
	}
	tw.Flush()
}

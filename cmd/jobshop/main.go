package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jobShop/internal/config"
)

var (
	flagConfig  string
	flagVerbose bool
	flagJSON    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jobshop",
		Short: "Решение задачи Job Shop методом ветвей и границ",
		Long: `jobshop строит расписание минимальной длительности для задачи Job Shop:
каждое задание проходит свои стадии в заданном порядке, каждый станок
одновременно выполняет не более одной операции. Поиск ограничен по времени
и сообщает, доказана ли оптимальность.`,
		SilenceUsage: true,
	}

	// Глобальные флаги
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "путь к YAML-файлу конфигурации")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "подробный лог в stderr")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "вывод в формате JSON")

	rootCmd.AddCommand(solveCmd())
	rootCmd.AddCommand(benchCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(templateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger пишет в stderr; --verbose опускает уровень до debug.
func newLogger(level slog.Level) *slog.Logger {
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	return config.Load(flagConfig)
}

// signalContext отменяется по SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

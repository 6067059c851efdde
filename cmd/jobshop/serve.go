package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"jobShop/internal/server"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP-сервис решения",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			// Сервис логирует каждый запрос
			log := newLogger(slog.LevelInfo)

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           server.New(cfg, log),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, cancel := signalContext()
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", "addr", cfg.Addr, "time_budget", cfg.TimeBudget, "warm_start", cfg.WarmStart)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.TimeBudget+5*time.Second)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "адрес HTTP-сервиса")
	return cmd
}

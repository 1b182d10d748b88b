package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ferro-labs/ferrohooks"
	"github.com/ferro-labs/ferrohooks/internal/inspect"
	"github.com/ferro-labs/ferrohooks/internal/logging"
	"github.com/ferro-labs/ferrohooks/internal/runlog"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		token      string
		runlogPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host a registry built from a manifest and expose the inspect API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ferrohooks.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := ferrohooks.ValidateConfig(*cfg); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			reg := ferrohooks.New(map[string]any{
				"started_at": time.Now().UTC(),
			})
			reg.SetObserver(ferrohooks.MultiObserver{
				ferrohooks.LogObserver{},
				ferrohooks.MetricsObserver{},
			})
			if err := reg.LoadHooks(*cfg); err != nil {
				return fmt.Errorf("loading hooks: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := reg.Setup(ctx); err != nil {
				return fmt.Errorf("registry setup: %w", err)
			}

			handlers := &inspect.Handlers{Registry: reg}
			if runlogPath != "" {
				store, err := runlog.NewSQLiteStore(runlogPath)
				if err != nil {
					return fmt.Errorf("opening run log: %w", err)
				}
				defer func() { _ = store.Close() }()
				handlers.Logs = store
			}

			r := chi.NewRouter()
			r.Use(middleware.Recoverer)
			r.Use(logging.Middleware)
			r.Route("/api", func(r chi.Router) {
				r.Use(inspect.RequireToken(token))
				r.Mount("/", handlers.Routes())
			})
			r.Handle("/metrics", promhttp.Handler())

			srv := &http.Server{
				Addr:              addr,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logging.Logger.Info("inspect API listening", "addr", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logging.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logging.Logger.Error("server shutdown", "error", err.Error())
			}
			if err := reg.Teardown(shutdownCtx); err != nil {
				return fmt.Errorf("registry teardown: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the hook manifest (required)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&token, "token", "", "bearer token guarding /api (empty disables auth)")
	cmd.Flags().StringVar(&runlogPath, "runlog", "", "SQLite run-log path served at /api/runs")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fund_loader/internal/api"
	"fund_loader/internal/config"
	"fund_loader/internal/processor"
	"fund_loader/internal/repository/memory"
	"fund_loader/pkg/metrics"
	"fund_loader/pkg/validator"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Evaluate fund loads over HTTP",
		Long: `Start an HTTP server that evaluates one load per POST /api/v1/loads request.
History lives in memory for the lifetime of the process. Metrics are served at /metrics.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default().With(slog.String("run_id", uuid.NewString()))

	limits, err := config.Load(limitsConfig)
	if err != nil {
		return fmt.Errorf("failed to load limits: %w", err)
	}

	collector := metrics.NewMetricsCollector(logger)
	engine := processor.NewRuleEngine(processor.DefaultStrategies(limits), logger)
	proc := processor.NewLoadProcessor(engine, memory.NewHistoryRepository(), processor.NewPrimeDates(), collector, logger)
	handler := api.NewAPIHandler(proc, validator.NewRecordValidator(), logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", collector.GetHandler())

	server := &http.Server{
		Addr:         viper.GetString("serve.addr"),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			slog.String("addr", server.Addr),
			slog.Any("rules", engine.Rules()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	logger.Info("Application shutdown complete")
	return nil
}

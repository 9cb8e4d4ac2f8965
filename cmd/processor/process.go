package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"fund_loader/internal/config"
	"fund_loader/internal/domain"
	"fund_loader/internal/ingest"
	"fund_loader/internal/processor"
	"fund_loader/internal/repository/memory"
	"fund_loader/pkg/metrics"
	"fund_loader/pkg/validator"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Evaluate a file of fund load attempts",
		Long: `Evaluate fund load attempts read from --input (one JSON object per line)
and write one decision per line to --output. Use "-" for stdin/stdout.`,
		RunE: runProcess,
	}

	cmd.Flags().StringP("input", "i", "input.txt", "input file of load attempts, - for stdin")
	cmd.Flags().StringP("output", "o", "output.txt", "output file for decisions, - for stdout")
	cmd.Flags().String("metrics-addr", "", "serve prometheus metrics on this address while processing")

	_ = viper.BindPFlag("process.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("process.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("process.metrics_addr", cmd.Flags().Lookup("metrics-addr"))

	return cmd
}

func runProcess(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default().With(slog.String("run_id", uuid.NewString()))

	limits, err := config.Load(limitsConfig)
	if err != nil {
		return fmt.Errorf("failed to load limits: %w", err)
	}

	in, closeIn, err := openInput(viper.GetString("process.input"), cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(viper.GetString("process.output"), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	collector := metrics.NewMetricsCollector(logger)
	if addr := viper.GetString("process.metrics_addr"); addr != "" {
		server := collector.StartMetricsServer(addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
			}
		}()
	}

	stats, err := runBatch(ctx, in, out, limits, collector, logger)
	if cerr := closeOut(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close output: %w", cerr)
	}
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Processing complete",
		slog.Int("processed", stats.processed),
		slog.Int("accepted", stats.accepted),
		slog.Int("skipped", stats.skipped),
		slog.String("output", viper.GetString("process.output")))
	return nil
}

type batchStats struct {
	processed int
	accepted  int
	skipped   int
}

// runBatch streams attempts through a fresh processor. Every run starts with
// empty history and an empty prime-date set.
func runBatch(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	limits domain.Limits,
	collector *metrics.MetricsCollector,
	logger *slog.Logger,
) (batchStats, error) {
	var stats batchStats

	engine := processor.NewRuleEngine(processor.DefaultStrategies(limits), logger)
	proc := processor.NewLoadProcessor(engine, memory.NewHistoryRepository(), processor.NewPrimeDates(), collector, logger)
	reader := ingest.NewReader(in, validator.NewRecordValidator(), collector, logger)
	writer := ingest.NewWriter(out)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		attempt, err := reader.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}

		decision := proc.Process(ctx, attempt)
		if err := writer.Write(decision); err != nil {
			return stats, err
		}

		stats.processed++
		if decision.Accepted {
			stats.accepted++
		}
	}

	stats.skipped = reader.Skipped()
	return stats, writer.Flush()
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "-" {
		return stdout, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, f.Close, nil
}

package processor

import (
	"context"
	"log/slog"
	"time"

	"fund_loader/internal/domain"
	"fund_loader/internal/repository"
)

// MetricsRecorder receives one observation per processed load.
type MetricsRecorder interface {
	RecordDecision(duration time.Duration, accepted bool, rejectedBy string)
	SetCustomersTracked(n int)
}

type noopRecorder struct{}

func (noopRecorder) RecordDecision(time.Duration, bool, string) {}
func (noopRecorder) SetCustomersTracked(int) {}

// LoadProcessor is not safe for concurrent use. Loads must be processed one
// at a time in input order, since later decisions depend on earlier ones.
type LoadProcessor struct {
	engine      *RuleEngine
	historyRepo repository.HistoryRepository
	primeDates  *PrimeDates
	metrics     MetricsRecorder
	logger      *slog.Logger
}

func NewLoadProcessor(
	engine *RuleEngine,
	historyRepo repository.HistoryRepository,
	primeDates *PrimeDates,
	metrics MetricsRecorder,
	logger *slog.Logger,
) *LoadProcessor {
	if primeDates == nil {
		primeDates = NewPrimeDates()
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LoadProcessor{
		engine:      engine,
		historyRepo: historyRepo,
		primeDates:  primeDates,
		metrics:     metrics,
		logger:      logger,
	}
}

func (p *LoadProcessor) Process(ctx context.Context, attempt domain.Attempt) domain.Decision {
	startTime := time.Now()

	ec := NewEvaluationContext(attempt, p.historyRepo.HistoryFor(ctx, attempt.CustomerID), p.primeDates)
	verdict := p.engine.Evaluate(ctx, attempt, ec)

	if verdict.Accepted {
		p.historyRepo.Save(ctx, attempt, ec.EffectiveAmount)
		p.metrics.SetCustomersTracked(p.historyRepo.Customers(ctx))
	}

	p.metrics.RecordDecision(time.Since(startTime), verdict.Accepted, verdict.RejectedBy)
	p.logger.DebugContext(ctx, "Load processed",
		slog.String("load_id", attempt.ID),
		slog.String("customer_id", attempt.CustomerID),
		slog.Bool("accepted", verdict.Accepted))

	return domain.NewDecision(attempt, verdict.Accepted)
}

func (p *LoadProcessor) History(ctx context.Context, customerID string) domain.History {
	return p.historyRepo.HistoryFor(ctx, customerID)
}

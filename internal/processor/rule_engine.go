package processor

import (
	"context"
	"log/slog"

	"fund_loader/internal/domain"
)

type RuleEngine struct {
	strategies []Strategy
	logger     *slog.Logger
}

type Verdict struct {
	Accepted   bool
	RejectedBy string
}

func NewRuleEngine(strategies []Strategy, logger *slog.Logger) *RuleEngine {
	if logger == nil {
		logger = slog.Default()
	}

	return &RuleEngine{
		strategies: strategies,
		logger:     logger,
	}
}

// Evaluate runs the strategies in order and stops at the first rejection.
// An empty chain accepts.
func (e *RuleEngine) Evaluate(ctx context.Context, attempt domain.Attempt, ec *EvaluationContext) Verdict {
	for _, strategy := range e.strategies {
		if strategy.Allow(attempt, ec) {
			continue
		}

		e.logger.DebugContext(ctx, "Load rejected by rule",
			slog.String("rule", strategy.Name()),
			slog.String("load_id", attempt.ID),
			slog.String("customer_id", attempt.CustomerID),
			slog.String("effective_amount", ec.EffectiveAmount.StringFixed(2)))
		return Verdict{RejectedBy: strategy.Name()}
	}

	return Verdict{Accepted: true}
}

func (e *RuleEngine) Rules() []string {
	names := make([]string, 0, len(e.strategies))
	for _, s := range e.strategies {
		names = append(names, s.Name())
	}
	return names
}

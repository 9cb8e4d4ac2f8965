package repository

import (
	"context"

	"fund_loader/internal/domain"

	"github.com/shopspring/decimal"
)

// HistoryRepository is the append-only ledger of accepted loads.
// Neither operation fails; unknown customers have an empty history.
type HistoryRepository interface {
	HistoryFor(ctx context.Context, customerID string) domain.History
	Save(ctx context.Context, attempt domain.Attempt, effectiveAmount decimal.Decimal)
	Customers(ctx context.Context) int
}

package memory

import (
	"context"
	"slices"
	"sync"

	"fund_loader/internal/domain"

	"github.com/shopspring/decimal"
)

type HistoryRepository struct {
	mu      sync.RWMutex
	history map[string]domain.History
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{
		history: make(map[string]domain.History),
	}
}

// HistoryFor returns a copy of the customer's entries, so later saves are
// not visible to an evaluation already in flight.
func (r *HistoryRepository) HistoryFor(ctx context.Context, customerID string) domain.History {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, exists := r.history[customerID]
	if !exists {
		return domain.History{}
	}
	return slices.Clone(entries)
}

func (r *HistoryRepository) Save(ctx context.Context, attempt domain.Attempt, effectiveAmount decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history[attempt.CustomerID] = append(r.history[attempt.CustomerID], domain.HistoryEntry{
		ID:              attempt.ID,
		Date:            attempt.Date(),
		EffectiveAmount: effectiveAmount,
	})
}

func (r *HistoryRepository) Customers(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.history)
}

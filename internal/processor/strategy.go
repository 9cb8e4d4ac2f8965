package processor

import (
	"time"

	"fund_loader/internal/domain"

	"github.com/shopspring/decimal"
)

// Strategy is a single acceptance rule. Allow may mutate ec; a false result
// stops the chain.
type Strategy interface {
	Name() string
	Allow(attempt domain.Attempt, ec *EvaluationContext) bool
}

// EvaluationContext is the mutable state shared by the strategies while one
// attempt is evaluated.
type EvaluationContext struct {
	Date            time.Time
	Amount          decimal.Decimal
	EffectiveAmount decimal.Decimal
	History         domain.History
	Week            domain.WeekRange
	PrimeDates      *PrimeDates
}

func NewEvaluationContext(attempt domain.Attempt, history domain.History, primeDates *PrimeDates) *EvaluationContext {
	date := attempt.Date()
	return &EvaluationContext{
		Date:            date,
		Amount:          attempt.Amount,
		EffectiveAmount: attempt.Amount,
		History:         history,
		Week:            domain.WeekOf(date),
		PrimeDates:      primeDates,
	}
}

// PrimeDates records the days on which a prime-id load was already accepted.
// It lives for the whole run and is shared by every customer.
type PrimeDates struct {
	dates map[time.Time]struct{}
}

func NewPrimeDates() *PrimeDates {
	return &PrimeDates{dates: make(map[time.Time]struct{})}
}

func (p *PrimeDates) Has(date time.Time) bool {
	_, ok := p.dates[domain.DateOf(date)]
	return ok
}

func (p *PrimeDates) Mark(date time.Time) {
	p.dates[domain.DateOf(date)] = struct{}{}
}

func (p *PrimeDates) Len() int {
	return len(p.dates)
}

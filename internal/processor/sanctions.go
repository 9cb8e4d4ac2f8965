package processor

import (
	"time"

	"fund_loader/internal/domain"

	"github.com/shopspring/decimal"
)

// PrimeIDSanction allows at most one prime-id load per calendar day across
// all customers, and only up to maxAmount of the requested amount.
type PrimeIDSanction struct {
	maxAmount decimal.Decimal
	isPrime   func(int64) bool
}

func NewPrimeIDSanction(maxAmount decimal.Decimal) *PrimeIDSanction {
	return &PrimeIDSanction{
		maxAmount: maxAmount,
		isPrime:   IsPrime,
	}
}

func (s *PrimeIDSanction) Name() string { return RulePrimeID }

func (s *PrimeIDSanction) Allow(attempt domain.Attempt, ec *EvaluationContext) bool {
	id, ok := LeadingInt(attempt.ID)
	if !ok || !s.isPrime(id) {
		return true
	}

	if ec.PrimeDates.Has(ec.Date) {
		return false
	}
	if ec.Amount.GreaterThan(s.maxAmount) {
		return false
	}

	// Marked before the rest of the chain runs; a later rejection does not undo it.
	ec.PrimeDates.Mark(ec.Date)
	return true
}

// MondayMultiplierSanction counts Monday loads at amount*multiplier and
// re-runs the daily and weekly amount checks against that effective amount.
type MondayMultiplierSanction struct {
	multiplier decimal.Decimal
	daily      Strategy
	weekly     Strategy
}

func NewMondayMultiplierSanction(multiplier, dailyLimit, weeklyLimit decimal.Decimal) *MondayMultiplierSanction {
	return &MondayMultiplierSanction{
		multiplier: multiplier,
		daily:      NewDailyAmountLimit(dailyLimit),
		weekly:     NewWeeklyAmountLimit(weeklyLimit),
	}
}

func (s *MondayMultiplierSanction) Name() string { return RuleMondayMultiplier }

func (s *MondayMultiplierSanction) Allow(attempt domain.Attempt, ec *EvaluationContext) bool {
	if attempt.Date().Weekday() == time.Monday {
		ec.EffectiveAmount = attempt.Amount.Mul(s.multiplier)
	} else {
		ec.EffectiveAmount = attempt.Amount
	}

	if !s.daily.Allow(attempt, ec) {
		return false
	}
	return s.weekly.Allow(attempt, ec)
}

// DefaultStrategies returns the rule chain in the order the fund load
// pipeline has always applied it.
func DefaultStrategies(limits domain.Limits) []Strategy {
	return []Strategy{
		NewDailyAmountLimit(limits.DailyLimit),
		NewWeeklyAmountLimit(limits.WeeklyLimit),
		NewDailyCountLimit(limits.DailyLoadCountLimit),
		NewPrimeIDSanction(limits.PrimeMaxAmount),
		NewMondayMultiplierSanction(limits.MondayMultiplier, limits.DailyLimit, limits.WeeklyLimit),
	}
}

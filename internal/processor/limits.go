package processor

import (
	"fund_loader/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	RuleDailyAmount      = "daily_amount_limit"
	RuleWeeklyAmount     = "weekly_amount_limit"
	RuleDailyCount       = "daily_count_limit"
	RulePrimeID          = "prime_id_sanction"
	RuleMondayMultiplier = "monday_multiplier_sanction"
)

type DailyAmountLimit struct {
	limit decimal.Decimal
}

func NewDailyAmountLimit(limit decimal.Decimal) *DailyAmountLimit {
	return &DailyAmountLimit{limit: limit}
}

func (s *DailyAmountLimit) Name() string { return RuleDailyAmount }

func (s *DailyAmountLimit) Allow(attempt domain.Attempt, ec *EvaluationContext) bool {
	total := ec.History.SumOn(attempt.Date()).Add(ec.EffectiveAmount)
	return total.LessThanOrEqual(s.limit)
}

type WeeklyAmountLimit struct {
	limit decimal.Decimal
}

func NewWeeklyAmountLimit(limit decimal.Decimal) *WeeklyAmountLimit {
	return &WeeklyAmountLimit{limit: limit}
}

func (s *WeeklyAmountLimit) Name() string { return RuleWeeklyAmount }

func (s *WeeklyAmountLimit) Allow(_ domain.Attempt, ec *EvaluationContext) bool {
	total := ec.History.SumWithin(ec.Week).Add(ec.EffectiveAmount)
	return total.LessThanOrEqual(s.limit)
}

// DailyCountLimit caps the number of accepted loads per customer per day.
// The current attempt is not part of the history, so it passes while the
// prior count is strictly below the limit.
type DailyCountLimit struct {
	limit int
}

func NewDailyCountLimit(limit int) *DailyCountLimit {
	return &DailyCountLimit{limit: limit}
}

func (s *DailyCountLimit) Name() string { return RuleDailyCount }

func (s *DailyCountLimit) Allow(attempt domain.Attempt, ec *EvaluationContext) bool {
	return ec.History.CountOn(attempt.Date()) < s.limit
}

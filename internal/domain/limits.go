package domain

import "github.com/shopspring/decimal"

type Limits struct {
	DailyLimit          decimal.Decimal `json:"daily_limit"`
	WeeklyLimit         decimal.Decimal `json:"weekly_limit"`
	DailyLoadCountLimit int             `json:"daily_load_count_limit"`
	MondayMultiplier    decimal.Decimal `json:"monday_multiplier"`
	PrimeMaxAmount      decimal.Decimal `json:"prime_max_amount"`
}

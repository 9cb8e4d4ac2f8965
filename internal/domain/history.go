package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// History is a customer's accepted loads in insertion order.
type History []HistoryEntry

// CountOn counts the entries dated on date.
func (h History) CountOn(date time.Time) int {
	var n int
	for _, e := range h {
		if e.Date.Equal(date) {
			n++
		}
	}
	return n
}

// SumOn totals the effective amounts of entries dated on date.
func (h History) SumOn(date time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range h {
		if e.Date.Equal(date) {
			total = total.Add(e.EffectiveAmount)
		}
	}
	return total
}

// SumWithin totals the effective amounts of entries inside week.
func (h History) SumWithin(week WeekRange) decimal.Decimal {
	total := decimal.Zero
	for _, e := range h {
		if week.Contains(e.Date) {
			total = total.Add(e.EffectiveAmount)
		}
	}
	return total
}

// WeekRange is a Sunday..Saturday interval, inclusive at both ends.
type WeekRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WeekOf returns the Sunday..Saturday week containing the UTC day of date.
func WeekOf(date time.Time) WeekRange {
	day := DateOf(date)
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return WeekRange{
		Start: start,
		End:   start.AddDate(0, 0, 6),
	}
}

// Contains reports whether date falls in the week, both ends included.
func (w WeekRange) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

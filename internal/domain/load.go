package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Attempt struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Date is the UTC calendar day of the attempt, as midnight UTC.
func (a Attempt) Date() time.Time {
	return DateOf(a.Timestamp)
}

type HistoryEntry struct {
	ID              string          `json:"id"`
	Date            time.Time       `json:"date"`
	EffectiveAmount decimal.Decimal `json:"effective_amount"`
}

type Decision struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Accepted   bool   `json:"accepted"`
}

func NewDecision(a Attempt, accepted bool) Decision {
	return Decision{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Accepted:   accepted,
	}
}

// DateOf truncates t to midnight of its UTC calendar day.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

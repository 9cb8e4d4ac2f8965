package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fund_loader/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingID         = errors.New("missing load id")
	ErrMissingCustomerID = errors.New("missing customer id")
	ErrInvalidAmount     = errors.New("invalid load amount")
	ErrNegativeAmount    = errors.New("negative load amount")
	ErrInvalidTime       = errors.New("invalid load time")
)

type RecordValidator struct {
	currencySymbol string
}

func NewRecordValidator() *RecordValidator {
	return &RecordValidator{currencySymbol: "$"}
}

// ValidateRecord checks the wire record and converts it into an Attempt.
// All problems found are reported together.
func (v *RecordValidator) ValidateRecord(rec domain.LoadRecord) (domain.Attempt, error) {
	var errs []error

	if strings.TrimSpace(rec.ID) == "" {
		errs = append(errs, ErrMissingID)
	}
	if strings.TrimSpace(rec.CustomerID) == "" {
		errs = append(errs, ErrMissingCustomerID)
	}

	amount, err := v.ParseAmount(rec.LoadAmount)
	if err != nil {
		errs = append(errs, err)
	}

	timestamp, err := time.Parse(time.RFC3339, strings.TrimSpace(rec.Time))
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidTime, rec.Time))
	}

	if len(errs) > 0 {
		return domain.Attempt{}, fmt.Errorf("validation errors: %w", errors.Join(errs...))
	}

	return domain.Attempt{
		ID:         rec.ID,
		CustomerID: rec.CustomerID,
		Amount:     amount,
		Timestamp:  timestamp.UTC(),
	}, nil
}

// ParseAmount parses a currency string such as "$1,000.00".
func (v *RecordValidator) ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, v.currencySymbol)
	s = strings.ReplaceAll(s, ",", "")

	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNegativeAmount, raw)
	}

	return amount, nil
}

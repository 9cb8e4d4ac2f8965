// Package config loads the fund load limits from a YAML file and
// FUNDLOAD_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fund_loader/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const EnvPrefix = "FUNDLOAD"

const (
	KeyDailyLimit          = "fund_load_limits.daily_limit"
	KeyWeeklyLimit         = "fund_load_limits.weekly_limit"
	KeyDailyLoadCountLimit = "fund_load_limits.daily_load_count_limit"
	KeyMondayMultiplier    = "special_sanctions.monday_multiplier"
	KeyPrimeMaxAmount      = "special_sanctions.prime_id.max_amount"
)

var (
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// New returns a viper instance wired for env overrides, reading path when it is not empty.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	BindEnv(v)

	if path == "" {
		return v, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return v, nil
}

func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads every limit. All keys are required; there are no defaults.
func Load(v *viper.Viper) (domain.Limits, error) {
	var (
		limits domain.Limits
		errs   []error
	)

	limits.DailyLimit = decimalKey(v, KeyDailyLimit, &errs)
	limits.WeeklyLimit = decimalKey(v, KeyWeeklyLimit, &errs)
	limits.MondayMultiplier = decimalKey(v, KeyMondayMultiplier, &errs)
	limits.PrimeMaxAmount = decimalKey(v, KeyPrimeMaxAmount, &errs)
	limits.DailyLoadCountLimit = intKey(v, KeyDailyLoadCountLimit, &errs)

	if len(errs) > 0 {
		return domain.Limits{}, errors.Join(errs...)
	}
	return limits, nil
}

func decimalKey(v *viper.Viper, key string, errs *[]error) decimal.Decimal {
	raw, ok := lookup(v, key, errs)
	if !ok {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(strings.TrimPrefix(raw, "$"))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q is not a decimal", ErrInvalidConfig, key, raw))
		return decimal.Zero
	}
	if d.IsNegative() {
		*errs = append(*errs, fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, key))
		return decimal.Zero
	}
	return d
}

func intKey(v *viper.Viper, key string, errs *[]error) int {
	raw, ok := lookup(v, key, errs)
	if !ok {
		return 0
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, raw))
		return 0
	}
	if n < 0 {
		*errs = append(*errs, fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, key))
		return 0
	}
	return n
}

func lookup(v *viper.Viper, key string, errs *[]error) (string, bool) {
	if !v.IsSet(key) {
		*errs = append(*errs, fmt.Errorf("%w: %s", ErrMissingConfig, key))
		return "", false
	}
	return strings.TrimSpace(v.GetString(key)), true
}

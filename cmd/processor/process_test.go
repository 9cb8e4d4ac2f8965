package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fund_loader/internal/config"
	"fund_loader/internal/domain"
	"fund_loader/pkg/metrics"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLimits() domain.Limits {
	return domain.Limits{
		DailyLimit:          decimal.NewFromInt(5000),
		WeeklyLimit:         decimal.NewFromInt(20000),
		DailyLoadCountLimit: 3,
		MondayMultiplier:    decimal.NewFromInt(2),
		PrimeMaxAmount:      decimal.NewFromInt(9999),
	}
}

func TestRunBatch_EndToEnd(t *testing.T) {
	input := strings.Join([]string{
		`{"id":"123","customer_id":"999","load_amount":"$1000.00","time":"2025-05-26T12:00:00Z"}`,
		`not json`,
		`{"id":"17","customer_id":"555","load_amount":"$4000.00","time":"2025-05-27T09:00:00Z"}`,
		`{"id":"19","customer_id":"556","load_amount":"$1000.00","time":"2025-05-27T10:00:00Z"}`,
		`{"id":"a1","customer_id":"777","load_amount":"$2000.00","time":"2025-05-26T09:00:00Z"}`,
		`{"id":"a2","customer_id":"777","load_amount":"$600.00","time":"2025-05-26T10:00:00Z"}`,
		`{"id":"a3","customer_id":"777","load_amount":"$0.00","time":"2025-05-26T11:00:00Z"}`,
	}, "\n")
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	stats, err := runBatch(context.Background(), strings.NewReader(input), &out, sampleLimits(), metrics.NewMetricsCollector(logger), logger)

	require.NoError(t, err)
	assert.Equal(t, batchStats{processed: 6, accepted: 4, skipped: 1}, stats)
	assert.Equal(t, strings.Join([]string{
		`{"id":"123","customer_id":"999","accepted":true}`,
		`{"id":"17","customer_id":"555","accepted":true}`,
		`{"id":"19","customer_id":"556","accepted":false}`,
		`{"id":"a1","customer_id":"777","accepted":true}`,
		`{"id":"a2","customer_id":"777","accepted":false}`,
		`{"id":"a3","customer_id":"777","accepted":true}`,
	}, "\n")+"\n", out.String())
}

func TestRunBatch_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer

	_, err := runBatch(ctx, strings.NewReader(`{"id":"1","customer_id":"1","load_amount":"$1","time":"2025-05-26T12:00:00Z"}`), &out, sampleLimits(), metrics.NewMetricsCollector(nil), slog.Default())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestSetupLogging(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	assert.NoError(t, setupLogging("debug", "console"))
	assert.NoError(t, setupLogging("info", "json"))
	assert.Error(t, setupLogging("loud", "json"))
	assert.Error(t, setupLogging("info", "xml"))
}

func TestInitConfig_ReadsLimitsFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	path := filepath.Join(t.TempDir(), "config.yml")
	body := `
fund_load_limits:
  daily_limit: 5000.00
  weekly_limit: 20000.00
  daily_load_count_limit: 3
special_sanctions:
  monday_multiplier: 2
  prime_id:
    max_amount: 9999.00
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("FUNDLOAD_SPECIAL_SANCTIONS_MONDAY_MULTIPLIER", "3")

	prevFile, prevLimits := cfgFile, limitsConfig
	t.Cleanup(func() { cfgFile, limitsConfig = prevFile, prevLimits })
	cfgFile = path

	require.NoError(t, initConfig(rootCmd, nil))
	limits, err := config.Load(limitsConfig)

	require.NoError(t, err)
	assert.Equal(t, 3, limits.DailyLoadCountLimit)
	assert.True(t, limits.WeeklyLimit.Equal(decimal.NewFromInt(20000)))
	assert.True(t, limits.MondayMultiplier.Equal(decimal.NewFromInt(3)))
}

func TestInitConfig_MissingDefaultFileLeavesLimitsUnset(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	prevFile, prevLimits := cfgFile, limitsConfig
	t.Cleanup(func() { cfgFile, limitsConfig = prevFile, prevLimits })
	cfgFile = filepath.Join(t.TempDir(), "absent.yml")

	require.NoError(t, initConfig(rootCmd, nil))
	_, err := config.Load(limitsConfig)

	assert.ErrorIs(t, err, config.ErrMissingConfig)
}

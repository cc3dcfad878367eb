package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	m := NewRunConfigManager()

	cfg, err := m.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", cfg.Symbol)
	assert.Equal(t, "1d", cfg.Interval)
	assert.Equal(t, "binance", cfg.Exchange)
	assert.Equal(t, 100.0, cfg.MonthlyAmount)
	assert.Equal(t, 1, cfg.DayOfMonth)
	assert.InDelta(t, -0.05, cfg.DipThreshold, 1e-9)
	require.NoError(t, m.ValidateConfig(cfg))
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	body := `{
		"symbol": "ETHUSDT",
		"exchange": "bybit",
		"monthly_amount": 250,
		"day_of_month": 15,
		"dip_threshold": -0.08,
		"target_month": 10,
		"start_date": "2022-01-01",
		"end_date": "2024-01-01"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	m := NewRunConfigManager()
	cfg, err := m.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ETHUSDT", cfg.Symbol)
	assert.Equal(t, "bybit", cfg.Exchange)
	assert.Equal(t, 250.0, cfg.MonthlyAmount)
	assert.Equal(t, 15, cfg.DayOfMonth)
	assert.Equal(t, 10, cfg.TargetMonth)
	// File values merge over defaults, untouched fields keep defaults
	assert.Equal(t, "1d", cfg.Interval)
	require.NoError(t, m.ValidateConfig(cfg))

	start, end, err := cfg.ParseDateRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestParseDateRangeAcceptsDatetimes(t *testing.T) {
	cfg := NewDefaultRunConfig()
	cfg.StartDate = "2022-01-01 12:00:00"
	cfg.EndDate = "2022-06-01"

	start, end, err := cfg.ParseDateRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestLoadConfigMissingFile(t *testing.T) {
	m := NewRunConfigManager()
	_, err := m.LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	m := NewRunConfigManager()

	cases := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{"empty symbol", func(c *RunConfig) { c.Symbol = " " }},
		{"unknown exchange", func(c *RunConfig) { c.Exchange = "kraken" }},
		{"negative min purchase", func(c *RunConfig) { c.MinPurchase = -5 }},
		{"zero monthly amount", func(c *RunConfig) { c.MonthlyAmount = 0 }},
		{"day of month too high", func(c *RunConfig) { c.DayOfMonth = 32 }},
		{"positive dip threshold", func(c *RunConfig) { c.DipThreshold = 0.05 }},
		{"month out of range", func(c *RunConfig) { c.TargetMonth = 13 }},
		{"end before start", func(c *RunConfig) { c.StartDate = "2024-01-01"; c.EndDate = "2023-01-01" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultRunConfig()
			tc.mutate(cfg)
			assert.Error(t, m.ValidateConfig(cfg))
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DCA_LAB_SYMBOL", "SOLUSDT")
	t.Setenv("DCA_LAB_MONTHLY_AMOUNT", "500")
	t.Setenv("DCA_LAB_DAY_OF_MONTH", "28")

	cfg := NewDefaultRunConfig()
	assert.Equal(t, "SOLUSDT", cfg.Symbol)
	assert.Equal(t, 500.0, cfg.MonthlyAmount)
	assert.Equal(t, 28, cfg.DayOfMonth)
}

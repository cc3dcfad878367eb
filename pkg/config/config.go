package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/data"
)

// Package config provides run configuration for the fetch and backtest tools

// RunConfig holds every knob a simulation or fetch run can take. Flags
// override file values, which override environment values, which
// override the built-in defaults.
type RunConfig struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Exchange string `json:"exchange"`

	// DataRoot is the directory candle files live under, laid out as
	// <root>/<exchange>/<SYMBOL>/<interval>/candles.csv
	DataRoot  string `json:"data_root"`
	OutputDir string `json:"output_dir,omitempty"`

	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	MonthlyAmount float64 `json:"monthly_amount"`
	DayOfMonth    int     `json:"day_of_month"`
	DailySavings  float64 `json:"daily_savings"`
	DipThreshold  float64 `json:"dip_threshold"`
	MinPurchase   float64 `json:"min_purchase,omitempty"`
	TargetMonth   int     `json:"target_month"`

	MetricsPort int `json:"metrics_port,omitempty"`
}

// NewDefaultRunConfig returns a config populated from environment
// variables with sensible fallbacks.
func NewDefaultRunConfig() *RunConfig {
	return &RunConfig{
		Symbol:        getEnv("DCA_LAB_SYMBOL", "BTCUSDT"),
		Interval:      getEnv("DCA_LAB_INTERVAL", "1d"),
		Exchange:      getEnv("DCA_LAB_EXCHANGE", "binance"),
		DataRoot:      getEnv("DCA_LAB_DATA_ROOT", "data"),
		MonthlyAmount: getEnvFloat("DCA_LAB_MONTHLY_AMOUNT", 100.0),
		DayOfMonth:    getEnvInt("DCA_LAB_DAY_OF_MONTH", 1),
		DailySavings:  getEnvFloat("DCA_LAB_DAILY_SAVINGS", 100.0/30),
		DipThreshold:  getEnvFloat("DCA_LAB_DIP_THRESHOLD", -0.05),
		MinPurchase:   getEnvFloat("DCA_LAB_MIN_PURCHASE", 0),
		TargetMonth:   getEnvInt("DCA_LAB_TARGET_MONTH", int(time.January)),
		MetricsPort:   getEnvInt("PROMETHEUS_PORT", 0),
	}
}

// RunConfigManager loads and validates run configurations
type RunConfigManager struct {
	validator *RunValidator
}

// NewRunConfigManager creates a new run configuration manager
func NewRunConfigManager() *RunConfigManager {
	return &RunConfigManager{validator: NewRunValidator()}
}

// LoadConfig builds a config from defaults, then merges the JSON file
// when one is given. Callers apply flag overrides afterwards and call
// ValidateConfig last.
func (m *RunConfigManager) LoadConfig(configFile string) (*RunConfig, error) {
	cfg := NewDefaultRunConfig()

	if configFile != "" {
		if err := m.loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	return cfg, nil
}

// ValidateConfig validates a run configuration
func (m *RunConfigManager) ValidateConfig(cfg *RunConfig) error {
	return m.validator.Validate(cfg)
}

// loadFromFile merges values from a JSON file into cfg
func (m *RunConfigManager) loadFromFile(configFile string, cfg *RunConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("could not parse config file %s: %w", configFile, err)
	}
	return nil
}

// ParseDateRange parses the optional start/end dates. Zero times mean
// unbounded in that direction.
func (c *RunConfig) ParseDateRange() (start, end time.Time, err error) {
	if c.StartDate != "" {
		start, err = data.ParseDate(c.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if c.EndDate != "" {
		end, err = data.ParseDate(c.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", c.EndDate, c.StartDate)
	}
	return start, end, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

package config

import (
	"fmt"
	"strings"
	"time"
)

// RunValidator implements validation for run configurations
type RunValidator struct{}

// NewRunValidator creates a new run validator
func NewRunValidator() *RunValidator {
	return &RunValidator{}
}

// Validate performs validation on run configuration parameters
func (v *RunValidator) Validate(cfg *RunConfig) error {
	if strings.TrimSpace(cfg.Symbol) == "" {
		return fmt.Errorf("symbol must not be empty")
	}

	if strings.TrimSpace(cfg.Interval) == "" {
		return fmt.Errorf("interval must not be empty")
	}

	switch strings.ToLower(cfg.Exchange) {
	case "binance", "bybit":
	default:
		return fmt.Errorf("unsupported exchange %q, expected binance or bybit", cfg.Exchange)
	}

	if cfg.MonthlyAmount <= 0 {
		return fmt.Errorf("monthly amount must be positive, got: %.2f", cfg.MonthlyAmount)
	}

	if cfg.DayOfMonth < 1 || cfg.DayOfMonth > 31 {
		return fmt.Errorf("day of month must be between 1 and 31, got: %d", cfg.DayOfMonth)
	}

	if cfg.DailySavings <= 0 {
		return fmt.Errorf("daily savings must be positive, got: %.2f", cfg.DailySavings)
	}

	if cfg.DipThreshold >= 0 {
		return fmt.Errorf("dip threshold must be negative, got: %.4f", cfg.DipThreshold)
	}

	if cfg.MinPurchase < 0 {
		return fmt.Errorf("minimum purchase must not be negative, got: %.2f", cfg.MinPurchase)
	}

	if cfg.TargetMonth < int(time.January) || cfg.TargetMonth > int(time.December) {
		return fmt.Errorf("target month must be between 1 and 12, got: %d", cfg.TargetMonth)
	}

	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return fmt.Errorf("metrics port must be between 0 and 65535, got: %d", cfg.MetricsPort)
	}

	if _, _, err := cfg.ParseDateRange(); err != nil {
		return err
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"cs2-arb/internal/arb"
)

type Config struct {
	CSFloatAPIKey string
	DefaultItem   string
	DatabaseURL   string
	Port          string
	Environment   string

	// Fixed reference-currency rate (e.g. CNY per USD). Applied by callers
	// when normalizing an external reference price into USD; the core never
	// converts currencies itself.
	RefUSDRate float64

	Fees arb.FeeConfig
}

func Load() (*Config, error) {
	cfg := &Config{
		CSFloatAPIKey: getEnv("CSFLOAT_API_KEY", ""),
		DefaultItem:   getEnv("DEFAULT_ITEM", "AK-47 | Redline (Field-Tested)"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		RefUSDRate:    getEnvFloat("REF_USD_RATE", 1.0),
		Fees: arb.FeeConfig{
			SellFeeRate:       getEnvFloat("SELL_FEE_RATE", 0.02),
			WithdrawalFeeRate: getEnvFloat("WITHDRAWAL_FEE_RATE", 0.025),
			LockupDays:        getEnvInt("LOCKUP_DAYS", 8),
			AnchorBufferPct:   getEnvFloat("ANCHOR_BUFFER_PCT", 0.00),
			MinProfitUSD:      getEnvFloat("MIN_PROFIT_USD", 5.0),
			MinROI:            getEnvFloat("MIN_ROI", 0.03),
			MinBidQty:         getEnvInt("MIN_BID_QTY", 1),
		},
	}

	if err := cfg.Fees.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fee config: %w", err)
	}
	return cfg, nil
}

// RequireAPIKey fails loudly when the CSFloat key is missing, mirroring the
// startup check every fetching command performs.
func (c *Config) RequireAPIKey() error {
	if c.CSFloatAPIKey == "" {
		return fmt.Errorf("missing CSFLOAT_API_KEY in environment (.env)")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

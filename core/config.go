package core

import (
	"fmt"

	"lending/pkg/fixed"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

const (
	// RepayPolicyCap charge at most the outstanding debt
	RepayPolicyCap = "cap"
	// RepayPolicyReject reject repayments above the outstanding debt
	RepayPolicyReject = "reject"
)

// Config lending config
type Config struct {
	App      App              `json:"app"`
	DB       db.Config        `json:"db"`
	Protocol Protocol         `json:"protocol"`
	Oracle   Oracle           `json:"oracle"`
	Bank     Bank             `json:"bank"`
	Worker   Worker           `json:"worker"`
	Markets  []MarketSettings `json:"markets"`
	Admins   []string         `json:"admins"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	Name string `json:"name"`
	// use an in-memory store instead of db
	Memory bool `json:"memory"`
}

// Protocol global risk parameters
type Protocol struct {
	// 单次清算最多可偿还的债务比例 (0, 1]
	CloseFactor decimal.Decimal `json:"close_factor"`
	// cap or reject
	RepayPolicy string `json:"repay_policy"`
}

// Oracle price oracle config
type Oracle struct {
	Endpoint string `json:"endpoint"`
	// seconds, prices older than this are unavailable, 0 disables the check
	MaxAge int64 `json:"max_age"`
	// seconds
	CacheTTL int64 `json:"cache_ttl"`
	// seconds between ticker pulls
	PullInterval int64 `json:"pull_interval"`
}

// Bank token transfer endpoint, empty uses the in-memory bank
type Bank struct {
	Endpoint string `json:"endpoint"`
}

// Worker background job intervals in seconds
type Worker struct {
	// persist accrued indices of every market
	AccrueInterval int64 `json:"accrue_interval"`
	// scan borrowers for liquidatable accounts
	ScanInterval int64 `json:"scan_interval"`
}

// MarketSettings market listed at startup, decimals as in the yaml file
type MarketSettings struct {
	AssetID              string          `json:"asset_id"`
	Symbol               string          `json:"symbol"`
	DepositEnabled       bool            `json:"deposit_enabled"`
	BorrowEnabled        bool            `json:"borrow_enabled"`
	MaxLoanToValue       decimal.Decimal `json:"max_loan_to_value"`
	LiquidationThreshold decimal.Decimal `json:"liquidation_threshold"`
	LiquidationBonus     decimal.Decimal `json:"liquidation_bonus"`
	BaseRate             decimal.Decimal `json:"base_rate"`
	Slope1               decimal.Decimal `json:"slope1"`
	Slope2               decimal.Decimal `json:"slope2"`
	OptimalUtilization   decimal.Decimal `json:"optimal_utilization"`
	ReserveFactor        decimal.Decimal `json:"reserve_factor"`
}

// MarketConfig convert into fixed point config
func (s MarketSettings) MarketConfig() (MarketConfig, error) {
	cfg := MarketConfig{
		AssetID:        s.AssetID,
		Symbol:         s.Symbol,
		DepositEnabled: s.DepositEnabled,
		BorrowEnabled:  s.BorrowEnabled,
	}

	fields := []struct {
		name  string
		value decimal.Decimal
		dst   *fixed.Dec
	}{
		{"max_loan_to_value", s.MaxLoanToValue, &cfg.MaxLoanToValue},
		{"liquidation_threshold", s.LiquidationThreshold, &cfg.LiquidationThreshold},
		{"liquidation_bonus", s.LiquidationBonus, &cfg.LiquidationBonus},
		{"base_rate", s.BaseRate, &cfg.BaseRate},
		{"slope1", s.Slope1, &cfg.Slope1},
		{"slope2", s.Slope2, &cfg.Slope2},
		{"optimal_utilization", s.OptimalUtilization, &cfg.OptimalUtilization},
		{"reserve_factor", s.ReserveFactor, &cfg.ReserveFactor},
	}

	for _, f := range fields {
		v, err := fixed.FromDecimal(f.value)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", f.name, ErrInvalidConfig)
		}
		*f.dst = v
	}

	return cfg, nil
}

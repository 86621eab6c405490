package core

import (
	"context"
	"time"

	"lending/pkg/fixed"
)

// Health collateralization of an account valued at oracle prices
type Health struct {
	CollateralValue           fixed.Dec `json:"collateral_value"`
	MaxLoanToValueValue       fixed.Dec `json:"max_ltv_value"`
	LiquidationThresholdValue fixed.Dec `json:"liquidation_threshold_value"`
	DebtValue                 fixed.Dec `json:"debt_value"`
	// nil when there is no debt
	HealthFactor            *fixed.Dec `json:"health_factor"`
	LiquidationHealthFactor *fixed.Dec `json:"liquidation_health_factor"`

	Prices map[string]fixed.Dec `json:"-"`
}

// IsHealthy max ltv weighted collateral covers the debt
func (h *Health) IsHealthy() bool {
	return h.DebtValue.IsZero() || h.MaxLoanToValueValue.GreaterThanOrEqual(h.DebtValue)
}

// IsLiquidatable liquidation threshold weighted collateral no longer covers the debt
func (h *Health) IsLiquidatable() bool {
	return h.DebtValue.IsPositive() && h.LiquidationThresholdValue.LessThan(h.DebtValue)
}

// LiquidateRequest liquidation parameters
type LiquidateRequest struct {
	Liquidator      string    `json:"liquidator"`
	UserID          string    `json:"user_id"`
	DebtAsset       string    `json:"debt_asset"`
	CollateralAsset string    `json:"collateral_asset"`
	Amount          fixed.Dec `json:"amount"`
}

// IAccountService health & liquidation engine
type IAccountService interface {
	Balances(ctx context.Context, userID string) ([]*Balance, error)
	ComputeHealth(ctx context.Context, userID string) (*Health, error)
	// CalculateHealth inside an open transaction, indices are accrued to now
	CalculateHealth(ctx context.Context, tx *Tx, userID string, now time.Time) (*Health, error)
	Liquidate(ctx context.Context, req *LiquidateRequest) (*Transaction, error)
}

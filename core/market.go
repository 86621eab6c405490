package core

import (
	"context"
	"time"

	"lending/pkg/fixed"
)

// InterestRateModel kinked borrow curve parameters, all rates per year
type InterestRateModel struct {
	// 利用率为 0 时的借款利率
	BaseRate fixed.Dec `sql:"type:decimal(65,18)" json:"base_rate"`
	// rate added between 0 and the optimal utilization
	Slope1 fixed.Dec `sql:"type:decimal(65,18)" json:"slope1"`
	// rate added between the optimal utilization and 1
	Slope2 fixed.Dec `sql:"type:decimal(65,18)" json:"slope2"`
	// kink, (0, 1]
	OptimalUtilization fixed.Dec `sql:"type:decimal(65,18)" json:"optimal_utilization"`
	// share of borrow interest kept by the protocol, [0, 1]
	ReserveFactor fixed.Dec `sql:"type:decimal(65,18)" json:"reserve_factor"`
}

// MarketConfig administrative parameters of a market
type MarketConfig struct {
	AssetID        string `json:"asset_id"`
	Symbol         string `json:"symbol"`
	DepositEnabled bool   `json:"deposit_enabled"`
	BorrowEnabled  bool   `json:"borrow_enabled"`
	// 抵押率
	MaxLoanToValue fixed.Dec `json:"max_loan_to_value"`
	// 清算阈值, must not be lower than MaxLoanToValue
	LiquidationThreshold fixed.Dec `json:"liquidation_threshold"`
	// 清算奖励
	LiquidationBonus fixed.Dec `json:"liquidation_bonus"`
	InterestRateModel
}

// Market per asset lending pool
type Market struct {
	ID                   uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID              string    `sql:"size:64;unique_index:idx_markets_asset_id" json:"asset_id"`
	Symbol               string    `sql:"size:20" json:"symbol"`
	DepositEnabled       bool      `json:"deposit_enabled"`
	BorrowEnabled        bool      `json:"borrow_enabled"`
	MaxLoanToValue       fixed.Dec `sql:"type:decimal(65,18)" json:"max_loan_to_value"`
	LiquidationThreshold fixed.Dec `sql:"type:decimal(65,18)" json:"liquidation_threshold"`
	LiquidationBonus     fixed.Dec `sql:"type:decimal(65,18)" json:"liquidation_bonus"`
	InterestRateModel
	BorrowIndex          fixed.Dec `sql:"type:decimal(65,18)" json:"borrow_index"`
	LiquidityIndex       fixed.Dec `sql:"type:decimal(65,18)" json:"liquidity_index"`
	TotalScaledDebt      fixed.Dec `sql:"type:decimal(65,18)" json:"total_scaled_debt"`
	TotalScaledDeposits  fixed.Dec `sql:"type:decimal(65,18)" json:"total_scaled_deposits"`
	Reserves             fixed.Dec `sql:"type:decimal(65,18)" json:"reserves"`
	InterestsLastUpdated int64     `json:"interests_last_updated"`
	Version              int64     `sql:"default:0" json:"version"`
	CreatedAt            time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Config current configuration of the market
func (m *Market) Config() MarketConfig {
	return MarketConfig{
		AssetID:              m.AssetID,
		Symbol:               m.Symbol,
		DepositEnabled:       m.DepositEnabled,
		BorrowEnabled:        m.BorrowEnabled,
		MaxLoanToValue:       m.MaxLoanToValue,
		LiquidationThreshold: m.LiquidationThreshold,
		LiquidationBonus:     m.LiquidationBonus,
		InterestRateModel:    m.InterestRateModel,
	}
}

// ApplyConfig overwrite configurable fields, state is untouched
func (m *Market) ApplyConfig(cfg MarketConfig) {
	m.Symbol = cfg.Symbol
	m.DepositEnabled = cfg.DepositEnabled
	m.BorrowEnabled = cfg.BorrowEnabled
	m.MaxLoanToValue = cfg.MaxLoanToValue
	m.LiquidationThreshold = cfg.LiquidationThreshold
	m.LiquidationBonus = cfg.LiquidationBonus
	m.InterestRateModel = cfg.InterestRateModel
}

// IMarketStore market store interface
type IMarketStore interface {
	Create(ctx context.Context, market *Market) error
	// Find returns a market with ID 0 if the asset is not listed
	Find(ctx context.Context, assetID string) (*Market, error)
	// All in listing order
	All(ctx context.Context) ([]*Market, error)
	Update(ctx context.Context, market *Market) error
}

// IMarketService market registry
type IMarketService interface {
	// Find market with interest accrued up to now
	Find(ctx context.Context, assetID string) (*Market, error)
	All(ctx context.Context) ([]*Market, error)
	ListMarket(ctx context.Context, cfg MarketConfig) (*Market, error)
	UpdateMarketConfig(ctx context.Context, cfg MarketConfig) (*Market, error)
	// Require loads the market inside tx and accrues it to now, the accrued state is saved
	Require(ctx context.Context, tx *Tx, assetID string, now time.Time) (*Market, error)
}

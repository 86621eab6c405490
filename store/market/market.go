package market

import (
	"context"
	"fmt"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type marketStore struct {
	db *db.DB
}

// New new market store
func New(db *db.DB) core.IMarketStore {
	return &marketStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Market{})
		if err := tx.AutoMigrate(core.Market{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *marketStore) Create(ctx context.Context, market *core.Market) error {
	return s.db.Update().Create(market).Error
}

func (s *marketStore) Find(ctx context.Context, assetID string) (*core.Market, error) {
	var market core.Market
	if err := s.db.View().Where("asset_id=?", assetID).First(&market).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Market{AssetID: assetID}, nil
		}

		return nil, err
	}

	return &market, nil
}

func (s *marketStore) All(ctx context.Context) ([]*core.Market, error) {
	var markets []*core.Market
	if err := s.db.View().Order("id ASC").Find(&markets).Error; err != nil {
		return nil, err
	}

	return markets, nil
}

func (s *marketStore) Update(ctx context.Context, market *core.Market) error {
	version := market.Version
	market.Version++

	tx := s.db.Update().Model(core.Market{}).Where("asset_id=? and version=?", market.AssetID, version).Updates(toUpdateParams(market))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("update market %s version %d: %w", market.AssetID, version, core.ErrInvariantBroken)
	}

	return nil
}

// zero values must be written too, so a map is used instead of the struct
func toUpdateParams(market *core.Market) map[string]interface{} {
	return map[string]interface{}{
		"symbol":                 market.Symbol,
		"deposit_enabled":        market.DepositEnabled,
		"borrow_enabled":         market.BorrowEnabled,
		"max_loan_to_value":      market.MaxLoanToValue,
		"liquidation_threshold":  market.LiquidationThreshold,
		"liquidation_bonus":      market.LiquidationBonus,
		"base_rate":              market.BaseRate,
		"slope1":                 market.Slope1,
		"slope2":                 market.Slope2,
		"optimal_utilization":    market.OptimalUtilization,
		"reserve_factor":         market.ReserveFactor,
		"borrow_index":           market.BorrowIndex,
		"liquidity_index":        market.LiquidityIndex,
		"total_scaled_debt":      market.TotalScaledDebt,
		"total_scaled_deposits":  market.TotalScaledDeposits,
		"reserves":               market.Reserves,
		"interests_last_updated": market.InterestsLastUpdated,
		"version":                market.Version,
	}
}

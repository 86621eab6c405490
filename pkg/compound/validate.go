package compound

import (
	"lending/core"
	"lending/pkg/fixed"

	"github.com/asaskevich/govalidator"
)

// ValidIdentifier asset or user identifier
func ValidIdentifier(id string) bool {
	return govalidator.IsPrintableASCII(id) &&
		govalidator.StringLength(id, "1", "64") &&
		!govalidator.HasWhitespace(id)
}

// ValidateMarketConfig checks
//
//	0 <= max_loan_to_value <= liquidation_threshold <= 1
//	liquidation_bonus, reserve_factor in [0, 1]
//	optimal_utilization in (0, 1]
func ValidateMarketConfig(cfg core.MarketConfig) error {
	if err := Require(ValidIdentifier(cfg.AssetID), "market/invalid-asset-id", core.ErrInvalidConfig); err != nil {
		return err
	}

	if err := Require(cfg.LiquidationThreshold.LessThanOrEqual(fixed.One), "market/liquidation-threshold-above-one", core.ErrInvalidConfig); err != nil {
		return err
	}

	if err := Require(cfg.MaxLoanToValue.LessThanOrEqual(cfg.LiquidationThreshold), "market/ltv-above-liquidation-threshold", core.ErrInvalidConfig); err != nil {
		return err
	}

	if err := Require(cfg.LiquidationBonus.LessThanOrEqual(fixed.One), "market/liquidation-bonus-above-one", core.ErrInvalidConfig); err != nil {
		return err
	}

	if err := Require(cfg.ReserveFactor.LessThanOrEqual(fixed.One), "market/reserve-factor-above-one", core.ErrInvalidConfig); err != nil {
		return err
	}

	return Require(
		cfg.OptimalUtilization.IsPositive() && cfg.OptimalUtilization.LessThanOrEqual(fixed.One),
		"market/invalid-optimal-utilization",
		core.ErrInvalidConfig,
	)
}

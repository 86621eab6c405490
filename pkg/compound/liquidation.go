package compound

import (
	"lending/core"
	"lending/pkg/fixed"
)

// SeizeInput values needed to size a liquidation
type SeizeInput struct {
	// requested repay amount of the debt asset
	Amount fixed.Dec
	// borrower's real debt in the debt asset
	Debt fixed.Dec
	// borrower's real deposit in the collateral asset
	Collateral      fixed.Dec
	DebtPrice       fixed.Dec
	CollateralPrice fixed.Dec
	// bonus of the collateral market
	LiquidationBonus fixed.Dec
	CloseFactor      fixed.Dec
}

// SeizeAmounts repay and seized collateral amounts
//
//	repay = min(amount, debt, debt * close_factor)
//	seize = repay * debt_price * (1 + bonus) / collateral_price
//
// if seize exceeds the collateral, all collateral is seized and repay is
// reduced to the value it covers.
func SeizeAmounts(in SeizeInput) (repay, seize fixed.Dec, err error) {
	if err = Require(in.DebtPrice.IsPositive() && in.CollateralPrice.IsPositive(), "liquidation/zero-price", core.ErrPriceUnavailable); err != nil {
		return
	}

	closeFactor := in.CloseFactor
	if closeFactor.IsZero() || closeFactor.GreaterThan(fixed.One) {
		closeFactor = fixed.One
	}

	maxRepay, err := in.Debt.Mul(closeFactor)
	if err != nil {
		return
	}

	repay = fixed.Min(in.Amount, fixed.Min(in.Debt, maxRepay))

	onePlusBonus, err := fixed.One.Add(in.LiquidationBonus)
	if err != nil {
		return
	}

	repayValue, err := repay.Mul(in.DebtPrice)
	if err != nil {
		return
	}

	if seize, err = repayValue.MulDiv(onePlusBonus, in.CollateralPrice); err != nil {
		return
	}

	if seize.GreaterThan(in.Collateral) {
		seize = in.Collateral

		var seizeValue fixed.Dec
		if seizeValue, err = seize.Mul(in.CollateralPrice); err != nil {
			return
		}

		var discounted fixed.Dec
		if discounted, err = in.DebtPrice.Mul(onePlusBonus); err != nil {
			return
		}

		var covered fixed.Dec
		if covered, err = seizeValue.Div(discounted); err != nil {
			return
		}
		repay = fixed.Min(repay, covered)
	}

	err = Require(repay.IsPositive() && seize.IsPositive(), "liquidation/amount-too-small", core.ErrInvalidAmount)
	return
}

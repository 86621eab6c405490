package compound

import (
	"lending/core"
	"lending/pkg/fixed"
)

// TotalDeposits real deposits of the market
func TotalDeposits(market *core.Market) (fixed.Dec, error) {
	return market.TotalScaledDeposits.Mul(liquidityIndex(market))
}

// TotalDebt real debt of the market
func TotalDebt(market *core.Market) (fixed.Dec, error) {
	return market.TotalScaledDebt.Mul(borrowIndex(market))
}

// AvailableLiquidity deposits - debt, zero if debt outgrew deposits
func AvailableLiquidity(market *core.Market) (fixed.Dec, error) {
	deposits, err := TotalDeposits(market)
	if err != nil {
		return fixed.Zero, err
	}

	debt, err := TotalDebt(market)
	if err != nil {
		return fixed.Zero, err
	}

	return deposits.SubFloor(debt), nil
}

// DepositBalance real deposit of the position
// balance = position.scaled_deposit * market.liquidity_index
func DepositBalance(position *core.Position, market *core.Market) (fixed.Dec, error) {
	return position.ScaledDeposit.Mul(liquidityIndex(market))
}

// DebtBalance real debt of the position
// balance = position.scaled_debt * market.borrow_index
func DebtBalance(position *core.Position, market *core.Market) (fixed.Dec, error) {
	return position.ScaledDebt.Mul(borrowIndex(market))
}

// ScaledDeposit amount / liquidity_index
func ScaledDeposit(amount fixed.Dec, market *core.Market) (fixed.Dec, error) {
	return amount.Div(liquidityIndex(market))
}

// ScaledDebt amount / borrow_index
func ScaledDebt(amount fixed.Dec, market *core.Market) (fixed.Dec, error) {
	return amount.Div(borrowIndex(market))
}

func liquidityIndex(market *core.Market) fixed.Dec {
	if market.LiquidityIndex.IsPositive() {
		return market.LiquidityIndex
	}
	return fixed.One
}

func borrowIndex(market *core.Market) fixed.Dec {
	if market.BorrowIndex.IsPositive() {
		return market.BorrowIndex
	}
	return fixed.One
}

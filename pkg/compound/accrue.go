package compound

import (
	"time"

	"lending/core"
	"lending/pkg/fixed"
)

// AccrueInterest moves the market indices forward to now
//
// Accruing interest only occurs when an action touches the market; user
// balances are scaled amounts, so only the two indices change here.
// On error the market is left untouched.
func AccrueInterest(market *core.Market, now time.Time) error {
	ts := now.Unix()
	if ts <= market.InterestsLastUpdated {
		return nil
	}

	if !market.BorrowIndex.IsPositive() {
		market.BorrowIndex = fixed.One
	}
	if !market.LiquidityIndex.IsPositive() {
		market.LiquidityIndex = fixed.One
	}

	elapsed := uint64(ts - market.InterestsLastUpdated)

	_, borrowRate, supplyRate, err := MarketRates(market)
	if err != nil {
		return Check(err, "accrue/rates")
	}

	borrowIndex, err := growIndex(market.BorrowIndex, borrowRate, elapsed)
	if err != nil {
		return Check(err, "accrue/borrow-index")
	}

	liquidityIndex, err := growIndex(market.LiquidityIndex, supplyRate, elapsed)
	if err != nil {
		return Check(err, "accrue/liquidity-index")
	}

	reserves, err := accruedReserves(market, borrowIndex)
	if err != nil {
		return Check(err, "accrue/reserves")
	}

	market.BorrowIndex = borrowIndex
	market.LiquidityIndex = liquidityIndex
	market.Reserves = reserves
	market.InterestsLastUpdated = ts
	return nil
}

// index * (1 + rate * elapsed / SecondsPerYear)
func growIndex(index, rate fixed.Dec, elapsed uint64) (fixed.Dec, error) {
	if rate.IsZero() {
		return index, nil
	}

	timesRate, err := rate.MulInt(elapsed)
	if err != nil {
		return fixed.Zero, err
	}

	timesRate, err = timesRate.DivInt(SecondsPerYear)
	if err != nil {
		return fixed.Zero, err
	}

	factor, err := fixed.One.Add(timesRate)
	if err != nil {
		return fixed.Zero, err
	}

	return index.Mul(factor)
}

// reserves + interest * reserve_factor
func accruedReserves(market *core.Market, borrowIndex fixed.Dec) (fixed.Dec, error) {
	if market.TotalScaledDebt.IsZero() || market.ReserveFactor.IsZero() {
		return market.Reserves, nil
	}

	before, err := market.TotalScaledDebt.Mul(market.BorrowIndex)
	if err != nil {
		return fixed.Zero, err
	}

	after, err := market.TotalScaledDebt.Mul(borrowIndex)
	if err != nil {
		return fixed.Zero, err
	}

	share, err := after.SubFloor(before).Mul(market.ReserveFactor)
	if err != nil {
		return fixed.Zero, err
	}

	return market.Reserves.Add(share)
}

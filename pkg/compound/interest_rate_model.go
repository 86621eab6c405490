package compound

import (
	"lending/core"
	"lending/pkg/fixed"
)

// SecondsPerYear 365 days
const SecondsPerYear uint64 = 365 * 24 * 60 * 60

// UtilizationRate utilization rate
// utilization_rate = total_debt / total_deposits, 0 without deposits and at most 1
func UtilizationRate(totalDebt, totalDeposits fixed.Dec) (fixed.Dec, error) {
	if totalDeposits.IsZero() || totalDebt.IsZero() {
		return fixed.Zero, nil
	}

	if totalDebt.GreaterThanOrEqual(totalDeposits) {
		return fixed.One, nil
	}

	return totalDebt.Div(totalDeposits)
}

// GetBorrowRate annual borrow rate
//
// below the kink: base + slope1 * u / optimal
// above the kink: base + slope1 + slope2 * (u - optimal) / (1 - optimal)
func GetBorrowRate(utilizationRate fixed.Dec, model core.InterestRateModel) (fixed.Dec, error) {
	if utilizationRate.IsZero() {
		return model.BaseRate, nil
	}

	optimal := model.OptimalUtilization
	if optimal.IsZero() || utilizationRate.LessThanOrEqual(optimal) {
		var slope fixed.Dec
		if optimal.IsZero() {
			slope = model.Slope1
		} else {
			v, err := model.Slope1.MulDiv(utilizationRate, optimal)
			if err != nil {
				return fixed.Zero, err
			}
			slope = v
		}
		return model.BaseRate.Add(slope)
	}

	normalRate, err := model.BaseRate.Add(model.Slope1)
	if err != nil {
		return fixed.Zero, err
	}

	excessUtil, err := utilizationRate.Sub(optimal)
	if err != nil {
		return fixed.Zero, err
	}

	excessRange, err := fixed.One.Sub(optimal)
	if err != nil {
		return fixed.Zero, err
	}

	if excessRange.IsZero() {
		return normalRate, nil
	}

	jump, err := model.Slope2.MulDiv(excessUtil, excessRange)
	if err != nil {
		return fixed.Zero, err
	}

	return normalRate.Add(jump)
}

// GetSupplyRate annual supply rate
// supply_rate = borrow_rate * u * (1 - reserve_factor)
func GetSupplyRate(utilizationRate, borrowRate fixed.Dec, model core.InterestRateModel) (fixed.Dec, error) {
	oneMinusReserveFactor, err := fixed.One.Sub(model.ReserveFactor)
	if err != nil {
		return fixed.Zero, err
	}

	rateToPool, err := borrowRate.Mul(oneMinusReserveFactor)
	if err != nil {
		return fixed.Zero, err
	}

	return utilizationRate.Mul(rateToPool)
}

// ComputeRates borrow and supply rates at the given utilization
func ComputeRates(utilizationRate fixed.Dec, model core.InterestRateModel) (borrowRate, supplyRate fixed.Dec, err error) {
	if borrowRate, err = GetBorrowRate(utilizationRate, model); err != nil {
		return
	}

	supplyRate, err = GetSupplyRate(utilizationRate, borrowRate, model)
	return
}

// MarketRates current utilization, borrow and supply rates of market
func MarketRates(market *core.Market) (utilization, borrowRate, supplyRate fixed.Dec, err error) {
	totalDebt, err := TotalDebt(market)
	if err != nil {
		return
	}

	totalDeposits, err := TotalDeposits(market)
	if err != nil {
		return
	}

	if utilization, err = UtilizationRate(totalDebt, totalDeposits); err != nil {
		return
	}

	borrowRate, supplyRate, err = ComputeRates(utilization, market.InterestRateModel)
	return
}

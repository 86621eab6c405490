package compound

import (
	"lending/core"
	"lending/pkg/fixed"
)

// HealthItem one position valued at price
type HealthItem struct {
	Position *core.Position
	Market   *core.Market
	Price    fixed.Dec
}

// CalculateHealth aggregate collateral and debt values
//
//	health_factor             = Σ deposit * price * max_ltv / Σ debt * price
//	liquidation_health_factor = Σ deposit * price * liquidation_threshold / Σ debt * price
//
// deposits count only when flagged as collateral. Both factors are nil
// without debt.
func CalculateHealth(items []HealthItem) (*core.Health, error) {
	var (
		health   = core.Health{Prices: make(map[string]fixed.Dec, len(items))}
		acc      = accumulator{}
		position *core.Position
	)

	for _, item := range items {
		position = item.Position
		health.Prices[item.Market.AssetID] = item.Price

		if position.IsCollateral && position.ScaledDeposit.IsPositive() {
			deposit, err := DepositBalance(position, item.Market)
			if err != nil {
				return nil, err
			}

			value := acc.mul(deposit, item.Price)
			health.CollateralValue = acc.add(health.CollateralValue, value)
			health.MaxLoanToValueValue = acc.add(health.MaxLoanToValueValue, acc.mul(value, item.Market.MaxLoanToValue))
			health.LiquidationThresholdValue = acc.add(health.LiquidationThresholdValue, acc.mul(value, item.Market.LiquidationThreshold))
		}

		if position.ScaledDebt.IsPositive() {
			debt, err := DebtBalance(position, item.Market)
			if err != nil {
				return nil, err
			}

			health.DebtValue = acc.add(health.DebtValue, acc.mul(debt, item.Price))
		}
	}

	if acc.err != nil {
		return nil, acc.err
	}

	if health.DebtValue.IsPositive() {
		hf, err := health.MaxLoanToValueValue.Div(health.DebtValue)
		if err != nil {
			return nil, err
		}

		lhf, err := health.LiquidationThresholdValue.Div(health.DebtValue)
		if err != nil {
			return nil, err
		}

		health.HealthFactor = &hf
		health.LiquidationHealthFactor = &lhf
	}

	return &health, nil
}

// accumulator keeps the first arithmetic error
type accumulator struct {
	err error
}

func (a *accumulator) mul(x, y fixed.Dec) fixed.Dec {
	if a.err != nil {
		return fixed.Zero
	}

	v, err := x.Mul(y)
	a.err = err
	return v
}

func (a *accumulator) add(x, y fixed.Dec) fixed.Dec {
	if a.err != nil {
		return fixed.Zero
	}

	v, err := x.Add(y)
	a.err = err
	return v
}

package views

import (
	"lending/core"
	"lending/pkg/compound"
	"lending/pkg/fixed"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

// Market market view
type Market struct {
	*core.Market
	TotalDeposits      fixed.Dec       `json:"total_deposits"`
	TotalDebt          fixed.Dec       `json:"total_debt"`
	AvailableLiquidity fixed.Dec       `json:"available_liquidity"`
	Utilization        fixed.Dec       `json:"utilization"`
	BorrowRate         fixed.Dec       `json:"borrow_rate"`
	SupplyRate         fixed.Dec       `json:"supply_rate"`
	BorrowAPY          decimal.Decimal `json:"borrow_apy"`
	SupplyAPY          decimal.Decimal `json:"supply_apy"`
}

// MarketView market with derived figures
func MarketView(market *core.Market) (*Market, error) {
	view := Market{Market: market}

	var err error
	if view.TotalDeposits, err = compound.TotalDeposits(market); err != nil {
		return nil, err
	}

	if view.TotalDebt, err = compound.TotalDebt(market); err != nil {
		return nil, err
	}

	if view.AvailableLiquidity, err = compound.AvailableLiquidity(market); err != nil {
		return nil, err
	}

	if view.Utilization, view.BorrowRate, view.SupplyRate, err = compound.MarketRates(market); err != nil {
		return nil, err
	}

	// simple interest, indices compound only when touched
	view.BorrowAPY = number.Percent(view.BorrowRate.Decimal(), 2)
	view.SupplyAPY = number.Percent(view.SupplyRate.Decimal(), 2)
	return &view, nil
}

// MarketViews views of markets
func MarketViews(markets []*core.Market) ([]*Market, error) {
	views := make([]*Market, 0, len(markets))
	for _, m := range markets {
		view, err := MarketView(m)
		if err != nil {
			return nil, err
		}

		views = append(views, view)
	}

	return views, nil
}

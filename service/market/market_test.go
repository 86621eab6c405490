package market_test

import (
	"testing"
	"time"

	"lending/core"
	"lending/internal/testenv"
	"lending/pkg/compound"
	"lending/pkg/fixed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMarket(t *testing.T) {
	e := testenv.New(t, testenv.Options{})

	m := e.List(testenv.MarketConfig("b"))
	assert.True(t, m.ID > 0)
	assert.Equal(t, "1", m.BorrowIndex.String())
	assert.Equal(t, "1", m.LiquidityIndex.String())
	assert.Equal(t, e.Now.Unix(), m.InterestsLastUpdated)

	e.List(testenv.MarketConfig("a"))

	_, err := e.Markets.ListMarket(e.Ctx, testenv.MarketConfig("a"))
	assert.ErrorIs(t, err, core.ErrMarketExists)

	bad := testenv.MarketConfig("c")
	bad.MaxLoanToValue = fixed.MustFromString("0.9")
	_, err = e.Markets.ListMarket(e.Ctx, bad)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	markets, err := e.Markets.All(e.Ctx)
	require.Nil(t, err)
	require.Len(t, markets, 2)
	assert.Equal(t, "b", markets[0].AssetID)
	assert.Equal(t, "a", markets[1].AssetID)

	_, err = e.Markets.Find(e.Ctx, "c")
	assert.ErrorIs(t, err, core.ErrMarketNotFound)
}

func TestUpdateMarketConfig(t *testing.T) {
	e := testenv.New(t, testenv.Options{})
	e.List(testenv.MarketConfig("a"))

	cfg := testenv.MarketConfig("c")
	cfg.BaseRate = fixed.MustFromString("0.1")
	e.List(cfg)

	e.SetPrice("a", "1")
	e.SetPrice("c", "1")
	e.Deposit("lender", "c", "100")
	e.Deposit("alice", "a", "1000")
	_, err := e.Ledger.Borrow(e.Ctx, "alice", "c", fixed.New(50))
	require.Nil(t, err)

	year := time.Duration(compound.SecondsPerYear) * time.Second
	e.Advance(year)

	cfg.BaseRate = fixed.MustFromString("0.2")
	m, err := e.Markets.UpdateMarketConfig(e.Ctx, cfg)
	require.Nil(t, err)
	// the elapsed year accrued on the old curve
	assert.Equal(t, "1.1", m.BorrowIndex.String())
	assert.Equal(t, "0.2", m.BaseRate.String())

	e.Advance(year)
	m, err = e.Markets.Find(e.Ctx, "c")
	require.Nil(t, err)
	assert.Equal(t, "1.32", m.BorrowIndex.String())

	// reads never persist accrual
	assert.Equal(t, "1.1", e.Market("c").BorrowIndex.String())

	_, err = e.Markets.UpdateMarketConfig(e.Ctx, testenv.MarketConfig("x"))
	assert.ErrorIs(t, err, core.ErrMarketNotFound)
}

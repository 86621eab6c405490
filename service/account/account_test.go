package account_test

import (
	"testing"

	"lending/core"
	"lending/internal/testenv"
	"lending/pkg/fixed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alice pledges 100 a and borrows 45 b, both priced at 1
func setup(t *testing.T) *testenv.Env {
	e := testenv.New(t, testenv.Options{})
	e.List(testenv.MarketConfig("a"))
	e.List(testenv.MarketConfig("b"))
	e.SetPrice("a", "1")
	e.SetPrice("b", "1")
	e.Deposit("lender", "b", "1000")
	e.Deposit("alice", "a", "100")

	_, err := e.Ledger.Borrow(e.Ctx, "alice", "b", fixed.New(45))
	require.Nil(t, err)

	e.Mint("liquidator", "b", "100")
	return e
}

func liquidate(e *testenv.Env, amount string) (*core.Transaction, error) {
	return e.Accounts.Liquidate(e.Ctx, &core.LiquidateRequest{
		Liquidator:      "liquidator",
		UserID:          "alice",
		DebtAsset:       "b",
		CollateralAsset: "a",
		Amount:          fixed.MustFromString(amount),
	})
}

func TestComputeHealth(t *testing.T) {
	e := setup(t)

	health, err := e.Accounts.ComputeHealth(e.Ctx, "alice")
	require.Nil(t, err)
	assert.Equal(t, "100", health.CollateralValue.String())
	assert.Equal(t, "50", health.MaxLoanToValueValue.String())
	assert.Equal(t, "80", health.LiquidationThresholdValue.String())
	assert.Equal(t, "45", health.DebtValue.String())
	assert.False(t, health.IsLiquidatable())

	// debt free accounts are still valued
	health, err = e.Accounts.ComputeHealth(e.Ctx, "lender")
	require.Nil(t, err)
	assert.Nil(t, health.HealthFactor)
	assert.Nil(t, health.LiquidationHealthFactor)
	assert.Equal(t, "1000", health.CollateralValue.String())
	assert.Equal(t, "1", health.Prices["b"].String())
	assert.False(t, health.IsLiquidatable())

	balances, err := e.Accounts.Balances(e.Ctx, "alice")
	require.Nil(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, "a", balances[0].AssetID)
	assert.Equal(t, "100", balances[0].Deposit.String())
	assert.Equal(t, "45", balances[1].Debt.String())
}

func TestLiquidate(t *testing.T) {
	e := setup(t)

	_, err := liquidate(e, "20")
	assert.ErrorIs(t, err, core.ErrNotLiquidatable)

	// 100 * 0.5 * 0.8 = 40 < 45
	e.SetPrice("a", "0.5")

	tx, err := liquidate(e, "20")
	require.Nil(t, err)
	assert.Equal(t, core.ActionTypeLiquidate, tx.Action)
	assert.Equal(t, "20", tx.Amount.String())

	var extra struct {
		Liquidator string    `json:"liquidator"`
		Seized     fixed.Dec `json:"seized_amount"`
	}
	require.Nil(t, tx.UnmarshalExtraData(&extra))
	assert.Equal(t, "liquidator", extra.Liquidator)
	assert.Equal(t, "44", extra.Seized.String())

	assert.Equal(t, "25", e.Position("alice", "b").ScaledDebt.String())
	assert.Equal(t, "56", e.Position("alice", "a").ScaledDeposit.String())

	seized := e.Position("liquidator", "a")
	assert.Equal(t, "44", seized.ScaledDeposit.String())
	assert.False(t, seized.IsCollateral)

	assert.Equal(t, "80", e.Bank.Balance("liquidator", "b").String())
	e.RequireConserved("a")
	e.RequireConserved("b")
}

func TestLiquidateCloseFactor(t *testing.T) {
	e := setup(t)
	e.SetPrice("a", "0.5")

	tx, err := liquidate(e, "100")
	require.Nil(t, err)
	assert.Equal(t, "22.5", tx.Amount.String())
	assert.Equal(t, "49.5", e.Position("liquidator", "a").ScaledDeposit.String())
	assert.Equal(t, "22.5", e.Position("alice", "b").ScaledDebt.String())
}

func TestLiquidateAllCollateral(t *testing.T) {
	e := setup(t)
	e.SetPrice("a", "0.2")

	tx, err := liquidate(e, "22.5")
	require.Nil(t, err)
	// 100 * 0.2 / 1.1
	assert.Equal(t, "18.181818181818181818", tx.Amount.String())

	assert.Equal(t, uint64(0), e.Position("alice", "a").ID)
	assert.Equal(t, "100", e.Position("liquidator", "a").ScaledDeposit.String())
	e.RequireConserved("a")
	e.RequireConserved("b")
}

func TestLiquidateRejected(t *testing.T) {
	e := setup(t)
	e.SetPrice("a", "0.5")

	_, err := e.Accounts.Liquidate(e.Ctx, &core.LiquidateRequest{
		Liquidator:      "alice",
		UserID:          "alice",
		DebtAsset:       "b",
		CollateralAsset: "a",
		Amount:          fixed.New(1),
	})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = liquidate(e, "0")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	// the liquidator can't pay
	_, err = e.Accounts.Liquidate(e.Ctx, &core.LiquidateRequest{
		Liquidator:      "pauper",
		UserID:          "alice",
		DebtAsset:       "b",
		CollateralAsset: "a",
		Amount:          fixed.New(20),
	})
	assert.ErrorIs(t, err, core.ErrInsufficientBalance)
	assert.Equal(t, "45", e.Position("alice", "b").ScaledDebt.String())
	assert.Equal(t, uint64(0), e.Position("pauper", "a").ID)
}

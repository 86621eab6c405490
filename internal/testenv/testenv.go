// Package testenv wires the services over the memory store for tests
package testenv

import (
	"context"
	"testing"
	"time"

	"lending/core"
	"lending/pkg/fixed"
	"lending/service/account"
	"lending/service/bank"
	"lending/service/ledger"
	"lending/service/market"
	"lending/service/oracle"
	"lending/store/memory"

	"github.com/stretchr/testify/require"
)

// Options env options
type Options struct {
	RepayPolicy string
	CloseFactor string
	// WrapBank decorates the bank handed to the services
	WrapBank func(core.IBank) core.IBank
}

// Env services over in-memory state with a manual clock
type Env struct {
	t   testing.TB
	Ctx context.Context
	Now time.Time

	Session  *memory.Session
	Prices   *memory.Prices
	Bank     *bank.Memory
	Oracle   core.IPriceOracle
	Markets  core.IMarketService
	Accounts core.IAccountService
	Ledger   core.ILedgerService
}

// New new env
func New(t testing.TB, opts Options) *Env {
	if opts.RepayPolicy == "" {
		opts.RepayPolicy = core.RepayPolicyCap
	}

	if opts.CloseFactor == "" {
		opts.CloseFactor = "0.5"
	}

	e := &Env{
		t:      t,
		Ctx:    context.Background(),
		Now:    time.Unix(1_600_000_000, 0),
		Prices: memory.NewPrices(),
		Bank:   bank.NewMemory(),
	}

	clock := core.Clock(func() time.Time { return e.Now })

	var b core.IBank = e.Bank
	if opts.WrapBank != nil {
		b = opts.WrapBank(b)
	}

	e.Session = memory.New(clock)
	e.Oracle = oracle.NewStoreFeed(e.Prices, 0, clock)
	e.Markets = market.New(e.Session, clock)
	e.Accounts = account.New(e.Session, e.Markets, e.Oracle, b, clock, fixed.MustFromString(opts.CloseFactor))
	e.Ledger = ledger.New(e.Session, e.Markets, e.Accounts, b, clock, opts.RepayPolicy)
	return e
}

// MarketConfig ltv 0.5, liquidation threshold 0.8, bonus 0.1, no interest
func MarketConfig(assetID string) core.MarketConfig {
	return core.MarketConfig{
		AssetID:              assetID,
		Symbol:               assetID,
		DepositEnabled:       true,
		BorrowEnabled:        true,
		MaxLoanToValue:       fixed.MustFromString("0.5"),
		LiquidationThreshold: fixed.MustFromString("0.8"),
		LiquidationBonus:     fixed.MustFromString("0.1"),
		InterestRateModel: core.InterestRateModel{
			OptimalUtilization: fixed.MustFromString("0.8"),
			ReserveFactor:      fixed.MustFromString("0.1"),
		},
	}
}

// Advance moves the clock forward
func (e *Env) Advance(d time.Duration) {
	e.Now = e.Now.Add(d)
}

// List lists market cfg
func (e *Env) List(cfg core.MarketConfig) *core.Market {
	m, err := e.Markets.ListMarket(e.Ctx, cfg)
	require.Nil(e.t, err)
	return m
}

// SetPrice records price of asset at the current time
func (e *Env) SetPrice(assetID, price string) {
	require.Nil(e.t, e.Prices.Save(e.Ctx, &core.Price{
		AssetID:   assetID,
		Price:     fixed.MustFromString(price),
		UpdatedAt: e.Now,
	}))
}

// Mint funds a wallet
func (e *Env) Mint(userID, assetID, amount string) {
	require.Nil(e.t, e.Bank.Mint(userID, assetID, fixed.MustFromString(amount)))
}

// Deposit mints amount to user and deposits it
func (e *Env) Deposit(userID, assetID, amount string) {
	e.Mint(userID, assetID, amount)
	_, err := e.Ledger.Deposit(e.Ctx, userID, assetID, fixed.MustFromString(amount))
	require.Nil(e.t, err)
}

// Market committed market state
func (e *Env) Market(assetID string) *core.Market {
	var m *core.Market
	require.Nil(e.t, e.Session.View(e.Ctx, func(tx *core.Tx) error {
		var err error
		m, err = tx.Markets.Find(e.Ctx, assetID)
		return err
	}))
	return m
}

// Position committed position state
func (e *Env) Position(userID, assetID string) *core.Position {
	var p *core.Position
	require.Nil(e.t, e.Session.View(e.Ctx, func(tx *core.Tx) error {
		var err error
		p, err = tx.Positions.Find(e.Ctx, userID, assetID)
		return err
	}))
	return p
}

// Positions committed positions of a market
func (e *Env) Positions(assetID string) []*core.Position {
	var positions []*core.Position
	require.Nil(e.t, e.Session.View(e.Ctx, func(tx *core.Tx) error {
		var err error
		positions, err = tx.Positions.FindByAsset(e.Ctx, assetID)
		return err
	}))
	return positions
}

// Balance real balances of user in asset
func (e *Env) Balance(userID, assetID string) *core.Balance {
	balances, err := e.Accounts.Balances(e.Ctx, userID)
	require.Nil(e.t, err)

	for _, b := range balances {
		if b.AssetID == assetID {
			return b
		}
	}

	return &core.Balance{AssetID: assetID}
}

// RequireConserved scaled totals of the market equal the sum over positions
func (e *Env) RequireConserved(assetID string) {
	var deposits, debt fixed.Dec
	for _, p := range e.Positions(assetID) {
		var err error
		deposits, err = deposits.Add(p.ScaledDeposit)
		require.Nil(e.t, err)
		debt, err = debt.Add(p.ScaledDebt)
		require.Nil(e.t, err)
	}

	m := e.Market(assetID)
	require.Equal(e.t, m.TotalScaledDeposits.String(), deposits.String(), "scaled deposits of %s", assetID)
	require.Equal(e.t, m.TotalScaledDebt.String(), debt.String(), "scaled debt of %s", assetID)
}

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lending/core"
	"lending/internal/action"
	"lending/pkg/compound"
	"lending/pkg/fixed"

	"golang.org/x/sync/errgroup"
)

type accountService struct {
	session     core.Session
	marketSrv   core.IMarketService
	oracle      core.IPriceOracle
	bank        core.IBank
	clock       core.Clock
	closeFactor fixed.Dec
	runner      *action.Runner
}

// New new account service
func New(
	session core.Session,
	marketSrv core.IMarketService,
	oracle core.IPriceOracle,
	bank core.IBank,
	clock core.Clock,
	closeFactor fixed.Dec,
) core.IAccountService {
	return &accountService{
		session:     session,
		marketSrv:   marketSrv,
		oracle:      oracle,
		bank:        bank,
		clock:       clock,
		closeFactor: closeFactor,
		runner:      &action.Runner{Session: session, Clock: clock},
	}
}

func (s *accountService) Balances(ctx context.Context, userID string) ([]*core.Balance, error) {
	var balances []*core.Balance
	err := s.session.View(ctx, func(tx *core.Tx) error {
		positions, err := tx.Positions.FindByUser(ctx, userID)
		if err != nil {
			return err
		}

		markets, err := loadMarkets(ctx, tx, positions, s.clock.Now())
		if err != nil {
			return err
		}

		for _, p := range positions {
			market := markets[p.AssetID]

			deposit, err := compound.DepositBalance(p, market)
			if err != nil {
				return compound.Check(err, "balance/deposit")
			}

			debt, err := compound.DebtBalance(p, market)
			if err != nil {
				return compound.Check(err, "balance/debt")
			}

			balances = append(balances, &core.Balance{
				AssetID:      p.AssetID,
				Deposit:      deposit,
				Debt:         debt,
				IsCollateral: p.IsCollateral,
			})
		}

		return nil
	})

	return balances, err
}

func (s *accountService) ComputeHealth(ctx context.Context, userID string) (*core.Health, error) {
	var health *core.Health
	err := s.session.View(ctx, func(tx *core.Tx) error {
		h, err := s.CalculateHealth(ctx, tx, userID, s.clock.Now())
		health = h
		return err
	})

	return health, err
}

func (s *accountService) CalculateHealth(ctx context.Context, tx *core.Tx, userID string, now time.Time) (*core.Health, error) {
	positions, err := tx.Positions.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// every holding is priced, pledged or not; a missing price anywhere fails the check
	var relevant []*core.Position
	for _, p := range positions {
		if p.ScaledDebt.IsPositive() || p.ScaledDeposit.IsPositive() {
			relevant = append(relevant, p)
		}
	}

	markets, err := loadMarkets(ctx, tx, relevant, now)
	if err != nil {
		return nil, err
	}

	prices, err := s.fetchPrices(ctx, relevant)
	if err != nil {
		return nil, err
	}

	items := make([]compound.HealthItem, len(relevant))
	for idx, p := range relevant {
		items[idx] = compound.HealthItem{
			Position: p,
			Market:   markets[p.AssetID],
			Price:    prices[idx],
		}
	}

	health, err := compound.CalculateHealth(items)
	if err != nil {
		return nil, compound.Check(err, "health")
	}

	return health, nil
}

// fetchPrices queries the oracle for every position concurrently
func (s *accountService) fetchPrices(ctx context.Context, positions []*core.Position) ([]fixed.Dec, error) {
	prices := make([]fixed.Dec, len(positions))

	g, ctx := errgroup.WithContext(ctx)
	for idx, p := range positions {
		idx, assetID := idx, p.AssetID
		g.Go(func() error {
			price, err := s.oracle.GetPrice(ctx, assetID)
			if err != nil {
				if errors.Is(err, core.ErrPriceUnavailable) {
					return err
				}

				return fmt.Errorf("price %s: %v: %w", assetID, err, core.ErrPriceUnavailable)
			}

			if err := compound.Require(price.IsPositive(), "price/"+assetID, core.ErrPriceUnavailable); err != nil {
				return err
			}

			prices[idx] = price
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return prices, nil
}

// loadMarkets markets of positions keyed by asset, accrued to now in memory only
func loadMarkets(ctx context.Context, tx *core.Tx, positions []*core.Position, now time.Time) (map[string]*core.Market, error) {
	markets := make(map[string]*core.Market, len(positions))
	for _, p := range positions {
		if _, ok := markets[p.AssetID]; ok {
			continue
		}

		market, err := tx.Markets.Find(ctx, p.AssetID)
		if err != nil {
			return nil, err
		}

		if err := compound.Require(market.ID > 0, "market/"+p.AssetID, core.ErrInvariantBroken); err != nil {
			return nil, err
		}

		if err := compound.AccrueInterest(market, now); err != nil {
			return nil, err
		}

		markets[p.AssetID] = market
	}

	return markets, nil
}

package market

import (
	"context"
	"fmt"
	"time"

	"lending/core"
	"lending/internal/action"
	"lending/pkg/compound"
	"lending/pkg/fixed"

	"github.com/fox-one/pkg/logger"
)

type service struct {
	session core.Session
	clock   core.Clock
	runner  *action.Runner
}

// New new market service
func New(session core.Session, clock core.Clock) core.IMarketService {
	return &service{
		session: session,
		clock:   clock,
		runner:  &action.Runner{Session: session, Clock: clock},
	}
}

func (s *service) Find(ctx context.Context, assetID string) (*core.Market, error) {
	var market *core.Market
	err := s.session.View(ctx, func(tx *core.Tx) error {
		m, err := find(ctx, tx, assetID)
		if err != nil {
			return err
		}

		market = m
		return compound.AccrueInterest(market, s.clock.Now())
	})

	return market, err
}

func (s *service) All(ctx context.Context) ([]*core.Market, error) {
	var markets []*core.Market
	err := s.session.View(ctx, func(tx *core.Tx) error {
		all, err := tx.Markets.All(ctx)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		for _, m := range all {
			if err := compound.AccrueInterest(m, now); err != nil {
				return fmt.Errorf("market %s: %w", m.AssetID, err)
			}
		}

		markets = all
		return nil
	})

	return markets, err
}

func (s *service) ListMarket(ctx context.Context, cfg core.MarketConfig) (*core.Market, error) {
	if err := compound.ValidateMarketConfig(cfg); err != nil {
		return nil, err
	}

	var market *core.Market
	_, err := s.runner.Run(ctx, core.ActionTypeListMarket, "", cfg.AssetID, func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, action.Settle, error) {
		existing, err := tx.Markets.Find(ctx, cfg.AssetID)
		if err != nil {
			return nil, nil, err
		}

		if err := compound.Require(existing.ID == 0, "market/exists", core.ErrMarketExists); err != nil {
			return nil, nil, err
		}

		market = &core.Market{
			AssetID:              cfg.AssetID,
			BorrowIndex:          fixed.One,
			LiquidityIndex:       fixed.One,
			InterestsLastUpdated: now.Unix(),
		}
		market.ApplyConfig(cfg)

		if err := tx.Markets.Create(ctx, market); err != nil {
			return nil, nil, err
		}

		logger.FromContext(ctx).Infof("market %s listed", market.Symbol)
		return configTransaction(cfg), nil, nil
	})
	if err != nil {
		return nil, err
	}

	return market, nil
}

func (s *service) UpdateMarketConfig(ctx context.Context, cfg core.MarketConfig) (*core.Market, error) {
	if err := compound.ValidateMarketConfig(cfg); err != nil {
		return nil, err
	}

	var market *core.Market
	_, err := s.runner.Run(ctx, core.ActionTypeUpdateMarket, "", cfg.AssetID, func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, action.Settle, error) {
		// interest up to now accrues on the old curve
		m, err := s.Require(ctx, tx, cfg.AssetID, now)
		if err != nil {
			return nil, nil, err
		}

		m.ApplyConfig(cfg)
		if err := tx.Markets.Update(ctx, m); err != nil {
			return nil, nil, err
		}

		market = m
		return configTransaction(cfg), nil, nil
	})
	if err != nil {
		return nil, err
	}

	return market, nil
}

func (s *service) Require(ctx context.Context, tx *core.Tx, assetID string, now time.Time) (*core.Market, error) {
	market, err := find(ctx, tx, assetID)
	if err != nil {
		return nil, err
	}

	last := market.InterestsLastUpdated
	if err := compound.AccrueInterest(market, now); err != nil {
		return nil, err
	}

	if market.InterestsLastUpdated != last {
		if err := tx.Markets.Update(ctx, market); err != nil {
			return nil, err
		}
	}

	return market, nil
}

func find(ctx context.Context, tx *core.Tx, assetID string) (*core.Market, error) {
	market, err := tx.Markets.Find(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if err := compound.Require(market.ID > 0, "market/"+assetID, core.ErrMarketNotFound); err != nil {
		return nil, err
	}

	return market, nil
}

func configTransaction(cfg core.MarketConfig) *core.Transaction {
	t := &core.Transaction{}
	extra := core.NewTransactionExtra()
	extra.Put("config", cfg)
	t.SetExtraData(extra)
	return t
}

package ledger

import (
	"context"
	"time"

	"lending/core"
	"lending/internal/action"
	"lending/pkg/compound"
	"lending/pkg/fixed"

	"github.com/fox-one/pkg/logger"
)

func (s *service) Deposit(ctx context.Context, userID, assetID string, amount fixed.Dec) (*core.Transaction, error) {
	if err := compound.Require(amount.IsPositive(), "deposit/amount", core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	return s.runner.Run(ctx, core.ActionTypeDeposit, userID, assetID, func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, action.Settle, error) {
		market, position, err := s.load(ctx, tx, userID, assetID, now)
		if err != nil {
			return nil, nil, err
		}

		if err := compound.Require(market.DepositEnabled, "deposit/disabled", core.ErrDisabled); err != nil {
			return nil, nil, err
		}

		scaled, err := compound.ScaledDeposit(amount, market)
		if err != nil {
			return nil, nil, compound.Check(err, "deposit/scale")
		}

		if err := compound.Require(scaled.IsPositive(), "deposit/amount-too-small", core.ErrInvalidAmount); err != nil {
			return nil, nil, err
		}

		// 首次存入默认作为抵押
		if position.ScaledDeposit.IsZero() {
			position.IsCollateral = true
		}

		if position.ScaledDeposit, err = position.ScaledDeposit.Add(scaled); err != nil {
			return nil, nil, compound.Check(err, "deposit/position")
		}

		if market.TotalScaledDeposits, err = market.TotalScaledDeposits.Add(scaled); err != nil {
			return nil, nil, compound.Check(err, "deposit/market")
		}

		if err := s.save(ctx, tx, market, position); err != nil {
			return nil, nil, err
		}

		logger.FromContext(ctx).Infof("deposit %s, scaled %s at index %s", amount, scaled, market.LiquidityIndex)

		transaction := newTransaction(amount, scaledExtra(scaled, market.LiquidityIndex))
		return transaction, func(ctx context.Context) error {
			return s.bank.Debit(ctx, userID, assetID, amount)
		}, nil
	})
}

func (s *service) Withdraw(ctx context.Context, userID, assetID string, amount fixed.Dec) (*core.Transaction, error) {
	if err := compound.Require(amount.IsPositive(), "withdraw/amount", core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	return s.runner.Run(ctx, core.ActionTypeWithdraw, userID, assetID, func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, action.Settle, error) {
		market, position, err := s.load(ctx, tx, userID, assetID, now)
		if err != nil {
			return nil, nil, err
		}

		if err := compound.Require(position.ScaledDeposit.IsPositive(), "withdraw/no-deposit", core.ErrPositionNotFound); err != nil {
			return nil, nil, err
		}

		deposit, err := compound.DepositBalance(position, market)
		if err != nil {
			return nil, nil, compound.Check(err, "withdraw/balance")
		}

		if err := compound.Require(amount.LessThanOrEqual(deposit), "withdraw/exceeds-deposit", core.ErrInsufficientBalance); err != nil {
			return nil, nil, err
		}

		available, err := compound.AvailableLiquidity(market)
		if err != nil {
			return nil, nil, compound.Check(err, "withdraw/liquidity")
		}

		if err := compound.Require(amount.LessThanOrEqual(available), "withdraw/liquidity", core.ErrInsufficientLiquidity); err != nil {
			return nil, nil, err
		}

		scaled := position.ScaledDeposit
		if amount.LessThan(deposit) {
			if scaled, err = compound.ScaledDeposit(amount, market); err != nil {
				return nil, nil, compound.Check(err, "withdraw/scale")
			}
		}

		if err := compound.Require(scaled.IsPositive(), "withdraw/amount-too-small", core.ErrInvalidAmount); err != nil {
			return nil, nil, err
		}

		if position.ScaledDeposit, err = position.ScaledDeposit.Sub(scaled); err != nil {
			return nil, nil, compound.Check(err, "withdraw/position")
		}

		if market.TotalScaledDeposits, err = market.TotalScaledDeposits.Sub(scaled); err != nil {
			return nil, nil, compound.Check(err, "withdraw/market")
		}

		if err := s.save(ctx, tx, market, position); err != nil {
			return nil, nil, err
		}

		if position.IsCollateral {
			if err := s.requireHealthy(ctx, tx, userID, now); err != nil {
				return nil, nil, err
			}
		}

		logger.FromContext(ctx).Infof("withdraw %s, scaled %s at index %s", amount, scaled, market.LiquidityIndex)

		transaction := newTransaction(amount, scaledExtra(scaled, market.LiquidityIndex))
		return transaction, func(ctx context.Context) error {
			return s.bank.Credit(ctx, userID, assetID, amount)
		}, nil
	})
}

func (s *service) SetCollateral(ctx context.Context, userID, assetID string, enabled bool) (*core.Transaction, error) {
	return s.runner.Run(ctx, core.ActionTypeCollateral, userID, assetID, func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, action.Settle, error) {
		market, position, err := s.load(ctx, tx, userID, assetID, now)
		if err != nil {
			return nil, nil, err
		}

		if err := compound.Require(position.ScaledDeposit.IsPositive(), "collateral/no-deposit", core.ErrPositionNotFound); err != nil {
			return nil, nil, err
		}

		changed := position.IsCollateral != enabled
		if changed {
			position.IsCollateral = enabled
			if err := s.save(ctx, tx, market, position); err != nil {
				return nil, nil, err
			}

			if !enabled {
				if err := s.requireHealthy(ctx, tx, userID, now); err != nil {
					return nil, nil, err
				}
			}
		}

		transaction := &core.Transaction{}
		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyCollateral, enabled)
		transaction.SetExtraData(extra)
		return transaction, nil, nil
	})
}

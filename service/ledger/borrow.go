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

func (s *service) Borrow(ctx context.Context, userID, assetID string, amount fixed.Dec) (*core.Transaction, error) {
	if err := compound.Require(amount.IsPositive(), "borrow/amount", core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	return s.runner.Run(ctx, core.ActionTypeBorrow, userID, assetID, func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, action.Settle, error) {
		market, position, err := s.load(ctx, tx, userID, assetID, now)
		if err != nil {
			return nil, nil, err
		}

		if err := compound.Require(market.BorrowEnabled, "borrow/disabled", core.ErrDisabled); err != nil {
			return nil, nil, err
		}

		available, err := compound.AvailableLiquidity(market)
		if err != nil {
			return nil, nil, compound.Check(err, "borrow/liquidity")
		}

		if err := compound.Require(amount.LessThanOrEqual(available), "borrow/liquidity", core.ErrInsufficientLiquidity); err != nil {
			return nil, nil, err
		}

		scaled, err := compound.ScaledDebt(amount, market)
		if err != nil {
			return nil, nil, compound.Check(err, "borrow/scale")
		}

		if err := compound.Require(scaled.IsPositive(), "borrow/amount-too-small", core.ErrInvalidAmount); err != nil {
			return nil, nil, err
		}

		if position.ScaledDebt, err = position.ScaledDebt.Add(scaled); err != nil {
			return nil, nil, compound.Check(err, "borrow/position")
		}

		if market.TotalScaledDebt, err = market.TotalScaledDebt.Add(scaled); err != nil {
			return nil, nil, compound.Check(err, "borrow/market")
		}

		if err := s.save(ctx, tx, market, position); err != nil {
			return nil, nil, err
		}

		if err := s.requireHealthy(ctx, tx, userID, now); err != nil {
			return nil, nil, err
		}

		logger.FromContext(ctx).Infof("borrow %s, scaled %s at index %s", amount, scaled, market.BorrowIndex)

		transaction := newTransaction(amount, scaledExtra(scaled, market.BorrowIndex))
		return transaction, func(ctx context.Context) error {
			return s.bank.Credit(ctx, userID, assetID, amount)
		}, nil
	})
}

func (s *service) Repay(ctx context.Context, userID, assetID string, amount fixed.Dec) (*core.Transaction, error) {
	if err := compound.Require(amount.IsPositive(), "repay/amount", core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	return s.runner.Run(ctx, core.ActionTypeRepay, userID, assetID, func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, action.Settle, error) {
		market, position, err := s.load(ctx, tx, userID, assetID, now)
		if err != nil {
			return nil, nil, err
		}

		debt, err := compound.DebtBalance(position, market)
		if err != nil {
			return nil, nil, compound.Check(err, "repay/balance")
		}

		if err := compound.Require(debt.IsPositive(), "repay/no-debt", core.ErrPositionNotFound); err != nil {
			return nil, nil, err
		}

		repay := amount
		if amount.GreaterThan(debt) {
			if err := compound.Require(s.repayPolicy != core.RepayPolicyReject, "repay/exceeds-debt", core.ErrRepayExceedsDebt); err != nil {
				return nil, nil, err
			}

			repay = debt
		}

		scaled := position.ScaledDebt
		if repay.LessThan(debt) {
			if scaled, err = compound.ScaledDebt(repay, market); err != nil {
				return nil, nil, compound.Check(err, "repay/scale")
			}
		}

		if err := compound.Require(scaled.IsPositive(), "repay/amount-too-small", core.ErrInvalidAmount); err != nil {
			return nil, nil, err
		}

		if position.ScaledDebt, err = position.ScaledDebt.Sub(scaled); err != nil {
			return nil, nil, compound.Check(err, "repay/position")
		}

		if market.TotalScaledDebt, err = market.TotalScaledDebt.Sub(scaled); err != nil {
			return nil, nil, compound.Check(err, "repay/market")
		}

		if err := s.save(ctx, tx, market, position); err != nil {
			return nil, nil, err
		}

		log := logger.FromContext(ctx)
		log.Infof("repay %s, scaled %s at index %s", repay, scaled, market.BorrowIndex)

		extra := scaledExtra(scaled, market.BorrowIndex)
		if refund := amount.SubFloor(repay); refund.IsPositive() {
			log.Infof("refund %s", refund)
			extra.Put(core.TransactionKeyRefund, refund)
		}

		transaction := newTransaction(repay, extra)

		return transaction, func(ctx context.Context) error {
			return s.bank.Debit(ctx, userID, assetID, repay)
		}, nil
	})
}

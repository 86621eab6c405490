package account

import (
	"context"
	"time"

	"lending/core"
	"lending/internal/action"
	"lending/pkg/compound"
	"lending/pkg/fixed"

	"github.com/fox-one/pkg/logger"
)

func (s *accountService) Liquidate(ctx context.Context, req *core.LiquidateRequest) (*core.Transaction, error) {
	if err := compound.Require(compound.ValidIdentifier(req.Liquidator) && compound.ValidIdentifier(req.UserID), "liquidate/invalid-user", core.ErrInvalidArgument); err != nil {
		return nil, err
	}

	if err := compound.Require(req.Liquidator != req.UserID, "liquidate/self", core.ErrInvalidArgument); err != nil {
		return nil, err
	}

	if err := compound.Require(req.Amount.IsPositive(), "liquidate/amount", core.ErrInvalidAmount); err != nil {
		return nil, err
	}

	return s.runner.Run(ctx, core.ActionTypeLiquidate, req.UserID, req.DebtAsset, func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, action.Settle, error) {
		return s.liquidate(ctx, tx, req, now)
	})
}

func (s *accountService) liquidate(ctx context.Context, tx *core.Tx, req *core.LiquidateRequest, now time.Time) (*core.Transaction, action.Settle, error) {
	log := logger.FromContext(ctx).WithField("liquidator", req.Liquidator)

	debtMarket, err := s.marketSrv.Require(ctx, tx, req.DebtAsset, now)
	if err != nil {
		return nil, nil, err
	}

	collateralMarket := debtMarket
	if req.CollateralAsset != req.DebtAsset {
		if collateralMarket, err = s.marketSrv.Require(ctx, tx, req.CollateralAsset, now); err != nil {
			return nil, nil, err
		}
	}

	health, err := s.CalculateHealth(ctx, tx, req.UserID, now)
	if err != nil {
		return nil, nil, err
	}

	if err := compound.Require(health.IsLiquidatable(), "liquidate/healthy", core.ErrNotLiquidatable); err != nil {
		return nil, nil, err
	}

	debtPosition, err := tx.Positions.Find(ctx, req.UserID, req.DebtAsset)
	if err != nil {
		return nil, nil, err
	}

	collateralPosition := debtPosition
	if req.CollateralAsset != req.DebtAsset {
		if collateralPosition, err = tx.Positions.Find(ctx, req.UserID, req.CollateralAsset); err != nil {
			return nil, nil, err
		}
	}

	if err := compound.Require(collateralPosition.IsCollateral && collateralPosition.ScaledDeposit.IsPositive(), "liquidate/no-collateral", core.ErrPositionNotFound); err != nil {
		return nil, nil, err
	}

	debt, err := compound.DebtBalance(debtPosition, debtMarket)
	if err != nil {
		return nil, nil, compound.Check(err, "liquidate/debt")
	}

	if err := compound.Require(debt.IsPositive(), "liquidate/no-debt", core.ErrPositionNotFound); err != nil {
		return nil, nil, err
	}

	collateral, err := compound.DepositBalance(collateralPosition, collateralMarket)
	if err != nil {
		return nil, nil, compound.Check(err, "liquidate/collateral")
	}

	debtPrice, collateralPrice := health.Prices[req.DebtAsset], health.Prices[req.CollateralAsset]
	repay, seize, err := compound.SeizeAmounts(compound.SeizeInput{
		Amount:           req.Amount,
		Debt:             debt,
		Collateral:       collateral,
		DebtPrice:        debtPrice,
		CollateralPrice:  collateralPrice,
		LiquidationBonus: collateralMarket.LiquidationBonus,
		CloseFactor:      s.closeFactor,
	})
	if err != nil {
		return nil, nil, compound.Check(err, "liquidate/seize")
	}

	scaledRepay := debtPosition.ScaledDebt
	if repay.LessThan(debt) {
		if scaledRepay, err = compound.ScaledDebt(repay, debtMarket); err != nil {
			return nil, nil, compound.Check(err, "liquidate/scaled-repay")
		}
	}

	scaledSeize := collateralPosition.ScaledDeposit
	if seize.LessThan(collateral) {
		if scaledSeize, err = compound.ScaledDeposit(seize, collateralMarket); err != nil {
			return nil, nil, compound.Check(err, "liquidate/scaled-seize")
		}
	}

	if err := compound.Require(scaledRepay.IsPositive() && scaledSeize.IsPositive(), "liquidate/amount-too-small", core.ErrInvalidAmount); err != nil {
		return nil, nil, err
	}

	if debtPosition.ScaledDebt, err = debtPosition.ScaledDebt.Sub(scaledRepay); err != nil {
		return nil, nil, compound.Check(err, "liquidate/position-debt")
	}

	if debtMarket.TotalScaledDebt, err = debtMarket.TotalScaledDebt.Sub(scaledRepay); err != nil {
		return nil, nil, compound.Check(err, "liquidate/market-debt")
	}

	if collateralPosition.ScaledDeposit, err = collateralPosition.ScaledDeposit.Sub(scaledSeize); err != nil {
		return nil, nil, compound.Check(err, "liquidate/position-collateral")
	}

	liquidatorPosition, err := tx.Positions.Find(ctx, req.Liquidator, req.CollateralAsset)
	if err != nil {
		return nil, nil, err
	}

	if liquidatorPosition.ScaledDeposit, err = liquidatorPosition.ScaledDeposit.Add(scaledSeize); err != nil {
		return nil, nil, compound.Check(err, "liquidate/liquidator-deposit")
	}

	positions := []*core.Position{debtPosition, liquidatorPosition}
	if collateralPosition != debtPosition {
		positions = append(positions, collateralPosition)
	}

	for _, p := range positions {
		if err := tx.Positions.Save(ctx, p); err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Markets.Update(ctx, debtMarket); err != nil {
		return nil, nil, err
	}

	log.Infof("repay %s %s, seize %s %s", repay, req.DebtAsset, seize, req.CollateralAsset)

	transaction := &core.Transaction{
		UserID:  req.UserID,
		AssetID: req.DebtAsset,
		Amount:  repay,
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyLiquidator, req.Liquidator)
	extra.Put(core.TransactionKeyCollateralAssetID, req.CollateralAsset)
	extra.Put(core.TransactionKeySeizedAmount, seize)
	extra.Put(core.TransactionKeyScaledAmount, scaledRepay)
	extra.Put(core.TransactionKeyPrice, map[string]fixed.Dec{
		req.DebtAsset:       debtPrice,
		req.CollateralAsset: collateralPrice,
	})
	if refund := req.Amount.SubFloor(repay); refund.IsPositive() {
		extra.Put(core.TransactionKeyRefund, refund)
	}
	transaction.SetExtraData(extra)

	settle := func(ctx context.Context) error {
		return s.bank.Debit(ctx, req.Liquidator, req.DebtAsset, repay)
	}

	return transaction, settle, nil
}

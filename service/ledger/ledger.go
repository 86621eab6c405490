package ledger

import (
	"context"
	"time"

	"lending/core"
	"lending/internal/action"
	"lending/pkg/compound"
	"lending/pkg/fixed"
)

type service struct {
	marketSrv   core.IMarketService
	accountSrv  core.IAccountService
	bank        core.IBank
	repayPolicy string
	runner      *action.Runner
}

// New new ledger service
func New(
	session core.Session,
	marketSrv core.IMarketService,
	accountSrv core.IAccountService,
	bank core.IBank,
	clock core.Clock,
	repayPolicy string,
) core.ILedgerService {
	return &service{
		marketSrv:   marketSrv,
		accountSrv:  accountSrv,
		bank:        bank,
		repayPolicy: repayPolicy,
		runner:      &action.Runner{Session: session, Clock: clock},
	}
}

// load market accrued to now and the user's position in it
func (s *service) load(ctx context.Context, tx *core.Tx, userID, assetID string, now time.Time) (*core.Market, *core.Position, error) {
	if err := compound.Require(compound.ValidIdentifier(userID), "user/invalid-id", core.ErrInvalidArgument); err != nil {
		return nil, nil, err
	}

	market, err := s.marketSrv.Require(ctx, tx, assetID, now)
	if err != nil {
		return nil, nil, err
	}

	position, err := tx.Positions.Find(ctx, userID, assetID)
	if err != nil {
		return nil, nil, err
	}

	return market, position, nil
}

func (s *service) save(ctx context.Context, tx *core.Tx, market *core.Market, position *core.Position) error {
	if err := tx.Positions.Save(ctx, position); err != nil {
		return err
	}

	return tx.Markets.Update(ctx, market)
}

func (s *service) requireHealthy(ctx context.Context, tx *core.Tx, userID string, now time.Time) error {
	health, err := s.accountSrv.CalculateHealth(ctx, tx, userID, now)
	if err != nil {
		return err
	}

	return compound.Require(health.IsHealthy(), "health-check", core.ErrHealthCheckFailed)
}

func newTransaction(amount fixed.Dec, extra core.TransactionExtraData) *core.Transaction {
	transaction := &core.Transaction{Amount: amount}
	transaction.SetExtraData(extra)
	return transaction
}

func scaledExtra(scaled, index fixed.Dec) core.TransactionExtraData {
	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyScaledAmount, scaled)
	extra.Put(core.TransactionKeyIndex, index)
	return extra
}

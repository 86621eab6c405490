package action

import (
	"context"
	"fmt"
	"time"

	"lending/core"
	"lending/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Settle external token movement, runs after the audit record is written
// and before the unit of work commits
type Settle func(ctx context.Context) error

// Handler applies the effects of one action inside tx
type Handler func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, Settle, error)

// Runner runs state changing actions
type Runner struct {
	Session core.Session
	Clock   core.Clock
}

// Run reentrancy guard, then handle, record and settle in one unit of work
func (r *Runner) Run(ctx context.Context, action core.ActionType, userID, assetID string, handle Handler) (*core.Transaction, error) {
	ctx, err := core.EnterAction(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	traceID := core.TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = id.GenTraceID()
		ctx = core.WithTraceID(ctx, traceID)
	}

	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"action":   action.String(),
		"user_id":  userID,
		"asset_id": assetID,
		"trace_id": traceID,
	})
	ctx = logger.WithContext(ctx, log)

	now := r.Clock.Now()

	var result *core.Transaction
	err = r.Session.Tx(ctx, func(tx *core.Tx) error {
		existing, err := tx.Transactions.FindByTraceID(ctx, traceID)
		if err != nil {
			return err
		}

		if existing.ID > 0 {
			if existing.Action != action || existing.UserID != userID || existing.AssetID != assetID {
				return fmt.Errorf("trace id %s already used by %s: %w", traceID, existing.Action, core.ErrInvalidArgument)
			}

			log.Infoln("trace already handled")
			result = existing
			return nil
		}

		transaction, settle, err := handle(ctx, tx, now)
		if err != nil {
			return err
		}

		transaction.Action = action
		transaction.TraceID = traceID
		transaction.CreatedAt = now
		if transaction.UserID == "" {
			transaction.UserID = userID
		}
		if transaction.AssetID == "" {
			transaction.AssetID = assetID
		}
		if len(transaction.Data) == 0 {
			transaction.SetExtraData(nil)
		}

		if err := tx.Transactions.Create(ctx, transaction); err != nil {
			return err
		}

		if settle != nil {
			if err := settle(ctx); err != nil {
				return err
			}
		}

		result = transaction
		return nil
	})

	if err != nil {
		log.WithError(err).Infoln("action rejected")
		return nil, err
	}

	log.Debugln("action applied")
	return result, nil
}

package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"lending/core"
	"lending/pkg/fixed"
	"lending/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner() (*Runner, *memory.Session) {
	clock := core.Clock(func() time.Time { return time.Unix(1_600_000_000, 0) })
	session := memory.New(clock)
	return &Runner{Session: session, Clock: clock}, session
}

func createMarket(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, Settle, error) {
	if err := tx.Markets.Create(ctx, &core.Market{AssetID: "a", BorrowIndex: fixed.One, LiquidityIndex: fixed.One}); err != nil {
		return nil, nil, err
	}

	return &core.Transaction{Amount: fixed.One}, nil, nil
}

func countMarkets(t *testing.T, session *memory.Session) int {
	var n int
	require.Nil(t, session.View(context.Background(), func(tx *core.Tx) error {
		markets, err := tx.Markets.All(context.Background())
		n = len(markets)
		return err
	}))
	return n
}

func TestRun(t *testing.T) {
	r, session := newRunner()
	ctx := context.Background()

	transaction, err := r.Run(ctx, core.ActionTypeListMarket, "admin", "a", createMarket)
	require.Nil(t, err)
	assert.Equal(t, core.ActionTypeListMarket, transaction.Action)
	assert.Equal(t, "admin", transaction.UserID)
	assert.Equal(t, "a", transaction.AssetID)
	assert.NotEmpty(t, transaction.TraceID)
	assert.JSONEq(t, "{}", string(transaction.Data))
	assert.Equal(t, 1, countMarkets(t, session))
}

func TestRunSettleFailureRollsBack(t *testing.T) {
	r, session := newRunner()

	_, err := r.Run(context.Background(), core.ActionTypeListMarket, "admin", "a", func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, Settle, error) {
		transaction, _, err := createMarket(ctx, tx, now)
		return transaction, func(ctx context.Context) error {
			return core.ErrInsufficientBalance
		}, err
	})

	assert.ErrorIs(t, err, core.ErrInsufficientBalance)
	assert.Equal(t, 0, countMarkets(t, session))
}

func TestRunIdempotent(t *testing.T) {
	r, session := newRunner()
	ctx := core.WithTraceID(context.Background(), "trace")

	first, err := r.Run(ctx, core.ActionTypeListMarket, "admin", "a", createMarket)
	require.Nil(t, err)

	second, err := r.Run(ctx, core.ActionTypeListMarket, "admin", "a", func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, Settle, error) {
		return nil, nil, errors.New("must not run")
	})
	require.Nil(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "trace", second.TraceID)
	assert.Equal(t, 1, countMarkets(t, session))

	mustNotRun := func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, Settle, error) {
		return nil, nil, errors.New("must not run")
	}

	// the trace belongs to another call
	_, err = r.Run(ctx, core.ActionTypeBorrow, "admin", "a", mustNotRun)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = r.Run(ctx, core.ActionTypeListMarket, "alice", "a", mustNotRun)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = r.Run(ctx, core.ActionTypeListMarket, "admin", "b", mustNotRun)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Equal(t, 1, countMarkets(t, session))
}

func TestRunReentrant(t *testing.T) {
	r, _ := newRunner()

	_, err := r.Run(context.Background(), core.ActionTypeDeposit, "u", "a", func(ctx context.Context, tx *core.Tx, now time.Time) (*core.Transaction, Settle, error) {
		_, err := r.Run(ctx, core.ActionTypeDeposit, "u", "a", createMarket)
		return nil, nil, err
	})

	assert.ErrorIs(t, err, core.ErrReentrant)
}

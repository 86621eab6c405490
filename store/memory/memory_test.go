package memory

import (
	"context"
	"errors"
	"testing"

	"lending/core"
	"lending/pkg/fixed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRollback(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	require.Nil(t, s.Tx(ctx, func(tx *core.Tx) error {
		return tx.Markets.Create(ctx, &core.Market{AssetID: "btc"})
	}))

	boom := errors.New("boom")
	err := s.Tx(ctx, func(tx *core.Tx) error {
		m, err := tx.Markets.Find(ctx, "btc")
		require.Nil(t, err)
		m.TotalScaledDeposits = fixed.New(1)
		require.Nil(t, tx.Markets.Update(ctx, m))

		require.Nil(t, tx.Positions.Save(ctx, &core.Position{UserID: "alice", AssetID: "btc", ScaledDeposit: fixed.New(1)}))
		require.Nil(t, tx.Transactions.Create(ctx, &core.Transaction{TraceID: "t1"}))
		return boom
	})
	assert.Equal(t, boom, err)

	require.Nil(t, s.View(ctx, func(tx *core.Tx) error {
		m, err := tx.Markets.Find(ctx, "btc")
		require.Nil(t, err)
		assert.True(t, m.TotalScaledDeposits.IsZero())
		assert.Equal(t, int64(0), m.Version)

		p, err := tx.Positions.Find(ctx, "alice", "btc")
		require.Nil(t, err)
		assert.Equal(t, uint64(0), p.ID)

		list, err := tx.Transactions.List(ctx, 0, 10)
		require.Nil(t, err)
		assert.Empty(t, list)
		return nil
	}))
}

func TestMarkets(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	require.Nil(t, s.Tx(ctx, func(tx *core.Tx) error {
		for _, asset := range []string{"c", "a", "b"} {
			require.Nil(t, tx.Markets.Create(ctx, &core.Market{AssetID: asset}))
		}

		assert.ErrorIs(t, tx.Markets.Create(ctx, &core.Market{AssetID: "a"}), core.ErrMarketExists)

		stale, err := tx.Markets.Find(ctx, "a")
		require.Nil(t, err)
		fresh := *stale
		require.Nil(t, tx.Markets.Update(ctx, &fresh))
		assert.ErrorIs(t, tx.Markets.Update(ctx, stale), core.ErrInvariantBroken)
		return nil
	}))

	require.Nil(t, s.View(ctx, func(tx *core.Tx) error {
		markets, err := tx.Markets.All(ctx)
		require.Nil(t, err)
		require.Len(t, markets, 3)
		assert.Equal(t, "c", markets[0].AssetID)
		assert.Equal(t, "a", markets[1].AssetID)
		assert.Equal(t, "b", markets[2].AssetID)

		// writes in a view are discarded
		return tx.Markets.Create(ctx, &core.Market{AssetID: "d"})
	}))

	require.Nil(t, s.View(ctx, func(tx *core.Tx) error {
		m, err := tx.Markets.Find(ctx, "d")
		require.Nil(t, err)
		assert.Equal(t, uint64(0), m.ID)
		return nil
	}))
}

func TestPositions(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	require.Nil(t, s.Tx(ctx, func(tx *core.Tx) error {
		p := &core.Position{UserID: "alice", AssetID: "btc", ScaledDebt: fixed.New(1)}
		require.Nil(t, tx.Positions.Save(ctx, p))
		require.Nil(t, tx.Positions.Save(ctx, &core.Position{UserID: "bob", AssetID: "btc", ScaledDeposit: fixed.New(2)}))
		require.Nil(t, tx.Positions.Save(ctx, &core.Position{UserID: "alice", AssetID: "eth", ScaledDeposit: fixed.New(3)}))

		positions, err := tx.Positions.FindByAsset(ctx, "btc")
		require.Nil(t, err)
		require.Len(t, positions, 2)
		assert.Equal(t, "alice", positions[0].UserID)

		p.ScaledDebt = fixed.Zero
		require.Nil(t, tx.Positions.Save(ctx, p))

		positions, err = tx.Positions.FindByUser(ctx, "alice")
		require.Nil(t, err)
		require.Len(t, positions, 1)
		assert.Equal(t, "eth", positions[0].AssetID)
		return nil
	}))
}

func TestTransactions(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	require.Nil(t, s.Tx(ctx, func(tx *core.Tx) error {
		for _, trace := range []string{"t1", "t2", "t3"} {
			require.Nil(t, tx.Transactions.Create(ctx, &core.Transaction{TraceID: trace, UserID: "alice"}))
		}

		dup := &core.Transaction{TraceID: "t2", UserID: "bob"}
		require.Nil(t, tx.Transactions.Create(ctx, dup))
		assert.Equal(t, int64(2), dup.ID)
		assert.Equal(t, "alice", dup.UserID)
		return nil
	}))

	require.Nil(t, s.View(ctx, func(tx *core.Tx) error {
		list, err := tx.Transactions.List(ctx, 1, 1)
		require.Nil(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "t2", list[0].TraceID)

		list, err = tx.Transactions.ListByUser(ctx, "bob", 0, 10)
		require.Nil(t, err)
		assert.Empty(t, list)

		found, err := tx.Transactions.FindByTraceID(ctx, "t3")
		require.Nil(t, err)
		assert.Equal(t, int64(3), found.ID)
		return nil
	}))
}

package liquidity

import (
	"testing"
	"time"

	"lending/internal/testenv"
	"lending/pkg/fixed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnWork(t *testing.T) {
	env := testenv.New(t, testenv.Options{})
	env.List(testenv.MarketConfig("a"))
	env.List(testenv.MarketConfig("b"))
	env.SetPrice("a", "1")
	env.SetPrice("b", "1")

	env.Deposit("lp", "b", "1000")
	env.Deposit("alice", "a", "100")
	env.Deposit("bob", "a", "100")
	env.Deposit("carol", "a", "100")

	for user, amount := range map[string]uint64{"alice": 45, "bob": 20} {
		_, err := env.Ledger.Borrow(env.Ctx, user, "b", fixed.New(amount))
		require.Nil(t, err)
	}

	w := New(time.Minute, env.Session, env.Accounts)
	require.Nil(t, w.onWork(env.Ctx))
	assert.Empty(t, w.Candidates())

	// alice: 100 * 0.5 * 0.8 = 40 < 45, bob: 40 >= 20
	env.SetPrice("a", "0.5")
	require.Nil(t, w.onWork(env.Ctx))

	candidates := w.Candidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, "alice", candidates[0].UserID)
	assert.Equal(t, "45", candidates[0].Health.DebtValue.String())
}

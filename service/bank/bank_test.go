package bank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lending/core"
	"lending/pkg/fixed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	b := NewMemory()
	require.Nil(t, b.Mint("alice", "btc", fixed.New(10)))

	assert.ErrorIs(t, b.Debit(ctx, "alice", "btc", fixed.New(11)), core.ErrInsufficientBalance)
	require.Nil(t, b.Debit(ctx, "alice", "btc", fixed.New(4)))
	assert.Equal(t, "6", b.Balance("alice", "btc").String())
	assert.Equal(t, "4", b.Balance(Vault, "btc").String())

	require.Nil(t, b.Credit(ctx, "bob", "btc", fixed.New(3)))
	assert.Equal(t, "3", b.Balance("bob", "btc").String())
	assert.ErrorIs(t, b.Credit(ctx, "bob", "btc", fixed.New(3)), core.ErrInvariantBroken)
}

func TestHTTP(t *testing.T) {
	var received []transferRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req transferRequest
		require.Nil(t, json.NewDecoder(r.Body).Decode(&req))
		received = append(received, req)

		if req.Direction == directionDebit && req.Amount.GreaterThan(fixed.New(5)) {
			w.WriteHeader(http.StatusPaymentRequired)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	b := NewHTTP(srv.URL)
	ctx := core.WithTraceID(context.Background(), "a3e1c1f0-0000-4000-8000-000000000001")

	require.Nil(t, b.Credit(ctx, "alice", "btc", fixed.New(1)))
	require.Nil(t, b.Debit(ctx, "alice", "btc", fixed.New(2)))
	assert.ErrorIs(t, b.Debit(ctx, "alice", "btc", fixed.New(6)), core.ErrInsufficientBalance)

	require.Len(t, received, 3)
	assert.Equal(t, directionCredit, received[0].Direction)
	assert.Equal(t, "2", received[1].Amount.String())
	assert.NotEqual(t, received[0].TraceID, received[1].TraceID)
	// same action, same party, same direction
	assert.Equal(t, received[1].TraceID, received[2].TraceID)
}

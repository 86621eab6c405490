package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lending/core"
	"lending/pkg/fixed"
	"lending/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreFeed(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_600_000_000, 0)
	prices := memory.NewPrices()
	feed := NewStoreFeed(prices, time.Minute, func() time.Time { return now })

	_, err := feed.GetPrice(ctx, "btc")
	assert.ErrorIs(t, err, core.ErrPriceUnavailable)

	require.Nil(t, prices.Save(ctx, &core.Price{
		AssetID:   "btc",
		Price:     fixed.New(20000),
		UpdatedAt: now.Add(-30 * time.Second),
	}))

	price, err := feed.GetPrice(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, "20000", price.String())

	now = now.Add(time.Minute)
	_, err = feed.GetPrice(ctx, "btc")
	assert.ErrorIs(t, err, core.ErrPriceUnavailable)
}

type countingOracle struct {
	calls int32
	price fixed.Dec
}

func (o *countingOracle) GetPrice(ctx context.Context, assetID string) (fixed.Dec, error) {
	atomic.AddInt32(&o.calls, 1)
	time.Sleep(10 * time.Millisecond)
	return o.price, nil
}

func TestCache(t *testing.T) {
	upstream := &countingOracle{price: fixed.New(2)}
	oracle := Cache(upstream, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			price, err := oracle.GetPrice(context.Background(), "eth")
			assert.Nil(t, err)
			assert.Equal(t, "2", price.String())
		}()
	}
	wg.Wait()

	_, err := oracle.GetPrice(context.Background(), "eth")
	require.Nil(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&upstream.calls), int32(2))
}

func TestPullPriceTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tickers/btc" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"asset_id":"btc","price":"20123.45","provider":"test"}`))
	}))
	defer srv.Close()

	tickers := NewTickerService(srv.URL + "/")

	ticker, err := tickers.PullPriceTicker(context.Background(), "btc")
	require.Nil(t, err)
	assert.Equal(t, "btc", ticker.AssetID)
	assert.Equal(t, "20123.45", ticker.Price.String())
	assert.Equal(t, "test", ticker.Provider)

	_, err = tickers.PullPriceTicker(context.Background(), "doge")
	assert.NotNil(t, err)
}

package priceoracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"lending/core"
	"lending/internal/testenv"
	"lending/pkg/fixed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickers map[string]string

func (t tickers) PullPriceTicker(ctx context.Context, assetID string) (*core.PriceTicker, error) {
	p, ok := t[assetID]
	if !ok {
		return nil, errors.New("no ticker")
	}

	return &core.PriceTicker{
		Provider: "test",
		AssetID:  assetID,
		Price:    fixed.MustFromString(p),
	}, nil
}

func TestOnWork(t *testing.T) {
	env := testenv.New(t, testenv.Options{})
	for _, asset := range []string{"a", "b", "c"} {
		env.List(testenv.MarketConfig(asset))
	}

	clock := core.Clock(func() time.Time { return env.Now })
	w := New(time.Minute, env.Markets, env.Prices, tickers{"a": "2", "b": "0"}, clock)
	require.Nil(t, w.onWork(env.Ctx))

	price, err := env.Oracle.GetPrice(env.Ctx, "a")
	require.Nil(t, err)
	assert.Equal(t, "2", price.String())

	// zero tickers are ignored, missing ones logged
	for _, asset := range []string{"b", "c"} {
		_, err = env.Oracle.GetPrice(env.Ctx, asset)
		assert.ErrorIs(t, err, core.ErrPriceUnavailable)
	}
}

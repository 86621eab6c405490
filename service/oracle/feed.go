package oracle

import (
	"context"
	"fmt"
	"time"

	"lending/core"
	"lending/pkg/fixed"
)

type storeFeed struct {
	prices core.IPriceStore
	maxAge time.Duration
	clock  core.Clock
}

// NewStoreFeed oracle answering from the price store, prices older than
// maxAge are unavailable; maxAge 0 accepts any age
func NewStoreFeed(prices core.IPriceStore, maxAge time.Duration, clock core.Clock) core.IPriceOracle {
	return &storeFeed{
		prices: prices,
		maxAge: maxAge,
		clock:  clock,
	}
}

func (f *storeFeed) GetPrice(ctx context.Context, assetID string) (fixed.Dec, error) {
	price, err := f.prices.Find(ctx, assetID)
	if err != nil {
		return fixed.Zero, fmt.Errorf("price %s: %v: %w", assetID, err, core.ErrPriceUnavailable)
	}

	if price == nil || price.Price.IsZero() {
		return fixed.Zero, fmt.Errorf("price %s: missing: %w", assetID, core.ErrPriceUnavailable)
	}

	if f.maxAge > 0 && f.clock.Now().Sub(price.UpdatedAt) > f.maxAge {
		return fixed.Zero, fmt.Errorf("price %s: updated at %s: %w", assetID, price.UpdatedAt.Format(time.RFC3339), core.ErrPriceUnavailable)
	}

	return price.Price, nil
}

package oracle

import (
	"context"
	"time"

	"lending/core"
	"lending/pkg/fixed"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache caches prices of oracle for ttl, concurrent misses share one lookup
func Cache(oracle core.IPriceOracle, ttl time.Duration) core.IPriceOracle {
	return &cacheOracle{
		IPriceOracle: oracle,
		cache:        gcache.New(512).LRU().Expiration(ttl).Build(),
		sf:           &singleflight.Group{},
	}
}

type cacheOracle struct {
	core.IPriceOracle
	cache gcache.Cache
	sf    *singleflight.Group
}

func (c *cacheOracle) GetPrice(ctx context.Context, assetID string) (fixed.Dec, error) {
	if v, err := c.cache.Get(assetID); err == nil {
		if price, ok := v.(fixed.Dec); ok {
			return price, nil
		}
	}

	v, err, _ := c.sf.Do(assetID, func() (interface{}, error) {
		price, err := c.IPriceOracle.GetPrice(ctx, assetID)
		if err != nil {
			return nil, err
		}

		_ = c.cache.Set(assetID, price)
		return price, nil
	})
	if err != nil {
		return fixed.Zero, err
	}

	return v.(fixed.Dec), nil
}

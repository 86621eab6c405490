package core

import (
	"context"
	"time"

	"lending/pkg/fixed"
)

// Price latest price of an asset
type Price struct {
	AssetID   string    `sql:"size:64;PRIMARY_KEY" json:"asset_id"`
	Price     fixed.Dec `sql:"type:decimal(65,18)" json:"price"`
	Provider  string    `sql:"size:64" json:"provider,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PriceTicker price ticker
type PriceTicker struct {
	Provider string    `json:"provider,omitempty"`
	AssetID  string    `json:"asset_id,omitempty"`
	Price    fixed.Dec `json:"price"`
}

// IPriceStore price store interface
type IPriceStore interface {
	Save(ctx context.Context, price *Price) error
	// Find returns nil, nil if no price was ever recorded
	Find(ctx context.Context, assetID string) (*Price, error)
	All(ctx context.Context) ([]*Price, error)
}

// IPriceOracle price feed collaborator
type IPriceOracle interface {
	// GetPrice fails with ErrPriceUnavailable when no usable price exists
	GetPrice(ctx context.Context, assetID string) (fixed.Dec, error)
}

// IPriceTickerService pulls tickers from an upstream feed
type IPriceTickerService interface {
	PullPriceTicker(ctx context.Context, assetID string) (*PriceTicker, error)
}

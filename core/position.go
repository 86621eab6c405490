package core

import (
	"context"
	"time"

	"lending/pkg/fixed"
)

// Position scaled balances of one user in one market
type Position struct {
	ID            uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID        string    `sql:"size:64;unique_index:idx_positions_user_asset" json:"user_id"`
	AssetID       string    `sql:"size:64;unique_index:idx_positions_user_asset;index:idx_positions_asset_id" json:"asset_id"`
	ScaledDeposit fixed.Dec `sql:"type:decimal(65,18)" json:"scaled_deposit"`
	ScaledDebt    fixed.Dec `sql:"type:decimal(65,18)" json:"scaled_debt"`
	IsCollateral  bool      `json:"is_collateral"`
	Version       int64     `sql:"default:0" json:"version"`
	CreatedAt     time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IsEmpty both scaled amounts are zero, the position is logically absent
func (p *Position) IsEmpty() bool {
	return p.ScaledDeposit.IsZero() && p.ScaledDebt.IsZero()
}

// Balance real amounts of a position at current indices
type Balance struct {
	AssetID      string    `json:"asset_id"`
	Deposit      fixed.Dec `json:"deposit"`
	Debt         fixed.Dec `json:"debt"`
	IsCollateral bool      `json:"is_collateral"`
}

// IPositionStore position store interface
type IPositionStore interface {
	// Find returns an empty position with ID 0 when nothing is stored
	Find(ctx context.Context, userID, assetID string) (*Position, error)
	FindByUser(ctx context.Context, userID string) ([]*Position, error)
	FindByAsset(ctx context.Context, assetID string) ([]*Position, error)
	// Save creates or updates, empty positions are deleted
	Save(ctx context.Context, position *Position) error
}

// ILedgerService account ledger
type ILedgerService interface {
	Deposit(ctx context.Context, userID, assetID string, amount fixed.Dec) (*Transaction, error)
	Withdraw(ctx context.Context, userID, assetID string, amount fixed.Dec) (*Transaction, error)
	Borrow(ctx context.Context, userID, assetID string, amount fixed.Dec) (*Transaction, error)
	Repay(ctx context.Context, userID, assetID string, amount fixed.Dec) (*Transaction, error)
	SetCollateral(ctx context.Context, userID, assetID string, enabled bool) (*Transaction, error)
}

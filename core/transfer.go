package core

import (
	"context"

	"lending/pkg/fixed"
)

// IBank token transfer collaborator
type IBank interface {
	// Credit pays amount of asset out to user
	Credit(ctx context.Context, userID, assetID string, amount fixed.Dec) error
	// Debit collects amount of asset from user, ErrInsufficientBalance if the user can't pay
	Debit(ctx context.Context, userID, assetID string, amount fixed.Dec) error
}

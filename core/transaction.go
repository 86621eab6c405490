package core

import (
	"context"
	"encoding/json"
	"time"

	"lending/pkg/fixed"

	"github.com/jmoiron/sqlx/types"
)

const (
	// TransactionKeyScaledAmount scaled amount applied to the position
	TransactionKeyScaledAmount = "scaled_amount"
	// TransactionKeyIndex index used for scaling
	TransactionKeyIndex = "index"
	// TransactionKeyRefund requested amount not applied
	TransactionKeyRefund = "refund"
	// TransactionKeyLiquidator liquidator
	TransactionKeyLiquidator = "liquidator"
	// TransactionKeyCollateralAssetID collateral asset
	TransactionKeyCollateralAssetID = "collateral_asset_id"
	// TransactionKeySeizedAmount seized collateral
	TransactionKeySeizedAmount = "seized_amount"
	// TransactionKeyCollateral collateral flag
	TransactionKeyCollateral = "collateral"
	// TransactionKeyPrice price
	TransactionKeyPrice = "price"
)

// TransactionExtraData extra data
type TransactionExtraData map[string]interface{}

// NewTransactionExtra new transaction extra instance
func NewTransactionExtra() TransactionExtraData {
	return make(TransactionExtraData)
}

// Put put data
func (t TransactionExtraData) Put(key string, value interface{}) {
	t[key] = value
}

// Format format as []byte by default
func (t TransactionExtraData) Format() []byte {
	bs, e := json.Marshal(t)
	if e != nil {
		return []byte("{}")
	}

	return bs
}

// Transaction audit record of an applied action
type Transaction struct {
	ID        int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Action    ActionType     `json:"action,omitempty"`
	TraceID   string         `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	UserID    string         `sql:"size:64;index:idx_transactions_user_id" json:"user_id,omitempty"`
	AssetID   string         `sql:"size:64;index:idx_transactions_asset_id" json:"asset_id,omitempty"`
	Amount    fixed.Dec      `sql:"type:decimal(65,18)" json:"amount"`
	Data      types.JSONText `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
}

// SetExtraData set extra payload
func (t *Transaction) SetExtraData(extra TransactionExtraData) {
	data := []byte("{}")
	if extra != nil {
		data = extra.Format()
	}

	t.Data = data
}

// UnmarshalExtraData decode extra payload
func (t *Transaction) UnmarshalExtraData(v interface{}) error {
	return json.Unmarshal(t.Data, v)
}

// ITransactionStore transaction store interface
type ITransactionStore interface {
	Create(ctx context.Context, tx *Transaction) error
	FindByTraceID(ctx context.Context, traceID string) (*Transaction, error)
	// List transactions with id greater than from
	List(ctx context.Context, from int64, limit int) ([]*Transaction, error)
	ListByUser(ctx context.Context, userID string, from int64, limit int) ([]*Transaction, error)
}

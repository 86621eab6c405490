package bank

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"lending/core"
	"lending/pkg/fixed"
	"lending/pkg/id"
	"lending/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
)

const (
	directionCredit = "credit"
	directionDebit  = "debit"
)

type transferRequest struct {
	UserID    string    `json:"user_id"`
	AssetID   string    `json:"asset_id"`
	Amount    fixed.Dec `json:"amount"`
	Direction string    `json:"direction"`
	TraceID   string    `json:"trace_id"`
}

type httpBank struct {
	endpoint string
}

// NewHTTP bank moving tokens through POST {endpoint}/api/transfers
func NewHTTP(endpoint string) core.IBank {
	return &httpBank{endpoint: strings.TrimSuffix(endpoint, "/")}
}

func (b *httpBank) Credit(ctx context.Context, userID, assetID string, amount fixed.Dec) error {
	return b.transfer(ctx, userID, assetID, amount, directionCredit)
}

func (b *httpBank) Debit(ctx context.Context, userID, assetID string, amount fixed.Dec) error {
	return b.transfer(ctx, userID, assetID, amount, directionDebit)
}

func (b *httpBank) transfer(ctx context.Context, userID, assetID string, amount fixed.Dec, direction string) error {
	traceID := core.TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = id.GenTraceID()
	}

	req := transferRequest{
		UserID:    userID,
		AssetID:   assetID,
		Amount:    amount,
		Direction: direction,
		// one action may move tokens of two parties, keep the ids distinct
		TraceID: id.TraceIDFrom(fmt.Sprintf("%s:%s:%s", traceID, direction, userID)),
	}

	resp, err := resthttp.WithRequestID(ctx, req.TraceID).SetBody(req).Post(b.endpoint + "/api/transfers")
	if err != nil {
		return err
	}

	if err := resthttp.ParseResponse(resp, nil); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("transfer failed")

		var httpErr *resthttp.Error
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusPaymentRequired {
			return fmt.Errorf("%s %s: %w", direction, userID, core.ErrInsufficientBalance)
		}

		return err
	}

	return nil
}

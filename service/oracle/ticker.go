package oracle

import (
	"context"
	"fmt"
	"strings"

	"lending/core"
	"lending/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
)

type tickerService struct {
	endpoint string
}

// NewTickerService price tickers pulled from endpoint
func NewTickerService(endpoint string) core.IPriceTickerService {
	return &tickerService{endpoint: strings.TrimSuffix(endpoint, "/")}
}

// PullPriceTicker GET {endpoint}/api/tickers/{asset}
func (s *tickerService) PullPriceTicker(ctx context.Context, assetID string) (*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/tickers/%s", s.endpoint, assetID)
	logger.FromContext(ctx).Debugln("pull price:", url)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var ticker core.PriceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	if ticker.AssetID == "" {
		ticker.AssetID = assetID
	}

	return &ticker, nil
}

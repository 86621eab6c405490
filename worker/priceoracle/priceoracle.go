package priceoracle

import (
	"context"
	"time"

	"lending/core"
	"lending/worker"

	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Worker price oracle worker, copies upstream tickers into the price store
type Worker struct {
	worker.TickWorker
	MarketService core.IMarketService
	PriceStore    core.IPriceStore
	TickerService core.IPriceTickerService
	Clock         core.Clock
}

// New new price oracle worker
func New(interval time.Duration, marketSrv core.IMarketService, priceStr core.IPriceStore, tickerSrv core.IPriceTickerService, clock core.Clock) *Worker {
	job := Worker{
		TickWorker: worker.TickWorker{
			Delay:    interval,
			ErrDelay: time.Second,
		},
		MarketService: marketSrv,
		PriceStore:    priceStr,
		TickerService: tickerSrv,
		Clock:         clock,
	}

	return &job
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	markets, err := w.MarketService.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("fetch all markets")
		return err
	}

	if len(markets) == 0 {
		log.Debugln("no market found")
		return nil
	}

	var g errgroup.Group
	for _, m := range markets {
		assetID := m.AssetID
		g.Go(func() error {
			// one failing ticker must not hold back the others
			if err := w.pullPrice(ctx, assetID); err != nil {
				log.WithError(err).WithField("asset_id", assetID).Errorln("pull price")
			}
			return nil
		})
	}

	return g.Wait()
}

func (w *Worker) pullPrice(ctx context.Context, assetID string) error {
	ticker, err := w.TickerService.PullPriceTicker(ctx, assetID)
	if err != nil {
		return err
	}

	if ticker.Price.IsZero() {
		logger.FromContext(ctx).Warnln("zero ticker price:", assetID)
		return nil
	}

	return w.PriceStore.Save(ctx, &core.Price{
		AssetID:   assetID,
		Price:     ticker.Price,
		Provider:  ticker.Provider,
		UpdatedAt: w.Clock.Now(),
	})
}

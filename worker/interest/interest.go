package interest

import (
	"context"
	"time"

	"lending/core"
	"lending/worker"

	"github.com/fox-one/pkg/logger"
)

// Worker persists accrued interest of every market, reads accrue in memory
// only so stored indices and reserves lag until a market is touched
type Worker struct {
	worker.TickWorker
	Session       core.Session
	MarketService core.IMarketService
	Clock         core.Clock
}

// New new interest worker
func New(interval time.Duration, session core.Session, marketSrv core.IMarketService, clock core.Clock) *Worker {
	job := Worker{
		TickWorker: worker.TickWorker{
			Delay:    interval,
			ErrDelay: 10 * time.Second,
		},
		Session:       session,
		MarketService: marketSrv,
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
	log := logger.FromContext(ctx).WithField("worker", "interest")

	markets, err := w.MarketService.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("fetch all markets")
		return err
	}

	now := w.Clock.Now()
	for _, m := range markets {
		assetID := m.AssetID
		// one unit of work per market, an overflowing market doesn't block the others
		err := w.Session.Tx(ctx, func(tx *core.Tx) error {
			_, err := w.MarketService.Require(ctx, tx, assetID, now)
			return err
		})

		if err != nil {
			log.WithError(err).WithField("asset_id", assetID).Errorln("accrue interest")
			continue
		}
	}

	return nil
}

package cmd

import (
	"context"
	"sync"
	"time"

	"lending/worker"
	"lending/worker/interest"
	"lending/worker/liquidity"
	"lending/worker/priceoracle"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "lending job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signal.WithContext(cmd.Context())
		runWorkers(ctx, provideServices())
	},
}

func runWorkers(ctx context.Context, s services) {
	log := logger.FromContext(ctx)
	ctx = logger.WithContext(ctx, log)

	workers := []worker.Worker{
		interest.New(time.Duration(cfg.Worker.AccrueInterval)*time.Second, s.session, s.markets, provideClock()),
		liquidity.New(time.Duration(cfg.Worker.ScanInterval)*time.Second, s.session, s.accounts),
	}

	if cfg.Oracle.Endpoint != "" {
		interval := time.Duration(cfg.Oracle.PullInterval) * time.Second
		workers = append(workers, priceoracle.New(interval, s.markets, s.prices, providePriceTickerService(), provideClock()))
	} else {
		log.Infoln("oracle.endpoint not set, priceoracle disabled")
	}

	wg := sync.WaitGroup{}
	for _, w := range workers {
		wg.Add(1)

		go func(worker worker.Worker) {
			defer wg.Done()
			if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
				log.WithError(err).Errorln("worker stopped")
			}
		}(w)
	}

	wg.Wait()
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

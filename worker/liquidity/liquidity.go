package liquidity

import (
	"context"
	"sort"
	"sync"
	"time"

	"lending/core"
	"lending/worker"

	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const scanConcurrency = 8

// Candidate account whose debt exceeds its liquidation threshold value
type Candidate struct {
	UserID string       `json:"user_id"`
	Health *core.Health `json:"health"`
}

// Worker scans borrowers and reports the liquidatable ones
type Worker struct {
	worker.TickWorker
	Session        core.Session
	AccountService core.IAccountService

	mu         sync.RWMutex
	candidates []*Candidate
}

// New new liquidity worker
func New(interval time.Duration, session core.Session, accountSrv core.IAccountService) *Worker {
	job := Worker{
		TickWorker: worker.TickWorker{
			Delay:    interval,
			ErrDelay: 10 * time.Second,
		},
		Session:        session,
		AccountService: accountSrv,
	}

	return &job
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

// Candidates result of the last scan, ordered by user id
func (w *Worker) Candidates() []*Candidate {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.candidates
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "liquidity")

	borrowers, err := w.borrowers(ctx)
	if err != nil {
		log.WithError(err).Errorln("list borrowers")
		return err
	}

	var (
		mu         sync.Mutex
		candidates []*Candidate
	)

	var g errgroup.Group
	g.SetLimit(scanConcurrency)
	for _, userID := range borrowers {
		userID := userID
		g.Go(func() error {
			health, err := w.AccountService.ComputeHealth(ctx, userID)
			if err != nil {
				// skipped until prices are back
				log.WithError(err).WithField("user_id", userID).Warnln("compute health")
				return nil
			}

			if !health.IsLiquidatable() {
				return nil
			}

			log.WithField("user_id", userID).
				WithField("debt_value", health.DebtValue.String()).
				WithField("threshold_value", health.LiquidationThresholdValue.String()).
				Warnln("account liquidatable")

			mu.Lock()
			candidates = append(candidates, &Candidate{UserID: userID, Health: health})
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].UserID < candidates[j].UserID
	})

	w.mu.Lock()
	w.candidates = candidates
	w.mu.Unlock()
	return nil
}

// borrowers users with debt in any market
func (w *Worker) borrowers(ctx context.Context) ([]string, error) {
	users := map[string]bool{}
	err := w.Session.View(ctx, func(tx *core.Tx) error {
		markets, err := tx.Markets.All(ctx)
		if err != nil {
			return err
		}

		for _, m := range markets {
			positions, err := tx.Positions.FindByAsset(ctx, m.AssetID)
			if err != nil {
				return err
			}

			for _, p := range positions {
				if p.ScaledDebt.IsPositive() {
					users[p.UserID] = true
				}
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids, nil
}

package worker

import (
	"context"
	"time"
)

// Worker background job
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker runs a job repeatedly, waiting Delay after a successful round
// and ErrDelay after a failed one
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

// StartTick blocks until ctx is done
func (w *TickWorker) StartTick(ctx context.Context, onTick func(ctx context.Context) error) error {
	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := onTick(ctx); err != nil {
				dur = w.ErrDelay
			} else {
				dur = w.Delay
			}
		}
	}
}

package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTick(t *testing.T) {
	w := TickWorker{
		Delay:    time.Hour,
		ErrDelay: time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	succeeded := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- w.StartTick(ctx, func(ctx context.Context) error {
			// fail twice, retried after ErrDelay, then succeed and wait Delay
			if n := atomic.AddInt32(&calls, 1); n < 3 {
				return errors.New("not yet")
			}

			close(succeeded)
			return nil
		})
	}()

	select {
	case <-succeeded:
	case <-time.After(5 * time.Second):
		t.Fatal("tick never succeeded")
	}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestStartTickCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := TickWorker{Delay: time.Millisecond, ErrDelay: time.Millisecond}
	err := w.StartTick(ctx, func(ctx context.Context) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

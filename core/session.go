package core

import (
	"context"
	"time"
)

// Tx stores bound to one atomic unit of work
type Tx struct {
	Markets      IMarketStore
	Positions    IPositionStore
	Transactions ITransactionStore
}

// Session opens atomic units of work over the persisted state
type Session interface {
	// Tx runs fn and commits its writes only if fn returns nil
	Tx(ctx context.Context, fn func(tx *Tx) error) error
	// View runs fn against committed state, writes are discarded
	View(ctx context.Context, fn func(tx *Tx) error) error
}

// Clock time source
type Clock func() time.Time

// Now current time, falls back to time.Now
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}

	return c()
}

type actionKey struct{}

// EnterAction marks ctx as running inside a state changing action,
// a nested call carrying the marker is rejected
func EnterAction(ctx context.Context) (context.Context, error) {
	if InAction(ctx) {
		return ctx, ErrReentrant
	}

	return context.WithValue(ctx, actionKey{}, true), nil
}

// InAction ctx belongs to a running action
func InAction(ctx context.Context) bool {
	v, _ := ctx.Value(actionKey{}).(bool)
	return v
}

type traceKey struct{}

// WithTraceID attaches a caller supplied trace id, an action carrying an
// already recorded trace id returns the recorded transaction instead of
// running again
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceIDFromContext trace id attached by WithTraceID
func TraceIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(traceKey{}).(string)
	return v
}

package session

import (
	"context"
	"errors"

	"lending/core"
	"lending/store/market"
	"lending/store/position"
	"lending/store/transaction"

	"github.com/fox-one/pkg/store/db"
)

// errRollback aborts a read only transaction
var errRollback = errors.New("session: rollback")

type session struct {
	db *db.DB
}

// New session over a database, every unit of work runs in a db transaction
func New(db *db.DB) core.Session {
	return &session{db: db}
}

func (s *session) Tx(ctx context.Context, fn func(tx *core.Tx) error) error {
	return s.db.Tx(func(tx *db.DB) error {
		return fn(bind(tx))
	})
}

func (s *session) View(ctx context.Context, fn func(tx *core.Tx) error) error {
	err := s.db.Tx(func(tx *db.DB) error {
		if err := fn(bind(tx)); err != nil {
			return err
		}

		return errRollback
	})

	if errors.Is(err, errRollback) {
		return nil
	}

	return err
}

func bind(tx *db.DB) *core.Tx {
	return &core.Tx{
		Markets:      market.New(tx),
		Positions:    position.New(tx),
		Transactions: transaction.New(tx),
	}
}

// Package memory keeps the whole ledger in process memory. Units of work
// run against a copy of the state that replaces the committed state only
// when the work succeeds.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"lending/core"
)

type state struct {
	markets      map[string]*core.Market
	positions    map[string]map[string]*core.Position
	transactions []*core.Transaction
	traces       map[string]int
	marketSeq    uint64
	positionSeq  uint64
}

func newState() *state {
	return &state{
		markets:   map[string]*core.Market{},
		positions: map[string]map[string]*core.Position{},
		traces:    map[string]int{},
	}
}

func (s *state) clone() *state {
	c := &state{
		markets:      make(map[string]*core.Market, len(s.markets)),
		positions:    make(map[string]map[string]*core.Position, len(s.positions)),
		transactions: s.transactions[:len(s.transactions):len(s.transactions)],
		traces:       make(map[string]int, len(s.traces)),
		marketSeq:    s.marketSeq,
		positionSeq:  s.positionSeq,
	}

	for k, m := range s.markets {
		c.markets[k] = m
	}

	for user, assets := range s.positions {
		cp := make(map[string]*core.Position, len(assets))
		for asset, p := range assets {
			cp[asset] = p
		}
		c.positions[user] = cp
	}

	for k, v := range s.traces {
		c.traces[k] = v
	}

	return c
}

// Session in memory session, units of work are serialized
type Session struct {
	mu    sync.RWMutex
	state *state
	clock core.Clock
}

// New empty in-memory session
func New(clock core.Clock) *Session {
	return &Session{
		state: newState(),
		clock: clock,
	}
}

// Tx implements core.Session
func (s *Session) Tx(ctx context.Context, fn func(tx *core.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(s.bind(work)); err != nil {
		return err
	}

	s.state = work
	return nil
}

// View implements core.Session
func (s *Session) View(ctx context.Context, fn func(tx *core.Tx) error) error {
	s.mu.RLock()
	work := s.state.clone()
	s.mu.RUnlock()

	return fn(s.bind(work))
}

func (s *Session) bind(st *state) *core.Tx {
	return &core.Tx{
		Markets:      &marketStore{state: st, clock: s.clock},
		Positions:    &positionStore{state: st, clock: s.clock},
		Transactions: &transactionStore{state: st, clock: s.clock},
	}
}

type marketStore struct {
	state *state
	clock core.Clock
}

func (s *marketStore) Create(ctx context.Context, market *core.Market) error {
	if _, ok := s.state.markets[market.AssetID]; ok {
		return core.ErrMarketExists
	}

	s.state.marketSeq++
	market.ID = s.state.marketSeq
	market.CreatedAt = s.clock.Now()
	market.UpdatedAt = market.CreatedAt

	m := *market
	s.state.markets[market.AssetID] = &m
	return nil
}

func (s *marketStore) Find(ctx context.Context, assetID string) (*core.Market, error) {
	if m, ok := s.state.markets[assetID]; ok {
		out := *m
		return &out, nil
	}

	return &core.Market{AssetID: assetID}, nil
}

func (s *marketStore) All(ctx context.Context) ([]*core.Market, error) {
	markets := make([]*core.Market, 0, len(s.state.markets))
	for _, m := range s.state.markets {
		out := *m
		markets = append(markets, &out)
	}

	sort.Slice(markets, func(i, j int) bool {
		return markets[i].ID < markets[j].ID
	})

	return markets, nil
}

func (s *marketStore) Update(ctx context.Context, market *core.Market) error {
	old, ok := s.state.markets[market.AssetID]
	if !ok || old.Version != market.Version {
		return core.ErrInvariantBroken
	}

	market.Version++
	market.UpdatedAt = s.clock.Now()

	m := *market
	s.state.markets[market.AssetID] = &m
	return nil
}

type positionStore struct {
	state *state
	clock core.Clock
}

func (s *positionStore) Find(ctx context.Context, userID, assetID string) (*core.Position, error) {
	if p, ok := s.state.positions[userID][assetID]; ok {
		out := *p
		return &out, nil
	}

	return &core.Position{UserID: userID, AssetID: assetID}, nil
}

func (s *positionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	positions := make([]*core.Position, 0, len(s.state.positions[userID]))
	for _, p := range s.state.positions[userID] {
		out := *p
		positions = append(positions, &out)
	}

	sortPositions(positions)
	return positions, nil
}

func (s *positionStore) FindByAsset(ctx context.Context, assetID string) ([]*core.Position, error) {
	var positions []*core.Position
	for _, assets := range s.state.positions {
		if p, ok := assets[assetID]; ok {
			out := *p
			positions = append(positions, &out)
		}
	}

	sortPositions(positions)
	return positions, nil
}

func (s *positionStore) Save(ctx context.Context, position *core.Position) error {
	assets := s.state.positions[position.UserID]
	old, exists := assets[position.AssetID]

	if exists && old.Version != position.Version {
		return core.ErrInvariantBroken
	}

	if position.IsEmpty() {
		if exists {
			delete(assets, position.AssetID)
			if len(assets) == 0 {
				delete(s.state.positions, position.UserID)
			}
		}
		return nil
	}

	now := s.clock.Now()
	if !exists {
		s.state.positionSeq++
		position.ID = s.state.positionSeq
		position.CreatedAt = now
	} else {
		position.Version++
	}
	position.UpdatedAt = now

	if assets == nil {
		assets = map[string]*core.Position{}
		s.state.positions[position.UserID] = assets
	}

	p := *position
	assets[position.AssetID] = &p
	return nil
}

func sortPositions(positions []*core.Position) {
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].ID < positions[j].ID
	})
}

type transactionStore struct {
	state *state
	clock core.Clock
}

func (s *transactionStore) Create(ctx context.Context, tx *core.Transaction) error {
	if idx, ok := s.state.traces[tx.TraceID]; ok {
		*tx = *s.state.transactions[idx]
		return nil
	}

	tx.ID = int64(len(s.state.transactions) + 1)
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.clock.Now()
	}

	t := *tx
	s.state.traces[tx.TraceID] = len(s.state.transactions)
	s.state.transactions = append(s.state.transactions, &t)
	return nil
}

func (s *transactionStore) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	if idx, ok := s.state.traces[traceID]; ok {
		out := *s.state.transactions[idx]
		return &out, nil
	}

	return &core.Transaction{}, nil
}

func (s *transactionStore) List(ctx context.Context, from int64, limit int) ([]*core.Transaction, error) {
	return s.list(from, limit, func(*core.Transaction) bool { return true }), nil
}

func (s *transactionStore) ListByUser(ctx context.Context, userID string, from int64, limit int) ([]*core.Transaction, error) {
	return s.list(from, limit, func(tx *core.Transaction) bool { return tx.UserID == userID }), nil
}

func (s *transactionStore) list(from int64, limit int, match func(*core.Transaction) bool) []*core.Transaction {
	if limit <= 0 {
		limit = 500
	}

	var transactions []*core.Transaction
	for _, tx := range s.state.transactions {
		if tx.ID <= from || !match(tx) {
			continue
		}

		out := *tx
		transactions = append(transactions, &out)
		if len(transactions) >= limit {
			break
		}
	}

	return transactions
}

// Prices in memory price store
type Prices struct {
	mu     sync.RWMutex
	prices map[string]core.Price
}

// NewPrices empty price store
func NewPrices() *Prices {
	return &Prices{prices: map[string]core.Price{}}
}

// Save implements core.IPriceStore
func (s *Prices) Save(ctx context.Context, price *core.Price) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if price.UpdatedAt.IsZero() {
		price.UpdatedAt = time.Now()
	}

	s.prices[price.AssetID] = *price
	return nil
}

// Find implements core.IPriceStore
func (s *Prices) Find(ctx context.Context, assetID string) (*core.Price, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.prices[assetID]; ok {
		return &p, nil
	}

	return nil, nil
}

// All implements core.IPriceStore
func (s *Prices) All(ctx context.Context) ([]*core.Price, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prices := make([]*core.Price, 0, len(s.prices))
	for _, p := range s.prices {
		p := p
		prices = append(prices, &p)
	}

	sort.Slice(prices, func(i, j int) bool {
		return prices[i].AssetID < prices[j].AssetID
	})

	return prices, nil
}

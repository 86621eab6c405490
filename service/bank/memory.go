package bank

import (
	"context"
	"fmt"
	"sync"

	"lending/core"
	"lending/pkg/fixed"
)

// Vault account holding the protocol's tokens
const Vault = "vault"

// Memory in-memory token balances, used by tests and the memory store mode
type Memory struct {
	mu       sync.Mutex
	balances map[string]map[string]fixed.Dec
}

// NewMemory empty bank
func NewMemory() *Memory {
	return &Memory{balances: map[string]map[string]fixed.Dec{}}
}

// Mint gives user amount of asset
func (b *Memory) Mint(userID, assetID string, amount fixed.Dec) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	balance, err := b.balance(userID, assetID).Add(amount)
	if err != nil {
		return err
	}

	b.set(userID, assetID, balance)
	return nil
}

// Balance wallet balance of user
func (b *Memory) Balance(userID, assetID string) fixed.Dec {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.balance(userID, assetID)
}

// Credit moves amount from the vault to user
func (b *Memory) Credit(ctx context.Context, userID, assetID string, amount fixed.Dec) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.move(Vault, userID, assetID, amount); err != nil {
		return fmt.Errorf("vault %s: %w", assetID, core.ErrInvariantBroken)
	}

	return nil
}

// Debit moves amount from user to the vault
func (b *Memory) Debit(ctx context.Context, userID, assetID string, amount fixed.Dec) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.move(userID, Vault, assetID, amount); err != nil {
		return fmt.Errorf("debit %s %s: %w", userID, assetID, core.ErrInsufficientBalance)
	}

	return nil
}

func (b *Memory) move(from, to, assetID string, amount fixed.Dec) error {
	src, err := b.balance(from, assetID).Sub(amount)
	if err != nil {
		return err
	}

	dst, err := b.balance(to, assetID).Add(amount)
	if err != nil {
		return err
	}

	b.set(from, assetID, src)
	b.set(to, assetID, dst)
	return nil
}

func (b *Memory) balance(userID, assetID string) fixed.Dec {
	return b.balances[userID][assetID]
}

func (b *Memory) set(userID, assetID string, amount fixed.Dec) {
	assets, ok := b.balances[userID]
	if !ok {
		assets = map[string]fixed.Dec{}
		b.balances[userID] = assets
	}

	assets[assetID] = amount
}

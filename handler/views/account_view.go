package views

import (
	"lending/core"
)

// Account account view
type Account struct {
	UserID   string          `json:"user_id"`
	Balances []*core.Balance `json:"balances"`
	Health   *core.Health    `json:"health,omitempty"`
	// health could not be valued, usually a missing price
	HealthError string `json:"health_error,omitempty"`
}

package core

// ActionType action type
type ActionType int

const (
	_ ActionType = iota
	// ActionTypeDeposit deposit
	ActionTypeDeposit
	// ActionTypeWithdraw withdraw
	ActionTypeWithdraw
	// ActionTypeBorrow borrow
	ActionTypeBorrow
	// ActionTypeRepay repay
	ActionTypeRepay
	// ActionTypeLiquidate liquidate
	ActionTypeLiquidate
	// ActionTypeCollateral toggle collateral flag
	ActionTypeCollateral
	// ActionTypeListMarket list market
	ActionTypeListMarket
	// ActionTypeUpdateMarket update market config
	ActionTypeUpdateMarket
)

var actionNames = map[ActionType]string{
	ActionTypeDeposit:      "deposit",
	ActionTypeWithdraw:     "withdraw",
	ActionTypeBorrow:       "borrow",
	ActionTypeRepay:        "repay",
	ActionTypeLiquidate:    "liquidate",
	ActionTypeCollateral:   "collateral",
	ActionTypeListMarket:   "list_market",
	ActionTypeUpdateMarket: "update_market",
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}

	return "unknown"
}

// ParseActionType parse action name
func ParseActionType(name string) (ActionType, bool) {
	for a, n := range actionNames {
		if n == name {
			return a, true
		}
	}

	return 0, false
}

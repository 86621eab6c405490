package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrInvalidArgument invalid argument
	ErrInvalidArgument ErrorCode = 100001
	// ErrReentrant action re-entered through a collaborator
	ErrReentrant ErrorCode = 100002

	// ErrMarketNotFound no market
	ErrMarketNotFound ErrorCode = 100100
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrPositionNotFound no position
	ErrPositionNotFound ErrorCode = 100102
	// ErrDisabled action disabled for the market
	ErrDisabled ErrorCode = 100103
	// ErrHealthCheckFailed insufficient collaterals
	ErrHealthCheckFailed ErrorCode = 100104
	// ErrInsufficientLiquidity insufficient liquidity
	ErrInsufficientLiquidity ErrorCode = 100105
	// ErrInsufficientBalance insufficient balance
	ErrInsufficientBalance ErrorCode = 100106
	// ErrNotLiquidatable seize not allowed
	ErrNotLiquidatable ErrorCode = 100107
	// ErrPriceUnavailable invalid price
	ErrPriceUnavailable ErrorCode = 100108
	// ErrRepayExceedsDebt repay more than borrowed
	ErrRepayExceedsDebt ErrorCode = 100109
	// ErrMarketExists market already listed
	ErrMarketExists ErrorCode = 100110
	// ErrInvalidConfig invalid market config
	ErrInvalidConfig ErrorCode = 100111

	// ErrOverflow fixed point overflow
	ErrOverflow ErrorCode = 100200
	// ErrInvariantBroken ledger invariant broken, a bug
	ErrInvariantBroken ErrorCode = 100201
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:               "unknown",
	ErrInvalidArgument:       "invalid argument",
	ErrReentrant:             "reentrant call",
	ErrMarketNotFound:        "market not found",
	ErrInvalidAmount:         "invalid amount",
	ErrPositionNotFound:      "position not found",
	ErrDisabled:              "disabled",
	ErrHealthCheckFailed:     "health check failed",
	ErrInsufficientLiquidity: "insufficient liquidity",
	ErrInsufficientBalance:   "insufficient balance",
	ErrNotLiquidatable:       "not liquidatable",
	ErrPriceUnavailable:      "price unavailable",
	ErrRepayExceedsDebt:      "repay exceeds debt",
	ErrMarketExists:          "market exists",
	ErrInvalidConfig:         "invalid config",
	ErrOverflow:              "overflow",
	ErrInvariantBroken:       "invariant broken",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

// Message human readable description
func (e ErrorCode) Message() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return errorMessages[ErrUnknown]
}

func (e ErrorCode) Error() string {
	return e.String() + " " + e.Message()
}

// Fatal defects that signal a bug rather than a rejected user action
func (e ErrorCode) Fatal() bool {
	return e == ErrOverflow || e == ErrInvariantBroken
}

package compound

import (
	"errors"
	"fmt"

	"lending/core"
	"lending/pkg/fixed"
)

// Require returns an error wrapping code when condition is false
func Require(condition bool, msg string, code core.ErrorCode) error {
	if condition {
		return nil
	}

	return fmt.Errorf("%s: %w", msg, code)
}

// Check maps fixed point failures onto error codes
func Check(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fixed.ErrOverflow):
		return fmt.Errorf("%s: %w", msg, core.ErrOverflow)
	case errors.Is(err, fixed.ErrNegative), errors.Is(err, fixed.ErrDivisionByZero):
		return fmt.Errorf("%s: %v: %w", msg, err, core.ErrInvariantBroken)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

// Package fixed implements unsigned decimals with 18 implied fractional
// digits backed by 256-bit integers. Every operation that can leave the
// representable range reports it instead of wrapping; results are truncated
// toward zero.
package fixed

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Precision number of implied fractional digits
const Precision int32 = 18

var (
	// ErrOverflow result does not fit in 256 bits
	ErrOverflow = errors.New("fixed: overflow")
	// ErrNegative result would be below zero
	ErrNegative = errors.New("fixed: negative result")
	// ErrDivisionByZero division by zero
	ErrDivisionByZero = errors.New("fixed: division by zero")

	unit = uint256.NewInt(1_000_000_000_000_000_000)

	// decimal(65,18) columns hold 47 integer digits
	columnLimit = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(65))

	// Zero 0
	Zero = Dec{}
	// One 1.0
	One = Dec{v: *unit}
)

// Dec fixed point decimal, the zero value is 0
type Dec struct {
	v uint256.Int
}

// New integer value n
func New(n uint64) Dec {
	var d Dec
	d.v.Mul(uint256.NewInt(n), unit)
	return d
}

// NewRatio n/m, truncated
func NewRatio(n, m uint64) Dec {
	d, err := New(n).Div(New(m))
	if err != nil {
		panic(err)
	}
	return d
}

// FromDecimal converts a decimal, digits beyond the precision are dropped
func FromDecimal(d decimal.Decimal) (Dec, error) {
	if d.IsNegative() {
		return Zero, ErrNegative
	}

	var out Dec
	if overflow := out.v.SetFromBig(d.Shift(Precision).Truncate(0).BigInt()); overflow {
		return Zero, ErrOverflow
	}

	return out, nil
}

// NewFromString parses a decimal string such as "0.85"
func NewFromString(s string) (Dec, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, err
	}

	return FromDecimal(d)
}

// MustFromString like NewFromString but panics
func MustFromString(s string) Dec {
	d, err := NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Decimal converts to shopspring decimal
func (d Dec) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(d.v.ToBig(), -Precision)
}

func (d Dec) String() string {
	return d.Decimal().String()
}

// IsZero is zero
func (d Dec) IsZero() bool {
	return d.v.IsZero()
}

// IsPositive greater than zero
func (d Dec) IsPositive() bool {
	return !d.v.IsZero()
}

// Cmp compares d and o
func (d Dec) Cmp(o Dec) int {
	return d.v.Cmp(&o.v)
}

// Equal d == o
func (d Dec) Equal(o Dec) bool {
	return d.v.Eq(&o.v)
}

// LessThan d < o
func (d Dec) LessThan(o Dec) bool {
	return d.v.Lt(&o.v)
}

// GreaterThan d > o
func (d Dec) GreaterThan(o Dec) bool {
	return d.v.Gt(&o.v)
}

// LessThanOrEqual d <= o
func (d Dec) LessThanOrEqual(o Dec) bool {
	return !d.v.Gt(&o.v)
}

// GreaterThanOrEqual d >= o
func (d Dec) GreaterThanOrEqual(o Dec) bool {
	return !d.v.Lt(&o.v)
}

// Add d + o
func (d Dec) Add(o Dec) (Dec, error) {
	var out Dec
	if _, overflow := out.v.AddOverflow(&d.v, &o.v); overflow {
		return Zero, ErrOverflow
	}
	return out, nil
}

// Sub d - o
func (d Dec) Sub(o Dec) (Dec, error) {
	var out Dec
	if _, underflow := out.v.SubOverflow(&d.v, &o.v); underflow {
		return Zero, ErrNegative
	}
	return out, nil
}

// SubFloor d - o, or zero when o > d
func (d Dec) SubFloor(o Dec) Dec {
	if out, err := d.Sub(o); err == nil {
		return out
	}
	return Zero
}

// Mul d * o
func (d Dec) Mul(o Dec) (Dec, error) {
	return mulDiv(&d.v, &o.v, unit)
}

// Div d / o
func (d Dec) Div(o Dec) (Dec, error) {
	if o.IsZero() {
		return Zero, ErrDivisionByZero
	}
	return mulDiv(&d.v, unit, &o.v)
}

// MulInt d * n
func (d Dec) MulInt(n uint64) (Dec, error) {
	var out Dec
	if _, overflow := out.v.MulOverflow(&d.v, uint256.NewInt(n)); overflow {
		return Zero, ErrOverflow
	}
	return out, nil
}

// DivInt d / n
func (d Dec) DivInt(n uint64) (Dec, error) {
	if n == 0 {
		return Zero, ErrDivisionByZero
	}
	var out Dec
	out.v.Div(&d.v, uint256.NewInt(n))
	return out, nil
}

// MulDiv d * m / q without intermediate truncation
func (d Dec) MulDiv(m, q Dec) (Dec, error) {
	if q.IsZero() {
		return Zero, ErrDivisionByZero
	}
	return mulDiv(&d.v, &m.v, &q.v)
}

func mulDiv(x, y, z *uint256.Int) (Dec, error) {
	var out Dec
	if _, overflow := out.v.MulDivOverflow(x, y, z); overflow {
		return Zero, ErrOverflow
	}
	return out, nil
}

// Min smaller of a and b
func Min(a, b Dec) Dec {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max larger of a and b
func Max(a, b Dec) Dec {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// MarshalJSON encodes as a decimal string
func (d Dec) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts decimal strings and numbers
func (d *Dec) UnmarshalJSON(data []byte) error {
	var v decimal.Decimal
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}

	out, err := FromDecimal(v)
	if err != nil {
		return err
	}

	*d = out
	return nil
}

// Value implements driver.Valuer. Values that do not fit a decimal(65,18)
// column are rejected with ErrOverflow.
func (d Dec) Value() (driver.Value, error) {
	if !d.v.Lt(columnLimit) {
		return nil, fmt.Errorf("fixed: %s exceeds decimal(65,18): %w", d, ErrOverflow)
	}

	return d.String(), nil
}

// Scan implements sql.Scanner
func (d *Dec) Scan(value interface{}) error {
	var v decimal.Decimal
	if err := v.Scan(value); err != nil {
		return fmt.Errorf("fixed: scan: %w", err)
	}

	out, err := FromDecimal(v)
	if err != nil {
		return err
	}

	*d = out
	return nil
}

package fixed

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	d, err := NewFromString("1.25")
	require.Nil(t, err)
	assert.Equal(t, "1.25", d.String())

	// digits beyond 18 decimals are truncated
	d, err = NewFromString("0.0000000000000000019")
	require.Nil(t, err)
	assert.Equal(t, "0.000000000000000001", d.String())

	_, err = NewFromString("-1")
	assert.ErrorIs(t, err, ErrNegative)
}

func TestArithmetic(t *testing.T) {
	a := MustFromString("1.5")
	b := MustFromString("0.5")

	sum, err := a.Add(b)
	require.Nil(t, err)
	assert.Equal(t, "2", sum.String())

	diff, err := a.Sub(b)
	require.Nil(t, err)
	assert.Equal(t, "1", diff.String())

	_, err = b.Sub(a)
	assert.ErrorIs(t, err, ErrNegative)
	assert.True(t, b.SubFloor(a).IsZero())

	prod, err := a.Mul(b)
	require.Nil(t, err)
	assert.Equal(t, "0.75", prod.String())

	quo, err := a.Div(b)
	require.Nil(t, err)
	assert.Equal(t, "3", quo.String())

	_, err = a.Div(Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestTruncatesTowardZero(t *testing.T) {
	q, err := One.Div(New(3))
	require.Nil(t, err)
	assert.Equal(t, "0.333333333333333333", q.String())

	back, err := q.Mul(New(3))
	require.Nil(t, err)
	assert.Equal(t, "0.999999999999999999", back.String())

	assert.Equal(t, "0.666666666666666666", NewRatio(2, 3).String())
}

func TestOverflow(t *testing.T) {
	var max Dec
	max.v.SetAllOne()

	_, err := max.Add(One)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = max.Mul(New(2))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = max.MulInt(2)
	assert.ErrorIs(t, err, ErrOverflow)

	big := decimal.NewFromBigInt(new(uint256.Int).SetAllOne().ToBig(), 0)
	_, err = FromDecimal(big)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestMulDiv(t *testing.T) {
	d, err := New(20).MulDiv(MustFromString("1.1"), MustFromString("0.5"))
	require.Nil(t, err)
	assert.Equal(t, "44", d.String())
}

func TestJSON(t *testing.T) {
	var v struct {
		Amount Dec `json:"amount"`
	}

	require.Nil(t, json.Unmarshal([]byte(`{"amount":"12.5"}`), &v))
	assert.Equal(t, "12.5", v.Amount.String())

	data, err := json.Marshal(v)
	require.Nil(t, err)
	assert.JSONEq(t, `{"amount":"12.5"}`, string(data))
}

func TestScan(t *testing.T) {
	var d Dec
	require.Nil(t, d.Scan("3.14"))
	assert.Equal(t, "3.14", d.String())

	v, err := d.Value()
	require.Nil(t, err)
	assert.Equal(t, "3.14", v)
}

func TestValueColumnRange(t *testing.T) {
	largest := strings.Repeat("9", 47) + "." + strings.Repeat("9", 18)
	v, err := MustFromString(largest).Value()
	require.Nil(t, err)
	assert.Equal(t, largest, v)

	// fits in 256 bits but not in the column
	_, err = MustFromString("1" + strings.Repeat("0", 47)).Value()
	assert.ErrorIs(t, err, ErrOverflow)

	var d Dec
	require.Nil(t, d.Scan(largest))
	assert.Equal(t, largest, d.String())
}

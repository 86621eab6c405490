package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	assert.True(t, Valid(GenTraceID()))
	assert.NotEqual(t, GenTraceID(), GenTraceID())

	a := TraceIDFrom("price-btc-1600000000")
	assert.True(t, Valid(a))
	assert.Equal(t, a, TraceIDFrom("price-btc-1600000000"))
	assert.NotEqual(t, a, TraceIDFrom("price-eth-1600000000"))
	assert.False(t, Valid("not a uuid"))
}

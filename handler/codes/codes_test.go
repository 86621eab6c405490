package codes

import (
	"errors"
	"fmt"
	"testing"

	"lending/core"

	"github.com/stretchr/testify/assert"
	"github.com/twitchtv/twirp"
)

func TestFromError(t *testing.T) {
	err := FromError(fmt.Errorf("borrow/liquidity: %w", core.ErrInsufficientLiquidity))
	assert.Equal(t, twirp.FailedPrecondition, err.Code())
	assert.Equal(t, int(core.ErrInsufficientLiquidity), Get(err))

	err = FromError(fmt.Errorf("market/x: %w", core.ErrMarketNotFound))
	assert.Equal(t, twirp.NotFound, err.Code())

	err = FromError(fmt.Errorf("accrue: %w", core.ErrOverflow))
	assert.Equal(t, twirp.Internal, err.Code())
	assert.Equal(t, int(core.ErrOverflow), Get(err))

	err = FromError(errors.New("boom"))
	assert.Equal(t, twirp.Internal, err.Code())
	assert.Equal(t, 500, Get(err))

	err = FromError(twirp.InvalidArgumentError("limit", "too large"))
	assert.Equal(t, InvalidArguments, Get(err))
}

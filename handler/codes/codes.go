package codes

import (
	"errors"
	"strconv"

	"lending/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"

	// InvalidArguments invalid arguments
	InvalidArguments = int(core.ErrInvalidArgument)
)

var twirpCodes = map[core.ErrorCode]twirp.ErrorCode{
	core.ErrInvalidArgument:       twirp.InvalidArgument,
	core.ErrInvalidAmount:         twirp.InvalidArgument,
	core.ErrInvalidConfig:         twirp.InvalidArgument,
	core.ErrMarketNotFound:        twirp.NotFound,
	core.ErrPositionNotFound:      twirp.NotFound,
	core.ErrMarketExists:          twirp.AlreadyExists,
	core.ErrDisabled:              twirp.FailedPrecondition,
	core.ErrHealthCheckFailed:     twirp.FailedPrecondition,
	core.ErrInsufficientLiquidity: twirp.FailedPrecondition,
	core.ErrInsufficientBalance:   twirp.FailedPrecondition,
	core.ErrNotLiquidatable:       twirp.FailedPrecondition,
	core.ErrRepayExceedsDebt:      twirp.FailedPrecondition,
	core.ErrPriceUnavailable:      twirp.Unavailable,
	core.ErrReentrant:             twirp.Aborted,
}

// With with specified error
func With(err error, code int) twirp.Error {
	twerr, ok := err.(twirp.Error)
	if !ok {
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(code))
}

// FromError twirp error carrying the core error code found in err's chain
func FromError(err error) twirp.Error {
	if twerr, ok := err.(twirp.Error); ok {
		return twerr
	}

	var code core.ErrorCode
	if !errors.As(err, &code) {
		return twirp.InternalErrorWith(err)
	}

	twcode, ok := twirpCodes[code]
	if !ok {
		// overflow & broken invariants are bugs
		return With(err, int(code))
	}

	return twirp.NewError(twcode, err.Error()).WithMeta(CustomCodeKey, code.String())
}

// Get custom error code, falls back to the http status of the twirp code
func Get(err twirp.Error) int {
	if v := err.Meta(CustomCodeKey); v != "" {
		if code, e := strconv.Atoi(v); e == nil {
			return code
		}
	}

	switch err.Code() {
	case twirp.InvalidArgument:
		return InvalidArguments
	default:
		return twirp.ServerHTTPStatusFromErrorCode(err.Code())
	}
}

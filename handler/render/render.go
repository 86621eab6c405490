package render

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"lending/handler/codes"

	"github.com/sirupsen/logrus"
	"github.com/twitchtv/twirp"
)

// ResponseErrorMessageAsHint expose internal error messages as hint
var ResponseErrorMessageAsHint bool

func init() {
	v := os.Getenv("RESPONSE_ERROR_MESSAGE_AS_HINT")
	ResponseErrorMessageAsHint, _ = strconv.ParseBool(v)
}

// H shortcut for map
type H map[string]interface{}

type dataResponse struct {
	Data interface{} `json:"data"`
}

type errorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Hint string `json:"hint,omitempty"`
}

// JSON render v as {"data": v}
func JSON(w http.ResponseWriter, v interface{}) {
	write(w, http.StatusOK, dataResponse{Data: v})
}

// Error render err, core error codes are mapped onto twirp codes
func Error(w http.ResponseWriter, err error) {
	twerr := codes.FromError(err)

	resp := errorResponse{
		Code: codes.Get(twerr),
		Msg:  twerr.Msg(),
	}

	if twerr.Code() == twirp.Internal {
		resp.Msg = "internal error"
	}

	if ResponseErrorMessageAsHint {
		resp.Hint = err.Error()
	}

	write(w, twirp.ServerHTTPStatusFromErrorCode(twerr.Code()), resp)
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, twirp.InvalidArgumentError("request", err.Error()))
}

// NotFound not found error
func NotFound(w http.ResponseWriter, msg string) {
	Error(w, twirp.NotFoundError(msg))
}

func write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

package hc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lending/core"
	"lending/internal/testenv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenMarkets struct {
	core.IMarketService
}

func (brokenMarkets) All(ctx context.Context) ([]*core.Market, error) {
	return nil, errors.New("connection refused")
}

func TestHandle(t *testing.T) {
	env := testenv.New(t, testenv.Options{})
	env.List(testenv.MarketConfig("a"))
	env.List(testenv.MarketConfig("b"))

	w := httptest.NewRecorder()
	Handle("1.2.0", env.Markets).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Cache-Control"))

	var resp struct {
		Data struct {
			Uptime  string `json:"uptime"`
			Version string `json:"version"`
			Markets int    `json:"markets"`
		} `json:"data"`
	}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1.2.0", resp.Data.Version)
	assert.Equal(t, 2, resp.Data.Markets)
	assert.NotEmpty(t, resp.Data.Uptime)
}

func TestHandleStoreDown(t *testing.T) {
	w := httptest.NewRecorder()
	Handle("1.2.0", brokenMarkets{}).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

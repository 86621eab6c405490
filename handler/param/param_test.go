package param

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"lending/pkg/fixed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	UserID  string    `json:"user_id"`
	Amount  fixed.Dec `json:"amount"`
	Enabled bool      `json:"enabled"`
	Limit   int       `json:"limit"`
}

func TestBindingQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/?user_id=u&amount=1.5&enabled=1&limit=20", nil)

	var params request
	require.Nil(t, Binding(r, &params))
	assert.Equal(t, "u", params.UserID)
	assert.Equal(t, "1.5", params.Amount.String())
	assert.True(t, params.Enabled)
	assert.Equal(t, 20, params.Limit)
}

func TestBindingForm(t *testing.T) {
	form := url.Values{"user_id": {"u"}, "amount": {"2"}}
	r := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var params request
	require.Nil(t, Binding(r, &params))
	assert.Equal(t, "2", params.Amount.String())
}

func TestBindingJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"user_id":"u","amount":"3.25","enabled":true}`))

	var params request
	require.Nil(t, Binding(r, &params))
	assert.Equal(t, "3.25", params.Amount.String())
	assert.True(t, params.Enabled)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"amount":"-1"}`))
	assert.NotNil(t, Binding(r, &params))
}

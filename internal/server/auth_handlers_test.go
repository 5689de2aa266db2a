package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callback(query url.Values, state string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/oauth/callback?"+query.Encode(), nil)
	if state != "" {
		req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: state})
	}
	return req
}

func TestHandleAuthorize(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/authorize", nil))

	require.Equal(t, http.StatusFound, w.Code)

	var state string
	for _, c := range w.Result().Cookies() {
		if c.Name == oauthStateCookie {
			state = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	require.NotEmpty(t, state)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.example", location.Host)
	assert.Equal(t, state, location.Query().Get("state"))
}

func TestHandleOAuthCallback(t *testing.T) {
	t.Run("exchanges the code and continues to the form", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(callback(url.Values{"code": {"abc"}, "state": {"s1"}}, "s1"))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/create_event", w.Header().Get("Location"))
		assert.Equal(t, []string{"abc"}, env.auth.exchanged)
	})

	tests := []struct {
		name   string
		query  url.Values
		cookie string
	}{
		{name: "missing code", query: url.Values{"state": {"s1"}}, cookie: "s1"},
		{name: "consent denied", query: url.Values{"error": {"access_denied"}, "state": {"s1"}}, cookie: "s1"},
		{name: "state mismatch", query: url.Values{"code": {"abc"}, "state": {"s2"}}, cookie: "s1"},
		{name: "missing state cookie", query: url.Values{"code": {"abc"}, "state": {"s1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			w := env.do(callback(tt.query, tt.cookie))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, env.auth.exchanged)
		})
	}

	t.Run("exchange failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.exchangeErr = errors.New("invalid_grant")

		w := env.do(callback(url.Values{"code": {"abc"}, "state": {"s1"}}, "s1"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_grant")
	})
}

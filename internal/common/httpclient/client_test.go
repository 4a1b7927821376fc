package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
)

func newClient(t *testing.T, url string) *Client {
	t.Helper()
	return New(Config{BaseURL: url + "/", APIKey: "k-123", Target: t.Name()}, logger.NewWriter(&bytes.Buffer{}, "test", "debug"))
}

func TestPostJSON_SendsKeyAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "k-123", r.Header.Get("X-API-KEY"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["email"]})
	}))
	defer srv.Close()

	var out map[string]string
	err := newClient(t, srv.URL).PostJSON(context.Background(), "/users", map[string]string{"email": "a@b.io"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "a@b.io", out["echo"])
}

func TestPostJSON_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"exists"}`))
	}))
	defer srv.Close()

	err := newClient(t, srv.URL).PostJSON(context.Background(), "/users", map[string]string{}, nil)

	var apiErr *ExternalAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Contains(t, apiErr.Body, "exists")
	assert.ErrorIs(t, err, commonerrors.ErrExternalService)
}

func TestGetJSON_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newClient(t, url).GetJSON(context.Background(), "/users/1", nil)

	var apiErr *ExternalAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	for i := 0; i < 5; i++ {
		_ = c.GetJSON(context.Background(), "/", nil)
	}

	err := c.GetJSON(context.Background(), "/", nil)
	assert.ErrorIs(t, err, commonerrors.ErrCircuitOpen)
	assert.Equal(t, 5, calls)
}

func TestEnabled(t *testing.T) {
	assert.False(t, New(Config{}, nil).Enabled())
	assert.True(t, New(Config{BaseURL: "http://x"}, nil).Enabled())
}

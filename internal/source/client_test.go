package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWithRetryRecoversFromServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := ClientConfig{Timeout: 2 * time.Second, MaxRetries: 3}
	body, err := getWithRetry(context.Background(), newHTTPClient(cfg), cfg, "rbi", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(2), hits.Load())
}

func TestGetWithRetryNotFoundFailsImmediately(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfg := ClientConfig{Timeout: 2 * time.Second, MaxRetries: 3}
	_, err := getWithRetry(context.Background(), newHTTPClient(cfg), cfg, "rbi", srv.URL)
	assert.True(t, IsUnavailable(err), "want unavailable error, got %v", err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetWithRetryExhaustsAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := ClientConfig{Timeout: 2 * time.Second, MaxRetries: 2}
	_, err := getWithRetry(context.Background(), newHTTPClient(cfg), cfg, "world-bank", srv.URL)
	assert.True(t, IsUnavailable(err), "want unavailable error, got %v", err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestErrorSourceAttribution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))
	defer srv.Close()

	cfg := ClientConfig{Timeout: 2 * time.Second, MaxRetries: 1}
	_, err := getWithRetry(context.Background(), newHTTPClient(cfg), cfg, "mospi", srv.URL)

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "mospi", string(unavailable.Source))
	assert.Contains(t, err.Error(), "418")
}

package robots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGate_DisallowedPath(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gate := NewGate(true, "jobradar-bot/0.1", zap.NewNop())
	ctx := context.Background()

	require.True(t, gate.Allowed(ctx, srv.URL+"/jobs"))
	require.False(t, gate.Allowed(ctx, srv.URL+"/private/listing"))
}

func TestGate_FailOpenOnFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	// Closing immediately forces a network error on fetch.
	srv.Close()

	gate := NewGate(true, "jobradar-bot/0.1", zap.NewNop())
	require.True(t, gate.Allowed(context.Background(), srv.URL+"/jobs"))
}

func TestGate_FailOpenOnNon2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	gate := NewGate(true, "jobradar-bot/0.1", zap.NewNop())
	require.True(t, gate.Allowed(context.Background(), srv.URL+"/jobs"))
}

func TestGate_CachesPolicyPerOrigin(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fetches.Add(1)
			_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
		}
	}))
	defer srv.Close()

	gate := NewGate(true, "jobradar-bot/0.1", zap.NewNop())
	ctx := context.Background()
	for range 5 {
		require.True(t, gate.Allowed(ctx, srv.URL+"/jobs"))
	}
	require.Equal(t, int32(1), fetches.Load())
}

func TestGate_RespectDisabled(t *testing.T) {
	t.Parallel()

	gate := NewGate(false, "jobradar-bot/0.1", zap.NewNop())
	require.True(t, gate.Allowed(context.Background(), "https://example.com/anything"))
}

func TestGate_MalformedURL(t *testing.T) {
	t.Parallel()

	gate := NewGate(true, "jobradar-bot/0.1", zap.NewNop())
	require.True(t, gate.Allowed(context.Background(), "not a url"))
}

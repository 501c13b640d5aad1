package collyfetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetcher_ReturnsBody(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><body>jobs</body></html>"))
	}))
	defer srv.Close()

	f := New(Config{UserAgent: "Mozilla/5.0 (test)", Timeout: 2 * time.Second})
	body, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	require.Contains(t, string(body), "jobs")
	require.Equal(t, "Mozilla/5.0 (test)", gotUA)
}

func TestFetcher_RefetchesSameURL(t *testing.T) {
	t.Parallel()

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte("<html><body>jobs</body></html>"))
	}))
	defer srv.Close()

	f := New(Config{Timeout: 2 * time.Second})

	for i := 0; i < 2; i++ {
		body, err := f.Fetch(context.Background(), srv.URL+"/jobs?q=designer")
		require.NoError(t, err)
		require.Contains(t, string(body), "jobs")
	}
	require.Equal(t, 2, hits)
}

func TestFetcher_Non2xxIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := New(Config{Timeout: 2 * time.Second})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestFetcher_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(Config{Timeout: 2 * time.Second})
	_, err := f.Fetch(ctx, srv.URL)
	require.Error(t, err)
}

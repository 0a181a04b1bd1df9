package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/deevus/blogstats/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T, handler http.HandlerFunc) *source.HTTP {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	h, err := source.NewHTTP(source.HTTPParams{BaseURL: srv.URL + "/", Client: srv.Client()})
	require.NoError(t, err)
	return h
}

func TestNewHTTP_Validation(t *testing.T) {
	_, err := source.NewHTTP(source.HTTPParams{})
	assert.Error(t, err)
	_, err = source.NewHTTP(source.HTTPParams{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
	_, err = source.NewHTTP(source.HTTPParams{BaseURL: "https://stats.example.com"})
	assert.NoError(t, err)
}

func TestHTTP_Queries(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	h := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.RequestURI())
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/stats/daily":
			w.Write([]byte(`{"points":[{"label":"2024-03-09","value":4},{"label":"2024-03-10","value":7}]}`))
		case "/api/stats/top":
			w.Write([]byte(`{"points":[{"label":"Post 1","value":100},{"label":"Post 2","value":80}]}`))
		case "/api/stats/share":
			w.Write([]byte(`{"points":[{"label":"China","value":50}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	ts, err := h.TimeSeries(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []source.Point{{Label: "2024-03-09", Value: 4}, {Label: "2024-03-10", Value: 7}}, ts)

	ranked, err := h.Ranked(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []source.Point{{Label: "Post 1", Value: 100}, {Label: "Post 2", Value: 80}}, ranked)

	share, err := h.CategoricalShare(ctx)
	require.NoError(t, err)
	assert.Equal(t, []source.Point{{Label: "China", Value: 50}}, share)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/api/stats/daily?days=2", "/api/stats/top?limit=5", "/api/stats/share"}, paths)
}

func TestHTTP_EmptyPoints(t *testing.T) {
	h := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	pts, err := h.Ranked(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, pts)
	assert.Empty(t, pts)
}

func TestHTTP_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "server error with message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"database locked"}`))
			},
			want: "database locked",
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			want: "404",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"points":[{"label":`))
			},
			want: "decode response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAPI(t, tt.handler)
			_, err := h.CategoricalShare(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, source.ErrDataUnavailable)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestHTTP_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	h := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.TimeSeries(ctx, 7)
	assert.ErrorIs(t, err, source.ErrDataUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

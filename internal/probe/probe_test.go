package probe

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

func TestWaitRetriesUntilHealthy(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","rows":125,"sessions":2}`))
	}))
	defer srv.Close()

	health, err := New(srv.URL, 5*time.Second).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 125, health.Rows)
	assert.Equal(t, 2, health.Sessions)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWaitStopsOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 5*time.Second).Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestWaitGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 300*time.Millisecond).Wait(context.Background())
	assert.Error(t, err)
}

func TestAttemptTimeout(t *testing.T) {
	tests := []struct {
		maxElapsed time.Duration
		want       time.Duration
	}{
		{0, 5 * time.Second},
		{-time.Second, 5 * time.Second},
		{100 * time.Millisecond, 250 * time.Millisecond},
		{2 * time.Second, 500 * time.Millisecond},
		{8 * time.Second, 2 * time.Second},
		{30 * time.Second, 5 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, attemptTimeout(tt.maxElapsed), "maxElapsed %s", tt.maxElapsed)
	}

	assert.Equal(t, 500*time.Millisecond, New("http://localhost/health", 2*time.Second).client.Timeout)
}

func TestWaitRetriesAfterHungRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			return
		}
		w.Write([]byte(`{"status":"ok","rows":125,"sessions":0}`))
	}))
	defer srv.Close()

	start := time.Now()
	health, err := New(srv.URL, 2*time.Second).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
	assert.Less(t, time.Since(start), 2*time.Second)
}

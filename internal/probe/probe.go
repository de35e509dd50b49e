// Package probe checks that a running dashboard server is healthy, retrying
// with exponential backoff while it starts up.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lox/habitatshift/internal/httputil"
)

// Health is the body served by /health.
type Health struct {
	Status   string `json:"status"`
	Rows     int    `json:"rows"`
	Sessions int    `json:"sessions"`
}

type Prober struct {
	client     *http.Client
	url        string
	maxElapsed time.Duration
}

// minAttemptTimeout keeps short probe budgets from timing out every request.
const minAttemptTimeout = 250 * time.Millisecond

// New returns a Prober for the given health URL. maxElapsed bounds the total
// time spent retrying; a single request gets a quarter of it, so a hung server
// still leaves room for retries.
func New(url string, maxElapsed time.Duration) *Prober {
	return &Prober{
		client:     httputil.NewClient(attemptTimeout(maxElapsed)),
		url:        url,
		maxElapsed: maxElapsed,
	}
}

func attemptTimeout(maxElapsed time.Duration) time.Duration {
	if maxElapsed <= 0 {
		return httputil.DefaultTimeout
	}
	return min(max(maxElapsed/4, minAttemptTimeout), httputil.DefaultTimeout)
}

// Wait polls until the server reports status "ok". Connection failures and
// 5xx responses are retried; other statuses fail immediately.
func (p *Prober) Wait(ctx context.Context) (*Health, error) {
	var health Health

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch health: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("health: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("health: status %d: %s", resp.StatusCode, string(b)))
		}

		if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
			return backoff.Permanent(fmt.Errorf("decode health: %w", err))
		}
		if health.Status != "ok" {
			return fmt.Errorf("health: status %q", health.Status)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = p.maxElapsed

	notify := func(err error, wait time.Duration) {
		log.Printf("probe %s: %v (retrying in %s)", p.url, err, wait.Round(time.Millisecond))
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify); err != nil {
		return nil, err
	}
	return &health, nil
}

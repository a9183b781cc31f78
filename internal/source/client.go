package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"forecastwatch/internal/record"
)

const maxResponseBytes = 4 << 20

// ClientConfig bounds every network fetch. Retries stay local to the
// fetcher: the orchestrator only ever sees the final success or an
// UnavailableError.
type ClientConfig struct {
	Timeout    time.Duration
	MaxRetries int
}

// DefaultClientConfig matches the documented configuration defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{Timeout: 30 * time.Second, MaxRetries: 3}
}

func newHTTPClient(cfg ClientConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// getWithRetry performs a GET with exponential backoff. Transport
// failures and 5xx responses are retried up to MaxRetries attempts and
// then surface as *UnavailableError. Non-retryable statuses fail
// immediately.
func getWithRetry(ctx context.Context, client *http.Client, cfg ClientConfig, src record.SourceID, url string) ([]byte, error) {
	op := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return nil, backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, err
		}
		return body, nil
	}

	body, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(cfg.MaxRetries)),
	)
	if err != nil {
		return nil, &UnavailableError{Source: src, Err: err}
	}
	return body, nil
}

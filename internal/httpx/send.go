// Package httpx wraps the outbound request envelope shared by every client:
// per-request timeout, status classification and the retry budget.
package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 512

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http status %d", e.Code)
	}
	return fmt.Sprintf("http status %d: %s", e.Code, e.Body)
}

// Sender executes requests built by a RequestFunc.
type Sender struct {
	HTTP *http.Client
	// MaxRetries is the number of extra attempts after the first. Zero means
	// exactly one attempt.
	MaxRetries uint64
}

// RequestFunc builds a fresh request for every attempt, since bodies are
// consumed by the transport.
type RequestFunc func(ctx context.Context) (*http.Request, error)

// Send performs the request with the given timeout and returns the response body
// of a 2xx reply. 4xx replies are never retried.
func (s *Sender) Send(ctx context.Context, timeout time.Duration, build RequestFunc) ([]byte, error) {
	client := s.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	var body []byte
	op := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		req, err := build(reqCtx)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			serr := &StatusError{Code: resp.StatusCode, Body: truncate(string(data))}
			if resp.StatusCode < 500 {
				return backoff.Permanent(serr)
			}
			return serr
		}
		body = data
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, s.MaxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return body, nil
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}

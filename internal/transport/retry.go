// Package transport provides the shared outbound HTTP client. Requests to the
// provider go through a RoundTripper that retries a fixed set of server
// error statuses with exponential backoff.
package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// RetryPolicy controls which responses are retried and how long to wait.
type RetryPolicy struct {
	// MaxAttempts counts the first request, so 5 means up to 4 retries.
	MaxAttempts int
	// BackoffFactor is the first wait; each following wait doubles.
	BackoffFactor time.Duration
	StatusCodes   []int
}

// DefaultRetryPolicy matches the provider's recommended client settings.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   5,
		BackoffFactor: 2 * time.Second,
		StatusCodes:   []int{http.StatusInternalServerError, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
	}
}

// RetryTransport is an http.RoundTripper. It is safe for concurrent use as
// long as Next is.
type RetryTransport struct {
	Next   http.RoundTripper
	Policy RetryPolicy
	Logger zerolog.Logger

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryTransport wraps next with the given policy.
func NewRetryTransport(next http.RoundTripper, policy RetryPolicy, logger zerolog.Logger) *RetryTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &RetryTransport{Next: next, Policy: policy, Logger: logger}
}

func (t *RetryTransport) retryable(code int) bool {
	for _, c := range t.Policy.StatusCodes {
		if c == code {
			return true
		}
	}
	return false
}

func (t *RetryTransport) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = t.Policy.BackoffFactor
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = 24 * time.Hour
	exp.MaxElapsedTime = 0
	exp.Reset()

	retries := t.Policy.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// RoundTrip implements http.RoundTripper. When the retry budget runs out the
// last response is returned unchanged so the caller can inspect it.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	b := t.newBackOff(ctx)

	for attempt := 1; ; attempt++ {
		resp, err := t.Next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if !t.retryable(resp.StatusCode) {
			return resp, nil
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return resp, nil
		}

		// The connection can only be reused once the body has been drained.
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		t.Logger.Warn().
			Str("host", req.URL.Host).
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("retrying provider request")

		if err := t.wait(ctx, wait); err != nil {
			return nil, err
		}

		if req, err = rewind(req); err != nil {
			return nil, err
		}
	}
}

func (t *RetryTransport) wait(ctx context.Context, d time.Duration) error {
	if t.sleep != nil {
		return t.sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// rewind returns a request whose body can be sent again.
func rewind(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("transport: cannot retry %s %s: request body is not replayable", req.Method, req.URL.Path)
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("transport: rewind request body: %w", err)
	}

	clone := req.Clone(req.Context())
	clone.Body = body
	return clone, nil
}

// ClientOptions bounds the pooled client.
type ClientOptions struct {
	Timeout               time.Duration
	ResponseHeaderTimeout time.Duration
	Policy                RetryPolicy
}

// NewClient builds the pooled, retrying client shared by all requests.
// Timeout covers every attempt and backoff wait of a single call.
func NewClient(opts ClientOptions, logger zerolog.Logger) *http.Client {
	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: opts.ResponseHeaderTimeout,
		ExpectContinueTimeout: time.Second,
	}

	return &http.Client{
		Transport: NewRetryTransport(base, opts.Policy, logger),
		Timeout:   opts.Timeout,
	}
}

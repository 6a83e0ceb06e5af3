package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRoundTripper answers with the given statuses in order and repeats
// the last one once the script is exhausted.
type scriptedRoundTripper struct {
	statuses []int
	err      error
	calls    int
	bodies   []string
}

func (s *scriptedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		s.bodies = append(s.bodies, string(b))
	}

	idx := s.calls - 1
	if idx >= len(s.statuses) {
		idx = len(s.statuses) - 1
	}
	return &http.Response{
		StatusCode: s.statuses[idx],
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(http.StatusText(s.statuses[idx]))),
		Request:    req,
	}, nil
}

func newTestTransport(next http.RoundTripper, waits *[]time.Duration) *RetryTransport {
	rt := NewRetryTransport(next, DefaultRetryPolicy(), zerolog.Nop())
	rt.sleep = func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return ctx.Err()
	}
	return rt
}

func TestRetryTransport_RoundTrip(t *testing.T) {
	tests := []struct {
		name           string
		statuses       []int
		expectedStatus int
		expectedCalls  int
		expectedWaits  []time.Duration
	}{
		{
			name:           "success on first attempt",
			statuses:       []int{http.StatusOK},
			expectedStatus: http.StatusOK,
			expectedCalls:  1,
		},
		{
			name:           "service unavailable on every attempt",
			statuses:       []int{http.StatusServiceUnavailable},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCalls:  5,
			expectedWaits:  []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second},
		},
		{
			name:           "recovers after internal server error",
			statuses:       []int{http.StatusInternalServerError, http.StatusGatewayTimeout, http.StatusOK},
			expectedStatus: http.StatusOK,
			expectedCalls:  3,
			expectedWaits:  []time.Duration{2 * time.Second, 4 * time.Second},
		},
		{
			name:           "bad gateway is not retried",
			statuses:       []int{http.StatusBadGateway},
			expectedStatus: http.StatusBadGateway,
			expectedCalls:  1,
		},
		{
			name:           "client error is not retried",
			statuses:       []int{http.StatusForbidden},
			expectedStatus: http.StatusForbidden,
			expectedCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &scriptedRoundTripper{statuses: tt.statuses}
			var waits []time.Duration
			rt := newTestTransport(next, &waits)

			req := httptest.NewRequest(http.MethodGet, "https://maps.example.com/geocode/json", nil)
			resp, err := rt.RoundTrip(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedCalls, next.calls)
			assert.Equal(t, tt.expectedWaits, waits)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, http.StatusText(tt.expectedStatus), string(body), "final body is left readable")
		})
	}
}

func TestRetryTransport_TransportErrorIsNotRetried(t *testing.T) {
	next := &scriptedRoundTripper{err: assert.AnError}
	var waits []time.Duration
	rt := newTestTransport(next, &waits)

	req := httptest.NewRequest(http.MethodGet, "http://maps.example.com/geocode/xml", nil)
	_, err := rt.RoundTrip(req)

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, next.calls)
	assert.Empty(t, waits)
}

func TestRetryTransport_ContextCanceledDuringWait(t *testing.T) {
	next := &scriptedRoundTripper{statuses: []int{http.StatusServiceUnavailable}}
	rt := NewRetryTransport(next, DefaultRetryPolicy(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	rt.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	req := httptest.NewRequest(http.MethodGet, "https://maps.example.com/geocode/json", nil).WithContext(ctx)
	_, err := rt.RoundTrip(req)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, next.calls)
}

func TestRetryTransport_ReplaysRequestBody(t *testing.T) {
	next := &scriptedRoundTripper{statuses: []int{http.StatusInternalServerError, http.StatusOK}}
	var waits []time.Duration
	rt := newTestTransport(next, &waits)

	req, err := http.NewRequest(http.MethodPost, "https://maps.example.com/geocode/json", strings.NewReader("address=Montevideo"))
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"address=Montevideo", "address=Montevideo"}, next.bodies)
}

func TestRetryTransport_CustomPolicy(t *testing.T) {
	next := &scriptedRoundTripper{statuses: []int{http.StatusTooManyRequests}}
	rt := NewRetryTransport(next, RetryPolicy{
		MaxAttempts:   2,
		BackoffFactor: time.Millisecond,
		StatusCodes:   []int{http.StatusTooManyRequests},
	}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "https://maps.example.com/geocode/json", nil)
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 2, next.calls)
}

func TestNewClient_RetriesAgainstServer(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{
		Timeout:               5 * time.Second,
		ResponseHeaderTimeout: time.Second,
		Policy: RetryPolicy{
			MaxAttempts:   5,
			BackoffFactor: time.Millisecond,
			StatusCodes:   []int{http.StatusInternalServerError, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		},
	}, zerolog.Nop())

	resp, err := client.Get(srv.URL + "/geocode/json")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"status":"OK"}`, string(body))
	assert.Equal(t, int32(3), hits.Load())
}

func TestNewClient_AppliesTimeouts(t *testing.T) {
	policy := DefaultRetryPolicy()
	client := NewClient(ClientOptions{
		Timeout:               90 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		Policy:                policy,
	}, zerolog.Nop())

	assert.Equal(t, 90*time.Second, client.Timeout)

	rt, ok := client.Transport.(*RetryTransport)
	require.True(t, ok, "client transport is %T", client.Transport)
	assert.Equal(t, policy, rt.Policy)

	base, ok := rt.Next.(*http.Transport)
	require.True(t, ok, "base transport is %T", rt.Next)
	assert.Equal(t, 10*time.Second, base.ResponseHeaderTimeout)
}

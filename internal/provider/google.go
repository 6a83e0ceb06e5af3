package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"geocoding-gateway/internal/models"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the Google Maps API root. The geocode endpoint and the
// output format are appended to it.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

// maxBodySize caps how much of a provider response is read into memory.
const maxBodySize = 4 << 20

// GoogleMapsClient fetches raw geocoding payloads from Google Maps.
// It is safe for concurrent use.
type GoogleMapsClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     zerolog.Logger
}

// NewGoogleMapsClient creates a new provider client. httpClient is expected
// to be the shared retrying client from the transport package.
func NewGoogleMapsClient(httpClient *http.Client, baseURL, apiKey string, logger zerolog.Logger) *GoogleMapsClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GoogleMapsClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.With().Str("component", "provider").Logger(),
	}
}

// Fetch requests the geocode of q.Address in q.Format and returns the body
// untouched. Any non-2xx final status becomes a *models.UpstreamError.
func (c *GoogleMapsClient) Fetch(ctx context.Context, q models.AddressQuery) ([]byte, error) {
	endpoint := c.baseURL + "/geocode/" + url.PathEscape(string(q.Format))

	params := url.Values{}
	params.Set("address", q.Address)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("provider: failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = redact(err, c.apiKey)
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("provider request failed")
		return nil, &models.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		c.logger.Error().Err(err).Int("status", resp.StatusCode).Msg("failed to read provider response")
		return nil, &models.UpstreamError{StatusCode: resp.StatusCode, Err: err}
	}
	if len(body) > maxBodySize {
		err := fmt.Errorf("provider: response body exceeds %d bytes", maxBodySize)
		c.logger.Error().Err(err).Int("status", resp.StatusCode).Msg("provider response too large")
		return nil, &models.UpstreamError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msgf("Received error %d", resp.StatusCode)
		return nil, &models.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Str("body", string(body)).
		Msg("response received")

	return body, nil
}

// redact strips the API key from errors that embed the request URL.
func redact(err error, key string) error {
	if key == "" {
		return err
	}
	msg := err.Error()
	msg = strings.ReplaceAll(msg, url.QueryEscape(key), "REDACTED")
	msg = strings.ReplaceAll(msg, key, "REDACTED")
	if msg == err.Error() {
		return err
	}
	return &redactedError{msg: msg, cause: err}
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.cause }

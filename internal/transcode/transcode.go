// Package transcode turns a provider geocoding payload into the gateway's
// stable output schema.
//
// Both formats share one extraction path: a codec parses the payload into a
// payload value and renders the final result, while status checks and the
// first-result lookup live in Transcoder.coordinates. The output field names
// differ between formats ("long" in JSON, "lng" in XML) and that difference
// is confined to the codecs.
package transcode

import (
	"errors"
	"fmt"

	"geocoding-gateway/internal/models"

	"github.com/rs/zerolog"
)

// StatusOK is the provider status for a successful lookup.
const StatusOK = "OK"

// ErrMalformedPayload is returned when the provider body cannot be parsed at all.
var ErrMalformedPayload = errors.New("malformed provider payload")

// payload is a parsed provider response.
type payload interface {
	Status() string
	// Location returns the first result's latitude and longitude, or an
	// error describing which part of the structure is missing.
	Location() (lat, lng string, err error)
}

type codec interface {
	parse(raw []byte) (payload, error)
	render(models.GeocodeResult) ([]byte, error)
	contentType() string
}

// Transcoder converts provider payloads. It holds no per-request state.
type Transcoder struct {
	codecs map[models.OutputFormat]codec
	logger zerolog.Logger
}

// NewTranscoder creates a transcoder for the JSON and XML formats.
func NewTranscoder(logger zerolog.Logger) *Transcoder {
	return &Transcoder{
		codecs: map[models.OutputFormat]codec{
			models.FormatJSON: jsonCodec{},
			models.FormatXML:  xmlCodec{},
		},
		logger: logger.With().Str("component", "transcoder").Logger(),
	}
}

// Transcode parses raw in format and renders the result for address.
// A provider status other than OK, or an OK payload with an unexpected
// shape, yields empty coordinates rather than an error.
func (t *Transcoder) Transcode(address string, format models.OutputFormat, raw []byte) (models.Document, error) {
	c, ok := t.codecs[format]
	if !ok {
		return models.Document{}, fmt.Errorf("transcode: unsupported format %q", format)
	}

	p, err := c.parse(raw)
	if err != nil {
		return models.Document{}, fmt.Errorf("transcode: %w: %v", ErrMalformedPayload, err)
	}

	result := models.GeocodeResult{
		Address:     address,
		Coordinates: t.coordinates(p),
	}

	body, err := c.render(result)
	if err != nil {
		return models.Document{}, fmt.Errorf("transcode: failed to render %s: %w", format, err)
	}

	return models.Document{ContentType: c.contentType(), Body: body}, nil
}

func (t *Transcoder) coordinates(p payload) models.Coordinate {
	if p.Status() != StatusOK {
		return models.Coordinate{}
	}

	lat, lng, err := p.Location()
	if err != nil {
		t.logger.Error().Err(err).Msg("provider returned OK without a usable location")
		return models.Coordinate{}
	}

	return models.Coordinate{Lat: lat, Long: lng}
}

package service

import (
	"context"
	"fmt"

	"geocoding-gateway/internal/models"
)

// GeoCodeService contains the core business logic for geocoding requests
type GeoCodeService struct {
	provider   GeoCodeProvider
	transcoder Transcoder
}

// GeoCodeProvider fetches the raw provider payload for a validated query
type GeoCodeProvider interface {
	Fetch(ctx context.Context, q models.AddressQuery) ([]byte, error)
}

// Transcoder converts a raw provider payload into the output document
type Transcoder interface {
	Transcode(address string, format models.OutputFormat, raw []byte) (models.Document, error)
}

// NewGeoCodeService creates a new geo code service
func NewGeoCodeService(provider GeoCodeProvider, transcoder Transcoder) *GeoCodeService {
	return &GeoCodeService{provider: provider, transcoder: transcoder}
}

// Geocode validates the input, asks the provider for the address and renders
// the result in the requested format. Validation failures are returned as
// *models.InvalidInputError before any outbound call is made.
func (s *GeoCodeService) Geocode(ctx context.Context, address, outputFormat string) (models.Document, error) {
	query, err := models.NewAddressQuery(address, outputFormat)
	if err != nil {
		return models.Document{}, err
	}

	raw, err := s.provider.Fetch(ctx, query)
	if err != nil {
		return models.Document{}, fmt.Errorf("service: failed to fetch geocode: %w", err)
	}

	doc, err := s.transcoder.Transcode(query.Address, query.Format, raw)
	if err != nil {
		return models.Document{}, fmt.Errorf("service: failed to transcode response: %w", err)
	}

	return doc, nil
}

package models

import (
	"fmt"
	"strings"
)

// OutputFormat is the serialization requested by the caller. It also selects
// the provider endpoint, since the provider speaks the same two formats.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatXML  OutputFormat = "xml"
)

// AddressQuery is a validated geocoding request.
type AddressQuery struct {
	Address string
	Format  OutputFormat
}

// NewAddressQuery validates raw caller input. The format is matched
// case-insensitively and normalized to lowercase.
func NewAddressQuery(address, outputFormat string) (AddressQuery, error) {
	if address == "" {
		return AddressQuery{}, &InvalidInputError{Message: "The address string is empty"}
	}

	format := OutputFormat(strings.ToLower(outputFormat))
	if format != FormatJSON && format != FormatXML {
		return AddressQuery{}, &InvalidInputError{
			Message: fmt.Sprintf("Invalid output format: '%s'. Only allowed formats are {%s, %s}", format, FormatJSON, FormatXML),
		}
	}

	return AddressQuery{Address: address, Format: format}, nil
}

// Coordinate holds provider-native text for a resolved point. Empty strings
// mean the address could not be resolved.
type Coordinate struct {
	Lat  string
	Long string
}

// GeocodeResult is the only output shape of the gateway. Address is echoed
// from the query, never taken from the provider.
type GeocodeResult struct {
	Address     string
	Coordinates Coordinate
}

// Document is a rendered GeocodeResult ready to be written to the caller.
type Document struct {
	ContentType string
	Body        []byte
}

package transcode

import (
	"encoding/xml"
	"errors"
	"strings"

	"geocoding-gateway/internal/models"
)

type xmlCodec struct{}

// xmlPayload matches any root element; the provider uses GeocodeResponse.
type xmlPayload struct {
	StatusField *string     `xml:"status"`
	Results     []xmlResult `xml:"result"`
}

type xmlResult struct {
	Geometry *struct {
		Location *struct {
			Lat *string `xml:"lat"`
			Lng *string `xml:"lng"`
		} `xml:"location"`
	} `xml:"geometry"`
}

func (xmlCodec) parse(raw []byte) (payload, error) {
	var p xmlPayload
	if err := xml.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *xmlPayload) Status() string {
	if p.StatusField == nil {
		return ""
	}
	return strings.TrimSpace(*p.StatusField)
}

func (p *xmlPayload) Location() (string, string, error) {
	if len(p.Results) == 0 {
		return "", "", errors.New("missing result element")
	}

	first := p.Results[0]
	switch {
	case first.Geometry == nil:
		return "", "", errors.New("missing result/geometry")
	case first.Geometry.Location == nil:
		return "", "", errors.New("missing result/geometry/location")
	case first.Geometry.Location.Lat == nil:
		return "", "", errors.New("missing result/geometry/location/lat")
	case first.Geometry.Location.Lng == nil:
		return "", "", errors.New("missing result/geometry/location/lng")
	}

	return strings.TrimSpace(*first.Geometry.Location.Lat), strings.TrimSpace(*first.Geometry.Location.Lng), nil
}

type xmlOutput struct {
	XMLName     xml.Name       `xml:"root"`
	Address     string         `xml:"address"`
	Coordinates xmlCoordinates `xml:"coordinates"`
}

type xmlCoordinates struct {
	Lat string `xml:"lat"`
	Lng string `xml:"lng"`
}

func (xmlCodec) render(r models.GeocodeResult) ([]byte, error) {
	body, err := xml.Marshal(xmlOutput{
		Address: r.Address,
		Coordinates: xmlCoordinates{
			Lat: r.Coordinates.Lat,
			Lng: r.Coordinates.Long,
		},
	})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func (xmlCodec) contentType() string {
	return "application/xml"
}

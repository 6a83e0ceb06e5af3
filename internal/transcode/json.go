package transcode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"geocoding-gateway/internal/models"
)

type jsonCodec struct{}

type jsonPayload struct {
	StatusField json.RawMessage `json:"status"`
	Results     json.RawMessage `json:"results"`
}

type jsonResult struct {
	Geometry *struct {
		Location *struct {
			Lat *json.Number `json:"lat"`
			Lng *json.Number `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

func (jsonCodec) parse(raw []byte) (payload, error) {
	var p jsonPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Status returns "" when the status is absent or not a JSON string, which
// callers treat like any other non-OK status.
func (p *jsonPayload) Status() string {
	var status string
	if err := json.Unmarshal(p.StatusField, &status); err != nil {
		return ""
	}
	return status
}

func (p *jsonPayload) Location() (string, string, error) {
	if len(p.Results) == 0 || string(p.Results) == "null" {
		return "", "", errors.New("missing results")
	}

	var results []json.RawMessage
	if err := json.Unmarshal(p.Results, &results); err != nil {
		return "", "", fmt.Errorf("results: %w", err)
	}
	if len(results) == 0 {
		return "", "", errors.New("results is empty")
	}

	// Only one address is sent per request, so only the first result matters.
	var first jsonResult
	if err := json.Unmarshal(results[0], &first); err != nil {
		return "", "", fmt.Errorf("results[0]: %w", err)
	}

	switch {
	case first.Geometry == nil:
		return "", "", errors.New("missing results[0].geometry")
	case first.Geometry.Location == nil:
		return "", "", errors.New("missing results[0].geometry.location")
	case first.Geometry.Location.Lat == nil:
		return "", "", errors.New("missing results[0].geometry.location.lat")
	case first.Geometry.Location.Lng == nil:
		return "", "", errors.New("missing results[0].geometry.location.lng")
	}

	return first.Geometry.Location.Lat.String(), first.Geometry.Location.Lng.String(), nil
}

type jsonOutput struct {
	Address     string          `json:"address"`
	Coordinates jsonCoordinates `json:"coordinates"`
}

type jsonCoordinates struct {
	Lat  jsonValue `json:"lat"`
	Long jsonValue `json:"long"`
}

// jsonValue keeps numeric provider text as a JSON number and falls back to a
// string otherwise, so an unresolved coordinate is rendered as "".
type jsonValue string

func (v jsonValue) MarshalJSON() ([]byte, error) {
	s := string(v)
	if s != "" && (s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) && json.Valid([]byte(s)) {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func (jsonCodec) render(r models.GeocodeResult) ([]byte, error) {
	out := jsonOutput{
		Address: r.Address,
		Coordinates: jsonCoordinates{
			Lat:  jsonValue(r.Coordinates.Lat),
			Long: jsonValue(r.Coordinates.Long),
		},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (jsonCodec) contentType() string {
	return "application/json"
}

package worldbank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CountryNamer is anything that can produce a country display name.
type CountryNamer interface {
	Name() string
}

// countryObject is the usual form: {"id": "TD", "value": "Chad"}.
type countryObject struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

func (c countryObject) Name() string { return strings.TrimSpace(c.Value) }

// countryString is the bare form: "Chad".
type countryString string

func (c countryString) Name() string { return strings.TrimSpace(string(c)) }

// CountryField decodes either country form.
type CountryField struct {
	CountryNamer
}

// Name is empty when the field was absent.
func (f CountryField) Name() string {
	if f.CountryNamer == nil {
		return ""
	}
	return f.CountryNamer.Name()
}

func (f *CountryField) UnmarshalJSON(data []byte) error {
	namer, err := decodeCountry(data)
	if err != nil {
		return err
	}
	f.CountryNamer = namer
	return nil
}

// decodeCountry picks the variant from the shape of the JSON value.
func decodeCountry(raw []byte) (CountryNamer, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '{':
		var obj countryObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("country object: %w", err)
		}
		return obj, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("country string: %w", err)
		}
		return countryString(s), nil
	default:
		return nil, fmt.Errorf("unsupported country value %s", string(raw))
	}
}

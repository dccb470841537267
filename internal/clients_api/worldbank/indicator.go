package worldbank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse - body is not the [meta, observations] pair
	ErrMalformedResponse = errors.New("malformed indicator response")
	// ErrEmptyPage - the observations element is null or an empty list
	ErrEmptyPage = errors.New("indicator response has no observations")
)

// PageMeta is the first element of an indicator response.
type PageMeta struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

// Observation is one raw (country, date, value) entry.
// Value stays raw: it may be a number, a numeric string or null.
type Observation struct {
	Country CountryField    `json:"country"`
	Date    string          `json:"date"`
	Value   json.RawMessage `json:"value"`
}

// HasValue is false for a missing or null value.
func (o Observation) HasValue() bool {
	v := bytes.TrimSpace(o.Value)
	return len(v) > 0 && !bytes.Equal(v, []byte("null"))
}

// ParsePage decodes one indicator page.
func ParsePage(body []byte) (*PageMeta, []Observation, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parts) < 2 {
		// the API answers errors as a single-element array: [{"message": [...]}]
		return nil, nil, fmt.Errorf("%w: expected 2 elements, got %d", ErrMalformedResponse, len(parts))
	}

	meta := &PageMeta{}
	// meta fields are numbers on success but some mirrors send strings; a bad meta is not fatal
	if err := json.Unmarshal(parts[0], meta); err != nil {
		meta = &PageMeta{Page: 1, Pages: 1}
	}

	second := bytes.TrimSpace(parts[1])
	if len(second) == 0 || bytes.Equal(second, []byte("null")) {
		return meta, nil, ErrEmptyPage
	}

	var observations []Observation
	if err := json.Unmarshal(second, &observations); err != nil {
		return nil, nil, fmt.Errorf("%w: observations: %v", ErrMalformedResponse, err)
	}
	if len(observations) == 0 {
		return meta, nil, ErrEmptyPage
	}
	return meta, observations, nil
}

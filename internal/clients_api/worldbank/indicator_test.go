package worldbank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `[
  {"page": 1, "pages": 3, "per_page": 2, "total": 6},
  [
    {"indicator": {"id": "EN.ATM.CO2E.PC", "value": "CO2 emissions"}, "country": {"id": "TD", "value": "Chad"}, "date": "2020", "value": 0.06},
    {"country": "Chad", "date": "2019", "value": 0.07},
    {"country": {"id": "TD", "value": "Chad"}, "date": "2018", "value": null},
    {"country": {"id": "TD", "value": "Chad"}, "date": "2017"}
  ]
]`

func TestParsePage(t *testing.T) {
	meta, obs, err := ParsePage([]byte(samplePage))
	require.NoError(t, err)

	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 3, meta.Pages)
	require.Len(t, obs, 4)

	assert.Equal(t, "Chad", obs[0].Country.Name())
	assert.Equal(t, "Chad", obs[1].Country.Name())
	assert.Equal(t, "2020", obs[0].Date)
	assert.True(t, obs[0].HasValue())
	assert.False(t, obs[2].HasValue())
	assert.False(t, obs[3].HasValue())
}

func TestParsePage_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"not json", `<html>`, ErrMalformedResponse},
		{"object", `{"page": 1}`, ErrMalformedResponse},
		{"api error message", `[{"message": [{"id": "120", "value": "Invalid value"}]}]`, ErrMalformedResponse},
		{"null observations", `[{"page": 1}, null]`, ErrEmptyPage},
		{"empty observations", `[{"page": 1}, []]`, ErrEmptyPage},
		{"observations not a list", `[{"page": 1}, {"a": 1}]`, ErrMalformedResponse},
		{"numeric country", `[{"page": 1}, [{"country": 12, "date": "2020", "value": 1}]]`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParsePage([]byte(tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeCountry(t *testing.T) {
	namer, err := decodeCountry([]byte(`{"id": "TD", "value": " Chad "}`))
	require.NoError(t, err)
	assert.IsType(t, countryObject{}, namer)
	assert.Equal(t, "Chad", namer.Name())

	namer, err = decodeCountry([]byte(`"Chad"`))
	require.NoError(t, err)
	assert.IsType(t, countryString(""), namer)
	assert.Equal(t, "Chad", namer.Name())

	namer, err = decodeCountry([]byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, namer)
	assert.Equal(t, "", CountryField{}.Name())

	_, err = decodeCountry([]byte(`[1]`))
	assert.Error(t, err)
}

package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"co2-emissions/internal/clients_api/worldbank"
	"co2-emissions/internal/emissions"
	"co2-emissions/internal/infra/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned pages by number.
type fakeFetcher struct {
	pages map[int]string
	err   error
	calls []int
}

func (f *fakeFetcher) GetIndicatorPage(ctx context.Context, page int) ([]byte, error) {
	f.calls = append(f.calls, page)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.pages[page]
	if !ok {
		return nil, fmt.Errorf("no page %d", page)
	}
	return []byte(body), nil
}

const chadPage = `[
  {"page": 1, "pages": 2, "per_page": 3, "total": 5},
  [
    {"country": {"id": "TD", "value": "Chad"}, "date": "2020", "value": 0.06},
    {"country": "Chad", "date": "2019", "value": 0.07},
    {"country": {"id": "TD", "value": "Chad"}, "date": "2018", "value": null}
  ]
]`

const secondPage = `[
  {"page": 2, "pages": 2, "per_page": 3, "total": 5},
  [
    {"country": {"id": "FR", "value": "France"}, "date": "2020", "value": 4.2},
    {"country": {"id": "FR", "value": "France"}, "date": "2019", "value": "4.5"}
  ]
]`

func TestFetch_API(t *testing.T) {
	cfg := config.Default()
	f := &fakeFetcher{pages: map[int]string{1: chadPage, 2: secondPage}}

	records, origin := NewSourceWithFetcher(cfg, f).Fetch(context.Background())

	assert.Equal(t, emissions.OriginAPI, origin)
	assert.Equal(t, []int{1}, f.calls, "only the first page by default")
	assert.Equal(t, []emissions.Record{
		{CountryName: "Chad", Year: 2020, CO2Emissions: 0.06},
		{CountryName: "Chad", Year: 2019, CO2Emissions: 0.07},
	}, records)
}

func TestFetch_FollowsPages(t *testing.T) {
	cfg := config.Default()
	cfg.WorldBank.MaxPages = 5
	f := &fakeFetcher{pages: map[int]string{1: chadPage, 2: secondPage}}

	records, origin := NewSourceWithFetcher(cfg, f).Fetch(context.Background())

	assert.Equal(t, emissions.OriginAPI, origin)
	assert.Equal(t, []int{1, 2}, f.calls)
	require.Len(t, records, 4)
	assert.Equal(t, emissions.Record{CountryName: "France", Year: 2019, CO2Emissions: 4.5}, records[3])
}

func TestFetch_FallsBack(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *fakeFetcher
	}{
		{"transport error", &fakeFetcher{err: errors.New("dial tcp: no route to host")}},
		{"malformed body", &fakeFetcher{pages: map[int]string{1: `[{"message": "bad"}]`}}},
		{"empty observations", &fakeFetcher{pages: map[int]string{1: `[{"page": 1, "pages": 1}, []]`}}},
		{"only null values", &fakeFetcher{pages: map[int]string{1: `[{"page": 1, "pages": 1}, [{"country": "Chad", "date": "2020", "value": null}]]`}}},
		{"later page fails", &fakeFetcher{pages: map[int]string{1: chadPage}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.WorldBank.MaxPages = 2
			src := NewSourceWithFetcher(cfg, tt.fetcher)

			records, origin := src.Fetch(context.Background())

			assert.Equal(t, emissions.OriginSynthetic, origin)
			assert.Equal(t, src.Synthetic(), records)
		})
	}
}

func TestFetch_HTTPStatusFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.WorldBank.BaseURL = srv.URL

	records, origin := NewSource(cfg).Fetch(context.Background())

	assert.Equal(t, emissions.OriginSynthetic, origin)
	assert.Len(t, records, 110)
}

func TestFetch_Disabled(t *testing.T) {
	cfg := config.Default()
	cfg.WorldBank.Enabled = false

	records, origin := NewSource(cfg).Fetch(context.Background())

	assert.Equal(t, emissions.OriginSynthetic, origin)
	assert.Len(t, records, 110)
}

func TestNormalizeObservations(t *testing.T) {
	body := `[{"page": 1}, [
	  {"country": {"value": "Chad"}, "date": "2020", "value": 1.5},
	  {"country": "Chad", "date": "2019", "value": 2},
	  {"country": "Chad", "date": "2018", "value": null},
	  {"country": "Chad", "date": "n/a", "value": 3},
	  {"country": "Chad", "date": "2017", "value": "abc"},
	  {"country": "", "date": "2016", "value": 1},
	  {"country": "Chad", "date": "2015", "value": -1},
	  {"country": "Chad", "date": "2020", "value": 1.7}
	]]`
	_, observations, err := worldbank.ParsePage([]byte(body))
	require.NoError(t, err)

	records, missing, dropped := NormalizeObservations(observations)

	assert.Equal(t, 1, missing)
	assert.Equal(t, 4, dropped)
	assert.Equal(t, []emissions.Record{
		{CountryName: "Chad", Year: 2020, CO2Emissions: 1.5},
		{CountryName: "Chad", Year: 2019, CO2Emissions: 2},
		{CountryName: "Chad", Year: 2020, CO2Emissions: 1.7},
	}, records, "duplicates pass through unchanged")
}

func TestGenerateSynthetic_Deterministic(t *testing.T) {
	cfg := config.Default()

	first := GenerateSynthetic(cfg.Sample, 2010, 2020)
	second := GenerateSynthetic(cfg.Sample, 2010, 2020)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	require.Len(t, first, 110)
	assert.Equal(t, "United States", first[0].CountryName)
	assert.Equal(t, 2010, first[0].Year)
	assert.Equal(t, "Australia", first[109].CountryName)
	assert.Equal(t, 2020, first[109].Year)
	for _, r := range first {
		assert.GreaterOrEqual(t, r.CO2Emissions, 0.0)
		assert.InDelta(t, r.CO2Emissions, round2(r.CO2Emissions), 1e-9)
		// base in [5,20], |trend| <= 1, |noise| <= 1
		assert.LessOrEqual(t, r.CO2Emissions, 22.0)
		assert.GreaterOrEqual(t, r.CO2Emissions, 3.0)
	}
}

func TestGenerateSynthetic_SeedMatters(t *testing.T) {
	cfg := config.Default()
	other := cfg.Sample
	other.Seed = 7

	assert.NotEqual(t, GenerateSynthetic(cfg.Sample, 2010, 2020), GenerateSynthetic(other, 2010, 2020))
	assert.Nil(t, GenerateSynthetic(cfg.Sample, 2020, 2010))
}

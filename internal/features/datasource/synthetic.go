package datasource

import (
	"math"
	"math/rand"

	"co2-emissions/internal/emissions"
	"co2-emissions/internal/infra/config"
)

// GenerateSynthetic builds the fallback dataset: every configured country for every
// year in [startYear, endYear].
//
// Draws come from math/rand seeded with cfg.Seed, strictly in this order:
//
//	for each country (config order):
//	    base  = U(5, 20)
//	    for each year ascending:
//	        trend = (year-startYear) * 0.1 * U(-1, 1)
//	        noise = U(-1, 1)
//
// where U(a, b) = a + (b-a)*Float64(). Each value is max(0, base+trend+noise)
// rounded to 2 decimals.
func GenerateSynthetic(cfg config.SampleConfig, startYear, endYear int) []emissions.Record {
	if endYear < startYear {
		return nil
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	uniform := func(lo, hi float64) float64 {
		return lo + (hi-lo)*rng.Float64()
	}

	records := make([]emissions.Record, 0, len(cfg.Countries)*(endYear-startYear+1))
	for _, country := range cfg.Countries {
		base := uniform(5, 20)
		for year := startYear; year <= endYear; year++ {
			trend := float64(year-startYear) * 0.1 * uniform(-1, 1)
			noise := uniform(-1, 1)
			records = append(records, emissions.Record{
				CountryName:  country,
				Year:         year,
				CO2Emissions: round2(math.Max(0, base+trend+noise)),
			})
		}
	}
	return records
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

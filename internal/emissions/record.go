package emissions

// Record is one (country, year) observation of per-capita CO2 emissions,
// in metric tons per capita.
type Record struct {
	CountryName  string  `json:"country_name"`
	Year         int     `json:"year"`
	CO2Emissions float64 `json:"co2_emissions"`
}

// Origin tells which path produced a dataset.
type Origin string

const (
	OriginAPI       Origin = "api"
	OriginSynthetic Origin = "synthetic"
)

// Countries returns distinct country names in first-appearance order.
func Countries(records []Record) []string {
	seen := make(map[string]struct{}, len(records))
	var names []string
	for _, r := range records {
		if _, ok := seen[r.CountryName]; ok {
			continue
		}
		seen[r.CountryName] = struct{}{}
		names = append(names, r.CountryName)
	}
	return names
}

// YearSpan returns the min and max year; ok is false for an empty dataset.
func YearSpan(records []Record) (min, max int, ok bool) {
	if len(records) == 0 {
		return 0, 0, false
	}
	min, max = records[0].Year, records[0].Year
	for _, r := range records[1:] {
		if r.Year < min {
			min = r.Year
		}
		if r.Year > max {
			max = r.Year
		}
	}
	return min, max, true
}

// Values returns the emission values in dataset order.
func Values(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.CO2Emissions
	}
	return out
}

package datasource

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"co2-emissions/internal/clients_api/worldbank"
	"co2-emissions/internal/emissions"
)

// NormalizeObservations turns raw observations into records, keeping API order.
// Observations without a value are skipped; ones whose name, year or value cannot
// be coerced are dropped and counted. Duplicated (country, year) pairs pass through.
func NormalizeObservations(observations []worldbank.Observation) (records []emissions.Record, missing, dropped int) {
	records = make([]emissions.Record, 0, len(observations))
	for _, o := range observations {
		if !o.HasValue() {
			missing++
			continue
		}
		rec, ok := toRecord(o)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, missing, dropped
}

func toRecord(o worldbank.Observation) (emissions.Record, bool) {
	name := o.Country.Name()
	if name == "" {
		return emissions.Record{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(o.Date))
	if err != nil {
		return emissions.Record{}, false
	}
	value, ok := parseValue(o.Value)
	if !ok || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return emissions.Record{}, false
	}
	return emissions.Record{CountryName: name, Year: year, CO2Emissions: value}, true
}

// parseValue accepts a JSON number or a numeric string.
func parseValue(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return v, err == nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

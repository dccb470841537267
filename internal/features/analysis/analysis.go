package analysis

// Descriptive statistics over an emissions dataset.
// Every function here is read-only over its input and safe on empty data.

import (
	"math"
	"sort"

	"co2-emissions/internal/emissions"

	"github.com/montanaflynn/stats"
)

// CountryMean is the mean emissions of one country across the years it has.
type CountryMean struct {
	Country string
	Mean    float64
	Years   int
}

// Stats mirrors a describe() table: count, mean, sample std, min, quartiles, max.
type Stats struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Summary is the result of Summarize.
type Summary struct {
	CountryMeans []CountryMean // descending by mean
	Overall      Stats
	CountryCount int
	YearMin      int
	YearMax      int
	Records      int
}

// Summarize computes per-country means, overall stats and the dataset span.
func Summarize(records []emissions.Record) Summary {
	means := CountryMeans(records)
	s := Summary{
		CountryMeans: means,
		Overall:      Describe(emissions.Values(records)),
		CountryCount: len(means),
		Records:      len(records),
	}
	if lo, hi, ok := emissions.YearSpan(records); ok {
		s.YearMin, s.YearMax = lo, hi
	}
	return s
}

// Top returns the first mean; ok is false for an empty summary.
func (s Summary) Top() (CountryMean, bool) {
	if len(s.CountryMeans) == 0 {
		return CountryMean{}, false
	}
	return s.CountryMeans[0], true
}

// CountryMeans groups by country and sorts by mean, descending.
// Equal means keep the order in which countries first appear.
func CountryMeans(records []emissions.Record) []CountryMean {
	index := make(map[string]int)
	var sums []float64
	var means []CountryMean

	for _, r := range records {
		i, ok := index[r.CountryName]
		if !ok {
			i = len(means)
			index[r.CountryName] = i
			means = append(means, CountryMean{Country: r.CountryName})
			sums = append(sums, 0)
		}
		sums[i] += r.CO2Emissions
		means[i].Years++
	}
	for i := range means {
		means[i].Mean = sums[i] / float64(means[i].Years)
	}

	sort.SliceStable(means, func(a, b int) bool {
		return means[a].Mean > means[b].Mean
	})
	return means
}

// TopCountries returns up to n names from sorted means. n larger than the
// number of countries yields all of them.
func TopCountries(means []CountryMean, n int) []string {
	if n > len(means) {
		n = len(means)
	}
	if n < 0 {
		n = 0
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = means[i].Country
	}
	return names
}

// Describe computes Stats for values. Empty input gives Count 0 and NaN
// everywhere else; a single value has a NaN std.
func Describe(values []float64) Stats {
	nan := math.NaN()
	out := Stats{Count: len(values), Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	if len(values) == 0 {
		return out
	}

	data := stats.Float64Data(values)
	out.Mean, _ = stats.Mean(data)
	out.Min, _ = stats.Min(data)
	out.Max, _ = stats.Max(data)
	if len(values) > 1 {
		out.Std, _ = stats.StandardDeviationSample(data)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	out.Q1 = Percentile(sorted, 0.25)
	out.Median = Percentile(sorted, 0.5)
	out.Q3 = Percentile(sorted, 0.75)
	return out
}

// Percentile uses linear interpolation between closest ranks on already
// sorted data; q is in [0, 1].
func Percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	q = math.Max(0, math.Min(1, q))
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

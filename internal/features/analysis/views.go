package analysis

import (
	"math"
	"sort"

	"co2-emissions/internal/emissions"
)

// Point is one (year, value) pair.
type Point struct {
	Year  int
	Value float64
}

// CountrySeries is a country's points ordered by year.
type CountrySeries struct {
	Country string
	Points  []Point
}

// FilterCountries keeps the records of the named countries, in dataset order.
func FilterCountries(records []emissions.Record, names []string) []emissions.Record {
	keep := make(map[string]struct{}, len(names))
	for _, n := range names {
		keep[n] = struct{}{}
	}
	var out []emissions.Record
	for _, r := range records {
		if _, ok := keep[r.CountryName]; ok {
			out = append(out, r)
		}
	}
	return out
}

// SeriesByCountry returns one series per name, in the order of names.
// Names with no records get an empty series.
func SeriesByCountry(records []emissions.Record, names []string) []CountrySeries {
	pos := make(map[string]int, len(names))
	out := make([]CountrySeries, len(names))
	for i, name := range names {
		pos[name] = i
		out[i].Country = name
	}
	for _, r := range records {
		if i, ok := pos[r.CountryName]; ok {
			out[i].Points = append(out[i].Points, Point{Year: r.Year, Value: r.CO2Emissions})
		}
	}
	for i := range out {
		sort.SliceStable(out[i].Points, func(a, b int) bool {
			return out[i].Points[a].Year < out[i].Points[b].Year
		})
	}
	return out
}

// YearlyMeans averages all countries per year, ascending by year.
func YearlyMeans(records []emissions.Record) []Point {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range records {
		sums[r.Year] += r.CO2Emissions
		counts[r.Year]++
	}
	out := make([]Point, 0, len(sums))
	for year, sum := range sums {
		out = append(out, Point{Year: year, Value: sum / float64(counts[year])})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Year < out[b].Year })
	return out
}

// Fit is a degree-1 polynomial y = Slope*x + Intercept.
type Fit struct {
	Slope     float64
	Intercept float64
}

func (f Fit) At(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// LinearFit is an ordinary least-squares line through (xs, ys).
// With fewer than two distinct x values the line is flat at mean(ys);
// with no points it is y = 0.
func LinearFit(xs, ys []float64) Fit {
	n := min(len(xs), len(ys))
	if n == 0 {
		return Fit{}
	}
	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var sxx, sxy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	if sxx == 0 {
		return Fit{Slope: 0, Intercept: meanY}
	}
	slope := sxy / sxx
	return Fit{Slope: slope, Intercept: meanY - slope*meanX}
}

// CellKey identifies one heatmap cell.
type CellKey struct {
	Country string
	Year    int
}

// Matrix is a country x year grid. Missing cells are NaN.
type Matrix struct {
	Countries  []string
	Years      []int
	Values     [][]float64
	Duplicates []CellKey // cells that had more than one record and were averaged
}

// Min and Max over the non-NaN cells; ok is false when every cell is NaN.
func (m Matrix) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range m.Values {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	return lo, hi, ok
}

// Pivot builds the country x year matrix for the given countries (row order kept)
// over every year present among them. Repeated (country, year) records are
// averaged and listed in Duplicates.
func Pivot(records []emissions.Record, countries []string) Matrix {
	row := make(map[string]int, len(countries))
	for i, c := range countries {
		row[c] = i
	}

	sums := make(map[CellKey]float64)
	counts := make(map[CellKey]int)
	yearSet := make(map[int]struct{})
	for _, r := range FilterCountries(records, countries) {
		k := CellKey{Country: r.CountryName, Year: r.Year}
		sums[k] += r.CO2Emissions
		counts[k]++
		yearSet[r.Year] = struct{}{}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)
	col := make(map[int]int, len(years))
	for j, y := range years {
		col[y] = j
	}

	m := Matrix{Countries: countries, Years: years, Values: make([][]float64, len(countries))}
	for i := range m.Values {
		m.Values[i] = make([]float64, len(years))
		for j := range m.Values[i] {
			m.Values[i][j] = math.NaN()
		}
	}
	for k, sum := range sums {
		n := counts[k]
		m.Values[row[k.Country]][col[k.Year]] = sum / float64(n)
		if n > 1 {
			m.Duplicates = append(m.Duplicates, k)
		}
	}
	sort.Slice(m.Duplicates, func(a, b int) bool {
		da, db := m.Duplicates[a], m.Duplicates[b]
		if da.Country != db.Country {
			return row[da.Country] < row[db.Country]
		}
		return da.Year < db.Year
	})
	return m
}

// Box holds boxplot statistics: quartiles, whiskers at the most extreme values
// within 1.5 IQR of the box, and the outliers beyond them.
type Box struct {
	Q1, Median, Q3       float64
	WhiskerLo, WhiskerHi float64
	Outliers             []float64
	N                    int
}

// BoxStats computes Box for values; ok is false when values is empty.
func BoxStats(values []float64) (Box, bool) {
	if len(values) == 0 {
		return Box{}, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	b := Box{
		Q1:     Percentile(sorted, 0.25),
		Median: Percentile(sorted, 0.5),
		Q3:     Percentile(sorted, 0.75),
		N:      len(sorted),
	}
	iqr := b.Q3 - b.Q1
	loFence, hiFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr

	b.WhiskerLo, b.WhiskerHi = b.Q1, b.Q3
	for _, v := range sorted {
		if v >= loFence {
			b.WhiskerLo = math.Min(v, b.Q1)
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= hiFence {
			b.WhiskerHi = math.Max(sorted[i], b.Q3)
			break
		}
	}
	for _, v := range sorted {
		if v < loFence || v > hiFence {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b, true
}

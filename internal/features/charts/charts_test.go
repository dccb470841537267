package charts

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"co2-emissions/internal/emissions"
	"co2-emissions/internal/features/analysis"
	"co2-emissions/internal/features/datasource"
	"co2-emissions/internal/infra/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	cfg := config.Default().Charts
	cfg.Width, cfg.Height = 600, 400
	cfg.HeatmapWidth, cfg.HeatmapHeight = 700, 500
	r, err := NewRenderer(cfg)
	require.NoError(t, err)
	return r
}

func syntheticRecords() []emissions.Record {
	cfg := config.Default()
	return datasource.GenerateSynthetic(cfg.Sample, cfg.WorldBank.StartYear, cfg.WorldBank.EndYear)
}

func requirePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), path)

	img, err := png.DecodeConfig(f)
	require.NoError(t, err, path)
	assert.Equal(t, width, img.Width, path)
	assert.Equal(t, height, img.Height, path)
}

func requireAllCharts(t *testing.T, r *Renderer, dir string, paths []string) {
	t.Helper()
	require.Len(t, paths, 5)
	want := []string{TrendsFile, BarFile, HeatmapFile, BoxplotFile, GlobalTrendFile}
	for i, name := range want {
		assert.Equal(t, filepath.Join(dir, name), paths[i])
		w, h := r.cfg.Width, r.cfg.Height
		if name == HeatmapFile {
			w, h = r.cfg.HeatmapWidth, r.cfg.HeatmapHeight
		}
		requirePNG(t, paths[i], w, h)
	}
}

func TestRender_SyntheticDataset(t *testing.T) {
	r := testRenderer(t)
	dir := filepath.Join(t.TempDir(), "charts")

	paths, err := r.Render(syntheticRecords(), dir)

	require.NoError(t, err)
	requireAllCharts(t, r, dir, paths)
}

func TestRender_FewerCountriesThanTopN(t *testing.T) {
	r := testRenderer(t)
	dir := t.TempDir()
	records := []emissions.Record{
		{CountryName: "Qatar", Year: 2010, CO2Emissions: 40.1},
		{CountryName: "Qatar", Year: 2011, CO2Emissions: 38.7},
		{CountryName: "Chad", Year: 2010, CO2Emissions: 0.05},
		{CountryName: "Chad", Year: 2011, CO2Emissions: 0.06},
		{CountryName: "Peru", Year: 2011, CO2Emissions: 1.9},
	}

	paths, err := r.Render(records, dir)

	require.NoError(t, err)
	requireAllCharts(t, r, dir, paths)
}

func TestRender_EmptyDataset(t *testing.T) {
	r := testRenderer(t)
	dir := t.TempDir()

	paths, err := r.Render(nil, dir)

	require.NoError(t, err)
	requireAllCharts(t, r, dir, paths)
}

func TestRender_SingleYearAndFlatValues(t *testing.T) {
	r := testRenderer(t)
	dir := t.TempDir()
	records := []emissions.Record{
		{CountryName: "A", Year: 2015, CO2Emissions: 5},
		{CountryName: "B", Year: 2015, CO2Emissions: 5},
	}

	paths, err := r.Render(records, dir)

	require.NoError(t, err)
	requireAllCharts(t, r, dir, paths)
}

func TestRender_SingleRecord(t *testing.T) {
	for name, records := range map[string][]emissions.Record{
		"one record": {{CountryName: "Chad", Year: 2020, CO2Emissions: 0.06}},
		"one year":   {{CountryName: "A", Year: 2015, CO2Emissions: 5}, {CountryName: "B", Year: 2015, CO2Emissions: 7}},
	} {
		t.Run(name, func(t *testing.T) {
			r := testRenderer(t)
			dir := t.TempDir()

			paths, err := r.Render(records, dir)

			require.NoError(t, err)
			requireAllCharts(t, r, dir, paths)
		})
	}
}

func TestYearTicks_PadsRange(t *testing.T) {
	ticks := yearTicks([]int{2020})
	require.Len(t, ticks, 3)
	assert.Equal(t, 2019.5, ticks[0].Value)
	assert.Empty(t, ticks[0].Label)
	assert.Equal(t, "2020", ticks[1].Label)
	assert.Equal(t, 2020.5, ticks[2].Value)
	assert.Empty(t, ticks[2].Label)

	years := make([]int, 30)
	for i := range years {
		years[i] = 1990 + i
	}
	ticks = yearTicks(years)
	assert.Equal(t, 1989.5, ticks[0].Value)
	assert.Equal(t, 2019.5, ticks[len(ticks)-1].Value)
	assert.LessOrEqual(t, len(ticks)-2, 15)
}

func TestRender_DuplicateKeysAreAveraged(t *testing.T) {
	r := testRenderer(t)
	dir := t.TempDir()
	records := append(syntheticRecords(),
		emissions.Record{CountryName: "Germany", Year: 2012, CO2Emissions: 30},
	)

	paths, err := r.Render(records, dir)

	require.NoError(t, err)
	requireAllCharts(t, r, dir, paths)
}

func TestRender_UnwritableDirFails(t *testing.T) {
	r := testRenderer(t)
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := r.Render(syntheticRecords(), file)

	assert.Error(t, err)
}

func TestNiceTicks(t *testing.T) {
	assert.Equal(t, []float64{0, 5, 10, 15, 20, 25}, niceTicks(0, 22, 6))
	assert.Equal(t, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}, niceTicks(0, 1, 5))

	ticks := niceTicks(5, 5, 6)
	require.NotEmpty(t, ticks)
	assert.LessOrEqual(t, ticks[0], 5.0)
	assert.GreaterOrEqual(t, ticks[len(ticks)-1], 5.0)

	assert.Nil(t, niceTicks(math.NaN(), 1, 5))
}

func TestTickFormat(t *testing.T) {
	assert.Equal(t, "%.0f", tickFormat([]float64{0, 5}))
	assert.Equal(t, "%.1f", tickFormat([]float64{0, 0.2}))
	assert.Equal(t, "%.2f", tickFormat([]float64{0, 0.05}))
}

func TestRampAt_Endpoints(t *testing.T) {
	first := rampAt(ylOrRdStops, 0)
	last := rampAt(ylOrRdStops, 1)

	assert.Equal(t, uint8(0xff), first.R)
	assert.Equal(t, uint8(0xff), first.G)
	assert.Equal(t, uint8(0xcc), first.B)
	assert.Equal(t, uint8(0x80), last.R)
	assert.Equal(t, uint8(0x26), last.B)
	assert.Equal(t, first, rampAt(ylOrRdStops, -3))
	assert.Equal(t, last, rampAt(ylOrRdStops, 7))
	assert.Equal(t, first, rampAt(ylOrRdStops, math.NaN()))
}

func TestSampleRamp(t *testing.T) {
	colors := sampleRamp(viridisStops, 10)
	require.Len(t, colors, 10)
	for i, hex := range viridisStops {
		assert.Equal(t, rampAt([]string{hex}, 0), colors[i])
	}
	assert.Len(t, sampleRamp(viridisStops, 1), 1)
}

func TestTrendEquation(t *testing.T) {
	fit := analysis.LinearFit([]float64{2010, 2011, 2012}, []float64{10, 10.5, 11})

	assert.Equal(t, "Trend: y = 0.500x + -995.0", TrendEquation(fit))
}

func TestSpanTitle(t *testing.T) {
	records := []emissions.Record{{Year: 2012}, {Year: 2010}}

	assert.Equal(t, "Avg (2010-2012)", spanTitle("Avg", records))
	assert.Equal(t, "Avg (2012)", spanTitle("Avg", records[:1]))
	assert.Equal(t, "Avg", spanTitle("Avg", nil))
}

func TestLoadFonts_FallsBackToBundled(t *testing.T) {
	fonts, err := loadFonts([]string{filepath.Join(t.TempDir(), "missing.ttf")}, false)

	require.NoError(t, err)
	assert.Equal(t, "gofont/goregular", fonts.source)
	assert.NotNil(t, fonts.bold)
	assert.Same(t, fonts.face(12, false), fonts.face(12, false))
}

package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"co2-emissions/internal/emissions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSampleCommand_WritesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "sample.json")

	out, err := execute(t, "sample", "--out", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 110 records")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []emissions.Record
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 110)
	assert.Equal(t, "United States", records[0].CountryName)
	assert.Equal(t, 2010, records[0].Year)
}

func TestSampleCommand_SeedChangesData(t *testing.T) {
	t.Chdir(t.TempDir())
	a := filepath.Join(t.TempDir(), "a.json")
	b := filepath.Join(t.TempDir(), "b.json")

	_, err := execute(t, "sample", "--out", a, "--seed", "42")
	require.NoError(t, err)
	_, err = execute(t, "sample", "--out", b, "--seed", "7")
	require.NoError(t, err)

	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	assert.NotEqual(t, da, db)
}

func TestSampleCommand_FlagsDoNotLeakBetweenRuns(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "seeded.json")

	_, err := execute(t, "sample", "--out", path, "--seed", "7")
	require.NoError(t, err)

	out, err := execute(t, "sample")
	require.NoError(t, err)

	var records []emissions.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records), "second run writes to stdout")
	seeded, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, string(seeded), out, "second run uses the default seed")
}

func TestAnalyzeCommand_Offline(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
charts:
  width: 600
  height: 400
  heatmap_width: 700
  heatmap_height: 500
`), 0644))

	out, err := execute(t, "analyze", "--offline", "--output-dir", "out", "--snapshot", "--seed", "42")

	require.NoError(t, err)
	assert.Contains(t, out, "KEY FINDINGS")
	for _, name := range []string{
		"co2_trends_line_plot.png",
		"average_emissions_bar_chart.png",
		"emissions_heatmap.png",
		"emissions_distribution_boxplot.png",
		"global_trend_scatter.png",
	} {
		info, err := os.Stat(filepath.Join(dir, "out", name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0))
	}
	_, err = os.Stat(filepath.Join(dir, "data_out", "co2_dataset.json"))
	assert.NoError(t, err)
}

package fs

import (
	"os"
	"path/filepath"
	"testing"

	"co2-emissions/internal/emissions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRequireNonEmpty(t *testing.T) {
	dir := t.TempDir()

	full := filepath.Join(dir, "full.png")
	require.NoError(t, os.WriteFile(full, []byte("png"), 0644))
	size, err := RequireNonEmpty(full)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)

	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = RequireNonEmpty(empty)
	assert.ErrorIs(t, err, ErrEmptyFile)
	_, statErr := os.Stat(empty)
	assert.True(t, os.IsNotExist(statErr), "empty file should be removed")

	_, err = RequireNonEmpty(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestSaveSnapshot_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data_out")
	records := []emissions.Record{
		{CountryName: "Germany", Year: 2010, CO2Emissions: 9.12},
		{CountryName: "Japan", Year: 2011, CO2Emissions: 8.5},
	}

	path, err := SaveSnapshot(dir, emissions.OriginSynthetic, records)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, SnapshotFile), path)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	snap, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, emissions.OriginSynthetic, snap.Origin)
	assert.Equal(t, records, snap.Records)
	assert.NotEmpty(t, snap.GeneratedAt)
}

func TestSaveSnapshot_EmptyDatasetWritesEmptyList(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveSnapshot(dir, emissions.OriginAPI, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"records": []`)
}

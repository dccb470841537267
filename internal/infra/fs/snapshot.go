package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"co2-emissions/internal/emissions"
)

// SnapshotFile is the dataset snapshot name under app.data_dir.
const SnapshotFile = "co2_dataset.json"

// Snapshot is the file structure of co2_dataset.json.
type Snapshot struct {
	GeneratedAt string             `json:"generated_at"` // RFC3339
	Origin      emissions.Origin   `json:"origin"`
	Records     []emissions.Record `json:"records"`
}

// SaveSnapshot writes the dataset into dir/co2_dataset.json through a temp file
// and rename, so readers never see a partial file. Returns the written path.
func SaveSnapshot(dir string, origin emissions.Origin, records []emissions.Record) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", err
	}
	if records == nil {
		records = []emissions.Record{}
	}
	snap := Snapshot{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Origin:      origin,
		Records:     records,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal dataset snapshot: %w", err)
	}

	filePath := filepath.Join(dir, SnapshotFile)
	tempFilePath := filePath + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write temporary snapshot file: %w", err)
	}
	if err := os.Rename(tempFilePath, filePath); err != nil {
		_ = os.Remove(tempFilePath)
		return "", fmt.Errorf("failed to rename temporary file to snapshot file: %w", err)
	}
	return filePath, nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}
	if snap.Records == nil {
		snap.Records = []emissions.Record{}
	}
	return &snap, nil
}

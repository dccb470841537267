//go:build integration

package tests

import (
	"context"
	"testing"
	"time"

	"co2-emissions/internal/clients_api/worldbank"
	"co2-emissions/internal/emissions"
	"co2-emissions/internal/features/datasource"
	"co2-emissions/internal/infra/config"
)

func TestIntegration_WorldBank_GetIndicatorPage(t *testing.T) {
	cfg := config.Default()
	client := worldbank.NewClient(cfg.WorldBank)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	body, err := client.GetIndicatorPage(ctx, 1)
	if err != nil {
		t.Fatalf("GetIndicatorPage failed: %v", err)
	}
	meta, observations, err := worldbank.ParsePage(body)
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}
	if meta.Total <= 0 {
		t.Fatalf("expected total > 0, got %d", meta.Total)
	}
	if len(observations) == 0 {
		t.Fatalf("expected observations on page 1")
	}
}

func TestIntegration_WorldBank_SourceUsesAPI(t *testing.T) {
	cfg := config.Default()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	records, origin := datasource.NewSource(cfg).Fetch(ctx)
	if origin != emissions.OriginAPI {
		t.Fatalf("expected api origin, got %s", origin)
	}
	if len(records) == 0 {
		t.Fatalf("expected records from the API")
	}
	for _, r := range records {
		if r.Year < cfg.WorldBank.StartYear || r.Year > cfg.WorldBank.EndYear {
			t.Fatalf("record outside requested range: %+v", r)
		}
	}
}

package datasource

// Source produces the emissions dataset for one run.
// The World Bank API is tried first; any failure on that path is logged
// and replaced by the deterministic synthetic dataset, so Fetch never fails.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"co2-emissions/internal/clients_api/worldbank"
	"co2-emissions/internal/emissions"
	"co2-emissions/internal/infra/config"
	"co2-emissions/internal/infra/log"

	"go.uber.org/zap"
)

// ErrNoUsableRecords - the API answered but nothing survived normalization
var ErrNoUsableRecords = errors.New("no usable records in API response")

// PageFetcher returns the raw body of one indicator page.
type PageFetcher interface {
	GetIndicatorPage(ctx context.Context, page int) ([]byte, error)
}

type Source struct {
	fetcher PageFetcher
	api     config.WorldBankConfig
	sample  config.SampleConfig
}

// NewSource wires a World Bank client from cfg. With the API disabled the
// source always returns the synthetic dataset.
func NewSource(cfg *config.Config) *Source {
	var fetcher PageFetcher
	if cfg.WorldBank.Enabled {
		fetcher = worldbank.NewClient(cfg.WorldBank)
	}
	return NewSourceWithFetcher(cfg, fetcher)
}

// NewSourceWithFetcher uses the given fetcher; nil disables the API path.
func NewSourceWithFetcher(cfg *config.Config, fetcher PageFetcher) *Source {
	return &Source{
		fetcher: fetcher,
		api:     cfg.WorldBank,
		sample:  cfg.Sample,
	}
}

// Fetch returns the dataset and where it came from.
func (s *Source) Fetch(ctx context.Context) ([]emissions.Record, emissions.Origin) {
	if s.fetcher == nil {
		log.LogStatus("World Bank API disabled, using sample data")
		return s.Synthetic(), emissions.OriginSynthetic
	}

	log.LogStatus("Fetching CO2 emissions data...", zap.String("indicator", s.api.Indicator), zap.String("date", s.api.DateRange()))
	start := time.Now()

	records, err := s.fetchAPI(ctx)
	if err != nil {
		log.LogWarn(fmt.Sprintf("Error fetching data from API: %v. Using sample data instead", err), zap.Error(err))
		return s.Synthetic(), emissions.OriginSynthetic
	}

	log.LogSuccess("Fetched CO2 emissions data from World Bank API",
		zap.Int("records", len(records)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return records, emissions.OriginAPI
}

// Synthetic returns the fallback dataset for the configured year range.
func (s *Source) Synthetic() []emissions.Record {
	return GenerateSynthetic(s.sample, s.api.StartYear, s.api.EndYear)
}

func (s *Source) fetchAPI(ctx context.Context) ([]emissions.Record, error) {
	var all []emissions.Record

	lastPage := 1
	for page := 1; page <= lastPage; page++ {
		body, err := s.fetcher.GetIndicatorPage(ctx, page)
		if err != nil {
			return nil, err
		}
		meta, observations, err := worldbank.ParsePage(body)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		records, missing, dropped := NormalizeObservations(observations)
		log.LogDebug("Parsed indicator page",
			zap.Int("page", page),
			zap.Int("pages", meta.Pages),
			zap.Int("observations", len(observations)),
			zap.Int("records", len(records)),
			zap.Int("missing_value", missing),
			zap.Int("dropped", dropped))
		all = append(all, records...)

		if page == 1 {
			lastPage = min(meta.Pages, s.api.MaxPages)
		}
	}

	if len(all) == 0 {
		return nil, ErrNoUsableRecords
	}
	return all, nil
}

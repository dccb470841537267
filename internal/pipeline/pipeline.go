package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"co2-emissions/internal/emissions"
	"co2-emissions/internal/features/analysis"
	"co2-emissions/internal/features/publish"
	"co2-emissions/internal/infra/config"
	"co2-emissions/internal/infra/fs"
	"co2-emissions/internal/infra/log"

	"go.uber.org/zap"
)

// DataSource yields the dataset; it never fails, falling back to synthetic data.
type DataSource interface {
	Fetch(ctx context.Context) ([]emissions.Record, emissions.Origin)
}

// ChartRenderer writes the charts into dir and returns their paths.
type ChartRenderer interface {
	Render(records []emissions.Record, dir string) ([]string, error)
}

// Result describes one finished run.
type Result struct {
	Origin   emissions.Origin
	Summary  analysis.Summary
	Charts   []string
	Snapshot string // empty when not saved
	Took     time.Duration
}

// Orchestrator runs fetch, analysis, snapshot, rendering and publishing in order.
type Orchestrator struct {
	cfg       *config.Config
	source    DataSource
	renderer  ChartRenderer
	publisher publish.Publisher
	out       io.Writer
}

// New builds an Orchestrator. A nil publisher disables publishing.
func New(cfg *config.Config, source DataSource, renderer ChartRenderer, publisher publish.Publisher, out io.Writer) *Orchestrator {
	if publisher == nil {
		publisher = publish.Nop{}
	}
	if out == nil {
		out = io.Discard
	}
	return &Orchestrator{cfg: cfg, source: source, renderer: renderer, publisher: publisher, out: out}
}

// Run executes one analysis. Directory, snapshot and chart failures abort the
// run; publishing failures are only logged.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	chartsDir := o.cfg.Charts.OutputDir

	fmt.Fprintln(o.out, "Starting CO2 Emissions Analysis")
	if err := fs.EnsureDir(chartsDir); err != nil {
		return nil, fmt.Errorf("prepare charts directory: %w", err)
	}
	log.LogSuccess("Charts directory ready", zap.String("dir", chartsDir))

	records, origin := o.source.Fetch(ctx)
	log.LogSuccess("Data loaded", zap.Int("records", len(records)), zap.String("origin", string(origin)))

	summary := analysis.Summarize(records)
	WriteAnalysis(o.out, summary)

	res := &Result{Origin: origin, Summary: summary}
	if o.cfg.App.SaveSnapshot {
		path, err := fs.SaveSnapshot(o.cfg.App.DataDir, origin, records)
		if err != nil {
			return nil, fmt.Errorf("save dataset snapshot: %w", err)
		}
		res.Snapshot = path
		log.LogSuccess("Dataset snapshot saved", zap.String("path", path))
	}

	fmt.Fprintln(o.out, "\nCreating visualizations...")
	charts, err := o.renderer.Render(records, chartsDir)
	if err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}
	for _, c := range charts {
		fmt.Fprintf(o.out, "✓ Saved: %s\n", c)
	}
	res.Charts = charts

	if err := o.publisher.Publish(ctx, Report(summary, origin), charts); err != nil {
		log.LogWarn("Publishing failed", zap.Error(err))
	}

	WriteFindings(o.out, summary, chartsDir)
	res.Took = time.Since(start)
	log.LogInfo("Analysis finished", zap.Duration("took", res.Took), zap.Int("charts", len(charts)))
	return res, nil
}

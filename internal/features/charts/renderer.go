package charts

import (
	"fmt"
	"path/filepath"
	"time"

	"co2-emissions/internal/emissions"
	"co2-emissions/internal/features/analysis"
	"co2-emissions/internal/infra/config"
	"co2-emissions/internal/infra/fs"
	"co2-emissions/internal/infra/log"

	"go.uber.org/zap"
)

// Output file names, in render order.
const (
	TrendsFile      = "co2_trends_line_plot.png"
	BarFile         = "average_emissions_bar_chart.png"
	HeatmapFile     = "emissions_heatmap.png"
	BoxplotFile     = "emissions_distribution_boxplot.png"
	GlobalTrendFile = "global_trend_scatter.png"
)

// Renderer draws the five emission charts.
type Renderer struct {
	cfg   config.ChartsConfig
	fonts *fontSet
}

// NewRenderer loads the chart fonts once for all renders.
func NewRenderer(cfg config.ChartsConfig) (*Renderer, error) {
	fonts, err := loadFonts(cfg.FontPaths, true)
	if err != nil {
		return nil, err
	}
	return &Renderer{cfg: cfg, fonts: fonts}, nil
}

// Render writes every chart into dir and returns the file paths in render order.
// It stops at the first chart that fails.
func (r *Renderer) Render(records []emissions.Record, dir string) ([]string, error) {
	if err := fs.EnsureDir(dir); err != nil {
		return nil, err
	}
	means := analysis.CountryMeans(records)

	steps := []struct {
		file   string
		render func(path string) error
	}{
		{TrendsFile, func(p string) error { return r.renderTrends(records, means, p) }},
		{BarFile, func(p string) error { return r.renderBar(records, means, p) }},
		{HeatmapFile, func(p string) error { return r.renderHeatmap(records, means, p) }},
		{BoxplotFile, func(p string) error { return r.renderBoxplot(records, means, p) }},
		{GlobalTrendFile, func(p string) error { return r.renderGlobalTrend(records, p) }},
	}

	paths := make([]string, 0, len(steps))
	for _, s := range steps {
		path := filepath.Join(dir, s.file)
		start := time.Now()
		if err := s.render(path); err != nil {
			log.LogError("Failed to render chart", zap.String("chart", s.file), zap.Error(err))
			return paths, fmt.Errorf("render %s: %w", s.file, err)
		}
		log.LogDebug("Chart rendered", zap.String("chart", s.file), zap.Duration("took", time.Since(start)))
		paths = append(paths, path)
	}
	return paths, nil
}

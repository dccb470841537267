package charts

import (
	"fmt"

	"co2-emissions/internal/emissions"
	"co2-emissions/internal/features/analysis"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// TrendEquation is the annotation text of the global trend chart.
func TrendEquation(f analysis.Fit) string {
	return fmt.Sprintf("Trend: y = %.3fx + %.1f", f.Slope, f.Intercept)
}

// renderGlobalTrend plots the cross-country mean per year with its least-squares line.
func (r *Renderer) renderGlobalTrend(records []emissions.Record, path string) error {
	c := newCanvas(r.cfg.Width, r.cfg.Height, r.fonts)
	const title = "Global Average CO2 Emissions Trend"

	yearly := analysis.YearlyMeans(records)
	if len(yearly) == 0 {
		c.emptyState(title)
		return c.save(path)
	}
	plotTop := c.title(title)

	xs, ys := xyValues(yearly)
	fit := analysis.LinearFit(xs, ys)
	fitYs := make([]float64, len(xs))
	fitPoints := make([]analysis.Point, len(xs))
	for i, x := range xs {
		fitYs[i] = fit.At(x)
		fitPoints[i] = analysis.Point{Year: yearly[i].Year, Value: fitYs[i]}
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Global average",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: colorNoStroke,
				StrokeWidth: c.px(1),
				DotColor:    colorScatter.WithAlpha(180),
				DotWidth:    c.px(8),
			},
		},
		chart.ContinuousSeries{
			Name:    "Trend",
			XValues: xs,
			YValues: fitYs,
			Style: chart.Style{
				StrokeColor:     colorTrendLine.WithAlpha(204),
				StrokeWidth:     c.px(2.5),
				StrokeDashArray: []float64{c.px(10), c.px(6)},
			},
		},
	}

	left, bottom, right := c.px(60), c.px(50), c.px(30)
	img, err := c.renderXY(xyPlot{
		width:  int(c.w - left - right),
		height: int(c.h - plotTop - bottom),
		years:  yearsOf(yearly),
		yTicks: valueTicks(yearly, fitPoints),
		series: series,
	})
	if err != nil {
		return err
	}
	if err := c.drawPNG(img, int(left), int(plotTop)); err != nil {
		return err
	}

	c.xTitle("Year", left, c.w-right)
	c.yTitle("Global Average "+axisEmissions, plotTop, c.h-bottom)
	c.note(TrendEquation(fit), left+c.px(40), plotTop+c.px(30))
	return c.save(path)
}

// note draws text in a rounded white box with its top-left corner at (x, y).
func (c *canvas) note(text string, x, y float64) {
	c.setFont(noteSize, false)
	w, h := c.dc.MeasureString(text)
	pad := c.px(8)

	c.dc.SetColor(drawing.ColorWhite.WithAlpha(204))
	c.dc.DrawRoundedRectangle(x, y, w+2*pad, h+2*pad, c.px(6))
	c.dc.FillPreserve()
	c.dc.SetColor(colorAxis)
	c.dc.SetLineWidth(c.px(1))
	c.dc.Stroke()

	c.dc.SetColor(colorText)
	c.dc.DrawStringAnchored(text, x+pad, y+pad, 0, 1)
}

package charts

import (
	"fmt"

	"co2-emissions/internal/emissions"
	"co2-emissions/internal/features/analysis"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const axisEmissions = "CO2 Emissions (metric tons per capita)"

// renderTrends draws one line per top country, emissions against year,
// with the legend to the right of the plot.
func (r *Renderer) renderTrends(records []emissions.Record, means []analysis.CountryMean, path string) error {
	c := newCanvas(r.cfg.Width, r.cfg.Height, r.fonts)
	top := analysis.TopCountries(means, r.cfg.TopTrend)
	title := fmt.Sprintf("CO2 Emissions Trends Over Time (Top %d Countries)", len(top))
	if len(top) == 0 {
		c.emptyState(title)
		return c.save(path)
	}
	plotTop := c.title(title)

	var (
		points [][]analysis.Point
		series []chart.Series
		colors []drawing.Color
	)
	for i, s := range analysis.SeriesByCountry(records, top) {
		col := cycle(huslPalette, i)
		xs, ys := xyValues(s.Points)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Country,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: c.px(2.5),
				DotColor:    col,
				DotWidth:    c.px(4),
			},
		})
		points = append(points, s.Points)
		colors = append(colors, col)
	}

	left, bottom, legendWidth := c.px(60), c.px(50), c.px(260)
	img, err := c.renderXY(xyPlot{
		width:  int(c.w - left - legendWidth),
		height: int(c.h - plotTop - bottom),
		years:  yearsOf(points...),
		yTicks: valueTicks(points...),
		series: series,
	})
	if err != nil {
		return err
	}
	if err := c.drawPNG(img, int(left), int(plotTop)); err != nil {
		return err
	}

	c.xTitle("Year", left, c.w-legendWidth)
	c.yTitle(axisEmissions, plotTop, c.h-bottom)
	c.legend(c.w-legendWidth+c.px(10), plotTop+c.px(10), top, colors)
	return c.save(path)
}

// legend draws a framed list of line+marker swatches with names.
func (c *canvas) legend(x, y float64, names []string, colors []drawing.Color) {
	c.setFont(tickSize, false)
	row := c.px(26)
	swatch := c.px(28)
	pad := c.px(10)
	maxText := c.w - x - swatch - 3*pad

	width := 0.0
	labels := make([]string, len(names))
	for i, n := range names {
		labels[i] = fitText(c, n, maxText)
		w, _ := c.dc.MeasureString(labels[i])
		width = max(width, w)
	}
	boxW := swatch + width + 3*pad
	boxH := row*float64(len(names)) + pad

	c.dc.SetColor(drawing.ColorWhite)
	c.dc.DrawRectangle(x, y, boxW, boxH)
	c.dc.FillPreserve()
	c.dc.SetColor(colorGrid)
	c.dc.SetLineWidth(c.px(1))
	c.dc.Stroke()

	for i, label := range labels {
		cy := y + pad/2 + row*(float64(i)+0.5)
		c.dc.SetColor(colors[i])
		c.dc.SetLineWidth(c.px(2.5))
		c.dc.DrawLine(x+pad, cy, x+pad+swatch, cy)
		c.dc.Stroke()
		c.dc.DrawCircle(x+pad+swatch/2, cy, c.px(4))
		c.dc.Fill()

		c.dc.SetColor(colorText)
		c.dc.DrawStringAnchored(label, x+2*pad+swatch, cy, 0, 0.35)
	}
}

// fitText shortens s with an ellipsis until it is at most width pixels wide.
func fitText(c *canvas, s string, width float64) string {
	if w, _ := c.dc.MeasureString(s); w <= width {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + "…"
		if w, _ := c.dc.MeasureString(candidate); w <= width {
			return candidate
		}
	}
	return "…"
}

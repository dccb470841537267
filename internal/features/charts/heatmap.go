package charts

import (
	"fmt"
	"math"
	"strconv"

	"co2-emissions/internal/emissions"
	"co2-emissions/internal/features/analysis"
	"co2-emissions/internal/infra/log"

	"go.uber.org/zap"
)

// renderHeatmap draws the country x year matrix of the top countries, one
// labelled cell per value, with a colour bar on the right.
func (r *Renderer) renderHeatmap(records []emissions.Record, means []analysis.CountryMean, path string) error {
	c := newCanvas(r.cfg.HeatmapWidth, r.cfg.HeatmapHeight, r.fonts)
	const title = "CO2 Emissions Heatmap by Country and Year"

	m := analysis.Pivot(records, analysis.TopCountries(means, r.cfg.TopHeatmap))
	lo, hi, ok := m.Range()
	if !ok || len(m.Years) == 0 {
		c.emptyState(title)
		return c.save(path)
	}
	if len(m.Duplicates) > 0 {
		log.LogWarn("Duplicate country/year records averaged in heatmap",
			zap.Int("cells", len(m.Duplicates)),
			zap.String("first", fmt.Sprintf("%s %d", m.Duplicates[0].Country, m.Duplicates[0].Year)))
	}
	plotTop := c.title(title)

	p := plotArea{
		left:   c.px(170),
		top:    plotTop,
		right:  c.w - c.px(140),
		bottom: c.h - c.px(80),
	}
	cellW := p.width() / float64(len(m.Years))
	cellH := p.height() / float64(len(m.Countries))

	scaleOf := func(v float64) float64 {
		if hi == lo {
			return 0.5
		}
		return (v - lo) / (hi - lo)
	}

	c.setFont(min(noteSize, cellH/c.scale*0.4, cellW/c.scale*0.3), false)
	for i, row := range m.Values {
		for j, v := range row {
			x, y := p.left+cellW*float64(j), p.top+cellH*float64(i)
			if math.IsNaN(v) {
				c.dc.SetColor(colorMissing)
				c.dc.DrawRectangle(x, y, cellW, cellH)
				c.dc.Fill()
				continue
			}
			bg := rampAt(ylOrRdStops, scaleOf(v))
			c.dc.SetColor(bg)
			c.dc.DrawRectangle(x, y, cellW, cellH)
			c.dc.Fill()
			c.dc.SetColor(textOn(bg))
			c.dc.DrawStringAnchored(fmt.Sprintf("%.1f", v), x+cellW/2, y+cellH/2, 0.5, 0.35)
		}
	}

	// cell borders
	c.dc.SetColor(colorGrid)
	c.dc.SetLineWidth(c.px(0.5))
	for j := 0; j <= len(m.Years); j++ {
		x := p.left + cellW*float64(j)
		c.dc.DrawLine(x, p.top, x, p.bottom)
	}
	for i := 0; i <= len(m.Countries); i++ {
		y := p.top + cellH*float64(i)
		c.dc.DrawLine(p.left, y, p.right, y)
	}
	c.dc.Stroke()

	c.setFont(tickSize, false)
	c.dc.SetColor(colorText)
	for i, country := range m.Countries {
		label := fitText(c, country, p.left-c.px(60))
		c.dc.DrawStringAnchored(label, p.left-c.px(8), p.top+cellH*(float64(i)+0.5), 1, 0.35)
	}
	for j, year := range m.Years {
		c.dc.DrawStringAnchored(strconv.Itoa(year), p.left+cellW*(float64(j)+0.5), p.bottom+c.px(8), 0.5, 1)
	}
	c.xTitle("Year", p.left, p.right)
	c.yTitle("Country", p.top, p.bottom)

	c.colorbar(p.right+c.px(30), p.top, p.bottom, lo, hi)
	return c.save(path)
}

// colorbar draws the YlOrRd scale from lo (bottom) to hi (top) with tick labels.
func (c *canvas) colorbar(x, top, bottom, lo, hi float64) {
	w := c.px(24)
	height := bottom - top
	steps := int(math.Max(height, 1))
	for s := 0; s < steps; s++ {
		t := 1 - float64(s)/float64(steps)
		c.dc.SetColor(rampAt(ylOrRdStops, t))
		c.dc.DrawRectangle(x, top+float64(s), w, 1.5)
		c.dc.Fill()
	}
	c.dc.SetColor(colorAxis)
	c.dc.SetLineWidth(c.px(1))
	c.dc.DrawRectangle(x, top, w, height)
	c.dc.Stroke()

	if hi == lo {
		c.setFont(tickSize, false)
		c.dc.SetColor(colorText)
		c.dc.DrawStringAnchored(fmt.Sprintf("%.1f", lo), x+w+c.px(6), (top+bottom)/2, 0, 0.35)
		return
	}
	ticks := niceTicks(lo, hi, 5)
	format := tickFormat(ticks)
	c.setFont(tickSize, false)
	for _, t := range ticks {
		if t < lo || t > hi {
			continue
		}
		y := bottom - (t-lo)/(hi-lo)*height
		c.dc.SetColor(colorAxis)
		c.dc.DrawLine(x+w, y, x+w+c.px(4), y)
		c.dc.Stroke()
		c.dc.SetColor(colorText)
		c.dc.DrawStringAnchored(fmt.Sprintf(format, t), x+w+c.px(6), y, 0, 0.35)
	}
}

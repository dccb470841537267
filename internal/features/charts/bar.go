package charts

import (
	"fmt"

	"co2-emissions/internal/emissions"
	"co2-emissions/internal/features/analysis"
)

// spanTitle appends the dataset's year span, e.g. "... (2010-2020)".
func spanTitle(title string, records []emissions.Record) string {
	lo, hi, ok := emissions.YearSpan(records)
	if !ok {
		return title
	}
	if lo == hi {
		return fmt.Sprintf("%s (%d)", title, lo)
	}
	return fmt.Sprintf("%s (%d-%d)", title, lo, hi)
}

// renderBar draws the top countries by mean as descending bars with value labels.
func (r *Renderer) renderBar(records []emissions.Record, means []analysis.CountryMean, path string) error {
	c := newCanvas(r.cfg.Width, r.cfg.Height, r.fonts)
	title := spanTitle("Average CO2 Emissions by Country", records)

	n := min(r.cfg.TopBar, len(means))
	if n == 0 {
		c.emptyState(title)
		return c.save(path)
	}
	top := means[:n]
	plotTop := c.title(title)

	hi := top[0].Mean
	ticks := niceTicks(0, hi*1.1, 6)
	p := plotArea{
		left:   c.px(90),
		top:    plotTop + c.px(10),
		right:  c.w - c.px(30),
		bottom: c.h - c.px(170),
		yMin:   0,
		yMax:   ticks[len(ticks)-1],
	}
	c.yAxis(p, ticks, tickFormat(ticks), "Average "+axisEmissions)

	colors := sampleRamp(viridisStops, n)
	slot := p.width() / float64(n)
	barW := slot * 0.8
	labels := make([]string, n)
	c.setFont(tickSize, false)
	for i, m := range top {
		x := p.left + slot*float64(i) + (slot-barW)/2
		y := p.y(m.Mean)
		c.dc.SetColor(colors[i])
		c.dc.DrawRectangle(x, y, barW, p.bottom-y)
		c.dc.Fill()

		c.dc.SetColor(colorText)
		c.dc.DrawStringAnchored(fmt.Sprintf("%.1f", m.Mean), x+barW/2, y-c.px(4), 0.5, 0)
		labels[i] = m.Country
	}

	// axis lines again so the bars do not cover them
	c.dc.SetColor(colorAxis)
	c.dc.SetLineWidth(c.px(1.5))
	c.dc.DrawLine(p.left, p.bottom, p.right, p.bottom)
	c.dc.Stroke()

	c.xLabels(p, labels, "Country")
	return c.save(path)
}

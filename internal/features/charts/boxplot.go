package charts

import (
	"image/color"

	"co2-emissions/internal/emissions"
	"co2-emissions/internal/features/analysis"
)

// renderBoxplot draws one box per top country over all of its yearly values.
func (r *Renderer) renderBoxplot(records []emissions.Record, means []analysis.CountryMean, path string) error {
	c := newCanvas(r.cfg.Width, r.cfg.Height, r.fonts)
	title := spanTitle("Distribution of CO2 Emissions by Country", records)

	top := analysis.TopCountries(means, r.cfg.TopBox)
	var (
		names []string
		boxes []analysis.Box
		all   []float64
	)
	for _, s := range analysis.SeriesByCountry(records, top) {
		values := make([]float64, len(s.Points))
		for i, p := range s.Points {
			values[i] = p.Value
		}
		b, ok := analysis.BoxStats(values)
		if !ok {
			continue
		}
		names = append(names, s.Country)
		boxes = append(boxes, b)
		all = append(all, values...)
	}
	if len(boxes) == 0 {
		c.emptyState(title)
		return c.save(path)
	}
	plotTop := c.title(title)

	lo, hi := all[0], all[0]
	for _, v := range all {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	ticks := niceTicks(max(0, lo-pad), hi+pad, 6)
	p := plotArea{
		left:   c.px(90),
		top:    plotTop + c.px(10),
		right:  c.w - c.px(30),
		bottom: c.h - c.px(170),
		yMin:   ticks[0],
		yMax:   ticks[len(ticks)-1],
	}
	c.yAxis(p, ticks, tickFormat(ticks), axisEmissions)

	slot := p.width() / float64(len(boxes))
	boxW := slot * 0.6
	for i, b := range boxes {
		cx := p.left + slot*(float64(i)+0.5)
		col := cycle(set2Palette, i)
		c.box(p, cx, boxW, b, col)
	}

	c.xLabels(p, names, "Country")
	return c.save(path)
}

func (c *canvas) box(p plotArea, cx, width float64, b analysis.Box, fill color.Color) {
	x0 := cx - width/2
	yQ1, yQ3 := p.y(b.Q1), p.y(b.Q3)

	c.dc.SetLineWidth(c.px(1.5))
	c.dc.SetColor(colorAxis)
	// whiskers and caps
	c.dc.DrawLine(cx, yQ3, cx, p.y(b.WhiskerHi))
	c.dc.DrawLine(cx, yQ1, cx, p.y(b.WhiskerLo))
	c.dc.DrawLine(cx-width/4, p.y(b.WhiskerHi), cx+width/4, p.y(b.WhiskerHi))
	c.dc.DrawLine(cx-width/4, p.y(b.WhiskerLo), cx+width/4, p.y(b.WhiskerLo))
	c.dc.Stroke()

	c.dc.SetColor(fill)
	c.dc.DrawRectangle(x0, yQ3, width, max(yQ1-yQ3, c.px(1)))
	c.dc.FillPreserve()
	c.dc.SetColor(colorAxis)
	c.dc.Stroke()

	c.dc.SetLineWidth(c.px(2.5))
	c.dc.DrawLine(x0, p.y(b.Median), x0+width, p.y(b.Median))
	c.dc.Stroke()

	c.dc.SetLineWidth(c.px(1))
	for _, v := range b.Outliers {
		c.dc.DrawCircle(cx, p.y(v), c.px(4))
		c.dc.Stroke()
	}
}

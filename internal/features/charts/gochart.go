package charts

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"co2-emissions/internal/features/analysis"

	chart "github.com/wcharczuk/go-chart/v2"
)

// xyPlot is the frame shared by the go-chart based line and scatter plots.
type xyPlot struct {
	width, height int
	years         []int
	yTicks        []float64
	series        []chart.Series
}

// renderXY draws the plot into a PNG. go-chart takes each axis range from the
// first and last explicit tick, so the ticks must span the wanted range.
func (c *canvas) renderXY(p xyPlot) ([]byte, error) {
	if len(p.years) == 0 || len(p.series) == 0 {
		return nil, fmt.Errorf("nothing to plot")
	}
	xTicks := yearTicks(p.years)
	xMin, xMax := xTicks[0].Value, xTicks[len(xTicks)-1].Value

	format := tickFormat(p.yTicks)
	yTicks := make([]chart.Tick, len(p.yTicks))
	for i, v := range p.yTicks {
		yTicks[i] = chart.Tick{Value: v, Label: fmt.Sprintf(format, v)}
	}

	axisStyle := chart.Style{
		FontSize:    c.px(tickSize),
		FontColor:   colorText,
		StrokeColor: colorAxis,
		StrokeWidth: c.px(1.5),
	}
	gridStyle := chart.Style{StrokeColor: colorGrid, StrokeWidth: c.px(1)}

	ch := chart.Chart{
		Width:  p.width,
		Height: p.height,
		DPI:    72,
		Font:   c.fonts.regular,
		Background: chart.Style{
			Padding: chart.Box{Top: int(c.px(10)), Left: int(c.px(10)), Right: int(c.px(10)), Bottom: int(c.px(10))},
		},
		XAxis: chart.XAxis{
			Style:          axisStyle,
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks:          xTicks,
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Style:          axisStyle,
			Range:          &chart.ContinuousRange{Min: p.yTicks[0], Max: p.yTicks[len(p.yTicks)-1]},
			Ticks:          yTicks,
			GridMajorStyle: gridStyle,
		},
		Series: p.series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render plot: %w", err)
	}
	return buf.Bytes(), nil
}

// yearTicks labels at most 15 of the years and adds unlabelled bounds half a
// year outside them, so a single year still has a non-zero range.
func yearTicks(years []int) []chart.Tick {
	step := 1
	if len(years) > 15 {
		step = (len(years) + 14) / 15
	}
	ticks := []chart.Tick{{Value: float64(years[0]) - 0.5}}
	for i, y := range years {
		if i%step == 0 {
			ticks = append(ticks, chart.Tick{Value: float64(y), Label: strconv.Itoa(y)})
		}
	}
	return append(ticks, chart.Tick{Value: float64(years[len(years)-1]) + 0.5})
}

// valueTicks builds y ticks over every value of the points, padded by 5%.
func valueTicks(points ...[]analysis.Point) []float64 {
	lo, hi := 0.0, 0.0
	first := true
	for _, ps := range points {
		for _, p := range ps {
			if first {
				lo, hi = p.Value, p.Value
				first = false
				continue
			}
			lo = min(lo, p.Value)
			hi = max(hi, p.Value)
		}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	return niceTicks(max(0, lo-pad), hi+pad, 6)
}

// yearsOf lists the distinct years of the points, ascending.
func yearsOf(points ...[]analysis.Point) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, ps := range points {
		for _, p := range ps {
			if _, ok := seen[p.Year]; !ok {
				seen[p.Year] = struct{}{}
				years = append(years, p.Year)
			}
		}
	}
	sort.Ints(years)
	return years
}

func xyValues(points []analysis.Point) (xs, ys []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Year)
		ys[i] = p.Value
	}
	return xs, ys
}

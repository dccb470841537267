package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"math"

	"co2-emissions/internal/infra/fs"
	"co2-emissions/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// canvas wraps a gg context with the scale and fonts of one chart.
// All sizes below are for a 1200x800 reference canvas and multiplied by scale.
type canvas struct {
	dc    *gg.Context
	fonts *fontSet
	scale float64
	w, h  float64
}

const (
	titleSize = 22.0
	labelSize = 16.0
	tickSize  = 13.0
	noteSize  = 12.0
)

func newCanvas(width, height int, fonts *fontSet) *canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	return &canvas{
		dc:    dc,
		fonts: fonts,
		scale: math.Min(float64(width)/1200, float64(height)/800),
		w:     float64(width),
		h:     float64(height),
	}
}

func (c *canvas) px(v float64) float64 { return v * c.scale }

func (c *canvas) setFont(size float64, bold bool) {
	c.dc.SetFontFace(c.fonts.face(c.px(size), bold))
}

// title draws a bold centred title and returns the y below it.
func (c *canvas) title(text string) float64 {
	c.setFont(titleSize, true)
	c.dc.SetColor(colorText)
	y := c.px(24)
	c.dc.DrawStringAnchored(text, c.w/2, y, 0.5, 1)
	_, h := c.dc.MeasureString(text)
	return y + h + c.px(20)
}

// text draws s anchored at (x, y), rotated by deg degrees around that point.
func (c *canvas) text(s string, x, y, ax, ay, deg float64) {
	if deg == 0 {
		c.dc.DrawStringAnchored(s, x, y, ax, ay)
		return
	}
	c.dc.Push()
	c.dc.RotateAbout(gg.Radians(deg), x, y)
	c.dc.DrawStringAnchored(s, x, y, ax, ay)
	c.dc.Pop()
}

// emptyState is drawn instead of a plot when there is nothing to show.
func (c *canvas) emptyState(title string) {
	c.title(title)
	c.setFont(labelSize, false)
	c.dc.SetColor(colorAxis)
	c.dc.DrawStringAnchored("No data available", c.w/2, c.h/2, 0.5, 0.5)
}

// plotArea maps data values to pixels inside a rectangle.
type plotArea struct {
	left, top, right, bottom float64
	yMin, yMax               float64
}

func (p plotArea) width() float64  { return p.right - p.left }
func (p plotArea) height() float64 { return p.bottom - p.top }

func (p plotArea) y(v float64) float64 {
	if p.yMax == p.yMin {
		return p.bottom
	}
	return p.bottom - (v-p.yMin)/(p.yMax-p.yMin)*p.height()
}

// yAxis draws horizontal grid lines with tick labels and the rotated axis label.
func (c *canvas) yAxis(p plotArea, ticks []float64, format, label string) {
	c.setFont(tickSize, false)
	c.dc.SetLineWidth(c.px(1))
	for _, t := range ticks {
		y := p.y(t)
		c.dc.SetColor(colorGrid)
		c.dc.DrawLine(p.left, y, p.right, y)
		c.dc.Stroke()
		c.dc.SetColor(colorText)
		c.dc.DrawStringAnchored(fmt.Sprintf(format, t), p.left-c.px(8), y, 1, 0.5)
	}

	c.dc.SetColor(colorAxis)
	c.dc.SetLineWidth(c.px(1.5))
	c.dc.DrawLine(p.left, p.top, p.left, p.bottom)
	c.dc.DrawLine(p.left, p.bottom, p.right, p.bottom)
	c.dc.Stroke()

	c.yTitle(label, p.top, p.bottom)
}

// yTitle draws the rotated y axis label near the left edge.
func (c *canvas) yTitle(label string, top, bottom float64) {
	if label == "" {
		return
	}
	c.setFont(labelSize, false)
	c.dc.SetColor(colorText)
	c.text(label, c.px(28), (top+bottom)/2, 0.5, 0.5, -90)
}

// xTitle draws the x axis label along the bottom edge.
func (c *canvas) xTitle(label string, left, right float64) {
	if label == "" {
		return
	}
	c.setFont(labelSize, false)
	c.dc.SetColor(colorText)
	c.dc.DrawStringAnchored(label, (left+right)/2, c.h-c.px(16), 0.5, 0)
}

// xLabels draws category labels under slots of equal width, rotated 45 degrees.
func (c *canvas) xLabels(p plotArea, labels []string, axisLabel string) {
	slot := p.width() / float64(max(len(labels), 1))
	c.setFont(tickSize, false)
	c.dc.SetColor(colorText)
	for i, l := range labels {
		x := p.left + slot*(float64(i)+0.5)
		c.text(l, x, p.bottom+c.px(10), 1, 0.5, -45)
	}
	c.xTitle(axisLabel, p.left, p.right)
}

// drawPNG pastes a PNG produced by another renderer at (x, y).
func (c *canvas) drawPNG(data []byte, x, y int) error {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode plot image: %w", err)
	}
	c.dc.DrawImage(img, x, y)
	return nil
}

// save writes the PNG and verifies it is not empty.
func (c *canvas) save(path string) error {
	if err := c.dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	size, err := fs.RequireNonEmpty(path)
	if err != nil {
		log.LogError("Chart file check failed", zap.String("filename", path), zap.Error(err))
		return err
	}
	log.LogInfo("Chart saved", zap.String("filename", path), zap.Int64("fileSize", size))
	return nil
}

// niceTicks returns about n round tick values covering [lo, hi].
func niceTicks(lo, hi float64, n int) []float64 {
	if math.IsNaN(lo) || math.IsNaN(hi) || n < 1 {
		return nil
	}
	if hi <= lo {
		hi = lo + 1
	}
	step := niceNum((hi-lo)/float64(n))
	first := int(math.Floor(lo / step))
	last := int(math.Ceil(hi / step))

	ticks := make([]float64, 0, last-first+1)
	for k := first; k <= last; k++ {
		// 1e9 rounding keeps 3*0.2 at 0.6
		ticks = append(ticks, math.Round(float64(k)*step*1e9)/1e9)
	}
	return ticks
}

// niceNum rounds x to 1, 2, 5 or 10 times a power of ten.
func niceNum(x float64) float64 {
	if x <= 0 {
		return 1
	}
	exp := math.Floor(math.Log10(x))
	f := x / math.Pow(10, exp)
	var nf float64
	switch {
	case f < 1.5:
		nf = 1
	case f < 3:
		nf = 2
	case f < 7:
		nf = 5
	default:
		nf = 10
	}
	return nf * math.Pow(10, exp)
}

// tickFormat picks enough decimals to tell ticks apart.
func tickFormat(ticks []float64) string {
	if len(ticks) < 2 {
		return "%.1f"
	}
	step := math.Abs(ticks[1] - ticks[0])
	switch {
	case step >= 1:
		return "%.0f"
	case step >= 0.1:
		return "%.1f"
	default:
		return "%.2f"
	}
}

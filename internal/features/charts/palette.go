package charts

import (
	"image/color"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palettes as hex without '#'.
var (
	// husl, 8 evenly spaced hues
	huslPalette = []string{"f77189", "d58c32", "a4a031", "50b131", "36ada4", "3ba3ec", "bb83f4", "f564d4"}
	// ColorBrewer Set2
	set2Palette = []string{"66c2a5", "fc8d62", "8da0cb", "e78ac3", "a6d854", "ffd92f", "e5c494", "b3b3b3"}
	// viridis anchors, dark to bright
	viridisStops = []string{"440154", "482878", "3e4989", "31688e", "26828e", "1f9e89", "35b779", "6ece58", "b5de2b", "fde725"}
	// ColorBrewer YlOrRd (9 classes), light to dark
	ylOrRdStops = []string{"ffffcc", "ffeda0", "fed976", "feb24c", "fd8d3c", "fc4e2a", "e31a1c", "bd0026", "800026"}
)

var (
	colorText      = drawing.ColorFromHex("222222")
	colorAxis      = drawing.ColorFromHex("444444")
	colorGrid      = drawing.ColorFromHex("dddddd")
	colorMissing   = drawing.ColorFromHex("d9d9d9")
	colorScatter   = drawing.ColorFromHex("00008b") // darkblue
	colorTrendLine = drawing.ColorFromHex("d62728")
	// invisible stroke: non-zero so go-chart does not substitute its default colour
	colorNoStroke = drawing.Color{R: 255, G: 255, B: 255, A: 0}
)

// cycle returns palette[i % len] as a colour.
func cycle(palette []string, i int) drawing.Color {
	return drawing.ColorFromHex(palette[i%len(palette)])
}

// sampleRamp returns n colours spread evenly over the ramp.
func sampleRamp(stops []string, n int) []drawing.Color {
	out := make([]drawing.Color, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = rampAt(stops, t)
	}
	return out
}

// rampAt interpolates linearly between stops; t is clamped to [0, 1].
func rampAt(stops []string, t float64) drawing.Color {
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(stops)-1)
	i := int(math.Floor(pos))
	if i >= len(stops)-1 {
		return drawing.ColorFromHex(stops[len(stops)-1])
	}
	a, b := drawing.ColorFromHex(stops[i]), drawing.ColorFromHex(stops[i+1])
	f := pos - float64(i)
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// textOn picks black or white text for readability on bg.
func textOn(bg drawing.Color) color.Color {
	luminance := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luminance > 140 {
		return color.Black
	}
	return color.White
}

package plot

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// named holds the CSS colors used by the figures, hex without '#'.
var named = map[string]string{
	"skyblue":    "87ceeb",
	"teal":       "008080",
	"coral":      "ff7f50",
	"gold":       "ffd700",
	"lightgreen": "90ee90",
	"orange":     "ffa500",
	"violet":     "ee82ee",
	"lightblue":  "add8e6",
	"salmon":     "fa8072",
}

// coolwarm stops: blue at the low end, light grey in the middle, red at the
// high end.
var coolwarm = []drawing.Color{
	{R: 59, G: 76, B: 192, A: 255},
	{R: 221, G: 221, B: 221, A: 255},
	{R: 180, G: 4, B: 38, A: 255},
}

// colormapHex returns the coolwarm stops as hex strings with '#'.
func colormapHex() []string {
	out := make([]string, len(coolwarm))
	for i, c := range coolwarm {
		out[i] = "#" + hexColor(c)
	}
	return out
}

func hexColor(c drawing.Color) string {
	const digits = "0123456789abcdef"
	buf := make([]byte, 0, 6)
	for _, v := range []uint8{c.R, c.G, c.B} {
		buf = append(buf, digits[v>>4], digits[v&0x0f])
	}
	return string(buf)
}

// colormapAt maps v within [min, max] onto the coolwarm gradient. A flat
// range maps to the middle color.
func colormapAt(v, min, max float64) drawing.Color {
	t := 0.5
	if max > min {
		t = (v - min) / (max - min)
	}
	t = math.Max(0, math.Min(1, t))

	pos := t * float64(len(coolwarm)-1)
	i := int(math.Floor(pos))
	if i >= len(coolwarm)-1 {
		return coolwarm[len(coolwarm)-1]
	}
	frac := pos - float64(i)
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + frac*(float64(b)-float64(a))))
	}
	a, b := coolwarm[i], coolwarm[i+1]
	return drawing.Color{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

package plot

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"
)

// calculateGridStep picks a round tick step (1, 2 or 5 times a power of ten,
// scaled) so that maxValue spans a handful of grid lines.
func calculateGridStep(maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	if maxValue < 1e-10 {
		return 1e-10
	}

	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}

	finalStep := step * magnitude
	if finalStep >= 1000 {
		return math.Round(finalStep/100) * 100
	}
	if finalStep >= 100 {
		return math.Round(finalStep/10) * 10
	}
	return finalStep
}

func findMaxValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	max := y[0]
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max
}

// valueTicks returns ticks from zero up to the first grid line at or above
// maxValue. The last tick doubles as the axis maximum.
func valueTicks(maxValue float64) []chart.Tick {
	step := calculateGridStep(maxValue)
	if step == 0 {
		return []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}}
	}
	var ticks []chart.Tick
	for i := 0; ; i++ {
		v := float64(i) * step
		ticks = append(ticks, chart.Tick{Value: v, Label: tickLabel(v, step)})
		if v >= maxValue {
			break
		}
	}
	return ticks
}

func tickLabel(v, step float64) string {
	if step >= 1 {
		return humanize.FormatFloat("#,###.", v)
	}
	return humanize.FormatFloat("#,###.##", v)
}

// bottomPadding leaves room under the x axis for the longest label.
func bottomPadding(labels []string) int {
	longest := 0
	for _, l := range labels {
		if len(l) > longest {
			longest = len(l)
		}
	}
	return 40 + longest*4
}

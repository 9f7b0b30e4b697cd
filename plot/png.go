package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/sales_analyzer/apperrors"
	"github.com/pivolan/sales_analyzer/artifact"
	"github.com/pivolan/sales_analyzer/domain/models"
)

const (
	chartHeight   = 600
	lineWidth     = 1200
	barWidth      = 750
	scatterWidth  = 1000
	scatterHeight = 700

	minDotRadius = 4.0
	dotScale     = 3.0
)

var gridStyle = chart.Style{
	StrokeColor:     drawing.ColorFromHex("cccccc"),
	StrokeWidth:     1,
	StrokeDashArray: []float64{5.0, 5.0},
}

// PNGRenderer draws figures with go-chart and writes one PNG per figure.
// Charts of a multi-chart figure are placed left to right on one canvas.
type PNGRenderer struct {
	Dir string
}

func (p *PNGRenderer) Render(fig models.Figure) (string, error) {
	if len(fig.Charts) == 0 {
		return "", apperrors.Precondition("figure " + fig.Name + " has no charts")
	}

	panels := make([][]byte, 0, len(fig.Charts))
	for _, spec := range fig.Charts {
		data, err := drawChart(spec)
		if err != nil {
			return "", apperrors.InternalWrap(err, "render "+fig.Name)
		}
		panels = append(panels, data)
	}

	data := panels[0]
	if len(panels) > 1 {
		var err error
		if data, err = composeHorizontal(panels); err != nil {
			return "", apperrors.InternalWrap(err, "compose "+fig.Name)
		}
	}
	return artifact.WriteAtomic(p.Dir, fig.Name+".png", data)
}

func drawChart(spec models.ChartSpec) ([]byte, error) {
	switch spec.Kind {
	case models.ChartLine:
		return drawLine(spec)
	case models.ChartBar:
		return drawBar(spec)
	case models.ChartScatter:
		return drawScatter(spec)
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
}

func firstValues(spec models.ChartSpec) []float64 {
	if len(spec.Series) == 0 {
		return nil
	}
	return spec.Series[0].Values
}

func seriesName(spec models.ChartSpec) string {
	if len(spec.Series) == 0 {
		return ""
	}
	return spec.Series[0].Name
}

// placeholder keeps empty charts renderable.
func placeholder(categories []string, values []float64) ([]string, []float64) {
	if len(values) == 0 {
		return []string{"no data"}, []float64{0}
	}
	return categories, values
}

func colorAt(colors []string, i int, fallback drawing.Color) drawing.Color {
	if len(colors) == 0 {
		return fallback
	}
	return drawing.ColorFromHex(colors[i%len(colors)])
}

func valueAxis(name string, values []float64) chart.YAxis {
	ticks := valueTicks(findMaxValue(values))
	return chart.YAxis{
		Name:           name,
		Range:          &chart.ContinuousRange{Min: 0, Max: ticks[len(ticks)-1].Value},
		Ticks:          ticks,
		GridMajorStyle: gridStyle,
	}
}

func drawLine(spec models.ChartSpec) ([]byte, error) {
	categories, values := placeholder(spec.Categories, firstValues(spec))

	xValues := make([]float64, len(values))
	for i := range values {
		xValues[i] = float64(i)
	}
	// go-chart takes the x range from the ticks, so unlabeled edge ticks
	// keep it non-zero when there is a single month.
	ticks := make([]chart.Tick, 0, len(categories)+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i, c := range categories {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: c})
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(categories)) - 0.5})

	stroke := colorAt(spec.Colors, 0, drawing.ColorBlue)
	style := chart.Style{StrokeColor: stroke, StrokeWidth: 2}
	if spec.Markers {
		style.DotColor = stroke
		style.DotWidth = 5
	}

	graph := chart.Chart{
		Title:  spec.Title,
		Width:  lineWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 20, Right: 20, Bottom: bottomPadding(categories)},
			FillColor: drawing.ColorWhite,
		},
		XAxis: chart.XAxis{
			Name:  spec.XLabel,
			Style: chart.Style{TextRotationDegrees: 45},
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(values)) - 0.5},
			Ticks: ticks,
		},
		YAxis: valueAxis(spec.YLabel, values),
		Series: []chart.Series{
			&chart.ContinuousSeries{Name: seriesName(spec), Style: style, XValues: xValues, YValues: values},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering line chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func drawBar(spec models.ChartSpec) ([]byte, error) {
	categories, values := placeholder(spec.Categories, firstValues(spec))

	bars := make([]chart.Value, len(values))
	for i, v := range values {
		fill := colorAt(spec.Colors, i, drawing.ColorBlue)
		bars[i] = chart.Value{
			Value: v,
			Label: categories[i],
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		}
	}

	bar := chart.BarChart{
		Title:    spec.Title,
		Width:    barWidth,
		Height:   chartHeight,
		BarWidth: 60,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 20, Right: 20, Bottom: bottomPadding(categories)},
			FillColor: drawing.ColorWhite,
		},
		XAxis: chart.Style{StrokeWidth: 1, StrokeColor: chart.ColorBlack},
		YAxis: valueAxis(spec.YLabel, values),
		Bars:  bars,
	}
	if needed := len(bars)*(bar.BarWidth+20) + 150; needed > bar.Width {
		bar.Width = needed
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := bar.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering bar chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// dotRadius maps a marker size to a radius in pixels. Sizes are areas, so
// the radius grows with the square root.
func dotRadius(size float64) float64 {
	return math.Max(minDotRadius, math.Sqrt(size)*dotScale)
}

// paddedRange widens [lo, hi] by a tenth of its span on both sides, or by
// one unit when the span is zero.
func paddedRange(lo, hi float64) (float64, float64) {
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

func drawScatter(spec models.ChartSpec) ([]byte, error) {
	ys := firstValues(spec)
	xs := spec.X
	if len(xs) == 0 || len(ys) == 0 {
		xs, ys = []float64{0}, []float64{0}
	}

	xMin, xMax := paddedRange(minMax(xs))
	yMin, yMax := paddedRange(minMax(ys))
	if yMin > 0 {
		yMin = 0
	}
	cMin, cMax := minMax(spec.ColorValues)

	style := chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
			if index < len(spec.Sizes) {
				return dotRadius(spec.Sizes[index])
			}
			return minDotRadius
		},
		DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
			if index < len(spec.ColorValues) {
				return colormapAt(spec.ColorValues[index], cMin, cMax).WithAlpha(180)
			}
			return drawing.ColorBlue
		},
	}

	graph := chart.Chart{
		Title:  spec.Title,
		Width:  scatterWidth,
		Height: scatterHeight,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 20, Right: 130, Bottom: 40},
			FillColor: drawing.ColorWhite,
		},
		XAxis: chart.XAxis{
			Name:           spec.XLabel,
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           spec.YLabel,
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			&chart.ContinuousSeries{Name: seriesName(spec), Style: style, XValues: xs, YValues: ys},
		},
		Elements: []chart.Renderable{
			annotationsElement(spec.Annotations, xMin, xMax, yMin, yMax),
			colorbarElement(spec.ColorLabel, cMin, cMax),
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering scatter chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func setTextStyle(r chart.Renderer, defaults chart.Style, size float64) {
	font := defaults.Font
	if font == nil {
		font, _ = chart.GetDefaultFont()
	}
	r.SetFont(font)
	r.SetFontColor(drawing.ColorBlack)
	r.SetFontSize(size)
}

// annotationsElement writes each label at its data point shifted by the
// annotation offset in pixels, horizontally centered.
func annotationsElement(annotations []models.Annotation, xMin, xMax, yMin, yMax float64) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		setTextStyle(r, defaults, 11)
		for _, a := range annotations {
			px := box.Left + int((a.X-xMin)/(xMax-xMin)*float64(box.Width()))
			py := box.Bottom - int((a.Y-yMin)/(yMax-yMin)*float64(box.Height()))
			width := r.MeasureText(a.Label).Width()
			r.Text(a.Label, px+a.OffsetX-width/2, py-a.OffsetY)
		}
	}
}

// colorbarElement draws the colormap as a vertical bar right of the plot
// with its min and max values and label.
func colorbarElement(label string, lo, hi float64) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		left := box.Right + 30
		const width = 18
		steps := box.Height()
		for i := 0; i < steps; i++ {
			c := colormapAt(float64(steps-i), 0, float64(steps))
			r.SetFillColor(c)
			r.SetStrokeColor(c)
			r.SetStrokeWidth(1)
			r.MoveTo(left, box.Top+i)
			r.LineTo(left+width, box.Top+i)
			r.LineTo(left+width, box.Top+i+1)
			r.LineTo(left, box.Top+i+1)
			r.Close()
			r.FillStroke()
		}
		setTextStyle(r, defaults, 10)
		r.Text(tickLabel(hi, 0.01), left+width+4, box.Top+8)
		r.Text(tickLabel(lo, 0.01), left+width+4, box.Bottom)
		r.Text(label, left-10, box.Top-10)
	}
}

// composeHorizontal decodes PNG panels and places them left to right on a
// white canvas as tall as the tallest panel.
func composeHorizontal(panels [][]byte) ([]byte, error) {
	images := make([]image.Image, 0, len(panels))
	width, height := 0, 0
	for _, p := range panels {
		img, err := png.Decode(bytes.NewReader(p))
		if err != nil {
			return nil, err
		}
		images = append(images, img)
		width += img.Bounds().Dx()
		if h := img.Bounds().Dy(); h > height {
			height = h
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	x := 0
	for _, img := range images {
		b := img.Bounds()
		draw.Draw(canvas, image.Rect(x, 0, x+b.Dx(), b.Dy()), img, b.Min, draw.Over)
		x += b.Dx()
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := png.Encode(buffer, canvas); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

package plot

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pivolan/sales_analyzer/apperrors"
	"github.com/pivolan/sales_analyzer/artifact"
	"github.com/pivolan/sales_analyzer/domain/models"
)

// HTMLRenderer writes each figure as an echarts page. Multi-chart figures
// use a flex layout so the charts sit side by side.
type HTMLRenderer struct {
	Dir string
}

func (h *HTMLRenderer) Render(fig models.Figure) (string, error) {
	if len(fig.Charts) == 0 {
		return "", apperrors.Precondition("figure " + fig.Name + " has no charts")
	}

	page := components.NewPage()
	page.PageTitle = fig.Title
	if len(fig.Charts) > 1 {
		page.SetLayout(components.PageFlexLayout)
	}
	for i, spec := range fig.Charts {
		initOpts := opts.Initialization{
			PageTitle: fig.Title,
			Width:     fmt.Sprintf("%dpx", panelWidth(spec)),
			Height:    fmt.Sprintf("%dpx", chartHeight),
			ChartID:   fmt.Sprintf("%s_%d", fig.Name, i),
		}
		switch spec.Kind {
		case models.ChartLine:
			page.AddCharts(echartsLine(spec, initOpts))
		case models.ChartBar:
			page.AddCharts(echartsBar(spec, initOpts))
		case models.ChartScatter:
			page.AddCharts(echartsScatter(spec, initOpts))
		default:
			return "", apperrors.Internal(fmt.Sprintf("render %s: unsupported chart kind %q", fig.Name, spec.Kind))
		}
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := page.Render(buffer); err != nil {
		return "", apperrors.InternalWrap(err, "render "+fig.Name)
	}
	return artifact.WriteAtomic(h.Dir, fig.Name+".html", buffer.Bytes())
}

func panelWidth(spec models.ChartSpec) int {
	switch spec.Kind {
	case models.ChartBar:
		return barWidth
	case models.ChartScatter:
		return scatterWidth
	default:
		return lineWidth
	}
}

func commonOpts(spec models.ChartSpec, initOpts opts.Initialization) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YLabel}),
	}
}

func echartsLine(spec models.ChartSpec, initOpts opts.Initialization) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(append(commonOpts(spec, initOpts),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XLabel}))...)

	data := make([]opts.LineData, 0, len(spec.Categories))
	for _, v := range firstValues(spec) {
		data = append(data, opts.LineData{Value: v})
	}
	line.SetXAxis(spec.Categories).AddSeries(seriesName(spec), data,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(spec.Markers)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#" + colorOr(spec.Colors, 0, named["skyblue"])}),
	)
	return line
}

func echartsBar(spec models.ChartSpec, initOpts opts.Initialization) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(commonOpts(spec, initOpts),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XLabel}))...)

	data := make([]opts.BarData, 0, len(spec.Categories))
	for i, v := range firstValues(spec) {
		data = append(data, opts.BarData{
			Value:     v,
			ItemStyle: &opts.ItemStyle{Color: "#" + colorOr(spec.Colors, i, named["teal"])},
		})
	}
	bar.SetXAxis(spec.Categories).AddSeries(seriesName(spec), data)
	return bar
}

func echartsScatter(spec models.ChartSpec, initOpts opts.Initialization) *charts.Scatter {
	scatter := charts.NewScatter()
	cMin, cMax := minMax(spec.ColorValues)
	scatter.SetGlobalOptions(append(commonOpts(spec, initOpts),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XLabel, Type: "value"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(cMin),
			Max:        float32(cMax),
			Dimension:  "0",
			Text:       []string{spec.ColorLabel},
			InRange:    &opts.VisualMapInRange{Color: colormapHex()},
		}),
	)...)

	ys := firstValues(spec)
	data := make([]opts.ScatterData, 0, len(spec.X))
	for i, x := range spec.X {
		if i >= len(ys) {
			break
		}
		item := opts.ScatterData{Value: []float64{x, ys[i]}, SymbolSize: int(2 * minDotRadius)}
		if i < len(spec.Sizes) {
			item.SymbolSize = int(math.Round(2 * dotRadius(spec.Sizes[i])))
		}
		if i < len(spec.Annotations) {
			item.Name = spec.Annotations[i].Label
		}
		data = append(data, item)
	}
	scatter.AddSeries(seriesName(spec), data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Formatter: "{b}"}),
	)
	return scatter
}

func colorOr(colors []string, i int, fallback string) string {
	if len(colors) == 0 {
		return fallback
	}
	return colors[i%len(colors)]
}

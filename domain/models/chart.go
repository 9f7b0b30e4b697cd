package models

type ChartKind string

const (
	ChartLine    ChartKind = "line"
	ChartBar     ChartKind = "bar"
	ChartScatter ChartKind = "scatter"
)

type Series struct {
	Name   string
	Values []float64
}

// Annotation places Label next to the point (X, Y), shifted by the given
// offset in pixels.
type Annotation struct {
	Label   string
	X, Y    float64
	OffsetX int
	OffsetY int
}

// ChartSpec describes one chart independently of the rendering backend.
// Line and bar charts use Categories as the x axis; scatter charts use X.
type ChartSpec struct {
	Kind        ChartKind
	Title       string
	XLabel      string
	YLabel      string
	Categories  []string
	X           []float64
	Series      []Series
	Markers     bool
	Colors      []string // per bar or per point, hex without '#'
	Sizes       []float64
	ColorValues []float64
	Colormap    string
	ColorLabel  string
	Annotations []Annotation
}

// Figure is one output file holding one or more charts laid out left to
// right.
type Figure struct {
	Name   string
	Title  string
	Charts []ChartSpec
}

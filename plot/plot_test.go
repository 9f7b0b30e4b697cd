package plot

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/sales_analyzer/apperrors"
	"github.com/pivolan/sales_analyzer/domain/models"
)

func groups(key string, keys ...string) models.GroupSales {
	g := models.GroupSales{Key: key}
	for i, k := range keys {
		g.Rows = append(g.Rows, models.GroupValue{Key: k, Sales: decimal.NewFromInt(int64(1000 * (len(keys) - i)))})
	}
	return g
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func sampleFigures() []models.Figure {
	months := []models.MonthValue{
		{Month: "2023-01", Sales: decimal.RequireFromString("14801.47")},
		{Month: "2023-02", Sales: decimal.RequireFromString("18199.99")},
	}
	products := []models.ProductRow{
		{Product: "Desk", AveragePrice: price("1175.375"), TotalQuantity: decimal.NewFromInt(5)},
		{Product: "Phone", AveragePrice: price("2999.99"), TotalQuantity: decimal.NewFromInt(4)},
		{Product: "Laptop", AveragePrice: price("5100"), TotalQuantity: decimal.NewFromInt(3)},
	}
	return []models.Figure{
		MonthlyTrendFigure(months),
		CategoryCityFigure(groups(models.ColumnCategory, "Electronics", "Furniture"),
			groups(models.ColumnCity, "Shanghai", "Beijing")),
		PriceQuantityFigure(products),
	}
}

func TestMonthlyTrendFigure(t *testing.T) {
	fig := sampleFigures()[0]
	assert.Equal(t, MonthlyTrendName, fig.Name)
	require.Len(t, fig.Charts, 1)

	spec := fig.Charts[0]
	assert.Equal(t, models.ChartLine, spec.Kind)
	assert.True(t, spec.Markers)
	assert.Equal(t, []string{"2023-01", "2023-02"}, spec.Categories)
	assert.Equal(t, []float64{14801.47, 18199.99}, spec.Series[0].Values)
}

func TestCategoryCityFigurePalettes(t *testing.T) {
	fig := CategoryCityFigure(
		groups(models.ColumnCategory, "A", "B", "C", "D"),
		groups(models.ColumnCity, "c1", "c2", "c3", "c4", "c5", "c6", "c7"),
	)
	require.Len(t, fig.Charts, 2)

	category, city := fig.Charts[0], fig.Charts[1]
	assert.Equal(t, []string{"A", "B", "C", "D"}, category.Categories)
	assert.Equal(t, []string{"008080", "ff7f50", "ffd700", "008080"}, category.Colors)
	assert.Len(t, city.Colors, 7)
	assert.Equal(t, city.Colors[0], city.Colors[5])
	assert.Equal(t, city.Colors[1], city.Colors[6])
	assert.Equal(t, "fa8072", city.Colors[4])
}

func TestPaletteColors(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"empty", 0, []string{}},
		{"shorter than palette", 2, []string{"a", "b"}},
		{"wraps", 5, []string{"a", "b", "c", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paletteColors([]string{"a", "b", "c"}, tt.n))
		})
	}
}

func TestPriceQuantityFigure(t *testing.T) {
	spec := sampleFigures()[2].Charts[0]
	assert.Equal(t, models.ChartScatter, spec.Kind)
	assert.Equal(t, []float64{1175.375, 2999.99, 5100}, spec.X)
	assert.Equal(t, []float64{5, 4, 3}, spec.Series[0].Values)
	assert.Equal(t, []float64{0.5, 0.4, 0.3}, spec.Sizes)
	assert.Equal(t, spec.X, spec.ColorValues)
	assert.Equal(t, "coolwarm", spec.Colormap)
	require.Len(t, spec.Annotations, 3)
	assert.Equal(t, models.Annotation{Label: "Phone", X: 2999.99, Y: 4, OffsetX: 5, OffsetY: 5}, spec.Annotations[1])
}

func TestPriceQuantityFigureSkipsMissingPrice(t *testing.T) {
	spec := PriceQuantityFigure([]models.ProductRow{
		{Product: "Mystery", TotalQuantity: decimal.NewFromInt(3)},
		{Product: "Chair", AveragePrice: price("30"), TotalQuantity: decimal.NewFromInt(2)},
	}).Charts[0]
	assert.Equal(t, []float64{30}, spec.X)
	assert.Equal(t, []float64{2}, spec.Series[0].Values)
	require.Len(t, spec.Annotations, 1)
	assert.Equal(t, "Chair", spec.Annotations[0].Label)
}

func TestColormapAt(t *testing.T) {
	assert.Equal(t, coolwarm[0], colormapAt(0, 0, 10))
	assert.Equal(t, coolwarm[2], colormapAt(10, 0, 10))
	assert.Equal(t, coolwarm[1], colormapAt(5, 0, 10))
	assert.Equal(t, coolwarm[1], colormapAt(3, 3, 3))
	assert.Equal(t, coolwarm[2], colormapAt(50, 0, 10))
}

func TestValueTicks(t *testing.T) {
	ticks := valueTicks(18199.99)
	var values []float64
	for _, tick := range ticks {
		values = append(values, tick.Value)
	}
	assert.Equal(t, []float64{0, 5000, 10000, 15000, 20000}, values)
	assert.Equal(t, "20,000", ticks[4].Label)

	assert.Len(t, valueTicks(0), 2)
}

func TestPNGRenderer(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRenderer(FormatPNG, dir)
	require.NoError(t, err)

	for _, fig := range sampleFigures() {
		path, err := r.Render(fig)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, fig.Name+".png"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		_, err = png.Decode(bytes.NewReader(data))
		assert.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestPNGRendererSideBySide(t *testing.T) {
	dir := t.TempDir()
	fig := sampleFigures()[1]
	path, err := (&PNGRenderer{Dir: dir}).Render(fig)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2*barWidth, img.Bounds().Dx())
}

func TestPNGRendererEmptyData(t *testing.T) {
	dir := t.TempDir()
	figs := []models.Figure{
		MonthlyTrendFigure(nil),
		CategoryCityFigure(models.GroupSales{Key: models.ColumnCategory}, models.GroupSales{Key: models.ColumnCity}),
		PriceQuantityFigure(nil),
		MonthlyTrendFigure([]models.MonthValue{{Month: "2023-01", Sales: decimal.NewFromInt(10)}}),
		MonthlyTrendFigure([]models.MonthValue{{Month: "2023-01", Sales: decimal.Zero}}),
		PriceQuantityFigure([]models.ProductRow{{Product: "Mystery", TotalQuantity: decimal.NewFromInt(3)}}),
		PriceQuantityFigure([]models.ProductRow{{Product: "Chair", AveragePrice: price("30"), TotalQuantity: decimal.NewFromInt(2)}}),
	}
	for _, fig := range figs {
		_, err := (&PNGRenderer{Dir: dir}).Render(fig)
		assert.NoError(t, err, fig.Name)
	}
}

func TestHTMLRenderer(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRenderer(FormatHTML, dir)
	require.NoError(t, err)

	for _, fig := range sampleFigures() {
		path, err := r.Render(fig)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, fig.Name+".html"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), fig.Title)
	}
}

func TestHTMLScatterSymbolSizes(t *testing.T) {
	dir := t.TempDir()
	fig := PriceQuantityFigure([]models.ProductRow{
		{Product: "Bulk", AveragePrice: price("2"), TotalQuantity: decimal.NewFromInt(5000)},
		{Product: "Crate", AveragePrice: price("15"), TotalQuantity: decimal.NewFromInt(800)},
		{Product: "Single", AveragePrice: price("900"), TotalQuantity: decimal.NewFromInt(1)},
	})
	path, err := (&HTMLRenderer{Dir: dir}).Render(fig)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	matches := regexp.MustCompile(`"symbolSize":(\d+)`).FindAllStringSubmatch(string(data), -1)
	require.Len(t, matches, 3)
	var sizes []int
	for _, m := range matches {
		size, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		sizes = append(sizes, size)
	}
	assert.Equal(t, []int{134, 54, 8}, sizes)
	for _, size := range sizes {
		assert.Less(t, size, scatterWidth/4)
	}
}

func TestNewRendererUnknownFormat(t *testing.T) {
	_, err := NewRenderer("svg", t.TempDir())
	assert.Equal(t, apperrors.CodePrecondition, apperrors.CodeOf(err))
}

func TestRenderFailureLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	fig := sampleFigures()[0]

	// a directory in place of the target makes the final rename fail
	blocker := filepath.Join(dir, fig.Name+".png")
	require.NoError(t, os.Mkdir(blocker, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(blocker, "keep"), []byte("x"), 0644))

	_, err := (&PNGRenderer{Dir: dir}).Render(fig)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeIO, apperrors.CodeOf(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())
	_, err = os.Stat(filepath.Join(blocker, "keep"))
	assert.NoError(t, err)
}

func TestRenderIntoMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")
	_, err := (&PNGRenderer{Dir: dir}).Render(sampleFigures()[0])
	assert.Equal(t, apperrors.CodeIO, apperrors.CodeOf(err))
}

package plot

import (
	"github.com/pivolan/sales_analyzer/domain/models"
)

// File stems of the generated figures.
const (
	MonthlyTrendName  = "monthly_sales_trend"
	CategoryCityName  = "category_city_sales"
	PriceQuantityName = "price_quantity_scatter"
)

// SizeDivisor scales total quantity down to a scatter marker size.
const SizeDivisor = 10

var (
	lineColor       = named["skyblue"]
	categoryPalette = []string{named["teal"], named["coral"], named["gold"]}
	cityPalette     = []string{named["lightgreen"], named["orange"], named["violet"], named["lightblue"], named["salmon"]}
)

// paletteColors assigns palette colors to n bars in order, wrapping around
// when there are more bars than colors.
func paletteColors(palette []string, n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}

func MonthlyTrendFigure(rows []models.MonthValue) models.Figure {
	categories := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, row := range rows {
		categories[i] = row.Month
		values[i] = row.Sales.InexactFloat64()
	}
	return models.Figure{
		Name:  MonthlyTrendName,
		Title: "Monthly Sales Trend",
		Charts: []models.ChartSpec{{
			Kind:       models.ChartLine,
			Title:      "Monthly Sales Trend",
			XLabel:     "Month",
			YLabel:     "Sales",
			Categories: categories,
			Series:     []models.Series{{Name: models.ColumnSales, Values: values}},
			Markers:    true,
			Colors:     []string{lineColor},
		}},
	}
}

func groupBars(g models.GroupSales, title, xLabel string, palette []string) models.ChartSpec {
	categories := make([]string, len(g.Rows))
	values := make([]float64, len(g.Rows))
	for i, row := range g.Rows {
		categories[i] = row.Key
		values[i] = row.Sales.InexactFloat64()
	}
	return models.ChartSpec{
		Kind:       models.ChartBar,
		Title:      title,
		XLabel:     xLabel,
		YLabel:     "Sales",
		Categories: categories,
		Series:     []models.Series{{Name: models.ColumnSales, Values: values}},
		Colors:     paletteColors(palette, len(g.Rows)),
	}
}

// CategoryCityFigure puts the category ranking and the city ranking side by
// side, bars in ranking order.
func CategoryCityFigure(category, city models.GroupSales) models.Figure {
	return models.Figure{
		Name:  CategoryCityName,
		Title: "Sales by Category and City",
		Charts: []models.ChartSpec{
			groupBars(category, "Total Sales by Category", "Category", categoryPalette),
			groupBars(city, "Total Sales by City", "City", cityPalette),
		},
	}
}

// PriceQuantityFigure plots average price against total quantity per
// product. Marker size follows quantity, marker color follows price.
// Products without an average price are left out.
func PriceQuantityFigure(rows []models.ProductRow) models.Figure {
	spec := models.ChartSpec{
		Kind:       models.ChartScatter,
		Title:      "Average Price vs Total Quantity",
		XLabel:     "Average Price",
		YLabel:     "Total Quantity",
		Colormap:   "coolwarm",
		ColorLabel: "Average Price",
	}
	quantities := make([]float64, 0, len(rows))
	for _, row := range rows {
		if !row.AveragePrice.Valid {
			continue
		}
		x := row.AveragePrice.Decimal.InexactFloat64()
		y := row.TotalQuantity.InexactFloat64()
		spec.X = append(spec.X, x)
		quantities = append(quantities, y)
		spec.Sizes = append(spec.Sizes, y/SizeDivisor)
		spec.ColorValues = append(spec.ColorValues, x)
		spec.Annotations = append(spec.Annotations, models.Annotation{
			Label: row.Product, X: x, Y: y, OffsetX: 5, OffsetY: 5,
		})
	}
	spec.Series = []models.Series{{Name: models.ColumnQuantity, Values: quantities}}
	return models.Figure{
		Name:   PriceQuantityName,
		Title:  spec.Title,
		Charts: []models.ChartSpec{spec},
	}
}

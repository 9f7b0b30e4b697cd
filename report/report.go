package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/pivolan/sales_analyzer/domain/models"
	"github.com/pivolan/sales_analyzer/loader"
)

// DefaultSymbol is the currency symbol used when none is configured.
const DefaultSymbol = "¥"

// HeadRows is the number of data rows shown in the load preview.
const HeadRows = 5

// Currency renders d with the symbol, thousands separators and exactly two
// decimals: ¥1,234,567.80, -¥12.00.
func Currency(d decimal.Decimal, symbol string) string {
	rounded := d.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	fixed := rounded.StringFixed(2)
	cents := fixed[strings.IndexByte(fixed, '.')+1:]
	return sign + symbol + humanize.BigComma(rounded.BigInt()) + "." + cents
}

// NullCurrency is Currency for optional amounts; a null amount renders as NaN.
func NullCurrency(d decimal.NullDecimal, symbol string) string {
	if !d.Valid {
		return formatStat(math.NaN())
	}
	return Currency(d.Decimal, symbol)
}

// Reporter turns datasets and aggregates into console text. Output depends
// only on its inputs.
type Reporter struct {
	Symbol string
}

func New(symbol string) *Reporter {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return &Reporter{Symbol: symbol}
}

// Section frames a block of report text with a heading line.
func Section(title, body string) string {
	return fmt.Sprintf("--- %s ---\n%s\n", title, strings.TrimRight(body, "\n"))
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	return t
}

func alignRight(columns ...int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, 0, len(columns))
	for _, n := range columns {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	return configs
}

// Load describes the shape of a loaded dataset, previews its first rows and
// lists each column with its inferred type and non-missing count.
func (r *Reporter) Load(ds *models.Dataset) string {
	buf := &strings.Builder{}
	fmt.Fprintf(buf, "Loaded %s\n", ds.Source)
	fmt.Fprintf(buf, "Shape: %d rows x %d columns\n\n", ds.Frame.Nrow(), len(ds.Columns))

	head := loader.Head(ds, HeadRows)
	if len(head) > 0 {
		t := newTable()
		header := table.Row{}
		for _, h := range head[0] {
			header = append(header, h)
		}
		t.AppendHeader(header)
		for _, rec := range head[1:] {
			row := table.Row{}
			for _, v := range rec {
				row = append(row, v)
			}
			t.AppendRow(row)
		}
		buf.WriteString(t.Render())
		buf.WriteString("\n\n")
	}

	t := newTable()
	t.AppendHeader(table.Row{"Column", "Type", "Non-Null"})
	for _, c := range ds.Columns {
		nonNull := 0
		for _, v := range ds.Frame.Col(c.Name).Records() {
			if !loader.IsMissing(v) {
				nonNull++
			}
		}
		t.AppendRow(table.Row{c.Name, c.Type, nonNull})
	}
	t.SetColumnConfigs(alignRight(3))
	buf.WriteString(t.Render())
	return buf.String()
}

// Missing lists the columns that have missing values, or a pass notice when
// there are none.
func (r *Reporter) Missing(ds *models.Dataset) string {
	if ds.MissingTotal() == 0 {
		return "No missing values."
	}
	t := newTable()
	t.AppendHeader(table.Row{"Column", "Missing"})
	for _, m := range ds.Missing {
		if m.Count > 0 {
			t.AppendRow(table.Row{m.Column, m.Count})
		}
	}
	t.AppendFooter(table.Row{"Total", ds.MissingTotal()})
	t.SetColumnConfigs(alignRight(2))
	return t.Render()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// BasicStats renders count, mean, std, min, quartiles and max for the
// numeric columns.
func (r *Reporter) BasicStats(stats models.BasicStats) string {
	t := newTable()
	t.AppendHeader(table.Row{"", models.ColumnQuantity, models.ColumnPrice, models.ColumnSales})
	columns := []models.ColumnStats{stats.Quantity, stats.Price, stats.Sales}

	count := table.Row{"count"}
	for _, c := range columns {
		count = append(count, c.Count)
	}
	t.AppendRow(count)

	measures := []struct {
		name  string
		value func(c models.ColumnStats) float64
	}{
		{"mean", func(c models.ColumnStats) float64 { return c.Mean }},
		{"std", func(c models.ColumnStats) float64 { return c.Std }},
		{"min", func(c models.ColumnStats) float64 { return c.Min }},
		{"25%", func(c models.ColumnStats) float64 { return c.Q1 }},
		{"50%", func(c models.ColumnStats) float64 { return c.Median }},
		{"75%", func(c models.ColumnStats) float64 { return c.Q3 }},
		{"max", func(c models.ColumnStats) float64 { return c.Max }},
	}
	for _, m := range measures {
		row := table.Row{m.name}
		for _, c := range columns {
			row = append(row, formatStat(m.value(c)))
		}
		t.AppendRow(row)
	}
	t.SetColumnConfigs(alignRight(2, 3, 4))
	return t.Render()
}

func (r *Reporter) Totals(stats models.BasicStats) string {
	return fmt.Sprintf("Total sales: %s\nAverage order value: %s",
		Currency(stats.TotalSales, r.Symbol), Currency(stats.AverageOrderValue, r.Symbol))
}

func (r *Reporter) Monthly(rows []models.MonthValue) string {
	t := newTable()
	t.AppendHeader(table.Row{models.ColumnMonth, models.ColumnSales})
	for _, row := range rows {
		t.AppendRow(table.Row{row.Month, Currency(row.Sales, r.Symbol)})
	}
	t.SetColumnConfigs(alignRight(2))
	return t.Render()
}

// Groups renders a group ranking in the order it was computed.
func (r *Reporter) Groups(g models.GroupSales) string {
	t := newTable()
	t.AppendHeader(table.Row{"#", g.Key, models.ColumnSales})
	for i, row := range g.Rows {
		t.AppendRow(table.Row{i + 1, row.Key, Currency(row.Sales, r.Symbol)})
	}
	t.SetColumnConfigs(alignRight(1, 3))
	return t.Render()
}

func (r *Reporter) Products(rows []models.ProductRow) string {
	t := newTable()
	t.AppendHeader(table.Row{models.ColumnProduct, "Average Price", "Total Quantity"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.Product, NullCurrency(row.AveragePrice, r.Symbol), row.TotalQuantity.String()})
	}
	t.SetColumnConfigs(alignRight(2, 3))
	return t.Render()
}

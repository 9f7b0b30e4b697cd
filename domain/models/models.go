package models

import (
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"
)

const (
	ColumnDate     = "Date"
	ColumnProduct  = "Product"
	ColumnCategory = "Category"
	ColumnCity     = "City"
	ColumnQuantity = "Quantity"
	ColumnPrice    = "Price"
	ColumnSales    = "Sales"
	ColumnMonth    = "Month"
)

// RequiredColumns lists the input schema in its canonical order.
var RequiredColumns = []string{
	ColumnDate, ColumnProduct, ColumnCategory, ColumnCity,
	ColumnQuantity, ColumnPrice, ColumnSales,
}

type ColumnInfo struct {
	Name string
	Type string // datetime, date, int, float or string, as detected by the loader
}

// Record is one sales transaction. Empty strings and invalid NullDecimals
// mark missing cells.
type Record struct {
	Date     time.Time
	HasDate  bool
	Month    string // YYYY-MM, empty when Date is missing
	Product  string
	Category string
	City     string
	Quantity decimal.NullDecimal
	Price    decimal.NullDecimal
	Sales    decimal.NullDecimal
}

type ColumnMissing struct {
	Column string
	Count  int
}

type Dataset struct {
	Source  string
	Columns []ColumnInfo
	Frame   dataframe.DataFrame
	Records []Record
	Missing []ColumnMissing
	Cleaned bool
}

func (d *Dataset) Rows() int {
	if d.Cleaned {
		return len(d.Records)
	}
	return d.Frame.Nrow()
}

func (d *Dataset) MissingTotal() int {
	total := 0
	for _, m := range d.Missing {
		total += m.Count
	}
	return total
}

type ColumnStats struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

type BasicStats struct {
	Count             int
	Quantity          ColumnStats
	Price             ColumnStats
	Sales             ColumnStats
	TotalSales        decimal.Decimal
	AverageOrderValue decimal.Decimal
	MissingTotal      int
	NumericMissing    int
}

type MonthValue struct {
	Month string
	Sales decimal.Decimal
}

type GroupValue struct {
	Key   string
	Sales decimal.Decimal
}

type GroupSales struct {
	Key  string // Category or City
	Rows []GroupValue
}

// ProductRow holds one product aggregate. AveragePrice is invalid when the
// product has no usable Price.
type ProductRow struct {
	Product       string
	AveragePrice  decimal.NullDecimal
	TotalQuantity decimal.Decimal
}

// Analysis bundles every aggregate computed in one run.
type Analysis struct {
	Stats    BasicStats
	Monthly  []MonthValue
	Category GroupSales
	City     GroupSales
	Products []ProductRow
}

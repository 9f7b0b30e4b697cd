package export

import (
	"fmt"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/pivolan/sales_analyzer/apperrors"
	"github.com/pivolan/sales_analyzer/artifact"
	"github.com/pivolan/sales_analyzer/domain/models"
)

// WorkbookName is the file written into the output directory.
const WorkbookName = "sales_summary.xlsx"

const (
	SheetSummary  = "Summary"
	SheetMonthly  = "Monthly"
	SheetCategory = "Category"
	SheetCity     = "City"
	SheetProducts = "Products"
)

// WriteWorkbook saves the aggregates of a run as an xlsx workbook with one
// sheet per table. Money is stored as numbers rounded to cents.
func WriteWorkbook(path string, a models.Analysis) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return apperrors.IOWrap(err, "prepare workbook")
	}
	for _, name := range []string{SheetMonthly, SheetCategory, SheetCity, SheetProducts} {
		if _, err := f.NewSheet(name); err != nil {
			return apperrors.IOWrap(err, "add sheet "+name)
		}
	}

	summary := [][]any{
		{"Metric", "Value"},
		{"Rows", a.Stats.Count},
		{"Total Sales", money(a.Stats.TotalSales)},
		{"Average Order Value", money(a.Stats.AverageOrderValue)},
		{"Missing Values", a.Stats.MissingTotal},
	}

	monthly := [][]any{{models.ColumnMonth, models.ColumnSales}}
	for _, m := range a.Monthly {
		monthly = append(monthly, []any{m.Month, money(m.Sales)})
	}

	products := [][]any{{models.ColumnProduct, "Average Price", "Total Quantity"}}
	for _, p := range a.Products {
		products = append(products, []any{p.Product, nullMoney(p.AveragePrice), p.TotalQuantity.IntPart()})
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetSummary, summary},
		{SheetMonthly, monthly},
		{SheetCategory, groupRows(a.Category)},
		{SheetCity, groupRows(a.City)},
		{SheetProducts, products},
	}
	for _, s := range sheets {
		if err := writeRows(f, s.name, s.rows); err != nil {
			return apperrors.IOWrap(err, "fill sheet "+s.name)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return apperrors.IOWrap(err, "encode workbook "+path)
	}
	_, err = artifact.WriteAtomic(filepath.Dir(path), filepath.Base(path), buffer.Bytes())
	return err
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// nullMoney leaves the cell empty for a missing amount.
func nullMoney(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return money(d.Decimal)
}

func groupRows(g models.GroupSales) [][]any {
	rows := [][]any{{g.Key, models.ColumnSales}}
	for _, r := range g.Rows {
		rows = append(rows, []any{r.Key, money(r.Sales)})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

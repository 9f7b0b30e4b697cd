package cleaner

import (
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pivolan/sales_analyzer/apperrors"
	"github.com/pivolan/sales_analyzer/domain/models"
	"github.com/pivolan/sales_analyzer/loader"
)

type DatePolicy string

const (
	// DateStrict aborts on the first date that cannot be parsed.
	DateStrict DatePolicy = "strict"
	// DateLenient turns unparsable dates into missing values.
	DateLenient DatePolicy = "lenient"
)

type Options struct {
	DatePolicy DatePolicy
	Logger     *slog.Logger
}

// Clean parses dates and numeric columns, counts missing cells per column
// and derives the Month key. The input dataset is left untouched; rows with
// missing values are kept.
func Clean(ds *models.Dataset, opts Options) (*models.Dataset, error) {
	if ds == nil {
		return nil, apperrors.Precondition("clean called without a loaded dataset")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DatePolicy == "" {
		opts.DatePolicy = DateStrict
	}

	columns, err := resolveColumns(ds.Frame.Names())
	if err != nil {
		return nil, err
	}

	raw := make(map[string][]string, len(columns))
	for column, actual := range columns {
		raw[column] = ds.Frame.Col(actual).Records()
	}

	missing := make(map[string]int, len(ds.Columns))
	for _, c := range ds.Columns {
		for _, v := range ds.Frame.Col(c.Name).Records() {
			if loader.IsMissing(v) {
				missing[c.Name]++
			}
		}
	}

	layouts := loader.DateLayouts()
	rows := ds.Frame.Nrow()
	records := make([]models.Record, rows)
	coerced := 0
	for i := 0; i < rows; i++ {
		line := i + 2 // header is line 1
		rec := &records[i]

		if value := raw[models.ColumnDate][i]; !loader.IsMissing(value) {
			date, ok := parseDate(value, layouts)
			switch {
			case ok:
				rec.Date = date
				rec.HasDate = true
				rec.Month = date.Format("2006-01")
			case opts.DatePolicy == DateLenient:
				coerced++
				missing[columns[models.ColumnDate]]++
			default:
				return nil, apperrors.Schema("line %d: column %s: cannot parse date %q", line, models.ColumnDate, value)
			}
		}

		rec.Product = text(raw[models.ColumnProduct][i])
		rec.Category = text(raw[models.ColumnCategory][i])
		rec.City = text(raw[models.ColumnCity][i])

		if rec.Quantity, err = number(raw[models.ColumnQuantity][i], models.ColumnQuantity, line); err != nil {
			return nil, err
		}
		if rec.Quantity.Valid && !rec.Quantity.Decimal.Equal(rec.Quantity.Decimal.Truncate(0)) {
			return nil, apperrors.Schema("line %d: column %s: %s is not a whole number",
				line, models.ColumnQuantity, rec.Quantity.Decimal.String())
		}
		if rec.Price, err = number(raw[models.ColumnPrice][i], models.ColumnPrice, line); err != nil {
			return nil, err
		}
		if rec.Sales, err = number(raw[models.ColumnSales][i], models.ColumnSales, line); err != nil {
			return nil, err
		}
	}

	report := make([]models.ColumnMissing, len(ds.Columns))
	total := 0
	for i, c := range ds.Columns {
		report[i] = models.ColumnMissing{Column: c.Name, Count: missing[c.Name]}
		total += missing[c.Name]
	}
	if coerced > 0 {
		logger.Warn("unparsable dates treated as missing", slog.Int("count", coerced))
	}
	logger.Info("dataset cleaned", slog.Int("rows", rows), slog.Int("missing_total", total))

	cleanedColumns := make([]models.ColumnInfo, 0, len(ds.Columns)+1)
	cleanedColumns = append(cleanedColumns, ds.Columns...)
	cleanedColumns = append(cleanedColumns, models.ColumnInfo{Name: models.ColumnMonth, Type: "string"})

	return &models.Dataset{
		Source:  ds.Source,
		Columns: cleanedColumns,
		Frame:   ds.Frame,
		Records: records,
		Missing: report,
		Cleaned: true,
	}, nil
}

func parseDate(value string, layouts []string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func text(value string) string {
	if loader.IsMissing(value) {
		return ""
	}
	return strings.TrimSpace(value)
}

func number(value, column string, line int) (decimal.NullDecimal, error) {
	if loader.IsMissing(value) {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.NullDecimal{}, apperrors.Schema("line %d: column %s: %q is not a number", line, column, value)
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, apperrors.Schema("line %d: column %s: negative value %s", line, column, d.String())
	}
	return decimal.NewNullDecimal(d), nil
}

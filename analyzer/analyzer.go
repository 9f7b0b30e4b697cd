package analyzer

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pivolan/sales_analyzer/apperrors"
	"github.com/pivolan/sales_analyzer/domain/models"
)

// GroupKeys are the columns GroupSales accepts.
var GroupKeys = []string{models.ColumnCategory, models.ColumnCity}

func requireCleaned(ds *models.Dataset, stage string) error {
	if ds == nil {
		return apperrors.Precondition(stage + " called without a dataset")
	}
	if !ds.Cleaned {
		return apperrors.Precondition(stage + " requires a cleaned dataset")
	}
	return nil
}

// BasicStats describes Quantity, Price and Sales and totals the Sales
// column. Null cells are skipped per column.
func BasicStats(ds *models.Dataset) (models.BasicStats, error) {
	if err := requireCleaned(ds, "basic statistics"); err != nil {
		return models.BasicStats{}, err
	}

	var quantity, price, sales []float64
	total := decimal.Zero
	numericMissing := 0
	for _, r := range ds.Records {
		if r.Quantity.Valid {
			quantity = append(quantity, r.Quantity.Decimal.InexactFloat64())
		} else {
			numericMissing++
		}
		if r.Price.Valid {
			price = append(price, r.Price.Decimal.InexactFloat64())
		} else {
			numericMissing++
		}
		if r.Sales.Valid {
			sales = append(sales, r.Sales.Decimal.InexactFloat64())
			total = total.Add(r.Sales.Decimal)
		} else {
			numericMissing++
		}
	}

	aov := decimal.Zero
	if len(sales) > 0 {
		aov = total.Div(decimal.NewFromInt(int64(len(sales))))
	}

	return models.BasicStats{
		Count:             len(ds.Records),
		Quantity:          describe(quantity),
		Price:             describe(price),
		Sales:             describe(sales),
		TotalSales:        total,
		AverageOrderValue: aov,
		MissingTotal:      ds.MissingTotal(),
		NumericMissing:    numericMissing,
	}, nil
}

// MonthlySales sums Sales per YYYY-MM month in calendar order. Rows without
// a date or without a Sales value do not contribute.
func MonthlySales(ds *models.Dataset) ([]models.MonthValue, error) {
	if err := requireCleaned(ds, "monthly sales"); err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal)
	for _, r := range ds.Records {
		if r.Month == "" || !r.Sales.Valid {
			continue
		}
		sums[r.Month] = sums[r.Month].Add(r.Sales.Decimal)
	}

	result := make([]models.MonthValue, 0, len(sums))
	for month, total := range sums {
		result = append(result, models.MonthValue{Month: month, Sales: total})
	}
	// YYYY-MM sorts lexically in calendar order.
	slices.SortFunc(result, func(a, b models.MonthValue) int {
		return strings.Compare(a.Month, b.Month)
	})
	return result, nil
}

// GroupSales sums Sales per Category or City, largest first. Equal sums are
// ordered by key. Rows with an empty key are left out.
func GroupSales(ds *models.Dataset, key string) (models.GroupSales, error) {
	if err := requireCleaned(ds, "group sales"); err != nil {
		return models.GroupSales{}, err
	}

	var keyOf func(r models.Record) string
	switch key {
	case models.ColumnCategory:
		keyOf = func(r models.Record) string { return r.Category }
	case models.ColumnCity:
		keyOf = func(r models.Record) string { return r.City }
	default:
		return models.GroupSales{}, apperrors.Schema("cannot group sales by %q, expected one of %s",
			key, strings.Join(GroupKeys, ", "))
	}

	sums := make(map[string]decimal.Decimal)
	for _, r := range ds.Records {
		k := keyOf(r)
		if k == "" || !r.Sales.Valid {
			continue
		}
		sums[k] = sums[k].Add(r.Sales.Decimal)
	}

	rows := make([]models.GroupValue, 0, len(sums))
	for k, total := range sums {
		rows = append(rows, models.GroupValue{Key: k, Sales: total})
	}
	slices.SortFunc(rows, func(a, b models.GroupValue) int {
		if c := b.Sales.Cmp(a.Sales); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return models.GroupSales{Key: key, Rows: rows}, nil
}

type productAccumulator struct {
	priceSum   decimal.Decimal
	priceCount int64
	quantity   decimal.Decimal
}

// ProductSummary returns, per product, the mean Price and the summed
// Quantity, ordered by descending quantity and then by product name. A
// product without any valid Price keeps a null average.
func ProductSummary(ds *models.Dataset) ([]models.ProductRow, error) {
	if err := requireCleaned(ds, "product summary"); err != nil {
		return nil, err
	}

	groups := make(map[string]*productAccumulator)
	for _, r := range ds.Records {
		if r.Product == "" {
			continue
		}
		acc, ok := groups[r.Product]
		if !ok {
			acc = &productAccumulator{}
			groups[r.Product] = acc
		}
		if r.Price.Valid {
			acc.priceSum = acc.priceSum.Add(r.Price.Decimal)
			acc.priceCount++
		}
		if r.Quantity.Valid {
			acc.quantity = acc.quantity.Add(r.Quantity.Decimal)
		}
	}

	rows := make([]models.ProductRow, 0, len(groups))
	for product, acc := range groups {
		row := models.ProductRow{Product: product, TotalQuantity: acc.quantity}
		if acc.priceCount > 0 {
			row.AveragePrice = decimal.NewNullDecimal(acc.priceSum.Div(decimal.NewFromInt(acc.priceCount)))
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b models.ProductRow) int {
		if c := b.TotalQuantity.Cmp(a.TotalQuantity); c != 0 {
			return c
		}
		return strings.Compare(a.Product, b.Product)
	})
	return rows, nil
}

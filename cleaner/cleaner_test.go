package cleaner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/sales_analyzer/apperrors"
	"github.com/pivolan/sales_analyzer/domain/models"
	"github.com/pivolan/sales_analyzer/loader"
)

func load(t *testing.T, path string) *models.Dataset {
	t.Helper()
	ds, err := loader.Load(path, loader.DefaultOptions())
	require.NoError(t, err)
	return ds
}

func loadString(t *testing.T, content string) *models.Dataset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return load(t, path)
}

const header = "Date,Product,Category,City,Quantity,Price,Sales\n"

func TestCleanSample(t *testing.T) {
	raw := load(t, "../testdata/sales_sample.csv")

	ds, err := Clean(raw, Options{})
	require.NoError(t, err)
	require.True(t, ds.Cleaned)
	require.Len(t, ds.Records, 6)
	assert.Zero(t, ds.MissingTotal())
	assert.Len(t, ds.Missing, 7)

	first := ds.Records[0]
	assert.Equal(t, time.Date(2023, 2, 3, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "2023-02", first.Month)
	assert.Equal(t, "Laptop", first.Product)
	assert.Equal(t, "10000", first.Sales.Decimal.String())
	assert.Equal(t, "2", first.Quantity.Decimal.String())

	assert.Equal(t, models.ColumnMonth, ds.Columns[len(ds.Columns)-1].Name)
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	raw := load(t, "../testdata/sales_sample.csv")
	_, err := Clean(raw, Options{})
	require.NoError(t, err)

	assert.False(t, raw.Cleaned)
	assert.Nil(t, raw.Records)
	assert.Len(t, raw.Columns, 7)
}

func TestCleanKeepsRowsWithMissingValues(t *testing.T) {
	ds, err := Clean(load(t, "../testdata/sales_missing.csv"), Options{})
	require.NoError(t, err)

	require.Len(t, ds.Records, 4)
	assert.Equal(t, 6, ds.MissingTotal())

	counts := map[string]int{}
	for _, m := range ds.Missing {
		counts[m.Column] = m.Count
	}
	assert.Equal(t, map[string]int{
		"Date": 1, "Product": 0, "Category": 1, "City": 1,
		"Quantity": 1, "Price": 1, "Sales": 1,
	}, counts)

	assert.False(t, ds.Records[1].Quantity.Valid)
	assert.False(t, ds.Records[1].Sales.Valid)
	assert.Empty(t, ds.Records[1].Category)
	assert.False(t, ds.Records[3].HasDate)
	assert.Empty(t, ds.Records[3].Month)
}

func TestCleanDatePolicy(t *testing.T) {
	content := header +
		"2023-01-05,Desk,Furniture,Beijing,1,10,10\n" +
		"yesterday,Desk,Furniture,Beijing,1,10,10\n"

	_, err := Clean(loadString(t, content), Options{DatePolicy: DateStrict})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeSchema, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "yesterday")

	ds, err := Clean(loadString(t, content), Options{DatePolicy: DateLenient})
	require.NoError(t, err)
	assert.True(t, ds.Records[0].HasDate)
	assert.False(t, ds.Records[1].HasDate)
	assert.Equal(t, 1, ds.MissingTotal())
}

func TestCleanDateLayouts(t *testing.T) {
	content := header +
		"2023-01-05 10:30:00,Desk,Furniture,Beijing,1,10,10\n" +
		"2023/02/06,Desk,Furniture,Beijing,1,10,10\n" +
		"03/07/2023,Desk,Furniture,Beijing,1,10,10\n" +
		"2023-04-08T08:00:00Z,Desk,Furniture,Beijing,1,10,10\n"

	ds, err := Clean(loadString(t, content), Options{})
	require.NoError(t, err)
	var months []string
	for _, r := range ds.Records {
		months = append(months, r.Month)
	}
	assert.Equal(t, []string{"2023-01", "2023-02", "2023-03", "2023-04"}, months)
}

func TestCleanSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{
			name:    "absent columns",
			content: "Date,Product,Quantity,Price\n2023-01-01,Desk,1,10\n",
			message: "required columns absent: Category, City, Sales",
		},
		{
			name:    "no header row",
			content: "2023-01-01,Desk,Furniture,Beijing,1,10,20\n2023-01-02,Desk,Furniture,Beijing,1,10,10\n",
			message: "looks like data",
		},
		{
			name:    "price is not a number",
			content: header + "2023-01-01,Desk,Furniture,Beijing,1,ten,10\n",
			message: `column Price: "ten" is not a number`,
		},
		{
			name:    "negative sales",
			content: header + "2023-01-01,Desk,Furniture,Beijing,1,10,-10\n",
			message: "column Sales: negative value -10",
		},
		{
			name:    "fractional quantity",
			content: header + "2023-01-01,Desk,Furniture,Beijing,1.5,10,15\n",
			message: "1.5 is not a whole number",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Clean(loadString(t, tt.content), Options{})
			assert.Nil(t, ds)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeSchema, apperrors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCleanCanonicalHeaders(t *testing.T) {
	content := " date ,PRODUCT,category,Cíty,quantity,Price ($),SALES\n" +
		"2023-01-01,Desk,Furniture,Beijing,2,10,20\n"

	ds, err := Clean(loadString(t, content), Options{})
	require.NoError(t, err)
	assert.Equal(t, "Beijing", ds.Records[0].City)
	assert.Equal(t, "20", ds.Records[0].Sales.Decimal.String())
}

func TestCleanWithoutDataset(t *testing.T) {
	_, err := Clean(nil, Options{})
	assert.Equal(t, apperrors.CodePrecondition, apperrors.CodeOf(err))
}

func TestIsLikelyHeader(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Product", true},
		{"unit_price", true},
		{"123", false},
		{"2024-01-01", false},
		{"", false},
		{"NaN", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, isLikelyHeader(tt.input))
		})
	}
}

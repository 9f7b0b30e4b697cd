package loader

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/pivolan/sales_analyzer/apperrors"
	"github.com/pivolan/sales_analyzer/domain/models"
)

// NaNValues are the cell values treated as missing.
var NaNValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>"}

type Options struct {
	Delimiter rune
	Logger    *slog.Logger
}

func DefaultOptions() Options {
	return Options{Delimiter: ','}
}

// Load reads the delimited file at path into a Dataset. Cells are kept as raw
// strings so that numeric values survive exactly; the detected type of every
// column is recorded in Dataset.Columns. The file is only read.
func Load(path string, opts Options) (*models.Dataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NotFoundWrap(err, "input file "+path+" not found")
		}
		return nil, apperrors.NotFoundWrap(err, "input file "+path+" is not accessible")
	}
	if info.IsDir() {
		return nil, apperrors.NotFound("input path " + path + " is a directory")
	}
	probe, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NotFoundWrap(err, "input file "+path+" is not readable")
	}
	probe.Close()

	src, err := openSource(path)
	if err != nil {
		return nil, apperrors.ParseWrap(err, "cannot decode "+path)
	}
	defer src.Close()

	df := dataframe.ReadCSV(src,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(opts.Delimiter),
		dataframe.WithLazyQuotes(true),
		dataframe.NaNValues(NaNValues),
	)
	if df.Err != nil {
		return nil, apperrors.ParseWrap(df.Err, "malformed delimited content in "+path)
	}
	if df.Nrow() == 0 {
		return nil, apperrors.Parse("%s has a header but no data rows", path)
	}

	names := df.Names()
	columns := make([]models.ColumnInfo, len(names))
	for i, name := range names {
		columns[i] = models.ColumnInfo{Name: name, Type: inferColumnType(df.Col(name).Records())}
	}

	logger.Info("dataset loaded",
		slog.String("path", path),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))
	for _, c := range columns {
		logger.Debug("column type detected", slog.String("column", c.Name), slog.String("type", c.Type))
	}

	return &models.Dataset{
		Source:  path,
		Columns: columns,
		Frame:   df,
	}, nil
}

// Head returns the header row followed by at most n data rows as raw strings.
func Head(ds *models.Dataset, n int) [][]string {
	records := ds.Frame.Records()
	if len(records) > n+1 {
		records = records[:n+1]
	}
	return records
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pivolan/sales_analyzer/analyzer"
	"github.com/pivolan/sales_analyzer/apperrors"
	"github.com/pivolan/sales_analyzer/artifact"
	"github.com/pivolan/sales_analyzer/cleaner"
	"github.com/pivolan/sales_analyzer/config"
	"github.com/pivolan/sales_analyzer/domain/models"
	"github.com/pivolan/sales_analyzer/export"
	"github.com/pivolan/sales_analyzer/loader"
	"github.com/pivolan/sales_analyzer/plot"
	"github.com/pivolan/sales_analyzer/report"
)

// Notifier delivers the finished report and artifacts somewhere outside the
// output directory.
type Notifier interface {
	Deliver(report string, artifacts []string) error
}

// Pipeline runs load, clean, aggregate, report and render once over the
// configured input. Report text goes to Out section by section.
type Pipeline struct {
	Config   *config.Config
	Renderer plot.Renderer
	Notifier Notifier
	Out      io.Writer
	Logger   *slog.Logger
}

type Result struct {
	Report    string
	Analysis  models.Analysis
	Artifacts []string
}

func (p *Pipeline) Run() (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = apperrors.Internal(fmt.Sprintf("unexpected failure: %v", r))
		}
	}()

	cfg := p.Config
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := p.Out
	if out == nil {
		out = io.Discard
	}
	reporter := report.New(cfg.CurrencySymbol)

	text := &strings.Builder{}
	emit := func(title, body string) {
		section := report.Section(title, body)
		text.WriteString(section)
		io.WriteString(out, section)
	}

	logger.Info("loading dataset", slog.String("path", cfg.InputFile))
	raw, err := loader.Load(cfg.InputFile, loader.Options{Delimiter: cfg.DelimiterRune(), Logger: logger})
	if err != nil {
		return nil, err
	}
	emit("Data Loading", reporter.Load(raw))

	ds, err := cleaner.Clean(raw, cleaner.Options{DatePolicy: cleaner.DatePolicy(cfg.DateParsing), Logger: logger})
	if err != nil {
		return nil, err
	}
	emit("Missing Values", reporter.Missing(ds))

	analysis, err := analyze(ds)
	if err != nil {
		return nil, err
	}
	logger.Info("aggregates computed",
		slog.Int("months", len(analysis.Monthly)),
		slog.Int("categories", len(analysis.Category.Rows)),
		slog.Int("cities", len(analysis.City.Rows)),
		slog.Int("products", len(analysis.Products)))

	emit("Descriptive Statistics", reporter.BasicStats(analysis.Stats))
	emit("Totals", reporter.Totals(analysis.Stats))
	emit("Monthly Sales", reporter.Monthly(analysis.Monthly))
	emit("Sales by Category", reporter.Groups(analysis.Category))
	emit("Sales by City", reporter.Groups(analysis.City))
	emit("Average Price and Total Quantity by Product", reporter.Products(analysis.Products))

	if err := artifact.EnsureDir(cfg.OutputDir); err != nil {
		return nil, err
	}
	renderer := p.Renderer
	if renderer == nil {
		if renderer, err = plot.NewRenderer(cfg.ChartFormat, cfg.OutputDir); err != nil {
			return nil, err
		}
	}

	figures := []models.Figure{
		plot.MonthlyTrendFigure(analysis.Monthly),
		plot.CategoryCityFigure(analysis.Category, analysis.City),
		plot.PriceQuantityFigure(analysis.Products),
	}
	var artifacts []string
	for _, fig := range figures {
		path, err := renderer.Render(fig)
		if err != nil {
			return nil, err
		}
		logger.Info("chart written", slog.String("figure", fig.Name), slog.String("path", path))
		artifacts = append(artifacts, path)
	}

	if cfg.ExportXLSX {
		path := filepath.Join(cfg.OutputDir, export.WorkbookName)
		if err := export.WriteWorkbook(path, analysis); err != nil {
			return nil, err
		}
		logger.Info("workbook written", slog.String("path", path))
		artifacts = append(artifacts, path)
	}

	res = &Result{Report: text.String(), Analysis: analysis, Artifacts: artifacts}
	if p.Notifier != nil {
		if err := p.Notifier.Deliver(res.Report, artifacts); err != nil {
			return res, err
		}
	}
	return res, nil
}

func analyze(ds *models.Dataset) (models.Analysis, error) {
	var (
		a   models.Analysis
		err error
	)
	if a.Stats, err = analyzer.BasicStats(ds); err != nil {
		return a, err
	}
	if a.Monthly, err = analyzer.MonthlySales(ds); err != nil {
		return a, err
	}
	if a.Category, err = analyzer.GroupSales(ds, models.ColumnCategory); err != nil {
		return a, err
	}
	if a.City, err = analyzer.GroupSales(ds, models.ColumnCity); err != nil {
		return a, err
	}
	if a.Products, err = analyzer.ProductSummary(ds); err != nil {
		return a, err
	}
	return a, nil
}

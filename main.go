package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pivolan/sales_analyzer/apperrors"
	"github.com/pivolan/sales_analyzer/config"
	"github.com/pivolan/sales_analyzer/export"
	"github.com/pivolan/sales_analyzer/logging"
	"github.com/pivolan/sales_analyzer/notify"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses flags, loads configuration and executes one pipeline run. It
// returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sales_analyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "", "path to the sales CSV (plain, .gz, .lz4 or .zip)")
	out := fs.String("out", "", "directory for charts and exports")
	configFile := fs.String("config", "", "optional YAML configuration file")
	format := fs.String("format", "", "chart format: png or html")
	xlsx := fs.Bool("xlsx", false, "also write "+export.WorkbookName)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputFile = *input
		case "out":
			cfg.OutputDir = *out
		case "format":
			cfg.ChartFormat = *format
		case "xlsx":
			cfg.ExportXLSX = *xlsx
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}

	logger := logging.New(cfg.Log, stderr)
	p := &Pipeline{Config: cfg, Out: stdout, Logger: logger}
	if cfg.Telegram.Enabled() {
		p.Notifier = telegramNotifier{cfg: cfg.Telegram, logger: logger}
	}

	logger.Info("run started", slog.String("input", cfg.InputFile), slog.String("output_dir", cfg.OutputDir))
	res, err := p.Run()
	if err != nil {
		logger.Error("run failed", slog.String("code", string(apperrors.CodeOf(err))), slog.String("error", err.Error()))
		return 1
	}
	logger.Info("run finished", slog.Int("artifacts", len(res.Artifacts)))
	return 0
}

// telegramNotifier connects to the bot API on Deliver, after all local
// artifacts are written.
type telegramNotifier struct {
	cfg    config.TelegramConfig
	logger *slog.Logger
}

func (n telegramNotifier) Deliver(report string, artifacts []string) error {
	t, err := notify.NewTelegram(n.cfg.Token, n.cfg.ChatID, n.logger)
	if err != nil {
		return err
	}
	return t.Deliver(report, artifacts)
}

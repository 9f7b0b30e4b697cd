package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const envPrefix = "SALES"

type Config struct {
	InputFile      string         `yaml:"input_file" envconfig:"INPUT_FILE" validate:"required"`
	OutputDir      string         `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	ChartFormat    string         `yaml:"chart_format" envconfig:"CHART_FORMAT" validate:"oneof=png html"`
	CurrencySymbol string         `yaml:"currency_symbol" envconfig:"CURRENCY_SYMBOL" validate:"required"`
	DateParsing    string         `yaml:"date_parsing" envconfig:"DATE_PARSING" validate:"oneof=strict lenient"`
	Delimiter      string         `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	ExportXLSX     bool           `yaml:"export_xlsx" envconfig:"EXPORT_XLSX"`
	Log            LogConfig      `yaml:"log" envconfig:"LOG"`
	Telegram       TelegramConfig `yaml:"telegram" envconfig:"TELEGRAM"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

type TelegramConfig struct {
	Token  string `yaml:"token" envconfig:"TOKEN"`
	ChatID int64  `yaml:"chat_id" envconfig:"CHAT_ID" validate:"required_with=Token"`
}

func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

func Default() Config {
	return Config{
		InputFile:      "sales_data.csv",
		OutputDir:      "output",
		ChartFormat:    "png",
		CurrencySymbol: "¥",
		DateParsing:    "strict",
		Delimiter:      ",",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// SALES_* environment variables, in that order of precedence. A .env file in
// the working directory is read into the environment first if present.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// DelimiterRune returns the field separator for the input file.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

// Package config loads pdf2xlsx settings from defaults, an optional config
// file, a .env file, PDF2XLSX_* environment variables and command flags.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/pyhub-apps/pdf2xlsx/pkg/annotate"
	"github.com/pyhub-apps/pdf2xlsx/pkg/output"
	"github.com/pyhub-apps/pdf2xlsx/pkg/pdf"
	"github.com/pyhub-apps/pdf2xlsx/pkg/sheet"
	"github.com/pyhub-apps/pdf2xlsx/pkg/table"
)

// EnvPrefix prefixes every environment override, e.g. PDF2XLSX_LOG_LEVEL
const EnvPrefix = "PDF2XLSX"

// Config holds all application configuration
type Config struct {
	Log      LogConfig
	Schema   table.Schema
	Annotate annotate.Rules
	Extract  ExtractConfig
	Sheet    SheetConfig
	Output   OutputConfig
	Upload   UploadConfig
	Server   ServerConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type ExtractConfig struct {
	Strategy      string
	MinTableRows  int
	TextTolerance float64
}

type SheetConfig struct {
	DefaultWidth float64
	NarrowWidth  float64
}

type OutputConfig struct {
	Dir    string
	Suffix string
}

type UploadConfig struct {
	MaxBytes int64
}

type ServerConfig struct {
	Addr string
}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	schema := table.DefaultSchema()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("schema.drop", schema.Drop)
	v.SetDefault("schema.min_columns", schema.MinColumns)
	v.SetDefault("schema.time", schema.Time)
	v.SetDefault("schema.direction", schema.Direction)
	v.SetDefault("schema.amount", schema.Amount)
	v.SetDefault("schema.counterparty", schema.Counterparty)
	v.SetDefault("annotate.expense_marker", "支出")
	v.SetDefault("annotate.run_min_amount", "80")
	v.SetDefault("annotate.run_min_length", 2)
	v.SetDefault("annotate.highlight_min_amount", "5000")
	v.SetDefault("extract.strategy", pdf.StrategyLines)
	v.SetDefault("extract.min_table_rows", 1)
	v.SetDefault("extract.text_tolerance", pdf.DefaultXTolerance)
	v.SetDefault("sheet.default_width", 8.43)
	v.SetDefault("sheet.narrow_width", 5.0)
	v.SetDefault("output.dir", "")
	v.SetDefault("output.suffix", output.DefaultSuffix)
	v.SetDefault("upload.max_bytes", output.DefaultMaxBytes)
	v.SetDefault("server.addr", ":8080")
}

// New returns a viper instance with defaults and environment overrides.
// configFile is optional; its format follows the extension.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", configFile)
		}
	}
	return v, nil
}

// LoadDotEnv loads environment files, .env by default. Missing files are
// ignored; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "load %s", p)
		}
	}
	return nil
}

// Load reads and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Schema: table.Schema{
			Drop:         v.GetIntSlice("schema.drop"),
			MinColumns:   v.GetInt("schema.min_columns"),
			Time:         v.GetInt("schema.time"),
			Direction:    v.GetInt("schema.direction"),
			Amount:       v.GetInt("schema.amount"),
			Counterparty: v.GetInt("schema.counterparty"),
		},
		Extract: ExtractConfig{
			Strategy:      v.GetString("extract.strategy"),
			MinTableRows:  v.GetInt("extract.min_table_rows"),
			TextTolerance: v.GetFloat64("extract.text_tolerance"),
		},
		Sheet: SheetConfig{
			DefaultWidth: v.GetFloat64("sheet.default_width"),
			NarrowWidth:  v.GetFloat64("sheet.narrow_width"),
		},
		Output: OutputConfig{
			Dir:    v.GetString("output.dir"),
			Suffix: v.GetString("output.suffix"),
		},
		Upload: UploadConfig{
			MaxBytes: v.GetInt64("upload.max_bytes"),
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
	}

	if err := cfg.Schema.Validate(); err != nil {
		return nil, err
	}

	runMin, err := decimal.NewFromString(v.GetString("annotate.run_min_amount"))
	if err != nil {
		return nil, errors.Wrap(err, "annotate.run_min_amount")
	}
	highlightMin, err := decimal.NewFromString(v.GetString("annotate.highlight_min_amount"))
	if err != nil {
		return nil, errors.Wrap(err, "annotate.highlight_min_amount")
	}
	cfg.Annotate = annotate.Rules{
		ExpenseMarker:      v.GetString("annotate.expense_marker"),
		RunMinAmount:       runMin,
		RunMinLength:       v.GetInt("annotate.run_min_length"),
		HighlightMinAmount: highlightMin,
	}
	if cfg.Annotate.ExpenseMarker == "" {
		return nil, errors.New("annotate.expense_marker must not be empty")
	}
	if cfg.Annotate.RunMinLength < 1 {
		return nil, errors.Errorf("annotate.run_min_length %d must be at least 1", cfg.Annotate.RunMinLength)
	}

	switch cfg.Extract.Strategy {
	case pdf.StrategyLines, pdf.StrategyText:
	default:
		return nil, errors.Errorf("extract.strategy %q must be %q or %q", cfg.Extract.Strategy, pdf.StrategyLines, pdf.StrategyText)
	}
	if cfg.Extract.TextTolerance <= 0 {
		return nil, errors.Errorf("extract.text_tolerance %v must be positive", cfg.Extract.TextTolerance)
	}
	return cfg, nil
}

// Default returns the configuration with every default applied
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

// TableOptions converts the extract settings into table detection options
func (c *Config) TableOptions() []pdf.TableExtractionOption {
	return []pdf.TableExtractionOption{
		pdf.WithTableStrategy(c.Extract.Strategy, c.Extract.Strategy),
		pdf.WithMinTableSize(c.Extract.MinTableRows),
		pdf.WithTextTolerance(c.Extract.TextTolerance),
	}
}

// TextOptions converts the extract settings into text-line options
func (c *Config) TextOptions() []pdf.TextExtractionOption {
	return []pdf.TextExtractionOption{
		pdf.WithXTolerance(c.Extract.TextTolerance),
		pdf.WithYTolerance(c.Extract.TextTolerance),
	}
}

// Layout returns the sheet layout for the configured schema
func (c *Config) Layout() sheet.Layout {
	layout := sheet.LayoutForSchema(c.Schema)
	layout.DefaultWidth = c.Sheet.DefaultWidth
	layout.NarrowWidth = c.Sheet.NarrowWidth
	return layout
}

// OutputDir returns the configured output directory or the default one
func (c *Config) OutputDir() string {
	if c.Output.Dir != "" {
		return c.Output.Dir
	}
	return output.DefaultDir()
}

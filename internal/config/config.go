package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "CLAIMLOAD"

// Unknown column policies
const (
	UnknownColumnsError  = "error"
	UnknownColumnsIgnore = "ignore"
)

// Config represents the complete loader configuration
type Config struct {
	Loader  LoaderConfig  `yaml:"loader" envconfig:"LOADER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
}

// LoaderConfig contains discovery and parsing configuration
type LoaderConfig struct {
	Dir            string   `yaml:"dir" envconfig:"DIR" validate:"required"`
	Suffix         string   `yaml:"suffix" envconfig:"SUFFIX" validate:"required"`
	SchemaFile     string   `yaml:"schema_file" envconfig:"SCHEMA_FILE"`
	Concurrency    int      `yaml:"concurrency" envconfig:"CONCURRENCY" validate:"min=1,max=64"`
	UnknownColumns string   `yaml:"unknown_columns" envconfig:"UNKNOWN_COLUMNS" validate:"oneof=error ignore"`
	NullTokens     []string `yaml:"null_tokens" envconfig:"NULL_TOKENS"`
	Delimiter      string   `yaml:"delimiter" envconfig:"DELIMITER" validate:"required"`
	Sheet          string   `yaml:"sheet" envconfig:"SHEET"`
	Derive         bool     `yaml:"derive" envconfig:"DERIVE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// ExportConfig contains output configuration
type ExportConfig struct {
	Dir       string `yaml:"dir" envconfig:"DIR"`
	CSVPath   string `yaml:"csv_path" envconfig:"CSV_PATH"`
	ArrowPath string `yaml:"arrow_path" envconfig:"ARROW_PATH"`
	BOMPrefix bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
}

// Comma returns the CSV delimiter as a rune
func (c LoaderConfig) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Loader: LoaderConfig{
			Dir:            "data",
			Suffix:         ".csv",
			Concurrency:    1,
			UnknownColumns: UnknownColumnsError,
			NullTokens:     []string{"NA"},
			Delimiter:      ",",
			Derive:         true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/claimload.log",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, loaderrors.NewConfigError("failed to load config from file", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, loaderrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	v := validator.New()

	// Use YAML names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
		}
		return loaderrors.NewConfigError("config validation failed: "+strings.Join(fields, ", "), err)
	}

	if utf8.RuneCountInString(c.Loader.Delimiter) != 1 {
		return loaderrors.NewConfigError(
			fmt.Sprintf("delimiter must be a single character, got %q", c.Loader.Delimiter), nil)
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultMinTextLength = 50
	DefaultMaxPages      = 10
	DefaultOCRLanguage   = "eng"
	DefaultLogLevel      = "info"
)

// Config holds all configuration for the SDS extraction tool
type Config struct {
	// Input configuration
	FilePath  string
	RulesPath string

	// Extraction configuration
	MinTextLength int
	MaxPages      int
	OCREnabled    bool
	OCRLanguage   string

	// Application configuration
	Version  string
	LogLevel string
	Pretty   bool
	Verify   bool
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MinTextLength: DefaultMinTextLength,
		MaxPages:      DefaultMaxPages,
		OCREnabled:    true,
		OCRLanguage:   DefaultOCRLanguage,
		Version:       "1.0.0",
		LogLevel:      DefaultLogLevel,
		Pretty:        false,
		Verify:        false,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// The PDF path may also be given as the sole positional argument.
	if cfg.FilePath == "" && pflag.NArg() > 0 {
		cfg.FilePath = pflag.Arg(0)
	}

	if cfg.FilePath != "" {
		if expandedPath, err := filepath.Abs(cfg.FilePath); err == nil {
			cfg.FilePath = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("SDS_EXTRACT")
	viper.AutomaticEnv()

	viper.SetDefault("file", cfg.FilePath)
	viper.SetDefault("rules", cfg.RulesPath)
	viper.SetDefault("mintextlength", cfg.MinTextLength)
	viper.SetDefault("maxpages", cfg.MaxPages)
	viper.SetDefault("ocr", cfg.OCREnabled)
	viper.SetDefault("ocrlang", cfg.OCRLanguage)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("pretty", cfg.Pretty)
	viper.SetDefault("verify", cfg.Verify)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("file", cfg.FilePath, "Path to the SDS PDF file")
	pflag.String("rules", cfg.RulesPath, "Path to a custom extraction rules JSON file")
	pflag.Int("mintextlength", cfg.MinTextLength, "Minimum text length before OCR fallback")
	pflag.Int("maxpages", cfg.MaxPages, "Maximum number of pages to extract")
	pflag.Bool("ocr", cfg.OCREnabled, "Enable OCR fallback for scanned documents")
	pflag.String("ocrlang", cfg.OCRLanguage, "OCR language model")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Bool("pretty", cfg.Pretty, "Indent the JSON output")
	pflag.Bool("verify", cfg.Verify, "Only check whether the document is a safety data sheet")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("file", pflag.Lookup("file"))
	_ = viper.BindPFlag("rules", pflag.Lookup("rules"))
	_ = viper.BindPFlag("mintextlength", pflag.Lookup("mintextlength"))
	_ = viper.BindPFlag("maxpages", pflag.Lookup("maxpages"))
	_ = viper.BindPFlag("ocr", pflag.Lookup("ocr"))
	_ = viper.BindPFlag("ocrlang", pflag.Lookup("ocrlang"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("pretty", pflag.Lookup("pretty"))
	_ = viper.BindPFlag("verify", pflag.Lookup("verify"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nSDS Extract - structured field extraction from safety data sheet PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sheet.pdf                        # extract fields, JSON to stdout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --file=sheet.pdf --pretty        # indented output\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sheet.pdf --rules=custom.json    # extra label patterns\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sheet.pdf --ocr=false            # skip the OCR fallback\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sheet.pdf --verify               # SDS or not, nothing else\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  SDS_EXTRACT_FILE           PDF file path\n")
		fmt.Fprintf(os.Stderr, "  SDS_EXTRACT_RULES          Custom rules file\n")
		fmt.Fprintf(os.Stderr, "  SDS_EXTRACT_MINTEXTLENGTH  OCR fallback threshold\n")
		fmt.Fprintf(os.Stderr, "  SDS_EXTRACT_MAXPAGES       Page limit\n")
		fmt.Fprintf(os.Stderr, "  SDS_EXTRACT_OCR            Enable OCR fallback\n")
		fmt.Fprintf(os.Stderr, "  SDS_EXTRACT_OCRLANG        OCR language model\n")
		fmt.Fprintf(os.Stderr, "  SDS_EXTRACT_LOGLEVEL       Log level\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.FilePath = viper.GetString("file")
	cfg.RulesPath = viper.GetString("rules")
	cfg.MinTextLength = viper.GetInt("mintextlength")
	cfg.MaxPages = viper.GetInt("maxpages")
	cfg.OCREnabled = viper.GetBool("ocr")
	cfg.OCRLanguage = viper.GetString("ocrlang")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.Pretty = viper.GetBool("pretty")
	cfg.Verify = viper.GetBool("verify")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return errors.New("a PDF file path is required")
	}

	if info, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("cannot access PDF file %s: %w", c.FilePath, err)
	} else if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a PDF file", c.FilePath)
	}

	if c.RulesPath != "" {
		if _, err := os.Stat(c.RulesPath); err != nil {
			return fmt.Errorf("cannot access rules file %s: %w", c.RulesPath, err)
		}
	}

	if c.MinTextLength <= 0 {
		return errors.New("minimum text length must be positive")
	}

	if c.MaxPages <= 0 {
		return errors.New("maximum pages must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{FilePath: %s, RulesPath: %s, MinTextLength: %d, MaxPages: %d, OCREnabled: %t, LogLevel: %s}",
		c.FilePath, c.RulesPath, c.MinTextLength, c.MaxPages, c.OCREnabled, c.LogLevel)
}

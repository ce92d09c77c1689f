package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/Maidenfan78/chemfetch-live/internal/config"
	"github.com/Maidenfan78/chemfetch-live/internal/ocr"
	"github.com/Maidenfan78/chemfetch-live/internal/pdf"
	"github.com/Maidenfan78/chemfetch-live/internal/sds"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging routes diagnostics to stderr so stdout stays pure JSON for
// the consuming process.
func setupLogging(cfg *config.Config) *log.Logger {
	if cfg.IsDebug() {
		return log.New(os.Stderr, "sds-extract: ", log.LstdFlags|log.Lshortfile)
	}
	return log.New(os.Stderr, "sds-extract: ", 0)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := setupLogging(cfg)
	if version != "dev" {
		cfg.Version = version
	}
	if cfg.IsDebug() {
		logger.Printf("Starting with configuration: %s", cfg.String())
	}

	// Cancel extraction on interrupt so a stuck OCR subprocess cannot hang
	// the caller.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := run(ctx, cfg, logger)
	if err != nil {
		logger.Printf("Extraction failed: %v", err)
		os.Exit(1)
	}

	if err := writeResult(os.Stdout, result, cfg.Pretty); err != nil {
		logger.Printf("Failed to write result: %v", err)
		os.Exit(1)
	}
}

// run wires the extraction pipeline: rules, parser, text extraction, parse.
// In verify mode it stops after the keyword check and returns a VerifyResult
// instead of parsed fields.
func run(ctx context.Context, cfg *config.Config, logger *log.Logger) (any, error) {
	rules := sds.DefaultRuleSet()
	if cfg.RulesPath != "" {
		if err := rules.LoadCustomRules(cfg.RulesPath); err != nil {
			return nil, fmt.Errorf("load custom rules: %w", err)
		}
		logger.Printf("Loaded custom rules from %s", cfg.RulesPath)
	}

	parserOpts := []sds.Option{}
	if cfg.IsDebug() {
		parserOpts = append(parserOpts, sds.WithLogger(logger))
	}
	parser, err := sds.NewParser(rules, parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("build parser: %w", err)
	}

	extractorOpts := []pdf.Option{
		pdf.WithMinTextLength(cfg.MinTextLength),
		pdf.WithMaxPages(cfg.MaxPages),
	}
	if cfg.OCREnabled {
		engine := ocr.NewTesseractEngine(ocr.WithLanguage(cfg.OCRLanguage))
		capOpts := []ocr.CapabilityOption{}
		if cfg.IsDebug() {
			capOpts = append(capOpts, ocr.WithLogger(logger))
		}
		extractorOpts = append(extractorOpts, pdf.WithOCR(ocr.New(engine, capOpts...)))
	}
	if cfg.IsDebug() {
		extractorOpts = append(extractorOpts, pdf.WithLogger(logger))
	}

	extracted, err := pdf.NewExtractor(extractorOpts...).Extract(ctx, cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	logger.Printf("Extracted %d chars via %s", len(extracted.Text), extracted.Method)

	if cfg.Verify {
		verdict := sds.NewVerifier().Verify(extracted.Text)
		logger.Printf("Verification: verified=%t matches=%d", verdict.Verified, verdict.KeywordMatches)
		return verdict, nil
	}

	return parser.ParseText(extracted.Text, extracted.Info()), nil
}

// writeResult emits the result as JSON on w.
func writeResult(w io.Writer, result any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("SDS Extract\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}

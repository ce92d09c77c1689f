// Package pdf turns a PDF file into the plain text the field parser
// consumes. It races every available text backend, keeps the richest
// output, and falls back to OCR for scanned documents.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/Maidenfan78/chemfetch-live/internal/ocr"
	"github.com/Maidenfan78/chemfetch-live/internal/pdf/wrapper"
	"github.com/Maidenfan78/chemfetch-live/internal/sds"
)

const (
	// DefaultMinTextLength is the minimum stripped text length below which
	// a document is treated as image-only and routed to OCR.
	DefaultMinTextLength = 50

	// DefaultMaxPages bounds extraction; safety data sheets put every
	// field of interest in the first few pages.
	DefaultMaxPages = 10

	// MethodOCR is the extraction mode reported when OCR produced the text.
	MethodOCR = "ocr"
)

var (
	// ErrNoTextContent reports that no backend produced any text and OCR
	// could not be run.
	ErrNoTextContent = errors.New("no extractable text")

	// ErrTextTooShort reports that the best backend text stayed below the
	// image-only threshold and OCR could not improve on it. Distinct from
	// ErrNoTextContent so callers can tell a scanned document apart from
	// an unreadable one.
	ErrTextTooShort = errors.New("extracted text below minimum length")
)

// ExtractedText is the outcome of text extraction: the text itself plus
// how it was obtained.
type ExtractedText struct {
	Text             string
	Method           string
	AvailableMethods map[string]bool
	UsedOCR          bool
	ImageOnly        bool
}

// Info converts the extraction outcome into the parser's extraction info.
func (et *ExtractedText) Info() sds.ExtractionInfo {
	return sds.ExtractionInfo{
		TextLength:       len(et.Text),
		AvailableMethods: et.AvailableMethods,
		ExtractionMode:   et.Method,
		UsedOCR:          et.UsedOCR,
		ImageOnly:        et.ImageOnly,
	}
}

// Extractor runs text extraction over a fixed set of backends with an
// optional OCR fallback.
type Extractor struct {
	backends      []wrapper.TextBackend
	ocr           *ocr.Capability
	validator     *Validator
	minTextLength int
	maxPages      int
	logger        *log.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithBackends replaces the default backend set.
func WithBackends(backends ...wrapper.TextBackend) Option {
	return func(e *Extractor) { e.backends = backends }
}

// WithOCR enables the OCR fallback for image-only documents.
func WithOCR(c *ocr.Capability) Option {
	return func(e *Extractor) { e.ocr = c }
}

// WithMinTextLength overrides the image-only threshold.
func WithMinTextLength(n int) Option {
	return func(e *Extractor) { e.minTextLength = n }
}

// WithMaxPages overrides the page bound.
func WithMaxPages(n int) Option {
	return func(e *Extractor) { e.maxPages = n }
}

// WithLogger sets the extractor's logger. By default it is silent.
func WithLogger(l *log.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithValidator replaces the default input validator.
func WithValidator(v *Validator) Option {
	return func(e *Extractor) { e.validator = v }
}

// NewExtractor creates an extractor with every wrapper backend and no OCR
// fallback.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		backends:      wrapper.NewFactory().All(),
		validator:     NewValidator(DefaultMaxFileSize),
		minTextLength: DefaultMinTextLength,
		maxPages:      DefaultMaxPages,
		logger:        log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs every backend over the document and keeps the output with
// the most content. Backends disagree on ligatures, reading order, and
// whitespace, so the longest stripped text is the most complete rendering.
// When the best output is still below the image-only threshold, the
// document is OCRed if an engine is available.
func (e *Extractor) Extract(ctx context.Context, path string) (*ExtractedText, error) {
	if err := e.validator.Validate(path); err != nil {
		return nil, err
	}

	result := &ExtractedText{
		AvailableMethods: make(map[string]bool, len(e.backends)+1),
	}

	var bestLen int
	for _, backend := range e.backends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := string(backend.Name())
		text, err := backend.ExtractText(path, e.maxPages)
		if err != nil {
			e.logger.Printf("backend %s failed: %v", name, err)
			result.AvailableMethods[name] = false
			continue
		}
		result.AvailableMethods[name] = true

		if n := contentLength(text); n > bestLen {
			bestLen = n
			result.Text = text
			result.Method = name
		}
	}

	result.ImageOnly = bestLen < e.minTextLength && e.detectImages(path)

	if bestLen >= e.minTextLength {
		return result, nil
	}

	e.logger.Printf("text too short (%d chars), trying ocr", bestLen)
	return e.extractWithOCR(ctx, path, result)
}

// extractWithOCR runs the OCR fallback. When OCR is unavailable or fails,
// the parse cannot proceed on below-threshold text and a terminal error
// names which failure it was.
func (e *Extractor) extractWithOCR(ctx context.Context, path string, result *ExtractedText) (*ExtractedText, error) {
	if e.ocr == nil || !e.ocr.Available() {
		result.AvailableMethods[MethodOCR] = false
		return nil, e.terminalTextError(path, result)
	}
	result.AvailableMethods[MethodOCR] = true

	text, err := e.ocr.ExtractText(ctx, path, e.maxPages)
	if err != nil {
		e.logger.Printf("ocr failed: %v", err)
		return nil, fmt.Errorf("ocr extraction: %v: %w", err, e.terminalTextError(path, result))
	}

	if contentLength(text) > contentLength(result.Text) {
		result.Text = text
		result.Method = MethodOCR
		result.UsedOCR = true
	}
	if result.Text == "" {
		return nil, e.terminalTextError(path, result)
	}
	// The document stops being image-only once OCR recovered enough text;
	// the flag means "we could not read this", not "it contained images".
	if contentLength(result.Text) >= e.minTextLength {
		result.ImageOnly = false
	}
	return result, nil
}

// terminalTextError picks the terminal failure for a document whose text
// never reached the threshold.
func (e *Extractor) terminalTextError(path string, result *ExtractedText) error {
	if result.Text == "" {
		return fmt.Errorf("%s: %w", path, ErrNoTextContent)
	}
	return fmt.Errorf("%s: %d chars: %w", path, contentLength(result.Text), ErrTextTooShort)
}

// detectImages asks any image-probing backend whether the document carries
// raster streams.
func (e *Extractor) detectImages(path string) bool {
	for _, backend := range e.backends {
		if prober, ok := backend.(wrapper.ImageProber); ok {
			if has, err := prober.DetectImages(path); err == nil {
				return has
			}
		}
	}
	return false
}

// contentLength measures the extracted content, ignoring page marker lines
// and whitespace so the backend comparison reflects actual document text.
func contentLength(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || (strings.HasPrefix(line, "--- Page ") && strings.HasSuffix(line, " ---")) {
			continue
		}
		n += len(line)
	}
	return n
}

// Package ocr recovers text from scanned, image-only PDF documents by
// rasterizing pages with MuPDF and feeding them to an OCR engine.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrUnavailable reports that no OCR engine is installed on this host.
// Callers distinguish it from a recognition failure: an unavailable engine
// on an image-only document means "install an engine", a failed one means
// the document itself could not be read.
var ErrUnavailable = errors.New("ocr engine not available")

// Engine performs optical character recognition on a single page image.
type Engine interface {
	// Name identifies the engine for diagnostics and extraction info.
	Name() string

	// Available reports whether the engine can run on this host.
	Available() bool

	// Recognize returns the text of the page image at imagePath.
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// TesseractEngine shells out to the tesseract binary. Tesseract is the
// only broadly installed OCR engine with no Go bindings worth depending
// on, so the subprocess boundary keeps the build free of CGO beyond what
// MuPDF already requires.
type TesseractEngine struct {
	binary string
	lang   string
}

// TesseractOption configures a TesseractEngine.
type TesseractOption func(*TesseractEngine)

// WithLanguage sets the tesseract language model (default "eng").
func WithLanguage(lang string) TesseractOption {
	return func(e *TesseractEngine) { e.lang = lang }
}

// WithBinary overrides the tesseract binary path.
func WithBinary(path string) TesseractOption {
	return func(e *TesseractEngine) { e.binary = path }
}

// NewTesseractEngine creates a tesseract subprocess engine.
func NewTesseractEngine(opts ...TesseractOption) *TesseractEngine {
	e := &TesseractEngine{binary: "tesseract", lang: "eng"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name identifies the engine.
func (e *TesseractEngine) Name() string {
	return "tesseract"
}

// Available reports whether the tesseract binary is on PATH.
func (e *TesseractEngine) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

// Recognize runs tesseract over a page image, writing recognized text to
// stdout.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	if !e.Available() {
		return "", ErrUnavailable
	}

	cmd := exec.CommandContext(ctx, e.binary, imagePath, "stdout", "-l", e.lang)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

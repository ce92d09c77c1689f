package wrapper

import (
	"errors"
	"fmt"
	"strings"
)

// BackendType identifies the underlying PDF library used by a backend.
type BackendType string

const (
	BackendLedongthuc BackendType = "ledongthuc"
	BackendPDFCPU     BackendType = "pdfcpu"
	BackendFitz       BackendType = "fitz"
)

// TextBackend extracts plain text from a PDF file. Implementations differ in
// how faithfully they recover reading order and line structure, which is why
// extraction runs every available backend and keeps the richest output.
type TextBackend interface {
	// Name identifies the backend.
	Name() BackendType

	// ExtractText returns the plain text of up to maxPages pages, with a
	// "--- Page N ---" marker line before each page. maxPages <= 0 means
	// no limit.
	ExtractText(path string, maxPages int) (string, error)
}

// ImageProber is implemented by backends that can tell whether a document
// carries raster image streams, the signal for scanned sheets.
type ImageProber interface {
	DetectImages(path string) (bool, error)
}

// WrapperError wraps a backend failure with the backend and operation that
// produced it.
type WrapperError struct {
	Backend BackendType
	Op      string
	Err     error
}

func (e *WrapperError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *WrapperError) Unwrap() error {
	return e.Err
}

// ErrNoText reports that a backend opened the document but found no text
// content, typical of scanned sheets.
var ErrNoText = errors.New("no text content found")

// pageMarker renders the page delimiter inserted between extracted pages.
func pageMarker(pageNr int) string {
	return fmt.Sprintf("--- Page %d ---", pageNr)
}

// appendPage writes a page of text into the accumulated document text.
func appendPage(sb *strings.Builder, pageNr int, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString(pageMarker(pageNr))
	sb.WriteByte('\n')
	sb.WriteString(text)
}

// pageLimit clamps a page count to maxPages when a limit is set.
func pageLimit(pageCount, maxPages int) int {
	if maxPages > 0 && pageCount > maxPages {
		return maxPages
	}
	return pageCount
}

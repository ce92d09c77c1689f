package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

// PageRasterizer renders a document's pages to image files.
type PageRasterizer interface {
	RasterizePages(pdfPath string, maxPages int) (paths []string, cleanup func(), err error)
}

// Capability bundles a rasterizer with an OCR engine into a PDF-to-text
// pipeline for scanned documents.
type Capability struct {
	rasterizer PageRasterizer
	engine     Engine
	logger     *log.Logger
}

// CapabilityOption configures a Capability.
type CapabilityOption func(*Capability)

// WithRasterizer replaces the default MuPDF page rasterizer.
func WithRasterizer(r PageRasterizer) CapabilityOption {
	return func(c *Capability) { c.rasterizer = r }
}

// WithLogger sets the capability's logger. By default it is silent.
func WithLogger(l *log.Logger) CapabilityOption {
	return func(c *Capability) { c.logger = l }
}

// New creates an OCR capability around the given engine.
func New(engine Engine, opts ...CapabilityOption) *Capability {
	c := &Capability{
		rasterizer: NewRasterizer(),
		engine:     engine,
		logger:     log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EngineName reports the underlying engine's name.
func (c *Capability) EngineName() string {
	return c.engine.Name()
}

// Available reports whether OCR can run on this host.
func (c *Capability) Available() bool {
	return c.engine.Available()
}

// ExtractText rasterizes up to maxPages pages and recognizes each one,
// joining the results with page markers matching the text backends' output
// so downstream parsing sees a uniform shape. A page the engine cannot
// read is logged and skipped; scanned sheets routinely have one garbage
// page and the rest of the document still carries every field. It is an
// error only when no page yields any text and at least one failed.
func (c *Capability) ExtractText(ctx context.Context, pdfPath string, maxPages int) (string, error) {
	if !c.engine.Available() {
		return "", ErrUnavailable
	}

	paths, cleanup, err := c.rasterizer.RasterizePages(pdfPath, maxPages)
	if err != nil {
		return "", err
	}
	defer cleanup()

	var sb strings.Builder
	var pageErrs []error
	for i, imagePath := range paths {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		pageText, err := c.engine.Recognize(ctx, imagePath)
		if err != nil {
			c.logger.Printf("ocr page %d failed, skipping: %v", i+1, err)
			pageErrs = append(pageErrs, fmt.Errorf("page %d: %w", i+1, err))
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "--- Page %d ---\n", i+1)
		sb.WriteString(pageText)
	}

	if sb.Len() == 0 && len(pageErrs) > 0 {
		return "", fmt.Errorf("ocr failed on all %d attempted pages: %w", len(pageErrs), errors.Join(pageErrs...))
	}
	return sb.String(), nil
}

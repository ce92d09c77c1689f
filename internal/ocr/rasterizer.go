package ocr

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// Rasterizer renders PDF pages to PNG images via MuPDF.
type Rasterizer struct{}

// NewRasterizer creates a MuPDF page rasterizer.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// RasterizePages renders up to maxPages pages into a temporary directory
// and returns the image paths in page order. The caller must invoke cleanup
// when done with the images. maxPages <= 0 renders every page.
func (r *Rasterizer) RasterizePages(pdfPath string, maxPages int) (paths []string, cleanup func(), err error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open pdf for rasterization: %w", err)
	}
	defer doc.Close()

	tempDir, err := os.MkdirTemp("", "sds-ocr-*")
	if err != nil {
		return nil, nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup = func() { os.RemoveAll(tempDir) }

	pageCount := doc.NumPage()
	if maxPages > 0 && pageCount > maxPages {
		pageCount = maxPages
	}

	for pageNum := 0; pageNum < pageCount; pageNum++ {
		img, err := doc.Image(pageNum)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("render page %d: %w", pageNum+1, err)
		}

		outputPath := filepath.Join(tempDir, fmt.Sprintf("page_%03d.png", pageNum+1))
		outputFile, err := os.Create(outputPath)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("create image for page %d: %w", pageNum+1, err)
		}

		err = png.Encode(outputFile, img)
		outputFile.Close()
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("encode page %d: %w", pageNum+1, err)
		}

		paths = append(paths, outputPath)
	}

	return paths, cleanup, nil
}

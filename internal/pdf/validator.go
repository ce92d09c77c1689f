package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// DefaultMaxFileSize bounds accepted documents. Safety data sheets run a
// few hundred kilobytes; anything beyond this is either not an SDS or a
// scan too large to process sensibly.
const DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// Validator checks that a path points at a readable PDF before any backend
// touches it, so the caller gets one clear error instead of three different
// backend parse failures.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator with the specified size limit.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// Validate performs detailed validation on a PDF file path.
func (v *Validator) Validate(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if v.maxFileSize > 0 && fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	// Check the magic bytes rather than fully parsing the document; the
	// backends do their own structural parsing right after.
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := f.Read(header); err != nil {
		return fmt.Errorf("cannot read file header: %w", err)
	}
	if !bytes.Equal(header, pdfMagic) {
		return fmt.Errorf("not a PDF file (bad header): %s", filePath)
	}

	return nil
}

// IsValidPDF performs a quick check to see if a file is a valid PDF.
func (v *Validator) IsValidPDF(filePath string) bool {
	return v.Validate(filePath) == nil
}

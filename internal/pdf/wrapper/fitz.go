package wrapper

import (
	"strings"

	"github.com/gen2brain/go-fitz"
)

// FitzBackend extracts text with MuPDF via go-fitz. MuPDF's layout engine
// produces the best reading order on multi-column sheets, but the backend
// depends on the MuPDF shared library being loadable at runtime, so it can
// fail on hosts where the pure Go backends still work.
type FitzBackend struct{}

// NewFitzBackend creates a MuPDF text backend.
func NewFitzBackend() *FitzBackend {
	return &FitzBackend{}
}

// Name identifies the backend.
func (b *FitzBackend) Name() BackendType {
	return BackendFitz
}

// ExtractText returns the MuPDF text rendering of up to maxPages pages.
func (b *FitzBackend) ExtractText(path string, maxPages int) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", &WrapperError{Backend: BackendFitz, Op: "open", Err: err}
	}
	defer doc.Close()

	var sb strings.Builder
	limit := pageLimit(doc.NumPage(), maxPages)

	for pageNr := 0; pageNr < limit; pageNr++ {
		text, err := doc.Text(pageNr)
		if err != nil {
			continue
		}
		appendPage(&sb, pageNr+1, text)
	}

	if sb.Len() == 0 {
		return "", &WrapperError{Backend: BackendFitz, Op: "extract_text", Err: ErrNoText}
	}
	return sb.String(), nil
}

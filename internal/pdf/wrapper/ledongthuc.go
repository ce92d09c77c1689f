package wrapper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// yLineTolerance is the vertical distance (in PDF units) within which two
// text fragments are considered to sit on the same line.
const yLineTolerance = 2.0

// LedongthucBackend extracts text with ledongthuc/pdf. It reconstructs line
// structure from fragment coordinates, which matters downstream: label
// matching and section slicing are both line-oriented.
type LedongthucBackend struct{}

// NewLedongthucBackend creates a ledongthuc/pdf text backend.
func NewLedongthucBackend() *LedongthucBackend {
	return &LedongthucBackend{}
}

// Name identifies the backend.
func (b *LedongthucBackend) Name() BackendType {
	return BackendLedongthuc
}

// ExtractText extracts text page by page, rebuilding lines from fragment
// positions.
func (b *LedongthucBackend) ExtractText(path string, maxPages int) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", &WrapperError{Backend: BackendLedongthuc, Op: "open", Err: err}
	}
	defer f.Close()

	var sb strings.Builder
	limit := pageLimit(reader.NumPage(), maxPages)

	for pageNr := 1; pageNr <= limit; pageNr++ {
		page := reader.Page(pageNr)
		if page.V.IsNull() {
			continue
		}
		appendPage(&sb, pageNr, linesFromFragments(page.Content().Text))
	}

	if sb.Len() == 0 {
		return "", &WrapperError{Backend: BackendLedongthuc, Op: "extract_text", Err: ErrNoText}
	}
	return sb.String(), nil
}

// linesFromFragments groups positioned text fragments into lines by Y
// coordinate, then orders each line left to right. PDF Y grows upward, so
// lines sort by descending Y.
func linesFromFragments(frags []pdf.Text) string {
	if len(frags) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if di := sorted[i].Y - sorted[j].Y; di > yLineTolerance || di < -yLineTolerance {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var sb strings.Builder
	lineY := sorted[0].Y
	lineEnd := 0.0

	for i, t := range sorted {
		if i == 0 {
			sb.WriteString(t.S)
			lineEnd = t.X + t.W
			continue
		}
		switch {
		case lineY-t.Y > yLineTolerance:
			sb.WriteByte('\n')
			lineY = t.Y
		case t.X-lineEnd > 1.0:
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		lineEnd = t.X + t.W
	}
	return sb.String()
}

// String implements fmt.Stringer for diagnostics.
func (b *LedongthucBackend) String() string {
	return fmt.Sprintf("backend(%s)", b.Name())
}

package wrapper

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PDFCPUBackend extracts text by parsing page content streams with pdfcpu.
// It is the slowest of the backends but the only one that can also report
// whether the document is built from raster images.
type PDFCPUBackend struct {
	conf *model.Configuration
}

// NewPDFCPUBackend creates a pdfcpu text backend with default configuration.
func NewPDFCPUBackend() *PDFCPUBackend {
	return &PDFCPUBackend{conf: model.NewDefaultConfiguration()}
}

// Name identifies the backend.
func (b *PDFCPUBackend) Name() BackendType {
	return BackendPDFCPU
}

// ExtractText parses the content stream of each page for text-showing
// operators.
func (b *PDFCPUBackend) ExtractText(path string, maxPages int) (string, error) {
	ctx, err := b.read(path, "extract_text")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	limit := pageLimit(ctx.PageCount, maxPages)

	for pageNr := 1; pageNr <= limit; pageNr++ {
		appendPage(&sb, pageNr, pageStreamText(ctx, pageNr))
	}

	if sb.Len() == 0 {
		return "", &WrapperError{Backend: BackendPDFCPU, Op: "extract_text", Err: ErrNoText}
	}
	return sb.String(), nil
}

// DetectImages reports whether the document contains image XObjects,
// checking the optimizer's per-page image index first and falling back to an
// xref table scan.
func (b *PDFCPUBackend) DetectImages(path string) (bool, error) {
	ctx, err := b.read(path, "detect_images")
	if err != nil {
		return false, err
	}

	if ctx.Optimize != nil {
		for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
				return true, nil
			}
		}
	}
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true, nil
			}
		}
	}
	return false, nil
}

func (b *PDFCPUBackend) read(path, op string) (*model.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &WrapperError{Backend: BackendPDFCPU, Op: op, Err: err}
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, b.conf)
	if err != nil {
		return nil, &WrapperError{Backend: BackendPDFCPU, Op: op, Err: err}
	}
	return ctx, nil
}

func pageStreamText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return streamToText(data)
}

// pdfStringRe matches PDF string literals: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// streamToText walks a content stream line by line and renders the text
// operators. Tj and TJ append to the current line; the ' operator, T*, and
// the Td/TD positioning operators start a new line. Keeping those breaks
// intact is essential: section slicing and label matching downstream are
// both line-oriented.
func streamToText(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			sb.WriteByte('\n')
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}
		case bytes.Equal(line, []byte("T*")),
			bytes.HasSuffix(line, []byte("Td")),
			bytes.HasSuffix(line, []byte("TD")):
			sb.WriteByte('\n')
		}
	}

	return collapseBlankLines(sb.String())
}

// decodePDFString resolves PDF string escapes, including octal escapes.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// collapseBlankLines trims each line and drops runs of empty lines left
// behind by positioning operators that did not emit text.
func collapseBlankLines(text string) string {
	var out []string
	blank := true
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

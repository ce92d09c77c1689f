package wrapper

import (
	"errors"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreate(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		name        string
		backendType BackendType
		wantErr     bool
	}{
		{name: "ledongthuc", backendType: BackendLedongthuc},
		{name: "pdfcpu", backendType: BackendPDFCPU},
		{name: "fitz", backendType: BackendFitz},
		{name: "unknown", backendType: BackendType("bogus"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := f.Create(tt.backendType)
			if tt.wantErr {
				require.Error(t, err)
				var we *WrapperError
				assert.True(t, errors.As(err, &we))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.backendType, backend.Name())
		})
	}
}

func TestFactoryAllMatchesTypes(t *testing.T) {
	f := NewFactory()
	backends := f.All()
	types := Types()

	require.Len(t, backends, len(types))
	for i, b := range backends {
		assert.Equal(t, types[i], b.Name())
	}
}

func TestWrapperError(t *testing.T) {
	inner := errors.New("boom")
	err := &WrapperError{Backend: BackendPDFCPU, Op: "open", Err: inner}

	assert.Contains(t, err.Error(), "pdfcpu")
	assert.Contains(t, err.Error(), "open")
	assert.True(t, errors.Is(err, inner))
}

func TestAppendPage(t *testing.T) {
	var sb strings.Builder

	appendPage(&sb, 1, "first page")
	appendPage(&sb, 2, "   ") // blank pages are dropped
	appendPage(&sb, 3, "third page")

	out := sb.String()
	assert.Contains(t, out, "--- Page 1 ---\nfirst page")
	assert.Contains(t, out, "--- Page 3 ---\nthird page")
	assert.NotContains(t, out, "--- Page 2 ---")
}

func TestPageLimit(t *testing.T) {
	assert.Equal(t, 10, pageLimit(25, 10))
	assert.Equal(t, 5, pageLimit(5, 10))
	assert.Equal(t, 25, pageLimit(25, 0))
	assert.Equal(t, 25, pageLimit(25, -1))
}

func TestLinesFromFragments(t *testing.T) {
	frags := []pdf.Text{
		{S: "Product Name:", X: 10, Y: 700, W: 60},
		{S: "Isopropyl Alcohol", X: 80, Y: 700, W: 90},
		{S: "Supplier:", X: 10, Y: 680, W: 40},
		{S: "Chemtools Pty Ltd", X: 80, Y: 680, W: 90},
	}

	got := linesFromFragments(frags)
	lines := strings.Split(got, "\n")

	require.Len(t, lines, 2)
	assert.Equal(t, "Product Name: Isopropyl Alcohol", lines[0])
	assert.Equal(t, "Supplier: Chemtools Pty Ltd", lines[1])
}

func TestLinesFromFragmentsUnsortedInput(t *testing.T) {
	// Fragments arrive in stream order, not reading order.
	frags := []pdf.Text{
		{S: "second", X: 10, Y: 600, W: 30},
		{S: "first", X: 10, Y: 700, W: 30},
	}

	got := linesFromFragments(frags)
	assert.Equal(t, "first\nsecond", got)
}

func TestLinesFromFragmentsEmpty(t *testing.T) {
	assert.Equal(t, "", linesFromFragments(nil))
}

func TestStreamToText(t *testing.T) {
	stream := strings.Join([]string{
		"BT",
		"(SAFETY DATA SHEET) Tj",
		"0 -14 Td",
		"[(Product Name: ) (Acetone)] TJ",
		"T*",
		"(1. Identification) '",
		"ET",
	}, "\n")

	got := streamToText([]byte(stream))

	assert.Contains(t, got, "SAFETY DATA SHEET")
	assert.Contains(t, got, "Product Name: Acetone")
	assert.Contains(t, got, "1. Identification")

	// Td and T* produce line breaks, not run-on text.
	lines := strings.Split(got, "\n")
	assert.GreaterOrEqual(t, len(lines), 3)
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello", want: "hello"},
		{name: "escaped parens", in: `a\(b\)c`, want: "a(b)c"},
		{name: "newline escape", in: `a\nb`, want: "a\nb"},
		{name: "octal space", in: `a\040b`, want: "a b"},
		{name: "backslash", in: `a\\b`, want: `a\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodePDFString([]byte(tt.in)))
		})
	}
}

func TestCollapseBlankLines(t *testing.T) {
	in := "a\n\n\n\nb\n   \nc\n"
	got := collapseBlankLines(in)
	assert.Equal(t, "a\n\nb\n\nc", got)
}

func TestExtractTextMissingFile(t *testing.T) {
	for _, backend := range NewFactory().All() {
		_, err := backend.ExtractText("/nonexistent/file.pdf", 10)
		require.Error(t, err, "backend %s", backend.Name())

		var we *WrapperError
		assert.True(t, errors.As(err, &we), "backend %s", backend.Name())
	}
}

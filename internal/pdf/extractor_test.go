package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maidenfan78/chemfetch-live/internal/ocr"
	"github.com/Maidenfan78/chemfetch-live/internal/pdf/wrapper"
)

type fakeBackend struct {
	name wrapper.BackendType
	text string
	err  error
}

func (f *fakeBackend) Name() wrapper.BackendType { return f.name }

func (f *fakeBackend) ExtractText(path string, maxPages int) (string, error) {
	return f.text, f.err
}

func longText(marker string) string {
	return "--- Page 1 ---\n" + marker + " " + strings.Repeat("content line\n", 20)
}

func tempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheet.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n%%EOF\n"), 0o600))
	return path
}

func TestExtractKeepsRichestBackend(t *testing.T) {
	short := &fakeBackend{name: "short", text: longText("short")[:80]}
	long := &fakeBackend{name: "long", text: longText("long")}

	e := NewExtractor(WithBackends(short, long))
	got, err := e.Extract(context.Background(), tempPDF(t))
	require.NoError(t, err)

	assert.Equal(t, "long", got.Method)
	assert.Contains(t, got.Text, "long content")
	assert.False(t, got.UsedOCR)
	assert.True(t, got.AvailableMethods["short"])
	assert.True(t, got.AvailableMethods["long"])
}

func TestExtractRecordsFailedBackends(t *testing.T) {
	broken := &fakeBackend{name: "broken", err: errors.New("parse error")}
	working := &fakeBackend{name: "working", text: longText("working")}

	e := NewExtractor(WithBackends(broken, working))
	got, err := e.Extract(context.Background(), tempPDF(t))
	require.NoError(t, err)

	assert.False(t, got.AvailableMethods["broken"])
	assert.True(t, got.AvailableMethods["working"])
	assert.Equal(t, "working", got.Method)
}

func TestExtractNoTextNoOCR(t *testing.T) {
	empty := &fakeBackend{name: "empty", err: errors.New("no text content found")}

	e := NewExtractor(WithBackends(empty))
	_, err := e.Extract(context.Background(), tempPDF(t))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTextContent))
}

func TestExtractShortTextWithoutOCR(t *testing.T) {
	// A near-empty rendering with no OCR to fall back on is terminal, and
	// the error says the text was short rather than absent.
	sparse := &fakeBackend{name: "sparse", text: "--- Page 1 ---\ntiny"}

	e := NewExtractor(WithBackends(sparse))
	_, err := e.Extract(context.Background(), tempPDF(t))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTextTooShort))
	assert.False(t, errors.Is(err, ErrNoTextContent))
}

type proberBackend struct {
	fakeBackend
}

func (p *proberBackend) DetectImages(string) (bool, error) { return true, nil }

type stubOCREngine struct {
	text string
}

func (s stubOCREngine) Name() string    { return "stub" }
func (s stubOCREngine) Available() bool { return true }

func (s stubOCREngine) Recognize(context.Context, string) (string, error) {
	return s.text, nil
}

type stubRasterizer struct{}

func (stubRasterizer) RasterizePages(string, int) ([]string, func(), error) {
	return []string{"page1.png"}, func() {}, nil
}

func TestExtractOCRSuccessClearsImageOnly(t *testing.T) {
	sparse := &proberBackend{fakeBackend{name: "sparse", text: "tiny"}}
	ocrCap := ocr.New(
		stubOCREngine{text: strings.Repeat("recovered text line\n", 20)},
		ocr.WithRasterizer(stubRasterizer{}),
	)

	e := NewExtractor(WithBackends(sparse), WithOCR(ocrCap))
	got, err := e.Extract(context.Background(), tempPDF(t))
	require.NoError(t, err)

	assert.True(t, got.UsedOCR)
	assert.Equal(t, MethodOCR, got.Method)
	assert.True(t, got.AvailableMethods[MethodOCR])
	assert.False(t, got.ImageOnly, "recovered text means the document is readable")
}

func TestExtractImageOnlyStaysWhenOCRStaysShort(t *testing.T) {
	sparse := &proberBackend{fakeBackend{name: "sparse", text: "tiny"}}
	ocrCap := ocr.New(
		stubOCREngine{text: "still tiny"},
		ocr.WithRasterizer(stubRasterizer{}),
	)

	e := NewExtractor(WithBackends(sparse), WithOCR(ocrCap))
	got, err := e.Extract(context.Background(), tempPDF(t))
	require.NoError(t, err)

	assert.True(t, got.UsedOCR)
	assert.True(t, got.ImageOnly)
}

func TestExtractCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExtractor(WithBackends(&fakeBackend{name: "any", text: longText("x")}))
	_, err := e.Extract(ctx, tempPDF(t))

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestContentLength(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "empty", in: "", want: 0},
		{name: "markers excluded", in: "--- Page 1 ---\nabc", want: 3},
		{name: "whitespace trimmed", in: "  abc  \n\n  de \n", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contentLength(tt.in))
		})
	}
}

func TestExtractedTextInfo(t *testing.T) {
	et := &ExtractedText{
		Text:             "hello",
		Method:           "fitz",
		AvailableMethods: map[string]bool{"fitz": true},
		UsedOCR:          false,
		ImageOnly:        false,
	}

	info := et.Info()
	assert.Equal(t, 5, info.TextLength)
	assert.Equal(t, "fitz", info.ExtractionMode)
	assert.True(t, info.AvailableMethods["fitz"])
}

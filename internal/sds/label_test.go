package sds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()
	p, err := NewParser(DefaultRuleSet(), opts...)
	require.NoError(t, err)
	return p
}

func TestMatchLabelLine(t *testing.T) {
	lp, err := compileLabel(`Product\s+name`)
	require.NoError(t, err)

	value, alone := matchLabelLine("Product Name: Acetone", lp)
	assert.Equal(t, "Acetone", value)
	assert.False(t, alone)

	value, alone = matchLabelLine("Product name Acetone", lp)
	assert.Equal(t, "Acetone", value)
	assert.False(t, alone)

	_, alone = matchLabelLine("Product Name:", lp)
	assert.True(t, alone)

	value, alone = matchLabelLine("Something else entirely", lp)
	assert.Equal(t, "", value)
	assert.False(t, alone)
}

func TestMatchLabelLineDoubledLetters(t *testing.T) {
	lp, err := compileLabel(`Product\s+name`)
	require.NoError(t, err)

	// OCR renderers sometimes double every letter of bold labels. The value
	// is sliced from the original line, so a value with genuine double
	// letters survives intact.
	value, alone := matchLabelLine("PPRROODDUUCCTT NNAAMMEE: Bitter Blue", lp)
	assert.False(t, alone)
	assert.Equal(t, "Bitter Blue", value)
}

func TestExtractAfterLabelSameLine(t *testing.T) {
	p := newTestParser(t)
	labels := p.rules.labelsFor(FieldProductName)

	text := "Product Name: Isopropyl Alcohol 70%\nSupplier: Someone"
	assert.Equal(t, "Isopropyl Alcohol 70%", p.extractAfterLabel(text, labels))
}

func TestExtractAfterLabelNextLine(t *testing.T) {
	p := newTestParser(t)
	labels := p.rules.labelsFor(FieldProductName)

	text := strings.Join([]string{
		"Product Name:",
		"",
		"Isopropyl Alcohol 70%",
	}, "\n")
	assert.Equal(t, "Isopropyl Alcohol 70%", p.extractAfterLabel(text, labels))
}

func TestExtractAfterLabelKeepsLookingPastNoise(t *testing.T) {
	p := newTestParser(t)
	labels := p.rules.labelsFor(FieldManufacturer)

	// The line right after the label is a contact fragment; the real value
	// follows it. A noisy first candidate must not end the search.
	text := strings.Join([]string{
		"Supplier:",
		"Telephone: 1800 000 000",
		"Chemtools Pty Ltd",
	}, "\n")
	assert.Equal(t, "Chemtools Pty Ltd", p.extractAfterLabel(text, labels))
}

func TestExtractAfterLabelSkipsHeaderContinuation(t *testing.T) {
	p := newTestParser(t)
	labels := p.rules.labelsFor(FieldProductName)

	// "Product identifier" wraps onto a continuation line; the value comes
	// after the wrapped header text.
	text := strings.Join([]string{
		"Product identifier of the chemical and restrictions on use",
		"Acme Solvent",
	}, "\n")
	assert.Equal(t, "Acme Solvent", p.extractAfterLabel(text, labels))
}

func TestExtractAfterLabelStopsAtNextLabel(t *testing.T) {
	p := newTestParser(t)
	labels := p.rules.labelsFor(FieldProductUse)

	// A lone label followed directly by another label has no value.
	text := strings.Join([]string{
		"Recommended use:",
		"Supplier: Acme Chemicals",
	}, "\n")
	assert.Equal(t, "", p.extractAfterLabel(text, labels))
}

func TestExtractAfterLabelColonPrefixOnValueLine(t *testing.T) {
	p := newTestParser(t)
	labels := p.rules.labelsFor(FieldProductName)

	text := strings.Join([]string{
		"Product Name",
		": Kwik Grip Spray",
	}, "\n")
	assert.Equal(t, "Kwik Grip Spray", p.extractAfterLabel(text, labels))
}

func TestExtractAfterLabelEmptySection(t *testing.T) {
	p := newTestParser(t)
	assert.Equal(t, "", p.extractAfterLabel("   ", p.rules.labelsFor(FieldProductName)))
}

func TestCleanCandidate(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "trailing contact block",
			in:   "Acme Chemicals Tel: 03 9000 0000",
			want: "Acme Chemicals",
		},
		{
			name: "trailing shared label",
			in:   "Acetone Product code: XYZ-1",
			want: "Acetone",
		},
		{
			name: "page footer",
			in:   "Acetone Page 1 of 9",
			want: "Acetone",
		},
		{
			name: "trailing separator",
			in:   "Acetone -",
			want: "Acetone",
		},
		{
			name: "leading possessive artifact",
			in:   "'s details follow",
			want: "details follow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.cleanCandidate(tt.in))
		})
	}
}

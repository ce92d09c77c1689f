package sds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParser(t *testing.T) {
	p, err := NewParser(DefaultRuleSet())
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.NotNil(t, p.rules)
	assert.NotNil(t, p.noise)
}

func TestNewParserBadRules(t *testing.T) {
	rs := DefaultRuleSet()
	rs.FieldLabels[FieldProductName] = append(rs.FieldLabels[FieldProductName], `([unbalanced`)

	_, err := NewParser(rs)
	require.Error(t, err)
}

func TestParseTextAllFieldKeysPresent(t *testing.T) {
	p := newTestParser(t)

	result := p.ParseText("", ExtractionInfo{})
	require.NotNil(t, result)

	for _, name := range FieldNames() {
		fr, ok := result.Fields[name]
		assert.True(t, ok, "missing field key %s", name)
		assert.Nil(t, fr.Value)
		assert.Zero(t, fr.Confidence)
	}
}

func TestParseTextFullSheet(t *testing.T) {
	p := newTestParser(t, fixedClock(t))

	text := strings.Join([]string{
		"SAFETY DATA SHEET",
		"Revision date: 15/03/2023",
		"",
		"1. Identification of the chemical and supplier",
		"Product Name: Isopropyl Alcohol 70%",
		"Recommended use: Surface disinfection and cleaning",
		"Supplier: Chemtools Pty Ltd",
		"Telephone: 1800 000 000",
		"",
		"2. Hazards identification",
		"Flammable liquid",
		"",
		"14. Transport information",
		"UN Number: 1219",
		"Transport hazard class(es): 3",
		"Packing group: II",
		"",
		"15. Regulatory information",
	}, "\n")

	result := p.ParseText(text, ExtractionInfo{ExtractionMode: "fitz"})

	assert.Equal(t, "Isopropyl Alcohol 70%", result.FieldValue(FieldProductName))
	assert.Equal(t, "Chemtools Pty Ltd", result.FieldValue(FieldManufacturer))
	assert.Equal(t, "Surface disinfection and cleaning", result.FieldValue(FieldProductUse))
	assert.Equal(t, "3", result.FieldValue(FieldDangerousGoodsClass))
	assert.Equal(t, "II", result.FieldValue(FieldPackingGroup))
	assert.Equal(t, "2023-03-15", result.FieldValue(FieldIssueDate))

	assert.Equal(t, 1.0, result.Fields[FieldProductName].Confidence)
	assert.Equal(t, len(text), result.ExtractionInfo.TextLength)
	assert.Equal(t, "fitz", result.ExtractionInfo.ExtractionMode)
}

func TestParseTextRejectsUNNumberAsClass(t *testing.T) {
	p := newTestParser(t)

	text := strings.Join([]string{
		"14. Transport information",
		"Class: 1950",
		"Packing group: III",
		"This line pads the transport section to a useful length.",
	}, "\n")

	result := p.ParseText(text, ExtractionInfo{})

	assert.Nil(t, result.Fields[FieldDangerousGoodsClass].Value)
	assert.Equal(t, "III", result.FieldValue(FieldPackingGroup))
}

func TestParseTextNotApplicableClassIsAbsent(t *testing.T) {
	p := newTestParser(t)

	text := strings.Join([]string{
		"14. Transport information",
		"Transport hazard class(es): Not regulated",
		"Packing group: Not applicable",
		"This line pads the transport section to a useful length.",
	}, "\n")

	result := p.ParseText(text, ExtractionInfo{})

	assert.Nil(t, result.Fields[FieldDangerousGoodsClass].Value)
	assert.Nil(t, result.Fields[FieldPackingGroup].Value)
}

func TestParseTextPackingGroupTokenDedup(t *testing.T) {
	p := newTestParser(t)

	text := strings.Join([]string{
		"14. Transport information",
		"Packing group: II II",
		"This line pads the transport section to a useful length.",
	}, "\n")

	result := p.ParseText(text, ExtractionInfo{})
	assert.Equal(t, "II", result.FieldValue(FieldPackingGroup))
}

func TestParseTextNumericCodeNeverAProductName(t *testing.T) {
	p := newTestParser(t)

	text := strings.Join([]string{
		"1. Identification of the substance",
		"Product Name: 0000003477",
		"Some filler line to keep the section body long enough.",
	}, "\n")

	result := p.ParseText(text, ExtractionInfo{})
	assert.NotEqual(t, "0000003477", result.FieldValue(FieldProductName))
}

func TestParseTextDoubledLetterLabels(t *testing.T) {
	p := newTestParser(t)

	text := strings.Join([]string{
		"1. Identification of the substance",
		"PPRROODDUUCCTT NNAAMMEE: Bitter Blue",
		"Some filler line to keep the section body long enough.",
	}, "\n")

	result := p.ParseText(text, ExtractionInfo{})

	// The doubled-letter normalization applies to the label only; the
	// value keeps its genuine double letters.
	assert.Equal(t, "Bitter Blue", result.FieldValue(FieldProductName))
}

func TestParseTextSupplierNoiseThenValue(t *testing.T) {
	p := newTestParser(t)

	text := strings.Join([]string{
		"1. Identification of the chemical and supplier",
		"Supplier:",
		"Emergency telephone",
		"Chemtools Pty Ltd",
		"Some filler line to keep the section body long enough.",
	}, "\n")

	result := p.ParseText(text, ExtractionInfo{})
	assert.Equal(t, "Chemtools Pty Ltd", result.FieldValue(FieldManufacturer))
}

func TestParseTextProductNameFallback(t *testing.T) {
	p := newTestParser(t)

	// No label at all; the first meaningful line of Section 1 is the name.
	text := strings.Join([]string{
		"1. Identification of the chemical and supplier",
		"Methylated Spirits 95%",
		"Some filler line to keep the section body long enough.",
	}, "\n")

	result := p.ParseText(text, ExtractionInfo{})
	assert.Equal(t, "Methylated Spirits 95%", result.FieldValue(FieldProductName))
}

func TestParseTextFinalSweepDropsNoise(t *testing.T) {
	p := newTestParser(t)

	// A value that survives extraction but is pure boilerplate is nulled in
	// the final sweep rather than reported as a product name.
	result := newParseResult(ExtractionInfo{})
	result.setField(FieldProductName, "Safety Data Sheet")
	result.setField(FieldManufacturer, "Contact details")
	p.finalSweep(result, "", "")

	assert.Nil(t, result.Fields[FieldProductName].Value)
	assert.Nil(t, result.Fields[FieldManufacturer].Value)
}

func TestParseTextMissingSectionsFallsBackToFullText(t *testing.T) {
	p := newTestParser(t)

	// No numbered sections at all; label extraction still works over the
	// whole document.
	text := strings.Join([]string{
		"Product Name: Turps Premium",
		"Supplier: Diggers Australia Pty Ltd",
	}, "\n")

	result := p.ParseText(text, ExtractionInfo{})

	assert.Equal(t, "Turps Premium", result.FieldValue(FieldProductName))
	assert.Equal(t, "Diggers Australia Pty Ltd", result.FieldValue(FieldManufacturer))
}

func TestFieldResultJSONShape(t *testing.T) {
	result := newParseResult(ExtractionInfo{})
	result.setField(FieldProductName, "Acetone")

	assert.Equal(t, "Acetone", result.FieldValue(FieldProductName))
	assert.Equal(t, 1.0, result.Fields[FieldProductName].Confidence)

	result.clearField(FieldProductName)
	assert.Nil(t, result.Fields[FieldProductName].Value)
	assert.Equal(t, "", result.FieldValue(FieldProductName))
}

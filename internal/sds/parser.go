package sds

import (
	"io"
	"log"
	"time"
)

// Parser extracts the structured fields of a safety data sheet from its
// plain-text rendering. A Parser is safe for concurrent use once built:
// every rule pattern is compiled at construction and parsing never mutates
// shared state.
type Parser struct {
	ruleSet *RuleSet
	rules   *compiledRules
	noise   *Classifier
	now     func() time.Time
	logger  *log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock overrides the clock used for future-date rejection. Tests use
// this to pin "today".
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithLogger sets the parser's logger. By default the parser is silent.
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// NewParser compiles the rule set and builds a parser. Pass the result of
// DefaultRuleSet, optionally extended via LoadCustomRules.
func NewParser(rs *RuleSet, opts ...Option) (*Parser, error) {
	compiled, err := rs.compile()
	if err != nil {
		return nil, err
	}
	noise, err := NewClassifier(rs)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		ruleSet: rs,
		rules:   compiled,
		noise:   noise,
		now:     time.Now,
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ParseText runs the full extraction pipeline over document text. Every
// field key is present in the result; a nil value means the field was not
// found, which is an expected outcome on sparse or image-only sheets.
func (p *Parser) ParseText(text string, info ExtractionInfo) *ParseResult {
	info.TextLength = len(text)
	result := newParseResult(info)
	if text == "" {
		return result
	}

	sec1 := Section(text, 1)
	if sec1 == "" {
		p.logger.Printf("section 1 not found, using full text")
		sec1 = text
	}
	sec14 := Section(text, 14)
	if sec14 == "" {
		p.logger.Printf("section 14 not found, using full text")
		sec14 = text
	}

	result.setField(FieldProductName, p.extractProductName(text, sec1))
	result.setField(FieldManufacturer, p.extractManufacturer(text, sec1))
	result.setField(FieldDescription, p.extractAfterLabel(sec1, p.rules.labelsFor(FieldDescription)))
	result.setField(FieldProductUse, p.extractAfterLabel(sec1, p.rules.labelsFor(FieldProductUse)))
	result.setField(FieldDangerousGoodsClass, p.extractDangerousGoodsClass(sec14))
	result.setField(FieldSubsidiaryRisk, p.extractSubsidiaryRisk(sec14))
	result.setField(FieldPackingGroup, p.extractPackingGroup(sec14))
	result.setField(FieldIssueDate, p.extractIssueDate(text))

	p.finalSweep(result, text, sec1)
	return result
}

// extractProductName tries labeled extraction in Section 1 first, then falls
// back to scanning for the first meaningful line.
func (p *Parser) extractProductName(text, sec1 string) string {
	if v := p.extractAfterLabel(sec1, p.rules.labelsFor(FieldProductName)); v != "" {
		if v = p.finishProductName(v); v != "" {
			return v
		}
	}
	if v := p.productNameFromLines(sec1, productNameScanLines); v != "" {
		return v
	}
	return p.productNameFromLines(text, documentPrefixLines)
}

func (p *Parser) finishProductName(v string) string {
	v = stripDoubledLabelPrefix(v)
	v = stripLeadingLabelPrefix(v)
	v = dedupRepeatedPhrase(v)
	if looksLikeNumericCode(v) {
		return ""
	}
	return v
}

// extractManufacturer tries labeled extraction, then the supplier-details
// block, then a corporate-suffix line scan in Section 1, and finally the
// same scan over the head of the whole document.
func (p *Parser) extractManufacturer(text, sec1 string) string {
	if v := p.extractAfterLabel(sec1, p.rules.labelsFor(FieldManufacturer)); v != "" {
		if v = dedupRepeatedPhrase(stripLeadingLabelPrefix(v)); v != "" {
			if cleaned := cleanCompanyCandidate(v); cleaned != "" {
				return cleaned
			}
		}
	}
	if v := p.manufacturerFromSupplierBlock(sec1); v != "" {
		return v
	}
	if v := p.manufacturerFromCompanyLine(sec1, manufacturerScanLines); v != "" {
		return v
	}
	return p.manufacturerFromCompanyLine(text, companyScanDocLines)
}

// extractDangerousGoodsClass requires a value that survives class validation.
// Recognized not-applicable phrases mean the product is not classified, which
// is reported as an absent field rather than a literal "N/A".
func (p *Parser) extractDangerousGoodsClass(sec14 string) string {
	v := p.extractAfterLabel(sec14, p.rules.labelsFor(FieldDangerousGoodsClass))
	v = dedupRepeatedToken(v)
	if v != "" && p.validateDangerousGoodsClass(v) {
		return p.dropNotApplicable(v)
	}
	return p.dropNotApplicable(p.dgClassFromTable(sec14))
}

func (p *Parser) extractSubsidiaryRisk(sec14 string) string {
	v := p.extractAfterLabel(sec14, p.rules.labelsFor(FieldSubsidiaryRisk))
	v = dedupRepeatedToken(v)
	if v == "" || !p.validateDangerousGoodsClass(v) {
		return ""
	}
	return p.dropNotApplicable(v)
}

func (p *Parser) extractPackingGroup(sec14 string) string {
	v := p.extractAfterLabel(sec14, p.rules.labelsFor(FieldPackingGroup))
	v = dedupRepeatedToken(v)
	if v != "" && p.validatePackingGroup(v) {
		return p.dropNotApplicable(v)
	}
	return p.dropNotApplicable(p.packingGroupFromTable(sec14))
}

func (p *Parser) dropNotApplicable(v string) string {
	if v == "" || p.rules.isNotApplicable(v) {
		return ""
	}
	return v
}

// finalSweep re-screens the free-text fields after all extraction passes.
// Fallback paths can surface a contact phrase, a bare label, or a section
// header that the earlier screens missed, and a product name that is really
// the document's own "Safety Data Sheet" banner gets one re-extraction
// attempt.
func (p *Parser) finalSweep(result *ParseResult, text, sec1 string) {
	if v := result.FieldValue(FieldProductName); v != "" && sdsBoilerplateRe.MatchString(v) {
		result.setField(FieldProductName, p.productNameFromLines(sec1, productNameScanLines))
	}
	for _, name := range []string{FieldProductName, FieldManufacturer} {
		v := result.FieldValue(name)
		if v == "" {
			continue
		}
		if p.noise.IsNoise(v) || p.rules.isBareLabel(v) || sectionHeaderRe.MatchString(v) {
			p.logger.Printf("dropping %s %q after final noise sweep", name, v)
			result.clearField(name)
		}
	}
}

// companyScanDocLines bounds the whole-document manufacturer scan.
const companyScanDocLines = 60

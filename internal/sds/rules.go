package sds

import (
	"fmt"
	"regexp"
	"strings"
)

// RuleSet holds the label and noise vocabularies driving extraction. The
// lists are data, not code, so new jurisdictions' labeling conventions can be
// added without touching the extraction logic. All patterns are case
// insensitive regular expressions unless noted otherwise.
type RuleSet struct {
	// FieldLabels maps a field name to its label patterns in priority order.
	// The first pattern that matches a line wins, so callers must order
	// patterns from most authoritative to least.
	FieldLabels map[string][]string `json:"field_labels"`

	// CommonLabels is the union of label patterns used to truncate a value
	// when several labels share one physical line (cramped table cells).
	CommonLabels []string `json:"common_labels"`

	// NoisePhrases are full-string matches that disqualify a candidate value.
	NoisePhrases []string `json:"noise_phrases"`

	// NoiseWords are lowercase literal strings rejected as whole values.
	NoiseWords []string `json:"noise_words"`

	// CountryNames are bare jurisdiction names rejected as values.
	CountryNames []string `json:"country_names"`

	// HeaderContinuations are wrapped remainders of multi-word label headers
	// that must never be read as values.
	HeaderContinuations []string `json:"header_continuations"`

	// ContactMarkers truncate a candidate at a trailing contact block.
	ContactMarkers []string `json:"contact_markers"`

	// NotApplicable phrases are accepted by the class and packing-group
	// validators in place of a real value.
	NotApplicable []string `json:"not_applicable_phrases"`

	// PreferredDateKeys rank date labels; a label containing any of these
	// substrings outranks one that does not (e.g. a print date). Order is a
	// tunable policy, not a law.
	PreferredDateKeys []string `json:"preferred_date_keys"`
}

// DefaultRuleSet returns the built-in vocabulary. It was grown against a
// corpus of Australian, UK and US safety data sheets and is a seed list, not
// a complete enumeration of all possible noise.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		FieldLabels: map[string][]string{
			FieldProductName: {
				`Product\s+identifier`,
				`Product\s+name`,
				`Trade\s+name`,
				`Commercial\s+product\s+name`,
				`Product\s+designation`,
			},
			FieldManufacturer: {
				`Manufacturer\s*/\s*Supplier`,
				`Manufacturer`,
				`Supplier\s+Name`,
				`Supplier`,
				`Company\s+name\s+of\s+supplier`,
				`Producer`,
				`Company\s+name`,
				`Registered\s+company\s+name`,
				`Distributor`,
			},
			FieldDescription: {
				`Product\s+description`,
				`Description`,
				`Use\s+of\s+the\s+substance`,
				`Recommended\s+use`,
				`Intended\s+use`,
				`Product\s+use`,
				`Relevant\s+identified\s+uses`,
				`Identified\s+uses`,
				`Application`,
			},
			FieldProductUse: {
				`Recommended\s+use`,
				`Intended\s+use`,
				`Use\s+of\s+the\s+substance`,
				`Product\s+use`,
				`Relevant\s+identified\s+uses`,
				`Identified\s+uses`,
			},
			FieldDangerousGoodsClass: {
				`DG\s*Class`,
				`Class/Division`,
				`Transport\s+hazard\s+class(?:\(es\))?`,
				`(?:IMDG|IATA|ADG)\s*Hazard\s*Class(?:\(es\))?`,
				`Hazard\s*class(?:\(es\))?`,
				`Australian\s+Dangerous\s+Goods\s+class`,
				`Dangerous\s+goods\s+class`,
				`UN\s*Class`,
				`Class`,
			},
			FieldSubsidiaryRisk: {
				`Subsidiary\s+risk`,
				`Subsidiary\s+hazard`,
				`Secondary\s+risk`,
			},
			FieldPackingGroup: {
				`Packing\s*group(?:\(s\))?`,
				`Packing\s*group\s*\(if\s*applicable\)`,
				`Australian\s+Dangerous\s+Goods\s+packing\s+group`,
				`PG`,
			},
		},
		CommonLabels: []string{
			`Product\s+identifier`,
			`Product\s+name`,
			`Trade\s+name`,
			`Commercial\s+product\s+name`,
			`Manufacturer`,
			`Supplier\s+Name`,
			`Supplier`,
			`Company\s+name\s+of\s+supplier`,
			`Producer`,
			`Company\s+name`,
			`Registered\s+company\s+name`,
			`Distributor`,
			`Product\s+description`,
			`Description`,
			`Use\s+of\s+the\s+substance`,
			`Recommended\s+use`,
			`Intended\s+use`,
			`Product\s+use`,
			`Relevant\s+identified\s+uses`,
			`Identified\s+uses`,
			`Application`,
			`Chemical\s+Name`,
			`Product\s+code`,
			`Synonyms?`,
			`Proper\s+shipping\s+name`,
			`UN\s+number`,
			`Hazchem`,
			`EPG`,
			`Packing\s*Group(?:\(s\))?`,
			`Hazard\s*class(?:\(es\))?`,
		},
		NoisePhrases: []string{
			`MSDS\s+Date`,
			`Alternative\s+number\(s\)`,
			`Facsimile\s+Number`,
			`safety\s+data\s+sheet`,
			`Name`,
			`Registered\s+company\s+name`,
			`Emergency\s+telephone(?:\s+Number)?`,
			`Contact\s+details`,
			`Details\s+of\s+the\s+supplier`,
			`Telephone.*`,
			`Phone.*`,
			`Fax.*`,
			`Email.*`,
			`Address.*`,
			`Website.*`,
			`Company[:.]?`,
			`Company\s+No\.?[:.]?`,
			`Other\s+Name\(s\)`,
			`Formulation\s+#`,
			`Registration\s+no\.?\s*–?\s*US:?`,
			`Group`,
			`Synonyms.*`,
			`Product\s+Code.*`,
			`HS\s+Code.*`,
			`Poison.*`,
			`SDS\s+no\.?`,
			`SDS\s+number`,
			`Page\s+\d+.*`,
			`Date\s+of\s+issue.*`,
			`Revision\s+date.*`,
			`Version`,
			`Document\s+number`,
			`Document\s+type`,
			`Country`,
			`Language`,
			`Format`,
			`-\s*-`,
		},
		NoiseWords: []string{
			"name", "date", "address", "contact", "details", "information",
			"adresse", "kontakt", "informationen",
		},
		CountryNames: []string{
			"australia", "new zealand", "united states", "united kingdom",
			"usa", "uk", "canada", "deutschland", "germany",
		},
		HeaderContinuations: []string{
			`of\s+the\s+chemical\s+and\s+restrictions\s+on\s+use`,
			`of\s+the\s+safety\s+data\s+sheet`,
			`of\s+the\s+substance\s+or\s+mixture\s+and\s+uses\s+advised\s+against`,
			`or\s+supplier'?s\s+details`,
			`of\s+the\s+company/undertaking`,
		},
		ContactMarkers: []string{
			`Tel:`, `Telephone:`, `Phone:`, `Fax:`, `Email:`, `Website:`,
			`Emergency:`, `Address:`, `Contact:`, `Product code:`,
		},
		NotApplicable: []string{
			`not?\s+regulated`,
			`not?\s+applicable`,
			`not?\s+required`,
			`not?\s+assigned`,
			`not?\s+subject(?:\s+to.*)?`,
			`none`,
			`n\.?/?a\.?`,
			`not\s+a\s+dangerous\s+good`,
		},
		PreferredDateKeys: []string{
			"issue", "prepared", "issued", "creation", "revision", "version", "sds",
		},
	}
}

// labelPattern is one field label compiled into the match forms the
// extractor needs: label-with-separator-and-value, label-with-value (bare
// whitespace), label alone on its line, and label-anywhere.
type labelPattern struct {
	sameSep *regexp.Regexp
	sameWS  *regexp.Regexp
	alone   *regexp.Regexp
	find    *regexp.Regexp
}

// compileLabel builds the match forms for a single label pattern.
func compileLabel(p string) (labelPattern, error) {
	var lp labelPattern
	var err error
	if lp.sameSep, err = regexp.Compile(`(?i)^` + p + `\s*[:\-]\s*(.+)$`); err != nil {
		return lp, err
	}
	if lp.sameWS, err = regexp.Compile(`(?i)^` + p + `\b\s+(.+)$`); err != nil {
		return lp, err
	}
	if lp.alone, err = regexp.Compile(`(?i)^` + p + `\s*[:\-]?\s*$`); err != nil {
		return lp, err
	}
	if lp.find, err = regexp.Compile(`(?i)` + p); err != nil {
		return lp, err
	}
	return lp, nil
}

// compiledRules is the regexp-compiled form of a RuleSet, built once at
// parser construction so per-document parsing never recompiles patterns.
type compiledRules struct {
	fieldLabels  map[string][]labelPattern
	commonLabels []*regexp.Regexp
	contactCut   *regexp.Regexp
	headerConts  []*regexp.Regexp
	notApplic    []*regexp.Regexp
}

// compile validates and compiles every pattern in the rule set.
func (rs *RuleSet) compile() (*compiledRules, error) {
	cr := &compiledRules{
		fieldLabels: make(map[string][]labelPattern, len(rs.FieldLabels)),
	}

	for field, patterns := range rs.FieldLabels {
		for _, p := range patterns {
			lp, err := compileLabel(p)
			if err != nil {
				return nil, fmt.Errorf("field %s label %q: %w", field, p, err)
			}
			cr.fieldLabels[field] = append(cr.fieldLabels[field], lp)
		}
	}

	for _, p := range rs.CommonLabels {
		re, err := regexp.Compile(`(?i)` + p + `\s*[:\-]?`)
		if err != nil {
			return nil, fmt.Errorf("common label %q: %w", p, err)
		}
		cr.commonLabels = append(cr.commonLabels, re)
	}

	if len(rs.ContactMarkers) > 0 {
		quoted := make([]string, 0, len(rs.ContactMarkers))
		for _, m := range rs.ContactMarkers {
			quoted = append(quoted, regexp.QuoteMeta(m))
		}
		re, err := regexp.Compile(`(?i)\s+(?:` + strings.Join(quoted, "|") + `)`)
		if err != nil {
			return nil, fmt.Errorf("contact markers: %w", err)
		}
		cr.contactCut = re
	}

	for _, p := range rs.HeaderContinuations {
		re, err := regexp.Compile(`(?i)^` + p + `$`)
		if err != nil {
			return nil, fmt.Errorf("header continuation %q: %w", p, err)
		}
		cr.headerConts = append(cr.headerConts, re)
	}

	for _, p := range rs.NotApplicable {
		re, err := regexp.Compile(`(?i)^` + p + `$`)
		if err != nil {
			return nil, fmt.Errorf("not-applicable phrase %q: %w", p, err)
		}
		cr.notApplic = append(cr.notApplic, re)
	}

	return cr, nil
}

// labelsFor returns the compiled label patterns for a field, in priority order.
func (cr *compiledRules) labelsFor(field string) []labelPattern {
	return cr.fieldLabels[field]
}

// isHeaderContinuation reports whether s is the wrapped remainder of a
// multi-word label header (e.g. "of the chemical and restrictions on use").
func (cr *compiledRules) isHeaderContinuation(s string) bool {
	s = strings.TrimSpace(s)
	for _, re := range cr.headerConts {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// isNotApplicable reports whether s is a recognized not-applicable phrase.
func (cr *compiledRules) isNotApplicable(s string) bool {
	s = strings.TrimSpace(s)
	for _, re := range cr.notApplic {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// matchesAnyLabel reports whether s contains any known field label. Used to
// stop a next-line value scan when it runs into the following label.
func (cr *compiledRules) matchesAnyLabel(s string) bool {
	for _, labels := range cr.fieldLabels {
		for _, lp := range labels {
			if lp.find.MatchString(s) {
				return true
			}
		}
	}
	return false
}

// isBareLabel reports whether s is exactly a known label, optionally followed
// by separator punctuation.
func (cr *compiledRules) isBareLabel(s string) bool {
	s = strings.TrimSpace(s)
	for _, re := range cr.commonLabels {
		if m := re.FindStringIndex(s); m != nil && m[0] == 0 && m[1] == len(s) {
			return true
		}
	}
	return false
}

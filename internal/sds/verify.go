package sds

import "strings"

// VerifyResult reports whether a document reads like a safety data sheet.
type VerifyResult struct {
	Verified       bool     `json:"verified"`
	Score          float64  `json:"score"`
	KeywordMatches int      `json:"keyword_matches"`
	Matched        []string `json:"matched_keywords,omitempty"`
}

// keywordGroup is one scored family of evidence. Core terms carry more
// weight than generic section vocabulary that other chemical paperwork
// shares.
type keywordGroup struct {
	name     string
	weight   float64
	keywords []string
}

// Verifier decides whether extracted text belongs to a safety data sheet.
// It exists because the upstream document discovery step fetches a lot of
// near misses: product brochures, specification sheets, certificates.
type Verifier struct {
	groups    []keywordGroup
	threshold int
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithMatchThreshold sets how many distinct keyword hits are required
// before a document is considered verified.
func WithMatchThreshold(n int) VerifierOption {
	return func(v *Verifier) { v.threshold = n }
}

// NewVerifier creates a verifier with the default keyword groups. The
// default threshold is deliberately lenient; legitimate sheets from small
// manufacturers often carry only a handful of the standard phrases.
func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{
		groups:    defaultKeywordGroups(),
		threshold: 1,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func defaultKeywordGroups() []keywordGroup {
	return []keywordGroup{
		{
			name:   "core",
			weight: 3,
			keywords: []string{
				"safety data sheet", "material safety data sheet", "msds",
				"hazard communication", "ghs",
			},
		},
		{
			name:   "sections",
			weight: 1,
			keywords: []string{
				"hazard identification", "first aid measures",
				"fire fighting measures", "accidental release",
				"handling and storage", "exposure controls",
				"stability and reactivity", "toxicological information",
				"ecological information", "disposal considerations",
				"transport information", "regulatory information",
			},
		},
		{
			name:   "transport",
			weight: 2,
			keywords: []string{
				"un number", "dangerous goods", "hazard class",
				"packing group", "subsidiary risk",
			},
		},
		{
			name:   "labelling",
			weight: 2,
			keywords: []string{
				"signal word", "hazard statement", "precautionary statement",
				"cas number",
			},
		},
		{
			name:   "provenance",
			weight: 1,
			keywords: []string{
				"revision date", "issue date", "date of preparation",
				"emergency contact", "emergency phone", "poisons information",
			},
		},
	}
}

// Verify scans the text for keyword evidence and scores it. The document
// is verified when the number of distinct matched keywords reaches the
// threshold.
func (v *Verifier) Verify(text string) *VerifyResult {
	lower := strings.ToLower(text)

	result := &VerifyResult{}
	for _, group := range v.groups {
		for _, kw := range group.keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			result.KeywordMatches++
			result.Score += group.weight
			result.Matched = append(result.Matched, kw)
		}
	}

	result.Verified = result.KeywordMatches >= v.threshold
	return result
}

package sds

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	singleClassDigitRe = regexp.MustCompile(`^\d(?:\.\d)?$`)
	punctOnlyRe        = regexp.MustCompile(`^[:\-\s]*$`)
	possessiveOnlyRe   = regexp.MustCompile("^[’'`´]s$")
	phoneShapeRe       = regexp.MustCompile(`^\d{2,4}[-\s]\d{2,4}[-\s]\d{2,4}`)
	phoneInlineRe      = regexp.MustCompile(`\b\d{2,4}\s+\d{2,4}\s+\d{2,4}\b`)
	countryContactRe   = regexp.MustCompile(`^(?:UK|US|USA|EU|AU|NZ|JP|CN),?\s+[A-Z]{2,4}\b`)
	ukNPISRe           = regexp.MustCompile(`(?i)^UK,?\s+NPIS.*\d{2,4}\s+\d{2,4}\s+\d{2,4}`)
	auEmergencyRe      = regexp.MustCompile(`(?i)^Australia\s+-\s+\d{2,4}\s+\d{2,4}\s+\d{2,4}`)
)

// Classifier judges whether a candidate string is a label, contact fragment,
// punctuation artifact, or otherwise unsuitable as a field value. Because
// label text and boilerplate vastly outnumber genuine values in SDS
// documents, a permissive extractor paired with this aggressive filter is
// more robust than per-field extraction patterns trying to be perfectly
// specific.
type Classifier struct {
	phrases   []*regexp.Regexp
	words     map[string]struct{}
	countries map[string]struct{}
}

// NewClassifier compiles the noise vocabulary of a rule set.
func NewClassifier(rs *RuleSet) (*Classifier, error) {
	c := &Classifier{
		words:     make(map[string]struct{}, len(rs.NoiseWords)),
		countries: make(map[string]struct{}, len(rs.CountryNames)),
	}
	for _, p := range rs.NoisePhrases {
		re, err := regexp.Compile(`(?i)^` + p + `$`)
		if err != nil {
			return nil, fmt.Errorf("noise phrase %q: %w", p, err)
		}
		c.phrases = append(c.phrases, re)
	}
	for _, w := range rs.NoiseWords {
		c.words[strings.ToLower(w)] = struct{}{}
	}
	for _, n := range rs.CountryNames {
		c.countries[strings.ToLower(n)] = struct{}{}
	}
	return c, nil
}

// IsNoise reports whether the candidate should be discarded. Pure predicate,
// no side effects. Single digits pass through because a bare "9" is a valid
// dangerous-goods class.
func (c *Classifier) IsNoise(candidate string) bool {
	s := strings.TrimSpace(candidate)
	if s == "" {
		return true
	}
	if len(s) < 2 && !singleClassDigitRe.MatchString(s) {
		return true
	}
	if punctOnlyRe.MatchString(s) || possessiveOnlyRe.MatchString(s) {
		return true
	}
	if phoneShapeRe.MatchString(s) || phoneInlineRe.MatchString(s) {
		return true
	}
	if ukNPISRe.MatchString(s) || auEmergencyRe.MatchString(s) || countryContactRe.MatchString(s) {
		return true
	}

	lower := strings.ToLower(s)
	if _, ok := c.words[lower]; ok {
		return true
	}
	if _, ok := c.countries[lower]; ok {
		return true
	}

	for _, re := range c.phrases {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

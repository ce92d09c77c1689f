package sds

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	wsRunRe          = regexp.MustCompile(`\s+`)
	possessiveLeadRe = regexp.MustCompile("^[’'`´]+s\\b\\s*")
	trailingSepRe    = regexp.MustCompile(`\s*[:\-]\s*$`)
	trailingPageRe   = regexp.MustCompile(`(?i)\s+Page\s+\d+.*$`)
	trailingCodeRe   = regexp.MustCompile(`\b[A-Z0-9]{2,}[/A-Z0-9\-]*$`)
	leadNumPrefixRe  = regexp.MustCompile(`^\d+(?:\.\d+)?\s*`)
	labelPrefixRe    = regexp.MustCompile(`(?i)^(?:product\s+identifier|product\s+name|trade\s+name|commercial\s+product\s+name|manufacturer|supplier\s+name|supplier|company\s+name\s+of\s+supplier|producer|company\s+name|registered\s+company\s+name|distributor)\s*[:\-]?\s*`)
	bulletLeadRe     = regexp.MustCompile(`^[\s\-–—:*•■●►➤▼◆▪]+`)
	companyLabelRe   = regexp.MustCompile(`(?i)^(?:Company\s+and\s+address|Company|Manufacturer|Supplier(?:\s+Name)?|Distributor|Producer)\s*[:\-]\s*`)
	sectionHeaderRe  = regexp.MustCompile(`(?i)^(?:Section\s*\d+\b|\d+\.?\s*(?:Identification|Hazard)\b)`)
	registryParenRe  = regexp.MustCompile(`(?i)\s*\([^)]*(?:ABN|ACN|Formerly)\s*[^)]*\)`)
	companyNoiseRe   = regexp.MustCompile(`(?i)\b(?:Association\s*/?\s*Organisation|Poisons?\s+Information|Emergency(?:\s+telephone|\s+phone)?|ABN|ACN|Address|Contact|Website|Email|Tel\.?|Phone|Fax)\b`)
	suffixClipRe     = regexp.MustCompile(`(?i)^(.*?\b(?:PTY\s+LTD|P/L|LTD|LIMITED|INC\.?|CORP\.?|CORPORATION|GMBH|PLC|BV|S\.?A\.?|S\.P\.A\.|LLC))\b`)
	trailingPunctRe  = regexp.MustCompile(`[\s,.;:]+$`)
	digitRe          = regexp.MustCompile(`\d`)
	letterRe         = regexp.MustCompile(`[A-Za-z]`)
)

// dedupRepeatedPhrase collapses a value repeated twice in a row, a common
// artifact of two-column layouts read linearly
// ("Chemtools Pty Ltd Chemtools Pty Ltd" -> "Chemtools Pty Ltd").
func dedupRepeatedPhrase(value string) string {
	cleaned := strings.TrimSpace(wsRunRe.ReplaceAllString(value, " "))
	words := strings.Fields(cleaned)
	if n := len(words); n >= 2 && n%2 == 0 {
		half := n / 2
		if strings.EqualFold(strings.Join(words[:half], " "), strings.Join(words[half:], " ")) {
			return strings.Join(words[:half], " ")
		}
	}
	return cleaned
}

// stripLeadingLabelPrefix removes a field label that leaked into the value.
func stripLeadingLabelPrefix(value string) string {
	out := value
	for {
		next := strings.TrimSpace(labelPrefixRe.ReplaceAllString(out, ""))
		if next == out {
			return out
		}
		out = next
	}
}

// cleanCompanyCandidate tidies a manufacturer/supplier candidate: leading
// bullets, inline label prefixes, registry parentheticals, trailing contact
// noise, and anything past a corporate suffix. Returns "" for strings that
// turn out to be section headers.
func cleanCompanyCandidate(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}

	s = bulletLeadRe.ReplaceAllString(s, "")
	s = companyLabelRe.ReplaceAllString(s, "")

	if sectionHeaderRe.MatchString(s) {
		return ""
	}

	s = registryParenRe.ReplaceAllString(s, "")

	if m := companyNoiseRe.FindStringIndex(s); m != nil {
		s = s[:m[0]]
	}
	if m := suffixClipRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	return strings.TrimSpace(trailingPunctRe.ReplaceAllString(s, ""))
}

// looksLikeNumericCode reports whether the candidate is primarily a numeric
// code (e.g. "0000003477"), typically a registration or document number,
// never a product name.
func looksLikeNumericCode(value string) bool {
	s := strings.TrimSpace(value)
	return len(s) >= 6 && !letterRe.MatchString(s) && digitRe.MatchString(s)
}

// collapseDoubles collapses consecutive duplicate alphabetic characters while
// keeping an index map back to the original string, so any match against the
// normalized form can be reported against original offsets. Digits,
// whitespace and punctuation are preserved untouched. This is applied only to
// label matching, never to values: a legitimate word like "Bitter" must not
// become "Biter".
func collapseDoubles(s string) (string, []int) {
	if s == "" {
		return "", nil
	}
	out := make([]rune, 0, len(s))
	idx := make([]int, 0, len(s))
	var prev rune
	havePrev := false
	for i, r := range s {
		if unicode.IsLetter(r) {
			low := unicode.ToLower(r)
			if havePrev && low == prev {
				// Point the mapping at the last index of the duplicate run.
				idx[len(idx)-1] = i
				continue
			}
			prev = low
			havePrev = true
		} else if !unicode.IsSpace(r) {
			havePrev = false
		}
		out = append(out, r)
		idx = append(idx, i)
	}
	return string(out), idx
}

// doubledLabelHeads are the label words recognized even when an OCR renderer
// doubles every character ("PPRROODDUUCCTT NNAAMMEE").
var doubledLabelHeads = [][]string{
	{"PRODUCT", "NAME"},
	{"PRODUCT", "IDENTIFIER"},
	{"TRADE", "NAME"},
	{"GHS", "PRODUCT", "IDENTIFIER"},
}

// stripDoubledLabelPrefix removes a leading label rendered with doubled
// letters, returning the remainder as the candidate value.
func stripDoubledLabelPrefix(text string) string {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return raw
	}
	parts := strings.Fields(raw)
	for _, head := range doubledLabelHeads {
		n := len(head)
		if len(parts) < n {
			continue
		}
		match := true
		for i, want := range head {
			norm, _ := collapseDoubles(parts[i])
			norm = strings.ToUpper(strings.Trim(norm, " :\t-._"))
			if norm != want {
				match = false
				break
			}
		}
		if match {
			remainder := strings.TrimLeft(strings.Join(parts[n:], " "), " :\t-._")
			if remainder = strings.TrimSpace(remainder); remainder != "" {
				return remainder
			}
			return raw
		}
	}
	return raw
}

// dedupRepeatedToken collapses values like "II II" to "II" when every
// whitespace-separated token is identical.
func dedupRepeatedToken(value string) string {
	toks := strings.Fields(value)
	if len(toks) < 2 {
		return value
	}
	for _, t := range toks[1:] {
		if !strings.EqualFold(t, toks[0]) {
			return value
		}
	}
	return toks[0]
}

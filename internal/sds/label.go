package sds

import (
	"regexp"
	"strings"
)

// maxValueLookahead bounds how many non-empty lines below a lone label are
// scanned for its value.
const maxValueLookahead = 5

var (
	contactBareRe = regexp.MustCompile(`(?i)\s+(?:Tel|Telephone|Phone|Fax|Email|Emergency)\b.*$`)
	productCodeRe = regexp.MustCompile(`(?i)product\s+code`)
)

// matchLabelLine tests a single line against one label pattern. It first
// tries the raw line, then a duplicate-collapsed copy to tolerate OCR
// renderers that double every letter of a label, mapping the value back to
// the original line so values are never corrupted by the normalization.
func matchLabelLine(line string, lp labelPattern) (value string, alone bool) {
	if m := lp.sameSep.FindStringSubmatchIndex(line); m != nil {
		return line[m[2]:m[3]], false
	}
	if m := lp.sameWS.FindStringSubmatchIndex(line); m != nil {
		return line[m[2]:m[3]], false
	}
	if lp.alone.MatchString(line) {
		return "", true
	}

	norm, idx := collapseDoubles(line)
	if norm == line {
		return "", false
	}
	if m := lp.sameSep.FindStringSubmatchIndex(norm); m != nil {
		return line[idx[m[2]]:], false
	}
	if m := lp.sameWS.FindStringSubmatchIndex(norm); m != nil {
		return line[idx[m[2]]:], false
	}
	if lp.alone.MatchString(norm) {
		return "", true
	}
	return "", false
}

// cleanCandidate applies the shared candidate cleanup: leading possessive
// artifacts, trailing contact blocks (labels are frequently concatenated
// with contact info in cramped table cells), trailing labels that share the
// line, page-number fragments, and separator punctuation.
func (p *Parser) cleanCandidate(value string) string {
	v := strings.TrimSpace(value)
	v = possessiveLeadRe.ReplaceAllString(v, "")
	v = contactBareRe.ReplaceAllString(v, "")
	if p.rules.contactCut != nil {
		if m := p.rules.contactCut.FindStringIndex(v); m != nil {
			v = v[:m[0]]
		}
	}
	for _, re := range p.rules.commonLabels {
		if m := re.FindStringIndex(v); m != nil {
			v = v[:m[0]]
			break
		}
	}
	v = trailingPageRe.ReplaceAllString(v, "")
	v = trailingSepRe.ReplaceAllString(v, "")
	return strings.TrimSpace(v)
}

// extractAfterLabel finds the first label occurrence in the section and
// returns the value that follows it, on the same line or on one of the next
// few lines. A candidate rejected as noise does not end the search: many
// documents have one noisy near-label line immediately followed by the true
// value, so the scan keeps looking. Lines are scanned in order and, within a
// line, label patterns in the caller's priority order; the first pattern
// that matches wins, not the most specific one.
func (p *Parser) extractAfterLabel(sectionText string, labels []labelPattern) string {
	if strings.TrimSpace(sectionText) == "" {
		return ""
	}
	lines := strings.Split(sectionText, "\n")

	for i, raw := range lines {
		clean := strings.TrimSpace(raw)
		if clean == "" {
			continue
		}

		for _, lp := range labels {
			value, alone := matchLabelLine(clean, lp)
			searchNext := alone

			if !alone && value != "" {
				v := p.cleanCandidate(value)
				switch {
				case v == "":
					searchNext = true
				case p.rules.isHeaderContinuation(v):
					// Wrapped remainder of the label header itself.
					searchNext = true
				case productCodeRe.MatchString(v):
					// A code reference, not the field value.
				case !p.noise.IsNoise(v):
					return v
				default:
					searchNext = true
				}
			}

			if searchNext {
				if v := p.valueFromFollowingLines(lines, i); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// valueFromFollowingLines scans up to maxValueLookahead non-empty lines
// below a label line for the first line that is neither another label nor
// noise.
func (p *Parser) valueFromFollowingLines(lines []string, labelIdx int) string {
	seen := 0
	for j := labelIdx + 1; j < len(lines) && seen < maxValueLookahead; j++ {
		candidate := strings.TrimSpace(lines[j])
		if candidate == "" {
			continue
		}
		seen++

		candidate = strings.TrimSpace(strings.TrimPrefix(candidate, ":"))
		if candidate == "" {
			continue
		}
		if p.rules.matchesAnyLabel(candidate) {
			// Ran into the next label; the value is not here.
			return ""
		}
		if p.noise.IsNoise(candidate) {
			// Screen the raw line first: cleanup could trim a noisy line
			// like "Emergency telephone" down to a plausible-looking word.
			continue
		}

		v := p.cleanCandidate(candidate)
		if v != "" && !p.rules.isHeaderContinuation(v) && !p.noise.IsNoise(v) {
			return v
		}
	}
	return ""
}

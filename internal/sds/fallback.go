package sds

import (
	"regexp"
	"strings"
)

// Bounds for the structural fallback scans.
const (
	productNameScanLines  = 20
	documentPrefixLines   = 15
	manufacturerScanLines = 15
	supplierBlockLines    = 10
	tableRowLookahead     = 3
)

var (
	sectionOneHeadRe  = regexp.MustCompile(`(?i)^\s*(?:section\s*)?1(?:\s|$)`)
	identKeywordRe    = regexp.MustCompile(`(?i)identification|supplier|manufacturer|emergency|contact|telephone|fax|email|web\s*site|details|address|synonym|regulation`)
	sdsBoilerplateRe  = regexp.MustCompile(`(?i)safety\s+data\s+sheet|according\s+to`)
	urlLikeRe         = regexp.MustCompile(`(?i)@|www\.|\.com|\.org`)
	transportTokenRe  = regexp.MustCompile(`(?i)proper\s+shipping\s+name|shipping\s+name|un\s+number|transport|hazchem|epg|chemical\s+formula|not\s+applicable`)
	dateHeaderLineRe  = regexp.MustCompile(`(?i)^(?:msds\s+date|sds\s+date|date\s+of\s+issue|revision\s+date|version\s+date)\b`)
	companySuffixRe   = regexp.MustCompile(`(?i)\b(?:Pty\s+Ltd|Ltd|Inc\.?|Corp\.?|Company|Corporation)\b`)
	productLabelAtRe  = regexp.MustCompile(`(?i)Product\s+Name\s*:`)
	supplierHeadingRe = regexp.MustCompile(`(?i)Details\s+of\s+the\s+supplier`)
	transportHazardRe = regexp.MustCompile(`(?i)Transport\s+hazard`)
	transportLabelRe  = regexp.MustCompile(`(?i)^.*?Transport\s+hazard\s*(?:class(?:\(es\))?)?\s*`)
	dgClassHeaderRe   = regexp.MustCompile(`(?i)DG\s*Class|Class\s*:`)
	packingHeaderRe   = regexp.MustCompile(`(?i)packing\s+group`)
	packingLabelRe    = regexp.MustCompile(`(?i)^.*?packing\s+group(?:\(s\))?\s*(?:\(if\s*applicable\))?\s*[:\-]?\s*`)
	cellSplitRe       = regexp.MustCompile(`\s{2,}|\t|\|`)
	tokenSplitRe      = regexp.MustCompile(`[\s|]+`)
)

// productNameFromLines scans the first meaningful lines of Section 1 (or of
// the whole document when Section 1 is unlocatable) and returns the first
// line that survives the label, boilerplate, noise, and numeric-code
// screens. This is the last resort for sheets that never label their
// product name.
func (p *Parser) productNameFromLines(text string, maxLines int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	for _, raw := range lines {
		clean := strings.TrimSpace(raw)
		if clean == "" {
			continue
		}
		if sectionOneHeadRe.MatchString(clean) || identKeywordRe.MatchString(clean) {
			continue
		}
		if strings.HasPrefix(clean, "(") || sdsBoilerplateRe.MatchString(clean) {
			continue
		}
		if dateHeaderLineRe.MatchString(clean) || transportTokenRe.MatchString(clean) {
			continue
		}
		if p.rules.isBareLabel(clean) || p.rules.isHeaderContinuation(clean) {
			continue
		}
		if p.noise.IsNoise(clean) {
			continue
		}

		candidate := leadNumPrefixRe.ReplaceAllString(clean, "")
		candidate = stripDoubledLabelPrefix(candidate)
		candidate = stripLeadingLabelPrefix(candidate)
		candidate = dedupRepeatedPhrase(candidate)

		if len(candidate) < 3 || len(candidate) > 100 {
			continue
		}
		if !letterRe.MatchString(candidate) && !digitRe.MatchString(candidate) {
			continue
		}
		if urlLikeRe.MatchString(candidate) || phoneInlineRe.MatchString(candidate) {
			continue
		}
		if looksLikeNumericCode(candidate) {
			// A registration or document number, not a product name.
			continue
		}
		return candidate
	}
	return ""
}

// manufacturerFromSupplierBlock finds a "Details of the supplier" heading
// and returns the first following line that is not noise and not a phone
// number.
func (p *Parser) manufacturerFromSupplierBlock(sectionText string) string {
	lines := strings.Split(sectionText, "\n")

	for i, raw := range lines {
		if !supplierHeadingRe.MatchString(raw) {
			continue
		}

		// Inline form: "Details of the supplier ...: Acme Pty Ltd".
		if ci := strings.Index(raw, ":"); ci >= 0 {
			inline := strings.TrimSpace(raw[ci+1:])
			if inline != "" && !p.noise.IsNoise(inline) {
				if v := cleanCompanyCandidate(inline); v != "" {
					return v
				}
			}
		}

		seen := 0
		for j := i + 1; j < len(lines) && seen < supplierBlockLines; j++ {
			clean := strings.TrimSpace(lines[j])
			if clean == "" {
				continue
			}
			seen++
			if len(clean) <= 3 || p.noise.IsNoise(clean) {
				continue
			}
			if phoneInlineRe.MatchString(clean) || sdsBoilerplateRe.MatchString(clean) {
				continue
			}
			if v := cleanCompanyCandidate(clean); v != "" {
				return v
			}
		}
	}
	return ""
}

// manufacturerFromCompanyLine scans for a line carrying a corporate-entity
// suffix, skipping "Product Name: ... Pty Ltd" false positives.
func (p *Parser) manufacturerFromCompanyLine(sectionText string, maxLines int) string {
	lines := strings.Split(sectionText, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	for _, raw := range lines {
		clean := strings.TrimSpace(raw)
		if clean == "" || !companySuffixRe.MatchString(clean) {
			continue
		}
		if productLabelAtRe.MatchString(clean) || p.noise.IsNoise(clean) {
			continue
		}
		if v := cleanCompanyCandidate(clean); v != "" {
			return v
		}
	}
	return ""
}

// dgClassFromTable extracts the dangerous-goods class from tabular Section
// 14 layouts where "label: value" matching fails. It prefers an explicit
// transport-hazard row, combining it with the next line to catch a
// "Transport hazard" / "class(es)" split header, then falls back to
// scanning the rows below a generic class header. When a row lists one
// class per transport mode (ADG, IMDG, IATA), the first class is the ADG
// column.
func (p *Parser) dgClassFromTable(sectionText string) string {
	lines := nonEmptyLines(sectionText)

	for i, line := range lines {
		if !transportHazardRe.MatchString(line) {
			continue
		}
		combined := line
		if i+1 < len(lines) {
			combined += " " + lines[i+1]
		}
		tail := transportLabelRe.ReplaceAllString(combined, "")
		for _, tok := range splitTokens(tail) {
			if p.validateDangerousGoodsClass(tok) {
				return tok
			}
		}
	}

	for i, line := range lines {
		if !dgClassHeaderRe.MatchString(line) {
			continue
		}
		for j := i; j < len(lines) && j <= i+maxValueLookahead; j++ {
			for _, tok := range splitTokens(lines[j]) {
				if p.validateDangerousGoodsClass(tok) {
					return tok
				}
			}
		}
	}
	return ""
}

// packingGroupFromTable extracts the packing group from tabular layouts:
// first from the header line itself, then from cells of the next few rows.
func (p *Parser) packingGroupFromTable(sectionText string) string {
	lines := strings.Split(sectionText, "\n")

	for i, line := range lines {
		if !packingHeaderRe.MatchString(line) {
			continue
		}

		tail := packingLabelRe.ReplaceAllString(line, "")
		for _, tok := range splitTokens(tail) {
			if p.validatePackingGroup(tok) {
				return tok
			}
		}

		for j := i + 1; j < len(lines) && j <= i+tableRowLookahead; j++ {
			row := strings.TrimSpace(lines[j])
			if row == "" {
				continue
			}
			for _, cell := range cellSplitRe.Split(row, -1) {
				cell = strings.Trim(strings.TrimSpace(cell), ",;")
				if cell != "" && p.validatePackingGroup(cell) {
					return cell
				}
			}
		}
	}
	return ""
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitTokens(s string) []string {
	var out []string
	for _, tok := range tokenSplitRe.Split(s, -1) {
		tok = strings.Trim(strings.TrimSpace(tok), ",;")
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

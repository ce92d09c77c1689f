package sds

import (
	"regexp"
	"strings"
)

// isoDate is the output format for every resolved date.
const isoDate = "2006-01-02"

var (
	// labeledDateRe captures a date-like substring together with up to 40
	// characters of preceding label text, so the resolver can rank
	// semantically authoritative labels (revision, issue) over decorative
	// ones (printing date, footer).
	labeledDateRe = regexp.MustCompile(`(?i)(\b(?:Revision(?:\s*Date)?|Issue\s*Date|Date\s*of\s*issue|Version\s*date|SDS\s*creation\s*date|Date\s*Prepared|Prepared\s*on|Issued|MSDS\s*Date|SDS\s*Date|Last\s*Updated|Last\s*Revision|Last\s*Revised|Updated\s*on|Last\s*Modified|Effective\s*Date|Print(?:ing)?\s*date|Printed(?:\s*on)?)[^\n]{0,40}?)[:\-]?\s*((?:\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})|(?:\d{4}-\d{2}-\d{2})|(?:\d{1,2}\s+[A-Za-z]+\.?,?\s+\d{4})|(?:[A-Za-z]+\.?\s+\d{1,2},?\s*\d{4})|(?:\d{1,2}[-/.][A-Za-z]{3,}\.?[-/.]\d{2,4})|(?:[A-Za-z]+\.?\s+\d{4}))`)

	// headerDateRes match bare "Revision: <date>" style running page
	// headers, the fallback when no labeled date appears in the body text.
	headerDateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Revision\s*(?:Date)?[:\s]+(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(?i)Revision\s*(?:Date)?[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		regexp.MustCompile(`(?i)Revision\s*(?:Date)?[:\s]+(\d{1,2}\s+[A-Za-z]+\.?\s+\d{4})`),
		regexp.MustCompile(`(?i)Rev[:\s]+(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(?i)Rev[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
		regexp.MustCompile(`(?i)Date[:\s]+(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(?i)Date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
	}
)

// headerScanLines bounds the page-header date fallback to the top of the
// document, where running headers appear.
const headerScanLines = 20

// extractIssueDate collects every labeled date candidate in the text,
// parses each with day-first precedence and future rejection, and picks the
// winner: the first candidate whose label contains a preferred key
// (issue/prepared/revision/... per the rule set) outranks everything else;
// otherwise the first valid candidate is kept. When nothing labeled parses,
// the page-header fallback scans the top of the document. The result is
// ISO-8601 or "".
func (p *Parser) extractIssueDate(text string) string {
	var fallback string

	for _, m := range labeledDateRe.FindAllStringSubmatch(text, -1) {
		label := strings.ToLower(m[1])
		candidate := strings.TrimSpace(m[2])

		d, ok := parseDate(candidate, p.now())
		if !ok {
			continue
		}
		iso := d.Format(isoDate)

		if p.labelPreferred(label) {
			return iso
		}
		if fallback == "" {
			fallback = iso
		}
	}
	if fallback != "" {
		return fallback
	}

	return p.dateFromHeader(text)
}

// labelPreferred reports whether a date label contains any of the
// authoritative keywords. The keyword order is a tunable policy carried in
// the rule set, not a hard-coded law.
func (p *Parser) labelPreferred(label string) bool {
	for _, key := range p.ruleSet.PreferredDateKeys {
		if strings.Contains(label, key) {
			return true
		}
	}
	return false
}

// dateFromHeader scans the first lines of the document for running-header
// date patterns ("Revision: 19 January 2024" at the top of every page).
func (p *Parser) dateFromHeader(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > headerScanLines {
		lines = lines[:headerScanLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, re := range headerDateRes {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if d, ok := parseDate(m[1], p.now()); ok {
				return d.Format(isoDate)
			}
		}
	}
	return ""
}

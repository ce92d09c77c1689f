package sds

import (
	"regexp"
	"strings"
	"time"
)

var (
	// dgClassRe accepts UN transport hazard classes 1-9 with an optional
	// single-digit subdivision. A 4-digit UN number like "1950" or an
	// out-of-range "14.5" must not pass.
	dgClassRe = regexp.MustCompile(`^[1-9](?:\.[1-9])?$`)

	// packingGroupRe accepts Roman numerals I-III plus IV/V for tolerance of
	// legacy sheets that still print the historical groups.
	packingGroupRe = regexp.MustCompile(`(?i)^(?:I{1,3}|IV|V)$`)

	monthDotRe = regexp.MustCompile(`\b([A-Za-z]{3,})\.`)
)

// validateDangerousGoodsClass reports whether s is an acceptable
// dangerous-goods class value: a class number or a recognized
// not-applicable phrase. This is the single most impactful validation in
// the pipeline: raw label extraction frequently picks up adjacent UN
// numbers or misreads multi-field table cells.
func (p *Parser) validateDangerousGoodsClass(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return dgClassRe.MatchString(s) || p.rules.isNotApplicable(s)
}

// validatePackingGroup reports whether s is a packing group Roman numeral or
// a recognized not-applicable phrase.
func (p *Parser) validatePackingGroup(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return packingGroupRe.MatchString(s) || p.rules.isNotApplicable(s)
}

// dateLayouts is the bounded set of accepted date formats. Day-first
// layouts come before month-first so DD/MM/YYYY, the common form in
// Australian and UK documents, wins the ambiguous cases.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2006-01-02",
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"2.Jan.2006",
	"2.Jan.06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"1/2/2006",
}

// monthOnlyLayouts handle dates printed without a day; the first of the
// month is assumed.
var monthOnlyLayouts = []string{"Jan 2006", "January 2006"}

// parseDate parses a candidate date string under the accepted formats and
// rejects dates in the future relative to now; a future date indicates a
// misparse (typically a day/month swap) rather than a real issue date.
func parseDate(s string, now time.Time) (time.Time, bool) {
	cleaned := strings.TrimSpace(monthDotRe.ReplaceAllString(s, "$1"))
	if cleaned == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, cleaned)
		if err != nil {
			continue
		}
		if d.After(now) {
			continue
		}
		return d, true
	}

	for _, layout := range monthOnlyLayouts {
		d, err := time.Parse(layout, cleaned)
		if err != nil {
			continue
		}
		d = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		if d.After(now) {
			continue
		}
		return d, true
	}

	return time.Time{}, false
}

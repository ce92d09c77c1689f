package sds

import (
	"regexp"
	"strconv"
	"strings"
)

// minSectionLength guards against pathological tiny matches from OCR noise.
const minSectionLength = 30

var (
	// sectionTopicKeywords tighten the header match for the sections we mine,
	// so a numbered list item that happens to start a line with "1." or "14."
	// is not mistaken for a section header.
	sectionTopicKeywords = map[int]*regexp.Regexp{
		1:  regexp.MustCompile(`(?i)identification`),
		14: regexp.MustCompile(`(?i)transport`),
	}

	// wordSectionRe matches an explicit "Section N" header; the word makes a
	// bare whitespace delimiter acceptable.
	wordSectionRe = regexp.MustCompile(`(?i)^\W*section\s*(\d{1,2})\b`)

	// numberHeaderRe matches "N." / "N:" / "N-" headers. The punctuation
	// delimiter is required so an address like "2 Fred Street" at a line
	// start is never read as a header.
	numberHeaderRe = regexp.MustCompile(`^\W{0,4}(\d{1,2})\s*[:.\-]\s`)

	// looseNumberRe accepts a bare number followed by whitespace, used only
	// by the relaxed start match for keyword-tightened sections.
	looseNumberRe = regexp.MustCompile(`^\W{0,4}(\d{1,2})[\s:.\-]`)

	subsectionTailRe = regexp.MustCompile(`^\W{0,4}\d{1,2}\.\d`)
)

// headerNumber parses a line as a section header, returning the section
// number. Subsection headings like "1.1" and page fractions like "1 / 10"
// are rejected.
func headerNumber(line string) (int, bool) {
	if m := wordSectionRe.FindStringSubmatch(line); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= 16 {
			return n, true
		}
	}
	if subsectionTailRe.MatchString(line) {
		return 0, false
	}
	if m := numberHeaderRe.FindStringSubmatch(line); m != nil {
		rest := line[len(m[0]):]
		if strings.HasPrefix(strings.TrimSpace(rest), "/") {
			return 0, false
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= 16 {
			return n, true
		}
	}
	return 0, false
}

// looseHeaderNumber is headerNumber without the punctuation requirement.
func looseHeaderNumber(line string) (int, bool) {
	if n, ok := headerNumber(line); ok {
		return n, true
	}
	if subsectionTailRe.MatchString(line) {
		return 0, false
	}
	if m := looseNumberRe.FindStringSubmatch(line); m != nil {
		rest := strings.TrimSpace(line[len(m[0]):])
		if strings.HasPrefix(rest, "/") {
			return 0, false
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= 16 {
			return n, true
		}
	}
	return 0, false
}

// Section slices the body of SDS section n out of the full document text.
// The body runs from the end of the section's own header line to the start
// of the next strictly greater numbered header, or end of document. Returns
// "" when no header is found under either the strict or the relaxed match;
// callers must treat that as "field not extractable from this section" and
// may fall back to whole-document heuristics.
func Section(text string, n int) string {
	lines := strings.Split(text, "\n")

	if body := sectionBody(lines, n, true); len(strings.TrimSpace(body)) >= minSectionLength {
		return body
	}
	return sectionBody(lines, n, false)
}

// sectionBody locates the header line for n and bounds the body at the next
// greater header. strict requires the topic keyword for keyword-tightened
// sections and a punctuation delimiter elsewhere.
func sectionBody(lines []string, n int, strict bool) string {
	keyword := sectionTopicKeywords[n]
	start := -1

	for i, line := range lines {
		var num int
		var ok bool
		if strict {
			num, ok = headerNumber(line)
			if ok && num == n && keyword != nil && !keyword.MatchString(line) {
				ok = false
			}
			// Keyword-tightened sections may carry OCR-mangled punctuation;
			// accept a loose number match as long as the keyword is present.
			if !ok && keyword != nil {
				if ln, lok := looseHeaderNumber(line); lok && ln == n && keyword.MatchString(line) {
					num, ok = ln, true
				}
			}
		} else {
			num, ok = looseHeaderNumber(line)
		}
		if ok && num == n {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := len(lines)
	for j := start + 1; j < len(lines); j++ {
		if num, ok := headerNumber(lines[j]); ok && num > n {
			end = j
			break
		}
	}

	return strings.Join(lines[start+1:end], "\n")
}

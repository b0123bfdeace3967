package textutil

import (
	"regexp"
	"strings"
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)
	corporateSuffixRegex = regexp.MustCompile(`\s+(LLC|LTD|LIMITED|INC|INCORPORATED|CORP|CORPORATION|PLC)$`)
)

// NormalizeName produces the comparison form of a firm or client name.
// It is used for identity matching only, never as display text.
//
// The result is upper-cased, stripped of punctuation and of trailing
// corporate-entity suffixes, with runs of whitespace collapsed to one
// space. Suffixes are stripped until none remain, which makes the
// function idempotent.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	name = strings.ToUpper(name)
	name = nonAlphanumericRegex.ReplaceAllString(name, "")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	name = strings.Trim(name, " \n\t")
	for {
		stripped := corporateSuffixRegex.ReplaceAllString(name, "")
		if stripped == name {
			break
		}
		name = stripped
	}
	return name
}

// MatchName reports whether a scraped name refers to the firm being
// queried, ignoring case, punctuation and suffix noise.
func MatchName(name, firm string) bool {
	name = NormalizeName(name)
	firm = NormalizeName(firm)
	if name == "" || firm == "" {
		return false
	}
	return strings.Contains(name, firm) || strings.Contains(firm, name)
}

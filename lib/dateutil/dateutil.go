package dateutil

import (
	"strings"
	"time"
)

// Known registry date layouts in priority order. Order matters: the first
// layout that parses the whole trimmed string wins, so DD/MM/YYYY is
// preferred over MM/DD/YYYY for ambiguous day/month values.
var layouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
	"2 January 2006",
	"January 2, 2006",
	"20060102",
}

// NormalizeDate coerces a free-text registry date into ISO YYYY-MM-DD.
//
// Empty input returns "". If no known layout parses, the trimmed original
// string is returned unchanged so the information survives into the output
// rather than being dropped.
func NormalizeDate(dateStr string) string {
	if dateStr == "" {
		return ""
	}
	trimmed := strings.TrimSpace(dateStr)
	if trimmed == "" {
		return ""
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		return t.Format("2006-01-02")
	}
	return trimmed
}

// IsISO reports whether NormalizeDate produced a real calendar date
// rather than falling back to the original string.
func IsISO(dateStr string) bool {
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}

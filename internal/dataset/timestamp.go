package dataset

import (
	"fmt"
	"strings"
	"time"
)

// cjkTimestampReplacer rewrites CJK date/time unit characters into the
// separators the layout table understands, e.g.
// "2023年7月15日8时30分15秒" becomes "2023/7/15 8:30:15".
var cjkTimestampReplacer = strings.NewReplacer(
	"年", "/",
	"月", "/",
	"日", " ",
	"时", ":",
	"分", ":",
	"秒", "",
)

// timestampLayouts are tried in order. Layouts with single-digit month
// and day tokens also accept zero-padded values, so "2023/7/5" and
// "2023/07/05" both land on the same entry.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"2006-1-2",
	"2006/1/2",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// NormalizeTimestampToken prepares a raw timestamp cell for parsing:
// CJK unit characters are rewritten to ASCII separators, whitespace
// runs collapse to a single space (the 日 rewrite can double up an
// existing space), and a dangling separator left by a trailing "分" is
// removed.
func NormalizeTimestampToken(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = cjkTimestampReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimSuffix(s, ":")
	return s
}

// ParseTimestamp parses a normalized timestamp token against the known
// layouts. Values carry no zone information and are interpreted as UTC.
func ParseTimestamp(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", token)
}

// ParseTimestampCell normalizes and parses a raw cell in one step.
func ParseTimestampCell(raw string) (time.Time, error) {
	return ParseTimestamp(NormalizeTimestampToken(raw))
}

// looksLikeTimestamp reports whether a raw cell parses under any known
// layout. Detection uses it to probe candidate columns.
func looksLikeTimestamp(raw string) bool {
	_, err := ParseTimestampCell(raw)
	return err == nil
}

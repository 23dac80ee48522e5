package report

import (
	"strconv"
	"strings"
)

// The directory and tour staff encode the same quantities several ways:
// speeds as "450" or "N0450", levels as "350", "FL350", "F350" or raw feet,
// flight rules as "I"/"V" or "IFR"/"VFR". These helpers normalize without
// ever failing; an unparseable value reports ok=false and the calling rule
// goes inert.

// firstNumber extracts the first run of digits in s as an integer.
func firstNumber(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return atoi(s[start:i])
		}
	}
	if start >= 0 {
		return atoi(s[start:])
	}
	return 0, false
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseSpeed reads a cruising speed in knots from encodings like "450" or
// "N0450". Mach encodings fall back to their numeric token, which is how the
// upstream data has always been read.
func parseSpeed(s string) (int, bool) {
	return firstNumber(strings.TrimSpace(s))
}

// parseLevel reads a flight level. A leading "FL", "F" or "A" marks the
// number as a level; a bare number of 1000 or more is altitude in feet and
// converts to its level.
func parseLevel(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	prefixed := strings.HasPrefix(s, "FL") || strings.HasPrefix(s, "F") || strings.HasPrefix(s, "A")
	n, ok := firstNumber(s)
	if !ok {
		return 0, false
	}
	if !prefixed && n >= 1000 {
		return n / 100, true
	}
	return n, true
}

// normalizeFlightRules maps single-letter filed rules to their long form.
func normalizeFlightRules(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "I", "IFR":
		return "IFR"
	case "V", "VFR":
		return "VFR"
	case "Y", "Z":
		// Mixed-rule plans keep their letter.
		return strings.ToUpper(strings.TrimSpace(s))
	default:
		return strings.ToUpper(strings.TrimSpace(s))
	}
}

// splitList breaks a rule value on commas and whitespace into an uppercased
// allow-list.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToUpper(f))
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

package schema

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CoerceOptions controls numeric coercion.
type CoerceOptions struct {
	// ThousandsSeparator is stripped before parsing when set (',', '.' or ' ').
	// A '.' separator implies a ',' decimal mark. Zero means strict parsing.
	ThousandsSeparator rune
}

// parseNumeric converts a raw cell to a float. Blank, text and symbol values
// report false; so do NaN and infinities, which are treated as missing.
func parseNumeric(s string, opt CoerceOptions) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00A0", " "))
	if raw == "" {
		return 0, false
	}
	switch sep := opt.ThousandsSeparator; sep {
	case 0:
	case '.':
		// 1.234,5 style: dot groups, comma decimal
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	default:
		raw = strings.ReplaceAll(raw, string(sep), "")
	}
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "0x") || strings.Contains(raw, "_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// padYearMonth zero-pads a year-month cell to six characters.
func padYearMonth(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 6 {
		s = strings.Repeat("0", 6-len(s)) + s
	}
	return s
}

// parseYearMonth turns an encoded year-month such as 202506 into the first day
// of that month. Anything that is not a 4-digit year and a valid month reports false.
func parseYearMonth(s string) (time.Time, bool) {
	v := padYearMonth(s) + "01"
	if len(v) != 8 {
		return time.Time{}, false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return time.Time{}, false
		}
	}
	t, err := time.Parse("20060102", v)
	if err != nil || t.Year() < 1000 {
		return time.Time{}, false
	}
	return t, true
}

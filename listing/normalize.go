package listing

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// Plausible model-year window for extracted 4-digit numbers. Anything outside
// is treated as engine displacement, mileage or price, not a year.
const (
	minYear = 1900
	maxYear = 2099
)

// NormalizeText collapses runs of whitespace (including newlines from markup)
// into single spaces and trims the result.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// YearFromText extracts the first plausible 4-digit year from free text.
// Returns 0 when no candidate is found.
func YearFromText(s string) int {
	digits := 0
	for i, r := range s {
		if unicode.IsDigit(r) {
			digits++
			continue
		}
		if digits == 4 {
			if y := parseYear(s[i-4 : i]); y != 0 {
				return y
			}
		}
		digits = 0
	}
	if digits == 4 {
		if y := parseYear(s[len(s)-4:]); y != 0 {
			return y
		}
	}
	return 0
}

// YearNear extracts a year from the text following the first occurrence of
// marker (e.g. "Letnik" on avto.net result rows). Falls back to 0 when the
// marker is absent or not followed by a plausible year.
func YearNear(s, marker string) int {
	idx := strings.Index(s, marker)
	if idx < 0 {
		return 0
	}
	return YearFromText(s[idx+len(marker):])
}

func parseYear(s string) int {
	y, err := strconv.Atoi(s)
	if err != nil || y < minYear || y > maxYear {
		return 0
	}
	return y
}

// PriceAmount parses a display price like "12.500 €" or "7.999,50 EUR" into
// a numeric value. European convention: '.' groups thousands, ',' marks the
// decimal. Returns 0 when no digits are present.
func PriceAmount(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}

	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return amount
}

// IDFromURL derives the source-assigned listing identity from an ad URL: the
// last non-empty path segment. Falls back to the raw URL when the path is
// empty or unparseable, so identity is never lost.
func IDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	segments := strings.Split(u.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return rawURL
}

// Package numfmt parses numbers the way Brazilian marketplace exports write
// them: "1.234,56", "1,234.56", "R$ 50,00", blank cells. Parsing is lenient
// on purpose: spreadsheet cells are frequently empty or malformed, so bad
// input yields zero instead of an error.
package numfmt

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var currencyTextPattern = regexp.MustCompile(`(?i)^\s*(R\$|BRL|EUR|USD)\s*|\s*(R\$|BRL|EUR|USD)\s*$`)

// ParseFloat parses a locale-formatted number. When both comma and dot are
// present, the rightmost one is the decimal separator and the other is a
// thousands separator; a lone comma is the decimal separator. Empty or
// non-numeric input yields 0.
func ParseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}

	cleaned = currencyTextPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.Map(func(r rune) rune {
		if r == '$' || r == '€' || r == '£' || r == ' ' || r == ' ' {
			return -1
		}
		return r
	}, cleaned)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || !hasDigit(cleaned) {
		return 0
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	if lastComma > lastDot {
		// Brazilian format: 1.234,56 -> comma is decimal
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else if lastDot > lastComma && lastComma >= 0 {
		// US format: 1,234.56 -> drop thousands commas
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	result, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return result
}

// ParseMoneyCents parses a locale-formatted monetary value to integer cents
func ParseMoneyCents(value string) int64 {
	return int64(math.Round(ParseFloat(value) * 100))
}

// ParseQuantity parses a quantity cell, rounding fractional values
func ParseQuantity(value string) int {
	return int(math.Round(ParseFloat(value)))
}

// FormatCents formats cents as a decimal string (e.g. 1299 -> "12.99")
func FormatCents(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100.0, 'f', 2, 64)
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

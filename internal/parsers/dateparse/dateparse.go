// Package dateparse parses the date formats seen across marketplace exports:
// ISO timestamps, slash-delimited day-first dates with optional time, and
// Excel serial numbers. Failures return nil and callers drop the record.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// excelEpoch is the Excel serial date epoch (1899-12-30, which absorbs the
// spreadsheet 1900 leap-year bug for all modern dates)
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	slashDatePattern  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})(?:\s+(\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)
	serialNumPattern  = regexp.MustCompile(`^\d+(\.\d+)?$`)
	isoDateOnlyFormat = "2006-01-02"
)

var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Flexible parses a date cell in any supported format. Slash-delimited dates
// are always read day-first ("03/04/2026" is April 3rd), never month-first.
// Returns nil when the value cannot be parsed.
func Flexible(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if m := slashDatePattern.FindStringSubmatch(value); m != nil {
		return parseDayFirst(m)
	}

	if serialNumPattern.MatchString(value) {
		return parseExcelSerial(value)
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// DateOnlyNoon parses a user-entered yyyy-mm-dd date and anchors it at midday
// UTC, so rendering the value in a negative-offset timezone cannot shift it
// to the previous day.
func DateOnlyNoon(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := time.Parse(isoDateOnlyFormat, value)
	if err != nil {
		return nil
	}
	noon := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
	return &noon
}

// Month parses a YYYY-MM token to the first day of that month (UTC).
// Returns nil on failure.
func Month(value string) *time.Time {
	value = strings.TrimSpace(value)
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return nil
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return &first
}

// MonthKey formats a timestamp as its YYYY-MM token
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func parseDayFirst(m []string) *time.Time {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}

	hour, minute, second := 0, 0, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
		if m[6] != "" {
			second, _ = strconv.Atoi(m[6])
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// Reject normalized overflow like 31/02
	if t.Day() != day || t.Month() != time.Month(month) {
		return nil
	}
	return &t
}

func parseExcelSerial(value string) *time.Time {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	// Serial 1 is 1899-12-31; anything below or absurdly high is not a date
	if serial < 1 || serial > 200000 {
		return nil
	}
	days := int(serial)
	frac := serial - float64(days)
	t := excelEpoch.AddDate(0, 0, days).Add(time.Duration(frac * 24 * float64(time.Hour)))
	return &t
}

package csv

import (
	"fmt"
	"strings"

	"github.com/lojista/backoffice-service/internal/parsers/charset"
)

// ParseRows parses CSV content into header-keyed row maps. The first row is
// the header; headers are trimmed and deduplicated by first occurrence. Cells
// missing from a row default to the empty string, so callers can probe any
// header without nil checks.
func ParseRows(content []byte, options ParserOptions) ([]map[string]string, error) {
	if options.QuoteChar == 0 {
		options.QuoteChar = '"'
	}

	decoded, err := charset.DecodeAuto(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	delimiter := options.Delimiter
	if delimiter == "" {
		delimiter = DetectDelimiterFromBytes(content)
	}
	delimRune := rune(delimiter[0])

	lines := splitLines(decoded)
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	headers := SplitLine(lines[0], delimRune, options.QuoteChar)
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	if !hasAnyHeader(headers) {
		return nil, fmt.Errorf("missing header row")
	}

	rows := make([]map[string]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}

		fields := SplitLine(line, delimRune, options.QuoteChar)
		row := make(map[string]string, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(fields) {
				value = strings.TrimSpace(fields[i])
			}
			if value != "" {
				empty = false
			}
			if _, seen := row[header]; !seen {
				row[header] = value
			}
		}

		if options.SkipEmptyRows && empty {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// splitLines splits content on \n, tolerating \r\n line endings
func splitLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func hasAnyHeader(headers []string) bool {
	for _, h := range headers {
		if h != "" {
			return true
		}
	}
	return false
}

package xlsx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseRows parses the first sheet of an XLSX workbook into header-keyed row
// maps, mirroring the CSV parser contract: the first row is the header and
// missing cells default to the empty string.
func ParseRows(content []byte) ([]map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rawRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rawRows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	headers := make([]string, len(rawRows[0]))
	hasHeader := false
	for i, h := range rawRows[0] {
		headers[i] = strings.TrimSpace(h)
		if headers[i] != "" {
			hasHeader = true
		}
	}
	if !hasHeader {
		return nil, fmt.Errorf("missing header row")
	}

	rows := make([]map[string]string, 0, len(rawRows)-1)
	for _, rawRow := range rawRows[1:] {
		row := make(map[string]string, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(rawRow) {
				value = strings.TrimSpace(rawRow[i])
			}
			if value != "" {
				empty = false
			}
			if _, seen := row[header]; !seen {
				row[header] = value
			}
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

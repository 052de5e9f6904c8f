package department

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportRow is one spreadsheet line after header mapping, before any
// validation. Line is 1-based and counts the header row.
type ImportRow struct {
	Line    int
	Name    string
	HodName string
}

type ImportRowResult struct {
	Line    int    `json:"line"`
	Name    string `json:"name,omitempty"`
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

type ImportReport struct {
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Rows     []ImportRowResult `json:"rows"`
}

// normalizeHeaderKey collapses a header cell to a comparable key:
// lowercased with spaces and underscores stripped, so "Department Name",
// "department_name" and "DEPARTMENTNAME" all match.
func normalizeHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// classifyHeader maps a raw header cell onto a known column. A cell
// containing "department" or exactly "name" is the department name; one
// containing "hod" is the head-of-department name.
func classifyHeader(cell string) string {
	key := normalizeHeaderKey(cell)
	switch {
	case strings.Contains(key, "hod"):
		return "hod_name"
	case strings.Contains(key, "department"), key == "name":
		return "name"
	default:
		return ""
	}
}

// ParseRows turns raw cell rows into ImportRows using the first row as
// the header. Split out from the workbook reader so the mapping logic is
// testable without xlsx fixtures.
func ParseRows(rows [][]string) ([]ImportRow, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook has no rows")
	}

	columns := make(map[int]string)
	for idx, cell := range rows[0] {
		if field := classifyHeader(cell); field != "" {
			columns[idx] = field
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no recognizable header row, expected a department name column")
	}

	var parsed []ImportRow
	for i, row := range rows[1:] {
		entry := ImportRow{Line: i + 2}
		for idx, cell := range row {
			switch columns[idx] {
			case "name":
				entry.Name = strings.TrimSpace(cell)
			case "hod_name":
				entry.HodName = strings.TrimSpace(cell)
			}
		}
		if entry.Name == "" && entry.HodName == "" {
			continue
		}
		parsed = append(parsed, entry)
	}
	return parsed, nil
}

// ReadWorkbook extracts the first sheet of an xlsx upload as raw rows.
func ReadWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

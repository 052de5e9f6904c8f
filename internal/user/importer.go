package user

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportRow is one spreadsheet line after header mapping. Line is
// 1-based and counts the header row.
type ImportRow struct {
	Line       int
	Name       string
	Email      string
	Password   string
	Role       string
	Department string
}

type ImportRowResult struct {
	Line    int    `json:"line"`
	Email   string `json:"email,omitempty"`
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

type ImportReport struct {
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Rows     []ImportRowResult `json:"rows"`
}

func normalizeHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// classifyHeader maps a raw header cell onto a known column. Checked in
// specificity order so "department name" lands on department, not name.
func classifyHeader(cell string) string {
	key := normalizeHeaderKey(cell)
	switch {
	case strings.Contains(key, "email"):
		return "email"
	case strings.Contains(key, "password"):
		return "password"
	case strings.Contains(key, "role"):
		return "role"
	case strings.Contains(key, "department"):
		return "department"
	case strings.Contains(key, "name"):
		return "name"
	default:
		return ""
	}
}

// ParseRows turns raw cell rows into ImportRows using the first row as
// the header.
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
		return nil, fmt.Errorf("no recognizable header row, expected email and password columns")
	}

	var parsed []ImportRow
	for i, row := range rows[1:] {
		entry := ImportRow{Line: i + 2}
		empty := true
		for idx, cell := range row {
			value := strings.TrimSpace(cell)
			if value != "" {
				empty = false
			}
			switch columns[idx] {
			case "name":
				entry.Name = value
			case "email":
				entry.Email = value
			case "password":
				entry.Password = cell
			case "role":
				entry.Role = strings.ToLower(value)
			case "department":
				entry.Department = value
			}
		}
		if empty {
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

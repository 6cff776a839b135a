package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// readSheet returns all rows of the named sheet, or of the first sheet when name is empty.
// With raw set, cells come back without their number format applied, so date
// cells read as Excel serial numbers.
func readSheet(path, name string, raw bool) (string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		name = sheets[0]
	}
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: raw})
	if err != nil {
		return "", nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return name, rows, nil
}

// findHeader locates the first row holding every wanted header and maps each
// header (lower-cased) to its column index.
func findHeader(rows [][]string, wanted ...string) (int, map[string]int, bool) {
	for i, row := range rows {
		cols := make(map[string]int, len(row))
		for j, cell := range row {
			key := normalizeHeader(cell)
			if _, dup := cols[key]; key != "" && !dup {
				cols[key] = j
			}
		}
		found := true
		for _, w := range wanted {
			if _, ok := cols[normalizeHeader(w)]; !ok {
				found = false
				break
			}
		}
		if found {
			return i, cols, true
		}
	}
	return -1, nil, false
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// cell returns the trimmed cell at index i, or "" for short rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Package decode converts uploaded file bytes into the canonical text form
// consumed by the analysis pipeline.
package decode

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/fiscalia/fiscalia-api/internal/domain/analysis"
)

// Decode dispatches on the file extension and returns the canonical text:
// a pretty-printed JSON array of row objects keyed by the header row.
func Decode(data []byte, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return decodeCSV(data)
	case ".xlsx":
		return decodeXLSX(data)
	case ".xls":
		return decodeXLS(data)
	case ".pdf":
		return "", analysis.ErrFeatureDisabled
	default:
		return "", analysis.ErrUnsupportedFormat
	}
}

func decodeCSV(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrDecode, err)
	}
	if len(records) == 0 {
		return "[]", nil
	}
	return rowsToJSON(records[0], records[1:])
}

func decodeXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrDecode, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "[]", nil
	}
	// First sheet only, matching the upstream spreadsheet contract.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrDecode, err)
	}
	if len(rows) == 0 {
		return "[]", nil
	}
	return rowsToJSON(rows[0], rows[1:])
}

// decodeXLS reads the legacy BIFF container, which excelize does not open.
func decodeXLS(data []byte) (string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrDecode, err)
	}
	if wb.NumSheets() == 0 {
		return "[]", nil
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return "[]", nil
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return "[]", nil
	}
	return rowsToJSON(rows[0], rows[1:])
}

// rowsToJSON maps each data row onto the header cells. Short rows leave the
// trailing keys empty; extra cells beyond the header are keyed by index.
func rowsToJSON(header []string, rows [][]string) (string, error) {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(header))
		for i, key := range header {
			if key == "" {
				key = strconv.Itoa(i)
			}
			if i < len(row) {
				obj[key] = row[i]
			} else {
				obj[key] = ""
			}
		}
		for i := len(header); i < len(row); i++ {
			obj[strconv.Itoa(i)] = row[i]
		}
		out = append(out, obj)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrDecode, err)
	}
	return string(b), nil
}

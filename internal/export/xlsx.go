// Package export renders stored reports as spreadsheets.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"vehicle-rental-backend/internal/domain"
)

const (
	summarySheet  = "Summary"
	maxSheetName  = 31
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ContentType is the media type of the workbooks produced here.
func ContentType() string {
	return xlsxMediaType
}

// Filename is the download name of the workbook for rp.
func Filename(rp *domain.Report) string {
	return fmt.Sprintf("report-%d-%s-%s_%s.xlsx", rp.ID, rp.Type,
		rp.StartDate.Format(domain.DateLayout), rp.EndDate.Format(domain.DateLayout))
}

// ReportWorkbook writes the report header and its scalar figures to a Summary
// sheet, and each breakdown (daily revenue, per-type figures and so on) to a
// sheet of its own with keys in ascending order.
func ReportWorkbook(rp *domain.Report) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal(rp.Data, &data); err != nil {
		return nil, fmt.Errorf("error decoding report data: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating style: %w", err)
	}

	rows := [][]any{
		{"Title", rp.Title},
		{"Type", string(rp.Type)},
		{"Start date", rp.StartDate.Format(domain.DateLayout)},
		{"End date", rp.EndDate.Format(domain.DateLayout)},
		{"Generated at", rp.CreatedAt.UTC().Format("2006-01-02 15:04:05")},
	}
	if rp.GeneratorName != "" {
		rows = append(rows, []any{"Generated by", rp.GeneratorName})
	}

	keys := sortedKeys(data)
	var breakdowns []string
	for _, k := range keys {
		if _, ok := data[k].(map[string]any); ok {
			breakdowns = append(breakdowns, k)
			continue
		}
		rows = append(rows, []any{label(k), data[k]})
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return nil, err
	}
	f.SetColWidth(summarySheet, "A", "A", 24)
	f.SetColWidth(summarySheet, "B", "B", 30)
	f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle)

	for _, k := range breakdowns {
		if err := writeBreakdown(f, k, data[k].(map[string]any), headerStyle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing Excel file to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// writeBreakdown renders a map of scalars as key/value rows and a map of
// objects as a table with one column per object field.
func writeBreakdown(f *excelize.File, key string, m map[string]any, headerStyle int) error {
	sheet := sheetName(key)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("error creating sheet %s: %w", sheet, err)
	}

	var columns []string
	seen := map[string]bool{}
	for _, v := range m {
		if obj, ok := v.(map[string]any); ok {
			for c := range obj {
				if !seen[c] {
					seen[c] = true
					columns = append(columns, c)
				}
			}
		}
	}
	sort.Strings(columns)

	header := []any{"Key"}
	if len(columns) == 0 {
		header = append(header, "Value")
	}
	for _, c := range columns {
		header = append(header, label(c))
	}
	rows := [][]any{header}

	for _, k := range sortedKeys(m) {
		row := []any{k}
		obj, isObj := m[k].(map[string]any)
		switch {
		case len(columns) == 0:
			row = append(row, m[k])
		case isObj:
			for _, c := range columns {
				row = append(row, obj[c])
			}
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}

	last, _ := excelize.ColumnNumberToName(len(header))
	f.SetColWidth(sheet, "A", last, 18)
	return f.SetRowStyle(sheet, 1, 1, headerStyle)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("error writing %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// label turns a snake_case key into "Snake case".
func label(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sheetName(key string) string {
	s := label(key)
	if len(s) > maxSheetName {
		s = s[:maxSheetName]
	}
	return s
}

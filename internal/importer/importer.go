// Package importer reads shape and world grids from plain text, CSV and
// Excel files. CSV delimiters are detected automatically and spreadsheet
// cells accept the usual spellings of true and false.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/shapefit/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation. Grid is only
// meaningful when Errors is empty.
type ImportResult struct {
	Grid     model.Grid
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced a grid.
func (r ImportResult) OK() bool { return len(r.Errors) == 0 }

// cellValues maps accepted cell spellings (lowercase) to their value.
var cellValues = map[string]bool{
	"1": true, "x": true, "#": true, "*": true, "true": true, "yes": true, "on": true,
	"": false, "0": false, ".": false, "-": false, "false": false, "no": false, "off": false,
}

// parseCell converts a cell string to a value. It returns false for
// unrecognized text along with ok=false so the caller can warn.
func parseCell(s string) (value, ok bool) {
	v, ok := cellValues[strings.ToLower(strings.TrimSpace(s))]
	return v, ok
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportFile picks an importer by file extension: .txt, .csv, or
// .xlsx/.xlsm.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".grid":
		return ImportText(path)
	case ".csv", ".tsv":
		return ImportCSV(path)
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type '%s'", filepath.Ext(path))}}
	}
}

// ImportText imports a grid drawn as text, one row per line, one character
// per cell. Blank lines are skipped.
func ImportText(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	return ImportTextFromReader(bytes.NewReader(data))
}

// ImportTextFromReader imports a text grid from a reader.
func ImportTextFromReader(r io.Reader) ImportResult {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read text: %v", err)}}
	}

	var rows [][]string
	var lineNums []int
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		cells := make([]string, 0, len(line))
		for _, ch := range line {
			cells = append(cells, string(ch))
		}
		rows = append(rows, cells)
		lineNums = append(lineNums, i+1)
	}
	if len(rows) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}
	return importFromRows(rows, "Line", lineNums, nil)
}

// ImportCSV imports a grid from a CSV file, one record per row.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil, warnings)
}

// ImportCSVFromReader imports a grid from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}
	return importFromRows(records, "Line", nil, nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1
	return csvReader.ReadAll()
}

// ImportExcel imports a grid from the first sheet of an Excel workbook.
// Each cell of the used range is one grid cell.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if isEmptySheet(rows) {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil, nil)
}

func isEmptySheet(rows [][]string) bool {
	for _, row := range rows {
		if !isEmptyRow(row) {
			return false
		}
	}
	return true
}

// importFromRows is the shared import logic for text, CSV and Excel data.
// Trailing empty rows are dropped; interior empty rows are all-false rows.
// Short rows are padded with false. lineNums, when set, gives the source
// line of each row for messages.
func importFromRows(rows [][]string, rowPrefix string, lineNums []int, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	for len(rows) > 0 && isEmptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	width := 0
	for _, row := range rows {
		// Trailing blank cells do not widen the grid.
		n := len(row)
		for n > 0 && strings.TrimSpace(row[n-1]) == "" {
			n--
		}
		width = max(width, n)
	}

	cells := make([][]bool, len(rows))
	padded := 0
	for i, row := range rows {
		lineNum := i + 1
		if lineNums != nil {
			lineNum = lineNums[i]
		}
		cells[i] = make([]bool, width)
		if len(row) < width {
			padded++
		}
		for c := 0; c < width && c < len(row); c++ {
			v, ok := parseCell(row[c])
			if !ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s %d: Unknown cell value '%s' in column %d, treating as empty", rowPrefix, lineNum, strings.TrimSpace(row[c]), c+1))
			}
			cells[i][c] = v
		}
	}
	if padded > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Padded %d short row(s) to width %d", padded, width))
	}

	g, err := model.FromRows(cells)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.Grid = g
	return result
}

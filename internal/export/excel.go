package export

import (
	"fmt"

	"github.com/piwi3910/shapefit/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names used by ExportExcel.
const (
	SheetWorld   = "World"
	SheetShape   = "Shape"
	SheetSummary = "Summary"
)

// cellMarks are the values written into grid cells. They read back as
// true and false through the importer.
var cellMarks = map[model.CellState]string{
	model.CellEmpty:        "",
	model.CellFull:         "x",
	model.CellEmptyOverlap: "",
	model.CellFullOverlap:  "x",
}

// ExportExcel writes the report as a workbook: the world with the placed
// shape coloured in, the shape, and a summary sheet.
func ExportExcel(path string, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetWorld); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetShape); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}

	styles, err := newStateStyles(f)
	if err != nil {
		return err
	}
	if err := writeGridSheet(f, SheetWorld, report.Overlay(), styles); err != nil {
		return err
	}
	if err := writeGridSheet(f, SheetShape, gridStates(report.Shape), styles); err != nil {
		return err
	}
	if err := writeSummarySheet(f, report); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

// newStateStyles registers one solid fill per cell state.
func newStateStyles(f *excelize.File) (map[model.CellState]int, error) {
	styles := make(map[model.CellState]int, len(stateColors))
	for state, col := range stateColors {
		font := &excelize.Font{Color: "#000000"}
		if state == model.CellFull {
			font.Color = "#FFFFFF"
		}
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{col.hex()}, Pattern: 1},
			Font:      font,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border: []excelize.Border{
				{Type: "left", Color: lineColor.hex(), Style: 1},
				{Type: "top", Color: lineColor.hex(), Style: 1},
				{Type: "right", Color: lineColor.hex(), Style: 1},
				{Type: "bottom", Color: lineColor.hex(), Style: 1},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create style for %s: %w", state, err)
		}
		styles[state] = id
	}
	return styles, nil
}

// writeGridSheet writes one cell per grid cell starting at A1, with square
// columns.
func writeGridSheet(f *excelize.File, sheet string, cells [][]model.CellState, styles map[model.CellState]int) error {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil
	}
	lastCol, err := excelize.ColumnNumberToName(len(cells[0]))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 2.7); err != nil {
		return err
	}
	for r, row := range cells {
		if err := f.SetRowHeight(sheet, r+1, 15); err != nil {
			return err
		}
		for c, s := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if mark := cellMarks[s]; mark != "" {
				if err := f.SetCellValue(sheet, ref, mark); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(sheet, ref, ref, styles[s]); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, report Report) error {
	info := report.Info()
	counts := model.OverlayCounts(report.Overlay())
	rows := [][]interface{}{
		{"Title", report.Title},
		{"Run ID", info.RunID},
		{"Found", info.Found},
		{"Orientation", info.Orientation},
		{"Row", info.Row},
		{"Column", info.Col},
		{"Placements tested", info.Tested},
		{"Placements total", info.Total},
		{"World size", fmt.Sprintf("%d x %d", info.WorldRows, info.WorldCols)},
		{"Shape size", fmt.Sprintf("%d x %d", info.ShapeRows, info.ShapeCols)},
		{"Covered world cells", counts[model.CellFullOverlap]},
		{"Uncovered world cells", counts[model.CellFull]},
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, row := range rows {
		for j, v := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetSummary, ref, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 24)
}

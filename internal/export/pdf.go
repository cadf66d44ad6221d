package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/shapefit/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0

	// sideWidth is reserved on the right for the shape preview, legend
	// and QR code.
	sideWidth = 70.0
	reportQR  = 40.0
)

// ExportPDF writes a one-page report: the world with the placed shape
// highlighted, the shape itself, a legend and a QR code of the outcome.
func ExportPDF(path string, report Report) error {
	if report.World.Rows() == 0 || report.World.Cols() == 0 {
		return fmt.Errorf("world is empty")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	if err := renderReportPage(pdf, report); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

func renderReportPage(pdf *fpdf.Fpdf, report Report) error {
	title := report.Title
	if title == "" {
		title = "Shape Fit Report"
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("World: %d x %d | Shape: %d x %d | Result: %s",
		report.World.Rows(), report.World.Cols(), report.Shape.Rows(), report.Shape.Cols(), report.Summary())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// World drawing fills the left part of the page.
	drawWidth := pageWidth - marginLeft - marginRight - sideWidth - 5
	drawHeight := pageHeight - drawAreaTop - marginBottom - 5
	overlay := report.Overlay()
	drawCells(pdf, overlay, marginLeft, drawAreaTop, drawWidth, drawHeight)

	// Shape preview, unplaced, in the side column.
	sideX := pageWidth - marginRight - sideWidth
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(sideX, drawAreaTop)
	pdf.CellFormat(sideWidth, 5, "Shape", "", 0, "L", false, 0, "")
	drawCells(pdf, gridStates(report.Shape), sideX, drawAreaTop+6, sideWidth, 50)

	legendY := drawAreaTop + 60
	drawLegend(pdf, sideX, legendY, model.OverlayCounts(overlay))

	if err := drawReportQR(pdf, report, sideX, pageHeight-marginBottom-reportQR-5); err != nil {
		return err
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	footer := "Generated by ShapeFit"
	if !report.CreatedAt.IsZero() {
		footer += " on " + report.CreatedAt.Format("2006-01-02 15:04 MST")
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, footer, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// gridStates classifies a bare grid with no placement.
func gridStates(g model.Grid) [][]model.CellState {
	return model.Overlay(model.NewGrid(0, 0), g, model.NotFound)
}

// drawCells scales the cells to fit the box and draws them from the
// top-left corner. Grid lines are skipped when cells get too small to see
// them.
func drawCells(pdf *fpdf.Fpdf, cells [][]model.CellState, x, y, w, h float64) {
	rows := len(cells)
	if rows == 0 || len(cells[0]) == 0 {
		return
	}
	cols := len(cells[0])
	size := math.Min(w/float64(cols), h/float64(rows))

	lines := size >= 1.5
	if lines {
		pdf.SetDrawColor(lineColor.R, lineColor.G, lineColor.B)
		pdf.SetLineWidth(0.1)
	}
	style := "F"
	if lines {
		style = "FD"
	}
	for r, row := range cells {
		for c, s := range row {
			col := stateColors[s]
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.Rect(x+float64(c)*size, y+float64(r)*size, size, size, style)
		}
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.4)
	pdf.Rect(x, y, float64(cols)*size, float64(rows)*size, "D")
}

// drawLegend renders a swatch and cell count for each state.
func drawLegend(pdf *fpdf.Fpdf, x, y float64, counts map[model.CellState]int) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(x, y)
	pdf.CellFormat(sideWidth, 5, "Legend", "", 0, "L", false, 0, "")
	y += 6

	entries := []struct {
		state model.CellState
		label string
	}{
		{model.CellFull, "World cell"},
		{model.CellEmpty, "Empty cell"},
		{model.CellFullOverlap, "Shape on world cell"},
		{model.CellEmptyOverlap, "Shape on empty cell"},
	}
	pdf.SetFont("Helvetica", "", 8)
	for _, e := range entries {
		col := stateColors[e.state]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(lineColor.R, lineColor.G, lineColor.B)
		pdf.SetLineWidth(0.1)
		pdf.Rect(x, y+0.5, 3, 3, "FD")
		pdf.SetXY(x+5, y)
		pdf.CellFormat(sideWidth-5, 4, fmt.Sprintf("%s: %d", e.label, counts[e.state]), "", 0, "L", false, 0, "")
		y += 5
	}
}

func drawReportQR(pdf *fpdf.Fpdf, report Report, x, y float64) error {
	data, err := json.Marshal(report.Info())
	if err != nil {
		return fmt.Errorf("failed to marshal report info: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	name := "qr_report_" + report.RunID
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(name, x, y, reportQR, reportQR, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

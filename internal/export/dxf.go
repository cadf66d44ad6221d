package export

import (
	"fmt"

	"github.com/piwi3910/shapefit/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names.
const (
	LayerWorld   = "WORLD"
	LayerOverlay = "OVERLAY"
)

// DefaultCellSize is the DXF edge length of one grid cell, in drawing units.
const DefaultCellSize = 10.0

// ExportDXF writes the outlines of the world's true regions on the WORLD
// layer and the outline of the placed shape on the OVERLAY layer. Row 0 is
// at the top; DXF y grows upwards.
func ExportDXF(path string, report Report, cellSize float64) error {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	d := dxf.NewDrawing()

	overlay := report.Overlay()
	if _, err := d.AddLayer(LayerWorld, color.White, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerWorld, err)
	}
	for _, e := range outlineEdges(overlay, func(s model.CellState) bool {
		return s == model.CellFull || s == model.CellFullOverlap
	}) {
		if err := drawEdge(d, e, len(overlay), cellSize); err != nil {
			return err
		}
	}

	if report.Result.Found {
		if _, err := d.AddLayer(LayerOverlay, color.Red, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", LayerOverlay, err)
		}
		for _, e := range outlineEdges(overlay, model.CellState.Covered) {
			if err := drawEdge(d, e, len(overlay), cellSize); err != nil {
				return err
			}
		}
	}

	return d.SaveAs(path)
}

// edge is a unit segment on the cell lattice, in (row, col) corner
// coordinates.
type edge struct {
	r1, c1, r2, c2 int
}

// outlineEdges returns the lattice edges separating cells that satisfy in
// from cells that do not (or from the outside), in row-major order.
func outlineEdges(cells [][]model.CellState, in func(model.CellState) bool) []edge {
	rows := len(cells)
	inside := func(r, c int) bool {
		return r >= 0 && r < rows && c >= 0 && c < len(cells[r]) && in(cells[r][c])
	}
	var edges []edge
	for r := 0; r < rows; r++ {
		for c := range cells[r] {
			if !inside(r, c) {
				continue
			}
			if !inside(r-1, c) {
				edges = append(edges, edge{r, c, r, c + 1})
			}
			if !inside(r+1, c) {
				edges = append(edges, edge{r + 1, c, r + 1, c + 1})
			}
			if !inside(r, c-1) {
				edges = append(edges, edge{r, c, r + 1, c})
			}
			if !inside(r, c+1) {
				edges = append(edges, edge{r, c + 1, r + 1, c + 1})
			}
		}
	}
	return edges
}

func drawEdge(d *drawing.Drawing, e edge, rows int, cellSize float64) error {
	x1, y1 := float64(e.c1)*cellSize, float64(rows-e.r1)*cellSize
	x2, y2 := float64(e.c2)*cellSize, float64(rows-e.r2)*cellSize
	if _, err := d.Line(x1, y1, 0, x2, y2, 0); err != nil {
		return fmt.Errorf("failed to draw line: %w", err)
	}
	return nil
}

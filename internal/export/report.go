// Package export writes search results to PDF, Excel and DXF files.
// Every format draws the world from model.Overlay, so the files agree with
// the on-screen canvas cell for cell.
package export

import (
	"fmt"
	"time"

	"github.com/piwi3910/shapefit/internal/engine"
	"github.com/piwi3910/shapefit/internal/model"
)

// Report is one finished search, ready to export.
type Report struct {
	Title     string
	RunID     string
	Shape     model.Grid
	World     model.Grid
	Result    model.MatchResult
	Stats     engine.Stats
	CreatedAt time.Time
}

// NewReport builds a Report stamped with the current time.
func NewReport(title, runID string, shape, world model.Grid, result model.MatchResult, stats engine.Stats) Report {
	return Report{
		Title:     title,
		RunID:     runID,
		Shape:     shape,
		World:     world,
		Result:    result,
		Stats:     stats,
		CreatedAt: time.Now().UTC(),
	}
}

// Overlay returns the classified world cells for this report.
func (r Report) Overlay() [][]model.CellState {
	return model.Overlay(r.Shape, r.World, r.Result)
}

// Summary returns a one-line description of the outcome.
func (r Report) Summary() string {
	return fmt.Sprintf("%s after %d of %d placements", r.Result, r.Stats.Tested, r.Stats.Total)
}

// ReportInfo holds the data encoded into a report's QR code.
type ReportInfo struct {
	RunID       string `json:"run_id,omitempty"`
	Found       bool   `json:"found"`
	Orientation string `json:"orientation,omitempty"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	ShapeRows   int    `json:"shape_rows"`
	ShapeCols   int    `json:"shape_cols"`
	WorldRows   int    `json:"world_rows"`
	WorldCols   int    `json:"world_cols"`
	Tested      int    `json:"tested"`
	Total       int    `json:"total"`
}

// Info extracts the QR payload for the report.
func (r Report) Info() ReportInfo {
	info := ReportInfo{
		RunID:     r.RunID,
		Found:     r.Result.Found,
		ShapeRows: r.Shape.Rows(),
		ShapeCols: r.Shape.Cols(),
		WorldRows: r.World.Rows(),
		WorldCols: r.World.Cols(),
		Tested:    r.Stats.Tested,
		Total:     r.Stats.Total,
	}
	if r.Result.Found {
		info.Orientation = r.Result.Placement.Orientation.String()
		info.Row = r.Result.Placement.Row
		info.Col = r.Result.Placement.Col
	}
	return info
}

// rgb is a display colour shared by the PDF and Excel renderers.
type rgb struct {
	R, G, B int
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// stateColors mirrors the grid canvas: black and white cells, with the
// placed shape in grey.
var stateColors = map[model.CellState]rgb{
	model.CellEmpty:        {R: 255, G: 255, B: 255},
	model.CellFull:         {R: 0, G: 0, B: 0},
	model.CellEmptyOverlap: {R: 204, G: 204, B: 204},
	model.CellFullOverlap:  {R: 136, G: 136, B: 136},
}

// lineColor is used for grid lines.
var lineColor = rgb{R: 96, G: 96, B: 96}

package widgets

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/shapefit/internal/engine"
	"github.com/piwi3910/shapefit/internal/model"
)

var _ engine.SolutionSink = (*GridCanvas)(nil)

// Cell colours: black and white cells, with a displayed placement in grey.
var stateColors = map[model.CellState]color.NRGBA{
	model.CellEmpty:        {R: 255, G: 255, B: 255, A: 255},
	model.CellFull:         {R: 0, G: 0, B: 0, A: 255},
	model.CellEmptyOverlap: {R: 204, G: 204, B: 204, A: 255},
	model.CellFullOverlap:  {R: 136, G: 136, B: 136, A: 255},
}

var gridLineColor = color.NRGBA{R: 96, G: 96, B: 96, A: 255}

// minLinePixels is the smallest cell, in pixels, that still gets grid lines.
const minLinePixels = 5

// GridCanvas draws a boolean grid as square cells. When a shape is set, a
// displayed placement is drawn over the grid in grey.
//
// GridCanvas implements engine.SolutionSink, so a running search can drive
// it directly from its own goroutine; redraws are handed to the UI thread
// with fyne.Do.
type GridCanvas struct {
	widget.BaseWidget

	// OnCellTapped is called on the UI thread with the tapped cell while the
	// canvas is editable.
	OnCellTapped func(row, col int)

	mu       sync.RWMutex
	grid     model.Grid
	shape    model.Grid
	result   model.MatchResult
	states   [][]model.CellState
	editable bool
}

// NewGridCanvas creates a canvas showing a copy of g.
func NewGridCanvas(g model.Grid) *GridCanvas {
	gc := &GridCanvas{grid: g.Clone(), editable: true}
	gc.restate()
	gc.ExtendBaseWidget(gc)
	return gc
}

// restate recomputes the cell states. Callers hold mu.
func (gc *GridCanvas) restate() {
	gc.states = model.Overlay(gc.shape, gc.grid, gc.result)
}

// SetGrid replaces the drawn grid and clears any displayed placement.
func (gc *GridCanvas) SetGrid(g model.Grid) {
	gc.mu.Lock()
	gc.grid = g.Clone()
	gc.result = model.NotFound
	gc.restate()
	gc.mu.Unlock()
	gc.Refresh()
}

// Grid returns a copy of the drawn grid.
func (gc *GridCanvas) Grid() model.Grid {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return gc.grid.Clone()
}

// SetShape sets the shape used to draw placements.
func (gc *GridCanvas) SetShape(shape model.Grid) {
	gc.mu.Lock()
	gc.shape = shape.Clone()
	gc.restate()
	gc.mu.Unlock()
	gc.Refresh()
}

// SetResult shows a placement, or clears it for a not-found result.
func (gc *GridCanvas) SetResult(result model.MatchResult) {
	gc.mu.Lock()
	gc.result = result
	gc.restate()
	gc.mu.Unlock()
	gc.Refresh()
}

// Result returns the placement currently displayed.
func (gc *GridCanvas) Result() model.MatchResult {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return gc.result
}

// SetEditable enables or disables tap editing.
func (gc *GridCanvas) SetEditable(editable bool) {
	gc.mu.Lock()
	gc.editable = editable
	gc.mu.Unlock()
}

// Display shows the shape at the given placement. Safe to call from any
// goroutine.
func (gc *GridCanvas) Display(row, col int, o model.Orientation) {
	gc.mu.Lock()
	gc.result = model.Found(model.Placement{Orientation: o, Row: row, Col: col})
	gc.restate()
	gc.mu.Unlock()
	fyne.Do(gc.Refresh)
}

// Undisplay clears the displayed placement. Safe to call from any
// goroutine.
func (gc *GridCanvas) Undisplay() {
	gc.mu.Lock()
	gc.result = model.NotFound
	gc.restate()
	gc.mu.Unlock()
	fyne.Do(gc.Refresh)
}

// Tapped reports the tapped cell to OnCellTapped.
func (gc *GridCanvas) Tapped(ev *fyne.PointEvent) {
	gc.mu.RLock()
	editable := gc.editable
	rows, cols := gc.grid.Rows(), gc.grid.Cols()
	gc.mu.RUnlock()
	if !editable || gc.OnCellTapped == nil || rows == 0 || cols == 0 {
		return
	}
	size := gc.Size()
	cell := min(size.Width/float32(cols), size.Height/float32(rows))
	if cell <= 0 {
		return
	}
	r, c := int(ev.Position.Y/cell), int(ev.Position.X/cell)
	if r < 0 || r >= rows || c < 0 || c >= cols {
		return
	}
	gc.OnCellTapped(r, c)
}

func (gc *GridCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &gridCanvasRenderer{gc: gc}
	r.raster = canvas.NewRasterWithPixels(r.pixel)
	r.objects = []fyne.CanvasObject{r.raster}
	return r
}

type gridCanvasRenderer struct {
	gc      *GridCanvas
	raster  *canvas.Raster
	objects []fyne.CanvasObject
}

// pixel colours one raster pixel. Cells stay square; pixels right of or
// below the grid are transparent.
func (r *gridCanvasRenderer) pixel(x, y, w, h int) color.Color {
	r.gc.mu.RLock()
	defer r.gc.mu.RUnlock()

	states := r.gc.states
	rows := len(states)
	if rows == 0 || len(states[0]) == 0 || w == 0 || h == 0 {
		return color.Transparent
	}
	cols := len(states[0])
	cell := min(float64(w)/float64(cols), float64(h)/float64(rows))
	row, col := int(float64(y)/cell), int(float64(x)/cell)
	if row >= rows || col >= cols {
		return color.Transparent
	}
	if cell >= minLinePixels {
		if int(float64(row)*cell) == y || int(float64(col)*cell) == x {
			return gridLineColor
		}
	}
	return stateColors[states[row][col]]
}

func (r *gridCanvasRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
	r.raster.Move(fyne.NewPos(0, 0))
}

func (r *gridCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(120, 120)
}

func (r *gridCanvasRenderer) Refresh() {
	r.raster.Refresh()
}

func (r *gridCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *gridCanvasRenderer) Destroy()                     {}

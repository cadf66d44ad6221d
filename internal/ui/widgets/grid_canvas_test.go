package widgets

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/shapefit/internal/model"
)

func TestGridCanvas_DisplayUndisplay(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	gc := NewGridCanvas(model.MustParseGrid("##\n##"))
	gc.SetShape(model.MustParseGrid("#"))

	gc.Display(1, 0, model.Rot180)
	want := model.Found(model.Placement{Orientation: model.Rot180, Row: 1, Col: 0})
	assert.Equal(t, want, gc.Result())

	gc.Undisplay()
	assert.Equal(t, model.NotFound, gc.Result())
}

func TestGridCanvas_SetGridClearsResult(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	gc := NewGridCanvas(model.MustParseGrid("#"))
	gc.SetShape(model.MustParseGrid("#"))
	gc.SetResult(model.Found(model.Placement{}))

	gc.SetGrid(model.MustParseGrid("..\n.."))
	assert.False(t, gc.Result().Found)
	assert.Equal(t, 2, gc.Grid().Rows())
}

func TestGridCanvas_GridIsCopied(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	g := model.MustParseGrid("..")
	gc := NewGridCanvas(g)
	_ = g.Set(0, 0, true)
	assert.False(t, gc.Grid().At(0, 0))
}

func TestGridCanvas_Tapped(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	gc := NewGridCanvas(model.NewGrid(4, 4))
	gc.Resize(fyne.NewSize(100, 100))

	var got [][2]int
	gc.OnCellTapped = func(r, c int) { got = append(got, [2]int{r, c}) }

	gc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(30, 80)})
	gc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(0, 0)})
	assert.Equal(t, [][2]int{{3, 1}, {0, 0}}, got)

	gc.SetEditable(false)
	gc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(10, 10)})
	assert.Len(t, got, 2, "taps are ignored while not editable")
}

func TestGridCanvas_TappedOutsideGrid(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	// A 1x2 grid in a square widget leaves the lower half empty.
	gc := NewGridCanvas(model.NewGrid(1, 2))
	gc.Resize(fyne.NewSize(100, 100))

	called := false
	gc.OnCellTapped = func(r, c int) { called = true }
	gc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(10, 90)})
	assert.False(t, called)
}

func TestGridCanvas_Pixels(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	gc := NewGridCanvas(model.MustParseGrid("#."))
	gc.SetShape(model.MustParseGrid("#"))
	r := &gridCanvasRenderer{gc: gc}

	// 20x12 pixels: 10px cells, with the bottom two rows outside the grid.
	assert.Equal(t, gridLineColor, r.pixel(0, 3, 20, 12))
	assert.Equal(t, stateColors[model.CellFull], r.pixel(5, 5, 20, 12))
	assert.Equal(t, stateColors[model.CellEmpty], r.pixel(15, 5, 20, 12))
	assert.Equal(t, 0, alpha(r.pixel(15, 11, 20, 12)))

	gc.SetResult(model.Found(model.Placement{Row: 0, Col: 1}))
	assert.Equal(t, stateColors[model.CellEmptyOverlap], r.pixel(15, 5, 20, 12))
	assert.Equal(t, stateColors[model.CellFull], r.pixel(5, 5, 20, 12))
}

func alpha(c interface{ RGBA() (r, g, b, a uint32) }) int {
	_, _, _, a := c.RGBA()
	return int(a)
}

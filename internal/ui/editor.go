package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/shapefit/internal/model"
	"github.com/piwi3910/shapefit/internal/project"
	"github.com/piwi3910/shapefit/internal/ui/widgets"
)

// editorTarget bundles what differs between the shape and world editors.
type editorTarget struct {
	noun    string // "Shape" or "World"
	kind    string // library kind
	canvas  *widgets.GridCanvas
	lib     *model.PatternLibrary
	minSize int
	maxSize int
}

func (a *App) target(shape bool) editorTarget {
	if shape {
		return editorTarget{"Shape", project.KindShapes, a.shapeCanvas, &a.shapes, model.MinShapeSize, model.MaxShapeSize}
	}
	return editorTarget{"World", project.KindWorlds, a.worldCanvas, &a.worlds, model.MinWorldSize, model.MaxWorldSize}
}

// buildEditorControls returns the size, shift and library buttons for one
// editor.
func (a *App) buildEditorControls(shape bool) fyne.CanvasObject {
	t := a.target(shape)
	noun := t.noun

	grow := newIconButtonWithTooltip(theme.ContentAddIcon(), "Grow "+noun, func() { a.resizeBy(shape, 1) })
	shrink := newIconButtonWithTooltip(theme.ContentRemoveIcon(), "Shrink "+noun, func() { a.resizeBy(shape, -1) })

	up := newIconButtonWithTooltip(theme.MoveUpIcon(), "Shift "+noun+" Up", func() { a.shiftBy(shape, -1, 0) })
	down := newIconButtonWithTooltip(theme.MoveDownIcon(), "Shift "+noun+" Down", func() { a.shiftBy(shape, 1, 0) })
	left := newIconButtonWithTooltip(theme.NavigateBackIcon(), "Shift "+noun+" Left", func() { a.shiftBy(shape, 0, -1) })
	right := newIconButtonWithTooltip(theme.NavigateNextIcon(), "Shift "+noun+" Right", func() { a.shiftBy(shape, 0, 1) })

	save := newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Save "+noun+" to Library", func() { a.saveToLibrary(shape) })
	prev := newIconButtonWithTooltip(theme.MediaSkipPreviousIcon(), "Previous Saved "+noun, func() { a.stepLibrary(shape, false) })
	next := newIconButtonWithTooltip(theme.MediaSkipNextIcon(), "Next Saved "+noun, func() { a.stepLibrary(shape, true) })
	del := newIconButtonWithTooltip(theme.DeleteIcon(), "Delete Saved "+noun, func() { a.deleteFromLibrary(shape) })

	a.editButtons = append(a.editButtons, grow, shrink, up, down, left, right, prev, next, del)

	row := container.NewHBox(shrink, grow, widget.NewSeparator(), left, up, down, right)
	if !shape {
		newWorld := newIconButtonWithTooltip(theme.ViewRefreshIcon(), "New Random World", a.newWorld)
		a.editButtons = append(a.editButtons, newWorld)
		row.Add(widget.NewSeparator())
		row.Add(newWorld)
	}
	return container.NewVBox(
		container.NewCenter(row),
		container.NewCenter(container.NewHBox(save, prev, next, del)),
	)
}

// ─── Cell editing ──────────────────────────────────────────

func (a *App) toggleShapeCell(row, col int) {
	a.editShape("Toggle Cell", func(g model.Grid) model.Grid {
		_ = g.Toggle(row, col)
		return g
	})
}

func (a *App) toggleWorldCell(row, col int) {
	a.editWorld("Toggle Cell", func(g model.Grid) model.Grid {
		_ = g.Toggle(row, col)
		return g
	})
}

func (a *App) editShape(label string, fn func(model.Grid) model.Grid) {
	a.edit(true, label, fn)
}

func (a *App) editWorld(label string, fn func(model.Grid) model.Grid) {
	a.edit(false, label, fn)
}

// edit records an undo snapshot and replaces one editor's grid with
// fn(copy). Grids cannot change while a search runs.
func (a *App) edit(shape bool, label string, fn func(model.Grid) model.Grid) {
	if a.search.Running() {
		a.setStatus("Stop the search before editing")
		return
	}
	t := a.target(shape)
	a.history.Push(a.snapshot(label))
	t.canvas.SetGrid(fn(t.canvas.Grid()))
	a.afterEdit()
}

func (a *App) snapshot(label string) Snapshot {
	return MakeSnapshot(a.shapeCanvas.Grid(), a.worldCanvas.Grid(), label)
}

func (a *App) restore(s Snapshot) {
	a.shapeCanvas.SetGrid(s.Shape)
	a.worldCanvas.SetGrid(s.World)
	a.afterEdit()
}

func (a *App) afterEdit() {
	a.resetCheckButton()
	a.refreshUndoMenu()
}

func (a *App) resizeBy(shape bool, delta int) {
	t := a.target(shape)
	cur := t.canvas.Grid()
	n := model.ClampSize(max(cur.Rows(), cur.Cols())+delta, t.minSize, t.maxSize)
	if n == cur.Rows() && n == cur.Cols() {
		return
	}
	a.edit(shape, fmt.Sprintf("Resize %s", t.noun), func(g model.Grid) model.Grid {
		return g.Resize(n, n)
	})
	a.setStatus("%s is %dx%d", t.noun, n, n)
}

func (a *App) shiftBy(shape bool, dRow, dCol int) {
	a.edit(shape, "Shift "+a.target(shape).noun, func(g model.Grid) model.Grid {
		return g.Shift(dRow, dCol)
	})
}

func (a *App) newWorld() {
	cur := a.worldCanvas.Grid()
	n := max(cur.Rows(), cur.Cols())
	if n == 0 {
		n = model.ClampSize(a.config.InitialWorldSize, model.MinWorldSize, model.MaxWorldSize)
	}
	a.editWorld("New World", func(model.Grid) model.Grid {
		return model.RandomGrid(n, n, a.config.FillProbability(), a.rng)
	})
	a.setStatus("New %dx%d world", n, n)
}

func (a *App) undo() {
	if a.search.Running() {
		return
	}
	s, ok := a.history.Undo(a.snapshot(""))
	if !ok {
		return
	}
	a.restore(s)
	a.setStatus("Undid %s", s.Label)
}

func (a *App) redo() {
	if a.search.Running() {
		return
	}
	s, ok := a.history.Redo(a.snapshot(""))
	if !ok {
		return
	}
	a.restore(s)
}

func (a *App) refreshUndoMenu() {
	if a.undoMenuItem == nil {
		return
	}
	a.undoMenuItem.Label = "Undo"
	if l := a.history.UndoLabel(); l != "" {
		a.undoMenuItem.Label = "Undo " + l
	}
	a.undoMenuItem.Disabled = !a.history.CanUndo()
	a.redoMenuItem.Disabled = !a.history.CanRedo()
	if menu := a.window.MainMenu(); menu != nil {
		menu.Refresh()
	}
}

// ─── Pattern libraries ─────────────────────────────────────

func (a *App) saveToLibrary(shape bool) {
	t := a.target(shape)
	g := t.canvas.Grid()
	if shape && g.IsEmpty() {
		a.setStatus("Nothing to save: the shape is empty")
		return
	}
	name := fmt.Sprintf("%s %d", t.noun, t.lib.Len()+1)
	t.lib.Add(model.NewPattern(name, g))
	if err := project.SaveDefaultLibrary(t.kind, *t.lib); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save %s library: %w", t.kind, err), a.window)
		return
	}
	a.setStatus("Saved %q (%d in library)", name, t.lib.Len())
}

func (a *App) stepLibrary(shape, forward bool) {
	if a.search.Running() {
		return
	}
	t := a.target(shape)
	var g model.Grid
	var ok bool
	if forward {
		g, ok = t.lib.Next()
	} else {
		g, ok = t.lib.Prev()
	}
	if !ok {
		a.setStatus("No saved %ss", strings.ToLower(t.noun))
		return
	}
	a.edit(shape, "Load Saved "+t.noun, func(model.Grid) model.Grid { return g })
	a.setStatus("Showing %q", t.lib.Patterns[0].Name)
}

func (a *App) deleteFromLibrary(shape bool) {
	t := a.target(shape)
	if !t.lib.DeleteCurrent(t.canvas.Grid()) {
		a.setStatus("The %s shown is not the current saved one", strings.ToLower(t.noun))
		return
	}
	if err := project.SaveDefaultLibrary(t.kind, *t.lib); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save %s library: %w", t.kind, err), a.window)
		return
	}
	a.setStatus("Deleted saved %s (%d left)", strings.ToLower(t.noun), t.lib.Len())
}

// setEditing enables or disables everything that changes the grids.
func (a *App) setEditing(enabled bool) {
	a.shapeCanvas.SetEditable(enabled)
	a.worldCanvas.SetEditable(enabled)
	for _, b := range a.editButtons {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/shapefit/internal/engine"
	"github.com/piwi3910/shapefit/internal/export"
	"github.com/piwi3910/shapefit/internal/importer"
	"github.com/piwi3910/shapefit/internal/model"
	"github.com/piwi3910/shapefit/internal/project"
)

// ─── Import Functions ───────────────────────────────────────

func (a *App) importGrid(shape bool) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		a.handleImportResult(shape, path, importer.ImportFile(path))
	}, a.window)
}

func (a *App) handleImportResult(shape bool, path string, result importer.ImportResult) {
	if !result.OK() {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
		return
	}
	for _, w := range result.Warnings {
		a.logger.Warn("import warning", "path", path, "warning", w)
	}

	noun := a.target(shape).noun
	a.edit(shape, "Import "+noun, func(model.Grid) model.Grid { return result.Grid })
	a.config.AddRecent(path)
	if err := a.saveConfig(); err != nil {
		a.logger.Warn("failed to save config", "error", err)
	}

	msg := fmt.Sprintf("Imported a %dx%d %s.", result.Grid.Rows(), result.Grid.Cols(), strings.ToLower(noun))
	if len(result.Warnings) > 0 {
		msg += fmt.Sprintf("\n\n%d warning(s):\n%s", len(result.Warnings), strings.Join(result.Warnings, "\n"))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

// importPatternFile merges a binary pattern file into the shape or world
// library chosen by the user.
func (a *App) importPatternFile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()

		kind := widget.NewRadioGroup([]string{"Shapes", "Worlds"}, nil)
		kind.SetSelected("Shapes")
		dialog.ShowCustomConfirm("Import Pattern File", "Import", "Cancel", kind, func(ok bool) {
			if !ok {
				return
			}
			t := a.target(kind.Selected == "Shapes")
			before := t.lib.Len()
			importErr := project.ImportPatternFile(path, t.lib)
			added := t.lib.Len() - before
			if added > 0 {
				if err := project.SaveDefaultLibrary(t.kind, *t.lib); err != nil {
					dialog.ShowError(fmt.Errorf("failed to save %s library: %w", t.kind, err), a.window)
					return
				}
			}
			if importErr != nil {
				dialog.ShowError(fmt.Errorf("imported %d pattern(s) before an error: %w", added, importErr), a.window)
				return
			}
			a.setStatus("Imported %d pattern(s) into the %s library", added, t.kind)
		}, a.window)
	}, a.window)
}

// ─── Export Functions ───────────────────────────────────────

// report describes the last search, or the grids on screen when nothing has
// been searched yet.
func (a *App) report() export.Report {
	if a.lastRun.RunID == "" {
		return export.NewReport("ShapeFit Report", "", a.shapeCanvas.Grid(), a.worldCanvas.Grid(), model.NotFound, engine.Stats{})
	}
	stats := engine.Stats{Tested: a.lastRun.Tested, Total: a.lastRun.Total}
	return export.NewReport("ShapeFit Report", a.lastRun.RunID, a.lastShape, a.lastWorld, a.lastRun.Result, stats)
}

// saveFile asks for a destination and hands the path to write.
func (a *App) saveFile(defaultName, what string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := write(path); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("%s saved to %s", what, path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

func (a *App) exportPDF() {
	r := a.report()
	a.saveFile("shapefit-report.pdf", "Report", func(path string) error {
		return export.ExportPDF(path, r)
	})
}

func (a *App) exportExcel() {
	r := a.report()
	a.saveFile("shapefit-report.xlsx", "Workbook", func(path string) error {
		return export.ExportExcel(path, r)
	})
}

func (a *App) exportDXF() {
	r := a.report()
	a.saveFile("shapefit-world.dxf", "Drawing", func(path string) error {
		return export.ExportDXF(path, r, export.DefaultCellSize)
	})
}

func (a *App) exportCards() {
	if a.shapes.Len() == 0 {
		dialog.ShowInformation("No saved shapes", "Save at least one shape to the library first.", a.window)
		return
	}
	results := engine.ComparePatterns(a.shapes.Patterns, a.worldCanvas.Grid())
	a.saveFile("shapefit-cards.pdf", "Shape cards", func(path string) error {
		return export.ExportPatternCards(path, results)
	})
}

func (a *App) exportPatternFile() {
	kind := widget.NewRadioGroup([]string{"Shapes", "Worlds"}, nil)
	kind.SetSelected("Shapes")
	dialog.ShowCustomConfirm("Export Pattern File", "Export", "Cancel", kind, func(ok bool) {
		if !ok {
			return
		}
		t := a.target(kind.Selected == "Shapes")
		name := project.SavedShapesFile
		if t.kind == project.KindWorlds {
			name = project.SavedWorldsFile
		}
		a.saveFile(name, "Pattern file", func(path string) error {
			return project.SavePatternFile(path, *t.lib)
		})
	}, a.window)
}

// compareShapes searches the current world for every saved shape and lists
// the outcomes.
func (a *App) compareShapes() {
	if a.search.Running() {
		a.setStatus("Stop the search before comparing")
		return
	}
	if a.shapes.Len() == 0 {
		dialog.ShowInformation("No saved shapes", "Save at least one shape to the library first.", a.window)
		return
	}
	results := engine.ComparePatterns(a.shapes.Patterns, a.worldCanvas.Grid())

	list := widget.NewList(
		func() int { return len(results) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(describeResult(results[id]))
		},
	)
	summary := widget.NewLabel(fmt.Sprintf("%d of %d saved shapes fit this world.",
		engine.CountFound(results), len(results)))
	content := container.NewBorder(summary, nil, nil, nil, list)

	d := dialog.NewCustom("Compare Saved Shapes", "Close", content, a.window)
	d.Resize(fyne.NewSize(480, 400))
	d.Show()
}

func describeResult(r engine.PatternResult) string {
	switch {
	case !r.WellFormed:
		return fmt.Sprintf("%s: not connected", r.Pattern.Name)
	case r.Result.Found:
		p := r.Result.Placement
		return fmt.Sprintf("%s: %s at (%d, %d)", r.Pattern.Name, p.Orientation, p.Row, p.Col)
	default:
		return fmt.Sprintf("%s: no fit (%d placements)", r.Pattern.Name, r.Stats.Tested)
	}
}

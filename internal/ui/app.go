package ui

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/piwi3910/shapefit/internal/model"
	"github.com/piwi3910/shapefit/internal/project"
	"github.com/piwi3910/shapefit/internal/search"
	"github.com/piwi3910/shapefit/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	app    fyne.App
	window fyne.Window
	config model.AppConfig
	logger *slog.Logger

	search  *search.Controller
	history *History
	rng     *rand.Rand

	// lastRun and the grids it searched back the exporters.
	lastRun   search.State
	lastShape model.Grid
	lastWorld model.Grid

	shapes model.PatternLibrary
	worlds model.PatternLibrary

	// delayMs is the live throttle; fractional so repeated +/- steps
	// follow the same curve in both directions.
	delayMs float64

	// UI references for dynamic updates
	shapeCanvas  *widgets.GridCanvas
	worldCanvas  *widgets.GridCanvas
	solveBtn     *ttwidget.Button
	cancelBtn    *ttwidget.Button
	checkBtn     *ttwidget.Button
	animated     *widget.Check
	delayLabel   *widget.Label
	statusLabel  *widget.Label
	progress     *widget.ProgressBar
	editButtons  []fyne.Disableable
	undoMenuItem *fyne.MenuItem
	redoMenuItem *fyne.MenuItem
}

// NewApp creates the application state. Pattern libraries are read from
// the default stores; a store that fails to load is logged and replaced by
// an empty library.
func NewApp(application fyne.App, window fyne.Window, config model.AppConfig, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		app:     application,
		window:  window,
		config:  config,
		logger:  logger,
		search:  search.NewController(logger),
		history: NewHistory(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		delayMs: float64(config.DelayMillis),
	}
	a.shapes = a.loadLibrary(project.KindShapes, project.SavedShapesFile)
	a.worlds = a.loadLibrary(project.KindWorlds, project.SavedWorldsFile)
	return a
}

// loadLibrary reads the JSON store for kind. An empty store is seeded from
// the binary pattern file of the same kind, if one exists.
func (a *App) loadLibrary(kind, patternFile string) model.PatternLibrary {
	lib, err := project.LoadDefaultLibrary(kind)
	if err != nil {
		a.logger.Warn("failed to load pattern library", "kind", kind, "error", err)
		lib = model.NewPatternLibrary()
	}
	if lib.Len() == 0 {
		path := project.DefaultPatternPath(patternFile)
		if err := project.ImportPatternFile(path, &lib); err != nil {
			a.logger.Debug("no pattern file imported", "path", path, "error", err)
		}
	}
	a.logger.Info("pattern library loaded", "kind", kind, "patterns", lib.Len())
	return lib
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Import Shape...", func() { a.importGrid(true) }),
		fyne.NewMenuItem("Import World...", func() { a.importGrid(false) }),
		fyne.NewMenuItem("Import Pattern File...", a.importPatternFile),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Report (PDF)...", a.exportPDF),
		fyne.NewMenuItem("Export Workbook (Excel)...", a.exportExcel),
		fyne.NewMenuItem("Export Drawing (DXF)...", a.exportDXF),
		fyne.NewMenuItem("Export Shape Cards (PDF)...", a.exportCards),
		fyne.NewMenuItem("Export Pattern File...", a.exportPatternFile),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import / Export Data...", a.showImportExportDialog),
		fyne.NewMenuItem("Settings...", a.showSettingsDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			_ = a.search.Cancel()
			a.window.Close()
		}),
	)

	a.undoMenuItem = fyne.NewMenuItem("Undo", a.undo)
	a.redoMenuItem = fyne.NewMenuItem("Redo", a.redo)
	editMenu := fyne.NewMenu("Edit",
		a.undoMenuItem,
		a.redoMenuItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Shape", func() {
			a.editShape("Clear Shape", func(g model.Grid) model.Grid {
				return model.NewGrid(g.Rows(), g.Cols())
			})
		}),
		fyne.NewMenuItem("Clear World", func() {
			a.editWorld("Clear World", func(g model.Grid) model.Grid {
				return model.NewGrid(g.Rows(), g.Cols())
			})
		}),
	)

	searchMenu := fyne.NewMenu("Search",
		fyne.NewMenuItem("Solve / Pause", a.onSolve),
		fyne.NewMenuItem("Cancel", a.onCancel),
		fyne.NewMenuItem("Check Shape", a.onCheck),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Compare Saved Shapes", a.compareShapes),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, searchMenu, helpMenu))
	a.refreshUndoMenu()
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About ShapeFit",
		"ShapeFit: Shape-in-Grid Matcher\n\n"+
			"Draw a connected shape and a world grid, then search for\n"+
			"a rotation or mirror image of the shape that fits on the\n"+
			"world's filled cells.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.shapeCanvas = widgets.NewGridCanvas(a.initialGrid(&a.shapes, a.config.InitialShapeSize, model.MinShapeSize, model.MaxShapeSize))
	a.shapeCanvas.OnCellTapped = a.toggleShapeCell
	a.worldCanvas = widgets.NewGridCanvas(a.initialGrid(&a.worlds, a.config.InitialWorldSize, model.MinWorldSize, model.MaxWorldSize))
	a.worldCanvas.OnCellTapped = a.toggleWorldCell

	shapePanel := container.NewBorder(
		widget.NewLabelWithStyle("Shape", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		a.buildEditorControls(true),
		nil, nil,
		a.shapeCanvas,
	)
	worldPanel := container.NewBorder(
		widget.NewLabelWithStyle("World", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		a.buildEditorControls(false),
		nil, nil,
		a.worldCanvas,
	)

	split := container.NewHSplit(shapePanel, worldPanel)
	split.SetOffset(0.3)

	content := container.NewBorder(nil, a.buildSearchBar(), nil, nil, split)
	return fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas())
}

// initialGrid shows the front library pattern, or an empty grid of the
// configured size.
func (a *App) initialGrid(lib *model.PatternLibrary, size, lo, hi int) model.Grid {
	if g, ok := lib.Current(); ok {
		return g
	}
	n := model.ClampSize(size, lo, hi)
	return model.NewGrid(n, n)
}

func (a *App) setStatus(format string, args ...any) {
	if a.statusLabel == nil {
		return
	}
	a.statusLabel.SetText(fmt.Sprintf(format, args...))
}

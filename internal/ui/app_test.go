package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/shapefit/internal/engine"
	"github.com/piwi3910/shapefit/internal/model"
	"github.com/piwi3910/shapefit/internal/project"
)

// newTestApp builds the full UI against a throwaway home directory.
func newTestApp(t *testing.T) *App {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	application := test.NewApp()
	t.Cleanup(application.Quit)
	window := application.NewWindow("ShapeFit")

	a := NewApp(application, window, model.DefaultAppConfig(), nil)
	a.SetupMenus()
	window.SetContent(a.Build())
	return a
}

func TestApp_StartsWithConfiguredSizes(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, model.InitShapeSize, a.shapeCanvas.Grid().Rows())
	assert.Equal(t, model.InitWorldSize, a.worldCanvas.Grid().Cols())
	assert.Equal(t, 0, a.shapes.Len())
}

func TestApp_EditUndoRedo(t *testing.T) {
	a := newTestApp(t)

	a.toggleShapeCell(0, 0)
	assert.True(t, a.shapeCanvas.Grid().At(0, 0))
	assert.Equal(t, "Undo Toggle Cell", a.undoMenuItem.Label)
	assert.False(t, a.undoMenuItem.Disabled)

	a.undo()
	assert.False(t, a.shapeCanvas.Grid().At(0, 0))
	assert.False(t, a.redoMenuItem.Disabled)

	a.redo()
	assert.True(t, a.shapeCanvas.Grid().At(0, 0))
}

func TestApp_ResizeClamps(t *testing.T) {
	a := newTestApp(t)

	for i := 0; i < 5; i++ {
		a.resizeBy(true, -1)
	}
	assert.Equal(t, model.MinShapeSize, a.shapeCanvas.Grid().Rows())
	assert.Equal(t, model.MinShapeSize, a.shapeCanvas.Grid().Cols())

	// Two real resizes were recorded; the clamped ones were not.
	a.undo()
	a.undo()
	assert.Equal(t, model.InitShapeSize, a.shapeCanvas.Grid().Rows())
	assert.False(t, a.history.CanUndo())
}

func TestApp_ShiftAndNewWorld(t *testing.T) {
	a := newTestApp(t)

	a.toggleShapeCell(0, 0)
	a.shiftBy(true, 1, 1)
	g := a.shapeCanvas.Grid()
	assert.False(t, g.At(0, 0))
	assert.True(t, g.At(1, 1))

	a.config.WorldFillPercent = 100
	a.newWorld()
	w := a.worldCanvas.Grid()
	assert.Equal(t, model.InitWorldSize, w.Rows())
	assert.Equal(t, w.Rows()*w.Cols(), w.Count())
}

func TestApp_LibrarySaveStepDelete(t *testing.T) {
	a := newTestApp(t)

	a.toggleShapeCell(1, 1)
	saved := a.shapeCanvas.Grid()
	a.saveToLibrary(true)
	require.Equal(t, 1, a.shapes.Len())

	_, err := os.Stat(project.DefaultLibraryPath(project.KindShapes))
	require.NoError(t, err, "library should be written to the default store")

	a.editShape("Clear Shape", func(g model.Grid) model.Grid { return model.NewGrid(g.Rows(), g.Cols()) })
	a.stepLibrary(true, true)
	assert.True(t, a.shapeCanvas.Grid().Equal(saved))

	a.deleteFromLibrary(true)
	assert.Equal(t, 0, a.shapes.Len())

	reloaded, err := project.LoadDefaultLibrary(project.KindShapes)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Len())
}

func TestApp_DeleteRequiresShownPattern(t *testing.T) {
	a := newTestApp(t)

	a.toggleShapeCell(0, 0)
	a.saveToLibrary(true)
	a.toggleShapeCell(0, 1)

	a.deleteFromLibrary(true)
	assert.Equal(t, 1, a.shapes.Len(), "an edited grid must not delete the saved one")
}

func TestApp_LoadsLegacyPatternFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	lib := model.NewPatternLibrary()
	lib.Add(model.NewPattern("a", model.MustParseGrid("#.\n##")))
	require.NoError(t, project.SavePatternFile(project.DefaultPatternPath(project.SavedShapesFile), lib))

	application := test.NewApp()
	defer application.Quit()
	a := NewApp(application, application.NewWindow("ShapeFit"), model.DefaultAppConfig(), nil)
	require.Equal(t, 1, a.shapes.Len())
	assert.Equal(t, 0, a.worlds.Len())
}

func TestApp_SolveShowsMatch(t *testing.T) {
	a := newTestApp(t)

	a.shapeCanvas.SetGrid(model.MustParseGrid("##"))
	a.worldCanvas.SetGrid(model.MustParseGrid("..\n.#\n.#"))
	a.onSolve()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := a.search.Wait(ctx)
	require.NoError(t, err)

	require.True(t, s.Result.Found)
	want := model.Found(model.Placement{Orientation: model.Rot90CW, Row: 1, Col: 1})
	assert.Equal(t, want, s.Result)
	assert.Equal(t, want, a.worldCanvas.Result())
}

func TestApp_SolveRefusesDisconnectedShape(t *testing.T) {
	a := newTestApp(t)

	a.shapeCanvas.SetGrid(model.MustParseGrid("#.#"))
	a.onSolve()
	assert.False(t, a.search.Running())
	assert.Empty(t, a.search.State().RunID)
}

func TestApp_SolveRefusesEmptyShapeWithoutCheck(t *testing.T) {
	a := newTestApp(t)
	a.config.CheckBeforeSearch = false

	a.shapeCanvas.SetGrid(model.NewGrid(3, 3))
	a.onSolve()
	assert.False(t, a.search.Running())
	assert.Empty(t, a.search.State().RunID)
	assert.Equal(t, model.NotFound, a.worldCanvas.Result())
}

func TestApp_SolveSkipsConnectivityWhenCheckIsOff(t *testing.T) {
	a := newTestApp(t)
	a.config.CheckBeforeSearch = false

	a.shapeCanvas.SetGrid(model.MustParseGrid("#.#"))
	a.worldCanvas.SetGrid(model.MustParseGrid("###"))
	a.onSolve()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := a.search.Wait(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, s.RunID)
	assert.True(t, s.Result.Found)
}

func TestApp_ChangeDelay(t *testing.T) {
	a := newTestApp(t)

	a.changeDelay(model.BumpDelay)
	assert.InDelta(t, 1.0, a.delayMs, 1e-9)
	assert.Equal(t, time.Millisecond, a.search.Delay())
	assert.Equal(t, "Delay: 1.0 ms", a.delayLabel.Text)

	a.changeDelay(model.DropDelay)
	assert.InDelta(t, 0.0, a.delayMs, 1e-9)
	assert.Equal(t, time.Duration(0), a.search.Delay())
}

func TestApp_ReportBeforeAnySearch(t *testing.T) {
	a := newTestApp(t)

	r := a.report()
	assert.Empty(t, r.RunID)
	assert.False(t, r.Result.Found)
	assert.Equal(t, model.InitWorldSize, r.World.Rows())
}

func TestApp_ApplyBackup(t *testing.T) {
	a := newTestApp(t)

	shapes := model.NewPatternLibrary()
	shapes.Add(model.NewPattern("bar", model.MustParseGrid("###")))
	cfg := model.DefaultAppConfig()
	cfg.DelayMillis = 25

	require.NoError(t, a.applyBackup(project.BackupData{
		Version: "1.0.0",
		Config:  cfg,
		Shapes:  shapes,
		Worlds:  model.NewPatternLibrary(),
	}))
	assert.Equal(t, 1, a.shapes.Len())
	assert.Equal(t, 25*time.Millisecond, a.search.Delay())

	loaded, err := project.LoadAppConfig(project.DefaultConfigPath())
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.DelayMillis)
	_, err = os.Stat(filepath.Join(project.DefaultConfigDir(), "worlds.json"))
	assert.NoError(t, err)
}

func TestDescribeResult(t *testing.T) {
	tests := []struct {
		name   string
		result engine.PatternResult
		want   string
	}{
		{
			name:   "ill-formed",
			result: engine.PatternResult{Pattern: model.Pattern{Name: "split"}},
			want:   "split: not connected",
		},
		{
			name: "found",
			result: engine.PatternResult{
				Pattern:    model.Pattern{Name: "L"},
				WellFormed: true,
				Result:     model.Found(model.Placement{Orientation: model.MirrorRot180, Row: 2, Col: 3}),
			},
			want: "L: MirrorRot180 at (2, 3)",
		},
		{
			name: "no fit",
			result: engine.PatternResult{
				Pattern:    model.Pattern{Name: "bar"},
				WellFormed: true,
				Stats:      engine.Stats{Tested: 12, Total: 12},
			},
			want: "bar: no fit (12 placements)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeResult(tt.result))
		})
	}
}

func TestThemeForName(t *testing.T) {
	assert.True(t, ThemeForName("system").system)
	assert.True(t, ThemeForName("").system)

	dark := ThemeForName("dark")
	assert.False(t, dark.system)
	assert.Equal(t, theme.VariantDark, dark.variant)
	assert.Equal(t, float32(12), dark.Size(theme.SizeNameText))
}

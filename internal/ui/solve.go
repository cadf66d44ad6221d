package ui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/shapefit/internal/engine"
	"github.com/piwi3910/shapefit/internal/model"
	"github.com/piwi3910/shapefit/internal/search"
)

// progressInterval is how often the progress bar samples a running search.
const progressInterval = 200 * time.Millisecond

// buildSearchBar returns the bottom toolbar with the search controls.
func (a *App) buildSearchBar() fyne.CanvasObject {
	a.solveBtn = newSearchButton("Solve", theme.MediaPlayIcon(), "Search the world for the shape", widget.HighImportance, a.onSolve)
	a.cancelBtn = newSearchButton("", theme.MediaStopIcon(), "Cancel Search", widget.MediumImportance, a.onCancel)
	a.cancelBtn.Disable()
	a.checkBtn = newSearchButton("Check", theme.QuestionIcon(), "Check that the shape is connected", widget.MediumImportance, a.onCheck)

	a.animated = widget.NewCheck("Animate", func(on bool) {
		a.config.Animated = on
	})
	a.animated.SetChecked(a.config.Animated)

	slower := newIconButtonWithTooltip(theme.ContentAddIcon(), "Increase Delay", func() {
		a.changeDelay(model.BumpDelay)
	})
	faster := newIconButtonWithTooltip(theme.ContentRemoveIcon(), "Decrease Delay", func() {
		a.changeDelay(model.DropDelay)
	})
	a.delayLabel = widget.NewLabel("")
	a.refreshDelayLabel()

	a.progress = widget.NewProgressBar()
	a.statusLabel = widget.NewLabel("Ready")
	a.statusLabel.Truncation = fyne.TextTruncateEllipsis

	controls := container.NewHBox(
		a.solveBtn, a.cancelBtn, a.checkBtn,
		widget.NewSeparator(),
		a.animated,
		widget.NewSeparator(),
		faster, a.delayLabel, slower,
	)
	return container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, controls, nil, a.progress),
		a.statusLabel,
	)
}

// onSolve starts a search, or toggles pause while one is running.
func (a *App) onSolve() {
	if a.search.Running() {
		paused, err := a.search.TogglePause()
		if err != nil {
			a.logger.Debug("toggle pause ignored", "error", err)
			return
		}
		if paused {
			setButtonState(a.solveBtn, "Resume", theme.MediaPlayIcon(), "Resume the search")
			a.setStatus("Paused")
		} else {
			setButtonState(a.solveBtn, "Pause", theme.MediaPauseIcon(), "Pause the search")
			a.setStatus("Searching...")
		}
		return
	}

	shape := a.shapeCanvas.Grid()
	world := a.worldCanvas.Grid()
	if shape.IsEmpty() {
		a.markCheck(false)
		dialog.ShowInformation("Shape is empty",
			"Fill in at least one cell of the shape before solving.",
			a.window)
		return
	}
	if a.config.CheckBeforeSearch && !engine.IsWellFormed(shape) {
		a.markCheck(false)
		dialog.ShowInformation("Shape not connected",
			"The shape's filled cells must form a single connected piece.\nUse Check to test the shape before solving.",
			a.window)
		return
	}

	a.worldCanvas.SetShape(shape)
	a.worldCanvas.SetResult(model.NotFound)
	err := a.search.Start(context.Background(), shape, world, a.worldCanvas, search.Options{
		Animated:     a.config.Animated,
		Delay:        a.delay(),
		PollInterval: a.config.PollInterval(),
		OnDone: func(s search.State) {
			fyne.Do(func() { a.searchFinished(s) })
		},
	})
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to start search: %w", err), a.window)
		return
	}

	a.lastShape, a.lastWorld = shape, world
	a.setEditing(false)
	a.animated.Disable()
	a.cancelBtn.Enable()
	setButtonState(a.solveBtn, "Pause", theme.MediaPauseIcon(), "Pause the search")
	a.progress.SetValue(0)
	a.setStatus("Searching...")
	go a.watchProgress()
}

func (a *App) onCancel() {
	if err := a.search.Cancel(); err != nil {
		a.logger.Debug("cancel ignored", "error", err)
	}
}

// watchProgress samples the search state until it finishes.
func (a *App) watchProgress() {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for range ticker.C {
		s := a.search.State()
		if s.Status != search.StatusRunning {
			return
		}
		fyne.Do(func() {
			a.progress.SetValue(float64(s.Percent()) / 100)
		})
	}
}

// searchFinished restores the idle controls and reports the outcome. It
// runs on the UI thread.
func (a *App) searchFinished(s search.State) {
	a.setEditing(true)
	a.animated.Enable()
	a.cancelBtn.Disable()
	setButtonState(a.solveBtn, "Solve", theme.MediaPlayIcon(), "Search the world for the shape")

	switch {
	case s.Status == search.StatusCancelled:
		a.worldCanvas.SetResult(model.NotFound)
		a.setStatus("Cancelled after %d of %d placements", s.Tested, s.Total)
	case s.Result.Found:
		a.progress.SetValue(float64(s.Percent()) / 100)
		p := s.Result.Placement
		a.worldCanvas.SetResult(s.Result)
		a.setStatus("Found: %s at row %d, column %d after %d of %d placements",
			p.Orientation, p.Row, p.Col, s.Tested, s.Total)
	default:
		a.progress.SetValue(1)
		a.worldCanvas.SetResult(model.NotFound)
		a.setStatus("No fit after %d placements", s.Tested)
	}
	a.lastRun = s
}

// onCheck colours the Check button by whether the shape is connected.
func (a *App) onCheck() {
	ok := engine.IsWellFormed(a.shapeCanvas.Grid())
	a.markCheck(ok)
	if ok {
		a.setStatus("Shape is connected")
	} else {
		a.setStatus("Shape is not connected")
	}
}

func (a *App) markCheck(ok bool) {
	if ok {
		a.checkBtn.Importance = widget.SuccessImportance
		a.checkBtn.SetIcon(theme.ConfirmIcon())
	} else {
		a.checkBtn.Importance = widget.DangerImportance
		a.checkBtn.SetIcon(theme.ErrorIcon())
	}
	a.checkBtn.Refresh()
}

// resetCheckButton clears a stale check after the shape changes.
func (a *App) resetCheckButton() {
	if a.checkBtn == nil {
		return
	}
	a.checkBtn.Importance = widget.MediumImportance
	a.checkBtn.SetIcon(theme.QuestionIcon())
	a.checkBtn.Refresh()
}

func (a *App) delay() time.Duration {
	return time.Duration(a.delayMs * float64(time.Millisecond))
}

// changeDelay applies step to the throttle. A running search picks up the
// new delay at its next sink call.
func (a *App) changeDelay(step func(float64) float64) {
	a.delayMs = step(a.delayMs)
	a.config.DelayMillis = int(a.delayMs + 0.5)
	a.search.SetDelay(a.delay())
	a.refreshDelayLabel()
}

func (a *App) refreshDelayLabel() {
	a.delayLabel.SetText(fmt.Sprintf("Delay: %.1f ms", a.delayMs))
}

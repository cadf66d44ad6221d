package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/shapefit/internal/model"
	"github.com/piwi3910/shapefit/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%d", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	logLevelSelect := widget.NewSelect([]string{"debug", "info", "warn", "error"}, func(selected string) {
		cfg.LogLevel = selected
	})
	logLevelSelect.SetSelected(cfg.LogLevel)

	animatedCheck := widget.NewCheck("", func(on bool) { cfg.Animated = on })
	animatedCheck.SetChecked(cfg.Animated)
	checkFirst := widget.NewCheck("", func(on bool) { cfg.CheckBeforeSearch = on })
	checkFirst.SetChecked(cfg.CheckBeforeSearch)

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Log Level (next start)", logLevelSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Delay (ms)", intEntry(&cfg.DelayMillis)),
		widget.NewFormItem("Pause Poll Interval (ms)", intEntry(&cfg.PausePollMillis)),
		widget.NewFormItem("Animate Search", animatedCheck),
		widget.NewFormItem("Check Shape Before Solving", checkFirst),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("New World Fill (%)", intEntry(&cfg.WorldFillPercent)),
		widget.NewFormItem(fmt.Sprintf("Initial Shape Size (%d-%d)", model.MinShapeSize, model.MaxShapeSize), intEntry(&cfg.InitialShapeSize)),
		widget.NewFormItem(fmt.Sprintf("Initial World Size (%d-%d)", model.MinWorldSize, model.MaxWorldSize), intEntry(&cfg.InitialWorldSize)),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			cfg.InitialShapeSize = model.ClampSize(cfg.InitialShapeSize, model.MinShapeSize, model.MaxShapeSize)
			cfg.InitialWorldSize = model.ClampSize(cfg.InitialWorldSize, model.MinWorldSize, model.MaxWorldSize)
			a.applyConfig(cfg)
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved", "Application settings have been saved.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 520))
	d.Show()
}

// applyConfig makes cfg the live configuration.
func (a *App) applyConfig(cfg model.AppConfig) {
	a.config = cfg
	a.delayMs = float64(cfg.DelayMillis)
	a.search.SetDelay(a.delay())
	if a.delayLabel != nil {
		a.refreshDelayLabel()
	}
	if a.animated != nil {
		a.animated.SetChecked(cfg.Animated)
	}
	if a.app != nil {
		a.app.Settings().SetTheme(ThemeForName(cfg.Theme))
	}
}

// showImportExportDialog displays the import/export data dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			if err := project.ExportAllData(path, a.config, a.shapes, a.worlds); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("shapefit-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your settings and both pattern libraries.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					if err := a.applyBackup(backup); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported data: %w", err), a.window)
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export all application data (settings and saved shapes and worlds)\nto a backup file, or import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// applyBackup replaces the config and both libraries, then persists them.
func (a *App) applyBackup(backup project.BackupData) error {
	a.applyConfig(backup.Config)
	a.shapes = backup.Shapes
	a.worlds = backup.Worlds
	if err := a.saveConfig(); err != nil {
		return err
	}
	if err := project.SaveDefaultLibrary(project.KindShapes, a.shapes); err != nil {
		return err
	}
	return project.SaveDefaultLibrary(project.KindWorlds, a.worlds)
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}

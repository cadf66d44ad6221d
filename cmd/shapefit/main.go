// ShapeFit: find a rotation or mirror image of a shape on a world grid.
//
// A cross-platform desktop application: draw or import a connected shape
// and a world, then watch the search sweep the world until the shape fits.
//
// Build:
//   go build -o shapefit ./cmd/shapefit
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o shapefit.exe ./cmd/shapefit
//   GOOS=darwin  GOARCH=amd64 go build -o shapefit-darwin ./cmd/shapefit
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/shapefit/internal/cli"
	"github.com/piwi3910/shapefit/internal/model"
	"github.com/piwi3910/shapefit/internal/project"
	"github.com/piwi3910/shapefit/internal/ui"
)

func main() {
	config, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		config = model.DefaultAppConfig()
	}
	logger := cli.NewLogger(config.LogLevel, config.LogFormat, os.Stderr)
	slog.SetDefault(logger)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", project.DefaultConfigPath(), "error", err)
	}

	application := app.NewWithID("com.piwi3910.shapefit")
	application.Settings().SetTheme(ui.ThemeForName(config.Theme))

	window := application.NewWindow("ShapeFit - Shape-in-Grid Matcher")

	appUI := ui.NewApp(application, window, config, logger)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}

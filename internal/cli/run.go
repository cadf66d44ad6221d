package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/shapefit/internal/engine"
	"github.com/piwi3910/shapefit/internal/export"
	"github.com/piwi3910/shapefit/internal/importer"
	"github.com/piwi3910/shapefit/internal/model"
	"github.com/piwi3910/shapefit/internal/project"
	"github.com/piwi3910/shapefit/internal/search"
)

// Outcome is the printed result of one search.
type Outcome struct {
	Name        string `json:"name"`
	RunID       string `json:"run_id,omitempty"`
	CheckOnly   bool   `json:"check_only,omitempty"`
	Connected   bool   `json:"connected"`
	Found       bool   `json:"found"`
	Cancelled   bool   `json:"cancelled,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Tested      int    `json:"tested"`
	Total       int    `json:"total"`
	Error       string `json:"error,omitempty"`
}

// Code maps the outcome to a process exit code.
func (o Outcome) Code() int {
	switch {
	case o.Error != "":
		return ExitFailure
	case !o.Connected:
		return ExitIllFormed
	case o.CheckOnly, o.Found:
		return ExitFound
	case o.Cancelled:
		return ExitFailure
	default:
		return ExitNotFound
	}
}

// String renders the outcome as one line of text.
func (o Outcome) String() string {
	switch {
	case o.Error != "":
		return fmt.Sprintf("%s: failed: %s", o.Name, o.Error)
	case !o.Connected:
		return fmt.Sprintf("%s: shape is not connected", o.Name)
	case o.Cancelled:
		return fmt.Sprintf("%s: cancelled after %d of %d placements", o.Name, o.Tested, o.Total)
	case o.Found:
		return fmt.Sprintf("%s: found %s at row %d, column %d (%d of %d placements)",
			o.Name, o.Orientation, o.Row, o.Col, o.Tested, o.Total)
	case o.CheckOnly:
		return fmt.Sprintf("%s: shape is connected", o.Name)
	default:
		return fmt.Sprintf("%s: no fit (%d placements)", o.Name, o.Total)
	}
}

// Run executes the searches described by config, printing one result per
// search to out. A search that cannot load its inputs is reported and the
// remaining searches still run. It returns an *ExitError whenever the exit
// code is not zero.
func Run(ctx context.Context, config *Config, out io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if config.Compare {
		return runCompare(config, out, logger)
	}

	jobs, err := jobsFor(config)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}

	worst := ExitFound
	var failures []string
	for _, job := range jobs {
		o, err := runJob(ctx, job, logger)
		if err != nil {
			logger.Error("search failed", "search", job.Name, "error", err)
			o = Outcome{Name: job.Name, Error: err.Error()}
			failures = append(failures, err.Error())
		}
		if err := printOutcome(out, o, config.JSON); err != nil {
			return err
		}
		worst = max(worst, o.Code())
		if ctx.Err() != nil {
			break
		}
	}
	if worst == ExitFound {
		return nil
	}
	msg := exitMessage(worst)
	if worst == ExitFailure && len(failures) > 0 {
		msg = strings.Join(failures, "; ")
	}
	return &ExitError{Code: worst, Message: msg}
}

func exitMessage(code int) string {
	switch code {
	case ExitNotFound:
		return "no fit found"
	case ExitIllFormed:
		return "shape is not connected"
	default:
		return "search did not complete"
	}
}

// jobsFor returns the job file's searches, or a single search built from
// the flags.
func jobsFor(config *Config) ([]project.Job, error) {
	if config.JobsPath != "" {
		return project.LoadJobs(config.JobsPath)
	}
	name := strings.TrimSuffix(filepath.Base(config.ShapePath), filepath.Ext(config.ShapePath))
	return []project.Job{{
		Name:       name,
		Shape:      config.ShapePath,
		World:      config.WorldPath,
		ShapeIndex: config.ShapeIndex,
		WorldIndex: config.WorldIndex,
		Delay:      config.Delay.String(),
		Animated:   config.Animated,
		CheckOnly:  config.CheckOnly,
		PDF:        config.PDF,
		XLSX:       config.XLSX,
		DXF:        config.DXF,
	}}, nil
}

// runJob loads both grids, runs the search through a controller and writes
// any requested exports.
func runJob(ctx context.Context, job project.Job, logger *slog.Logger) (Outcome, error) {
	log := logger.With("search", job.Name)
	o := Outcome{Name: job.Name, CheckOnly: job.CheckOnly}

	shape, err := loadGrid(job.Shape, job.ShapeIndex, log)
	if err != nil {
		return o, fmt.Errorf("search %q: shape: %w", job.Name, err)
	}
	world, err := loadGrid(job.World, job.WorldIndex, log)
	if err != nil {
		return o, fmt.Errorf("search %q: world: %w", job.Name, err)
	}

	o.Connected = engine.IsWellFormed(shape)
	if !o.Connected || job.CheckOnly {
		log.Info("shape checked", "connected", o.Connected, "cells", shape.Count())
		return o, nil
	}

	delay, err := job.DelayDuration()
	if err != nil {
		return o, err
	}

	ctl := search.NewController(log)
	if err := ctl.Start(ctx, shape, world, eventSink(log), search.Options{
		Animated: job.Animated,
		Delay:    delay,
	}); err != nil {
		return o, fmt.Errorf("search %q: %w", job.Name, err)
	}
	state, err := ctl.Wait(ctx)
	if err != nil {
		// Interrupted: stop the search and wait for it to wind down.
		_ = ctl.Cancel()
		state, _ = ctl.Wait(context.Background())
	}

	o.RunID = state.RunID
	o.Tested, o.Total = state.Tested, state.Total
	o.Cancelled = state.Status == search.StatusCancelled
	if state.Result.Found {
		p := state.Result.Placement
		o.Found = true
		o.Orientation = p.Orientation.String()
		o.Row, o.Col = p.Row, p.Col
	}
	if o.Cancelled {
		return o, nil
	}

	report := export.NewReport(job.Name, state.RunID, shape, world, state.Result,
		engine.Stats{Tested: state.Tested, Total: state.Total})
	if err := writeExports(job, report, log); err != nil {
		return o, fmt.Errorf("search %q: %w", job.Name, err)
	}
	return o, nil
}

// eventSink logs the placements a search reports.
func eventSink(log *slog.Logger) engine.SolutionSink {
	return engine.SinkFuncs{
		OnDisplay: func(row, col int, o model.Orientation) {
			log.Debug("display", "orientation", o.String(), "row", row, "col", col)
		},
		OnUndisplay: func() {
			log.Debug("undisplay")
		},
	}
}

func writeExports(job project.Job, report export.Report, log *slog.Logger) error {
	for _, p := range []string{job.PDF, job.XLSX, job.DXF} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if job.PDF != "" {
		if err := export.ExportPDF(job.PDF, report); err != nil {
			return err
		}
		log.Info("report written", "format", "pdf", "path", job.PDF)
	}
	if job.XLSX != "" {
		if err := export.ExportExcel(job.XLSX, report); err != nil {
			return err
		}
		log.Info("report written", "format", "xlsx", "path", job.XLSX)
	}
	if job.DXF != "" {
		if err := export.ExportDXF(job.DXF, report, export.DefaultCellSize); err != nil {
			return err
		}
		log.Info("report written", "format", "dxf", "path", job.DXF)
	}
	return nil
}

// loadGrid reads one grid. Pattern files (.bin) hold many records and index
// picks one; every other format holds a single grid.
func loadGrid(path string, index int, log *slog.Logger) (model.Grid, error) {
	if isPatternFile(path) {
		patterns, err := loadPatterns(path, log)
		if err != nil {
			return model.Grid{}, err
		}
		if index >= len(patterns) {
			return model.Grid{}, fmt.Errorf("%s: index %d out of range (%d patterns)", path, index, len(patterns))
		}
		return patterns[index].Grid, nil
	}
	result := importer.ImportFile(path)
	for _, w := range result.Warnings {
		log.Warn("import warning", "path", path, "warning", w)
	}
	if !result.OK() {
		return model.Grid{}, errors.New(strings.Join(result.Errors, "; "))
	}
	return result.Grid, nil
}

// loadPatterns reads every pattern in path. A pattern file that ends in a
// malformed record still yields the records before it.
func loadPatterns(path string, log *slog.Logger) ([]model.Pattern, error) {
	if !isPatternFile(path) {
		g, err := loadGrid(path, 0, log)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return []model.Pattern{model.NewPattern(name, g)}, nil
	}
	lib := model.NewPatternLibrary()
	err := project.ImportPatternFile(path, &lib)
	if err != nil && !(errors.Is(err, project.ErrBadRecord) && lib.Len() > 0) {
		return nil, err
	}
	if err != nil {
		log.Warn("pattern file truncated", "path", path, "kept", lib.Len(), "error", err)
	}
	return lib.Patterns, nil
}

func isPatternFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".bin")
}

// runCompare searches the world for every pattern of the shape input.
func runCompare(config *Config, out io.Writer, logger *slog.Logger) error {
	patterns, err := loadPatterns(config.ShapePath, logger)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	world, err := loadGrid(config.WorldPath, config.WorldIndex, logger)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}

	results := engine.ComparePatterns(patterns, world)
	for _, r := range results {
		o := Outcome{
			Name:      r.Pattern.Name,
			Connected: r.WellFormed,
			Found:     r.Result.Found,
			Tested:    r.Stats.Tested,
			Total:     r.Stats.Total,
		}
		if r.Result.Found {
			o.Orientation = r.Result.Placement.Orientation.String()
			o.Row, o.Col = r.Result.Placement.Row, r.Result.Placement.Col
		}
		if err := printOutcome(out, o, config.JSON); err != nil {
			return err
		}
	}
	found := engine.CountFound(results)
	logger.Info("comparison finished", "patterns", len(results), "found", found)

	if config.Cards != "" {
		if err := export.ExportPatternCards(config.Cards, results); err != nil {
			return &ExitError{Code: ExitFailure, Message: err.Error()}
		}
		logger.Info("cards written", "path", config.Cards)
	}
	if found == 0 {
		return &ExitError{Code: ExitNotFound, Message: exitMessage(ExitNotFound)}
	}
	return nil
}

func printOutcome(out io.Writer, o Outcome, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(out).Encode(o)
	}
	_, err := fmt.Fprintln(out, o.String())
	return err
}

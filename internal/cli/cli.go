package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Process exit codes.
const (
	ExitFound     = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitNotFound  = 3
	ExitIllFormed = 4
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Config is the validated command line.
type Config struct {
	ShapePath  string
	WorldPath  string
	ShapeIndex int
	WorldIndex int
	JobsPath   string

	Delay     time.Duration
	Animated  bool
	CheckOnly bool
	Compare   bool
	JSON      bool

	PDF   string
	XLSX  string
	DXF   string
	Cards string

	LogFormat string
	LogLevel  string
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("shapefit-cli", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ShapeFit - find a rotation or mirror image of a shape on a world grid.

Usage:
  shapefit-cli [options] SHAPE WORLD
  shapefit-cli [options] -jobs FILE.hcl

Arguments:
  SHAPE, WORLD
    Grid files: .txt/.grid (# and .), .csv/.tsv, .xlsx, or a .bin pattern
    file (use -shape-index / -world-index to pick a record).

Exit codes:
  0 found (or shape connected with -check-only), 3 no fit,
  4 shape not connected, 2 usage error, 1 any other failure.

Options:
`)
		flagSet.PrintDefaults()
	}

	jobsFlag := flagSet.String("jobs", "", "Path to an HCL job file declaring one or more searches.")
	shapeIndexFlag := flagSet.Int("shape-index", 0, "Record to use when SHAPE is a .bin pattern file.")
	worldIndexFlag := flagSet.Int("world-index", 0, "Record to use when WORLD is a .bin pattern file.")
	delayFlag := flagSet.Duration("delay", 0, "Minimum gap between reported placements, e.g. 10ms.")
	animatedFlag := flagSet.Bool("animated", false, "Report every failed placement, not only the match.")
	checkOnlyFlag := flagSet.Bool("check-only", false, "Only check that the shape is connected.")
	compareFlag := flagSet.Bool("compare", false, "Search the world for every pattern in SHAPE.")
	jsonFlag := flagSet.Bool("json", false, "Print results as JSON lines.")
	pdfFlag := flagSet.String("pdf", "", "Write a PDF report of the search.")
	xlsxFlag := flagSet.String("xlsx", "", "Write an Excel workbook of the search.")
	dxfFlag := flagSet.String("dxf", "", "Write a DXF drawing of the world and the match.")
	cardsFlag := flagSet.String("cards", "", "Write PDF cards for every pattern in SHAPE (implies -compare).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	if *jobsFlag == "" && flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	config := &Config{
		JobsPath:   *jobsFlag,
		ShapeIndex: *shapeIndexFlag,
		WorldIndex: *worldIndexFlag,
		Delay:      *delayFlag,
		Animated:   *animatedFlag,
		CheckOnly:  *checkOnlyFlag,
		Compare:    *compareFlag || *cardsFlag != "",
		JSON:       *jsonFlag,
		PDF:        *pdfFlag,
		XLSX:       *xlsxFlag,
		DXF:        *dxfFlag,
		Cards:      *cardsFlag,
		LogFormat:  strings.ToLower(*logFormatFlag),
		LogLevel:   strings.ToLower(*logLevelFlag),
	}
	if flagSet.NArg() > 0 {
		config.ShapePath = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		config.WorldPath = flagSet.Arg(1)
	}
	if flagSet.NArg() > 2 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(2))}
	}

	if err := config.validate(); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func (c *Config) validate() error {
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log-format: must be 'text' or 'json'")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if c.JobsPath != "" {
		if c.ShapePath != "" {
			return fmt.Errorf("-jobs cannot be combined with SHAPE and WORLD arguments")
		}
		if c.Compare {
			return fmt.Errorf("-compare and -cards need SHAPE and WORLD arguments")
		}
		return nil
	}
	if c.ShapePath == "" || c.WorldPath == "" {
		return fmt.Errorf("expected SHAPE and WORLD arguments, or -jobs FILE")
	}
	if c.ShapeIndex < 0 || c.WorldIndex < 0 {
		return fmt.Errorf("pattern indexes must not be negative")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	if c.Compare && c.CheckOnly {
		return fmt.Errorf("-compare cannot be combined with -check-only")
	}
	return nil
}

// NewLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances.
func NewLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}

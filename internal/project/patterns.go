package project

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/piwi3910/shapefit/internal/model"
)

var (
	// ErrNotSquare is returned when writing a grid whose sides differ; the
	// pattern file format stores a single side length.
	ErrNotSquare = errors.New("project: pattern grids must be square")
	// ErrBadRecord is returned for a negative or oversized side length, or a
	// record cut short by the end of the file.
	ErrBadRecord = errors.New("project: malformed pattern record")
)

// maxPatternSide bounds the side length accepted from a pattern file.
const maxPatternSide = 4096

// Default pattern file names inside the config directory.
const (
	SavedShapesFile = "saved_shapes"
	SavedWorldsFile = "saved_worlds"
)

// DefaultPatternPath returns ~/.shapefit/<name>.
func DefaultPatternPath(name string) string {
	return filepath.Join(DefaultConfigDir(), name)
}

// WritePatterns encodes square grids as a sequence of records. Each record
// is a 4-byte big-endian side length N followed by N rows of ceil(N/8)
// bytes; bit j%8 of byte j/8 (least significant first) holds cell j.
func WritePatterns(w io.Writer, grids []model.Grid) error {
	bw := bufio.NewWriter(w)
	for i, g := range grids {
		if !g.IsSquare() {
			return fmt.Errorf("pattern %d is %dx%d: %w", i, g.Rows(), g.Cols(), ErrNotSquare)
		}
		n := g.Rows()
		if err := binary.Write(bw, binary.BigEndian, int32(n)); err != nil {
			return err
		}
		row := make([]byte, (n+7)/8)
		for r := 0; r < n; r++ {
			clear(row)
			for c := 0; c < n; c++ {
				if g.At(r, c) {
					row[c/8] |= 1 << (c % 8)
				}
			}
			if _, err := bw.Write(row); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ReadPatterns decodes records written by WritePatterns until the end of the
// stream. An end of stream inside a record is ErrBadRecord.
func ReadPatterns(r io.Reader) ([]model.Grid, error) {
	br := bufio.NewReader(r)
	var grids []model.Grid
	for i := 0; ; i++ {
		var n int32
		if err := binary.Read(br, binary.BigEndian, &n); err != nil {
			if errors.Is(err, io.EOF) {
				return grids, nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return grids, fmt.Errorf("record %d: truncated size: %w", i, ErrBadRecord)
			}
			return grids, err
		}
		if n < 0 || n > maxPatternSide {
			return grids, fmt.Errorf("record %d: side length %d: %w", i, n, ErrBadRecord)
		}
		g := model.NewGrid(int(n), int(n))
		row := make([]byte, (n+7)/8)
		for rr := 0; rr < int(n); rr++ {
			if _, err := io.ReadFull(br, row); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					return grids, fmt.Errorf("record %d: truncated at row %d: %w", i, rr, ErrBadRecord)
				}
				return grids, err
			}
			for c := 0; c < int(n); c++ {
				if row[c/8]&(1<<(c%8)) != 0 {
					_ = g.Set(rr, c, true)
				}
			}
		}
		grids = append(grids, g)
	}
}

// SavePatternFile writes the library's grids, in library order, to path.
func SavePatternFile(path string, lib model.PatternLibrary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePatterns(f, lib.Grids()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadPatternFile reads a pattern file into a new library. Patterns are
// named after the file, e.g. "saved_shapes 1". A missing file yields an
// empty library.
func LoadPatternFile(path string) (model.PatternLibrary, error) {
	lib := model.NewPatternLibrary()
	if err := ImportPatternFile(path, &lib); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewPatternLibrary(), nil
		}
		return lib, err
	}
	return lib, nil
}

// ImportPatternFile appends every pattern of a pattern file to lib. Records
// decoded before a malformed one are kept.
func ImportPatternFile(path string, lib *model.PatternLibrary) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	grids, readErr := ReadPatterns(f)
	base := filepath.Base(path)
	start := lib.Len()
	for i, g := range grids {
		lib.Add(model.NewPattern(fmt.Sprintf("%s %d", base, start+i+1), g))
	}
	if readErr != nil {
		return fmt.Errorf("%s: %w", path, readErr)
	}
	return nil
}

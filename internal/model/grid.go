package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

var (
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("model: all grid rows must have the same length")
	// ErrOutOfBounds indicates a cell coordinate outside the grid.
	ErrOutOfBounds = errors.New("model: cell coordinate out of bounds")
	// ErrBadGridText indicates an unrecognised character in grid text.
	ErrBadGridText = errors.New("model: grid text may only contain '#' and '.'")
)

// Grid is a rectangular boolean matrix stored row-major.
//
// Assigning a Grid shares its cells; use Clone for an independent copy.
// The engine and the search controller always clone the grids they are
// given, so editors may keep mutating their own copy with Set.
type Grid struct {
	rows  int
	cols  int
	cells []bool
}

// NewGrid returns an all-false grid of the given size.
// Negative sizes are treated as zero.
func NewGrid(rows, cols int) Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return Grid{rows: rows, cols: cols, cells: make([]bool, rows*cols)}
}

// FromRows builds a grid from a row-major matrix. All rows must have the
// same length.
func FromRows(rows [][]bool) (Grid, error) {
	if len(rows) == 0 {
		return NewGrid(0, 0), nil
	}
	cols := len(rows[0])
	g := NewGrid(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return Grid{}, fmt.Errorf("row %d has %d cells, want %d: %w", r, len(row), cols, ErrNonRectangular)
		}
		copy(g.cells[r*cols:(r+1)*cols], row)
	}
	return g, nil
}

// MustFromRows is FromRows for literals known to be rectangular.
func MustFromRows(rows [][]bool) Grid {
	g, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// ParseGrid reads a grid drawn with '#' (true) and '.' (false), one row per
// line. Blank lines and surrounding spaces are ignored.
func ParseGrid(text string) (Grid, error) {
	var rows [][]bool
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row := make([]bool, 0, len(line))
		for _, ch := range line {
			switch ch {
			case '#':
				row = append(row, true)
			case '.':
				row = append(row, false)
			default:
				return Grid{}, fmt.Errorf("line %d: %q: %w", i+1, ch, ErrBadGridText)
			}
		}
		rows = append(rows, row)
	}
	return FromRows(rows)
}

// MustParseGrid is ParseGrid for literals.
func MustParseGrid(text string) Grid {
	g, err := ParseGrid(text)
	if err != nil {
		panic(err)
	}
	return g
}

// RandomGrid fills a new grid, setting each cell with probability fill.
func RandomGrid(rows, cols int, fill float64, rng *rand.Rand) Grid {
	g := NewGrid(rows, cols)
	for i := range g.cells {
		g.cells[i] = rng.Float64() < fill
	}
	return g
}

func (g Grid) Rows() int { return g.rows }
func (g Grid) Cols() int { return g.cols }

// InBounds reports whether (r, c) is a cell of the grid.
func (g Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

// At returns the cell value; out-of-bounds cells read as false.
func (g Grid) At(r, c int) bool {
	if !g.InBounds(r, c) {
		return false
	}
	return g.cells[r*g.cols+c]
}

// Set writes a cell in place.
func (g Grid) Set(r, c int, v bool) error {
	if !g.InBounds(r, c) {
		return fmt.Errorf("(%d,%d) in %dx%d grid: %w", r, c, g.rows, g.cols, ErrOutOfBounds)
	}
	g.cells[r*g.cols+c] = v
	return nil
}

// Toggle flips a cell in place.
func (g Grid) Toggle(r, c int) error {
	if !g.InBounds(r, c) {
		return fmt.Errorf("(%d,%d) in %dx%d grid: %w", r, c, g.rows, g.cols, ErrOutOfBounds)
	}
	i := r*g.cols + c
	g.cells[i] = !g.cells[i]
	return nil
}

// Count returns the number of true cells.
func (g Grid) Count() int {
	n := 0
	for _, v := range g.cells {
		if v {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no cell is true.
func (g Grid) IsEmpty() bool {
	for _, v := range g.cells {
		if v {
			return false
		}
	}
	return true
}

// IsSquare reports whether rows == cols.
func (g Grid) IsSquare() bool { return g.rows == g.cols }

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	cells := make([]bool, len(g.cells))
	copy(cells, g.cells)
	return Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// Equal reports whether both grids have the same size and cells.
func (g Grid) Equal(other Grid) bool {
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// ToRows returns a fresh row-major matrix.
func (g Grid) ToRows() [][]bool {
	out := make([][]bool, g.rows)
	for r := range out {
		out[r] = make([]bool, g.cols)
		copy(out[r], g.cells[r*g.cols:(r+1)*g.cols])
	}
	return out
}

// Resize returns a grid of the new size holding the overlapping top-left
// block of g. New cells are false.
func (g Grid) Resize(rows, cols int) Grid {
	out := NewGrid(rows, cols)
	for r := 0; r < min(rows, g.rows); r++ {
		for c := 0; c < min(cols, g.cols); c++ {
			out.cells[r*out.cols+c] = g.cells[r*g.cols+c]
		}
	}
	return out
}

// Shift returns a copy of g with every cell moved by (dRow, dCol).
// Positive dRow moves down, positive dCol moves right. Cells shifted off the
// edge are lost and vacated cells are false.
func (g Grid) Shift(dRow, dCol int) Grid {
	out := NewGrid(g.rows, g.cols)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			sr, sc := r-dRow, c-dCol
			if g.InBounds(sr, sc) {
				out.cells[r*g.cols+c] = g.cells[sr*g.cols+sc]
			}
		}
	}
	return out
}

// String draws the grid with '#' and '.', one line per row.
func (g Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(g.rowString(r))
	}
	return sb.String()
}

func (g Grid) rowString(r int) string {
	b := make([]byte, g.cols)
	for c := 0; c < g.cols; c++ {
		if g.cells[r*g.cols+c] {
			b[c] = '#'
		} else {
			b[c] = '.'
		}
	}
	return string(b)
}

// gridJSON is the on-disk form: explicit size plus '#'/'.' rows, so that
// zero-column grids survive a round trip.
type gridJSON struct {
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Cells []string `json:"cells"`
}

func (g Grid) MarshalJSON() ([]byte, error) {
	lines := make([]string, g.rows)
	for r := range lines {
		lines[r] = g.rowString(r)
	}
	return json.Marshal(gridJSON{Rows: g.rows, Cols: g.cols, Cells: lines})
}

func (g *Grid) UnmarshalJSON(data []byte) error {
	var raw gridJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Cells) != raw.Rows {
		return fmt.Errorf("grid has %d row strings, want %d: %w", len(raw.Cells), raw.Rows, ErrNonRectangular)
	}
	out := NewGrid(raw.Rows, raw.Cols)
	for r, line := range raw.Cells {
		if len(line) != raw.Cols {
			return fmt.Errorf("row %d has %d cells, want %d: %w", r, len(line), raw.Cols, ErrNonRectangular)
		}
		for c := 0; c < len(line); c++ {
			switch line[c] {
			case '#':
				out.cells[r*raw.Cols+c] = true
			case '.':
			default:
				return fmt.Errorf("row %d col %d: %q: %w", r, c, line[c], ErrBadGridText)
			}
		}
	}
	*g = out
	return nil
}

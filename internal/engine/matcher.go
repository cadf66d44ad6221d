package engine

import "github.com/piwi3910/shapefit/internal/model"

// Options controls how a Matcher reports progress.
type Options struct {
	// Animated reports every failed placement to the sink with Undisplay,
	// so a renderer can show the search sweeping the world.
	Animated bool
}

// Stats describes how much of the search space a run covered.
type Stats struct {
	Tested int // placements tested, including a final match
	Total  int // placements in the full search space
}

// Matcher searches a world grid for a placement of a shape grid. It holds
// private copies of both grids, so callers may keep editing their own.
type Matcher struct {
	shape model.Grid
	world model.Grid
	opts  Options

	// cells lists the shape's true cells in row-major order.
	cells [][2]int
}

// New builds a Matcher over copies of shape and world.
func New(shape, world model.Grid, opts Options) *Matcher {
	m := &Matcher{
		shape: shape.Clone(),
		world: world.Clone(),
		opts:  opts,
	}
	for r := 0; r < m.shape.Rows(); r++ {
		for c := 0; c < m.shape.Cols(); c++ {
			if m.shape.At(r, c) {
				m.cells = append(m.cells, [2]int{r, c})
			}
		}
	}
	return m
}

// Shape returns a copy of the shape being searched for.
func (m *Matcher) Shape() model.Grid { return m.shape.Clone() }

// World returns a copy of the world being searched.
func (m *Matcher) World() model.Grid { return m.world.Clone() }

// Search is a convenience wrapper: New(shape, world, Options{}).Search().
func Search(shape, world model.Grid) model.MatchResult {
	return New(shape, world, Options{}).Search()
}

// Search returns the first placement, in search order, at which every true
// shape cell lies over a true world cell.
//
// Search order is orientation (model.Orientations), then row offset, then
// column offset, all ascending. Offsets run up to and including the last
// position at which the oriented shape still fits inside the world. A shape
// larger than the world in either dimension for some orientation simply
// yields no placements for it.
func (m *Matcher) Search() model.MatchResult {
	res, _, _ := m.Solve(nil, nil)
	return res
}

// Fits reports whether the shape, oriented and offset by p, is contained in
// the world. Placements that would leave the world never fit. False shape
// cells impose no constraint.
func (m *Matcher) Fits(p model.Placement) bool {
	h, w := p.Orientation.OrientedSize(m.shape.Rows(), m.shape.Cols())
	if p.Row < 0 || p.Col < 0 || p.Row+h > m.world.Rows() || p.Col+w > m.world.Cols() {
		return false
	}
	return m.fits(p)
}

func (m *Matcher) fits(p model.Placement) bool {
	rows, cols := m.shape.Rows(), m.shape.Cols()
	for _, rc := range m.cells {
		wr, wc := p.WorldCell(rows, cols, rc[0], rc[1])
		if !m.world.At(wr, wc) {
			return false
		}
	}
	return true
}

// Total returns the number of placements in the search space.
func (m *Matcher) Total() int {
	total := 0
	for _, o := range model.Orientations {
		h, w := o.OrientedSize(m.shape.Rows(), m.shape.Cols())
		if dr, dc := m.world.Rows()-h+1, m.world.Cols()-w+1; dr > 0 && dc > 0 {
			total += dr * dc
		}
	}
	return total
}

// Solve runs the search and reports to sink.
//
// checkpoint, if non-nil, is called before every placement test. It may
// block (to pause the search) and returns a non-nil error to stop it; Solve
// then sends a single Undisplay and returns that error with model.NotFound.
//
// On a match, Solve sends Display once and returns immediately. In animated
// mode each failed placement is followed by Undisplay, so the last of them
// is the terminal call when nothing fits. Otherwise exhaustion is reported
// with one Undisplay. A nil sink discards all calls.
func (m *Matcher) Solve(sink SolutionSink, checkpoint func() error) (model.MatchResult, Stats, error) {
	if sink == nil {
		sink = DiscardSink
	}
	stats := Stats{Total: m.Total()}
	rows, cols := m.shape.Rows(), m.shape.Cols()

	for _, o := range model.Orientations {
		h, w := o.OrientedSize(rows, cols)
		for row := 0; row <= m.world.Rows()-h; row++ {
			for col := 0; col <= m.world.Cols()-w; col++ {
				if checkpoint != nil {
					if err := checkpoint(); err != nil {
						sink.Undisplay()
						return model.NotFound, stats, err
					}
				}
				p := model.Placement{Orientation: o, Row: row, Col: col}
				stats.Tested++
				if m.fits(p) {
					sink.Display(row, col, o)
					return model.Found(p), stats, nil
				}
				if m.opts.Animated {
					sink.Undisplay()
				}
			}
		}
	}

	if !m.opts.Animated || stats.Tested == 0 {
		sink.Undisplay()
	}
	return model.NotFound, stats, nil
}

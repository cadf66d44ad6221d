package model

// CellState classifies a world cell for rendering.
type CellState int

const (
	CellEmpty        CellState = iota // false world cell, not covered
	CellFull                          // true world cell, not covered
	CellEmptyOverlap                  // false world cell under a true shape cell
	CellFullOverlap                   // true world cell under a true shape cell
)

func (s CellState) String() string {
	switch s {
	case CellFull:
		return "Full"
	case CellEmptyOverlap:
		return "EmptyOverlap"
	case CellFullOverlap:
		return "FullOverlap"
	default:
		return "Empty"
	}
}

// Covered reports whether a shape cell lies over this world cell.
func (s CellState) Covered() bool {
	return s == CellEmptyOverlap || s == CellFullOverlap
}

// Overlay classifies every cell of world, highlighting the cells covered by
// the true cells of shape at result's placement. A not-found result yields
// only CellEmpty and CellFull.
//
// Coverage is computed through the inverse transform, the same mapping the
// engine's forward transform is checked against.
func Overlay(shape, world Grid, result MatchResult) [][]CellState {
	out := make([][]CellState, world.Rows())
	for r := range out {
		out[r] = make([]CellState, world.Cols())
		for c := range out[r] {
			covered := false
			if result.Found {
				if sr, sc, ok := result.Placement.ShapeCell(shape.Rows(), shape.Cols(), r, c); ok {
					covered = shape.At(sr, sc)
				}
			}
			full := world.At(r, c)
			switch {
			case covered && full:
				out[r][c] = CellFullOverlap
			case covered:
				out[r][c] = CellEmptyOverlap
			case full:
				out[r][c] = CellFull
			default:
				out[r][c] = CellEmpty
			}
		}
	}
	return out
}

// OverlayCounts tallies the states of an overlay.
func OverlayCounts(overlay [][]CellState) map[CellState]int {
	counts := make(map[CellState]int, 4)
	for _, row := range overlay {
		for _, s := range row {
			counts[s]++
		}
	}
	return counts
}

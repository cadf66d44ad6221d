package model

import "fmt"

// Placement is a proposed fit: the orientation applied to the shape and the
// world cell that receives the oriented shape's top-left cell.
type Placement struct {
	Orientation Orientation `json:"orientation"`
	Row         int         `json:"row"`
	Col         int         `json:"col"`
}

func (p Placement) String() string {
	return fmt.Sprintf("%s @ (%d,%d)", p.Orientation, p.Row, p.Col)
}

// ShapeCell maps a world cell back into canonical shape coordinates for a
// rows x cols shape. ok is false when the world cell lies outside the
// oriented shape's footprint.
func (p Placement) ShapeCell(rows, cols, worldRow, worldCol int) (r, c int, ok bool) {
	h, w := p.Orientation.OrientedSize(rows, cols)
	lr, lc := worldRow-p.Row, worldCol-p.Col
	if lr < 0 || lc < 0 || lr >= h || lc >= w {
		return 0, 0, false
	}
	r, c = p.Orientation.Inverse(rows, cols, lr, lc)
	return r, c, true
}

// WorldCell maps a canonical shape cell to the world cell it covers.
func (p Placement) WorldCell(rows, cols, r, c int) (int, int) {
	or, oc := p.Orientation.Forward(rows, cols, r, c)
	return p.Row + or, p.Col + oc
}

// MatchResult is the outcome of one search. The zero value is "not found".
type MatchResult struct {
	Found     bool      `json:"found"`
	Placement Placement `json:"placement"`
}

// NotFound is the result of a search with no fit.
var NotFound = MatchResult{}

// Found wraps a placement as a successful result.
func Found(p Placement) MatchResult {
	return MatchResult{Found: true, Placement: p}
}

func (m MatchResult) String() string {
	if !m.Found {
		return "not found"
	}
	return "found " + m.Placement.String()
}

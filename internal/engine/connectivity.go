package engine

import "github.com/piwi3910/shapefit/internal/model"

// conn4 lists the orthogonal neighbor offsets: up, right, down, left.
var conn4 = [4][2]int{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}

// IsWellFormed reports whether shape has at least one true cell and all of
// its true cells form a single 4-connected region. Diagonal contact does not
// connect cells.
func IsWellFormed(shape model.Grid) bool {
	total := shape.Count()
	if total == 0 {
		return false
	}
	for r := 0; r < shape.Rows(); r++ {
		for c := 0; c < shape.Cols(); c++ {
			if shape.At(r, c) {
				return len(flood(shape, r, c, nil)) == total
			}
		}
	}
	return false
}

// Components returns every 4-connected region of true cells. Regions are
// ordered by their first cell in row-major order, and each region lists its
// cells in breadth-first order from that cell.
func Components(g model.Grid) [][][2]int {
	seen := make([]bool, g.Rows()*g.Cols())
	var comps [][][2]int
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if !g.At(r, c) || seen[r*g.Cols()+c] {
				continue
			}
			comps = append(comps, flood(g, r, c, seen))
		}
	}
	return comps
}

// flood collects the true cells reachable from (r0, c0) by breadth-first
// search, marking them in seen. A nil seen allocates a fresh one.
func flood(g model.Grid, r0, c0 int, seen []bool) [][2]int {
	cols := g.Cols()
	if seen == nil {
		seen = make([]bool, g.Rows()*cols)
	}
	queue := [][2]int{{r0, c0}}
	seen[r0*cols+c0] = true
	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		for _, d := range conn4 {
			vr, vc := u[0]+d[0], u[1]+d[1]
			if !g.At(vr, vc) {
				continue // out of bounds reads false
			}
			if vi := vr*cols + vc; !seen[vi] {
				seen[vi] = true
				queue = append(queue, [2]int{vr, vc})
			}
		}
	}
	return queue
}

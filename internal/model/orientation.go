package model

import "fmt"

// Orientation is one of the eight symmetries of a rectangle's grid: four
// quarter-turn rotations, each optionally followed by a left-right mirror.
// Coordinates are screen coordinates (row grows downward), so "clockwise"
// is as seen on screen.
type Orientation int

const (
	Identity       Orientation = iota // no rotation
	Rot90CW                           // quarter turn clockwise
	Rot180                            // half turn
	Rot90CCW                          // quarter turn counter-clockwise
	MirrorIdentity                    // left-right mirror
	MirrorRot90CW                     // quarter turn clockwise, then mirror
	MirrorRot180                      // half turn, then mirror
	MirrorRot90CCW                    // quarter turn counter-clockwise, then mirror
)

// Orientations lists every orientation in search order.
var Orientations = [...]Orientation{
	Identity, Rot90CW, Rot180, Rot90CCW,
	MirrorIdentity, MirrorRot90CW, MirrorRot180, MirrorRot90CCW,
}

func (o Orientation) String() string {
	switch o {
	case Identity:
		return "Identity"
	case Rot90CW:
		return "Rot90CW"
	case Rot180:
		return "Rot180"
	case Rot90CCW:
		return "Rot90CCW"
	case MirrorIdentity:
		return "MirrorIdentity"
	case MirrorRot90CW:
		return "MirrorRot90CW"
	case MirrorRot180:
		return "MirrorRot180"
	case MirrorRot90CCW:
		return "MirrorRot90CCW"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// ParseOrientation is the inverse of String.
func ParseOrientation(s string) (Orientation, error) {
	for _, o := range Orientations {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown orientation %q", s)
}

// Valid reports whether o is one of the eight defined orientations.
func (o Orientation) Valid() bool {
	return o >= Identity && o <= MirrorRot90CCW
}

// Mirrored reports whether the orientation includes the left-right mirror.
func (o Orientation) Mirrored() bool {
	return o >= MirrorIdentity && o <= MirrorRot90CCW
}

// QuarterTurns returns the clockwise quarter turns applied before any mirror.
func (o Orientation) QuarterTurns() int {
	return int(o) % 4
}

// OrientedSize returns the height and width of a rows x cols shape after
// the orientation is applied.
func (o Orientation) OrientedSize(rows, cols int) (int, int) {
	if o.QuarterTurns()%2 == 1 {
		return cols, rows
	}
	return rows, cols
}

// Forward maps a canonical cell (r, c) of a rows x cols shape to the cell it
// occupies in the oriented shape.
//
// A clockwise quarter turn sends (r, c) to (c, rows-1-r); the mirror then
// flips the column within the oriented width.
func (o Orientation) Forward(rows, cols, r, c int) (int, int) {
	var or, oc int
	switch o.QuarterTurns() {
	case 0:
		or, oc = r, c
	case 1:
		or, oc = c, rows-1-r
	case 2:
		or, oc = rows-1-r, cols-1-c
	case 3:
		or, oc = cols-1-c, r
	}
	if o.Mirrored() {
		_, width := o.OrientedSize(rows, cols)
		oc = width - 1 - oc
	}
	return or, oc
}

// Inverse maps a cell (r, c) of the oriented shape back to the canonical
// cell of the rows x cols shape. Inverse(Forward(r, c)) == (r, c) for every
// cell and orientation.
func (o Orientation) Inverse(rows, cols, r, c int) (int, int) {
	if o.Mirrored() {
		_, width := o.OrientedSize(rows, cols)
		c = width - 1 - c
	}
	switch o.QuarterTurns() {
	case 1:
		return rows - 1 - c, r
	case 2:
		return rows - 1 - r, cols - 1 - c
	case 3:
		return c, cols - 1 - r
	default:
		return r, c
	}
}

func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

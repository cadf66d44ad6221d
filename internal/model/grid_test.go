package model

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromRows(t *testing.T) {
	g, err := FromRows([][]bool{
		{true, false, false},
		{false, true, true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("expected 2x3, got %dx%d", g.Rows(), g.Cols())
	}
	if !g.At(0, 0) || g.At(0, 1) || !g.At(1, 2) {
		t.Errorf("cells not copied correctly:\n%s", g)
	}
	if g.Count() != 3 {
		t.Errorf("expected 3 true cells, got %d", g.Count())
	}
}

func TestFromRows_Ragged(t *testing.T) {
	_, err := FromRows([][]bool{{true, true}, {true}})
	if !errors.Is(err, ErrNonRectangular) {
		t.Fatalf("expected ErrNonRectangular, got %v", err)
	}
}

func TestFromRows_Empty(t *testing.T) {
	g, err := FromRows(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Rows() != 0 || g.Cols() != 0 || !g.IsEmpty() {
		t.Errorf("expected empty 0x0 grid, got %dx%d", g.Rows(), g.Cols())
	}
}

func TestFromRows_CopiesInput(t *testing.T) {
	rows := [][]bool{{true, false}}
	g := MustFromRows(rows)
	rows[0][1] = true
	if g.At(0, 1) {
		t.Error("grid should not alias its input rows")
	}
}

func TestParseGrid(t *testing.T) {
	g, err := ParseGrid(`
		#..
		.##
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]bool{{true, false, false}, {false, true, true}}
	if diff := cmp.Diff(want, g.ToRows()); diff != "" {
		t.Errorf("ParseGrid mismatch (-want +got):\n%s", diff)
	}
	if g.String() != "#..\n.##" {
		t.Errorf("unexpected String(): %q", g.String())
	}
}

func TestParseGrid_BadChar(t *testing.T) {
	_, err := ParseGrid("#x#")
	if !errors.Is(err, ErrBadGridText) {
		t.Fatalf("expected ErrBadGridText, got %v", err)
	}
}

func TestGrid_AtOutOfBounds(t *testing.T) {
	g := MustParseGrid("##\n##")
	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if g.At(rc[0], rc[1]) {
			t.Errorf("At(%d,%d) should read false", rc[0], rc[1])
		}
	}
}

func TestGrid_SetToggle(t *testing.T) {
	g := NewGrid(2, 2)
	if err := g.Set(1, 0, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !g.At(1, 0) {
		t.Error("Set did not write the cell")
	}
	if err := g.Toggle(1, 0); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if g.At(1, 0) {
		t.Error("Toggle did not flip the cell")
	}
	if err := g.Set(2, 0, true); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds from Set, got %v", err)
	}
	if err := g.Toggle(0, 5); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds from Toggle, got %v", err)
	}
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	g := MustParseGrid("#.\n.#")
	c := g.Clone()
	if !c.Equal(g) {
		t.Fatal("clone should equal original")
	}
	_ = g.Set(0, 1, true)
	if c.At(0, 1) {
		t.Error("mutating the original changed the clone")
	}
	if c.Equal(g) {
		t.Error("grids should differ after mutation")
	}
}

func TestGrid_EqualSizeMismatch(t *testing.T) {
	if NewGrid(2, 3).Equal(NewGrid(3, 2)) {
		t.Error("grids of different shape should not be equal")
	}
}

func TestGrid_Resize(t *testing.T) {
	g := MustParseGrid("##.\n.##\n#.#")
	small := g.Resize(2, 2)
	if small.String() != "##\n.#" {
		t.Errorf("unexpected shrink:\n%s", small)
	}
	big := g.Resize(4, 4)
	if big.String() != "##..\n.##.\n#.#.\n...." {
		t.Errorf("unexpected grow:\n%s", big)
	}
}

func TestGrid_Shift(t *testing.T) {
	g := MustParseGrid("#..\n...\n...")
	tests := []struct {
		name       string
		dRow, dCol int
		want       string
	}{
		{"down", 1, 0, "...\n#..\n..."},
		{"right", 0, 2, "..#\n...\n..."},
		{"off edge", -1, 0, "...\n...\n..."},
		{"diagonal", 2, 2, "...\n...\n..#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Shift(tt.dRow, tt.dCol).String()
			if got != tt.want {
				t.Errorf("Shift(%d,%d) = %q, want %q", tt.dRow, tt.dCol, got, tt.want)
			}
		})
	}
}

func TestRandomGrid_Extremes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if !RandomGrid(5, 5, 0, rng).IsEmpty() {
		t.Error("fill 0 should produce an empty grid")
	}
	if RandomGrid(5, 5, 1, rng).Count() != 25 {
		t.Error("fill 1 should produce a full grid")
	}
}

func TestGrid_JSON(t *testing.T) {
	g := MustParseGrid("#.#\n.#.")
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Grid
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(g) {
		t.Errorf("JSON round trip changed grid:\n%s", back)
	}

	zeroCols := NewGrid(3, 0)
	data, _ = json.Marshal(zeroCols)
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal zero-width: %v", err)
	}
	if back.Rows() != 3 || back.Cols() != 0 {
		t.Errorf("expected 3x0, got %dx%d", back.Rows(), back.Cols())
	}
}

func TestGrid_UnmarshalRejectsRagged(t *testing.T) {
	var g Grid
	err := json.Unmarshal([]byte(`{"rows":2,"cols":2,"cells":["##","#"]}`), &g)
	if !errors.Is(err, ErrNonRectangular) {
		t.Errorf("expected ErrNonRectangular, got %v", err)
	}
}

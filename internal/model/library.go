package model

import (
	"time"

	"github.com/google/uuid"
)

// Pattern is a named, saved shape or world.
type Pattern struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	Grid      Grid   `json:"grid"`
}

// NewPattern stores a copy of g under a fresh ID.
func NewPattern(name string, g Grid) Pattern {
	return Pattern{
		ID:        uuid.New().String()[:8],
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Grid:      g.Clone(),
	}
}

// PatternLibrary is an ordered collection of saved patterns. The front
// pattern is the "current" one shown to the user; Next and Prev rotate the
// list.
type PatternLibrary struct {
	Patterns []Pattern `json:"patterns"`

	// moved records whether Next/Prev has been used since the library was
	// loaded. The first Next only shows the front pattern.
	moved bool
}

// NewPatternLibrary creates an empty library.
func NewPatternLibrary() PatternLibrary {
	return PatternLibrary{Patterns: []Pattern{}}
}

// Len returns the number of patterns.
func (l *PatternLibrary) Len() int { return len(l.Patterns) }

// Add appends a pattern to the end of the library.
func (l *PatternLibrary) Add(p Pattern) {
	l.Patterns = append(l.Patterns, p)
}

// Remove removes a pattern by ID. Returns true if found and removed.
func (l *PatternLibrary) Remove(id string) bool {
	for i, p := range l.Patterns {
		if p.ID == id {
			l.Patterns = append(l.Patterns[:i], l.Patterns[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the pattern with the given ID, or nil.
// The pointer is invalidated by Remove, Next, Prev and DeleteCurrent.
func (l *PatternLibrary) FindByID(id string) *Pattern {
	for i := range l.Patterns {
		if l.Patterns[i].ID == id {
			return &l.Patterns[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first pattern with the given name, or nil.
// The pointer is invalidated by Remove, Next, Prev and DeleteCurrent.
func (l *PatternLibrary) FindByName(name string) *Pattern {
	for i := range l.Patterns {
		if l.Patterns[i].Name == name {
			return &l.Patterns[i]
		}
	}
	return nil
}

// Names returns the pattern names in library order.
func (l *PatternLibrary) Names() []string {
	names := make([]string, len(l.Patterns))
	for i, p := range l.Patterns {
		names[i] = p.Name
	}
	return names
}

// Current returns a copy of the front pattern's grid.
func (l *PatternLibrary) Current() (Grid, bool) {
	if len(l.Patterns) == 0 {
		return Grid{}, false
	}
	return l.Patterns[0].Grid.Clone(), true
}

// Next advances to the following pattern by moving the front pattern to the
// back, and returns the new front grid. The first call after loading only
// returns the front pattern without rotating.
func (l *PatternLibrary) Next() (Grid, bool) {
	if len(l.Patterns) == 0 {
		return Grid{}, false
	}
	if l.moved {
		front := l.Patterns[0]
		l.Patterns = append(l.Patterns[1:], front)
	}
	l.moved = true
	return l.Current()
}

// Prev moves the last pattern to the front and returns its grid.
func (l *PatternLibrary) Prev() (Grid, bool) {
	last := len(l.Patterns) - 1
	if last < 0 {
		return Grid{}, false
	}
	back := l.Patterns[last]
	l.Patterns = append([]Pattern{back}, l.Patterns[:last]...)
	l.moved = true
	return l.Current()
}

// DeleteCurrent removes the front pattern, but only when it equals shown,
// the grid the user is looking at. Returns true if a pattern was removed.
func (l *PatternLibrary) DeleteCurrent(shown Grid) bool {
	if len(l.Patterns) == 0 || !l.Patterns[0].Grid.Equal(shown) {
		return false
	}
	l.Patterns = l.Patterns[1:]
	return true
}

// Grids returns copies of every pattern grid in library order.
func (l *PatternLibrary) Grids() []Grid {
	out := make([]Grid, len(l.Patterns))
	for i, p := range l.Patterns {
		out[i] = p.Grid.Clone()
	}
	return out
}

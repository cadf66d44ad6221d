package engine

import (
	"fmt"
	"sync"

	"github.com/piwi3910/shapefit/internal/model"
)

// SolutionSink receives the placements a search proposes. A run always ends
// with exactly one terminal call: Display for a genuine match, or Undisplay
// when the search is exhausted or cancelled.
type SolutionSink interface {
	Display(row, col int, o model.Orientation)
	Undisplay()
}

// SinkFuncs adapts a pair of functions to SolutionSink. Nil fields are
// ignored.
type SinkFuncs struct {
	OnDisplay   func(row, col int, o model.Orientation)
	OnUndisplay func()
}

func (s SinkFuncs) Display(row, col int, o model.Orientation) {
	if s.OnDisplay != nil {
		s.OnDisplay(row, col, o)
	}
}

func (s SinkFuncs) Undisplay() {
	if s.OnUndisplay != nil {
		s.OnUndisplay()
	}
}

// DiscardSink ignores every call.
var DiscardSink SolutionSink = SinkFuncs{}

// EventKind tells a display call from an undisplay call.
type EventKind int

const (
	EventDisplay EventKind = iota
	EventUndisplay
)

func (k EventKind) String() string {
	if k == EventDisplay {
		return "display"
	}
	return "undisplay"
}

// Event is one recorded sink call.
type Event struct {
	Kind      EventKind
	Placement model.Placement // zero for undisplay
}

func (e Event) String() string {
	if e.Kind == EventUndisplay {
		return "undisplay"
	}
	return fmt.Sprintf("display %s", e.Placement)
}

// Recorder is a SolutionSink that keeps every call it receives. It is safe
// to read from another goroutine while a search is writing to it.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Display(row, col int, o model.Orientation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: EventDisplay, Placement: model.Placement{Orientation: o, Row: row, Col: col}})
}

func (r *Recorder) Undisplay() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: EventUndisplay})
}

// Events returns a copy of the calls recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many calls of the given kind were recorded.
func (r *Recorder) Count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Last returns the most recent call, if any.
func (r *Recorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}

// Result converts the terminal call into a MatchResult.
func (r *Recorder) Result() model.MatchResult {
	last, ok := r.Last()
	if !ok || last.Kind == EventUndisplay {
		return model.NotFound
	}
	return model.Found(last.Placement)
}

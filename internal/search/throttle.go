package search

import (
	"context"
	"time"

	"github.com/piwi3910/shapefit/internal/engine"
	"github.com/piwi3910/shapefit/internal/model"
)

// throttledSink forwards engine reports to the caller's sink. Before each
// call it waits out a pause and then the controller's delay since the
// previous call. It is only ever used from the search goroutine.
//
// A cancel cuts the wait short. The first call made after the cancel is
// delivered at once as the run's terminal Undisplay and every later call is
// dropped, so a cancelled run ends with exactly one Undisplay and no burst
// of unthrottled calls.
type throttledSink struct {
	ctx  context.Context
	next engine.SolutionSink
	ctl  *Controller
	poll time.Duration

	last time.Time
	// suppressed is set when a Display was replaced by Undisplay because the
	// run was cancelled while waiting to deliver it.
	suppressed bool
	// closed is set once the terminal Undisplay of a cancelled run is sent.
	closed bool
}

func (s *throttledSink) Display(row, col int, o model.Orientation) {
	s.wait()
	if s.ctx.Err() != nil {
		s.suppressed = true
		s.finish()
		return
	}
	defer s.mark()
	s.next.Display(row, col, o)
}

func (s *throttledSink) Undisplay() {
	s.wait()
	if s.ctx.Err() != nil {
		s.finish()
		return
	}
	defer s.mark()
	s.next.Undisplay()
}

// finish sends the terminal Undisplay of a cancelled run, once.
func (s *throttledSink) finish() {
	if s.closed {
		return
	}
	s.closed = true
	s.mark()
	s.next.Undisplay()
}

func (s *throttledSink) mark() {
	s.last = time.Now()
}

func (s *throttledSink) wait() {
	if s.closed {
		return
	}
	s.ctl.waitWhilePaused(s.ctx, s.poll)
	delay := s.ctl.Delay()
	if delay <= 0 || s.last.IsZero() {
		return
	}
	remaining := delay - time.Since(s.last)
	if remaining <= 0 {
		return
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-s.ctx.Done():
	case <-timer.C:
	}
}

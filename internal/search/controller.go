// Package search runs the shape matcher in the background with pause,
// resume, cancel and a throttle between reports.
package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/shapefit/internal/engine"
	"github.com/piwi3910/shapefit/internal/model"
)

var (
	// ErrAlreadyRunning is returned by Start while a search is in progress.
	ErrAlreadyRunning = errors.New("search: already running")
	// ErrNotRunning is returned by Pause, Resume and Cancel when idle.
	ErrNotRunning = errors.New("search: not running")
	// ErrCancelled is the error recorded for a cancelled run.
	ErrCancelled = errors.New("search: cancelled")
)

// DefaultPollInterval is how often a paused search checks for resume.
const DefaultPollInterval = 50 * time.Millisecond

// Status is the lifecycle phase of a controller's latest run.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusComplete  Status = "complete"
	StatusCancelled Status = "cancelled"
)

// Options configures one run.
type Options struct {
	Animated     bool          // report every failed placement
	Delay        time.Duration // minimum gap between sink calls, 0 disables
	PollInterval time.Duration // pause polling, defaults to DefaultPollInterval

	// OnDone, if set, is called from the search goroutine once the run has
	// finished and its final state is visible through State.
	OnDone func(State)
}

// State is a snapshot of the controller's latest run.
type State struct {
	RunID       string            `json:"run_id,omitempty"`
	Status      Status            `json:"status"`
	Paused      bool              `json:"paused"`
	Animated    bool              `json:"animated"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Tested      int               `json:"tested"`
	Total       int               `json:"total"`
	Result      model.MatchResult `json:"result"`
	Error       string            `json:"error,omitempty"`
}

// Percent returns how much of the search space has been tested, 0 to 100.
func (s State) Percent() int {
	if s.Total == 0 {
		if s.Status == StatusComplete {
			return 100
		}
		return 0
	}
	return int(0.5 + 100*float64(s.Tested)/float64(s.Total))
}

// Controller runs at most one search at a time on its own goroutine.
type Controller struct {
	logger *slog.Logger

	mu     sync.RWMutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}

	paused atomic.Bool
	tested atomic.Int64
	delay  atomic.Int64 // nanoseconds
}

// NewController creates an idle controller. A nil logger uses slog.Default.
func NewController(logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		logger: logger,
		state:  State{Status: StatusIdle},
	}
}

// Start copies shape and world and begins searching in the background,
// reporting to sink. It returns ErrAlreadyRunning, without changing
// anything, if a search is in progress. Cancelling ctx cancels the search.
func (c *Controller) Start(ctx context.Context, shape, world model.Grid, sink engine.SolutionSink, opts Options) error {
	c.mu.Lock()
	if c.state.Status == StatusRunning {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if sink == nil {
		sink = engine.DiscardSink
	}
	m := engine.New(shape, world, engine.Options{Animated: opts.Animated})

	now := time.Now()
	c.state = State{
		RunID:     uuid.New().String()[:8],
		Status:    StatusRunning,
		Animated:  opts.Animated,
		StartedAt: &now,
		Total:     m.Total(),
	}
	c.paused.Store(false)
	c.tested.Store(0)
	c.delay.Store(int64(opts.Delay))

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	done := make(chan struct{})
	c.done = done
	runID := c.state.RunID
	c.mu.Unlock()

	c.logger.Info("search started",
		"run_id", runID,
		"shape", [2]int{shape.Rows(), shape.Cols()},
		"world", [2]int{world.Rows(), world.Cols()},
		"animated", opts.Animated,
		"delay", opts.Delay)

	go c.run(runCtx, runID, m, sink, opts, done)
	return nil
}

func (c *Controller) run(ctx context.Context, runID string, m *engine.Matcher, sink engine.SolutionSink, opts Options, done chan struct{}) {
	defer close(done)
	log := c.logger.With("run_id", runID)

	ts := &throttledSink{ctx: ctx, next: sink, ctl: c, poll: opts.PollInterval}
	checkpoint := func() error {
		c.waitWhilePaused(ctx, opts.PollInterval)
		if err := ctx.Err(); err != nil {
			return err
		}
		c.tested.Add(1)
		return nil
	}

	result, _, err := m.Solve(ts, checkpoint)
	if ts.suppressed {
		// Cancelled after the match was found but before it was shown.
		result, err = model.NotFound, ctx.Err()
	}

	now := time.Now()
	c.mu.Lock()
	c.state.CompletedAt = &now
	c.state.Tested = int(c.tested.Load())
	c.state.Paused = false
	c.state.Result = result
	if err != nil {
		c.state.Status = StatusCancelled
		c.state.Error = ErrCancelled.Error()
	} else {
		c.state.Status = StatusComplete
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	final := c.state
	c.mu.Unlock()
	c.paused.Store(false)

	elapsed := now.Sub(*final.StartedAt)
	if err != nil {
		log.Info("search cancelled", "tested", final.Tested, "total", final.Total, "elapsed", elapsed)
	} else {
		log.Info("search finished", "result", result.String(), "tested", final.Tested, "total", final.Total, "elapsed", elapsed)
	}

	if opts.OnDone != nil {
		opts.OnDone(final)
	}
}

// waitWhilePaused blocks until the controller is resumed or ctx ends.
func (c *Controller) waitWhilePaused(ctx context.Context, poll time.Duration) {
	if !c.paused.Load() {
		return
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for c.paused.Load() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Pause suspends the running search at its next checkpoint.
func (c *Controller) Pause() error {
	return c.setPaused(true)
}

// Resume continues a paused search from where it stopped.
func (c *Controller) Resume() error {
	return c.setPaused(false)
}

// TogglePause flips between paused and running, returning the new paused
// state.
func (c *Controller) TogglePause() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status != StatusRunning {
		return false, ErrNotRunning
	}
	p := !c.paused.Load()
	c.paused.Store(p)
	c.state.Paused = p
	c.logger.Debug("search pause toggled", "run_id", c.state.RunID, "paused", p)
	return p, nil
}

func (c *Controller) setPaused(p bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status != StatusRunning {
		return ErrNotRunning
	}
	c.paused.Store(p)
	c.state.Paused = p
	c.logger.Debug("search pause changed", "run_id", c.state.RunID, "paused", p)
	return nil
}

// Cancel asks the running search to stop after the placement it is testing.
// The sink still receives its terminal Undisplay.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return ErrNotRunning
	}
	c.cancel()
	c.cancel = nil
	c.logger.Debug("search cancel requested", "run_id", c.state.RunID)
	return nil
}

// Wait blocks until the current run ends or ctx is done, then returns the
// latest state. It returns immediately when no run was ever started.
func (c *Controller) Wait(ctx context.Context) (State, error) {
	c.mu.RLock()
	done := c.done
	c.mu.RUnlock()
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
	}
	return c.State(), nil
}

// Running reports whether a search is in progress.
func (c *Controller) Running() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Status == StatusRunning
}

// Paused reports whether the running search is suspended.
func (c *Controller) Paused() bool {
	return c.paused.Load()
}

// SetDelay changes the throttle for the current and later calls.
func (c *Controller) SetDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.delay.Store(int64(d))
}

// Delay returns the current throttle.
func (c *Controller) Delay() time.Duration {
	return time.Duration(c.delay.Load())
}

// State returns a snapshot of the latest run.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	if s.Status == StatusRunning {
		s.Tested = int(c.tested.Load())
	}
	return s
}

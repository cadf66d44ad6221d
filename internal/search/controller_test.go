package search

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/piwi3910/shapefit/internal/engine"
	"github.com/piwi3910/shapefit/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitDone(t *testing.T, c *Controller) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	state, err := c.Wait(ctx)
	require.NoError(t, err, "search did not finish in time")
	return state
}

// timedRecorder keeps the time of every sink call.
type timedRecorder struct {
	engine.Recorder
	mu    sync.Mutex
	times []time.Time
}

func (r *timedRecorder) Display(row, col int, o model.Orientation) {
	r.stamp()
	r.Recorder.Display(row, col, o)
}

func (r *timedRecorder) Undisplay() {
	r.stamp()
	r.Recorder.Undisplay()
}

func (r *timedRecorder) stamp() {
	r.mu.Lock()
	r.times = append(r.times, time.Now())
	r.mu.Unlock()
}

func TestController_FindsMatch(t *testing.T) {
	c := NewController(quietLogger())
	rec := &engine.Recorder{}
	shape := model.MustParseGrid("#")
	world := model.MustParseGrid("..\n.#")

	require.NoError(t, c.Start(context.Background(), shape, world, rec, Options{}))
	state := waitDone(t, c)

	assert.Equal(t, StatusComplete, state.Status)
	assert.Equal(t, model.Found(model.Placement{Row: 1, Col: 1}), state.Result)
	assert.Equal(t, []engine.Event{{Kind: engine.EventDisplay, Placement: model.Placement{Row: 1, Col: 1}}}, rec.Events())
	assert.Equal(t, 4, state.Tested)
	assert.Equal(t, 32, state.Total)
	assert.NotEmpty(t, state.RunID)
	assert.NotNil(t, state.CompletedAt)
	assert.False(t, c.Running())
}

func TestController_NotFoundReportsOnce(t *testing.T) {
	c := NewController(quietLogger())
	rec := &engine.Recorder{}

	require.NoError(t, c.Start(context.Background(), model.MustParseGrid("##"), model.NewGrid(2, 2), rec, Options{}))
	state := waitDone(t, c)

	assert.Equal(t, StatusComplete, state.Status)
	assert.False(t, state.Result.Found)
	assert.Equal(t, []engine.Event{{Kind: engine.EventUndisplay}}, rec.Events())
	assert.Equal(t, state.Total, state.Tested)
	assert.Equal(t, 100, state.Percent())
}

func TestController_RejectsSecondStart(t *testing.T) {
	c := NewController(quietLogger())
	rec := &engine.Recorder{}
	shape := model.MustParseGrid("#")
	world := model.NewGrid(4, 4)

	opts := Options{Animated: true, Delay: 20 * time.Millisecond}
	require.NoError(t, c.Start(context.Background(), shape, world, rec, opts))
	before := c.State()

	err := c.Start(context.Background(), shape, world, rec, opts)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Equal(t, before.RunID, c.State().RunID, "a rejected start must not replace the run")

	require.NoError(t, c.Cancel())
	state := waitDone(t, c)
	assert.Equal(t, StatusCancelled, state.Status)
}

func TestController_IdleOperations(t *testing.T) {
	c := NewController(quietLogger())

	assert.ErrorIs(t, c.Pause(), ErrNotRunning)
	assert.ErrorIs(t, c.Resume(), ErrNotRunning)
	assert.ErrorIs(t, c.Cancel(), ErrNotRunning)
	_, err := c.TogglePause()
	assert.ErrorIs(t, err, ErrNotRunning)

	state, err := c.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, state.Status)
}

func TestController_PauseResumeGivesSameResult(t *testing.T) {
	shape := model.MustParseGrid("##\n#.\n#.")
	world := model.MustParseGrid(`
		......
		......
		......
		....##
		....#.
		....#.
	`)
	want := engine.Search(shape, world)
	require.Equal(t, model.Found(model.Placement{Row: 3, Col: 4}), want)

	c := NewController(quietLogger())
	rec := &engine.Recorder{}
	opts := Options{Animated: true, Delay: 2 * time.Millisecond, PollInterval: 5 * time.Millisecond}
	require.NoError(t, c.Start(context.Background(), shape, world, rec, opts))
	require.NoError(t, c.Pause())
	assert.True(t, c.Paused())
	assert.True(t, c.State().Paused)

	// Let any call already past its pause check land, then make sure
	// nothing else arrives while paused.
	time.Sleep(30 * time.Millisecond)
	n := len(rec.Events())
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, n, len(rec.Events()), "no sink calls while paused")
	assert.True(t, c.Running())

	require.NoError(t, c.Resume())
	state := waitDone(t, c)

	assert.Equal(t, StatusComplete, state.Status)
	assert.Equal(t, want, state.Result)
	assert.Equal(t, want, rec.Result())
}

func TestController_TogglePause(t *testing.T) {
	c := NewController(quietLogger())
	opts := Options{Animated: true, Delay: 10 * time.Millisecond}
	require.NoError(t, c.Start(context.Background(), model.MustParseGrid("#"), model.NewGrid(3, 3), nil, opts))

	paused, err := c.TogglePause()
	require.NoError(t, err)
	assert.True(t, paused)
	paused, err = c.TogglePause()
	require.NoError(t, err)
	assert.False(t, paused)

	require.NoError(t, c.Cancel())
	waitDone(t, c)
}

func TestController_CancelledContextStopsBeforeTesting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewController(quietLogger())
	rec := &engine.Recorder{}
	require.NoError(t, c.Start(ctx, model.MustParseGrid("#"), model.MustParseGrid("#"), rec, Options{}))
	state := waitDone(t, c)

	assert.Equal(t, StatusCancelled, state.Status)
	assert.False(t, state.Result.Found)
	assert.Equal(t, 0, state.Tested)
	assert.Equal(t, []engine.Event{{Kind: engine.EventUndisplay}}, rec.Events())
	assert.Equal(t, ErrCancelled.Error(), state.Error)
}

func TestController_CancelWhilePaused(t *testing.T) {
	c := NewController(quietLogger())
	rec := &engine.Recorder{}
	world := model.MustParseGrid(".....\n.....\n....#")
	opts := Options{Animated: true, Delay: 5 * time.Millisecond, PollInterval: 5 * time.Millisecond}

	require.NoError(t, c.Start(context.Background(), model.MustParseGrid("#"), world, rec, opts))
	require.NoError(t, c.Pause())
	require.NoError(t, c.Cancel())
	state := waitDone(t, c)

	assert.Equal(t, StatusCancelled, state.Status)
	assert.False(t, state.Result.Found)
	assert.Equal(t, 0, rec.Count(engine.EventDisplay), "a cancelled search never displays")
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, engine.EventUndisplay, last.Kind)
	assert.False(t, c.Paused())
}

func TestController_CancelSuppressesPendingDisplay(t *testing.T) {
	c := NewController(quietLogger())
	first := make(chan struct{})
	var once sync.Once
	rec := &engine.Recorder{}
	sink := engine.SinkFuncs{
		OnDisplay: rec.Display,
		OnUndisplay: func() {
			rec.Undisplay()
			once.Do(func() { close(first) })
		},
	}
	// The first placement fails, the second fits but must wait out the delay.
	world := model.MustParseGrid(".#")
	opts := Options{Animated: true, Delay: 10 * time.Second}
	require.NoError(t, c.Start(context.Background(), model.MustParseGrid("#"), world, sink, opts))

	<-first
	require.NoError(t, c.Cancel())
	state := waitDone(t, c)

	assert.Equal(t, StatusCancelled, state.Status)
	assert.False(t, state.Result.Found)
	assert.Equal(t, []engine.Event{{Kind: engine.EventUndisplay}, {Kind: engine.EventUndisplay}}, rec.Events())
}

func TestController_CancelEndsWithSingleUndisplay(t *testing.T) {
	c := NewController(quietLogger())
	first := make(chan struct{})
	var once sync.Once
	rec := &engine.Recorder{}
	sink := engine.SinkFuncs{
		OnDisplay: rec.Display,
		OnUndisplay: func() {
			rec.Undisplay()
			once.Do(func() { close(first) })
		},
	}
	// Every placement fails; the second report waits on the long delay.
	opts := Options{Animated: true, Delay: 10 * time.Second}
	require.NoError(t, c.Start(context.Background(), model.MustParseGrid("#"), model.NewGrid(1, 5), sink, opts))

	<-first
	start := time.Now()
	require.NoError(t, c.Cancel())
	state := waitDone(t, c)

	assert.Less(t, time.Since(start), 5*time.Second, "cancel must not wait out the delay")
	assert.Equal(t, StatusCancelled, state.Status)
	assert.Equal(t, []engine.Event{{Kind: engine.EventUndisplay}, {Kind: engine.EventUndisplay}}, rec.Events(),
		"the pending report becomes the only call after the cancel")
}

func TestController_ThrottlesSinkCalls(t *testing.T) {
	const delay = 15 * time.Millisecond
	c := NewController(quietLogger())
	rec := &timedRecorder{}

	// A one-cell shape in an empty 1x2 world fails 16 times.
	require.NoError(t, c.Start(context.Background(), model.MustParseGrid("#"), model.NewGrid(1, 2), rec, Options{Animated: true, Delay: delay}))
	state := waitDone(t, c)

	require.Equal(t, StatusComplete, state.Status)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.times, 16)
	for i := 1; i < len(rec.times); i++ {
		gap := rec.times[i].Sub(rec.times[i-1])
		assert.GreaterOrEqual(t, gap, delay-time.Millisecond, "call %d came %s after the previous one", i, gap)
	}
}

func TestController_SetDelay(t *testing.T) {
	c := NewController(quietLogger())
	c.SetDelay(-time.Second)
	assert.Equal(t, time.Duration(0), c.Delay())
	c.SetDelay(40 * time.Millisecond)
	assert.Equal(t, 40*time.Millisecond, c.Delay())
}

func TestController_OnDoneAndRestart(t *testing.T) {
	c := NewController(quietLogger())
	done := make(chan State, 1)
	opts := Options{OnDone: func(s State) { done <- s }}

	require.NoError(t, c.Start(context.Background(), model.MustParseGrid("#"), model.MustParseGrid("#"), nil, opts))
	first := <-done
	assert.Equal(t, StatusComplete, first.Status)
	assert.True(t, first.Result.Found)

	require.NoError(t, c.Start(context.Background(), model.MustParseGrid("#"), model.NewGrid(1, 1), nil, opts))
	second := <-done
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.False(t, second.Result.Found)
}

func TestController_SnapshotsAreIndependent(t *testing.T) {
	c := NewController(quietLogger())
	shape := model.MustParseGrid("#")
	world := model.NewGrid(3, 3)
	opts := Options{Animated: true, Delay: 5 * time.Millisecond}

	require.NoError(t, c.Start(context.Background(), shape, world, nil, opts))
	// Editing the caller's grid mid-run must not affect the search.
	require.NoError(t, world.Set(2, 2, true))
	state := waitDone(t, c)

	assert.Equal(t, StatusComplete, state.Status)
	assert.False(t, state.Result.Found)
}

func TestState_Percent(t *testing.T) {
	assert.Equal(t, 0, State{Status: StatusRunning}.Percent())
	assert.Equal(t, 100, State{Status: StatusComplete}.Percent())
	assert.Equal(t, 50, State{Tested: 16, Total: 32}.Percent())
	assert.Equal(t, 33, State{Tested: 1, Total: 3}.Percent())
}

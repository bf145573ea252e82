package loadz

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// DefaultDebounce is the default debounce duration for load requests.
// Zero means requests execute immediately with no coalescing window.
const DefaultDebounce = 0 * time.Millisecond

// Loader manages the lifecycle of an asynchronous load operation and
// exposes its current state and phase to observers.
//
// All triggers (Load, Cancel, SetData, SetError, Use, Args) are delivered
// to a single run-loop goroutine, which owns the state reducer. At most one
// load-function execution is live at a time: a new request supersedes the
// previous execution, a cancel stops it, and an override both stops it and
// injects a terminal state directly.
type Loader[T any] struct {
	fn        LoadFunc[T]
	pipeline  pipz.Chainable[*Request[T]]
	debounce  time.Duration
	staleData bool
	clock     clockz.Clock
	metrics   MetricsProvider
	renderer  Renderer[T]
	history   *errorLog
	onStop    func(LoadingState[T])

	onStart  []func()
	onValue  []func(T)
	onError  []func(error)
	onFinish []func()
	onState  []func(LoadingState[T], Phase)

	state   atomic.Pointer[LoadingState[T]]
	running atomic.Bool

	mu      sync.Mutex
	started bool

	events chan event[T]
	done   chan struct{}
}

// event is the run loop's mailbox entry. Keeping every trigger in one
// mailbox preserves the ordering between a trigger and the implicit cancel
// it carries.
type event[T any] struct {
	kind eventKind
	data *T
	err  error
	fn   LoadFunc[T]
	args any
}

type eventKind int

const (
	evLoad eventKind = iota
	evCancel
	evSetData
	evSetError
	evUse
	evArgs
)

// emission is one message from an execution goroutine back to the run
// loop, tagged with the attempt sequence so stale executions are ignored.
type emission[T any] struct {
	seq   int
	value T
	err   error
	done  bool
}

// execution tracks the single live load-function invocation.
type execution struct {
	seq    int
	cancel context.CancelFunc
	begun  time.Time
}

// New creates a Loader around the given load function.
//
// Pipeline options configure per-emission processing. Instance
// configuration uses chainable methods before calling Start():
//
//	loader := loadz.New[[]Article](fetchArticles).
//	    Debounce(250 * time.Millisecond).
//	    StaleData()
//
//	loader.Start(ctx)
//	loader.Load()
func New[T any](fn LoadFunc[T], opts ...Option[T]) *Loader[T] {
	terminal := pipz.Transform(commitID, func(_ context.Context, req *Request[T]) *Request[T] {
		return req
	})

	l := &Loader[T]{
		fn:       fn,
		pipeline: buildPipeline(terminal, opts),
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
		events:   make(chan event[T], 64),
		done:     make(chan struct{}),
	}
	l.state.Store(&LoadingState[T]{})

	return l
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Debounce sets the debounce duration for load requests. Requests arriving
// within this duration are coalesced into a single execution; a newer
// request resets the wait. Default: 0 (execute immediately).
// Must be called before Start().
func (l *Loader[T]) Debounce(d time.Duration) *Loader[T] {
	l.debounce = d
	return l
}

// StaleData enables stale-data display: a reload that starts while loaded
// data exists keeps the phase at PhaseLoaded (with Loading true visible to
// the renderer) instead of reverting to PhaseLoading.
// Must be called before Start().
func (l *Loader[T]) StaleData() *Loader[T] {
	l.staleData = true
	return l
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic debounce testing.
// Must be called before Start().
func (l *Loader[T]) Clock(clock clockz.Clock) *Loader[T] {
	l.clock = clock
	return l
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Start().
func (l *Loader[T]) Metrics(provider MetricsProvider) *Loader[T] {
	l.metrics = provider
	return l
}

// Render sets a renderer that receives the derived phase on every state
// transition. The retry callback handed to RenderError is bound to Load.
// Must be called before Start().
func (l *Loader[T]) Render(r Renderer[T]) *Loader[T] {
	l.renderer = r
	return l
}

// ErrorHistorySize sets the number of recent load failures to retain for
// ErrorHistory(). Use 0 (default) to disable history; LoadingState.Err
// always carries the most recent error regardless.
// Must be called before Start().
func (l *Loader[T]) ErrorHistorySize(n int) *Loader[T] {
	l.history = newErrorLog(n)
	return l
}

// OnStop sets a callback invoked with the final state when the run loop
// exits. Must be called before Start().
func (l *Loader[T]) OnStop(fn func(LoadingState[T])) *Loader[T] {
	l.onStop = fn
	return l
}

// OnLoadStart registers a listener invoked when a load function execution
// begins, after any debounce wait. Must be called before Start().
func (l *Loader[T]) OnLoadStart(fn func()) *Loader[T] {
	l.onStart = append(l.onStart, fn)
	return l
}

// OnLoadSuccess registers a listener invoked for each value an execution
// produces. Must be called before Start().
func (l *Loader[T]) OnLoadSuccess(fn func(T)) *Loader[T] {
	l.onValue = append(l.onValue, fn)
	return l
}

// OnLoadError registers a listener invoked when an execution fails.
// Must be called before Start().
func (l *Loader[T]) OnLoadError(fn func(error)) *Loader[T] {
	l.onError = append(l.onError, fn)
	return l
}

// OnLoadFinish registers a listener invoked exactly once per execution,
// on completion, error, or cancellation. Must be called before Start().
func (l *Loader[T]) OnLoadFinish(fn func()) *Loader[T] {
	l.onFinish = append(l.onFinish, fn)
	return l
}

// OnStateChange registers a listener invoked with every merged state
// transition and the derived phase, including overrides and
// phase-irrelevant changes. Must be called before Start().
func (l *Loader[T]) OnStateChange(fn func(LoadingState[T], Phase)) *Loader[T] {
	l.onState = append(l.onState, fn)
	return l
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// State returns the current state snapshot.
func (l *Loader[T]) State() LoadingState[T] {
	return *l.state.Load()
}

// Phase returns the rendering phase derived from the current state.
func (l *Loader[T]) Phase() Phase {
	return PhaseOf(l.State(), l.staleData)
}

// Data returns the last successfully loaded payload and true, or the zero
// value and false if nothing has landed yet.
func (l *Loader[T]) Data() (T, bool) {
	s := l.State()
	return s.Data, s.Loaded
}

// LastError returns the error currently held in state, or nil.
func (l *Loader[T]) LastError() error {
	return l.State().Err
}

// ErrorHistory returns recent load failures, oldest first.
// Returns nil unless ErrorHistorySize was set.
func (l *Loader[T]) ErrorHistory() []error {
	return l.history.recent()
}

// -----------------------------------------------------------------------------
// Triggers
// -----------------------------------------------------------------------------

// Load cancels any pending debounce or in-flight execution and starts a
// new attempt through the debounce window. Rapid successive calls collapse
// into a single eventual execution.
func (l *Loader[T]) Load() {
	l.send(event[T]{kind: evLoad})
}

// Cancel stops any in-flight execution or pending debounce. State remains
// whatever was last merged; cancel itself produces no state patch.
func (l *Loader[T]) Cancel() {
	l.send(event[T]{kind: evCancel})
}

// SetData immediately sets terminal loaded state with the given value,
// clearing any error and aborting any in-flight execution. The override
// always wins: the aborted execution produces no further state updates
// even if it later resolves.
func (l *Loader[T]) SetData(v T) {
	l.send(event[T]{kind: evSetData, data: &v})
}

// SetError immediately sets error state and aborts any in-flight
// execution. Previously loaded data is left untouched, so a renderer that
// displays stale data can still reach it. A nil error is ignored.
func (l *Loader[T]) SetError(err error) {
	if err == nil {
		return
	}
	l.send(event[T]{kind: evSetError, err: err})
}

// Use swaps the load function and triggers a fresh Load.
func (l *Loader[T]) Use(fn LoadFunc[T]) {
	l.send(event[T]{kind: evUse, fn: fn})
}

// Args sets the value passed to the load function on each attempt and
// triggers a fresh Load.
func (l *Loader[T]) Args(v any) {
	l.send(event[T]{kind: evArgs, args: v})
}

// send delivers a trigger to the run loop. Triggers before Start or after
// teardown are dropped.
func (l *Loader[T]) send(e event[T]) {
	if !l.running.Load() {
		return
	}
	select {
	case l.events <- e:
	case <-l.done:
	}
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start launches the run loop. No load is triggered: the owner is expected
// to call Load at least once after starting. The loop runs until ctx is
// canceled, after which no further notifications fire.
//
// Start can only be called once. Subsequent calls return an error.
func (l *Loader[T]) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return fmt.Errorf("loader already started")
	}
	l.started = true
	l.mu.Unlock()

	capitan.Emit(ctx, LoaderStarted,
		KeyDebounce.Field(l.debounce),
	)

	l.running.Store(true)
	go l.run(ctx)

	return nil
}

// run is the single-threaded reducer loop. It owns all state mutation;
// every observable transition is produced here, which is what makes the
// per-attempt notification ordering strict.
func (l *Loader[T]) run(ctx context.Context) {
	results := make(chan emission[T], 16)

	var (
		timer   clockz.Timer
		pending bool
		seq     int
		exec    *execution
		fn      = l.fn
		args    any
	)

	stopTimer := func() {
		if timer != nil && !timer.Stop() {
			select {
			case <-timer.C():
			default:
			}
		}
	}

	finish := func() {
		exec.cancel()
		capitan.Emit(ctx, LoadFinished,
			KeyAttempt.Field(exec.seq),
		)
		for _, f := range l.onFinish {
			f()
		}
		exec = nil
	}

	// abort stops the pending debounce and the live execution, if any.
	// It emits the canceled signal and closes out the attempt's finish
	// notification, but never patches state.
	abort := func() {
		if pending {
			stopTimer()
			pending = false
			capitan.Emit(ctx, LoadCanceled)
		}
		if exec == nil {
			return
		}
		capitan.Emit(ctx, LoadCanceled,
			KeyAttempt.Field(exec.seq),
		)
		if l.metrics != nil {
			l.metrics.OnLoadCanceled()
		}
		finish()
	}

	begin := func() {
		seq++
		execCtx, cancel := context.WithCancel(ctx)
		exec = &execution{seq: seq, cancel: cancel, begun: l.clock.Now()}
		capitan.Emit(ctx, LoadStarted,
			KeyAttempt.Field(seq),
		)
		if l.metrics != nil {
			l.metrics.OnLoadStart()
		}
		for _, f := range l.onStart {
			f()
		}
		go forward(execCtx, fn, args, seq, results)
	}

	requested := func() {
		abort()
		l.apply(ctx, patch[T]{loading: ptr(true), err: ptr[error](nil)})
		capitan.Emit(ctx, LoadRequested,
			KeyDebounce.Field(l.debounce),
		)
		if l.debounce <= 0 {
			begin()
			return
		}
		if timer == nil {
			timer = l.clock.NewTimer(l.debounce)
		} else {
			stopTimer()
			timer.Reset(l.debounce)
		}
		pending = true
	}

	fail := func(err error, begun time.Time) {
		l.history.push(err)
		l.apply(ctx, patch[T]{loading: ptr(false), err: ptr(err)})
		capitan.Emit(ctx, LoadFailed,
			KeyAttempt.Field(exec.seq),
			KeyError.Field(err.Error()),
		)
		if l.metrics != nil {
			l.metrics.OnLoadFailure(l.clock.Since(begun))
		}
		for _, f := range l.onError {
			f(err)
		}
		finish()
	}

	defer func() {
		stopTimer()
		if exec != nil {
			exec.cancel()
		}
		l.running.Store(false)
		final := l.State()
		capitan.Emit(ctx, LoaderStopped,
			KeyPhase.Field(PhaseOf(final, l.staleData).String()),
		)
		if l.onStop != nil {
			l.onStop(final)
		}
		close(l.done)
	}()

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			return

		case e := <-l.events:
			switch e.kind {
			case evLoad:
				requested()

			case evCancel:
				abort()

			case evSetData:
				abort()
				l.apply(ctx, patch[T]{
					loading: ptr(false),
					loaded:  ptr(true),
					err:     ptr[error](nil),
					data:    e.data,
				})
				capitan.Emit(ctx, DataOverridden)

			case evSetError:
				abort()
				l.history.push(e.err)
				l.apply(ctx, patch[T]{loading: ptr(false), err: ptr(e.err)})
				capitan.Emit(ctx, ErrorOverridden,
					KeyError.Field(e.err.Error()),
				)

			case evUse:
				fn = e.fn
				requested()

			case evArgs:
				args = e.args
				requested()
			}

		case em := <-results:
			if exec == nil || em.seq != exec.seq {
				// Stale emission from a superseded or canceled attempt.
				continue
			}
			switch {
			case em.done:
				finish()

			case em.err != nil:
				fail(em.err, exec.begun)

			default:
				req := &Request[T]{
					Previous: l.State().Data,
					Current:  em.value,
					Attempt:  em.seq,
				}
				processed, err := l.pipeline.Process(ctx, req)
				if err != nil {
					fail(err, exec.begun)
					continue
				}
				l.apply(ctx, patch[T]{
					loading: ptr(false),
					loaded:  ptr(true),
					data:    ptr(processed.Current),
				})
				capitan.Emit(ctx, LoadSucceeded,
					KeyAttempt.Field(em.seq),
				)
				if l.metrics != nil {
					l.metrics.OnLoadSuccess(l.clock.Since(exec.begun))
				}
				for _, f := range l.onValue {
					f(processed.Current)
				}
			}

		case <-timerC:
			if pending {
				pending = false
				begin()
			}
		}
	}
}

// apply merges a patch into the state and notifies observers.
// Every merge produces a notification, phase-relevant or not.
func (l *Loader[T]) apply(ctx context.Context, p patch[T]) {
	old := *l.state.Load()
	next := old.merge(p)
	l.state.Store(&next)

	oldPhase := PhaseOf(old, l.staleData)
	newPhase := PhaseOf(next, l.staleData)

	capitan.Emit(ctx, StateChanged,
		KeyOldPhase.Field(oldPhase.String()),
		KeyNewPhase.Field(newPhase.String()),
	)
	if newPhase != oldPhase && l.metrics != nil {
		l.metrics.OnPhaseChange(oldPhase, newPhase)
	}
	for _, f := range l.onState {
		f(next, newPhase)
	}
	l.dispatch(ctx, next)
}

// forward invokes the load function and relays its emissions to the run
// loop, tagged with the attempt sequence. It stops on the first error
// result or when the attempt context is canceled.
func forward[T any](ctx context.Context, fn LoadFunc[T], args any, seq int, results chan<- emission[T]) {
	push := func(em emission[T]) {
		select {
		case results <- em:
		case <-ctx.Done():
		}
	}

	ch, err := fn(ctx, args)
	if err != nil {
		push(emission[T]{seq: seq, err: err})
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-ch:
			if !ok {
				push(emission[T]{seq: seq, done: true})
				return
			}
			if r.Err != nil {
				push(emission[T]{seq: seq, err: r.Err})
				return
			}
			push(emission[T]{seq: seq, value: r.Value})
		}
	}
}

package loadz

import "context"

// Renderer is the presentation boundary. The loader never touches
// rendering itself; it derives the phase on every state transition and
// invokes exactly one of these methods with the context the renderer
// needs for that phase.
//
// Renderer calls happen on the run-loop goroutine, in the same strict
// order as state transitions. Implementations that render slowly should
// hand off to their own scheduler.
type Renderer[T any] interface {
	// RenderLoading is invoked when no displayable data exists:
	// initially, and during reloads when stale-data display is off.
	RenderLoading(ctx context.Context)

	// RenderLoaded is invoked with the current data. reloading is true
	// when a new attempt is in flight behind the displayed stale data.
	RenderLoaded(ctx context.Context, data T, reloading bool)

	// RenderError is invoked with the current error. retry is bound to
	// the loader's Load and starts a fresh attempt.
	RenderError(ctx context.Context, err error, retry func())
}

// dispatch maps the new snapshot to a single renderer call.
func (l *Loader[T]) dispatch(ctx context.Context, s LoadingState[T]) {
	if l.renderer == nil {
		return
	}
	switch PhaseOf(s, l.staleData) {
	case PhaseError:
		l.renderer.RenderError(ctx, s.Err, l.Load)
	case PhaseLoaded:
		l.renderer.RenderLoaded(ctx, s.Data, s.Loading)
	default:
		l.renderer.RenderLoading(ctx)
	}
}

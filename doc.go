// Package loadz provides a reusable loading-state machine for asynchronous
// data loads.
//
// The core type is Loader, which manages the lifecycle of an injected load
// function and exposes its current state (loading, loaded, error, data) and
// derived rendering phase to observers.
//
// # Loader
//
// A Loader funnels every trigger through a single run loop:
//
//	Load/Cancel/Override → mailbox → (debounce) → load function → reducer → observers
//
// Exactly one load-function execution is live at a time. A new Load
// supersedes the previous execution, Cancel stops it, and SetData/SetError
// override state directly while aborting it. State updates are produced by
// shallow-merging patches onto the previous snapshot, so previously loaded
// data is retained across reloads and can be displayed as stale data while
// a fresh attempt runs.
//
// # Phase
//
// The rendering phase is a pure function of the state snapshot:
//
//   - PhaseError: the last attempt failed (or SetError fired)
//   - PhaseLoaded: data is displayable, possibly with a reload in flight
//   - PhaseLoading: nothing displayable yet
//
// With StaleData() enabled, reloads keep the phase at PhaseLoaded with
// Loading set, so renderers can show a reloading affordance instead of
// dropping back to a spinner.
//
// # Load functions
//
// A LoadFunc returns a channel of results. It may emit one result and
// close (a request/response load), or stay open and keep emitting (a
// long-lived feed). Adapters cover the common shapes: Once for single-shot
// functions, Value for fixed values, FromChannel for pre-built streams,
// and WatchFile for an fsnotify-backed file feed.
//
// # Example
//
//	loader := loadz.New[[]Article](
//	    loadz.Once(func(ctx context.Context, args any) ([]Article, error) {
//	        return store.Search(ctx, args.(string))
//	    }),
//	).Debounce(250 * time.Millisecond).StaleData()
//
//	loader.OnStateChange(func(s loadz.LoadingState[[]Article], p loadz.Phase) {
//	    view.Update(p, s)
//	})
//
//	if err := loader.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	loader.Args("initial query")
package loadz

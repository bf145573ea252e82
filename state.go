package loadz

// LoadingState is the observable snapshot of a Loader.
// It is emitted to listeners on every change and is never mutated in place;
// each update produces a new snapshot by shallow-merging a patch onto the
// previous value.
type LoadingState[T any] struct {
	// Loading reports that a load attempt is in flight, including the
	// debounce wait before the load function is actually invoked.
	Loading bool

	// Loaded reports that at least one successful result (or a SetData
	// override) has landed. Data is meaningful only when Loaded is true.
	Loaded bool

	// Err holds the most recent load failure or SetError override.
	// It is cleared the instant a new load attempt begins.
	Err error

	// Data holds the most recent successful payload. It is retained
	// across reload attempts until a new result or override arrives,
	// which is what makes stale-data display possible.
	Data T
}

// patch is a partial state update. Nil fields are left untouched by the
// merge, which gives the reducer its shallow-merge semantics: a patch can
// set a field to its zero value (including Err to nil) without disturbing
// the rest of the snapshot.
type patch[T any] struct {
	loading *bool
	loaded  *bool
	err     *error
	data    *T
}

// merge applies a patch onto a snapshot, returning the new snapshot.
func (s LoadingState[T]) merge(p patch[T]) LoadingState[T] {
	if p.loading != nil {
		s.Loading = *p.loading
	}
	if p.loaded != nil {
		s.Loaded = *p.loaded
	}
	if p.err != nil {
		s.Err = *p.err
	}
	if p.data != nil {
		s.Data = *p.data
	}
	return s
}

func ptr[V any](v V) *V { return &v }

// Phase is the externally visible rendering mode derived from a
// LoadingState. It is a pure function of the snapshot (plus the stale-data
// setting), never stored separately.
type Phase int32

const (
	// PhaseLoading indicates nothing displayable yet: either no data has
	// loaded, or a reload is in flight with stale-data display disabled.
	PhaseLoading Phase = iota

	// PhaseLoaded indicates displayable data. With stale-data display
	// enabled this includes reloads, with Loading still true so the
	// renderer can show a reloading affordance.
	PhaseLoaded

	// PhaseError indicates the last attempt failed (or SetError fired).
	PhaseError
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// PhaseOf derives the rendering phase from a snapshot.
//
// An error always wins. Otherwise loaded data is displayable when no load
// is in flight, or during a reload when staleData is set. Everything else
// is loading, including the initial empty state.
func PhaseOf[T any](s LoadingState[T], staleData bool) Phase {
	switch {
	case s.Err != nil:
		return PhaseError
	case s.Loaded && (!s.Loading || staleData):
		return PhaseLoaded
	default:
		return PhaseLoading
	}
}

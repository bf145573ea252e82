package loadz

import "github.com/zoobzio/capitan"

// Loader lifecycle signals.
var (
	// LoaderStarted is emitted when a Loader's run loop begins.
	LoaderStarted = capitan.NewSignal(
		"loadz.loader.started",
		"Loader run loop started",
	)

	// LoaderStopped is emitted when a Loader's run loop exits.
	LoaderStopped = capitan.NewSignal(
		"loadz.loader.stopped",
		"Loader run loop stopped",
	)

	// StateChanged is emitted on every merged state transition.
	StateChanged = capitan.NewSignal(
		"loadz.state.changed",
		"Loading state transition",
	)
)

// Load attempt signals.
var (
	// LoadRequested is emitted when Load() is handled by the run loop,
	// before any debounce wait.
	LoadRequested = capitan.NewSignal(
		"loadz.load.requested",
		"Load requested",
	)

	// LoadCanceled is emitted when an in-flight attempt or pending
	// debounce is canceled, whether by Cancel(), supersession, or an
	// override.
	LoadCanceled = capitan.NewSignal(
		"loadz.load.canceled",
		"Load attempt canceled",
	)

	// LoadStarted is emitted when the load function is invoked,
	// after any debounce wait.
	LoadStarted = capitan.NewSignal(
		"loadz.load.started",
		"Load function invoked",
	)

	// LoadSucceeded is emitted for each value an attempt produces.
	LoadSucceeded = capitan.NewSignal(
		"loadz.load.succeeded",
		"Load produced a value",
	)

	// LoadFailed is emitted when an attempt produces an error.
	LoadFailed = capitan.NewSignal(
		"loadz.load.failed",
		"Load produced an error",
	)

	// LoadFinished is emitted exactly once per invoked attempt, on
	// completion, error, or cancellation.
	LoadFinished = capitan.NewSignal(
		"loadz.load.finished",
		"Load attempt finished",
	)
)

// Override signals.
var (
	// DataOverridden is emitted when SetData() injects a terminal value.
	DataOverridden = capitan.NewSignal(
		"loadz.override.data",
		"Data override applied",
	)

	// ErrorOverridden is emitted when SetError() injects a terminal error.
	ErrorOverridden = capitan.NewSignal(
		"loadz.override.error",
		"Error override applied",
	)
)

package loadz

import "github.com/zoobzio/capitan"

// Field keys for Loader events.
var (
	// KeyPhase is the current rendering phase.
	KeyPhase = capitan.NewStringKey("phase")

	// KeyOldPhase is the previous phase before a transition.
	KeyOldPhase = capitan.NewStringKey("old_phase")

	// KeyNewPhase is the new phase after a transition.
	KeyNewPhase = capitan.NewStringKey("new_phase")

	// KeyError is the error message when an attempt fails.
	KeyError = capitan.NewStringKey("error")

	// KeyAttempt is the monotonic sequence number of a load attempt.
	KeyAttempt = capitan.NewIntKey("attempt")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")
)

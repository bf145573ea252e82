package loadz

import "github.com/zoobzio/pipz"

// Request carries a single emission through the value pipeline.
// Pipeline stages see both the previous data and the incoming value,
// allowing transformations and decisions based on what changed.
type Request[T any] struct {
	// Previous is the last successfully landed data.
	// On the first emission this is the zero value of T.
	Previous T

	// Current is the newly emitted value. Pipeline stages may modify it
	// before it is merged into the loading state.
	Current T

	// Attempt is the sequence number of the load attempt that produced
	// this emission. Useful for logging and correlation.
	Attempt int
}

// commitID names the terminal pipeline stage that hands the processed
// value back to the loader.
const commitID = pipz.Name("commit")

package loadz

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus,
// StatsD, etc. Implement this interface to receive callbacks on key loader
// events.
type MetricsProvider interface {
	// OnPhaseChange is called when the derived phase transitions.
	OnPhaseChange(from, to Phase)

	// OnLoadStart is called when a load function execution begins,
	// after any debounce wait.
	OnLoadStart()

	// OnLoadSuccess is called for each value an execution produces.
	// Duration is measured from the start of the execution.
	OnLoadSuccess(duration time.Duration)

	// OnLoadFailure is called when an execution fails.
	OnLoadFailure(duration time.Duration)

	// OnLoadCanceled is called when an execution is aborted by a newer
	// request, an explicit Cancel, or an override.
	OnLoadCanceled()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnPhaseChange(_, _ Phase)      {}
func (NoOpMetricsProvider) OnLoadStart()                  {}
func (NoOpMetricsProvider) OnLoadSuccess(_ time.Duration) {}
func (NoOpMetricsProvider) OnLoadFailure(_ time.Duration) {}
func (NoOpMetricsProvider) OnLoadCanceled()               {}

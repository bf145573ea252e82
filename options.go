package loadz

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Option configures the value pipeline of a Loader. Every value emitted by
// a load attempt flows through the pipeline before it is merged into the
// loading state; a pipeline error is reported exactly like a load failure.
//
// Instance configuration (debounce, stale data, clock, listeners) is
// handled via chainable methods on the Loader before calling Start().
type Option[T any] func(pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]]

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline[T any](terminal pipz.Chainable[*Request[T]], opts []Option[T]) pipz.Chainable[*Request[T]] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// WithTimeout wraps the pipeline with a deadline. If processing an emitted
// value takes longer than the specified duration, the attempt fails with a
// timeout error.
func WithTimeout[T any](d time.Duration) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewTimeout("timeout", p, d)
	}
}

// WithMiddleware wraps the pipeline with a sequence of processors.
// Processors execute in order, with the commit stage last.
//
// Use the Use* functions to create processors for common patterns,
// or provide custom pipz.Chainable implementations directly.
//
// Example:
//
//	loader := loadz.New[[]Article](
//	    fetchArticles,
//	    loadz.WithMiddleware(
//	        loadz.UseEffect[[]Article]("log", logFn),
//	        loadz.UseTransform[[]Article]("sort", sortFn),
//	    ),
//	).Debounce(200 * time.Millisecond)
func WithMiddleware[T any](processors ...pipz.Chainable[*Request[T]]) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		all := make([]pipz.Chainable[*Request[T]], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence("middleware", all...)
	}
}

// UseTransform creates a processor that transforms the emitted value.
// Cannot fail. Use for pure transformations that always succeed.
func UseTransform[T any](name string, fn func(context.Context, *Request[T]) *Request[T]) pipz.Chainable[*Request[T]] {
	return pipz.Transform(pipz.Name(name), fn)
}

// UseApply creates a processor that can transform the emitted value and
// fail. A returned error is reported as a load failure for the attempt.
func UseApply[T any](name string, fn func(context.Context, *Request[T]) (*Request[T], error)) pipz.Chainable[*Request[T]] {
	return pipz.Apply(pipz.Name(name), fn)
}

// UseEffect creates a processor that performs a side effect. The value
// passes through unchanged. Use for logging, metrics, or notifications
// that should not affect the loaded data.
func UseEffect[T any](name string, fn func(context.Context, *Request[T]) error) pipz.Chainable[*Request[T]] {
	return pipz.Effect(pipz.Name(name), fn)
}

// UseFilter wraps a processor with a condition. If the condition returns
// false, the value passes through unchanged.
func UseFilter[T any](name string, condition func(context.Context, *Request[T]) bool, processor pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
	return pipz.NewFilter(pipz.Name(name), condition, processor)
}

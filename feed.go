package loadz

import (
	"context"

	"github.com/zoobzio/streamz"
)

// Feed-shaping decorators for long-lived load functions. Each wraps a
// LoadFunc and applies a streamz processor to its emission channel before
// the loader consumes it. Shaping happens inside the attempt, so a
// superseded or canceled attempt tears its processors down with it.

// Throttled limits how many emissions per second reach the loader.
// Useful for feeds that burst faster than a renderer can usefully repaint.
func Throttled[T any](fn LoadFunc[T], perSecond float64) LoadFunc[T] {
	return shaped(fn, streamz.NewThrottle[Result[T]](perSecond, streamz.RealClock))
}

// Buffered decouples a bursty feed from the loader with a buffer of the
// given size.
func Buffered[T any](fn LoadFunc[T], size int) LoadFunc[T] {
	return shaped(fn, streamz.NewBuffer[Result[T]](size))
}

// Filtered drops emitted values that fail the predicate. Error results
// always pass through so failures still terminate the attempt.
func Filtered[T any](fn LoadFunc[T], predicate func(T) bool) LoadFunc[T] {
	return shaped(fn, streamz.NewFilter[Result[T]](func(r Result[T]) bool {
		return r.Err != nil || predicate(r.Value)
	}))
}

// shaped wraps a LoadFunc's emission channel with a streamz processor.
func shaped[T any](fn LoadFunc[T], proc streamz.Processor[Result[T], Result[T]]) LoadFunc[T] {
	return func(ctx context.Context, args any) (<-chan Result[T], error) {
		ch, err := fn(ctx, args)
		if err != nil {
			return nil, err
		}
		return proc.Process(ctx, ch), nil
	}
}

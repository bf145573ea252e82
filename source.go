package loadz

import "context"

// Result carries one emission from a load function: either a value or an
// error, never both. An emission with a non-nil Err terminates the
// execution; sources that want to survive item-level errors should handle
// them before emitting.
type Result[T any] struct {
	Value T
	Err   error
}

// LoadFunc produces values for a Loader. It is invoked once per load
// attempt with the loader's current args and returns a channel of results.
//
// The function may emit a single result and close the channel, or keep the
// channel open and emit multiple results over time (a long-lived feed);
// each emission updates the loader's state. Implementations must stop
// emitting and release resources when ctx is canceled — cancellation is
// cooperative, the loader only guarantees that emissions from a canceled
// attempt no longer reach observers.
//
// A non-nil error return means the attempt could not start at all and is
// reported the same way as an emitted error.
type LoadFunc[T any] func(ctx context.Context, args any) (<-chan Result[T], error)

// Once adapts a single-shot function into a LoadFunc. The returned channel
// emits exactly one result and closes.
func Once[T any](fn func(ctx context.Context, args any) (T, error)) LoadFunc[T] {
	return func(ctx context.Context, args any) (<-chan Result[T], error) {
		out := make(chan Result[T], 1)
		go func() {
			defer close(out)
			v, err := fn(ctx, args)
			r := Result[T]{Value: v, Err: err}
			if err != nil {
				r = Result[T]{Err: err}
			}
			select {
			case out <- r:
			case <-ctx.Done():
			}
		}()
		return out, nil
	}
}

// Value adapts a fixed, already-available value into a LoadFunc.
// Every attempt emits the value once and completes.
func Value[T any](v T) LoadFunc[T] {
	return Once(func(context.Context, any) (T, error) {
		return v, nil
	})
}

// FromChannel adapts a pre-built, already-active result stream into a
// LoadFunc that ignores args. Values are forwarded through an intermediate
// goroutine so the attempt detaches cleanly on cancellation.
//
// The underlying channel is a single consumable: only the most recent
// attempt receives values from it, and values forwarded to a superseded
// attempt are dropped rather than replayed.
func FromChannel[T any](ch <-chan Result[T]) LoadFunc[T] {
	return func(ctx context.Context, _ any) (<-chan Result[T], error) {
		out := make(chan Result[T])
		go func() {
			defer close(out)
			for {
				select {
				case <-ctx.Done():
					return
				case r, ok := <-ch:
					if !ok {
						return
					}
					select {
					case out <- r:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
		return out, nil
	}
}

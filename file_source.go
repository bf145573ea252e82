package loadz

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// WatchFile returns a long-lived load function that emits the contents of
// the file at path: once immediately when the attempt begins, then again
// on every write. Args are ignored.
//
// The feed never completes on its own; it ends when the attempt is
// canceled or superseded. Read failures after a change are skipped rather
// than emitted, so a torn write does not kill the feed; a failure to set
// up the watch is returned from the attempt itself.
//
// Deserializing the bytes into a typed value belongs to the caller,
// typically via a UseApply pipeline stage or a wrapping load function.
func WatchFile(path string) LoadFunc[[]byte] {
	return func(ctx context.Context, _ any) (<-chan Result[[]byte], error) {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
		}

		if err := watcher.Add(path); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch file %s: %w", path, err)
		}

		out := make(chan Result[[]byte])

		go func() {
			defer close(out)
			defer watcher.Close()

			// Emit initial contents
			if data, err := os.ReadFile(path); err == nil {
				select {
				case out <- Result[[]byte]{Value: data}:
				case <-ctx.Done():
					return
				}
			}

			for {
				select {
				case <-ctx.Done():
					return

				case event, ok := <-watcher.Events:
					if !ok {
						return
					}

					// Only emit on write or create events
					if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
						continue
					}

					data, err := os.ReadFile(path)
					if err != nil {
						continue
					}

					select {
					case out <- Result[[]byte]{Value: data}:
					case <-ctx.Done():
						return
					}

				case _, ok := <-watcher.Errors:
					if !ok {
						return
					}
					// Continue watching despite errors
				}
			}
		}()

		return out, nil
	}
}

package loadz

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestWithMiddleware_TransformModifiesLandedValue(t *testing.T) {
	loader := New[string](
		Value("payload"),
		WithMiddleware(
			UseTransform[string]("upper", func(_ context.Context, req *Request[string]) *Request[string] {
				req.Current = strings.ToUpper(req.Current)
				return req
			}),
		),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := loader.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	loader.Load()
	waitFor(t, func() bool { d, _ := loader.Data(); return d == "PAYLOAD" })
}

func TestWithMiddleware_ProcessorsRunInOrder(t *testing.T) {
	loader := New[string](
		Value("x"),
		WithMiddleware(
			UseTransform[string]("first", func(_ context.Context, req *Request[string]) *Request[string] {
				req.Current += "-a"
				return req
			}),
			UseTransform[string]("second", func(_ context.Context, req *Request[string]) *Request[string] {
				req.Current += "-b"
				return req
			}),
		),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := loader.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	loader.Load()
	waitFor(t, func() bool { d, _ := loader.Data(); return d == "x-a-b" })
}

func TestWithMiddleware_ApplyErrorReportedAsLoadFailure(t *testing.T) {
	rejected := errors.New("rejected by pipeline")
	loader := New[string](
		Value("x"),
		WithMiddleware(
			UseApply[string]("reject", func(_ context.Context, _ *Request[string]) (*Request[string], error) {
				return nil, rejected
			}),
		),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := loader.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	loader.Load()
	waitFor(t, func() bool { return loader.State().Err != nil })

	if loader.Phase() != PhaseError {
		t.Errorf("expected error phase, got %s", loader.Phase())
	}
	if loader.State().Loaded {
		t.Errorf("expected loaded false, got %+v", loader.State())
	}
}

func TestWithMiddleware_EffectSeesPreviousData(t *testing.T) {
	var mu sync.Mutex
	var previous []string

	loader := New[string](
		Once(func(_ context.Context, args any) (string, error) {
			return args.(string), nil
		}),
		WithMiddleware(
			UseEffect[string]("observe", func(_ context.Context, req *Request[string]) error {
				mu.Lock()
				previous = append(previous, req.Previous)
				mu.Unlock()
				return nil
			}),
		),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := loader.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	loader.Args("first")
	waitFor(t, func() bool { d, _ := loader.Data(); return d == "first" })

	loader.Args("second")
	waitFor(t, func() bool { d, _ := loader.Data(); return d == "second" })

	mu.Lock()
	defer mu.Unlock()
	if len(previous) != 2 || previous[0] != "" || previous[1] != "first" {
		t.Errorf("expected previous [\"\" first], got %v", previous)
	}
}

func TestUseFilter_SkipsProcessorWhenConditionFalse(t *testing.T) {
	loader := New[string](
		Value("keep"),
		WithMiddleware(
			UseFilter[string]("maybe-upper",
				func(_ context.Context, req *Request[string]) bool {
					return req.Current == "other"
				},
				UseTransform[string]("upper", func(_ context.Context, req *Request[string]) *Request[string] {
					req.Current = strings.ToUpper(req.Current)
					return req
				}),
			),
		),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := loader.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	loader.Load()
	waitFor(t, func() bool { d, ok := loader.Data(); return ok && d == "keep" })
}

func TestWithTimeout_FastPipelinePasses(t *testing.T) {
	loader := New[string](
		Value("quick"),
		WithTimeout[string](time.Second),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := loader.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	loader.Load()
	waitFor(t, func() bool { d, _ := loader.Data(); return d == "quick" })
}

func TestRequest_CarriesAttemptSequence(t *testing.T) {
	var mu sync.Mutex
	var attempts []int

	loader := New[string](
		Value("v"),
		WithMiddleware(
			UseEffect[string]("attempts", func(_ context.Context, req *Request[string]) error {
				mu.Lock()
				attempts = append(attempts, req.Attempt)
				mu.Unlock()
				return nil
			}),
		),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := loader.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	loader.Load()
	waitFor(t, func() bool { mu.Lock(); defer mu.Unlock(); return len(attempts) == 1 })
	loader.Load()
	waitFor(t, func() bool { mu.Lock(); defer mu.Unlock(); return len(attempts) == 2 })

	mu.Lock()
	defer mu.Unlock()
	if attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("expected attempts [1 2], got %v", attempts)
	}
}

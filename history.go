package loadz

import "sync"

// errorLog retains the most recent load failures, bounded by a fixed
// capacity. A nil errorLog is a disabled one; all methods are nil-safe.
type errorLog struct {
	mu   sync.Mutex
	max  int
	errs []error
}

// newErrorLog creates an error log holding up to max errors.
// Returns nil (disabled) when max is not positive.
func newErrorLog(max int) *errorLog {
	if max <= 0 {
		return nil
	}
	return &errorLog{max: max}
}

// push records an error, evicting the oldest entry when full.
func (r *errorLog) push(err error) {
	if r == nil || err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errs = append(r.errs, err)
	if len(r.errs) > r.max {
		r.errs = r.errs[1:]
	}
}

// recent returns the retained errors, oldest first.
func (r *errorLog) recent() []error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.errs) == 0 {
		return nil
	}
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

package templatex

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Lazy defers a string computation until a template first interpolates it.
// The function runs at most once; copies of a Lazy share the same result.
type Lazy struct {
	state *lazyState
}

type lazyState struct {
	once  sync.Once
	fn    func() (string, error)
	value string
	err   error
	done  atomic.Bool
}

// NewLazy wraps fn. fn must not call back into the same Lazy.
func NewLazy(fn func() (string, error)) Lazy {
	return Lazy{state: &lazyState{fn: fn}}
}

// Value runs the computation on first use and returns its memoized result.
func (l Lazy) Value() (string, error) {
	if l.state == nil {
		return "", nil
	}
	l.state.once.Do(func() {
		defer l.state.done.Store(true)
		defer func() {
			if r := recover(); r != nil {
				l.state.value, l.state.err = "", fmt.Errorf("deferred field panicked: %v", r)
			}
		}()
		if l.state.fn != nil {
			l.state.value, l.state.err = l.state.fn()
		}
	})
	return l.state.value, l.state.err
}

// String is what the template engine sees when it interpolates the field.
// A failed computation yields an empty string; Render reports the error.
func (l Lazy) String() string {
	value, err := l.Value()
	if err != nil {
		return ""
	}
	return value
}

// Evaluated reports whether the computation has run.
func (l Lazy) Evaluated() bool {
	return l.state != nil && l.state.done.Load()
}

// Err returns the computation's error without forcing it.
func (l Lazy) Err() error {
	if !l.Evaluated() {
		return nil
	}
	return l.state.err
}

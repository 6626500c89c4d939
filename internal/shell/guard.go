package shell

import (
	"fmt"
	"runtime/debug"
)

// AbortError carries a panic recovered at the entry boundary.
type AbortError struct {
	Value interface{}
	Stack []byte
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("aborted: %v", e.Value)
}

// Guard runs fn and turns a panic into an *AbortError so nothing unwinds past
// the entry point. The caller decides how to terminate.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &AbortError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

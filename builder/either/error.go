package either

import "fmt"

// Error tags an inner builder error with the side it originated from, so a
// caller composing builders can tell left-origin from right-origin failures
// without losing the original error.
type Error struct {
	side Side
	err  error
}

// LeftErr tags err as originating from the left builder. Returns nil for nil.
func LeftErr(err error) error {
	if err == nil {
		return nil
	}
	return &Error{side: SideLeft, err: err}
}

// RightErr tags err as originating from the right builder. Returns nil for nil.
func RightErr(err error) error {
	if err == nil {
		return nil
	}
	return &Error{side: SideRight, err: err}
}

func (e *Error) Side() Side {
	return e.side
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s builder: %v", e.side, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

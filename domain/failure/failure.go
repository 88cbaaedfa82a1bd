// Package failure classifies run errors into the kinds the terminal reports on
// and maps them to process exit codes.
package failure

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when a page wait runs past its deadline
var ErrTimeout = errors.New("timed out waiting for page element")

// Kind is the category of a run error
type Kind int

const (
	KindNone Kind = iota
	KindTimeout
	KindDriver
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTimeout:
		return "timeout"
	case KindDriver:
		return "driver"
	default:
		return "other"
	}
}

// DriverError wraps an error raised by a browser backend
type DriverError struct {
	Op  string
	Err error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

// Driver wraps err as a DriverError for op. A nil err stays nil.
func Driver(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DriverError{Op: op, Err: err}
}

// Timeoutf returns an error wrapping ErrTimeout with extra detail
func Timeoutf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrTimeout, fmt.Sprintf(format, args...))
}

// Classify returns the kind of err. A timeout wins over a driver failure.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrTimeout) {
		return KindTimeout
	}
	var driverErr *DriverError
	if errors.As(err, &driverErr) {
		return KindDriver
	}
	return KindOther
}

// ExitCode maps err to the process exit code
func ExitCode(err error) int {
	if Classify(err) == KindNone {
		return 0
	}
	return 1
}

package adapt

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotSupported is returned for structural mutations of fixed-size collections.
	ErrNotSupported = errors.New("operation not supported")
	// ErrIncompatibleElement is returned when a value is not of the wrapped type.
	ErrIncompatibleElement = errors.New("element is not of the wrapped type")
	// ErrIndexOutOfRange is returned by mutations that address a missing index.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNilArgument is returned when a required argument is nil.
	ErrNilArgument = errors.New("required argument is nil")
)

// IndexError is the panic value of an out-of-range read.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("adapt: index %d out of range [0:%d]", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// ConversionError is the panic value raised on first use of a raw/wrapped
// pair whose conversion methods cannot be resolved.
type ConversionError struct {
	Raw     reflect.Type
	Wrapped reflect.Type
	Reason  string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("adapt: cannot convert between %s and %s: %s", e.Raw, e.Wrapped, e.Reason)
}

// ElementError is the panic value raised when a casted backing yields a value
// that is not of the wrapped type.
type ElementError struct {
	Value   any
	Wrapped reflect.Type
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("adapt: element of type %T is not %s", e.Value, e.Wrapped)
}

func (e *ElementError) Unwrap() error { return ErrIncompatibleElement }

func checkIndex(i, n int) {
	if i < 0 || i >= n {
		panic(&IndexError{Index: i, Len: n})
	}
}

func indexError(i, n int) error {
	return fmt.Errorf("%w: %d not in [0:%d]", ErrIndexOutOfRange, i, n)
}

func unsupported(op string) error {
	return fmt.Errorf("%w: %s on a fixed-size collection", ErrNotSupported, op)
}

func incompatible[W any](v any) error {
	return fmt.Errorf("%w: %T is not %s", ErrIncompatibleElement, v, reflect.TypeFor[W]())
}

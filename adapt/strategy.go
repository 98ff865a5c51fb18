package adapt

import (
	"reflect"
)

// Strategy selects what an adapter's backing store holds.
type Strategy int

const (
	// Standard adapters are backed by raw elements.
	Standard Strategy = iota
	// Casted adapters are backed by abstraction values.
	Casted
)

func (s Strategy) String() string {
	switch s {
	case Standard:
		return "standard"
	case Casted:
		return "casted"
	default:
		return "unknown"
	}
}

// codec moves values between the stored type S and the abstraction A.
type codec[S, A any] interface {
	load(s S) A
	store(v A) (S, error)
}

type standardCodec[R, W, A any] struct {
	cache *Cache
}

func (c standardCodec[R, W, A]) load(raw R) A {
	return upcast[W, A](ConverterFor[R, W](c.cache).Wrap(raw))
}

func (c standardCodec[R, W, A]) store(v A) (R, error) {
	var zero R
	if any(v) == nil {
		return zero, nil
	}
	w, ok := any(v).(W)
	if !ok {
		return zero, incompatible[W](v)
	}
	return ConverterFor[R, W](c.cache).Unwrap(w), nil
}

type castedCodec[R, W, A any] struct {
	cache *Cache
}

func (castedCodec[R, W, A]) load(v A) A {
	if any(v) == nil {
		return v
	}
	if _, ok := any(v).(W); !ok {
		panic(&ElementError{Value: v, Wrapped: reflect.TypeFor[W]()})
	}
	return v
}

func (castedCodec[R, W, A]) store(v A) (A, error) {
	if any(v) == nil {
		return v, nil
	}
	if _, ok := any(v).(W); !ok {
		var zero A
		return zero, incompatible[W](v)
	}
	return v, nil
}

// same reports whether a and b are the same value or wrap equal raw
// elements. Two wrappers made by separate Wrap calls are the same element.
func (c castedCodec[R, W, A]) same(a, b A) bool {
	if equal(a, b) {
		return true
	}
	wa, ok := any(a).(W)
	if !ok {
		return false
	}
	wb, ok := any(b).(W)
	if !ok {
		return false
	}
	conv := ConverterFor[R, W](c.cache)
	return equal(conv.Unwrap(wa), conv.Unwrap(wb))
}

// matcher is implemented by codecs whose stored values are not identified
// by the backing's own equality.
type matcher[S any] interface {
	same(a, b S) bool
}

func standard[R, W, A any]() codec[R, A] {
	return standardCodec[R, W, A]{cache: DefaultCache}
}

func casted[R, W, A any]() codec[A, A] {
	return castedCodec[R, W, A]{cache: DefaultCache}
}

package adapt

import (
	"fmt"
	"reflect"
	"sync"
)

// Converter wraps raw values into their wrapped type W and back.
type Converter[R, W any] struct {
	wrap   func(W, R) W
	unwrap func(W) R
}

// Wrap converts raw into W by calling the wrap method on the zero W.
func (c Converter[R, W]) Wrap(raw R) W {
	var zero W
	return c.wrap(zero, raw)
}

// Unwrap returns the raw value held by w.
func (c Converter[R, W]) Unwrap(w W) R {
	return c.unwrap(w)
}

// Cache memoizes resolved converters per (raw, wrapped) type pair.
// It is safe for concurrent use.
type Cache struct {
	entries sync.Map // pairKey -> Converter[R, W]
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// DefaultCache is the cache used by adapters and generated code.
var DefaultCache = NewCache()

// Len returns the number of resolved pairs.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

type pairKey struct {
	raw     reflect.Type
	wrapped reflect.Type
}

// ConverterFor returns the converter between R and W, resolving it on first use.
// W must expose exactly one method of shape (R) W and exactly one of shape () R;
// otherwise ConverterFor panics with a *ConversionError.
func ConverterFor[R, W any](c *Cache) Converter[R, W] {
	if c == nil {
		c = DefaultCache
	}
	key := pairKey{raw: reflect.TypeFor[R](), wrapped: reflect.TypeFor[W]()}
	if v, ok := c.entries.Load(key); ok {
		return v.(Converter[R, W])
	}

	conv, err := resolveConverter[R, W](key)
	if err != nil {
		panic(err)
	}
	v, _ := c.entries.LoadOrStore(key, conv)
	return v.(Converter[R, W])
}

func resolveConverter[R, W any](key pairKey) (Converter[R, W], error) {
	if key.wrapped.Kind() == reflect.Interface {
		return Converter[R, W]{}, &ConversionError{Raw: key.raw, Wrapped: key.wrapped, Reason: "wrapped type must be concrete"}
	}

	var wraps, unwraps []reflect.Method
	for i := range key.wrapped.NumMethod() {
		m := key.wrapped.Method(i)
		ft := m.Type
		switch {
		case ft.NumIn() == 2 && ft.NumOut() == 1 && ft.In(1) == key.raw && ft.Out(0) == key.wrapped:
			wraps = append(wraps, m)
		case ft.NumIn() == 1 && ft.NumOut() == 1 && ft.Out(0) == key.raw:
			unwraps = append(unwraps, m)
		}
	}

	if len(wraps) != 1 {
		return Converter[R, W]{}, &ConversionError{
			Raw: key.raw, Wrapped: key.wrapped,
			Reason: fmt.Sprintf("want one method func(%s) %s, found %d", key.raw, key.wrapped, len(wraps)),
		}
	}
	if len(unwraps) != 1 {
		return Converter[R, W]{}, &ConversionError{
			Raw: key.raw, Wrapped: key.wrapped,
			Reason: fmt.Sprintf("want one method func() %s, found %d", key.raw, len(unwraps)),
		}
	}

	wrap, ok := wraps[0].Func.Interface().(func(W, R) W)
	if !ok {
		return Converter[R, W]{}, &ConversionError{Raw: key.raw, Wrapped: key.wrapped, Reason: "wrap method " + wraps[0].Name + " has an unexpected receiver"}
	}
	unwrap, ok := unwraps[0].Func.Interface().(func(W) R)
	if !ok {
		return Converter[R, W]{}, &ConversionError{Raw: key.raw, Wrapped: key.wrapped, Reason: "unwrap method " + unwraps[0].Name + " has an unexpected receiver"}
	}
	return Converter[R, W]{wrap: wrap, unwrap: unwrap}, nil
}

// Wrap converts raw into its abstraction A through the default cache.
// A nil wrapped value yields the zero A.
func Wrap[R, W, A any](raw R) A {
	return upcast[W, A](ConverterFor[R, W](DefaultCache).Wrap(raw))
}

// Unwrap returns the raw value behind v, which must hold a W or be nil.
func Unwrap[R, W any](v any) R {
	var zero R
	if v == nil {
		return zero
	}
	w, ok := v.(W)
	if !ok {
		panic(&ElementError{Value: v, Wrapped: reflect.TypeFor[W]()})
	}
	return ConverterFor[R, W](DefaultCache).Unwrap(w)
}

func upcast[W, A any](w W) A {
	var zero A
	if isNil(any(w)) {
		return zero
	}
	if a, ok := any(w).(A); ok {
		return a
	}
	panic(&ConversionError{
		Raw:     reflect.TypeFor[W](),
		Wrapped: reflect.TypeFor[A](),
		Reason:  "wrapped type does not implement the abstraction",
	})
}

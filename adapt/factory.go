package adapt

import (
	"fmt"
	"iter"
	"reflect"
)

// Create adapts source into a sequence of A.
//
// A nil source yields nil. An adapter over exactly [R, W, A] is returned
// unchanged. Otherwise the narrowest matching shape wins, in the order
// array, list, set, collection, sequence; each shape is tried first over raw
// elements (standard) and then over abstraction values (casted).
func Create[R, W, A any](source any) (Sequence[A], error) {
	if isNil(source) {
		return nil, nil
	}
	switch src := source.(type) {
	case *ArrayAdapter[R, W, A]:
		return src, nil
	case *ListAdapter[R, W, A]:
		return src, nil
	case *SetAdapter[R, W, A]:
		return src, nil
	case *CollectionAdapter[R, W, A]:
		return src, nil
	case *ReadOnlyListAdapter[R, W, A]:
		return src, nil
	case *ReadOnlyCollectionAdapter[R, W, A]:
		return src, nil
	case *SequenceAdapter[R, W, A]:
		return src, nil
	}

	if items, ok := sliceOf[R](source); ok {
		return NewArray[R, W, A](items), nil
	}
	if items, ok := sliceOf[A](source); ok {
		return NewCastedArray[R, W, A](items), nil
	}

	switch src := source.(type) {
	case List[R]:
		return NewList[R, W, A](src), nil
	case List[A]:
		return NewCastedList[R, W, A](src), nil
	case ReadOnlyList[R]:
		return NewReadOnlyList[R, W, A](src), nil
	case ReadOnlyList[A]:
		return NewCastedReadOnlyList[R, W, A](src), nil
	case Set[R]:
		return NewSet[R, W, A](src), nil
	case Set[A]:
		return NewCastedSet[R, W, A](src), nil
	case Collection[R]:
		return NewCollection[R, W, A](src), nil
	case Collection[A]:
		return NewCastedCollection[R, W, A](src), nil
	case ReadOnlyCollection[R]:
		return NewReadOnlyCollection[R, W, A](src), nil
	case ReadOnlyCollection[A]:
		return NewCastedReadOnlyCollection[R, W, A](src), nil
	case Sequence[R]:
		return NewSequence[R, W, A](src), nil
	case Sequence[A]:
		return NewCastedSequence[R, W, A](src), nil
	case iter.Seq[R]:
		return NewSequence[R, W, A](SeqFunc[R](src)), nil
	case func(func(R) bool):
		return NewSequence[R, W, A](SeqFunc[R](src)), nil
	case iter.Seq[A]:
		return NewCastedSequence[R, W, A](SeqFunc[A](src)), nil
	case func(func(A) bool):
		return NewCastedSequence[R, W, A](SeqFunc[A](src)), nil
	}
	return nil, mismatch[R, A]("sequence", source)
}

// AsArray adapts a slice, a named slice type or a pointer to an array.
func AsArray[R, W, A any](source any) (*ArrayAdapter[R, W, A], error) {
	if isNil(source) {
		return nil, nil
	}
	if src, ok := source.(*ArrayAdapter[R, W, A]); ok {
		return src, nil
	}
	if items, ok := sliceOf[R](source); ok {
		return NewArray[R, W, A](items), nil
	}
	if items, ok := sliceOf[A](source); ok {
		return NewCastedArray[R, W, A](items), nil
	}
	return nil, mismatch[R, A]("array", source)
}

// AsList adapts a List of raw elements or of abstraction values.
func AsList[R, W, A any](source any) (*ListAdapter[R, W, A], error) {
	if isNil(source) {
		return nil, nil
	}
	switch src := source.(type) {
	case *ListAdapter[R, W, A]:
		return src, nil
	case List[R]:
		return NewList[R, W, A](src), nil
	case List[A]:
		return NewCastedList[R, W, A](src), nil
	}
	return nil, mismatch[R, A]("list", source)
}

// AsReadOnlyList adapts a ReadOnlyList of raw elements or of abstraction values.
func AsReadOnlyList[R, W, A any](source any) (*ReadOnlyListAdapter[R, W, A], error) {
	if isNil(source) {
		return nil, nil
	}
	switch src := source.(type) {
	case *ReadOnlyListAdapter[R, W, A]:
		return src, nil
	case ReadOnlyList[R]:
		return NewReadOnlyList[R, W, A](src), nil
	case ReadOnlyList[A]:
		return NewCastedReadOnlyList[R, W, A](src), nil
	}
	return nil, mismatch[R, A]("read-only list", source)
}

// AsSet adapts a Set of raw elements or of abstraction values.
func AsSet[R, W, A any](source any) (*SetAdapter[R, W, A], error) {
	if isNil(source) {
		return nil, nil
	}
	switch src := source.(type) {
	case *SetAdapter[R, W, A]:
		return src, nil
	case Set[R]:
		return NewSet[R, W, A](src), nil
	case Set[A]:
		return NewCastedSet[R, W, A](src), nil
	}
	return nil, mismatch[R, A]("set", source)
}

// AsCollection adapts a Collection of raw elements or of abstraction values.
func AsCollection[R, W, A any](source any) (*CollectionAdapter[R, W, A], error) {
	if isNil(source) {
		return nil, nil
	}
	switch src := source.(type) {
	case *CollectionAdapter[R, W, A]:
		return src, nil
	case Collection[R]:
		return NewCollection[R, W, A](src), nil
	case Collection[A]:
		return NewCastedCollection[R, W, A](src), nil
	}
	return nil, mismatch[R, A]("collection", source)
}

// AsReadOnlyCollection adapts a ReadOnlyCollection of raw elements or of abstraction values.
func AsReadOnlyCollection[R, W, A any](source any) (*ReadOnlyCollectionAdapter[R, W, A], error) {
	if isNil(source) {
		return nil, nil
	}
	switch src := source.(type) {
	case *ReadOnlyCollectionAdapter[R, W, A]:
		return src, nil
	case ReadOnlyCollection[R]:
		return NewReadOnlyCollection[R, W, A](src), nil
	case ReadOnlyCollection[A]:
		return NewCastedReadOnlyCollection[R, W, A](src), nil
	}
	return nil, mismatch[R, A]("read-only collection", source)
}

// AsSequence adapts a Sequence or an iter.Seq.
func AsSequence[R, W, A any](source any) (*SequenceAdapter[R, W, A], error) {
	if isNil(source) {
		return nil, nil
	}
	switch src := source.(type) {
	case *SequenceAdapter[R, W, A]:
		return src, nil
	case Sequence[R]:
		return NewSequence[R, W, A](src), nil
	case Sequence[A]:
		return NewCastedSequence[R, W, A](src), nil
	case iter.Seq[R]:
		return NewSequence[R, W, A](SeqFunc[R](src)), nil
	case iter.Seq[A]:
		return NewCastedSequence[R, W, A](SeqFunc[A](src)), nil
	}
	return nil, mismatch[R, A]("sequence", source)
}

// AsMap adapts a Map or a Go map. Go maps are shared, not copied.
func AsMap[K comparable, R, W, A any](source any) (*MapAdapter[K, R, W, A], error) {
	if isNil(source) {
		return nil, nil
	}
	switch src := source.(type) {
	case *MapAdapter[K, R, W, A]:
		return src, nil
	case map[K]R:
		return NewMap[K, R, W, A](MapOf(src)), nil
	case map[K]A:
		return NewCastedMap[K, R, W, A](MapOf(src)), nil
	case Map[K, R]:
		return NewMap[K, R, W, A](src), nil
	case Map[K, A]:
		return NewCastedMap[K, R, W, A](src), nil
	}
	return nil, mismatch[R, A]("map", source)
}

// AsReadOnlyMap adapts a ReadOnlyMap or a Go map. Go maps are shared, not copied.
func AsReadOnlyMap[K comparable, R, W, A any](source any) (*ReadOnlyMapAdapter[K, R, W, A], error) {
	if isNil(source) {
		return nil, nil
	}
	switch src := source.(type) {
	case *ReadOnlyMapAdapter[K, R, W, A]:
		return src, nil
	case map[K]R:
		return NewReadOnlyMap[K, R, W, A](MapOf(src)), nil
	case map[K]A:
		return NewCastedReadOnlyMap[K, R, W, A](MapOf(src)), nil
	case ReadOnlyMap[K, R]:
		return NewReadOnlyMap[K, R, W, A](src), nil
	case ReadOnlyMap[K, A]:
		return NewCastedReadOnlyMap[K, R, W, A](src), nil
	}
	return nil, mismatch[R, A]("read-only map", source)
}

// RawSlice returns the raw elements behind s. Standard array adapters give
// back their own slice; anything else is converted into a new slice.
func RawSlice[R, W, A any](s Sequence[A]) ([]R, error) {
	if isNil(s) {
		return nil, nil
	}
	if a, ok := s.(*ArrayAdapter[R, W, A]); ok {
		if raw, ok := a.Raw(); ok {
			return raw, nil
		}
	}
	c := standard[R, W, A]()
	var out []R
	for v := range s.All() {
		r, err := c.store(v)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// RawMap returns the raw Go map behind m, converting values when m is not a
// standard adapter over a Go map.
func RawMap[K comparable, R, W, A any](m ReadOnlyMap[K, A]) (map[K]R, error) {
	if isNil(m) {
		return nil, nil
	}
	if raw, ok := RawBacking(m); ok {
		if h, ok := raw.(*HashMap[K, R]); ok {
			return h.Map(), nil
		}
	}
	c := standard[R, W, A]()
	out := make(map[K]R, m.Len())
	for k, v := range m.All() {
		r, err := c.store(v)
		if err != nil {
			return nil, err
		}
		out[k] = r
	}
	return out, nil
}

// RawSeq returns an iterator over the raw elements behind s.
func RawSeq[R, W, A any](s Sequence[A]) iter.Seq[R] {
	if isNil(s) {
		return nil
	}
	if raw, ok := RawBacking(s); ok {
		if seq, ok := raw.(Sequence[R]); ok {
			return seq.All()
		}
	}
	return func(yield func(R) bool) {
		for v := range s.All() {
			if !yield(unwrapValue[R, W, A](v)) {
				return
			}
		}
	}
}

func sliceOf[T any](v any) ([]T, bool) {
	if items, ok := v.([]T); ok {
		return items, true
	}
	target := reflect.TypeFor[[]T]()
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Array {
		rv = rv.Elem().Slice(0, rv.Elem().Len())
	}
	if rv.Kind() != reflect.Slice || rv.Type().Elem() != target.Elem() || !rv.Type().ConvertibleTo(target) {
		return nil, false
	}
	return rv.Convert(target).Interface().([]T), true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func mismatch[R, A any](shape string, source any) error {
	return fmt.Errorf("%w: %T is not a %s of %s or %s", ErrNotSupported, source, shape, reflect.TypeFor[R](), reflect.TypeFor[A]())
}

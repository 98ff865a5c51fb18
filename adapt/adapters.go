package adapt

import (
	"iter"
	"slices"
)

// The embedded *Impl interfaces promote the view's methods without exposing
// an exported field.
type (
	sequenceImpl[T any]            interface{ Sequence[T] }
	roCollectionImpl[T any]        interface{ ReadOnlyCollection[T] }
	collectionImpl[T any]          interface{ Collection[T] }
	roListImpl[T any]              interface{ ReadOnlyList[T] }
	listImpl[T any]                interface{ List[T] }
	setImpl[T any]                 interface{ Set[T] }
	roMapImpl[K comparable, V any] interface{ ReadOnlyMap[K, V] }
	mapImpl[K comparable, V any]   interface{ Map[K, V] }
)

// rawBacking is implemented by every adapter; it reports the raw backing of
// standard adapters.
type rawBacking interface {
	rawBacking() (any, bool)
}

// RawBacking returns the raw backing of a standard adapter.
func RawBacking(v any) (any, bool) {
	if b, ok := v.(rawBacking); ok {
		return b.rawBacking()
	}
	return nil, false
}

// unwrapValue converts an abstraction value back to raw, panicking when it is not a W.
func unwrapValue[R, W, A any](v A) R {
	r, err := standard[R, W, A]().store(v)
	if err != nil {
		panic(err)
	}
	return r
}

// SequenceAdapter adapts a Sequence.
type SequenceAdapter[R, W, A any] struct {
	sequenceImpl[A]
	strategy Strategy
	raw      Sequence[R]
	casted   Sequence[A]
}

// NewSequence returns a standard adapter over raw.
func NewSequence[R, W, A any](raw Sequence[R]) *SequenceAdapter[R, W, A] {
	return &SequenceAdapter[R, W, A]{sequenceImpl: newSeqView(raw, standard[R, W, A]()), strategy: Standard, raw: raw}
}

// NewCastedSequence returns a casted adapter over items.
func NewCastedSequence[R, W, A any](items Sequence[A]) *SequenceAdapter[R, W, A] {
	return &SequenceAdapter[R, W, A]{sequenceImpl: newSeqView(items, casted[R, W, A]()), strategy: Casted, casted: items}
}

// Strategy reports what the backing holds.
func (a *SequenceAdapter[R, W, A]) Strategy() Strategy { return a.strategy }

func (a *SequenceAdapter[R, W, A]) rawBacking() (any, bool) { return a.raw, a.raw != nil }

// Wrap returns a standard adapter over raw.
func (*SequenceAdapter[R, W, A]) Wrap(raw Sequence[R]) *SequenceAdapter[R, W, A] {
	if raw == nil {
		return nil
	}
	return NewSequence[R, W, A](raw)
}

// Unwrap returns the raw sequence; casted adapters yield a lazily converted view.
func (a *SequenceAdapter[R, W, A]) Unwrap() Sequence[R] {
	if a == nil {
		return nil
	}
	if a.raw != nil {
		return a.raw
	}
	return SeqFunc[R](func(yield func(R) bool) {
		for v := range a.casted.All() {
			if !yield(unwrapValue[R, W, A](v)) {
				return
			}
		}
	})
}

// ReadOnlyCollectionAdapter adapts a ReadOnlyCollection.
type ReadOnlyCollectionAdapter[R, W, A any] struct {
	roCollectionImpl[A]
	strategy Strategy
	raw      ReadOnlyCollection[R]
	casted   ReadOnlyCollection[A]
}

// NewReadOnlyCollection returns a standard adapter over raw.
func NewReadOnlyCollection[R, W, A any](raw ReadOnlyCollection[R]) *ReadOnlyCollectionAdapter[R, W, A] {
	return &ReadOnlyCollectionAdapter[R, W, A]{roCollectionImpl: newROCollectionView(raw, standard[R, W, A]()), strategy: Standard, raw: raw}
}

// NewCastedReadOnlyCollection returns a casted adapter over items.
func NewCastedReadOnlyCollection[R, W, A any](items ReadOnlyCollection[A]) *ReadOnlyCollectionAdapter[R, W, A] {
	return &ReadOnlyCollectionAdapter[R, W, A]{roCollectionImpl: newROCollectionView(items, casted[R, W, A]()), strategy: Casted, casted: items}
}

// Strategy reports what the backing holds.
func (a *ReadOnlyCollectionAdapter[R, W, A]) Strategy() Strategy { return a.strategy }

func (a *ReadOnlyCollectionAdapter[R, W, A]) rawBacking() (any, bool) { return a.raw, a.raw != nil }

// Wrap returns a standard adapter over raw, or nil for a nil raw.
func (*ReadOnlyCollectionAdapter[R, W, A]) Wrap(raw ReadOnlyCollection[R]) *ReadOnlyCollectionAdapter[R, W, A] {
	if raw == nil {
		return nil
	}
	return NewReadOnlyCollection[R, W, A](raw)
}

// Unwrap returns the raw collection; casted adapters yield a converted copy.
func (a *ReadOnlyCollectionAdapter[R, W, A]) Unwrap() ReadOnlyCollection[R] {
	if a == nil {
		return nil
	}
	if a.raw != nil {
		return a.raw
	}
	return NewSliceList(collectRaw[R, W, A](a.casted)...)
}

// CollectionAdapter adapts a Collection.
type CollectionAdapter[R, W, A any] struct {
	collectionImpl[A]
	strategy Strategy
	raw      Collection[R]
	casted   Collection[A]
}

// NewCollection returns a standard adapter over raw.
func NewCollection[R, W, A any](raw Collection[R]) *CollectionAdapter[R, W, A] {
	return &CollectionAdapter[R, W, A]{collectionImpl: newCollectionView(raw, standard[R, W, A]()), strategy: Standard, raw: raw}
}

// NewCastedCollection returns a casted adapter over items.
func NewCastedCollection[R, W, A any](items Collection[A]) *CollectionAdapter[R, W, A] {
	return &CollectionAdapter[R, W, A]{collectionImpl: newCollectionView(items, casted[R, W, A]()), strategy: Casted, casted: items}
}

// Strategy reports what the backing holds.
func (a *CollectionAdapter[R, W, A]) Strategy() Strategy { return a.strategy }

func (a *CollectionAdapter[R, W, A]) rawBacking() (any, bool) { return a.raw, a.raw != nil }

// Wrap returns a standard adapter over raw, or nil for a nil raw.
func (*CollectionAdapter[R, W, A]) Wrap(raw Collection[R]) *CollectionAdapter[R, W, A] {
	if raw == nil {
		return nil
	}
	return NewCollection[R, W, A](raw)
}

// Unwrap returns the raw backing. Casted adapters yield a converted copy.
func (a *CollectionAdapter[R, W, A]) Unwrap() Collection[R] {
	if a == nil {
		return nil
	}
	if a.raw != nil {
		return a.raw
	}
	return NewSliceList(collectRaw[R, W, A](a.casted)...)
}

// ReadOnlyListAdapter adapts a ReadOnlyList.
type ReadOnlyListAdapter[R, W, A any] struct {
	roListImpl[A]
	strategy Strategy
	raw      ReadOnlyList[R]
	casted   ReadOnlyList[A]
}

// NewReadOnlyList returns a standard adapter over raw.
func NewReadOnlyList[R, W, A any](raw ReadOnlyList[R]) *ReadOnlyListAdapter[R, W, A] {
	return &ReadOnlyListAdapter[R, W, A]{roListImpl: newROListView(raw, standard[R, W, A]()), strategy: Standard, raw: raw}
}

// NewCastedReadOnlyList returns a casted adapter over items.
func NewCastedReadOnlyList[R, W, A any](items ReadOnlyList[A]) *ReadOnlyListAdapter[R, W, A] {
	return &ReadOnlyListAdapter[R, W, A]{roListImpl: newROListView(items, casted[R, W, A]()), strategy: Casted, casted: items}
}

// Strategy reports what the backing holds.
func (a *ReadOnlyListAdapter[R, W, A]) Strategy() Strategy { return a.strategy }

func (a *ReadOnlyListAdapter[R, W, A]) rawBacking() (any, bool) { return a.raw, a.raw != nil }

// Wrap returns a standard adapter over raw, or nil for a nil raw.
func (*ReadOnlyListAdapter[R, W, A]) Wrap(raw ReadOnlyList[R]) *ReadOnlyListAdapter[R, W, A] {
	if raw == nil {
		return nil
	}
	return NewReadOnlyList[R, W, A](raw)
}

// Unwrap returns the raw backing. Casted adapters yield a converted copy.
func (a *ReadOnlyListAdapter[R, W, A]) Unwrap() ReadOnlyList[R] {
	if a == nil {
		return nil
	}
	if a.raw != nil {
		return a.raw
	}
	return NewSliceList(collectRaw[R, W, A](a.casted)...)
}

// ListAdapter adapts a growable List.
type ListAdapter[R, W, A any] struct {
	listImpl[A]
	strategy Strategy
	raw      List[R]
	casted   List[A]
}

// NewList returns a standard adapter over raw.
func NewList[R, W, A any](raw List[R]) *ListAdapter[R, W, A] {
	return &ListAdapter[R, W, A]{listImpl: newListView(raw, standard[R, W, A]()), strategy: Standard, raw: raw}
}

// NewCastedList returns a casted adapter over items.
func NewCastedList[R, W, A any](items List[A]) *ListAdapter[R, W, A] {
	return &ListAdapter[R, W, A]{listImpl: newListView(items, casted[R, W, A]()), strategy: Casted, casted: items}
}

// Strategy reports what the backing holds.
func (a *ListAdapter[R, W, A]) Strategy() Strategy { return a.strategy }

func (a *ListAdapter[R, W, A]) rawBacking() (any, bool) { return a.raw, a.raw != nil }

// Wrap returns a standard adapter over raw, or nil for a nil raw.
func (*ListAdapter[R, W, A]) Wrap(raw List[R]) *ListAdapter[R, W, A] {
	if raw == nil {
		return nil
	}
	return NewList[R, W, A](raw)
}

// Unwrap returns the raw list; casted adapters yield a converted copy.
func (a *ListAdapter[R, W, A]) Unwrap() List[R] {
	if a == nil {
		return nil
	}
	if a.raw != nil {
		return a.raw
	}
	return NewSliceList(collectRaw[R, W, A](a.casted)...)
}

// ArrayAdapter adapts a fixed-size slice. Structural mutations return ErrNotSupported.
type ArrayAdapter[R, W, A any] struct {
	listImpl[A]
	strategy Strategy
	raw      []R
	casted   []A
}

// NewArray returns a standard adapter sharing raw.
func NewArray[R, W, A any](raw []R) *ArrayAdapter[R, W, A] {
	view := &arrayView[R, A]{items: raw, codec: standard[R, W, A]()}
	return &ArrayAdapter[R, W, A]{listImpl: view, strategy: Standard, raw: raw}
}

// NewCastedArray returns a casted adapter sharing items.
func NewCastedArray[R, W, A any](items []A) *ArrayAdapter[R, W, A] {
	view := &arrayView[A, A]{items: items, codec: casted[R, W, A]()}
	return &ArrayAdapter[R, W, A]{listImpl: view, strategy: Casted, casted: items}
}

// Strategy reports what the backing holds.
func (a *ArrayAdapter[R, W, A]) Strategy() Strategy { return a.strategy }

// Raw returns the raw slice of a standard adapter.
func (a *ArrayAdapter[R, W, A]) Raw() ([]R, bool) { return a.raw, a.strategy == Standard }

func (a *ArrayAdapter[R, W, A]) rawBacking() (any, bool) { return a.raw, a.strategy == Standard }

// Wrap returns a standard adapter over raw, or nil for a nil raw.
func (*ArrayAdapter[R, W, A]) Wrap(raw []R) *ArrayAdapter[R, W, A] {
	if raw == nil {
		return nil
	}
	return NewArray[R, W, A](raw)
}

// Unwrap returns the raw slice; casted adapters yield a converted copy.
func (a *ArrayAdapter[R, W, A]) Unwrap() []R {
	if a == nil {
		return nil
	}
	if a.strategy == Standard {
		return a.raw
	}
	out := make([]R, len(a.casted))
	for i, v := range a.casted {
		out[i] = unwrapValue[R, W, A](v)
	}
	return out
}

// SetAdapter adapts a Set.
type SetAdapter[R, W, A any] struct {
	setImpl[A]
	strategy Strategy
	raw      Set[R]
	casted   Set[A]
}

// NewSet returns a standard adapter over raw.
func NewSet[R, W, A any](raw Set[R]) *SetAdapter[R, W, A] {
	return &SetAdapter[R, W, A]{setImpl: newSetView(raw, standard[R, W, A]()), strategy: Standard, raw: raw}
}

// NewCastedSet returns a casted adapter over items.
func NewCastedSet[R, W, A any](items Set[A]) *SetAdapter[R, W, A] {
	return &SetAdapter[R, W, A]{setImpl: newSetView(items, casted[R, W, A]()), strategy: Casted, casted: items}
}

// Strategy reports what the backing holds.
func (a *SetAdapter[R, W, A]) Strategy() Strategy { return a.strategy }

func (a *SetAdapter[R, W, A]) rawBacking() (any, bool) { return a.raw, a.raw != nil }

// Wrap returns a standard adapter over raw, or nil for a nil raw.
func (*SetAdapter[R, W, A]) Wrap(raw Set[R]) *SetAdapter[R, W, A] {
	if raw == nil {
		return nil
	}
	return NewSet[R, W, A](raw)
}

// Unwrap returns the raw backing. Casted adapters yield a converted copy.
func (a *SetAdapter[R, W, A]) Unwrap() Set[R] {
	if a == nil {
		return nil
	}
	if a.raw != nil {
		return a.raw
	}
	out := &sliceSet[R]{}
	for _, r := range collectRaw[R, W, A](a.casted) {
		_, _ = out.Add(r)
	}
	return out
}

// ReadOnlyMapAdapter adapts a ReadOnlyMap.
type ReadOnlyMapAdapter[K comparable, R, W, A any] struct {
	roMapImpl[K, A]
	strategy Strategy
	raw      ReadOnlyMap[K, R]
	casted   ReadOnlyMap[K, A]
}

// NewReadOnlyMap returns a standard adapter over raw.
func NewReadOnlyMap[K comparable, R, W, A any](raw ReadOnlyMap[K, R]) *ReadOnlyMapAdapter[K, R, W, A] {
	return &ReadOnlyMapAdapter[K, R, W, A]{roMapImpl: newROMapView(raw, standard[R, W, A]()), strategy: Standard, raw: raw}
}

// NewCastedReadOnlyMap returns a casted adapter over items.
func NewCastedReadOnlyMap[K comparable, R, W, A any](items ReadOnlyMap[K, A]) *ReadOnlyMapAdapter[K, R, W, A] {
	return &ReadOnlyMapAdapter[K, R, W, A]{roMapImpl: newROMapView(items, casted[R, W, A]()), strategy: Casted, casted: items}
}

// Strategy reports what the backing holds.
func (a *ReadOnlyMapAdapter[K, R, W, A]) Strategy() Strategy { return a.strategy }

func (a *ReadOnlyMapAdapter[K, R, W, A]) rawBacking() (any, bool) { return a.raw, a.raw != nil }

// Wrap returns a standard adapter over raw, or nil for a nil raw.
func (*ReadOnlyMapAdapter[K, R, W, A]) Wrap(raw ReadOnlyMap[K, R]) *ReadOnlyMapAdapter[K, R, W, A] {
	if raw == nil {
		return nil
	}
	return NewReadOnlyMap[K, R, W, A](raw)
}

// Unwrap returns the raw backing. Casted adapters yield a converted copy.
func (a *ReadOnlyMapAdapter[K, R, W, A]) Unwrap() ReadOnlyMap[K, R] {
	if a == nil {
		return nil
	}
	if a.raw != nil {
		return a.raw
	}
	return MapOf(collectRawMap[K, R, W, A](a.casted))
}

// MapAdapter adapts a Map. Keys are stored and returned as is.
type MapAdapter[K comparable, R, W, A any] struct {
	mapImpl[K, A]
	strategy Strategy
	raw      Map[K, R]
	casted   Map[K, A]
}

// NewMap returns a standard adapter over raw.
func NewMap[K comparable, R, W, A any](raw Map[K, R]) *MapAdapter[K, R, W, A] {
	return &MapAdapter[K, R, W, A]{mapImpl: newMapView(raw, standard[R, W, A]()), strategy: Standard, raw: raw}
}

// NewCastedMap returns a casted adapter over items.
func NewCastedMap[K comparable, R, W, A any](items Map[K, A]) *MapAdapter[K, R, W, A] {
	return &MapAdapter[K, R, W, A]{mapImpl: newMapView(items, casted[R, W, A]()), strategy: Casted, casted: items}
}

// Strategy reports what the backing holds.
func (a *MapAdapter[K, R, W, A]) Strategy() Strategy { return a.strategy }

func (a *MapAdapter[K, R, W, A]) rawBacking() (any, bool) { return a.raw, a.raw != nil }

// Wrap returns a standard adapter over raw, or nil for a nil raw.
func (*MapAdapter[K, R, W, A]) Wrap(raw Map[K, R]) *MapAdapter[K, R, W, A] {
	if raw == nil {
		return nil
	}
	return NewMap[K, R, W, A](raw)
}

// Unwrap returns the raw backing. Casted adapters yield a converted copy.
func (a *MapAdapter[K, R, W, A]) Unwrap() Map[K, R] {
	if a == nil {
		return nil
	}
	if a.raw != nil {
		return a.raw
	}
	return MapOf(collectRawMap[K, R, W, A](a.casted))
}

func collectRaw[R, W, A any](src Sequence[A]) []R {
	var out []R
	for v := range src.All() {
		out = append(out, unwrapValue[R, W, A](v))
	}
	return out
}

func collectRawMap[K comparable, R, W, A any](src ReadOnlyMap[K, A]) map[K]R {
	out := make(map[K]R, src.Len())
	for k, v := range src.All() {
		out[k] = unwrapValue[R, W, A](v)
	}
	return out
}

// sliceSet is a Set for element types that are not known to be comparable.
type sliceSet[T any] struct {
	items []T
}

func (s *sliceSet[T]) All() iter.Seq[T] { return slices.Values(s.items) }

func (s *sliceSet[T]) Len() int { return len(s.items) }

func (s *sliceSet[T]) Contains(v T) bool { return s.index(v) >= 0 }

func (s *sliceSet[T]) Add(v T) (bool, error) {
	if s.index(v) >= 0 {
		return false, nil
	}
	s.items = append(s.items, v)
	return true, nil
}

func (s *sliceSet[T]) Remove(v T) (bool, error) {
	i := s.index(v)
	if i < 0 {
		return false, nil
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true, nil
}

func (s *sliceSet[T]) Clear() error {
	s.items = nil
	return nil
}

func (s *sliceSet[T]) index(v T) int {
	for i, item := range s.items {
		if equal(item, v) {
			return i
		}
	}
	return -1
}

package adapt

import (
	"iter"
)

// The views below implement every adapter family once, generic over the
// stored type S. Standard adapters instantiate them with S = R, casted ones
// with S = A.

type seqView[S, A any] struct {
	src   Sequence[S]
	codec codec[S, A]
}

func (v *seqView[S, A]) All() iter.Seq[A] {
	return func(yield func(A) bool) {
		for s := range v.src.All() {
			if !yield(v.codec.load(s)) {
				return
			}
		}
	}
}

type roCollectionView[S, A any] struct {
	seqView[S, A]
	coll ReadOnlyCollection[S]
}

func (v *roCollectionView[S, A]) Len() int { return v.coll.Len() }

type collectionView[S, A any] struct {
	roCollectionView[S, A]
	dst Collection[S]
}

func (v *collectionView[S, A]) Contains(item A) bool {
	s, err := v.codec.store(item)
	if err != nil {
		return false
	}
	if v.dst.Contains(s) {
		return true
	}
	_, ok := locate(v.dst, v.codec, s)
	return ok
}

func (v *collectionView[S, A]) Add(item A) error {
	s, err := v.codec.store(item)
	if err != nil {
		return err
	}
	return v.dst.Add(s)
}

func (v *collectionView[S, A]) Remove(item A) (bool, error) {
	s, err := v.codec.store(item)
	if err != nil {
		return false, nil
	}
	if stored, ok := locate(v.dst, v.codec, s); ok {
		s = stored
	}
	return v.dst.Remove(s)
}

func (v *collectionView[S, A]) Clear() error { return v.dst.Clear() }

type roListView[S, A any] struct {
	roCollectionView[S, A]
	list ReadOnlyList[S]
}

func (v *roListView[S, A]) At(i int) A { return v.codec.load(v.list.At(i)) }

type listView[S, A any] struct {
	collectionView[S, A]
	list List[S]
}

func (v *listView[S, A]) At(i int) A { return v.codec.load(v.list.At(i)) }

func (v *listView[S, A]) Set(i int, item A) error {
	s, err := v.codec.store(item)
	if err != nil {
		return err
	}
	return v.list.Set(i, s)
}

func (v *listView[S, A]) Insert(i int, item A) error {
	s, err := v.codec.store(item)
	if err != nil {
		return err
	}
	return v.list.Insert(i, s)
}

func (v *listView[S, A]) RemoveAt(i int) error { return v.list.RemoveAt(i) }

func (v *listView[S, A]) IndexOf(item A) int {
	s, err := v.codec.store(item)
	if err != nil {
		return -1
	}
	if i := v.list.IndexOf(s); i >= 0 {
		return i
	}
	m, ok := v.codec.(matcher[S])
	if !ok {
		return -1
	}
	for i := range v.list.Len() {
		if m.same(v.list.At(i), s) {
			return i
		}
	}
	return -1
}

// arrayView is a fixed-size List over a slice: elements can be replaced,
// never added or removed.
type arrayView[S, A any] struct {
	items []S
	codec codec[S, A]
}

func (v *arrayView[S, A]) All() iter.Seq[A] {
	return func(yield func(A) bool) {
		for _, s := range v.items {
			if !yield(v.codec.load(s)) {
				return
			}
		}
	}
}

func (v *arrayView[S, A]) Len() int { return len(v.items) }

func (v *arrayView[S, A]) At(i int) A {
	checkIndex(i, len(v.items))
	return v.codec.load(v.items[i])
}

func (v *arrayView[S, A]) Contains(item A) bool { return v.IndexOf(item) >= 0 }

func (v *arrayView[S, A]) IndexOf(item A) int {
	s, err := v.codec.store(item)
	if err != nil {
		return -1
	}
	m, byMatch := v.codec.(matcher[S])
	for i, candidate := range v.items {
		if equal(candidate, s) || (byMatch && m.same(candidate, s)) {
			return i
		}
	}
	return -1
}

func (v *arrayView[S, A]) Set(i int, item A) error {
	if i < 0 || i >= len(v.items) {
		return indexError(i, len(v.items))
	}
	s, err := v.codec.store(item)
	if err != nil {
		return err
	}
	v.items[i] = s
	return nil
}

func (v *arrayView[S, A]) Add(A) error { return unsupported("Add") }

func (v *arrayView[S, A]) Remove(A) (bool, error) { return false, unsupported("Remove") }

func (v *arrayView[S, A]) Clear() error { return unsupported("Clear") }

func (v *arrayView[S, A]) Insert(int, A) error { return unsupported("Insert") }

func (v *arrayView[S, A]) RemoveAt(int) error { return unsupported("RemoveAt") }

type setView[S, A any] struct {
	roCollectionView[S, A]
	set Set[S]
}

func (v *setView[S, A]) Contains(item A) bool {
	s, err := v.codec.store(item)
	if err != nil {
		return false
	}
	if v.set.Contains(s) {
		return true
	}
	_, ok := locate(v.set, v.codec, s)
	return ok
}

func (v *setView[S, A]) Add(item A) (bool, error) {
	s, err := v.codec.store(item)
	if err != nil {
		return false, err
	}
	if _, ok := locate(v.set, v.codec, s); ok {
		return false, nil
	}
	return v.set.Add(s)
}

func (v *setView[S, A]) Remove(item A) (bool, error) {
	s, err := v.codec.store(item)
	if err != nil {
		return false, nil
	}
	if stored, ok := locate(v.set, v.codec, s); ok {
		s = stored
	}
	return v.set.Remove(s)
}

func (v *setView[S, A]) Clear() error { return v.set.Clear() }

// locate finds the stored value the codec considers the same as s. Only
// codecs implementing matcher search; the others rely on the backing.
func locate[S, A any](src Sequence[S], c codec[S, A], s S) (S, bool) {
	if m, ok := c.(matcher[S]); ok {
		for stored := range src.All() {
			if m.same(stored, s) {
				return stored, true
			}
		}
	}
	var zero S
	return zero, false
}

// Map views pass keys through untouched.

type roMapView[K comparable, S, A any] struct {
	src   ReadOnlyMap[K, S]
	codec codec[S, A]
}

func (v *roMapView[K, S, A]) Get(k K) (A, bool) {
	s, ok := v.src.Get(k)
	if !ok {
		var zero A
		return zero, false
	}
	return v.codec.load(s), true
}

func (v *roMapView[K, S, A]) Len() int { return v.src.Len() }

func (v *roMapView[K, S, A]) Keys() iter.Seq[K] { return v.src.Keys() }

func (v *roMapView[K, S, A]) Values() iter.Seq[A] {
	return func(yield func(A) bool) {
		for s := range v.src.Values() {
			if !yield(v.codec.load(s)) {
				return
			}
		}
	}
}

func (v *roMapView[K, S, A]) All() iter.Seq2[K, A] {
	return func(yield func(K, A) bool) {
		for k, s := range v.src.All() {
			if !yield(k, v.codec.load(s)) {
				return
			}
		}
	}
}

func (v *roMapView[K, S, A]) ContainsKey(k K) bool { return v.src.ContainsKey(k) }

type mapView[K comparable, S, A any] struct {
	roMapView[K, S, A]
	dst Map[K, S]
}

func (v *mapView[K, S, A]) Set(k K, item A) error {
	s, err := v.codec.store(item)
	if err != nil {
		return err
	}
	return v.dst.Set(k, s)
}

func (v *mapView[K, S, A]) Delete(k K) (bool, error) { return v.dst.Delete(k) }

func (v *mapView[K, S, A]) Clear() error { return v.dst.Clear() }

func newSeqView[S, A any](src Sequence[S], c codec[S, A]) *seqView[S, A] {
	return &seqView[S, A]{src: src, codec: c}
}

func newROCollectionView[S, A any](src ReadOnlyCollection[S], c codec[S, A]) *roCollectionView[S, A] {
	v := &roCollectionView[S, A]{coll: src}
	v.src, v.codec = src, c
	return v
}

func newCollectionView[S, A any](src Collection[S], c codec[S, A]) *collectionView[S, A] {
	v := &collectionView[S, A]{dst: src}
	v.src, v.coll, v.codec = src, src, c
	return v
}

func newROListView[S, A any](src ReadOnlyList[S], c codec[S, A]) *roListView[S, A] {
	v := &roListView[S, A]{list: src}
	v.src, v.coll, v.codec = src, src, c
	return v
}

func newListView[S, A any](src List[S], c codec[S, A]) *listView[S, A] {
	v := &listView[S, A]{list: src}
	v.src, v.coll, v.dst, v.codec = src, src, src, c
	return v
}

func newSetView[S, A any](src Set[S], c codec[S, A]) *setView[S, A] {
	v := &setView[S, A]{set: src}
	v.src, v.coll, v.codec = src, src, c
	return v
}

func newROMapView[K comparable, S, A any](src ReadOnlyMap[K, S], c codec[S, A]) *roMapView[K, S, A] {
	return &roMapView[K, S, A]{src: src, codec: c}
}

func newMapView[K comparable, S, A any](src Map[K, S], c codec[S, A]) *mapView[K, S, A] {
	v := &mapView[K, S, A]{dst: src}
	v.src, v.codec = src, c
	return v
}

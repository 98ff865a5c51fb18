package adapt

import (
	"iter"
	"maps"
	"reflect"
	"slices"
)

// SliceList is a growable List backed by a slice.
type SliceList[T any] struct {
	items []T
}

// NewSliceList returns a list holding items. The slice is not copied.
func NewSliceList[T any](items ...T) *SliceList[T] {
	return &SliceList[T]{items: items}
}

// Items returns the current backing slice.
func (l *SliceList[T]) Items() []T { return l.items }

func (l *SliceList[T]) All() iter.Seq[T] { return slices.Values(l.items) }

func (l *SliceList[T]) Len() int { return len(l.items) }

func (l *SliceList[T]) At(i int) T {
	checkIndex(i, len(l.items))
	return l.items[i]
}

func (l *SliceList[T]) Contains(v T) bool { return l.IndexOf(v) >= 0 }

func (l *SliceList[T]) IndexOf(v T) int {
	for i, item := range l.items {
		if equal(item, v) {
			return i
		}
	}
	return -1
}

func (l *SliceList[T]) Add(v T) error {
	l.items = append(l.items, v)
	return nil
}

func (l *SliceList[T]) Remove(v T) (bool, error) {
	i := l.IndexOf(v)
	if i < 0 {
		return false, nil
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true, nil
}

func (l *SliceList[T]) Clear() error {
	clear(l.items)
	l.items = l.items[:0]
	return nil
}

func (l *SliceList[T]) Set(i int, v T) error {
	if i < 0 || i >= len(l.items) {
		return indexError(i, len(l.items))
	}
	l.items[i] = v
	return nil
}

func (l *SliceList[T]) Insert(i int, v T) error {
	if i < 0 || i > len(l.items) {
		return indexError(i, len(l.items))
	}
	l.items = slices.Insert(l.items, i, v)
	return nil
}

func (l *SliceList[T]) RemoveAt(i int) error {
	if i < 0 || i >= len(l.items) {
		return indexError(i, len(l.items))
	}
	l.items = slices.Delete(l.items, i, i+1)
	return nil
}

// HashSet is a Set that keeps insertion order.
type HashSet[T comparable] struct {
	index map[T]int
	items []T
}

// NewHashSet returns a set holding the distinct values of items.
func NewHashSet[T comparable](items ...T) *HashSet[T] {
	s := &HashSet[T]{index: make(map[T]int, len(items))}
	for _, v := range items {
		_, _ = s.Add(v)
	}
	return s
}

func (s *HashSet[T]) All() iter.Seq[T] { return slices.Values(s.items) }

func (s *HashSet[T]) Len() int { return len(s.items) }

func (s *HashSet[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s *HashSet[T]) Add(v T) (bool, error) {
	if _, ok := s.index[v]; ok {
		return false, nil
	}
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
	return true, nil
}

func (s *HashSet[T]) Remove(v T) (bool, error) {
	i, ok := s.index[v]
	if !ok {
		return false, nil
	}
	delete(s.index, v)
	s.items = slices.Delete(s.items, i, i+1)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
	return true, nil
}

func (s *HashSet[T]) Clear() error {
	clear(s.index)
	clear(s.items)
	s.items = s.items[:0]
	return nil
}

// HashMap is a Map over a Go map.
type HashMap[K comparable, V any] struct {
	m map[K]V
}

// NewHashMap returns an empty map.
func NewHashMap[K comparable, V any]() *HashMap[K, V] {
	return &HashMap[K, V]{m: make(map[K]V)}
}

// MapOf returns a Map sharing m. Writes through the result are visible in m.
func MapOf[K comparable, V any](m map[K]V) *HashMap[K, V] {
	if m == nil {
		m = make(map[K]V)
	}
	return &HashMap[K, V]{m: m}
}

// Map returns the underlying Go map.
func (h *HashMap[K, V]) Map() map[K]V { return h.m }

func (h *HashMap[K, V]) Get(k K) (V, bool) {
	v, ok := h.m[k]
	return v, ok
}

func (h *HashMap[K, V]) Len() int { return len(h.m) }

func (h *HashMap[K, V]) Keys() iter.Seq[K] { return maps.Keys(h.m) }

func (h *HashMap[K, V]) Values() iter.Seq[V] { return maps.Values(h.m) }

func (h *HashMap[K, V]) All() iter.Seq2[K, V] { return maps.All(h.m) }

func (h *HashMap[K, V]) ContainsKey(k K) bool {
	_, ok := h.m[k]
	return ok
}

func (h *HashMap[K, V]) Set(k K, v V) error {
	h.m[k] = v
	return nil
}

func (h *HashMap[K, V]) Delete(k K) (bool, error) {
	if _, ok := h.m[k]; !ok {
		return false, nil
	}
	delete(h.m, k)
	return true, nil
}

func (h *HashMap[K, V]) Clear() error {
	clear(h.m)
	return nil
}

// equal compares with == when both values are comparable, including the
// values held in interface fields, and with reflect.DeepEqual otherwise.
func equal[T any](a, b T) bool {
	x, y := any(a), any(b)
	if x == nil || y == nil {
		return x == y
	}
	if reflect.ValueOf(x).Comparable() && reflect.ValueOf(y).Comparable() {
		return x == y
	}
	return reflect.DeepEqual(x, y)
}

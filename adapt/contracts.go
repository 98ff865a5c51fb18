package adapt

import "iter"

// Sequence is anything that can be iterated once or many times.
type Sequence[T any] interface {
	All() iter.Seq[T]
}

// ReadOnlyCollection is a sized sequence.
type ReadOnlyCollection[T any] interface {
	Sequence[T]
	Len() int
}

// Collection is a mutable, unordered group of values.
type Collection[T any] interface {
	ReadOnlyCollection[T]
	Contains(v T) bool
	Add(v T) error
	Remove(v T) (bool, error)
	Clear() error
}

// ReadOnlyList is an indexed collection. At panics with *IndexError when i is out of range.
type ReadOnlyList[T any] interface {
	ReadOnlyCollection[T]
	At(i int) T
}

// List is a mutable indexed collection.
type List[T any] interface {
	Collection[T]
	At(i int) T
	Set(i int, v T) error
	Insert(i int, v T) error
	RemoveAt(i int) error
	IndexOf(v T) int
}

// Set is a collection without duplicates. Add reports whether v was added.
type Set[T any] interface {
	ReadOnlyCollection[T]
	Contains(v T) bool
	Add(v T) (bool, error)
	Remove(v T) (bool, error)
	Clear() error
}

// ReadOnlyMap is a keyed lookup.
type ReadOnlyMap[K comparable, V any] interface {
	Get(k K) (V, bool)
	Len() int
	Keys() iter.Seq[K]
	Values() iter.Seq[V]
	All() iter.Seq2[K, V]
	ContainsKey(k K) bool
}

// Map is a mutable keyed lookup.
type Map[K comparable, V any] interface {
	ReadOnlyMap[K, V]
	Set(k K, v V) error
	Delete(k K) (bool, error)
	Clear() error
}

// SeqFunc turns an iterator function into a Sequence.
type SeqFunc[T any] iter.Seq[T]

// All returns f itself.
func (f SeqFunc[T]) All() iter.Seq[T] { return iter.Seq[T](f) }

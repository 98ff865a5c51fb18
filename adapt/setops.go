package adapt

import "slices"

// Set operations run on the raw backings when both adapters are standard
// and through the adapters otherwise. Adapter lookups match casted elements
// by the raw value they wrap, so mixing strategies gives the same result
// as two standard adapters over the same raw elements. A nil other is an
// error for mutations and an empty set for predicates.

// UnionWith adds every element of other to s.
func (s *SetAdapter[R, W, A]) UnionWith(other *SetAdapter[R, W, A]) error {
	if other == nil {
		return ErrNilArgument
	}
	if s.raw != nil && other.raw != nil {
		return unionWith(s.raw, other.raw)
	}
	return unionWith[A](s, other)
}

// IntersectWith keeps only the elements of s that are also in other.
func (s *SetAdapter[R, W, A]) IntersectWith(other *SetAdapter[R, W, A]) error {
	if other == nil {
		return ErrNilArgument
	}
	if s.raw != nil && other.raw != nil {
		return intersectWith(s.raw, other.raw)
	}
	return intersectWith[A](s, other)
}

// ExceptWith removes every element of other from s.
func (s *SetAdapter[R, W, A]) ExceptWith(other *SetAdapter[R, W, A]) error {
	if other == nil {
		return ErrNilArgument
	}
	if s.raw != nil && other.raw != nil {
		return exceptWith(s.raw, other.raw)
	}
	return exceptWith[A](s, other)
}

// SymmetricExceptWith keeps the elements present in exactly one of s and other.
func (s *SetAdapter[R, W, A]) SymmetricExceptWith(other *SetAdapter[R, W, A]) error {
	if other == nil {
		return ErrNilArgument
	}
	if s == other {
		return s.Clear()
	}
	if s.raw != nil && other.raw != nil {
		return symmetricExceptWith(s.raw, other.raw)
	}
	return symmetricExceptWith[A](s, other)
}

// IsSubsetOf reports whether every element of s is in other.
func (s *SetAdapter[R, W, A]) IsSubsetOf(other *SetAdapter[R, W, A]) bool {
	if other == nil {
		return s.Len() == 0
	}
	if s.raw != nil && other.raw != nil {
		return isSubset(s.raw, other.raw)
	}
	return isSubset[A](s, other)
}

// IsSupersetOf reports whether every element of other is in s.
func (s *SetAdapter[R, W, A]) IsSupersetOf(other *SetAdapter[R, W, A]) bool {
	if other == nil {
		return true
	}
	return other.IsSubsetOf(s)
}

// IsProperSubsetOf reports whether s is a subset of other and smaller than it.
func (s *SetAdapter[R, W, A]) IsProperSubsetOf(other *SetAdapter[R, W, A]) bool {
	if other == nil {
		return false
	}
	return s.Len() < other.Len() && s.IsSubsetOf(other)
}

// IsProperSupersetOf reports whether s is a superset of other and larger than it.
func (s *SetAdapter[R, W, A]) IsProperSupersetOf(other *SetAdapter[R, W, A]) bool {
	if other == nil {
		return s.Len() > 0
	}
	return other.IsProperSubsetOf(s)
}

// Overlaps reports whether s and other share at least one element.
func (s *SetAdapter[R, W, A]) Overlaps(other *SetAdapter[R, W, A]) bool {
	if other == nil {
		return false
	}
	if s.raw != nil && other.raw != nil {
		return overlaps(s.raw, other.raw)
	}
	return overlaps[A](s, other)
}

// SetEquals reports whether s and other hold the same elements.
func (s *SetAdapter[R, W, A]) SetEquals(other *SetAdapter[R, W, A]) bool {
	if other == nil {
		return s.Len() == 0
	}
	return s.Len() == other.Len() && s.IsSubsetOf(other)
}

func unionWith[T any](dst, src Set[T]) error {
	for _, v := range slices.Collect(src.All()) {
		if _, err := dst.Add(v); err != nil {
			return err
		}
	}
	return nil
}

func intersectWith[T any](dst, src Set[T]) error {
	var drop []T
	for v := range dst.All() {
		if !src.Contains(v) {
			drop = append(drop, v)
		}
	}
	return removeAll(dst, drop)
}

func exceptWith[T any](dst, src Set[T]) error {
	return removeAll(dst, slices.Collect(src.All()))
}

func symmetricExceptWith[T any](dst, src Set[T]) error {
	for _, v := range slices.Collect(src.All()) {
		if dst.Contains(v) {
			if _, err := dst.Remove(v); err != nil {
				return err
			}
			continue
		}
		if _, err := dst.Add(v); err != nil {
			return err
		}
	}
	return nil
}

func removeAll[T any](dst Set[T], items []T) error {
	for _, v := range items {
		if _, err := dst.Remove(v); err != nil {
			return err
		}
	}
	return nil
}

func isSubset[T any](a, b Set[T]) bool {
	for v := range a.All() {
		if !b.Contains(v) {
			return false
		}
	}
	return true
}

func overlaps[T any](a, b Set[T]) bool {
	for v := range a.All() {
		if b.Contains(v) {
			return true
		}
	}
	return false
}

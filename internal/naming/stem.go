package naming

import "strconv"

// Stem numbers a base name until it reaches one its namespace does not hold:
// base1, base2, ... Claimed names are added to the namespace in place.
type Stem struct {
	namespace map[string]struct{}
	base      string
	n         int
}

// NewStem returns a Stem over namespace. A nil namespace has every name free.
func NewStem(base string, namespace map[string]struct{}) *Stem {
	if namespace == nil {
		namespace = make(map[string]struct{})
	}

	return &Stem{namespace: namespace, base: base}
}

// Next claims and returns the next free numbered name.
func (s *Stem) Next() string {
	for {
		s.n++
		if candidate := s.base + strconv.Itoa(s.n); claim(s.namespace, candidate) {
			return candidate
		}
	}
}

// Unique claims name in namespace, or its first free numbered variant with
// sep between the name and the number. namespace must not be nil.
func Unique(namespace map[string]struct{}, name, sep string) string {
	if claim(namespace, name) {
		return name
	}

	return NewStem(name+sep, namespace).Next()
}

func claim(namespace map[string]struct{}, name string) bool {
	if _, taken := namespace[name]; taken {
		return false
	}
	namespace[name] = struct{}{}

	return true
}

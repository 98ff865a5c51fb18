package analyze

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "example.com/foreign/shapes"
	Name    string // e.g., "Widget"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// ParseTypeID splits "example.com/foreign.Widget" at the last dot after the
// last slash.
func ParseTypeID(s string) (TypeID, error) {
	s = strings.TrimSpace(s)

	slash := strings.LastIndex(s, "/")
	dot := strings.LastIndex(s, ".")
	if dot <= slash || dot == len(s)-1 {
		return TypeID{}, errors.WithHint(
			errors.Newf("invalid type id %q", s),
			"type ids are written as <import path>.<TypeName>",
		)
	}

	return TypeID{PkgPath: s[:dot], Name: s[dot+1:]}, nil
}

package common

import (
	"path"
	"strings"
	"unicode"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// PkgPrefix returns the exported identifier prefix for a package path,
// e.g. "example.com/foreign/shapes" -> "Shapes".
func PkgPrefix(pkgPath string) string {
	return Exported(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, PkgAlias(pkgPath)))
}

// HasPathPrefix reports whether pkgPath is prefix itself or lies below it.
func HasPathPrefix(pkgPath, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/...")
	return pkgPath == prefix || strings.HasPrefix(pkgPath, prefix+"/")
}

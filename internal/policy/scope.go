package policy

import (
	"go/types"

	"facade-generator/internal/common"
)

// Scope decides which foreign types are wrapped.
type Scope interface {
	// IsTypeInScope reports whether the package declaring tn is marked for wrapping.
	IsTypeInScope(tn *types.TypeName) bool
	// IsContractInScope reports whether declaring may be linked to the capability contract.
	IsContractInScope(declaring, contract *types.TypeName) bool
}

// PrefixScope marks every package whose import path lies at or below one of its prefixes.
type PrefixScope struct {
	prefixes []string
}

// NewPrefixScope returns a scope over the given import path prefixes.
// A trailing "/..." is accepted and ignored.
func NewPrefixScope(prefixes ...string) *PrefixScope {
	return &PrefixScope{prefixes: prefixes}
}

// IsTypeInScope implements Scope.
func (s *PrefixScope) IsTypeInScope(tn *types.TypeName) bool {
	if tn == nil || tn.Pkg() == nil {
		return false
	}

	return s.IsPathInScope(tn.Pkg().Path())
}

// IsContractInScope implements Scope. A contract is in scope when both ends are.
func (s *PrefixScope) IsContractInScope(declaring, contract *types.TypeName) bool {
	return s.IsTypeInScope(declaring) && s.IsTypeInScope(contract)
}

// IsPathInScope reports whether pkgPath matches one of the prefixes.
func (s *PrefixScope) IsPathInScope(pkgPath string) bool {
	for _, p := range s.prefixes {
		if common.HasPathPrefix(pkgPath, p) {
			return true
		}
	}

	return false
}

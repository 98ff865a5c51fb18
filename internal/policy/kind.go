package policy

import (
	"strings"

	"github.com/cockroachdb/errors"

	"facade-generator/internal/common"
)

// MemberKind is the kind of a capability member.
type MemberKind int

const (
	// MemberProperty is an exported struct field.
	MemberProperty MemberKind = iota
	// MemberOperation is a method.
	MemberOperation
	// MemberEvent is an exported channel-typed struct field.
	MemberEvent
	// MemberConstructor is a package-level NewT function.
	MemberConstructor
)

// String returns a human-readable representation of the MemberKind.
func (k MemberKind) String() string {
	switch k {
	case MemberProperty:
		return "property"
	case MemberOperation:
		return "operation"
	case MemberEvent:
		return "event"
	case MemberConstructor:
		return "constructor"
	default:
		return common.UnknownStr
	}
}

// ParseMemberKind parses a kind name as written in configuration.
func ParseMemberKind(s string) (MemberKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "property":
		return MemberProperty, nil
	case "operation", "method":
		return MemberOperation, nil
	case "event":
		return MemberEvent, nil
	case "constructor":
		return MemberConstructor, nil
	default:
		return MemberProperty, errors.Newf("unknown member kind %q", s)
	}
}

// Supports reports whether outcome o is meaningful for members of kind k.
func Supports(k MemberKind, o Outcome) bool {
	switch o {
	case OutcomeOmit, OutcomeFull, OutcomeConditionalFull:
		return true
	case OutcomeInterfaceOnly, OutcomeImplementationOnly:
		return k != MemberConstructor
	case OutcomeCachedFull:
		return k == MemberProperty
	case OutcomeConditionalEventOnly:
		return k == MemberEvent
	default:
		return false
	}
}

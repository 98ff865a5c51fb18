package policy

import (
	"go/types"

	"github.com/cockroachdb/errors"
)

// ErrUnsupportedOutcome is returned when a callback picks an outcome that
// does not apply to the member's kind.
var ErrUnsupportedOutcome = errors.New("outcome not supported for member kind")

// Callback decides the outcome for one member of a declaring type.
type Callback func(declaring types.Type, member types.Object) Outcome

// Policy holds optional per-kind callbacks. A nil callback yields OutcomeFull.
type Policy struct {
	Property    Callback
	Operation   Callback
	Event       Callback
	Constructor Callback
}

// Outcome returns the validated outcome for a member. Members without a
// declaring object, such as synthesized ones, are always generated in full.
func (p Policy) Outcome(kind MemberKind, declaring types.Type, member types.Object) (Outcome, error) {
	cb := p.callback(kind)
	if cb == nil || member == nil {
		return OutcomeFull, nil
	}

	o := cb(declaring, member)
	if !Supports(kind, o) {
		return o, errors.Wrapf(ErrUnsupportedOutcome, "%s %s.%s: %s", kind, types.TypeString(declaring, nil), member.Name(), o)
	}

	return o, nil
}

func (p Policy) callback(kind MemberKind) Callback {
	switch kind {
	case MemberProperty:
		return p.Property
	case MemberOperation:
		return p.Operation
	case MemberEvent:
		return p.Event
	case MemberConstructor:
		return p.Constructor
	default:
		return nil
	}
}

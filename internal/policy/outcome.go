package policy

import (
	"strings"

	"github.com/cockroachdb/errors"
)

//go:generate go tool stringer -type=Outcome -trimprefix=Outcome -output=outcome_string.go

// Outcome is the generation decision for one member.
type Outcome int

const (
	// OutcomeOmit drops the member.
	OutcomeOmit Outcome = iota
	// OutcomeFull declares the member on the capability and implements it on the adapter.
	OutcomeFull
	// OutcomeInterfaceOnly declares the member; the implementation is supplied by hand.
	OutcomeInterfaceOnly
	// OutcomeImplementationOnly implements the member on the adapter only.
	OutcomeImplementationOnly
	// OutcomeCachedFull is OutcomeFull with the value read once and kept by the adapter.
	OutcomeCachedFull
	// OutcomeConditionalFull is OutcomeFull behind a build constraint.
	OutcomeConditionalFull
	// OutcomeConditionalEventOnly is OutcomeConditionalFull for events.
	OutcomeConditionalEventOnly
)

var outcomeNames = map[string]Outcome{
	"omit":                   OutcomeOmit,
	"full":                   OutcomeFull,
	"interface_only":         OutcomeInterfaceOnly,
	"implementation_only":    OutcomeImplementationOnly,
	"cached_full":            OutcomeCachedFull,
	"conditional_full":       OutcomeConditionalFull,
	"conditional_event_only": OutcomeConditionalEventOnly,
}

// ParseOutcome parses the snake_case configuration name of an outcome.
func ParseOutcome(s string) (Outcome, error) {
	if o, ok := outcomeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return o, nil
	}

	return OutcomeOmit, errors.Newf("unknown outcome %q", s)
}

// Declared reports whether the member appears on the capability interface.
func (o Outcome) Declared() bool {
	switch o {
	case OutcomeFull, OutcomeInterfaceOnly, OutcomeCachedFull, OutcomeConditionalFull, OutcomeConditionalEventOnly:
		return true
	default:
		return false
	}
}

// Implemented reports whether the adapter gets an implementation of the member.
func (o Outcome) Implemented() bool {
	switch o {
	case OutcomeFull, OutcomeImplementationOnly, OutcomeCachedFull, OutcomeConditionalFull, OutcomeConditionalEventOnly:
		return true
	default:
		return false
	}
}

// Conditional reports whether the member is emitted behind a build constraint.
func (o Outcome) Conditional() bool {
	return o == OutcomeConditionalFull || o == OutcomeConditionalEventOnly
}

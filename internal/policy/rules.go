package policy

import (
	"go/types"
	"path"
)

// AnyKind matches members of every kind in a Rule.
const AnyKind MemberKind = -1

// Rule assigns an outcome to members whose kind, declaring type name and
// member name match. Type and Name are path.Match globs; empty matches all.
// A rule of AnyKind skips members whose kind its outcome does not apply to.
type Rule struct {
	Kind    MemberKind
	Type    string
	Name    string
	Outcome Outcome
}

func (r Rule) matches(kind MemberKind, declaring types.Type, member types.Object) bool {
	if r.Kind == AnyKind {
		if !Supports(kind, r.Outcome) {
			return false
		}
	} else if r.Kind != kind {
		return false
	}

	return glob(r.Type, declaringName(declaring)) && glob(r.Name, member.Name())
}

// FromRules builds a Policy whose callbacks apply the first matching rule.
// Members no rule matches are generated in full.
func FromRules(rules []Rule) Policy {
	if len(rules) == 0 {
		return Policy{}
	}

	forKind := func(kind MemberKind) Callback {
		return func(declaring types.Type, member types.Object) Outcome {
			for _, r := range rules {
				if r.matches(kind, declaring, member) {
					return r.Outcome
				}
			}

			return OutcomeFull
		}
	}

	return Policy{
		Property:    forKind(MemberProperty),
		Operation:   forKind(MemberOperation),
		Event:       forKind(MemberEvent),
		Constructor: forKind(MemberConstructor),
	}
}

func declaringName(t types.Type) string {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	if n, ok := types.Unalias(t).(*types.Named); ok {
		return n.Obj().Name()
	}

	return types.TypeString(t, nil)
}

func glob(pattern, name string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	ok, err := path.Match(pattern, name)

	return err == nil && ok
}

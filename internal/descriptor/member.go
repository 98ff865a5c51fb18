package descriptor

import (
	"go/types"
	"strings"

	"facade-generator/internal/policy"
)

// Param is one parameter or result of an operation or callback.
type Param struct {
	Name string
	Type types.Type
	// Desc is the descriptor of Type.
	Desc Descriptor
}

// Member is a property, operation, event or constructor of a capability.
type Member struct {
	Kind policy.MemberKind
	Name string
	// Object is the foreign field, method or function. Nil for synthesized members.
	Object types.Object

	// Type and Desc describe a property or the element of an event channel.
	Type types.Type
	Desc Descriptor

	Params   []*Param
	Results  []*Param
	Variadic bool

	Outcome policy.Outcome
	// DeclaringInterface is the first implemented capability interface
	// declaring a member with the same signature key.
	DeclaringInterface *Capability
	// Shadows is true when a base declares a member with this name but a
	// different signature.
	Shadows bool
	// Settable is true for properties that get a setter.
	Settable bool
	// Synthesized is true for strongly typed members added by legacy inference.
	Synthesized bool
	// Loose is the weakly typed member a synthesized member delegates to.
	Loose *Member
	// Yields is true for a synthesized typed iteration method.
	Yields bool
}

// Key returns the member's signature key.
func (m *Member) Key() SignatureKey {
	key := SignatureKey{Kind: m.Kind, Name: m.Name, Variadic: m.Variadic}

	switch m.Kind {
	case policy.MemberProperty, policy.MemberEvent:
		key.Results = typeKey(m.Type)
	default:
		key.Params = tupleKey(m.Params)
		key.Results = tupleKey(m.Results)
	}

	return key
}

// Types returns every type the member mentions.
func (m *Member) Types() []types.Type {
	var out []types.Type
	if m.Type != nil {
		out = append(out, m.Type)
	}
	for _, p := range m.Params {
		out = append(out, p.Type)
	}
	for _, r := range m.Results {
		out = append(out, r.Type)
	}

	return out
}

// Descriptors returns the descriptors of every type the member mentions.
func (m *Member) Descriptors() []Descriptor {
	var out []Descriptor
	if m.Desc != nil {
		out = append(out, m.Desc)
	}
	for _, p := range m.Params {
		out = append(out, p.Desc)
	}
	for _, r := range m.Results {
		out = append(out, r.Desc)
	}

	return out
}

// SignatureKey identifies a member by kind, name and canonical types.
// Two members with equal keys are the same member for interface linkage.
type SignatureKey struct {
	Kind     policy.MemberKind
	Name     string
	Params   string
	Results  string
	Variadic bool
}

// String returns the key in a Go-like form, e.g. "operation Add(int) (bool)".
func (k SignatureKey) String() string {
	return k.Kind.String() + " " + k.Name + "(" + k.Params + ") (" + k.Results + ")"
}

func tupleKey(ps []*Param) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = typeKey(p.Type)
	}

	return strings.Join(parts, ", ")
}

func typeKey(t types.Type) string {
	if t == nil {
		return ""
	}

	return types.TypeString(t, func(p *types.Package) string { return p.Path() })
}

// ParamsOf converts a go/types tuple into params without descriptors.
func ParamsOf(t *types.Tuple) []*Param {
	if t == nil {
		return nil
	}

	out := make([]*Param, t.Len())
	for i := range t.Len() {
		v := t.At(i)
		out[i] = &Param{Name: v.Name(), Type: v.Type()}
	}

	return out
}

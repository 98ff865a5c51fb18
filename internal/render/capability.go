package render

import (
	"go/types"
	"strings"

	"facade-generator/internal/common"
	"facade-generator/internal/descriptor"
	"facade-generator/internal/policy"
)

// capability writes the interface, the adapter and the conversion helpers of c.
func (f *file) capability(c *descriptor.Capability) {
	raw := f.rawType(c)
	conv := conversionNames(c)

	f.capabilityInterface(c)
	f.adapterType(c, raw)
	f.adapterConversions(c, raw, conv)
	f.capabilityHelpers(c, raw)
	if !c.Interface {
		f.valueConverter(c, conv)
	}

	for _, m := range c.Members {
		if m.Outcome.Implemented() {
			f.member(c, m)
		}
	}
	for _, ctor := range c.Constructors {
		if ctor.Outcome.Implemented() {
			f.constructor(c, ctor)
		}
	}
}

// rawType is the foreign type an adapter of c holds.
func (f *file) rawType(c *descriptor.Capability) string {
	if c.Interface {
		return f.typ(c.Named)
	}

	return "*" + f.typ(c.Named)
}

// conversion names the Wrap and Unwrap methods of an adapter.
type conversion struct {
	wrap, unwrap string
}

// conversionNames avoids member names anywhere in the base chain, since
// adapter methods shadow promoted ones.
func conversionNames(c *descriptor.Capability) conversion {
	taken := make(map[string]bool)
	for _, b := range c.Chain() {
		for _, m := range b.Members {
			taken[m.Name] = true
			if m.Settable {
				taken["Set"+m.Name] = true
			}
		}
	}

	if taken["Wrap"] || taken["Unwrap"] {
		return conversion{wrap: "WrapForeign", unwrap: "UnwrapForeign"}
	}

	return conversion{wrap: "Wrap", unwrap: "Unwrap"}
}

// shadowing reports whether c redeclares a base member with another signature.
// Such a capability cannot embed its base interface.
func shadowing(c *descriptor.Capability) bool {
	for _, m := range c.Members {
		if m.Shadows {
			return true
		}
	}

	return false
}

// extends reports whether the capability interface of sub embeds that of c.
func extends(sub, c *descriptor.Capability) bool {
	if sub.Base == c && !shadowing(sub) {
		return true
	}
	for _, i := range sub.Implements {
		if i == c {
			return true
		}
	}

	return false
}

func embeds(c *descriptor.Capability) []string {
	var out []string
	if c.Base != nil && !shadowing(c) {
		out = append(out, c.Base.PublicName())
	}
	for _, i := range c.Implements {
		out = common.AppendUnique(out, i.PublicName())
	}

	return out
}

func (f *file) capabilityInterface(c *descriptor.Capability) {
	f.p("// %s is the capability of %s.", c.PublicName(), f.typ(c.Named))
	f.p("type %s interface {", c.PublicName())

	for _, name := range embeds(c) {
		f.p("%s", name)
	}

	declared := make(map[string]bool)
	for _, m := range c.Members {
		declared[m.Name] = true
		if !m.Outcome.Declared() || m.DeclaringInterface != nil {
			continue
		}
		f.declare(m)
	}

	if c.Base != nil && shadowing(c) {
		for _, b := range c.Chain()[1:] {
			for _, m := range b.Members {
				if !m.Outcome.Declared() || declared[m.Name] {
					continue
				}
				declared[m.Name] = true
				f.declare(m)
			}
		}
	}

	f.p("}")
	f.p("")
}

// declare writes the method specs of m inside an interface.
func (f *file) declare(m *descriptor.Member) {
	if m.Shadows {
		f.p("// %s shadows a base member with a different signature.", m.Name)
	}
	if m.Outcome.Conditional() {
		f.p("//facade:conditional")
	}

	switch m.Kind {
	case policy.MemberProperty:
		t := f.abs(m.Type, m.Desc)
		f.p("%s() %s", m.Name, t)
		if m.Settable {
			f.p("Set%s(v %s)", m.Name, t)
		}
	case policy.MemberEvent:
		f.p("%s() <-chan %s", m.Name, f.abs(m.Type, m.Desc))
	default:
		f.p("%s%s", m.Name, f.methodSignature(m))
	}
}

func (f *file) methodSignature(m *descriptor.Member) signature {
	if m.Yields {
		r := m.Results[0]
		return signature{results: f.imports.add("iter", "iter") + ".Seq[" + f.abs(r.Type, r.Desc) + "]"}
	}

	return f.signature(toForeign, m.Params, m.Results, m.Variadic, mentions(m.Params, m.Results))
}

func (f *file) adapterType(c *descriptor.Capability, raw string) {
	f.p("// %s adapts %s to %s.", c.InternalName(), raw, c.PublicName())
	f.p("type %s struct {", c.InternalName())
	if c.Base != nil {
		f.p("*%s", c.Base.InternalName())
	}
	f.p("raw %s", raw)
	for _, m := range c.Members {
		if cached(m) {
			f.p("%s %s", cacheField(m), f.abs(m.Type, m.Desc))
			f.p("%sCached bool", common.LowerFirst(m.Name))
		}
	}
	f.p("}")
	f.p("")
}

func cached(m *descriptor.Member) bool {
	return m.Kind == policy.MemberProperty && m.Outcome == policy.OutcomeCachedFull
}

func cacheField(m *descriptor.Member) string {
	return common.LowerFirst(m.Name) + "Cache"
}

// baseExpr returns the value the embedded base adapter wraps.
func baseExpr(c *descriptor.Capability) string {
	switch {
	case c.Interface || c.BaseField == "":
		return "raw"
	case c.Base.Interface || c.BaseByPointer:
		return "raw." + c.BaseField
	default:
		return "&raw." + c.BaseField
	}
}

func (f *file) adapterConversions(c *descriptor.Capability, raw string, conv conversion) {
	name := c.InternalName()

	f.p("// %s returns an adapter over raw, or nil when raw is nil.", conv.wrap)
	f.p("func (*%s) %s(raw %s) *%s {", name, conv.wrap, raw, name)
	f.p("if raw == nil {")
	f.p("return nil")
	f.p("}")
	if c.Base != nil {
		f.p("return &%s{%s: new(%s).%s(%s), raw: raw}",
			name, c.Base.InternalName(), c.Base.InternalName(), conversionNames(c.Base).wrap, baseExpr(c))
	} else {
		f.p("return &%s{raw: raw}", name)
	}
	f.p("}")
	f.p("")

	f.p("// %s returns the foreign value.", conv.unwrap)
	f.p("func (a *%s) %s() %s {", name, conv.unwrap, raw)
	f.p("if a == nil {")
	f.p("return nil")
	f.p("}")
	f.p("return a.raw")
	f.p("}")
	f.p("")

	f.p("func (a *%s) foreignValue() any {", name)
	f.p("if a == nil {")
	f.p("return nil")
	f.p("}")
	f.p("return a.raw")
	f.p("}")
	f.p("")

	if !c.Interface {
		f.p("func (a *%s) as%s() *%s { return a }", name, name, name)
		f.p("")
	}
}

// capabilityHelpers writes the package-level wrap and unwrap functions.
// Wrapping an interface value narrows to the most specific capability.
func (f *file) capabilityHelpers(c *descriptor.Capability, raw string) {
	pub, name := c.PublicName(), c.InternalName()
	conv := conversionNames(c)

	f.p("func wrap%s(raw %s) %s {", pub, raw, pub)
	narrow := f.narrowing(c)
	if len(narrow) == 0 {
		f.p("if raw == nil {")
		f.p("return nil")
		f.p("}")
	} else {
		f.p("switch v := raw.(type) {")
		f.p("case nil:")
		f.p("return nil")
		for _, sub := range narrow {
			f.p("case %s:", f.rawType(sub))
			f.p("return wrap%s(v)", sub.PublicName())
		}
		f.p("}")
	}
	f.p("return new(%s).%s(raw)", name, conv.wrap)
	f.p("}")
	f.p("")

	f.p("func unwrap%s(v %s) %s {", pub, pub, raw)
	f.p("if v == nil {")
	f.p("return nil")
	f.p("}")
	if c.Interface {
		f.p("if a, ok := v.(interface{ foreignValue() any }); ok {")
		f.p("if raw, ok := a.foreignValue().(%s); ok {", raw)
		f.p("return raw")
		f.p("}")
		f.p("}")
	} else {
		f.p("if a, ok := v.(interface{ as%s() *%s }); ok {", name, name)
		f.p("return a.as%s().%s()", name, conv.unwrap)
		f.p("}")
	}
	f.p("return %s.Unwrap[%s, *%s](v)", f.adapt(), raw, name)
	f.p("}")
	f.p("")
}

// narrowing returns the direct subtypes an interface value may be narrowed
// to, concrete types first.
func (f *file) narrowing(c *descriptor.Capability) []*descriptor.Capability {
	if !c.Interface {
		return nil
	}

	var concrete, ifaces []*descriptor.Capability
	for _, sub := range c.DirectSubtypes {
		if !extends(sub, c) {
			continue
		}
		if sub.Interface {
			ifaces = append(ifaces, sub)
		} else {
			concrete = append(concrete, sub)
		}
	}

	return append(concrete, ifaces...)
}

func (f *file) valueConverter(c *descriptor.Capability, conv conversion) {
	pub, name, value := c.PublicName(), c.InternalName(), c.ValueName
	t := f.typ(c.Named)

	f.p("// %s converts %s values held by collections.", value, t)
	f.p("type %s struct {", value)
	f.p("*%s", name)
	f.p("}")
	f.p("")
	f.p("// %s returns a converter over a copy of raw.", conv.wrap)
	f.p("func (%s) %s(raw %s) %s {", value, conv.wrap, t, value)
	f.p("return %s{new(%s).%s(&raw)}", value, name, conv.wrap)
	f.p("}")
	f.p("")
	f.p("// %s returns a copy of the foreign value.", conv.unwrap)
	f.p("func (v %s) %s() %s {", value, conv.unwrap, t)
	f.p("if p := v.%s.%s(); p != nil {", name, conv.unwrap)
	f.p("return *p")
	f.p("}")
	f.p("var zero %s", t)
	f.p("return zero")
	f.p("}")
	f.p("")

	f.p("func wrap%sValue(raw %s) %s {", pub, t, pub)
	f.p("return new(%s).%s(&raw)", name, conv.wrap)
	f.p("}")
	f.p("")
	f.p("func unwrap%sValue(v %s) %s {", pub, pub, t)
	f.p("if p := unwrap%s(v); p != nil {", pub)
	f.p("return *p")
	f.p("}")
	f.p("var zero %s", t)
	f.p("return zero")
	f.p("}")
	f.p("")
}

// member writes the adapter implementation of m.
func (f *file) member(c *descriptor.Capability, m *descriptor.Member) {
	if m.Shadows {
		f.p("// %s shadows a base member with a different signature.", m.Name)
	}
	if m.Outcome.Conditional() {
		f.p("//facade:conditional")
	}

	switch {
	case m.Kind == policy.MemberProperty:
		f.property(c, m)
	case m.Kind == policy.MemberEvent:
		f.event(c, m)
	case m.Yields:
		f.iteration(c, m)
	case m.Synthesized:
		f.synthesized(c, m)
	default:
		sig := f.methodSignature(m)
		f.p("func (a *%s) %s%s {", c.InternalName(), m.Name, sig)
		f.forward(toForeign, "a.raw."+m.Name, sig, m.Params, m.Results, m.Variadic)
		f.p("}")
	}
	f.p("")
}

func (f *file) property(c *descriptor.Capability, m *descriptor.Member) {
	t := f.abs(m.Type, m.Desc)

	field := "a.raw." + m.Name
	get := f.wrap(field, m.Type, m.Desc)
	if byValue(m.Type, m.Desc) {
		get = "wrap" + m.Desc.PublicName() + "(&" + field + ")"
	}

	f.p("func (a *%s) %s() %s {", c.InternalName(), m.Name, t)
	if cached(m) {
		flag := common.LowerFirst(m.Name) + "Cached"
		f.p("if !a.%s {", flag)
		f.p("a.%s = %s", cacheField(m), get)
		f.p("a.%s = true", flag)
		f.p("}")
		f.p("return a.%s", cacheField(m))
	} else {
		f.p("return %s", get)
	}
	f.p("}")

	if !m.Settable {
		return
	}

	f.p("")
	f.p("func (a *%s) Set%s(v %s) {", c.InternalName(), m.Name, t)
	f.p("%s = %s", field, f.unwrap("v", m.Type, m.Desc))
	if cached(m) {
		f.p("a.%sCached = false", common.LowerFirst(m.Name))
	}
	f.p("}")
}

// event bridges the foreign channel. Elements that need wrapping are
// converted by a goroutine that ends when the foreign channel is closed.
func (f *file) event(c *descriptor.Capability, m *descriptor.Member) {
	t := f.abs(m.Type, m.Desc)

	f.p("func (a *%s) %s() <-chan %s {", c.InternalName(), m.Name, t)
	if !descriptor.NeedsWrapping(m.Desc) {
		f.p("return a.raw.%s", m.Name)
		f.p("}")
		return
	}

	f.p("src := a.raw.%s", m.Name)
	f.p("if src == nil {")
	f.p("return nil")
	f.p("}")
	f.p("out := make(chan %s)", t)
	f.p("go func() {")
	f.p("defer close(out)")
	f.p("for v := range src {")
	f.p("out <- %s", f.wrap("v", m.Type, m.Desc))
	f.p("}")
	f.p("}()")
	f.p("return out")
	f.p("}")
}

// iteration writes the typed All of a legacy container over its untyped
// iteration method.
func (f *file) iteration(c *descriptor.Capability, m *descriptor.Member) {
	r := m.Results[0]
	t := f.abs(r.Type, r.Desc)
	elem := f.typ(r.Type)

	f.p("func (a *%s) %s() %s.Seq[%s] {", c.InternalName(), m.Name, f.imports.add("iter", "iter"), t)
	f.p("return func(yield func(%s) bool) {", t)
	if len(m.Loose.Params) == 0 {
		f.p("for v := range a.raw.%s() {", m.Loose.Name)
		f.p("r, _ := v.(%s)", elem)
		f.p("if !yield(%s) {", f.wrap("r", r.Type, r.Desc))
		f.p("return")
		f.p("}")
		f.p("}")
	} else {
		f.p("a.raw.%s(func(v any) bool {", m.Loose.Name)
		f.p("r, _ := v.(%s)", elem)
		f.p("return yield(%s)", f.wrap("r", r.Type, r.Desc))
		f.p("})")
	}
	f.p("}")
	f.p("}")
}

// synthesized writes a typed member delegating to its loose counterpart.
func (f *file) synthesized(c *descriptor.Capability, m *descriptor.Member) {
	sig := f.methodSignature(m)
	f.p("func (a *%s) %s%s {", c.InternalName(), m.Name, sig)

	args := make([]string, len(m.Params))
	for i, p := range m.Params {
		args[i] = f.unwrap(sig.names[i], p.Type, p.Desc)
	}
	call := "a.raw." + m.Loose.Name + "(" + strings.Join(args, ", ") + ")"

	switch {
	case len(m.Results) == 0:
		f.p("%s", call)
	case looseResult(m.Loose):
		r := m.Results[0]
		f.p("r, _ := %s.(%s)", call, f.typ(r.Type))
		f.p("return %s", f.wrap("r", r.Type, r.Desc))
	default:
		f.p("return %s", call)
	}
	f.p("}")
}

// looseResult reports whether a loose member returns a single untyped value.
func looseResult(m *descriptor.Member) bool {
	if m == nil || len(m.Results) != 1 {
		return false
	}
	iface, ok := m.Results[0].Type.Underlying().(*types.Interface)

	return ok && iface.Empty()
}

func (f *file) constructor(c *descriptor.Capability, m *descriptor.Member) {
	if m.Outcome.Conditional() {
		f.p("//facade:conditional")
	}

	fn := m.Object.(*types.Func)
	name := strings.Replace(m.Name, c.Named.Obj().Name(), c.PublicName(), 1)
	callee := f.imports.qualifier(fn.Pkg()) + "." + fn.Name()

	sig := f.signature(toForeign, m.Params, m.Results, m.Variadic, mentions(m.Params, m.Results))
	f.p("// %s calls %s.", name, callee)
	f.p("func %s%s {", name, sig)
	f.forward(toForeign, callee, sig, m.Params, m.Results, m.Variadic)
	f.p("}")
	f.p("")
}

package render

import (
	"go/types"

	"facade-generator/internal/common"
	"facade-generator/internal/descriptor"
)

// backing is how a container's foreign value is held.
type backing int

const (
	// backingSlice is a slice or a named slice type.
	backingSlice backing = iota
	// backingArray is a fixed-size array.
	backingArray
	// backingSeq is an iter.Seq.
	backingSeq
	// backingMap is a Go map or a named map type.
	backingMap
	// backingStructural is a foreign type whose methods satisfy an adapt contract.
	backingStructural
)

func backingOf(t types.Type) backing {
	switch t.Underlying().(type) {
	case *types.Slice:
		return backingSlice
	case *types.Array:
		return backingArray
	case *types.Signature:
		return backingSeq
	case *types.Map:
		return backingMap
	default:
		return backingStructural
	}
}

// container writes the alias, the converter and the helpers of a collection.
func (f *file) container(c *descriptor.Container) {
	pub := c.PublicName()
	raw := f.typ(c.Identity())
	args := f.typeArgs(c.ElementType, c.Element)
	elem := f.typ(c.ElementType)
	adapt := f.adapt()
	kind := backingOf(c.Identity())

	f.p("// %s is a %s of %s backed by %s.", pub, common.LowerFirst(c.Shape.Contract()), f.abs(c.ElementType, c.Element), raw)
	f.p("type %s = %s.%s[%s]", pub, adapt, c.Shape.Contract(), f.abs(c.ElementType, c.Element))
	f.p("")
	f.converterType(c, raw, nillable(c.Identity()))

	f.p("func wrap%s(raw %s) %s {", pub, raw, pub)
	if nillable(c.Identity()) {
		f.p("if raw == nil {")
		f.p("return nil")
		f.p("}")
	}
	switch kind {
	case backingSlice:
		f.p("return %s.NewArray[%s](raw)", adapt, args)
	case backingArray:
		f.p("return %s.NewArray[%s](raw[:])", adapt, args)
	case backingSeq:
		f.p("return %s.NewSequence[%s](%s.SeqFunc[%s](raw))", adapt, args, adapt, elem)
	default:
		f.p("return %s.New%s[%s](raw)", adapt, c.Shape.Contract(), args)
	}
	f.p("}")
	f.p("")

	f.p("func unwrap%s(v %s) %s {", pub, pub, raw)
	f.p("if c, ok := v.(*%s); ok && c != nil {", c.InternalName())
	f.p("v = c.%s", pub)
	f.p("}")
	switch kind {
	case backingSlice, backingArray:
		f.p("items, err := %s.RawSlice[%s](v)", adapt, args)
		f.p("if err != nil {")
		f.p("panic(err)")
		f.p("}")
		if kind == backingArray {
			f.p("var out %s", raw)
			f.p("copy(out[:], items)")
			f.p("return out")
		} else {
			f.p("return items")
		}
	case backingSeq:
		f.p("return %s.RawSeq[%s](v)", adapt, args)
	default:
		f.structuralUnwrap(raw, nillable(c.Identity()))
	}
	f.p("}")
	f.p("")
}

// mapping writes the alias, the converter and the helpers of a keyed collection.
func (f *file) mapping(m *descriptor.Map) {
	pub := m.PublicName()
	raw := f.typ(m.Identity())
	key := f.typ(m.KeyType)
	args := key + ", " + f.typeArgs(m.ValueType, m.Value)
	adapt := f.adapt()
	kind := backingOf(m.Identity())

	f.p("// %s is a %s from %s to %s backed by %s.", pub, common.LowerFirst(m.Shape.Contract()), key, f.abs(m.ValueType, m.Value), raw)
	f.p("type %s = %s.%s[%s, %s]", pub, adapt, m.Shape.Contract(), key, f.abs(m.ValueType, m.Value))
	f.p("")
	f.converterType(m, raw, nillable(m.Identity()))

	f.p("func wrap%s(raw %s) %s {", pub, raw, pub)
	if nillable(m.Identity()) {
		f.p("if raw == nil {")
		f.p("return nil")
		f.p("}")
	}
	if kind == backingMap {
		f.p("return %s.New%s[%s](%s.MapOf[%s, %s](raw))", adapt, m.Shape.Contract(), args, adapt, key, f.typ(m.ValueType))
	} else {
		f.p("return %s.New%s[%s](raw)", adapt, m.Shape.Contract(), args)
	}
	f.p("}")
	f.p("")

	f.p("func unwrap%s(v %s) %s {", pub, pub, raw)
	f.p("if c, ok := v.(*%s); ok && c != nil {", m.InternalName())
	f.p("v = c.%s", pub)
	f.p("}")
	if kind == backingMap {
		f.p("items, err := %s.RawMap[%s](v)", adapt, args)
		f.p("if err != nil {")
		f.p("panic(err)")
		f.p("}")
		f.p("return items")
	} else {
		f.structuralUnwrap(raw, nillable(m.Identity()))
	}
	f.p("}")
	f.p("")
}

// converterType writes the type the adapt runtime uses for collections
// nested inside other collections.
func (f *file) converterType(d descriptor.Descriptor, raw string, nilable bool) {
	name, pub := d.InternalName(), d.PublicName()

	f.p("// %s converts %s for the adapt runtime.", name, raw)
	f.p("type %s struct {", name)
	f.p("%s", pub)
	f.p("}")
	f.p("")
	f.p("// Wrap returns a converter over raw.")
	f.p("func (*%s) Wrap(raw %s) *%s {", name, raw, name)
	if nilable {
		f.p("if raw == nil {")
		f.p("return nil")
		f.p("}")
	}
	f.p("return &%s{wrap%s(raw)}", name, pub)
	f.p("}")
	f.p("")
	f.p("// Unwrap returns the foreign value.")
	f.p("func (c *%s) Unwrap() %s {", name, raw)
	f.p("if c == nil {")
	f.p("var zero %s", raw)
	f.p("return zero")
	f.p("}")
	f.p("return unwrap%s(c.%s)", pub, pub)
	f.p("}")
	f.p("")
}

// structuralUnwrap returns the foreign value behind a standard adapter.
// Anything else cannot be turned back into the foreign type.
func (f *file) structuralUnwrap(raw string, nilable bool) {
	if nilable {
		f.p("if v == nil {")
		f.p("return nil")
		f.p("}")
	}
	f.p("if backing, ok := %s.RawBacking(v); ok {", f.adapt())
	f.p("if r, ok := backing.(%s); ok {", raw)
	f.p("return r")
	f.p("}")
	f.p("}")
	f.p("panic(&%s.ElementError{Value: v, Wrapped: %s.TypeFor[%s]()})", f.adapt(), f.imports.add("reflect", "reflect"), raw)
}

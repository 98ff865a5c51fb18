package render

import (
	"go/types"

	"facade-generator/internal/descriptor"
)

// enumeration writes a named type over the same basic type with one
// constant per foreign constant.
func (f *file) enumeration(e *descriptor.Enumeration) {
	pub := e.PublicName()
	raw := f.typ(e.Named)

	f.p("// %s mirrors %s.", pub, raw)
	f.p("type %s %s", pub, basicName(e.Underlying()))
	f.p("")

	if len(e.Constants) > 0 {
		f.p("const (")
		for _, k := range e.Constants {
			f.p("%s %s = %s(%s.%s)", k.Name, pub, pub, f.imports.qualifier(k.Object.Pkg()), k.Object.Name())
		}
		f.p(")")
		f.p("")
	}

	f.p("// %s lists every declared %s.", e.InternalName(), pub)
	f.p("var %s = []%s{", e.InternalName(), pub)
	for _, k := range e.Constants {
		f.p("%s,", k.Name)
	}
	f.p("}")
	f.p("")

	f.p("// Wrap converts a foreign value.")
	f.p("func (%s) Wrap(raw %s) %s {", pub, raw, pub)
	f.p("return %s(raw)", pub)
	f.p("}")
	f.p("")
	f.p("// Unwrap returns the foreign value.")
	f.p("func (e %s) Unwrap() %s {", pub, raw)
	f.p("return %s(e)", raw)
	f.p("}")
	f.p("")
}

func basicName(b *types.Basic) string {
	if b == nil {
		return "int"
	}

	return b.Name()
}

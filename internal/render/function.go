package render

import (
	"facade-generator/internal/descriptor"
)

// function writes a callback type over abstractions and the conversions in
// both directions.
func (f *file) function(fn *descriptor.FunctionReference) {
	pub, raw := fn.PublicName(), fn.InternalName()
	names := mentions(fn.Params, fn.Results)

	f.p("type %s = %s", raw, f.typ(fn.Identity()))
	f.p("")

	abs := f.signature(toForeign, fn.Params, fn.Results, fn.Variadic, names)
	f.p("// %s mirrors %s.", pub, f.typ(fn.Identity()))
	f.p("type %s func%s", pub, abs)
	f.p("")

	f.p("// Wrap converts a foreign callback.")
	f.p("func (%s) Wrap(raw %s) %s {", pub, raw, pub)
	f.p("return wrap%s(raw)", pub)
	f.p("}")
	f.p("")
	f.p("// Unwrap returns a foreign callback calling fn.")
	f.p("func (fn %s) Unwrap() %s {", pub, raw)
	f.p("return unwrap%s(fn)", pub)
	f.p("}")
	f.p("")

	f.p("func wrap%s(raw %s) %s {", pub, raw, pub)
	f.p("if raw == nil {")
	f.p("return nil")
	f.p("}")
	f.p("return func%s {", abs)
	f.forward(toForeign, "raw", abs, fn.Params, fn.Results, fn.Variadic)
	f.p("}")
	f.p("}")
	f.p("")

	foreign := f.signature(fromForeign, fn.Params, fn.Results, fn.Variadic, names)
	f.p("func unwrap%s(fn %s) %s {", pub, pub, raw)
	f.p("if fn == nil {")
	f.p("return nil")
	f.p("}")
	f.p("return func%s {", foreign)
	f.forward(fromForeign, "fn", foreign, fn.Params, fn.Results, fn.Variadic)
	f.p("}")
	f.p("}")
	f.p("")
}

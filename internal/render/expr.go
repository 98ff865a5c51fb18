package render

import (
	"go/types"
	"regexp"
	"strconv"
	"strings"

	"facade-generator/internal/descriptor"
	"facade-generator/internal/naming"
)

// typ returns the foreign type expression of t, importing what it mentions.
func (f *file) typ(t types.Type) string {
	return types.TypeString(t, f.imports.qualifier)
}

// abs returns the generated type of a value whose foreign type is t.
func (f *file) abs(t types.Type, d descriptor.Descriptor) string {
	if !descriptor.NeedsWrapping(d) {
		return f.typ(t)
	}

	return d.PublicName()
}

// byValue reports whether t is a struct capability held by value.
func byValue(t types.Type, d descriptor.Descriptor) bool {
	c, ok := d.(*descriptor.Capability)
	return ok && !c.Interface && types.Identical(t, c.Named)
}

// wrap returns the expression converting the foreign value x into its abstraction.
func (f *file) wrap(x string, t types.Type, d descriptor.Descriptor) string {
	if !descriptor.NeedsWrapping(d) {
		return x
	}
	if d.Kind() == descriptor.KindEnumeration {
		return d.PublicName() + "(" + x + ")"
	}
	if byValue(t, d) {
		return "wrap" + d.PublicName() + "Value(" + x + ")"
	}

	return "wrap" + d.PublicName() + "(" + x + ")"
}

// unwrap returns the expression converting the abstraction x back to t.
func (f *file) unwrap(x string, t types.Type, d descriptor.Descriptor) string {
	if !descriptor.NeedsWrapping(d) {
		return x
	}
	if d.Kind() == descriptor.KindEnumeration {
		return f.typ(t) + "(" + x + ")"
	}
	if byValue(t, d) {
		return "unwrap" + d.PublicName() + "Value(" + x + ")"
	}

	return "unwrap" + d.PublicName() + "(" + x + ")"
}

// converter returns the type the adapt runtime converts elements of type t with.
func (f *file) converter(t types.Type, d descriptor.Descriptor) string {
	switch v := d.(type) {
	case *descriptor.Capability:
		if byValue(t, v) {
			return v.ValueName
		}
		return "*" + v.InternalName()
	case *descriptor.Enumeration, *descriptor.FunctionReference:
		return d.PublicName()
	default:
		return "*" + d.InternalName()
	}
}

// typeArgs returns the [R, W, A] instantiation for elements of type t.
func (f *file) typeArgs(t types.Type, d descriptor.Descriptor) string {
	return f.typ(t) + ", " + f.converter(t, d) + ", " + f.abs(t, d)
}

func nillable(t types.Type) bool {
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Interface, *types.Map, *types.Slice, *types.Signature, *types.Chan:
		return true
	default:
		return false
	}
}

// variadicElem returns the element type and descriptor of a variadic parameter.
func variadicElem(p *descriptor.Param) (types.Type, descriptor.Descriptor) {
	var elem types.Type = p.Type
	if s, ok := p.Type.Underlying().(*types.Slice); ok {
		elem = s.Elem()
	}
	if c, ok := p.Desc.(*descriptor.Container); ok {
		return elem, c.Element
	}

	return elem, nil
}

var resultName = regexp.MustCompile(`^r[0-9]+$`)

// reservedLocals are the names generated bodies declare or close over.
var reservedLocals = map[string]bool{"fn": true, "rawArgs": true}

// paramNames returns usable parameter names that shadow nothing the body uses.
func (f *file) paramNames(ps []*descriptor.Param, mentioned map[string]struct{}) []string {
	out := make([]string, len(ps))
	used := make(map[string]bool, len(ps))

	for i, p := range ps {
		name := naming.Param(p.Name, i)
		_, pkg := mentioned[name]
		if pkg || f.imports.has(name) || types.Universe.Lookup(name) != nil ||
			resultName.MatchString(name) || reservedLocals[name] || used[name] {
			name = "p" + strconv.Itoa(i)
		}
		used[name] = true
		out[i] = name
	}

	return out
}

// direction says which side of the boundary a forwarded call starts on.
type direction int

const (
	// toForeign forwards an abstraction call to a foreign callee.
	toForeign direction = iota
	// fromForeign forwards a foreign call to an abstraction callee.
	fromForeign
)

// sideType returns the parameter or result type as seen by the caller side of dir.
func (f *file) sideType(dir direction, t types.Type, desc descriptor.Descriptor) string {
	if dir == toForeign {
		return f.abs(t, desc)
	}

	return f.typ(t)
}

// arg converts a caller value into the callee representation.
func (f *file) arg(dir direction, x string, t types.Type, desc descriptor.Descriptor) string {
	if dir == toForeign {
		return f.unwrap(x, t, desc)
	}

	return f.wrap(x, t, desc)
}

// ret converts a callee result back into the caller representation.
func (f *file) ret(dir direction, x string, t types.Type, desc descriptor.Descriptor) string {
	if dir == toForeign {
		return f.wrap(x, t, desc)
	}

	return f.unwrap(x, t, desc)
}

// signature is a rendered parameter and result list.
type signature struct {
	names   []string
	params  string
	results string
}

func (s signature) String() string {
	if s.results == "" {
		return "(" + s.params + ")"
	}

	return "(" + s.params + ") " + s.results
}

// signature renders ps and rs as seen from the caller side of dir.
func (f *file) signature(dir direction, ps, rs []*descriptor.Param, variadic bool, mentioned map[string]struct{}) signature {
	names := f.paramNames(ps, mentioned)

	params := make([]string, len(ps))
	for i, p := range ps {
		if variadic && i == len(ps)-1 {
			et, ed := variadicElem(p)
			params[i] = names[i] + " ..." + f.sideType(dir, et, ed)
			continue
		}
		params[i] = names[i] + " " + f.sideType(dir, p.Type, p.Desc)
	}

	results := make([]string, len(rs))
	for i, r := range rs {
		results[i] = f.sideType(dir, r.Type, r.Desc)
	}

	out := signature{names: names, params: strings.Join(params, ", ")}
	switch len(results) {
	case 0:
	case 1:
		out.results = results[0]
	default:
		out.results = "(" + strings.Join(results, ", ") + ")"
	}

	return out
}

// mentions returns the package names a forwarded call may refer to.
func mentions(ps, rs []*descriptor.Param) map[string]struct{} {
	var ts []types.Type
	for _, p := range ps {
		ts = append(ts, p.Type)
	}
	for _, r := range rs {
		ts = append(ts, r.Type)
	}

	return packageNames(ts...)
}

// forward writes the body of a function with the parameters named by sig
// that calls callee and converts arguments and results along dir.
func (f *file) forward(dir direction, callee string, sig signature, ps, rs []*descriptor.Param, variadic bool) {
	args := make([]string, len(ps))
	for i, p := range ps {
		if variadic && i == len(ps)-1 {
			args[i] = f.spread(dir, sig.names[i], p)
			continue
		}
		args[i] = f.arg(dir, sig.names[i], p.Type, p.Desc)
	}
	call := callee + "(" + strings.Join(args, ", ") + ")"

	if len(rs) == 0 {
		f.p("%s", call)
		return
	}

	converted := false
	for _, r := range rs {
		converted = converted || descriptor.NeedsWrapping(r.Desc)
	}
	if !converted {
		f.p("return %s", call)
		return
	}

	if len(rs) == 1 {
		f.p("return %s", f.ret(dir, call, rs[0].Type, rs[0].Desc))
		return
	}

	vars := make([]string, len(rs))
	outs := make([]string, len(rs))
	for i, r := range rs {
		vars[i] = "r" + strconv.Itoa(i)
		outs[i] = f.ret(dir, vars[i], r.Type, r.Desc)
	}
	f.p("%s := %s", strings.Join(vars, ", "), call)
	f.p("return %s", strings.Join(outs, ", "))
}

// spread converts a variadic argument and returns the expression passing it on.
func (f *file) spread(dir direction, name string, p *descriptor.Param) string {
	et, ed := variadicElem(p)
	if !descriptor.NeedsWrapping(ed) {
		return name + "..."
	}

	target := f.typ(et)
	if dir == fromForeign {
		target = f.abs(et, ed)
	}

	f.p("rawArgs := make([]%s, len(%s))", target, name)
	f.p("for i, v := range %s {", name)
	f.p("rawArgs[i] = %s", f.arg(dir, "v", et, ed))
	f.p("}")

	return "rawArgs..."
}

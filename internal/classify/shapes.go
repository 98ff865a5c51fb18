package classify

import (
	"go/types"
	"strings"

	"facade-generator/internal/descriptor"
	"facade-generator/internal/naming"
)

var errorType = types.Universe.Lookup("error").Type()

func isBuiltin(t types.Type) bool {
	switch tt := t.(type) {
	case *types.Basic:
		return true
	case *types.Tuple:
		return tt.Len() == 0
	case *types.Interface:
		return tt.Empty()
	}

	return types.Identical(t, errorType)
}

// typeName renders t the way generated code spells it, qualified by package name.
func typeName(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string { return p.Name() })
}

func isIterSeq(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil || named.Obj().Pkg().Path() != "iter" {
		return false
	}

	return named.Obj().Name() == "Seq" || named.Obj().Name() == "Seq2"
}

// seqArgs returns the type arguments of an iter.Seq or iter.Seq2.
func seqArgs(t types.Type, name string) []types.Type {
	if !isIterSeq(t) {
		return nil
	}

	named := types.Unalias(t).(*types.Named)
	if named.Obj().Name() != name {
		return nil
	}

	args := make([]types.Type, named.TypeArgs().Len())
	for i := range args {
		args[i] = named.TypeArgs().At(i)
	}

	return args
}

func typeArgsIdent(named *types.Named) string {
	var b strings.Builder
	for i := range named.TypeArgs().Len() {
		b.WriteString(naming.Ident(typeName(named.TypeArgs().At(i))))
	}

	return b.String()
}

var shapeSuffix = map[descriptor.Shape]string{
	descriptor.ShapeList:               "List",
	descriptor.ShapeSet:                "Set",
	descriptor.ShapeCollection:         "Collection",
	descriptor.ShapeSequence:           "Seq",
	descriptor.ShapeReadOnlyList:       "ReadOnlyList",
	descriptor.ShapeReadOnlyCollection: "ReadOnlyCollection",
	descriptor.ShapeMap:                "Map",
	descriptor.ShapeReadOnlyMap:        "ReadOnlyMap",
}

// classifyFallback handles maps, iter.Seq and types structurally matching
// an adapt contract. Anything else, or anything whose elements pass through
// unchanged, is Plain.
func (c *Classifier) classifyFallback(t types.Type) (descriptor.Descriptor, error) {
	if m, ok := t.Underlying().(*types.Map); ok {
		return c.classifyMap(t, descriptor.ShapeMap, m.Key(), m.Elem())
	}

	if args := seqArgs(t, "Seq"); args != nil {
		return c.classifyContainer(t, descriptor.ShapeSequence, args[0])
	}
	if isIterSeq(t) {
		return c.plain(t)
	}

	if isNamedOrPointer(t) {
		ms := c.methodsOf(t)
		if shape, key, elem, ok := ms.match(); ok {
			if shape.IsMap() {
				return c.classifyMap(t, shape, key, elem)
			}

			return c.classifyContainer(t, shape, elem)
		}
	}

	return c.plain(t)
}

func (c *Classifier) classifyContainer(t types.Type, shape descriptor.Shape, elem types.Type) (descriptor.Descriptor, error) {
	ed, err := c.Classify(elem)
	if err != nil {
		return nil, err
	}
	if !descriptor.NeedsWrapping(ed) {
		return c.plain(t)
	}
	if d, ok := c.graph.Lookup(t); ok {
		return d, nil
	}

	public := c.names.Claim(ed.PublicName() + shapeSuffix[shape])
	d := descriptor.NewContainer(t, shape, public, c.internalName(public))
	d.ElementType = elem
	d.Element = ed

	return c.register(d)
}

func (c *Classifier) classifyMap(t types.Type, shape descriptor.Shape, key, value types.Type) (descriptor.Descriptor, error) {
	kd, err := c.Classify(key)
	if err != nil {
		return nil, err
	}
	vd, err := c.Classify(value)
	if err != nil {
		return nil, err
	}
	if !descriptor.NeedsWrapping(vd) {
		return c.plain(t)
	}
	if d, ok := c.graph.Lookup(t); ok {
		return d, nil
	}

	public := c.names.Claim(naming.Ident(kd.PublicName()) + vd.PublicName() + shapeSuffix[shape])
	d := descriptor.NewMap(t, shape, public, c.internalName(public))
	d.KeyType = key
	d.Key = kd
	d.ValueType = value
	d.Value = vd

	return c.register(d)
}

// methodSet indexes the signatures callable on a value of some type.
type methodSet map[string]*types.Signature

// methodsOf returns the method set of t itself: a value type does not get
// its pointer methods, since the adapter holds the value as given.
func (c *Classifier) methodsOf(t types.Type) methodSet {
	mset := c.msets.MethodSet(t)

	ms := make(methodSet, mset.Len())
	for i := range mset.Len() {
		sel := mset.At(i)
		if sig, ok := sel.Type().(*types.Signature); ok && sel.Obj().Exported() {
			ms[sel.Obj().Name()] = sig
		}
	}

	return ms
}

func isNamedOrPointer(t types.Type) bool {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	_, ok := t.(*types.Named)

	return ok
}

var (
	tInt   = types.Typ[types.Int]
	tBool  = types.Typ[types.Bool]
	tError = errorType
)

// has reports whether the method exists with exactly these parameter and result types.
func (ms methodSet) has(name string, params []types.Type, results ...types.Type) bool {
	sig, ok := ms[name]
	if !ok || sig.Variadic() || sig.Params().Len() != len(params) || sig.Results().Len() != len(results) {
		return false
	}
	for i, p := range params {
		if !types.Identical(sig.Params().At(i).Type(), p) {
			return false
		}
	}
	for i, r := range results {
		if !types.Identical(sig.Results().At(i).Type(), r) {
			return false
		}
	}

	return true
}

// seq returns the type arguments of the iter.Seq or iter.Seq2 returned by a
// parameterless method.
func (ms methodSet) seq(name, seqName string) []types.Type {
	sig, ok := ms[name]
	if !ok || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return nil
	}

	return seqArgs(sig.Results().At(0).Type(), seqName)
}

func one(t types.Type) []types.Type { return []types.Type{t} }

func (ms methodSet) countable() bool {
	return ms.has("Len", nil, tInt)
}

func (ms methodSet) collection(elem types.Type) bool {
	return ms.countable() &&
		ms.has("Contains", one(elem), tBool) &&
		ms.has("Add", one(elem), tError) &&
		ms.has("Remove", one(elem), tBool, tError) &&
		ms.has("Clear", nil, tError)
}

func (ms methodSet) readOnlyList(elem types.Type) bool {
	return ms.countable() && ms.has("At", one(tInt), elem)
}

func (ms methodSet) list(elem types.Type) bool {
	return ms.collection(elem) &&
		ms.has("At", one(tInt), elem) &&
		ms.has("Set", []types.Type{tInt, elem}, tError) &&
		ms.has("Insert", []types.Type{tInt, elem}, tError) &&
		ms.has("RemoveAt", one(tInt), tError) &&
		ms.has("IndexOf", one(elem), tInt)
}

func (ms methodSet) set(elem types.Type) bool {
	return ms.countable() &&
		ms.has("Contains", one(elem), tBool) &&
		ms.has("Add", one(elem), tBool, tError) &&
		ms.has("Remove", one(elem), tBool, tError) &&
		ms.has("Clear", nil, tError)
}

func (ms methodSet) readOnlyMap(key, value types.Type) bool {
	keys := ms.seq("Keys", "Seq")
	values := ms.seq("Values", "Seq")

	return types.Comparable(key) &&
		ms.has("Get", one(key), value, tBool) &&
		ms.has("Len", nil, tInt) &&
		len(keys) == 1 && types.Identical(keys[0], key) &&
		len(values) == 1 && types.Identical(values[0], value) &&
		ms.has("ContainsKey", one(key), tBool)
}

func (ms methodSet) mutableMap(key, value types.Type) bool {
	return ms.readOnlyMap(key, value) &&
		ms.has("Set", []types.Type{key, value}, tError) &&
		ms.has("Delete", one(key), tBool, tError) &&
		ms.has("Clear", nil, tError)
}

// match returns the narrowest adapt contract the method set satisfies, in
// the order List, Set, Collection, Map, ReadOnlyList, ReadOnlyMap,
// ReadOnlyCollection, Sequence.
func (ms methodSet) match() (shape descriptor.Shape, key, elem types.Type, ok bool) {
	var seqElem, mapKey, mapValue types.Type
	if args := ms.seq("All", "Seq"); len(args) == 1 {
		seqElem = args[0]
	}
	if args := ms.seq("All", "Seq2"); len(args) == 2 {
		mapKey, mapValue = args[0], args[1]
	}

	switch {
	case seqElem != nil && ms.list(seqElem):
		return descriptor.ShapeList, nil, seqElem, true
	case seqElem != nil && ms.set(seqElem):
		return descriptor.ShapeSet, nil, seqElem, true
	case seqElem != nil && ms.collection(seqElem):
		return descriptor.ShapeCollection, nil, seqElem, true
	case mapKey != nil && ms.mutableMap(mapKey, mapValue):
		return descriptor.ShapeMap, mapKey, mapValue, true
	case seqElem != nil && ms.readOnlyList(seqElem):
		return descriptor.ShapeReadOnlyList, nil, seqElem, true
	case mapKey != nil && ms.readOnlyMap(mapKey, mapValue):
		return descriptor.ShapeReadOnlyMap, mapKey, mapValue, true
	case seqElem != nil && ms.countable():
		return descriptor.ShapeReadOnlyCollection, nil, seqElem, true
	case seqElem != nil:
		return descriptor.ShapeSequence, nil, seqElem, true
	}

	return 0, nil, nil, false
}

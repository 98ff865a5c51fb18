package descriptor

import (
	"go/constant"
	"go/types"
)

// Plain is an out-of-scope or builtin type. Generated code refers to it by
// its foreign type expression.
type Plain struct {
	node
}

// NewPlain returns a Plain descriptor named by expr.
func NewPlain(t types.Type, expr string) *Plain {
	return &Plain{node: newNode(t, expr, expr, StatusNotApplicable)}
}

func (*Plain) Kind() Kind { return KindPlain }

// Capability is an in-scope named struct or interface type.
type Capability struct {
	node

	// Named is the foreign type.
	Named *types.Named
	// Interface is true when the foreign type is an interface.
	Interface bool
	// ValueName names the converter used for elements held by value. Structs only.
	ValueName string
	// Base is the embedded in-scope type the capability extends.
	Base *Capability
	// BaseField is the name of the embedded field holding the base, for structs.
	BaseField string
	// BaseByPointer is true when the base is embedded as *T.
	BaseByPointer bool
	// Implements lists the in-scope capability interfaces the type satisfies.
	Implements []*Capability
	// Members are the properties, operations and events, in declaration order.
	Members []*Member
	// Constructors are package-level NewT functions.
	Constructors []*Member
	// DirectSubtypes are capabilities narrowed to by the Wrap dispatch.
	DirectSubtypes []*Capability
	// LooseContracts are the untyped container contracts found on a legacy container.
	LooseContracts []Contract
	// ElementType is the inferred element type of a legacy container.
	ElementType types.Type
	// Element is the descriptor of ElementType.
	Element Descriptor
}

// NewCapability returns a Pending capability for named.
func NewCapability(named *types.Named, public, internal string) *Capability {
	_, iface := named.Underlying().(*types.Interface)

	return &Capability{
		node:      newNode(named, public, internal, StatusPending),
		Named:     named,
		Interface: iface,
	}
}

func (*Capability) Kind() Kind { return KindCapability }

// Member returns the member with the given name.
func (c *Capability) Member(name string) (*Member, bool) {
	for _, m := range c.Members {
		if m.Name == name {
			return m, true
		}
	}

	return nil, false
}

// Chain returns c followed by its bases, nearest first. Pointer embedding
// allows base cycles; each capability appears once.
func (c *Capability) Chain() []*Capability {
	var out []*Capability

	seen := make(map[*Capability]struct{})
	for cur := c; cur != nil; cur = cur.Base {
		if _, ok := seen[cur]; ok {
			break
		}
		seen[cur] = struct{}{}
		out = append(out, cur)
	}

	return out
}

// AddSubtype records sub as a direct subtype once.
func (c *Capability) AddSubtype(sub *Capability) {
	for _, s := range c.DirectSubtypes {
		if s == sub {
			return
		}
	}

	c.DirectSubtypes = append(c.DirectSubtypes, sub)
}

// Legacy reports whether the capability is a legacy container.
func (c *Capability) Legacy() bool {
	return len(c.LooseContracts) > 0
}

// HasContract reports whether the legacy container carries contract k.
func (c *Capability) HasContract(k Contract) bool {
	for _, lc := range c.LooseContracts {
		if lc == k {
			return true
		}
	}

	return false
}

// Container is a collection whose elements need wrapping.
type Container struct {
	node

	Shape Shape
	// ElementType is the raw element type.
	ElementType types.Type
	// Element is the descriptor of ElementType.
	Element Descriptor
	// Len is the length of a fixed-size array, or -1.
	Len int64
}

// NewContainer returns a Pending container.
func NewContainer(t types.Type, shape Shape, public, internal string) *Container {
	return &Container{
		node:  newNode(t, public, internal, StatusPending),
		Shape: shape,
		Len:   -1,
	}
}

func (*Container) Kind() Kind { return KindContainer }

// Map is a keyed collection whose values need wrapping. Keys are never wrapped.
type Map struct {
	node

	Shape     Shape
	KeyType   types.Type
	Key       Descriptor
	ValueType types.Type
	Value     Descriptor
}

// NewMap returns a Pending map.
func NewMap(t types.Type, shape Shape, public, internal string) *Map {
	return &Map{
		node:  newNode(t, public, internal, StatusPending),
		Shape: shape,
	}
}

func (*Map) Kind() Kind { return KindMap }

// Constant is one declared value of an enumeration.
type Constant struct {
	Name   string
	Value  constant.Value
	Object *types.Const
}

// Enumeration mirrors a foreign named basic type with declared constants.
type Enumeration struct {
	node

	Named     *types.Named
	Constants []Constant
}

// NewEnumeration returns a Pending enumeration.
func NewEnumeration(named *types.Named, public, internal string) *Enumeration {
	return &Enumeration{
		node:  newNode(named, public, internal, StatusPending),
		Named: named,
	}
}

func (*Enumeration) Kind() Kind { return KindEnumeration }

// Underlying returns the basic type the enumeration is defined over.
func (e *Enumeration) Underlying() *types.Basic {
	b, _ := e.Named.Underlying().(*types.Basic)
	return b
}

// FunctionReference mirrors a foreign callback signature.
type FunctionReference struct {
	node

	// Named is set when the foreign func type is named.
	Named     *types.Named
	Signature *types.Signature
	Params    []*Param
	Results   []*Param
	Variadic  bool
}

// NewFunctionReference returns a Pending function reference for t.
func NewFunctionReference(t types.Type, sig *types.Signature, public, internal string) *FunctionReference {
	named, _ := t.(*types.Named)

	return &FunctionReference{
		node:      newNode(t, public, internal, StatusPending),
		Named:     named,
		Signature: sig,
		Variadic:  sig.Variadic(),
	}
}

func (*FunctionReference) Kind() Kind { return KindFunctionReference }

// NeedsWrapping reports whether values of the descriptor's type differ
// between the foreign and the generated universe.
func NeedsWrapping(d Descriptor) bool {
	return d != nil && d.Kind() != KindPlain
}

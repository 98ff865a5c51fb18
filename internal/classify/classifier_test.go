package classify

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facade-generator/internal/analyze"
	"facade-generator/internal/descriptor"
	"facade-generator/internal/fixture"
	"facade-generator/internal/policy"
)

const shapesSrc = `package shapes

import (
	"iter"

	"example.com/lib/coll"
)

type Color int

const (
	Red Color = iota
	Green
)

type Kind string

type Shape interface {
	Area() float64
}

type Named interface {
	Shape
	Name() string
}

type Base struct {
	ID int
}

type Widget struct {
	Base
	Label    string
	Color    Color
	Kind     Kind
	Parent   *Widget
	Children []*Widget
	Grid     [4]*Widget
	ByName   map[string]*Widget
	Counts   map[string]int
	Changed  chan *Widget
	Sink     chan<- int
	OnResize func(w *Widget) bool
	Tags     []string
}

func NewWidget(label string) *Widget { return &Widget{Label: label} }

func (w *Widget) Area() float64        { return 0 }
func (w *Widget) Name() string         { return w.Label }
func (w *Widget) SetLabel(l string)    {}
func (w *Widget) Walk() iter.Seq[*Widget] { return nil }

type Handler func(*Widget) error

type Registry struct {
	Boxed *coll.Box[*Widget]
	Ints  *coll.Box[int]
	Value coll.Box[*Widget]
}

type unexported struct{}
`

const collSrc = `package coll

import "iter"

type Box[T any] struct{ items []T }

func (b *Box[T]) All() iter.Seq[T]         { return nil }
func (b *Box[T]) Len() int                 { return len(b.items) }
func (b *Box[T]) Contains(v T) bool        { return false }
func (b *Box[T]) Add(v T) (bool, error)    { return true, nil }
func (b *Box[T]) Remove(v T) (bool, error) { return true, nil }
func (b *Box[T]) Clear() error             { return nil }
`

func loadShapes(t *testing.T, src string) *types.Package {
	t.Helper()

	imp := fixture.NewImporter()
	_, err := imp.Add("example.com/lib/coll", collSrc)
	require.NoError(t, err)
	pkg, err := imp.Add("example.com/foreign/shapes", src)
	require.NoError(t, err)

	return pkg
}

func newClassifier(t *testing.T, src string, config Config) (*Classifier, *types.Package) {
	t.Helper()

	pkg := loadShapes(t, src)
	u := analyze.NewUniverse(policy.NewPrefixScope("example.com/foreign"), pkg)

	return New(u, descriptor.NewGraph(), config), pkg
}

func classify(t *testing.T, c *Classifier, typ types.Type) descriptor.Descriptor {
	t.Helper()

	d, err := c.Classify(typ)
	require.NoError(t, err)
	require.NotNil(t, d)

	return d
}

func TestClassify_Builtins(t *testing.T) {
	c, _ := newClassifier(t, shapesSrc, DefaultConfig())

	tests := []struct {
		typ  types.Type
		name string
	}{
		{types.Typ[types.String], "string"},
		{types.Typ[types.UnsafePointer], "unsafe.Pointer"},
		{errorType, "error"},
		{types.NewInterfaceType(nil, nil).Complete(), "interface{}"},
		{types.NewTuple(), "()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := classify(t, c, tt.typ)
			assert.Equal(t, descriptor.KindPlain, d.Kind())
			assert.Equal(t, descriptor.StatusNotApplicable, d.Status())
			assert.Equal(t, tt.name, d.PublicName())
		})
	}
}

func TestClassify_Memoized(t *testing.T) {
	c, pkg := newClassifier(t, shapesSrc, DefaultConfig())
	widget := fixture.Type(t, pkg, "Widget")

	first := classify(t, c, widget)
	second := classify(t, c, widget)
	assert.Same(t, first, second)

	byPtr := classify(t, c, types.NewPointer(widget))
	assert.Same(t, first, byPtr, "pointers to in-scope structs are transparent")

	n := c.Graph().Len()
	classify(t, c, widget)
	assert.Equal(t, n, c.Graph().Len())
}

func TestClassify_Capability(t *testing.T) {
	c, pkg := newClassifier(t, shapesSrc, DefaultConfig())

	d := classify(t, c, fixture.Type(t, pkg, "Widget"))
	require.Equal(t, descriptor.KindCapability, d.Kind())

	widget := d.(*descriptor.Capability)
	assert.Equal(t, "Widget", widget.PublicName())
	assert.Equal(t, "WidgetAdapter", widget.InternalName())
	assert.Equal(t, "WidgetAdapterValue", widget.ValueName)
	assert.Equal(t, descriptor.StatusPending, widget.Status())
	assert.False(t, widget.Interface)

	require.NotNil(t, widget.Base)
	assert.Equal(t, "Base", widget.Base.PublicName())
	assert.Equal(t, "Base", widget.BaseField)
	assert.Contains(t, widget.Base.DirectSubtypes, widget)

	var implements []string
	for _, i := range widget.Implements {
		implements = append(implements, i.PublicName())
	}
	assert.ElementsMatch(t, []string{"Shape", "Named"}, implements)

	members := make(map[string]*descriptor.Member)
	for _, m := range widget.Members {
		members[m.Name] = m
	}

	assert.Equal(t, policy.MemberProperty, members["Label"].Kind)
	assert.False(t, members["Label"].Settable, "SetLabel exists")
	assert.True(t, members["Parent"].Settable)
	assert.Same(t, widget, members["Parent"].Desc)
	assert.Equal(t, policy.MemberEvent, members["Changed"].Kind)
	assert.Same(t, widget, members["Changed"].Desc)
	assert.NotContains(t, members, "Sink", "send-only channels are skipped")
	assert.Equal(t, policy.MemberOperation, members["Area"].Kind)
	assert.Equal(t, descriptor.KindEnumeration, members["Color"].Desc.Kind())
	assert.Equal(t, descriptor.KindPlain, members["Kind"].Desc.Kind(), "no constants, no enumeration")
	assert.Equal(t, descriptor.KindPlain, members["Tags"].Desc.Kind())
	assert.Equal(t, descriptor.KindPlain, members["Counts"].Desc.Kind())

	require.Len(t, widget.Constructors, 1)
	assert.Equal(t, "NewWidget", widget.Constructors[0].Name)
	assert.Equal(t, policy.MemberConstructor, widget.Constructors[0].Kind)
}

func TestClassify_Containers(t *testing.T) {
	c, pkg := newClassifier(t, shapesSrc, DefaultConfig())
	widget := classify(t, c, fixture.Type(t, pkg, "Widget")).(*descriptor.Capability)

	members := make(map[string]*descriptor.Member)
	for _, m := range widget.Members {
		members[m.Name] = m
	}

	children := members["Children"].Desc.(*descriptor.Container)
	assert.Equal(t, descriptor.ShapeArray, children.Shape)
	assert.Equal(t, "WidgetSlice", children.PublicName())
	assert.Equal(t, "widgetSliceAdapter", children.InternalName())
	assert.Same(t, widget, children.Element)
	assert.EqualValues(t, -1, children.Len)

	grid := members["Grid"].Desc.(*descriptor.Container)
	assert.Equal(t, "WidgetArray", grid.PublicName())
	assert.EqualValues(t, 4, grid.Len)

	byName := members["ByName"].Desc.(*descriptor.Map)
	assert.Equal(t, descriptor.ShapeMap, byName.Shape)
	assert.Equal(t, "StringWidgetMap", byName.PublicName())
	assert.Equal(t, descriptor.KindPlain, byName.Key.Kind())

	walk := members["Walk"].Results[0].Desc.(*descriptor.Container)
	assert.Equal(t, descriptor.ShapeSequence, walk.Shape)
	assert.Equal(t, "WidgetSeq", walk.PublicName())

	onResize := members["OnResize"].Desc.(*descriptor.FunctionReference)
	assert.Nil(t, onResize.Named)
	assert.Equal(t, "FuncWidgetToBool", onResize.PublicName())
	require.Len(t, onResize.Params, 1)
	assert.Same(t, widget, onResize.Params[0].Desc)
}

func TestClassify_StructuralShape(t *testing.T) {
	c, pkg := newClassifier(t, shapesSrc, DefaultConfig())
	registry := classify(t, c, fixture.Type(t, pkg, "Registry")).(*descriptor.Capability)

	boxed, ok := registry.Member("Boxed")
	require.True(t, ok)
	set, ok := boxed.Desc.(*descriptor.Container)
	require.True(t, ok, "*Box[*Widget] matches the set contract")
	assert.Equal(t, descriptor.ShapeSet, set.Shape)
	assert.Equal(t, "WidgetSet", set.PublicName())

	ints, ok := registry.Member("Ints")
	require.True(t, ok)
	assert.Equal(t, descriptor.KindPlain, ints.Desc.Kind(), "int elements pass through")
	assert.Equal(t, "*coll.Box[int]", ints.Desc.PublicName())

	value, ok := registry.Member("Value")
	require.True(t, ok)
	assert.Equal(t, descriptor.KindPlain, value.Desc.Kind(), "pointer methods do not count for values")
}

func TestClassify_NamedFunction(t *testing.T) {
	c, pkg := newClassifier(t, shapesSrc, DefaultConfig())

	d := classify(t, c, fixture.Type(t, pkg, "Handler"))
	ref, ok := d.(*descriptor.FunctionReference)
	require.True(t, ok)
	assert.Equal(t, "Handler", ref.PublicName())
	assert.Equal(t, "handlerRaw", ref.InternalName())
	assert.NotNil(t, ref.Named)
	require.Len(t, ref.Results, 1)
	assert.Equal(t, "error", ref.Results[0].Desc.PublicName())
}

func TestClassify_Enumeration(t *testing.T) {
	c, pkg := newClassifier(t, shapesSrc, DefaultConfig())

	d := classify(t, c, fixture.Type(t, pkg, "Color"))
	enum, ok := d.(*descriptor.Enumeration)
	require.True(t, ok)
	assert.Equal(t, "ColorValues", enum.InternalName())
	require.Len(t, enum.Constants, 2)
	assert.Equal(t, "Red", enum.Constants[0].Name)
	assert.Equal(t, "Green", enum.Constants[1].Name)

	config := DefaultConfig()
	config.WrapEnums = false
	c, pkg = newClassifier(t, shapesSrc, config)
	assert.Equal(t, descriptor.KindPlain, classify(t, c, fixture.Type(t, pkg, "Color")).Kind())
}

func TestClassify_Interface(t *testing.T) {
	c, pkg := newClassifier(t, shapesSrc, DefaultConfig())

	named := classify(t, c, fixture.Type(t, pkg, "Named")).(*descriptor.Capability)
	assert.True(t, named.Interface)
	require.NotNil(t, named.Base)
	assert.Equal(t, "Shape", named.Base.PublicName())
	assert.Empty(t, named.ValueName)

	var members []string
	for _, m := range named.Members {
		members = append(members, m.Name)
	}
	assert.Equal(t, []string{"Name"}, members, "Area comes from the base")
	assert.Contains(t, named.Base.DirectSubtypes, named)
}

func TestClassify_OutOfScope(t *testing.T) {
	pkg := loadShapes(t, shapesSrc)
	u := analyze.NewUniverse(policy.NewPrefixScope("example.com/other"), pkg)
	c := New(u, descriptor.NewGraph(), DefaultConfig())

	d := classify(t, c, fixture.Type(t, pkg, "Widget"))
	assert.Equal(t, descriptor.KindPlain, d.Kind())
	assert.Equal(t, "shapes.Widget", d.PublicName())

	d = classify(t, c, types.NewSlice(fixture.Type(t, pkg, "Widget")))
	assert.Equal(t, descriptor.KindPlain, d.Kind())
}

func TestClassify_Cycles(t *testing.T) {
	c, pkg := newClassifier(t, `package shapes

type A struct {
	B *B
	Bs []*B
}

type B struct {
	*C
	A *A
}

type C struct {
	*B
}
`, DefaultConfig())

	bs := classify(t, c, types.NewSlice(types.NewPointer(fixture.Type(t, pkg, "B"))))
	assert.Equal(t, descriptor.KindContainer, bs.Kind())

	a := classify(t, c, fixture.Type(t, pkg, "A")).(*descriptor.Capability)
	m, ok := a.Member("Bs")
	require.True(t, ok)
	assert.Same(t, bs, m.Desc, "the container registered first is reused")

	b := classify(t, c, fixture.Type(t, pkg, "B")).(*descriptor.Capability)
	assert.Equal(t, "C", b.Base.PublicName())
	assert.Same(t, b, b.Base.Base, "pointer embedding cycle")
	assert.Len(t, b.Chain(), 2)
}

func TestClassify_NameCollision(t *testing.T) {
	imp := fixture.NewImporter()
	other, err := imp.Add("example.com/foreign/other", `package other
type Widget struct{ ID int }
`)
	require.NoError(t, err)
	shapes, err := imp.Add("example.com/foreign/shapes", `package shapes
import "example.com/foreign/other"
type Widget struct{ Twin *other.Widget }
`)
	require.NoError(t, err)

	u := analyze.NewUniverse(policy.NewPrefixScope("example.com/foreign"), other, shapes)
	c := New(u, descriptor.NewGraph(), DefaultConfig())

	w := classify(t, c, fixture.Type(t, shapes, "Widget")).(*descriptor.Capability)
	assert.Equal(t, "Widget", w.PublicName())

	twin, ok := w.Member("Twin")
	require.True(t, ok)
	assert.Equal(t, "OtherWidget", twin.Desc.PublicName())
	assert.Equal(t, "OtherWidgetAdapter", twin.Desc.InternalName())
}

func TestClassify_InterfaceSuffix(t *testing.T) {
	config := DefaultConfig()
	config.Naming.InterfaceSuffix = "API"
	c, pkg := newClassifier(t, shapesSrc, config)

	d := classify(t, c, fixture.Type(t, pkg, "Base"))
	assert.Equal(t, "BaseAPI", d.PublicName())
	assert.Equal(t, "BaseAdapter", d.InternalName())
}

package render

import (
	"bytes"
	"context"
	"go/parser"
	"go/token"
	"go/types"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facade-generator/internal/analyze"
	"facade-generator/internal/build"
	"facade-generator/internal/classify"
	"facade-generator/internal/descriptor"
	"facade-generator/internal/fixture"
	"facade-generator/internal/policy"
)

const foreignSrc = `package foreign

import "iter"

type Color int

const (
	Red Color = iota
	Green
)

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

type Point struct {
	X, Y int
}

type Widget struct {
	Base
	Label    string
	Tint     Color
	Pos      Point
	Parent   *Widget
	Children []*Widget
	ByName   map[string]*Widget
	Changed  chan *Widget
	OnResize func(w *Widget) bool
}

func NewWidget(label string) *Widget { return &Widget{Label: label} }

func (w *Widget) Area() float64 { return 0 }
func (w *Widget) Name() string  { return w.Label }

func (w *Widget) Resize(factor int, others ...*Widget) (*Widget, error) { return w, nil }

type Handler func(w *Widget) error

type Bag struct {
	items []any
}

func (b *Bag) All() iter.Seq[any] { return nil }
func (b *Bag) Len() int           { return len(b.items) }
func (b *Bag) At(i int) any       { return b.items[i] }
func (b *Bag) SetAt(i int, v any) { b.items[i] = v }
func (b *Bag) Add(w *Widget)      { b.items = append(b.items, w) }
`

// memorySink keeps every artifact in memory, keyed by public name.
type memorySink struct {
	files map[string]*bytes.Buffer
}

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }

func (s *memorySink) Open(_ context.Context, d descriptor.Descriptor, _ string) (io.WriteCloser, error) {
	buf := &bytes.Buffer{}
	s.files[d.PublicName()] = buf

	return nopCloser{buf}, nil
}

func generate(t *testing.T, pol policy.Policy, roots ...string) map[string]string {
	t.Helper()

	pkg := fixture.Package(t, "example.com/foreign", foreignSrc)
	u := analyze.NewUniverse(policy.NewPrefixScope("example.com/foreign"), pkg)
	c := classify.New(u, descriptor.NewGraph(), classify.DefaultConfig())
	sink := &memorySink{files: make(map[string]*bytes.Buffer)}

	b := build.New(c, sink, New(Config{PackageName: "facade"}), build.Config{Policy: pol})

	var ts []types.Type
	for _, name := range roots {
		ts = append(ts, fixture.Type(t, pkg, name))
	}
	_, err := b.Build(context.Background(), ts)
	require.NoError(t, err)

	out := make(map[string]string, len(sink.files))
	for name, buf := range sink.files {
		_, err := parser.ParseFile(token.NewFileSet(), name+".go", buf.Bytes(), parser.AllErrors)
		require.NoError(t, err, "%s does not parse:\n%s", name, buf.String())
		out[name] = buf.String()
	}

	return out
}

// block returns the declaration starting at header up to its closing brace.
func block(t *testing.T, src, header string) string {
	t.Helper()

	start := strings.Index(src, header)
	require.GreaterOrEqual(t, start, 0, "%q not found in:\n%s", header, src)
	end := strings.Index(src[start:], "\n}\n")
	require.GreaterOrEqual(t, end, 0)

	return src[start : start+end+3]
}

func TestRender_Capability(t *testing.T) {
	files := generate(t, policy.Policy{}, "Widget")
	src := files["Widget"]

	assert.True(t, strings.HasPrefix(src, "// Code generated by facade-generator. DO NOT EDIT.\n"))
	assert.Contains(t, src, "package facade\n")
	assert.Contains(t, src, `"example.com/foreign"`)
	assert.Contains(t, src, `"facade-generator/adapt"`)

	iface := block(t, src, "type Widget interface {")
	for _, want := range []string{
		"\tBase\n",
		"\tNamed\n",
		"\tShape\n",
		"\tLabel() string\n",
		"\tSetLabel(v string)\n",
		"\tTint() Color\n",
		"\tPos() Point\n",
		"\tParent() Widget\n",
		"\tChildren() WidgetSlice\n",
		"\tByName() StringWidgetMap\n",
		"\tChanged() <-chan Widget\n",
		"\tOnResize() FuncWidgetToBool\n",
		"\tResize(factor int, others ...Widget) (Widget, error)\n",
	} {
		assert.Contains(t, iface, want)
	}
	assert.NotContains(t, iface, "Area()", "declared by the embedded interface")
	assert.NotContains(t, iface, "Name()", "declared by the embedded interface")

	adapter := block(t, src, "type WidgetAdapter struct {")
	assert.Contains(t, adapter, "\t*BaseAdapter\n")
	assert.Contains(t, adapter, "\traw *foreign.Widget\n")

	for _, want := range []string{
		"return &WidgetAdapter{BaseAdapter: new(BaseAdapter).Wrap(&raw.Base), raw: raw}",
		"func (a *WidgetAdapter) Label() string {\n\treturn a.raw.Label\n}",
		"a.raw.Label = v",
		"return Color(a.raw.Tint)",
		"a.raw.Tint = foreign.Color(v)",
		"return wrapPoint(&a.raw.Pos)",
		"a.raw.Pos = unwrapPointValue(v)",
		"return wrapWidget(a.raw.Parent)",
		"return wrapWidgetSlice(a.raw.Children)",
		"return wrapStringWidgetMap(a.raw.ByName)",
		"out <- wrapWidget(v)",
		"return wrapFuncWidgetToBool(a.raw.OnResize)",
		"rawArgs := make([]*foreign.Widget, len(others))",
		"rawArgs[i] = unwrapWidget(v)",
		"r0, r1 := a.raw.Resize(factor, rawArgs...)",
		"return wrapWidget(r0), r1",
		"func (a *WidgetAdapter) Area() float64 {\n\treturn a.raw.Area()\n}",
		"func (a *WidgetAdapter) asWidgetAdapter() *WidgetAdapter { return a }",
		"return adapt.Unwrap[*foreign.Widget, *WidgetAdapter](v)",
		"func (WidgetAdapterValue) Wrap(raw foreign.Widget) WidgetAdapterValue {",
		"// NewWidget calls foreign.NewWidget.",
		"func NewWidget(label string) Widget {\n\treturn wrapWidget(foreign.NewWidget(label))\n}",
	} {
		assert.Contains(t, src, want)
	}
}

func TestRender_InterfaceNarrowing(t *testing.T) {
	files := generate(t, policy.Policy{}, "Widget")

	shape := files["Shape"]
	require.NotEmpty(t, shape)

	wrap := block(t, shape, "func wrapShape(raw foreign.Shape) Shape {")
	concrete := strings.Index(wrap, "case *foreign.Widget:")
	iface := strings.Index(wrap, "case foreign.Named:")
	require.Positive(t, concrete)
	require.Positive(t, iface)
	assert.Less(t, concrete, iface, "concrete subtypes are tried first")
	assert.Contains(t, wrap, "return new(ShapeAdapter).Wrap(raw)")

	unwrap := block(t, shape, "func unwrapShape(v Shape) foreign.Shape {")
	assert.Contains(t, unwrap, "a.foreignValue().(foreign.Shape)")

	named := files["Named"]
	assert.Contains(t, block(t, named, "type Named interface {"), "\tShape\n")
	adapter := block(t, named, "type NamedAdapter struct {")
	assert.Contains(t, adapter, "\t*ShapeAdapter\n")
	assert.Contains(t, named, "return &NamedAdapter{ShapeAdapter: new(ShapeAdapter).Wrap(raw), raw: raw}")
	assert.Contains(t, named, "func (a *NamedAdapter) Name() string {")
	assert.NotContains(t, named, "func (a *NamedAdapter) Area()", "implemented by the embedded base adapter")
}

func TestRender_Collections(t *testing.T) {
	files := generate(t, policy.Policy{}, "Widget")

	slice := files["WidgetSlice"]
	for _, want := range []string{
		"type WidgetSlice = adapt.List[Widget]",
		"type widgetSliceAdapter struct {\n\tWidgetSlice\n}",
		"func (*widgetSliceAdapter) Wrap(raw []*foreign.Widget) *widgetSliceAdapter {",
		"return adapt.NewArray[*foreign.Widget, *WidgetAdapter, Widget](raw)",
		"items, err := adapt.RawSlice[*foreign.Widget, *WidgetAdapter, Widget](v)",
	} {
		assert.Contains(t, slice, want)
	}

	m := files["StringWidgetMap"]
	for _, want := range []string{
		"type StringWidgetMap = adapt.Map[string, Widget]",
		"return adapt.NewMap[string, *foreign.Widget, *WidgetAdapter, Widget](adapt.MapOf[string, *foreign.Widget](raw))",
		"items, err := adapt.RawMap[string, *foreign.Widget, *WidgetAdapter, Widget](v)",
	} {
		assert.Contains(t, m, want)
	}
}

func TestRender_Enumeration(t *testing.T) {
	files := generate(t, policy.Policy{}, "Widget")
	src := files["Color"]

	assert.Contains(t, src, "type Color int\n")
	assert.Regexp(t, regexp.MustCompile(`Red\s+Color = Color\(foreign\.Red\)`), src)
	assert.Regexp(t, regexp.MustCompile(`Green\s+Color = Color\(foreign\.Green\)`), src)
	assert.Contains(t, src, "var ColorValues = []Color{\n\tRed,\n\tGreen,\n}")
	assert.Contains(t, src, "func (e Color) Unwrap() foreign.Color {")
	assert.NotContains(t, src, "facade-generator/adapt", "enumerations need no runtime")
}

func TestRender_FunctionReference(t *testing.T) {
	files := generate(t, policy.Policy{}, "Handler", "Widget")

	named := files["Handler"]
	for _, want := range []string{
		"type handlerRaw = foreign.Handler",
		"type Handler func(w Widget) error",
		"func (Handler) Wrap(raw handlerRaw) Handler {",
		"return raw(unwrapWidget(w))",
		"return fn(wrapWidget(w))",
	} {
		assert.Contains(t, named, want)
	}

	unnamed := files["FuncWidgetToBool"]
	assert.Contains(t, unnamed, "type funcWidgetToBoolRaw = func(w *foreign.Widget) bool")
	assert.Contains(t, unnamed, "type FuncWidgetToBool func(w Widget) bool")
}

func TestRender_LegacyContainer(t *testing.T) {
	files := generate(t, policy.Policy{}, "Bag")
	src := files["Bag"]

	iface := block(t, src, "type Bag interface {")
	assert.Contains(t, iface, "\tAll() iter.Seq[Widget]\n")
	assert.Contains(t, iface, "\tAt(i int) Widget\n")
	assert.Contains(t, iface, "\tSetAt(i int, v Widget)\n")
	assert.Contains(t, iface, "\tAppend(v Widget)\n")
	assert.Contains(t, iface, "\tLen() int\n")
	assert.Contains(t, iface, "\tAdd(w Widget)\n")

	for _, want := range []string{
		`"iter"`,
		"for v := range a.raw.All() {",
		"r, _ := v.(*foreign.Widget)",
		"if !yield(wrapWidget(r)) {",
		"r, _ := a.raw.At(i).(*foreign.Widget)",
		"a.raw.SetAt(i, unwrapWidget(v))",
		"a.raw.Add(unwrapWidget(v))",
		"return a.raw.Len()",
	} {
		assert.Contains(t, src, want)
	}
}

func TestRender_Outcomes(t *testing.T) {
	pol := policy.Policy{
		Property: func(_ types.Type, m types.Object) policy.Outcome {
			if m.Name() == "Label" {
				return policy.OutcomeCachedFull
			}
			return policy.OutcomeFull
		},
		Operation: func(_ types.Type, m types.Object) policy.Outcome {
			switch m.Name() {
			case "Resize":
				return policy.OutcomeInterfaceOnly
			case "Name":
				return policy.OutcomeConditionalFull
			default:
				return policy.OutcomeFull
			}
		},
		Constructor: func(types.Type, types.Object) policy.Outcome {
			return policy.OutcomeOmit
		},
	}
	src := generate(t, pol, "Widget")["Widget"]

	adapter := block(t, src, "type WidgetAdapter struct {")
	assert.Contains(t, adapter, "labelCache")
	assert.Contains(t, adapter, "labelCached")
	assert.Contains(t, src, "a.labelCache = a.raw.Label")
	assert.Contains(t, src, "a.labelCached = false")

	assert.Contains(t, block(t, src, "type Widget interface {"), "Resize(")
	assert.NotContains(t, src, "func (a *WidgetAdapter) Resize(")

	assert.Contains(t, src, "//facade:conditional\nfunc (a *WidgetAdapter) Name() string {")
	assert.NotContains(t, src, "func NewWidget(")
}

func TestRender_PlainHasNoArtifact(t *testing.T) {
	var buf bytes.Buffer
	err := New(DefaultConfig()).Render(&buf, descriptor.NewPlain(types.Typ[types.Int], "int"))
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestRender_UnformattedSource(t *testing.T) {
	pkg := fixture.Package(t, "example.com/foreign", foreignSrc)
	named := fixture.Type(t, pkg, "Shape").(*types.Named)

	var buf bytes.Buffer
	err := New(DefaultConfig()).Render(&buf, descriptor.NewCapability(named, "Bad Name", "badAdapter"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formatting code")
	assert.Contains(t, buf.String(), "type Bad Name interface", "the unformatted source is still written")
}

func TestImports_Aliases(t *testing.T) {
	im := newImports()

	assert.Equal(t, "foreign", im.add("example.com/a/foreign", "foreign"))
	assert.Equal(t, "foreign1", im.add("example.com/b/foreign", "foreign"))
	assert.Equal(t, "foreign", im.add("example.com/a/foreign", "foreign"))
	assert.Equal(t, "yaml", im.add("gopkg.in/yaml.v3", "yaml"))

	specs := im.sorted()
	require.Len(t, specs, 3)
	assert.Equal(t, importSpec{Path: "example.com/a/foreign", name: "foreign"}, specs[0])
	assert.Equal(t, importSpec{Alias: "foreign1", Path: "example.com/b/foreign", name: "foreign1"}, specs[1])
	assert.Equal(t, "yaml", specs[2].Alias)
}

func TestParamNames(t *testing.T) {
	f := newFile(DefaultConfig())
	f.imports.add("example.com/foreign", "foreign")

	ps := []*descriptor.Param{
		{Name: "foreign"},
		{Name: "string"},
		{Name: ""},
		{Name: "r0"},
		{Name: "count"},
		{Name: "count"},
		{Name: "fn"},
	}
	got := f.paramNames(ps, map[string]struct{}{"time": {}})

	assert.Equal(t, []string{"p0", "p1", "p2", "p3", "count", "p5", "p6"}, got)
}

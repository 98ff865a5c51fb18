package build

import (
	"bytes"
	"context"
	"go/types"
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facade-generator/internal/analyze"
	"facade-generator/internal/classify"
	"facade-generator/internal/descriptor"
	"facade-generator/internal/fixture"
	"facade-generator/internal/policy"
)

// recordingSink records the order artifacts are opened and closed in.
type recordingSink struct {
	opened []string
	closed []string
	err    error
}

type recordingWriter struct {
	bytes.Buffer
	name string
	sink *recordingSink
}

func (w *recordingWriter) Close() error {
	w.sink.closed = append(w.sink.closed, w.name)
	return nil
}

func (s *recordingSink) Open(_ context.Context, d descriptor.Descriptor, fullName string) (io.WriteCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.opened = append(s.opened, fullName)

	return &recordingWriter{name: d.PublicName(), sink: s}, nil
}

type nameRenderer struct{}

func (nameRenderer) Render(w io.Writer, d descriptor.Descriptor) error {
	_, err := io.WriteString(w, d.PublicName())
	return err
}

const chainSrc = `package foreign

type Named interface {
	Name() string
}

type A struct {
	ID int
}

func (a *A) Name() string { return "a" }

type B struct {
	A
	Next *C
}

func (b *B) Name() int { return 1 }

type C struct {
	*B
	Prev  *B
	Peers []*C
}

func (c *C) Close() error { return nil }
`

func newBuilder(t *testing.T, src string, sink Sink, config Config) (*Builder, *types.Package) {
	t.Helper()

	pkg := fixture.Package(t, "example.com/foreign", src)
	u := analyze.NewUniverse(policy.NewPrefixScope("example.com/foreign"), pkg)
	c := classify.New(u, descriptor.NewGraph(), classify.DefaultConfig())

	return New(c, sink, nameRenderer{}, config), pkg
}

func TestBuild_BaseBeforeDerived(t *testing.T) {
	sink := &recordingSink{}
	b, pkg := newBuilder(t, chainSrc, sink, Config{TargetPackage: "example.com/app/facade"})

	res, err := b.Build(context.Background(), []types.Type{fixture.Type(t, pkg, "C")})
	require.NoError(t, err)

	chain := map[string]bool{"A": true, "B": true, "C": true}

	var order []string
	for _, d := range res.Emitted {
		if chain[d.PublicName()] {
			order = append(order, d.PublicName())
		}
	}
	assert.Equal(t, []string{"A", "B", "C"}, order)
	assert.Contains(t, sink.opened, "example.com/app/facade.C")
	assert.Equal(t, len(sink.opened), len(sink.closed), "every writer is closed")
}

func TestBuild_AtMostOncePerIdentity(t *testing.T) {
	sink := &recordingSink{}
	b, pkg := newBuilder(t, chainSrc, sink, Config{})

	roots := []types.Type{
		fixture.Type(t, pkg, "C"),
		fixture.Type(t, pkg, "B"),
		types.NewPointer(fixture.Type(t, pkg, "C")),
	}
	res, err := b.Build(context.Background(), roots)
	require.NoError(t, err)

	seen := make(map[descriptor.Descriptor]int)
	for _, d := range res.Emitted {
		seen[d]++
	}
	for d, n := range seen {
		assert.Equal(t, 1, n, "%s emitted %d times", d.PublicName(), n)
	}

	for _, d := range res.Graph.Descriptors() {
		assert.Contains(t, []descriptor.Status{descriptor.StatusDone, descriptor.StatusNotApplicable}, d.Status(), d.PublicName())
	}
	assert.Zero(t, res.Counts[descriptor.StatusInProgress])
	assert.Zero(t, res.Counts[descriptor.StatusPending])
	assert.Equal(t, len(res.Emitted), res.Counts[descriptor.StatusDone])
	assert.Same(t, res.Roots[0], res.Roots[2])
}

func TestBuild_MemberResolution(t *testing.T) {
	b, pkg := newBuilder(t, chainSrc, &recordingSink{}, Config{})

	res, err := b.Build(context.Background(), []types.Type{fixture.Type(t, pkg, "C")})
	require.NoError(t, err)

	a, ok := res.Graph.Lookup(fixture.Type(t, pkg, "A"))
	require.True(t, ok)
	name, ok := a.(*descriptor.Capability).Member("Name")
	require.True(t, ok)
	require.NotNil(t, name.DeclaringInterface)
	assert.Equal(t, "Named", name.DeclaringInterface.PublicName())
	assert.False(t, name.Shadows)
	assert.Equal(t, policy.OutcomeFull, name.Outcome)

	bd, ok := res.Graph.Lookup(fixture.Type(t, pkg, "B"))
	require.True(t, ok)
	shadow, ok := bd.(*descriptor.Capability).Member("Name")
	require.True(t, ok)
	assert.True(t, shadow.Shadows, "B.Name differs from A.Name")
	assert.Nil(t, shadow.DeclaringInterface)

	c := res.Roots[0]
	var deps []string
	for _, d := range c.Dependents() {
		deps = append(deps, d.PublicName())
	}
	assert.Contains(t, deps, "B")
	assert.Contains(t, deps, "CSlice")
}

func TestBuild_Policy(t *testing.T) {
	config := Config{Policy: policy.FromRules([]policy.Rule{
		{Kind: policy.MemberOperation, Type: "*", Name: "Close", Outcome: policy.OutcomeOmit},
		{Kind: policy.MemberProperty, Type: "C", Name: "Prev", Outcome: policy.OutcomeCachedFull},
	})}
	b, pkg := newBuilder(t, chainSrc, &recordingSink{}, config)

	res, err := b.Build(context.Background(), []types.Type{fixture.Type(t, pkg, "C")})
	require.NoError(t, err)

	c := res.Roots[0].(*descriptor.Capability)
	_, ok := c.Member("Close")
	assert.False(t, ok, "omitted members are dropped")

	prev, ok := c.Member("Prev")
	require.True(t, ok)
	assert.Equal(t, policy.OutcomeCachedFull, prev.Outcome)
}

func TestBuild_UnsupportedOutcome(t *testing.T) {
	config := Config{Policy: policy.Policy{
		Operation: func(types.Type, types.Object) policy.Outcome { return policy.OutcomeCachedFull },
	}}
	b, pkg := newBuilder(t, chainSrc, &recordingSink{}, config)

	_, err := b.Build(context.Background(), []types.Type{fixture.Type(t, pkg, "A")})
	require.ErrorIs(t, err, policy.ErrUnsupportedOutcome)
}

func TestBuild_SinkError(t *testing.T) {
	errSink := errors.New("disk full")
	b, pkg := newBuilder(t, chainSrc, &recordingSink{err: errSink}, Config{})

	res, err := b.Build(context.Background(), []types.Type{fixture.Type(t, pkg, "A")})
	require.Error(t, err)
	assert.Equal(t, errSink, err, "sink errors propagate unchanged")
	assert.Empty(t, res.Emitted)
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	b, pkg := newBuilder(t, chainSrc, sink, Config{})

	_, err := b.Build(ctx, []types.Type{fixture.Type(t, pkg, "C")})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.opened)
}

func TestBuild_ClassificationFailure(t *testing.T) {
	pkg := fixture.Package(t, "example.com/foreign", `package foreign

import "iter"

type Bag struct{}

func (b *Bag) All() iter.Seq[any] { return nil }
`)
	u := analyze.NewUniverse(policy.NewPrefixScope("example.com/foreign"), pkg)
	config := classify.DefaultConfig()
	config.AllowLooseFallback = false
	c := classify.New(u, descriptor.NewGraph(), config)

	sink := &recordingSink{}
	_, err := New(c, sink, nameRenderer{}, Config{}).Build(context.Background(), []types.Type{fixture.Type(t, pkg, "Bag")})
	require.ErrorIs(t, err, classify.ErrInferenceFailed)
	assert.Empty(t, sink.opened, "no partial success")
}

type abortableWriter struct {
	recordingWriter
	aborted bool
}

func (w *abortableWriter) Abort() error {
	w.aborted = true
	return nil
}

type abortableSink struct {
	writers []*abortableWriter
}

func (s *abortableSink) Open(_ context.Context, d descriptor.Descriptor, _ string) (io.WriteCloser, error) {
	w := &abortableWriter{recordingWriter: recordingWriter{name: d.PublicName(), sink: &recordingSink{}}}
	s.writers = append(s.writers, w)

	return w, nil
}

type failingRenderer struct{}

func (failingRenderer) Render(w io.Writer, _ descriptor.Descriptor) error {
	_, _ = io.WriteString(w, "func (")
	return errors.New("formatting code")
}

func TestBuild_RenderFailureAborts(t *testing.T) {
	pkg := fixture.Package(t, "example.com/foreign", chainSrc)
	u := analyze.NewUniverse(policy.NewPrefixScope("example.com/foreign"), pkg)
	c := classify.New(u, descriptor.NewGraph(), classify.DefaultConfig())

	sink := &abortableSink{}
	_, err := New(c, sink, failingRenderer{}, Config{}).Build(context.Background(), []types.Type{fixture.Type(t, pkg, "A")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render")

	require.Len(t, sink.writers, 1)
	assert.True(t, sink.writers[0].aborted)
	assert.Empty(t, sink.writers[0].sink.closed, "aborted writers are not closed")
}

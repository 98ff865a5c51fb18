package build

import (
	"context"
	"go/types"
	"io"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"facade-generator/internal/classify"
	"facade-generator/internal/descriptor"
	"facade-generator/internal/diagnostic"
	"facade-generator/internal/policy"
)

// Sink hands out the writer an artifact is rendered into. The orchestrator
// closes the writer before marking the descriptor Done.
type Sink interface {
	Open(ctx context.Context, d descriptor.Descriptor, fullName string) (io.WriteCloser, error)
}

// Renderer writes the artifact body for a descriptor.
type Renderer interface {
	Render(w io.Writer, d descriptor.Descriptor) error
}

// Config holds the build settings.
type Config struct {
	// TargetPackage is the import path of the generated package.
	TargetPackage string
	// Policy decides the outcome of every member.
	Policy policy.Policy
}

// Result describes a finished build.
type Result struct {
	// Roots are the descriptors of the requested root types.
	Roots []descriptor.Descriptor
	// Emitted lists descriptors in emission order.
	Emitted []descriptor.Descriptor
	// Graph holds every classified descriptor.
	Graph *descriptor.Graph
	// Diagnostics collected during classification and build.
	Diagnostics *diagnostic.Diagnostics
	// Counts is the number of descriptors per final status.
	Counts map[descriptor.Status]int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// Builder is the build orchestrator. A Builder runs one build.
type Builder struct {
	classifier *classify.Classifier
	sink       Sink
	renderer   Renderer
	config     Config
	logger     *zap.Logger
	emitted    []descriptor.Descriptor
}

// New creates a Builder.
func New(classifier *classify.Classifier, sink Sink, renderer Renderer, config Config, opts ...Option) *Builder {
	b := &Builder{
		classifier: classifier,
		sink:       sink,
		renderer:   renderer,
		config:     config,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build classifies every root and builds everything reachable from them.
// Any error aborts the build; artifacts already emitted are not rolled back.
func (b *Builder) Build(ctx context.Context, roots []types.Type) (*Result, error) {
	graph := b.classifier.Graph()
	result := &Result{
		Graph:       graph,
		Diagnostics: b.classifier.Diagnostics(),
	}

	for _, t := range roots {
		d, err := b.classifier.Classify(t)
		if err != nil {
			return result, errors.Wrapf(err, "classify %s", types.TypeString(t, nil))
		}
		result.Roots = append(result.Roots, d)
	}

	for _, d := range result.Roots {
		if err := b.build(ctx, d); err != nil {
			return b.finish(result), err
		}
	}

	// Descriptors classified but never referenced as dependents, such as
	// interfaces found only through Implements of an omitted member.
	for {
		pending := graph.Pending()
		if len(pending) == 0 {
			break
		}
		for _, d := range pending {
			if err := b.build(ctx, d); err != nil {
				return b.finish(result), err
			}
		}
	}

	return b.finish(result), nil
}

func (b *Builder) finish(result *Result) *Result {
	result.Emitted = b.emitted
	result.Counts = result.Graph.Counts()

	return result
}

// build runs the state machine for one descriptor. It is a no-op unless the
// descriptor is Pending.
func (b *Builder) build(ctx context.Context, d descriptor.Descriptor) error {
	if d.Status() != descriptor.StatusPending {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := d.Advance(descriptor.StatusInProgress); err != nil {
		return err
	}

	if err := b.resolve(ctx, d); err != nil {
		return errors.Wrapf(err, "build %s", d.PublicName())
	}

	if err := b.emit(ctx, d); err != nil {
		return err
	}

	if err := d.Advance(descriptor.StatusDone); err != nil {
		return err
	}

	for _, dep := range d.Dependents() {
		if err := b.build(ctx, dep); err != nil {
			return err
		}
	}

	return nil
}

// resolve fills in everything the renderer needs and records dependents.
func (b *Builder) resolve(ctx context.Context, d descriptor.Descriptor) error {
	switch v := d.(type) {
	case *descriptor.Capability:
		if v.Base != nil && v.Base.Status() == descriptor.StatusPending {
			if err := b.build(ctx, v.Base); err != nil {
				return err
			}
		}

		return b.resolveCapability(v)

	case *descriptor.Container:
		v.AddDependent(v.Element)

	case *descriptor.Map:
		v.AddDependent(v.Key)
		v.AddDependent(v.Value)

	case *descriptor.FunctionReference:
		for _, p := range v.Params {
			v.AddDependent(p.Desc)
		}
		for _, r := range v.Results {
			v.AddDependent(r.Desc)
		}
	}

	return nil
}

func (b *Builder) emit(ctx context.Context, d descriptor.Descriptor) error {
	fullName := descriptor.Qualified(b.config.TargetPackage, d)

	w, err := b.sink.Open(ctx, d, fullName)
	if err != nil {
		return err
	}

	if err := b.renderer.Render(w, d); err != nil {
		abort(w)
		return errors.Wrapf(err, "render %s", fullName)
	}

	if err := w.Close(); err != nil {
		return err
	}

	b.emitted = append(b.emitted, d)
	b.logger.Debug("emitted",
		zap.String("name", fullName),
		zap.Stringer("kind", d.Kind()))

	return nil
}

// Aborter is implemented by writers that can discard a failed artifact.
type Aborter interface {
	Abort() error
}

// abort releases the writer of an artifact that failed to render.
func abort(w io.WriteCloser) {
	if a, ok := w.(Aborter); ok {
		_ = a.Abort()
		return
	}

	_ = w.Close()
}

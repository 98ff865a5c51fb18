package classify

import (
	"go/types"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/types/typeutil"

	"facade-generator/internal/analyze"
	"facade-generator/internal/common"
	"facade-generator/internal/descriptor"
	"facade-generator/internal/diagnostic"
	"facade-generator/internal/naming"
)

// Config holds the classification switches.
type Config struct {
	// WrapEnums mirrors in-scope enumerations instead of passing them through.
	WrapEnums bool
	// AllowLooseFallback keeps legacy containers loosely typed when inference
	// fails instead of failing the build.
	AllowLooseFallback bool
	// Naming controls the generated names.
	Naming naming.Config
}

// DefaultConfig returns the classification defaults.
func DefaultConfig() Config {
	return Config{
		WrapEnums:          true,
		AllowLooseFallback: true,
		Naming:             naming.DefaultConfig(),
	}
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// WithDiagnostics collects diagnostics into diags.
func WithDiagnostics(diags *diagnostic.Diagnostics) Option {
	return func(c *Classifier) {
		c.diags = diags
	}
}

// Classifier maps go/types types to descriptors, memoized in a Graph.
type Classifier struct {
	universe analyze.Universe
	graph    *descriptor.Graph
	names    *naming.Allocator
	config   Config
	logger   *zap.Logger
	diags    *diagnostic.Diagnostics
	msets    typeutil.MethodSetCache
}

// New creates a classifier registering descriptors in graph.
func New(universe analyze.Universe, graph *descriptor.Graph, config Config, opts ...Option) *Classifier {
	c := &Classifier{
		universe: universe,
		graph:    graph,
		names:    naming.NewAllocator(config.Naming),
		config:   config,
		logger:   zap.NewNop(),
		diags:    &diagnostic.Diagnostics{},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Graph returns the graph descriptors are registered in.
func (c *Classifier) Graph() *descriptor.Graph {
	return c.graph
}

// Diagnostics returns the diagnostics collected so far.
func (c *Classifier) Diagnostics() *diagnostic.Diagnostics {
	return c.diags
}

// Classify returns the descriptor for t, classifying it and everything it
// reaches on first request.
func (c *Classifier) Classify(t types.Type) (descriptor.Descriptor, error) {
	if t == nil {
		return nil, errors.New("classify: nil type")
	}

	if d, ok := c.graph.Lookup(t); ok {
		return d, nil
	}

	t = types.Unalias(t)
	if d, ok := c.graph.Lookup(t); ok {
		return d, nil
	}

	d, err := c.classify(t)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("classified",
		zap.String("type", types.TypeString(t, nil)),
		zap.Stringer("kind", d.Kind()),
		zap.String("name", d.PublicName()))

	return d, nil
}

func (c *Classifier) classify(t types.Type) (descriptor.Descriptor, error) {
	if isBuiltin(t) {
		return c.plain(t)
	}

	if named, ok := t.(*types.Named); ok && c.isEnumeration(named) {
		if !c.config.WrapEnums {
			return c.plain(t)
		}

		return c.classifyEnumeration(named)
	}

	if ptr, ok := t.(*types.Pointer); ok {
		return c.classifyPointer(ptr)
	}

	switch ut := t.Underlying().(type) {
	case *types.Slice:
		return c.classifyArray(t, ut.Elem(), -1)
	case *types.Array:
		return c.classifyArray(t, ut.Elem(), ut.Len())
	}

	if isIterSeq(t) {
		return c.classifyFallback(t)
	}

	if sig, ok := t.Underlying().(*types.Signature); ok {
		return c.classifyFunction(t, sig)
	}

	if named, ok := t.(*types.Named); ok && named.Obj().Exported() && c.inScope(named) {
		switch named.Underlying().(type) {
		case *types.Struct, *types.Interface:
			return c.classifyCapability(named)
		}
	}

	return c.classifyFallback(t)
}

func (c *Classifier) inScope(named *types.Named) bool {
	return c.universe.IsTypeInScope(named.Obj())
}

// register adds d unless classifying its parts already registered the
// identity, in which case the existing descriptor wins.
func (c *Classifier) register(d descriptor.Descriptor) (descriptor.Descriptor, error) {
	if prev, ok := c.graph.Lookup(d.Identity()); ok {
		return prev, nil
	}
	if err := c.graph.Register(d); err != nil {
		return nil, err
	}

	return d, nil
}

func (c *Classifier) plain(t types.Type) (descriptor.Descriptor, error) {
	return c.register(descriptor.NewPlain(t, typeName(t)))
}

func (c *Classifier) classifyPointer(ptr *types.Pointer) (descriptor.Descriptor, error) {
	named, ok := ptr.Elem().(*types.Named)
	if !ok {
		return c.plain(ptr)
	}
	if !c.inScope(named) {
		return c.classifyFallback(ptr)
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return c.plain(ptr)
	}

	d, err := c.Classify(named)
	if err != nil {
		return nil, err
	}
	if d.Kind() != descriptor.KindCapability {
		return c.plain(ptr)
	}

	c.graph.Alias(ptr, d)

	return d, nil
}

func (c *Classifier) classifyArray(t, elem types.Type, n int64) (descriptor.Descriptor, error) {
	ed, err := c.Classify(elem)
	if err != nil {
		return nil, errors.Wrapf(err, "element of %s", typeName(t))
	}
	if !descriptor.NeedsWrapping(ed) {
		return c.plain(t)
	}
	if d, ok := c.graph.Lookup(t); ok {
		return d, nil
	}

	suffix := "Slice"
	if n >= 0 {
		suffix = "Array"
	}

	public := c.names.Claim(ed.PublicName() + suffix)
	d := descriptor.NewContainer(t, descriptor.ShapeArray, public, c.internalName(public))
	d.ElementType = elem
	d.Element = ed
	d.Len = n

	return c.register(d)
}

func (c *Classifier) classifyFunction(t types.Type, sig *types.Signature) (descriptor.Descriptor, error) {
	named, isNamed := t.(*types.Named)
	if isNamed && (!c.inScope(named) || named.TypeArgs().Len() > 0) {
		isNamed = false
		named = nil
	}

	var public string
	if isNamed {
		public = c.claimForeign(named.Obj(), "")
		d := descriptor.NewFunctionReference(t, sig, public, c.names.Claim(common.LowerFirst(public)+"Raw"))
		if _, err := c.register(d); err != nil {
			return nil, err
		}
		if err := c.resolveSignature(d, sig); err != nil {
			return nil, err
		}

		return d, nil
	}

	// Unnamed callbacks only get a reference when something crosses the boundary.
	params, err := c.params(descriptor.ParamsOf(sig.Params()))
	if err != nil {
		return nil, err
	}
	results, err := c.params(descriptor.ParamsOf(sig.Results()))
	if err != nil {
		return nil, err
	}
	if !anyWrapped(params) && !anyWrapped(results) {
		return c.plain(t)
	}
	if d, ok := c.graph.Lookup(t); ok {
		return d, nil
	}

	public = c.names.Claim("Func" + funcIdent(params, results))
	d := descriptor.NewFunctionReference(t, sig, public, c.names.Claim(common.LowerFirst(public)+"Raw"))
	d.Params = params
	d.Results = results

	return c.register(d)
}

func (c *Classifier) resolveSignature(d *descriptor.FunctionReference, sig *types.Signature) error {
	var err error
	if d.Params, err = c.params(descriptor.ParamsOf(sig.Params())); err != nil {
		return errors.Wrapf(err, "parameters of %s", d.PublicName())
	}
	if d.Results, err = c.params(descriptor.ParamsOf(sig.Results())); err != nil {
		return errors.Wrapf(err, "results of %s", d.PublicName())
	}

	return nil
}

// params classifies the type of every parameter in place.
func (c *Classifier) params(ps []*descriptor.Param) ([]*descriptor.Param, error) {
	for _, p := range ps {
		d, err := c.Classify(p.Type)
		if err != nil {
			return nil, err
		}
		p.Desc = d
	}

	return ps, nil
}

func anyWrapped(ps []*descriptor.Param) bool {
	for _, p := range ps {
		if descriptor.NeedsWrapping(p.Desc) {
			return true
		}
	}

	return false
}

func funcIdent(params, results []*descriptor.Param) string {
	var out string
	for _, p := range params {
		out += naming.Ident(p.Desc.PublicName())
	}
	if len(results) > 0 {
		out += "To"
		for _, r := range results {
			out += naming.Ident(r.Desc.PublicName())
		}
	}

	return out
}

// claimForeign claims a name for a foreign type, falling back to a
// package-qualified candidate on collision.
func (c *Classifier) claimForeign(tn *types.TypeName, suffix string) string {
	name := tn.Name() + suffix

	candidates := []string{name}
	if tn.Pkg() != nil {
		candidates = append(candidates, common.PkgPrefix(tn.Pkg().Path())+name)
	}

	return c.names.Claim(candidates...)
}

func (c *Classifier) internalName(public string) string {
	return c.names.Claim(common.LowerFirst(public) + c.config.Naming.AdapterSuffix)
}

func (c *Classifier) isEnumeration(named *types.Named) bool {
	if _, ok := named.Underlying().(*types.Basic); !ok {
		return false
	}

	return c.inScope(named) && len(c.universe.Constants(named)) > 0
}

func (c *Classifier) classifyEnumeration(named *types.Named) (descriptor.Descriptor, error) {
	public := c.claimForeign(named.Obj(), "")
	d := descriptor.NewEnumeration(named, public, c.names.Claim(public+"Values"))

	for _, k := range c.universe.Constants(named) {
		d.Constants = append(d.Constants, descriptor.Constant{
			Name:   c.names.Claim(k.Name(), public+k.Name()),
			Value:  k.Val(),
			Object: k,
		})
	}

	return c.register(d)
}

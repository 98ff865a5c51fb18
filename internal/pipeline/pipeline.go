// Package pipeline runs the generator from a configuration: it loads the
// foreign packages, classifies the roots, builds every reachable descriptor
// and writes the artifacts and manifest.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"facade-generator/internal/analyze"
	"facade-generator/internal/build"
	"facade-generator/internal/classify"
	"facade-generator/internal/config"
	"facade-generator/internal/descriptor"
	"facade-generator/internal/diagnostic"
	"facade-generator/internal/manifest"
	"facade-generator/internal/render"
	"facade-generator/internal/sink"
)

// ErrInvalidConfig is returned when the configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithDir sets the directory package patterns and relative output paths are
// resolved from.
func WithDir(dir string) Option {
	return func(p *Pipeline) {
		p.dir = dir
	}
}

// WithOutput replaces the filesystem output with out.
func WithOutput(out sink.OutputSink) Option {
	return func(p *Pipeline) {
		p.out = out
	}
}

// Pipeline runs builds for one configuration.
type Pipeline struct {
	config *config.Config
	dir    string
	out    sink.OutputSink
	logger *zap.Logger
}

// New validates c and returns a Pipeline for it.
func New(c *config.Config, opts ...Option) (*Pipeline, error) {
	if diags := config.Validate(c); diags.HasErrors() {
		return nil, errors.Mark(errors.Wrap(diags.Error(), "validate config"), ErrInvalidConfig)
	}

	p := &Pipeline{
		config: c,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.out == nil {
		output := c.Output
		if !filepath.IsAbs(output) && p.dir != "" {
			output = filepath.Join(p.dir, output)
		}
		p.out = sink.NewFilesystem(output)
	}

	return p, nil
}

// Report describes a finished run.
type Report struct {
	Result   *build.Result
	Written  []sink.Written
	Manifest *manifest.Manifest
	Elapsed  time.Duration
}

// Diagnostics returns the diagnostics of the run.
func (r *Report) Diagnostics() *diagnostic.Diagnostics {
	if r == nil || r.Result == nil || r.Result.Diagnostics == nil {
		return &diagnostic.Diagnostics{}
	}

	return r.Result.Diagnostics
}

// Generate builds every root and writes the artifacts, followed by the
// manifest when one is configured. The report is returned alongside any
// error with whatever was written before it.
func (p *Pipeline) Generate(ctx context.Context) (*Report, error) {
	return p.run(ctx, p.out, true)
}

// Inspect classifies and builds every root without writing anything.
func (p *Pipeline) Inspect(ctx context.Context) (*Report, error) {
	return p.run(ctx, sink.NewMemory(), false)
}

func (p *Pipeline) run(ctx context.Context, out sink.OutputSink, writeManifest bool) (*Report, error) {
	start := time.Now()
	report := &Report{}

	loader := analyze.NewLoader(p.dir, p.logger)
	if err := loader.Load(ctx, p.config.Packages...); err != nil {
		return report, err
	}

	roots, err := loader.Resolve(p.config.Roots...)
	if err != nil {
		return report, err
	}

	pol, err := p.config.Policy()
	if err != nil {
		return report, err
	}

	diags := &diagnostic.Diagnostics{}
	classifier := classify.New(
		loader.Universe(p.config.ScopeFilter()),
		descriptor.NewGraph(),
		p.config.Classify(),
		classify.WithLogger(p.logger),
		classify.WithDiagnostics(diags),
	)
	artifacts := sink.NewArtifacts(out, sink.WithLogger(p.logger))
	renderer := render.New(render.Config{
		PackageName: p.config.Package,
		AdaptPath:   p.config.AdaptPath,
	})
	builder := build.New(classifier, artifacts, renderer, build.Config{
		TargetPackage: p.config.Target,
		Policy:        pol,
	}, build.WithLogger(p.logger))

	report.Result, err = builder.Build(ctx, roots)
	report.Written = artifacts.Written()
	report.Elapsed = time.Since(start)

	files := make(map[string]string, len(report.Written))
	for _, w := range report.Written {
		files[w.FullName] = w.Path
	}
	report.Manifest = manifest.FromResult(report.Result, p.config.Target, files)

	if err != nil {
		return report, err
	}

	if writeManifest && p.config.Manifest != "" {
		data, err := manifest.Marshal(report.Manifest)
		if err != nil {
			return report, err
		}
		if err := out.WriteFile(ctx, p.config.Manifest, data); err != nil {
			return report, errors.Wrapf(err, "write manifest %s", p.config.Manifest)
		}
	}

	p.logger.Info("build finished",
		zap.Int("artifacts", len(report.Written)),
		zap.Int("descriptors", report.Result.Graph.Len()),
		zap.Int("warnings", len(diags.Warnings)),
		zap.Duration("elapsed", report.Elapsed))

	return report, nil
}

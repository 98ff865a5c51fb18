// Package sink stores generated artifacts.
//
// An OutputSink receives finished files; Filesystem writes them atomically
// below a root directory and Memory keeps them for tests and dry runs.
// Artifacts bridges an OutputSink to the build orchestrator, one file per
// descriptor.
package sink

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"facade-generator/internal/descriptor"
	"facade-generator/internal/naming"
)

// OutputSink receives finished files. Paths are relative and slash separated.
type OutputSink interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

// DebugSink is implemented by output sinks that keep the source of artifacts
// that failed to render.
type DebugSink interface {
	WriteDebugUnformatted(ctx context.Context, path string, content []byte) error
}

// Memory keeps files in memory. It is safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content at path, replacing any earlier file.
func (m *Memory) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = bytes.Clone(content)

	return nil
}

// File returns the content stored at path.
func (m *Memory) File(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.files[path]

	return content, ok
}

// Paths returns the stored paths in order.
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)

	return out
}

// Option configures Artifacts.
type Option func(*Artifacts)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Artifacts) {
		a.logger = logger
	}
}

// Artifacts implements the orchestrator's sink on top of an OutputSink.
// Each artifact is buffered and written when its writer is closed.
type Artifacts struct {
	out    OutputSink
	logger *zap.Logger

	mu      sync.Mutex
	taken   map[string]struct{}
	written []Written
}

// Written records one artifact handed to the OutputSink.
type Written struct {
	// FullName is the qualified name of the artifact.
	FullName string
	// Path is the file the artifact was written to.
	Path string
}

// NewArtifacts wraps out.
func NewArtifacts(out OutputSink, opts ...Option) *Artifacts {
	a := &Artifacts{
		out:    out,
		logger: zap.NewNop(),
		taken:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Open returns a writer for the artifact of d. File names follow the public
// name; names that collide after case folding get a numeric suffix.
func (a *Artifacts) Open(ctx context.Context, d descriptor.Descriptor, fullName string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	stem := naming.Unique(a.taken, strings.TrimSuffix(naming.FileName(d.PublicName()), ".go"), "_")

	return &artifact{
		ctx:      ctx,
		owner:    a,
		fullName: fullName,
		path:     stem + ".go",
	}, nil
}

// Written returns the artifacts written so far, in order.
func (a *Artifacts) Written() []Written {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]Written(nil), a.written...)
}

func (a *Artifacts) commit(ctx context.Context, w *artifact) error {
	if err := a.out.WriteFile(ctx, w.path, w.buf.Bytes()); err != nil {
		return errors.Wrapf(err, "write %s", w.path)
	}

	a.mu.Lock()
	a.written = append(a.written, Written{FullName: w.fullName, Path: w.path})
	a.mu.Unlock()

	a.logger.Debug("artifact written",
		zap.String("name", w.fullName),
		zap.String("path", w.path),
		zap.Int("bytes", w.buf.Len()))

	return nil
}

// artifact buffers one file.
type artifact struct {
	ctx      context.Context
	owner    *Artifacts
	fullName string
	path     string
	buf      bytes.Buffer
	closed   bool
}

func (w *artifact) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errors.Newf("write to closed artifact %s", w.path)
	}

	return w.buf.Write(p)
}

// Abort discards the artifact. When the OutputSink keeps debug copies, the
// buffered content is written there instead.
func (w *artifact) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if d, ok := w.owner.out.(DebugSink); ok {
		return d.WriteDebugUnformatted(w.ctx, w.path, w.buf.Bytes())
	}

	return nil
}

// Close hands the buffered content to the OutputSink. Closing twice is a no-op.
func (w *artifact) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	return w.owner.commit(w.ctx, w)
}

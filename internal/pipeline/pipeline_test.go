package pipeline

import (
	"context"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facade-generator/internal/analyze"
	"facade-generator/internal/config"
	"facade-generator/internal/manifest"
	"facade-generator/internal/sink"
)

func exampleConfig(t *testing.T) *config.Config {
	t.Helper()

	c, err := config.LoadFile(filepath.Join("..", "..", "examples", "facade.yaml"))
	require.NoError(t, err)

	return c
}

func TestGenerate_Example(t *testing.T) {
	out := t.TempDir()
	p, err := New(exampleConfig(t), WithOutput(sink.NewFilesystem(out)))
	require.NoError(t, err)

	report, err := p.Generate(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Diagnostics().HasErrors())

	var paths []string
	for _, w := range report.Written {
		paths = append(paths, w.Path)

		src, err := os.ReadFile(filepath.Join(out, w.Path))
		require.NoError(t, err)
		_, err = parser.ParseFile(token.NewFileSet(), w.Path, src, parser.AllErrors)
		require.NoError(t, err, "%s does not parse:\n%s", w.Path, src)
		assert.True(t, strings.HasPrefix(string(src), "// Code generated by facade-generator. DO NOT EDIT."), w.Path)
		assert.Contains(t, string(src), "package facade\n")
	}
	for _, want := range []string{"button.go", "widget.go", "widget_list.go", "handler.go", "color.go"} {
		assert.Contains(t, paths, want)
	}

	data, err := os.ReadFile(filepath.Join(out, "manifest.yaml"))
	require.NoError(t, err)
	m, err := manifest.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "facade-generator/examples/facade", m.Package)

	button, ok := m.Find("Button")
	require.True(t, ok)
	assert.Equal(t, "Widget", button.Base)
	assert.Equal(t, "button.go", button.File)

	widget, ok := m.Find("Widget")
	require.True(t, ok)
	outcomes := make(map[string]string)
	for _, mem := range widget.Members {
		outcomes[mem.Name] = mem.Outcome
	}
	assert.Equal(t, "CachedFull", outcomes["ID"])
	assert.Equal(t, "ConditionalEventOnly", outcomes["Resized"])
	assert.Equal(t, "ImplementationOnly", outcomes["Click"])
	assert.Equal(t, "Full", outcomes["Label"])
}

func TestInspect_WritesNothing(t *testing.T) {
	out := t.TempDir()
	c := exampleConfig(t)
	c.Output = out

	p, err := New(c)
	require.NoError(t, err)

	report, err := p.Inspect(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, report.Written)
	assert.NotEmpty(t, report.Manifest.Entries)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNew_InvalidConfig(t *testing.T) {
	c := exampleConfig(t)
	c.Roots = nil
	c.Package = "not a name"

	_, err := New(c)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "no_roots")
	assert.Contains(t, err.Error(), "invalid_package")
}

func TestGenerate_UnknownRoot(t *testing.T) {
	c := exampleConfig(t)
	c.Roots = []string{"facade-generator/examples/foreign.Missing"}

	p, err := New(c, WithOutput(sink.NewMemory()))
	require.NoError(t, err)

	_, err = p.Generate(context.Background())
	require.ErrorIs(t, err, analyze.ErrTypeNotFound)
}

type failingOutput struct{}

func (failingOutput) WriteFile(context.Context, string, []byte) error {
	return errors.New("read-only file system")
}

func TestGenerate_OutputError(t *testing.T) {
	p, err := New(exampleConfig(t), WithOutput(failingOutput{}))
	require.NoError(t, err)

	report, err := p.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only file system")
	assert.Empty(t, report.Written)
}

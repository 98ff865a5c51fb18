package render

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"

	"facade-generator/internal/descriptor"
)

// DefaultAdaptPath is the import path of the collection adapter runtime.
const DefaultAdaptPath = "facade-generator/adapt"

// Config holds the renderer settings.
type Config struct {
	// PackageName is the name of the generated package.
	PackageName string
	// AdaptPath is the import path of the adapt runtime.
	AdaptPath string
}

// DefaultConfig returns the default renderer configuration.
func DefaultConfig() Config {
	return Config{
		PackageName: "facade",
		AdaptPath:   DefaultAdaptPath,
	}
}

// Go renders one Go source file per descriptor.
type Go struct {
	config Config
}

// New creates a Go renderer. Empty fields fall back to DefaultConfig.
func New(config Config) *Go {
	def := DefaultConfig()
	if config.PackageName == "" {
		config.PackageName = def.PackageName
	}
	if config.AdaptPath == "" {
		config.AdaptPath = def.AdaptPath
	}

	return &Go{config: config}
}

// Render writes the artifact of d to w. When the generated source does not
// format, the unformatted source is written and an error is returned.
func (g *Go) Render(w io.Writer, d descriptor.Descriptor) error {
	f := newFile(g.config)

	switch v := d.(type) {
	case *descriptor.Capability:
		f.capability(v)
	case *descriptor.Container:
		f.container(v)
	case *descriptor.Map:
		f.mapping(v)
	case *descriptor.Enumeration:
		f.enumeration(v)
	case *descriptor.FunctionReference:
		f.function(v)
	default:
		return errors.Newf("%s descriptor %s has no artifact", d.Kind(), d.PublicName())
	}

	src, fmtErr := f.source()
	if _, err := w.Write(src); err != nil {
		return errors.Wrap(err, "writing source")
	}

	return fmtErr
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by facade-generator. DO NOT EDIT.

package {{.PackageName}}
{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{.Body}}`))

type templateData struct {
	PackageName string
	Imports     []importSpec
	Body        string
}

// file accumulates the body of one generated file and the imports it uses.
type file struct {
	config  Config
	imports *imports
	body    strings.Builder
}

func newFile(config Config) *file {
	return &file{
		config:  config,
		imports: newImports(),
	}
}

// p writes one line of the body.
func (f *file) p(format string, args ...any) {
	fmt.Fprintf(&f.body, format, args...)
	f.body.WriteByte('\n')
}

// source executes the file template and formats the result.
func (f *file) source() ([]byte, error) {
	var buf bytes.Buffer

	data := templateData{
		PackageName: f.config.PackageName,
		Imports:     f.imports.sorted(),
		Body:        f.body.String(),
	}
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "executing template")
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), errors.Wrap(err, "formatting code (unformatted code returned)")
	}

	return formatted, nil
}

// adapt returns the qualifier of the adapt runtime.
func (f *file) adapt() string {
	return f.imports.add(f.config.AdaptPath, "adapt")
}

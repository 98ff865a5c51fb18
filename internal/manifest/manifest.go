// Package manifest describes a finished build as YAML.
//
// The manifest lists every descriptor of the graph with its names, status
// and dependents, so a generated package can be reviewed without reading
// the artifacts.
package manifest

import (
	"go/types"
	"sort"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"facade-generator/internal/build"
	"facade-generator/internal/descriptor"
	"facade-generator/internal/diagnostic"
)

// Manifest is the serialized form of a build result.
type Manifest struct {
	Version string `yaml:"version"`
	// Package is the import path of the generated package.
	Package string `yaml:"package,omitempty"`

	Roots       []string       `yaml:"roots"`
	Entries     []Entry        `yaml:"entries"`
	Counts      map[string]int `yaml:"counts"`
	Diagnostics []Diagnostic   `yaml:"diagnostics,omitempty"`
}

// Entry describes one descriptor.
type Entry struct {
	Kind     string `yaml:"kind"`
	Identity string `yaml:"identity"`
	Public   string `yaml:"public"`
	Internal string `yaml:"internal,omitempty"`
	Status   string `yaml:"status"`
	// File is the artifact the descriptor was written to.
	File       string   `yaml:"file,omitempty"`
	Shape      string   `yaml:"shape,omitempty"`
	Base       string   `yaml:"base,omitempty"`
	Implements []string `yaml:"implements,omitempty"`
	Members    []Member `yaml:"members,omitempty"`
	Dependents []string `yaml:"dependents,omitempty"`
}

// Member describes one capability member.
type Member struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Outcome     string `yaml:"outcome"`
	Synthesized bool   `yaml:"synthesized,omitempty"`
	DeclaredBy  string `yaml:"declared_by,omitempty"`
}

// Diagnostic is a diagnostic raised during the build.
type Diagnostic struct {
	Severity string `yaml:"severity"`
	Code     string `yaml:"code"`
	Message  string `yaml:"message"`
	Type     string `yaml:"type,omitempty"`
	Member   string `yaml:"member,omitempty"`
}

// FromResult builds a manifest. files maps a descriptor's qualified name to
// the artifact it was written to and may be nil.
func FromResult(res *build.Result, pkg string, files map[string]string) *Manifest {
	m := &Manifest{
		Version: "1",
		Package: pkg,
		Counts:  make(map[string]int),
	}
	if res == nil {
		return m
	}

	for _, d := range res.Roots {
		m.Roots = append(m.Roots, descriptor.Qualified(pkg, d))
	}

	if res.Graph != nil {
		for _, d := range res.Graph.Descriptors() {
			e := entry(d)
			e.File = files[descriptor.Qualified(pkg, d)]
			m.Entries = append(m.Entries, e)
		}
	}
	sort.SliceStable(m.Entries, func(i, j int) bool {
		if m.Entries[i].Kind != m.Entries[j].Kind {
			return m.Entries[i].Kind < m.Entries[j].Kind
		}

		return m.Entries[i].Public < m.Entries[j].Public
	})

	for status, n := range res.Counts {
		m.Counts[status.String()] = n
	}

	if res.Diagnostics != nil {
		for _, d := range res.Diagnostics.All() {
			m.Diagnostics = append(m.Diagnostics, diagnosticOf(d))
		}
	}

	return m
}

func entry(d descriptor.Descriptor) Entry {
	e := Entry{
		Kind:     d.Kind().String(),
		Identity: types.TypeString(d.Identity(), nil),
		Public:   d.PublicName(),
		Status:   d.Status().String(),
	}
	if d.InternalName() != d.PublicName() {
		e.Internal = d.InternalName()
	}
	for _, dep := range d.Dependents() {
		e.Dependents = append(e.Dependents, dep.PublicName())
	}

	switch v := d.(type) {
	case *descriptor.Capability:
		if v.Base != nil {
			e.Base = v.Base.PublicName()
		}
		for _, impl := range v.Implements {
			e.Implements = append(e.Implements, impl.PublicName())
		}
		for _, mem := range append(append([]*descriptor.Member(nil), v.Members...), v.Constructors...) {
			e.Members = append(e.Members, memberOf(mem))
		}

	case *descriptor.Container:
		e.Shape = v.Shape.String()

	case *descriptor.Map:
		e.Shape = v.Shape.String()
	}

	return e
}

func memberOf(mem *descriptor.Member) Member {
	out := Member{
		Name:        mem.Name,
		Kind:        mem.Kind.String(),
		Outcome:     mem.Outcome.String(),
		Synthesized: mem.Synthesized,
	}
	if mem.DeclaringInterface != nil {
		out.DeclaredBy = mem.DeclaringInterface.PublicName()
	}

	return out
}

func diagnosticOf(d diagnostic.Diagnostic) Diagnostic {
	return Diagnostic{
		Severity: d.Severity.String(),
		Code:     d.Code,
		Message:  d.Message,
		Type:     d.Type,
		Member:   d.Member,
	}
}

// Marshal serializes a manifest to YAML.
func Marshal(m *Manifest) ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "marshal manifest")
	}

	return data, nil
}

// Parse reads a manifest back.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "parse manifest")
	}

	return &m, nil
}

// Find returns the entry with the given public name.
func (m *Manifest) Find(public string) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Public == public {
			return e, true
		}
	}

	return Entry{}, false
}

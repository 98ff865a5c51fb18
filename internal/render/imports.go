package render

import (
	"go/types"
	"sort"

	"facade-generator/internal/common"
	"facade-generator/internal/naming"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
	name  string
}

// imports tracks the packages a file refers to. Packages whose names clash
// get a numbered alias.
type imports struct {
	byPath map[string]importSpec
	taken  map[string]struct{}
}

func newImports() *imports {
	return &imports{
		byPath: make(map[string]importSpec),
		taken:  make(map[string]struct{}),
	}
}

// add records pkgPath and returns the name the file refers to it by.
func (im *imports) add(pkgPath, name string) string {
	if spec, ok := im.byPath[pkgPath]; ok {
		return spec.name
	}

	if name == "" {
		name = common.PkgAlias(pkgPath)
	}
	name = naming.Unique(im.taken, name, "")

	spec := importSpec{Path: pkgPath, name: name}
	if name != common.PkgAlias(pkgPath) {
		spec.Alias = name
	}
	im.byPath[pkgPath] = spec

	return name
}

// qualifier is a types.Qualifier that records every package it sees.
func (im *imports) qualifier(p *types.Package) string {
	return im.add(p.Path(), p.Name())
}

// has reports whether name is the name of an imported package.
func (im *imports) has(name string) bool {
	_, ok := im.taken[name]
	return ok
}

// sorted returns the imports ordered by path.
func (im *imports) sorted() []importSpec {
	out := make([]importSpec, 0, len(im.byPath))
	for _, spec := range im.byPath {
		out = append(out, spec)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})

	return out
}

// packageNames returns the names of every package mentioned by ts, without
// importing them.
func packageNames(ts ...types.Type) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range ts {
		if t == nil {
			continue
		}
		types.TypeString(t, func(p *types.Package) string {
			out[p.Name()] = struct{}{}
			return p.Name()
		})
	}

	return out
}

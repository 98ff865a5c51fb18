// Package fixture type-checks inline Go sources for tests.
package fixture

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// Importer resolves fixture packages first and the standard library otherwise.
type Importer struct {
	fset *token.FileSet
	pkgs map[string]*types.Package
	std  types.Importer
}

// NewImporter returns an importer with no fixture packages.
func NewImporter() *Importer {
	fset := token.NewFileSet()

	return &Importer{
		fset: fset,
		pkgs: make(map[string]*types.Package),
		std:  importer.ForCompiler(fset, "source", nil),
	}
}

// Import implements types.Importer.
func (i *Importer) Import(path string) (*types.Package, error) {
	if pkg, ok := i.pkgs[path]; ok {
		return pkg, nil
	}

	return i.std.Import(path)
}

// Add type-checks src as the package at path and makes it importable.
func (i *Importer) Add(path, src string) (*types.Package, error) {
	file, err := parser.ParseFile(i.fset, path+".go", src, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	conf := types.Config{Importer: i}
	pkg, err := conf.Check(path, i.fset, []*ast.File{file}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "check %s", path)
	}

	i.pkgs[path] = pkg

	return pkg, nil
}

// Package type-checks a single package or fails the test.
func Package(t testing.TB, path, src string) *types.Package {
	t.Helper()

	pkg, err := NewImporter().Add(path, src)
	require.NoError(t, err)

	return pkg
}

// Type returns the named type declared in pkg or fails the test.
func Type(t testing.TB, pkg *types.Package, name string) types.Type {
	t.Helper()

	obj := pkg.Scope().Lookup(name)
	require.NotNil(t, obj, "%s.%s not declared", pkg.Path(), name)

	tn, ok := obj.(*types.TypeName)
	require.True(t, ok, "%s.%s is not a type", pkg.Path(), name)

	return tn.Type()
}

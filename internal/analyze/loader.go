package analyze

import (
	"context"
	"go/types"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"facade-generator/internal/match"
	"facade-generator/internal/policy"
)

// ErrTypeNotFound is returned when a root type id does not resolve.
var ErrTypeNotFound = errors.New("type not found")

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedDeps

// Loader loads Go packages and exposes them as a Universe.
type Loader struct {
	dir    string
	logger *zap.Logger
	pkgs   map[string]*types.Package
}

// NewLoader creates a new Loader resolving patterns relative to dir.
func NewLoader(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{
		dir:    dir,
		logger: logger,
		pkgs:   make(map[string]*types.Package),
	}
}

// Load loads the specified packages and their dependencies.
// Patterns are standard Go package patterns (e.g., "./foreign", "example.com/foreign/...").
func (l *Loader) Load(ctx context.Context, patterns ...string) error {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     l.dir,
		Mode:    LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return errors.Wrap(err, "failed to load packages")
	}

	// Check for package errors
	var errs []string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}
		if pkg.Types != nil {
			l.pkgs[pkg.PkgPath] = pkg.Types
		}
	})
	if len(errs) > 0 {
		return errors.Newf("package errors: %s", strings.Join(errs, "; "))
	}

	l.logger.Debug("packages loaded",
		zap.Strings("patterns", patterns),
		zap.Int("packages", len(l.pkgs)))

	return nil
}

// Packages returns every loaded package, dependencies included.
func (l *Loader) Packages() []*types.Package {
	out := make([]*types.Package, 0, len(l.pkgs))
	for _, pkg := range l.pkgs {
		out = append(out, pkg)
	}

	return out
}

// Universe returns a Universe over the loaded packages.
func (l *Loader) Universe(scope policy.Scope) *PackageUniverse {
	return NewUniverse(scope, l.Packages()...)
}

// Resolve looks up root type ids among the loaded packages.
func (l *Loader) Resolve(ids ...string) ([]types.Type, error) {
	return ResolveRoots(l.Packages(), ids...)
}

// ResolveRoots looks up root type ids in pkgs.
func ResolveRoots(pkgs []*types.Package, ids ...string) ([]types.Type, error) {
	byPath := make(map[string]*types.Package, len(pkgs))
	for _, pkg := range pkgs {
		byPath[pkg.Path()] = pkg
	}

	out := make([]types.Type, 0, len(ids))
	for _, s := range ids {
		id, err := ParseTypeID(s)
		if err != nil {
			return nil, err
		}

		pkg, ok := byPath[id.PkgPath]
		if !ok {
			return nil, errors.WithHint(
				errors.Wrapf(ErrTypeNotFound, "%s: package %s not loaded", id, id.PkgPath),
				"add the package to the packages list",
			)
		}

		tn, ok := pkg.Scope().Lookup(id.Name).(*types.TypeName)
		if !ok {
			err := errors.Wrapf(ErrTypeNotFound, "%s", id)
			if near := match.Suggest(id.Name, typeNames(pkg), 3); len(near) > 0 {
				err = errors.WithHintf(err, "did you mean %s?", strings.Join(near, ", "))
			}

			return nil, err
		}

		out = append(out, tn.Type())
	}

	return out, nil
}

func typeNames(pkg *types.Package) []string {
	var out []string
	for _, name := range pkg.Scope().Names() {
		if tn, ok := pkg.Scope().Lookup(name).(*types.TypeName); ok && tn.Exported() {
			out = append(out, name)
		}
	}

	return out
}

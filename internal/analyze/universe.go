package analyze

import (
	"go/types"
	"sort"
	"strings"

	"facade-generator/internal/policy"
)

// Universe answers the classifier's questions about foreign types.
type Universe interface {
	policy.Scope

	// ExportedTypes lists every exported type name of the in-scope packages.
	ExportedTypes() []*types.TypeName
	// Fields lists the exported and embedded fields of a struct type.
	Fields(named *types.Named) []*types.Var
	// Methods lists the exported methods of named, value and pointer receivers
	// alike. Interfaces report their complete method set.
	Methods(named *types.Named) []*types.Func
	// Embedded lists the types embedded in an interface or struct.
	Embedded(named *types.Named) []types.Type
	// Constants lists the package-level constants typed as named.
	Constants(named *types.Named) []*types.Const
	// Constructors lists the package-level NewT functions returning named or *named.
	Constructors(named *types.Named) []*types.Func
}

// PackageUniverse is a Universe over type-checked packages.
type PackageUniverse struct {
	policy.Scope

	pkgs []*types.Package
}

// NewUniverse returns a Universe over pkgs, filtered by scope.
func NewUniverse(scope policy.Scope, pkgs ...*types.Package) *PackageUniverse {
	sorted := append([]*types.Package(nil), pkgs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path() < sorted[j].Path() })

	return &PackageUniverse{Scope: scope, pkgs: sorted}
}

// ExportedTypes implements Universe.
func (u *PackageUniverse) ExportedTypes() []*types.TypeName {
	var out []*types.TypeName
	for _, pkg := range u.pkgs {
		for _, name := range pkg.Scope().Names() {
			tn, ok := pkg.Scope().Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || tn.IsAlias() {
				continue
			}
			if u.IsTypeInScope(tn) {
				out = append(out, tn)
			}
		}
	}

	return out
}

// Fields implements Universe.
func (u *PackageUniverse) Fields(named *types.Named) []*types.Var {
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	var out []*types.Var
	for i := range st.NumFields() {
		f := st.Field(i)
		if f.Exported() || f.Embedded() {
			out = append(out, f)
		}
	}

	return out
}

// Methods implements Universe.
func (u *PackageUniverse) Methods(named *types.Named) []*types.Func {
	var out []*types.Func

	if iface, ok := named.Underlying().(*types.Interface); ok {
		for i := range iface.NumMethods() {
			if m := iface.Method(i); m.Exported() {
				out = append(out, m)
			}
		}

		return out
	}

	for i := range named.NumMethods() {
		if m := named.Method(i); m.Exported() {
			out = append(out, m)
		}
	}

	return out
}

// Embedded implements Universe.
func (u *PackageUniverse) Embedded(named *types.Named) []types.Type {
	var out []types.Type

	switch ut := named.Underlying().(type) {
	case *types.Interface:
		for i := range ut.NumEmbeddeds() {
			out = append(out, ut.EmbeddedType(i))
		}
	case *types.Struct:
		for i := range ut.NumFields() {
			if f := ut.Field(i); f.Embedded() {
				out = append(out, f.Type())
			}
		}
	}

	return out
}

// Constants implements Universe.
func (u *PackageUniverse) Constants(named *types.Named) []*types.Const {
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil
	}

	var out []*types.Const
	for _, name := range pkg.Scope().Names() {
		c, ok := pkg.Scope().Lookup(name).(*types.Const)
		if ok && c.Exported() && types.Identical(c.Type(), named) {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Pos() < out[j].Pos() })

	return out
}

// Constructors implements Universe.
func (u *PackageUniverse) Constructors(named *types.Named) []*types.Func {
	obj := named.Obj()
	if obj.Pkg() == nil || named.TypeParams().Len() > 0 {
		return nil
	}

	prefix := "New" + obj.Name()

	var out []*types.Func
	for _, name := range obj.Pkg().Scope().Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		fn, ok := obj.Pkg().Scope().Lookup(name).(*types.Func)
		if !ok {
			continue
		}

		sig := fn.Type().(*types.Signature)
		if sig.TypeParams().Len() > 0 || sig.Results().Len() == 0 {
			continue
		}

		res := sig.Results().At(0).Type()
		if ptr, ok := res.(*types.Pointer); ok {
			res = ptr.Elem()
		}
		if types.Identical(res, named) {
			out = append(out, fn)
		}
	}

	return out
}

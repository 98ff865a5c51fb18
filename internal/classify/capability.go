package classify

import (
	"go/types"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"facade-generator/internal/descriptor"
	"facade-generator/internal/diagnostic"
	"facade-generator/internal/policy"
)

func (c *Classifier) classifyCapability(named *types.Named) (descriptor.Descriptor, error) {
	suffix := typeArgsIdent(named)
	public := c.claimForeign(named.Obj(), suffix+c.config.Naming.InterfaceSuffix)
	internal := c.claimForeign(named.Obj(), suffix+c.config.Naming.AdapterSuffix)
	if internal == public {
		internal = c.names.Claim(public + "Impl")
	}

	d := descriptor.NewCapability(named, public, internal)
	if !d.Interface {
		d.ValueName = c.names.Claim(internal + "Value")
	}

	// Registered before recursing: members may refer back to the type.
	if err := c.graph.Register(d); err != nil {
		return nil, err
	}
	if !d.Interface {
		c.graph.Alias(types.NewPointer(named), d)
	}

	if err := c.resolveBase(d); err != nil {
		return nil, errors.Wrapf(err, "base of %s", named.Obj().Name())
	}
	if err := c.resolveImplements(d); err != nil {
		return nil, errors.Wrapf(err, "contracts of %s", named.Obj().Name())
	}
	if err := c.resolveMembers(d); err != nil {
		return nil, errors.Wrapf(err, "members of %s", named.Obj().Name())
	}
	if err := c.resolveConstructors(d); err != nil {
		return nil, errors.Wrapf(err, "constructors of %s", named.Obj().Name())
	}
	if err := c.inferElement(d); err != nil {
		return nil, err
	}

	return d, nil
}

// capabilityOf classifies t when it is, or points to, an in-scope struct or
// interface; otherwise it returns nil.
func (c *Classifier) capabilityOf(t types.Type) (*descriptor.Capability, bool, error) {
	byPtr := false
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
		byPtr = true
	}

	named, ok := types.Unalias(t).(*types.Named)
	if !ok || !named.Obj().Exported() || !c.inScope(named) {
		return nil, false, nil
	}

	d, err := c.Classify(named)
	if err != nil {
		return nil, false, err
	}

	capability, _ := d.(*descriptor.Capability)

	return capability, byPtr, nil
}

// resolveBase links the first embedded in-scope struct, or else the first
// embedded in-scope interface.
func (c *Classifier) resolveBase(d *descriptor.Capability) error {
	var firstIface *descriptor.Capability
	var firstIfaceField string

	st, _ := d.Named.Underlying().(*types.Struct)

	for i, et := range c.universe.Embedded(d.Named) {
		base, byPtr, err := c.capabilityOf(et)
		if err != nil {
			return err
		}
		if base == nil {
			continue
		}

		field := ""
		if st != nil {
			field = embeddedFieldName(st, et)
		}

		if base.Interface && !d.Interface {
			if firstIface == nil {
				firstIface, firstIfaceField = base, field
			}
			continue
		}

		d.Base = base
		d.BaseField = field
		d.BaseByPointer = byPtr
		base.AddSubtype(d)

		c.logger.Debug("base linked",
			zap.String("type", d.PublicName()),
			zap.String("base", base.PublicName()),
			zap.Int("embedded", i))

		return nil
	}

	if firstIface != nil {
		d.Base = firstIface
		d.BaseField = firstIfaceField
		firstIface.AddSubtype(d)
	}

	return nil
}

func embeddedFieldName(st *types.Struct, et types.Type) string {
	for i := range st.NumFields() {
		if f := st.Field(i); f.Embedded() && types.Identical(f.Type(), et) {
			return f.Name()
		}
	}

	return ""
}

// resolveImplements records the in-scope interfaces the type satisfies.
// Interfaces implement what they embed; concrete types anything whose
// method set they cover.
func (c *Classifier) resolveImplements(d *descriptor.Capability) error {
	if d.Interface {
		for _, et := range c.universe.Embedded(d.Named) {
			iface, _, err := c.capabilityOf(et)
			if err != nil {
				return err
			}
			if iface != nil && iface.Interface && c.universe.IsContractInScope(d.Named.Obj(), iface.Named.Obj()) {
				d.Implements = append(d.Implements, iface)
			}
		}

		return nil
	}

	ptr := types.NewPointer(d.Named)

	for _, tn := range c.universe.ExportedTypes() {
		if tn == d.Named.Obj() {
			continue
		}

		named, ok := tn.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		iface, ok := named.Underlying().(*types.Interface)
		if !ok || iface.Empty() || !c.universe.IsContractInScope(d.Named.Obj(), tn) {
			continue
		}
		if !types.Implements(ptr, iface) {
			continue
		}

		contract, _, err := c.capabilityOf(named)
		if err != nil {
			return err
		}
		if contract == nil {
			continue
		}

		d.Implements = append(d.Implements, contract)
		if d.Base != contract {
			contract.AddSubtype(d)
		}
	}

	return nil
}

func (c *Classifier) resolveMembers(d *descriptor.Capability) error {
	setters := make(map[string]bool)
	for _, m := range c.universe.Methods(d.Named) {
		setters[m.Name()] = true
	}

	for _, f := range c.universe.Fields(d.Named) {
		m, err := c.fieldMember(d, f, setters)
		if err != nil {
			return errors.Wrapf(err, "field %s", f.Name())
		}
		if m != nil {
			d.Members = append(d.Members, m)
		}
	}

	inherited := c.inheritedMethods(d)

	for _, fn := range c.universe.Methods(d.Named) {
		if inherited[fn.Name()] {
			continue
		}

		m, err := c.operation(policy.MemberOperation, fn)
		if err != nil {
			return errors.Wrapf(err, "method %s", fn.Name())
		}
		d.Members = append(d.Members, m)
	}

	return nil
}

// inheritedMethods lists the methods an interface gets from its base.
func (c *Classifier) inheritedMethods(d *descriptor.Capability) map[string]bool {
	out := make(map[string]bool)
	if !d.Interface || d.Base == nil {
		return out
	}

	for _, m := range c.universe.Methods(d.Base.Named) {
		out[m.Name()] = true
	}

	return out
}

func (c *Classifier) fieldMember(d *descriptor.Capability, f *types.Var, setters map[string]bool) (*descriptor.Member, error) {
	if f.Embedded() {
		if f.Name() == d.BaseField && d.Base != nil {
			return nil, nil
		}

		embedded, _, err := c.capabilityOf(f.Type())
		if err != nil {
			return nil, err
		}
		if embedded == nil || !f.Exported() {
			c.diags.Infof(diagnostic.At{Type: d.PublicName(), Member: f.Name()}, "embedded_skipped", "embedded field is not an in-scope capability")
			return nil, nil
		}
	}

	if ch, ok := f.Type().Underlying().(*types.Chan); ok {
		if ch.Dir() == types.SendOnly {
			c.diags.Infof(diagnostic.At{Type: d.PublicName(), Member: f.Name()}, "send_only_event", "send-only channel field is not an event")
			return nil, nil
		}

		desc, err := c.Classify(ch.Elem())
		if err != nil {
			return nil, err
		}

		return &descriptor.Member{
			Kind:   policy.MemberEvent,
			Name:   f.Name(),
			Object: f,
			Type:   ch.Elem(),
			Desc:   desc,
		}, nil
	}

	desc, err := c.Classify(f.Type())
	if err != nil {
		return nil, err
	}

	return &descriptor.Member{
		Kind:     policy.MemberProperty,
		Name:     f.Name(),
		Object:   f,
		Type:     f.Type(),
		Desc:     desc,
		Settable: !d.Interface && !setters["Set"+f.Name()],
	}, nil
}

func (c *Classifier) operation(kind policy.MemberKind, fn *types.Func) (*descriptor.Member, error) {
	sig := fn.Type().(*types.Signature)

	params, err := c.params(descriptor.ParamsOf(sig.Params()))
	if err != nil {
		return nil, err
	}
	results, err := c.params(descriptor.ParamsOf(sig.Results()))
	if err != nil {
		return nil, err
	}

	return &descriptor.Member{
		Kind:     kind,
		Name:     fn.Name(),
		Object:   fn,
		Params:   params,
		Results:  results,
		Variadic: sig.Variadic(),
	}, nil
}

func (c *Classifier) resolveConstructors(d *descriptor.Capability) error {
	if d.Interface {
		return nil
	}

	for _, fn := range c.universe.Constructors(d.Named) {
		m, err := c.operation(policy.MemberConstructor, fn)
		if err != nil {
			return errors.Wrapf(err, "constructor %s", fn.Name())
		}
		d.Constructors = append(d.Constructors, m)
	}

	return nil
}

package build

import (
	"facade-generator/internal/descriptor"
	"facade-generator/internal/policy"
)

// resolveCapability applies the member policy, links members to the
// interfaces declaring them, detects shadowing and records dependents.
func (b *Builder) resolveCapability(d *descriptor.Capability) error {
	var err error
	if d.Members, err = b.applyPolicy(d, d.Members); err != nil {
		return err
	}
	if d.Constructors, err = b.applyPolicy(d, d.Constructors); err != nil {
		return err
	}

	declared := declaringIndex(d)
	inherited := inheritedIndex(d)

	for _, m := range d.Members {
		if iface, ok := declared[m.Key()]; ok && iface != d {
			m.DeclaringInterface = iface
		}
		if keys, ok := inherited[m.Name]; ok && !keys[m.Key()] {
			m.Shadows = true
		}
	}

	if d.Base != nil {
		d.AddDependent(d.Base)
	}
	for _, iface := range d.Implements {
		d.AddDependent(iface)
	}
	for _, sub := range d.DirectSubtypes {
		d.AddDependent(sub)
	}
	d.AddDependent(d.Element)

	addMemberDependents(d, d.Members)
	addMemberDependents(d, d.Constructors)

	return nil
}

func addMemberDependents(d *descriptor.Capability, members []*descriptor.Member) {
	for _, m := range members {
		for _, dep := range m.Descriptors() {
			d.AddDependent(dep)
		}
	}
}

func (b *Builder) applyPolicy(d *descriptor.Capability, members []*descriptor.Member) ([]*descriptor.Member, error) {
	kept := members[:0]
	for _, m := range members {
		o, err := b.config.Policy.Outcome(m.Kind, d.Named, m.Object)
		if err != nil {
			return nil, err
		}
		if o == policy.OutcomeOmit {
			continue
		}

		m.Outcome = o
		kept = append(kept, m)
	}

	return kept, nil
}

// declaringIndex maps each signature key to the first implemented
// capability interface, or one of its bases, that declares it.
func declaringIndex(d *descriptor.Capability) map[descriptor.SignatureKey]*descriptor.Capability {
	out := make(map[descriptor.SignatureKey]*descriptor.Capability)
	for _, iface := range d.Implements {
		for _, c := range iface.Chain() {
			for _, m := range c.Members {
				if _, ok := out[m.Key()]; !ok {
					out[m.Key()] = c
				}
			}
		}
	}

	return out
}

// inheritedIndex maps member names declared by the bases of d to their keys.
func inheritedIndex(d *descriptor.Capability) map[string]map[descriptor.SignatureKey]bool {
	out := make(map[string]map[descriptor.SignatureKey]bool)
	for _, c := range d.Chain()[1:] {
		for _, m := range c.Members {
			if out[m.Name] == nil {
				out[m.Name] = make(map[descriptor.SignatureKey]bool)
			}
			out[m.Name][m.Key()] = true
		}
	}

	return out
}

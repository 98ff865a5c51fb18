package classify

import (
	"go/types"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"facade-generator/internal/descriptor"
	"facade-generator/internal/diagnostic"
	"facade-generator/internal/policy"
)

// ErrInferenceFailed is returned for a legacy container whose element type
// cannot be inferred when the loose fallback is disabled.
var ErrInferenceFailed = errors.New("legacy container element type could not be inferred")

var (
	accessorNames  = []string{"At", "Get", "Item", "Index"}
	insertPrefixes = []string{"Add", "Append", "Insert", "Push"}
	removePrefixes = []string{"Remove", "Delete", "Pop"}
	anyType        = types.Universe.Lookup("any").Type()
)

// inferElement detects a legacy container: a capability iterating untyped
// values through All() iter.Seq[any] or Each(func(any) bool) with no typed
// iteration. It infers the element type from the other operations and
// replaces the weak members with typed ones.
func (c *Classifier) inferElement(d *descriptor.Capability) error {
	ops := operations(d)

	iteration := untypedIteration(ops)
	if iteration == nil {
		return nil
	}

	d.LooseContracts = append(d.LooseContracts, descriptor.ContractEnumerable)
	if m := ops["Len"]; m != nil && isSig(m, []types.Type{}, tInt) {
		d.LooseContracts = append(d.LooseContracts, descriptor.ContractCountable)
	}
	if at, set := ops["At"], ops["SetAt"]; at != nil && set != nil &&
		isSig(at, []types.Type{tInt}, anyType) && isSig(set, []types.Type{tInt, anyType}) {
		d.LooseContracts = append(d.LooseContracts, descriptor.ContractFixedList)
	}

	elem, rule := inferElementType(ops)
	if elem == nil {
		if !c.config.AllowLooseFallback {
			return errors.WithHint(
				errors.Wrapf(ErrInferenceFailed, "%s", d.Named.Obj().Name()),
				"add a typed accessor or enable allow_loose_fallback",
			)
		}

		c.diags.Infof(diagnostic.At{Type: d.PublicName()}, "legacy_inference_failed", "element type could not be inferred; keeping the loose contract")
		c.logger.Warn("legacy inference failed", zap.String("type", d.PublicName()))

		return nil
	}

	ed, err := c.Classify(elem)
	if err != nil {
		return errors.Wrapf(err, "element of %s", d.Named.Obj().Name())
	}

	d.ElementType = elem
	d.Element = ed

	c.logger.Debug("legacy element inferred",
		zap.String("type", d.PublicName()),
		zap.String("element", ed.PublicName()),
		zap.String("rule", rule))

	c.synthesize(d, ops, iteration)

	return nil
}

// operations indexes the operations of d and its bases by name, nearest first.
func operations(d *descriptor.Capability) map[string]*descriptor.Member {
	out := make(map[string]*descriptor.Member)
	for _, cur := range d.Chain() {
		for _, m := range cur.Members {
			if m.Kind != policy.MemberOperation {
				continue
			}
			if _, ok := out[m.Name]; !ok {
				out[m.Name] = m
			}
		}
	}

	return out
}

func untypedIteration(ops map[string]*descriptor.Member) *descriptor.Member {
	if all := ops["All"]; all != nil && len(all.Params) == 0 && len(all.Results) == 1 {
		args := seqArgs(all.Results[0].Type, "Seq")
		if len(args) != 1 {
			return nil
		}
		if isAny(args[0]) {
			return all
		}

		// Typed iteration: not a legacy container.
		return nil
	}

	each := ops["Each"]
	if each == nil || len(each.Params) != 1 || len(each.Results) != 0 {
		return nil
	}

	yield, ok := each.Params[0].Type.Underlying().(*types.Signature)
	if !ok || yield.Params().Len() != 1 || !isAny(yield.Params().At(0).Type()) ||
		yield.Results().Len() != 1 || !types.Identical(yield.Results().At(0).Type(), tBool) {
		return nil
	}

	return each
}

// inferElementType applies the inference rules in order and returns the
// first unique answer with the rule that produced it.
func inferElementType(ops map[string]*descriptor.Member) (types.Type, string) {
	if t := uniqueType(accessorResults(ops)); t != nil {
		return t, "accessor"
	}

	inserts := singleParam(ops, insertPrefixes)
	if t := onlyParam(inserts); t != nil {
		return t, "insertion"
	}
	if t := onlyParam(singleParam(ops, removePrefixes)); t != nil {
		return t, "removal"
	}

	// All insertion operations agreeing on one result type.
	var results []types.Type
	for _, m := range inserts {
		if len(m.Results) != 1 {
			return nil, ""
		}
		results = append(results, m.Results[0].Type)
	}
	if t := uniqueType(results); t != nil {
		return t, "insertion_result"
	}

	return nil, ""
}

// accessorResults returns the result types of indexer-like accessors:
// one int parameter, one result.
func accessorResults(ops map[string]*descriptor.Member) []types.Type {
	var out []types.Type
	for _, name := range accessorNames {
		m := ops[name]
		if m == nil || len(m.Params) != 1 || len(m.Results) != 1 || !types.Identical(m.Params[0].Type, tInt) {
			continue
		}
		if !isAny(m.Results[0].Type) {
			out = append(out, m.Results[0].Type)
		}
	}

	return out
}

// singleParam returns the single-parameter operations whose name starts
// with one of prefixes, in name order.
func singleParam(ops map[string]*descriptor.Member, prefixes []string) []*descriptor.Member {
	var out []*descriptor.Member
	for _, name := range sortedNames(ops) {
		m := ops[name]
		if len(m.Params) != 1 || m.Variadic || !hasAnyPrefix(name, prefixes) {
			continue
		}
		out = append(out, m)
	}

	return out
}

// onlyParam returns the parameter type of the one strongly typed candidate
// whose results are empty, a bool or an integer.
func onlyParam(ms []*descriptor.Member) types.Type {
	var found types.Type
	n := 0
	for _, m := range ms {
		if !simpleResult(m) || isAny(m.Params[0].Type) {
			continue
		}
		found = m.Params[0].Type
		n++
	}
	if n != 1 {
		return nil
	}

	return found
}

func simpleResult(m *descriptor.Member) bool {
	switch len(m.Results) {
	case 0:
		return true
	case 1:
		b, ok := m.Results[0].Type.Underlying().(*types.Basic)
		return ok && b.Info()&(types.IsBoolean|types.IsInteger) != 0
	default:
		return false
	}
}

func uniqueType(ts []types.Type) types.Type {
	if len(ts) == 0 || isAny(ts[0]) {
		return nil
	}
	for _, t := range ts[1:] {
		if !types.Identical(t, ts[0]) {
			return nil
		}
	}

	return ts[0]
}

// synthesize adds the typed members matching the loose contracts and drops
// the weak members they replace.
func (c *Classifier) synthesize(d *descriptor.Capability, ops map[string]*descriptor.Member, iteration *descriptor.Member) {
	elem := func() []*descriptor.Param {
		return []*descriptor.Param{{Name: "v", Type: d.ElementType, Desc: d.Element}}
	}
	index := func() *descriptor.Param {
		return &descriptor.Param{Name: "i", Type: tInt, Desc: c.mustPlain(tInt)}
	}

	synth := []*descriptor.Member{{
		Kind:    policy.MemberOperation,
		Name:    "All",
		Results: elem(),
		Loose:   iteration,
		Yields:  true,
	}}

	if d.HasContract(descriptor.ContractFixedList) {
		synth = append(synth,
			&descriptor.Member{
				Kind:    policy.MemberOperation,
				Name:    "At",
				Params:  []*descriptor.Param{index()},
				Results: elem(),
				Loose:   ops["At"],
			},
			&descriptor.Member{
				Kind:   policy.MemberOperation,
				Name:   "SetAt",
				Params: append([]*descriptor.Param{index()}, elem()...),
				Loose:  ops["SetAt"],
			},
		)

		if add := looseInsertion(ops); add != nil {
			synth = append(synth, &descriptor.Member{
				Kind:   policy.MemberOperation,
				Name:   "Append",
				Params: elem(),
				Loose:  add,
			})
		}
	}

	if d.HasContract(descriptor.ContractCountable) {
		synth = append(synth, &descriptor.Member{
			Kind:    policy.MemberOperation,
			Name:    "Len",
			Results: []*descriptor.Param{{Type: tInt, Desc: c.mustPlain(tInt)}},
			Loose:   ops["Len"],
		})
	}

	replaced := make(map[string]bool, len(synth))
	delegates := make(map[*descriptor.Member]bool, len(synth))
	for _, m := range synth {
		m.Synthesized = true
		replaced[m.Name] = true
		if m.Loose != nil {
			delegates[m.Loose] = true
		}
	}

	// A loose member a synthesized one delegates to is weakly typed and
	// duplicates it, so only the typed member is exposed.
	kept := d.Members[:0]
	for _, m := range d.Members {
		if (replaced[m.Name] || delegates[m]) && m.Kind == policy.MemberOperation {
			continue
		}
		kept = append(kept, m)
	}

	d.Members = append(kept, synth...)
}

// looseInsertion returns the insertion operation the synthesized Append
// delegates to: Append itself, else a single-parameter insertion taking any.
func looseInsertion(ops map[string]*descriptor.Member) *descriptor.Member {
	if m := ops["Append"]; m != nil && len(m.Params) == 1 {
		return m
	}
	for _, m := range singleParam(ops, insertPrefixes) {
		if isAny(m.Params[0].Type) {
			return m
		}
	}

	return nil
}

func (c *Classifier) mustPlain(t types.Type) descriptor.Descriptor {
	d, err := c.Classify(t)
	if err != nil {
		panic(err)
	}

	return d
}

func isAny(t types.Type) bool {
	iface, ok := types.Unalias(t).(*types.Interface)
	return ok && iface.Empty()
}

func isSig(m *descriptor.Member, params []types.Type, results ...types.Type) bool {
	if len(m.Params) != len(params) || len(m.Results) != len(results) {
		return false
	}
	for i, p := range params {
		if !types.Identical(m.Params[i].Type, p) {
			return false
		}
	}
	for i, r := range results {
		if !types.Identical(m.Results[i].Type, r) {
			return false
		}
	}

	return true
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}

func sortedNames(ops map[string]*descriptor.Member) []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

package descriptor

import (
	"go/types"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/types/typeutil"
)

// Graph is the identity-keyed memo of one build. It owns every descriptor.
type Graph struct {
	memo  typeutil.Map
	order []Descriptor
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	g := &Graph{}
	g.memo.SetHasher(typeutil.MakeHasher())

	return g
}

// Lookup returns the descriptor registered for t.
func (g *Graph) Lookup(t types.Type) (Descriptor, bool) {
	if t == nil {
		return nil, false
	}

	d, ok := g.memo.At(t).(Descriptor)

	return d, ok
}

// Register adds d under its identity. Registering a second descriptor for
// the same identity is an error.
func (g *Graph) Register(d Descriptor) error {
	if prev, ok := g.Lookup(d.Identity()); ok {
		return errors.Newf("type %s already described by %s", types.TypeString(d.Identity(), nil), prev.PublicName())
	}

	g.memo.Set(d.Identity(), d)
	g.order = append(g.order, d)

	return nil
}

// Alias makes t resolve to an already registered descriptor, e.g. *T to T.
func (g *Graph) Alias(t types.Type, d Descriptor) {
	if _, ok := g.Lookup(t); ok {
		return
	}

	g.memo.Set(t, d)
}

// Descriptors returns every registered descriptor in registration order.
func (g *Graph) Descriptors() []Descriptor {
	return g.order
}

// Len returns the number of registered descriptors.
func (g *Graph) Len() int {
	return len(g.order)
}

// Pending returns the descriptors still waiting to be built.
func (g *Graph) Pending() []Descriptor {
	var out []Descriptor
	for _, d := range g.order {
		if d.Status() == StatusPending {
			out = append(out, d)
		}
	}

	return out
}

// Counts returns the number of descriptors per status.
func (g *Graph) Counts() map[Status]int {
	out := make(map[Status]int)
	for _, d := range g.order {
		out[d.Status()]++
	}

	return out
}

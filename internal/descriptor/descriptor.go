package descriptor

import (
	"go/types"

	"github.com/cockroachdb/errors"
)

// ErrStatusRegression is returned when a status transition does not move
// exactly one step forward.
var ErrStatusRegression = errors.New("build status may only move forward")

// Descriptor is one node of the type graph.
type Descriptor interface {
	// Identity is the go/types type this descriptor stands for.
	Identity() types.Type
	Kind() Kind
	// PublicName is the abstraction name calling code uses.
	PublicName() string
	// InternalName is the name of the concrete generated declaration.
	InternalName() string
	Status() Status
	// Advance moves the status to next, which must follow the current status.
	Advance(next Status) error
	// Dependents are the descriptors the artifact references, in discovery order.
	Dependents() []Descriptor
	// AddDependent records d as referenced. Plain descriptors, nil and self are ignored.
	AddDependent(d Descriptor)
}

// node carries the state shared by every variant.
type node struct {
	identity   types.Type
	public     string
	internal   string
	status     Status
	dependents []Descriptor
	seen       map[Descriptor]struct{}
}

func newNode(identity types.Type, public, internal string, status Status) node {
	return node{
		identity: identity,
		public:   public,
		internal: internal,
		status:   status,
	}
}

func (n *node) Identity() types.Type { return n.identity }

func (n *node) PublicName() string { return n.public }

func (n *node) InternalName() string { return n.internal }

func (n *node) Status() Status { return n.status }

func (n *node) Advance(next Status) error {
	if n.status == StatusNotApplicable || next != n.status+1 {
		return errors.Wrapf(ErrStatusRegression, "%s: %s -> %s", n.public, n.status, next)
	}

	n.status = next

	return nil
}

func (n *node) Dependents() []Descriptor { return n.dependents }

func (n *node) AddDependent(d Descriptor) {
	if d == nil || d.Kind() == KindPlain || types.Identical(d.Identity(), n.identity) {
		return
	}

	if n.seen == nil {
		n.seen = make(map[Descriptor]struct{})
	}
	if _, ok := n.seen[d]; ok {
		return
	}

	n.seen[d] = struct{}{}
	n.dependents = append(n.dependents, d)
}

// Qualified returns the fully qualified name of a descriptor inside pkg,
// e.g. "example.com/app/facade.WidgetInterface".
func Qualified(pkg string, d Descriptor) string {
	if d.Kind() == KindPlain || pkg == "" {
		return d.PublicName()
	}

	return pkg + "." + d.PublicName()
}

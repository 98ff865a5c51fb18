package descriptor

import "facade-generator/internal/common"

// Kind is the descriptor variant.
type Kind int

const (
	KindPlain Kind = iota
	KindCapability
	KindContainer
	KindMap
	KindEnumeration
	KindFunctionReference
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindCapability:
		return "capability"
	case KindContainer:
		return "container"
	case KindMap:
		return "map"
	case KindEnumeration:
		return "enumeration"
	case KindFunctionReference:
		return "function_reference"
	default:
		return common.UnknownStr
	}
}

// Status is the build state of a descriptor.
type Status int

const (
	StatusNotApplicable Status = iota
	StatusPending
	StatusInProgress
	StatusDone
)

// String returns a human-readable representation of the Status.
func (s Status) String() string {
	switch s {
	case StatusNotApplicable:
		return "not_applicable"
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusDone:
		return "done"
	default:
		return common.UnknownStr
	}
}

// Shape is the collection contract a Container or Map descriptor renders to.
type Shape int

const (
	ShapeArray Shape = iota
	ShapeList
	ShapeSet
	ShapeCollection
	ShapeSequence
	ShapeReadOnlyList
	ShapeReadOnlyCollection
	ShapeMap
	ShapeReadOnlyMap
)

// String returns a human-readable representation of the Shape.
func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeList:
		return "list"
	case ShapeSet:
		return "set"
	case ShapeCollection:
		return "collection"
	case ShapeSequence:
		return "sequence"
	case ShapeReadOnlyList:
		return "read_only_list"
	case ShapeReadOnlyCollection:
		return "read_only_collection"
	case ShapeMap:
		return "map"
	case ShapeReadOnlyMap:
		return "read_only_map"
	default:
		return common.UnknownStr
	}
}

// Contract is the name of the adapt contract and adapter family for the shape.
func (s Shape) Contract() string {
	switch s {
	case ShapeArray, ShapeList:
		return "List"
	case ShapeSet:
		return "Set"
	case ShapeCollection:
		return "Collection"
	case ShapeSequence:
		return "Sequence"
	case ShapeReadOnlyList:
		return "ReadOnlyList"
	case ShapeReadOnlyCollection:
		return "ReadOnlyCollection"
	case ShapeMap:
		return "Map"
	case ShapeReadOnlyMap:
		return "ReadOnlyMap"
	default:
		return common.UnknownStr
	}
}

// Adapter is the name of the adapt adapter type for the shape.
func (s Shape) Adapter() string {
	if s == ShapeArray {
		return "ArrayAdapter"
	}

	return s.Contract() + "Adapter"
}

// IsMap reports whether the shape is keyed.
func (s Shape) IsMap() bool {
	return s == ShapeMap || s == ShapeReadOnlyMap
}

// Contract is a loosely typed container contract found on a legacy container.
type Contract int

const (
	// ContractEnumerable is untyped iteration.
	ContractEnumerable Contract = iota
	// ContractCountable is Len() int.
	ContractCountable
	// ContractFixedList is At(int) any plus SetAt(int, any).
	ContractFixedList
)

// String returns a human-readable representation of the Contract.
func (c Contract) String() string {
	switch c {
	case ContractEnumerable:
		return "enumerable"
	case ContractCountable:
		return "countable"
	case ContractFixedList:
		return "fixed_list"
	default:
		return common.UnknownStr
	}
}

// Package descriptor holds the type descriptor graph built during one
// generator run.
//
// Every type reachable from the roots gets exactly one Descriptor, keyed by
// go/types identity. A descriptor records the names the generated code uses
// for it and a build status that only moves forward:
//
//	Pending -> InProgress -> Done
//
// NotApplicable marks descriptors that produce no artifact (Plain).
package descriptor

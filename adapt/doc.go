// Package adapt provides the runtime collection adapters that generated
// facades use for every container-shaped value.
//
// An adapter is a view that lets a collection of raw foreign elements (R)
// and a collection of abstraction values (A) share one backing store without
// copying. W is the concrete wrapped type the generator emits for R; it must
// implement A and expose exactly one wrap method (R) W and one unwrap method
// () R. The pair is resolved by reflection once per (R, W) and kept in a
// [Cache].
//
// Every adapter family comes with two backing strategies:
//   - Standard: the backing holds raw elements. Reads wrap lazily, writes unwrap.
//   - Casted: the backing holds abstraction values. Reads narrow to W, writes
//     store the wrapped value directly.
//
// Adapter families:
//   - SequenceAdapter, ReadOnlyCollectionAdapter, CollectionAdapter
//   - ReadOnlyListAdapter, ListAdapter, ArrayAdapter (fixed size)
//   - SetAdapter
//   - ReadOnlyMapAdapter, MapAdapter (keys are never wrapped)
//
// Adapters add no synchronization of their own.
package adapt

// Package classify assigns every reachable foreign type a descriptor.
//
// Classification order:
//  1. builtins, error and the empty interface are Plain
//  2. in-scope enumerations
//  3. slices and arrays
//  4. func types
//  5. in-scope named types become capabilities
//  6. maps, iter.Seq and generic types matching an adapt contract,
//     when their elements need wrapping
//
// Anything else is Plain and passes through by name.
package classify

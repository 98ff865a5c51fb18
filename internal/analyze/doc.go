// Package analyze is the introspection layer over go/packages and go/types.
//
// The classifier never walks packages itself. It asks a Universe which types
// exist, which of them are in scope, and what members they declare.
//
// Key types:
//   - TypeID: package import path + type name, as written in configuration
//   - Universe: scope predicates plus member listing
//   - Loader: loads packages and resolves root TypeIDs
package analyze

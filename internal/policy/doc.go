// Package policy decides which foreign types are wrapped and how each of
// their members is generated.
//
// Scope answers "is this type wrapped at all"; Policy answers "what becomes
// of this member" with an Outcome per member kind. Both are consulted by the
// classifier and the build orchestrator, never by generated code.
package policy

// Package build drives descriptors through their build state machine and
// emits one artifact per descriptor through a Sink.
//
// A descriptor is marked InProgress before anything it references is built,
// so re-entrant requests for it are no-ops and cyclic graphs terminate.
// Bases are built before the types that embed them.
package build

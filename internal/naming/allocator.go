package naming

import (
	"go/token"
)

// Config controls the names given to generated declarations.
type Config struct {
	// InterfaceSuffix is appended to capability interface names.
	InterfaceSuffix string `yaml:"interface_suffix"`
	// AdapterSuffix is appended to adapter struct names.
	AdapterSuffix string `yaml:"adapter_suffix"`
}

// DefaultConfig returns the naming defaults.
func DefaultConfig() Config {
	return Config{AdapterSuffix: "Adapter"}
}

// Allocator assigns unique identifiers within one generated package.
type Allocator struct {
	config Config
	taken  map[string]struct{}
}

// NewAllocator returns an allocator with the Go predeclared identifiers and
// the generator's helper names already reserved.
func NewAllocator(config Config) *Allocator {
	a := &Allocator{config: config, taken: make(map[string]struct{})}
	for _, name := range reserved {
		a.taken[name] = struct{}{}
	}

	return a
}

var reserved = []string{
	"any", "bool", "byte", "comparable", "complex64", "complex128", "error",
	"float32", "float64", "int", "int8", "int16", "int32", "int64", "rune",
	"string", "uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"true", "false", "iota", "nil", "adapt", "iter",
}

// Config returns the allocator's naming configuration.
func (a *Allocator) Config() Config {
	return a.config
}

// Claim returns the first free candidate and marks it taken. When every
// candidate is taken, the last one is numbered: Widget, Widget1, Widget2...
func (a *Allocator) Claim(candidates ...string) string {
	for _, c := range candidates {
		if c == "" || token.IsKeyword(c) {
			continue
		}
		if _, ok := a.taken[c]; !ok {
			a.taken[c] = struct{}{}
			return c
		}
	}

	stem := "Generated"
	if n := len(candidates); n > 0 && candidates[n-1] != "" {
		stem = candidates[n-1]
	}

	return NewStem(stem, a.taken).Next()
}

// Taken reports whether name has been claimed.
func (a *Allocator) Taken(name string) bool {
	_, ok := a.taken[name]
	return ok
}

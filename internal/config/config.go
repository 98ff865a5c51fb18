// Package config loads the generator configuration file.
package config

import (
	"bytes"
	"fmt"
	"go/token"
	"io"
	"os"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"facade-generator/internal/analyze"
	"facade-generator/internal/classify"
	"facade-generator/internal/diagnostic"
	"facade-generator/internal/naming"
	"facade-generator/internal/policy"
)

// CurrentVersion is the only configuration version understood.
const CurrentVersion = "1"

// Config is the content of a configuration file.
type Config struct {
	Version string `yaml:"version"`
	// Packages are go/packages patterns to load.
	Packages []string `yaml:"packages"`
	// Scope lists the import path prefixes whose types are wrapped.
	// Defaults to Packages with any "/..." suffix removed.
	Scope []string `yaml:"scope,omitempty"`
	// Roots are the types to generate facades for, as "<import path>.<Name>".
	Roots []string `yaml:"roots"`
	// Output is the directory artifacts are written to.
	Output string `yaml:"output"`
	// Package is the name of the generated package.
	Package string `yaml:"package"`
	// Target is the import path of the generated package, used in manifests.
	Target string `yaml:"target,omitempty"`
	// Manifest names the manifest file written next to the artifacts.
	// Empty disables it.
	Manifest string `yaml:"manifest,omitempty"`
	// AdaptPath overrides the import path of the adapt runtime.
	AdaptPath string `yaml:"adapt_path,omitempty"`

	WrapEnums          bool          `yaml:"wrap_enums"`
	AllowLooseFallback bool          `yaml:"allow_loose_fallback"`
	Naming             naming.Config `yaml:"naming"`
	Members            []MemberRule  `yaml:"members,omitempty"`
}

// MemberRule assigns an outcome to matching members.
type MemberRule struct {
	// Kind is property, operation, event, constructor or any.
	Kind string `yaml:"kind"`
	// Type is a glob over the declaring type name.
	Type string `yaml:"type,omitempty"`
	// Name is a glob over the member name.
	Name    string `yaml:"name,omitempty"`
	Outcome string `yaml:"outcome"`
}

// LoadFile loads and parses a configuration file.
func LoadFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", filename)
	}

	return Parse(data)
}

// Default returns a Config holding every default.
func Default() *Config {
	defaults := classify.DefaultConfig()

	return &Config{
		Version:            CurrentVersion,
		Output:             "facade",
		WrapEnums:          defaults.WrapEnums,
		AllowLooseFallback: defaults.AllowLooseFallback,
		Naming:             defaults.Naming,
	}
}

// Parse parses YAML data into a Config. Keys left out keep their defaults.
func Parse(data []byte) (*Config, error) {
	c := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.WithHint(
			errors.Wrap(err, "parse config YAML"),
			"see examples/facade.yaml for the accepted keys",
		)
	}

	applyDefaults(c)

	return c, nil
}

// applyDefaults fills in the fields derived from others.
func applyDefaults(c *Config) {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	if c.Output == "" {
		c.Output = "facade"
	}
	if c.Package == "" {
		c.Package = path.Base(path.Clean(strings.ReplaceAll(c.Output, "\\", "/")))
	}
	if len(c.Scope) == 0 {
		for _, p := range c.Packages {
			c.Scope = append(c.Scope, strings.TrimSuffix(p, "/..."))
		}
	}

	for i := range c.Members {
		if c.Members[i].Kind == "" {
			c.Members[i].Kind = "any"
		}
	}
}

// Validate checks the configuration and reports every problem found.
func Validate(c *Config) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if c == nil {
		res.Errorf(diagnostic.At{}, "config_is_nil", "configuration is nil")
		return res
	}

	if c.Version != CurrentVersion {
		res.Errorf(diagnostic.At{Member: "version"}, "unsupported_version", "unsupported version %q", c.Version)
	}
	if len(c.Packages) == 0 {
		res.Errorf(diagnostic.At{Member: "packages"}, "no_packages", "no packages to load")
	}
	if len(c.Roots) == 0 {
		res.Errorf(diagnostic.At{Member: "roots"}, "no_roots", "no root types")
	}
	for i, r := range c.Roots {
		if _, err := analyze.ParseTypeID(r); err != nil {
			res.Errorf(diagnostic.At{Member: fmt.Sprintf("roots[%d]", i)}, "invalid_root", "%v", err)
		}
	}
	if !token.IsIdentifier(c.Package) {
		res.Errorf(diagnostic.At{Member: "package"}, "invalid_package", "package name %q is not an identifier", c.Package)
	}
	for _, s := range []struct{ key, value string }{
		{"naming.interface_suffix", c.Naming.InterfaceSuffix},
		{"naming.adapter_suffix", c.Naming.AdapterSuffix},
	} {
		if s.value != "" && !token.IsIdentifier("X"+s.value) {
			res.Errorf(diagnostic.At{Member: s.key}, "invalid_suffix", "suffix %q is not usable in an identifier", s.value)
		}
	}
	if c.Naming.InterfaceSuffix == c.Naming.AdapterSuffix {
		res.Errorf(diagnostic.At{Member: "naming"}, "suffix_clash", "interface and adapter suffixes must differ")
	}

	for i := range c.Members {
		validateRule(res, i, &c.Members[i])
	}

	return res
}

func validateRule(res *diagnostic.Diagnostics, i int, r *MemberRule) {
	at := diagnostic.At{Member: fmt.Sprintf("members[%d]", i)}

	kind, kindErr := parseKind(r.Kind)
	if kindErr != nil {
		res.Errorf(diagnostic.At{Member: at.Member + ".kind"}, "invalid_member_kind", "%v", kindErr)
	}

	outcome, err := policy.ParseOutcome(r.Outcome)
	if err != nil {
		res.Errorf(diagnostic.At{Member: at.Member + ".outcome"}, "invalid_outcome", "%v", err)
		return
	}
	if kindErr == nil && kind != policy.AnyKind && !policy.Supports(kind, outcome) {
		res.Errorf(at, "unsupported_outcome", "outcome %s does not apply to %s members", r.Outcome, kind)
	}

	for _, g := range []string{r.Type, r.Name} {
		if _, err := path.Match(g, ""); err != nil {
			res.Errorf(at, "invalid_glob", "invalid pattern %q", g)
		}
	}
}

func parseKind(s string) (policy.MemberKind, error) {
	if strings.EqualFold(strings.TrimSpace(s), "any") {
		return policy.AnyKind, nil
	}

	return policy.ParseMemberKind(s)
}

// Rules converts the member rules into policy rules. The configuration must
// be valid.
func (c *Config) Rules() ([]policy.Rule, error) {
	rules := make([]policy.Rule, 0, len(c.Members))
	for i, m := range c.Members {
		kind, err := parseKind(m.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "members[%d]", i)
		}
		outcome, err := policy.ParseOutcome(m.Outcome)
		if err != nil {
			return nil, errors.Wrapf(err, "members[%d]", i)
		}

		rules = append(rules, policy.Rule{Kind: kind, Type: m.Type, Name: m.Name, Outcome: outcome})
	}

	return rules, nil
}

// Policy builds the member policy from the rules.
func (c *Config) Policy() (policy.Policy, error) {
	rules, err := c.Rules()
	if err != nil {
		return policy.Policy{}, err
	}

	return policy.FromRules(rules), nil
}

// Classify returns the classifier settings.
func (c *Config) Classify() classify.Config {
	return classify.Config{
		WrapEnums:          c.WrapEnums,
		AllowLooseFallback: c.AllowLooseFallback,
		Naming:             c.Naming,
	}
}

// ScopeFilter returns the wrapping scope.
func (c *Config) ScopeFilter() *policy.PrefixScope {
	return policy.NewPrefixScope(c.Scope...)
}

// Marshal serializes a Config to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

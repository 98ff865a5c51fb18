package config

import (
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facade-generator/internal/policy"
)

func TestParse(t *testing.T) {
	yaml := `
version: "1"
packages: [example.com/foreign/...]
roots:
  - example.com/foreign.Widget
  - example.com/foreign/shapes.Circle
output: ./gen/facade
wrap_enums: false
naming:
  interface_suffix: Interface
members:
  - kind: operation
    type: "*"
    name: "Internal*"
    outcome: omit
  - name: Size
    outcome: cached_full
`

	c, err := Parse([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, "1", c.Version)
	assert.Equal(t, []string{"example.com/foreign"}, c.Scope, "scope defaults to the package patterns")
	assert.Equal(t, "facade", c.Package, "package defaults to the output directory name")
	assert.False(t, c.WrapEnums)
	assert.True(t, c.AllowLooseFallback, "unset keys keep their default")
	assert.Equal(t, "Interface", c.Naming.InterfaceSuffix)
	assert.Equal(t, "Adapter", c.Naming.AdapterSuffix)

	require.Len(t, c.Members, 2)
	assert.Equal(t, "any", c.Members[1].Kind)
	assert.False(t, Validate(c).HasErrors(), "%v", Validate(c).Error())

	cc := c.Classify()
	assert.False(t, cc.WrapEnums)
	assert.True(t, cc.AllowLooseFallback)
	assert.Equal(t, c.Naming, cc.Naming)
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default().Naming, c.Naming)
	assert.Equal(t, "facade", c.Package)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("packages: [a]\nroot: [a.B]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "facade.yaml")
	require.NoError(t, os.WriteFile(file, []byte("packages: [./foreign]\nroots: [example.com/foreign.Widget]\n"), 0o600))

	c, err := LoadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"./foreign"}, c.Packages)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		codes []string
	}{
		{
			name:  "valid",
			yaml:  "packages: [p]\nroots: [example.com/p.T]\n",
			codes: nil,
		},
		{
			name:  "missing everything",
			yaml:  "version: \"2\"\n",
			codes: []string{"unsupported_version", "no_packages", "no_roots"},
		},
		{
			name:  "bad root and package",
			yaml:  "packages: [p]\nroots: [Widget]\npackage: my-facade\n",
			codes: []string{"invalid_root", "invalid_package"},
		},
		{
			name:  "suffixes",
			yaml:  "packages: [p]\nroots: [p.T]\nnaming: {interface_suffix: X, adapter_suffix: X}\n",
			codes: []string{"suffix_clash"},
		},
		{
			name: "rules",
			yaml: `packages: [p]
roots: [p.T]
members:
  - kind: field
    outcome: omit
  - kind: operation
    outcome: cached_full
  - kind: event
    outcome: sometimes
  - kind: property
    name: "[a"
    outcome: omit
`,
			codes: []string{"invalid_member_kind", "unsupported_outcome", "invalid_outcome", "invalid_glob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			diags := Validate(c)
			assert.Equal(t, tt.codes, diags.Codes())
			assert.Equal(t, len(tt.codes) > 0, diags.Error() != nil)
		})
	}

	assert.Equal(t, []string{"config_is_nil"}, Validate(nil).Codes())
}

func TestConfig_Policy(t *testing.T) {
	c, err := Parse([]byte(`packages: [p]
roots: [p.T]
members:
  - kind: property
    type: Widget
    name: Label
    outcome: cached_full
  - kind: any
    name: "Internal*"
    outcome: omit
`))
	require.NoError(t, err)

	p, err := c.Policy()
	require.NoError(t, err)

	pkg := types.NewPackage("example.com/p", "p")
	widget := types.NewNamed(types.NewTypeName(token.NoPos, pkg, "Widget", nil), types.NewStruct(nil, nil), nil)
	label := types.NewField(token.NoPos, pkg, "Label", types.Typ[types.String], false)
	internal := types.NewFunc(token.NoPos, pkg, "InternalReset", types.NewSignatureType(nil, nil, nil, nil, nil, false))

	got, err := p.Outcome(policy.MemberProperty, widget, label)
	require.NoError(t, err)
	assert.Equal(t, policy.OutcomeCachedFull, got)

	got, err = p.Outcome(policy.MemberOperation, widget, internal)
	require.NoError(t, err)
	assert.Equal(t, policy.OutcomeOmit, got)

	rules, err := c.Rules()
	require.NoError(t, err)
	assert.Equal(t, policy.AnyKind, rules[1].Kind)
}

func TestConfig_ScopeFilter(t *testing.T) {
	c, err := Parse([]byte("packages: [example.com/foreign/...]\nroots: [example.com/foreign.W]\n"))
	require.NoError(t, err)

	scope := c.ScopeFilter()
	assert.True(t, scope.IsPathInScope("example.com/foreign/shapes"))
	assert.False(t, scope.IsPathInScope("example.com/other"))
}

func TestMarshal_RoundTrip(t *testing.T) {
	c, err := Parse([]byte("packages: [p]\nroots: [p.T]\nmembers: [{kind: event, name: Changed, outcome: conditional_event_only}]\n"))
	require.NoError(t, err)

	data, err := Marshal(c)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

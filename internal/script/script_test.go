package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/seitarof/gometa/internal/catalog"
	"github.com/seitarof/gometa/pkg/metaerr"
	"github.com/seitarof/gometa/pkg/metatype"
	"github.com/seitarof/gometa/pkg/service"
)

func newService(t *testing.T) service.Service {
	t.Helper()
	reg := metatype.NewIdentityRegistry()
	m, err := catalog.New(catalog.WithIdentities(reg)).Load("demo")
	require.NoError(t, err)
	svc := service.New()
	svc.AddModule(m)
	return svc
}

const yamlScript = `
steps:
  - op: new
    class: TestObject
    as: obj
  - op: get
    object: obj
    member: value
    expect: 6553
  - op: set
    object: obj
    member: value
    value: 10
  - op: call
    object: obj
    member: add
    args: [5]
    expect: 15
  - op: call
    object: obj
    member: methodOverload
    args: [2, 3]
    expect: 6
  - op: call
    object: obj
    member: methodOverload
    args: ["abc", 1]
    expect: 4
  - op: get
    object: obj
    member: magic
    expect: false
  - op: call
    member: concat
    args: ["a", "b"]
    expect: ab
  - op: call
    member: sum
    args: [1, 2, 3]
    expect: 6
  - op: release
    object: obj
`

func TestParse_YAML(t *testing.T) {
	s, err := Parse([]byte(yamlScript), "yaml")
	require.NoError(t, err)
	require.Len(t, s.Steps, 10)
	assert.Equal(t, OpNew, s.Steps[0].Op)
	assert.Equal(t, "TestObject", s.Steps[0].Class)
	assert.Equal(t, []any{2, 3}, s.Steps[4].Args)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{name: "unknown op", data: "steps:\n  - op: jump\n", format: "yaml"},
		{name: "new without as", data: "steps:\n  - op: new\n    class: TestObject\n", format: "yaml"},
		{name: "get without member", data: "steps:\n  - op: get\n    object: obj\n", format: "yml"},
		{name: "call without member", data: "[[steps]]\nop = \"call\"\n", format: "toml"},
		{name: "release without object", data: "[[steps]]\nop = \"release\"\n", format: "toml"},
		{name: "unknown format", data: "{}", format: "json"},
		{name: "broken yaml", data: "steps: [", format: "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestExecutor_YAML(t *testing.T) {
	s, err := Parse([]byte(yamlScript), "yaml")
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	results, err := NewExecutor(newService(t), zap.New(core)).Run(s)
	require.NoError(t, err)
	require.Len(t, results, 10)

	assert.Equal(t, Result{Step: 1, Op: OpNew, Target: "TestObject", Value: "obj"}, results[0])
	assert.Equal(t, "6553", results[1].Value)
	assert.Equal(t, "obj.add", results[3].Target)
	assert.Equal(t, "15", results[3].Value)
	assert.Equal(t, "concat", results[7].Target)
	assert.Equal(t, "ab", results[7].Value)
	assert.Equal(t, 10, logs.FilterMessage("script step").Len())
}

func TestExecutor_TOMLFile(t *testing.T) {
	const data = `
[[steps]]
op = "new"
class = "Duck"
args = ["Donald"]
as = "duck"

[[steps]]
op = "get"
object = "duck"
member = "legs"
expect = 2

[[steps]]
op = "call"
object = "duck"
member = "quack"
expect = "Donald quacks"

[[steps]]
op = "call"
class = "TestObject"
member = "create"
as = "created"
expect = "TestObject(6553)"

[[steps]]
op = "call"
object = "created"
member = "methodOverload"
args = ["$created", 1]
expect = 6554
`
	path := filepath.Join(t.TempDir(), "duck.toml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	results, err := NewExecutor(newService(t), nil).Run(s)
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, "duck.legs", results[1].Target)
	assert.Equal(t, "TestObject.create", results[3].Target)
	assert.Equal(t, "6554", results[4].Value)
}

func TestExecutor_Failures(t *testing.T) {
	tests := []struct {
		name  string
		steps []Step
		is    error
	}{
		{
			name:  "unknown class",
			steps: []Step{{Op: OpNew, Class: "Missing", As: "x"}},
			is:    metaerr.ErrNotFound,
		},
		{
			name:  "unknown variable",
			steps: []Step{{Op: OpGet, Object: "x", Member: "value"}},
			is:    metaerr.ErrNotFound,
		},
		{
			name: "unknown member",
			steps: []Step{
				{Op: OpNew, Class: "TestObject", As: "x"},
				{Op: OpGet, Object: "x", Member: "nothing"},
			},
			is: metaerr.ErrNotFound,
		},
		{
			name:  "unknown function",
			steps: []Step{{Op: OpCall, Member: "nothing"}},
			is:    metaerr.ErrNotFound,
		},
		{
			name: "no overload",
			steps: []Step{
				{Op: OpNew, Class: "TestObject", As: "x"},
				{Op: OpCall, Object: "x", Member: "methodOverload", Args: []any{true}},
			},
			is: metaerr.ErrTypeMismatch,
		},
		{
			name: "read only property",
			steps: []Step{
				{Op: OpNew, Class: "TestObject", As: "x"},
				{Op: OpSet, Object: "x", Member: "magic", Value: true},
			},
			is: metaerr.ErrAccessDenied,
		},
		{
			name: "not an object",
			steps: []Step{
				{Op: OpCall, Member: "concat", Args: []any{"a", "b"}, As: "s"},
				{Op: OpGet, Object: "s", Member: "value"},
			},
			is: metaerr.ErrTypeMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExecutor(newService(t), nil).Run(&Script{Steps: tt.steps})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestExecutor_ExpectMismatch(t *testing.T) {
	s := &Script{Steps: []Step{
		{Op: OpCall, Member: "concat", Args: []any{"a", "b"}, Expect: "ba"},
	}}
	_, err := NewExecutor(newService(t), nil).Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `step 1 (call)`)
	assert.Contains(t, err.Error(), `want "ba"`)
}

package object

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadThroughSharesCell(t *testing.T) {
	global := NewEnvironment(nil)
	require.NoError(t, global.Define("x", &Integer{Value: 1}))

	local := NewEnvironment(global)
	val, ok := local.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, "1", val.Inspect())
	assert.False(t, local.Owns("x"))

	// a write through the global scope is seen by the memoized reference
	require.True(t, global.Assign("x", &Integer{Value: 2}))
	val, _ = local.Resolve("x")
	assert.Equal(t, "2", val.Inspect())

	// a write through the local scope lands in the global one
	require.True(t, local.Assign("x", &Integer{Value: 3}))
	val, _ = global.Resolve("x")
	assert.Equal(t, "3", val.Inspect())
	assert.False(t, local.Owns("x"))
}

func TestAssignNeverCreatesBindings(t *testing.T) {
	env := NewEnvironment(NewEnvironment(nil))
	assert.False(t, env.Assign("missing", &Integer{Value: 1}))

	_, ok := env.Resolve("missing")
	assert.False(t, ok)
}

func TestDefineShadowsMemoizedReference(t *testing.T) {
	global := NewEnvironment(nil)
	require.NoError(t, global.Define("x", &String{Value: "outer"}))

	local := NewEnvironment(global)
	_, _ = local.Resolve("x")
	require.NoError(t, local.Define("x", &String{Value: "inner"}))
	require.True(t, local.Assign("x", &String{Value: "changed"}))

	inner, _ := local.Resolve("x")
	outer, _ := global.Resolve("x")
	assert.Equal(t, "changed", inner.Inspect())
	assert.Equal(t, "outer", outer.Inspect())
}

func TestRedeclareInSameScope(t *testing.T) {
	env := NewEnvironment(nil)
	require.NoError(t, env.Define("a", &Integer{Value: 1}))
	assert.ErrorIs(t, env.Define("a", &Integer{Value: 2}), ErrRedeclared)

	child := NewEnvironment(env)
	assert.NoError(t, child.Define("a", &Integer{Value: 3}))

	names := append(env.Names(), child.Names()...)
	sort.Strings(names)
	assert.Equal(t, []string{"a", "a"}, names)
}

func TestInspect(t *testing.T) {
	tests := []struct {
		obj      Object
		expected string
	}{
		{&Integer{Value: -4}, "-4"},
		{&Float{Value: 3}, "3.0"},
		{&Float{Value: 0.25}, "0.25"},
		{&Float{Value: -1.5}, "-1.5"},
		{&String{Value: "ab"}, "ab"},
		{NONE, "none"},
		{&Function{Name: "f", Parameters: []string{"a", "b"}}, "<function f(a, b)>"},
	}
	for _, tt := range tests {
		if got := tt.obj.Inspect(); got != tt.expected {
			t.Errorf("expected=%q, got=%q", tt.expected, got)
		}
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		obj      Object
		expected bool
	}{
		{&Integer{Value: 0}, false},
		{&Integer{Value: 2}, true},
		{&Float{Value: 0}, false},
		{&Float{Value: 0.1}, true},
		{&String{Value: ""}, false},
		{&String{Value: "x"}, true},
		{NONE, false},
	}
	for _, tt := range tests {
		if got := IsTruthy(tt.obj); got != tt.expected {
			t.Errorf("%s: expected=%v, got=%v", tt.obj.Inspect(), tt.expected, got)
		}
	}
}

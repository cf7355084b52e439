package interpreter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"cparser/ast"
	"cparser/lexer"
	"cparser/object"
	"cparser/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := parser.NewParser(lexer.NewLexer("", input), "")
	program := p.Parse()
	require.Empty(t, p.Errors, "input %q", input)
	return program
}

// run returns the program result and everything it printed, one entry per line
func run(t *testing.T, input string, opts Options) (object.Object, []string, error) {
	t.Helper()
	var out bytes.Buffer
	opts.Out = &out
	result, err := NewInterpreter(nil, opts).Run(parseProgram(t, input))

	printed := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if out.Len() == 0 {
		printed = []string{}
	}
	return result, printed, err
}

func requireRuntimeError(t *testing.T, err error, kind ErrorKind) *RuntimeError {
	t.Helper()
	var rerr *RuntimeError
	require.True(t, errors.As(err, &rerr), "expected a runtime error, got %v", err)
	require.Equal(t, kind, rerr.Kind, rerr.Error())
	return rerr
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{
			input:    `int x = 0; repeat { x = x + 1; print x; } until (x >= 3);`,
			expected: []string{"1", "2", "3"},
		},
		{
			input:    `while (0) { print 1; } print 2;`,
			expected: []string{"2"},
		},
		{
			input:    `int f(int a, int b) { return a + b; } print f(2, 3);`,
			expected: []string{"5"},
		},
		{
			input:    `int fact(int n) { if (n <= 1) return 1; else return n * fact(n - 1); } print fact(5);`,
			expected: []string{"120"},
		},
		{
			input:    `print "ab" * 3; print "a" + "b"; print "ab" * 0;`,
			expected: []string{"ababab", "ab", ""},
		},
		{
			input:    `print 7 / 2; print (0 - 7) / 2; print 7 % 3; print 7.0 / 2; print 1 + 2.0;`,
			expected: []string{"3", "-3", "1", "3.5", "3.0"},
		},
		{
			input:    `print 1 < 2; print 2 <= 1; print "a" == "a"; print "a" != "a"; print 1.5 > 1;`,
			expected: []string{"1", "0", "1", "0", "1"},
		},
		{
			input:    `print 6 & 3; print 6 | 3; print 6 ^ 3; print 1 << 4; print 32 >> 2;`,
			expected: []string{"2", "7", "5", "16", "8"},
		},
		{
			input:    `print 1 && 0; print 0 || "x"; print 2.5 && 1;`,
			expected: []string{"0", "1", "1"},
		},
		{
			input:    `if ("") print 1; else print 2; if (0.0) print 3; if ("s") print 4;`,
			expected: []string{"2", "4"},
		},
		{
			input:    `lbl: print "labeled";`,
			expected: []string{"labeled"},
		},
		{
			input:    `int f() { print "side"; } print f();`,
			expected: []string{"side", "none"},
		},
		{
			input:    `float f = 1; print f; f = 2.5; print f;`,
			expected: []string{"1", "2.5"},
		},
	}
	for _, tt := range tests {
		_, printed, err := run(t, tt.input, Options{})
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, printed, "input %q", tt.input)
	}
}

func TestLoopResults(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`while (0) { print 1; }`, "none"},
		{`int i = 0; while (i < 3) i = i + 1;`, "3"},
		{`int i = 0; repeat i = i + 5; until i > 7;`, "10"},
		{`int i = 0; while (1) { if (i == 4) break; i = i + 1; }`, "4"},
	}
	for _, tt := range tests {
		result, _, err := run(t, tt.input, Options{})
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, result.Inspect(), "input %q", tt.input)
	}
}

func TestBreakExitsNearestLoopOnly(t *testing.T) {
	input := `
int i = 0, j = 0, total = 0;
while (i < 3) {
  j = 0;
  while (1) {
    {
      {
        if (j == 2) break;
      }
    }
    j = j + 1;
    total = total + 1;
  }
  i = i + 1;
}
print total;
print i;
`
	_, printed, err := run(t, input, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"6", "3"}, printed)
}

func TestContinue(t *testing.T) {
	input := `
int i = 0, odd = 0;
int n = 0, seen = 0;
while (i < 10) {
  i = i + 1;
  if (i % 2 == 0) continue;
  odd = odd + 1;
}
repeat
  n = n + 1;
  if (n < 3) continue;
  seen = seen + 1;
until n == 5;
print odd;
print seen;
`
	_, printed, err := run(t, input, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "3"}, printed)
}

func TestReturnUnwindsLoops(t *testing.T) {
	input := `
int find(int target) {
  int i = 0;
  while (1) {
    repeat
      i = i + 1;
      if (i == target) { return i * 10; }
    until 0;
  }
  return 0 - 1;
}
print find(4);
`
	_, printed, err := run(t, input, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"40"}, printed)
}

func TestActivationRecordsAreIsolated(t *testing.T) {
	input := `
int bump(int n) {
  n = n + 100;
  return n;
}
int twice(int n) {
  int a = bump(n);
  int b = bump(n);
  return a + b + n;
}
int fib(int n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }
print twice(1);
print fib(10);
`
	_, printed, err := run(t, input, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"203", "55"}, printed)
}

func TestClosuresAreLexical(t *testing.T) {
	input := `
int g = 1;
int readG() { return g; }
int caller() {
  int g = 99;
  return readG();
}
print caller();
g = 7;
print caller();
{
  int g = 50;
  print readG();
}
`
	_, printed, err := run(t, input, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "7", "7"}, printed)
}

func TestWritesReachOwningScope(t *testing.T) {
	input := `
int counter = 0;
int tick() { counter = counter + 1; return counter; }
{
  print counter;
  print tick();
  print counter;
  counter = 10;
}
print counter;
print tick();
`
	_, printed, err := run(t, input, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "1", "10", "11"}, printed)
}

func TestTopLevelReturnEndsRun(t *testing.T) {
	result, printed, err := run(t, `print 1; return 42; print 2;`, Options{})
	require.NoError(t, err)
	assert.Equal(t, "42", result.Inspect())
	assert.Equal(t, []string{"1"}, printed)
}

func TestUndeclaredReadPolicy(t *testing.T) {
	_, printed, err := run(t, `print missing;`, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"none"}, printed)

	_, _, err = run(t, `print missing;`, Options{StrictReads: true})
	requireRuntimeError(t, err, UndeclaredVariable)
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		input   string
		kind    ErrorKind
		line    int
		message string
	}{
		{"int f(int a, int b) { return a + b; }\nprint f(2);", ArityMismatch, 2, "f takes 2 argument(s); 1 given"},
		{"x = 1;", UndeclaredVariable, 1, "cannot assign to undeclared x"},
		{"int f() { return 1; }\nf = 2;", UndeclaredVariable, 2, "f is a function, not a variable"},
		{"int a = 1;\nprint a(2);", NotCallable, 2, "a is not a function"},
		{"print nope();", NotCallable, 1, "nope is not a function"},
		{"print 1 / 0;", DivisionByZero, 1, "integer division by zero"},
		{"print 1 % 0;", DivisionByZero, 1, "integer modulo by zero"},
		{"print 1.0 / 0;", DivisionByZero, 1, "float division by zero"},
		{"print 1 << (0 - 1);", InvalidOperand, 1, "negative shift count -1"},
		{`print "a" + 1;`, TypeMismatch, 1, "operator + is not defined for string and int"},
		{`print 1.5 % 2;`, TypeMismatch, 1, "operator % is not defined for float and int"},
		{`print missing + 1;`, TypeMismatch, 1, "operator + is not defined for none and int"},
		{"int a = 1;\n{ int b = 1, b = 2; }", Redeclared, 2, "b is already declared in this scope"},
		{"int f(int a) { int a = 2; return a; }\nprint f(1);", Redeclared, 1, "a is already declared in this scope"},
		{"int f() { break; }\nprint f();", ControlLeak, 2, "break escaped function f"},
		{"continue;", ControlLeak, 1, "continue outside of any loop"},
	}
	for _, tt := range tests {
		_, _, err := run(t, tt.input, Options{})
		rerr := requireRuntimeError(t, err, tt.kind)
		assert.Equal(t, tt.line, rerr.Line, "input %q", tt.input)
		assert.Equal(t, tt.message, rerr.Message, "input %q", tt.input)
	}
}

func TestRecursionLimit(t *testing.T) {
	input := `int down(int n) { return down(n + 1); } print down(0);`
	_, _, err := run(t, input, Options{RecursionLimit: 50})
	rerr := requireRuntimeError(t, err, RecursionLimit)
	assert.Equal(t, "call depth exceeded 50 in down", rerr.Message)

	// the limit is about depth, not the number of calls
	_, printed, err := run(t, `int i = 0, s = 0; int one() { return 1; } while (i < 100) { s = s + one(); i = i + 1; } print s;`, Options{RecursionLimit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, printed)
}

func TestStrictEvaluation(t *testing.T) {
	input := `
int n = 0, a = 0, b = 0;
int hit() { n = n + 1; return 0; }
a = hit() && hit();
b = 1 || hit();
print n;
`
	_, printed, err := run(t, input, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, printed)
}

func TestArgumentsEvaluatedInCallerScope(t *testing.T) {
	input := `
int x = 1;
int show(int x) { return x; }
{
  int x = 5;
  print show(x + 1);
}
`
	_, printed, err := run(t, input, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"6"}, printed)
}

func TestGlobalsPersistAcrossRuns(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(nil, Options{Out: &out})

	for _, src := range []string{`int a = 2;`, `int sq(int v) { return v * v; }`, `a = sq(a);`, `print a;`} {
		_, err := in.Run(parseProgram(t, src))
		require.NoError(t, err)
	}
	assert.Equal(t, "4\n", out.String())

	_, ok := in.Globals().Resolve("sq")
	assert.True(t, ok)
}

func TestRuntimeErrorString(t *testing.T) {
	err := newError(ArityMismatch, 3, "%v takes %d argument(s); %d given", "f", 2, 1)
	assert.Equal(t, "line 3: runtime error: ArityMismatch: f takes 2 argument(s); 1 given", err.Error())
}

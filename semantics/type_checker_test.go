package semantics

import (
	"testing"

	"cparser/ast"
	"cparser/internals"
	"cparser/lexer"
	"cparser/parser"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/require"
)

func check(t *testing.T, input string) []*Diagnostic {
	t.Helper()
	p := parser.NewParser(lexer.NewLexer("", input), "")
	program := p.Parse()
	require.Empty(t, p.Errors, "input %q", input)

	tc := NewTypeChecker(internals.NewErrorCollector(), nil)
	tc.Check(program)
	return tc.Diagnostics()
}

func kinds(diags []*Diagnostic) []Kind {
	out := []Kind{}
	for _, d := range diags {
		out = append(out, d.Kind)
	}
	return out
}

func TestWellTypedPrograms(t *testing.T) {
	tests := []string{
		`int a = 1; float f = a; string s = "x"; print a + f; print s + s; print s * 3;`,
		`int f(int a, int b) { return a + b; } print f(2, 3);`,
		`int fact(int n) { if (n <= 1) return 1; else return n * fact(n - 1); } print fact(5);`,
		`int x = 0; repeat { x = x + 1; } until (x >= 3);`,
		`int i = 0; while (i < 10) { { if (i == 5) break; } i = i + 1; continue; }`,
		`float g(float x) { return 1; } print g(2) / 2;`,
		`int a = 1; { int a = 2; { string a = "shadow"; print a; } }`,
		`int a = 1 < 2.5; int b = "a" == "b"; int c = 1 && 0 || 2.0;`,
		`int a = 7 % 3 | 1 & 2 ^ 4 << 1 >> 1;`,
		`lbl: print 1;`,
	}
	for _, input := range tests {
		diags := check(t, input)
		if len(diags) != 0 {
			t.Errorf("input %q: expected no diagnostics, got %v", input, diags)
		}
	}
}

func TestOneDiagnosticPerFault(t *testing.T) {
	input := "int a = 1;\nstring b = \"x\";\nprint a + b;\nprint 1 + 1;"
	diags := check(t, input)

	expected := []*Diagnostic{
		{Kind: InvalidOperands, Line: 3, Message: "operator + is not defined for int and string"},
	}
	if diff := deep.Equal(diags, expected); diff != nil {
		t.Error(diff)
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		input    string
		expected []Kind
	}{
		{`int a = 1; int a = 2;`, []Kind{DuplicateSymbol}},
		{`int a = 1; float a = 2.0, b = 1;`, []Kind{DuplicateSymbol}},
		{`int a = 1; { int a = 2; }`, []Kind{}},
		{`int f() { return 1; } int f() { return 2; }`, []Kind{DuplicateSymbol}},
		{`int f(int a, int a) { return a; }`, []Kind{DuplicateSymbol}},
		{`int x = x;`, []Kind{UndeclaredVariable}},
		{`print y;`, []Kind{UndeclaredVariable}},
		{`y = 1;`, []Kind{UndeclaredVariable}},
		{`int f() { return 1; } f = 2;`, []Kind{UndeclaredVariable}},
		{`print g(1);`, []Kind{UndefinedFunction}},
		{`int a = 1; print a(1);`, []Kind{UndefinedFunction}},
		{`int f(int a, int b) { return a + b; } print f(1);`, []Kind{ArityMismatch}},
		{`int f(int a) { return a; } print f("s");`, []Kind{WrongArgumentType}},
		{`int f(int a) { return a; } print f(1.5);`, []Kind{WrongArgumentType}},
		{`int a = 1.5;`, []Kind{WrongInitializerType}},
		{`string s = 1;`, []Kind{WrongInitializerType}},
		{`int a = 1; a = "s";`, []Kind{WrongAssignmentType}},
		{`int f() { return "s"; }`, []Kind{WrongReturnType}},
		{`string f() { return 1; }`, []Kind{WrongReturnType}},
		{`break;`, []Kind{BreakOutsideLoop}},
		{`if (1) { continue; }`, []Kind{ContinueOutsideLoop}},
		{`int f() { break; return 1; }`, []Kind{BreakOutsideLoop}},
		{`return 1;`, []Kind{ReturnOutsideFunction}},
		{`print "a" + 1;`, []Kind{InvalidOperands}},
		{`print 1.5 % 2;`, []Kind{InvalidOperands}},
		{`print 2 * "ab";`, []Kind{InvalidOperands}},
		{`print "a" < 1;`, []Kind{InvalidOperands}},
	}
	for _, tt := range tests {
		got := kinds(check(t, tt.input))
		if diff := deep.Equal(got, tt.expected); diff != nil {
			t.Errorf("input %q: %v", tt.input, diff)
		}
	}
}

func TestUnknownDoesNotCascade(t *testing.T) {
	tests := []struct {
		input    string
		expected []Kind
	}{
		// the undeclared name is reported once, the surrounding expression stays quiet
		{`int a = (y + 1) * 2;`, []Kind{UndeclaredVariable}},
		{`int f(int a) { return a; } print f(y) + "s";`, []Kind{UndeclaredVariable, InvalidOperands}},
		{`print g(1) + 2;`, []Kind{UndefinedFunction}},
		{`print ("a" + 1) + ("b" * 2.0);`, []Kind{InvalidOperands, InvalidOperands}},
	}
	for _, tt := range tests {
		got := kinds(check(t, tt.input))
		if diff := deep.Equal(got, tt.expected); diff != nil {
			t.Errorf("input %q: %v", tt.input, diff)
		}
	}
}

func TestCallArgumentsAlwaysChecked(t *testing.T) {
	diags := check(t, `print nope(y, "a" * "b");`)
	require.Equal(t, []Kind{UndeclaredVariable, InvalidOperands, UndefinedFunction}, kinds(diags))
}

func TestDiagnosticLines(t *testing.T) {
	input := "int a = 1;\nwhile (a) {\n  a = \"s\";\n}\nbreak;"
	diags := check(t, input)

	lines := []int{}
	for _, d := range diags {
		lines = append(lines, d.Line)
	}
	if diff := deep.Equal(lines, []int{3, 5}); diff != nil {
		t.Error(diff)
	}
}

func TestBodyCheckedDespiteDuplicateFunction(t *testing.T) {
	diags := check(t, `int f() { return 1; } int f() { return "s"; }`)
	require.Equal(t, []Kind{DuplicateSymbol, WrongReturnType}, kinds(diags))
}

func TestPersistentProgramScope(t *testing.T) {
	tc := NewTypeChecker(internals.NewErrorCollector(), nil)

	for _, src := range []string{`int a = 1;`, `print a;`, `int a = 2;`} {
		p := parser.NewParser(lexer.NewLexer("", src), "")
		program := p.Parse()
		require.Empty(t, p.Errors)
		tc.Check(program)
	}

	require.Equal(t, []Kind{DuplicateSymbol}, kinds(tc.Diagnostics()))
}

func TestDiagnosticError(t *testing.T) {
	d := &Diagnostic{Kind: WrongReturnType, Line: 4, Message: "function returning int cannot return a string value"}
	require.Equal(t, "line 4: WrongReturnType: function returning int cannot return a string value", d.Error())
}

func TestResultType(t *testing.T) {
	tests := []struct {
		op          ast.Operator
		left, right Type
		expected    Type
		ok          bool
	}{
		{ast.OpAdd, ast.IntType, ast.IntType, ast.IntType, true},
		{ast.OpAdd, ast.IntType, ast.FloatType, ast.FloatType, true},
		{ast.OpDiv, ast.FloatType, ast.IntType, ast.FloatType, true},
		{ast.OpAdd, ast.StringType, ast.StringType, ast.StringType, true},
		{ast.OpMul, ast.StringType, ast.IntType, ast.StringType, true},
		{ast.OpMul, ast.IntType, ast.StringType, ast.UnknownType, false},
		{ast.OpSub, ast.StringType, ast.StringType, ast.UnknownType, false},
		{ast.OpMod, ast.IntType, ast.IntType, ast.IntType, true},
		{ast.OpMod, ast.FloatType, ast.IntType, ast.UnknownType, false},
		{ast.OpShl, ast.IntType, ast.FloatType, ast.UnknownType, false},
		{ast.OpBitXor, ast.IntType, ast.IntType, ast.IntType, true},
		{ast.OpLess, ast.IntType, ast.FloatType, ast.IntType, true},
		{ast.OpEq, ast.StringType, ast.StringType, ast.IntType, true},
		{ast.OpAnd, ast.FloatType, ast.FloatType, ast.IntType, true},
		{ast.OpOr, ast.StringType, ast.IntType, ast.UnknownType, false},
	}
	for _, tt := range tests {
		got, ok := ResultType(tt.op, tt.left, tt.right)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("%v %v %v: expected=(%v, %v), got=(%v, %v)", tt.left, tt.op, tt.right, tt.expected, tt.ok, got, ok)
		}
	}
}

func TestAssignable(t *testing.T) {
	tests := []struct {
		target, source Type
		expected       bool
	}{
		{ast.FloatType, ast.IntType, true},
		{ast.FloatType, ast.FloatType, true},
		{ast.IntType, ast.IntType, true},
		{ast.StringType, ast.StringType, true},
		{ast.IntType, ast.FloatType, false},
		{ast.IntType, ast.StringType, false},
		{ast.StringType, ast.IntType, false},
	}
	for _, tt := range tests {
		if got := Assignable(tt.target, tt.source); got != tt.expected {
			t.Errorf("%v <- %v: expected=%v, got=%v", tt.target, tt.source, tt.expected, got)
		}
	}
}

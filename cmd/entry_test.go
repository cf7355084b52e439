package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cparser/interpreter"
	"cparser/semantics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRunProgram(t *testing.T) {
	path := writeSource(t, `int x = 2; int sq(int a) { return a * a; } print sq(x + 1);`)
	out, _, err := execute(t, path)
	require.NoError(t, err)
	assert.Equal(t, "9\n", out)
}

func TestRunPrintsDiagnosticsThenExecutes(t *testing.T) {
	path := writeSource(t, "int x = 1;\nstring s = \"a\";\nprint x + s;\nprint 2;\n")
	out, _, err := execute(t, path, "--color", "never")

	var rerr *interpreter.RuntimeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, interpreter.TypeMismatch, rerr.Kind)
	assert.Contains(t, out, "line 3: InvalidOperands")
}

func TestGateSkipsExecution(t *testing.T) {
	path := writeSource(t, "int x = 1;\nprint x + \"a\";\n")
	out, _, err := execute(t, path, "--gate", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "InvalidOperands")
	assert.NotContains(t, out, "runtime")
}

func TestSyntaxErrorStopsRun(t *testing.T) {
	path := writeSource(t, "print 1;\nprint (2;\n")
	out, errOut, err := execute(t, path)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "syntax error")
}

func TestMissingFile(t *testing.T) {
	out, errOut, err := execute(t, filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "cannot open")
}

func TestCheckFormats(t *testing.T) {
	path := writeSource(t, "int x = 1;\nbreak;\n")

	out, _, err := execute(t, "check", path, "--format", "json")
	assert.True(t, errors.Is(err, errDiagnostics))
	var diags []*semantics.Diagnostic
	require.NoError(t, json.Unmarshal([]byte(out), &diags))
	require.Len(t, diags, 1)
	assert.Equal(t, semantics.BreakOutsideLoop, diags[0].Kind)
	assert.Equal(t, 2, diags[0].Line)

	out, _, err = execute(t, "check", path, "--format", "yaml")
	assert.True(t, errors.Is(err, errDiagnostics))
	diags = nil
	require.NoError(t, yaml.Unmarshal([]byte(out), &diags))
	require.Len(t, diags, 1)
	assert.Equal(t, semantics.BreakOutsideLoop, diags[0].Kind)
}

func TestCheckClean(t *testing.T) {
	path := writeSource(t, "int x = 1;\nprint x;\n")
	out, _, err := execute(t, "check", path)
	require.NoError(t, err)
	// check never runs the program
	assert.Empty(t, out)
}

func TestTree(t *testing.T) {
	path := writeSource(t, "int x = 1;\nprint x;\n")
	out, _, err := execute(t, "tree", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Declaration int (line 1)")
	assert.Contains(t, out, "Print")
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "cparser.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("recursion-limit: 5\n"), 0o600))
	path := writeSource(t, "int down(int n) { return down(n + 1); }\nprint down(0);\n")

	_, _, err := execute(t, path, "--config", cfg)
	var rerr *interpreter.RuntimeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, interpreter.RecursionLimit, rerr.Kind)

	_, _, err = execute(t, path, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestUndeclaredReadFlag(t *testing.T) {
	path := writeSource(t, "print y;\n")

	out, _, err := execute(t, path, "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "none")

	_, _, err = execute(t, path, "--undeclared-read", "error")
	var rerr *interpreter.RuntimeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, interpreter.UndeclaredVariable, rerr.Kind)
}

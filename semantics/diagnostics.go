package semantics

import "fmt"

type Kind string

const (
	DuplicateSymbol       Kind = "DuplicateSymbol"
	UndeclaredVariable    Kind = "UndeclaredVariable"
	UndefinedFunction     Kind = "UndefinedFunction"
	ArityMismatch         Kind = "ArityMismatch"
	WrongInitializerType  Kind = "WrongInitializerType"
	WrongAssignmentType   Kind = "WrongAssignmentType"
	WrongArgumentType     Kind = "WrongArgumentType"
	WrongReturnType       Kind = "WrongReturnType"
	InvalidOperands       Kind = "InvalidOperands"
	BreakOutsideLoop      Kind = "BreakOutsideLoop"
	ContinueOutsideLoop   Kind = "ContinueOutsideLoop"
	ReturnOutsideFunction Kind = "ReturnOutsideFunction"
)

// Diagnostic is a single check-time finding, it never stops the traversal.
type Diagnostic struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Line    int    `json:"line" yaml:"line"`
	Message string `json:"message" yaml:"message"`
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Message)
}

package interpreter

import (
	"fmt"

	"cparser/object"
)

type SignalKind int

const (
	SignalNormal SignalKind = iota
	SignalBreak
	SignalContinue
	SignalReturn
)

func (k SignalKind) String() string {
	switch k {
	case SignalBreak:
		return "break"
	case SignalContinue:
		return "continue"
	case SignalReturn:
		return "return"
	default:
		return "normal"
	}
}

// Signal is the outcome of every step, composite constructs inspect it after each child.
type Signal struct {
	Kind  SignalKind
	Value object.Object // set for normal and return
}

func normal(val object.Object) Signal {
	return Signal{Kind: SignalNormal, Value: val}
}

var (
	breakSignal    = Signal{Kind: SignalBreak}
	continueSignal = Signal{Kind: SignalContinue}
)

type ErrorKind string

const (
	ArityMismatch      ErrorKind = "ArityMismatch"
	UndeclaredVariable ErrorKind = "UndeclaredVariable"
	RecursionLimit     ErrorKind = "RecursionLimit"
	NotCallable        ErrorKind = "NotCallable"
	DivisionByZero     ErrorKind = "DivisionByZero"
	InvalidOperand     ErrorKind = "InvalidOperand"
	TypeMismatch       ErrorKind = "TypeMismatch"
	ControlLeak        ErrorKind = "ControlLeak"
	Redeclared         ErrorKind = "Redeclared"
)

// RuntimeError ends the run, nothing recovers from it.
type RuntimeError struct {
	Kind    ErrorKind
	Line    int
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: runtime error: %s: %s", e.Line, e.Kind, e.Message)
}

func newError(kind ErrorKind, line int, format string, a ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Line: line, Message: fmt.Sprintf(format, a...)}
}

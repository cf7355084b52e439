package object

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cparser/ast"
)

type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	FLOAT_OBJ    = "FLOAT"
	STRING_OBJ   = "STRING"
	NOVALUE_OBJ  = "NOVALUE"
	FUNCTION_OBJ = "FUNCTION"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

type Float struct {
	Value float64
}

func (b *Float) Type() ObjectType { return FLOAT_OBJ }

// Inspect always keeps a fractional part so floats never read as ints: 3.0, 0.25
func (b *Float) Inspect() string {
	if math.IsInf(b.Value, 0) || math.IsNaN(b.Value) {
		return strconv.FormatFloat(b.Value, 'f', -1, 64)
	}
	text := strconv.FormatFloat(b.Value, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}

type String struct {
	Value string
}

func (b *String) Type() ObjectType { return STRING_OBJ }
func (b *String) Inspect() string  { return b.Value }

// NoValue is what an empty loop, a function falling off its end
// or an unknown name evaluates to.
type NoValue struct{}

func (n *NoValue) Type() ObjectType { return NOVALUE_OBJ }
func (n *NoValue) Inspect() string  { return "none" }

var NONE = &NoValue{}

type Function struct {
	Name       string
	Parameters []string
	Body       *ast.CompoundInstruction
	Env        *Environment // defining scope, never the caller's
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	var out bytes.Buffer
	out.WriteString("<function ")
	out.WriteString(f.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(f.Parameters, ", "))
	out.WriteString(")>")
	return out.String()
}

// IsTruthy: nonzero numbers and non empty strings
func IsTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Integer:
		return obj.Value != 0
	case *Float:
		return obj.Value != 0
	case *String:
		return obj.Value != ""
	case *Function:
		return true
	default:
		return false
	}
}

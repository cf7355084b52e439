package ast

import (
	"bytes"
	"strconv"
	"strings"

	"cparser/lexer"
)

type TYPE = string

const (
	IntType     TYPE = "int"
	FloatType   TYPE = "float"
	StringType  TYPE = "string"
	UnknownType TYPE = "unknown"
)

type Node interface {
	TokenLiteral() string
	String() string
	GetToken() lexer.Token
}

// Instruction is anything that may appear in an instruction list.
type Instruction interface {
	Node
	instructionNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Line returns the 1-based source line a node starts on.
func Line(n Node) int {
	return n.GetToken().Row
}

type Program struct {
	Token        lexer.Token
	Declarations []*Declaration
	Functions    []*Function
	Instructions []Instruction
}

func (p *Program) TokenLiteral() string  { return p.Token.Text }
func (p *Program) GetToken() lexer.Token { return p.Token }
func (p *Program) String() string {
	parts := make([]string, 0, len(p.Declarations)+len(p.Functions)+len(p.Instructions))
	for _, d := range p.Declarations {
		parts = append(parts, d.String())
	}
	for _, f := range p.Functions {
		parts = append(parts, f.String())
	}
	for _, i := range p.Instructions {
		parts = append(parts, i.String())
	}
	return strings.Join(parts, " ")
}

type Declaration struct {
	Token lexer.Token // the type token
	Type  TYPE
	Inits []*Init
}

func (d *Declaration) TokenLiteral() string  { return d.Token.Text }
func (d *Declaration) GetToken() lexer.Token { return d.Token }
func (d *Declaration) String() string {
	var out bytes.Buffer
	out.WriteString(d.Type + " ")
	for idx, init := range d.Inits {
		out.WriteString(init.String())
		if idx+1 <= len(d.Inits)-1 {
			out.WriteString(", ")
		}
	}
	out.WriteString(";")
	return out.String()
}

type Init struct {
	Token lexer.Token // the identifier token
	Name  string
	Value Expression
}

func (i *Init) TokenLiteral() string  { return i.Token.Text }
func (i *Init) GetToken() lexer.Token { return i.Token }
func (i *Init) String() string        { return i.Name + " = " + i.Value.String() }

type Argument struct {
	Token lexer.Token // the type token
	Type  TYPE
	Name  string
}

func (a *Argument) TokenLiteral() string  { return a.Token.Text }
func (a *Argument) GetToken() lexer.Token { return a.Token }
func (a *Argument) String() string        { return a.Type + " " + a.Name }

type Function struct {
	Token      lexer.Token // the return type token
	ReturnType TYPE
	Name       string
	Args       []*Argument
	Body       *CompoundInstruction
}

func (f *Function) TokenLiteral() string  { return f.Token.Text }
func (f *Function) GetToken() lexer.Token { return f.Token }
func (f *Function) String() string {
	var out bytes.Buffer
	params := []string{}
	for _, a := range f.Args {
		params = append(params, a.String())
	}
	out.WriteString(f.ReturnType + " " + f.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(f.Body.String())
	return out.String()
}

type CompoundInstruction struct {
	Token        lexer.Token // the { token
	Declarations []*Declaration
	Instructions []Instruction
}

func (c *CompoundInstruction) instructionNode()      {}
func (c *CompoundInstruction) TokenLiteral() string  { return c.Token.Text }
func (c *CompoundInstruction) GetToken() lexer.Token { return c.Token }
func (c *CompoundInstruction) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, d := range c.Declarations {
		out.WriteString(d.String() + " ")
	}
	for _, i := range c.Instructions {
		out.WriteString(i.String() + " ")
	}
	out.WriteString("}")
	return out.String()
}

type IfInstruction struct {
	Token       lexer.Token
	Condition   Expression
	Consequence Instruction
}

func (i *IfInstruction) instructionNode()      {}
func (i *IfInstruction) TokenLiteral() string  { return i.Token.Text }
func (i *IfInstruction) GetToken() lexer.Token { return i.Token }
func (i *IfInstruction) String() string {
	return "if (" + i.Condition.String() + ") " + i.Consequence.String()
}

type IfElseInstruction struct {
	Token       lexer.Token
	Condition   Expression
	Consequence Instruction
	Alternative Instruction
}

func (i *IfElseInstruction) instructionNode()      {}
func (i *IfElseInstruction) TokenLiteral() string  { return i.Token.Text }
func (i *IfElseInstruction) GetToken() lexer.Token { return i.Token }
func (i *IfElseInstruction) String() string {
	return "if (" + i.Condition.String() + ") " + i.Consequence.String() + " else " + i.Alternative.String()
}

type WhileInstruction struct {
	Token     lexer.Token
	Condition Expression
	Body      Instruction
}

func (w *WhileInstruction) instructionNode()      {}
func (w *WhileInstruction) TokenLiteral() string  { return w.Token.Text }
func (w *WhileInstruction) GetToken() lexer.Token { return w.Token }
func (w *WhileInstruction) String() string {
	return "while (" + w.Condition.String() + ") " + w.Body.String()
}

type RepeatInstruction struct {
	Token     lexer.Token
	Body      []Instruction
	Condition Expression
}

func (r *RepeatInstruction) instructionNode()      {}
func (r *RepeatInstruction) TokenLiteral() string  { return r.Token.Text }
func (r *RepeatInstruction) GetToken() lexer.Token { return r.Token }
func (r *RepeatInstruction) String() string {
	var out bytes.Buffer
	out.WriteString("repeat ")
	for _, i := range r.Body {
		out.WriteString(i.String() + " ")
	}
	out.WriteString("until " + r.Condition.String() + ";")
	return out.String()
}

type ReturnInstruction struct {
	Token lexer.Token // the 'return' token
	Value Expression
}

func (r *ReturnInstruction) instructionNode()      {}
func (r *ReturnInstruction) TokenLiteral() string  { return r.Token.Text }
func (r *ReturnInstruction) GetToken() lexer.Token { return r.Token }
func (r *ReturnInstruction) String() string        { return "return " + r.Value.String() + ";" }

type BreakInstruction struct {
	Token lexer.Token
}

func (b *BreakInstruction) instructionNode()      {}
func (b *BreakInstruction) TokenLiteral() string  { return b.Token.Text }
func (b *BreakInstruction) GetToken() lexer.Token { return b.Token }
func (b *BreakInstruction) String() string        { return "break;" }

type ContinueInstruction struct {
	Token lexer.Token
}

func (c *ContinueInstruction) instructionNode()      {}
func (c *ContinueInstruction) TokenLiteral() string  { return c.Token.Text }
func (c *ContinueInstruction) GetToken() lexer.Token { return c.Token }
func (c *ContinueInstruction) String() string        { return "continue;" }

// LabeledInstruction wraps an instruction with a label, labels carry no semantics.
type LabeledInstruction struct {
	Token       lexer.Token // the label token
	Label       string
	Instruction Instruction
}

func (l *LabeledInstruction) instructionNode()      {}
func (l *LabeledInstruction) TokenLiteral() string  { return l.Token.Text }
func (l *LabeledInstruction) GetToken() lexer.Token { return l.Token }
func (l *LabeledInstruction) String() string        { return l.Label + ": " + l.Instruction.String() }

type PrintInstruction struct {
	Token lexer.Token
	Value Expression
}

func (p *PrintInstruction) instructionNode()      {}
func (p *PrintInstruction) TokenLiteral() string  { return p.Token.Text }
func (p *PrintInstruction) GetToken() lexer.Token { return p.Token }
func (p *PrintInstruction) String() string        { return "print " + p.Value.String() + ";" }

type Assignment struct {
	Token lexer.Token // the identifier token
	Name  string
	Value Expression
}

func (a *Assignment) instructionNode()      {}
func (a *Assignment) TokenLiteral() string  { return a.Token.Text }
func (a *Assignment) GetToken() lexer.Token { return a.Token }
func (a *Assignment) String() string        { return a.Name + " = " + a.Value.String() + ";" }

type BinaryExpression struct {
	Token    lexer.Token // the operator token
	Operator Operator
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) expressionNode()       {}
func (b *BinaryExpression) TokenLiteral() string  { return b.Token.Text }
func (b *BinaryExpression) GetToken() lexer.Token { return b.Token }
func (b *BinaryExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(b.Left.String())
	out.WriteString(" " + b.Operator.String() + " ")
	out.WriteString(b.Right.String())
	out.WriteString(")")
	return out.String()
}

// RelationalExpression covers comparisons and the logical && / ||.
type RelationalExpression struct {
	Token    lexer.Token
	Operator Operator
	Left     Expression
	Right    Expression
}

func (r *RelationalExpression) expressionNode()       {}
func (r *RelationalExpression) TokenLiteral() string  { return r.Token.Text }
func (r *RelationalExpression) GetToken() lexer.Token { return r.Token }
func (r *RelationalExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(r.Left.String())
	out.WriteString(" " + r.Operator.String() + " ")
	out.WriteString(r.Right.String())
	out.WriteString(")")
	return out.String()
}

type CallExpression struct {
	Token    lexer.Token // the function name token
	Function *Identifier
	Args     []Expression
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Text }
func (ce *CallExpression) GetToken() lexer.Token { return ce.Token }
func (ce *CallExpression) String() string {
	var out bytes.Buffer
	args := []string{}
	for _, a := range ce.Args {
		args = append(args, a.String())
	}
	out.WriteString(ce.Function.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

type Identifier struct {
	Token lexer.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()        {}
func (i *Identifier) TokenLiteral() string   { return i.Token.Text }
func (nt *Identifier) GetToken() lexer.Token { return nt.Token }
func (i *Identifier) String() string         { return i.Value }

type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Text }
func (nt *IntegerLiteral) GetToken() lexer.Token { return nt.Token }
func (il *IntegerLiteral) String() string        { return il.Token.Text }

type FloatLiteral struct {
	Token lexer.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()       {}
func (fl *FloatLiteral) TokenLiteral() string  { return fl.Token.Text }
func (nt *FloatLiteral) GetToken() lexer.Token { return nt.Token }
func (fl *FloatLiteral) String() string        { return fl.Token.Text }

type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Text }
func (nt *StringLiteral) GetToken() lexer.Token { return nt.Token }
func (sl *StringLiteral) String() string        { return strconv.Quote(sl.Value) }

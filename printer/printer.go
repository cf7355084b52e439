package printer

import (
	"fmt"
	"strconv"

	"cparser/ast"

	"github.com/xlab/treeprint"
)

// Render draws the program as an indented tree, one node per line.
func Render(program *ast.Program) string {
	root := treeprint.New()
	visit(root, program)
	return root.String()
}

func label(node ast.Node, text string) string {
	return fmt.Sprintf("%s (line %d)", text, ast.Line(node))
}

func visit(parent treeprint.Tree, node ast.Node) {
	switch nd := node.(type) {
	case *ast.Program:
		t := parent.AddBranch("Program")
		for _, decl := range nd.Declarations {
			visit(t, decl)
		}
		for _, fn := range nd.Functions {
			visit(t, fn)
		}
		for _, instr := range nd.Instructions {
			visit(t, instr)
		}

	case *ast.Declaration:
		t := parent.AddBranch(label(nd, "Declaration "+nd.Type))
		for _, init := range nd.Inits {
			visit(t, init)
		}

	case *ast.Init:
		t := parent.AddBranch(label(nd, "Init "+nd.Name))
		visit(t, nd.Value)

	case *ast.Function:
		t := parent.AddBranch(label(nd, "Function "+nd.ReturnType+" "+nd.Name))
		if len(nd.Args) > 0 {
			args := t.AddBranch("Arguments")
			for _, arg := range nd.Args {
				visit(args, arg)
			}
		}
		visit(t, nd.Body)

	case *ast.Argument:
		parent.AddNode(label(nd, "Argument "+nd.Type+" "+nd.Name))

	case *ast.CompoundInstruction:
		t := parent.AddBranch(label(nd, "Compound"))
		for _, decl := range nd.Declarations {
			visit(t, decl)
		}
		for _, instr := range nd.Instructions {
			visit(t, instr)
		}

	case *ast.IfInstruction:
		t := parent.AddBranch(label(nd, "If"))
		visit(t, nd.Condition)
		visit(t, nd.Consequence)

	case *ast.IfElseInstruction:
		t := parent.AddBranch(label(nd, "IfElse"))
		visit(t, nd.Condition)
		visit(t, nd.Consequence)
		visit(t, nd.Alternative)

	case *ast.WhileInstruction:
		t := parent.AddBranch(label(nd, "While"))
		visit(t, nd.Condition)
		visit(t, nd.Body)

	case *ast.RepeatInstruction:
		t := parent.AddBranch(label(nd, "Repeat"))
		for _, instr := range nd.Body {
			visit(t, instr)
		}
		until := t.AddBranch("Until")
		visit(until, nd.Condition)

	case *ast.ReturnInstruction:
		t := parent.AddBranch(label(nd, "Return"))
		visit(t, nd.Value)

	case *ast.BreakInstruction:
		parent.AddNode(label(nd, "Break"))

	case *ast.ContinueInstruction:
		parent.AddNode(label(nd, "Continue"))

	case *ast.LabeledInstruction:
		t := parent.AddBranch(label(nd, "Labeled "+nd.Label))
		visit(t, nd.Instruction)

	case *ast.PrintInstruction:
		t := parent.AddBranch(label(nd, "Print"))
		visit(t, nd.Value)

	case *ast.Assignment:
		t := parent.AddBranch(label(nd, "Assignment "+nd.Name))
		visit(t, nd.Value)

	case *ast.BinaryExpression:
		t := parent.AddBranch(label(nd, "BinaryOp "+nd.Operator.String()))
		visit(t, nd.Left)
		visit(t, nd.Right)

	case *ast.RelationalExpression:
		t := parent.AddBranch(label(nd, "RelationalOp "+nd.Operator.String()))
		visit(t, nd.Left)
		visit(t, nd.Right)

	case *ast.CallExpression:
		t := parent.AddBranch(label(nd, "Call "+nd.Function.Value))
		for _, arg := range nd.Args {
			visit(t, arg)
		}

	case *ast.Identifier:
		parent.AddNode(label(nd, "Identifier "+nd.Value))

	case *ast.IntegerLiteral:
		parent.AddNode(label(nd, "Int "+strconv.FormatInt(nd.Value, 10)))

	case *ast.FloatLiteral:
		parent.AddNode(label(nd, "Float "+nd.TokenLiteral()))

	case *ast.StringLiteral:
		parent.AddNode(label(nd, "String "+strconv.Quote(nd.Value)))
	}
}

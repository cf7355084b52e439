package semantics

import (
	"fmt"

	"cparser/ast"
	"cparser/internals"

	"go.uber.org/zap"
)

// TypeChecker walks the tree once, it reports through the collector and never stops early.
type TypeChecker struct {
	symbols   *symbolResolver
	collector *internals.ErrorCollector
	logger    *zap.Logger
}

func NewTypeChecker(errCollector *internals.ErrorCollector, logger *zap.Logger) *TypeChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TypeChecker{
		symbols:   NewSymbolResolver(),
		collector: errCollector,
		logger:    logger,
	}
}

// Check can be called more than once, the program scope persists between calls (repl).
func (s *TypeChecker) Check(program *ast.Program) {
	before := s.collector.Len()

	for _, decl := range program.Declarations {
		s.visitDeclaration(decl)
	}
	for _, fn := range program.Functions {
		s.visitFunction(fn)
	}
	for _, instr := range program.Instructions {
		s.symbolReader(instr)
	}

	s.logger.Debug("type check finished", zap.Int("diagnostics", s.collector.Len()-before))
}

// Diagnostics returns the check findings gathered by the collector so far.
func (s *TypeChecker) Diagnostics() []*Diagnostic {
	out := []*Diagnostic{}
	for _, err := range s.collector.Errors {
		if d, ok := err.(*Diagnostic); ok {
			out = append(out, d)
		}
	}
	return out
}

func (s *TypeChecker) report(kind Kind, node ast.Node, format string, args ...interface{}) {
	s.collector.Add(&Diagnostic{
		Kind:    kind,
		Line:    ast.Line(node),
		Message: fmt.Sprintf(format, args...),
	})
}

func (s *TypeChecker) symbolReader(node ast.Instruction) {
	switch node := node.(type) {
	case *ast.CompoundInstruction:
		scope := s.symbols.EnterScope(ScopeCompound, "")
		s.visitBlockBody(node)
		s.symbols.ExitScope(scope)
	case *ast.IfInstruction:
		s.symbolReaderExpression(node.Condition)
		s.symbolReader(node.Consequence)
	case *ast.IfElseInstruction:
		s.symbolReaderExpression(node.Condition)
		s.symbolReader(node.Consequence)
		s.symbolReader(node.Alternative)
	case *ast.WhileInstruction:
		s.visitWhile(node)
	case *ast.RepeatInstruction:
		s.visitRepeat(node)
	case *ast.ReturnInstruction:
		s.visitReturn(node)
	case *ast.BreakInstruction:
		if !s.symbols.Current().IsInsideLoop() {
			s.report(BreakOutsideLoop, node, "break is only allowed inside a loop")
		}
	case *ast.ContinueInstruction:
		if !s.symbols.Current().IsInsideLoop() {
			s.report(ContinueOutsideLoop, node, "continue is only allowed inside a loop")
		}
	case *ast.LabeledInstruction:
		s.symbolReader(node.Instruction)
	case *ast.PrintInstruction:
		s.symbolReaderExpression(node.Value)
	case *ast.Assignment:
		s.visitAssignment(node)
	}
}

// visitBlockBody checks a block in the current scope, the caller decides whether a new one is needed
func (s *TypeChecker) visitBlockBody(block *ast.CompoundInstruction) {
	for _, decl := range block.Declarations {
		s.visitDeclaration(decl)
	}
	for _, instr := range block.Instructions {
		s.symbolReader(instr)
	}
}

// visitBody collapses a direct compound body into the scope the construct already opened
func (s *TypeChecker) visitBody(body ast.Instruction) {
	if block, ok := body.(*ast.CompoundInstruction); ok {
		s.visitBlockBody(block)
		return
	}
	s.symbolReader(body)
}

func (s *TypeChecker) visitDeclaration(node *ast.Declaration) {
	for _, init := range node.Inits {
		// the initializer can't see the name it initializes
		got := s.symbolReaderExpression(init.Value)
		if got != ast.UnknownType && !Assignable(node.Type, got) {
			s.report(WrongInitializerType, init, "cannot initialize %v %v with a %v value", node.Type, init.Name, got)
		}

		err := s.symbols.Declare(init.Name, SymbolInfo{
			Kind: SymbolVar,
			Type: node.Type,
			Line: ast.Line(init),
		})
		if err == ErrDuplicateSymbol {
			s.report(DuplicateSymbol, init, "%v is already declared in this scope", init.Name)
		}
	}
}

func (s *TypeChecker) visitFunction(node *ast.Function) {
	params := make([]Type, 0, len(node.Args))
	for _, arg := range node.Args {
		params = append(params, arg.Type)
	}

	// declared before the body so the function can call itself
	err := s.symbols.Declare(node.Name, SymbolInfo{
		Kind:       SymbolFunc,
		Type:       node.ReturnType,
		ParamTypes: params,
		Line:       ast.Line(node),
	})
	if err == ErrDuplicateSymbol {
		s.report(DuplicateSymbol, node, "%v is already declared in this scope", node.Name)
	}

	scope := s.symbols.EnterScope(ScopeFunction, node.ReturnType)
	s.logger.Debug("checking function", zap.String("name", node.Name), zap.String("scope", scope.Label()))

	for _, arg := range node.Args {
		err := s.symbols.Declare(arg.Name, SymbolInfo{
			Kind: SymbolVar,
			Type: arg.Type,
			Line: ast.Line(arg),
		})
		if err == ErrDuplicateSymbol {
			s.report(DuplicateSymbol, arg, "parameter %v is declared twice in %v", arg.Name, node.Name)
		}
	}

	s.visitBlockBody(node.Body)
	s.symbols.ExitScope(scope)
}

func (s *TypeChecker) visitWhile(node *ast.WhileInstruction) {
	s.symbolReaderExpression(node.Condition)

	scope := s.symbols.EnterScope(ScopeLoop, "")
	s.visitBody(node.Body)
	s.symbols.ExitScope(scope)
}

func (s *TypeChecker) visitRepeat(node *ast.RepeatInstruction) {
	scope := s.symbols.EnterScope(ScopeLoop, "")
	for _, instr := range node.Body {
		s.symbolReader(instr)
	}
	s.symbolReaderExpression(node.Condition)
	s.symbols.ExitScope(scope)
}

func (s *TypeChecker) visitReturn(node *ast.ReturnInstruction) {
	got := s.symbolReaderExpression(node.Value)

	expected, ok := s.symbols.Current().EnclosingFunctionReturnType()
	if !ok {
		s.report(ReturnOutsideFunction, node, "return is only allowed inside a function")
		return
	}

	if got != ast.UnknownType && !Assignable(expected, got) {
		s.report(WrongReturnType, node, "function returning %v cannot return a %v value", expected, got)
	}
}

func (s *TypeChecker) visitAssignment(node *ast.Assignment) {
	got := s.symbolReaderExpression(node.Value)

	sym, err := s.symbols.Resolve(node.Name)
	if err != nil {
		s.report(UndeclaredVariable, node, "%v is not declared", node.Name)
		return
	}
	if sym.Kind == SymbolFunc {
		s.report(UndeclaredVariable, node, "%v is a function, not a variable", node.Name)
		return
	}

	if got != ast.UnknownType && !Assignable(sym.Type, got) {
		s.report(WrongAssignmentType, node, "cannot assign a %v value to %v %v", got, sym.Type, node.Name)
	}
}

// symbolReaderExpression returns the static type of the expression, unknown once something failed below
func (s *TypeChecker) symbolReaderExpression(node ast.Expression) Type {
	switch expr := node.(type) {
	case *ast.IntegerLiteral:
		return ast.IntType
	case *ast.FloatLiteral:
		return ast.FloatType
	case *ast.StringLiteral:
		return ast.StringType
	case *ast.Identifier:
		return s.visitIdentifier(expr)
	case *ast.BinaryExpression:
		return s.visitOperation(expr, expr.Operator, expr.Left, expr.Right)
	case *ast.RelationalExpression:
		return s.visitOperation(expr, expr.Operator, expr.Left, expr.Right)
	case *ast.CallExpression:
		return s.visitCallExpression(expr)
	default:
		return ast.UnknownType
	}
}

func (s *TypeChecker) visitIdentifier(node *ast.Identifier) Type {
	sym, err := s.symbols.Resolve(node.Value)
	if err != nil {
		s.report(UndeclaredVariable, node, "%v is not declared", node.Value)
		return ast.UnknownType
	}
	if sym.Kind == SymbolFunc {
		s.report(UndeclaredVariable, node, "%v is a function, not a variable", node.Value)
		return ast.UnknownType
	}
	return sym.Type
}

func (s *TypeChecker) visitOperation(node ast.Node, op ast.Operator, left, right ast.Expression) Type {
	lt := s.symbolReaderExpression(left)
	rt := s.symbolReaderExpression(right)

	if lt == ast.UnknownType || rt == ast.UnknownType {
		return ast.UnknownType
	}

	result, ok := ResultType(op, lt, rt)
	if !ok {
		s.report(InvalidOperands, node, "operator %v is not defined for %v and %v", op, lt, rt)
		return ast.UnknownType
	}
	return result
}

func (s *TypeChecker) visitCallExpression(node *ast.CallExpression) Type {
	// arguments are checked whatever happens to the callee
	args := make([]Type, 0, len(node.Args))
	for _, arg := range node.Args {
		args = append(args, s.symbolReaderExpression(arg))
	}

	name := node.Function.Value
	sym, err := s.symbols.Resolve(name)
	if err != nil || sym.Kind != SymbolFunc {
		s.report(UndefinedFunction, node, "%v is not a function", name)
		return ast.UnknownType
	}

	if len(args) != len(sym.ParamTypes) {
		s.report(ArityMismatch, node, "%v takes %d argument(s); %d given", name, len(sym.ParamTypes), len(args))
		return sym.Type
	}

	for idx, got := range args {
		expected := sym.ParamTypes[idx]
		if got != ast.UnknownType && !Assignable(expected, got) {
			s.report(WrongArgumentType, node.Args[idx], "argument %d of %v expects %v, got %v", idx+1, name, expected, got)
		}
	}

	return sym.Type
}

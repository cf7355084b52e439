package interpreter

import (
	"fmt"
	"io"
	"os"

	"cparser/ast"
	"cparser/object"

	"go.uber.org/zap"
)

const DefaultRecursionLimit = 1000

type Options struct {
	Out            io.Writer // print destination, os.Stdout when nil
	Logger         *zap.Logger
	RecursionLimit int
	// StrictReads turns a read of an undeclared name into an error instead of none
	StrictReads bool
}

type Interpreter struct {
	env     *object.Environment
	globals *object.Environment
	out     io.Writer
	logger  *zap.Logger
	depth   int
	limit   int
	strict  bool
}

// NewInterpreter runs on env as its global scope, a fresh one is created when env is nil.
func NewInterpreter(env *object.Environment, opts Options) *Interpreter {
	if env == nil {
		env = object.NewEnvironment(nil)
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RecursionLimit <= 0 {
		opts.RecursionLimit = DefaultRecursionLimit
	}
	return &Interpreter{
		env:     env,
		globals: env,
		out:     opts.Out,
		logger:  opts.Logger,
		limit:   opts.RecursionLimit,
		strict:  opts.StrictReads,
	}
}

// Globals is the scope that outlives every run.
func (i *Interpreter) Globals() *object.Environment {
	return i.globals
}

// Run executes a whole program. A top level return ends it with its value,
// a break or continue that reaches the top is an error.
func (i *Interpreter) Run(program *ast.Program) (object.Object, error) {
	sig, err := i.Eval(program)
	if err != nil {
		i.logger.Error("runtime error", zap.Error(err))
		return nil, err
	}
	if sig.Kind == SignalBreak || sig.Kind == SignalContinue {
		return nil, newError(ControlLeak, ast.Line(program), "%v outside of any loop", sig.Kind)
	}
	return sig.Value, nil
}

func (i *Interpreter) Eval(node ast.Node) (Signal, error) {
	switch nd := node.(type) {
	case *ast.Program:
		return i.evalProgram(nd)

	case *ast.Declaration:
		return i.evalDeclaration(nd)

	case *ast.CompoundInstruction:
		return i.evalCompoundInstruction(nd)

	case *ast.IfInstruction:
		cond, err := i.evalExpression(nd.Condition)
		if err != nil {
			return Signal{}, err
		}
		if object.IsTruthy(cond) {
			return i.Eval(nd.Consequence)
		}
		return normal(object.NONE), nil

	case *ast.IfElseInstruction:
		cond, err := i.evalExpression(nd.Condition)
		if err != nil {
			return Signal{}, err
		}
		if object.IsTruthy(cond) {
			return i.Eval(nd.Consequence)
		}
		return i.Eval(nd.Alternative)

	case *ast.WhileInstruction:
		return i.evalWhileInstruction(nd)

	case *ast.RepeatInstruction:
		return i.evalRepeatInstruction(nd)

	case *ast.ReturnInstruction:
		val, err := i.evalExpression(nd.Value)
		if err != nil {
			return Signal{}, err
		}
		return Signal{Kind: SignalReturn, Value: val}, nil

	case *ast.BreakInstruction:
		return breakSignal, nil

	case *ast.ContinueInstruction:
		return continueSignal, nil

	case *ast.LabeledInstruction:
		return i.Eval(nd.Instruction)

	case *ast.PrintInstruction:
		val, err := i.evalExpression(nd.Value)
		if err != nil {
			return Signal{}, err
		}
		fmt.Fprintln(i.out, val.Inspect())
		return normal(val), nil

	case *ast.Assignment:
		return i.evalAssignment(nd)

	case ast.Expression:
		val, err := i.evalExpression(nd)
		if err != nil {
			return Signal{}, err
		}
		return normal(val), nil

	default:
		return Signal{}, fmt.Errorf("unsupported node %T", nd)
	}
}

func (i *Interpreter) evalProgram(program *ast.Program) (Signal, error) {
	for _, decl := range program.Declarations {
		if _, err := i.evalDeclaration(decl); err != nil {
			return Signal{}, err
		}
	}

	for _, fn := range program.Functions {
		closure := &object.Function{
			Name: fn.Name,
			Body: fn.Body,
			Env:  i.env,
		}
		for _, arg := range fn.Args {
			closure.Parameters = append(closure.Parameters, arg.Name)
		}
		if err := i.env.Define(fn.Name, closure); err != nil {
			return Signal{}, newError(Redeclared, ast.Line(fn), "%v is already declared in this scope", fn.Name)
		}
	}

	return i.evalInstructions(program.Instructions)
}

// evalInstructions stops at the first signal that isn't normal and hands it up
func (i *Interpreter) evalInstructions(instructions []ast.Instruction) (Signal, error) {
	result := normal(object.NONE)
	for _, instr := range instructions {
		sig, err := i.Eval(instr)
		if err != nil {
			return Signal{}, err
		}
		if sig.Kind != SignalNormal {
			return sig, nil
		}
		result = sig
	}
	return result, nil
}

func (i *Interpreter) evalDeclaration(decl *ast.Declaration) (Signal, error) {
	var last object.Object = object.NONE
	for _, init := range decl.Inits {
		val, err := i.evalExpression(init.Value)
		if err != nil {
			return Signal{}, err
		}
		if err := i.env.Define(init.Name, val); err != nil {
			return Signal{}, newError(Redeclared, ast.Line(init), "%v is already declared in this scope", init.Name)
		}
		last = val
	}
	return normal(last), nil
}

// evalBlock runs declarations then instructions in the current scope
func (i *Interpreter) evalBlock(block *ast.CompoundInstruction) (Signal, error) {
	for _, decl := range block.Declarations {
		if _, err := i.evalDeclaration(decl); err != nil {
			return Signal{}, err
		}
	}
	return i.evalInstructions(block.Instructions)
}

func (i *Interpreter) evalCompoundInstruction(block *ast.CompoundInstruction) (Signal, error) {
	// save the current env
	previousEnv := i.env
	i.env = object.NewEnvironment(previousEnv)
	defer func() { i.env = previousEnv }()

	return i.evalBlock(block)
}

func (i *Interpreter) evalWhileInstruction(loop *ast.WhileInstruction) (Signal, error) {
	var result object.Object = object.NONE
	for {
		cond, err := i.evalExpression(loop.Condition)
		if err != nil {
			return Signal{}, err
		}
		if !object.IsTruthy(cond) {
			return normal(result), nil
		}

		sig, err := i.Eval(loop.Body)
		if err != nil {
			return Signal{}, err
		}
		switch sig.Kind {
		case SignalBreak:
			return normal(result), nil
		case SignalContinue:
			continue
		case SignalReturn:
			return sig, nil
		default:
			result = sig.Value
		}
	}
}

func (i *Interpreter) evalRepeatInstruction(loop *ast.RepeatInstruction) (Signal, error) {
	var result object.Object = object.NONE
	for {
	body:
		for _, instr := range loop.Body {
			sig, err := i.Eval(instr)
			if err != nil {
				return Signal{}, err
			}
			switch sig.Kind {
			case SignalBreak:
				return normal(result), nil
			case SignalContinue:
				// straight to the condition
				break body
			case SignalReturn:
				return sig, nil
			default:
				result = sig.Value
			}
		}

		cond, err := i.evalExpression(loop.Condition)
		if err != nil {
			return Signal{}, err
		}
		if object.IsTruthy(cond) {
			return normal(result), nil
		}
	}
}

func (i *Interpreter) evalAssignment(nd *ast.Assignment) (Signal, error) {
	val, err := i.evalExpression(nd.Value)
	if err != nil {
		return Signal{}, err
	}

	if current, ok := i.env.Resolve(nd.Name); ok && current.Type() == object.FUNCTION_OBJ {
		return Signal{}, newError(UndeclaredVariable, ast.Line(nd), "%v is a function, not a variable", nd.Name)
	}

	if !i.env.Assign(nd.Name, val) {
		return Signal{}, newError(UndeclaredVariable, ast.Line(nd), "cannot assign to undeclared %v", nd.Name)
	}
	return normal(val), nil
}

// evalExpression evaluates a pure expression, calls already turn a return into their value
func (i *Interpreter) evalExpression(node ast.Expression) (object.Object, error) {
	switch nd := node.(type) {
	case *ast.IntegerLiteral:
		return &object.Integer{Value: nd.Value}, nil
	case *ast.FloatLiteral:
		return &object.Float{Value: nd.Value}, nil
	case *ast.StringLiteral:
		return &object.String{Value: nd.Value}, nil

	case *ast.Identifier:
		return i.evalIdentifier(nd)

	case *ast.BinaryExpression:
		return i.evalOperation(nd.Operator, nd.Left, nd.Right, ast.Line(nd))

	case *ast.RelationalExpression:
		return i.evalOperation(nd.Operator, nd.Left, nd.Right, ast.Line(nd))

	case *ast.CallExpression:
		return i.evalCallExpression(nd)

	default:
		return nil, fmt.Errorf("unsupported expression %T", nd)
	}
}

func (i *Interpreter) evalIdentifier(identifier *ast.Identifier) (object.Object, error) {
	if obj, ok := i.env.Resolve(identifier.Value); ok {
		return obj, nil
	}
	if i.strict {
		return nil, newError(UndeclaredVariable, ast.Line(identifier), "%v is not declared", identifier.Value)
	}
	return object.NONE, nil
}

func (i *Interpreter) evalOperation(op ast.Operator, leftNode, rightNode ast.Expression, line int) (object.Object, error) {
	// strict, both sides always run, left first
	left, err := i.evalExpression(leftNode)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(rightNode)
	if err != nil {
		return nil, err
	}
	return evalBinaryExpression(op, left, right, line)
}

func (i *Interpreter) evalCallExpression(call *ast.CallExpression) (object.Object, error) {
	line := ast.Line(call)
	name := call.Function.Value

	callee, ok := i.env.Resolve(name)
	fn, isFn := callee.(*object.Function)
	if !ok || !isFn {
		return nil, newError(NotCallable, line, "%v is not a function", name)
	}

	// arguments run in the caller's scope, before entering the callee
	args := make([]object.Object, 0, len(call.Args))
	for _, arg := range call.Args {
		val, err := i.evalExpression(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	return i.applyFunction(fn, args, line)
}

func (i *Interpreter) applyFunction(fn *object.Function, args []object.Object, line int) (object.Object, error) {
	if len(args) != len(fn.Parameters) {
		return nil, newError(ArityMismatch, line, "%v takes %d argument(s); %d given", fn.Name, len(fn.Parameters), len(args))
	}

	if i.depth >= i.limit {
		return nil, newError(RecursionLimit, line, "call depth exceeded %d in %v", i.limit, fn.Name)
	}
	i.depth++
	i.logger.Debug("enter function", zap.String("name", fn.Name), zap.Int("depth", i.depth))

	extendedEnv, err := extendFunctionEnv(fn, args, line)
	if err != nil {
		i.depth--
		return nil, err
	}

	// save the current env, the body collapses into the argument scope
	previousEnv := i.env
	i.env = extendedEnv
	sig, err := i.evalBlock(fn.Body)
	// restore the old env
	i.env = previousEnv
	i.depth--

	if err != nil {
		return nil, err
	}

	i.logger.Debug("leave function", zap.String("name", fn.Name), zap.Int("depth", i.depth))

	switch sig.Kind {
	case SignalReturn:
		return sig.Value, nil
	case SignalBreak, SignalContinue:
		return nil, newError(ControlLeak, line, "%v escaped function %v", sig.Kind, fn.Name)
	default:
		// falling off the end
		return object.NONE, nil
	}
}

func extendFunctionEnv(fn *object.Function, args []object.Object, line int) (*object.Environment, error) {
	env := object.NewEnvironment(fn.Env)
	for paramIdx, param := range fn.Parameters {
		if err := env.Define(param, args[paramIdx]); err != nil {
			return nil, newError(Redeclared, line, "parameter %v is declared twice in %v", param, fn.Name)
		}
	}
	return env, nil
}

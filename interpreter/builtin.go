package interpreter

import (
	"strings"

	"cparser/ast"
	"cparser/object"
)

// this holds the built in meaning of every binary operator

func nativeBool(val bool) *object.Integer {
	if val {
		return &object.Integer{Value: 1}
	}
	return &object.Integer{Value: 0}
}

func toFloat(obj object.Object) (float64, bool) {
	switch obj := obj.(type) {
	case *object.Integer:
		return float64(obj.Value), true
	case *object.Float:
		return obj.Value, true
	default:
		return 0, false
	}
}

func evalBinaryExpression(op ast.Operator, left, right object.Object, line int) (object.Object, error) {
	// the logical pair only cares about truthiness, both sides are already evaluated
	if op == ast.OpAnd || op == ast.OpOr {
		if left.Type() == object.NOVALUE_OBJ || right.Type() == object.NOVALUE_OBJ {
			return nil, mismatch(op, left, right, line)
		}
		if op == ast.OpAnd {
			return nativeBool(object.IsTruthy(left) && object.IsTruthy(right)), nil
		}
		return nativeBool(object.IsTruthy(left) || object.IsTruthy(right)), nil
	}

	switch {
	case left.Type() == object.INTEGER_OBJ && right.Type() == object.INTEGER_OBJ:
		return evalIntegerInfixExpression(op, left.(*object.Integer).Value, right.(*object.Integer).Value, line)

	case isNumber(left) && isNumber(right):
		l, _ := toFloat(left)
		r, _ := toFloat(right)
		return evalFloatInfixExpression(op, l, r, left, right, line)

	case left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ:
		return evalStringInfixExpression(op, left.(*object.String).Value, right.(*object.String).Value, left, right, line)

	case left.Type() == object.STRING_OBJ && right.Type() == object.INTEGER_OBJ && op == ast.OpMul:
		count := right.(*object.Integer).Value
		if count <= 0 {
			return &object.String{Value: ""}, nil
		}
		return &object.String{Value: strings.Repeat(left.(*object.String).Value, int(count))}, nil

	default:
		return nil, mismatch(op, left, right, line)
	}
}

func isNumber(obj object.Object) bool {
	_, ok := toFloat(obj)
	return ok
}

func mismatch(op ast.Operator, left, right object.Object, line int) error {
	return newError(TypeMismatch, line, "operator %v is not defined for %v and %v", op, describe(left), describe(right))
}

func describe(obj object.Object) string {
	switch obj.Type() {
	case object.INTEGER_OBJ:
		return "int"
	case object.FLOAT_OBJ:
		return "float"
	case object.STRING_OBJ:
		return "string"
	case object.FUNCTION_OBJ:
		return "function"
	default:
		return "none"
	}
}

func evalIntegerInfixExpression(op ast.Operator, left, right int64, line int) (object.Object, error) {
	switch op {
	case ast.OpAdd:
		return &object.Integer{Value: left + right}, nil
	case ast.OpSub:
		return &object.Integer{Value: left - right}, nil
	case ast.OpMul:
		return &object.Integer{Value: left * right}, nil
	case ast.OpDiv:
		if right == 0 {
			return nil, newError(DivisionByZero, line, "integer division by zero")
		}
		// truncates toward zero
		return &object.Integer{Value: left / right}, nil
	case ast.OpMod:
		if right == 0 {
			return nil, newError(DivisionByZero, line, "integer modulo by zero")
		}
		return &object.Integer{Value: left % right}, nil
	case ast.OpBitOr:
		return &object.Integer{Value: left | right}, nil
	case ast.OpBitAnd:
		return &object.Integer{Value: left & right}, nil
	case ast.OpBitXor:
		return &object.Integer{Value: left ^ right}, nil
	case ast.OpShl, ast.OpShr:
		if right < 0 {
			return nil, newError(InvalidOperand, line, "negative shift count %d", right)
		}
		if op == ast.OpShl {
			return &object.Integer{Value: left << uint64(right)}, nil
		}
		return &object.Integer{Value: left >> uint64(right)}, nil

	// comparison operators
	case ast.OpLess:
		return nativeBool(left < right), nil
	case ast.OpGreater:
		return nativeBool(left > right), nil
	case ast.OpLessEq:
		return nativeBool(left <= right), nil
	case ast.OpGreaterEq:
		return nativeBool(left >= right), nil
	case ast.OpEq:
		return nativeBool(left == right), nil
	case ast.OpNotEq:
		return nativeBool(left != right), nil
	default:
		return nil, newError(TypeMismatch, line, "operator %v is not defined for int and int", op)
	}
}

func evalFloatInfixExpression(op ast.Operator, left, right float64, lt, rt object.Object, line int) (object.Object, error) {
	switch op {
	case ast.OpAdd:
		return &object.Float{Value: left + right}, nil
	case ast.OpSub:
		return &object.Float{Value: left - right}, nil
	case ast.OpMul:
		return &object.Float{Value: left * right}, nil
	case ast.OpDiv:
		if right == 0 {
			return nil, newError(DivisionByZero, line, "float division by zero")
		}
		return &object.Float{Value: left / right}, nil
	case ast.OpLess:
		return nativeBool(left < right), nil
	case ast.OpGreater:
		return nativeBool(left > right), nil
	case ast.OpLessEq:
		return nativeBool(left <= right), nil
	case ast.OpGreaterEq:
		return nativeBool(left >= right), nil
	case ast.OpEq:
		return nativeBool(left == right), nil
	case ast.OpNotEq:
		return nativeBool(left != right), nil
	default:
		// % and the bitwise family are int only
		return nil, mismatch(op, lt, rt, line)
	}
}

func evalStringInfixExpression(op ast.Operator, left, right string, lt, rt object.Object, line int) (object.Object, error) {
	switch op {
	case ast.OpAdd:
		return &object.String{Value: left + right}, nil
	case ast.OpLess:
		return nativeBool(left < right), nil
	case ast.OpGreater:
		return nativeBool(left > right), nil
	case ast.OpLessEq:
		return nativeBool(left <= right), nil
	case ast.OpGreaterEq:
		return nativeBool(left >= right), nil
	case ast.OpEq:
		return nativeBool(left == right), nil
	case ast.OpNotEq:
		return nativeBool(left != right), nil
	default:
		return nil, mismatch(op, lt, rt, line)
	}
}

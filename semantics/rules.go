package semantics

import "cparser/ast"

type Type = ast.TYPE

func isNumeric(t Type) bool {
	return t == ast.IntType || t == ast.FloatType
}

// ResultType is the operator table, ok is false when op is undefined for (left, right).
func ResultType(op ast.Operator, left, right Type) (Type, bool) {
	switch op {
	case ast.OpAdd:
		if left == ast.StringType && right == ast.StringType {
			return ast.StringType, true
		}
		return numericResult(left, right)
	case ast.OpMul:
		if left == ast.StringType && right == ast.IntType {
			return ast.StringType, true
		}
		return numericResult(left, right)
	case ast.OpSub, ast.OpDiv:
		return numericResult(left, right)
	case ast.OpMod, ast.OpBitOr, ast.OpBitAnd, ast.OpBitXor, ast.OpShl, ast.OpShr:
		if left == ast.IntType && right == ast.IntType {
			return ast.IntType, true
		}
		return ast.UnknownType, false
	case ast.OpLess, ast.OpGreater, ast.OpLessEq, ast.OpGreaterEq, ast.OpEq, ast.OpNotEq, ast.OpAnd, ast.OpOr:
		if (isNumeric(left) && isNumeric(right)) || (left == ast.StringType && right == ast.StringType) {
			return ast.IntType, true
		}
		return ast.UnknownType, false
	default:
		return ast.UnknownType, false
	}
}

// int op int stays int, any float operand widens the result
func numericResult(left, right Type) (Type, bool) {
	if !isNumeric(left) || !isNumeric(right) {
		return ast.UnknownType, false
	}
	if left == ast.IntType && right == ast.IntType {
		return ast.IntType, true
	}
	return ast.FloatType, true
}

// Assignable reports whether a source value may be stored into a target of the given type.
func Assignable(target, source Type) bool {
	switch target {
	case ast.FloatType:
		return source == ast.FloatType || source == ast.IntType
	case ast.IntType:
		return source == ast.IntType
	case ast.StringType:
		return source == ast.StringType
	default:
		return false
	}
}

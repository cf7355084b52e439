package ast

import "cparser/lexer"

// Operator is the closed set of binary operators the language knows about.
type Operator int

const (
	OpIllegal Operator = iota

	// arithmetic & bitwise
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitOr
	OpBitAnd
	OpBitXor
	OpShl
	OpShr

	// relational & logical, all of them yield 0 or 1
	OpLess
	OpGreater
	OpLessEq
	OpGreaterEq
	OpEq
	OpNotEq
	OpAnd
	OpOr
)

var operatorSymbols = [...]string{
	OpIllegal:   "?",
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpMod:       "%",
	OpBitOr:     "|",
	OpBitAnd:    "&",
	OpBitXor:    "^",
	OpShl:       "<<",
	OpShr:       ">>",
	OpLess:      "<",
	OpGreater:   ">",
	OpLessEq:    "<=",
	OpGreaterEq: ">=",
	OpEq:        "==",
	OpNotEq:     "!=",
	OpAnd:       "&&",
	OpOr:        "||",
}

var tokenOperators = map[lexer.TokenKind]Operator{
	lexer.TokenPlus:           OpAdd,
	lexer.TokenMinus:          OpSub,
	lexer.TokenMultiply:       OpMul,
	lexer.TokenSlash:          OpDiv,
	lexer.TokenModule:         OpMod,
	lexer.TokenBitOr:          OpBitOr,
	lexer.TokenBitAnd:         OpBitAnd,
	lexer.TokenBitXOR:         OpBitXor,
	lexer.TokenBitLeftShift:   OpShl,
	lexer.TokenBitRightShift:  OpShr,
	lexer.TokenLess:           OpLess,
	lexer.TokenGreater:        OpGreater,
	lexer.TokenLessOrEqual:    OpLessEq,
	lexer.TokenGreaterOrEqual: OpGreaterEq,
	lexer.TokenEquals:         OpEq,
	lexer.TokenNotEquals:      OpNotEq,
	lexer.TokenAnd:            OpAnd,
	lexer.TokenOr:             OpOr,
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorSymbols) {
		return operatorSymbols[OpIllegal]
	}
	return operatorSymbols[op]
}

// IsRelational reports whether op belongs to the comparison/logical family.
func (op Operator) IsRelational() bool {
	return op >= OpLess && op <= OpOr
}

// LookupOperator maps a token kind to its operator.
func LookupOperator(kind lexer.TokenKind) (Operator, bool) {
	op, ok := tokenOperators[kind]
	return op, ok
}

package lexer

type Operator = string

var (
	Keywords = map[string]TokenKind{
		"print":    TokenPrint,
		"if":       TokenIf,
		"else":     TokenElse,
		"while":    TokenWhile,
		"repeat":   TokenRepeat,
		"until":    TokenUntil,
		"return":   TokenReturn,
		"break":    TokenBreak,
		"continue": TokenContinue,
		"int":      TokenType,
		"float":    TokenType,
		"string":   TokenType,
	}

	BinOperators = map[TokenKind]Operator{
		TokenEquals:         "==",
		TokenGreater:        ">",
		TokenGreaterOrEqual: ">=",
		TokenLess:           "<",
		TokenLessOrEqual:    "<=",
		TokenNotEquals:      "!=",
		TokenMultiply:       "*",
		TokenSlash:          "/",
		TokenModule:         "%",
		TokenPlus:           "+",
		TokenMinus:          "-",
		TokenAnd:            "&&",
		TokenOr:             "||",
		TokenBitAnd:         "&",
		TokenBitOr:          "|",
		TokenBitXOR:         "^",
		TokenBitRightShift:  ">>",
		TokenBitLeftShift:   "<<",
	}
)

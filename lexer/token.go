package lexer

type TokenKind = string

const (

	// Keywords
	TokenPrint    TokenKind = "print"
	TokenIf       TokenKind = "if"
	TokenElse     TokenKind = "else"
	TokenWhile    TokenKind = "while"
	TokenRepeat   TokenKind = "repeat"
	TokenUntil    TokenKind = "until"
	TokenReturn   TokenKind = "return"
	TokenBreak    TokenKind = "break"
	TokenContinue TokenKind = "continue"

	// Var Types, int/float/string all lex into TokenType
	TokenType TokenKind = "type"

	// Units
	TokenCurlyBraceOpen  TokenKind = "{"
	TokenCurlyBraceClose TokenKind = "}"
	TokenBraceOpen       TokenKind = "("
	TokenBraceClose      TokenKind = ")"
	TokenQuote           TokenKind = `"`
	TokenColon           TokenKind = ":"
	TokenSemicolon       TokenKind = ";"
	TokenComma           TokenKind = ","

	// Arithmetic Operators
	TokenMinus          TokenKind = "-"
	TokenPlus           TokenKind = "+"
	TokenMultiply       TokenKind = "*"
	TokenSlash          TokenKind = "/"
	TokenModule         TokenKind = "%"
	TokenEquals         TokenKind = "=="
	TokenNotEquals      TokenKind = "!="
	TokenGreater        TokenKind = ">"
	TokenLess           TokenKind = "<"
	TokenGreaterOrEqual TokenKind = ">="
	TokenLessOrEqual    TokenKind = "<="

	// Bitwise Operators
	TokenBitAnd        TokenKind = "&"
	TokenBitOr         TokenKind = "|"
	TokenBitXOR        TokenKind = "^"
	TokenBitRightShift TokenKind = ">>"
	TokenBitLeftShift  TokenKind = "<<"

	// Bind Operators
	TokenAssign TokenKind = "="

	// Logical Operators
	TokenAnd TokenKind = "&&"
	TokenOr  TokenKind = "||"

	// Comment
	TokenComment TokenKind = "#"

	// Var Naming
	TokenIdentifier TokenKind = "identifier"

	// literals
	TokenString TokenKind = "string literal"
	TokenInt    TokenKind = "int literal"
	TokenFloat  TokenKind = "float literal"

	// Error
	TokenError TokenKind = "error"

	// EOF
	TokenEOF TokenKind = "end of file"
)

type LiteralToken struct {
	Text string
	Kind TokenKind
}

type Lexer struct {
	Content []rune
	// help mainly in error detection when having multi file execution
	FilePath string
	Row      int
	Col      int
	Cur      int
}

type Token struct {
	LiteralToken
	Row int
	Col int
}

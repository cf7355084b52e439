package lexer

import (
	"strings"
	"unicode"
)

func NewLexer(filePath string, content string) *Lexer {
	lexer := Lexer{
		Content:  []rune(content),
		FilePath: filePath,
		Row:      1,
		Col:      1,
		Cur:      0,
	}
	return &lexer
}

func (l *Lexer) readChar() {
	if l.Cur >= len(l.Content) {
		// reach end of file
		return
	}

	char := l.Content[l.Cur]

	switch char {
	case '\n':
		l.Row++
		l.Col = 1
	default:
		l.Col++
	}

	// increment to deal with the next char
	l.Cur++
}

// peek returns the char right after the current one, 0 at end of input
func (l *Lexer) peek() rune {
	if l.Cur+1 >= len(l.Content) {
		return 0
	}
	return l.Content[l.Cur+1]
}

// twoCharToken consumes the current char, and the next one if it matches second
func (l *Lexer) twoCharToken(second rune, double, single LiteralToken) LiteralToken {
	if l.peek() == second {
		l.readChar()
		l.readChar()
		return double
	}
	l.readChar()
	return single
}

func (l *Lexer) NextToken() Token {
	l.skipWhiteSpace()
	l.skipComment()

	token := Token{
		Row: l.Row,
		Col: l.Col,
	}

	if l.Cur >= len(l.Content) {
		token.LiteralToken = LiteralToken{
			Kind: TokenEOF,
			Text: "",
		}
		return token
	}

	char := l.Content[l.Cur]

	switch string(char) {
	case TokenCurlyBraceOpen, TokenCurlyBraceClose, TokenBraceOpen, TokenBraceClose,
		TokenColon, TokenSemicolon, TokenComma, TokenPlus, TokenMinus, TokenMultiply,
		TokenSlash, TokenModule, TokenBitXOR:
		l.readChar()
		token.LiteralToken = LiteralToken{
			Kind: string(char),
			Text: string(char),
		}
	case TokenAssign:
		token.LiteralToken = l.twoCharToken('=',
			LiteralToken{Kind: TokenEquals, Text: "=="},
			LiteralToken{Kind: TokenAssign, Text: "="},
		)
	case "!":
		if l.peek() != '=' {
			l.readChar()
			token.LiteralToken = LiteralToken{
				Kind: TokenError,
				Text: "unexpected character !, did you mean != ?",
			}
			return token
		}
		l.readChar()
		l.readChar()
		token.LiteralToken = LiteralToken{
			Kind: TokenNotEquals,
			Text: "!=",
		}
	case TokenGreater:
		switch l.peek() {
		case '=':
			l.readChar()
			l.readChar()
			token.LiteralToken = LiteralToken{Kind: TokenGreaterOrEqual, Text: ">="}
		case '>':
			l.readChar()
			l.readChar()
			token.LiteralToken = LiteralToken{Kind: TokenBitRightShift, Text: ">>"}
		default:
			l.readChar()
			token.LiteralToken = LiteralToken{Kind: TokenGreater, Text: ">"}
		}
	case TokenLess:
		switch l.peek() {
		case '=':
			l.readChar()
			l.readChar()
			token.LiteralToken = LiteralToken{Kind: TokenLessOrEqual, Text: "<="}
		case '<':
			l.readChar()
			l.readChar()
			token.LiteralToken = LiteralToken{Kind: TokenBitLeftShift, Text: "<<"}
		default:
			l.readChar()
			token.LiteralToken = LiteralToken{Kind: TokenLess, Text: "<"}
		}
	case TokenBitAnd:
		token.LiteralToken = l.twoCharToken('&',
			LiteralToken{Kind: TokenAnd, Text: "&&"},
			LiteralToken{Kind: TokenBitAnd, Text: "&"},
		)
	case TokenBitOr:
		token.LiteralToken = l.twoCharToken('|',
			LiteralToken{Kind: TokenOr, Text: "||"},
			LiteralToken{Kind: TokenBitOr, Text: "|"},
		)
	case TokenQuote:
		return l.readString()
	default:
		if isLetter(char) {
			return l.readIdentifier()
		} else if isDigit(char) || (char == '.' && isDigit(l.peek())) {
			return l.readNumber()
		} else {
			l.readChar()
			token.LiteralToken = LiteralToken{
				Kind: TokenError,
				Text: "illegal character " + string(char),
			}
		}
	}
	return token
}

func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return tokens
}

func isLetter(char rune) bool {
	return unicode.IsLetter(char) || char == '_'
}

func isDigit(char rune) bool {
	return char >= '0' && char <= '9'
}

func (l *Lexer) readIdentifier() Token {
	startPos := l.Cur

	// save them to return
	row := l.Row
	col := l.Col

	for l.Cur < len(l.Content) {
		char := l.Content[l.Cur]
		if isLetter(char) || isDigit(char) {
			l.readChar()
		} else {
			break
		}
	}

	text := string(l.Content[startPos:l.Cur])

	if tokenKind, isKeyword := Keywords[text]; isKeyword {
		return Token{LiteralToken: LiteralToken{
			Kind: tokenKind,
			Text: text,
		}, Row: row, Col: col}
	}

	return Token{
		LiteralToken: LiteralToken{
			Kind: TokenIdentifier,
			Text: text,
		},
		Row: row,
		Col: col,
	}
}

// readString reads a double quoted literal, Text holds the unescaped value
func (l *Lexer) readString() Token {
	row, col := l.Row, l.Col

	l.readChar() // skip the opening quote

	var out strings.Builder
	for l.Cur < len(l.Content) && l.Content[l.Cur] != '"' {
		char := l.Content[l.Cur]
		if char == '\n' {
			break
		}
		if char == '\\' && l.Cur+1 < len(l.Content) {
			l.readChar()
			switch l.Content[l.Cur] {
			case 'n':
				out.WriteRune('\n')
			case 't':
				out.WriteRune('\t')
			case '"':
				out.WriteRune('"')
			case '\\':
				out.WriteRune('\\')
			default:
				out.WriteRune('\\')
				out.WriteRune(l.Content[l.Cur])
			}
			l.readChar()
			continue
		}
		out.WriteRune(char)
		l.readChar()
	}

	if l.Cur >= len(l.Content) || l.Content[l.Cur] != '"' {
		return Token{
			LiteralToken: LiteralToken{
				Kind: TokenError,
				Text: `the quoted data, doesn't have a closing quote (")`,
			},
			Row: row,
			Col: col,
		}
	}

	l.readChar() // consume the closing quote

	return Token{
		LiteralToken: LiteralToken{
			Kind: TokenString,
			Text: out.String(),
		},
		Row: row,
		Col: col,
	}
}

func (l *Lexer) readNumber() Token {
	startPos := l.Cur
	row := l.Row
	col := l.Col
	kind := TokenInt

	// Read integer part
	for l.Cur < len(l.Content) && isDigit(l.Content[l.Cur]) {
		l.readChar()
	}

	if l.Cur < len(l.Content) && l.Content[l.Cur] == '.' {
		kind = TokenFloat
		l.readChar() // consume '.'

		// Read fractional part
		for l.Cur < len(l.Content) && isDigit(l.Content[l.Cur]) {
			l.readChar()
		}
	}

	return Token{
		LiteralToken: LiteralToken{
			Kind: kind,
			Text: string(l.Content[startPos:l.Cur]),
		},
		Row: row,
		Col: col,
	}
}

func (l *Lexer) skipComment() {
	for l.Cur < len(l.Content) && l.Content[l.Cur] == '#' {
		for l.Cur < len(l.Content) && l.Content[l.Cur] != '\n' {
			l.readChar()
		}
		l.skipWhiteSpace()
	}
}

func (l *Lexer) skipWhiteSpace() {
	for l.Cur < len(l.Content) && unicode.IsSpace(l.Content[l.Cur]) {
		l.readChar()
	}
}

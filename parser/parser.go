package parser

import (
	"errors"
	"fmt"
	"strconv"

	"cparser/ast"
	"cparser/lexer"
)

const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	BitOr       // |
	BitXor      // ^
	BitAnd      // &
	COMPARE     // == != > < >= <=, non associative
	BitShift    // << >>
	SUM         // + -
	PRODUCT     // * / %
	CALL        // myFunction(X)
)

var precedences = map[lexer.TokenKind]int{
	lexer.TokenOr:             OR,
	lexer.TokenAnd:            AND,
	lexer.TokenBitOr:          BitOr,
	lexer.TokenBitXOR:         BitXor,
	lexer.TokenBitAnd:         BitAnd,
	lexer.TokenEquals:         COMPARE,
	lexer.TokenNotEquals:      COMPARE,
	lexer.TokenLess:           COMPARE,
	lexer.TokenLessOrEqual:    COMPARE,
	lexer.TokenGreater:        COMPARE,
	lexer.TokenGreaterOrEqual: COMPARE,
	lexer.TokenBitRightShift:  BitShift,
	lexer.TokenBitLeftShift:   BitShift,
	lexer.TokenPlus:           SUM,
	lexer.TokenMinus:          SUM,
	lexer.TokenSlash:          PRODUCT,
	lexer.TokenMultiply:       PRODUCT,
	lexer.TokenModule:         PRODUCT,
	lexer.TokenBraceOpen:      CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// SyntaxError is a positioned parse failure.
type SyntaxError struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: syntax error: %s", e.File, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%d:%d: syntax error: %s", e.Line, e.Col, e.Msg)
}

// errReported marks a failure whose diagnostic was already recorded
var errReported = errors.New("")

type Parser struct {
	lexer          *lexer.Lexer
	FilePath       string
	Errors         []error
	prefixParseFns map[lexer.TokenKind]prefixParseFn
	infixParseFns  map[lexer.TokenKind]infixParseFn

	prevToken lexer.Token // previous token of current token
	curToken  lexer.Token
	peekToken lexer.Token // one token lookahead
}

func NewParser(lex *lexer.Lexer, filepath string) *Parser {
	p := Parser{
		lexer:          lex,
		FilePath:       filepath,
		Errors:         []error{},
		prefixParseFns: make(map[lexer.TokenKind]prefixParseFn),
		infixParseFns:  make(map[lexer.TokenKind]infixParseFn),
	}

	p.registerPrefix(lexer.TokenIdentifier, p.parseIdentifier)
	p.registerPrefix(lexer.TokenInt, p.parseIntLiteral)
	p.registerPrefix(lexer.TokenFloat, p.parseFloatLiteral)
	p.registerPrefix(lexer.TokenString, p.parseStringLiteral)
	p.registerPrefix(lexer.TokenBraceOpen, p.parseGroupedExpression)

	for kind := range lexer.BinOperators {
		p.registerInfix(kind, p.parseInfixExpression)
	}
	p.registerInfix(lexer.TokenBraceOpen, p.parseCallExpression)

	// set the tok position
	p.nextToken()
	p.nextToken()

	return &p
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Kind]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

func (p *Parser) add(err error) {
	if len(err.Error()) > 0 {
		p.Errors = append(p.Errors, err)
	}
}

// sync skips to the end of the broken instruction: past the next ';', or up to a '}'
func (p *Parser) sync() {
	for !p.curTokenKindIs(lexer.TokenEOF) {
		if p.curTokenKindIs(lexer.TokenSemicolon) {
			p.nextToken()
			return
		}
		if p.curTokenKindIs(lexer.TokenCurlyBraceClose) {
			return
		}
		p.nextToken()
	}
}

func (p *Parser) curTokenKindIs(kind lexer.TokenKind) bool {
	return p.curToken.Kind == kind
}

func (p *Parser) peekTokenKindIs(kind lexer.TokenKind) bool {
	return p.peekToken.Kind == kind
}

func (p *Parser) error(tok lexer.Token, msg ...interface{}) error {
	return &SyntaxError{
		File: p.FilePath,
		Line: tok.Row,
		Col:  tok.Col,
		Msg:  fmt.Sprint(msg...),
	}
}

// unexpected reports the current token, lexer errors carry their own message
func (p *Parser) unexpected(expected string) error {
	if p.curTokenKindIs(lexer.TokenError) {
		return p.error(p.curToken, p.curToken.Text)
	}
	if p.curTokenKindIs(lexer.TokenEOF) {
		return p.error(p.curToken, "expected ", expected, ", instead reached end of file")
	}
	return p.error(p.curToken, "expected ", expected, ", instead got ", p.curToken.Text)
}

// expect consumes the current token if it has the given kind
func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, error) {
	tok := p.curToken
	if !p.curTokenKindIs(kind) {
		return tok, p.unexpected(kind)
	}
	p.nextToken()
	return tok, nil
}

func (p *Parser) registerPrefix(tokenType lexer.TokenKind, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}
func (p *Parser) registerInfix(tokenType lexer.TokenKind, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// Parse reads a whole program: declarations, then functions, then instructions.
// Syntax errors are collected in p.Errors, the returned tree is only meaningful when there are none.
func (p *Parser) Parse() *ast.Program {
	program := &ast.Program{
		Token:        p.curToken,
		Declarations: []*ast.Declaration{},
		Functions:    []*ast.Function{},
		Instructions: []ast.Instruction{},
	}

	for !p.curTokenKindIs(lexer.TokenEOF) {
		if p.curTokenKindIs(lexer.TokenType) {
			if len(program.Instructions) > 0 {
				p.add(p.error(p.curToken, "declarations and functions must precede instructions"))
				p.sync()
				continue
			}
			decl, fn, err := p.parseDefinition()
			switch {
			case err != nil:
				p.add(err)
				p.sync()
			case fn != nil:
				program.Functions = append(program.Functions, fn)
			case len(program.Functions) > 0:
				p.add(p.error(decl.Token, "declarations must precede function definitions"))
			default:
				program.Declarations = append(program.Declarations, decl)
			}
			continue
		}

		if p.curTokenKindIs(lexer.TokenCurlyBraceClose) {
			p.add(p.error(p.curToken, "unexpected }"))
			p.nextToken()
			continue
		}

		stmt, err := p.parseInstruction()
		if err != nil {
			p.add(err)
			p.sync()
		} else {
			program.Instructions = append(program.Instructions, stmt)
		}
	}

	return program
}

// parseDefinition handles TYPE IDENT ..., which is either a declaration or a function
func (p *Parser) parseDefinition() (*ast.Declaration, *ast.Function, error) {
	typeTok := p.curToken
	p.nextToken()

	nameTok, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, nil, err
	}

	if p.curTokenKindIs(lexer.TokenBraceOpen) {
		fn, err := p.parseFunction(typeTok, nameTok)
		return nil, fn, err
	}

	decl, err := p.parseDeclarationRest(typeTok, nameTok)
	return decl, nil, err
}

func (p *Parser) parseDeclaration() (*ast.Declaration, error) {
	typeTok := p.curToken
	p.nextToken()

	nameTok, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}

	if p.curTokenKindIs(lexer.TokenBraceOpen) {
		return nil, p.error(nameTok, "function ", nameTok.Text, " must be defined at top level")
	}

	return p.parseDeclarationRest(typeTok, nameTok)
}

// parseDeclarationRest parses the inits once the type and the first name are consumed
func (p *Parser) parseDeclarationRest(typeTok, nameTok lexer.Token) (*ast.Declaration, error) {
	decl := &ast.Declaration{Token: typeTok, Type: typeTok.Text}

	for {
		init, err := p.parseInit(nameTok)
		if err != nil {
			return nil, err
		}
		decl.Inits = append(decl.Inits, init)

		if !p.curTokenKindIs(lexer.TokenComma) {
			break
		}
		p.nextToken() // consume the comma

		nameTok, err = p.expect(lexer.TokenIdentifier)
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}

	return decl, nil
}

func (p *Parser) parseInit(nameTok lexer.Token) (*ast.Init, error) {
	if _, err := p.expect(lexer.TokenAssign); err != nil {
		return nil, err
	}

	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil, errReported
	}

	return &ast.Init{Token: nameTok, Name: nameTok.Text, Value: value}, nil
}

func (p *Parser) parseFunction(typeTok, nameTok lexer.Token) (*ast.Function, error) {
	fn := &ast.Function{
		Token:      typeTok,
		ReturnType: typeTok.Text,
		Name:       nameTok.Text,
		Args:       []*ast.Argument{},
	}

	p.nextToken() // consume (

	for !p.curTokenKindIs(lexer.TokenBraceClose) {
		if len(fn.Args) > 0 {
			if _, err := p.expect(lexer.TokenComma); err != nil {
				return nil, err
			}
		}

		argTypeTok, err := p.expect(lexer.TokenType)
		if err != nil {
			return nil, err
		}
		argNameTok, err := p.expect(lexer.TokenIdentifier)
		if err != nil {
			return nil, err
		}

		fn.Args = append(fn.Args, &ast.Argument{
			Token: argTypeTok,
			Type:  argTypeTok.Text,
			Name:  argNameTok.Text,
		})
	}

	p.nextToken() // consume )

	if !p.curTokenKindIs(lexer.TokenCurlyBraceOpen) {
		return nil, p.unexpected("{")
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body

	return fn, nil
}

// parseBlock parses '{' declaration* instruction* '}'
func (p *Parser) parseBlock() (*ast.CompoundInstruction, error) {
	block := &ast.CompoundInstruction{
		Token:        p.curToken,
		Declarations: []*ast.Declaration{},
		Instructions: []ast.Instruction{},
	}
	p.nextToken() // consume {

	for !p.curTokenKindIs(lexer.TokenCurlyBraceClose) && !p.curTokenKindIs(lexer.TokenEOF) {
		if p.curTokenKindIs(lexer.TokenType) {
			if len(block.Instructions) > 0 {
				p.add(p.error(p.curToken, "declarations must precede instructions in a block"))
				p.sync()
				continue
			}
			decl, err := p.parseDeclaration()
			if err != nil {
				p.add(err)
				p.sync()
				continue
			}
			block.Declarations = append(block.Declarations, decl)
			continue
		}

		stmt, err := p.parseInstruction()
		if err != nil {
			p.add(err)
			p.sync()
		} else {
			block.Instructions = append(block.Instructions, stmt)
		}
	}

	if !p.curTokenKindIs(lexer.TokenCurlyBraceClose) {
		return nil, p.error(p.curToken, "end of block expects }, instead reached end of file")
	}

	p.nextToken()

	return block, nil
}

func (p *Parser) parseInstruction() (ast.Instruction, error) {
	switch p.curToken.Kind {
	case lexer.TokenPrint:
		return p.parsePrintInstruction()
	case lexer.TokenIf:
		return p.parseIfInstruction()
	case lexer.TokenWhile:
		return p.parseWhileInstruction()
	case lexer.TokenRepeat:
		return p.parseRepeatInstruction()
	case lexer.TokenReturn:
		return p.parseReturnInstruction()
	case lexer.TokenBreak:
		stmt := &ast.BreakInstruction{Token: p.curToken}
		p.nextToken()
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		return stmt, nil
	case lexer.TokenContinue:
		stmt := &ast.ContinueInstruction{Token: p.curToken}
		p.nextToken()
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		return stmt, nil
	case lexer.TokenCurlyBraceOpen:
		return p.parseBlock()
	case lexer.TokenIdentifier:
		switch {
		case p.peekTokenKindIs(lexer.TokenColon):
			return p.parseLabeledInstruction()
		case p.peekTokenKindIs(lexer.TokenAssign):
			return p.parseAssignment()
		default:
			return nil, p.error(p.peekToken, "expected = or : after ", p.curToken.Text, ", instead got ", p.peekToken.Text)
		}
	case lexer.TokenType:
		return nil, p.error(p.curToken, "declarations must precede instructions")
	default:
		return nil, p.unexpected("an instruction")
	}
}

func (p *Parser) parsePrintInstruction() (*ast.PrintInstruction, error) {
	stmt := &ast.PrintInstruction{Token: p.curToken}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil, errReported
	}

	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseLabeledInstruction() (*ast.LabeledInstruction, error) {
	stmt := &ast.LabeledInstruction{Token: p.curToken, Label: p.curToken.Text}
	p.nextToken() // label
	p.nextToken() // :

	inner, err := p.parseInstruction()
	if err != nil {
		return nil, err
	}
	stmt.Instruction = inner
	return stmt, nil
}

func (p *Parser) parseAssignment() (*ast.Assignment, error) {
	stmt := &ast.Assignment{Token: p.curToken, Name: p.curToken.Text}
	p.nextToken() // identifier
	p.nextToken() // =

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil, errReported
	}

	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseCondition parses '(' expr ')'
func (p *Parser) parseCondition() (ast.Expression, error) {
	if _, err := p.expect(lexer.TokenBraceOpen); err != nil {
		return nil, err
	}

	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil, errReported
	}

	if _, err := p.expect(lexer.TokenBraceClose); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseIfInstruction() (ast.Instruction, error) {
	tok := p.curToken
	p.nextToken()

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	consequence, err := p.parseInstruction()
	if err != nil {
		return nil, err
	}

	// dangling else binds to the closest if
	if !p.curTokenKindIs(lexer.TokenElse) {
		return &ast.IfInstruction{Token: tok, Condition: cond, Consequence: consequence}, nil
	}
	p.nextToken()

	alternative, err := p.parseInstruction()
	if err != nil {
		return nil, err
	}

	return &ast.IfElseInstruction{
		Token:       tok,
		Condition:   cond,
		Consequence: consequence,
		Alternative: alternative,
	}, nil
}

func (p *Parser) parseWhileInstruction() (*ast.WhileInstruction, error) {
	stmt := &ast.WhileInstruction{Token: p.curToken}
	p.nextToken()

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	stmt.Condition = cond

	body, err := p.parseInstruction()
	if err != nil {
		return nil, err
	}
	stmt.Body = body

	return stmt, nil
}

func (p *Parser) parseRepeatInstruction() (*ast.RepeatInstruction, error) {
	stmt := &ast.RepeatInstruction{Token: p.curToken, Body: []ast.Instruction{}}
	p.nextToken()

	for !p.curTokenKindIs(lexer.TokenUntil) {
		if p.curTokenKindIs(lexer.TokenEOF) || p.curTokenKindIs(lexer.TokenCurlyBraceClose) {
			return nil, p.unexpected("until")
		}
		inner, err := p.parseInstruction()
		if err != nil {
			return nil, err
		}
		stmt.Body = append(stmt.Body, inner)
	}

	p.nextToken() // consume until

	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil, errReported
	}

	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseReturnInstruction() (*ast.ReturnInstruction, error) {
	stmt := &ast.ReturnInstruction{Token: p.curToken}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil, errReported
	}

	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Text}
	p.nextToken()
	return ident
}

func (p *Parser) parseIntLiteral() ast.Expression {
	tok := p.curToken
	value, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		p.add(p.error(tok, "integer literal ", tok.Text, " is out of range"))
		return nil
	}
	p.nextToken()
	return &ast.IntegerLiteral{Token: tok, Value: value}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.curToken
	value, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		p.add(p.error(tok, "malformed float literal ", tok.Text))
		return nil
	}
	p.nextToken()
	return &ast.FloatLiteral{Token: tok, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	lit := &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Text}
	p.nextToken()
	return lit
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken() // consume (

	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}

	if !p.curTokenKindIs(lexer.TokenBraceClose) {
		p.add(p.unexpected(")"))
		return nil
	}
	p.nextToken()

	return exp
}

func (p *Parser) parseCallExpression(left ast.Expression) ast.Expression {
	fn, ok := left.(*ast.Identifier)
	if !ok {
		p.add(p.error(p.curToken, "only named functions can be called"))
		return nil
	}

	exp := &ast.CallExpression{Token: fn.Token, Function: fn}

	args := p.parseCallArguments()
	if args == nil {
		return nil
	}
	exp.Args = args

	return exp
}

func (p *Parser) parseCallArguments() []ast.Expression {
	args := make([]ast.Expression, 0)

	p.nextToken() // consume (

	if p.curTokenKindIs(lexer.TokenBraceClose) {
		p.nextToken()
		return args
	}

	for {
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		args = append(args, expr)

		if !p.curTokenKindIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}

	if !p.curTokenKindIs(lexer.TokenBraceClose) {
		p.add(p.unexpected(")"))
		return nil
	}

	p.nextToken()

	return args
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken

	op, ok := ast.LookupOperator(tok.Kind)
	if !ok {
		p.add(p.error(tok, "expected a binary operator (== | > | < | ...), instead got ", tok.Text))
		return nil
	}

	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}

	if precedence == COMPARE && p.curPrecedence() == COMPARE {
		p.add(p.error(p.curToken, "comparison operators can't be chained, use parentheses"))
		return nil
	}

	if op.IsRelational() {
		return &ast.RelationalExpression{Token: tok, Operator: op, Left: left, Right: right}
	}
	return &ast.BinaryExpression{Token: tok, Operator: op, Left: left, Right: right}
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	cur := p.curToken

	if cur.Kind == lexer.TokenError {
		p.add(p.error(cur, cur.Text))
		return nil
	}

	prefix := p.prefixParseFns[cur.Kind]

	if prefix == nil {
		p.add(p.unexpected("an expression"))
		return nil
	}

	leftExp := prefix()

	for leftExp != nil && precedence < p.curPrecedence() {
		infix := p.infixParseFns[p.curToken.Kind]
		if infix == nil {
			return leftExp
		}
		leftExp = infix(leftExp)
	}

	return leftExp
}

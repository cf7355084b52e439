package semantics

import (
	"errors"
)

var (
	ErrDuplicateSymbol = errors.New("symbol already declared in this scope")
	ErrSymbolNotFound  = errors.New("symbol not found")
)

type SymbolKind = string

const (
	SymbolVar  SymbolKind = "var"
	SymbolFunc SymbolKind = "fn"
)

type SymbolInfo struct {
	Name       string
	Kind       SymbolKind
	Type       Type   // declared type, the return type for functions
	ParamTypes []Type // functions only
	Line       int
}

type ScopeKind int

const (
	ScopeProgram ScopeKind = iota
	ScopeFunction
	ScopeLoop
	ScopeCompound
)

type symbolTable struct {
	Parent     *symbolTable          // for nested scopes
	Store      map[string]SymbolInfo // current scope's entries
	Kind       ScopeKind
	ReturnType Type // function scopes only
	Depth      int
}

func NewSymbolTable() *symbolTable {
	return &symbolTable{
		Store: make(map[string]SymbolInfo),
		Kind:  ScopeProgram,
	}
}

// Label names the construct that owns the scope: program, function_<type>, loop or compinst.
func (s *symbolTable) Label() string {
	switch s.Kind {
	case ScopeFunction:
		return "function_" + s.ReturnType
	case ScopeLoop:
		return "loop"
	case ScopeCompound:
		return "compinst"
	default:
		return "program"
	}
}

// Declare fails if the name already lives in this very scope, shadowing an outer one is fine.
func (s *symbolTable) Declare(name string, sym SymbolInfo) error {
	if _, ok := s.Store[name]; ok {
		return ErrDuplicateSymbol
	}
	sym.Name = name
	s.Store[name] = sym
	return nil
}

func (s *symbolTable) Resolve(name string) (*SymbolInfo, error) {
	scope := s
	for scope != nil {
		if sym, ok := scope.Store[name]; ok {
			return &sym, nil
		}
		scope = scope.Parent
	}
	return nil, ErrSymbolNotFound
}

func (s *symbolTable) EnclosingFunctionReturnType() (Type, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if scope.Kind == ScopeFunction {
			return scope.ReturnType, true
		}
	}
	return "", false
}

// IsInsideLoop stops at the function boundary, a loop around a call site doesn't count.
func (s *symbolTable) IsInsideLoop() bool {
	for scope := s; scope != nil; scope = scope.Parent {
		switch scope.Kind {
		case ScopeLoop:
			return true
		case ScopeFunction:
			return false
		}
	}
	return false
}

type symbolResolver struct {
	current *symbolTable
}

func NewSymbolResolver() *symbolResolver {
	return &symbolResolver{
		current: NewSymbolTable(),
	}
}

func (s *symbolResolver) Declare(name string, sym SymbolInfo) error {
	return s.current.Declare(name, sym)
}

func (s *symbolResolver) Resolve(name string) (*SymbolInfo, error) {
	return s.current.Resolve(name)
}

func (s *symbolResolver) EnterScope(kind ScopeKind, returnType Type) *symbolTable {
	newScope := NewSymbolTable()
	newScope.Parent = s.current
	newScope.Kind = kind
	newScope.ReturnType = returnType
	newScope.Depth = s.current.Depth + 1
	s.current = newScope
	return newScope
}

func (s *symbolResolver) ExitScope(curr *symbolTable) *symbolTable {
	if curr.Parent != nil {
		s.current = curr.Parent
	}
	return s.current
}

// Current is the innermost open scope.
func (s *symbolResolver) Current() *symbolTable {
	return s.current
}

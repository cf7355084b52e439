package object

import "errors"

var ErrRedeclared = errors.New("already declared in this scope")

// Cell holds a value, bindings in several scopes may share one.
type Cell struct {
	Value Object
}

type binding struct {
	cell  *Cell
	owned bool // false for a read-through reference to an ancestor's cell
}

type Environment struct {
	outer *Environment
	store map[string]binding
}

func NewEnvironment(outer *Environment) *Environment {
	s := make(map[string]binding)
	return &Environment{
		outer: outer,
		store: s,
	}
}

func (e *Environment) Outer() *Environment {
	return e.outer
}

// lookup walks the chain and returns the cell owning the name
func (e *Environment) lookup(name string) (*Cell, bool) {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok {
			return b.cell, true
		}
	}
	return nil, false
}

// Resolve reads through the chain. A hit in an ancestor is memoized here as a
// reference to the same cell, so later writes anywhere stay visible.
func (e *Environment) Resolve(name string) (Object, bool) {
	if b, ok := e.store[name]; ok {
		return b.cell.Value, true
	}
	if e.outer == nil {
		return nil, false
	}
	cell, ok := e.outer.lookup(name)
	if !ok {
		return nil, false
	}
	e.store[name] = binding{cell: cell}
	return cell.Value, true
}

// Define binds a fresh cell in this scope, a memoized reference gets replaced.
func (e *Environment) Define(name string, val Object) error {
	if b, ok := e.store[name]; ok && b.owned {
		return ErrRedeclared
	}
	e.store[name] = binding{cell: &Cell{Value: val}, owned: true}
	return nil
}

// Assign updates the cell where the name is visible, it never creates a new binding.
func (e *Environment) Assign(name string, val Object) bool {
	cell, ok := e.lookup(name)
	if !ok {
		return false
	}
	cell.Value = val
	return true
}

// Owns reports whether name is declared in this very scope.
func (e *Environment) Owns(name string) bool {
	b, ok := e.store[name]
	return ok && b.owned
}

// Names lists the names declared in this scope.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name, b := range e.store {
		if b.owned {
			names = append(names, name)
		}
	}
	return names
}

// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package symtab

import (
	"github.com/google/symres/internal/hashmap"
)

// ScopeID names a scope within a Table.  IDs are never reused, so an ID held
// after its scope is popped resolves to nothing.
type ScopeID int64

// NoScope is the parent of the outermost scope.
const NoScope ScopeID = 0

// Scope holds the names declared in one lexical block.
type Scope struct {
	ID     ScopeID
	Parent ScopeID // NoScope for the outermost scope
	Depth  int     // 0 for the outermost scope

	symbols *hashmap.Map[*Symbol]

	localOffset int // last automatic offset handed out
	paramOffset int // last parameter offset handed out
}

// Len returns the number of symbols declared in the scope.
func (s *Scope) Len() int {
	return s.symbols.Len()
}

// Get returns the symbol declared under name in this scope alone.
func (s *Scope) Get(name string) *Symbol {
	sym, _ := s.symbols.Get(name)
	return sym
}

// Symbols returns the symbols of the scope in table order.
func (s *Scope) Symbols() []*Symbol {
	r := make([]*Symbol, 0, s.symbols.Len())
	for it := s.symbols.Iter(); it.Next(); {
		r = append(r, it.Value())
	}
	return r
}

// LocalOffset returns the offset given to the most recent automatic declaration.
func (s *Scope) LocalOffset() int { return s.localOffset }

// ParamOffset returns the offset given to the most recent parameter declaration.
func (s *Scope) ParamOffset() int { return s.paramOffset }

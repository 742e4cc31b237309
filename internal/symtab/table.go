// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package symtab implements a lexically scoped symbol table.
//
// A Table is the compilation context: it owns a stack of scopes, and the top
// of the stack is the current scope.  A front end calls Push on entering a
// block, Insert for each declaration, Lookup or LookupLocal for each
// reference, and Pop on leaving the block.  A Table is not safe for
// concurrent use.
package symtab

import (
	"bytes"
	"expvar"
	"fmt"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/google/symres/internal/hashmap"
	"github.com/pkg/errors"
)

// Frame layout constants.  Offsets are advanced before use, so the first
// automatic variable is at OffsetUnit and the first parameter at
// ParamBase+OffsetUnit.
const (
	OffsetUnit = 4
	ParamBase  = 4
)

var (
	scopesPushed   = expvar.NewInt("symtab_scopes_pushed_total")
	scopesPopped   = expvar.NewInt("symtab_scopes_popped_total")
	symbolsAdded   = expvar.NewInt("symtab_symbols_declared_total")
	redeclarations = expvar.NewInt("symtab_redeclarations_total")
)

// Variant selects which attributes a Table computes for its symbols.
type Variant int

const (
	// FrameOffsets assigns stack frame offsets by storage class.
	FrameOffsets Variant = iota
	// Positions records only the declaration position.
	Positions
)

func (v Variant) String() string {
	switch v {
	case FrameOffsets:
		return "offsets"
	case Positions:
		return "positions"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ParseVariant returns the Variant named by s.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "offsets", "":
		return FrameOffsets, nil
	case "positions":
		return Positions, nil
	}
	return 0, errors.Errorf("unknown symbol table variant %q", s)
}

// Option configures a new Table.
type Option func(*Table) error

// WithVariant sets the attribute variant of the Table.
func WithVariant(v Variant) Option {
	return func(t *Table) error {
		if v != FrameOffsets && v != Positions {
			return errors.Errorf("invalid variant %d", int(v))
		}
		t.variant = v
		return nil
	}
}

// MaxScopeCapacity limits the hash map capacity of each scope.
func MaxScopeCapacity(n int) Option {
	return func(t *Table) error {
		t.mapOpts = append(t.mapOpts, hashmap.MaxCapacity(n))
		return nil
	}
}

// Table is a stack of scopes.
type Table struct {
	variant Variant
	mapOpts []hashmap.Option

	stack  []*Scope // live scopes, outermost first; IDs ascend along the stack
	lastID ScopeID
}

// NewTable creates a Table with no current scope.
func NewTable(opts ...Option) (*Table, error) {
	t := &Table{}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	// Reject bad map options here rather than on the first Push.
	if _, err := hashmap.New[*Symbol](t.mapOpts...); err != nil {
		return nil, errors.Wrap(err, "invalid scope options")
	}
	return t, nil
}

// Variant returns the attribute variant of the Table.
func (t *Table) Variant() Variant {
	return t.variant
}

// Current returns the current scope, or nil if no scope is open.
func (t *Table) Current() *Scope {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

// Depth returns the depth of the current scope, or -1 if no scope is open.
func (t *Table) Depth() int {
	return len(t.stack) - 1
}

// Scope returns the live scope with the given ID, or nil if there is none.
func (t *Table) Scope(id ScopeID) *Scope {
	i := sort.Search(len(t.stack), func(i int) bool { return t.stack[i].ID >= id })
	if i < len(t.stack) && t.stack[i].ID == id {
		return t.stack[i]
	}
	return nil
}

// Push opens a new scope nested in the current one and makes it current.
func (t *Table) Push() (*Scope, error) {
	m, err := hashmap.New[*Symbol](t.mapOpts...)
	if err != nil {
		return nil, err
	}
	s := &Scope{
		ID:          t.lastID + 1,
		Parent:      NoScope,
		Depth:       len(t.stack),
		symbols:     m,
		paramOffset: ParamBase,
	}
	if p := t.Current(); p != nil {
		s.Parent = p.ID
	}
	t.lastID = s.ID
	t.stack = append(t.stack, s)
	scopesPushed.Add(1)
	glog.V(2).Infof("push scope %d at depth %d", s.ID, s.Depth)
	return s, nil
}

// Pop closes the current scope, releasing its symbols, and makes its parent
// current.  Pop with no open scope does nothing.
func (t *Table) Pop() {
	s := t.Current()
	if s == nil {
		glog.V(2).Info("pop with no open scope")
		return
	}
	glog.V(2).Infof("pop scope %d at depth %d with %d symbols", s.ID, s.Depth, s.symbols.Len())
	s.symbols.Destroy()
	t.stack[len(t.stack)-1] = nil
	t.stack = t.stack[:len(t.stack)-1]
	scopesPopped.Add(1)
}

// Insert declares name in the current scope.  A name already declared in the
// current scope is rejected with a *RedeclarationError; names in enclosing
// scopes are shadowed without complaint.  On error the table is unchanged.
func (t *Table) Insert(name string, attrs Attrs) (*Symbol, error) {
	s := t.Current()
	if s == nil {
		return nil, ErrNoScope
	}
	if prev := s.Get(name); prev != nil {
		redeclarations.Add(1)
		return nil, &RedeclarationError{Name: name, Pos: attrs.Pos, Prev: prev}
	}
	sym := &Symbol{
		Class:   attrs.Class,
		Storage: attrs.Storage,
		Pos:     attrs.Pos,
		Scope:   s.ID,
	}
	local, param := s.localOffset, s.paramOffset
	if t.variant == FrameOffsets {
		switch attrs.Storage {
		case Automatic:
			local += OffsetUnit
			sym.Offset = local
		case Internal:
			param += OffsetUnit
			sym.Offset = param
		}
	}
	stored, err := s.symbols.Set(name, sym)
	if err != nil {
		return nil, errors.Wrapf(err, "declaring %q", name)
	}
	sym.Name = stored
	s.localOffset, s.paramOffset = local, param
	symbolsAdded.Add(1)
	glog.V(2).Infof("declared %s in scope %d", sym, s.ID)
	return sym, nil
}

// LookupLocal returns the symbol declared under name in the current scope, or
// nil.
func (t *Table) LookupLocal(name string) *Symbol {
	s := t.Current()
	if s == nil {
		return nil
	}
	return s.Get(name)
}

// Lookup returns the symbol with the given name in the current scope or the
// nearest enclosing scope that declares it, or nil.
func (t *Table) Lookup(name string) *Symbol {
	for s := t.Current(); s != nil; s = t.Scope(s.Parent) {
		if sym := s.Get(name); sym != nil {
			return sym
		}
	}
	return nil
}

// String prints the open scopes from the innermost outwards.  This method is
// only used for debugging.
func (t *Table) String() string {
	var buf bytes.Buffer
	for i := len(t.stack) - 1; i >= 0; i-- {
		s := t.stack[i]
		fmt.Fprintf(&buf, "scope %d depth %d {\n", s.ID, s.Depth)
		for _, sym := range s.Symbols() {
			fmt.Fprintf(&buf, "\t%s\n", sym)
		}
		fmt.Fprintf(&buf, "}\n")
	}
	return buf.String()
}

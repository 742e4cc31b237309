// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package symtab

import (
	"fmt"

	"github.com/google/symres/internal/position"
)

// Storage is the storage class of a declared name.
type Storage int

// Storage classes.  External and Label symbols are resolved by name and get
// no frame offset.
const (
	External  Storage = iota // Defined outside the current translation unit
	Automatic                // Local to the enclosing frame
	Internal                 // Parameters
	Label                    // Jump targets
)

func (s Storage) String() string {
	switch s {
	case External:
		return "external"
	case Automatic:
		return "automatic"
	case Internal:
		return "internal"
	case Label:
		return "label"
	default:
		return fmt.Sprintf("Storage(%d)", int(s))
	}
}

// Class classifies the object a symbol names.
type Class int

// Symbol classes.
const (
	Variable Class = iota
	Pointer
)

func (c Class) String() string {
	switch c {
	case Variable:
		return "variable"
	case Pointer:
		return "pointer"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Attrs are the properties of a declaration supplied by the front end.
type Attrs struct {
	Class   Class
	Storage Storage
	Pos     *position.Position // Source position of the declaration, may be nil.
}

// Symbol describes a declared name.
type Symbol struct {
	Name    string             // identifier name
	Class   Class              // variable or pointer
	Storage Storage            // storage class
	Offset  int                // frame or parameter offset, zero for External and Label
	Pos     *position.Position // source position of the declaration
	Scope   ScopeID            // declaring scope; only valid while that scope is live
}

func (s *Symbol) String() string {
	r := fmt.Sprintf("%s %s %q offset %d", s.Storage, s.Class, s.Name, s.Offset)
	if s.Pos != nil {
		r += " at " + s.Pos.String()
	}
	return r
}

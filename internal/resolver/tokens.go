// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package resolver

import (
	"fmt"

	"github.com/google/symres/internal/position"
)

// Kind enumerates the types of lexical tokens in a scope program.
type Kind int

// Token kinds.
const (
	INVALID Kind = iota // An invalid token; the spelling holds the error message.
	EOF                 // End of input
	LCURLY              // {
	RCURLY              // }
	STAR                // *
	ID                  // identifier
	AUTO                // auto
	PARAM               // param
	EXTERN              // extern
	LABEL               // label
	USE                 // use
	LOCAL               // local
)

var kindNames = map[Kind]string{
	INVALID: "INVALID",
	EOF:     "EOF",
	LCURLY:  "LCURLY",
	RCURLY:  "RCURLY",
	STAR:    "STAR",
	ID:      "ID",
	AUTO:    "AUTO",
	PARAM:   "PARAM",
	EXTERN:  "EXTERN",
	LABEL:   "LABEL",
	USE:     "USE",
	LOCAL:   "LOCAL",
}

// String returns a readable name of the token Kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token describes a lexed Token from the input, containing its type, the
// original text of the Token, and its position in the input.
type Token struct {
	Kind     Kind
	Spelling string
	Pos      position.Position
}

// String returns a printable form of a Token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q,%s)", t.Kind.String(), t.Spelling, t.Pos)
}

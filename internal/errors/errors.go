// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package errors collects positioned diagnostics produced while resolving a
// source file.
package errors

import (
	"sort"
	"strings"

	"github.com/google/symres/internal/position"
)

type diagnostic struct {
	pos position.Position
	msg string
}

func (e diagnostic) Error() string {
	if e.pos.Filename == "" && e.pos.Line == 0 && e.pos.Startcol == 0 {
		return e.msg
	}
	return e.pos.String() + ": " + e.msg
}

// ErrorList contains a list of diagnostics.
type ErrorList []*diagnostic

// Add appends an error at a position to the list of errors.  A nil position
// records the message alone.
func (p *ErrorList) Add(pos *position.Position, msg string) {
	d := &diagnostic{msg: msg}
	if pos != nil {
		d.pos = *pos
	}
	*p = append(*p, d)
}

// Sort orders the list by line and column.
func (p ErrorList) Sort() {
	sort.SliceStable(p, func(i, j int) bool {
		a, b := p[i].pos, p[j].pos
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Startcol < b.Startcol
	})
}

// ErrorList implements the error interface.
func (p ErrorList) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	msgs := make([]string, 0, len(p))
	for _, e := range p {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// Err returns the list as an error, or nil if it is empty.
func (p ErrorList) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

// Copyright 2016 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package position describes locations in a source file.
package position

import "fmt"

// A Position is the location in the source where a token appears: a span of
// columns on one line.  Lines and columns count from zero and are printed
// counting from one.
type Position struct {
	Filename string // Source filename in which this token appears.
	Line     int    // Line in the source for this token.
	Startcol int    // Starting and ending columns in the source for this token.
	Endcol   int
}

// String formats a position for diagnostics, e.g. "prog.scope:3:5-7".
func (p Position) String() string {
	r := fmt.Sprintf("%s:%d:%d", p.Filename, p.Line+1, p.Startcol+1)
	if p.Endcol > p.Startcol {
		r += fmt.Sprintf("-%d", p.Endcol+1)
	}
	return r
}

// Merge returns the union of two positions on the same line.  Positions on
// different lines or files return a.
func Merge(a, b *Position) *Position {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Filename != b.Filename || a.Line != b.Line {
		return a
	}
	r := *a
	if b.Startcol < r.Startcol {
		r.Startcol = b.Startcol
	}
	if b.Endcol > r.Endcol {
		r.Endcol = b.Endcol
	}
	return &r
}

// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package resolver

import (
	"bytes"
	"fmt"
	"io"

	"github.com/google/symres/internal/errors"
	"github.com/google/symres/internal/position"
	"github.com/google/symres/internal/symtab"
)

// Declaration records one accepted declaration.
type Declaration struct {
	Name    string
	Depth   int
	Storage symtab.Storage
	Class   symtab.Class
	Offset  int
	Pos     position.Position
	Shadows *position.Position // declaration hidden by this one, if any
}

// Reference records one name reference and what it resolved to.
type Reference struct {
	Name   string
	Pos    position.Position
	Local  bool               // looked up in the current block only
	Decl   *position.Position // declaration found, nil if unresolved
	Depth  int                // depth of the declaring block, -1 if unresolved
	Offset int                // offset of the declaration found
}

// Resolved reports whether the reference found a declaration.
func (r Reference) Resolved() bool {
	return r.Depth >= 0
}

// Report is the result of resolving one program.
type Report struct {
	Name         string
	Variant      symtab.Variant
	Declarations []Declaration
	References   []Reference
	MaxDepth     int
	Errors       errors.ErrorList
}

// WriteTo writes a human readable form of the report to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s: %d declarations, %d references, max depth %d, %d errors\n",
		r.Name, len(r.Declarations), len(r.References), r.MaxDepth, len(r.Errors))
	for _, d := range r.Declarations {
		fmt.Fprintf(&buf, "  decl %s %s %q depth %d", d.Storage, d.Class, d.Name, d.Depth)
		if r.Variant == symtab.FrameOffsets {
			fmt.Fprintf(&buf, " offset %d", d.Offset)
		}
		fmt.Fprintf(&buf, " at %s", d.Pos)
		if d.Shadows != nil {
			fmt.Fprintf(&buf, " shadows %s", d.Shadows)
		}
		buf.WriteString("\n")
	}
	for _, ref := range r.References {
		verb := "use"
		if ref.Local {
			verb = "local"
		}
		fmt.Fprintf(&buf, "  %s %q at %s -> ", verb, ref.Name, ref.Pos)
		if !ref.Resolved() {
			buf.WriteString("unresolved\n")
			continue
		}
		fmt.Fprintf(&buf, "depth %d", ref.Depth)
		if ref.Decl != nil {
			fmt.Fprintf(&buf, " %s", ref.Decl)
		}
		buf.WriteString("\n")
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&buf, "  error: %s\n", e)
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

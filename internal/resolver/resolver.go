// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package resolver drives a symtab.Table over scope programs, the way a
// compiler front end would while checking a source file.
//
// A scope program is a sequence of statements:
//
//	{               open a block
//	}               close a block
//	auto [*]NAME    declare an automatic variable (or pointer)
//	param [*]NAME   declare a parameter
//	extern [*]NAME  declare an external name
//	label NAME      declare a label
//	use NAME        reference NAME through all enclosing blocks
//	local NAME      reference NAME in the current block only
//
// Comments run from '#' to the end of the line.  The top level of a program
// is the outermost scope.
package resolver

import (
	"context"
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/google/symres/internal/position"
	"github.com/google/symres/internal/symtab"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

var storageKeywords = map[Kind]symtab.Storage{
	AUTO:   symtab.Automatic,
	PARAM:  symtab.Internal,
	EXTERN: symtab.External,
	LABEL:  symtab.Label,
}

// resolver holds the state of one resolution pass.
type resolver struct {
	l      *Lexer
	table  *symtab.Table
	report *Report

	tok    Token               // the current token
	blocks []position.Position // positions of the open '{' tokens
}

// Resolve reads the scope program called name from input, resolving every
// declaration and reference against a fresh symbol table configured by opts.
// The returned Report is complete even when the program has diagnostics; in
// that case the error is the list of diagnostics.
func Resolve(ctx context.Context, name string, input io.Reader, opts ...symtab.Option) (*Report, error) {
	_, span := trace.StartSpan(ctx, "resolver.Resolve")
	defer span.End()

	table, err := symtab.NewTable(opts...)
	if err != nil {
		return nil, err
	}
	r := &resolver{
		l:      NewLexer(name, input),
		table:  table,
		report: &Report{Name: name, Variant: table.Variant()},
	}
	if err := r.run(); err != nil {
		return nil, errors.Wrapf(err, "resolving %s", name)
	}
	span.AddAttributes(
		trace.Int64Attribute("declarations", int64(len(r.report.Declarations))),
		trace.Int64Attribute("references", int64(len(r.report.References))),
		trace.Int64Attribute("errors", int64(len(r.report.Errors))),
	)
	r.report.Errors.Sort()
	return r.report, r.report.Errors.Err()
}

func (r *resolver) errorf(pos position.Position, format string, args ...interface{}) {
	r.report.Errors.Add(&pos, fmt.Sprintf(format, args...))
}

func (r *resolver) advance() {
	r.tok = r.l.NextToken()
}

// run processes statements until EOF.  It returns an error only for failures
// of the symbol table itself; program errors are collected in the report.
func (r *resolver) run() error {
	if err := r.push(); err != nil {
		return err
	}
	r.advance()
	for r.tok.Kind != EOF {
		if err := r.statement(); err != nil {
			return err
		}
	}
	for i := len(r.blocks) - 1; i >= 0; i-- {
		r.errorf(r.blocks[i], "block opened here is never closed")
		r.pop()
	}
	r.pop()
	return nil
}

func (r *resolver) push() error {
	if _, err := r.table.Push(); err != nil {
		return err
	}
	if d := r.table.Depth(); d > r.report.MaxDepth {
		r.report.MaxDepth = d
	}
	return nil
}

func (r *resolver) pop() {
	r.table.Pop()
}

func (r *resolver) statement() error {
	tok := r.tok
	r.advance()
	switch tok.Kind {
	case LCURLY:
		if err := r.push(); err != nil {
			return err
		}
		r.blocks = append(r.blocks, tok.Pos)
	case RCURLY:
		if len(r.blocks) == 0 {
			r.errorf(tok.Pos, "unmatched `}'")
			return nil
		}
		r.blocks = r.blocks[:len(r.blocks)-1]
		r.pop()
	case AUTO, PARAM, EXTERN, LABEL:
		return r.declaration(tok)
	case USE, LOCAL:
		r.reference(tok)
	case INVALID:
		r.errorf(tok.Pos, "%s", tok.Spelling)
	default:
		r.errorf(tok.Pos, "unexpected %s %q, expecting a statement", tok.Kind, tok.Spelling)
	}
	return nil
}

// identifier consumes an identifier following keyword, reporting an error if
// there is none.
func (r *resolver) identifier(keyword Token) (Token, bool) {
	if r.tok.Kind != ID {
		r.errorf(r.tok.Pos, "expecting a name after `%s', got %s", keyword.Spelling, r.tok.Kind)
		return r.tok, false
	}
	id := r.tok
	r.advance()
	return id, true
}

func (r *resolver) declaration(keyword Token) error {
	attrs := symtab.Attrs{Class: symtab.Variable, Storage: storageKeywords[keyword.Kind]}
	if r.tok.Kind == STAR {
		if keyword.Kind == LABEL {
			r.errorf(r.tok.Pos, "a label cannot be a pointer")
		} else {
			attrs.Class = symtab.Pointer
		}
		r.advance()
	}
	id, ok := r.identifier(keyword)
	if !ok {
		return nil
	}
	pos := position.Merge(&keyword.Pos, &id.Pos)
	attrs.Pos = pos

	outer := r.table.Lookup(id.Spelling)
	sym, err := r.table.Insert(id.Spelling, attrs)
	if err != nil {
		if symtab.IsRedeclaration(err) {
			r.errorf(*pos, "%s", err)
			return nil
		}
		return err
	}
	d := Declaration{
		Name:    sym.Name,
		Depth:   r.table.Depth(),
		Storage: sym.Storage,
		Class:   sym.Class,
		Offset:  sym.Offset,
		Pos:     *pos,
	}
	if outer != nil {
		glog.V(1).Infof("%s: %s shadows %s", pos, id.Spelling, outer)
		d.Shadows = outer.Pos
	}
	r.report.Declarations = append(r.report.Declarations, d)
	return nil
}

func (r *resolver) reference(keyword Token) {
	id, ok := r.identifier(keyword)
	if !ok {
		return
	}
	ref := Reference{
		Name:  id.Spelling,
		Pos:   id.Pos,
		Local: keyword.Kind == LOCAL,
		Depth: -1,
	}
	var sym *symtab.Symbol
	if ref.Local {
		sym = r.table.LookupLocal(id.Spelling)
	} else {
		sym = r.table.Lookup(id.Spelling)
	}
	switch {
	case sym != nil:
		ref.Decl = sym.Pos
		ref.Offset = sym.Offset
		if s := r.table.Scope(sym.Scope); s != nil {
			ref.Depth = s.Depth
		}
	case ref.Local && r.table.Lookup(id.Spelling) != nil:
		r.errorf(id.Pos, "`%s' is not declared in this block, only in an enclosing one", id.Spelling)
	default:
		r.errorf(id.Pos, "undefined name `%s'", id.Spelling)
	}
	r.report.References = append(r.report.References, ref)
}

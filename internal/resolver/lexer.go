// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package resolver

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/golang/glog"
	"github.com/google/symres/internal/position"
	"github.com/pkg/errors"
)

// List of keywords.  Keep this list sorted!
var keywords = map[string]Kind{
	"auto":   AUTO,
	"extern": EXTERN,
	"label":  LABEL,
	"local":  LOCAL,
	"param":  PARAM,
	"use":    USE,
}

// A stateFn represents each state the scanner can be in.
type stateFn func(*Lexer) stateFn

// A Lexer holds the state of the scanner.
type Lexer struct {
	name  string        // Name of program.
	input *bufio.Reader // Source program
	state stateFn       // Current state function of the lexer.

	// The "read cursor" in the input.
	rune  rune // The current rune.
	width int  // Width in bytes.
	line  int  // The line position of the current rune.
	col   int  // The column position of the current rune.

	readErr error // The first read error other than io.EOF.

	// The currently being lexed token.
	startcol int             // Starting column of the current token.
	text     strings.Builder // the text of the current token

	tokens chan Token // Output channel for tokens emitted.
}

// NewLexer creates a new scanner type that reads the input provided.
func NewLexer(name string, input io.Reader) *Lexer {
	return &Lexer{
		name:   name,
		input:  bufio.NewReader(input),
		state:  lexProg,
		tokens: make(chan Token, 2),
	}
}

// NextToken returns the next token in the input.  When no token is available
// to be returned it executes the next action in the state machine.  Once EOF
// has been returned, every further call returns EOF.
func (l *Lexer) NextToken() Token {
	for {
		select {
		case tok := <-l.tokens:
			return tok
		default:
			if l.state == nil {
				return Token{Kind: EOF, Pos: l.pos()}
			}
			l.state = l.state(l)
		}
	}
}

func (l *Lexer) pos() position.Position {
	return position.Position{Filename: l.name, Line: l.line, Startcol: l.startcol, Endcol: l.col - 1}
}

// emit passes a token to the client.
func (l *Lexer) emit(kind Kind) {
	pos := l.pos()
	glog.V(2).Infof("Emitting %v spelled %q at %v", kind, l.text.String(), pos)
	l.tokens <- Token{kind, l.text.String(), pos}
	// Reset the current token
	l.text.Reset()
	l.startcol = l.col
}

// Internal end of file value.
const eof rune = -1

// next returns the next rune in the input.
func (l *Lexer) next() rune {
	var err error
	l.rune, l.width, err = l.input.ReadRune()
	if err != nil {
		// A read error ends the input like EOF does; lexProg reports it.
		if errors.Cause(err) != io.EOF && l.readErr == nil {
			l.readErr = err
		}
		l.width = 1
		l.rune = eof
	}
	return l.rune
}

// backup indicates that we haven't yet dealt with the next rune. Use when
// terminating tokens on unknown runes.
func (l *Lexer) backup() {
	l.width = 0
	if l.rune == eof {
		return
	}
	if err := l.input.UnreadRune(); err != nil {
		glog.Info(err)
	}
}

// stepCursor moves the read cursor.
func (l *Lexer) stepCursor() {
	if l.rune == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col += l.width
	}
}

// accept accepts the current rune and its position into the current token.
func (l *Lexer) accept() {
	l.text.WriteRune(l.rune)
	l.stepCursor()
}

// skip does not accept the current rune into the current token's text, but
// does accept its position into the token.
func (l *Lexer) skip() {
	l.stepCursor()
}

// ignore skips over the current rune, removing it from the text of the token,
// and resetting the start position of the current token. Use only between
// tokens.
func (l *Lexer) ignore() {
	l.stepCursor()
	l.startcol = l.col
}

// errorf returns an error token and resets the scanner.
func (l *Lexer) errorf(format string, args ...interface{}) stateFn {
	l.tokens <- Token{
		Kind:     INVALID,
		Spelling: fmt.Sprintf(format, args...),
		Pos:      l.pos(),
	}
	// Reset the current token
	l.text.Reset()
	l.startcol = l.col
	return lexProg
}

// State functions.

// lexProg starts lexing a program.
func lexProg(l *Lexer) stateFn {
	switch r := l.next(); {
	case r == '#':
		return lexComment
	case r == '\n', isSpace(r):
		l.ignore()
	case r == '{':
		l.accept()
		l.emit(LCURLY)
	case r == '}':
		l.accept()
		l.emit(RCURLY)
	case r == '*':
		l.accept()
		l.emit(STAR)
	case isAlpha(r) || r == '_':
		return lexIdentifier
	case r == eof:
		if l.readErr != nil {
			l.tokens <- Token{
				Kind:     INVALID,
				Spelling: fmt.Sprintf("Read error: %s", l.readErr),
				Pos:      l.pos(),
			}
		}
		l.skip()
		l.emit(EOF)
		// Stop the machine, we're done.
		return nil
	default:
		l.accept()
		return l.errorf("Unexpected input: %q", r)
	}
	return lexProg
}

// Lex a comment, up to the end of the line.
func lexComment(l *Lexer) stateFn {
	l.ignore()
	for {
		switch l.next() {
		case '\n':
			l.ignore()
			return lexProg
		case eof:
			l.backup()
			return lexProg
		default:
			l.ignore()
		}
	}
}

// Lex an identifier, or keyword.
func lexIdentifier(l *Lexer) stateFn {
	l.accept()
	for {
		r := l.next()
		if !isAlnum(r) && r != '_' {
			l.backup()
			break
		}
		l.accept()
	}
	if kind, ok := keywords[l.text.String()]; ok {
		l.emit(kind)
	} else {
		l.emit(ID)
	}
	return lexProg
}

// Helper predicates.
func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

func isAlnum(r rune) bool {
	return isAlpha(r) || unicode.IsDigit(r)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

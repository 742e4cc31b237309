// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package symtab

import (
	"fmt"

	"github.com/google/symres/internal/position"
	"github.com/pkg/errors"
)

// ErrNoScope is returned when declaring a name while no scope is open.
var ErrNoScope = errors.New("symtab: no current scope")

// RedeclarationError reports a name declared twice in one scope.
type RedeclarationError struct {
	Name string
	Pos  *position.Position // position of the rejected declaration
	Prev *Symbol            // the symbol already in scope
}

func (e *RedeclarationError) Error() string {
	msg := fmt.Sprintf("redeclaration of `%s'", e.Name)
	if e.Prev != nil && e.Prev.Pos != nil {
		msg += " previously declared at " + e.Prev.Pos.String()
	}
	return msg
}

// IsRedeclaration reports whether err, or any error it wraps, is a
// RedeclarationError.
func IsRedeclaration(err error) bool {
	var r *RedeclarationError
	return errors.As(err, &r)
}

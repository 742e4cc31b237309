// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package position

import (
	"testing"

	"github.com/google/symres/internal/testutil"
)

func TestString(t *testing.T) {
	for _, tc := range []struct {
		pos  Position
		want string
	}{
		{Position{Filename: "a.scope", Line: 0, Startcol: 0, Endcol: 0}, "a.scope:1:1"},
		{Position{Filename: "a.scope", Line: 2, Startcol: 4, Endcol: 6}, "a.scope:3:5-7"},
	} {
		if got := tc.pos.String(); got != tc.want {
			t.Errorf("%#v.String() = %q, want %q", tc.pos, got, tc.want)
		}
	}
}

func TestMerge(t *testing.T) {
	a := &Position{Filename: "f", Line: 1, Startcol: 4, Endcol: 6}
	b := &Position{Filename: "f", Line: 1, Startcol: 0, Endcol: 2}
	testutil.ExpectNoDiff(t, &Position{Filename: "f", Line: 1, Startcol: 0, Endcol: 6}, Merge(a, b))
	testutil.ExpectNoDiff(t, a, Merge(a, nil))
	testutil.ExpectNoDiff(t, b, Merge(nil, b))
	c := &Position{Filename: "f", Line: 2, Startcol: 0, Endcol: 9}
	testutil.ExpectNoDiff(t, a, Merge(a, c))
}

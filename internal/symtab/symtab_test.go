// Copyright 2016 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package symtab

import (
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"testing/quick"

	"github.com/google/symres/internal/hashmap"
	"github.com/google/symres/internal/position"
	"github.com/google/symres/internal/testutil"
	"github.com/pkg/errors"
)

func newTable(tb testing.TB, opts ...Option) *Table {
	tb.Helper()
	tbl, err := NewTable(opts...)
	testutil.FatalIfErr(tb, err)
	return tbl
}

func push(tb testing.TB, tbl *Table) *Scope {
	tb.Helper()
	s, err := tbl.Push()
	testutil.FatalIfErr(tb, err)
	return s
}

func insert(tb testing.TB, tbl *Table, name string, storage Storage) *Symbol {
	tb.Helper()
	sym, err := tbl.Insert(name, Attrs{Storage: storage})
	testutil.FatalIfErr(tb, err)
	return sym
}

func TestInsertLookup(t *testing.T) {
	tbl := newTable(t)
	s := push(t, tbl)

	sym1 := insert(t, tbl, "foo", Automatic)
	testutil.ExpectNoDiff(t, &Symbol{Name: "foo", Storage: Automatic, Offset: 4, Scope: s.ID}, sym1)

	if r := tbl.LookupLocal("foo"); r != sym1 {
		t.Errorf("LookupLocal(foo) = %v, want %v", r, sym1)
	}
	if r := tbl.Lookup("foo"); r != sym1 {
		t.Errorf("Lookup(foo) = %v, want %v", r, sym1)
	}
	if r := tbl.Lookup("bar"); r != nil {
		t.Errorf("Lookup(bar) = %v, want nil", r)
	}
}

// Generate implements the Generator interface for Storage.
func (Storage) Generate(rand *rand.Rand, size int) reflect.Value {
	return reflect.ValueOf(Storage(rand.Intn(int(Label) + 1)))
}

func TestInsertLookupQuick(t *testing.T) {
	testutil.SkipIfShort(t)

	check := func(name string, storage Storage) bool {
		// Create a new table each run because Insert rejects duplicates.
		tbl, err := NewTable()
		if err != nil {
			return false
		}
		if _, err := tbl.Push(); err != nil {
			return false
		}
		a, err := tbl.Insert(name, Attrs{Storage: storage})
		if err != nil {
			return false
		}
		b := tbl.Lookup(name)
		return testutil.Diff(a, b) == ""
	}
	q := &quick.Config{MaxCount: 10000}
	if err := quick.Check(check, q); err != nil {
		t.Error(err)
	}
}

func TestNestedScope(t *testing.T) {
	tbl := newTable(t)
	s := push(t, tbl)
	sym1 := insert(t, tbl, "bar", Automatic)

	s1 := push(t, tbl)
	if s1.Parent != s.ID || s1.Depth != 1 {
		t.Errorf("child scope parent %d depth %d, want %d 1", s1.Parent, s1.Depth, s.ID)
	}
	insert(t, tbl, "foo", Automatic)

	if tbl.Lookup("foo") == nil {
		t.Errorf("foo not found in s1")
	}
	if tbl.Lookup("bar") != sym1 {
		t.Errorf("bar not found from s1")
	}

	tbl.Pop()
	if tbl.Lookup("foo") != nil {
		t.Errorf("foo found in s after pop")
	}
}

func TestShadowing(t *testing.T) {
	tbl := newTable(t)
	push(t, tbl)
	outer := insert(t, tbl, "x", Automatic)
	push(t, tbl)
	inner := insert(t, tbl, "x", Automatic)

	if got := tbl.Lookup("x"); got != inner {
		t.Errorf("Lookup(x) at depth 1 = %v, want inner %v", got, inner)
	}
	tbl.Pop()
	if got := tbl.Lookup("x"); got != outer {
		t.Errorf("Lookup(x) after pop = %v, want outer %v", got, outer)
	}
}

func TestRedeclaration(t *testing.T) {
	defer testutil.ExpectExpvarDelta(t, "symtab_redeclarations_total", 1)()
	tbl := newTable(t)
	s := push(t, tbl)
	pos := &position.Position{Filename: "f", Line: 0, Startcol: 5, Endcol: 5}
	first, err := tbl.Insert("x", Attrs{Storage: Automatic, Pos: pos})
	testutil.FatalIfErr(t, err)

	again := &position.Position{Filename: "f", Line: 1, Startcol: 5, Endcol: 5}
	sym, err := tbl.Insert("x", Attrs{Storage: Automatic, Pos: again})
	if sym != nil {
		t.Errorf("duplicate Insert returned %v, want nil", sym)
	}
	if !IsRedeclaration(err) {
		t.Fatalf("duplicate Insert error = %v, want redeclaration", err)
	}
	var rerr *RedeclarationError
	if !errors.As(err, &rerr) || rerr.Prev != first {
		t.Errorf("redeclaration prev = %v, want %v", rerr, first)
	}
	if want := "redeclaration of `x' previously declared at f:1:6"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if tbl.LookupLocal("x") != first || first.Offset != OffsetUnit {
		t.Errorf("first symbol changed: %v", tbl.LookupLocal("x"))
	}
	if s.LocalOffset() != OffsetUnit || s.Len() != 1 {
		t.Errorf("scope changed by duplicate: offset %d len %d", s.LocalOffset(), s.Len())
	}
}

func TestScopeIsolation(t *testing.T) {
	tbl := newTable(t)
	push(t, tbl)
	x := insert(t, tbl, "x", External)
	push(t, tbl)

	if got := tbl.LookupLocal("x"); got != nil {
		t.Errorf("LookupLocal(x) at depth 1 = %v, want nil", got)
	}
	if got := tbl.Lookup("x"); got != x {
		t.Errorf("Lookup(x) at depth 1 = %v, want %v", got, x)
	}
}

func TestBalancedPushPop(t *testing.T) {
	const n = 10
	defer testutil.ExpectExpvarDelta(t, "symtab_scopes_popped_total", n)()
	defer testutil.ExpectExpvarDelta(t, "symtab_scopes_pushed_total", n)()
	tbl := newTable(t)
	if tbl.Depth() != -1 || tbl.Current() != nil {
		t.Fatalf("new table depth %d current %v", tbl.Depth(), tbl.Current())
	}
	var scopes []*Scope
	for i := 0; i < n; i++ {
		s := push(t, tbl)
		if s.Depth != i {
			t.Errorf("push %d depth = %d", i, s.Depth)
		}
		insert(t, tbl, fmt.Sprintf("v%d", i), Automatic)
		scopes = append(scopes, s)
	}
	for i := n - 1; i >= 0; i-- {
		if tbl.Depth() != i {
			t.Errorf("depth = %d, want %d", tbl.Depth(), i)
		}
		tbl.Pop()
	}
	if tbl.Depth() != -1 || tbl.Current() != nil {
		t.Errorf("after balanced pops depth %d current %v", tbl.Depth(), tbl.Current())
	}
	for _, s := range scopes {
		if s.Len() != 0 {
			t.Errorf("scope %d still holds %d symbols", s.ID, s.Len())
		}
		if tbl.Scope(s.ID) != nil {
			t.Errorf("popped scope %d still resolvable", s.ID)
		}
	}
}

func TestPopWithNoScope(t *testing.T) {
	tbl := newTable(t)
	tbl.Pop()
	tbl.Pop()
	if tbl.Depth() != -1 {
		t.Errorf("depth = %d, want -1", tbl.Depth())
	}
	if tbl.Lookup("x") != nil || tbl.LookupLocal("x") != nil {
		t.Error("lookup with no scope found something")
	}
	if _, err := tbl.Insert("x", Attrs{}); errors.Cause(err) != ErrNoScope {
		t.Errorf("Insert with no scope error = %v, want %v", err, ErrNoScope)
	}
	s := push(t, tbl)
	if s.Depth != 0 || s.Parent != NoScope {
		t.Errorf("scope after no-op pops: depth %d parent %d", s.Depth, s.Parent)
	}
}

func TestOffsets(t *testing.T) {
	tbl := newTable(t)
	outer := push(t, tbl)
	var autos, params []int
	for i := 0; i < 3; i++ {
		autos = append(autos, insert(t, tbl, fmt.Sprintf("a%d", i), Automatic).Offset)
		params = append(params, insert(t, tbl, fmt.Sprintf("p%d", i), Internal).Offset)
	}
	testutil.ExpectNoDiff(t, []int{4, 8, 12}, autos)
	testutil.ExpectNoDiff(t, []int{8, 12, 16}, params)
	if off := insert(t, tbl, "e", External).Offset; off != 0 {
		t.Errorf("external offset = %d, want 0", off)
	}
	if off := insert(t, tbl, "l", Label).Offset; off != 0 {
		t.Errorf("label offset = %d, want 0", off)
	}
	if got := outer.LocalOffset(); got != 12 {
		t.Errorf("local offset = %d, want 12", got)
	}
	if got := outer.ParamOffset(); got != 16 {
		t.Errorf("param offset = %d, want 16", got)
	}

	// A nested scope starts its own counters.
	push(t, tbl)
	if off := insert(t, tbl, "a0", Automatic).Offset; off != OffsetUnit {
		t.Errorf("nested automatic offset = %d, want %d", off, OffsetUnit)
	}
	if off := insert(t, tbl, "p0", Internal).Offset; off != ParamBase+OffsetUnit {
		t.Errorf("nested parameter offset = %d, want %d", off, ParamBase+OffsetUnit)
	}
	if got := outer.ParamOffset(); got != 16 {
		t.Errorf("outer param offset changed to %d by nested scope", got)
	}
}

func TestPositionsVariant(t *testing.T) {
	tbl := newTable(t, WithVariant(Positions))
	push(t, tbl)
	pos := &position.Position{Filename: "f", Line: 2, Startcol: 1, Endcol: 3}
	sym, err := tbl.Insert("v", Attrs{Storage: Automatic, Pos: pos})
	testutil.FatalIfErr(t, err)
	if sym.Offset != 0 {
		t.Errorf("offset = %d in positions variant, want 0", sym.Offset)
	}
	testutil.ExpectNoDiff(t, pos, sym.Pos)
	if tbl.Current().LocalOffset() != 0 {
		t.Errorf("local offset advanced in positions variant")
	}
}

func TestSymbolScopeBackReference(t *testing.T) {
	tbl := newTable(t)
	push(t, tbl)
	inner := push(t, tbl)
	sym := insert(t, tbl, "x", Automatic)
	if tbl.Scope(sym.Scope) != inner {
		t.Errorf("Scope(%d) = %v, want %v", sym.Scope, tbl.Scope(sym.Scope), inner)
	}
	tbl.Pop()
	if tbl.Scope(sym.Scope) != nil {
		t.Error("back-reference resolved after its scope was popped")
	}
	// A new scope at the same depth gets a fresh ID.
	again := push(t, tbl)
	if again.ID == sym.Scope {
		t.Errorf("scope ID %d reused", again.ID)
	}
}

func TestInsertOverflowIsAtomic(t *testing.T) {
	tbl := newTable(t, MaxScopeCapacity(hashmap.InitialCapacity))
	s := push(t, tbl)
	for i := 0; i < hashmap.InitialCapacity/2; i++ {
		insert(t, tbl, fmt.Sprintf("v%d", i), Automatic)
	}
	offset := s.LocalOffset()
	_, err := tbl.Insert("overflow", Attrs{Storage: Automatic})
	if errors.Cause(err) != hashmap.ErrCapacityOverflow {
		t.Fatalf("Insert past capacity error = %v, want %v", err, hashmap.ErrCapacityOverflow)
	}
	if IsRedeclaration(err) {
		t.Error("capacity error reported as redeclaration")
	}
	if s.LocalOffset() != offset || tbl.LookupLocal("overflow") != nil {
		t.Errorf("table changed by failed insert: offset %d", s.LocalOffset())
	}
}

func TestNewTableOptions(t *testing.T) {
	if _, err := NewTable(WithVariant(Variant(7))); err == nil {
		t.Error("NewTable with invalid variant succeeded")
	}
	if _, err := NewTable(MaxScopeCapacity(3)); err == nil {
		t.Error("NewTable with invalid scope capacity succeeded")
	}
	for _, tc := range []struct {
		in   string
		want Variant
	}{{"offsets", FrameOffsets}, {"", FrameOffsets}, {"Positions", Positions}} {
		v, err := ParseVariant(tc.in)
		testutil.FatalIfErr(t, err)
		if v != tc.want {
			t.Errorf("ParseVariant(%q) = %v, want %v", tc.in, v, tc.want)
		}
	}
	if _, err := ParseVariant("bogus"); err == nil {
		t.Error("ParseVariant(bogus) succeeded")
	}
}

func TestString(t *testing.T) {
	tbl := newTable(t)
	push(t, tbl)
	insert(t, tbl, "outer", External)
	push(t, tbl)
	insert(t, tbl, "inner", Automatic)
	s := tbl.String()
	if i, o := strings.Index(s, `"inner"`), strings.Index(s, `"outer"`); i < 0 || o < 0 || i > o {
		t.Errorf("String() does not list inner scope first:\n%s", s)
	}
}

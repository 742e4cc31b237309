// Copyright 2021 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"expvar"
	"testing"

	"github.com/golang/glog"
)

// TestGetExpvarInt fetches the integer expvar metric `name`.
func TestGetExpvarInt(tb testing.TB, name string) int64 {
	tb.Helper()
	v, ok := expvar.Get(name).(*expvar.Int)
	if !ok {
		tb.Fatalf("expvar %q is not an *expvar.Int", name)
	}
	glog.Infof("Var %q is %v", name, v)
	return v.Value()
}

// ExpectExpvarDelta returns a deferrable function which tests that the
// integer expvar `name` has changed by want since ExpectExpvarDelta was called.
func ExpectExpvarDelta(tb testing.TB, name string, want int64) func() {
	tb.Helper()
	start := TestGetExpvarInt(tb, name)
	return func() {
		tb.Helper()
		now := TestGetExpvarInt(tb, name)
		if now-start != want {
			tb.Errorf("%s delta: got %v - %v = %d, want %d", name, now, start, now-start, want)
		}
	}
}

// Copyright 2019 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/glog"
)

// TestTempDir creates a temporary directory for use during tests, returning the pathname.
func TestTempDir(tb testing.TB) string {
	tb.Helper()
	name, err := os.MkdirTemp("", "symres-test")
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		if err := os.RemoveAll(name); err != nil {
			tb.Fatalf("os.RemoveAll(%s): %s", name, err)
		}
	})
	return name
}

// WriteFile replaces the contents of the file called name with contents, and
// returns the pathname.
func WriteFile(tb testing.TB, name, contents string) string {
	tb.Helper()
	f, err := os.OpenFile(filepath.Clean(name), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	FatalIfErr(tb, err)
	n, err := f.WriteString(contents)
	FatalIfErr(tb, err)
	glog.Infof("Wrote %d bytes to %s", n, name)
	FatalIfErr(tb, f.Sync())
	FatalIfErr(tb, f.Close())
	return name
}

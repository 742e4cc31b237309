// Copyright 2021 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"errors"
	"testing"
	"time"
)

func TestDoOrTimeout(t *testing.T) {
	SkipIfShort(t)

	ok, err := DoOrTimeout(func() (bool, error) {
		return false, nil
	}, 10*time.Millisecond, time.Millisecond)
	if ok || err != nil {
		t.Errorf("Expected timeout (false, nil), got %v, %v", ok, err)
	}

	i := 5
	ok, err = DoOrTimeout(func() (bool, error) {
		i--
		return i <= 0, nil
	}, 100*time.Millisecond, time.Millisecond)
	if !ok || err != nil {
		t.Errorf("Expected OK, got %v, %v", ok, err)
	}

	boom := errors.New("boom")
	ok, err = DoOrTimeout(func() (bool, error) {
		return false, boom
	}, 10*time.Millisecond, time.Millisecond)
	if ok || err != boom {
		t.Errorf("Expected (false, boom), got %v, %v", ok, err)
	}
}

// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package hashmap

// Iterator walks the occupied slots of a Map in slot order.  The map must not
// be modified while an Iterator is in use.
type Iterator[V any] struct {
	m     *Map[V]
	index int

	key   string
	value V
}

// Iter returns an Iterator positioned before the first slot.
func (m *Map[V]) Iter() *Iterator[V] {
	return &Iterator[V]{m: m}
}

// Next advances to the next occupied slot, returning false when there are no
// more.
func (it *Iterator[V]) Next() bool {
	for it.index < len(it.m.entries) {
		e := it.m.entries[it.index]
		it.index++
		if e.used {
			it.key = e.key
			it.value = e.value
			return true
		}
	}
	return false
}

// Key returns the key at the current position.
func (it *Iterator[V]) Key() string {
	return it.key
}

// Value returns the value at the current position.
func (it *Iterator[V]) Value() V {
	return it.value
}

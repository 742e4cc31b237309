// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package hashmap implements an open-addressing hash map from strings to
// values, using FNV-1a hashing and linear probing.
//
// A Map is not safe for concurrent use.  It never removes single entries, so
// the probe sequence needs no tombstones.
package hashmap

import (
	"expvar"
	"math"
	"reflect"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// InitialCapacity is the number of slots in a newly created Map.
const InitialCapacity = 16

// maxPowerOfTwo is the largest power of two that fits in an int.
const maxPowerOfTwo = (math.MaxInt >> 1) + 1

var (
	// ErrNilValue is returned by Set when the value is nil.
	ErrNilValue = errors.New("hashmap: nil value")
	// ErrCapacityOverflow is returned by Set when the map needs to grow past its maximum capacity.
	ErrCapacityOverflow = errors.New("hashmap: capacity overflow")
	// ErrDestroyed is returned by Set on a map that has been destroyed.
	ErrDestroyed = errors.New("hashmap: map destroyed")

	growCount = expvar.NewInt("hashmap_grows_total")
)

type entry[V any] struct {
	key   string
	value V
	used  bool
}

// Map is a string keyed hash map.  The map owns its keys; values are held but
// never released by the map.
type Map[V any] struct {
	entries     []entry[V]
	length      int
	maxCapacity int
}

// Option configures a new Map.
type Option interface {
	apply(*options) error
}

type options struct {
	maxCapacity int
}

// MaxCapacity limits how far a Map may grow.  It must be a power of two no
// smaller than InitialCapacity.
type MaxCapacity int

func (opt MaxCapacity) apply(o *options) error {
	n := int(opt)
	if n < InitialCapacity || n&(n-1) != 0 {
		return errors.Errorf("max capacity %d is not a power of two >= %d", n, InitialCapacity)
	}
	o.maxCapacity = n
	return nil
}

// New creates an empty Map with InitialCapacity slots.
func New[V any](opts ...Option) (*Map[V], error) {
	o := options{maxCapacity: maxPowerOfTwo}
	for _, opt := range opts {
		if err := opt.apply(&o); err != nil {
			return nil, err
		}
	}
	return &Map[V]{
		entries:     make([]entry[V], InitialCapacity),
		maxCapacity: o.maxCapacity,
	}, nil
}

// Len returns the number of keys in the map.
func (m *Map[V]) Len() int {
	return m.length
}

// Cap returns the number of slots in the map.
func (m *Map[V]) Cap() int {
	return len(m.entries)
}

// Get returns the value stored under key, and whether it was found.
func (m *Map[V]) Get(key string) (V, bool) {
	var zero V
	if len(m.entries) == 0 {
		return zero, false
	}
	if i, ok := m.find(key); ok {
		return m.entries[i].value, true
	}
	return zero, false
}

// find returns the slot index holding key.
func (m *Map[V]) find(key string) (int, bool) {
	capacity := len(m.entries)
	i := int(Hash(key) & uint64(capacity-1))
	for m.entries[i].used {
		if m.entries[i].key == key {
			return i, true
		}
		i = (i + 1) % capacity
	}
	return 0, false
}

// Set stores value under key and returns the key as stored in the map.  A key
// already present keeps its stored copy and only the value is replaced.  On
// error the map is unchanged.
func (m *Map[V]) Set(key string, value V) (string, error) {
	if isNil(value) {
		return "", ErrNilValue
	}
	if m.entries == nil {
		return "", ErrDestroyed
	}
	if m.length >= len(m.entries)/2 {
		if err := m.grow(); err != nil {
			// A full map can still replace the value of a key it holds.
			if i, ok := m.find(key); ok {
				m.entries[i].value = value
				return m.entries[i].key, nil
			}
			return "", err
		}
	}
	stored, added := setEntry(m.entries, key, value, true)
	if added {
		m.length++
	}
	return stored, nil
}

// setEntry probes entries for key, overwriting a match or filling the first
// empty slot.  copyKey is false when rehashing keys the map already owns.
func setEntry[V any](entries []entry[V], key string, value V, copyKey bool) (stored string, added bool) {
	capacity := len(entries)
	i := int(Hash(key) & uint64(capacity-1))
	for entries[i].used {
		if entries[i].key == key {
			entries[i].value = value
			return entries[i].key, false
		}
		i = (i + 1) % capacity
	}
	if copyKey {
		key = strings.Clone(key)
	}
	entries[i] = entry[V]{key: key, value: value, used: true}
	return key, true
}

// grow doubles the slot array, moving every entry into it.
func (m *Map[V]) grow() error {
	capacity := len(m.entries)
	if capacity > m.maxCapacity/2 {
		return errors.Wrapf(ErrCapacityOverflow, "cannot grow past %d slots", capacity)
	}
	newCapacity := capacity * 2
	entries := make([]entry[V], newCapacity)
	for _, e := range m.entries {
		if e.used {
			setEntry(entries, e.key, e.value, false)
		}
	}
	glog.V(2).Infof("hashmap grew from %d to %d slots with %d keys", capacity, newCapacity, m.length)
	growCount.Add(1)
	m.entries = entries
	return nil
}

// Destroy releases the keys and slots of the map.  Values are not touched.
// A destroyed map holds no keys and rejects Set.
func (m *Map[V]) Destroy() {
	m.entries = nil
	m.length = 0
}

// isNil reports whether v is a nil pointer, interface, map, slice, channel or
// function.
func isNil[V any](v V) bool {
	rv := reflect.ValueOf(&v).Elem()
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

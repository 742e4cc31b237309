// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package hashmap

const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

// Hash returns the 64-bit FNV-1a hash of key.  It is unseeded, so the same
// bytes always hash to the same value.
func Hash(key string) uint64 {
	h := fnvOffset
	for i := 0; i < len(key); i++ {
		h ^= uint64(key[i])
		h *= fnvPrime
	}
	return h
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ttlcache provides caching interfaces for in-process stores whose
// entries expire after a time-to-live.
package ttlcache

import "time"

// Cacher acts as a best effort key value store.
type Cacher[K comparable, V any] interface {
	// Put inserts an element into the cache.
	Put(key K, value V)

	// Get returns the entry with the key, if it exists.
	Get(key K) (V, bool)

	// Evict removes the specified entry from the cache.
	Evict(key K)

	// Flush removes all entries from the cache.
	Flush()

	// Len returns the number of elements in the cache.
	Len() int

	// PortionFilled returns fraction of cache currently filled (0 --> 1).
	PortionFilled() float64
}

// ExpiringCacher is a string keyed Cacher whose entries carry their own
// time-to-live.
type ExpiringCacher[V any] interface {
	Cacher[string, V]

	// PutWithTTL inserts value under key, expiring it after ttl. A ttl of -1
	// never expires. onExpire, if non-nil, is called with the key and
	// value once the entry's timer removes it. The stored value is returned.
	PutWithTTL(key string, value V, ttl time.Duration, onExpire func(string, V)) V

	// Delete removes the entry and reports whether a live entry was removed.
	Delete(key string) bool

	// Import loads a JSON snapshot of previously exported entries and returns
	// the resulting size.
	Import(snapshot []byte) (int, error)
}

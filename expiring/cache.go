// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package expiring provides a string keyed cache whose entries are removed by
// a per-entry timer once their time-to-live elapses.
package expiring

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luxfi/ttlcache"
)

const (
	// DefaultTTL is the TTL used by Put unless WithDefaultTTL overrides it.
	DefaultTTL = 10 * time.Minute

	// NoExpiration marks an entry that is only removed by Delete or Reset.
	// Other negative TTLs expire immediately.
	NoExpiration time.Duration = -1
)

var (
	_ ttlcache.Cacher[string, struct{}] = (*Cache[struct{}])(nil)
	_ ttlcache.ExpiringCacher[struct{}] = (*Cache[struct{}])(nil)
)

// entry is a cached value. A zero expireAt means the entry never expires and
// has no timer.
type entry[V any] struct {
	value     V
	expireAt  time.Time
	timer     Timer
	cancelled bool
}

// expired reports whether the entry is logically dead at now, whether or not
// its timer has fired.
func (e *entry[V]) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && e.expireAt.Before(now)
}

// cancel stops the entry's timer. Safe to call more than once.
func (e *entry[V]) cancel() {
	e.cancelled = true
	if e.timer != nil {
		e.timer.Stop()
	}
}

// Cache is a thread-safe TTL cache.
//
// Size tracks the number of entries the cache considers live, while MemSize
// and Keys report what is physically stored, which can include expired
// entries that have not been reaped yet.
type Cache[V any] struct {
	lock       sync.Mutex
	clock      Clock
	log        *zap.Logger
	defaultTTL time.Duration

	entries map[string]*entry[V]
	count   int

	debug  bool
	hits   int
	misses int
}

// New creates an empty cache.
func New[V any](opts ...Option) *Cache[V] {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Cache[V]{
		clock:      cfg.clock,
		log:        cfg.log,
		defaultTTL: cfg.defaultTTL,
		entries:    make(map[string]*entry[V]),
		debug:      cfg.debug,
	}
}

// Put inserts value under key with the default TTL.
func (c *Cache[V]) Put(key string, value V) {
	c.PutWithTTL(key, value, c.defaultTTL, nil)
}

// PutWithTTL inserts value under key, replacing and cancelling any previous
// entry. A ttl of NoExpiration stores the value without expiry; any other
// negative ttl is treated as zero. When the entry's timer fires the entry is
// removed and onExpire, if non-nil, is called with key and value. The value
// is returned unchanged.
func (c *Cache[V]) PutWithTTL(key string, value V, ttl time.Duration, onExpire func(string, V)) V {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.putLocked(key, value, ttl, onExpire)
	return value
}

func (c *Cache[V]) putLocked(key string, value V, ttl time.Duration, onExpire func(string, V)) {
	if c.debug {
		c.log.Debug("caching",
			zap.String("key", key),
			zap.Any("value", value),
			zap.Duration("ttl", ttl),
		)
	}

	if old, ok := c.entries[key]; ok {
		old.cancel()
	} else {
		c.count++
	}

	e := &entry[V]{value: value}
	if ttl != NoExpiration {
		ttl = max(ttl, 0)
		e.expireAt = c.clock.Now().Add(ttl)
		e.timer = c.clock.AfterFunc(ttl, func() {
			c.expire(key, e, onExpire)
		})
	}
	c.entries[key] = e
}

// expire runs when e's timer fires. Every path that replaces or drops an
// entry cancels it first, so a cancelled entry is never removed here even if
// its timer was already due.
func (c *Cache[V]) expire(key string, e *entry[V], onExpire func(string, V)) {
	c.lock.Lock()
	if e.cancelled {
		c.lock.Unlock()
		return
	}
	c.removeLocked(key)
	if c.debug {
		c.log.Debug("expired", zap.String("key", key))
	}
	c.lock.Unlock()

	if onExpire != nil {
		onExpire(key, e.value)
	}
}

// Get returns the value stored under key if it has not expired. An expired
// entry found here is removed immediately.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		if c.debug {
			c.misses++
			c.log.Debug("miss", zap.String("key", key))
		}
		return zero, false
	}

	if !e.expired(c.clock.Now()) {
		if c.debug {
			c.hits++
			c.log.Debug("hit", zap.String("key", key))
		}
		return e.value, true
	}

	if c.debug {
		c.misses++
		c.log.Debug("reaped", zap.String("key", key))
	}
	e.cancel()
	c.removeLocked(key)
	return zero, false
}

// Delete removes the entry under key and reports whether it did so.
//
// An entry whose TTL already elapsed but which has not been reaped yet is
// not deleted: its timer is cancelled, it stays in storage until the next
// Get or Reset, and Delete returns false.
func (c *Cache[V]) Delete(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.deleteLocked(key)
}

func (c *Cache[V]) deleteLocked(key string) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	e.cancel()
	if e.expired(c.clock.Now()) {
		return false
	}
	c.removeLocked(key)
	return true
}

// Evict removes the specified entry from the cache.
func (c *Cache[V]) Evict(key string) {
	c.Delete(key)
}

func (c *Cache[V]) removeLocked(key string) {
	delete(c.entries, key)
	c.count--
}

// Reset cancels every pending timer and removes all entries. Hit and miss
// counters are zeroed only while debug mode is on.
func (c *Cache[V]) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	for _, e := range c.entries {
		e.cancel()
	}
	c.entries = make(map[string]*entry[V])
	c.count = 0
	if c.debug {
		c.hits = 0
		c.misses = 0
	}
}

// Flush removes all entries from the cache.
func (c *Cache[V]) Flush() {
	c.Reset()
}

// Size returns the number of entries the cache counts as live.
func (c *Cache[V]) Size() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.count
}

// Len returns the number of elements in the cache.
func (c *Cache[V]) Len() int {
	return c.Size()
}

// MemSize returns the number of keys physically stored.
func (c *Cache[V]) MemSize() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.entries)
}

// Keys returns every stored key in sorted order, including expired entries
// that have not been reaped.
func (c *Cache[V]) Keys() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// PortionFilled returns 0 for an empty cache and 1 otherwise. The cache is
// unbounded.
func (c *Cache[V]) PortionFilled() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	if len(c.entries) == 0 {
		return 0
	}
	return 1
}

// SetDebug toggles hit/miss counting and diagnostic logging.
func (c *Cache[V]) SetDebug(enabled bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.debug = enabled
}

// Debug reports whether debug mode is on.
func (c *Cache[V]) Debug() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.debug
}

// Hits returns the number of hits counted while debug mode was on.
func (c *Cache[V]) Hits() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.hits
}

// Misses returns the number of misses counted while debug mode was on.
func (c *Cache[V]) Misses() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.misses
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metercacher provides metered cache implementations.
package metercacher

import (
	"time"

	"github.com/luxfi/metric"

	"github.com/luxfi/ttlcache"
)

var (
	_ ttlcache.Cacher[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)
	_ ttlcache.ExpiringCacher[struct{}]   = (*Expiring[struct{}])(nil)
)

// Cache wraps a Cacher with metrics.
type Cache[K comparable, V any] struct {
	ttlcache.Cacher[K, V]
	metrics *cacheMetrics
}

// New creates a new metered cache wrapper.
func New[K comparable, V any](
	namespace string,
	registry metric.Registry,
	c ttlcache.Cacher[K, V],
) (*Cache[K, V], error) {
	metrics, err := newMetrics(namespace, registry, c)
	return &Cache[K, V]{
		Cacher:  c,
		metrics: metrics,
	}, err
}

func (c *Cache[K, V]) Put(key K, value V) {
	start := time.Now()
	c.Cacher.Put(key, value)
	putDuration := time.Since(start)

	c.metrics.putCount.Inc()
	c.metrics.putTime.Add(float64(putDuration))
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	start := time.Now()
	value, has := c.Cacher.Get(key)
	getDuration := time.Since(start)

	if has {
		c.metrics.getCount.With(hitLabels).Inc()
		c.metrics.getTime.With(hitLabels).Add(float64(getDuration))
	} else {
		c.metrics.getCount.With(missLabels).Inc()
		c.metrics.getTime.With(missLabels).Add(float64(getDuration))
	}

	return value, has
}

// Expiring wraps an ExpiringCacher with metrics.
type Expiring[V any] struct {
	*Cache[string, V]
	cache ttlcache.ExpiringCacher[V]
}

// NewExpiring creates a new metered wrapper around a TTL cache.
func NewExpiring[V any](
	namespace string,
	registry metric.Registry,
	c ttlcache.ExpiringCacher[V],
) (*Expiring[V], error) {
	inner, err := New[string, V](namespace, registry, c)
	return &Expiring[V]{
		Cache: inner,
		cache: c,
	}, err
}

func (c *Expiring[V]) PutWithTTL(key string, value V, ttl time.Duration, onExpire func(string, V)) V {
	start := time.Now()
	value = c.cache.PutWithTTL(key, value, ttl, onExpire)
	putDuration := time.Since(start)

	c.metrics.putCount.Inc()
	c.metrics.putTime.Add(float64(putDuration))
	return value
}

func (c *Expiring[V]) Delete(key string) bool {
	deleted := c.cache.Delete(key)
	if deleted {
		c.metrics.deleteCount.With(hitLabels).Inc()
	} else {
		c.metrics.deleteCount.With(missLabels).Inc()
	}
	return deleted
}

func (c *Expiring[V]) Import(snapshot []byte) (int, error) {
	size, err := c.cache.Import(snapshot)
	if err != nil {
		c.metrics.importCount.With(failLabels).Inc()
		return size, err
	}
	c.metrics.importCount.With(okLabels).Inc()
	c.metrics.importedEntries.Set(float64(size))
	return size, nil
}

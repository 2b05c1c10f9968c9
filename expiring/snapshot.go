// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package expiring

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrMalformedSnapshot is returned by Import when the payload cannot be
// parsed.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// snapshotRecord is one exported entry. Expire is an absolute time in
// milliseconds since the Unix epoch; null means the entry never expires and
// an absent expire falls back to the default TTL.
type snapshotRecord struct {
	Value  json.RawMessage `json:"value"`
	Expire *int64          `json:"expire"`
}

type expiry int

const (
	expireAt expiry = iota
	expireNever
	expireDefault
)

type importRecord[V any] struct {
	key      string
	value    V
	expiry   expiry
	expireAt time.Time
}

// parseSnapshot decodes the whole payload before anything is imported.
func parseSnapshot[V any](snapshot []byte) ([]importRecord[V], error) {
	var raw map[string]snapshotRecord
	if err := json.Unmarshal(snapshot, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	// A null expire and a missing one both decode to a nil pointer.
	var fields map[string]map[string]any
	if err := json.Unmarshal(snapshot, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}

	records := make([]importRecord[V], 0, len(raw))
	for key, r := range raw {
		rec := importRecord[V]{key: key}
		if len(r.Value) > 0 {
			if err := json.Unmarshal(r.Value, &rec.value); err != nil {
				return nil, fmt.Errorf("%w: key %q: %w", ErrMalformedSnapshot, key, err)
			}
		}
		switch _, present := fields[key]["expire"]; {
		case r.Expire != nil:
			rec.expireAt = time.UnixMilli(*r.Expire)
		case present:
			rec.expiry = expireNever
		default:
			rec.expiry = expireDefault
		}
		records = append(records, rec)
	}
	slices.SortFunc(records, func(a, b importRecord[V]) int {
		return cmp.Compare(a.key, b.key)
	})
	return records, nil
}

// Import rehydrates entries from a JSON snapshot of the form
//
//	{"key": {"value": <any>, "expire": <unix millis or null>}}
//
// A null expire imports the entry without expiry and a missing one imports
// it with the default TTL. Every other entry is re-inserted with the TTL
// actually remaining until its expire time, without an expiry callback.
// Entries whose expire time has passed are skipped, and a live entry with the
// same key is deleted. An empty snapshot imports nothing. If the payload does
// not parse, the cache is left untouched. Import returns the cache size
// afterwards.
func (c *Cache[V]) Import(snapshot []byte) (int, error) {
	var records []importRecord[V]
	if len(snapshot) > 0 {
		var err error
		records, err = parseSnapshot[V](snapshot)
		if err != nil {
			return 0, err
		}
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	now := c.clock.Now()
	imported := 0
	for _, r := range records {
		switch r.expiry {
		case expireNever:
			c.putLocked(r.key, r.value, NoExpiration, nil)
			imported++
			continue
		case expireDefault:
			c.putLocked(r.key, r.value, c.defaultTTL, nil)
			imported++
			continue
		}

		remaining := r.expireAt.Sub(now)
		if remaining <= 0 {
			c.deleteLocked(r.key)
			continue
		}
		c.putLocked(r.key, r.value, remaining, nil)
		imported++
	}

	if c.debug {
		c.log.Debug("imported",
			zap.Int("records", len(records)),
			zap.Int("imported", imported),
			zap.Int("size", c.count),
		)
	}
	return c.count, nil
}

// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package expiring

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Cache.
type Option func(*config)

type config struct {
	defaultTTL time.Duration
	clock      Clock
	log        *zap.Logger
	debug      bool
}

func defaultConfig() config {
	return config{
		defaultTTL: DefaultTTL,
		clock:      RealClock{},
		log:        zap.NewNop(),
	}
}

// WithDefaultTTL sets the TTL used by Put. NoExpiration makes Put entries
// never expire.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.defaultTTL = ttl
	}
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the sink for diagnostic logs. Nothing is logged unless
// debug mode is on.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithDebug starts the cache with debug mode enabled.
func WithDebug(enabled bool) Option {
	return func(c *config) {
		c.debug = enabled
	}
}

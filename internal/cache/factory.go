// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// Type is the cache backend type: "memory" or "redis"
	Type string

	// RedisURL is the Redis connection URL (only for redis type)
	RedisURL string

	// Prefix is the key prefix for Redis (only for redis type)
	Prefix string

	// DefaultTTL is the default TTL for cache entries
	DefaultTTL time.Duration
}

// New creates a cache based on the provided configuration. An empty or
// unknown type falls back to the in-memory backend.
func New(cfg Config) (Cacher, error) {
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = time.Hour
	}

	if cfg.Type == "redis" && cfg.RedisURL != "" {
		return NewRedisCache(RedisCacheOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
	}

	return NewMemoryCache(cfg.DefaultTTL), nil
}

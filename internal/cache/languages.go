// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/newsdesk/newsdesk-go/internal/store"
)

const languagesKey = "languages:enabled"

// LanguageCache provides cached access to the enabled language registry.
// The workflow engine validates translation targets on every transition,
// so lookups are hot while the registry itself almost never changes.
type LanguageCache struct {
	cache   Cacher
	queries *store.Queries
	ttl     time.Duration
}

// NewLanguageCache creates a language cache over the given backend.
func NewLanguageCache(cache Cacher, queries *store.Queries) *LanguageCache {
	return &LanguageCache{
		cache:   cache,
		queries: queries,
		ttl:     time.Hour,
	}
}

// Enabled returns the enabled languages, loading from the store on a
// cache miss.
func (c *LanguageCache) Enabled(ctx context.Context) ([]store.Language, error) {
	if b, err := c.cache.Get(ctx, languagesKey); err == nil {
		var languages []store.Language
		if err := json.Unmarshal(b, &languages); err == nil {
			return languages, nil
		}
		// A corrupt entry is dropped and reloaded
		_ = c.cache.Delete(ctx, languagesKey)
	} else if !errors.Is(err, ErrCacheMiss) {
		return nil, err
	}

	languages, err := c.queries.ListEnabledLanguages(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(languages); err == nil {
		_ = c.cache.Set(ctx, languagesKey, b, c.ttl)
	}
	return languages, nil
}

// IsEnabled reports whether code names an enabled language.
func (c *LanguageCache) IsEnabled(ctx context.Context, code string) (bool, error) {
	languages, err := c.Enabled(ctx)
	if err != nil {
		return false, err
	}
	for _, l := range languages {
		if l.Code == code {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate drops the cached registry. Call after any language change.
func (c *LanguageCache) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, languagesKey)
}

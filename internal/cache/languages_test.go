// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsdesk-go/internal/cache"
	"github.com/newsdesk/newsdesk-go/internal/store"
	"github.com/newsdesk/newsdesk-go/internal/testutil"
)

func TestLanguageCache(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()
	q := store.New(db)

	now := time.Now()
	_, err := q.CreateLanguage(ctx, store.CreateLanguageParams{Code: "ZULU", Name: "isiZulu", Enabled: true, CreatedAt: now})
	require.NoError(t, err)
	_, err = q.CreateLanguage(ctx, store.CreateLanguageParams{Code: "FRENCH", Name: "French", Enabled: false, CreatedAt: now})
	require.NoError(t, err)

	backend := cache.NewMemoryCache(time.Minute)
	defer backend.Close()
	lc := cache.NewLanguageCache(backend, q)

	enabled, err := lc.Enabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "ZULU", enabled[0].Code)

	ok, err := lc.IsEnabled(ctx, "ZULU")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = lc.IsEnabled(ctx, "FRENCH")
	require.NoError(t, err)
	assert.False(t, ok)

	// A language added after the first load only appears once the cache
	// is invalidated.
	_, err = q.CreateLanguage(ctx, store.CreateLanguageParams{Code: "XHOSA", Name: "isiXhosa", Enabled: true, CreatedAt: now})
	require.NoError(t, err)

	enabled, err = lc.Enabled(ctx)
	require.NoError(t, err)
	assert.Len(t, enabled, 1, "stale until invalidated")

	require.NoError(t, lc.Invalidate(ctx))
	enabled, err = lc.Enabled(ctx)
	require.NoError(t, err)
	assert.Len(t, enabled, 2)
}

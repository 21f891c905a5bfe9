// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(missing) error = %v, want ErrCacheMiss", err)
	}

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get() = %q, want %q", got, "value")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(expired) error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(deleted) error = %v, want ErrCacheMiss", err)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := c.Get(ctx, "b"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(cleared) error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheValueCopied(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	original := []byte("value")
	_ = c.Set(ctx, "key", original, 0)
	original[0] = 'X'

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get() = %q, stored value was mutated through the caller's slice", got)
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set() after Close error = %v, want ErrCacheClosed", err)
	}
	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get() after Close error = %v, want ErrCacheClosed", err)
	}
}

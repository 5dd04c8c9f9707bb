// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package guardcache

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guards.db")
	c, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close(): %v", err)
		}
	})
	return c
}

func TestLookupMiss(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	if _, ok, err := c.Lookup(ctx, "missing.h", 100, 1); err != nil {
		t.Fatalf("Lookup: %v", err)
	} else if ok {
		t.Error("Lookup on an empty cache reported a hit")
	}
}

func TestStoreThenLookup(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.Store(ctx, "foo.h", 200, 42, "FOO_H"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	macro, ok, err := c.Lookup(ctx, "foo.h", 200, 42)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok || macro != "FOO_H" {
		t.Errorf("Lookup(foo.h, 200, 42) = %q, %v; want %q, true", macro, ok, "FOO_H")
	}
}

func TestStoreOverwritesOnConflict(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.Store(ctx, "foo.h", 200, 42, "FOO_H"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := c.Store(ctx, "foo.h", 200, 42, "FOO_H_RENAMED"); err != nil {
		t.Fatalf("Store (overwrite): %v", err)
	}

	macro, ok, err := c.Lookup(ctx, "foo.h", 200, 42)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok || macro != "FOO_H_RENAMED" {
		t.Errorf("Lookup after overwrite = %q, %v; want %q, true", macro, ok, "FOO_H_RENAMED")
	}
}

func TestLookupMissesOnChangedModTime(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.Store(ctx, "foo.h", 200, 42, "FOO_H"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	if _, ok, err := c.Lookup(ctx, "foo.h", 200, 43); err != nil {
		t.Fatalf("Lookup: %v", err)
	} else if ok {
		t.Error("Lookup with a different mod_time reported a hit; want a miss (the header changed)")
	}
}

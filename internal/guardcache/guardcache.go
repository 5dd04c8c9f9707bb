// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

// Package guardcache remembers, for a header file identified by path
// plus size and modification time, the controlling macro GuardDetect
// previously found for it — the standard "multiple-include
// optimization" that lets a caller skip re-lexing and re-evaluating a
// header's #if ladder once it's known to be guarded and already
// defined.
package guardcache

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitemigration"
	"zombiezen.com/go/sqlite/sqlitex"
)

var schema = sqlitemigration.Schema{
	Migrations: []string{
		`CREATE TABLE controlling_macro (
			path TEXT NOT NULL,
			size INTEGER NOT NULL,
			mod_time INTEGER NOT NULL,
			macro_name TEXT NOT NULL,
			PRIMARY KEY (path, size, mod_time)
		);`,
	},
}

func prepareConn(conn *sqlite.Conn) error {
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA journal_mode = wal;", nil); err != nil {
		return err
	}
	return sqlitex.ExecuteTransient(conn, "PRAGMA foreign_keys = on;", nil)
}

// Cache is a controlling-macro cache backed by a SQLite database.
// Callers are responsible for calling [Cache.Close].
type Cache struct {
	db *sqlitemigration.Pool
}

// Open opens (creating if necessary) the cache database at path.
func Open(ctx context.Context, path string) (*Cache, error) {
	pool := sqlitemigration.NewPool(path, schema, sqlitemigration.Options{
		Flags:       sqlite.OpenCreate | sqlite.OpenReadWrite,
		PrepareConn: prepareConn,
	})
	// Force the pool to open and migrate now rather than on first use,
	// so Open can report a connection failure immediately.
	conn, err := pool.Get(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("open guard cache %s: %w", path, err)
	}
	pool.Put(conn)
	return &Cache{db: pool}, nil
}

// Close releases the cache's database connections.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup reports the controlling macro previously recorded for a
// header identified by path, size, and modTime (a Unix timestamp in
// nanoseconds), if any. ok is false on a cache miss as well as on any
// of the header's identifying fields having changed since the macro
// was recorded.
func (c *Cache) Lookup(ctx context.Context, path string, size, modTime int64) (macro string, ok bool, err error) {
	conn, err := c.db.Get(ctx)
	if err != nil {
		return "", false, err
	}
	defer c.db.Put(conn)

	err = sqlitex.ExecuteTransient(conn,
		`SELECT macro_name FROM controlling_macro WHERE path = ? AND size = ? AND mod_time = ?;`,
		&sqlitex.ExecOptions{
			Args: []any{path, size, modTime},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				macro = stmt.ColumnText(0)
				ok = true
				return nil
			},
		})
	if err != nil {
		return "", false, fmt.Errorf("guard cache lookup %s: %w", path, err)
	}
	return macro, ok, nil
}

// Store records that path (identified by size and modTime) has
// controlling macro name. A previous entry for the same identifying
// fields is replaced.
func (c *Cache) Store(ctx context.Context, path string, size, modTime int64, name string) error {
	conn, err := c.db.Get(ctx)
	if err != nil {
		return err
	}
	defer c.db.Put(conn)

	err = sqlitex.ExecuteTransient(conn,
		`INSERT INTO controlling_macro (path, size, mod_time, macro_name) VALUES (?, ?, ?, ?)
		 ON CONFLICT (path, size, mod_time) DO UPDATE SET macro_name = excluded.macro_name;`,
		&sqlitex.ExecOptions{
			Args: []any{path, size, modTime, name},
		})
	if err != nil {
		return fmt.Errorf("guard cache store %s: %w", path, err)
	}
	return nil
}

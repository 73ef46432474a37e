// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// postgres.go — PostgreSQL-backed Backend implementation: a two-column
// key/value table written with INSERT ... ON CONFLICT DO UPDATE, plus an
// EnsureTable migration helper.

package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultPostgresTable is the table used when none is configured.
const DefaultPostgresTable = "hyperstorage_entries"

// Postgres is a Backend stored in a PostgreSQL table of
// (key TEXT PRIMARY KEY, value TEXT NOT NULL).
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgres creates a Postgres backend over an existing pool. table falls
// back to DefaultPostgresTable when empty. The table is not created here;
// call EnsureTable once during deployment or test setup.
func NewPostgres(pool *pgxpool.Pool, table string) *Postgres {
	if table == "" {
		table = DefaultPostgresTable
	}
	return &Postgres{pool: pool, table: table}
}

// EnsureTable creates the key/value table if it does not exist.
func (p *Postgres) EnsureTable(ctx context.Context) error {
	sql := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)",
		p.table,
	)
	if _, err := p.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("postgres ensure table %s: %w", p.table, err)
	}
	return nil
}

// Get returns the entry stored under key; a missing row maps to absence.
func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	sql := fmt.Sprintf("SELECT value FROM %s WHERE key = $1", p.table)
	var value string
	err := p.pool.QueryRow(ctx, sql, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	sql := fmt.Sprintf(
		"INSERT INTO %s (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
		p.table,
	)
	if _, err := p.pool.Exec(ctx, sql, key, value); err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE key = $1", p.table)
	if _, err := p.pool.Exec(ctx, sql, key); err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

// Ping verifies the pool is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

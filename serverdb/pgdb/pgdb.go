// Copyright (C) 2026 kpfile
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package pgdb implements the serverdb backend contract over PostgreSQL.
// One table per category; multi-valued fields are stored as comma-joined
// columns. Group and kit mutations are intentionally not implemented by
// this backend.
package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kpfile/Minecraft-Server-Mod/internal/dbopen"
	"github.com/kpfile/Minecraft-Server-Mod/serverdb"
	"github.com/kpfile/Minecraft-Server-Mod/serverdb/pgdb/migrations"
)

// Store provides the relational backend. It owns the connection pool; the
// pool serializes concurrent backend calls so interleaved operations never
// corrupt each other.
type Store struct {
	pool *pgxpool.Pool
}

var _ serverdb.Source = (*Store)(nil)

// Connect opens the pool, verifies connectivity and checks that the schema
// is at the expected migration version. An empty connString falls back to
// the GAMEDB_* environment variables.
func Connect(ctx context.Context, connString string) (*Store, error) {
	if connString == "" {
		var err error
		connString, err = dbopen.GetDatabaseURLFromEnv("GAMEDB")
		if err != nil {
			return nil, errors.Join(dbopen.ErrDatabaseNotConfigured, fmt.Errorf("failed to get GAMEDB connection string: %w", err))
		}
	}

	pool, err := newConnectionPool(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := migrations.CheckVersion(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("GAMEDB migration version check failed: %w", err)
	}

	return &Store{pool: pool}, nil
}

func newConnectionPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Pool exposes the underlying pool for migrations and tests.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

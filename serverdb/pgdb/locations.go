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

package pgdb

import (
	"context"
	"fmt"

	"github.com/kpfile/Minecraft-Server-Mod/serverdb"
)

// LoadHomes returns every home row.
func (s *Store) LoadHomes(ctx context.Context) ([]serverdb.Location, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, x, y, z, rotx, roty FROM homes`)
	if err != nil {
		return nil, fmt.Errorf("query homes: %w", err)
	}
	defer rows.Close()

	var homes []serverdb.Location
	for rows.Next() {
		var loc serverdb.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.X, &loc.Y, &loc.Z, &loc.RotX, &loc.RotY); err != nil {
			return homes, fmt.Errorf("scan home: %w", err)
		}
		homes = append(homes, loc)
	}
	if err := rows.Err(); err != nil {
		return homes, fmt.Errorf("iterate homes: %w", err)
	}
	return homes, nil
}

// LoadWarps returns every warp row, including the required-group column.
func (s *Store) LoadWarps(ctx context.Context) ([]serverdb.Location, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, grp, x, y, z, rotx, roty FROM warps`)
	if err != nil {
		return nil, fmt.Errorf("query warps: %w", err)
	}
	defer rows.Close()

	var warps []serverdb.Location
	for rows.Next() {
		var loc serverdb.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Group, &loc.X, &loc.Y, &loc.Z, &loc.RotX, &loc.RotY); err != nil {
			return warps, fmt.Errorf("scan warp: %w", err)
		}
		warps = append(warps, loc)
	}
	if err := rows.Err(); err != nil {
		return warps, fmt.Errorf("iterate warps: %w", err)
	}
	return warps, nil
}

// AddHome inserts a home and returns it with the generated id.
func (s *Store) AddHome(ctx context.Context, home serverdb.Location) (serverdb.Location, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO homes (name, x, y, z, rotx, roty)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		home.Name, home.X, home.Y, home.Z, home.RotX, home.RotY,
	).Scan(&home.ID)
	if err != nil {
		return serverdb.Location{}, fmt.Errorf("insert home: %w", err)
	}
	return home, nil
}

// ChangeHome upserts a home by name so the durable row and the cache can
// never diverge on a change to a home that does not exist yet.
func (s *Store) ChangeHome(ctx context.Context, home serverdb.Location) (serverdb.Location, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO homes (name, x, y, z, rotx, roty)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (LOWER(name)) DO UPDATE
		SET x = excluded.x, y = excluded.y, z = excluded.z, rotx = excluded.rotx, roty = excluded.roty
		RETURNING id`,
		home.Name, home.X, home.Y, home.Z, home.RotX, home.RotY,
	).Scan(&home.ID)
	if err != nil {
		return serverdb.Location{}, fmt.Errorf("upsert home: %w", err)
	}
	return home, nil
}

// AddWarp inserts a warp and returns it with the generated id.
func (s *Store) AddWarp(ctx context.Context, warp serverdb.Location) (serverdb.Location, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO warps (name, grp, x, y, z, rotx, roty)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		warp.Name, warp.Group, warp.X, warp.Y, warp.Z, warp.RotX, warp.RotY,
	).Scan(&warp.ID)
	if err != nil {
		return serverdb.Location{}, fmt.Errorf("insert warp: %w", err)
	}
	return warp, nil
}

// ChangeWarp upserts a warp by name, like ChangeHome.
func (s *Store) ChangeWarp(ctx context.Context, warp serverdb.Location) (serverdb.Location, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO warps (name, grp, x, y, z, rotx, roty)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (LOWER(name)) DO UPDATE
		SET grp = excluded.grp, x = excluded.x, y = excluded.y, z = excluded.z, rotx = excluded.rotx, roty = excluded.roty
		RETURNING id`,
		warp.Name, warp.Group, warp.X, warp.Y, warp.Z, warp.RotX, warp.RotY,
	).Scan(&warp.ID)
	if err != nil {
		return serverdb.Location{}, fmt.Errorf("upsert warp: %w", err)
	}
	return warp, nil
}

// RemoveWarp deletes a warp by name, case-insensitively.
func (s *Store) RemoveWarp(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM warps WHERE LOWER(name) = LOWER($1)`, name); err != nil {
		return fmt.Errorf("delete warp: %w", err)
	}
	return nil
}

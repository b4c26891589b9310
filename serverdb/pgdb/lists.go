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
)

func (s *Store) loadNameList(ctx context.Context, table string) ([]string, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT name FROM %s`, table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return names, fmt.Errorf("scan %s entry: %w", table, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return names, fmt.Errorf("iterate %s: %w", table, err)
	}
	return names, nil
}

// LoadWhitelist returns every whitelisted player name.
func (s *Store) LoadWhitelist(ctx context.Context) ([]string, error) {
	return s.loadNameList(ctx, "whitelist")
}

// LoadReserveList returns every reserved player name.
func (s *Store) LoadReserveList(ctx context.Context) ([]string, error) {
	return s.loadNameList(ctx, "reservelist")
}

// AddToWhitelist inserts a whitelist entry; re-adding an existing name is
// a no-op.
func (s *Store) AddToWhitelist(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, `INSERT INTO whitelist (name) VALUES ($1) ON CONFLICT DO NOTHING`, name); err != nil {
		return fmt.Errorf("insert whitelist entry: %w", err)
	}
	return nil
}

// RemoveFromWhitelist deletes a whitelist entry, case-insensitively.
func (s *Store) RemoveFromWhitelist(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM whitelist WHERE LOWER(name) = LOWER($1)`, name); err != nil {
		return fmt.Errorf("delete whitelist entry: %w", err)
	}
	return nil
}

// AddToReserveList inserts a reserve list entry; re-adding an existing
// name is a no-op.
func (s *Store) AddToReserveList(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, `INSERT INTO reservelist (name) VALUES ($1) ON CONFLICT DO NOTHING`, name); err != nil {
		return fmt.Errorf("insert reservelist entry: %w", err)
	}
	return nil
}

// RemoveFromReserveList deletes a reserve list entry, case-insensitively.
func (s *Store) RemoveFromReserveList(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM reservelist WHERE LOWER(name) = LOWER($1)`, name); err != nil {
		return fmt.Errorf("delete reservelist entry: %w", err)
	}
	return nil
}

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

// LoadKits returns every kit row. Item lists are decoded from the
// "<id>[ <amount>]" comma-joined column format.
func (s *Store) LoadKits(ctx context.Context) ([]serverdb.Kit, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, grp, delay, items FROM kits`)
	if err != nil {
		return nil, fmt.Errorf("query kits: %w", err)
	}
	defer rows.Close()

	var kits []serverdb.Kit
	for rows.Next() {
		var k serverdb.Kit
		var items string
		if err := rows.Scan(&k.ID, &k.Name, &k.Group, &k.Delay, &items); err != nil {
			return kits, fmt.Errorf("scan kit: %w", err)
		}
		k.Items = serverdb.DecodeItems(items)
		kits = append(kits, k)
	}
	if err := rows.Err(); err != nil {
		return kits, fmt.Errorf("iterate kits: %w", err)
	}
	return kits, nil
}

// AddKit is not implemented by the relational backend; kits are managed
// out of band.
func (s *Store) AddKit(ctx context.Context, kit serverdb.Kit) (serverdb.Kit, error) {
	return serverdb.Kit{}, fmt.Errorf("add kit %q: %w", kit.Name, serverdb.ErrNotSupported)
}

// ModifyKit is not implemented by the relational backend.
func (s *Store) ModifyKit(ctx context.Context, kit serverdb.Kit) error {
	return fmt.Errorf("modify kit %q: %w", kit.Name, serverdb.ErrNotSupported)
}

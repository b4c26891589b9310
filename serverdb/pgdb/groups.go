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

// LoadGroups returns every group row.
func (s *Store) LoadGroups(ctx context.Context) ([]serverdb.Group, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, commands, defaultgroup, admin, canmodifyworld, ignoresrestrictions, inheritedgroups, prefix
		FROM groups`)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	var groups []serverdb.Group
	for rows.Next() {
		var g serverdb.Group
		var commands, inherited string
		if err := rows.Scan(&g.ID, &g.Name, &commands, &g.DefaultGroup, &g.Admin, &g.CanModifyWorld, &g.IgnoreRestrictions, &inherited, &g.Prefix); err != nil {
			return groups, fmt.Errorf("scan group: %w", err)
		}
		g.Commands = serverdb.SplitList(commands)
		g.InheritedGroups = serverdb.SplitList(inherited)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return groups, fmt.Errorf("iterate groups: %w", err)
	}
	return groups, nil
}

// AddGroup is not implemented by the relational backend; groups are
// managed out of band.
func (s *Store) AddGroup(ctx context.Context, group serverdb.Group) (serverdb.Group, error) {
	return serverdb.Group{}, fmt.Errorf("add group %q: %w", group.Name, serverdb.ErrNotSupported)
}

// ModifyGroup is not implemented by the relational backend.
func (s *Store) ModifyGroup(ctx context.Context, group serverdb.Group) error {
	return fmt.Errorf("modify group %q: %w", group.Name, serverdb.ErrNotSupported)
}

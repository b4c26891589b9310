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

// LoadUsers returns every user row. On a scan error the rows decoded so
// far are returned alongside the error.
func (s *Store) LoadUsers(ctx context.Context) ([]serverdb.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, groups, prefix, commands, admin, canmodifyworld, ignoresrestrictions
		FROM users`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []serverdb.User
	for rows.Next() {
		var u serverdb.User
		var groups, commands string
		if err := rows.Scan(&u.ID, &u.Name, &groups, &u.Prefix, &commands, &u.Admin, &u.CanModifyWorld, &u.IgnoreRestrictions); err != nil {
			return users, fmt.Errorf("scan user: %w", err)
		}
		u.Groups = serverdb.SplitList(groups)
		u.Commands = serverdb.SplitList(commands)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return users, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// AddUser inserts a user and returns it with the generated id.
func (s *Store) AddUser(ctx context.Context, user serverdb.User) (serverdb.User, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (name, groups, prefix, commands, admin, canmodifyworld, ignoresrestrictions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		user.Name,
		serverdb.JoinList(user.Groups),
		user.Prefix,
		serverdb.JoinList(user.Commands),
		user.Admin,
		user.CanModifyWorld,
		user.IgnoreRestrictions,
	).Scan(&user.ID)
	if err != nil {
		return serverdb.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// ModifyUser updates a user row by id.
func (s *Store) ModifyUser(ctx context.Context, user serverdb.User) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET groups = $1, prefix = $2, commands = $3, admin = $4, canmodifyworld = $5, ignoresrestrictions = $6
		WHERE id = $7`,
		serverdb.JoinList(user.Groups),
		user.Prefix,
		serverdb.JoinList(user.Commands),
		user.Admin,
		user.CanModifyWorld,
		user.IgnoreRestrictions,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update user %d: %w", user.ID, serverdb.ErrNotFound)
	}
	return nil
}

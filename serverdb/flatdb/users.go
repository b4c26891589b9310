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

package flatdb

import (
	"context"
	"fmt"

	"github.com/kpfile/Minecraft-Server-Mod/serverdb"
)

// LoadUsers returns every user on file.
func (s *Store) LoadUsers(ctx context.Context) ([]serverdb.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []userRecord
	if err := s.readInto(usersFile, &records); err != nil {
		return nil, err
	}
	users := make([]serverdb.User, 0, len(records))
	for _, r := range records {
		users = append(users, r.toUser())
	}
	return users, nil
}

// AddUser appends a user and returns it with the assigned id.
func (s *Store) AddUser(ctx context.Context, user serverdb.User) (serverdb.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []userRecord
	if err := s.readInto(usersFile, &records); err != nil {
		return serverdb.User{}, err
	}
	user.ID = nextID(records)
	records = append(records, toUserRecord(user))
	if err := s.writeFile(usersFile, records); err != nil {
		return serverdb.User{}, err
	}
	return user, nil
}

// ModifyUser rewrites the matching user entry by id.
func (s *Store) ModifyUser(ctx context.Context, user serverdb.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []userRecord
	if err := s.readInto(usersFile, &records); err != nil {
		return err
	}
	for i := range records {
		if records[i].ID == user.ID {
			records[i] = toUserRecord(user)
			return s.writeFile(usersFile, records)
		}
	}
	return fmt.Errorf("modify user %d: %w", user.ID, serverdb.ErrNotFound)
}

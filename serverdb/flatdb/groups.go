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

// LoadGroups returns every group on file.
func (s *Store) LoadGroups(ctx context.Context) ([]serverdb.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []groupRecord
	if err := s.readInto(groupsFile, &records); err != nil {
		return nil, err
	}
	groups := make([]serverdb.Group, 0, len(records))
	for _, r := range records {
		groups = append(groups, r.toGroup())
	}
	return groups, nil
}

// AddGroup appends a group and returns it with the assigned id.
func (s *Store) AddGroup(ctx context.Context, group serverdb.Group) (serverdb.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []groupRecord
	if err := s.readInto(groupsFile, &records); err != nil {
		return serverdb.Group{}, err
	}
	group.ID = nextID(records)
	records = append(records, toGroupRecord(group))
	if err := s.writeFile(groupsFile, records); err != nil {
		return serverdb.Group{}, err
	}
	return group, nil
}

// ModifyGroup rewrites the matching group entry by id.
func (s *Store) ModifyGroup(ctx context.Context, group serverdb.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []groupRecord
	if err := s.readInto(groupsFile, &records); err != nil {
		return err
	}
	for i := range records {
		if records[i].ID == group.ID {
			records[i] = toGroupRecord(group)
			return s.writeFile(groupsFile, records)
		}
	}
	return fmt.Errorf("modify group %d: %w", group.ID, serverdb.ErrNotFound)
}

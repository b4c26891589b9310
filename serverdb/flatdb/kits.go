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

// LoadKits returns every kit on file.
func (s *Store) LoadKits(ctx context.Context) ([]serverdb.Kit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []kitRecord
	if err := s.readInto(kitsFile, &records); err != nil {
		return nil, err
	}
	kits := make([]serverdb.Kit, 0, len(records))
	for _, r := range records {
		kits = append(kits, r.toKit())
	}
	return kits, nil
}

// AddKit appends a kit and returns it with the assigned id.
func (s *Store) AddKit(ctx context.Context, kit serverdb.Kit) (serverdb.Kit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []kitRecord
	if err := s.readInto(kitsFile, &records); err != nil {
		return serverdb.Kit{}, err
	}
	kit.ID = nextID(records)
	records = append(records, toKitRecord(kit))
	if err := s.writeFile(kitsFile, records); err != nil {
		return serverdb.Kit{}, err
	}
	return kit, nil
}

// ModifyKit rewrites the matching kit entry by id.
func (s *Store) ModifyKit(ctx context.Context, kit serverdb.Kit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []kitRecord
	if err := s.readInto(kitsFile, &records); err != nil {
		return err
	}
	for i := range records {
		if records[i].ID == kit.ID {
			records[i] = toKitRecord(kit)
			return s.writeFile(kitsFile, records)
		}
	}
	return fmt.Errorf("modify kit %d: %w", kit.ID, serverdb.ErrNotFound)
}

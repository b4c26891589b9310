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
	"strings"

	"github.com/kpfile/Minecraft-Server-Mod/serverdb"
)

func (s *Store) loadLocations(file string) ([]serverdb.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []locationRecord
	if err := s.readInto(file, &records); err != nil {
		return nil, err
	}
	locs := make([]serverdb.Location, 0, len(records))
	for _, r := range records {
		locs = append(locs, r.toLocation())
	}
	return locs, nil
}

func (s *Store) addLocation(file string, loc serverdb.Location) (serverdb.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []locationRecord
	if err := s.readInto(file, &records); err != nil {
		return serverdb.Location{}, err
	}
	loc.ID = nextID(records)
	records = append(records, toLocationRecord(loc))
	if err := s.writeFile(file, records); err != nil {
		return serverdb.Location{}, err
	}
	return loc, nil
}

func (s *Store) upsertLocation(file string, loc serverdb.Location) (serverdb.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []locationRecord
	if err := s.readInto(file, &records); err != nil {
		return serverdb.Location{}, err
	}
	for i := range records {
		if strings.EqualFold(records[i].Name, loc.Name) {
			loc.ID = records[i].ID
			records[i] = toLocationRecord(loc)
			if err := s.writeFile(file, records); err != nil {
				return serverdb.Location{}, err
			}
			return loc, nil
		}
	}
	loc.ID = nextID(records)
	records = append(records, toLocationRecord(loc))
	if err := s.writeFile(file, records); err != nil {
		return serverdb.Location{}, err
	}
	return loc, nil
}

// LoadHomes returns every home on file.
func (s *Store) LoadHomes(ctx context.Context) ([]serverdb.Location, error) {
	return s.loadLocations(homesFile)
}

// LoadWarps returns every warp on file.
func (s *Store) LoadWarps(ctx context.Context) ([]serverdb.Location, error) {
	return s.loadLocations(warpsFile)
}

// AddHome appends a home and returns it with the assigned id.
func (s *Store) AddHome(ctx context.Context, home serverdb.Location) (serverdb.Location, error) {
	return s.addLocation(homesFile, home)
}

// ChangeHome upserts a home by name.
func (s *Store) ChangeHome(ctx context.Context, home serverdb.Location) (serverdb.Location, error) {
	return s.upsertLocation(homesFile, home)
}

// AddWarp appends a warp and returns it with the assigned id.
func (s *Store) AddWarp(ctx context.Context, warp serverdb.Location) (serverdb.Location, error) {
	return s.addLocation(warpsFile, warp)
}

// ChangeWarp upserts a warp by name.
func (s *Store) ChangeWarp(ctx context.Context, warp serverdb.Location) (serverdb.Location, error) {
	return s.upsertLocation(warpsFile, warp)
}

// RemoveWarp deletes a warp by name, case-insensitively.
func (s *Store) RemoveWarp(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []locationRecord
	if err := s.readInto(warpsFile, &records); err != nil {
		return err
	}
	kept := records[:0]
	for _, r := range records {
		if !strings.EqualFold(r.Name, name) {
			kept = append(kept, r)
		}
	}
	return s.writeFile(warpsFile, kept)
}

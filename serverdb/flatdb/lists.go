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
)

func (s *Store) loadNameList(file string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	if err := s.readInto(file, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Store) addToNameList(file, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	if err := s.readInto(file, &names); err != nil {
		return err
	}
	for _, entry := range names {
		if strings.EqualFold(entry, name) {
			return nil
		}
	}
	return s.writeFile(file, append(names, name))
}

func (s *Store) removeFromNameList(file, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	if err := s.readInto(file, &names); err != nil {
		return err
	}
	kept := names[:0]
	for _, entry := range names {
		if !strings.EqualFold(entry, name) {
			kept = append(kept, entry)
		}
	}
	return s.writeFile(file, kept)
}

// LoadWhitelist returns every whitelisted player name on file.
func (s *Store) LoadWhitelist(ctx context.Context) ([]string, error) {
	return s.loadNameList(whitelistFile)
}

// LoadReserveList returns every reserved player name on file.
func (s *Store) LoadReserveList(ctx context.Context) ([]string, error) {
	return s.loadNameList(reservelistFile)
}

// AddToWhitelist appends a whitelist entry; re-adding is a no-op.
func (s *Store) AddToWhitelist(ctx context.Context, name string) error {
	return s.addToNameList(whitelistFile, name)
}

// RemoveFromWhitelist deletes a whitelist entry, case-insensitively.
func (s *Store) RemoveFromWhitelist(ctx context.Context, name string) error {
	return s.removeFromNameList(whitelistFile, name)
}

// AddToReserveList appends a reserve list entry; re-adding is a no-op.
func (s *Store) AddToReserveList(ctx context.Context, name string) error {
	return s.addToNameList(reservelistFile, name)
}

// RemoveFromReserveList deletes a reserve list entry, case-insensitively.
func (s *Store) RemoveFromReserveList(ctx context.Context, name string) error {
	return s.removeFromNameList(reservelistFile, name)
}

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

// Package flatdb implements the serverdb backend contract over one YAML
// file per category in a data directory. Unlike the relational backend it
// implements the full contract, including group and kit mutations.
package flatdb

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kpfile/Minecraft-Server-Mod/serverdb"
)

const (
	usersFile       = "users.yaml"
	groupsFile      = "groups.yaml"
	kitsFile        = "kits.yaml"
	homesFile       = "homes.yaml"
	warpsFile       = "warps.yaml"
	itemsFile       = "items.yaml"
	whitelistFile   = "whitelist.yaml"
	reservelistFile = "reservelist.yaml"
)

// Store provides the flat-file backend. A single mutex serializes
// read-modify-write cycles so interleaved mutations never clobber each
// other's file writes.
type Store struct {
	dir string
	mu  sync.Mutex
}

var _ serverdb.Source = (*Store)(nil)

// Open prepares a flat-file store rooted at dir, creating the directory
// if needed. Missing category files read as empty categories.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("flat-file data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Close is a no-op; files are closed after every operation.
func (s *Store) Close() error {
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readInto decodes a category file into out. A missing file leaves out at
// its zero value.
func (s *Store) readInto(name string, out any) error {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// writeFile replaces a category file atomically: the new content lands in
// a temp file first and is renamed over the old one.
func (s *Store) writeFile(name string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
